package voltc

import (
	"strings"
	"testing"

	"github.com/voltlang/voltc/internal/testutil"
)

const basicCircuit = `
VoltageSource V1(9, V);
Resistor R1(1000, ohm);
Connect(V1.positive, R1.positive);
Connect(R1.negative, V1.negative);
Simulate { dc; }
`

func TestCompileBasic(t *testing.T) {
	result, err := Compile([]byte(basicCircuit))
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}
	testutil.True(t, result.Ok(), "errors: %v", result.Errors)
	testutil.NotNil(t, result.Program, "program retained")
	testutil.Len(t, result.Netlist, 4, "two components, .OP, comment")

	text := strings.Join(result.Netlist, "\n")
	testutil.Contains(t, text, "9V", "source value")
	testutil.Contains(t, text, "1k", "resistor value")
	testutil.Contains(t, text, ".OP", "dc directive")
}

func TestCompileEmptySource(t *testing.T) {
	_, err := Compile([]byte("   \n\t"))
	testutil.Equal(t, ErrEmptySource, err, "sentinel error")
}

func TestCompileLexFailure(t *testing.T) {
	_, err := Compile([]byte("Resistor R1(1k) @;"), WithFilename("bad.ckt"))
	se, ok := AsSourceError(err)
	testutil.True(t, ok, "source error, have %v", err)
	testutil.Equal(t, "lex", se.Phase, "phase")
	testutil.Equal(t, "bad.ckt", se.File, "filename attached")
	testutil.Greater(t, se.Line, 0, "location")
}

func TestCompileParseFailure(t *testing.T) {
	_, err := Compile([]byte("Resistor R1(1k)"))
	se, ok := AsSourceError(err)
	testutil.True(t, ok, "source error, have %v", err)
	testutil.Equal(t, "parse", se.Phase, "phase")
}

func TestCompileSemanticErrorsWithholdNetlist(t *testing.T) {
	result, err := Compile([]byte(`
Resistor R1(1k);
Resistor R1(2k);
Simulate { dc; }
`))
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}
	testutil.False(t, result.Ok(), "duplicate reported")
	testutil.Len(t, result.Netlist, 0, "netlist withheld")
	testutil.NotNil(t, result.Program, "program still available")
	testutil.Equal(t, "duplicate-definition", result.Errors[0].Code, "code")
	testutil.Equal(t, "error", result.Errors[0].Severity, "severity")
}

func TestCompileWarningsDoNotBlock(t *testing.T) {
	result, err := Compile([]byte(`
Resistor R1(1k);
Connect(R1.positive, vin);
`))
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}
	testutil.True(t, result.Ok(), "warnings only")
	testutil.NotEmpty(t, result.Warnings, "no-analysis warning")
	testutil.Equal(t, "warning", result.Warnings[0].Severity, "severity")
	testutil.NotEmpty(t, result.Netlist, "netlist still produced")
}

func TestCompileFilenameOnDiagnostics(t *testing.T) {
	result, err := Compile([]byte(`
Resistor R1(undefined_var);
Simulate { dc; }
`), WithFilename("rc.ckt"))
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}
	testutil.False(t, result.Ok(), "undefined reference")
	testutil.Equal(t, "rc.ckt", result.Errors[0].File, "filename")
	testutil.Contains(t, result.Errors[0].String(), "rc.ckt", "rendered location")
}

func TestCompileMaxDepth(t *testing.T) {
	result, err := Compile([]byte(`
Macro recur() {
    recur();
};
recur();
Simulate { dc; }
`), WithMaxDepth(4))
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}
	testutil.False(t, result.Ok(), "depth limit hit")
	testutil.Equal(t, "expansion-depth", result.Errors[0].Code, "code")
}

func TestCompileIndependentResults(t *testing.T) {
	// Two compilations of the same source agree; counters never leak
	// between calls.
	a, err := Compile([]byte(basicCircuit))
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}
	b, err := Compile([]byte(basicCircuit))
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}
	testutil.Len(t, b.Netlist, len(a.Netlist), "same line count")
	for i := range a.Netlist {
		testutil.Equal(t, a.Netlist[i], b.Netlist[i], "line %d", i)
	}
}

func TestTokens(t *testing.T) {
	tokens, err := Tokens([]byte("Resistor R1(10kohm);"))
	if err != nil {
		t.Fatalf("Tokens failed: %v", err)
	}
	testutil.NotEmpty(t, tokens, "token list")
	testutil.Equal(t, "Resistor", tokens[0].Text, "first token")
	testutil.Equal(t, 1, tokens[0].Line, "line")
	testutil.Equal(t, "end of input", tokens[len(tokens)-1].Kind, "EOF sentinel")
}

func TestTokensEmptySource(t *testing.T) {
	_, err := Tokens(nil)
	testutil.Equal(t, ErrEmptySource, err, "sentinel error")
}
