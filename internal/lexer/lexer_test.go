package lexer

import (
	"testing"

	"github.com/voltlang/voltc/internal/testutil"
	"github.com/voltlang/voltc/internal/types"
)

func tokenize(t *testing.T, src string) []Token {
	t.Helper()
	tokens, err := New([]byte(src), nil).Tokenize()
	if err != nil {
		t.Fatalf("Tokenize(%q): %v", src, err)
	}
	return tokens
}

func kinds(tokens []Token) []TokenKind {
	out := make([]TokenKind, len(tokens))
	for i, tok := range tokens {
		out[i] = tok.Kind
	}
	return out
}

func TestTokenizeComponentDecl(t *testing.T) {
	tokens := tokenize(t, `Resistor R1(1000, ohm);`)

	want := []TokenKind{
		TokComponent, TokIdent, TokLParen, TokNumber, TokComma,
		TokUnit, TokRParen, TokSemicolon, TokEOF,
	}
	got := kinds(tokens)
	testutil.Len(t, got, len(want), "token count")
	for i := range want {
		testutil.Equal(t, want[i], got[i], "token %d (%q)", i, tokens[i].Text)
	}
	testutil.Equal(t, "Resistor", tokens[0].Text, "component keyword text")
	testutil.Equal(t, "1000", tokens[3].Text, "number text")
	testutil.Equal(t, "ohm", tokens[5].Text, "unit text")
}

func TestNumberUnitSplitting(t *testing.T) {
	tests := []struct {
		src      string
		numText  string
		unitText string
		mag      float64
	}{
		{"10kohm", "10", "kohm", 1e3},
		{"1.5kohm", "1.5", "kohm", 1e3},
		{"10uF", "10", "uF", 1e-6},
		{"9V", "9", "V", 1},
		{"100Hz", "100", "Hz", 1},
		{"10k", "10", "k", 1e3},
		{"10u", "10", "u", 1e-6},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			tokens := tokenize(t, tt.src)
			testutil.Len(t, tokens, 3, "number + unit + EOF")
			testutil.Equal(t, TokNumber, tokens[0].Kind, "first kind")
			testutil.Equal(t, tt.numText, tokens[0].Text, "number text")
			testutil.Equal(t, TokUnit, tokens[1].Kind, "second kind")
			testutil.Equal(t, tt.unitText, tokens[1].Text, "unit text")
			testutil.Equal(t, tt.mag, tokens[1].Mag, "unit magnitude")
		})
	}
}

func TestNumberFollowedByIdentifier(t *testing.T) {
	// "2x" is a number followed by a plain identifier, not a unit.
	tokens := tokenize(t, "2x")
	testutil.Len(t, tokens, 3, "number + ident + EOF")
	testutil.Equal(t, TokNumber, tokens[0].Kind, "first kind")
	testutil.Equal(t, TokIdent, tokens[1].Kind, "second kind")
}

func TestBaseUnitWinsOverPrefix(t *testing.T) {
	// "F" is farad, not femto.
	tokens := tokenize(t, "10F")
	testutil.Equal(t, TokUnit, tokens[1].Kind, "kind")
	testutil.Equal(t, 1.0, tokens[1].Mag, "farad magnitude")
}

func TestNumberForms(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"42", "42"},
		{"3.14", "3.14"},
		{"1e-6", "1e-6"},
		{"2.5E+3", "2.5E+3"},
	}
	for _, tt := range tests {
		tokens := tokenize(t, tt.src)
		testutil.Equal(t, TokNumber, tokens[0].Kind, "kind for %q", tt.src)
		testutil.Equal(t, tt.want, tokens[0].Text, "text for %q", tt.src)
	}
}

func TestKeywordsAndIdentifiers(t *testing.T) {
	tests := []struct {
		src  string
		kind TokenKind
	}{
		{"Connect", TokKwConnect},
		{"Subcircuit", TokKwSubcircuit},
		{"Simulate", TokKwSimulate},
		{"analysis", TokKwSimulate},
		{"Macro", TokKwMacro},
		{"For", TokKwFor},
		{"in", TokIdent},
		{"Import", TokKwImport},
		{"dc", TokKwDc},
		{"ac", TokKwAc},
		{"transient", TokKwTransient},
		{"noise", TokKwNoise},
		{"paramSweep", TokKwParamSweep},
		{"monteCarlo", TokKwMonteCarlo},
		{"plot", TokKwPlot},
		{"Resistor", TokComponent},
		{"OpAmp", TokComponent},
		{"MOSFET", TokComponent},
		{"vin", TokIdent},
		{"ground", TokIdent},
		{"Resistors", TokIdent},
	}
	for _, tt := range tests {
		tokens := tokenize(t, tt.src)
		testutil.Equal(t, tt.kind, tokens[0].Kind, "kind for %q", tt.src)
	}
}

func TestOperators(t *testing.T) {
	tokens := tokenize(t, "== != <= >= < > && || | ^ % ! =")
	want := []TokenKind{
		TokEq, TokNeq, TokLe, TokGe, TokLt, TokGt, TokAndAnd, TokOrOr,
		TokPipe, TokCaret, TokPercent, TokBang, TokAssign, TokEOF,
	}
	got := kinds(tokens)
	testutil.Len(t, got, len(want), "token count")
	for i := range want {
		testutil.Equal(t, want[i], got[i], "token %d", i)
	}
}

func TestStringLiteral(t *testing.T) {
	tokens := tokenize(t, `Import "lib/filters.ckt";`)
	testutil.Equal(t, TokKwImport, tokens[0].Kind, "import keyword")
	testutil.Equal(t, TokString, tokens[1].Kind, "string kind")
	testutil.Equal(t, "lib/filters.ckt", tokens[1].Text, "string text")
}

func TestComments(t *testing.T) {
	tokens := tokenize(t, "// line comment\nR1 /* block\ncomment */ R2")
	want := []TokenKind{TokComment, TokIdent, TokComment, TokIdent, TokEOF}
	got := kinds(tokens)
	testutil.Len(t, got, len(want), "token count")
	for i := range want {
		testutil.Equal(t, want[i], got[i], "token %d", i)
	}
	testutil.Equal(t, " line comment", tokens[0].Text, "line comment text")
}

func TestPositions(t *testing.T) {
	tokens := tokenize(t, "R1\n  vout")
	testutil.Equal(t, 1, tokens[0].Line, "first token line")
	testutil.Equal(t, 1, tokens[0].Column, "first token column")
	testutil.Equal(t, 2, tokens[1].Line, "second token line")
	testutil.Equal(t, 3, tokens[1].Column, "second token column")
}

func TestDeterministic(t *testing.T) {
	src := `Resistor R1(10kohm); Connect(R1.positive, vin); Simulate{dc;}`
	a := tokenize(t, src)
	b := tokenize(t, src)
	testutil.Len(t, b, len(a), "token count")
	for i := range a {
		testutil.Equal(t, a[i], b[i], "token %d", i)
	}
}

func TestLexicalErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"bad character", "R1 @ R2"},
		{"lone ampersand", "a & b"},
		{"unterminated string", `Import "abc`},
		{"unterminated block comment", "/* never ends"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New([]byte(tt.src), nil).Tokenize()
			if err == nil {
				t.Fatalf("Tokenize(%q): expected error", tt.src)
			}
			srcErr, ok := err.(*types.SourceError)
			testutil.True(t, ok, "error type is *types.SourceError")
			testutil.Equal(t, "lex", srcErr.Phase, "phase")
			testutil.True(t, srcErr.Line >= 1, "line is set")
		})
	}
}

func TestErrorCarriesLocation(t *testing.T) {
	_, err := New([]byte("R1\n  @"), nil).Tokenize()
	srcErr, ok := err.(*types.SourceError)
	testutil.True(t, ok, "error type")
	testutil.Equal(t, 2, srcErr.Line, "error line")
	testutil.Equal(t, 3, srcErr.Column, "error column")
}

func TestEOFSentinel(t *testing.T) {
	tokens := tokenize(t, "")
	testutil.Len(t, tokens, 1, "empty input")
	testutil.Equal(t, TokEOF, tokens[0].Kind, "EOF sentinel")
}
