// Package integration provides end-to-end tests of the compiler pipeline.
//
// These tests drive complete source programs through the public voltc API
// and make assertions against the emitted netlist lines and collected
// diagnostics, never against internal stage output. Expected lines should
// be cross-checked against a SPICE reference (ngspice accepts every card
// form emitted here).
//
// # File Organization
//
//   - pipeline_test.go: shared helpers and full reference programs
//   - cards_test.go: device card emission per component family
//   - nets_test.go: node numbering and ground handling
//   - hierarchy_test.go: macros, loops, and subcircuit flattening
//   - diagnostics_test.go: error collection and fatal failures
package integration

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/voltlang/voltc"
)

// mustCompile compiles source and fails the test on any fatal error or
// error diagnostic. Warnings are allowed through.
func mustCompile(t *testing.T, source string, opts ...voltc.Option) *voltc.Result {
	t.Helper()
	result, err := voltc.Compile([]byte(source), opts...)
	require.NoError(t, err, "fatal compile failure")
	require.True(t, result.Ok(), "unexpected errors: %v", result.Errors)
	return result
}

// compileDirty compiles source expecting diagnostics; only fatal failures
// abort the test.
func compileDirty(t *testing.T, source string, opts ...voltc.Option) *voltc.Result {
	t.Helper()
	result, err := voltc.Compile([]byte(source), opts...)
	require.NoError(t, err, "fatal compile failure")
	return result
}

// card returns the netlist line for the named component and fails if no
// line starts with that name.
func card(t *testing.T, result *voltc.Result, name string) string {
	t.Helper()
	for _, line := range result.Netlist {
		fields := strings.Fields(line)
		if len(fields) > 0 && fields[0] == name {
			return line
		}
	}
	require.Fail(t, "missing card", "no netlist line for %q in %v", name, result.Netlist)
	return ""
}

// errorCodes collects the diagnostic codes of all errors in result.
func errorCodes(result *voltc.Result) []string {
	var codes []string
	for _, d := range result.Errors {
		codes = append(codes, d.Code)
	}
	return codes
}

// warningCodes collects the diagnostic codes of all warnings in result.
func warningCodes(result *voltc.Result) []string {
	var codes []string
	for _, d := range result.Warnings {
		codes = append(codes, d.Code)
	}
	return codes
}

// dividerProgram is the reference program: a supply feeding two divider
// instances, one with the default resistance and one overridden.
const dividerProgram = `
supply = 9;

Subcircuit Divider(in, out, r=1kohm) {
	Resistor R1(r);
	Resistor R2(r);
	Connect(in, R1.positive);
	Connect(R1.negative, out, R2.positive);
	Connect(R2.negative, gnd);
};

VoltageSource V1(supply, V);
Divider d1(in=vin, out=vout);
Divider d2(in=vin, out=vhalf, r=4.7kohm);
Connect(V1.positive, vin);
Connect(V1.negative, gnd);

Simulate main {
	transient(0, 10ms, 0.1ms);
	plot(vout);
};
`

func TestDividerProgram(t *testing.T) {
	result := mustCompile(t, dividerProgram, voltc.WithFilename("divider.ckt"))

	want := []string{
		"V1 1 0 DC 9V",
		"d1.R1 1 2 1k",
		"d1.R2 2 0 1k",
		"d2.R1 1 3 4.7k",
		"d2.R2 3 0 4.7k",
		".TRAN 100u 10m 0",
		".PLOT vout",
	}
	require.Equal(t, want, result.Netlist, "full netlist")
}

func TestDividerProgramDeterministic(t *testing.T) {
	a := mustCompile(t, dividerProgram)
	b := mustCompile(t, dividerProgram)
	require.Equal(t, a.Netlist, b.Netlist, "compilations must not share state")
}

func TestOperatingPointProgram(t *testing.T) {
	result := mustCompile(t, `
VoltageSource V1(9, V);
Resistor R1(1000, ohm);
Connect(V1.positive, R1.positive);
Connect(R1.negative, V1.negative);
Simulate { dc; }
`)
	require.Equal(t, []string{
		"V1 1 2 DC 9V",
		"R1 1 2 1k",
		".OP",
		"* OP: I(V1) = 9mA",
	}, result.Netlist, "single-loop circuit with computed current comment")
}
