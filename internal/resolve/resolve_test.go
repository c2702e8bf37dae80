package resolve

import (
	"testing"

	"github.com/voltlang/voltc/ast"
	"github.com/voltlang/voltc/internal/lexer"
	"github.com/voltlang/voltc/internal/parser"
	"github.com/voltlang/voltc/internal/testutil"
)

func connections(t *testing.T, src string) []*ast.Connection {
	t.Helper()
	tokens, err := lexer.New([]byte(src), nil).Tokenize()
	if err != nil {
		t.Fatalf("Tokenize: %v", err)
	}
	prog, err := parser.New(tokens, "", nil).Parse()
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return prog.Connections
}

func resolve(t *testing.T, src string) *Table {
	t.Helper()
	return New(nil).Resolve(connections(t, src))
}

func netOf(t *testing.T, table *Table, component, terminal string) int {
	t.Helper()
	id, ok := table.NetOf(component, terminal)
	testutil.True(t, ok, "%s.%s is bound", component, terminal)
	return id
}

func TestNumberingFromOne(t *testing.T) {
	table := resolve(t, `
Connect(V1.positive, R1.positive);
Connect(R1.negative, R2.positive);
`)
	testutil.Equal(t, 1, netOf(t, table, "V1", "positive"), "first net")
	testutil.Equal(t, 1, netOf(t, table, "R1", "positive"), "shared net")
	testutil.Equal(t, 2, netOf(t, table, "R1", "negative"), "second net")
	testutil.Len(t, table.Nets, 2, "allocated nets")
}

func TestGroundEndpoints(t *testing.T) {
	table := resolve(t, `
Connect(V1.negative, gnd);
Connect(R1.negative, 0);
Connect(R2.negative, ground);
`)
	testutil.Equal(t, Ground, netOf(t, table, "V1", "negative"), "gnd alias")
	testutil.Equal(t, Ground, netOf(t, table, "R1", "negative"), "0 literal")
	testutil.Equal(t, Ground, netOf(t, table, "R2", "negative"), "ground alias")
	testutil.Len(t, table.Nets, 0, "ground is never allocated")
}

func TestNamedNodeReuse(t *testing.T) {
	table := resolve(t, `
Connect(V1.positive, vin);
Connect(vin, R1.positive);
`)
	testutil.Equal(t, netOf(t, table, "V1", "positive"), netOf(t, table, "R1", "positive"), "joined via node name")
	testutil.Len(t, table.Nets, 1, "one net")

	id, ok := table.NetByName("vin")
	testutil.True(t, ok, "name registered")
	testutil.Equal(t, 1, id, "id")
	testutil.Equal(t, "vin", table.Nets[0].Name, "net keeps its first name")
}

func TestExplicitNetName(t *testing.T) {
	table := resolve(t, `
Connect(net=vdd, V1.positive, R1.positive);
Connect(net=vdd, R2.positive, R3.positive);
`)
	testutil.Equal(t, netOf(t, table, "V1", "positive"), netOf(t, table, "R2", "positive"), "joined via explicit net")
	testutil.Len(t, table.Nets, 1, "one net")
	testutil.Equal(t, "vdd", table.Nets[0].Name, "name")
}

func TestFirstRegisteredNameWins(t *testing.T) {
	table := resolve(t, `
Connect(V1.positive, a, b);
Connect(b, R1.positive);
`)
	// Both a and b registered under net 1; reuse through either joins.
	testutil.Equal(t, 1, netOf(t, table, "R1", "positive"), "reuse via second name")
	a, _ := table.NetByName("a")
	b, _ := table.NetByName("b")
	testutil.Equal(t, a, b, "names share the net")
}

func TestLastWriteWins(t *testing.T) {
	table := resolve(t, `
Connect(R1.positive, vin);
Connect(R1.positive, vout);
`)
	vout, _ := table.NetByName("vout")
	testutil.Equal(t, vout, netOf(t, table, "R1", "positive"), "later connection moves the terminal")
}

func TestConnectionsNeverMerge(t *testing.T) {
	// Two connections share only a terminal; the terminal moves but the
	// nets stay distinct.
	table := resolve(t, `
Connect(R1.negative, a);
Connect(R1.negative, b);
`)
	idA, _ := table.NetByName("a")
	idB, _ := table.NetByName("b")
	testutil.True(t, idA != idB, "distinct nets")
	testutil.Len(t, table.Nets, 2, "both allocated")
}

func TestGroundRegistersNoNames(t *testing.T) {
	// A name co-listed with ground is not registered; used alone later it
	// allocates its own net.
	table := resolve(t, `
Connect(V1.negative, vss, gnd);
Connect(R1.negative, vss);
`)
	testutil.Equal(t, Ground, netOf(t, table, "V1", "negative"), "grounded")
	testutil.Equal(t, 1, netOf(t, table, "R1", "negative"), "vss got a fresh net")
}

func TestNetByNameGroundAliases(t *testing.T) {
	table := New(nil).Resolve(nil)
	for _, alias := range []string{"gnd", "GND", "ground", "0"} {
		id, ok := table.NetByName(alias)
		testutil.True(t, ok, "alias %q", alias)
		testutil.Equal(t, Ground, id, "alias %q", alias)
	}
	_, ok := table.NetByName("vin")
	testutil.False(t, ok, "unknown name")
}

func TestTerminalOrder(t *testing.T) {
	table := resolve(t, `
Connect(Q1.collector, vcc);
Connect(Q1.base, vin);
Connect(Q1.emitter, 0);
Connect(Q1.base, vb);
`)
	order := table.Order["Q1"]
	want := []string{"collector", "base", "emitter"}
	testutil.Len(t, order, len(want), "first-bound order, no duplicates")
	for i := range want {
		testutil.Equal(t, want[i], order[i], "position %d", i)
	}
}

func TestUnboundTerminal(t *testing.T) {
	table := resolve(t, `Connect(R1.positive, vin);`)
	_, ok := table.NetOf("R1", "negative")
	testutil.False(t, ok, "never bound")
}

func TestIndependentResolvers(t *testing.T) {
	src := `Connect(R1.positive, a);`
	t1 := resolve(t, src)
	t2 := resolve(t, src)
	testutil.Equal(t, netOf(t, t1, "R1", "positive"), netOf(t, t2, "R1", "positive"), "counters are per-instance")
}
