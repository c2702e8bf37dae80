// Package resolve assigns net identifiers to the connections of a flat
// circuit.
//
// Net id 0 is ground; any connection touching a ground endpoint is net 0.
// Other nets are numbered from 1 in first-appearance order. A connection
// reuses the net of its explicit name, or of the first plain node name
// already registered among its endpoints, before allocating a fresh id.
// Terminal assignments are last-write-wins: a later connection naming the
// same terminal moves it. Connections are never merged after the fact, so
// two connections that share only a terminal keep their own nets.
package resolve

import (
	"log/slog"

	"github.com/voltlang/voltc/ast"
	"github.com/voltlang/voltc/internal/types"
)

// Ground is the reserved net id for ground.
const Ground = 0

// TerminalKey identifies one component terminal.
type TerminalKey struct {
	Component string
	Terminal  string
}

// Net is one allocated net with the name it was first registered under.
// Ground appears only when some connection touches it.
type Net struct {
	ID     int
	Name   string
	Ground bool
}

// Table is the resolved connectivity. Terminals maps every bound terminal
// to its net; Names maps explicit net names and plain node names.
type Table struct {
	Terminals map[TerminalKey]int
	Names     map[string]int
	Nets      []Net

	// Order holds each component's terminals in first-bound order, for
	// callers that need a stable enumeration.
	Order map[string][]string
}

// NetOf returns the net id bound to a component terminal and whether the
// terminal was bound at all.
func (t *Table) NetOf(component, terminal string) (int, bool) {
	id, ok := t.Terminals[TerminalKey{Component: component, Terminal: terminal}]
	return id, ok
}

// NetByName returns the net id registered under a net or node name.
func (t *Table) NetByName(name string) (int, bool) {
	if ast.IsGroundAlias(name) {
		return Ground, true
	}
	id, ok := t.Names[name]
	return id, ok
}

// Resolver numbers nets for one circuit. The id counter and name registry
// are per-instance.
type Resolver struct {
	next int
	types.Logger
}

// New returns a Resolver with the counter at 1, so the first non-ground
// net is net 1.
func New(logger *slog.Logger) *Resolver {
	return &Resolver{next: 1, Logger: types.Logger{L: logger}}
}

// Resolve processes connections in order and returns the finished table.
func (r *Resolver) Resolve(conns []*ast.Connection) *Table {
	table := &Table{
		Terminals: make(map[TerminalKey]int),
		Names:     make(map[string]int),
		Order:     make(map[string][]string),
	}
	for _, conn := range conns {
		r.connection(conn, table)
	}
	r.Log(slog.LevelDebug, "connectivity resolved",
		slog.Int("nets", r.next-1),
		slog.Int("terminals", len(table.Terminals)))
	return table
}

func (r *Resolver) connection(conn *ast.Connection, table *Table) {
	id, grounded := r.netFor(conn, table)
	if !grounded {
		// Ground connections register no names: a plain name co-listed
		// with ground still allocates its own net when used alone later.
		if conn.Net != "" {
			table.Names[conn.Net] = id
		}
		for _, ep := range conn.Endpoints {
			if node, ok := ep.(*ast.NodeRef); ok {
				table.Names[node.Name] = id
			}
		}
	}
	for _, ep := range conn.Endpoints {
		term, ok := ep.(*ast.TerminalRef)
		if !ok {
			continue
		}
		key := TerminalKey{Component: term.Component, Terminal: term.Terminal}
		if _, bound := table.Terminals[key]; !bound {
			table.Order[key.Component] = append(table.Order[key.Component], key.Terminal)
		}
		table.Terminals[key] = id
	}
	if r.TraceEnabled() {
		r.Trace("connection resolved",
			slog.Int("net", id),
			slog.Int("endpoints", len(conn.Endpoints)))
	}
}

// netFor picks the net id for a connection: ground wins, then an already
// registered explicit name, then the first registered plain node name,
// then a fresh id.
func (r *Resolver) netFor(conn *ast.Connection, table *Table) (id int, grounded bool) {
	for _, ep := range conn.Endpoints {
		if node, ok := ep.(*ast.NodeRef); ok && (node.Ground || ast.IsGroundAlias(node.Name)) {
			return Ground, true
		}
	}
	if conn.Net != "" {
		if id, ok := table.Names[conn.Net]; ok {
			return id, false
		}
	}
	for _, ep := range conn.Endpoints {
		if node, ok := ep.(*ast.NodeRef); ok {
			if id, ok := table.Names[node.Name]; ok {
				return id, false
			}
		}
	}
	id = r.next
	r.next++
	table.Nets = append(table.Nets, Net{ID: id, Name: netName(conn)})
	return id, false
}

// netName picks the registered name for a freshly allocated net: the
// explicit name when present, else the first plain node name, else empty
// for a purely terminal-to-terminal connection.
func netName(conn *ast.Connection) string {
	if conn.Net != "" {
		return conn.Net
	}
	for _, ep := range conn.Endpoints {
		if node, ok := ep.(*ast.NodeRef); ok {
			return node.Name
		}
	}
	return ""
}
