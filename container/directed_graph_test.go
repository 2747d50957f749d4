package container

import (
	"strings"
	"testing"

	"pds/streams"
	"pds/validate"
	"pds/wire"
)

func TestDirectedGraphAcyclicRootedValid(t *testing.T) {
	g := NewDirectedGraph[uint32](GraphFlags{Acyclic: true, Rooted: true})
	g.AddRoot(1)
	g.AddEdge(1, 2)
	g.AddEdge(2, 3)
	v := validate.New()
	if err := g.Validate(v); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if v.GetErrorCount() != 0 {
		t.Fatalf("GetErrorCount() = %d, want 0", v.GetErrorCount())
	}
}

func TestDirectedGraphDetectsCycle(t *testing.T) {
	g := NewDirectedGraph[uint32](GraphFlags{Acyclic: true})
	g.AddEdge(1, 2)
	g.AddEdge(2, 3)
	g.AddEdge(3, 1)
	v := validate.New()
	if err := g.Validate(v); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if !v.HasError(validate.InvalidSetup) {
		t.Fatal("expected InvalidSetup for a cyclic graph")
	}
}

func TestDirectedGraphCycleMessageNamesNode(t *testing.T) {
	g := NewDirectedGraph[uint32](GraphFlags{Acyclic: true})
	g.AddEdge(1, 2)
	g.AddEdge(2, 3)
	g.AddEdge(3, 1)
	v := validate.New()
	v.SetRecordErrorDescriptions(true)
	if err := g.Validate(v); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	descs := v.GetErrorDescriptions()
	if len(descs) != 1 {
		t.Fatalf("GetErrorDescriptions() = %v, want exactly 1", descs)
	}
	if !strings.Contains(descs[0].Description, "node") || descs[0].Description == "acyclic: cycle detected" {
		t.Fatalf("Description = %q, want it to name the offending node", descs[0].Description)
	}
}

func TestDirectedGraphDetectsUnreachableNode(t *testing.T) {
	g := NewDirectedGraph[uint32](GraphFlags{Rooted: true})
	g.AddRoot(1)
	g.AddEdge(1, 2)
	g.AddEdge(3, 4) // 3 and 4 are unreachable from root 1
	v := validate.New()
	if err := g.Validate(v); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if !v.HasError(validate.InvalidSetup) {
		t.Fatal("expected InvalidSetup for an unreachable node")
	}
}

func TestDirectedGraphSingleRootViolation(t *testing.T) {
	g := NewDirectedGraph[uint32](GraphFlags{SingleRoot: true})
	g.AddEdge(1, 2)
	g.AddEdge(3, 4) // two disjoint components -> two computed roots
	v := validate.New()
	if err := g.Validate(v); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if !v.HasError(validate.InvalidSetup) {
		t.Fatal("expected InvalidSetup for multiple computed roots under single_root")
	}
}

func TestDirectedGraphRootedMissingDeclaration(t *testing.T) {
	g := NewDirectedGraph[uint32](GraphFlags{Rooted: true})
	// no declared roots, but node 1 has no incoming edge -> computed root
	g.AddEdge(1, 2)
	v := validate.New()
	if err := g.Validate(v); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if !v.HasError(validate.MissingObject) {
		t.Fatal("expected MissingObject for an undeclared computed root")
	}
}

func TestDirectedGraphClearAndDeepCopy(t *testing.T) {
	g := NewDirectedGraph[uint32](GraphFlags{Acyclic: true})
	g.AddRoot(1)
	g.AddEdge(1, 2)

	cp := NewDirectedGraph[uint32](GraphFlags{})
	cp.DeepCopy(g)
	if !DirectedGraphEquals(g, cp) {
		t.Fatal("DeepCopy result not Equal to source")
	}

	g.Clear()
	if len(g.Roots) != 0 || len(g.Edges) != 0 {
		t.Fatal("Clear did not empty the graph")
	}
}

func TestDirectedGraphWriteReadRoundTrip(t *testing.T) {
	g := NewDirectedGraph[uint32](GraphFlags{Rooted: true, Acyclic: true})
	g.AddRoot(1)
	g.AddEdge(1, 2)
	g.AddEdge(1, 3)

	ws := streams.NewWriteStream(64)
	w := wire.NewWriter(ws)
	if err := g.Write(w, "g", UInt32Codec); err != nil {
		t.Fatalf("Write: %v", err)
	}

	r := wire.NewReader(streams.NewReadStream(ws.Bytes()))
	got := NewDirectedGraph[uint32](g.Flags)
	if err := got.Read(r, "g", UInt32Codec); err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(got.Roots) != 1 || got.Roots[0] != 1 {
		t.Fatalf("Roots = %v", got.Roots)
	}
	if len(got.Edges) != 2 {
		t.Fatalf("Edges = %v", got.Edges)
	}
}
