package container

import (
	"pds/validate"
	"pds/wire"
)

// GraphFlags selects which structural invariants DirectedGraph.Validate
// enforces. Flags are runtime data on the value, not template parameters:
// the target language has no type-level flag encoding (spec §9).
type GraphFlags struct {
	Acyclic    bool
	Rooted     bool
	SingleRoot bool
}

// Edge is one (from, to) directed edge.
type Edge[T comparable] struct {
	From, To T
}

// DirectedGraph is a set of directed edges plus an explicit Roots set.
// Invariants (acyclicity, rootedness, single-rootedness) are enforced only
// at Validate time, never at insertion (spec §3).
type DirectedGraph[T comparable] struct {
	Flags GraphFlags
	Roots []T
	Edges []Edge[T]
}

// NewDirectedGraph creates an empty graph with the given flags.
func NewDirectedGraph[T comparable](flags GraphFlags) *DirectedGraph[T] {
	return &DirectedGraph[T]{Flags: flags}
}

// AddEdge appends a (from, to) edge.
func (g *DirectedGraph[T]) AddEdge(from, to T) { g.Edges = append(g.Edges, Edge[T]{from, to}) }

// AddRoot appends a node to the explicit Roots set.
func (g *DirectedGraph[T]) AddRoot(node T) { g.Roots = append(g.Roots, node) }

// Clear empties the graph, preserving its flags.
func (g *DirectedGraph[T]) Clear() {
	g.Roots = nil
	g.Edges = nil
}

// DeepCopy overwrites g with an independent copy of src (including its
// flags). A nil src clears g.
func (g *DirectedGraph[T]) DeepCopy(src *DirectedGraph[T]) {
	if src == nil {
		g.Clear()
		return
	}
	g.Flags = src.Flags
	g.Roots = append([]T(nil), src.Roots...)
	g.Edges = append([]Edge[T](nil), src.Edges...)
}

// DirectedGraphEquals reports whether a and b hold identical flags, roots
// and edges in the same order. Pointer-identical (including both nil) is
// true; exactly one nil is false.
func DirectedGraphEquals[T comparable](a, b *DirectedGraph[T]) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	if a.Flags != b.Flags || len(a.Roots) != len(b.Roots) || len(a.Edges) != len(b.Edges) {
		return false
	}
	for i := range a.Roots {
		if a.Roots[i] != b.Roots[i] {
			return false
		}
	}
	for i := range a.Edges {
		if a.Edges[i] != b.Edges[i] {
			return false
		}
	}
	return true
}

// Write emits the graph under key as a section containing Roots (vector)
// and Edges (interleaved [from_0, to_0, from_1, to_1, …] vector).
func (g *DirectedGraph[T]) Write(w *wire.Writer, key string, nodeCodec Codec[T]) error {
	child, err := w.BeginWriteSection(key)
	if err != nil {
		return err
	}
	if err := nodeCodec.WriteVector(child, "Roots", g.Roots); err != nil {
		return err
	}
	interleaved := make([]T, 0, len(g.Edges)*2)
	for _, e := range g.Edges {
		interleaved = append(interleaved, e.From, e.To)
	}
	if err := nodeCodec.WriteVector(child, "Edges", interleaved); err != nil {
		return err
	}
	return w.EndWriteSection(child)
}

// Read reconstructs the graph from key, preserving whatever flags g was
// already configured with (flags are not part of the wire format).
func (g *DirectedGraph[T]) Read(r *wire.Reader, key string, nodeCodec Codec[T]) error {
	child, err := r.BeginReadSection(key, false)
	if err != nil {
		return err
	}
	roots, err := nodeCodec.ReadVector(child, "Roots")
	if err != nil {
		return err
	}
	interleaved, err := nodeCodec.ReadVector(child, "Edges")
	if err != nil {
		return err
	}
	if err := r.EndReadSection(child); err != nil {
		return err
	}
	g.Roots = roots
	g.Edges = g.Edges[:0]
	for i := 0; i+1 < len(interleaved); i += 2 {
		g.Edges = append(g.Edges, Edge[T]{From: interleaved[i], To: interleaved[i+1]})
	}
	return nil
}

// Validate checks the flagged invariants, grounded exactly on the
// original source's DirectedGraph_MF validation routine: compute the
// downstream set (every node with an incoming edge) and the computed root
// set (edge endpoints not in the downstream set), then check single_root,
// rooted and acyclic as configured.
func (g *DirectedGraph[T]) Validate(v *validate.Validator) error {
	downstream := map[T]bool{}
	nodes := map[T]bool{}
	for _, e := range g.Edges {
		downstream[e.To] = true
		nodes[e.From] = true
		nodes[e.To] = true
	}

	var computedRoots []T
	for n := range nodes {
		if !downstream[n] {
			computedRoots = append(computedRoots, n)
		}
	}

	if g.Flags.SingleRoot {
		if len(computedRoots) != 1 {
			v.ReportError(validate.InvalidSetup, "single_root: graph has %d computed roots, want exactly 1", len(computedRoots))
		}
		if g.Flags.Rooted && len(g.Roots) != 1 {
			v.ReportError(validate.InvalidCount, "single_root: Roots has %d entries, want exactly 1", len(g.Roots))
		}
	}

	if g.Flags.Rooted {
		declaredRoots := map[T]bool{}
		for _, r := range g.Roots {
			declaredRoots[r] = true
			if downstream[r] {
				v.ReportError(validate.InvalidSetup, "rooted: declared root has an incoming edge")
			}
		}
		for _, n := range computedRoots {
			if !declaredRoots[n] {
				v.ReportError(validate.MissingObject, "rooted: computed root is not present in Roots")
			}
		}
		if err := g.checkReachability(v, nodes, downstream); err != nil {
			return err
		}
	}

	if g.Flags.Acyclic {
		g.checkAcyclic(v, nodes)
	}

	return nil
}

// checkReachability runs a breadth-first search from g.Roots and reports
// invalid_setup for any downstream node it fails to reach.
func (g *DirectedGraph[T]) checkReachability(v *validate.Validator, nodes map[T]bool, downstream map[T]bool) error {
	adj := map[T][]T{}
	for _, e := range g.Edges {
		adj[e.From] = append(adj[e.From], e.To)
	}

	visited := map[T]bool{}
	queue := append([]T(nil), g.Roots...)
	for _, r := range queue {
		visited[r] = true
	}
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		for _, next := range adj[n] {
			if !visited[next] {
				visited[next] = true
				queue = append(queue, next)
			}
		}
	}

	for n := range nodes {
		if downstream[n] && !visited[n] {
			v.ReportError(validate.InvalidSetup, "rooted: node is not reachable from Roots")
		}
	}
	return nil
}

// checkAcyclic runs a recursive depth-first search with a gray ("on
// stack")/black ("checked") marking, reporting invalid_setup and stopping
// at the first back-edge found, matching the original's single-error
// early-exit behavior for this specific check.
func (g *DirectedGraph[T]) checkAcyclic(v *validate.Validator, nodes map[T]bool) {
	adj := map[T][]T{}
	for _, e := range g.Edges {
		adj[e.From] = append(adj[e.From], e.To)
	}

	checked := map[T]bool{}
	onStack := map[T]bool{}

	var visit func(n T) bool // returns true if a cycle was found
	visit = func(n T) bool {
		if checked[n] {
			return false
		}
		onStack[n] = true
		for _, next := range adj[n] {
			if onStack[next] {
				v.ReportError(validate.InvalidSetup, "acyclic: cycle detected at node %v", next)
				return true
			}
			if visit(next) {
				return true
			}
		}
		onStack[n] = false
		checked[n] = true
		return false
	}

	for n := range nodes {
		if visit(n) {
			return
		}
	}
}
