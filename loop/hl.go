package loop

import (
	"fmt"

	x12 "github.com/gox12/claims"
	"github.com/gox12/claims/token"
)

// Node is one HL hierarchical level: an identifier unique within the
// transaction, an optional parent reference, a level code classifying the
// node's business role (e.g. subscriber vs. dependent), and the child-code
// flag declaring whether subordinate levels follow.
type Node struct {
	ID        string
	ParentID  string
	LevelCode string
	HasChild  bool

	// Position is the HL segment's position in the transaction.
	Position int
}

// IsRoot reports whether the node has no parent.
func (n Node) IsRoot() bool {
	return n.ParentID == ""
}

// Forest is the HL node forest of one transaction. It is a derived,
// diagnostic artifact: claim extraction never depends on it.
type Forest struct {
	nodes []Node
	byID  map[string]int
}

// Nodes returns all nodes in declaration order.
func (f *Forest) Nodes() []Node {
	return f.nodes
}

// Node returns the node with the given identifier.
func (f *Forest) Node(id string) (Node, bool) {
	i, ok := f.byID[id]
	if !ok {
		return Node{}, false
	}
	return f.nodes[i], true
}

// Roots returns the nodes without a parent, in declaration order.
func (f *Forest) Roots() []Node {
	var roots []Node
	for _, n := range f.nodes {
		if n.IsRoot() {
			roots = append(roots, n)
		}
	}
	return roots
}

// Children returns the direct children of the given node, in declaration
// order.
func (f *Forest) Children(id string) []Node {
	var children []Node
	for _, n := range f.nodes {
		if n.ParentID == id {
			children = append(children, n)
		}
	}
	return children
}

// Len returns the number of nodes in the forest.
func (f *Forest) Len() int {
	return len(f.nodes)
}

// BuildForest collects the HL segments of a sequence into a node forest.
// A non-empty parent identifier must reference a previously declared node;
// violations (and duplicate node identifiers) are reported as hierarchy
// findings while the offending node is still recorded, keeping the forest
// usable for diagnostics.
func BuildForest(segments []token.Segment, trigger string) (*Forest, []x12.Finding) {
	f := &Forest{byID: make(map[string]int)}
	var findings []x12.Finding

	for _, seg := range segments {
		if seg.ID() != trigger {
			continue
		}

		n := Node{
			ID:        seg.Element(1),
			ParentID:  seg.Element(2),
			LevelCode: seg.Element(3),
			HasChild:  seg.Element(4) == "1",
			Position:  seg.Position(),
		}

		if _, dup := f.byID[n.ID]; dup {
			findings = append(findings, x12.Warning(x12.TypeHierarchy).
				Diagnostics(fmt.Sprintf("duplicate hierarchical node %q", n.ID)).
				At(seg.ID(), seg.Position()).
				Stage("walk").
				Build())
		}
		if n.ParentID != "" {
			if _, ok := f.byID[n.ParentID]; !ok {
				findings = append(findings, x12.Warning(x12.TypeHierarchy).
					Diagnostics(fmt.Sprintf("hierarchical node %q references undeclared parent %q", n.ID, n.ParentID)).
					At(seg.ID(), seg.Position()).
					Stage("walk").
					Build())
			}
		}

		f.byID[n.ID] = len(f.nodes)
		f.nodes = append(f.nodes, n)
	}

	return f, findings
}
