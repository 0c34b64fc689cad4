package loop

import (
	"testing"

	x12 "github.com/gox12/claims"
)

func TestBuildForest(t *testing.T) {
	segments := tokenize(t, "HL*1**20*1~HL*2*1*22*0~HL*3*1*22*0~CLM*1001*100~")
	forest, findings := BuildForest(segments, "HL")

	if len(findings) != 0 {
		t.Errorf("BuildForest() returned findings for a clean hierarchy: %v", findings)
	}
	if forest.Len() != 3 {
		t.Fatalf("forest has %d nodes; want 3", forest.Len())
	}

	root, ok := forest.Node("1")
	if !ok {
		t.Fatal("node 1 not found")
	}
	if !root.IsRoot() || root.LevelCode != "20" || !root.HasChild {
		t.Errorf("root = %+v; want parentless level 20 with children", root)
	}

	if roots := forest.Roots(); len(roots) != 1 || roots[0].ID != "1" {
		t.Errorf("Roots() = %v; want the single node 1", roots)
	}
	if children := forest.Children("1"); len(children) != 2 {
		t.Errorf("Children(1) has %d nodes; want 2", len(children))
	}

	leaf, _ := forest.Node("2")
	if leaf.ParentID != "1" || leaf.HasChild {
		t.Errorf("leaf = %+v; want child of 1 without children", leaf)
	}
}

func TestBuildForest_UndeclaredParent(t *testing.T) {
	segments := tokenize(t, "HL*1**20*1~HL*2*9*22*0~")
	forest, findings := BuildForest(segments, "HL")

	if len(findings) != 1 {
		t.Fatalf("BuildForest() returned %d findings; want 1: %v", len(findings), findings)
	}
	f := findings[0]
	if f.Code != x12.TypeHierarchy || !f.IsWarning() {
		t.Errorf("finding = %+v; want hierarchy warning", f)
	}
	if f.Position != 1 {
		t.Errorf("finding position = %d; want 1", f.Position)
	}

	// The offending node is still recorded.
	if forest.Len() != 2 {
		t.Errorf("forest has %d nodes; want 2", forest.Len())
	}
}

func TestBuildForest_DuplicateID(t *testing.T) {
	segments := tokenize(t, "HL*1**20*1~HL*1**20*0~")
	forest, findings := BuildForest(segments, "HL")

	if len(findings) != 1 {
		t.Fatalf("BuildForest() returned %d findings; want 1: %v", len(findings), findings)
	}
	if forest.Len() != 2 {
		t.Errorf("forest has %d nodes; want 2", forest.Len())
	}
	// Lookup resolves to the later declaration.
	n, ok := forest.Node("1")
	if !ok || n.HasChild {
		t.Errorf("Node(1) = %+v; want the second declaration", n)
	}
}

func TestBuildForest_NoTriggerSegments(t *testing.T) {
	segments := tokenize(t, "CLM*1001*100~LX*1~")
	forest, findings := BuildForest(segments, "HL")
	if forest.Len() != 0 || len(findings) != 0 {
		t.Errorf("BuildForest() = %d nodes, %d findings; want 0, 0", forest.Len(), len(findings))
	}
}
