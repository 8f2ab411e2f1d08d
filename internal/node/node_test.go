package node_test

import (
	"reflect"
	"testing"

	"github.com/temirov/mdtree/internal/node"
)

// TestAppendRebasesSubtree verifies that basenames follow the parent's canonical path.
func TestAppendRebasesSubtree(testingHandle *testing.T) {
	leaf := node.NewFile("main.go")
	inner := node.NewFolder("cmd", leaf)
	root := node.NewFolder("", node.NewFolder("app", inner))

	if leaf.Path() != "app/cmd/main.go" {
		testingHandle.Fatalf("unexpected leaf path %q", leaf.Path())
	}
	if inner.Basename != "app" {
		testingHandle.Fatalf("unexpected folder basename %q", inner.Basename)
	}
	if root.Children[0].Basename != "" {
		testingHandle.Fatalf("expected root-level basename to be empty, got %q", root.Children[0].Basename)
	}
}

// TestSuffix verifies suffix derivation from names.
func TestSuffix(testingHandle *testing.T) {
	testCases := []struct {
		name           string
		expectedSuffix string
		expectedFound  bool
	}{
		{name: "main.go", expectedSuffix: "go", expectedFound: true},
		{name: "archive.tar.gz", expectedSuffix: "gz", expectedFound: true},
		{name: ".gitignore", expectedSuffix: "gitignore", expectedFound: true},
		{name: "Makefile", expectedSuffix: "", expectedFound: false},
	}
	for _, testCase := range testCases {
		suffix, found := node.NewFile(testCase.name).Suffix()
		if suffix != testCase.expectedSuffix || found != testCase.expectedFound {
			testingHandle.Errorf("%s: got (%q, %t) want (%q, %t)", testCase.name, suffix, found, testCase.expectedSuffix, testCase.expectedFound)
		}
	}
}

// TestEqualIgnoresPayload verifies that contents and replacements do not affect equality.
func TestEqualIgnoresPayload(testingHandle *testing.T) {
	first := node.NewFolder("", node.NewFile("foo").SetContents("a\nb"), node.NewFolder("bar", node.NewFile("baz")))
	second := node.NewFolder("", node.NewFile("foo"), node.NewFolder("bar", node.NewFile("baz").SetReplacements(map[string]string{"K": "v"})))
	if !node.Equal(first, second) {
		testingHandle.Fatalf("expected %s to equal %s", node.Shape(first), node.Shape(second))
	}
}

// TestEqualDetectsStructuralDifferences verifies the negative cases of equality.
func TestEqualDetectsStructuralDifferences(testingHandle *testing.T) {
	base := node.NewFolder("", node.NewFile("foo"), node.NewFolder("bar", node.NewFile("baz")))
	testCases := []struct {
		name  string
		other *node.Node
	}{
		{name: "renamed leaf", other: node.NewFolder("", node.NewFile("foo"), node.NewFolder("bar", node.NewFile("qux")))},
		{name: "reordered children", other: node.NewFolder("", node.NewFolder("bar", node.NewFile("baz")), node.NewFile("foo"))},
		{name: "file instead of folder", other: node.NewFolder("", node.NewFile("foo"), node.NewFile("bar"))},
		{name: "missing child", other: node.NewFolder("", node.NewFile("foo"))},
		{name: "nil", other: nil},
	}
	for _, testCase := range testCases {
		if node.Equal(base, testCase.other) {
			testingHandle.Errorf("%s: expected inequality with %s", testCase.name, node.Shape(testCase.other))
		}
	}
}

// TestPruneRemovesEmptyFolders verifies transitive pruning of folders without files.
func TestPruneRemovesEmptyFolders(testingHandle *testing.T) {
	root := node.NewFolder("",
		node.NewFolder("empty", node.NewFolder("nested")),
		node.NewFile("keep"),
		node.NewFolder("full", node.NewFolder("void"), node.NewFile("leaf")),
	)
	root.Prune()

	expected := node.NewFolder("", node.NewFile("keep"), node.NewFolder("full", node.NewFile("leaf")))
	if !node.Equal(root, expected) {
		testingHandle.Fatalf("got %s want %s", node.Shape(root), node.Shape(expected))
	}
}

// TestSetContentsTrimsBlankLines verifies line splitting of bound content.
func TestSetContentsTrimsBlankLines(testingHandle *testing.T) {
	file := node.NewFile("x.py").SetContents("\n\n  indented\r\nsecond\n\n")
	expected := []string{"  indented", "second"}
	if !reflect.DeepEqual(file.Contents, expected) {
		testingHandle.Fatalf("got %q want %q", file.Contents, expected)
	}
}

// TestFilesOrder verifies depth-first ordering of collected files.
func TestFilesOrder(testingHandle *testing.T) {
	root := node.NewFolder("", node.NewFile("a"), node.NewFolder("b", node.NewFile("c"), node.NewFolder("d", node.NewFile("e"))), node.NewFile("f"))
	var paths []string
	for _, file := range node.Files(root) {
		paths = append(paths, file.Path())
	}
	expected := []string{"a", "b/c", "b/d/e", "f"}
	if !reflect.DeepEqual(paths, expected) {
		testingHandle.Fatalf("got %v want %v", paths, expected)
	}
}
