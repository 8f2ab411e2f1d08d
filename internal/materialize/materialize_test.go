package materialize_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/temirov/mdtree/internal/materialize"
	"github.com/temirov/mdtree/internal/node"
)

const (
	destinationName = "out"
	readmeName      = "README"
	sourceFolder    = "src"
	mainFileName    = "main.py"
)

func sampleHierarchy() *node.Node {
	return node.NewFolder("",
		node.NewFile(readmeName).SetContents("hello"),
		node.NewFolder(sourceFolder,
			node.NewFile(mainFileName).SetContents("print(1)\nprint(2)"),
		),
	)
}

// TestMaterializeWritesHierarchy verifies that folders and files are created with one line per content element.
func TestMaterializeWritesHierarchy(testingHandle *testing.T) {
	destination := filepath.Join(testingHandle.TempDir(), destinationName)
	if err := materialize.Materialize(sampleHierarchy(), destination, materialize.Options{}, zap.NewNop()); err != nil {
		testingHandle.Fatalf("Materialize error: %v", err)
	}
	readme, readError := os.ReadFile(filepath.Join(destination, readmeName))
	if readError != nil {
		testingHandle.Fatalf("reading README: %v", readError)
	}
	if string(readme) != "hello\n" {
		testingHandle.Fatalf("unexpected README contents %q", readme)
	}
	mainFile, readError := os.ReadFile(filepath.Join(destination, sourceFolder, mainFileName))
	if readError != nil {
		testingHandle.Fatalf("reading main.py: %v", readError)
	}
	if string(mainFile) != "print(1)\nprint(2)\n" {
		testingHandle.Fatalf("unexpected main.py contents %q", mainFile)
	}
}

// TestMaterializeDryRunWritesNothing verifies that a dry run only logs.
func TestMaterializeDryRunWritesNothing(testingHandle *testing.T) {
	destination := filepath.Join(testingHandle.TempDir(), destinationName)
	core, logs := observer.New(zapcore.InfoLevel)
	if err := materialize.Materialize(sampleHierarchy(), destination, materialize.Options{DryRun: true}, zap.New(core)); err != nil {
		testingHandle.Fatalf("Materialize error: %v", err)
	}
	if _, statError := os.Stat(destination); !os.IsNotExist(statError) {
		testingHandle.Fatalf("expected destination to be absent, stat error %v", statError)
	}
	fileEntries := logs.FilterMessage("file").All()
	if len(fileEntries) != 2 {
		testingHandle.Fatalf("expected 2 file log entries, got %d", len(fileEntries))
	}
	lastEntry := fileEntries[1].ContextMap()
	if lastEntry["path"] != filepath.Join(destination, sourceFolder, mainFileName) {
		testingHandle.Fatalf("unexpected logged path %v", lastEntry["path"])
	}
	if lastEntry["characters"] != int64(16) {
		testingHandle.Fatalf("unexpected character count %v", lastEntry["characters"])
	}
}

// TestMaterializeExistingFolder verifies the existing folder policy.
func TestMaterializeExistingFolder(testingHandle *testing.T) {
	destination := filepath.Join(testingHandle.TempDir(), destinationName)
	if err := os.Mkdir(destination, 0o755); err != nil {
		testingHandle.Fatalf("creating destination: %v", err)
	}
	materializeError := materialize.Materialize(sampleHierarchy(), destination, materialize.Options{}, zap.NewNop())
	if !errors.Is(materializeError, materialize.ErrExists) {
		testingHandle.Fatalf("expected ErrExists, got %v", materializeError)
	}
	if err := materialize.Materialize(sampleHierarchy(), destination, materialize.Options{IgnoreExistingFolders: true}, zap.NewNop()); err != nil {
		testingHandle.Fatalf("Materialize with ignored existing folders error: %v", err)
	}
	if _, statError := os.Stat(filepath.Join(destination, sourceFolder, mainFileName)); statError != nil {
		testingHandle.Fatalf("expected main.py to be written: %v", statError)
	}
}

// TestMaterializeExistingFile verifies that existing files are never overwritten.
func TestMaterializeExistingFile(testingHandle *testing.T) {
	destination := filepath.Join(testingHandle.TempDir(), destinationName)
	if err := os.Mkdir(destination, 0o755); err != nil {
		testingHandle.Fatalf("creating destination: %v", err)
	}
	readmePath := filepath.Join(destination, readmeName)
	if err := os.WriteFile(readmePath, []byte("keep"), 0o644); err != nil {
		testingHandle.Fatalf("writing README: %v", err)
	}
	materializeError := materialize.Materialize(sampleHierarchy(), destination, materialize.Options{IgnoreExistingFolders: true}, zap.NewNop())
	if !errors.Is(materializeError, materialize.ErrExists) {
		testingHandle.Fatalf("expected ErrExists, got %v", materializeError)
	}
	kept, _ := os.ReadFile(readmePath)
	if string(kept) != "keep" {
		testingHandle.Fatalf("existing file was modified: %q", kept)
	}
}

// TestSafeJoin verifies that joined paths stay inside the root.
func TestSafeJoin(testingHandle *testing.T) {
	root := testingHandle.TempDir()
	testCases := []struct {
		name      string
		path      string
		expectErr bool
	}{
		{name: "nested", path: "a/b.txt"},
		{name: "dot segments inside", path: "a/../b.txt"},
		{name: "parent", path: "../b.txt", expectErr: true},
		{name: "deep parent", path: "a/../../b.txt", expectErr: true},
	}
	for _, testCase := range testCases {
		joined, joinError := materialize.SafeJoin(root, testCase.path)
		if testCase.expectErr {
			if joinError == nil {
				testingHandle.Fatalf("%s: expected error, got %s", testCase.name, joined)
			}
			continue
		}
		if joinError != nil {
			testingHandle.Fatalf("%s: unexpected error %v", testCase.name, joinError)
		}
	}
}
