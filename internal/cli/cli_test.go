package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/temirov/mdtree/internal/types"
	"github.com/temirov/mdtree/internal/utils"
)

type recordingCopier struct {
	copied []string
}

func (copier *recordingCopier) Copy(text string) error {
	copier.copied = append(copier.copied, text)
	return nil
}

func writeTestFile(t *testing.T, path string, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func runCommand(t *testing.T, copier *recordingCopier, arguments ...string) (string, error) {
	t.Helper()
	app := &application{logger: zap.NewNop(), level: zap.NewAtomicLevel(), copier: copier}
	rootCommand := newRootCommand(app)
	var output bytes.Buffer
	rootCommand.SetOut(&output)
	rootCommand.SetErr(&output)
	rootCommand.SetArgs(normalizeArguments(rootCommand, arguments))
	executeError := rootCommand.ExecuteContext(context.Background())
	return output.String(), executeError
}

func sampleProject(t *testing.T) string {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	projectDirectory := t.TempDir()
	writeTestFile(t, filepath.Join(projectDirectory, "proj-token", "settings.py"), "NAME = \"proj-token\"\nDEBUG = False\nPORT = 8000\n")
	writeTestFile(t, filepath.Join(projectDirectory, "README"), "proj-token readme\n")
	writeTestFile(t, filepath.Join(projectDirectory, "build", "artifact.txt"), "ignored\n")
	writeTestFile(t, filepath.Join(projectDirectory, ".gitignore"), "build/\n")
	return projectDirectory
}

func TestMarkdownCommandWritesToStdoutAndClipboard(t *testing.T) {
	projectDirectory := sampleProject(t)
	copier := &recordingCopier{}

	output, err := runCommand(t, copier, "md", projectDirectory, "--copy", "-x", "-1", "-r", "PROJ:proj-token")
	if err != nil {
		t.Fatalf("markdown command: %v", err)
	}
	if !strings.HasPrefix(output, "# Tree structure\n") {
		t.Fatalf("unexpected document start:\n%s", output)
	}
	if strings.Contains(output, "artifact.txt") {
		t.Fatalf("ignored file leaked into the document:\n%s", output)
	}
	if !strings.Contains(output, "- `PROJ`: `proj-token`") {
		t.Fatalf("expected a PROJ declaration:\n%s", output)
	}
	if len(copier.copied) != 1 || copier.copied[0] != output {
		t.Fatalf("expected the document on the clipboard, got %d copies", len(copier.copied))
	}
}

func TestMarkdownAndBuildRoundTrip(t *testing.T) {
	projectDirectory := sampleProject(t)
	workDirectory := t.TempDir()
	documentPath := filepath.Join(workDirectory, "template.md")
	valuesPath := filepath.Join(workDirectory, "values.env")
	writeTestFile(t, valuesPath, "PROJ=from-file\n")
	destination := filepath.Join(workDirectory, "out")

	if _, err := runCommand(t, &recordingCopier{}, "markdown", projectDirectory, "-o", documentPath, "-r", "PROJ:proj-token"); err != nil {
		t.Fatalf("markdown command: %v", err)
	}
	if _, err := runCommand(t, &recordingCopier{}, "build", documentPath, "-o", destination, "--values", valuesPath); err != nil {
		t.Fatalf("dry run build: %v", err)
	}
	if _, statError := os.Stat(destination); !os.IsNotExist(statError) {
		t.Fatalf("dry run created %s", destination)
	}

	if _, err := runCommand(t, &recordingCopier{}, "b", documentPath, "-o", destination, "--values", valuesPath, "-r", "PROJ:billing", "--commit"); err != nil {
		t.Fatalf("build: %v", err)
	}
	settings, readError := os.ReadFile(filepath.Join(destination, "billing", "settings.py"))
	if readError != nil {
		t.Fatalf("reading built settings: %v", readError)
	}
	if !strings.HasPrefix(string(settings), "NAME = \"billing\"\n") {
		t.Fatalf("unexpected settings contents %q", settings)
	}
	readme, _ := os.ReadFile(filepath.Join(destination, "README"))
	if string(readme) != "billing readme\n" {
		t.Fatalf("unexpected README contents %q", readme)
	}
	gitignore, _ := os.ReadFile(filepath.Join(destination, ".gitignore"))
	if string(gitignore) != "build/\n" {
		t.Fatalf("unexpected .gitignore contents %q", gitignore)
	}
}

func TestMarkdownCommandUsesConfiguration(t *testing.T) {
	projectDirectory := sampleProject(t)
	configurationPath := filepath.Join(t.TempDir(), "mdtree.yaml")
	writeTestFile(t, configurationPath, "markdown:\n  max_length: 2\n  replacements: ['PROJ:proj-token']\n")

	output, err := runCommand(t, &recordingCopier{}, "--config", configurationPath, "markdown", projectDirectory)
	if err != nil {
		t.Fatalf("markdown command: %v", err)
	}
	if !strings.Contains(output, "NAME = \"proj-token\"\n\n# ...\n```") {
		t.Fatalf("expected truncated settings.py:\n%s", output)
	}
	if !strings.Contains(output, "- `PROJ`: `proj-token`") {
		t.Fatalf("expected the configured declaration:\n%s", output)
	}

	flagOutput, flagError := runCommand(t, &recordingCopier{}, "--config", configurationPath, "markdown", projectDirectory, "-x", "-1")
	if flagError != nil {
		t.Fatalf("markdown command: %v", flagError)
	}
	if !strings.Contains(flagOutput, "PORT = 8000") {
		t.Fatalf("expected the flag to override the configured length:\n%s", flagOutput)
	}
}

func TestTreeCommandPrintsDiagram(t *testing.T) {
	projectDirectory := sampleProject(t)
	output, err := runCommand(t, &recordingCopier{}, "tree", projectDirectory, "-e", ".gitignore")
	if err != nil {
		t.Fatalf("tree command: %v", err)
	}
	expected := "├── README\n└── proj-token\n    └── settings.py\n"
	if output != expected {
		t.Fatalf("expected %q, got %q", expected, output)
	}
}

func TestTreeCommandWarnsWithoutHomeDirectory(t *testing.T) {
	projectDirectory := sampleProject(t)
	t.Setenv("HOME", "")
	core, recorded := observer.New(zapcore.DebugLevel)
	app := &application{logger: zap.New(core), level: zap.NewAtomicLevel(), copier: &recordingCopier{}}
	rootCommand := newRootCommand(app)
	var output bytes.Buffer
	rootCommand.SetOut(&output)
	rootCommand.SetArgs([]string{"tree", projectDirectory, "-e", ".gitignore"})
	if err := rootCommand.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("tree command: %v", err)
	}
	if !strings.Contains(output.String(), "settings.py") {
		t.Fatalf("expected the diagram, got %q", output.String())
	}
	warnings := recorded.FilterMessage(homeDirectoryMessage).FilterLevelExact(zapcore.WarnLevel).All()
	if len(warnings) != 1 {
		t.Fatalf("expected one home directory warning, got %d", len(warnings))
	}
}

func TestTreeCommandJSONFormat(t *testing.T) {
	projectDirectory := sampleProject(t)
	output, err := runCommand(t, &recordingCopier{}, "t", projectDirectory, "-e", ".gitignore", "--format", "JSON")
	if err != nil {
		t.Fatalf("tree command: %v", err)
	}
	var decoded types.TreeOutputNode
	if decodeError := json.Unmarshal([]byte(output), &decoded); decodeError != nil {
		t.Fatalf("decode %q: %v", output, decodeError)
	}
	if decoded.Name != filepath.Base(projectDirectory) || decoded.Path != "." {
		t.Fatalf("unexpected root %+v", decoded)
	}
	if decoded.TotalFiles != 2 || len(decoded.Children) != 2 {
		t.Fatalf("expected two files in two children, got %+v", decoded)
	}
	if decoded.Children[1].Children[0].Path != "proj-token/settings.py" {
		t.Fatalf("unexpected nested path %q", decoded.Children[1].Children[0].Path)
	}
}

func TestInitCommandWritesConfiguration(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	workingDirectory := t.TempDir()
	t.Chdir(workingDirectory)

	if _, err := runCommand(t, &recordingCopier{}, "init"); err != nil {
		t.Fatalf("init command: %v", err)
	}
	if _, statError := os.Stat(filepath.Join(workingDirectory, utils.ConfigFileName)); statError != nil {
		t.Fatalf("expected configuration file: %v", statError)
	}
	if _, err := runCommand(t, &recordingCopier{}, "init"); err == nil {
		t.Fatalf("expected an error for an existing configuration")
	}
	if _, err := runCommand(t, &recordingCopier{}, "init", "--force"); err != nil {
		t.Fatalf("forced init command: %v", err)
	}
}

func TestCommandErrors(t *testing.T) {
	projectDirectory := sampleProject(t)
	testCases := []struct {
		name      string
		arguments []string
	}{
		{name: "invalid_declaration", arguments: []string{"markdown", projectDirectory, "-r", "no-colon"}},
		{name: "missing_path", arguments: []string{"markdown", filepath.Join(projectDirectory, "absent")}},
		{name: "file_path", arguments: []string{"tree", filepath.Join(projectDirectory, "README")}},
		{name: "unknown_format", arguments: []string{"tree", projectDirectory, "--format", "yaml"}},
		{name: "build_without_output", arguments: []string{"build", filepath.Join(projectDirectory, "README")}},
		{name: "document_without_tree", arguments: []string{"build", filepath.Join(projectDirectory, "README"), "-o", t.TempDir()}},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			if _, err := runCommand(t, &recordingCopier{}, testCase.arguments...); err == nil {
				t.Fatalf("expected an error for %v", testCase.arguments)
			}
		})
	}
}
