package config

import (
	"path/filepath"
	"reflect"
	"testing"

	"github.com/temirov/mdtree/internal/utils"
)

func TestLoadApplicationConfigurationMergesSources(t *testing.T) {
	testCases := []struct {
		name                string
		globalContent       string
		localContent        string
		explicitPath        string
		explicitContent     string
		expectMaxLength     *int
		expectModel         string
		expectExclude       []string
		expectClipboard     *bool
		expectIgnoreFolders *bool
		expectValuesFile    string
		expectTreeFormat    string
	}{
		{
			name:             "local_overrides_global",
			globalContent:    "markdown:\n  max_length: 30\n  clipboard: true\n  tokens:\n    model: gpt-4\n  paths:\n    exclude: [dist]\n",
			localContent:     "markdown:\n  clipboard: false\n  paths:\n    exclude: [vendor, vendor]\nbuild:\n  values_file: values.env\ntree:\n  format: xml\n",
			expectMaxLength:  intPointer(30),
			expectModel:      "gpt-4",
			expectExclude:    []string{"vendor"},
			expectClipboard:  boolPointer(false),
			expectValuesFile: "values.env",
			expectTreeFormat: "xml",
		},
		{
			name:                "explicit_path_replaces_local",
			globalContent:       "build:\n  ignore_existing_folders: true\n",
			localContent:        "markdown:\n  max_length: 5\n",
			explicitPath:        "custom.yml",
			explicitContent:     "markdown:\n  max_length: -1\n",
			expectMaxLength:     intPointer(-1),
			expectIgnoreFolders: boolPointer(true),
		},
		{
			name: "no_files",
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			homeDirectory := t.TempDir()
			workingDirectory := t.TempDir()
			t.Setenv("HOME", homeDirectory)
			t.Setenv("USERPROFILE", homeDirectory)
			if testCase.globalContent != "" {
				writeTestFile(t, GlobalConfigurationPath(homeDirectory), testCase.globalContent)
			}
			if testCase.localContent != "" {
				writeTestFile(t, filepath.Join(workingDirectory, utils.ConfigFileName), testCase.localContent)
			}
			if testCase.explicitPath != "" {
				writeTestFile(t, filepath.Join(workingDirectory, testCase.explicitPath), testCase.explicitContent)
			}

			loaded, loadError := LoadApplicationConfiguration(LoadOptions{WorkingDirectory: workingDirectory, ExplicitFilePath: testCase.explicitPath})
			if loadError != nil {
				t.Fatalf("LoadApplicationConfiguration error: %v", loadError)
			}
			if !reflect.DeepEqual(loaded.Markdown.MaxLength, testCase.expectMaxLength) {
				t.Fatalf("unexpected max length: %v", loaded.Markdown.MaxLength)
			}
			if loaded.Markdown.Tokens.Model != testCase.expectModel {
				t.Fatalf("unexpected model: %q", loaded.Markdown.Tokens.Model)
			}
			if len(testCase.expectExclude) > 0 && !reflect.DeepEqual(loaded.Markdown.Paths.Exclude, testCase.expectExclude) {
				t.Fatalf("unexpected exclusions: %v", loaded.Markdown.Paths.Exclude)
			}
			if !reflect.DeepEqual(loaded.Markdown.Clipboard, testCase.expectClipboard) {
				t.Fatalf("unexpected clipboard setting: %v", loaded.Markdown.Clipboard)
			}
			if !reflect.DeepEqual(loaded.Build.IgnoreExistingFolders, testCase.expectIgnoreFolders) {
				t.Fatalf("unexpected ignore_existing_folders: %v", loaded.Build.IgnoreExistingFolders)
			}
			if loaded.Build.ValuesFile != testCase.expectValuesFile {
				t.Fatalf("unexpected values file: %q", loaded.Build.ValuesFile)
			}
			if loaded.Tree.Format != testCase.expectTreeFormat {
				t.Fatalf("unexpected tree format: %q", loaded.Tree.Format)
			}
		})
	}
}

func TestLoadApplicationConfigurationRejectsDirectory(t *testing.T) {
	homeDirectory := t.TempDir()
	t.Setenv("HOME", homeDirectory)
	t.Setenv("USERPROFILE", homeDirectory)
	workingDirectory := t.TempDir()

	if _, loadError := LoadApplicationConfiguration(LoadOptions{WorkingDirectory: workingDirectory, ExplicitFilePath: workingDirectory}); loadError == nil {
		t.Fatalf("expected an error for a directory configuration path")
	}
}

func boolPointer(value bool) *bool {
	return &value
}

func intPointer(value int) *int {
	return &value
}
