package commands

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/mod/modfile"
)

const (
	goModFileName = "go.mod"

	// ModuleKey is the substitution key declared for the Go module path.
	ModuleKey = "MODULE"

	errorReadModuleFormat = "reading %s: %w"
)

var errMissingModulePath = errors.New("no module directive")

// DetectModulePath returns the module path declared in the go.mod file at
// the top of rootDirectoryPath.
func DetectModulePath(rootDirectoryPath string) (string, error) {
	goModPath := filepath.Join(rootDirectoryPath, goModFileName)
	data, readError := os.ReadFile(goModPath)
	if readError != nil {
		return "", fmt.Errorf(errorReadModuleFormat, goModPath, readError)
	}
	modulePath := modfile.ModulePath(data)
	if modulePath == "" {
		return "", fmt.Errorf(errorReadModuleFormat, goModPath, errMissingModulePath)
	}
	return modulePath, nil
}
