// Package clipboard copies generated documents and diagrams to the system
// clipboard.
package clipboard

import (
	systemclipboard "github.com/atotto/clipboard"
)

// Copier copies text to the clipboard.
type Copier interface {
	Copy(text string) error
}

// CopierFunc adapts a function to Copier.
type CopierFunc func(text string) error

// Copy calls the function.
func (copyText CopierFunc) Copy(text string) error {
	return copyText(text)
}

// System writes to the operating system clipboard.
var System Copier = CopierFunc(systemclipboard.WriteAll)
