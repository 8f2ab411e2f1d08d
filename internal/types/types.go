// Package types defines the cross-package names and values used by the mdtree CLI.
package types

import "encoding/xml"

const (
	CommandMarkdown = "markdown"
	CommandBuild    = "build"
	CommandTree     = "tree"
	CommandInit     = "init"

	AliasMarkdown = "md"
	AliasBuild    = "b"
	AliasTree     = "t"

	FormatRaw  = "raw"
	FormatJSON = "json"
	FormatXML  = "xml"
)

// ValidatedPath is an absolute input path that already passed existence checks.
type ValidatedPath struct {
	AbsolutePath string
	IsDir        bool
}

// TreeOutputNode is the serializable form of a traversed hierarchy.
type TreeOutputNode struct {
	XMLName    xml.Name          `json:"-" xml:"node"`
	Path       string            `json:"path" xml:"path"`
	Name       string            `json:"name" xml:"name"`
	Type       string            `json:"type" xml:"type"`
	Children   []*TreeOutputNode `json:"children,omitempty" xml:"children>node,omitempty"`
	TotalFiles int               `json:"totalFiles,omitempty" xml:"totalFiles,omitempty"`
}
