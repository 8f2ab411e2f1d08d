// Package output renders traversed hierarchies for the tree command.
package output

import (
	"encoding/json"
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/temirov/mdtree/internal/node"
	"github.com/temirov/mdtree/internal/treetext"
	"github.com/temirov/mdtree/internal/types"
)

const (
	indentPrefix = ""
	indentSpacer = "  "

	xmlHeader = xml.Header

	rootPath      = "."
	lineSeparator = "\n"

	invalidFormatMessage = "invalid format value '%s'"
)

// IsSupportedFormat reports whether the provided format is recognized.
func IsSupportedFormat(format string) bool {
	switch format {
	case types.FormatRaw, types.FormatJSON, types.FormatXML:
		return true
	default:
		return false
	}
}

// NewTreeOutputNode converts a hierarchy into its serializable form. The
// root is labelled rootName and reported with the path ".".
func NewTreeOutputNode(root *node.Node, rootName string) *types.TreeOutputNode {
	if root == nil {
		return nil
	}
	outputNode := convert(root)
	outputNode.Name = rootName
	outputNode.Path = rootPath
	return outputNode
}

func convert(current *node.Node) *types.TreeOutputNode {
	outputNode := &types.TreeOutputNode{
		Path: current.Path(),
		Name: current.Name,
		Type: current.Type,
	}
	if !current.IsDir() {
		return outputNode
	}
	for _, child := range current.Children {
		if child == nil {
			continue
		}
		childOutput := convert(child)
		if child.IsDir() {
			outputNode.TotalFiles += childOutput.TotalFiles
		} else {
			outputNode.TotalFiles++
		}
		outputNode.Children = append(outputNode.Children, childOutput)
	}
	return outputNode
}

// RenderTree renders root in the requested format. The raw format is the
// diagram without the root line.
func RenderTree(root *node.Node, rootName string, format string) (string, error) {
	switch format {
	case types.FormatRaw:
		return strings.Join(treetext.Render(root), lineSeparator), nil
	case types.FormatJSON:
		encoded, jsonEncodeError := json.MarshalIndent(NewTreeOutputNode(root, rootName), indentPrefix, indentSpacer)
		return string(encoded), jsonEncodeError
	case types.FormatXML:
		encoded, xmlMarshalError := xml.MarshalIndent(NewTreeOutputNode(root, rootName), indentPrefix, indentSpacer)
		if xmlMarshalError != nil {
			return "", xmlMarshalError
		}
		return xmlHeader + string(encoded), nil
	default:
		return "", fmt.Errorf(invalidFormatMessage, format)
	}
}
