package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/pflag"

	"github.com/temirov/mdtree/internal/types"
)

const (
	copyFlagTypeName            = "copy"
	copyFlagArgument            = "--" + copyFlagName
	invalidCopyFlagValueMessage = "invalid copy flag value '%s'"
)

var copyFlagCommandNames = map[string]struct{}{
	types.CommandMarkdown: {},
	types.AliasMarkdown:   {},
	types.CommandTree:     {},
	types.AliasTree:       {},
}

// isCopyFlagCommand reports whether argument names a command that accepts
// the copy flag.
func isCopyFlagCommand(argument string) bool {
	normalized := strings.ToLower(strings.TrimSpace(argument))
	_, known := copyFlagCommandNames[normalized]
	return known
}

// copyFlagValue has its own type name so that boolean normalization leaves
// --copy to normalizeCopyFlagArguments.
type copyFlagValue struct {
	target *bool
}

func (value *copyFlagValue) Set(input string) error {
	if value == nil || value.target == nil {
		return fmt.Errorf(invalidCopyFlagValueMessage, input)
	}
	booleanValue, ok := parseToggleLiteral(input)
	if !ok {
		return fmt.Errorf(invalidCopyFlagValueMessage, input)
	}
	*value.target = booleanValue
	return nil
}

func (value *copyFlagValue) String() string {
	return strconv.FormatBool(value != nil && value.target != nil && *value.target)
}

func (value *copyFlagValue) Type() string {
	return copyFlagTypeName
}

func registerCopyFlag(flagSet *pflag.FlagSet, target *bool) {
	if flagSet == nil || target == nil {
		return
	}
	*target = false
	flagSet.Var(&copyFlagValue{target: target}, copyFlagName, copyFlagDescription)
	flagSet.Lookup(copyFlagName).NoOptDefVal = toggleImplicitLiteral
}

// normalizeCopyFlagArguments binds an explicit literal following --copy to
// the flag. Once a copy-capable command has been seen, a bare --copy before
// a positional path stays a bare flag.
func normalizeCopyFlagArguments(arguments []string) []string {
	normalized := make([]string, 0, len(arguments))
	afterCommand := false
	for index := 0; index < len(arguments); index++ {
		argument := arguments[index]
		if argument == "--" {
			return append(normalized, arguments[index:]...)
		}
		if argument != copyFlagArgument {
			afterCommand = afterCommand || isCopyFlagCommand(argument)
			normalized = append(normalized, argument)
			continue
		}
		binding, consumed := bindCopyValue(arguments[index+1:], afterCommand)
		normalized = append(normalized, binding)
		index += consumed
	}
	return normalized
}

// bindCopyValue returns the form --copy takes given the arguments after it
// and how many of them it absorbs.
func bindCopyValue(following []string, afterCommand bool) (string, int) {
	if len(following) == 0 || strings.HasPrefix(following[0], "-") {
		return copyFlagArgument + "=" + toggleImplicitLiteral, 0
	}
	if enabled, known := parseToggleLiteral(following[0]); known {
		return copyFlagArgument + "=" + strconv.FormatBool(enabled), 1
	}
	if afterCommand || isCopyFlagCommand(following[0]) {
		return copyFlagArgument, 0
	}
	return copyFlagArgument + "=" + following[0], 1
}
