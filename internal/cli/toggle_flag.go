package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const (
	toggleFlagTypeName     = "bool"
	toggleImplicitLiteral  = "true"
	toggleAcceptedLiterals = "true, false, yes, no, on, off, 1, 0"
	errorToggleValueFormat = "invalid boolean value %q for --%s; accepted values: %s"
)

var toggleLiterals = map[string]bool{
	"true":  true,
	"t":     true,
	"1":     true,
	"yes":   true,
	"y":     true,
	"on":    true,
	"false": false,
	"f":     false,
	"0":     false,
	"no":    false,
	"n":     false,
	"off":   false,
}

// parseToggleLiteral interprets a boolean literal. An empty literal means
// true, the way a bare flag does.
func parseToggleLiteral(input string) (bool, bool) {
	normalized := strings.ToLower(strings.TrimSpace(input))
	if normalized == "" {
		return true, true
	}
	parsed, known := toggleLiterals[normalized]
	return parsed, known
}

// toggleFlag is a boolean flag that also accepts its value as the next
// argument, as in "--commit no".
type toggleFlag struct {
	target *bool
	name   string
}

func (flag *toggleFlag) Set(input string) error {
	parsed, known := parseToggleLiteral(input)
	if !known {
		return fmt.Errorf(errorToggleValueFormat, input, flag.name, toggleAcceptedLiterals)
	}
	*flag.target = parsed
	return nil
}

func (flag *toggleFlag) String() string {
	if flag == nil || flag.target == nil {
		return strconv.FormatBool(false)
	}
	return strconv.FormatBool(*flag.target)
}

func (flag *toggleFlag) Type() string {
	return toggleFlagTypeName
}

// registerBooleanFlag defines a toggle flag on flagSet, setting target to
// defaultValue.
func registerBooleanFlag(flagSet *pflag.FlagSet, target *bool, name string, defaultValue bool, usage string) {
	if flagSet == nil || target == nil {
		return
	}
	*target = defaultValue
	flagSet.Var(&toggleFlag{target: target, name: name}, name, usage)
	registered := flagSet.Lookup(name)
	registered.DefValue = strconv.FormatBool(defaultValue)
	registered.NoOptDefVal = toggleImplicitLiteral
}

// normalizeBooleanFlagArguments joins "--name literal" into "--name=literal"
// for every toggle flag of the command tree. Anything that is not a boolean
// literal, such as a path, stays a separate argument.
func normalizeBooleanFlagArguments(command *cobra.Command, arguments []string) []string {
	toggleNames := toggleFlagNames(command)
	if len(toggleNames) == 0 {
		return arguments
	}
	normalized := make([]string, 0, len(arguments))
	for index := 0; index < len(arguments); index++ {
		argument := arguments[index]
		if argument == "--" {
			return append(normalized, arguments[index:]...)
		}
		name, isLongFlag := strings.CutPrefix(argument, "--")
		if isLongFlag && !strings.Contains(name, "=") && index+1 < len(arguments) {
			if _, isToggle := toggleNames[name]; isToggle {
				next := arguments[index+1]
				if _, known := toggleLiterals[strings.ToLower(strings.TrimSpace(next))]; known {
					normalized = append(normalized, "--"+name+"="+next)
					index++
					continue
				}
			}
		}
		normalized = append(normalized, argument)
	}
	return normalized
}

func toggleFlagNames(command *cobra.Command) map[string]struct{} {
	names := map[string]struct{}{}
	var collect func(current *cobra.Command)
	collect = func(current *cobra.Command) {
		for _, flagSet := range []*pflag.FlagSet{current.PersistentFlags(), current.Flags()} {
			flagSet.VisitAll(func(flag *pflag.Flag) {
				if _, isToggle := flag.Value.(*toggleFlag); isToggle {
					names[flag.Name] = struct{}{}
				}
			})
		}
		for _, child := range current.Commands() {
			collect(child)
		}
	}
	if command != nil {
		collect(command)
	}
	return names
}
