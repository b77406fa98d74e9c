package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const (
	toggleFlagTypeName        = "bool"
	toggleFlagImplicitValue   = "true"
	toggleFlagAcceptedValues  = "true, false, yes, no, on, off, 1, 0"
	errorInvalidToggleFormat  = "invalid boolean value %q for --%s; accepted values: %s"
	longFlagPrefix            = "--"
	flagValueAssignment       = "="
	flagArgumentTerminator    = "--"
	flagValueAssignmentFormat = "--%s=%s"
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

// toggleFlagValue is a boolean flag that accepts an optional literal, so a configured
// default can be switched off with "--copy no" as well as "--copy=false".
type toggleFlagValue struct {
	target   *bool
	flagName string
}

func parseToggleLiteral(input string) (bool, bool) {
	parsed, known := toggleLiterals[strings.ToLower(strings.TrimSpace(input))]
	return parsed, known
}

func (value *toggleFlagValue) Set(input string) error {
	if strings.TrimSpace(input) == "" {
		input = toggleFlagImplicitValue
	}
	parsed, known := parseToggleLiteral(input)
	if !known {
		return fmt.Errorf(errorInvalidToggleFormat, input, value.flagName, toggleFlagAcceptedValues)
	}
	*value.target = parsed
	return nil
}

func (value *toggleFlagValue) String() string {
	if value.target == nil {
		return strconv.FormatBool(false)
	}
	return strconv.FormatBool(*value.target)
}

func (value *toggleFlagValue) Type() string {
	return toggleFlagTypeName
}

func registerToggleFlag(flagSet *pflag.FlagSet, target *bool, name string, usage string) {
	*target = false
	flagSet.Var(&toggleFlagValue{target: target, flagName: name}, name, usage)
	flagSet.Lookup(name).NoOptDefVal = toggleFlagImplicitValue
}

// normalizeToggleArguments rewrites "--flag literal" into "--flag=literal" for toggle flags
// so that the literal is not taken as a positional argument.
func normalizeToggleArguments(command *cobra.Command, arguments []string) []string {
	toggleNames := map[string]struct{}{}
	collectToggleFlagNames(command, toggleNames)
	if len(toggleNames) == 0 {
		return arguments
	}

	normalized := make([]string, 0, len(arguments))
	for index := 0; index < len(arguments); index++ {
		currentArgument := arguments[index]
		if currentArgument == flagArgumentTerminator {
			normalized = append(normalized, arguments[index:]...)
			break
		}
		flagName := strings.TrimPrefix(currentArgument, longFlagPrefix)
		_, isToggle := toggleNames[flagName]
		if isToggle && strings.HasPrefix(currentArgument, longFlagPrefix) && !strings.Contains(currentArgument, flagValueAssignment) && index+1 < len(arguments) {
			if _, known := parseToggleLiteral(arguments[index+1]); known {
				normalized = append(normalized, fmt.Sprintf(flagValueAssignmentFormat, flagName, arguments[index+1]))
				index++
				continue
			}
		}
		normalized = append(normalized, currentArgument)
	}
	return normalized
}

func collectToggleFlagNames(command *cobra.Command, target map[string]struct{}) {
	visit := func(flag *pflag.Flag) {
		if _, isToggle := flag.Value.(*toggleFlagValue); isToggle {
			target[flag.Name] = struct{}{}
		}
	}
	command.PersistentFlags().VisitAll(visit)
	command.Flags().VisitAll(visit)
	for _, child := range command.Commands() {
		collectToggleFlagNames(child, target)
	}
}
