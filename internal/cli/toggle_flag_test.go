package cli

import (
	"reflect"
	"testing"

	"github.com/spf13/cobra"
)

func TestRegisterToggleFlagParsesValues(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name        string
		arguments   []string
		expected    bool
		expectError bool
	}{
		{name: "defaults_to_false", arguments: []string{}, expected: false},
		{name: "sets_true_without_value", arguments: []string{"--feature"}, expected: true},
		{name: "sets_false_with_equals", arguments: []string{"--feature=false"}, expected: false},
		{name: "sets_false_with_no_literal", arguments: []string{"--feature", "no"}, expected: false},
		{name: "sets_true_with_on_literal", arguments: []string{"--feature", "on"}, expected: true},
		{name: "ignores_non_boolean_trailing_value", arguments: []string{"--feature", "maybe"}, expected: true},
		{name: "rejects_unknown_literal", arguments: []string{"--feature=maybe"}, expectError: true},
	}

	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()
			command := &cobra.Command{Use: "toggle-test"}
			var flagValue bool
			registerToggleFlag(command.Flags(), &flagValue, "feature", "toggle feature behaviour")
			parseErr := command.ParseFlags(normalizeToggleArguments(command, testCase.arguments))
			if testCase.expectError {
				if parseErr == nil {
					t.Fatalf("expected parse error for arguments %v", testCase.arguments)
				}
				return
			}
			if parseErr != nil {
				t.Fatalf("unexpected parse error: %v", parseErr)
			}
			if flagValue != testCase.expected {
				t.Fatalf("expected %t, got %t", testCase.expected, flagValue)
			}
		})
	}
}

func TestNormalizeToggleArgumentsLeavesOtherFlags(t *testing.T) {
	command := &cobra.Command{Use: "toggle-test"}
	var toggle bool
	var output string
	registerToggleFlag(command.Flags(), &toggle, "copy", "copy")
	command.Flags().StringVar(&output, "output", "", "output")

	arguments := []string{"--output", "yes", "--copy", "off", "--", "--copy", "on"}
	expected := []string{"--output", "yes", "--copy=off", "--", "--copy", "on"}
	if normalized := normalizeToggleArguments(command, arguments); !reflect.DeepEqual(normalized, expected) {
		t.Fatalf("expected %q, got %q", expected, normalized)
	}
}
