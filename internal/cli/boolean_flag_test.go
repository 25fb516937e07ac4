package cli

import (
	"testing"

	"github.com/spf13/cobra"
)

func TestRegisterBooleanFlagParsesValues(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name         string
		defaultValue bool
		arguments    []string
		expected     bool
		expectError  bool
	}{
		{name: "defaults_to_false", arguments: []string{}, expected: false},
		{name: "sets_true_without_value", arguments: []string{"--gitignore"}, expected: true},
		{name: "sets_false_with_equals", defaultValue: true, arguments: []string{"--gitignore=false"}, expected: false},
		{name: "sets_false_with_no_literal", defaultValue: true, arguments: []string{"--gitignore", "no"}, expected: false},
		{name: "sets_true_with_on_literal", arguments: []string{"--gitignore", "on"}, expected: true},
		{name: "leaves_non_boolean_trailing_value", arguments: []string{"--gitignore", "maybe"}, expected: true},
		{name: "rejects_unknown_literal", arguments: []string{"--gitignore=maybe"}, expectError: true},
	}

	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()
			command := &cobra.Command{Use: "boolean-test"}
			flagValue := !testCase.defaultValue
			registerBooleanFlag(command.Flags(), &flagValue, "gitignore", testCase.defaultValue, "honor .gitignore")
			parseErr := command.ParseFlags(normalizeBooleanFlagArguments(command, testCase.arguments))
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

func TestNormalizeBooleanFlagArgumentsStopsAtTerminator(t *testing.T) {
	command := &cobra.Command{Use: "boolean-test"}
	var flagValue bool
	registerBooleanFlag(command.Flags(), &flagValue, "clipboard", false, "copy output")
	normalized := normalizeBooleanFlagArguments(command, []string{"--clipboard", "yes", "--", "--clipboard", "no"})
	expected := []string{"--clipboard=yes", "--", "--clipboard", "no"}
	if len(normalized) != len(expected) {
		t.Fatalf("unexpected arguments %v", normalized)
	}
	for index := range expected {
		if normalized[index] != expected[index] {
			t.Fatalf("unexpected arguments %v", normalized)
		}
	}
}
