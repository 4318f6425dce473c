package cli

import (
	"testing"

	"github.com/spf13/cobra"
)

func TestRegisterToggleFlagParsesValues(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name         string
		defaultValue bool
		arguments    []string
		expected     bool
		expectError  bool
	}{
		{
			name:         "keeps_default_true",
			defaultValue: true,
			arguments:    []string{},
			expected:     true,
		},
		{
			name:         "sets_true_without_value",
			defaultValue: false,
			arguments:    []string{"--copy"},
			expected:     true,
		},
		{
			name:         "sets_false_with_equals",
			defaultValue: true,
			arguments:    []string{"--copy=false"},
			expected:     false,
		},
		{
			name:         "sets_false_with_separate_no",
			defaultValue: true,
			arguments:    []string{"--copy", "no"},
			expected:     false,
		},
		{
			name:         "sets_true_with_on_literal",
			defaultValue: false,
			arguments:    []string{"--copy", "ON"},
			expected:     true,
		},
		{
			name:         "leaves_non_literal_as_argument",
			defaultValue: false,
			arguments:    []string{"--copy", "maybe"},
			expected:     true,
		},
		{
			name:         "rejects_invalid_equals_value",
			defaultValue: false,
			arguments:    []string{"--copy=maybe"},
			expectError:  true,
		},
	}

	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(testingHandle *testing.T) {
			testingHandle.Parallel()
			command := &cobra.Command{Use: "toggle-test"}
			flagValue := !testCase.defaultValue
			registerToggleFlag(command.Flags(), &flagValue, "copy", testCase.defaultValue, "copy output")
			parseError := command.ParseFlags(normalizeToggleArguments(command, testCase.arguments))
			if testCase.expectError {
				if parseError == nil {
					testingHandle.Fatalf("expected parse error for arguments %v", testCase.arguments)
				}
				return
			}
			if parseError != nil {
				testingHandle.Fatalf("unexpected parse error: %v", parseError)
			}
			if flagValue != testCase.expected {
				testingHandle.Fatalf("expected %t, got %t", testCase.expected, flagValue)
			}
		})
	}
}

func TestNormalizeToggleArgumentsStopsAtTerminator(t *testing.T) {
	command := &cobra.Command{Use: "toggle-test"}
	var strict bool
	registerToggleFlag(command.Flags(), &strict, "strict", true, "strict")
	normalized := normalizeToggleArguments(command, []string{"--strict", "off", "--", "--strict", "on"})
	expected := []string{"--strict=off", "--", "--strict", "on"}
	if len(normalized) != len(expected) {
		t.Fatalf("expected %v, got %v", expected, normalized)
	}
	for index := range expected {
		if normalized[index] != expected[index] {
			t.Fatalf("expected %v, got %v", expected, normalized)
		}
	}
}
