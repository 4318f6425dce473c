package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/temirov/dirinfo/internal/annotate"
	"github.com/temirov/dirinfo/internal/types"
	"github.com/temirov/dirinfo/internal/utils"
)

type recordingCopier struct {
	copied []string
	err    error
}

func (copier *recordingCopier) Copy(text string) error {
	copier.copied = append(copier.copied, text)
	return copier.err
}

type commandHarness struct {
	workingDirectory string
	stdout           bytes.Buffer
	stderr           bytes.Buffer
	copier           recordingCopier
}

// newCommandHarness lays out a/b with an annotation on a.
func newCommandHarness(t *testing.T) *commandHarness {
	t.Helper()
	harness := &commandHarness{workingDirectory: t.TempDir()}
	if err := os.MkdirAll(filepath.Join(harness.workingDirectory, "a", "b"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	harness.writeFile(t, filepath.Join("a", utils.AnnotationFileName), "notes\n")
	return harness
}

func (harness *commandHarness) writeFile(t *testing.T, relativePath string, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(harness.workingDirectory, relativePath), []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", relativePath, err)
	}
}

func (harness *commandHarness) run(t *testing.T, arguments ...string) error {
	t.Helper()
	harness.stdout.Reset()
	harness.stderr.Reset()
	dependencies := applicationDependencies{
		stdout:                &harness.stdout,
		stderr:                &harness.stderr,
		workingDirectory:      harness.workingDirectory,
		globalConfigDirectory: t.TempDir(),
		fileSystem:            afero.NewOsFs(),
		copier:                &harness.copier,
		logger:                zap.NewNop(),
		logLevel:              zap.NewAtomicLevel(),
	}
	rootCommand := createRootCommand(dependencies)
	rootCommand.SetArgs(normalizeToggleArguments(rootCommand, arguments))
	return rootCommand.Execute()
}

func expectedAnnotatedTree(separator string) string {
	// column offset is len("2 directories\n")
	padding := 14 - len([]rune("└── a")) - len([]rune(separator))
	return ".\n" +
		"└── a" + strings.Repeat(" ", padding) + separator + " notes\n" +
		"    └── b\n" +
		"\n" +
		"2 directories\n"
}

func TestRootCommandAnnotatesWalkedTree(t *testing.T) {
	harness := newCommandHarness(t)
	if err := harness.run(t); err != nil {
		t.Fatalf("run: %v", err)
	}
	if harness.stdout.String() != expectedAnnotatedTree("-") {
		t.Fatalf("unexpected output:\n%q\nexpected:\n%q", harness.stdout.String(), expectedAnnotatedTree("-"))
	}
}

func TestRootCommandSeparatorPrecedence(t *testing.T) {
	testCases := []struct {
		name              string
		configContent     string
		arguments         []string
		expectedSeparator string
	}{
		{name: "default", expectedSeparator: "-"},
		{name: "local_config", configContent: "annotation:\n  separator: \"#\"\n", expectedSeparator: "#"},
		{name: "flag_beats_config", configContent: "annotation:\n  separator: \"#\"\n", arguments: []string{"--separator", "::"}, expectedSeparator: "::"},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(testingHandle *testing.T) {
			harness := newCommandHarness(testingHandle)
			if testCase.configContent != "" {
				harness.writeFile(testingHandle, utils.ConfigFileName, testCase.configContent)
			}
			if err := harness.run(testingHandle, testCase.arguments...); err != nil {
				testingHandle.Fatalf("run: %v", err)
			}
			if harness.stdout.String() != expectedAnnotatedTree(testCase.expectedSeparator) {
				testingHandle.Fatalf("unexpected output %q", harness.stdout.String())
			}
		})
	}
}

func TestRootCommandRendersJSON(t *testing.T) {
	harness := newCommandHarness(t)
	if err := harness.run(t, "--format", "JSON"); err != nil {
		t.Fatalf("run: %v", err)
	}
	var lines []types.AnnotatedLine
	if err := json.Unmarshal(harness.stdout.Bytes(), &lines); err != nil {
		t.Fatalf("decode %q: %v", harness.stdout.String(), err)
	}
	if len(lines) != 5 {
		t.Fatalf("expected 5 lines, got %d", len(lines))
	}
	if lines[1].Path != "a" || lines[1].Annotation != "notes" || lines[2].Path != "a/b" || lines[2].Depth != 2 {
		t.Fatalf("unexpected directory entries %+v", lines[1:3])
	}
	if lines[4].Kind != types.LineKindSummary {
		t.Fatalf("expected summary line, got %+v", lines[4])
	}
}

func TestRootCommandCopiesPlainOutput(t *testing.T) {
	harness := newCommandHarness(t)
	if err := harness.run(t, "--copy", "--color", "always"); err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(harness.copier.copied) != 1 {
		t.Fatalf("expected one clipboard write, got %d", len(harness.copier.copied))
	}
	if harness.copier.copied[0] != expectedAnnotatedTree("-") {
		t.Fatalf("clipboard must hold uncoloured output, got %q", harness.copier.copied[0])
	}
	if !strings.Contains(harness.stdout.String(), "\x1b[") {
		t.Fatalf("expected coloured terminal output, got %q", harness.stdout.String())
	}

	harness.copier.err = errors.New("no clipboard")
	if err := harness.run(t, "--copy"); err == nil {
		t.Fatalf("expected clipboard failure to surface")
	}
}

func TestRootCommandCommandSourceStructureChecks(t *testing.T) {
	testCases := []struct {
		name          string
		listing       string
		arguments     []string
		expectedError error
	}{
		{name: "consistent", listing: ".\n└── a\n    └── b\n"},
		{name: "indentation_mismatch", listing: ".\n└── a\n└── b\n", expectedError: annotate.ErrStructureMismatch},
		{name: "lenient_indentation", listing: ".\n└── a\n└── b\n", arguments: []string{"--strict", "off"}},
		{name: "unknown_directory", listing: ".\n└── missing\n", expectedError: annotate.ErrPathStackExhausted},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(testingHandle *testing.T) {
			harness := newCommandHarness(testingHandle)
			harness.writeFile(testingHandle, "listing.txt", testCase.listing)
			harness.writeFile(testingHandle, utils.ConfigFileName, "source: command\ncommand:\n  name: cat\n  args: [listing.txt]\n")
			runError := harness.run(testingHandle, testCase.arguments...)
			if testCase.expectedError == nil {
				if runError != nil {
					testingHandle.Fatalf("run: %v", runError)
				}
				if !strings.Contains(harness.stdout.String(), "- notes\n") {
					testingHandle.Fatalf("expected annotation in %q", harness.stdout.String())
				}
				return
			}
			if !errors.Is(runError, testCase.expectedError) {
				testingHandle.Fatalf("expected %v, got %v", testCase.expectedError, runError)
			}
		})
	}
}

func TestRootCommandRejectsInvalidSettings(t *testing.T) {
	testCases := [][]string{
		{"--format", "xml"},
		{"--source", "ftp"},
		{"--color", "sometimes"},
		{"--width", "bytes"},
		{"--log-level", "loud"},
		{"-e", "[unclosed"},
		{"positional"},
	}
	for _, arguments := range testCases {
		harness := newCommandHarness(t)
		if err := harness.run(t, arguments...); err == nil {
			t.Fatalf("expected error for %v", arguments)
		}
	}
}

func TestRootCommandExcludesDirectories(t *testing.T) {
	harness := newCommandHarness(t)
	if err := harness.run(t, "-e", "a/b"); err != nil {
		t.Fatalf("run: %v", err)
	}
	if strings.Contains(harness.stdout.String(), "b\n") || !strings.Contains(harness.stdout.String(), "1 directory\n") {
		t.Fatalf("expected a/b to be excluded, got %q", harness.stdout.String())
	}
}

func TestNoteCommandLifecycle(t *testing.T) {
	harness := newCommandHarness(t)
	annotationPath := filepath.Join(harness.workingDirectory, "a", "b", utils.AnnotationFileName)

	if err := harness.run(t, "note", "a/b", "leaf", "directory"); err != nil {
		t.Fatalf("note set: %v", err)
	}
	content, readError := os.ReadFile(annotationPath)
	if readError != nil || string(content) != "leaf directory\n" {
		t.Fatalf("unexpected annotation file %q (%v)", string(content), readError)
	}

	if err := harness.run(t, "note", "a/b"); err != nil {
		t.Fatalf("note show: %v", err)
	}
	if harness.stdout.String() != "leaf directory\n" {
		t.Fatalf("unexpected note output %q", harness.stdout.String())
	}

	if err := harness.run(t, "note", "--clear", "a/b"); err != nil {
		t.Fatalf("note clear: %v", err)
	}
	if _, statError := os.Stat(annotationPath); !os.IsNotExist(statError) {
		t.Fatalf("expected annotation to be removed, stat error %v", statError)
	}

	if err := harness.run(t, "note", "--clear", "a/b", "text"); !errors.Is(err, errClearWithText) {
		t.Fatalf("expected errClearWithText, got %v", err)
	}
	if err := harness.run(t, "note", "missing"); err == nil {
		t.Fatalf("expected error for a missing directory")
	}
}

func TestNoteCommandHonoursAnnotationFileFlag(t *testing.T) {
	harness := newCommandHarness(t)
	if err := harness.run(t, "note", "--annotation-file", ".readme", "a", "custom"); err != nil {
		t.Fatalf("note set: %v", err)
	}
	if _, statError := os.Stat(filepath.Join(harness.workingDirectory, "a", ".readme")); statError != nil {
		t.Fatalf("expected custom annotation file: %v", statError)
	}
	if err := harness.run(t, "--annotation-file", ".readme"); err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(harness.stdout.String(), "- custom\n") {
		t.Fatalf("expected custom annotation in %q", harness.stdout.String())
	}
}

func TestInitCommandWritesConfiguration(t *testing.T) {
	harness := newCommandHarness(t)
	if err := harness.run(t, "init"); err != nil {
		t.Fatalf("init: %v", err)
	}
	expectedPath := filepath.Join(harness.workingDirectory, utils.ConfigFileName)
	if !strings.Contains(harness.stdout.String(), expectedPath) {
		t.Fatalf("expected path in output, got %q", harness.stdout.String())
	}
	if err := harness.run(t, "init"); err == nil {
		t.Fatalf("expected error without --force")
	}
	if err := harness.run(t, "init", "--force"); err != nil {
		t.Fatalf("init --force: %v", err)
	}
	if err := harness.run(t); err != nil {
		t.Fatalf("run with initialized configuration: %v", err)
	}
	if harness.stdout.String() != expectedAnnotatedTree("-") {
		t.Fatalf("default configuration changed output: %q", harness.stdout.String())
	}
}

func TestVersionFlagPrintsLinkedVersion(t *testing.T) {
	originalVersion := utils.Version
	utils.Version = "v1.2.3"
	t.Cleanup(func() { utils.Version = originalVersion })

	harness := newCommandHarness(t)
	for _, arguments := range [][]string{{"--version"}, {"note", "a", "--version"}} {
		if err := harness.run(t, arguments...); err != nil {
			t.Fatalf("run %v: %v", arguments, err)
		}
		if harness.stdout.String() != "dirinfo version: v1.2.3\n" {
			t.Fatalf("unexpected version output %q", harness.stdout.String())
		}
	}
}

func TestRootCommandWalksSameNamedAndSpacedDirectories(t *testing.T) {
	harness := newCommandHarness(t)
	for _, directory := range []string{filepath.Join("a", "b", "x"), filepath.Join("a", "x"), "my docs"} {
		if err := os.MkdirAll(filepath.Join(harness.workingDirectory, directory), 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", directory, err)
		}
	}
	harness.writeFile(t, filepath.Join("a", "x", utils.AnnotationFileName), "shallow\n")
	harness.writeFile(t, filepath.Join("my docs", utils.AnnotationFileName), "manuals\n")

	if err := harness.run(t); err != nil {
		t.Fatalf("run: %v\noutput so far: %q", err, harness.stdout.String())
	}
	outputLines := strings.Split(harness.stdout.String(), "\n")
	expectedSuffixes := map[string]string{
		"│   │   └── x": "",
		"│   └── x":     "- shallow",
		"└── my docs":   "- manuals",
	}
	for prefix, suffix := range expectedSuffixes {
		found := false
		for _, outputLine := range outputLines {
			if !strings.HasPrefix(outputLine, prefix) {
				continue
			}
			found = true
			if suffix == "" && strings.Contains(outputLine, "-") {
				t.Fatalf("line %q must not carry an annotation", outputLine)
			}
			if suffix != "" && !strings.HasSuffix(outputLine, suffix) {
				t.Fatalf("line %q should end with %q", outputLine, suffix)
			}
		}
		if !found {
			t.Fatalf("missing line starting with %q in %q", prefix, harness.stdout.String())
		}
	}
	if !strings.Contains(harness.stdout.String(), "5 directories\n") {
		t.Fatalf("expected full listing, got %q", harness.stdout.String())
	}
}
