// Package annotate turns a tree -d style listing into annotated lines by tracking the
// directory path every line names and reading that directory's annotation file.
package annotate

import (
	"errors"
	"fmt"
	"path"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/temirov/dirinfo/internal/types"
	"github.com/temirov/dirinfo/internal/utils"
)

const (
	// rootMarker is the bottom entry of the path stack and names the listing root.
	rootMarker    = "."
	pathSeparator = "/"

	errorStackExhaustedFormat = "line %d: directory %q: %w"
	errorMismatchFormat       = "line %d: directory %q at indentation depth %d but path depth %d: %w"
	errorAnnotationFormat     = "line %d: %w"
)

var (
	// ErrPathStackExhausted reports a listed directory that exists under none of the
	// ancestors currently on the path stack.
	ErrPathStackExhausted = errors.New("directory not found under any ancestor on the path stack")
	// ErrStructureMismatch reports a line whose indentation disagrees with the path stack depth.
	ErrStructureMismatch = errors.New("indentation does not match directory depth")
	// ErrNilHandler is returned when Annotate is called without a line handler.
	ErrNilHandler = errors.New("annotate: line handler is nil")
)

// summaryLinePattern recognises the aggregate count line tree prints last.
var summaryLinePattern = regexp.MustCompile(`\d+ dir`)

// Options configures an Annotator.
type Options struct {
	Store             *Store
	Measure           utils.MeasureFunc
	StrictIndentation bool
	Logger            *zap.Logger
}

// Annotator resolves annotations for the lines of a tree listing.
type Annotator struct {
	store             *Store
	measure           utils.MeasureFunc
	strictIndentation bool
	logger            *zap.Logger
}

// New builds an Annotator. Missing measure and logger fall back to rune counting and a no-op logger.
func New(options Options) *Annotator {
	measure := options.Measure
	if measure == nil {
		measure = utils.RuneWidth
	}
	logger := options.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Annotator{
		store:             options.Store,
		measure:           measure,
		strictIndentation: options.StrictIndentation,
		logger:            logger,
	}
}

// SplitLines splits a captured listing into lines that keep their terminators.
func SplitLines(listing string) []string {
	lines := strings.SplitAfter(listing, "\n")
	if len(lines) > 0 && lines[len(lines)-1] == utils.EmptyString {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// ColumnOffset returns the widest captured line, terminator included.
func ColumnOffset(lines []string, measure utils.MeasureFunc) int {
	offset := 0
	for _, rawLine := range lines {
		text := TrimTerminator(rawLine)
		width := measure(text) + len(rawLine) - len(text)
		if width > offset {
			offset = width
		}
	}
	return offset
}

// Annotate walks the listing line by line and hands every resolved line to handle
// in order. It stops at the first error; lines already handed over stay handed over.
func (annotator *Annotator) Annotate(listing string, handle func(types.AnnotatedLine) error) error {
	if handle == nil {
		return ErrNilHandler
	}
	lines := SplitLines(listing)
	column := ColumnOffset(lines, annotator.measure)
	stack := []string{rootMarker}
	scannedDirectories := 0

	for index, rawLine := range lines {
		text := TrimTerminator(rawLine)
		line := types.AnnotatedLine{
			Number:     index + 1,
			Text:       text,
			Terminated: len(text) != len(rawLine),
			Depth:      types.UnknownDepth,
			Column:     column,
		}

		if summaryLinePattern.MatchString(text) {
			line.Kind = types.LineKindSummary
			if err := handle(line); err != nil {
				return err
			}
			continue
		}
		tokens := strings.Fields(text)
		if len(tokens) == 0 {
			line.Kind = types.LineKindBlank
			if err := handle(line); err != nil {
				return err
			}
			continue
		}

		candidate := tokens[len(tokens)-1]
		indentationDepth := lineDepth(text, scannedDirectories == 0)
		scannedDirectories++
		var resolveError error
		stack, resolveError = annotator.resolve(stack, candidate, entryName(text), indentationDepth, line.Number)
		if resolveError != nil {
			return resolveError
		}
		stackDepth := len(stack) - 2

		directoryPath := strings.Join(stack, pathSeparator)
		annotation, readError := annotator.store.Read(directoryPath)
		if readError != nil {
			return fmt.Errorf(errorAnnotationFormat, line.Number, readError)
		}

		line.Kind = types.LineKindDirectory
		line.Path = path.Clean(directoryPath)
		line.Depth = stackDepth
		line.Annotation = annotation
		if err := handle(line); err != nil {
			return err
		}
	}
	return nil
}

// resolve pushes the directory a line names onto the stack. With strict indentation and
// a readable depth the stack is first cut back to the line's parent, so a same-named
// directory deeper in the previous branch cannot capture the line; the full entry name
// is tried before the last token there. Everything else falls back to descend.
func (annotator *Annotator) resolve(stack []string, candidate string, fullName string, indentationDepth int, lineNumber int) ([]string, error) {
	anchored := annotator.strictIndentation && indentationDepth != types.UnknownDepth
	if parentLength := indentationDepth + 1; anchored && parentLength <= len(stack) {
		parent := strings.Join(stack[:parentLength], pathSeparator)
		for _, name := range []string{fullName, candidate} {
			if name != "" && annotator.store.IsDirectory(parent+pathSeparator+name) {
				return append(stack[:parentLength], name), nil
			}
		}
	}

	resolved, descendError := annotator.descend(stack, candidate)
	if descendError != nil {
		return resolved, fmt.Errorf(errorStackExhaustedFormat, lineNumber, candidate, descendError)
	}
	if anchored {
		return resolved, fmt.Errorf(errorMismatchFormat, lineNumber, candidate, indentationDepth, len(resolved)-2, ErrStructureMismatch)
	}
	return resolved, nil
}

// descend pops the stack until candidate is a directory below it and pushes candidate.
func (annotator *Annotator) descend(stack []string, candidate string) ([]string, error) {
	for !annotator.store.IsDirectory(strings.Join(stack, pathSeparator) + pathSeparator + candidate) {
		annotator.logger.Debug("popping path stack",
			zap.String("directory", candidate),
			zap.String("ancestor", stack[len(stack)-1]),
		)
		stack = stack[:len(stack)-1]
		if len(stack) == 0 {
			return stack, ErrPathStackExhausted
		}
	}
	return append(stack, candidate), nil
}
