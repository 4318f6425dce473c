// Package types defines every cross‑package data structure used by the dirinfo CLI.
package types

const (
	LineKindDirectory = "directory"
	LineKindSummary   = "summary"
	LineKindBlank     = "blank"

	FormatRaw  = "raw"
	FormatJSON = "json"
	FormatYAML = "yaml"

	SourceWalk    = "walk"
	SourceCommand = "command"

	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"

	WidthRunes   = "runes"
	WidthDisplay = "display"

	// UnknownDepth marks a line whose indentation does not reveal its depth.
	UnknownDepth = -1
)

// AnnotatedLine is one captured listing line together with what was resolved for it.
type AnnotatedLine struct {
	Number     int    `json:"line" yaml:"line"`
	Text       string `json:"text" yaml:"text"`
	Terminated bool   `json:"-" yaml:"-"`
	Kind       string `json:"kind" yaml:"kind"`
	Path       string `json:"path,omitempty" yaml:"path,omitempty"`
	Depth      int    `json:"depth" yaml:"depth"`
	Annotation string `json:"annotation,omitempty" yaml:"annotation,omitempty"`
	Column     int    `json:"-" yaml:"-"`
}

// HasAnnotation reports whether the line carries a non-empty annotation.
func (line AnnotatedLine) HasAnnotation() bool {
	return line.Annotation != ""
}
