package output

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/temirov/dirinfo/internal/types"
)

const (
	jsonIndent       = "  "
	yamlIndentSpaces = 2
)

// structuredStreamRenderer collects every line and encodes the whole listing on Flush.
type structuredStreamRenderer struct {
	stdout io.Writer
	lines  []types.AnnotatedLine
	encode func(io.Writer, []types.AnnotatedLine) error
}

// NewJSONStreamRenderer encodes the annotated listing as a JSON array.
func NewJSONStreamRenderer(stdout io.Writer) StreamRenderer {
	return &structuredStreamRenderer{stdout: stdout, encode: encodeJSON}
}

// NewYAMLStreamRenderer encodes the annotated listing as a YAML sequence.
func NewYAMLStreamRenderer(stdout io.Writer) StreamRenderer {
	return &structuredStreamRenderer{stdout: stdout, encode: encodeYAML}
}

func (renderer *structuredStreamRenderer) Handle(line types.AnnotatedLine) error {
	renderer.lines = append(renderer.lines, line)
	return nil
}

func (renderer *structuredStreamRenderer) Flush() error {
	if renderer.stdout == nil {
		return nil
	}
	lines := renderer.lines
	if lines == nil {
		lines = []types.AnnotatedLine{}
	}
	return renderer.encode(renderer.stdout, lines)
}

func encodeJSON(writer io.Writer, lines []types.AnnotatedLine) error {
	encoder := json.NewEncoder(writer)
	encoder.SetIndent("", jsonIndent)
	encoder.SetEscapeHTML(false)
	if err := encoder.Encode(lines); err != nil {
		return fmt.Errorf("failed to marshal results to JSON: %w", err)
	}
	return nil
}

func encodeYAML(writer io.Writer, lines []types.AnnotatedLine) error {
	encoder := yaml.NewEncoder(writer)
	encoder.SetIndent(yamlIndentSpaces)
	if err := encoder.Encode(lines); err != nil {
		return fmt.Errorf("failed to marshal results to YAML: %w", err)
	}
	return encoder.Close()
}
