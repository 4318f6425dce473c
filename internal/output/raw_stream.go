package output

import (
	"io"
	"strings"

	"github.com/temirov/dirinfo/internal/types"
	"github.com/temirov/dirinfo/internal/utils"
)

type rawStreamRenderer struct {
	stdout    io.Writer
	separator string
	measure   utils.MeasureFunc
	style     *AnnotationStyle
}

// NewRawStreamRenderer writes every line as soon as it is handled, padding annotated
// lines so the separator ends on the column offset.
func NewRawStreamRenderer(stdout io.Writer, options Options) StreamRenderer {
	separator := options.Separator
	if separator == "" {
		separator = DefaultSeparator
	}
	measure := options.Measure
	if measure == nil {
		measure = utils.RuneWidth
	}
	return &rawStreamRenderer{
		stdout:    stdout,
		separator: separator,
		measure:   measure,
		style:     options.Style,
	}
}

func (renderer *rawStreamRenderer) Handle(line types.AnnotatedLine) error {
	if renderer.stdout == nil {
		return nil
	}
	_, err := io.WriteString(renderer.stdout, FormatRawLine(line, renderer.separator, renderer.measure, renderer.style))
	return err
}

func (renderer *rawStreamRenderer) Flush() error {
	return nil
}

// FormatRawLine renders one line. Unannotated lines come back exactly as captured;
// annotated lines are padded so the separator's last column is line.Column.
func FormatRawLine(line types.AnnotatedLine, separator string, measure utils.MeasureFunc, style *AnnotationStyle) string {
	if !line.HasAnnotation() {
		if line.Terminated {
			return line.Text + "\n"
		}
		return line.Text
	}
	padding := line.Column - measure(line.Text) - measure(separator)
	if padding < 0 {
		padding = 0
	}
	suffix := separator + " " + line.Annotation
	if style != nil {
		suffix = style.Render(suffix)
	}
	return line.Text + strings.Repeat(" ", padding) + suffix + "\n"
}
