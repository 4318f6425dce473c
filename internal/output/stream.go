package output

import (
	"fmt"
	"io"

	"github.com/temirov/dirinfo/internal/types"
	"github.com/temirov/dirinfo/internal/utils"
)

// DefaultSeparator precedes every annotation.
const DefaultSeparator = "-"

const invalidFormatMessage = "invalid format value '%s'"

// StreamRenderer consumes annotated lines as the annotator resolves them.
type StreamRenderer interface {
	Handle(line types.AnnotatedLine) error
	Flush() error
}

// Options configures a renderer.
type Options struct {
	Format    string
	Separator string
	Measure   utils.MeasureFunc
	Style     *AnnotationStyle
}

// NewStreamRenderer returns the renderer for options.Format writing to stdout.
func NewStreamRenderer(stdout io.Writer, options Options) (StreamRenderer, error) {
	switch options.Format {
	case "", types.FormatRaw:
		return NewRawStreamRenderer(stdout, options), nil
	case types.FormatJSON:
		return NewJSONStreamRenderer(stdout), nil
	case types.FormatYAML:
		return NewYAMLStreamRenderer(stdout), nil
	default:
		return nil, fmt.Errorf(invalidFormatMessage, options.Format)
	}
}

// IsSupportedFormat reports whether the provided format is recognized.
func IsSupportedFormat(format string) bool {
	switch format {
	case types.FormatRaw, types.FormatJSON, types.FormatYAML:
		return true
	default:
		return false
	}
}

type fanoutRenderer struct {
	renderers []StreamRenderer
}

// NewFanoutRenderer hands every line to each renderer in order.
func NewFanoutRenderer(renderers ...StreamRenderer) StreamRenderer {
	return &fanoutRenderer{renderers: renderers}
}

func (renderer *fanoutRenderer) Handle(line types.AnnotatedLine) error {
	for _, target := range renderer.renderers {
		if err := target.Handle(line); err != nil {
			return err
		}
	}
	return nil
}

func (renderer *fanoutRenderer) Flush() error {
	for _, target := range renderer.renderers {
		if err := target.Flush(); err != nil {
			return err
		}
	}
	return nil
}
