package output

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"

	"github.com/temirov/dirinfo/internal/types"
)

const (
	noColorEnvironmentVariable = "NO_COLOR"
	annotationColor            = "244"
	invalidColorMessage        = "invalid color value '%s'"
)

// AnnotationStyle colours the separator and annotation suffix of a line.
type AnnotationStyle struct {
	style lipgloss.Style
}

// Render applies the style to text.
func (annotationStyle *AnnotationStyle) Render(text string) string {
	return annotationStyle.style.Render(text)
}

// ResolveAnnotationStyle returns the style for mode, or nil when output stays plain.
// auto colours only terminals that are not opted out through NO_COLOR.
func ResolveAnnotationStyle(mode string, writer io.Writer) (*AnnotationStyle, error) {
	switch mode {
	case "", types.ColorAuto:
		if os.Getenv(noColorEnvironmentVariable) != "" || !isTerminal(writer) {
			return nil, nil
		}
		renderer := lipgloss.NewRenderer(writer)
		if renderer.ColorProfile() == termenv.Ascii {
			return nil, nil
		}
		return newAnnotationStyle(renderer), nil
	case types.ColorAlways:
		renderer := lipgloss.NewRenderer(writer)
		renderer.SetColorProfile(termenv.ANSI256)
		return newAnnotationStyle(renderer), nil
	case types.ColorNever:
		return nil, nil
	default:
		return nil, fmt.Errorf(invalidColorMessage, mode)
	}
}

func newAnnotationStyle(renderer *lipgloss.Renderer) *AnnotationStyle {
	return &AnnotationStyle{style: renderer.NewStyle().Foreground(lipgloss.Color(annotationColor)).Italic(true)}
}

func isTerminal(writer io.Writer) bool {
	file, isFile := writer.(*os.File)
	if !isFile {
		return false
	}
	return isatty.IsTerminal(file.Fd()) || isatty.IsCygwinTerminal(file.Fd())
}
