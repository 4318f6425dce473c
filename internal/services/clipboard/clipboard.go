// Package clipboard places rendered annotated trees on the system clipboard.
package clipboard

import (
	"errors"
	"fmt"

	"github.com/atotto/clipboard"
)

// ErrUnavailable is returned when no clipboard utility exists on the host.
var ErrUnavailable = errors.New("system clipboard is unavailable")

// Copier copies textual data to the system clipboard.
type Copier interface {
	Copy(text string) error
}

// Service implements Copier using github.com/atotto/clipboard.
type Service struct {
	unsupported func() bool
	write       func(string) error
}

// NewService constructs a clipboard service bound to the host clipboard.
func NewService() *Service {
	return &Service{
		unsupported: func() bool { return clipboard.Unsupported },
		write:       clipboard.WriteAll,
	}
}

// Copy writes text to the system clipboard.
func (service *Service) Copy(text string) error {
	if service.unsupported() {
		return ErrUnavailable
	}
	if writeError := service.write(text); writeError != nil {
		return fmt.Errorf("copy %d bytes to clipboard: %w", len(text), writeError)
	}
	return nil
}

var _ Copier = (*Service)(nil)
