// Package source produces the tree -d style listing the annotator consumes.
package source

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/temirov/dirinfo/internal/types"
)

const (
	// DefaultCommandName is the external tree-printing utility.
	DefaultCommandName = "tree"
	// rootDirectoryMarker is the name tree prints for the current directory.
	rootDirectoryMarker = "."
)

// DefaultCommandArguments lists directories only, rooted at the current directory.
var DefaultCommandArguments = []string{rootDirectoryMarker, "-d"}

var (
	// ErrCommandFailed reports an external listing command that could not run or exited non-zero.
	ErrCommandFailed = errors.New("tree listing command failed")
	// ErrUnknownKind reports a source kind that is neither walk nor command.
	ErrUnknownKind = errors.New("unknown tree source")
)

// Source produces the full text of a directory tree listing.
type Source interface {
	List(ctx context.Context) (string, error)
}

// Settings gathers what either source kind needs.
type Settings struct {
	Kind             string
	WorkingDirectory string
	FileSystem       afero.Fs
	CommandName      string
	CommandArguments []string
	IncludeHidden    bool
	Exclude          []string
	Stderr           io.Writer
	Logger           *zap.Logger
}

// New returns the Source selected by settings.Kind. An empty kind selects the filesystem walk.
func New(settings Settings) (Source, error) {
	logger := settings.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	switch settings.Kind {
	case "", types.SourceWalk:
		logger.Debug("using filesystem walk source", zap.String("root", settings.WorkingDirectory))
		return &WalkSource{
			FileSystem:    settings.FileSystem,
			Root:          settings.WorkingDirectory,
			IncludeHidden: settings.IncludeHidden,
			Exclude:       settings.Exclude,
		}, nil
	case types.SourceCommand:
		name := settings.CommandName
		arguments := settings.CommandArguments
		if name == "" {
			name = DefaultCommandName
			if len(arguments) == 0 {
				arguments = DefaultCommandArguments
			}
		}
		logger.Debug("using external command source", zap.String("command", name), zap.Strings("arguments", arguments))
		return &CommandSource{
			Name:      name,
			Arguments: arguments,
			Directory: settings.WorkingDirectory,
			Stderr:    settings.Stderr,
		}, nil
	default:
		return nil, fmt.Errorf("%w %q", ErrUnknownKind, settings.Kind)
	}
}
