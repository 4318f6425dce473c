package source

import (
	"context"
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/afero"
)

const (
	branchConnector     = "├── "
	lastBranchConnector = "└── "
	openIndent          = "│   "
	closedIndent        = "    "

	errorReadDirectoryFormat = "reading directory %s: %w"
	errorExcludePattern      = "invalid exclude pattern %q"
)

// WalkSource lists directories by walking the filesystem and renders them in the
// same text layout tree -d prints, so no external utility is required.
type WalkSource struct {
	FileSystem    afero.Fs
	Root          string
	IncludeHidden bool
	// Exclude holds doublestar patterns matched against root-relative slash paths.
	Exclude []string
}

// List renders the directory tree under Root.
func (source *WalkSource) List(ctx context.Context) (string, error) {
	for _, pattern := range source.Exclude {
		if !doublestar.ValidatePattern(pattern) {
			return "", fmt.Errorf(errorExcludePattern, pattern)
		}
	}
	fileSystem := source.FileSystem
	if fileSystem == nil {
		fileSystem = afero.NewOsFs()
	}
	root := source.Root
	if root == "" {
		root = rootDirectoryMarker
	}

	walker := treeWalker{ctx: ctx, source: source, fileSystem: fileSystem, root: root}
	walker.builder.WriteString(rootDirectoryMarker + "\n")
	if err := walker.walk("", ""); err != nil {
		return "", err
	}
	walker.builder.WriteString("\n" + FormatDirectoryCount(walker.directories) + "\n")
	return walker.builder.String(), nil
}

// FormatDirectoryCount renders the summary line tree prints for a directory-only listing.
func FormatDirectoryCount(count int) string {
	if count == 1 {
		return "1 directory"
	}
	return fmt.Sprintf("%d directories", count)
}

type treeWalker struct {
	ctx         context.Context
	source      *WalkSource
	fileSystem  afero.Fs
	root        string
	builder     strings.Builder
	directories int
}

// walk renders the children of relativeDirectory, each line starting with prefix.
func (walker *treeWalker) walk(relativeDirectory string, prefix string) error {
	if walker.ctx != nil {
		if err := walker.ctx.Err(); err != nil {
			return err
		}
	}
	absoluteDirectory := filepath.Join(walker.root, filepath.FromSlash(relativeDirectory))
	entries, readError := afero.ReadDir(walker.fileSystem, absoluteDirectory)
	if readError != nil {
		return fmt.Errorf(errorReadDirectoryFormat, absoluteDirectory, readError)
	}

	var children []string
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !walker.source.IncludeHidden && strings.HasPrefix(name, ".") {
			continue
		}
		if walker.excluded(path.Join(relativeDirectory, name)) {
			continue
		}
		children = append(children, name)
	}

	for index, name := range children {
		connector := branchConnector
		childPrefix := prefix + openIndent
		if index == len(children)-1 {
			connector = lastBranchConnector
			childPrefix = prefix + closedIndent
		}
		walker.builder.WriteString(prefix + connector + name + "\n")
		walker.directories++
		if err := walker.walk(path.Join(relativeDirectory, name), childPrefix); err != nil {
			return err
		}
	}
	return nil
}

func (walker *treeWalker) excluded(relativePath string) bool {
	for _, pattern := range walker.source.Exclude {
		if matched, _ := doublestar.Match(pattern, relativePath); matched {
			return true
		}
	}
	return false
}
