package annotate

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"github.com/temirov/dirinfo/internal/utils"
)

const (
	annotationFileMode = 0o644

	errorOpenAnnotationFormat   = "opening annotation %s: %w"
	errorReadAnnotationFormat   = "reading annotation %s: %w"
	errorWriteAnnotationFormat  = "writing annotation %s: %w"
	errorRemoveAnnotationFormat = "removing annotation %s: %w"
	errorNotDirectoryFormat     = "%s is not a directory"
	warningCloseAnnotation      = "failed to close annotation file"
)

// Store reads and writes per-directory annotation files relative to a root directory.
type Store struct {
	fileSystem afero.Fs
	root       string
	fileName   string
}

// NewStore builds a Store. An empty fileName selects the default .dirinfo name.
func NewStore(fileSystem afero.Fs, root string, fileName string) *Store {
	if fileName == utils.EmptyString {
		fileName = utils.AnnotationFileName
	}
	if root == utils.EmptyString {
		root = "."
	}
	return &Store{fileSystem: fileSystem, root: root, fileName: fileName}
}

// FileName returns the annotation file name the store uses.
func (store *Store) FileName() string {
	return store.fileName
}

// Read returns the annotation stored in directoryPath with one trailing line
// terminator removed. A missing or non-regular annotation file yields an empty
// annotation; any other failure is returned.
//
// #nosec G304
func (store *Store) Read(directoryPath string) (annotation string, err error) {
	annotationPath := store.annotationPath(directoryPath)
	fileHandle, openError := store.fileSystem.Open(annotationPath)
	if openError != nil {
		if errors.Is(openError, os.ErrNotExist) {
			return utils.EmptyString, nil
		}
		return utils.EmptyString, fmt.Errorf(errorOpenAnnotationFormat, annotationPath, openError)
	}
	defer func() {
		if closeError := fileHandle.Close(); closeError != nil && err == nil {
			err = fmt.Errorf("%s %s: %w", warningCloseAnnotation, annotationPath, closeError)
		}
	}()

	fileInformation, statError := fileHandle.Stat()
	if statError != nil {
		return utils.EmptyString, fmt.Errorf(errorReadAnnotationFormat, annotationPath, statError)
	}
	if !fileInformation.Mode().IsRegular() {
		return utils.EmptyString, nil
	}

	content, readError := io.ReadAll(fileHandle)
	if readError != nil {
		return utils.EmptyString, fmt.Errorf(errorReadAnnotationFormat, annotationPath, readError)
	}
	return TrimTerminator(string(content)), nil
}

// Write stores text as the annotation of directoryPath, terminated by a newline.
func (store *Store) Write(directoryPath string, text string) error {
	if err := store.requireDirectory(directoryPath); err != nil {
		return err
	}
	annotationPath := store.annotationPath(directoryPath)
	content := TrimTerminator(text) + "\n"
	if err := afero.WriteFile(store.fileSystem, annotationPath, []byte(content), annotationFileMode); err != nil {
		return fmt.Errorf(errorWriteAnnotationFormat, annotationPath, err)
	}
	return nil
}

// Remove deletes the annotation of directoryPath. A missing annotation is not an error.
func (store *Store) Remove(directoryPath string) error {
	if err := store.requireDirectory(directoryPath); err != nil {
		return err
	}
	annotationPath := store.annotationPath(directoryPath)
	if err := store.fileSystem.Remove(annotationPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf(errorRemoveAnnotationFormat, annotationPath, err)
	}
	return nil
}

// IsDirectory reports whether directoryPath names an existing directory under the store root.
func (store *Store) IsDirectory(directoryPath string) bool {
	isDirectory, statError := afero.IsDir(store.fileSystem, store.resolve(directoryPath))
	return statError == nil && isDirectory
}

func (store *Store) requireDirectory(directoryPath string) error {
	if !store.IsDirectory(directoryPath) {
		return fmt.Errorf(errorNotDirectoryFormat, directoryPath)
	}
	return nil
}

func (store *Store) resolve(directoryPath string) string {
	if filepath.IsAbs(directoryPath) {
		return filepath.Clean(directoryPath)
	}
	return filepath.Join(store.root, filepath.FromSlash(directoryPath))
}

func (store *Store) annotationPath(directoryPath string) string {
	return filepath.Join(store.resolve(directoryPath), store.fileName)
}

// TrimTerminator removes exactly one trailing line terminator ("\r\n" or "\n").
func TrimTerminator(text string) string {
	if strings.HasSuffix(text, "\r\n") {
		return strings.TrimSuffix(text, "\r\n")
	}
	return strings.TrimSuffix(text, "\n")
}
