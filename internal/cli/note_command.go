package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/dirinfo/internal/annotate"
)

const (
	noteUse              = "note <directory> [text...]"
	noteShortDescription = "show, set or clear the annotation of a directory"
	noteLongDescription  = `Without text, print the annotation stored in the directory.
With text, replace the annotation with the words joined by single spaces.
Use --clear to remove the annotation file.`
	noteUsageExample = `  # Annotate the cmd directory
  dirinfo note cmd entry points

  # Show and then clear it
  dirinfo note cmd
  dirinfo note --clear cmd`

	clearFlagName        = "clear"
	clearFlagDescription = "remove the annotation"
	notDirectoryFormat   = "%s is not a directory"
)

var errClearWithText = errors.New("--clear does not take annotation text")

// createNoteCommand returns the note subcommand.
func createNoteCommand(dependencies applicationDependencies, shared *persistentOptions) *cobra.Command {
	var clearAnnotation bool

	noteCommand := &cobra.Command{
		Use:     noteUse,
		Short:   noteShortDescription,
		Long:    noteLongDescription,
		Example: noteUsageExample,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(command *cobra.Command, arguments []string) error {
			if printVersion(command, *shared) {
				return nil
			}
			settings, settingsError := loadSettings(command, dependencies, *shared)
			if settingsError != nil {
				return settingsError
			}
			store := annotate.NewStore(dependencies.fileSystem, dependencies.workingDirectory, settings.Annotation.File)
			directory := arguments[0]
			text := strings.Join(arguments[1:], " ")

			switch {
			case clearAnnotation:
				if text != "" {
					return errClearWithText
				}
				if removeError := store.Remove(directory); removeError != nil {
					return removeError
				}
				dependencies.logger.Info("annotation removed", zap.String("directory", directory))
				return nil
			case text != "":
				if writeError := store.Write(directory, text); writeError != nil {
					return writeError
				}
				dependencies.logger.Info("annotation written", zap.String("directory", directory), zap.String("file", store.FileName()))
				return nil
			default:
				if !store.IsDirectory(directory) {
					return fmt.Errorf(notDirectoryFormat, directory)
				}
				annotation, readError := store.Read(directory)
				if readError != nil {
					return readError
				}
				if annotation != "" {
					fmt.Fprintln(command.OutOrStdout(), annotation)
				}
				return nil
			}
		},
	}
	registerToggleFlag(noteCommand.Flags(), &clearAnnotation, clearFlagName, false, clearFlagDescription)
	return noteCommand
}
