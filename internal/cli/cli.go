// Package cli provides the command line interface.
package cli

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/dirinfo/internal/annotate"
	"github.com/temirov/dirinfo/internal/config"
	"github.com/temirov/dirinfo/internal/output"
	"github.com/temirov/dirinfo/internal/services/clipboard"
	"github.com/temirov/dirinfo/internal/source"
	"github.com/temirov/dirinfo/internal/types"
	"github.com/temirov/dirinfo/internal/utils"
)

const (
	configFlagName         = "config"
	sourceFlagName         = "source"
	formatFlagName         = "format"
	colorFlagName          = "color"
	widthFlagName          = "width"
	strictFlagName         = "strict"
	allFlagName            = "all"
	excludeFlagName        = "exclude"
	excludeShorthand       = "e"
	annotationFileFlagName = "annotation-file"
	separatorFlagName      = "separator"
	copyFlagName           = "copy"
	logLevelFlagName       = "log-level"
	versionFlagName        = "version"

	configFlagDescription         = "configuration file to use instead of ./" + utils.ConfigFileName
	sourceFlagDescription         = "listing source: walk or command"
	formatFlagDescription         = "output format: raw, json or yaml"
	colorFlagDescription          = "annotation colour: auto, always or never"
	widthFlagDescription          = "column measurement: runes or display"
	strictFlagDescription         = "fail when indentation disagrees with the directory depth"
	allFlagDescription            = "include hidden directories in the walk"
	excludeFlagDescription        = "exclude directories matching a glob pattern (repeatable)"
	annotationFileFlagDescription = "name of the per-directory annotation file"
	separatorFlagDescription      = "text printed before every annotation"
	copyFlagDescription           = "copy the rendered tree to the system clipboard"
	logLevelFlagDescription       = "log level: debug, info, warn or error"
	versionFlagDescription        = "display application version"

	versionTemplate      = "dirinfo version: %s\n"
	rootUse              = "dirinfo"
	rootShortDescription = "print the directory tree with per-directory annotations"
	rootLongDescription  = `dirinfo lists the directories below the current one and prints the contents of
each directory's .dirinfo file right-aligned after its entry.
Use --source command to annotate the output of "tree . -d" instead of the built-in walk,
--format to select raw, json or yaml output, and --copy to place the result on the clipboard.`
	rootUsageExample = `  # Annotate the current directory
  dirinfo

  # Annotate the output of the tree utility, skipping vendor
  dirinfo --source command

  # Walk hidden directories too and emit JSON
  dirinfo --all --format json -e vendor`

	invalidSourceMessage        = "invalid source value '%s'"
	invalidFormatMessage        = "invalid format value '%s'"
	workingDirectoryErrorFormat = "unable to determine working directory: %w"
	clipboardErrorFormat        = "copy to clipboard: %w"
)

// applicationDependencies holds everything a command touches outside its own flags.
type applicationDependencies struct {
	stdout                io.Writer
	stderr                io.Writer
	workingDirectory      string
	globalConfigDirectory string
	fileSystem            afero.Fs
	copier                clipboard.Copier
	logger                *zap.Logger
	logLevel              zap.AtomicLevel
}

// persistentOptions stores the flags shared by every command.
type persistentOptions struct {
	configPath     string
	annotationFile string
	logLevel       string
	showVersion    bool
}

// treeOptions stores the flags of the root command.
type treeOptions struct {
	sourceKind    string
	format        string
	color         string
	width         string
	separator     string
	exclude       []string
	strict        bool
	includeHidden bool
	copyOutput    bool
}

// Execute runs the dirinfo application with the process streams and working directory.
func Execute(logger *zap.Logger, logLevel zap.AtomicLevel) error {
	workingDirectory, workingDirectoryError := os.Getwd()
	if workingDirectoryError != nil {
		return fmt.Errorf(workingDirectoryErrorFormat, workingDirectoryError)
	}
	dependencies := applicationDependencies{
		stdout:           os.Stdout,
		stderr:           os.Stderr,
		workingDirectory: workingDirectory,
		fileSystem:       afero.NewOsFs(),
		copier:           clipboard.NewService(),
		logger:           logger,
		logLevel:         logLevel,
	}
	rootCommand := createRootCommand(dependencies)
	rootCommand.SetArgs(normalizeToggleArguments(rootCommand, os.Args[1:]))
	return rootCommand.ExecuteContext(context.Background())
}

// createRootCommand builds the root Cobra command.
func createRootCommand(dependencies applicationDependencies) *cobra.Command {
	var shared persistentOptions
	var options treeOptions

	rootCommand := &cobra.Command{
		Use:           rootUse,
		Short:         rootShortDescription,
		Long:          rootLongDescription,
		Example:       rootUsageExample,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(command *cobra.Command, arguments []string) error {
			if printVersion(command, shared) {
				return nil
			}
			settings, settingsError := loadSettings(command, dependencies, shared)
			if settingsError != nil {
				return settingsError
			}
			applyTreeFlags(command, options, &settings)
			return runAnnotatedTree(command.Context(), dependencies, settings)
		},
	}
	rootCommand.SetOut(dependencies.stdout)
	rootCommand.SetErr(dependencies.stderr)

	persistentFlags := rootCommand.PersistentFlags()
	persistentFlags.StringVar(&shared.configPath, configFlagName, "", configFlagDescription)
	persistentFlags.StringVar(&shared.annotationFile, annotationFileFlagName, utils.AnnotationFileName, annotationFileFlagDescription)
	persistentFlags.StringVar(&shared.logLevel, logLevelFlagName, utils.DefaultLogLevel, logLevelFlagDescription)
	persistentFlags.BoolVar(&shared.showVersion, versionFlagName, false, versionFlagDescription)

	flags := rootCommand.Flags()
	flags.StringVar(&options.sourceKind, sourceFlagName, types.SourceWalk, sourceFlagDescription)
	flags.StringVar(&options.format, formatFlagName, types.FormatRaw, formatFlagDescription)
	flags.StringVar(&options.color, colorFlagName, types.ColorAuto, colorFlagDescription)
	flags.StringVar(&options.width, widthFlagName, types.WidthRunes, widthFlagDescription)
	flags.StringVar(&options.separator, separatorFlagName, output.DefaultSeparator, separatorFlagDescription)
	flags.StringArrayVarP(&options.exclude, excludeFlagName, excludeShorthand, nil, excludeFlagDescription)
	registerToggleFlag(flags, &options.strict, strictFlagName, true, strictFlagDescription)
	registerToggleFlag(flags, &options.includeHidden, allFlagName, false, allFlagDescription)
	registerToggleFlag(flags, &options.copyOutput, copyFlagName, false, copyFlagDescription)

	rootCommand.AddCommand(
		createNoteCommand(dependencies, &shared),
		createInitCommand(dependencies, &shared),
	)
	return rootCommand
}

func printVersion(command *cobra.Command, shared persistentOptions) bool {
	if !shared.showVersion {
		return false
	}
	fmt.Fprintf(command.OutOrStdout(), versionTemplate, utils.GetApplicationVersion())
	return true
}

// loadSettings merges configuration files with the shared flags that were set explicitly
// and installs the resulting log level.
func loadSettings(command *cobra.Command, dependencies applicationDependencies, shared persistentOptions) (config.ApplicationConfiguration, error) {
	settings, loadError := config.LoadApplicationConfiguration(config.LoadOptions{
		WorkingDirectory: dependencies.workingDirectory,
		ExplicitFilePath: shared.configPath,
		GlobalDirectory:  dependencies.globalConfigDirectory,
	})
	if loadError != nil {
		return config.ApplicationConfiguration{}, loadError
	}
	flags := command.Flags()
	if flags.Changed(annotationFileFlagName) {
		settings.Annotation.File = shared.annotationFile
	}
	if flags.Changed(logLevelFlagName) {
		settings.LogLevel = shared.logLevel
	}
	if levelError := utils.ApplyLogLevel(dependencies.logLevel, settings.LogLevel); levelError != nil {
		return config.ApplicationConfiguration{}, levelError
	}
	return settings, nil
}

// applyTreeFlags overlays only the root flags the user actually set.
func applyTreeFlags(command *cobra.Command, options treeOptions, settings *config.ApplicationConfiguration) {
	flags := command.Flags()
	if flags.Changed(sourceFlagName) {
		settings.Source = strings.ToLower(options.sourceKind)
	}
	if flags.Changed(formatFlagName) {
		settings.Format = strings.ToLower(options.format)
	}
	if flags.Changed(colorFlagName) {
		settings.Color = strings.ToLower(options.color)
	}
	if flags.Changed(widthFlagName) {
		settings.Width = strings.ToLower(options.width)
	}
	if flags.Changed(separatorFlagName) {
		settings.Annotation.Separator = options.separator
	}
	if flags.Changed(excludeFlagName) {
		settings.Walk.Exclude = utils.NormalizePatterns(append(settings.Walk.Exclude, options.exclude...))
	}
	if flags.Changed(strictFlagName) {
		settings.StrictIndentation = &options.strict
	}
	if flags.Changed(allFlagName) {
		settings.Walk.IncludeHidden = &options.includeHidden
	}
	if flags.Changed(copyFlagName) {
		settings.Clipboard = &options.copyOutput
	}
}

// runAnnotatedTree produces the listing, annotates it and renders every line.
func runAnnotatedTree(ctx context.Context, dependencies applicationDependencies, settings config.ApplicationConfiguration) error {
	if settings.Source != types.SourceWalk && settings.Source != types.SourceCommand {
		return fmt.Errorf(invalidSourceMessage, settings.Source)
	}
	if !output.IsSupportedFormat(settings.Format) {
		return fmt.Errorf(invalidFormatMessage, settings.Format)
	}
	measure, measureError := utils.ResolveMeasure(settings.Width)
	if measureError != nil {
		return measureError
	}
	style, styleError := output.ResolveAnnotationStyle(settings.Color, dependencies.stdout)
	if styleError != nil {
		return styleError
	}

	listingSource, sourceError := source.New(source.Settings{
		Kind:             settings.Source,
		WorkingDirectory: dependencies.workingDirectory,
		FileSystem:       dependencies.fileSystem,
		CommandName:      settings.Command.Name,
		CommandArguments: settings.Command.Arguments,
		IncludeHidden:    config.BoolValue(settings.Walk.IncludeHidden, false),
		Exclude:          settings.Walk.Exclude,
		Stderr:           dependencies.stderr,
		Logger:           dependencies.logger,
	})
	if sourceError != nil {
		return sourceError
	}
	listing, listError := listingSource.List(ctx)
	if listError != nil {
		return listError
	}

	rendererOptions := output.Options{
		Format:    settings.Format,
		Separator: settings.Annotation.Separator,
		Measure:   measure,
		Style:     style,
	}
	renderer, rendererError := output.NewStreamRenderer(dependencies.stdout, rendererOptions)
	if rendererError != nil {
		return rendererError
	}
	copyEnabled := config.BoolValue(settings.Clipboard, false)
	var clipboardBuffer bytes.Buffer
	if copyEnabled {
		plainOptions := rendererOptions
		plainOptions.Style = nil
		clipboardRenderer, clipboardRendererError := output.NewStreamRenderer(&clipboardBuffer, plainOptions)
		if clipboardRendererError != nil {
			return clipboardRendererError
		}
		renderer = output.NewFanoutRenderer(renderer, clipboardRenderer)
	}

	annotator := annotate.New(annotate.Options{
		Store:             annotate.NewStore(dependencies.fileSystem, dependencies.workingDirectory, settings.Annotation.File),
		Measure:           measure,
		StrictIndentation: config.BoolValue(settings.StrictIndentation, true),
		Logger:            dependencies.logger,
	})
	if annotateError := annotator.Annotate(listing, renderer.Handle); annotateError != nil {
		return annotateError
	}
	if flushError := renderer.Flush(); flushError != nil {
		return flushError
	}

	if copyEnabled {
		if copyError := dependencies.copier.Copy(clipboardBuffer.String()); copyError != nil {
			return fmt.Errorf(clipboardErrorFormat, copyError)
		}
		dependencies.logger.Info("copied annotated tree to clipboard", zap.Int("bytes", clipboardBuffer.Len()))
	}
	return nil
}
