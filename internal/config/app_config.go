// Package config discovers, reads and merges dirinfo configuration files.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/spf13/viper"

	"github.com/temirov/dirinfo/internal/output"
	"github.com/temirov/dirinfo/internal/source"
	"github.com/temirov/dirinfo/internal/types"
	"github.com/temirov/dirinfo/internal/utils"
)

// LoadOptions controls how application configuration is discovered.
type LoadOptions struct {
	WorkingDirectory string
	ExplicitFilePath string
	// GlobalDirectory overrides the XDG configuration directory lookup.
	GlobalDirectory string
}

// ApplicationConfiguration holds every setting the annotated tree honours.
type ApplicationConfiguration struct {
	Source            string                  `mapstructure:"source"`
	Format            string                  `mapstructure:"format"`
	Color             string                  `mapstructure:"color"`
	Width             string                  `mapstructure:"width"`
	StrictIndentation *bool                   `mapstructure:"strict_indentation"`
	Clipboard         *bool                   `mapstructure:"clipboard"`
	LogLevel          string                  `mapstructure:"log_level"`
	Annotation        AnnotationConfiguration `mapstructure:"annotation"`
	Command           CommandConfiguration    `mapstructure:"command"`
	Walk              WalkConfiguration       `mapstructure:"walk"`
}

// AnnotationConfiguration names the annotation file and the glyph printed before annotations.
type AnnotationConfiguration struct {
	File      string `mapstructure:"file"`
	Separator string `mapstructure:"separator"`
}

// CommandConfiguration selects the external tree-printing command.
type CommandConfiguration struct {
	Name      string   `mapstructure:"name"`
	Arguments []string `mapstructure:"args"`
}

// WalkConfiguration controls the built-in filesystem walk.
type WalkConfiguration struct {
	IncludeHidden *bool    `mapstructure:"include_hidden"`
	Exclude       []string `mapstructure:"exclude"`
}

// DefaultConfiguration reproduces the plain tree -d behaviour.
func DefaultConfiguration() ApplicationConfiguration {
	return ApplicationConfiguration{
		Source:            types.SourceWalk,
		Format:            types.FormatRaw,
		Color:             types.ColorAuto,
		Width:             types.WidthRunes,
		StrictIndentation: boolPointer(true),
		Clipboard:         boolPointer(false),
		LogLevel:          utils.DefaultLogLevel,
		Annotation: AnnotationConfiguration{
			File:      utils.AnnotationFileName,
			Separator: output.DefaultSeparator,
		},
		Command: CommandConfiguration{
			Name:      source.DefaultCommandName,
			Arguments: append([]string{}, source.DefaultCommandArguments...),
		},
		Walk: WalkConfiguration{
			IncludeHidden: boolPointer(false),
		},
	}
}

// GlobalConfigurationDirectory is where the global configuration file lives.
func GlobalConfigurationDirectory() string {
	return filepath.Join(xdg.ConfigHome, utils.ApplicationName)
}

// LoadApplicationConfiguration loads defaults, then the global file, then the local one.
func LoadApplicationConfiguration(options LoadOptions) (ApplicationConfiguration, error) {
	workingDirectory := options.WorkingDirectory
	if workingDirectory == "" {
		currentDirectory, err := os.Getwd()
		if err != nil {
			return ApplicationConfiguration{}, fmt.Errorf("determine working directory: %w", err)
		}
		workingDirectory = currentDirectory
	}

	merged := DefaultConfiguration()

	globalDirectory := options.GlobalDirectory
	if globalDirectory == "" {
		globalDirectory = GlobalConfigurationDirectory()
	}
	globalConfig, loadErr := loadConfigurationFromPath(filepath.Join(globalDirectory, utils.GlobalConfigFileName))
	if loadErr != nil {
		return ApplicationConfiguration{}, loadErr
	}
	merged = merged.Merge(globalConfig)

	localPath := resolveLocalConfigPath(workingDirectory, options.ExplicitFilePath)
	if options.ExplicitFilePath != "" {
		if _, statErr := os.Stat(localPath); statErr != nil {
			return ApplicationConfiguration{}, fmt.Errorf("configuration file %s: %w", localPath, statErr)
		}
	}
	localConfig, loadErr := loadConfigurationFromPath(localPath)
	if loadErr != nil {
		return ApplicationConfiguration{}, loadErr
	}
	merged = merged.Merge(localConfig)

	merged.Walk.Exclude = utils.NormalizePatterns(merged.Walk.Exclude)
	return merged, nil
}

func resolveLocalConfigPath(workingDirectory, explicitPath string) string {
	if explicitPath == "" {
		return filepath.Join(workingDirectory, utils.ConfigFileName)
	}
	if filepath.IsAbs(explicitPath) {
		return explicitPath
	}
	return filepath.Join(workingDirectory, explicitPath)
}

func loadConfigurationFromPath(path string) (ApplicationConfiguration, error) {
	info, statErr := os.Stat(path)
	if statErr != nil {
		if os.IsNotExist(statErr) {
			return ApplicationConfiguration{}, nil
		}
		return ApplicationConfiguration{}, fmt.Errorf("stat configuration %s: %w", path, statErr)
	}
	if info.IsDir() {
		return ApplicationConfiguration{}, fmt.Errorf("configuration path %s is a directory", path)
	}

	reader := viper.New()
	reader.SetConfigFile(path)
	reader.SetConfigType("yaml")
	if readErr := reader.ReadInConfig(); readErr != nil {
		return ApplicationConfiguration{}, fmt.Errorf("read configuration from %s: %w", path, readErr)
	}
	var config ApplicationConfiguration
	if decodeErr := reader.Unmarshal(&config); decodeErr != nil {
		return ApplicationConfiguration{}, fmt.Errorf("decode configuration from %s: %w", path, decodeErr)
	}
	return config, nil
}

// Merge overlays override onto the receiver returning the combined configuration.
func (config ApplicationConfiguration) Merge(override ApplicationConfiguration) ApplicationConfiguration {
	result := config
	if override.Source != "" {
		result.Source = override.Source
	}
	if override.Format != "" {
		result.Format = override.Format
	}
	if override.Color != "" {
		result.Color = override.Color
	}
	if override.Width != "" {
		result.Width = override.Width
	}
	if override.StrictIndentation != nil {
		result.StrictIndentation = cloneBool(override.StrictIndentation)
	}
	if override.Clipboard != nil {
		result.Clipboard = cloneBool(override.Clipboard)
	}
	if override.LogLevel != "" {
		result.LogLevel = override.LogLevel
	}
	result.Annotation = result.Annotation.merge(override.Annotation)
	result.Command = result.Command.merge(override.Command)
	result.Walk = result.Walk.merge(override.Walk)
	return result
}

func (config AnnotationConfiguration) merge(override AnnotationConfiguration) AnnotationConfiguration {
	result := config
	if override.File != "" {
		result.File = override.File
	}
	if override.Separator != "" {
		result.Separator = override.Separator
	}
	return result
}

func (config CommandConfiguration) merge(override CommandConfiguration) CommandConfiguration {
	result := config
	if override.Name != "" {
		result.Name = override.Name
	}
	if len(override.Arguments) > 0 {
		result.Arguments = append([]string{}, override.Arguments...)
	}
	return result
}

func (config WalkConfiguration) merge(override WalkConfiguration) WalkConfiguration {
	result := config
	if override.IncludeHidden != nil {
		result.IncludeHidden = cloneBool(override.IncludeHidden)
	}
	if len(override.Exclude) > 0 {
		result.Exclude = append([]string{}, utils.DeduplicatePatterns(override.Exclude)...)
	}
	return result
}

// BoolValue dereferences an optional flag, falling back when it is unset.
func BoolValue(value *bool, fallback bool) bool {
	if value == nil {
		return fallback
	}
	return *value
}

func boolPointer(value bool) *bool {
	return &value
}

func cloneBool(value *bool) *bool {
	if value == nil {
		return nil
	}
	cloned := *value
	return &cloned
}
