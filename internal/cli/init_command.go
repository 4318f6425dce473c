package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/dirinfo/internal/config"
)

const (
	initUse              = "init"
	initShortDescription = "write the default configuration file"
	initLongDescription  = `Write a commented default configuration to ./.dirinfo.yaml,
or to the global configuration directory with --global.`

	globalFlagName        = "global"
	globalFlagDescription = "write the global configuration instead of the local one"
	forceFlagName         = "force"
	forceFlagDescription  = "overwrite an existing configuration file"
	initWrittenTemplate   = "configuration written to %s\n"
)

// createInitCommand returns the init subcommand.
func createInitCommand(dependencies applicationDependencies, shared *persistentOptions) *cobra.Command {
	var globalTarget bool
	var force bool

	initCommand := &cobra.Command{
		Use:   initUse,
		Short: initShortDescription,
		Long:  initLongDescription,
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			if printVersion(command, *shared) {
				return nil
			}
			target := config.InitTargetLocal
			if globalTarget {
				target = config.InitTargetGlobal
			}
			path, initError := config.InitializeConfiguration(config.InitOptions{
				Target:           target,
				Force:            force,
				WorkingDirectory: dependencies.workingDirectory,
				GlobalDirectory:  dependencies.globalConfigDirectory,
			})
			if initError != nil {
				return initError
			}
			dependencies.logger.Debug("initialized configuration", zap.String("path", path))
			fmt.Fprintf(command.OutOrStdout(), initWrittenTemplate, path)
			return nil
		},
	}
	registerToggleFlag(initCommand.Flags(), &globalTarget, globalFlagName, false, globalFlagDescription)
	registerToggleFlag(initCommand.Flags(), &force, forceFlagName, false, forceFlagDescription)
	return initCommand
}
