package main

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/temirov/dirinfo/internal/cli"
	"github.com/temirov/dirinfo/internal/utils"
)

// main is the entry point for the dirinfo command.
func main() {
	loggerInstance, logLevel, loggerInitializationError := utils.NewApplicationLogger()
	if loggerInitializationError != nil {
		panic(fmt.Errorf(utils.LoggerInitializationFailedMessageFormat, loggerInitializationError))
	}
	defer func() { _ = loggerInstance.Sync() }()
	if applicationExecutionError := cli.Execute(loggerInstance, logLevel); applicationExecutionError != nil {
		loggerInstance.Fatal(utils.ApplicationExecutionFailedMessage, zap.Error(applicationExecutionError))
	}
}
