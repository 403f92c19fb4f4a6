package main

import (
	"fmt"
	"os"

	"github.com/dircat/dircat/internal/cli"
	"github.com/dircat/dircat/internal/utils"
)

// main is the entry point for the dircat command.
func main() {
	loggerInstance, loggerInitializationError := utils.NewApplicationLogger()
	if loggerInitializationError != nil {
		panic(fmt.Errorf("failed to initialize logger: %w", loggerInitializationError))
	}
	defer func() { _ = loggerInstance.Sync() }()

	if applicationExecutionError := cli.Execute(loggerInstance); applicationExecutionError != nil {
		loggerInstance.Error(applicationExecutionError.Error())
		os.Exit(1)
	}
}
