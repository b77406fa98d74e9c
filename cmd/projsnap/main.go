package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/temirov/projsnap/internal/cli"
	"github.com/temirov/projsnap/internal/utils"
)

// main is the entry point for the projsnap command.
func main() {
	logLevel := zap.NewAtomicLevelAt(zap.InfoLevel)
	loggerInstance, loggerInitializationError := utils.NewApplicationLogger(logLevel)
	if loggerInitializationError != nil {
		panic(fmt.Errorf(utils.LoggerInitializationFailedMessageFormat, loggerInitializationError))
	}
	if applicationExecutionError := cli.Execute(loggerInstance, logLevel); applicationExecutionError != nil {
		loggerInstance.Fatal(utils.ApplicationExecutionFailedMessage, zap.Error(applicationExecutionError))
	}
	syncLogger(loggerInstance)
}

// syncLogger flushes the logger only when stderr is a terminal or a regular file.
func syncLogger(loggerInstance *zap.Logger) {
	if !term.IsTerminal(int(os.Stderr.Fd())) && !isRegularFile(os.Stderr) {
		return
	}
	if syncError := loggerInstance.Sync(); syncError != nil && isRegularFile(os.Stderr) {
		fmt.Fprintf(os.Stderr, "logger sync failed: %v\n", syncError)
	}
}

func isRegularFile(file *os.File) bool {
	fileInfo, statError := file.Stat()
	if statError != nil {
		return false
	}
	return fileInfo.Mode().IsRegular()
}
