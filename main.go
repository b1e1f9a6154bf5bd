package main

import (
	"os"

	"github.com/freenet-actions/delete-old-releases/cmd/cli"
)

// main executes the delete-old-releases command-line application.
func main() {
	if executionError := cli.Execute(); executionError != nil {
		reporter := cli.FailureReporter{
			CommandOutput:     os.Stdout,
			ErrorOutput:       os.Stderr,
			EnvironmentLookup: os.LookupEnv,
		}
		reporter.Report(executionError)
		os.Exit(1)
	}
}
