package execshell

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// CommandName identifies an executable.
type CommandName string

// CommandGitHub is the GitHub CLI executable.
const CommandGitHub CommandName = "gh"

const (
	commandFailedTemplateConstant           = "%s %s exited with code %d"
	commandFailedWithOutputTemplateConstant = "%s %s exited with code %d: %s"
	argumentSeparatorConstant               = " "
)

var (
	// ErrLoggerNotConfigured indicates a nil logger was supplied.
	ErrLoggerNotConfigured = errors.New("shell executor logger not configured")
	// ErrCommandRunnerNotConfigured indicates a nil command runner was supplied.
	ErrCommandRunnerNotConfigured = errors.New("shell executor command runner not configured")
)

// CommandDetails describes how a command is invoked.
type CommandDetails struct {
	Arguments            []string
	WorkingDirectory     string
	EnvironmentVariables map[string]string
	StandardInput        []byte
}

// ShellCommand couples an executable with its invocation details.
type ShellCommand struct {
	Name    CommandName
	Details CommandDetails
}

// ExecutionResult captures the outcome of a finished process.
type ExecutionResult struct {
	StandardOutput string
	StandardError  string
	ExitCode       int
}

// CommandRunner executes shell commands. A non-zero exit code is reported through
// ExecutionResult; errors are reserved for processes that could not run.
type CommandRunner interface {
	Run(executionContext context.Context, command ShellCommand) (ExecutionResult, error)
}

// CommandFailedError reports a command that exited with a non-zero code.
type CommandFailedError struct {
	Command ShellCommand
	Result  ExecutionResult
}

// Error describes the failure without the command's standard output.
func (failure CommandFailedError) Error() string {
	argumentsLabel := strings.Join(failure.Command.Details.Arguments, argumentSeparatorConstant)
	standardError := strings.TrimSpace(failure.Result.StandardError)
	if len(standardError) == 0 {
		return fmt.Sprintf(commandFailedTemplateConstant, failure.Command.Name, argumentsLabel, failure.Result.ExitCode)
	}
	return fmt.Sprintf(commandFailedWithOutputTemplateConstant, failure.Command.Name, argumentsLabel, failure.Result.ExitCode, standardError)
}
