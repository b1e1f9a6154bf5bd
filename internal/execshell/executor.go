package execshell

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

const (
	commandStartedLogMessageConstant   = "Running external command"
	commandCompletedLogMessageConstant = "External command completed"
	commandFailedLogMessageConstant    = "External command failed"
	commandFieldNameConstant           = "command"
	argumentsFieldNameConstant         = "arguments"
	exitCodeFieldNameConstant          = "exit_code"
	executionErrorTemplateConstant     = "unable to run %s: %w"
)

// ShellExecutor runs commands through a CommandRunner and logs their lifecycle.
// Standard output is never logged because it may carry credentials.
type ShellExecutor struct {
	logger *zap.Logger
	runner CommandRunner
}

// NewShellExecutor validates its collaborators and constructs a ShellExecutor.
func NewShellExecutor(logger *zap.Logger, runner CommandRunner) (*ShellExecutor, error) {
	if logger == nil {
		return nil, ErrLoggerNotConfigured
	}
	if runner == nil {
		return nil, ErrCommandRunnerNotConfigured
	}
	return &ShellExecutor{logger: logger, runner: runner}, nil
}

// Execute runs the command and converts non-zero exit codes into CommandFailedError.
func (executor *ShellExecutor) Execute(executionContext context.Context, command ShellCommand) (ExecutionResult, error) {
	commandFields := []zap.Field{
		zap.String(commandFieldNameConstant, string(command.Name)),
		zap.String(argumentsFieldNameConstant, strings.Join(command.Details.Arguments, argumentSeparatorConstant)),
	}
	executor.logger.Debug(commandStartedLogMessageConstant, commandFields...)

	result, runError := executor.runner.Run(executionContext, command)
	if runError != nil {
		executor.logger.Debug(commandFailedLogMessageConstant, append(commandFields, zap.Error(runError))...)
		return ExecutionResult{}, fmt.Errorf(executionErrorTemplateConstant, command.Name, runError)
	}

	if result.ExitCode != 0 {
		executor.logger.Debug(commandFailedLogMessageConstant, append(commandFields, zap.Int(exitCodeFieldNameConstant, result.ExitCode))...)
		return result, CommandFailedError{Command: command, Result: result}
	}

	executor.logger.Debug(commandCompletedLogMessageConstant, commandFields...)
	return result, nil
}

// ExecuteGitHubCLI runs the gh executable with the provided details.
func (executor *ShellExecutor) ExecuteGitHubCLI(executionContext context.Context, details CommandDetails) (ExecutionResult, error) {
	return executor.Execute(executionContext, ShellCommand{Name: CommandGitHub, Details: details})
}
