package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/freenet-actions/delete-old-releases/internal/inputs"
)

const (
	actionsEnvironmentVariableConstant   = "GITHUB_ACTIONS"
	actionsEnabledValueConstant          = "true"
	failureTemplateConstant              = "%v\n"
	workflowErrorCommandTemplateConstant = "::error::%s\n"
)

var workflowCommandEscaper = strings.NewReplacer("%", "%25", "\r", "%0D", "\n", "%0A")

// FailureReporter prints a failed run to the console and, inside GitHub Actions,
// emits an error workflow command so the step is annotated.
type FailureReporter struct {
	CommandOutput     io.Writer
	ErrorOutput       io.Writer
	EnvironmentLookup inputs.EnvironmentLookup
}

// Report writes the failure. A nil error writes nothing.
func (reporter FailureReporter) Report(failure error) {
	if failure == nil {
		return
	}

	if reporter.ErrorOutput != nil {
		fmt.Fprintf(reporter.ErrorOutput, failureTemplateConstant, failure)
	}

	if reporter.CommandOutput == nil || !reporter.runningInActions() {
		return
	}
	fmt.Fprintf(reporter.CommandOutput, workflowErrorCommandTemplateConstant, workflowCommandEscaper.Replace(failure.Error()))
}

func (reporter FailureReporter) runningInActions() bool {
	if reporter.EnvironmentLookup == nil {
		return false
	}
	value, found := reporter.EnvironmentLookup(actionsEnvironmentVariableConstant)
	return found && strings.EqualFold(strings.TrimSpace(value), actionsEnabledValueConstant)
}
