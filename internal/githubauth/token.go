package githubauth

import (
	"context"
	"os"
	"strings"
	"time"

	"github.com/freenet-actions/delete-old-releases/internal/execshell"
)

// Environment variable names consulted when no token input is provided.
const (
	EnvGitHubCLIToken = "GH_TOKEN"
	EnvGitHubToken    = "GITHUB_TOKEN"
	EnvGitHubAPIToken = "GITHUB_API_TOKEN"
)

var tokenPreference = []string{
	EnvGitHubCLIToken,
	EnvGitHubToken,
	EnvGitHubAPIToken,
}

// EnvironmentLookup obtains an environment variable value.
type EnvironmentLookup func(key string) (string, bool)

// ResolveToken returns the first non-empty token among GH_TOKEN, GITHUB_TOKEN and
// GITHUB_API_TOKEN. A nil lookup reads the process environment.
func ResolveToken(lookup EnvironmentLookup) (string, bool) {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	for _, key := range tokenPreference {
		value, exists := lookup(key)
		if !exists {
			continue
		}
		value = strings.TrimSpace(value)
		if len(value) > 0 {
			return value, true
		}
	}
	return "", false
}

// TokenFallback binds ResolveToken to a lookup for deferred use.
func TokenFallback(lookup EnvironmentLookup) func() (string, bool) {
	return func() (string, bool) {
		return ResolveToken(lookup)
	}
}

// CLITokenTimeout bounds how long the GitHub CLI may take to print a token.
const CLITokenTimeout = 10 * time.Second

var cliTokenArguments = []string{"auth", "token"}

// GitHubCLIExecutor runs the gh executable.
type GitHubCLIExecutor interface {
	ExecuteGitHubCLI(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// CLITokenSource returns a source that asks `gh auth token` for the credential of
// the logged-in GitHub CLI user. Failures and empty output count as absent.
func CLITokenSource(executor GitHubCLIExecutor) func() (string, bool) {
	return func() (string, bool) {
		if executor == nil {
			return "", false
		}
		executionContext, cancel := context.WithTimeout(context.Background(), CLITokenTimeout)
		defer cancel()

		result, executionError := executor.ExecuteGitHubCLI(executionContext, execshell.CommandDetails{Arguments: cliTokenArguments})
		if executionError != nil {
			return "", false
		}
		token := strings.TrimSpace(result.StandardOutput)
		return token, len(token) > 0
	}
}

// ChainTokenSources returns the first token supplied by the sources in order.
func ChainTokenSources(sources ...func() (string, bool)) func() (string, bool) {
	return func() (string, bool) {
		for _, source := range sources {
			if source == nil {
				continue
			}
			if token, found := source(); found {
				return token, true
			}
		}
		return "", false
	}
}
