package prune

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/freenet-actions/delete-old-releases/internal/execshell"
	"github.com/freenet-actions/delete-old-releases/internal/githubapi"
	"github.com/freenet-actions/delete-old-releases/internal/githubauth"
	"github.com/freenet-actions/delete-old-releases/internal/inputs"
)

// Runner executes a prune run.
type Runner interface {
	Run(executionContext context.Context, options Options) (Result, error)
}

// ServiceResolver creates runners for the command.
type ServiceResolver interface {
	Resolve(logger *zap.Logger) (Runner, error)
}

// DefaultServiceResolver builds services backed by the GitHub REST API. When
// TokenCommandRunner is set, `gh auth token` is consulted after the environment.
type DefaultServiceResolver struct {
	HTTPClient         *http.Client
	UserAgent          string
	EnvironmentLookup  inputs.EnvironmentLookup
	Clock              inputs.Clock
	TokenCommandRunner execshell.CommandRunner
}

// Resolve creates a Service using go-github and environment token fallback.
func (resolver *DefaultServiceResolver) Resolve(logger *zap.Logger) (Runner, error) {
	tokenFallback := githubauth.TokenFallback(githubauth.EnvironmentLookup(resolver.EnvironmentLookup))
	if resolver.TokenCommandRunner != nil {
		executorLogger := logger
		if executorLogger == nil {
			executorLogger = zap.NewNop()
		}
		shellExecutor, executorError := execshell.NewShellExecutor(executorLogger, resolver.TokenCommandRunner)
		if executorError != nil {
			return nil, executorError
		}
		tokenFallback = githubauth.ChainTokenSources(tokenFallback, githubauth.CLITokenSource(shellExecutor))
	}

	return NewService(ServiceDependencies{
		Logger:        logger,
		ClientFactory: NewGitHubClientFactory(resolver.HTTPClient, resolver.UserAgent),
		Clock:         resolver.Clock,
		TokenFallback: tokenFallback,
	})
}

// NewGitHubClientFactory returns a ClientFactory producing githubapi clients.
func NewGitHubClientFactory(httpClient *http.Client, userAgent string) ClientFactory {
	return func(token string, apiURL string) (ReleaseClient, error) {
		client, clientError := githubapi.NewClient(githubapi.ClientOptions{
			Token:      token,
			BaseURL:    apiURL,
			UserAgent:  userAgent,
			HTTPClient: httpClient,
		})
		if clientError != nil {
			return nil, clientError
		}
		return client, nil
	}
}
