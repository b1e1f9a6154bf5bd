package prune

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/freenet-actions/delete-old-releases/internal/execshell"
	"github.com/freenet-actions/delete-old-releases/internal/gitrepo"
	"github.com/freenet-actions/delete-old-releases/internal/inputs"
)

const (
	commandUseConstant                      = "delete-old-releases"
	commandShortDescriptionConstant         = "Delete stale GitHub releases"
	commandLongDescriptionConstant          = "delete-old-releases removes releases older than a maximum age whose names match a prefix and a regular expression, optionally keeping the newest release of each group and deleting the release tags."
	unexpectedArgumentsErrorMessageConstant = "delete-old-releases does not accept positional arguments"
	repositoryFlagNameConstant              = "repository"
	repositoryFlagDescriptionConstant       = "Repository as owner/name or remote URL (defaults to GITHUB_REPOSITORY)"
	apiURLFlagNameConstant                  = "api-url"
	apiURLFlagDescriptionConstant           = "GitHub REST API base URL (defaults to GITHUB_API_URL or api.github.com)"
	prefixFlagDescriptionConstant           = "Only consider releases whose name starts with this prefix"
	regexFlagDescriptionConstant            = "Only consider releases whose name matches this regular expression"
	maxAgeFlagDescriptionConstant           = "ISO-8601 duration; releases published before now minus this age are deleted"
	deleteTagsFlagDescriptionConstant       = "Also delete the tag of each deleted release"
	keepLatestFlagDescriptionConstant       = "Keep the newest release of each regex capture group named \"group\""
	dryRunFlagDescriptionConstant           = "Log the releases that would be deleted without deleting them"
	repositoryEnvironmentVariableConstant   = "GITHUB_REPOSITORY"
	apiURLEnvironmentVariableConstant       = "GITHUB_API_URL"
	summaryTemplateConstant                 = "Deleted %d release(s) and %d tag(s) from %s/%s\n"
	dryRunSummaryTemplateConstant           = "Dry run: %d release(s) would be deleted from %s/%s\n"
	userAgentConstant                       = "delete-old-releases"
)

// LoggerProvider supplies a zap logger instance.
type LoggerProvider func() *zap.Logger

// ConfigurationProvider returns the current prune configuration.
type ConfigurationProvider func() Configuration

// CommandBuilder assembles the delete-old-releases command.
type CommandBuilder struct {
	LoggerProvider        LoggerProvider
	ConfigurationProvider ConfigurationProvider
	ServiceResolver       ServiceResolver
	EnvironmentLookup     inputs.EnvironmentLookup
	HTTPClient            *http.Client
	Clock                 inputs.Clock
	TokenCommandRunner    execshell.CommandRunner
}

// Build constructs the command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:           commandUseConstant,
		Short:         commandShortDescriptionConstant,
		Long:          commandLongDescriptionConstant,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          builder.run,
	}

	command.Flags().String(repositoryFlagNameConstant, "", repositoryFlagDescriptionConstant)
	command.Flags().String(apiURLFlagNameConstant, "", apiURLFlagDescriptionConstant)
	command.Flags().String(inputs.KeyPrefix, "", prefixFlagDescriptionConstant)
	command.Flags().String(inputs.KeyRegex, "", regexFlagDescriptionConstant)
	command.Flags().String(inputs.KeyMaxAge, "", maxAgeFlagDescriptionConstant)
	command.Flags().Bool(inputs.KeyDeleteTags, false, deleteTagsFlagDescriptionConstant)
	command.Flags().Bool(inputs.KeyKeepLatestReleases, false, keepLatestFlagDescriptionConstant)
	command.Flags().Bool(inputs.KeyDryRun, false, dryRunFlagDescriptionConstant)

	return command, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, arguments []string) error {
	if len(arguments) > 0 {
		return errors.New(unexpectedArgumentsErrorMessageConstant)
	}

	configuration := builder.resolveConfiguration()
	lookup := builder.resolveEnvironmentLookup()

	coordinates, coordinatesError := builder.resolveCoordinates(command.Flags(), configuration, lookup)
	if coordinatesError != nil {
		return coordinatesError
	}

	apiURL := firstNonEmpty(flagValue(command.Flags(), apiURLFlagNameConstant), configuration.APIURL, environmentValue(lookup, apiURLEnvironmentVariableConstant))

	runner, resolveError := builder.resolveRunner(builder.resolveLogger())
	if resolveError != nil {
		return resolveError
	}

	result, runError := runner.Run(command.Context(), Options{
		Source: inputs.ChainSource{
			flagInputSource{flags: command.Flags()},
			inputs.NewActionsEnvironmentSource(lookup),
			configuration,
		},
		Coordinates: coordinates,
		APIURL:      apiURL,
	})
	if runError != nil {
		return runError
	}

	if result.DryRun {
		fmt.Fprintf(command.OutOrStdout(), dryRunSummaryTemplateConstant, len(result.Matched), result.Owner, result.Repository)
		return nil
	}
	fmt.Fprintf(command.OutOrStdout(), summaryTemplateConstant, result.ReleasesDeleted, result.TagsDeleted, result.Owner, result.Repository)
	return nil
}

func (builder *CommandBuilder) resolveCoordinates(flags *pflag.FlagSet, configuration Configuration, lookup inputs.EnvironmentLookup) (inputs.Coordinates, error) {
	reference := firstNonEmpty(flagValue(flags, repositoryFlagNameConstant), configuration.Repository, environmentValue(lookup, repositoryEnvironmentVariableConstant))
	if len(reference) == 0 {
		return inputs.Coordinates{}, nil
	}

	parsedCoordinates, parseError := gitrepo.ParseRepositoryCoordinates(reference)
	if parseError != nil {
		return inputs.Coordinates{}, inputs.ConfigurationError{Key: repositoryFlagNameConstant, Cause: parseError}
	}
	return inputs.Coordinates{Owner: parsedCoordinates.Owner, Repository: parsedCoordinates.Repository}, nil
}

func (builder *CommandBuilder) resolveLogger() *zap.Logger {
	if builder.LoggerProvider == nil {
		return zap.NewNop()
	}

	logger := builder.LoggerProvider()
	if logger == nil {
		return zap.NewNop()
	}

	return logger
}

func (builder *CommandBuilder) resolveConfiguration() Configuration {
	configuration := DefaultConfiguration()
	if builder.ConfigurationProvider != nil {
		configuration = builder.ConfigurationProvider()
	}
	return configuration.Sanitize()
}

func (builder *CommandBuilder) resolveEnvironmentLookup() inputs.EnvironmentLookup {
	if builder.EnvironmentLookup != nil {
		return builder.EnvironmentLookup
	}
	return os.LookupEnv
}

func (builder *CommandBuilder) resolveRunner(logger *zap.Logger) (Runner, error) {
	if builder.ServiceResolver != nil {
		return builder.ServiceResolver.Resolve(logger)
	}

	defaultResolver := &DefaultServiceResolver{
		HTTPClient:         builder.HTTPClient,
		UserAgent:          userAgentConstant,
		EnvironmentLookup:  builder.resolveEnvironmentLookup(),
		Clock:              builder.Clock,
		TokenCommandRunner: builder.TokenCommandRunner,
	}
	return defaultResolver.Resolve(logger)
}

// flagInputSource serves inputs from flags explicitly set on the command line.
type flagInputSource struct {
	flags *pflag.FlagSet
}

func (source flagInputSource) LookupInput(key string) (string, bool) {
	if source.flags == nil {
		return "", false
	}
	flag := source.flags.Lookup(key)
	if flag == nil || !flag.Changed {
		return "", false
	}
	return inputs.MapSource{key: flag.Value.String()}.LookupInput(key)
}

func flagValue(flags *pflag.FlagSet, name string) string {
	value, lookupError := flags.GetString(name)
	if lookupError != nil {
		return ""
	}
	return strings.TrimSpace(value)
}

func environmentValue(lookup inputs.EnvironmentLookup, name string) string {
	value, found := lookup(name)
	if !found {
		return ""
	}
	return strings.TrimSpace(value)
}

func firstNonEmpty(candidates ...string) string {
	for _, candidate := range candidates {
		if trimmedCandidate := strings.TrimSpace(candidate); len(trimmedCandidate) > 0 {
			return trimmedCandidate
		}
	}
	return ""
}
