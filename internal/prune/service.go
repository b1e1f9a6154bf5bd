package prune

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/freenet-actions/delete-old-releases/internal/inputs"
	"github.com/freenet-actions/delete-old-releases/internal/releases"
)

const (
	clientFactoryMissingMessageConstant     = "GitHub client factory not configured"
	clientCreationErrorTemplateConstant     = "unable to create GitHub client: %w"
	collectionErrorTemplateConstant         = "unable to collect releases: %w"
	removalErrorTemplateConstant            = "unable to delete releases: %w"
	runIdentifierFieldNameConstant          = "run_id"
	ownerFieldNameConstant                  = "owner"
	repositoryFieldNameConstant             = "repository"
	prefixFieldNameConstant                 = "prefix"
	regexFieldNameConstant                  = "regex"
	maxAgeFieldNameConstant                 = "max_age"
	dateCutoffFieldNameConstant             = "date_cutoff"
	keepLatestFieldNameConstant             = "keep_latest_releases"
	deleteTagsFieldNameConstant             = "delete_tags"
	dryRunFieldNameConstant                 = "dry_run"
	apiURLFieldNameConstant                 = "api_url"
	matchedFieldNameConstant                = "matched"
	releasesDeletedFieldNameConstant        = "releases_deleted"
	tagsDeletedFieldNameConstant            = "tags_deleted"
	retainedGroupsFieldNameConstant         = "retained_groups"
	searchCriteriaLogMessageConstant        = "Searching for releases to delete"
	nothingToDeleteLogMessageConstant       = "No releases matched the deletion criteria"
	releasesMatchedLogMessageConstant       = "Releases matched the deletion criteria"
	groupsRetainedLogMessageConstant        = "Kept the newest release of each group"
	runCompletedLogMessageConstant          = "Release pruning completed"
	dryRunCompletedLogMessageConstant       = "Dry run completed; no releases were deleted"
	configurationRejectedLogMessageConstant = "Configuration rejected"
)

// ErrClientFactoryNotConfigured indicates the service was built without a client factory.
var ErrClientFactoryNotConfigured = errors.New(clientFactoryMissingMessageConstant)

// ReleaseClient lists and deletes releases of one repository host.
type ReleaseClient interface {
	releases.ReleaseLister
	releases.ReleaseDeleter
}

// ClientFactory builds a ReleaseClient for a token and an optional API base URL.
type ClientFactory func(token string, apiURL string) (ReleaseClient, error)

// RunIdentifierGenerator produces the identifier attached to every log entry of a run.
type RunIdentifierGenerator func() string

// ServiceDependencies enumerates collaborators required by the service.
type ServiceDependencies struct {
	Logger         *zap.Logger
	ClientFactory  ClientFactory
	Clock          inputs.Clock
	TokenFallback  inputs.TokenFallback
	RunIdentifiers RunIdentifierGenerator
}

// Options configure a single run.
type Options struct {
	Source      inputs.ConfigurationSource
	Coordinates inputs.Coordinates
	APIURL      string
}

// Result summarizes a run.
type Result struct {
	RunID           string
	Owner           string
	Repository      string
	DateCutoff      time.Time
	Matched         []releases.Summary
	ReleasesDeleted int
	TagsDeleted     int
	DryRun          bool
}

// Service orchestrates input resolution, collection and removal.
type Service struct {
	logger         *zap.Logger
	clientFactory  ClientFactory
	clock          inputs.Clock
	tokenFallback  inputs.TokenFallback
	runIdentifiers RunIdentifierGenerator
}

// NewService constructs a Service from the provided dependencies.
func NewService(dependencies ServiceDependencies) (*Service, error) {
	if dependencies.ClientFactory == nil {
		return nil, ErrClientFactoryNotConfigured
	}

	logger := dependencies.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	clock := dependencies.Clock
	if clock == nil {
		clock = time.Now
	}

	runIdentifiers := dependencies.RunIdentifiers
	if runIdentifiers == nil {
		runIdentifiers = uuid.NewString
	}

	return &Service{
		logger:         logger,
		clientFactory:  dependencies.ClientFactory,
		clock:          clock,
		tokenFallback:  dependencies.TokenFallback,
		runIdentifiers: runIdentifiers,
	}, nil
}

// Run resolves the inputs, selects stale releases and deletes them unless the run is a dry run.
// Configuration errors are returned before any API call is made.
func (service *Service) Run(executionContext context.Context, options Options) (Result, error) {
	runIdentifier := service.runIdentifiers()
	runLogger := service.logger.With(zap.String(runIdentifierFieldNameConstant, runIdentifier))

	resolvedInputs, resolveError := inputs.Resolve(options.Source, options.Coordinates, inputs.ResolveOptions{
		Clock:         service.clock,
		TokenFallback: service.tokenFallback,
	})
	if resolveError != nil {
		runLogger.Debug(configurationRejectedLogMessageConstant, zap.Error(resolveError))
		return Result{RunID: runIdentifier}, resolveError
	}

	result := Result{
		RunID:      runIdentifier,
		Owner:      resolvedInputs.Owner,
		Repository: resolvedInputs.Repository,
		DateCutoff: resolvedInputs.DateCutoff,
		DryRun:     resolvedInputs.DryRun,
	}

	client, clientError := service.clientFactory(resolvedInputs.Token, options.APIURL)
	if clientError != nil {
		return result, fmt.Errorf(clientCreationErrorTemplateConstant, clientError)
	}

	runLogger.Info(searchCriteriaLogMessageConstant,
		zap.String(ownerFieldNameConstant, resolvedInputs.Owner),
		zap.String(repositoryFieldNameConstant, resolvedInputs.Repository),
		zap.String(prefixFieldNameConstant, resolvedInputs.Criteria.Prefix),
		zap.String(regexFieldNameConstant, resolvedInputs.Criteria.Regex),
		zap.String(maxAgeFieldNameConstant, resolvedInputs.Criteria.MaxAge),
		zap.Time(dateCutoffFieldNameConstant, resolvedInputs.DateCutoff),
		zap.Bool(keepLatestFieldNameConstant, resolvedInputs.Criteria.KeepLatestReleases),
		zap.Bool(deleteTagsFieldNameConstant, resolvedInputs.DeleteTags),
		zap.Bool(dryRunFieldNameConstant, resolvedInputs.DryRun),
		zap.String(apiURLFieldNameConstant, options.APIURL),
	)

	selected, collectError := releases.NewCollector(runLogger).Collect(executionContext, client, releases.Selection{
		Owner:      resolvedInputs.Owner,
		Repository: resolvedInputs.Repository,
		DateCutoff: resolvedInputs.DateCutoff,
		NameCheck:  resolvedInputs.CheckReleaseName,
	})
	if collectError != nil {
		return result, fmt.Errorf(collectionErrorTemplateConstant, collectError)
	}
	result.Matched = selected

	if retainedGroups := resolvedInputs.NamePredicate.RetainedGroups(); retainedGroups != nil {
		runLogger.Debug(groupsRetainedLogMessageConstant, zap.Strings(retainedGroupsFieldNameConstant, retainedGroups))
	}

	if len(selected) == 0 {
		runLogger.Info(nothingToDeleteLogMessageConstant)
		return result, nil
	}
	runLogger.Info(releasesMatchedLogMessageConstant, zap.Int(matchedFieldNameConstant, len(selected)))

	removal, removeError := releases.NewRemover(runLogger).Remove(executionContext, client, selected, releases.RemovalOptions{
		Owner:      resolvedInputs.Owner,
		Repository: resolvedInputs.Repository,
		DeleteTags: resolvedInputs.DeleteTags,
		DryRun:     resolvedInputs.DryRun,
	})
	result.ReleasesDeleted = removal.ReleasesDeleted
	result.TagsDeleted = removal.TagsDeleted
	if removeError != nil {
		return result, fmt.Errorf(removalErrorTemplateConstant, removeError)
	}

	completionMessage := runCompletedLogMessageConstant
	if resolvedInputs.DryRun {
		completionMessage = dryRunCompletedLogMessageConstant
	}
	runLogger.Info(completionMessage,
		zap.Int(matchedFieldNameConstant, len(selected)),
		zap.Int(releasesDeletedFieldNameConstant, result.ReleasesDeleted),
		zap.Int(tagsDeletedFieldNameConstant, result.TagsDeleted),
	)

	return result, nil
}
