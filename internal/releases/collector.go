package releases

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

const (
	ownerFieldNameConstant               = "owner"
	repositoryFieldNameConstant          = "repository"
	pageFieldNameConstant                = "page"
	pageSizeFieldNameConstant            = "page_size"
	releaseIDFieldNameConstant           = "release_id"
	releaseNameFieldNameConstant         = "release_name"
	tagNameFieldNameConstant             = "tag_name"
	previousReleaseIDFieldNameConstant   = "previous_release_id"
	selectedCountFieldNameConstant       = "selected"
	listingPageLogMessageConstant        = "Listing releases"
	draftSkippedLogMessageConstant       = "Skipping draft release"
	releaseSelectedLogMessageConstant    = "Release selected for deletion"
	collectionCompleteLogMessageConstant = "Release collection completed"
	orderingAnomalyLogMessageConstant    = "Release listing is not ordered newest first; group retention keeps the first release encountered"
	tagReferencePrefixConstant           = "tags/"
)

// Collector walks the release listing and selects releases for deletion.
//
// Group retention keeps the first release of each group in listing order, so the
// collaborator is trusted to return releases newest first. Out-of-order listings
// are reported at debug level and otherwise processed as returned.
type Collector struct {
	logger   *zap.Logger
	pageSize int
}

// NewCollector constructs a Collector.
func NewCollector(logger *zap.Logger) *Collector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Collector{logger: logger, pageSize: DefaultPageSize}
}

// Collect lists every page of releases and returns the eligible ones in encounter order.
// Drafts never reach the name check; the name check runs once per non-draft release
// before the date comparison.
func (collector *Collector) Collect(executionContext context.Context, lister ReleaseLister, selection Selection) ([]Summary, error) {
	if lister == nil {
		return nil, ErrListerNotConfigured
	}

	nameCheck := selection.NameCheck
	if nameCheck == nil {
		nameCheck = func(string) bool { return true }
	}

	selected := []Summary{}
	var previous *Release

	for page := 1; ; page++ {
		collector.logger.Debug(listingPageLogMessageConstant,
			zap.String(ownerFieldNameConstant, selection.Owner),
			zap.String(repositoryFieldNameConstant, selection.Repository),
			zap.Int(pageFieldNameConstant, page),
			zap.Int(pageSizeFieldNameConstant, collector.pageSize),
		)

		pageReleases, listError := lister.ListReleases(executionContext, selection.Owner, selection.Repository, page, collector.pageSize)
		if listError != nil {
			return nil, OperationError{
				Operation: listOperationNameConstant,
				Subject:   fmt.Sprintf(pageSubjectTemplateConstant, selection.Owner, selection.Repository, page),
				Cause:     listError,
			}
		}

		for releaseIndex := range pageReleases {
			release := pageReleases[releaseIndex]
			if release.Draft {
				collector.logger.Debug(draftSkippedLogMessageConstant,
					zap.Int64(releaseIDFieldNameConstant, release.ID),
					zap.String(releaseNameFieldNameConstant, release.Name),
				)
				continue
			}

			if previous != nil && release.CreatedAt.After(previous.CreatedAt) {
				collector.logger.Debug(orderingAnomalyLogMessageConstant,
					zap.Int64(releaseIDFieldNameConstant, release.ID),
					zap.Int64(previousReleaseIDFieldNameConstant, previous.ID),
				)
			}
			previous = &release

			if !nameCheck(release.Name) {
				continue
			}
			if !selection.DateCutoff.After(release.EffectiveDate()) {
				continue
			}

			collector.logger.Debug(releaseSelectedLogMessageConstant,
				zap.Int64(releaseIDFieldNameConstant, release.ID),
				zap.String(releaseNameFieldNameConstant, release.Name),
				zap.String(tagNameFieldNameConstant, release.TagName),
			)
			selected = append(selected, Summary{ID: release.ID, Name: release.Name, TagName: release.TagName})
		}

		if len(pageReleases) != collector.pageSize {
			break
		}
	}

	collector.logger.Debug(collectionCompleteLogMessageConstant,
		zap.String(ownerFieldNameConstant, selection.Owner),
		zap.String(repositoryFieldNameConstant, selection.Repository),
		zap.Int(selectedCountFieldNameConstant, len(selected)),
	)

	return selected, nil
}
