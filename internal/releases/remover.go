package releases

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

const (
	dryRunFieldNameConstant            = "dry_run"
	deletingReleaseLogMessageConstant  = "Deleting release"
	releaseDeletedLogMessageConstant   = "Release deleted"
	tagDeletedLogMessageConstant       = "Tag deleted"
	dryRunSkipLogMessageConstant       = "Dry run: release not deleted"
	removalFailedLogMessageConstant    = "Release removal failed"
	releasesDeletedFieldNameConstant   = "releases_deleted"
	tagsDeletedFieldNameConstant       = "tags_deleted"
	removalCompletedLogMessageConstant = "Release removal completed"
)

// Remover deletes selected releases one at a time.
type Remover struct {
	logger *zap.Logger
}

// NewRemover constructs a Remover.
func NewRemover(logger *zap.Logger) *Remover {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Remover{logger: logger}
}

// Remove deletes each release in order and, when requested, its tag right after it.
// The first failure stops the pass; the result counts what was already removed.
func (remover *Remover) Remove(executionContext context.Context, deleter ReleaseDeleter, summaries []Summary, options RemovalOptions) (RemovalResult, error) {
	result := RemovalResult{}
	if len(summaries) == 0 {
		return result, nil
	}
	if deleter == nil && !options.DryRun {
		return result, ErrDeleterNotConfigured
	}

	for _, summary := range summaries {
		remover.logger.Info(deletingReleaseLogMessageConstant,
			zap.Int64(releaseIDFieldNameConstant, summary.ID),
			zap.String(releaseNameFieldNameConstant, summary.Name),
			zap.String(tagNameFieldNameConstant, summary.TagName),
			zap.Bool(dryRunFieldNameConstant, options.DryRun),
		)

		if options.DryRun {
			remover.logger.Debug(dryRunSkipLogMessageConstant, zap.Int64(releaseIDFieldNameConstant, summary.ID))
			continue
		}

		if deleteError := deleter.DeleteRelease(executionContext, options.Owner, options.Repository, summary.ID); deleteError != nil {
			return result, remover.failure(OperationError{
				Operation: deleteReleaseOperationNameConstant,
				Subject:   fmt.Sprintf(releaseSubjectTemplateConstant, summary.Name, summary.ID),
				Cause:     deleteError,
			}, result)
		}
		result.ReleasesDeleted++
		remover.logger.Debug(releaseDeletedLogMessageConstant, zap.Int64(releaseIDFieldNameConstant, summary.ID))

		if !options.DeleteTags {
			continue
		}

		if deleteError := deleter.DeleteRef(executionContext, options.Owner, options.Repository, TagReference(summary.TagName)); deleteError != nil {
			return result, remover.failure(OperationError{
				Operation: deleteReferenceOperationNameConstant,
				Subject:   fmt.Sprintf(tagSubjectTemplateConstant, summary.TagName, summary.Name),
				Cause:     deleteError,
			}, result)
		}
		result.TagsDeleted++
		remover.logger.Debug(tagDeletedLogMessageConstant, zap.String(tagNameFieldNameConstant, summary.TagName))
	}

	remover.logger.Debug(removalCompletedLogMessageConstant,
		zap.Int(releasesDeletedFieldNameConstant, result.ReleasesDeleted),
		zap.Int(tagsDeletedFieldNameConstant, result.TagsDeleted),
	)

	return result, nil
}

func (remover *Remover) failure(operationError OperationError, result RemovalResult) error {
	remover.logger.Error(removalFailedLogMessageConstant,
		zap.Int(releasesDeletedFieldNameConstant, result.ReleasesDeleted),
		zap.Int(tagsDeletedFieldNameConstant, result.TagsDeleted),
		zap.Error(operationError),
	)
	return operationError
}

// TagReference returns the git reference path of a tag relative to refs/.
func TagReference(tagName string) string {
	return tagReferencePrefixConstant + tagName
}
