package releases

import (
	"context"
	"time"
)

// DefaultPageSize is the number of releases requested per listing page.
const DefaultPageSize = 100

// Release is a raw release record returned by the listing collaborator.
type Release struct {
	ID          int64
	Name        string
	TagName     string
	Draft       bool
	PublishedAt *time.Time
	CreatedAt   time.Time
}

// EffectiveDate returns the publication time, falling back to the creation time.
func (release Release) EffectiveDate() time.Time {
	if release.PublishedAt != nil {
		return *release.PublishedAt
	}
	return release.CreatedAt
}

// Summary identifies a release selected for deletion.
type Summary struct {
	ID      int64
	Name    string
	TagName string
}

// ReleaseLister lists one page of releases, newest first.
type ReleaseLister interface {
	ListReleases(executionContext context.Context, owner string, repository string, page int, pageSize int) ([]Release, error)
}

// ReleaseDeleter removes releases and git references.
type ReleaseDeleter interface {
	DeleteRelease(executionContext context.Context, owner string, repository string, releaseID int64) error
	DeleteRef(executionContext context.Context, owner string, repository string, reference string) error
}

// NameCheck decides whether a release name is eligible. Implementations may be stateful.
type NameCheck func(name string) bool

// Selection configures a collection pass.
type Selection struct {
	Owner      string
	Repository string
	DateCutoff time.Time
	NameCheck  NameCheck
}

// RemovalOptions configures a removal pass.
type RemovalOptions struct {
	Owner      string
	Repository string
	DeleteTags bool
	DryRun     bool
}

// RemovalResult counts the side effects performed by a removal pass.
type RemovalResult struct {
	ReleasesDeleted int
	TagsDeleted     int
}
