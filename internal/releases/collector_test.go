package releases_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/freenet-actions/delete-old-releases/internal/inputs"
	"github.com/freenet-actions/delete-old-releases/internal/releases"
)

const (
	testOwnerConstant      = "freenet"
	testRepositoryConstant = "fred"
)

type listCall struct {
	owner      string
	repository string
	page       int
	pageSize   int
}

type stubReleaseLister struct {
	releases  []releases.Release
	calls     []listCall
	failPage  int
	failError error
}

func (lister *stubReleaseLister) ListReleases(_ context.Context, owner string, repository string, page int, pageSize int) ([]releases.Release, error) {
	lister.calls = append(lister.calls, listCall{owner: owner, repository: repository, page: page, pageSize: pageSize})
	if lister.failPage == page {
		return nil, lister.failError
	}
	start := (page - 1) * pageSize
	if start >= len(lister.releases) {
		return []releases.Release{}, nil
	}
	end := start + pageSize
	if end > len(lister.releases) {
		end = len(lister.releases)
	}
	return lister.releases[start:end], nil
}

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func datePointer(year int, month time.Month, day int) *time.Time {
	value := date(year, month, day)
	return &value
}

func TestCollectAppliesGroupRetentionAndCutoff(testInstance *testing.T) {
	lister := &stubReleaseLister{releases: []releases.Release{
		{ID: 2, Name: "develop-2", TagName: "v2", CreatedAt: date(2022, time.February, 25), PublishedAt: datePointer(2022, time.February, 25)},
		{ID: 1, Name: "develop-1", TagName: "v1", CreatedAt: date(2022, time.January, 23), PublishedAt: datePointer(2022, time.January, 23)},
	}}

	pattern := `^(?<group>.*)-\d+$`
	resolved, resolveError := inputs.Resolve(inputs.MapSource{
		inputs.KeyToken:              "token",
		inputs.KeyRegex:              pattern,
		inputs.KeyKeepLatestReleases: "true",
	}, inputs.Coordinates{Owner: testOwnerConstant, Repository: testRepositoryConstant}, inputs.ResolveOptions{
		Clock: func() time.Time { return date(2022, time.March, 1) },
	})
	require.NoError(testInstance, resolveError)

	collector := releases.NewCollector(nil)
	selected, collectError := collector.Collect(context.Background(), lister, releases.Selection{
		Owner:      resolved.Owner,
		Repository: resolved.Repository,
		DateCutoff: resolved.DateCutoff,
		NameCheck:  resolved.CheckReleaseName,
	})
	require.NoError(testInstance, collectError)
	require.Equal(testInstance, []releases.Summary{{ID: 1, Name: "develop-1", TagName: "v1"}}, selected)
	require.Equal(testInstance, []string{"develop"}, resolved.NamePredicate.RetainedGroups())
}

func TestCollectSkipsDraftsBeforeNameCheck(testInstance *testing.T) {
	lister := &stubReleaseLister{releases: []releases.Release{
		{ID: 3, Name: "develop-3", Draft: true, CreatedAt: date(2022, time.January, 3)},
		{ID: 2, Name: "develop-2", CreatedAt: date(2022, time.January, 2)},
		{ID: 1, Name: "develop-1", CreatedAt: date(2022, time.January, 1)},
	}}

	checkedNames := []string{}
	seenGroups := map[string]bool{}
	nameCheck := func(name string) bool {
		checkedNames = append(checkedNames, name)
		if !seenGroups["develop"] {
			seenGroups["develop"] = true
			return false
		}
		return true
	}

	selected, collectError := releases.NewCollector(nil).Collect(context.Background(), lister, releases.Selection{
		Owner:      testOwnerConstant,
		Repository: testRepositoryConstant,
		DateCutoff: date(2023, time.January, 1),
		NameCheck:  nameCheck,
	})
	require.NoError(testInstance, collectError)
	require.Equal(testInstance, []string{"develop-2", "develop-1"}, checkedNames)
	require.Equal(testInstance, []releases.Summary{{ID: 1, Name: "develop-1"}}, selected)
}

func TestCollectUsesEffectiveDate(testInstance *testing.T) {
	cutoff := date(2022, time.January, 24)
	testCases := []struct {
		name     string
		release  releases.Release
		expected bool
	}{
		{
			name:     "published_before_cutoff",
			release:  releases.Release{ID: 1, Name: "a", CreatedAt: date(2022, time.January, 1), PublishedAt: datePointer(2022, time.January, 2)},
			expected: true,
		},
		{
			name:     "published_after_cutoff_created_before",
			release:  releases.Release{ID: 2, Name: "b", CreatedAt: date(2022, time.January, 1), PublishedAt: datePointer(2022, time.January, 30)},
			expected: false,
		},
		{
			name:     "unpublished_uses_creation",
			release:  releases.Release{ID: 3, Name: "c", CreatedAt: date(2022, time.January, 20)},
			expected: true,
		},
		{
			name:     "exactly_at_cutoff",
			release:  releases.Release{ID: 4, Name: "d", CreatedAt: cutoff},
			expected: false,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			lister := &stubReleaseLister{releases: []releases.Release{testCase.release}}
			selected, collectError := releases.NewCollector(nil).Collect(context.Background(), lister, releases.Selection{DateCutoff: cutoff})
			require.NoError(testInstance, collectError)
			if testCase.expected {
				require.Len(testInstance, selected, 1)
				require.Equal(testInstance, testCase.release.ID, selected[0].ID)
			} else {
				require.Empty(testInstance, selected)
			}
		})
	}
}

func TestCollectPaginatesUntilShortPage(testInstance *testing.T) {
	const releaseCount = 261
	listed := make([]releases.Release, 0, releaseCount)
	start := date(2021, time.December, 31)
	for index := 0; index < releaseCount; index++ {
		listed = append(listed, releases.Release{
			ID:        int64(releaseCount - index),
			Name:      fmt.Sprintf("build-%d", releaseCount-index),
			TagName:   fmt.Sprintf("v%d", releaseCount-index),
			CreatedAt: start.Add(-time.Duration(index) * time.Hour),
		})
	}

	lister := &stubReleaseLister{releases: listed}
	selected, collectError := releases.NewCollector(nil).Collect(context.Background(), lister, releases.Selection{
		Owner:      testOwnerConstant,
		Repository: testRepositoryConstant,
		DateCutoff: date(2022, time.January, 24),
	})
	require.NoError(testInstance, collectError)
	require.Len(testInstance, selected, releaseCount)
	require.Equal(testInstance, int64(releaseCount), selected[0].ID)
	require.Equal(testInstance, int64(1), selected[releaseCount-1].ID)

	require.Equal(testInstance, []listCall{
		{owner: testOwnerConstant, repository: testRepositoryConstant, page: 1, pageSize: releases.DefaultPageSize},
		{owner: testOwnerConstant, repository: testRepositoryConstant, page: 2, pageSize: releases.DefaultPageSize},
		{owner: testOwnerConstant, repository: testRepositoryConstant, page: 3, pageSize: releases.DefaultPageSize},
	}, lister.calls)
}

func TestCollectRequestsNextPageAfterFullPage(testInstance *testing.T) {
	listed := make([]releases.Release, releases.DefaultPageSize)
	for index := range listed {
		listed[index] = releases.Release{ID: int64(index + 1), Name: "r", CreatedAt: date(2021, time.January, 1)}
	}

	lister := &stubReleaseLister{releases: listed}
	selected, collectError := releases.NewCollector(nil).Collect(context.Background(), lister, releases.Selection{DateCutoff: date(2022, time.January, 1)})
	require.NoError(testInstance, collectError)
	require.Len(testInstance, selected, releases.DefaultPageSize)
	require.Len(testInstance, lister.calls, 2)
}

func TestCollectWrapsListingErrors(testInstance *testing.T) {
	listingFailure := errors.New("rate limited")
	listed := make([]releases.Release, releases.DefaultPageSize)
	for index := range listed {
		listed[index] = releases.Release{ID: int64(index + 1), Name: "r", CreatedAt: date(2021, time.January, 1)}
	}
	lister := &stubReleaseLister{releases: listed, failPage: 2, failError: listingFailure}

	selected, collectError := releases.NewCollector(nil).Collect(context.Background(), lister, releases.Selection{
		Owner:      testOwnerConstant,
		Repository: testRepositoryConstant,
		DateCutoff: date(2022, time.January, 1),
	})
	require.Nil(testInstance, selected)
	require.ErrorIs(testInstance, collectError, listingFailure)

	var operationError releases.OperationError
	require.ErrorAs(testInstance, collectError, &operationError)
	require.Equal(testInstance, releases.OperationName("ListReleases"), operationError.Operation)
	require.Contains(testInstance, collectError.Error(), "page 2")
}

func TestCollectRequiresLister(testInstance *testing.T) {
	_, collectError := releases.NewCollector(nil).Collect(context.Background(), nil, releases.Selection{})
	require.ErrorIs(testInstance, collectError, releases.ErrListerNotConfigured)
}
