package githubapi

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/go-github/v75/github"

	"github.com/freenet-actions/delete-old-releases/internal/releases"
)

const (
	urlPathSeparatorConstant                = "/"
	tokenFieldNameConstant                  = "token"
	baseURLFieldNameConstant                = "api_url"
	requiredValueMessageConstant            = "value required"
	invalidBaseURLMessageTemplateConstant   = "invalid URL %q: %v"
	absoluteURLRequiredMessageConstant      = "absolute URL required"
	invalidInputErrorTemplateConstant       = "%s: %s"
	operationErrorMessageTemplateConstant   = "%s operation failed"
	operationErrorWithCauseTemplateConstant = "%s operation failed: %v"
	listReleasesOperationNameConstant       = OperationName("ListReleases")
	deleteReleaseOperationNameConstant      = OperationName("DeleteRelease")
	deleteRefOperationNameConstant          = OperationName("DeleteRef")
)

// OperationName identifies a GitHub REST call issued by the client.
type OperationName string

// InvalidInputError surfaces client configuration problems.
type InvalidInputError struct {
	FieldName string
	Message   string
}

// Error describes the invalid input.
func (inputError InvalidInputError) Error() string {
	return fmt.Sprintf(invalidInputErrorTemplateConstant, inputError.FieldName, inputError.Message)
}

// OperationError wraps a failed GitHub REST call.
type OperationError struct {
	Operation OperationName
	Cause     error
}

// Error describes the operation failure.
func (operationError OperationError) Error() string {
	if operationError.Cause == nil {
		return fmt.Sprintf(operationErrorMessageTemplateConstant, operationError.Operation)
	}
	return fmt.Sprintf(operationErrorWithCauseTemplateConstant, operationError.Operation, operationError.Cause)
}

// Unwrap exposes the underlying cause.
func (operationError OperationError) Unwrap() error {
	return operationError.Cause
}

// ClientOptions configure Client construction.
type ClientOptions struct {
	Token      string
	BaseURL    string
	UserAgent  string
	HTTPClient *http.Client
}

// Client lists and deletes releases through the GitHub REST API.
type Client struct {
	githubClient *github.Client
}

// NewClient builds an authenticated Client. An empty BaseURL targets api.github.com.
func NewClient(options ClientOptions) (*Client, error) {
	token := strings.TrimSpace(options.Token)
	if len(token) == 0 {
		return nil, InvalidInputError{FieldName: tokenFieldNameConstant, Message: requiredValueMessageConstant}
	}

	githubClient := github.NewClient(options.HTTPClient).WithAuthToken(token)

	baseURL := strings.TrimSpace(options.BaseURL)
	if len(baseURL) > 0 {
		parsedBaseURL, parseError := parseBaseURL(baseURL)
		if parseError != nil {
			return nil, parseError
		}
		githubClient.BaseURL = parsedBaseURL
	}

	if userAgent := strings.TrimSpace(options.UserAgent); len(userAgent) > 0 {
		githubClient.UserAgent = userAgent
	}

	return &Client{githubClient: githubClient}, nil
}

// BaseURL reports the API root the client talks to.
func (client *Client) BaseURL() string {
	return client.githubClient.BaseURL.String()
}

// ListReleases fetches one page of releases.
func (client *Client) ListReleases(executionContext context.Context, owner string, repository string, page int, pageSize int) ([]releases.Release, error) {
	listOptions := &github.ListOptions{Page: page, PerPage: pageSize}
	repositoryReleases, _, listError := client.githubClient.Repositories.ListReleases(executionContext, owner, repository, listOptions)
	if listError != nil {
		return nil, OperationError{Operation: listReleasesOperationNameConstant, Cause: listError}
	}

	converted := make([]releases.Release, 0, len(repositoryReleases))
	for _, repositoryRelease := range repositoryReleases {
		if repositoryRelease == nil {
			continue
		}
		converted = append(converted, convertRelease(repositoryRelease))
	}
	return converted, nil
}

// DeleteRelease removes a release by identifier.
func (client *Client) DeleteRelease(executionContext context.Context, owner string, repository string, releaseID int64) error {
	if _, deleteError := client.githubClient.Repositories.DeleteRelease(executionContext, owner, repository, releaseID); deleteError != nil {
		return OperationError{Operation: deleteReleaseOperationNameConstant, Cause: deleteError}
	}
	return nil
}

// DeleteRef removes a git reference such as "tags/v1.0.0".
func (client *Client) DeleteRef(executionContext context.Context, owner string, repository string, reference string) error {
	if _, deleteError := client.githubClient.Git.DeleteRef(executionContext, owner, repository, reference); deleteError != nil {
		return OperationError{Operation: deleteRefOperationNameConstant, Cause: deleteError}
	}
	return nil
}

func convertRelease(repositoryRelease *github.RepositoryRelease) releases.Release {
	converted := releases.Release{
		ID:        repositoryRelease.GetID(),
		Name:      repositoryRelease.GetName(),
		TagName:   repositoryRelease.GetTagName(),
		Draft:     repositoryRelease.GetDraft(),
		CreatedAt: repositoryRelease.GetCreatedAt().Time,
	}
	if repositoryRelease.PublishedAt != nil {
		publishedAt := repositoryRelease.PublishedAt.Time
		converted.PublishedAt = &publishedAt
	}
	return converted
}

func parseBaseURL(rawBaseURL string) (*url.URL, error) {
	parsedURL, parseError := url.Parse(rawBaseURL)
	if parseError != nil {
		return nil, InvalidInputError{FieldName: baseURLFieldNameConstant, Message: fmt.Sprintf(invalidBaseURLMessageTemplateConstant, rawBaseURL, parseError)}
	}
	if !parsedURL.IsAbs() || len(parsedURL.Host) == 0 {
		return nil, InvalidInputError{FieldName: baseURLFieldNameConstant, Message: absoluteURLRequiredMessageConstant}
	}
	if !strings.HasSuffix(parsedURL.Path, urlPathSeparatorConstant) {
		parsedURL.Path += urlPathSeparatorConstant
	}
	return parsedURL, nil
}
