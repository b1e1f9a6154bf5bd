package githubapi_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/go-github/v75/github"
	"github.com/stretchr/testify/require"

	"github.com/freenet-actions/delete-old-releases/internal/githubapi"
	"github.com/freenet-actions/delete-old-releases/internal/releases"
)

const (
	testTokenConstant     = "ghp_example"
	testUserAgentConstant = "delete-old-releases-test"
	releasesPageConstant  = `[
  {"id": 2, "name": "develop-2", "tag_name": "v2", "draft": false, "created_at": "2022-02-24T10:00:00Z", "published_at": "2022-02-25T10:00:00Z"},
  {"id": 1, "name": "develop-1", "tag_name": "v1", "draft": true, "created_at": "2022-01-23T10:00:00Z", "published_at": null}
]`
)

type recordedRequest struct {
	method        string
	path          string
	query         string
	authorization string
	userAgent     string
}

func newRecordingServer(testInstance *testing.T, status int, body string) (*httptest.Server, *[]recordedRequest) {
	testInstance.Helper()
	recorded := []recordedRequest{}
	server := httptest.NewServer(http.HandlerFunc(func(responseWriter http.ResponseWriter, request *http.Request) {
		recorded = append(recorded, recordedRequest{
			method:        request.Method,
			path:          request.URL.EscapedPath(),
			query:         request.URL.RawQuery,
			authorization: request.Header.Get("Authorization"),
			userAgent:     request.Header.Get("User-Agent"),
		})
		responseWriter.Header().Set("Content-Type", "application/json")
		responseWriter.WriteHeader(status)
		_, _ = responseWriter.Write([]byte(body))
	}))
	testInstance.Cleanup(server.Close)
	return server, &recorded
}

func newTestClient(testInstance *testing.T, serverURL string) *githubapi.Client {
	testInstance.Helper()
	client, clientError := githubapi.NewClient(githubapi.ClientOptions{
		Token:     testTokenConstant,
		BaseURL:   serverURL + "/api/v3",
		UserAgent: testUserAgentConstant,
	})
	require.NoError(testInstance, clientError)
	return client
}

func TestListReleasesConvertsRecords(testInstance *testing.T) {
	server, recorded := newRecordingServer(testInstance, http.StatusOK, releasesPageConstant)
	client := newTestClient(testInstance, server.URL)

	listed, listError := client.ListReleases(context.Background(), "freenet", "fred", 3, 100)
	require.NoError(testInstance, listError)

	publishedAt := time.Date(2022, time.February, 25, 10, 0, 0, 0, time.UTC)
	require.Len(testInstance, listed, 2)
	require.Equal(testInstance, int64(2), listed[0].ID)
	require.Equal(testInstance, "develop-2", listed[0].Name)
	require.Equal(testInstance, "v2", listed[0].TagName)
	require.False(testInstance, listed[0].Draft)
	require.NotNil(testInstance, listed[0].PublishedAt)
	require.True(testInstance, publishedAt.Equal(*listed[0].PublishedAt))
	require.True(testInstance, publishedAt.Equal(listed[0].EffectiveDate()))

	require.True(testInstance, listed[1].Draft)
	require.Nil(testInstance, listed[1].PublishedAt)
	require.True(testInstance, time.Date(2022, time.January, 23, 10, 0, 0, 0, time.UTC).Equal(listed[1].EffectiveDate()))

	require.Len(testInstance, *recorded, 1)
	request := (*recorded)[0]
	require.Equal(testInstance, http.MethodGet, request.method)
	require.Equal(testInstance, "/api/v3/repos/freenet/fred/releases", request.path)
	require.Equal(testInstance, "page=3&per_page=100", request.query)
	require.Equal(testInstance, "Bearer "+testTokenConstant, request.authorization)
	require.Equal(testInstance, testUserAgentConstant, request.userAgent)
}

func TestDeleteReleaseAndRef(testInstance *testing.T) {
	server, recorded := newRecordingServer(testInstance, http.StatusNoContent, "")
	client := newTestClient(testInstance, server.URL)

	require.NoError(testInstance, client.DeleteRelease(context.Background(), "freenet", "fred", 42))
	require.NoError(testInstance, client.DeleteRef(context.Background(), "freenet", "fred", releases.TagReference("build/1.0")))

	require.Len(testInstance, *recorded, 2)
	require.Equal(testInstance, http.MethodDelete, (*recorded)[0].method)
	require.Equal(testInstance, "/api/v3/repos/freenet/fred/releases/42", (*recorded)[0].path)
	require.Equal(testInstance, http.MethodDelete, (*recorded)[1].method)
	require.Equal(testInstance, "/api/v3/repos/freenet/fred/git/refs/tags/build/1.0", (*recorded)[1].path)
}

func TestClientWrapsAPIErrors(testInstance *testing.T) {
	server, _ := newRecordingServer(testInstance, http.StatusNotFound, `{"message": "Not Found"}`)
	client := newTestClient(testInstance, server.URL)

	testCases := []struct {
		name              string
		invoke            func() error
		expectedOperation githubapi.OperationName
	}{
		{
			name: "list",
			invoke: func() error {
				_, listError := client.ListReleases(context.Background(), "freenet", "fred", 1, 100)
				return listError
			},
			expectedOperation: githubapi.OperationName("ListReleases"),
		},
		{
			name: "delete_release",
			invoke: func() error {
				return client.DeleteRelease(context.Background(), "freenet", "fred", 7)
			},
			expectedOperation: githubapi.OperationName("DeleteRelease"),
		},
		{
			name: "delete_ref",
			invoke: func() error {
				return client.DeleteRef(context.Background(), "freenet", "fred", "tags/v7")
			},
			expectedOperation: githubapi.OperationName("DeleteRef"),
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			invocationError := testCase.invoke()

			var operationError githubapi.OperationError
			require.ErrorAs(testInstance, invocationError, &operationError)
			require.Equal(testInstance, testCase.expectedOperation, operationError.Operation)

			var errorResponse *github.ErrorResponse
			require.True(testInstance, errors.As(invocationError, &errorResponse))
			require.Equal(testInstance, http.StatusNotFound, errorResponse.Response.StatusCode)
		})
	}
}

func TestNewClientValidatesOptions(testInstance *testing.T) {
	testCases := []struct {
		name          string
		options       githubapi.ClientOptions
		expectedField string
	}{
		{name: "missing_token", options: githubapi.ClientOptions{Token: "  "}, expectedField: "token"},
		{name: "relative_base_url", options: githubapi.ClientOptions{Token: testTokenConstant, BaseURL: "api/v3"}, expectedField: "api_url"},
		{name: "malformed_base_url", options: githubapi.ClientOptions{Token: testTokenConstant, BaseURL: "http://[::1"}, expectedField: "api_url"},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			_, clientError := githubapi.NewClient(testCase.options)
			var inputError githubapi.InvalidInputError
			require.ErrorAs(testInstance, clientError, &inputError)
			require.Equal(testInstance, testCase.expectedField, inputError.FieldName)
		})
	}
}

func TestNewClientBaseURL(testInstance *testing.T) {
	defaultClient, defaultError := githubapi.NewClient(githubapi.ClientOptions{Token: testTokenConstant})
	require.NoError(testInstance, defaultError)
	require.Equal(testInstance, "https://api.github.com/", defaultClient.BaseURL())

	enterpriseClient, enterpriseError := githubapi.NewClient(githubapi.ClientOptions{Token: testTokenConstant, BaseURL: "https://ghe.example.com/api/v3"})
	require.NoError(testInstance, enterpriseError)
	require.Equal(testInstance, "https://ghe.example.com/api/v3/", enterpriseClient.BaseURL())
}
