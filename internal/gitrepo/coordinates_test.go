package gitrepo_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/freenet-actions/delete-old-releases/internal/gitrepo"
)

func TestParseRepositoryCoordinates(testInstance *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected gitrepo.RepositoryCoordinates
	}{
		{
			name:     "owner_and_name",
			input:    "freenet/fred",
			expected: gitrepo.RepositoryCoordinates{Owner: "freenet", Repository: "fred"},
		},
		{
			name:     "padded_owner_and_name",
			input:    "  freenet/fred  ",
			expected: gitrepo.RepositoryCoordinates{Owner: "freenet", Repository: "fred"},
		},
		{
			name:     "https_remote",
			input:    "https://github.com/freenet/fred.git",
			expected: gitrepo.RepositoryCoordinates{Protocol: gitrepo.RemoteProtocolHTTPS, Host: "github.com", Owner: "freenet", Repository: "fred"},
		},
		{
			name:     "https_remote_without_suffix",
			input:    "https://ghe.example.com/freenet/fred/",
			expected: gitrepo.RepositoryCoordinates{Protocol: gitrepo.RemoteProtocolHTTPS, Host: "ghe.example.com", Owner: "freenet", Repository: "fred"},
		},
		{
			name:     "scp_style_ssh_remote",
			input:    "git@github.com:freenet/fred.git",
			expected: gitrepo.RepositoryCoordinates{Protocol: gitrepo.RemoteProtocolSSH, Host: "github.com", Owner: "freenet", Repository: "fred"},
		},
		{
			name:     "ssh_url_remote",
			input:    "ssh://git@github.com/freenet/fred.git",
			expected: gitrepo.RepositoryCoordinates{Protocol: gitrepo.RemoteProtocolSSH, Host: "github.com", Owner: "freenet", Repository: "fred"},
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			coordinates, parseError := gitrepo.ParseRepositoryCoordinates(testCase.input)
			require.NoError(testInstance, parseError)
			require.Equal(testInstance, testCase.expected, coordinates)
		})
	}
}

func TestParseRepositoryCoordinatesRejectsInvalidInput(testInstance *testing.T) {
	invalidInputs := []string{
		"",
		"fred",
		"freenet/fred/extra",
		"/fred",
		"freenet/.git",
		"https://github.com/freenet",
		"git@github.com",
		"ssh://github.com/freenet/fred",
	}

	for _, invalidInput := range invalidInputs {
		testInstance.Run(invalidInput, func(testInstance *testing.T) {
			_, parseError := gitrepo.ParseRepositoryCoordinates(invalidInput)
			var remoteError gitrepo.RemoteURLParseError
			require.ErrorAs(testInstance, parseError, &remoteError)
		})
	}
}
