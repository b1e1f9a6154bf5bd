package gitrepo

import (
	"fmt"
	"strings"
)

const (
	sshProtocolPrefixConstant           = "ssh://"
	sshUserDelimiterConstant            = "@"
	sshPathDelimiterConstant            = ":"
	httpsProtocolPrefixConstant         = "https://"
	httpProtocolPrefixConstant          = "http://"
	gitUserPrefixConstant               = "git@"
	pathSeparatorConstant               = "/"
	gitSuffixConstant                   = ".git"
	remoteURLParseErrorTemplateConstant = "%s: %s"
	requiredValueMessageConstant        = "value required"
	invalidRemoteURLMessageConstant     = "invalid remote url"
	invalidCoordinatesMessageConstant   = "expected owner/name or a remote url"
	ownerRepositorySegmentCountConstant = 2
	minimumHTTPSPathComponentsConstant  = 3
)

// RemoteProtocol enumerates supported git remote protocols.
type RemoteProtocol string

// Supported remote protocols.
const (
	RemoteProtocolNone  RemoteProtocol = RemoteProtocol("")
	RemoteProtocolSSH   RemoteProtocol = RemoteProtocol("ssh")
	RemoteProtocolHTTPS RemoteProtocol = RemoteProtocol("https")
)

// RepositoryCoordinates identify a repository by owner and name. Host and
// Protocol are only set when the coordinates came from a remote URL.
type RepositoryCoordinates struct {
	Protocol   RemoteProtocol
	Host       string
	Owner      string
	Repository string
}

// RemoteURLParseError indicates a repository reference could not be parsed.
type RemoteURLParseError struct {
	Input   string
	Message string
}

// Error describes the parse failure.
func (parseError RemoteURLParseError) Error() string {
	return fmt.Sprintf(remoteURLParseErrorTemplateConstant, parseError.Input, parseError.Message)
}

// ParseRepositoryCoordinates accepts "owner/name", "https://host/owner/name(.git)",
// "git@host:owner/name(.git)" or "ssh://git@host/owner/name(.git)".
func ParseRepositoryCoordinates(reference string) (RepositoryCoordinates, error) {
	trimmedReference := strings.TrimSpace(reference)
	if len(trimmedReference) == 0 {
		return RepositoryCoordinates{}, RemoteURLParseError{Input: reference, Message: requiredValueMessageConstant}
	}

	switch {
	case strings.HasPrefix(trimmedReference, sshProtocolPrefixConstant):
		return parseSSHRemote(strings.TrimPrefix(trimmedReference, sshProtocolPrefixConstant))
	case strings.HasPrefix(trimmedReference, gitUserPrefixConstant):
		return parseSSHRemote(trimmedReference)
	case strings.HasPrefix(trimmedReference, httpsProtocolPrefixConstant):
		return parseHTTPSRemote(strings.TrimPrefix(trimmedReference, httpsProtocolPrefixConstant))
	case strings.HasPrefix(trimmedReference, httpProtocolPrefixConstant):
		return parseHTTPSRemote(strings.TrimPrefix(trimmedReference, httpProtocolPrefixConstant))
	}

	owner, repository, splitError := splitOwnerAndRepository(trimmedReference)
	if splitError != nil {
		return RepositoryCoordinates{}, RemoteURLParseError{Input: reference, Message: invalidCoordinatesMessageConstant}
	}
	return RepositoryCoordinates{Protocol: RemoteProtocolNone, Owner: owner, Repository: repository}, nil
}

func parseSSHRemote(remote string) (RepositoryCoordinates, error) {
	userSplitIndex := strings.Index(remote, sshUserDelimiterConstant)
	if userSplitIndex == -1 {
		return RepositoryCoordinates{}, RemoteURLParseError{Input: remote, Message: invalidRemoteURLMessageConstant}
	}
	hostAndPath := remote[userSplitIndex+1:]

	separatorIndex := strings.Index(hostAndPath, sshPathDelimiterConstant)
	if separatorIndex == -1 {
		separatorIndex = strings.Index(hostAndPath, pathSeparatorConstant)
	}
	if separatorIndex <= 0 {
		return RepositoryCoordinates{}, RemoteURLParseError{Input: remote, Message: invalidRemoteURLMessageConstant}
	}

	owner, repository, parseError := splitOwnerAndRepository(hostAndPath[separatorIndex+1:])
	if parseError != nil {
		return RepositoryCoordinates{}, parseError
	}
	return RepositoryCoordinates{Protocol: RemoteProtocolSSH, Host: hostAndPath[:separatorIndex], Owner: owner, Repository: repository}, nil
}

func parseHTTPSRemote(remote string) (RepositoryCoordinates, error) {
	pathComponents := strings.Split(strings.TrimSuffix(remote, pathSeparatorConstant), pathSeparatorConstant)
	if len(pathComponents) != minimumHTTPSPathComponentsConstant || len(pathComponents[0]) == 0 {
		return RepositoryCoordinates{}, RemoteURLParseError{Input: remote, Message: invalidRemoteURLMessageConstant}
	}
	owner, repository, parseError := splitOwnerAndRepository(strings.Join(pathComponents[1:], pathSeparatorConstant))
	if parseError != nil {
		return RepositoryCoordinates{}, parseError
	}
	return RepositoryCoordinates{Protocol: RemoteProtocolHTTPS, Host: pathComponents[0], Owner: owner, Repository: repository}, nil
}

func splitOwnerAndRepository(path string) (string, string, error) {
	segments := strings.Split(path, pathSeparatorConstant)
	if len(segments) != ownerRepositorySegmentCountConstant || len(segments[0]) == 0 {
		return "", "", RemoteURLParseError{Input: path, Message: invalidRemoteURLMessageConstant}
	}
	repository := strings.TrimSuffix(segments[1], gitSuffixConstant)
	if len(repository) == 0 {
		return "", "", RemoteURLParseError{Input: path, Message: invalidRemoteURLMessageConstant}
	}
	return segments[0], repository, nil
}
