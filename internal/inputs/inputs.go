package inputs

import (
	"regexp"
	"strings"
	"time"
)

const (
	booleanTrueLiteralConstant = "true"
	repositoryInputKeyConstant = "repository"
)

// Coordinates identify the repository whose releases are pruned.
type Coordinates struct {
	Owner      string
	Repository string
}

// Criteria describes the configured filters for reporting purposes.
type Criteria struct {
	Prefix             string
	Regex              string
	MaxAge             string
	KeepLatestReleases bool
}

// Inputs is the immutable configuration of a single run.
type Inputs struct {
	Owner         string
	Repository    string
	Token         string
	DateCutoff    time.Time
	DeleteTags    bool
	DryRun        bool
	Criteria      Criteria
	NamePredicate *NamePredicate
}

// CheckReleaseName reports whether the release name is eligible for deletion.
// Calls are stateful when group retention is enabled.
func (inputs Inputs) CheckReleaseName(name string) bool {
	return inputs.NamePredicate.Check(name)
}

// Clock supplies the current time.
type Clock func() time.Time

// TokenFallback supplies a credential when the token input is absent.
type TokenFallback func() (string, bool)

// ResolveOptions carries optional collaborators for Resolve.
type ResolveOptions struct {
	Clock         Clock
	TokenFallback TokenFallback
}

// Resolve validates raw inputs and produces the run configuration. It never performs network calls.
func Resolve(source ConfigurationSource, coordinates Coordinates, options ResolveOptions) (Inputs, error) {
	if source == nil {
		source = MapSource{}
	}

	owner := strings.TrimSpace(coordinates.Owner)
	repository := strings.TrimSpace(coordinates.Repository)
	if len(owner) == 0 || len(repository) == 0 {
		return Inputs{}, ConfigurationError{Key: repositoryInputKeyConstant, Cause: ErrRepositoryCoordinatesMissing}
	}

	token, tokenFound := source.LookupInput(KeyToken)
	if !tokenFound && options.TokenFallback != nil {
		token, tokenFound = options.TokenFallback()
	}
	if !tokenFound || len(token) == 0 {
		return Inputs{}, ConfigurationError{Key: KeyToken, Cause: ErrTokenRequired}
	}

	prefix, _ := source.LookupInput(KeyPrefix)
	regexSource, regexFound := source.LookupInput(KeyRegex)
	keepLatestReleases := lookupBoolean(source, KeyKeepLatestReleases)

	var pattern *regexp.Regexp
	if regexFound {
		compiledPattern, compileError := regexp.Compile(regexSource)
		if compileError != nil {
			return Inputs{}, ConfigurationError{Key: KeyRegex, Cause: compileError}
		}
		pattern = compiledPattern
	}

	if keepLatestReleases {
		if pattern == nil {
			return Inputs{}, ConfigurationError{Key: KeyKeepLatestReleases, Cause: ErrRegexRequired}
		}
		if pattern.SubexpIndex(RetentionGroupName) < 0 {
			return Inputs{}, ConfigurationError{Key: KeyRegex, Cause: ErrGroupCaptureMissing}
		}
	}

	maxAge, maxAgeFound := source.LookupInput(KeyMaxAge)
	if !maxAgeFound {
		maxAge = DefaultMaxAge
	}

	now := time.Now
	if options.Clock != nil {
		now = options.Clock
	}

	dateCutoff, cutoffError := ComputeDateCutoff(now(), maxAge)
	if cutoffError != nil {
		return Inputs{}, ConfigurationError{Key: KeyMaxAge, Cause: cutoffError}
	}

	return Inputs{
		Owner:      owner,
		Repository: repository,
		Token:      token,
		DateCutoff: dateCutoff,
		DeleteTags: lookupBoolean(source, KeyDeleteTags),
		DryRun:     lookupBoolean(source, KeyDryRun),
		Criteria: Criteria{
			Prefix:             prefix,
			Regex:              regexSource,
			MaxAge:             maxAge,
			KeepLatestReleases: keepLatestReleases,
		},
		NamePredicate: NewNamePredicate(prefix, pattern, keepLatestReleases),
	}, nil
}

// only the exact literal enables a flag
func lookupBoolean(source ConfigurationSource, key string) bool {
	value, found := source.LookupInput(key)
	return found && value == booleanTrueLiteralConstant
}
