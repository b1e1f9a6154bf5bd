package inputs

import (
	"errors"
	"fmt"
)

const (
	configurationErrorTemplateConstant          = "invalid %s input: %s"
	configurationCauseErrorTemplateConstant     = "invalid %s input: %v"
	tokenRequiredMessageConstant                = "a GitHub token is required"
	regexRequiredMessageConstant                = "keep-latest-releases requires a regex"
	groupCaptureMissingMessageConstant          = "regex must contain a capture group named \"group\""
	incompleteMaxAgeMessageConstant             = "max age must be an ISO-8601 duration such as P1W"
	negativeMaxAgeMessageConstant               = "max age must not be negative"
	repositoryCoordinatesMissingMessageConstant = "repository owner and name are required"
)

var (
	// ErrTokenRequired indicates no credential was supplied.
	ErrTokenRequired = errors.New(tokenRequiredMessageConstant)
	// ErrRegexRequired indicates group retention was requested without a regex.
	ErrRegexRequired = errors.New(regexRequiredMessageConstant)
	// ErrGroupCaptureMissing indicates the regex lacks the named group capture.
	ErrGroupCaptureMissing = errors.New(groupCaptureMissingMessageConstant)
	// ErrIncompleteMaxAge indicates the max-age value was not a complete ISO-8601 duration.
	ErrIncompleteMaxAge = errors.New(incompleteMaxAgeMessageConstant)
	// ErrNegativeMaxAge indicates the max-age duration was negative.
	ErrNegativeMaxAge = errors.New(negativeMaxAgeMessageConstant)
	// ErrRepositoryCoordinatesMissing indicates the owner or repository name was empty.
	ErrRepositoryCoordinatesMissing = errors.New(repositoryCoordinatesMissingMessageConstant)
)

// ConfigurationError reports an input that failed validation before any API call.
type ConfigurationError struct {
	Key     string
	Message string
	Cause   error
}

// Error describes the invalid input.
func (configurationError ConfigurationError) Error() string {
	if configurationError.Cause != nil {
		return fmt.Sprintf(configurationCauseErrorTemplateConstant, configurationError.Key, configurationError.Cause)
	}
	return fmt.Sprintf(configurationErrorTemplateConstant, configurationError.Key, configurationError.Message)
}

// Unwrap exposes the underlying cause.
func (configurationError ConfigurationError) Unwrap() error {
	return configurationError.Cause
}
