package inputs

import (
	"os"
	"strings"
)

// Input keys consumed by Resolve.
const (
	KeyToken              = "token"
	KeyPrefix             = "prefix"
	KeyRegex              = "regex"
	KeyMaxAge             = "max-age"
	KeyDeleteTags         = "delete-tags"
	KeyKeepLatestReleases = "keep-latest-releases"
	KeyDryRun             = "dry-run"
)

const (
	actionsInputEnvironmentPrefixConstant = "INPUT_"
	actionsInputSpaceConstant             = " "
	actionsInputSpaceReplacementConstant  = "_"
)

// ConfigurationSource looks up raw string inputs by key. Absent or empty values mean "not provided".
type ConfigurationSource interface {
	LookupInput(key string) (string, bool)
}

// EnvironmentLookup obtains an environment variable value.
type EnvironmentLookup func(key string) (string, bool)

// MapSource serves inputs from an in-memory map.
type MapSource map[string]string

// LookupInput implements ConfigurationSource.
func (source MapSource) LookupInput(key string) (string, bool) {
	if source == nil {
		return "", false
	}
	return normalizeInputValue(source[key])
}

// ChainSource consults each source in order and returns the first provided value.
type ChainSource []ConfigurationSource

// LookupInput implements ConfigurationSource.
func (chain ChainSource) LookupInput(key string) (string, bool) {
	for _, source := range chain {
		if source == nil {
			continue
		}
		if value, found := source.LookupInput(key); found {
			return value, true
		}
	}
	return "", false
}

// ActionsEnvironmentSource reads GitHub Actions inputs exposed as INPUT_<NAME> variables.
type ActionsEnvironmentSource struct {
	lookup EnvironmentLookup
}

// NewActionsEnvironmentSource builds a source over the provided lookup, defaulting to the process environment.
func NewActionsEnvironmentSource(lookup EnvironmentLookup) ActionsEnvironmentSource {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	return ActionsEnvironmentSource{lookup: lookup}
}

// LookupInput implements ConfigurationSource.
func (source ActionsEnvironmentSource) LookupInput(key string) (string, bool) {
	if source.lookup == nil {
		return "", false
	}
	value, found := source.lookup(ActionsInputVariableName(key))
	if !found {
		return "", false
	}
	return normalizeInputValue(value)
}

// ActionsInputVariableName mirrors the runner's naming: spaces become underscores and the name is upper-cased.
func ActionsInputVariableName(key string) string {
	return actionsInputEnvironmentPrefixConstant + strings.ToUpper(strings.ReplaceAll(key, actionsInputSpaceConstant, actionsInputSpaceReplacementConstant))
}

func normalizeInputValue(value string) (string, bool) {
	trimmedValue := strings.TrimSpace(value)
	if len(trimmedValue) == 0 {
		return "", false
	}
	return trimmedValue, true
}
