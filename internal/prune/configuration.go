package prune

import (
	"strings"

	"github.com/freenet-actions/delete-old-releases/internal/inputs"
)

const (
	booleanTrueValueConstant           = "true"
	prefixConfigurationKeyConstant     = "prefix"
	regexConfigurationKeyConstant      = "regex"
	maxAgeConfigurationKeyConstant     = "max_age"
	deleteTagsConfigurationKeyConstant = "delete_tags"
	keepLatestConfigurationKeyConstant = "keep_latest_releases"
	dryRunConfigurationKeyConstant     = "dry_run"
	repositoryConfigurationKeyConstant = "repository"
	apiURLConfigurationKeyConstant     = "api_url"
)

// Configuration stores the prune settings read from the configuration file.
// The token is deliberately absent; it comes from inputs or the environment.
type Configuration struct {
	Prefix             string `mapstructure:"prefix"`
	Regex              string `mapstructure:"regex"`
	MaxAge             string `mapstructure:"max_age"`
	DeleteTags         bool   `mapstructure:"delete_tags"`
	KeepLatestReleases bool   `mapstructure:"keep_latest_releases"`
	DryRun             bool   `mapstructure:"dry_run"`
	Repository         string `mapstructure:"repository"`
	APIURL             string `mapstructure:"api_url"`
}

// DefaultConfiguration supplies baseline values for prune configuration.
func DefaultConfiguration() Configuration {
	return Configuration{MaxAge: inputs.DefaultMaxAge}
}

// DefaultConfigurationValues returns viper defaults keyed under the provided section name.
func DefaultConfigurationValues(section string) map[string]any {
	defaults := DefaultConfiguration()
	keyPrefix := ""
	if trimmedSection := strings.TrimSpace(section); len(trimmedSection) > 0 {
		keyPrefix = trimmedSection + "."
	}
	return map[string]any{
		keyPrefix + prefixConfigurationKeyConstant:     defaults.Prefix,
		keyPrefix + regexConfigurationKeyConstant:      defaults.Regex,
		keyPrefix + maxAgeConfigurationKeyConstant:     defaults.MaxAge,
		keyPrefix + deleteTagsConfigurationKeyConstant: defaults.DeleteTags,
		keyPrefix + keepLatestConfigurationKeyConstant: defaults.KeepLatestReleases,
		keyPrefix + dryRunConfigurationKeyConstant:     defaults.DryRun,
		keyPrefix + repositoryConfigurationKeyConstant: defaults.Repository,
		keyPrefix + apiURLConfigurationKeyConstant:     defaults.APIURL,
	}
}

// Sanitize trims surrounding whitespace from configured values.
func (configuration Configuration) Sanitize() Configuration {
	sanitized := configuration
	sanitized.Prefix = strings.TrimSpace(configuration.Prefix)
	sanitized.Regex = strings.TrimSpace(configuration.Regex)
	sanitized.MaxAge = strings.TrimSpace(configuration.MaxAge)
	sanitized.Repository = strings.TrimSpace(configuration.Repository)
	sanitized.APIURL = strings.TrimSpace(configuration.APIURL)
	return sanitized
}

// LookupInput exposes the configuration as the lowest-precedence input source.
// Disabled booleans count as not provided so they never mask other sources.
func (configuration Configuration) LookupInput(key string) (string, bool) {
	switch key {
	case inputs.KeyPrefix:
		return inputs.MapSource{key: configuration.Prefix}.LookupInput(key)
	case inputs.KeyRegex:
		return inputs.MapSource{key: configuration.Regex}.LookupInput(key)
	case inputs.KeyMaxAge:
		return inputs.MapSource{key: configuration.MaxAge}.LookupInput(key)
	case inputs.KeyDeleteTags:
		return booleanInput(configuration.DeleteTags)
	case inputs.KeyKeepLatestReleases:
		return booleanInput(configuration.KeepLatestReleases)
	case inputs.KeyDryRun:
		return booleanInput(configuration.DryRun)
	default:
		return "", false
	}
}

func booleanInput(enabled bool) (string, bool) {
	if !enabled {
		return "", false
	}
	return booleanTrueValueConstant, true
}
