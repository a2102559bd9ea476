// Package history implements selection mode: the user narrows the report to
// chosen repositories, branches, and commits, either interactively or with
// explicit comma-list arguments.
package history

import "strings"

const (
	configurationAssumeYesKeyConstant = "assume_yes"
	configurationLimitKeyConstant     = "limit"
	configurationExcludeKeyConstant   = "exclude"
	configurationStdoutKeyConstant    = "stdout"
	configurationQuietKeyConstant     = "quiet"

	defaultCommitLimitConstant = 6
)

// CommandConfiguration captures configurable history behavior.
type CommandConfiguration struct {
	AssumeYes        bool   `mapstructure:"assume_yes"`
	CommitLimit      int    `mapstructure:"limit"`
	ExclusionPattern string `mapstructure:"exclude"`
	PrintToStdout    bool   `mapstructure:"stdout"`
	Quiet            bool   `mapstructure:"quiet"`
}

// DefaultCommandConfiguration returns baseline history settings.
func DefaultCommandConfiguration() CommandConfiguration {
	return CommandConfiguration{CommitLimit: defaultCommitLimitConstant}
}

// Sanitize normalizes configuration values, restoring the default commit
// limit when the configured one is not positive.
func (configuration CommandConfiguration) Sanitize() CommandConfiguration {
	sanitized := configuration
	sanitized.ExclusionPattern = strings.TrimSpace(configuration.ExclusionPattern)
	if sanitized.CommitLimit <= 0 {
		sanitized.CommitLimit = defaultCommitLimitConstant
	}
	return sanitized
}

// DefaultConfigurationValues produces Viper defaults for the history command.
func DefaultConfigurationValues(rootKey string) map[string]any {
	defaults := DefaultCommandConfiguration()
	return map[string]any{
		rootKey + "." + configurationAssumeYesKeyConstant: defaults.AssumeYes,
		rootKey + "." + configurationLimitKeyConstant:     defaults.CommitLimit,
		rootKey + "." + configurationExcludeKeyConstant:   defaults.ExclusionPattern,
		rootKey + "." + configurationStdoutKeyConstant:    defaults.PrintToStdout,
		rootKey + "." + configurationQuietKeyConstant:     defaults.Quiet,
	}
}
