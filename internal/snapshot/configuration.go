// Package snapshot implements live-diff mode: every change category for
// every discovered repository, retrieved unconditionally and aggregated
// into one report.
package snapshot

import "strings"

const (
	configurationAssumeYesKeyConstant = "assume_yes"
	configurationExcludeKeyConstant   = "exclude"
	configurationStdoutKeyConstant    = "stdout"
	configurationQuietKeyConstant     = "quiet"
)

// CommandConfiguration captures configurable snapshot behavior.
type CommandConfiguration struct {
	AssumeYes        bool   `mapstructure:"assume_yes"`
	ExclusionPattern string `mapstructure:"exclude"`
	PrintToStdout    bool   `mapstructure:"stdout"`
	Quiet            bool   `mapstructure:"quiet"`
}

// DefaultCommandConfiguration returns baseline snapshot settings.
func DefaultCommandConfiguration() CommandConfiguration {
	return CommandConfiguration{}
}

// Sanitize normalizes configuration values.
func (configuration CommandConfiguration) Sanitize() CommandConfiguration {
	sanitized := configuration
	sanitized.ExclusionPattern = strings.TrimSpace(configuration.ExclusionPattern)
	return sanitized
}

// DefaultConfigurationValues produces Viper defaults for the snapshot command.
func DefaultConfigurationValues(rootKey string) map[string]any {
	defaults := DefaultCommandConfiguration()
	return map[string]any{
		rootKey + "." + configurationAssumeYesKeyConstant: defaults.AssumeYes,
		rootKey + "." + configurationExcludeKeyConstant:   defaults.ExclusionPattern,
		rootKey + "." + configurationStdoutKeyConstant:    defaults.PrintToStdout,
		rootKey + "." + configurationQuietKeyConstant:     defaults.Quiet,
	}
}
