package configloader

import (
	"slices"

	"github.com/yaklabco/parenfmt/pkg/config"
)

// merge combines two configurations, with override taking precedence over base.
// It is used for the CLI layer, where only flags the user set are non-zero:
//   - Scalar values: override overwrites base if override is non-zero
//   - Booleans: only true in override has an effect
//   - Slices: override replaces base entirely if override is non-nil
func merge(base, override *config.Config) *config.Config {
	if base == nil {
		return override
	}
	if override == nil {
		return base
	}

	result := base.Clone()

	if override.IndentWidth != 0 {
		result.IndentWidth = override.IndentWidth
	}
	if override.Format != "" {
		result.Format = override.Format
	}
	if override.Jobs != 0 {
		result.Jobs = override.Jobs
	}
	if override.Backups.Mode != "" {
		result.Backups.Mode = override.Backups.Mode
	}
	if override.Cache.Path != "" {
		result.Cache.Path = override.Cache.Path
	}

	// Booleans can only be switched on from this layer. Turning a feature
	// off goes through the No* fields.
	if override.UseTabs {
		result.UseTabs = true
	}
	if override.Markdown {
		result.Markdown = true
	}
	if override.FollowSymlinks {
		result.FollowSymlinks = true
	}
	if override.Write {
		result.Write = true
	}
	if override.Check {
		result.Check = true
	}
	if override.DryRun {
		result.DryRun = true
	}
	if override.NoBackups {
		result.NoBackups = true
	}
	if override.NoCache {
		result.NoCache = true
	}

	if override.Extensions != nil {
		result.Extensions = slices.Clone(override.Extensions)
	}
	if override.Languages != nil {
		result.Languages = slices.Clone(override.Languages)
	}
	if override.Ignore != nil {
		result.Ignore = slices.Clone(override.Ignore)
	}

	return result
}

// MergeAll merges multiple configurations in order, with later configs taking precedence.
func MergeAll(configs ...*config.Config) *config.Config {
	if len(configs) == 0 {
		return nil
	}

	result := configs[0]
	for i := 1; i < len(configs); i++ {
		result = merge(result, configs[i])
	}
	return result
}
