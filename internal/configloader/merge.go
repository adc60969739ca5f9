package configloader

import (
	"maps"

	"github.com/yaklabco/codedeco/pkg/config"
)

// merge combines two configurations, with override taking precedence over base.
// The merge follows these rules:
//   - Scalar values: override overwrites base if override is non-zero
//   - Maps: deep merge, with override's values taking precedence
//   - Slices: override replaces base entirely if override is non-nil
//   - Nil/unset values in override do not override values in base
func merge(base, override *config.Config) *config.Config {
	if base == nil {
		return override
	}
	if override == nil {
		return base
	}

	result := *base

	// Scalars: override overwrites base if set (non-zero value)
	if override.Separator != "" {
		result.Separator = override.Separator
	}
	if override.LanguageKey != "" {
		result.LanguageKey = override.LanguageKey
	}
	if override.DefaultLanguage != "" {
		result.DefaultLanguage = override.DefaultLanguage
	}
	if override.Flavor != "" {
		result.Flavor = override.Flavor
	}
	if override.Format != "" {
		result.Format = override.Format
	}
	if override.Jobs != 0 {
		result.Jobs = override.Jobs
	}
	if override.Color != "" {
		result.Color = override.Color
	}

	// false is the zero value, so a later layer can enable detection but
	// not disable it.
	if override.DetectLanguage {
		result.DetectLanguage = true
	}

	// Maps: deep merge
	result.Aliases = mergeMap(base.Aliases, override.Aliases)
	result.Styles = mergeMap(base.Styles, override.Styles)
	result.Grammars = mergeMap(base.Grammars, override.Grammars)

	// Slices: override replaces base entirely if non-nil
	if override.BlockTypes != nil {
		result.BlockTypes = override.BlockTypes
	}
	if override.Ignore != nil {
		result.Ignore = override.Ignore
	}

	return &result
}

// mergeMap returns a new map holding base's entries overwritten by override's.
// A grammar or style named in override replaces the base entry whole.
func mergeMap[V any](base, override map[string]V) map[string]V {
	if base == nil && override == nil {
		return nil
	}

	result := make(map[string]V, len(base)+len(override))
	maps.Copy(result, base)
	maps.Copy(result, override)
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
