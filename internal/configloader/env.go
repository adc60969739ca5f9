package configloader

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/yaklabco/codedeco/pkg/config"
)

// envVarPrefix is the prefix for all codedeco environment variables.
const envVarPrefix = "CODEDECO_"

// envFieldType represents the type of a configuration field.
type envFieldType int

const (
	envTypeString envFieldType = iota
	envTypeBool
	envTypeInt
	envTypeSlice
)

// envMapping defines environment variable to config field mappings.
type envMapping struct {
	field string
	typ   envFieldType
	usage string
}

// envMappings maps environment variable names (without prefix) to config fields.
//
//nolint:gochecknoglobals // Read-only lookup table.
var envMappings = map[string]envMapping{
	"FLAVOR":           {field: "flavor", typ: envTypeString, usage: "Markdown flavor: commonmark or gfm"},
	"SEPARATOR":        {field: "separator", typ: envTypeString, usage: `Separator joining text nodes, e.g. \n`},
	"LANGUAGE_KEY":     {field: "language_key", typ: envTypeString, usage: "Block data key holding the grammar name"},
	"DEFAULT_LANGUAGE": {field: "default_language", typ: envTypeString, usage: "Language for code blocks without an info string"},
	"DETECT_LANGUAGE":  {field: "detect_language", typ: envTypeBool, usage: "Detect languages of unlabeled code blocks: true or false"},
	"BLOCK_TYPES":      {field: "block_types", typ: envTypeSlice, usage: "Comma-separated list of block types to decorate"},
	"IGNORE":           {field: "ignore", typ: envTypeSlice, usage: "Comma-separated list of ignore patterns"},
	"FORMAT":           {field: "format", typ: envTypeString, usage: "Output format: text, json, ansi, or summary"},
	"JOBS":             {field: "jobs", typ: envTypeInt, usage: "Number of parallel workers (0 = auto)"},
	"COLOR":            {field: "color", typ: envTypeString, usage: "Color mode: auto, always, or never"},
}

// LoadFromEnv applies environment variable overrides to the configuration.
// Environment variables are prefixed with CODEDECO_ (e.g., CODEDECO_FLAVOR).
func LoadFromEnv(cfg *config.Config) error {
	if cfg == nil {
		return nil
	}

	for envSuffix, mapping := range envMappings {
		envVar := envVarPrefix + envSuffix
		value := os.Getenv(envVar)
		if value == "" {
			continue
		}

		if err := applyEnvValue(cfg, mapping, value, envVar); err != nil {
			return err
		}
	}

	return nil
}

// applyEnvValue applies a single environment variable value to the config.
func applyEnvValue(cfg *config.Config, mapping envMapping, value, envVar string) error {
	switch mapping.typ {
	case envTypeString:
		return setStringField(cfg, mapping.field, value)
	case envTypeBool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean for %s: %q (expected true/false/1/0)", envVar, value)
		}
		return setBoolField(cfg, mapping.field, b)
	case envTypeInt:
		i, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid integer for %s: %q", envVar, value)
		}
		return setIntField(cfg, mapping.field, i)
	case envTypeSlice:
		return setSliceField(cfg, mapping.field, parseSliceValue(value))
	default:
		return fmt.Errorf("unknown field type for %s", envVar)
	}
}

// parseSliceValue parses a comma-separated string into a slice.
// Each element is trimmed of whitespace.
func parseSliceValue(value string) []string {
	if value == "" {
		return nil
	}

	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

// setStringField sets a string field on the config by field path.
func setStringField(cfg *config.Config, field, value string) error {
	switch field {
	case "flavor":
		cfg.Flavor = config.Flavor(value)
	case "separator":
		cfg.Separator = value
	case "language_key":
		cfg.LanguageKey = value
	case "default_language":
		cfg.DefaultLanguage = value
	case "format":
		cfg.Format = config.OutputFormat(value)
	case "color":
		cfg.Color = value
	default:
		return fmt.Errorf("unknown string field: %s", field)
	}
	return nil
}

// setBoolField sets a boolean field on the config by field path.
func setBoolField(cfg *config.Config, field string, value bool) error {
	switch field {
	case "detect_language":
		cfg.DetectLanguage = value
	default:
		return fmt.Errorf("unknown boolean field: %s", field)
	}
	return nil
}

// setIntField sets an integer field on the config by field path.
func setIntField(cfg *config.Config, field string, value int) error {
	switch field {
	case "jobs":
		cfg.Jobs = value
	default:
		return fmt.Errorf("unknown integer field: %s", field)
	}
	return nil
}

// setSliceField sets a slice field on the config by field path.
func setSliceField(cfg *config.Config, field string, value []string) error {
	switch field {
	case "ignore":
		cfg.Ignore = value
	case "block_types":
		cfg.BlockTypes = value
	default:
		return fmt.Errorf("unknown slice field: %s", field)
	}
	return nil
}

// GetEnvVarName returns the full environment variable name for a config field.
func GetEnvVarName(field string) string {
	for suffix, mapping := range envMappings {
		if mapping.field == field {
			return envVarPrefix + suffix
		}
	}
	return ""
}

// ListEnvVars returns a list of all supported environment variables with their descriptions.
func ListEnvVars() map[string]string {
	vars := make(map[string]string, len(envMappings))
	for suffix, mapping := range envMappings {
		vars[envVarPrefix+suffix] = mapping.usage
	}
	return vars
}
