package config

import (
	"bytes"
	"fmt"
	"maps"
	"slices"

	"gopkg.in/yaml.v3"
)

// ToYAML serializes the configuration to YAML format.
// It produces human-readable output with appropriate formatting.
func (c *Config) ToYAML() ([]byte, error) {
	if c == nil {
		return nil, nil
	}

	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(YAMLIndent())

	if err := encoder.Encode(c); err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}

	if err := encoder.Close(); err != nil {
		return nil, fmt.Errorf("close encoder: %w", err)
	}

	return buf.Bytes(), nil
}

// ToYAMLWithHeader serializes the configuration with a header comment.
func (c *Config) ToYAMLWithHeader(header string) ([]byte, error) {
	yamlBytes, err := c.ToYAML()
	if err != nil {
		return nil, err
	}

	if header == "" {
		return yamlBytes, nil
	}

	var buf bytes.Buffer
	buf.WriteString(header)
	if header[len(header)-1] != '\n' {
		buf.WriteByte('\n')
	}
	buf.WriteByte('\n')
	buf.Write(yamlBytes)

	return buf.Bytes(), nil
}

// FromYAML parses a configuration from YAML bytes.
func FromYAML(data []byte) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}

	cfg.initMaps()
	return cfg, nil
}

func (c *Config) initMaps() {
	if c.Aliases == nil {
		c.Aliases = make(map[string]string)
	}
	if c.Grammars == nil {
		c.Grammars = make(map[string][]GrammarRule)
	}
	if c.Styles == nil {
		c.Styles = make(map[string]StyleConfig)
	}
}

// Clone creates a deep copy of the configuration.
func (c *Config) Clone() *Config {
	if c == nil {
		return nil
	}

	// Use YAML round-trip for deep copy of serializable fields
	yamlBytes, err := c.ToYAML()
	if err != nil {
		return c.deepCopy()
	}

	clone, err := FromYAML(yamlBytes)
	if err != nil {
		return c.deepCopy()
	}

	c.copyCLIFields(clone)

	return clone
}

// copyCLIFields copies CLI-only fields (yaml:"-") to the target config.
func (c *Config) copyCLIFields(target *Config) {
	target.Format = c.Format
	target.Jobs = c.Jobs
	target.Color = c.Color
}

// deepCopy creates a manual deep copy of the configuration.
// This is used as a fallback when YAML round-trip fails.
func (c *Config) deepCopy() *Config {
	clone := &Config{
		Separator:       c.Separator,
		LanguageKey:     c.LanguageKey,
		BlockTypes:      slices.Clone(c.BlockTypes),
		DefaultLanguage: c.DefaultLanguage,
		DetectLanguage:  c.DetectLanguage,
		Flavor:          c.Flavor,
		Aliases:         maps.Clone(c.Aliases),
		Styles:          maps.Clone(c.Styles),
		Ignore:          slices.Clone(c.Ignore),
	}

	if c.Grammars != nil {
		clone.Grammars = make(map[string][]GrammarRule, len(c.Grammars))
		for name, rules := range c.Grammars {
			clone.Grammars[name] = slices.Clone(rules)
		}
	}

	c.copyCLIFields(clone)
	clone.initMaps()

	return clone
}

// YAMLIndent returns the default YAML indentation.
func YAMLIndent() int {
	return 2
}
