package cli

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yaklabco/codedeco/internal/logging"
	"github.com/yaklabco/codedeco/pkg/config"
	"github.com/yaklabco/codedeco/pkg/runner"
	"github.com/yaklabco/codedeco/pkg/tokenize"
)

const (
	formatJSON = "json"

	sourceRules  = "rules"
	sourceChroma = "chroma"
)

type languagesFlags struct {
	format string
	all    bool
}

// languageInfo represents a grammar in JSON output.
type languageInfo struct {
	Name    string   `json:"name"`
	Source  string   `json:"source"`
	Aliases []string `json:"aliases,omitempty"`
}

func newLanguagesCommand() *cobra.Command {
	flags := &languagesFlags{}

	cmd := &cobra.Command{
		Use:   "languages",
		Short: "List the grammars code blocks can use",
		Long: `List the grammars registered from the configuration: the built-in
chroma grammars, configured rule grammars and the aliases pointing at them.

With --all, every language chroma knows is listed as well. Those grammars
load on first use when a block names them.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runLanguages(cmd, flags)
		},
	}

	cmd.Flags().StringVar(&flags.format, "format", "text", "output format: text, json")
	cmd.Flags().BoolVar(&flags.all, "all", false, "include every language chroma can load")

	return cmd
}

func runLanguages(cmd *cobra.Command, flags *languagesFlags) error {
	if flags.format != "text" && flags.format != formatJSON {
		return fmt.Errorf("%w: invalid format %q: must be text or json", ErrInvalidUsage, flags.format)
	}

	loadResult, _, err := loadConfig(cmd, nil)
	if err != nil {
		return err
	}
	cfg := loadResult.Config

	registry, _, err := runner.NewRegistry(cfg)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrConfig, err)
	}

	infos := collectLanguages(registry, cfg.Grammars, flags.all)

	if flags.format == formatJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if err := enc.Encode(infos); err != nil {
			return fmt.Errorf("encoding languages: %w", err)
		}
		return nil
	}

	logger := logging.NewWithWriter(cmd.OutOrStdout(), "info")
	logger.Info("available languages")
	for _, info := range infos {
		if len(info.Aliases) > 0 {
			logger.Info(info.Name,
				logging.FieldSource, info.Source,
				logging.FieldAliases, strings.Join(info.Aliases, ","),
			)
			continue
		}
		logger.Info(info.Name, logging.FieldSource, info.Source)
	}

	return nil
}

// collectLanguages lists the registry's grammars with their aliases, sorted
// by name. With all set, chroma languages not yet loaded are included.
func collectLanguages(registry *tokenize.Registry, grammars map[string][]config.GrammarRule, all bool) []languageInfo {
	ruleNames := make(map[string]bool, len(grammars))
	for name := range grammars {
		ruleNames[strings.ToLower(strings.TrimSpace(name))] = true
	}

	aliasesOf := make(map[string][]string)
	for alias, target := range registry.Aliases() {
		aliasesOf[target] = append(aliasesOf[target], alias)
	}

	seen := make(map[string]bool)
	var infos []languageInfo
	for _, name := range registry.Languages() {
		source := sourceChroma
		if ruleNames[name] {
			source = sourceRules
		}
		aliases := aliasesOf[name]
		slices.Sort(aliases)
		infos = append(infos, languageInfo{Name: name, Source: source, Aliases: aliases})
		seen[name] = true
	}

	if all {
		for _, name := range tokenize.ChromaLanguages() {
			name = strings.ToLower(name)
			if seen[name] {
				continue
			}
			seen[name] = true
			infos = append(infos, languageInfo{Name: name, Source: sourceChroma})
		}
	}

	slices.SortFunc(infos, func(a, b languageInfo) int {
		return strings.Compare(a.Name, b.Name)
	})
	return infos
}
