// Package rules loads rule tables from YAML into validated immutable
// values. The embedded classic table is always available; files loaded
// from disk let matches play under a variant without a rebuild.
package rules

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/louisbranch/farkle-engine/internal/farkle"
)

//go:embed classic.yaml
var classicYAML []byte

// ruleFile is the on-disk shape of a rule table.
type ruleFile struct {
	Name        string         `yaml:"name"`
	MaxScore    int            `yaml:"max_score"`
	DiceCount   int            `yaml:"dice_count"`
	Scores      map[string]int `yaml:"scores"`
	Multipliers map[int]int    `yaml:"multipliers"`
}

// Classic returns the embedded default table.
func Classic() (farkle.Rules, error) {
	return Parse(classicYAML)
}

// LoadFile reads, parses, and validates a rule table from disk.
func LoadFile(path string) (farkle.Rules, error) {
	if strings.TrimSpace(path) == "" {
		return farkle.Rules{}, fmt.Errorf("rules path is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return farkle.Rules{}, fmt.Errorf("read rules file: %w", err)
	}
	table, err := Parse(data)
	if err != nil {
		return farkle.Rules{}, fmt.Errorf("rules file %s: %w", path, err)
	}
	return table, nil
}

// Load resolves a table by name or path: the empty string or "classic"
// yields the embedded default, anything else is read as a file path.
func Load(nameOrPath string) (farkle.Rules, error) {
	trimmed := strings.TrimSpace(nameOrPath)
	if trimmed == "" || trimmed == "classic" {
		return Classic()
	}
	return LoadFile(trimmed)
}

// LoaderWithDefault returns a loader that resolves empty table names to
// the given fallback before loading.
func LoaderWithDefault(fallback string) func(string) (farkle.Rules, error) {
	fallback = strings.TrimSpace(fallback)
	return func(nameOrPath string) (farkle.Rules, error) {
		if strings.TrimSpace(nameOrPath) == "" {
			nameOrPath = fallback
		}
		return Load(nameOrPath)
	}
}

// Parse decodes YAML into a validated rule table. Omitted fields fall
// back to the classic values so variant files only list what changes.
func Parse(data []byte) (farkle.Rules, error) {
	var file ruleFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return farkle.Rules{}, fmt.Errorf("parse rules yaml: %w", err)
	}

	table := farkle.DefaultRules()
	if file.Name != "" {
		table.Name = file.Name
	}
	if file.MaxScore != 0 {
		table.MaxScore = file.MaxScore
	}
	if file.DiceCount != 0 {
		table.DiceCount = file.DiceCount
	}
	for name, score := range file.Scores {
		pattern := farkle.Pattern(name)
		if _, ok := table.Scores[pattern]; !ok {
			return farkle.Rules{}, fmt.Errorf("unknown scoring pattern %q", name)
		}
		table.Scores[pattern] = score
	}
	for size, factor := range file.Multipliers {
		table.Multipliers[size] = factor
	}

	if err := table.Validate(); err != nil {
		return farkle.Rules{}, err
	}
	return table, nil
}
