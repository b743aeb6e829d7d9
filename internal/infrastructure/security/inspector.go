package security

import (
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
	"mvdan.cc/sh/v3/syntax"

	rootassets "github.com/doeshing/plz-go/assets"
	"github.com/doeshing/plz-go/internal/domain"
	"github.com/doeshing/plz-go/internal/pkg/filesystem"
	"github.com/doeshing/plz-go/internal/ports"
)

// Inspector implements ports.CommandInspector. It checks that generated code
// parses as bash and flags known dangerous patterns. Findings are advisory.
type Inspector struct {
	patterns []compiledPattern
}

type compiledPattern struct {
	re   *regexp.Regexp
	rule DangerPattern
}

// DangerPattern describes a regex-based rule.
type DangerPattern struct {
	Pattern string `yaml:"pattern"`
	Level   string `yaml:"level"`
	Message string `yaml:"message"`
}

// RulesFile is the YAML schema root.
type RulesFile struct {
	Rules struct {
		DangerPatterns []DangerPattern `yaml:"danger_patterns"`
	} `yaml:"rules"`
}

// NewInspector loads rules from path, or the embedded defaults when path is
// empty or missing.
func NewInspector(path string) (*Inspector, error) {
	rules, err := loadRules(path)
	if err != nil {
		return nil, err
	}

	compiled := make([]compiledPattern, 0, len(rules.Rules.DangerPatterns))
	for _, pattern := range rules.Rules.DangerPatterns {
		re, err := regexp.Compile(pattern.Pattern)
		if err != nil {
			return nil, fmt.Errorf("rule %q: %w", pattern.Pattern, err)
		}
		compiled = append(compiled, compiledPattern{re: re, rule: pattern})
	}
	return &Inspector{patterns: compiled}, nil
}

// Inspect implements ports.CommandInspector.
func (i *Inspector) Inspect(code string) domain.Inspection {
	var inspection domain.Inspection

	parser := syntax.NewParser(syntax.Variant(syntax.LangBash))
	if _, err := parser.Parse(strings.NewReader(code), ""); err != nil {
		inspection.ParseError = err.Error()
	}

	for _, pattern := range i.patterns {
		if pattern.re.MatchString(code) {
			inspection.Warnings = append(inspection.Warnings, domain.Warning{
				Level:   parseRiskLevel(pattern.rule.Level),
				Message: pattern.rule.Message,
			})
		}
	}
	sort.SliceStable(inspection.Warnings, func(a, b int) bool {
		return severity(inspection.Warnings[a].Level) > severity(inspection.Warnings[b].Level)
	})
	return inspection
}

func loadRules(path string) (RulesFile, error) {
	var rules RulesFile
	data := rootassets.DefaultRulesYAML
	if path != "" {
		if custom, err := os.ReadFile(filesystem.ExpandPath(path)); err == nil {
			data = custom
		}
	}
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return RulesFile{}, fmt.Errorf("parse rules: %w", err)
	}
	if len(rules.Rules.DangerPatterns) == 0 {
		if err := yaml.Unmarshal(rootassets.DefaultRulesYAML, &rules); err != nil {
			return RulesFile{}, fmt.Errorf("parse default rules: %w", err)
		}
	}
	return rules, nil
}

func parseRiskLevel(value string) domain.RiskLevel {
	switch strings.ToLower(value) {
	case "medium":
		return domain.RiskMedium
	case "high":
		return domain.RiskHigh
	case "critical":
		return domain.RiskCritical
	default:
		return domain.RiskLow
	}
}

func severity(level domain.RiskLevel) int {
	switch level {
	case domain.RiskCritical:
		return 3
	case domain.RiskHigh:
		return 2
	case domain.RiskMedium:
		return 1
	default:
		return 0
	}
}

var _ ports.CommandInspector = (*Inspector)(nil)
