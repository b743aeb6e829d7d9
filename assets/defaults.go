package assets

import (
	_ "embed"
)

// DefaultRulesYAML contains the embedded danger patterns used by the command inspector.
//
//go:embed defaults/rules.yaml
var DefaultRulesYAML []byte
