package domain

// Config mirrors ~/.plz/config.yaml. Every field is optional.
type Config struct {
	APIBase     string          `yaml:"api_base"`
	Model       string          `yaml:"model"`
	MaxTokens   int             `yaml:"max_tokens"`
	Timeout     string          `yaml:"timeout"`
	Interpreter string          `yaml:"interpreter"`
	Journal     JournalSettings `yaml:"journal"`
	Inspect     InspectSettings `yaml:"inspect"`
}

// JournalSettings controls the local run journal.
type JournalSettings struct {
	Enabled *bool  `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// InspectSettings points at an optional danger-pattern rules file.
type InspectSettings struct {
	RulesFile string `yaml:"rules_file"`
}

// Environment holds values resolved from the process environment.
type Environment struct {
	APIKey  string
	APIBase string
	Shell   ShellIdentity
}
