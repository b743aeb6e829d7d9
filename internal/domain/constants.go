package domain

// File permissions constants
const (
	// DirectoryPermissions is the default permission for directories (rwxr-xr-x)
	DirectoryPermissions = 0o755
	// FilePermissions is the permission for journal files (rw-r--r--)
	FilePermissions = 0o644
)

// Completion endpoint defaults
const (
	DefaultAPIBase   = "https://api.openai.com/v1"
	DefaultModel     = "gpt-3.5-turbo-instruct"
	DefaultMaxTokens = 1000

	// APIKeyEnvVar holds the bearer credential.
	APIKeyEnvVar = "OPENAI_API_KEY"
	// APIBaseEnvVar overrides the endpoint base URL.
	APIBaseEnvVar = "OPENAI_API_BASE"
	// ShellEnvVar identifies the login shell.
	ShellEnvVar = "SHELL"
)

// Prompt framing
const (
	// FenceMarker opens and closes the expected script block.
	FenceMarker = "```"
	// FenceLanguage tags the opening fence.
	FenceLanguage = "bash"
	// Shebang is the first line of the generated script.
	Shebang = "#!/bin/bash"
)

// Execution defaults
const (
	DefaultInterpreter = "bash"
)

// Journal constants
const (
	// DefaultJournalLimit is the default number of runs listed by --journal
	DefaultJournalLimit = 20
)
