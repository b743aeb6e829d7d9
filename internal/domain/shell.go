package domain

import (
	"path/filepath"
	"strings"
)

// ShellKind enumerates the shells plz knows how to record history for.
type ShellKind int

const (
	ShellOther ShellKind = iota
	ShellBash
	ShellZsh
)

// ShellIdentity is the user's login shell as derived from $SHELL.
// Name keeps the raw value for the ShellOther arm.
type ShellIdentity struct {
	Kind ShellKind
	Name string
}

// ParseShell classifies a $SHELL value such as /bin/zsh.
// An empty value yields ShellOther with an empty name.
func ParseShell(path string) ShellIdentity {
	path = strings.TrimSpace(path)
	if path == "" {
		return ShellIdentity{Kind: ShellOther}
	}
	name := filepath.Base(path)
	switch name {
	case "bash":
		return ShellIdentity{Kind: ShellBash, Name: name}
	case "zsh":
		return ShellIdentity{Kind: ShellZsh, Name: name}
	default:
		return ShellIdentity{Kind: ShellOther, Name: name}
	}
}

// Other builds the unsupported arm explicitly.
func Other(name string) ShellIdentity {
	return ShellIdentity{Kind: ShellOther, Name: name}
}

// HistoryFile returns the history file name relative to $HOME, or "" when
// the shell is not supported.
func (s ShellIdentity) HistoryFile() string {
	switch s.Kind {
	case ShellBash:
		return ".bash_history"
	case ShellZsh:
		return ".zsh_history"
	default:
		return ""
	}
}

func (s ShellIdentity) String() string {
	if s.Name == "" {
		return "unknown"
	}
	return s.Name
}
