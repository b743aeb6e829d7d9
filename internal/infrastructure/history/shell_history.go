package history

import (
	"os"
	"path/filepath"

	"github.com/doeshing/plz-go/internal/domain"
	"github.com/doeshing/plz-go/internal/ports"
)

// ShellRecorder appends executed commands to the user's shell history file.
type ShellRecorder struct {
	home   string
	logger ports.Logger
}

// NewShellRecorder builds a recorder rooted at home (the user's home
// directory when empty). If no home directory can be resolved the recorder
// does nothing.
func NewShellRecorder(home string, logger ports.Logger) *ShellRecorder {
	if home == "" {
		if resolved, err := os.UserHomeDir(); err == nil {
			home = resolved
		}
	}
	return &ShellRecorder{home: home, logger: logger}
}

// PathFor returns the history file for shell, or "" when the shell is
// unsupported or there is no home directory.
func (r *ShellRecorder) PathFor(shell domain.ShellIdentity) string {
	name := shell.HistoryFile()
	if name == "" || r.home == "" {
		return ""
	}
	return filepath.Join(r.home, name)
}

// Record implements ports.HistoryRecorder. The file is never created; all
// errors are dropped.
func (r *ShellRecorder) Record(shell domain.ShellIdentity, code string) {
	path := r.PathFor(shell)
	if path == "" {
		r.debug("history recording skipped", map[string]interface{}{"shell": shell.String()})
		return
	}

	file, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0)
	if err != nil {
		r.debug("history file not writable", map[string]interface{}{"path": path, "error": err.Error()})
		return
	}
	defer file.Close()

	if _, err := file.WriteString(code + "\n"); err != nil {
		r.debug("history write failed", map[string]interface{}{"path": path, "error": err.Error()})
	}
}

func (r *ShellRecorder) debug(msg string, fields map[string]interface{}) {
	if r.logger != nil {
		r.logger.Debug(msg, fields)
	}
}

var _ ports.HistoryRecorder = (*ShellRecorder)(nil)
