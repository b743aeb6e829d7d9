package ai

import (
	"fmt"
	"strings"

	"github.com/doeshing/plz-go/internal/domain"
)

// BuildPrompt frames the task as the header of a bash script so the model
// continues with the script body until the closing fence.
func BuildPrompt(description string, os domain.OSHint) string {
	return fmt.Sprintf("%s%s:\n%s\n", strings.TrimSpace(description), osHint(os), scriptOpening())
}

// scriptOpening is the opening fence followed by the shebang line.
func scriptOpening() string {
	return domain.FenceMarker + domain.FenceLanguage + "\n" + domain.Shebang
}

func osHint(os domain.OSHint) string {
	switch os {
	case domain.OSMac, domain.OSLinux:
		return fmt.Sprintf(" (on %s)", os)
	default:
		return ""
	}
}
