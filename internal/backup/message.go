package backup

import (
	"fmt"
	"time"

	"github.com/bashhack/gitsave/internal/constants"
)

// CommitMessage renders "<prefix> - YYYY-MM-DD HH:MM:SS" for t in t's location.
func CommitMessage(prefix string, t time.Time) string {
	return prefix + constants.MessageSeparator + t.Format(constants.TimestampLayout)
}

// ForcePushSuggestion is the manual recovery command printed after a failed push.
func ForcePushSuggestion(remote, branch string) string {
	return fmt.Sprintf("git push -f %s %s", remote, branch)
}
