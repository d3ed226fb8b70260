package relay

import "strings"

// BuildMention returns the leading mention token for the message
// content: a role mention when a role ID is configured, "@everyone"
// when the broadcast flag is truthy, otherwise empty. The role ID
// always wins; the two tokens are never combined.
func BuildMention(roleID, useEveryone string) string {
	if roleID != "" {
		return "<@&" + roleID + ">"
	}
	switch strings.ToLower(useEveryone) {
	case "true", "1":
		return "@everyone"
	}
	return ""
}
