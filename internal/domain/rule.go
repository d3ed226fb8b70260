package domain

// Reserved rule names with special routing semantics. They never take
// part in normal first-match scanning.
const (
	RuleNoPost  = "NoPost"
	RuleDefault = "Default"
)

// RoutingRule maps a named matching condition to a destination Discord
// webhook. The routing table is an ordered sequence of rules; the first
// matching non-reserved rule wins.
type RoutingRule struct {
	Name     string   `json:"name"`
	Tags     []string `json:"tags,omitempty"`
	Contains string   `json:"contains,omitempty"`
	Webhook  string   `json:"webhook,omitempty"`
}

// EmbedStyle customizes the link-preview embed attached to relayed
// posts. All fields are optional; empty values fall back to built-in
// defaults. Color strings are hex RGB with an optional leading "#".
type EmbedStyle struct {
	TelegramTitle string `json:"telegramTitle,omitempty"`
	TelegramColor string `json:"telegramColor,omitempty"`
	VideoTitle    string `json:"videoTitle,omitempty"`
	VideoColor    string `json:"videoColor,omitempty"`
}

// Attachment is a binary file forwarded alongside a relayed post.
type Attachment struct {
	Data     []byte
	Filename string
	MIME     string
}
