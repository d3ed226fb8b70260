package domain

import "context"

// OwnerChatIDKey is the KV key holding the owner's Telegram chat ID.
const OwnerChatIDKey = "OWNER_CHAT_ID"

// KVStore is the durable key/value store backing owner identity lookup.
// Get returns an empty string (no error) for a missing key.
type KVStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Close() error
}
