package domain

import "context"

// Reporter is the best-effort side channel that notifies the bot owner
// about configuration and delivery failures. Implementations must never
// propagate their own failures to the caller: a broken reporter must not
// mask the error being reported.
type Reporter interface {
	Report(ctx context.Context, text string)
}

// NopReporter discards all reports. Used in tests and when no owner
// notification channel is configured.
type NopReporter struct{}

func (NopReporter) Report(context.Context, string) {}
