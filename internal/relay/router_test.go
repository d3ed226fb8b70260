package relay

import (
	"testing"

	"relaybot/internal/domain"
)

func testTable() []domain.RoutingRule {
	return []domain.RoutingRule{
		{Name: "NoPost", Tags: []string{"#nopost", "#private"}},
		{Name: "Space", Tags: []string{"rocket", "orbit"}, Webhook: "https://discord/space"},
		{Name: "News", Contains: "breaking", Webhook: "https://discord/news"},
		{Name: "Default", Webhook: "https://discord/default"},
	}
}

func TestSelectWebhook_TagMatch(t *testing.T) {
	dec := SelectWebhook("launch rocket", testTable())
	if dec.Drop {
		t.Fatal("expected delivery, got drop")
	}
	if dec.Webhook != "https://discord/space" {
		t.Fatalf("expected space webhook, got %q", dec.Webhook)
	}
}

func TestSelectWebhook_ContainsMatch(t *testing.T) {
	dec := SelectWebhook("breaking story", testTable())
	if dec.Webhook != "https://discord/news" {
		t.Fatalf("expected news webhook, got %q", dec.Webhook)
	}
}

func TestSelectWebhook_FallsBackToDefault(t *testing.T) {
	dec := SelectWebhook("hello world", testTable())
	if dec.Drop {
		t.Fatal("expected delivery, got drop")
	}
	if dec.Webhook != "https://discord/default" {
		t.Fatalf("expected default webhook, got %q", dec.Webhook)
	}
}

func TestSelectWebhook_NoPostSuppression(t *testing.T) {
	dec := SelectWebhook("rocket launch #nopost", testTable())
	if !dec.Drop {
		t.Fatal("NoPost tag should suppress the post even when other rules match")
	}
	if dec.NoDefault {
		t.Fatal("suppression is a normal drop, not a config error")
	}
}

func TestSelectWebhook_NoPostAbsent_NeverSuppresses(t *testing.T) {
	table := []domain.RoutingRule{
		{Name: "Default", Webhook: "https://discord/default"},
	}
	dec := SelectWebhook("#nopost anything", table)
	if dec.Drop {
		t.Fatal("without a NoPost rule nothing should be suppressed")
	}
}

func TestSelectWebhook_FirstMatchWins(t *testing.T) {
	table := []domain.RoutingRule{
		{Name: "A", Tags: []string{"word"}, Webhook: "https://discord/a"},
		{Name: "B", Tags: []string{"word"}, Webhook: "https://discord/b"},
	}
	dec := SelectWebhook("a word", table)
	if dec.Webhook != "https://discord/a" {
		t.Fatalf("first matching rule should win, got %q", dec.Webhook)
	}
}

func TestSelectWebhook_ReservedNamesSkipped(t *testing.T) {
	table := []domain.RoutingRule{
		{Name: "Default", Tags: []string{"word"}, Webhook: "https://discord/default"},
		{Name: "A", Tags: []string{"word"}, Webhook: "https://discord/a"},
	}
	// Default matches by tag but is reserved; A must win the scan.
	dec := SelectWebhook("a word", table)
	if dec.Webhook != "https://discord/a" {
		t.Fatalf("reserved rules must not join first-match scanning, got %q", dec.Webhook)
	}
}

func TestSelectWebhook_NoDefault(t *testing.T) {
	table := []domain.RoutingRule{
		{Name: "Space", Tags: []string{"rocket"}, Webhook: "https://discord/space"},
	}
	dec := SelectWebhook("hello world", table)
	if !dec.Drop || !dec.NoDefault {
		t.Fatalf("expected NoDefault drop, got %+v", dec)
	}
}

func TestSelectWebhook_EmptyDefaultWebhook(t *testing.T) {
	table := []domain.RoutingRule{
		{Name: "Default"},
	}
	dec := SelectWebhook("hello", table)
	if !dec.Drop || !dec.NoDefault {
		t.Fatalf("empty Default webhook is a config error, got %+v", dec)
	}
}

func TestSelectWebhook_EmptyTriggersNeverMatch(t *testing.T) {
	table := []domain.RoutingRule{
		{Name: "Empty", Tags: []string{""}, Contains: "", Webhook: "https://discord/empty"},
		{Name: "Default", Webhook: "https://discord/default"},
	}
	dec := SelectWebhook("anything at all", table)
	if dec.Webhook != "https://discord/empty" {
		// Empty tag and empty contains are treated as absent.
		if dec.Webhook != "https://discord/default" {
			t.Fatalf("expected default, got %q", dec.Webhook)
		}
		return
	}
	t.Fatal("empty substring triggers must never match")
}

func TestSelectWebhook_CaseSensitive(t *testing.T) {
	table := []domain.RoutingRule{
		{Name: "Space", Tags: []string{"Rocket"}, Webhook: "https://discord/space"},
		{Name: "Default", Webhook: "https://discord/default"},
	}
	dec := SelectWebhook("launch rocket", table)
	if dec.Webhook != "https://discord/default" {
		t.Fatalf("matching must be case-sensitive, got %q", dec.Webhook)
	}
}

func TestSelectWebhook_EmptyNoPostTags(t *testing.T) {
	table := []domain.RoutingRule{
		{Name: "NoPost", Tags: []string{""}},
		{Name: "Default", Webhook: "https://discord/default"},
	}
	dec := SelectWebhook("anything", table)
	if dec.Drop {
		t.Fatal("empty NoPost tag must not suppress everything")
	}
}

func TestSelectWebhook_EmptyTable(t *testing.T) {
	dec := SelectWebhook("hello", nil)
	if !dec.Drop || !dec.NoDefault {
		t.Fatalf("empty table should drop with NoDefault, got %+v", dec)
	}
}
