package telegram

import (
	"context"
	"errors"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type fakeSender struct {
	sent []tgbotapi.MessageConfig
	err  error
}

func (s *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	if msg, ok := c.(tgbotapi.MessageConfig); ok {
		s.sent = append(s.sent, msg)
	}
	return tgbotapi.Message{}, s.err
}

type fakeKV struct {
	values map[string]string
	getErr error
}

func (kv *fakeKV) Get(_ context.Context, key string) (string, error) {
	if kv.getErr != nil {
		return "", kv.getErr
	}
	return kv.values[key], nil
}

func (kv *fakeKV) Set(_ context.Context, key, value string) error {
	if kv.values == nil {
		kv.values = map[string]string{}
	}
	kv.values[key] = value
	return nil
}

func (kv *fakeKV) Close() error { return nil }

func TestReport_SendsToOwner(t *testing.T) {
	sender := &fakeSender{}
	kv := &fakeKV{values: map[string]string{"OWNER_CHAT_ID": "123456"}}
	n := NewNotifier(NotifierConfig{Bot: sender, Store: kv, Logger: testLogger()})

	n.Report(context.Background(), "Critical error: something broke")

	if len(sender.sent) != 1 {
		t.Fatalf("expected one message, got %d", len(sender.sent))
	}
	if sender.sent[0].ChatID != 123456 {
		t.Fatalf("unexpected chat ID %d", sender.sent[0].ChatID)
	}
	if sender.sent[0].Text != "Critical error: something broke" {
		t.Fatalf("unexpected text %q", sender.sent[0].Text)
	}
}

func TestReport_NoOwnerRegistered(t *testing.T) {
	sender := &fakeSender{}
	n := NewNotifier(NotifierConfig{Bot: sender, Store: &fakeKV{}, Logger: testLogger()})

	n.Report(context.Background(), "anything")

	if len(sender.sent) != 0 {
		t.Fatal("no message may be sent without a registered owner")
	}
}

func TestReport_StoreErrorSwallowed(t *testing.T) {
	sender := &fakeSender{}
	kv := &fakeKV{getErr: errors.New("db locked")}
	n := NewNotifier(NotifierConfig{Bot: sender, Store: kv, Logger: testLogger()})

	// Must not panic or send.
	n.Report(context.Background(), "anything")
	if len(sender.sent) != 0 {
		t.Fatal("store failure must abort the report")
	}
}

func TestReport_NonNumericOwnerSwallowed(t *testing.T) {
	sender := &fakeSender{}
	kv := &fakeKV{values: map[string]string{"OWNER_CHAT_ID": "not-a-number"}}
	n := NewNotifier(NotifierConfig{Bot: sender, Store: kv, Logger: testLogger()})

	n.Report(context.Background(), "anything")
	if len(sender.sent) != 0 {
		t.Fatal("non-numeric owner must abort the report")
	}
}

func TestReport_SendErrorSwallowed(t *testing.T) {
	sender := &fakeSender{err: errors.New("blocked by user")}
	kv := &fakeKV{values: map[string]string{"OWNER_CHAT_ID": "1"}}
	n := NewNotifier(NotifierConfig{Bot: sender, Store: kv, Logger: testLogger()})

	// The reporter never propagates its own failures.
	n.Report(context.Background(), "anything")
}
