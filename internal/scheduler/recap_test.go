package scheduler

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

// =============================================================================
// DAILY RECAP TESTS
// =============================================================================

type mockSender struct {
	chat  string
	texts []string
	err   error
}

func (m *mockSender) SendText(ctx context.Context, chatJID, text string) error {
	if m.err != nil {
		return m.err
	}
	m.chat = chatJID
	m.texts = append(m.texts, text)
	return nil
}

type mockBoard struct {
	text   string
	err    error
	userID string
}

func (m *mockBoard) Execute(ctx context.Context, userID string) (string, error) {
	m.userID = userID
	return m.text, m.err
}

func TestRunRecap_SendsLeaderboard(t *testing.T) {
	sender := &mockSender{}
	board := &mockBoard{text: "EcoScan Leaderboard\n1. Alice - 40 pts", userID: "unset"}
	r := NewRecap(sender, board, "123@g.us")

	if err := r.RunRecap(context.Background()); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if sender.chat != "123@g.us" || len(sender.texts) != 1 {
		t.Fatalf("Expected one message to the group, got %d to %q", len(sender.texts), sender.chat)
	}
	if !strings.Contains(sender.texts[0], "Alice") {
		t.Errorf("Recap should carry the leaderboard, got %q", sender.texts[0])
	}
	if board.userID != "" {
		t.Errorf("Recap is not personalised, got user %q", board.userID)
	}
}

func TestRunRecap_Errors(t *testing.T) {
	testCases := []struct {
		name   string
		chat   string
		board  *mockBoard
		sender *mockSender
	}{
		{"no chat", "", &mockBoard{text: "x"}, &mockSender{}},
		{"board fails", "g", &mockBoard{err: errors.New("db down")}, &mockSender{}},
		{"send fails", "g", &mockBoard{text: "x"}, &mockSender{err: errors.New("offline")}},
	}

	for _, tc := range testCases {
		r := NewRecap(tc.sender, tc.board, tc.chat)
		if err := r.RunRecap(context.Background()); err == nil {
			t.Errorf("%s: expected an error", tc.name)
		}
		if len(tc.sender.texts) != 0 {
			t.Errorf("%s: nothing should be sent", tc.name)
		}
	}
}

func TestStartStop(t *testing.T) {
	r := NewRecap(&mockSender{}, &mockBoard{}, "g")

	if err := r.Stop(); err != nil {
		t.Errorf("Stop before Start should be a no-op, got %v", err)
	}
	if err := r.Start(20, 0, time.UTC); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if err := r.Stop(); err != nil {
		t.Errorf("Unexpected error on stop: %v", err)
	}
}
