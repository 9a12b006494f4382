package wa

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.mau.fi/whatsmeow/proto/waE2E"
	"go.mau.fi/whatsmeow/types"
	"go.mau.fi/whatsmeow/types/events"
)

// =============================================================================
// RESPONDER TESTS
// =============================================================================

type mockHandler struct {
	reply  string
	err    error
	userID string
	name   string
	msg    string
	calls  int
}

func (m *mockHandler) Execute(ctx context.Context, userID, name, msg string) (string, error) {
	m.calls++
	m.userID, m.name, m.msg = userID, name, msg
	return m.reply, m.err
}

type mockResolver map[string]string

func (m mockResolver) ResolveLIDToPhone(ctx context.Context, lid string) string {
	if pn, ok := m[lid]; ok {
		return pn
	}
	return lid
}

type mockChat struct {
	replies []string
	typing  []bool
}

func (m *mockChat) Reply(ctx context.Context, chat types.JID, text string) error {
	m.replies = append(m.replies, text)
	return nil
}

func (m *mockChat) SetTyping(ctx context.Context, chat types.JID, composing bool) error {
	m.typing = append(m.typing, composing)
	return nil
}

var group = types.NewJID("120363000000000001", types.GroupServer)

func textEvent(sender types.JID, text string) *events.Message {
	evt := &events.Message{Message: &waE2E.Message{Conversation: &text}}
	evt.Info.Chat = group
	evt.Info.Sender = sender
	evt.Info.PushName = "Alice"
	return evt
}

func TestResponder_RepliesWithHandlerOutput(t *testing.T) {
	handler := &mockHandler{reply: "Your points 🌱"}
	chat := &mockChat{}
	r := NewResponder(handler, nil, chat, ReplyOptions{})

	r.Handle(context.Background(), textEvent(types.NewJID("6281234", types.DefaultUserServer), "  #points "))

	if handler.userID != "6281234" || handler.name != "Alice" || handler.msg != "#points" {
		t.Errorf("Unexpected handler input: %+v", handler)
	}
	if len(chat.replies) != 1 || chat.replies[0] != "Your points 🌱" {
		t.Errorf("Expected one reply, got %v", chat.replies)
	}
}

func TestResponder_ExtendedText(t *testing.T) {
	handler := &mockHandler{}
	r := NewResponder(handler, nil, &mockChat{}, ReplyOptions{})

	text := "#help"
	evt := textEvent(types.NewJID("1", types.DefaultUserServer), "")
	evt.Message = &waE2E.Message{ExtendedTextMessage: &waE2E.ExtendedTextMessage{Text: &text}}
	r.Handle(context.Background(), evt)

	if handler.msg != "#help" {
		t.Errorf("Expected #help, got %q", handler.msg)
	}
}

func TestResponder_ResolvesLID(t *testing.T) {
	handler := &mockHandler{}
	resolver := mockResolver{"123456789012345678": "628111"}
	r := NewResponder(handler, resolver, &mockChat{}, ReplyOptions{})

	r.Handle(context.Background(), textEvent(types.NewJID("123456789012345678", types.HiddenUserServer), "#points"))
	if handler.userID != "628111" {
		t.Errorf("Expected LID to resolve to 628111, got %s", handler.userID)
	}

	r.Handle(context.Background(), textEvent(types.NewJID("999999999999999999", types.HiddenUserServer), "#points"))
	if handler.userID != "999999999999999999" {
		t.Errorf("Unknown LID should be kept, got %s", handler.userID)
	}
}

func TestResponder_Ignores(t *testing.T) {
	sender := types.NewJID("1", types.DefaultUserServer)

	otherGroup := textEvent(sender, "#points")
	otherGroup.Info.Chat = types.NewJID("999", types.GroupServer)

	fromMe := textEvent(sender, "#points")
	fromMe.Info.IsFromMe = true

	noText := textEvent(sender, "")
	noText.Message = &waE2E.Message{}

	testCases := map[string]*events.Message{
		"other group": otherGroup,
		"from me":     fromMe,
		"no text":     noText,
		"blank":       textEvent(sender, "   "),
	}

	for name, evt := range testCases {
		handler := &mockHandler{reply: "x"}
		chat := &mockChat{}
		r := NewResponder(handler, nil, chat, ReplyOptions{GroupID: group.String()})
		r.Handle(context.Background(), evt)
		if handler.calls != 0 || len(chat.replies) != 0 {
			t.Errorf("%s: expected to be ignored", name)
		}
	}
}

func TestResponder_NoReplyOnEmptyOrError(t *testing.T) {
	sender := types.NewJID("1", types.DefaultUserServer)
	for _, handler := range []*mockHandler{{reply: ""}, {reply: "x", err: errors.New("db down")}} {
		chat := &mockChat{}
		NewResponder(handler, nil, chat, ReplyOptions{}).Handle(context.Background(), textEvent(sender, "#points"))
		if len(chat.replies) != 0 {
			t.Errorf("Expected no reply, got %v", chat.replies)
		}
	}
}

func TestResponder_DelayWithTyping(t *testing.T) {
	chat := &mockChat{}
	r := NewResponder(&mockHandler{reply: "ok"}, nil, chat, ReplyOptions{
		DelayMin:   time.Second,
		DelayMax:   2 * time.Second,
		ShowTyping: true,
	})
	var slept time.Duration
	r.sleep = func(d time.Duration) { slept = d }

	r.Handle(context.Background(), textEvent(types.NewJID("1", types.DefaultUserServer), "#points"))

	if slept < time.Second || slept > 2*time.Second {
		t.Errorf("Delay %v outside [1s, 2s]", slept)
	}
	if len(chat.typing) != 2 || !chat.typing[0] || chat.typing[1] {
		t.Errorf("Expected composing then paused, got %v", chat.typing)
	}
	if len(chat.replies) != 1 {
		t.Errorf("Expected one reply, got %d", len(chat.replies))
	}
}

func TestResponder_FixedDelayWithoutTyping(t *testing.T) {
	chat := &mockChat{}
	r := NewResponder(&mockHandler{reply: "ok"}, nil, chat, ReplyOptions{DelayMin: 500 * time.Millisecond})
	var slept time.Duration
	r.sleep = func(d time.Duration) { slept = d }

	r.Handle(context.Background(), textEvent(types.NewJID("1", types.DefaultUserServer), "#points"))

	if slept != 500*time.Millisecond {
		t.Errorf("Expected fixed 500ms, got %v", slept)
	}
	if len(chat.typing) != 0 {
		t.Errorf("Typing indicator should be off, got %v", chat.typing)
	}
}
