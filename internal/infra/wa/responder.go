package wa

import (
	"context"
	"math/rand"
	"strings"
	"time"

	"go.mau.fi/whatsmeow/proto/waE2E"
	"go.mau.fi/whatsmeow/types"
	"go.mau.fi/whatsmeow/types/events"

	"github.com/fardannozami/ecoscan-bot/internal/logging"
)

// CommandHandler turns a chat message into a reply. An empty reply means
// stay quiet.
type CommandHandler interface {
	Execute(ctx context.Context, userID, name, msg string) (string, error)
}

// PhoneResolver maps a linked-device id to a phone number.
type PhoneResolver interface {
	ResolveLIDToPhone(ctx context.Context, lid string) string
}

type chat interface {
	Reply(ctx context.Context, chat types.JID, text string) error
	SetTyping(ctx context.Context, chat types.JID, composing bool) error
}

type ReplyOptions struct {
	// GroupID restricts the bot to one chat when set.
	GroupID    string
	DelayMin   time.Duration
	DelayMax   time.Duration // 0 = use DelayMin as fixed
	ShowTyping bool
}

// Responder answers incoming messages with the command handler's reply.
type Responder struct {
	handler  CommandHandler
	resolver PhoneResolver
	chat     chat
	opts     ReplyOptions
	sleep    func(time.Duration)
}

func NewResponder(handler CommandHandler, resolver PhoneResolver, chat chat, opts ReplyOptions) *Responder {
	return &Responder{
		handler:  handler,
		resolver: resolver,
		chat:     chat,
		opts:     opts,
		sleep:    time.Sleep,
	}
}

func (r *Responder) Handle(ctx context.Context, evt *events.Message) {
	if r.opts.GroupID != "" && evt.Info.Chat.String() != r.opts.GroupID {
		return
	}
	if evt.Info.IsFromMe {
		return
	}

	msg := messageText(evt.Message)
	if msg == "" {
		return
	}

	userID := r.senderID(ctx, evt.Info.Sender)
	pushName := evt.Info.PushName
	if pushName == "" {
		pushName = "Unknown"
	}

	log := logging.With("wa")
	log.Debug().Str("user", userID).Str("name", pushName).Str("msg", msg).Msg("message received")

	response, err := r.handler.Execute(ctx, userID, pushName, msg)
	if err != nil {
		log.Error().Err(err).Str("user", userID).Msg("error handling message")
		return
	}
	if response == "" {
		return
	}

	if delay := r.delay(); delay > 0 {
		if r.opts.ShowTyping {
			_ = r.chat.SetTyping(ctx, evt.Info.Chat, true)
		}
		log.Debug().Dur("delay", delay).Msg("delaying reply")
		r.sleep(delay)
		if r.opts.ShowTyping {
			_ = r.chat.SetTyping(ctx, evt.Info.Chat, false)
		}
	}

	if err := r.chat.Reply(ctx, evt.Info.Chat, response); err != nil {
		log.Error().Err(err).Str("chat", evt.Info.Chat.String()).Msg("failed to send response")
	}
}

// senderID resolves linked-device ids to phone numbers so a user keeps the
// same id across devices.
func (r *Responder) senderID(ctx context.Context, jid types.JID) string {
	looksLikeLID := jid.Server == types.HiddenUserServer ||
		jid.Server == types.DefaultUserServer && len(jid.User) > 15
	if looksLikeLID && r.resolver != nil {
		return r.resolver.ResolveLIDToPhone(ctx, jid.User)
	}
	return jid.User
}

func (r *Responder) delay() time.Duration {
	d := r.opts.DelayMin
	if r.opts.DelayMax > r.opts.DelayMin {
		d += time.Duration(rand.Int63n(int64(r.opts.DelayMax-r.opts.DelayMin) + 1))
	}
	return d
}

func messageText(m *waE2E.Message) string {
	if m == nil {
		return ""
	}
	if m.Conversation != nil {
		return strings.TrimSpace(m.GetConversation())
	}
	if m.ExtendedTextMessage != nil {
		return strings.TrimSpace(m.GetExtendedTextMessage().GetText())
	}
	return ""
}
