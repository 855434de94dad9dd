// Package chat holds the in-memory chat session: an append-only, ordered
// list of messages with an at-most-one-in-flight request policy.
package chat

import (
	"strings"
	"time"

	"docchat/internal/domain"
)

const welcomeText = "Hi! Ask me anything about the indexed documents and I will answer with source citations."

// Session is an ordered sequence of messages. Insertion order is
// chronological order is display order. Messages are append-only; past
// entries are never mutated. Not safe for concurrent use: all mutation
// happens on the single UI loop.
type Session struct {
	messages []domain.Message
	nextID   int64
	inFlight bool
	now      func() time.Time
}

// NewSession creates a session seeded with the single welcome message.
func NewSession() *Session {
	s := &Session{nextID: 1, now: time.Now}
	s.seedWelcome()
	return s
}

func (s *Session) seedWelcome() {
	s.messages = []domain.Message{{
		ID:        s.allocID(),
		Kind:      domain.KindAssistant,
		Content:   welcomeText,
		Timestamp: s.stamp(),
	}}
}

// AppendUserMessage appends a user message and marks a request as in
// flight. It is a no-op (returning false) when the trimmed text is empty or
// a request is already outstanding.
func (s *Session) AppendUserMessage(text string) bool {
	if strings.TrimSpace(text) == "" || s.inFlight {
		return false
	}
	s.messages = append(s.messages, domain.Message{
		ID:        s.allocID(),
		Kind:      domain.KindUser,
		Content:   text,
		Timestamp: s.stamp(),
	})
	s.inFlight = true
	return true
}

// AppendAssistantMessage appends the answer to a successful ask, copying
// reference, citations, hits and confidence verbatim, and clears the
// in-flight flag.
func (s *Session) AppendAssistantMessage(ans *domain.Answer) {
	msg := domain.Message{
		ID:        s.allocID(),
		Kind:      domain.KindAssistant,
		Timestamp: s.stamp(),
	}
	if ans != nil {
		msg.Content = ans.Answer
		msg.Reference = ans.Reference
		msg.Citations = ans.Citations
		msg.Hits = ans.Hits
		msg.Confidence = ans.Confidence
	}
	s.messages = append(s.messages, msg)
	s.inFlight = false
}

// AppendErrorMessage appends an error-type message with the given
// user-facing text and clears the in-flight flag.
func (s *Session) AppendErrorMessage(text string) {
	s.messages = append(s.messages, domain.Message{
		ID:        s.allocID(),
		Kind:      domain.KindError,
		Content:   text,
		Timestamp: s.stamp(),
	})
	s.inFlight = false
}

// Clear replaces the session with a single fresh welcome message. The
// in-flight flag is preserved: a reply still pending when the user clears
// will land in the cleared session and re-enable input.
func (s *Session) Clear() {
	s.seedWelcome()
}

// Messages returns a copy of the session's messages in display order.
func (s *Session) Messages() []domain.Message {
	out := make([]domain.Message, len(s.messages))
	copy(out, s.messages)
	return out
}

// InFlight reports whether a request is outstanding.
func (s *Session) InFlight() bool { return s.inFlight }

// Len returns the number of messages.
func (s *Session) Len() int { return len(s.messages) }

func (s *Session) allocID() int64 {
	id := s.nextID
	s.nextID++
	return id
}

func (s *Session) stamp() string {
	return s.now().Format("15:04")
}
