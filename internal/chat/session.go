// Package chat implements the single chat session: an append-only message log
// and the Idle/AwaitingReply round trip against a generation backend.
package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"

	"nexus/internal/generation"
)

var (
	ErrEmptyMessage      = errors.New("message is empty")
	ErrCredentialMissing = errors.New("API key not configured")
	ErrSessionBusy       = errors.New("a reply is already pending")
	ErrGenerationFailed  = errors.New("generation failed")
	ErrReplyTimeout      = errors.New("reply timed out")
)

// Role identifies who wrote a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one entry of the chat log.
type Message struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// State is the session's round-trip state.
type State int

const (
	StateIdle State = iota
	StateAwaitingReply
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAwaitingReply:
		return "awaiting_reply"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Session is the chat log plus its single in-flight reply slot.
type Session struct {
	gen     generation.Generator
	sem     *semaphore.Weighted
	logger  *zap.Logger
	timeout time.Duration
	now     func() time.Time
	newID   func() string

	mu       sync.RWMutex
	messages []Message
	awaiting bool

	wg sync.WaitGroup
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the session logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithReplyTimeout bounds each reply. Zero disables the bound.
func WithReplyTimeout(d time.Duration) Option {
	return func(s *Session) { s.timeout = d }
}

// WithClock replaces time.Now for message timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// NewSession creates an idle session with an empty log.
func NewSession(gen generation.Generator, opts ...Option) *Session {
	s := &Session{
		gen:    gen,
		sem:    semaphore.NewWeighted(1),
		logger: zap.NewNop(),
		now:    time.Now,
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Pending is an outstanding reply.
type Pending struct {
	user  Message
	done  chan struct{}
	reply Message
	err   error
}

// UserMessage returns the message appended by the submit.
func (p *Pending) UserMessage() Message { return p.user }

// Done is closed once the reply has settled.
func (p *Pending) Done() <-chan struct{} { return p.done }

// Wait blocks until the reply settles or ctx ends. Reply failures match
// ErrGenerationFailed.
func (p *Pending) Wait(ctx context.Context) (Message, error) {
	select {
	case <-p.done:
		return p.reply, p.err
	case <-ctx.Done():
		return Message{}, ctx.Err()
	}
}

// Submit appends a user message and starts generating the reply. The user
// message is in the log when Submit returns; the reply is appended later.
// Rejected submits leave the log and state unchanged.
func (s *Session) Submit(ctx context.Context, text, credential string) (*Pending, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyMessage
	}
	if strings.TrimSpace(credential) == "" {
		return nil, ErrCredentialMissing
	}
	if !s.sem.TryAcquire(1) {
		return nil, ErrSessionBusy
	}

	user := Message{
		ID:        s.newID(),
		Role:      RoleUser,
		Content:   text,
		Timestamp: s.now(),
	}

	s.mu.Lock()
	s.messages = append(s.messages, user)
	s.awaiting = true
	s.mu.Unlock()

	s.logger.Debug("Message submitted", zap.String("id", user.ID), zap.Int("length", len(text)))

	p := &Pending{user: user, done: make(chan struct{})}
	s.wg.Add(1)
	go s.awaitReply(ctx, p)
	return p, nil
}

func (s *Session) awaitReply(ctx context.Context, p *Pending) {
	defer s.wg.Done()

	genCtx, cancel := ctx, context.CancelFunc(func() {})
	if s.timeout > 0 {
		genCtx, cancel = context.WithTimeout(ctx, s.timeout)
	}
	start := time.Now()
	content, err := s.gen.Generate(genCtx, p.user.Content)
	timedOut := s.timeout > 0 && errors.Is(genCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil
	cancel()

	if err == nil && strings.TrimSpace(content) == "" {
		err = errors.New("empty reply")
	}

	s.mu.Lock()
	if err == nil {
		p.reply = Message{
			ID:        s.newID(),
			Role:      RoleAssistant,
			Content:   content,
			Timestamp: s.now(),
		}
		s.messages = append(s.messages, p.reply)
	}
	s.awaiting = false
	s.mu.Unlock()
	s.sem.Release(1)

	switch {
	case err == nil:
		s.logger.Debug("Reply received", zap.String("id", p.reply.ID), zap.Duration("elapsed", time.Since(start)))
	case timedOut:
		p.err = fmt.Errorf("%w: %w: %w", ErrGenerationFailed, ErrReplyTimeout, err)
		s.logger.Warn("Reply timed out", zap.Duration("timeout", s.timeout))
	default:
		p.err = fmt.Errorf("%w: %w", ErrGenerationFailed, err)
		s.logger.Warn("Reply failed", zap.Error(err))
	}
	close(p.done)
}

// Messages returns a copy of the log in chronological order.
func (s *Session) Messages() []Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Message(nil), s.messages...)
}

// Len returns the number of messages.
func (s *Session) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.messages)
}

// State returns the round-trip state.
func (s *Session) State() State {
	if s.AwaitingReply() {
		return StateAwaitingReply
	}
	return StateIdle
}

// AwaitingReply reports whether a reply is outstanding.
func (s *Session) AwaitingReply() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.awaiting
}

// Restore replaces the log with persisted messages. Entries with an unknown
// role or no id are skipped. It fails with ErrSessionBusy while a reply is
// outstanding.
func (s *Session) Restore(msgs []Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.awaiting {
		return ErrSessionBusy
	}

	kept := make([]Message, 0, len(msgs))
	for _, m := range msgs {
		if m.ID == "" || (m.Role != RoleUser && m.Role != RoleAssistant) {
			continue
		}
		kept = append(kept, m)
	}
	s.messages = kept
	return nil
}

// Close waits for an outstanding reply to settle.
func (s *Session) Close() {
	s.wg.Wait()
}
