package chat

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"nexus/internal/generation"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// gated blocks each Generate until release is closed.
type gated struct {
	release chan struct{}
	reply   string
	err     error
}

func newGated(reply string) *gated {
	return &gated{release: make(chan struct{}), reply: reply}
}

func (g *gated) Generate(ctx context.Context, prompt string) (string, error) {
	select {
	case <-g.release:
	case <-ctx.Done():
		return "", ctx.Err()
	}
	if g.err != nil {
		return "", g.err
	}
	return g.reply + prompt, nil
}

func TestSubmitWithoutCredential(t *testing.T) {
	s := NewSession(newGated(""))
	defer s.Close()

	for _, cred := range []string{"", "   "} {
		_, err := s.Submit(context.Background(), "hello", cred)
		assert.ErrorIs(t, err, ErrCredentialMissing)
	}
	assert.Equal(t, 0, s.Len())
	assert.Equal(t, StateIdle, s.State())
}

func TestSubmitEmptyMessage(t *testing.T) {
	s := NewSession(newGated(""))
	defer s.Close()

	_, err := s.Submit(context.Background(), "  \n ", "key")
	assert.ErrorIs(t, err, ErrEmptyMessage)
	assert.Equal(t, 0, s.Len())
	assert.Equal(t, StateIdle, s.State())
}

func TestSubmitRoundTrip(t *testing.T) {
	gen := newGated("re: ")
	s := NewSession(gen)
	defer s.Close()

	p, err := s.Submit(context.Background(), " hello ", "key")
	require.NoError(t, err)

	// The user message is appended synchronously.
	msgs := s.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, RoleUser, msgs[0].Role)
	assert.Equal(t, "hello", msgs[0].Content)
	assert.Equal(t, msgs[0], p.UserMessage())
	assert.Equal(t, StateAwaitingReply, s.State())
	assert.True(t, s.AwaitingReply())

	// A second submit while awaiting is rejected without touching the log.
	_, err = s.Submit(context.Background(), "world", "key")
	assert.ErrorIs(t, err, ErrSessionBusy)
	assert.Equal(t, 1, s.Len())

	close(gen.release)
	reply, err := p.Wait(context.Background())
	require.NoError(t, err)
	assert.Equal(t, RoleAssistant, reply.Role)
	assert.Equal(t, "re: hello", reply.Content)

	msgs = s.Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, reply, msgs[1])
	assert.Equal(t, StateIdle, s.State())

	// Idle again, so the next submit is accepted.
	p, err = s.Submit(context.Background(), "world", "key")
	require.NoError(t, err)
	_, err = p.Wait(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, s.Len())
}

func TestSubmitGenerationFailure(t *testing.T) {
	gen := newGated("")
	gen.err = errors.New("backend down")
	close(gen.release)

	s := NewSession(gen)
	defer s.Close()

	p, err := s.Submit(context.Background(), "hello", "key")
	require.NoError(t, err)

	<-p.Done()
	_, err = p.Wait(context.Background())
	assert.ErrorIs(t, err, ErrGenerationFailed)
	assert.NotErrorIs(t, err, ErrReplyTimeout)
	assert.Contains(t, err.Error(), "backend down")

	assert.Equal(t, 1, s.Len())
	assert.Equal(t, StateIdle, s.State())
}

func TestSubmitEmptyReplyFails(t *testing.T) {
	s := NewSession(generation.Func(func(ctx context.Context, prompt string) (string, error) {
		return "  ", nil
	}))
	defer s.Close()

	p, err := s.Submit(context.Background(), "hello", "key")
	require.NoError(t, err)
	_, err = p.Wait(context.Background())
	assert.ErrorIs(t, err, ErrGenerationFailed)
	assert.Equal(t, 1, s.Len())
}

func TestSubmitReplyTimeout(t *testing.T) {
	gen := newGated("")
	s := NewSession(gen, WithReplyTimeout(20*time.Millisecond))
	defer s.Close()

	p, err := s.Submit(context.Background(), "hello", "key")
	require.NoError(t, err)

	_, err = p.Wait(context.Background())
	assert.ErrorIs(t, err, ErrGenerationFailed)
	assert.ErrorIs(t, err, ErrReplyTimeout)
	assert.Equal(t, StateIdle, s.State())
	assert.Equal(t, 1, s.Len())
}

func TestWaitHonorsContext(t *testing.T) {
	gen := newGated("")
	s := NewSession(gen)

	p, err := s.Submit(context.Background(), "hello", "key")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = p.Wait(ctx)
	assert.ErrorIs(t, err, context.Canceled)

	close(gen.release)
	s.Close()
	assert.Equal(t, 2, s.Len())
}

func TestEchoBackendRoundTrip(t *testing.T) {
	s := NewSession(&generation.EchoGenerator{Delay: time.Millisecond})
	defer s.Close()

	p, err := s.Submit(context.Background(), "ping", "key")
	require.NoError(t, err)
	reply, err := p.Wait(context.Background())
	require.NoError(t, err)
	assert.Equal(t, generation.EchoReply("ping"), reply.Content)
}

func TestRestore(t *testing.T) {
	gen := newGated("")
	s := NewSession(gen)

	ts := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, s.Restore([]Message{
		{ID: "1", Role: RoleUser, Content: "hi", Timestamp: ts},
		{ID: "2", Role: "system", Content: "dropped"},
		{ID: "", Role: RoleAssistant, Content: "dropped"},
		{ID: "3", Role: RoleAssistant, Content: "hello", Timestamp: ts},
	}))
	msgs := s.Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, "1", msgs[0].ID)
	assert.Equal(t, "3", msgs[1].ID)

	_, err := s.Submit(context.Background(), "again", "key")
	require.NoError(t, err)
	assert.ErrorIs(t, s.Restore(nil), ErrSessionBusy)
	assert.Equal(t, 3, s.Len())

	close(gen.release)
	s.Close()
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "idle", StateIdle.String())
	assert.Equal(t, "awaiting_reply", StateAwaitingReply.String())
}
