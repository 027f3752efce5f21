package chat

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/hyizhou/ask/internal/models"
)

// TokenStream is a finite sequence of reply chunks, as produced by the
// api package
type TokenStream interface {
	Recv() (string, error)
	Close() error
}

// SendFunc dispatches a message sequence to the backend and returns the
// reply stream. The commands layer binds it to a Client and a resolved
// ModelProfile; tests substitute fakes.
type SendFunc func(ctx context.Context, messages []models.Turn, stream bool) (TokenStream, error)

// Session orchestrates question/answer exchanges: it owns the history
// buffer, dispatches through the SendFunc and renders chunks to the
// sink as they arrive.
type Session struct {
	send    SendFunc
	history *HistoryBuffer
	stream  bool
	sink    io.Writer
}

// SessionOption configures a Session
type SessionOption func(*Session)

// WithStreamOutput toggles streamed delivery for the session
func WithStreamOutput(enabled bool) SessionOption {
	return func(s *Session) {
		s.stream = enabled
	}
}

// WithSink sets the writer receiving chunks as they arrive. Only used
// when streaming is enabled.
func WithSink(w io.Writer) SessionOption {
	return func(s *Session) {
		s.sink = w
	}
}

// NewSession creates a session over the given dispatcher and history
func NewSession(send SendFunc, history *HistoryBuffer, opts ...SessionOption) *Session {
	s := &Session{
		send:    send,
		history: history,
		stream:  true,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// History exposes the session's buffer
func (s *Session) History() *HistoryBuffer {
	return s.history
}

// Ask sends userText together with the buffered history and returns the
// full assistant reply. Chunks are written to the sink as they arrive
// when streaming is on. The user and assistant turns are recorded only
// after the exchange succeeds, so a failed call leaves the history
// exactly as it was.
func (s *Session) Ask(ctx context.Context, userText string) (string, error) {
	user := models.UserTurn(userText)
	messages := append(s.history.Messages(), user)

	stream, err := s.send(ctx, messages, s.stream)
	if err != nil {
		return "", err
	}
	defer func() { _ = stream.Close() }()

	var sb strings.Builder
	for {
		chunk, err := stream.Recv()
		if err == io.EOF {
			break
		}
		if err != nil {
			// Chunks already rendered stay on screen; history stays
			// untouched so the question can be retried cleanly.
			return "", err
		}
		sb.WriteString(chunk)
		if s.stream && s.sink != nil {
			fmt.Fprint(s.sink, chunk)
		}
	}

	reply := sb.String()
	s.history.Append(user)
	s.history.Append(models.AssistantTurn(reply))
	return reply, nil
}
