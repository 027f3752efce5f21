package chat

import (
	"context"
	"io"
	"strings"
	"testing"

	apierrors "github.com/hyizhou/ask/internal/errors"
	"github.com/hyizhou/ask/internal/models"
)

// fakeStream yields its chunks in order, then an optional failure or EOF
type fakeStream struct {
	chunks []string
	failAt int // fail after this many chunks; -1 disables
	err    error
	pos    int
	closed bool
}

func (f *fakeStream) Recv() (string, error) {
	if f.failAt >= 0 && f.pos == f.failAt {
		return "", f.err
	}
	if f.pos >= len(f.chunks) {
		return "", io.EOF
	}
	chunk := f.chunks[f.pos]
	f.pos++
	return chunk, nil
}

func (f *fakeStream) Close() error {
	f.closed = true
	return nil
}

// fakeSender records calls and returns canned streams or errors
type fakeSender struct {
	stream   TokenStream
	err      error
	calls    int
	lastMsgs []models.Turn
	lastFlag bool
}

func (f *fakeSender) send(_ context.Context, messages []models.Turn, stream bool) (TokenStream, error) {
	f.calls++
	f.lastMsgs = messages
	f.lastFlag = stream
	if f.err != nil {
		return nil, f.err
	}
	return f.stream, nil
}

func TestSession_AskSuccess(t *testing.T) {
	sender := &fakeSender{stream: &fakeStream{chunks: []string{"Hel", "lo"}, failAt: -1}}
	var sink strings.Builder

	s := NewSession(sender.send, NewHistoryBuffer(10), WithSink(&sink))
	reply, err := s.Ask(context.Background(), "hi")
	if err != nil {
		t.Fatalf("Ask() returned error: %v", err)
	}

	if reply != "Hello" {
		t.Errorf("reply = %q, want Hello", reply)
	}
	if sink.String() != "Hello" {
		t.Errorf("sink = %q, want streamed chunks", sink.String())
	}

	msgs := s.History().Messages()
	if len(msgs) != 2 {
		t.Fatalf("history should hold user+assistant turns, got %d", len(msgs))
	}
	if msgs[0].Role != models.RoleUser || msgs[0].Content != "hi" {
		t.Errorf("user turn = %+v", msgs[0])
	}
	if msgs[1].Role != models.RoleAssistant || msgs[1].Content != "Hello" {
		t.Errorf("assistant turn = %+v", msgs[1])
	}
}

func TestSession_AskIncludesPendingQuestion(t *testing.T) {
	sender := &fakeSender{stream: &fakeStream{chunks: []string{"a1"}, failAt: -1}}
	s := NewSession(sender.send, NewHistoryBuffer(10))

	if _, err := s.Ask(context.Background(), "q1"); err != nil {
		t.Fatal(err)
	}

	sender.stream = &fakeStream{chunks: []string{"a2"}, failAt: -1}
	if _, err := s.Ask(context.Background(), "q2"); err != nil {
		t.Fatal(err)
	}

	// The second request must carry q1, a1 and the just-asked q2
	if len(sender.lastMsgs) != 3 {
		t.Fatalf("request messages = %d, want 3", len(sender.lastMsgs))
	}
	if sender.lastMsgs[2].Content != "q2" || sender.lastMsgs[2].Role != models.RoleUser {
		t.Errorf("pending question missing from request: %+v", sender.lastMsgs)
	}
}

func TestSession_DispatchErrorLeavesHistoryUntouched(t *testing.T) {
	sender := &fakeSender{err: apierrors.NewAuthError(401, "bad key")}
	s := NewSession(sender.send, NewHistoryBuffer(10))

	before := s.History().Len()
	_, err := s.Ask(context.Background(), "hi")
	if !apierrors.IsAuthError(err) {
		t.Fatalf("expected AuthError, got %v", err)
	}
	if s.History().Len() != before {
		t.Errorf("failed ask mutated history: %d -> %d", before, s.History().Len())
	}
}

func TestSession_MidStreamErrorLeavesHistoryUntouched(t *testing.T) {
	stream := &fakeStream{
		chunks: []string{"partial "},
		failAt: 1,
		err:    apierrors.NewNetworkError("https://example.com", io.ErrUnexpectedEOF),
	}
	sender := &fakeSender{stream: stream}
	var sink strings.Builder

	s := NewSession(sender.send, NewHistoryBuffer(10), WithSink(&sink))
	_, err := s.Ask(context.Background(), "hi")
	if !apierrors.IsNetworkError(err) {
		t.Fatalf("expected NetworkError, got %v", err)
	}

	// Partial output stays rendered, history stays clean
	if sink.String() != "partial " {
		t.Errorf("sink = %q, want the partially rendered chunk", sink.String())
	}
	if s.History().Len() != 0 {
		t.Errorf("failed ask mutated history: %d turns", s.History().Len())
	}
	if !stream.closed {
		t.Error("stream should be closed after a failed exchange")
	}
}

func TestSession_NoStreamSkipsSink(t *testing.T) {
	sender := &fakeSender{stream: &fakeStream{chunks: []string{"whole reply"}, failAt: -1}}
	var sink strings.Builder

	s := NewSession(sender.send, NewHistoryBuffer(10),
		WithStreamOutput(false), WithSink(&sink))

	reply, err := s.Ask(context.Background(), "hi")
	if err != nil {
		t.Fatal(err)
	}
	if reply != "whole reply" {
		t.Errorf("reply = %q", reply)
	}
	if sink.String() != "" {
		t.Errorf("sink should stay empty without streaming, got %q", sink.String())
	}
	if sender.lastFlag {
		t.Error("stream flag should be false on the wire")
	}
}

func TestSession_HistoryEvictionAfterExchange(t *testing.T) {
	sender := &fakeSender{}
	s := NewSession(sender.send, NewHistoryBuffer(2))

	for i := 0; i < 3; i++ {
		sender.stream = &fakeStream{chunks: []string{"ans"}, failAt: -1}
		if _, err := s.Ask(context.Background(), "q"); err != nil {
			t.Fatal(err)
		}
	}

	if got := s.History().Len(); got != 2 {
		t.Errorf("history length = %d, want cap 2", got)
	}
}
