package chat

import (
	"fmt"
	"testing"

	"github.com/hyizhou/ask/internal/models"
)

func TestHistoryBuffer_AppendWithinCap(t *testing.T) {
	h := NewHistoryBuffer(4)
	h.Append(models.UserTurn("q1"))
	h.Append(models.AssistantTurn("a1"))

	msgs := h.Messages()
	if len(msgs) != 2 {
		t.Fatalf("Len = %d, want 2", len(msgs))
	}
	if msgs[0].Content != "q1" || msgs[1].Content != "a1" {
		t.Errorf("order wrong: %+v", msgs)
	}
}

func TestHistoryBuffer_FIFOEviction(t *testing.T) {
	// For N appends beyond the cap, exactly the last maxTurns turns
	// remain, in original order.
	const maxTurns = 6
	const appends = 25

	h := NewHistoryBuffer(maxTurns)
	for i := 0; i < appends; i++ {
		h.Append(models.UserTurn(fmt.Sprintf("t%d", i)))
	}

	msgs := h.Messages()
	if len(msgs) != maxTurns {
		t.Fatalf("Len = %d, want %d", len(msgs), maxTurns)
	}
	for i, m := range msgs {
		want := fmt.Sprintf("t%d", appends-maxTurns+i)
		if m.Content != want {
			t.Errorf("msgs[%d] = %q, want %q", i, m.Content, want)
		}
	}
}

func TestHistoryBuffer_SystemTurnSurvivesEviction(t *testing.T) {
	h := NewHistoryBuffer(3)
	h.SetSystem("be brief")
	for i := 0; i < 10; i++ {
		h.Append(models.UserTurn(fmt.Sprintf("t%d", i)))
	}

	msgs := h.Messages()
	if len(msgs) != 3 {
		t.Fatalf("Len = %d, want 3", len(msgs))
	}
	if msgs[0].Role != models.RoleSystem {
		t.Errorf("first turn should stay the system turn, got %+v", msgs[0])
	}
	if msgs[1].Content != "t8" || msgs[2].Content != "t9" {
		t.Errorf("expected the two newest turns after the system turn, got %+v", msgs[1:])
	}
}

func TestHistoryBuffer_ZeroCap(t *testing.T) {
	h := NewHistoryBuffer(0)
	h.Append(models.UserTurn("q"))
	h.Append(models.AssistantTurn("a"))

	if h.Len() != 0 {
		t.Errorf("zero-cap buffer should retain nothing, has %d turns", h.Len())
	}
}

func TestHistoryBuffer_SetSystemReplaces(t *testing.T) {
	h := NewHistoryBuffer(10)
	h.SetSystem("first")
	h.Append(models.UserTurn("q"))
	h.SetSystem("second")

	msgs := h.Messages()
	if len(msgs) != 2 {
		t.Fatalf("Len = %d, want 2", len(msgs))
	}
	if msgs[0].Role != models.RoleSystem || msgs[0].Content != "second" {
		t.Errorf("system turn not replaced: %+v", msgs[0])
	}
}

func TestHistoryBuffer_Clear(t *testing.T) {
	h := NewHistoryBuffer(10)
	h.SetSystem("keep me")
	h.Append(models.UserTurn("q"))
	h.Append(models.AssistantTurn("a"))

	h.Clear()
	msgs := h.Messages()
	if len(msgs) != 1 || msgs[0].Role != models.RoleSystem {
		t.Errorf("Clear should keep only the system turn, got %+v", msgs)
	}

	h2 := NewHistoryBuffer(10)
	h2.Append(models.UserTurn("q"))
	h2.Clear()
	if h2.Len() != 0 {
		t.Errorf("Clear without system turn should empty the buffer")
	}
}

func TestHistoryBuffer_MessagesIsACopy(t *testing.T) {
	h := NewHistoryBuffer(10)
	h.Append(models.UserTurn("q"))

	msgs := h.Messages()
	msgs[0].Content = "mutated"

	if h.Messages()[0].Content != "q" {
		t.Error("mutating the returned slice must not affect the buffer")
	}
}
