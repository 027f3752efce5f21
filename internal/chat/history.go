// Package chat implements the bounded conversation history and the
// question/answer session driving the model client.
package chat

import "github.com/hyizhou/ask/internal/models"

// HistoryBuffer is a bounded, ordered sequence of conversation turns.
// The oldest turns are evicted first once the cap is exceeded; a
// leading system turn survives eviction. Purely in-memory and owned by
// a single Session.
type HistoryBuffer struct {
	maxTurns int
	turns    []models.Turn
}

// NewHistoryBuffer creates a buffer keeping at most maxTurns turns
func NewHistoryBuffer(maxTurns int) *HistoryBuffer {
	if maxTurns < 0 {
		maxTurns = 0
	}
	return &HistoryBuffer{maxTurns: maxTurns}
}

// Append adds a turn to the end and evicts from the front while the
// buffer exceeds its cap
func (h *HistoryBuffer) Append(turn models.Turn) {
	h.turns = append(h.turns, turn)
	h.evict()
}

// SetSystem inserts or replaces the leading system turn
func (h *HistoryBuffer) SetSystem(content string) {
	if len(h.turns) > 0 && h.turns[0].Role == models.RoleSystem {
		h.turns[0] = models.Turn{Role: models.RoleSystem, Content: content}
		return
	}
	h.turns = append([]models.Turn{{Role: models.RoleSystem, Content: content}}, h.turns...)
}

// Messages returns the current buffer, oldest first, as a copy safe to
// extend by the caller
func (h *HistoryBuffer) Messages() []models.Turn {
	out := make([]models.Turn, len(h.turns))
	copy(out, h.turns)
	return out
}

// Len returns the number of buffered turns
func (h *HistoryBuffer) Len() int {
	return len(h.turns)
}

// Clear drops every turn except a leading system turn
func (h *HistoryBuffer) Clear() {
	if len(h.turns) > 0 && h.turns[0].Role == models.RoleSystem {
		h.turns = h.turns[:1]
		return
	}
	h.turns = nil
}

func (h *HistoryBuffer) evict() {
	if len(h.turns) <= h.maxTurns {
		return
	}

	if h.turns[0].Role == models.RoleSystem {
		keep := h.maxTurns - 1
		if keep < 0 {
			keep = 0
		}
		rest := h.turns[1:]
		if len(rest) > keep {
			rest = rest[len(rest)-keep:]
		}
		h.turns = append([]models.Turn{h.turns[0]}, rest...)
		return
	}

	h.turns = append([]models.Turn(nil), h.turns[len(h.turns)-h.maxTurns:]...)
}
