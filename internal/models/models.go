// Package models defines conversation turns and model profiles for the
// backends ask can talk to.
package models

import "strings"

// Turn roles
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Turn is one message in the conversation history. Immutable once
// appended.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// UserTurn creates a user Turn
func UserTurn(content string) Turn {
	return Turn{Role: RoleUser, Content: content}
}

// AssistantTurn creates an assistant Turn
func AssistantTurn(content string) Turn {
	return Turn{Role: RoleAssistant, Content: content}
}

// Kind identifies the wire shape a backend speaks.
type Kind string

const (
	// KindOpenAI covers every OpenAI-compatible chat completions API
	// (openai, deepseek, most self-hosted gateways).
	KindOpenAI Kind = "openai"
	// KindQwen is the DashScope text-generation API.
	KindQwen Kind = "qwen"
)

// KindForModel maps a configured model name to its wire shape.
// Everything except qwen speaks the OpenAI-compatible protocol.
func KindForModel(name string) Kind {
	if strings.EqualFold(name, "qwen") {
		return KindQwen
	}
	return KindOpenAI
}

// ModelProfile is the resolved credentials/endpoint/identifier triple
// for a chosen backend, selected from the configuration by name at
// request time.
type ModelProfile struct {
	Name    string // profile name from the config ("openai", "qwen", ...)
	APIKey  string
	Model   string // model identifier sent on the wire ("gpt-4o-mini", ...)
	APIBase string
	Kind    Kind
}

// Endpoint returns the full request URL for the profile
func (p ModelProfile) Endpoint() string {
	base := strings.TrimRight(p.APIBase, "/")
	switch p.Kind {
	case KindQwen:
		return base + "/services/aigc/text-generation/generation"
	default:
		return base + "/chat/completions"
	}
}
