// Ning - Study Forum and Interview Practice Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ning

package models

// Message roles in an agent conversation.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// AgentMessage is one entry of an agent session's append-only log.
type AgentMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
	Time    string `json:"time"`
}

// AgentSession is a conversation with its full message log.
type AgentSession struct {
	SessionID string         `json:"session_id"`
	Messages  []AgentMessage `json:"messages"`
}

// ChatReply is the agent's answer to one message. Tips and Score are
// omitted when the matched rule does not provide them.
type ChatReply struct {
	Reply string  `json:"reply"`
	Tips  *string `json:"tips,omitempty"`
	Score *int    `json:"score,omitempty"`
}

// AgentSessionInfo summarizes a session for listings.
type AgentSessionInfo struct {
	SessionID string `json:"session_id"`
	Role      string `json:"role"`
	Focus     string `json:"focus"`
	CreatedAt string `json:"createdAt"`
}
