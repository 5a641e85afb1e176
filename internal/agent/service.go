// Ning - Study Forum and Interview Practice Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ning

// Package agent runs mock-interview sessions. Replies come from the rule
// table in rules.go; this file only persists sessions and message logs.
package agent

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/tomtom215/ning/internal/kvstore"
	"github.com/tomtom215/ning/internal/logging"
	"github.com/tomtom215/ning/internal/metrics"
	"github.com/tomtom215/ning/internal/models"
)

// timeLayout is fixed width so timestamps order lexically.
const timeLayout = "2006-01-02T15:04:05.000000Z07:00"

func sessionKey(sid string) string      { return "agent:session:" + sid }
func messagesKey(sid string) string     { return "agent:session:" + sid + ":messages" }
func userSessionsKey(uid string) string { return "agent:user:" + uid + ":sessions" }

// Generator produces a reply for a message within a session.
type Generator func(sc SessionContext, message string) Reply

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the clock used for message timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithGenerator replaces the rule-based reply generator.
func WithGenerator(g Generator) Option {
	return func(s *Service) { s.generate = g }
}

// Service manages agent sessions.
type Service struct {
	kv       kvstore.Store
	now      func() time.Time
	generate Generator
	newID    func() string
}

// NewService returns an agent service backed by kv.
func NewService(kv kvstore.Store, opts ...Option) *Service {
	s := &Service{kv: kv, now: time.Now, generate: Generate, newID: uuid.NewString}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) timestamp() string {
	return s.now().UTC().Format(timeLayout)
}

// StartSession opens a session for user with an optional role and focus.
func (s *Service) StartSession(ctx context.Context, user *models.User, role, focus string) (string, error) {
	sid := s.newID()
	err := s.kv.HSet(ctx, sessionKey(sid), map[string]string{
		"session_id": sid,
		"owner_id":   user.ID,
		"role":       strings.TrimSpace(role),
		"focus":      strings.TrimSpace(focus),
		"created_at": s.timestamp(),
	})
	if err != nil {
		return "", fmt.Errorf("store agent session: %w", err)
	}
	if _, err := s.kv.SAdd(ctx, userSessionsKey(user.ID), sid); err != nil {
		return "", fmt.Errorf("index agent session: %w", err)
	}
	logging.Ctx(ctx).Info().Str("session_id", sid).Msg("Agent session started")
	return sid, nil
}

// ownedSession loads a session hash and checks that user owns it.
func (s *Service) ownedSession(ctx context.Context, user *models.User, sid string) (map[string]string, error) {
	fields, err := s.kv.HGetAll(ctx, sessionKey(sid))
	if err != nil {
		return nil, fmt.Errorf("load agent session: %w", err)
	}
	if len(fields) == 0 {
		return nil, fmt.Errorf("%w: session %s not found", models.ErrNotFound, sid)
	}
	if fields["owner_id"] != user.ID {
		return nil, fmt.Errorf("%w: agent session %s belongs to another user", models.ErrForbidden, sid)
	}
	return fields, nil
}

// Chat appends message and the generated reply to the session log and
// returns the reply.
func (s *Service) Chat(ctx context.Context, user *models.User, sid, message string) (*models.ChatReply, error) {
	if strings.TrimSpace(message) == "" {
		return nil, fmt.Errorf("%w: message is required", models.ErrValidation)
	}
	fields, err := s.ownedSession(ctx, user, sid)
	if err != nil {
		return nil, err
	}

	userMsg := models.AgentMessage{Role: models.RoleUser, Content: message, Time: s.timestamp()}
	reply := s.generate(SessionContext{Role: fields["role"], Focus: fields["focus"]}, message)
	botMsg := models.AgentMessage{Role: models.RoleAssistant, Content: reply.Text, Time: s.timestamp()}

	rawUser, err := json.Marshal(userMsg)
	if err != nil {
		return nil, fmt.Errorf("encode message: %w", err)
	}
	rawBot, err := json.Marshal(botMsg)
	if err != nil {
		return nil, fmt.Errorf("encode message: %w", err)
	}
	// one push keeps the question and answer adjacent in the log
	if _, err := s.kv.RPush(ctx, messagesKey(sid), string(rawUser), string(rawBot)); err != nil {
		return nil, fmt.Errorf("append messages: %w", err)
	}

	metrics.RecordAgentReply(reply.Rule)
	logging.Ctx(ctx).Debug().Str("session_id", sid).Str("rule", reply.Rule).Msg("Agent replied")
	return &models.ChatReply{Reply: reply.Text, Tips: reply.Tips, Score: reply.Score}, nil
}

// GetSession returns the session's full message log.
func (s *Service) GetSession(ctx context.Context, user *models.User, sid string) (*models.AgentSession, error) {
	if _, err := s.ownedSession(ctx, user, sid); err != nil {
		return nil, err
	}
	raw, err := s.kv.LRange(ctx, messagesKey(sid), 0, -1)
	if err != nil {
		return nil, fmt.Errorf("load messages: %w", err)
	}
	out := &models.AgentSession{SessionID: sid, Messages: make([]models.AgentMessage, 0, len(raw))}
	for _, r := range raw {
		var m models.AgentMessage
		if err := json.Unmarshal([]byte(r), &m); err != nil {
			return nil, fmt.Errorf("decode message: %w", err)
		}
		out.Messages = append(out.Messages, m)
	}
	return out, nil
}

// ListSessions returns user's sessions, newest first.
func (s *Service) ListSessions(ctx context.Context, user *models.User) ([]models.AgentSessionInfo, error) {
	ids, err := s.kv.SMembers(ctx, userSessionsKey(user.ID))
	if err != nil {
		return nil, fmt.Errorf("list agent sessions: %w", err)
	}
	out := make([]models.AgentSessionInfo, 0, len(ids))
	for _, sid := range ids {
		fields, err := s.kv.HGetAll(ctx, sessionKey(sid))
		if err != nil {
			return nil, fmt.Errorf("load agent session: %w", err)
		}
		if len(fields) == 0 {
			continue
		}
		out = append(out, models.AgentSessionInfo{
			SessionID: sid,
			Role:      fields["role"],
			Focus:     fields["focus"],
			CreatedAt: fields["created_at"],
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt != out[j].CreatedAt {
			return out[i].CreatedAt > out[j].CreatedAt
		}
		return out[i].SessionID < out[j].SessionID
	})
	return out, nil
}
