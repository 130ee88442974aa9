package store

import (
	"strings"
	"time"
)

// Mode is the top-level conversation mode of a user.
type Mode string

const (
	ModeGeneric Mode = "generic"
	ModePolicy  Mode = "policy"
)

// SubState tracks the post-questionnaire decision dialogue. It is only set
// once every question has a compliant answer.
type SubState string

const (
	SubStateNone                   SubState = ""
	SubStateAwaitingPolicyDecision SubState = "awaiting_policy_decision"
	SubStateAwaitingOrgDecision    SubState = "awaiting_organization_decision"
	SubStateAwaitingOrgName        SubState = "awaiting_organization_name"
)

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

type Compliance string

const (
	ComplianceNone         Compliance = ""
	ComplianceCompliant    Compliance = "Compliant"
	ComplianceNonCompliant Compliance = "Non-compliant"
)

// Turn is one entry of the conversation history. Question fields and the
// embedding are only populated for questionnaire answers.
type Turn struct {
	Role          Role       `json:"role"`
	Content       string     `json:"content"`
	Compliance    Compliance `json:"compliance,omitempty"`
	Category      string     `json:"category,omitempty"`
	Title         string     `json:"title,omitempty"`
	QuestionIndex int        `json:"question_index"`
	Embedding     []float32  `json:"embedding,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

// IsAnswer reports whether the turn is a validated questionnaire answer.
func (t Turn) IsAnswer() bool {
	return t.Role == RoleUser && t.Compliance != ComplianceNone
}

// Session represents the conversation state of one user
type Session struct {
	UserID        string    `json:"user_id"`
	Mode          Mode      `json:"mode"`
	SubState      SubState  `json:"sub_state"`
	QuestionIndex int       `json:"question_index"`
	History       []Turn    `json:"history"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func NewSession(userID string, now time.Time) *Session {
	return &Session{
		UserID:    userID,
		Mode:      ModeGeneric,
		History:   []Turn{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Clone returns a deep copy so callers can mutate freely and commit only on
// success.
func (s *Session) Clone() *Session {
	c := *s
	c.History = make([]Turn, len(s.History))
	for i, t := range s.History {
		if t.Embedding != nil {
			t.Embedding = append([]float32(nil), t.Embedding...)
		}
		c.History[i] = t
	}
	return &c
}

func (s *Session) AppendAssistant(text string, now time.Time) {
	s.History = append(s.History, Turn{Role: RoleAssistant, Content: text, QuestionIndex: -1, CreatedAt: now})
}

func (s *Session) AppendUser(text string, now time.Time) {
	s.History = append(s.History, Turn{Role: RoleUser, Content: text, QuestionIndex: -1, CreatedAt: now})
}

func (s *Session) AppendAnswer(t Turn) {
	t.Role = RoleUser
	s.History = append(s.History, t)
}

// RemoveUserTurns drops user turns whose content equals text, ignoring case.
func (s *Session) RemoveUserTurns(text string) {
	kept := s.History[:0]
	for _, t := range s.History {
		if t.Role == RoleUser && strings.EqualFold(strings.TrimSpace(t.Content), text) {
			continue
		}
		kept = append(kept, t)
	}
	s.History = kept
}

// Answers returns the validated answers in history order.
func (s *Session) Answers() []Turn {
	var out []Turn
	for _, t := range s.History {
		if t.IsAnswer() {
			out = append(out, t)
		}
	}
	return out
}
