// Package dialogue holds the pure routing and transition rules of the
// policy-building conversation. Nothing here performs I/O.
package dialogue

import (
	"strings"

	"rmf-policy-be/pkg/store"
)

const (
	CmdBuildPolicy = "build policy"
	CmdExit        = "exit"
	Yes            = "yes"
	No             = "no"
)

// Route is the branch a message takes.
type Route int

const (
	RouteGeneric Route = iota
	RouteEnterPolicy
	RouteExitPolicy
	RoutePostCompletion
	RouteAnswer
	// RouteCompleted: every question answered and the decision dialogue is over.
	RouteCompleted
)

func (r Route) String() string {
	switch r {
	case RouteEnterPolicy:
		return "enter_policy"
	case RouteExitPolicy:
		return "exit_policy"
	case RoutePostCompletion:
		return "post_completion"
	case RouteAnswer:
		return "answer"
	case RouteCompleted:
		return "completed"
	default:
		return "generic"
	}
}

// Normalize is the form used for command and yes/no matching.
func Normalize(input string) string {
	return strings.ToLower(strings.TrimSpace(input))
}

// Decide picks the branch for input given the session state and the
// number of questions.
func Decide(s *store.Session, totalQuestions int, input string) Route {
	cmd := Normalize(input)

	switch s.Mode {
	case store.ModePolicy:
		switch {
		case cmd == CmdExit:
			return RouteExitPolicy
		case s.SubState != store.SubStateNone:
			return RoutePostCompletion
		case s.QuestionIndex >= totalQuestions:
			return RouteCompleted
		default:
			return RouteAnswer
		}
	default:
		if cmd == CmdBuildPolicy {
			return RouteEnterPolicy
		}
		return RouteGeneric
	}
}

// Action is what the controller must do after a post-completion step.
type Action int

const (
	ActionReprompt Action = iota
	ActionPromptOrgDecision
	ActionPromptOrgName
	ActionThank
	ActionGeneratePolicy
)

// Step is the outcome of one post-completion transition. For
// ActionGeneratePolicy, Next must only be committed once generation
// succeeded.
type Step struct {
	Next    store.SubState
	Action  Action
	OrgName string
}

// Advance is the post-completion transition function.
func Advance(current store.SubState, input string) Step {
	answer := Normalize(input)

	switch current {
	case store.SubStateAwaitingPolicyDecision:
		switch answer {
		case Yes:
			return Step{Next: store.SubStateAwaitingOrgDecision, Action: ActionPromptOrgDecision}
		case No:
			return Step{Next: store.SubStateNone, Action: ActionThank}
		}
	case store.SubStateAwaitingOrgDecision:
		switch answer {
		case Yes:
			return Step{Next: store.SubStateAwaitingOrgName, Action: ActionPromptOrgName}
		case No:
			return Step{Next: store.SubStateNone, Action: ActionGeneratePolicy}
		}
	case store.SubStateAwaitingOrgName:
		// Any input is the name; a blank one leaves the placeholder in the policy.
		return Step{Next: store.SubStateNone, Action: ActionGeneratePolicy, OrgName: strings.TrimSpace(input)}
	}

	return Step{Next: current, Action: ActionReprompt}
}
