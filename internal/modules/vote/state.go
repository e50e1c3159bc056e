// Package vote holds the per-(voter, target) vote state machine shared by the
// repository and the service.
package vote

import (
	"anoa.com/qaforum/internal/entity"
	"anoa.com/qaforum/pkg/apperror"
)

// Value is both a requested vote and a stored state. ValueNone as a state means no row exists.
type Value int8

const (
	ValueDown Value = -1
	ValueNone Value = 0
	ValueUp   Value = 1
)

func (v Value) String() string {
	switch v {
	case ValueUp:
		return "up"
	case ValueDown:
		return "down"
	default:
		return "none"
	}
}

// ParseValue accepts only -1, 0 and 1.
func ParseValue(v int) (Value, error) {
	switch v {
	case -1, 0, 1:
		return Value(v), nil
	default:
		return ValueNone, apperror.Validation("value must be one of -1, 0, 1, got %d", v)
	}
}

// ParseTargetKind accepts the two votable entity kinds.
func ParseTargetKind(s string) (entity.VoteTargetKind, error) {
	switch kind := entity.VoteTargetKind(s); kind {
	case entity.VoteTargetComment, entity.VoteTargetAnswer:
		return kind, nil
	default:
		return "", apperror.Validation("target_kind must be one of comment, answer, got %q", s)
	}
}

// Transition is the single write a cast resolves to.
type Transition string

const (
	TransitionCreate Transition = "create"
	TransitionUpdate Transition = "update"
	TransitionDelete Transition = "delete"
	TransitionNoop   Transition = "noop"
)

// Resolve computes the write that moves current to requested.
//
//	none  + ±1 -> create
//	V     +  V -> noop (idempotent upsert)
//	V     + -V -> update in place
//	any   +  0 -> delete, noop when there is nothing to delete
func Resolve(current, requested Value) Transition {
	switch {
	case requested == ValueNone && current == ValueNone:
		return TransitionNoop
	case requested == ValueNone:
		return TransitionDelete
	case current == ValueNone:
		return TransitionCreate
	case current == requested:
		return TransitionNoop
	default:
		return TransitionUpdate
	}
}

// Next is the state after a transition has been applied.
func Next(current, requested Value) Value {
	if Resolve(current, requested) == TransitionNoop {
		return current
	}
	return requested
}
