package reaction

import (
	"anoa.com/kgscp/internal/entity"
	"anoa.com/kgscp/pkg/apperror"
)

type Kind string

const (
	Like    Kind = entity.ReactionLike
	Dislike Kind = entity.ReactionDislike
)

func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case Like, Dislike:
		return Kind(s), nil
	default:
		return "", apperror.Invalid("reaction must be like or dislike")
	}
}

type Action int

const (
	ActionInsert Action = iota + 1
	ActionUpdate
	ActionDelete
)

func (a Action) String() string {
	switch a {
	case ActionInsert:
		return "insert"
	case ActionUpdate:
		return "update"
	case ActionDelete:
		return "delete"
	default:
		return "unknown"
	}
}

// Decision is the single write that moves a user's reaction from current to requested.
type Decision struct {
	Action Action
	// Reaction is the value written by insert or update; empty for delete.
	Reaction Kind
}

// Decide toggles off a repeated reaction, switches a different one and inserts a first one.
func Decide(current *Kind, requested Kind) Decision {
	switch {
	case current == nil:
		return Decision{Action: ActionInsert, Reaction: requested}
	case *current == requested:
		return Decision{Action: ActionDelete}
	default:
		return Decision{Action: ActionUpdate, Reaction: requested}
	}
}
