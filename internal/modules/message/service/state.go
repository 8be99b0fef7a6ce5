package message

import (
	"fmt"

	"anoa.com/kgscp/pkg/apperror"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusAccepted Status = "accepted"
	StatusRejected Status = "rejected"
	StatusOnHold   Status = "on_hold"
)

// NormalizeStatus reads unknown or empty values as pending.
func NormalizeStatus(s string) Status {
	switch Status(s) {
	case StatusAccepted, StatusRejected, StatusOnHold:
		return Status(s)
	default:
		return StatusPending
	}
}

// Terminal reports whether no action can move a message out of s.
func (s Status) Terminal() bool {
	return s == StatusAccepted || s == StatusRejected
}

type Action string

const (
	ActionAccept Action = "accept"
	ActionReject Action = "reject"
	ActionHold   Action = "hold"
)

var transitions = map[Action]map[Status]Status{
	ActionAccept: {StatusPending: StatusAccepted, StatusOnHold: StatusAccepted},
	ActionReject: {StatusPending: StatusRejected, StatusOnHold: StatusRejected},
	ActionHold:   {StatusPending: StatusOnHold},
}

// Transition returns the status reached by applying action to from.
func Transition(from Status, action Action) (Status, error) {
	if from.Terminal() {
		return "", fmt.Errorf("%w: message is already %s", apperror.ErrInvalidTransition, from)
	}
	to, ok := transitions[action][from]
	if !ok {
		return "", fmt.Errorf("%w: cannot %s a %s message", apperror.ErrInvalidTransition, action, from)
	}
	return to, nil
}
