package message

import (
	"sort"

	"anoa.com/kgscp/internal/entity"
	"github.com/google/uuid"
)

// Partitions splits a user's messages by how the inbox shows them. A message may sit in
// more than one list (an accepted message I sent is both outgoing and chat-eligible).
type Partitions struct {
	IncomingPending []entity.Message
	Outgoing        []entity.Message
	OnHold          []entity.Message
	ChatEligible    []entity.Message
}

// Normalize fills defaults for rows written by older clients.
func Normalize(messages []entity.Message) []entity.Message {
	out := make([]entity.Message, 0, len(messages))
	for _, m := range messages {
		m.Status = string(NormalizeStatus(m.Status))
		if m.Type == "" {
			m.Type = entity.MessageTypeDefault
		}
		out = append(out, m)
	}
	return out
}

func Partition(messages []entity.Message, me uuid.UUID) Partitions {
	p := Partitions{
		IncomingPending: []entity.Message{},
		Outgoing:        []entity.Message{},
		OnHold:          []entity.Message{},
		ChatEligible:    []entity.Message{},
	}

	for _, m := range messages {
		status := NormalizeStatus(m.Status)
		// a message to myself only counts as outgoing
		incoming := m.ReceiverID == me && m.SenderID != me
		outgoing := m.SenderID == me

		if incoming && status == StatusPending {
			p.IncomingPending = append(p.IncomingPending, m)
		}
		if outgoing {
			p.Outgoing = append(p.Outgoing, m)
		}
		if incoming && status == StatusOnHold {
			p.OnHold = append(p.OnHold, m)
		}
		if status == StatusAccepted && (incoming || outgoing) {
			p.ChatEligible = append(p.ChatEligible, m)
		}
	}
	return p
}

func counterpart(m entity.Message, me uuid.UUID) uuid.UUID {
	if m.SenderID == me {
		return m.ReceiverID
	}
	return m.SenderID
}

// ChatPartners lists the distinct counterparts of chat-eligible messages in first-seen order.
func ChatPartners(chatEligible []entity.Message, me uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]bool)
	partners := []uuid.UUID{}
	for _, m := range chatEligible {
		other := counterpart(m, me)
		if seen[other] {
			continue
		}
		seen[other] = true
		partners = append(partners, other)
	}
	return partners
}

// Conversation returns the chat-eligible messages between me and partner, oldest first.
func Conversation(chatEligible []entity.Message, me, partner uuid.UUID) []entity.Message {
	conv := []entity.Message{}
	for _, m := range chatEligible {
		if (m.SenderID == me && m.ReceiverID == partner) || (m.SenderID == partner && m.ReceiverID == me) {
			conv = append(conv, m)
		}
	}
	sort.SliceStable(conv, func(i, j int) bool {
		return conv[i].CreatedAt.Before(conv[j].CreatedAt)
	})
	return conv
}
