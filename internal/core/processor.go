package core

import (
	"fmt"
	"sort"
)

// Connect registers the connection and produces the greeting for the new
// user. The assigned nickname rides in the notification's User field.
func Connect(r *Registry, connID string) *Notification {
	nick := r.Register(connID)
	return &Notification{
		Kind:       NoteConnected,
		Recipients: []string{nick},
		User:       nick,
	}
}

// Disconnect deregisters the connection and produces the departure notice for
// everyone who shared a channel with the user. Channels owned by the user are
// destroyed.
func Disconnect(r *Registry, connID string) (*Notification, error) {
	nick, ok := r.NicknameOf(connID)
	if !ok {
		return nil, ErrUnknownConnection
	}
	witnesses, err := r.Deregister(connID)
	if err != nil {
		return nil, err
	}
	return &Notification{
		Kind:       NoteDisconnected,
		Recipients: witnesses,
		User:       nick,
	}, nil
}

// Apply executes a single command against the registry and reports who must
// be notified. On error the registry is untouched and the returned error is a
// *CommandError addressed to the sender alone: every check runs before the
// first mutation, so a failed command never leaves partial state behind.
func Apply(r *Registry, cmd *Command) (*Notification, error) {
	switch cmd.Kind {
	case KindNickname:
		return applyNickname(r, cmd)
	case KindCreate:
		return applyCreate(r, cmd)
	case KindJoin:
		return applyJoin(r, cmd)
	case KindMessage:
		return applyMessage(r, cmd)
	case KindLeave:
		return applyLeave(r, cmd)
	case KindInvite:
		return applyInvite(r, cmd)
	case KindKick:
		return applyKick(r, cmd)
	default:
		return nil, fmt.Errorf("unknown command kind %d", cmd.Kind)
	}
}

// applyNickname checks the in-use collision before validity, so an invalid
// name that also collides reports name_in_use and never reaches the rename.
func applyNickname(r *Registry, cmd *Command) (*Notification, error) {
	if _, taken := r.IDOf(cmd.Target); taken {
		return nil, commandError(ErrCodeNameInUse, cmd)
	}
	if !ValidName(cmd.Target) {
		return nil, commandError(ErrCodeInvalidName, cmd)
	}
	line := cmd.String() // rendered with the old nickname
	r.Rename(cmd.SenderID, cmd.Target)
	return &Notification{
		Kind:       NoteOK,
		Recipients: insertSorted(r.SharedWith(cmd.Target), cmd.Target),
		Command:    line,
	}, nil
}

func applyCreate(r *Registry, cmd *Command) (*Notification, error) {
	if !ValidName(cmd.Channel) {
		return nil, commandError(ErrCodeInvalidName, cmd)
	}
	if _, exists := r.Channel(cmd.Channel); exists {
		return nil, commandError(ErrCodeNameInUse, cmd)
	}
	r.CreateChannel(cmd.Channel, cmd.Sender, cmd.Private)
	return &Notification{
		Kind:       NoteOK,
		Recipients: []string{cmd.Sender},
		Command:    cmd.String(),
		Channel:    cmd.Channel,
	}, nil
}

func applyJoin(r *Registry, cmd *Command) (*Notification, error) {
	ch, ok := r.Channel(cmd.Channel)
	if !ok {
		return nil, commandError(ErrCodeNoSuchChannel, cmd)
	}
	if ch.Private() {
		return nil, commandError(ErrCodeJoinPrivate, cmd)
	}
	ch.AddMember(cmd.Sender)
	members := ch.Members()
	return &Notification{
		Kind:       NoteNames,
		Recipients: members,
		Command:    cmd.String(),
		Channel:    cmd.Channel,
		Members:    members,
		Owner:      ch.Owner(),
	}, nil
}

func applyMessage(r *Registry, cmd *Command) (*Notification, error) {
	ch, ok := r.Channel(cmd.Channel)
	if !ok {
		return nil, commandError(ErrCodeNoSuchChannel, cmd)
	}
	if !ch.Has(cmd.Sender) {
		return nil, commandError(ErrCodeNotInChannel, cmd)
	}
	return &Notification{
		Kind:       NoteOK,
		Recipients: ch.Members(),
		Command:    cmd.String(),
		Channel:    cmd.Channel,
	}, nil
}

func applyLeave(r *Registry, cmd *Command) (*Notification, error) {
	ch, ok := r.Channel(cmd.Channel)
	if !ok {
		return nil, commandError(ErrCodeNoSuchChannel, cmd)
	}
	if !ch.Has(cmd.Sender) {
		return nil, commandError(ErrCodeNotInChannel, cmd)
	}
	recipients := ch.Members() // pre-leave set, departing sender included
	if ch.Owner() == cmd.Sender {
		r.DestroyChannel(cmd.Channel)
	} else {
		ch.RemoveMember(cmd.Sender)
	}
	return &Notification{
		Kind:       NoteOK,
		Recipients: recipients,
		Command:    cmd.String(),
		Channel:    cmd.Channel,
	}, nil
}

func applyInvite(r *Registry, cmd *Command) (*Notification, error) {
	if _, registered := r.IDOf(cmd.Target); !registered {
		return nil, commandError(ErrCodeNoSuchUser, cmd)
	}
	ch, ok := r.Channel(cmd.Channel)
	if !ok {
		return nil, commandError(ErrCodeNoSuchChannel, cmd)
	}
	if !ch.Private() {
		return nil, commandError(ErrCodeInvitePublic, cmd)
	}
	if ch.Owner() != cmd.Sender {
		return nil, commandError(ErrCodeNotOwner, cmd)
	}
	ch.AddMember(cmd.Target)
	members := ch.Members()
	return &Notification{
		Kind:       NoteNames,
		Recipients: members,
		Command:    cmd.String(),
		Channel:    cmd.Channel,
		Members:    members,
		Owner:      ch.Owner(),
	}, nil
}

func applyKick(r *Registry, cmd *Command) (*Notification, error) {
	if _, registered := r.IDOf(cmd.Target); !registered {
		return nil, commandError(ErrCodeNoSuchUser, cmd)
	}
	ch, ok := r.Channel(cmd.Channel)
	if !ok {
		return nil, commandError(ErrCodeNoSuchChannel, cmd)
	}
	if ch.Owner() != cmd.Sender {
		return nil, commandError(ErrCodeNotOwner, cmd)
	}
	if !ch.Has(cmd.Target) {
		return nil, commandError(ErrCodeNotInChannel, cmd)
	}
	recipients := ch.Members() // pre-kick set, kicked user included
	if ch.Owner() == cmd.Target {
		r.DestroyChannel(cmd.Channel)
	} else {
		ch.RemoveMember(cmd.Target)
	}
	return &Notification{
		Kind:       NoteOK,
		Recipients: recipients,
		Command:    cmd.String(),
		Channel:    cmd.Channel,
	}, nil
}

// insertSorted returns list with s inserted at its sort position. The input
// must already be sorted.
func insertSorted(list []string, s string) []string {
	i := sort.SearchStrings(list, s)
	if i < len(list) && list[i] == s {
		return list
	}
	list = append(list, "")
	copy(list[i+1:], list[i:])
	list[i] = s
	return list
}
