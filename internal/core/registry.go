package core

import (
	"fmt"
	"sort"
	"unicode"
)

// Registry tracks every registered user and channel. The nickname map is a
// bijection: at any instant one connection holds one nickname and vice versa.
//
// A Registry is not safe for concurrent use. The Hub owns one instance and
// serializes every mutation and query through its run loop.
type Registry struct {
	users    map[string]string   // connection id -> nickname
	nicks    map[string]string   // nickname -> connection id
	channels map[string]*Channel // channel name -> channel
}

// NewRegistry constructs an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		users:    make(map[string]string),
		nicks:    make(map[string]string),
		channels: make(map[string]*Channel),
	}
}

// ValidName reports whether name is usable as a nickname or channel name:
// non-empty and composed entirely of letters and digits.
func ValidName(name string) bool {
	if name == "" {
		return false
	}
	for _, r := range name {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// Register adds a user under the smallest unused default nickname of the form
// UserN and returns that nickname. The caller must not register a connection
// id that is already registered.
func (r *Registry) Register(connID string) string {
	nick := r.defaultNickname()
	r.users[connID] = nick
	r.nicks[nick] = connID
	return nick
}

func (r *Registry) defaultNickname() string {
	for n := 0; ; n++ {
		nick := fmt.Sprintf("User%d", n)
		if _, taken := r.nicks[nick]; !taken {
			return nick
		}
	}
}

// Deregister removes the user behind connID, removes them from every
// channel's member set and destroys the channels they own. It returns the
// nicknames of everyone who shared a channel with the departing user,
// computed before removal, so they can be told about the departure.
func (r *Registry) Deregister(connID string) ([]string, error) {
	nick, ok := r.users[connID]
	if !ok {
		return nil, ErrUnknownConnection
	}
	witnesses := r.SharedWith(nick)
	delete(r.users, connID)
	delete(r.nicks, nick)

	// Membership cleanup runs over every channel before any owned channel is
	// destroyed; deleting mid-walk would touch channels already slated for
	// destruction.
	var owned []string
	for name, ch := range r.channels {
		ch.RemoveMember(nick)
		if ch.Owner() == nick {
			owned = append(owned, name)
		}
	}
	for _, name := range owned {
		delete(r.channels, name)
	}
	return witnesses, nil
}

// IDOf returns the connection id registered under nickname.
func (r *Registry) IDOf(nickname string) (string, bool) {
	id, ok := r.nicks[nickname]
	return id, ok
}

// NicknameOf returns the nickname registered for connID.
func (r *Registry) NicknameOf(connID string) (string, bool) {
	nick, ok := r.users[connID]
	return nick, ok
}

// Users returns a sorted copy of all registered nicknames. Mutating the
// returned slice does not affect the registry.
func (r *Registry) Users() []string {
	out := make([]string, 0, len(r.nicks))
	for nick := range r.nicks {
		out = append(out, nick)
	}
	sort.Strings(out)
	return out
}

// Channels returns a sorted copy of all channel names. Mutating the returned
// slice does not affect the registry.
func (r *Registry) Channels() []string {
	out := make([]string, 0, len(r.channels))
	for name := range r.channels {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Channel returns the channel with the given name.
func (r *Registry) Channel(name string) (*Channel, bool) {
	ch, ok := r.channels[name]
	return ch, ok
}

// Members returns a sorted copy of the named channel's member nicknames, or
// false if no such channel exists.
func (r *Registry) Members(name string) ([]string, bool) {
	ch, ok := r.channels[name]
	if !ok {
		return nil, false
	}
	return ch.Members(), true
}

// SharedWith returns every user who shares at least one channel with
// nickname, excluding nickname itself, sorted.
func (r *Registry) SharedWith(nickname string) []string {
	set := make(map[string]struct{})
	for _, ch := range r.channels {
		if !ch.Has(nickname) {
			continue
		}
		for m := range ch.members {
			set[m] = struct{}{}
		}
	}
	delete(set, nickname)
	out := make([]string, 0, len(set))
	for m := range set {
		out = append(out, m)
	}
	sort.Strings(out)
	return out
}

// CreateChannel inserts a channel with owner as its sole member and returns
// it. The caller is responsible for validating the name and checking that it
// is unused; the registry performs no validation here.
func (r *Registry) CreateChannel(name, owner string, private bool) *Channel {
	ch := NewChannel(name, owner, private)
	r.channels[name] = ch
	return ch
}

// DestroyChannel removes the channel outright, members and all. Removing an
// absent channel is a no-op.
func (r *Registry) DestroyChannel(name string) {
	delete(r.channels, name)
}

// AddMember adds nickname to the named channel. Adding an already-present
// member, or adding to an absent channel, is a no-op.
func (r *Registry) AddMember(channel, nickname string) {
	if ch, ok := r.channels[channel]; ok {
		ch.AddMember(nickname)
	}
}

// RemoveMember removes nickname from the named channel. Removing an absent
// member, or removing from an absent channel, is a no-op.
func (r *Registry) RemoveMember(channel, nickname string) {
	if ch, ok := r.channels[channel]; ok {
		ch.RemoveMember(nickname)
	}
}

// Rename rebinds connID to newNick and propagates the change into every
// channel's member set and owner field. The caller must have checked that
// newNick is valid and unused.
func (r *Registry) Rename(connID, newNick string) {
	oldNick, ok := r.users[connID]
	if !ok {
		return
	}
	delete(r.nicks, oldNick)
	r.users[connID] = newNick
	r.nicks[newNick] = connID
	for _, ch := range r.channels {
		ch.rename(oldNick, newNick)
	}
}
