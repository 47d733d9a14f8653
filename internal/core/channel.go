package core

import "sort"

// Channel groups users under a unique name. The owner is always a member
// while the channel exists; when the owner departs the registry destroys the
// channel outright.
type Channel struct {
	Name    string
	owner   string
	private bool
	members map[string]struct{}
}

// NewChannel constructs a channel with the owner as its sole member.
func NewChannel(name, owner string, private bool) *Channel {
	return &Channel{
		Name:    name,
		owner:   owner,
		private: private,
		members: map[string]struct{}{owner: {}},
	}
}

// Owner returns the nickname of the channel owner.
func (c *Channel) Owner() string { return c.owner }

// Private reports whether the channel is invite-only.
func (c *Channel) Private() bool { return c.private }

// Has reports whether nickname is a member.
func (c *Channel) Has(nickname string) bool {
	_, ok := c.members[nickname]
	return ok
}

// AddMember inserts a member. Returns true if newly added.
func (c *Channel) AddMember(nickname string) bool {
	if _, exists := c.members[nickname]; exists {
		return false
	}
	c.members[nickname] = struct{}{}
	return true
}

// RemoveMember deletes a member. Returns true if removed.
func (c *Channel) RemoveMember(nickname string) bool {
	if _, exists := c.members[nickname]; !exists {
		return false
	}
	delete(c.members, nickname)
	return true
}

// Len returns the member count.
func (c *Channel) Len() int { return len(c.members) }

// Members returns a sorted copy of the member nicknames. Mutating the
// returned slice does not affect the channel.
func (c *Channel) Members() []string {
	out := make([]string, 0, len(c.members))
	for m := range c.members {
		out = append(out, m)
	}
	sort.Strings(out)
	return out
}

// rename moves the membership entry, and the owner field when it applies,
// from oldNick to newNick.
func (c *Channel) rename(oldNick, newNick string) {
	if _, ok := c.members[oldNick]; ok {
		delete(c.members, oldNick)
		c.members[newNick] = struct{}{}
	}
	if c.owner == oldNick {
		c.owner = newNick
	}
}
