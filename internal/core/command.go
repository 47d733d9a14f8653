package core

import "fmt"

// Kind discriminates the command variants a client can issue.
type Kind int

const (
	// KindNickname changes the sender's nickname.
	KindNickname Kind = iota
	// KindCreate creates a new channel owned by the sender.
	KindCreate
	// KindJoin adds the sender to a public channel.
	KindJoin
	// KindMessage sends a message to every member of a channel.
	KindMessage
	// KindLeave removes the sender from a channel.
	KindLeave
	// KindInvite adds another user to an invite-only channel owned by the sender.
	KindInvite
	// KindKick removes another user from a channel owned by the sender.
	KindKick
)

// Command is a parsed client request. SenderID and Sender identify the issuing
// connection and its nickname as captured at parse time. The remaining fields
// depend on the kind: Target holds the new nickname for KindNickname and the
// affected user for KindInvite and KindKick, Text holds the body for
// KindMessage, Private holds the invite-only flag for KindCreate.
type Command struct {
	SenderID string
	Sender   string
	Kind     Kind
	Channel  string
	Target   string
	Text     string
	Private  bool
}

// String renders the canonical wire line for the command. Two commands are
// equal iff their renderings are equal.
func (c *Command) String() string {
	switch c.Kind {
	case KindNickname:
		return fmt.Sprintf(":%s NICK %s", c.Sender, c.Target)
	case KindCreate:
		flag := 0
		if c.Private {
			flag = 1
		}
		return fmt.Sprintf(":%s CREATE %s %d", c.Sender, c.Channel, flag)
	case KindJoin:
		return fmt.Sprintf(":%s JOIN %s", c.Sender, c.Channel)
	case KindMessage:
		return fmt.Sprintf(":%s MESG %s :%s", c.Sender, c.Channel, c.Text)
	case KindLeave:
		return fmt.Sprintf(":%s LEAVE %s", c.Sender, c.Channel)
	case KindInvite:
		return fmt.Sprintf(":%s INVITE %s %s", c.Sender, c.Channel, c.Target)
	case KindKick:
		return fmt.Sprintf(":%s KICK %s %s", c.Sender, c.Channel, c.Target)
	default:
		return fmt.Sprintf(":%s UNKNOWN", c.Sender)
	}
}
