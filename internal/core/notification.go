package core

// NoteKind classifies what a notification or event describes.
type NoteKind int

const (
	// NoteConnected greets a newly registered user with their nickname.
	NoteConnected NoteKind = iota
	// NoteDisconnected tells channel mates that a user is gone.
	NoteDisconnected
	// NoteOK acknowledges a successful command to everyone affected.
	NoteOK
	// NoteNames carries a channel's member list after a join or invite.
	NoteNames
	// NoteError reports a failed command back to its sender.
	NoteError
)

// Notification is the pure-data result of a state transition: who must be
// told, and what about. Recipients are nicknames valid in the post-transition
// state, sorted. No I/O happens to produce or hold one.
type Notification struct {
	Kind       NoteKind
	Recipients []string
	Command    string   // canonical line of the triggering command, for NoteOK and NoteNames
	User       string   // subject nickname for NoteConnected and NoteDisconnected
	Channel    string
	Members    []string // post-change member set for NoteNames
	Owner      string   // channel owner for NoteNames
}

// Event is the per-client projection of a Notification, or of a command
// error, as delivered by the hub.
type Event struct {
	Kind    NoteKind
	Command string
	User    string
	Channel string
	Members []string
	Owner   string
	Err     *CommandError
}
