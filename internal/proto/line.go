// Package proto implements the textual wire protocol: canonical command lines
// coming from clients and event lines going back to them.
package proto

import (
	"errors"
	"fmt"
	"strings"

	"github.com/vovakirdan/relaychat-server/internal/core"
)

// Command verbs accepted on inbound lines.
const (
	VerbNick   = "NICK"
	VerbCreate = "CREATE"
	VerbJoin   = "JOIN"
	VerbMesg   = "MESG"
	VerbLeave  = "LEAVE"
	VerbInvite = "INVITE"
	VerbKick   = "KICK"
)

// Outbound-only verbs.
const (
	VerbConnect = "CONNECT"
	VerbQuit    = "QUIT"
	VerbNames   = "NAMES"
	VerbError   = "ERROR"
)

// ErrMalformed reports input that does not form a valid command line.
// Malformed input is rejected here, before a core.Command is ever built, so
// it never enters the core error taxonomy.
var ErrMalformed = errors.New("malformed command line")

// Parse decodes a canonical ":<sender> VERB <args...>" line into a command.
// The sender prefix is advisory: transports overwrite it with the nickname
// registered for the issuing connection before the command is applied.
func Parse(line string) (*core.Command, error) {
	line = strings.TrimRight(line, "\r\n")
	if !strings.HasPrefix(line, ":") {
		return nil, fmt.Errorf("%w: missing sender prefix", ErrMalformed)
	}

	head, trailing, hasTrailing := strings.Cut(line[1:], " :")
	fields := strings.Fields(head)
	if len(fields) < 2 {
		return nil, fmt.Errorf("%w: %q", ErrMalformed, line)
	}
	sender, verb, args := fields[0], fields[1], fields[2:]
	cmd := &core.Command{Sender: sender}

	switch verb {
	case VerbNick:
		if len(args) != 1 || hasTrailing {
			return nil, fmt.Errorf("%w: %s wants one argument", ErrMalformed, verb)
		}
		cmd.Kind = core.KindNickname
		cmd.Target = args[0]
	case VerbCreate:
		if len(args) != 2 || hasTrailing {
			return nil, fmt.Errorf("%w: %s wants a channel and a flag", ErrMalformed, verb)
		}
		cmd.Kind = core.KindCreate
		cmd.Channel = args[0]
		switch args[1] {
		case "0":
			cmd.Private = false
		case "1":
			cmd.Private = true
		default:
			return nil, fmt.Errorf("%w: invite-only flag must be 0 or 1", ErrMalformed)
		}
	case VerbJoin:
		if len(args) != 1 || hasTrailing {
			return nil, fmt.Errorf("%w: %s wants one argument", ErrMalformed, verb)
		}
		cmd.Kind = core.KindJoin
		cmd.Channel = args[0]
	case VerbMesg:
		if len(args) != 1 || !hasTrailing {
			return nil, fmt.Errorf("%w: %s wants a channel and a trailing message", ErrMalformed, verb)
		}
		cmd.Kind = core.KindMessage
		cmd.Channel = args[0]
		cmd.Text = trailing
	case VerbLeave:
		if len(args) != 1 || hasTrailing {
			return nil, fmt.Errorf("%w: %s wants one argument", ErrMalformed, verb)
		}
		cmd.Kind = core.KindLeave
		cmd.Channel = args[0]
	case VerbInvite:
		if len(args) != 2 || hasTrailing {
			return nil, fmt.Errorf("%w: %s wants a channel and a user", ErrMalformed, verb)
		}
		cmd.Kind = core.KindInvite
		cmd.Channel = args[0]
		cmd.Target = args[1]
	case VerbKick:
		if len(args) != 2 || hasTrailing {
			return nil, fmt.Errorf("%w: %s wants a channel and a user", ErrMalformed, verb)
		}
		cmd.Kind = core.KindKick
		cmd.Channel = args[0]
		cmd.Target = args[1]
	default:
		return nil, fmt.Errorf("%w: unknown verb %q", ErrMalformed, verb)
	}
	return cmd, nil
}

// RenderEvent encodes a hub event as an outbound wire line.
func RenderEvent(ev *core.Event) string {
	switch ev.Kind {
	case core.NoteConnected:
		return fmt.Sprintf(":%s %s", ev.User, VerbConnect)
	case core.NoteDisconnected:
		return fmt.Sprintf(":%s %s", ev.User, VerbQuit)
	case core.NoteOK:
		return ev.Command
	case core.NoteNames:
		return fmt.Sprintf(":%s %s %s :%s", ev.Owner, VerbNames, ev.Channel, strings.Join(ev.Members, " "))
	case core.NoteError:
		return fmt.Sprintf("%s %s :%s", VerbError, ev.Err.Code, ev.Err.Cmd)
	default:
		return ""
	}
}

// RenderMalformed encodes a parse failure as an outbound error line.
func RenderMalformed(err error) string {
	return fmt.Sprintf("%s malformed :%s", VerbError, err)
}
