package core

import (
	"errors"
	"fmt"
)

// Error codes for domain errors. All of them are recoverable and user-facing;
// they go back to the offending sender only, never to the rest of a channel.
const (
	ErrCodeInvalidName   = "invalid_name"
	ErrCodeNameInUse     = "name_in_use"
	ErrCodeNoSuchChannel = "no_such_channel"
	ErrCodeNoSuchUser    = "no_such_user"
	ErrCodeNotInChannel  = "not_in_channel"
	ErrCodeNotOwner      = "not_owner"
	ErrCodeJoinPrivate   = "join_private_channel"
	ErrCodeInvitePublic  = "invite_to_public_channel"
)

var (
	// ErrUnknownConnection reports a connection identifier that was never
	// registered, or was already deregistered.
	ErrUnknownConnection = errors.New("unknown connection")
	// ErrNoSuchChannel reports a snapshot query against an absent channel.
	ErrNoSuchChannel = errors.New("no such channel")
)

// CommandError pairs an error code with the offending command so the
// transport can echo the command back to its sender.
type CommandError struct {
	Code string
	Cmd  *Command
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Cmd)
}

func commandError(code string, cmd *Command) *CommandError {
	return &CommandError{Code: code, Cmd: cmd}
}
