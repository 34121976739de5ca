package identity

import "errors"

var (
	ErrUnknownIdentity = errors.New("no registered user matches the given identifiers")
	ErrAliasTaken      = errors.New("alias is already registered to another user")
)
