package roster

import "errors"

var (
	ErrMemberNotFound = errors.New("member not found")
	errUnchanged      = errors.New("member unchanged")
)
