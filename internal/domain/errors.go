package domain

import "errors"

var (
	// ErrRoomNotFound is returned when no room exists for the given code.
	ErrRoomNotFound = errors.New("room not found")
	// ErrRoomExists is returned by registries when a room code collides.
	ErrRoomExists = errors.New("room already exists")
	// ErrInvalidState is returned for operations not valid in the room's current status.
	ErrInvalidState = errors.New("operation not valid in current room state")
	// ErrRoomFull is returned when a join would exceed the mode capacity.
	ErrRoomFull = errors.New("room is full")
	// ErrForbidden is returned when a non-host attempts a host-only action.
	ErrForbidden = errors.New("only the host may perform this action")
	// ErrDuplicateAnswer is returned when a (player, question) pair already answered.
	ErrDuplicateAnswer = errors.New("answer already submitted for this question")
	// ErrInvalidIndex is returned for question indexes outside the snapshot range.
	ErrInvalidIndex = errors.New("question index out of range")
	// ErrPlayerNotFound is returned when a user acts on a room they never joined.
	ErrPlayerNotFound = errors.New("player not found in room")
	// ErrBankUnavailable indicates the question bank could not serve a sample.
	ErrBankUnavailable = errors.New("question bank unavailable")
)
