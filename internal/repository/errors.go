package repository

import "errors"

var (
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("conflict")
	ErrInvalid    = errors.New("invalid input")
	ErrRoomIsFull = errors.New("room is full")
	ErrPollClosed = errors.New("poll is closed")
)
