package storage

import "errors"

var (
	ErrUserNotFound     = errors.New("user not found")
	ErrDinosaurNotFound = errors.New("dinosaur not found")
)
