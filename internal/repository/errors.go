package repository

import "errors"

// ErrNotFound is returned when a requested row does not exist. Callers
// match it with errors.Is; repos wrap it with the entity name.
var ErrNotFound = errors.New("not found")

func isNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
