package match

import "errors"

var (
	ErrNotFound        = errors.New("match not found")
	ErrAlreadyFinished = errors.New("match already finished")
)
