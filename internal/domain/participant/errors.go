package participant

import (
	"errors"
)

var (
	ErrBadRequest = errors.New("bad request")
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("conflict")
)

func IsErrBadRequest(err error) bool {
	return errors.Is(err, ErrBadRequest)
}

func IsErrNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsErrConflict(err error) bool {
	return errors.Is(err, ErrConflict)
}
