package ads

import (
	"errors"
)

var (
	ErrBadRequest = errors.New("bad request")
	ErrNotFound   = errors.New("not found")
)

func IsErrBadRequest(err error) bool {
	return errors.Is(err, ErrBadRequest)
}

func IsErrNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
