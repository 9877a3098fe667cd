package store

import (
	"errors"
	"fmt"
)

var ErrDuplicateKey = errors.New("duplicate key")
var ErrInvalidUpdate = errors.New("invalid update")
var ErrReplaceMany = errors.New("replacement is not allowed when updating many documents")
var ErrUnsupported = errors.New("unsupported operation")

type storeError struct {
	msg    string
	target error
}

func (e storeError) Error() string        { return e.msg }
func (e storeError) Is(target error) bool { return target == e.target }

func NewDuplicateKeyError(collection, index string, key any) error {
	return &storeError{
		msg:    fmt.Sprintf("duplicate key error in collection %s, index %s, key %v", collection, index, key),
		target: ErrDuplicateKey,
	}
}

func NewInvalidUpdateError(msg string) error {
	return &storeError{
		msg:    msg,
		target: ErrInvalidUpdate,
	}
}

func NewUnsupportedError(msg string) error {
	return &storeError{
		msg:    msg,
		target: ErrUnsupported,
	}
}
