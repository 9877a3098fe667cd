package odm

import (
	"errors"
)

var ErrModelExists = errors.New("model already registered")
var ErrUnknownModel = errors.New("unknown model")
var ErrNotAReference = errors.New("field is not a reference")
var ErrDocumentNotFound = errors.New("document not found")
