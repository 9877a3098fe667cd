package schema

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var ErrValidation = errors.New("validation failed")

// ValidationError lists the reasons a document was rejected, keyed by path
type ValidationError struct {
	Errors map[string]string
}

func (e *ValidationError) Error() string {
	paths := make([]string, 0, len(e.Errors))
	for p := range e.Errors {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	reasons := make([]string, 0, len(paths))
	for _, p := range paths {
		reasons = append(reasons, fmt.Sprintf("%s: %s", p, e.Errors[p]))
	}

	return fmt.Sprintf("%s: %s", ErrValidation.Error(), strings.Join(reasons, ", "))
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

func (e *ValidationError) add(path, reason string) {
	if e.Errors == nil {
		e.Errors = map[string]string{}
	}
	e.Errors[path] = reason
}

func (e *ValidationError) orNil() error {
	if len(e.Errors) == 0 {
		return nil
	}
	return e
}
