package document

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// FieldType names the storage type a field value is cast to
type FieldType string

const (
	TypeMixed      FieldType = "mixed"
	TypeString     FieldType = "string"
	TypeNumber     FieldType = "number"
	TypeBoolean    FieldType = "boolean"
	TypeDate       FieldType = "date"
	TypeObjectID   FieldType = "objectid"
	TypeIdentifier FieldType = "identifier"
)

var ErrCast = errors.New("cast failed")

type castError struct {
	msg string
}

func (e castError) Error() string        { return e.msg }
func (e castError) Is(target error) bool { return target == ErrCast }

func newCastError(v any, t FieldType) error {
	return &castError{msg: fmt.Sprintf("cannot cast %v (%T) to %s", v, v, t)}
}

func ParseFieldType(s string) (FieldType, error) {
	switch t := FieldType(strings.ToLower(s)); t {
	case TypeMixed, TypeString, TypeNumber, TypeBoolean, TypeDate, TypeObjectID, TypeIdentifier:
		return t, nil
	case "":
		return TypeMixed, nil
	}
	return "", fmt.Errorf("unknown field type %q", s)
}

// Cast converts v into the canonical representation of the field type.
// Nil is always accepted and returned as nil.
func (t FieldType) Cast(v any) (any, error) {
	if v == nil {
		return nil, nil
	}

	switch t {
	case TypeMixed, "":
		return v, nil
	case TypeString:
		return castString(v, t)
	case TypeNumber:
		return castNumber(v, t)
	case TypeBoolean:
		return castBoolean(v, t)
	case TypeDate:
		return castDate(v, t)
	case TypeObjectID:
		return castObjectID(v, t)
	case TypeIdentifier:
		return castIdentifier(v, t)
	}

	return nil, fmt.Errorf("unknown field type %q", string(t))
}

func castString(v any, t FieldType) (any, error) {
	switch s := v.(type) {
	case string:
		return s, nil
	case uuid.UUID:
		return s.String(), nil
	case bool:
		return strconv.FormatBool(s), nil
	case time.Time:
		return s.UTC().Format(time.RFC3339Nano), nil
	}

	if i, ok := toInteger(v); ok {
		return strconv.FormatInt(i, 10), nil
	}
	if f, ok := toFloat(v); ok {
		return strconv.FormatFloat(f, 'g', -1, 64), nil
	}

	return nil, newCastError(v, t)
}

func castNumber(v any, t FieldType) (any, error) {
	if i, ok := toInteger(v); ok {
		return i, nil
	}
	if f, ok := toFloat(v); ok {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, newCastError(v, t)
		}
		return f, nil
	}

	if s, ok := v.(string); ok {
		s = strings.TrimSpace(s)
		if i, err := strconv.ParseInt(s, 10, 64); err == nil {
			return i, nil
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
			return f, nil
		}
	}

	return nil, newCastError(v, t)
}

func castBoolean(v any, t FieldType) (any, error) {
	switch b := v.(type) {
	case bool:
		return b, nil
	case string:
		switch strings.ToLower(strings.TrimSpace(b)) {
		case "true", "1", "yes":
			return true, nil
		case "false", "0", "no":
			return false, nil
		}
	}

	if i, ok := toInteger(v); ok && (i == 0 || i == 1) {
		return i == 1, nil
	}

	return nil, newCastError(v, t)
}

func castDate(v any, t FieldType) (any, error) {
	switch d := v.(type) {
	case time.Time:
		return d.UTC(), nil
	case string:
		ts, err := time.Parse(time.RFC3339Nano, d)
		if err != nil {
			return nil, newCastError(v, t)
		}
		return ts.UTC(), nil
	}

	if ms, ok := toInteger(v); ok {
		return time.UnixMilli(ms).UTC(), nil
	}

	return nil, newCastError(v, t)
}

func castObjectID(v any, t FieldType) (any, error) {
	switch id := v.(type) {
	case uuid.UUID:
		return id.String(), nil
	case string:
		parsed, err := uuid.Parse(id)
		if err != nil {
			return nil, newCastError(v, t)
		}
		return parsed.String(), nil
	}

	return nil, newCastError(v, t)
}

// castIdentifier accepts strings and integral numbers as is, which is what
// tenant identifiers are by default
func castIdentifier(v any, t FieldType) (any, error) {
	switch id := v.(type) {
	case string:
		return id, nil
	case uuid.UUID:
		return id.String(), nil
	case bool:
		return nil, newCastError(v, t)
	case json.Number:
		if i, err := id.Int64(); err == nil {
			return i, nil
		}
		return nil, newCastError(v, t)
	}

	if i, ok := toInteger(v); ok {
		return i, nil
	}

	return nil, newCastError(v, t)
}
