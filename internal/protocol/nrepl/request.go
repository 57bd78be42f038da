package nrepl

import (
	"errors"
	"fmt"

	"github.com/slatelisp/nrepld/internal/protocol/bencode"
)

// Dictionary keys and operation names recognized on the wire.
const (
	KeyOp         = "op"
	KeyID         = "id"
	KeyNewSession = "new-session"
	KeyStatus     = "status"
	KeyError      = "error"
	KeyField      = "field"

	OpClone = "clone"
)

var (
	ErrNotDict        = errors.New("nrepl: request is not a dictionary")
	ErrNonStringValue = errors.New("nrepl: dictionary value is not a string")
	ErrNoOp           = errors.New("nrepl: missing op")
	ErrUnknownOp      = errors.New("nrepl: unknown op")
)

// MissingFieldError indicates an op-specific required field was not present.
type MissingFieldError struct {
	Op    string
	Field string
}

func (e MissingFieldError) Error() string {
	return fmt.Sprintf("nrepl: op %s requires field %q", e.Op, e.Field)
}

// Request is one interpreted client operation.
type Request interface {
	Op() string
}

// Clone registers a session under ID and asks for a follow-on session
// identifier.
type Clone struct {
	ID string
}

func (Clone) Op() string { return OpClone }

// Interpret maps a decoded top-level value onto a Request.
//
// The value must be a dictionary whose values are all byte-strings.
// Fields beyond those required by the matched op are ignored; duplicate
// keys resolve to their first occurrence.
func Interpret(v bencode.Value) (Request, error) {
	fields, err := stringFields(v)
	if err != nil {
		return nil, err
	}
	op, ok := fields[KeyOp]
	if !ok {
		return nil, ErrNoOp
	}
	switch op {
	case OpClone:
		id, ok := fields[KeyID]
		if !ok {
			return nil, MissingFieldError{Op: OpClone, Field: KeyID}
		}
		return Clone{ID: id}, nil
	default:
		return nil, fmt.Errorf("%w %q", ErrUnknownOp, op)
	}
}

func stringFields(v bencode.Value) (map[string]string, error) {
	if v.Kind != bencode.KindDict {
		return nil, ErrNotDict
	}
	fields := make(map[string]string, len(v.Dict))
	for _, p := range v.Dict {
		if p.Value.Kind != bencode.KindBytes {
			return nil, fmt.Errorf("%w: key %q", ErrNonStringValue, p.Key)
		}
		if _, ok := fields[p.Key]; !ok {
			fields[p.Key] = string(p.Value.Bytes)
		}
	}
	return fields, nil
}

// EchoID extracts a request id usable in a rejection reply. It returns
// "" when v is not a dictionary or carries no string id.
func EchoID(v bencode.Value) string {
	if v.Kind != bencode.KindDict {
		return ""
	}
	id, ok := v.DictGet(KeyID)
	if !ok || id.Kind != bencode.KindBytes {
		return ""
	}
	return string(id.Bytes)
}
