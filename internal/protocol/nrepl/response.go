package nrepl

import (
	"errors"

	"github.com/slatelisp/nrepld/internal/protocol/bencode"
)

// Status markers carried in the status field of a reply.
const (
	StatusDone  = "done"
	StatusError = "error"
)

// Error tokens carried in the error field of a rejection.
const (
	TokenDecodeError     = "decode-error"
	TokenUnexpectedShape = "unexpected-shape"
	TokenNonStringValue  = "non-string-value"
	TokenMissingOp       = "missing-op"
	TokenUnknownOp       = "unknown-op"
	TokenMissingField    = "missing-field"
)

// Response is one protocol reply, encodable as a dictionary with a
// fixed key order.
type Response interface {
	wire() bencode.Value
}

// Cloned reports a successful clone. ID echoes the request id;
// NewSession carries the freshly minted identifier.
type Cloned struct {
	ID         string
	NewSession string
}

func (r Cloned) wire() bencode.Value {
	return bencode.NewDict(
		bencode.Pair{Key: KeyID, Value: bencode.NewString(r.ID)},
		bencode.Pair{Key: KeyNewSession, Value: bencode.NewString(r.NewSession)},
		bencode.Pair{Key: KeyStatus, Value: bencode.NewString(StatusDone)},
	)
}

// Rejection reports a failed request. ID echoes the request id when the
// request was decodable and carried one; Field names the absent field
// for missing-field rejections.
type Rejection struct {
	ID    string
	Token string
	Field string
}

func (r Rejection) wire() bencode.Value {
	pairs := make([]bencode.Pair, 0, 4)
	if r.ID != "" {
		pairs = append(pairs, bencode.Pair{Key: KeyID, Value: bencode.NewString(r.ID)})
	}
	pairs = append(pairs, bencode.Pair{Key: KeyError, Value: bencode.NewString(r.Token)})
	if r.Field != "" {
		pairs = append(pairs, bencode.Pair{Key: KeyField, Value: bencode.NewString(r.Field)})
	}
	pairs = append(pairs, bencode.Pair{Key: KeyStatus, Value: bencode.NewString(StatusError)})
	return bencode.NewDict(pairs...)
}

// EncodeResponse serializes resp for the wire.
func EncodeResponse(resp Response) ([]byte, error) {
	return bencode.Encode(resp.wire())
}

// Reject builds the rejection reply for err. id echoes the request id
// when the caller could read one; pass "" otherwise.
func Reject(id string, err error) Rejection {
	rej := Rejection{ID: id}
	var missing MissingFieldError
	switch {
	case errors.As(err, &missing):
		rej.Token = TokenMissingField
		rej.Field = missing.Field
	case errors.Is(err, ErrNotDict):
		rej.Token = TokenUnexpectedShape
	case errors.Is(err, ErrNonStringValue):
		rej.Token = TokenNonStringValue
	case errors.Is(err, ErrNoOp):
		rej.Token = TokenMissingOp
	case errors.Is(err, ErrUnknownOp):
		rej.Token = TokenUnknownOp
	default:
		rej.Token = TokenDecodeError
	}
	return rej
}
