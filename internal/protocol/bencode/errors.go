package bencode

import "errors"

var (
	ErrTruncated      = errors.New("bencode: truncated data")
	ErrInvalidToken   = errors.New("bencode: invalid token")
	ErrInvalidLength  = errors.New("bencode: invalid string length")
	ErrInvalidInteger = errors.New("bencode: invalid integer")
	ErrInvalidKey     = errors.New("bencode: dictionary key is not a string")
	ErrTrailingData   = errors.New("bencode: trailing data after value")
	ErrStringTooLarge = errors.New("bencode: string exceeds limit")
	ErrValueTooLarge  = errors.New("bencode: value exceeds limit")
	ErrTooDeep        = errors.New("bencode: nesting too deep")
	ErrKindMismatch   = errors.New("bencode: kind mismatch")
)
