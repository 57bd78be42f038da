package bencode

// Kind discriminates the value variants of the encoding.
type Kind uint8

const (
	KindBytes Kind = iota + 1
	KindInt
	KindList
	KindDict
)

// Pair is one dictionary entry. Dictionaries keep their wire order.
type Pair struct {
	Key   string
	Value Value
}

// Value is one decoded wire value.
type Value struct {
	Kind  Kind
	Bytes []byte
	Int   int64
	List  []Value
	Dict  []Pair
}

// NewString creates a byte-string value from s.
func NewString(s string) Value {
	return Value{Kind: KindBytes, Bytes: []byte(s)}
}

// NewInt creates an integer value.
func NewInt(n int64) Value {
	return Value{Kind: KindInt, Int: n}
}

// NewList creates a list value from items.
func NewList(items ...Value) Value {
	return Value{Kind: KindList, List: items}
}

// NewDict creates a dictionary value whose entries encode in argument order.
func NewDict(pairs ...Pair) Value {
	return Value{Kind: KindDict, Dict: pairs}
}

// AsBytes returns the raw bytes of a byte-string value.
func (v Value) AsBytes() ([]byte, error) {
	if v.Kind != KindBytes {
		return nil, ErrKindMismatch
	}
	return v.Bytes, nil
}

// AsString returns a byte-string value as a string.
func (v Value) AsString() (string, error) {
	if v.Kind != KindBytes {
		return "", ErrKindMismatch
	}
	return string(v.Bytes), nil
}

// DictGet returns the first entry under key and whether one is present.
func (v Value) DictGet(key string) (Value, bool) {
	for _, p := range v.Dict {
		if p.Key == key {
			return p.Value, true
		}
	}
	return Value{}, false
}
