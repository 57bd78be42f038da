package bencode

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"strconv"
)

// maxNesting caps recursive list/dict depth for untrusted input.
const maxNesting = 64

// Limits constrains decode memory use for untrusted input.
// Zero fields leave that bound unenforced.
type Limits struct {
	MaxValueBytes  int64
	MaxStringBytes int64
}

// DefaultLimits returns conservative limits suitable for local tooling.
func DefaultLimits() Limits {
	return Limits{
		MaxValueBytes:  1 * 1024 * 1024,
		MaxStringBytes: 512 * 1024,
	}
}

// ReadValue reads exactly one value from r, consuming no bytes past it.
// Completeness is decided by the grammar, not by read sizes, so one
// logical request may span any number of underlying reads.
//
// io.EOF is returned only when the stream ends before the first byte of
// a value; an EOF inside a value is ErrTruncated.
func ReadValue(r *bufio.Reader, limits Limits) (Value, error) {
	first, err := r.ReadByte()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return Value{}, io.EOF
		}
		return Value{}, err
	}
	d := &decoder{r: r, limits: limits, n: 1}
	return d.value(first)
}

// Decode parses one value from data. Unconsumed bytes are an error.
func Decode(data []byte, limits Limits) (Value, error) {
	r := bufio.NewReader(bytes.NewReader(data))
	v, err := ReadValue(r, limits)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return Value{}, ErrTruncated
		}
		return Value{}, err
	}
	if _, err := r.ReadByte(); !errors.Is(err, io.EOF) {
		return Value{}, ErrTrailingData
	}
	return v, nil
}

type decoder struct {
	r      *bufio.Reader
	limits Limits
	n      int64
	depth  int
}

// next returns one byte from inside a value; EOF here means the value
// was cut off.
func (d *decoder) next() (byte, error) {
	b, err := d.r.ReadByte()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return 0, ErrTruncated
		}
		return 0, err
	}
	d.n++
	if d.limits.MaxValueBytes > 0 && d.n > d.limits.MaxValueBytes {
		return 0, ErrValueTooLarge
	}
	return b, nil
}

func (d *decoder) value(first byte) (Value, error) {
	switch {
	case first == 'i':
		return d.integer()
	case first == 'l':
		return d.list()
	case first == 'd':
		return d.dict()
	case first >= '0' && first <= '9':
		return d.str(first)
	default:
		return Value{}, ErrInvalidToken
	}
}

func (d *decoder) integer() (Value, error) {
	digits := make([]byte, 0, 20)
	for {
		b, err := d.next()
		if err != nil {
			return Value{}, err
		}
		if b == 'e' {
			break
		}
		if len(digits) == 20 {
			return Value{}, ErrInvalidInteger
		}
		digits = append(digits, b)
	}
	n, err := parseInt(digits)
	if err != nil {
		return Value{}, err
	}
	return Value{Kind: KindInt, Int: n}, nil
}

// parseInt enforces the canonical integer form: an optional minus sign,
// then digits with no leading zeros; "-0" is invalid.
func parseInt(digits []byte) (int64, error) {
	s := string(digits)
	body := s
	if len(body) > 0 && body[0] == '-' {
		body = body[1:]
		if body == "0" {
			return 0, ErrInvalidInteger
		}
	}
	if body == "" {
		return 0, ErrInvalidInteger
	}
	if len(body) > 1 && body[0] == '0' {
		return 0, ErrInvalidInteger
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, ErrInvalidInteger
	}
	return n, nil
}

func (d *decoder) str(first byte) (Value, error) {
	length := int64(first - '0')
	zeroLen := first == '0'
	for {
		b, err := d.next()
		if err != nil {
			return Value{}, err
		}
		if b == ':' {
			break
		}
		if b < '0' || b > '9' || zeroLen {
			return Value{}, ErrInvalidLength
		}
		if length > (1<<53)/10 {
			return Value{}, ErrInvalidLength
		}
		length = length*10 + int64(b-'0')
	}
	if d.limits.MaxStringBytes > 0 && length > d.limits.MaxStringBytes {
		return Value{}, ErrStringTooLarge
	}
	if d.limits.MaxValueBytes > 0 && d.n+length > d.limits.MaxValueBytes {
		return Value{}, ErrValueTooLarge
	}
	buf := make([]byte, length)
	if _, err := io.ReadFull(d.r, buf); err != nil {
		return Value{}, ErrTruncated
	}
	d.n += length
	return Value{Kind: KindBytes, Bytes: buf}, nil
}

func (d *decoder) list() (Value, error) {
	if err := d.push(); err != nil {
		return Value{}, err
	}
	defer d.pop()
	items := make([]Value, 0, 4)
	for {
		b, err := d.next()
		if err != nil {
			return Value{}, err
		}
		if b == 'e' {
			return Value{Kind: KindList, List: items}, nil
		}
		item, err := d.value(b)
		if err != nil {
			return Value{}, err
		}
		items = append(items, item)
	}
}

func (d *decoder) dict() (Value, error) {
	if err := d.push(); err != nil {
		return Value{}, err
	}
	defer d.pop()
	pairs := make([]Pair, 0, 4)
	for {
		b, err := d.next()
		if err != nil {
			return Value{}, err
		}
		if b == 'e' {
			return Value{Kind: KindDict, Dict: pairs}, nil
		}
		if b < '0' || b > '9' {
			return Value{}, ErrInvalidKey
		}
		key, err := d.str(b)
		if err != nil {
			return Value{}, err
		}
		vb, err := d.next()
		if err != nil {
			return Value{}, err
		}
		val, err := d.value(vb)
		if err != nil {
			return Value{}, err
		}
		pairs = append(pairs, Pair{Key: string(key.Bytes), Value: val})
	}
}

func (d *decoder) push() error {
	d.depth++
	if d.depth > maxNesting {
		return ErrTooDeep
	}
	return nil
}

func (d *decoder) pop() {
	d.depth--
}
