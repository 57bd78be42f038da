package bencode

import "strconv"

// Encode serializes v. Dictionary entries are written in slice order,
// so callers own the key order their protocol requires.
func Encode(v Value) ([]byte, error) {
	return appendValue(nil, v)
}

func appendValue(dst []byte, v Value) ([]byte, error) {
	var err error
	switch v.Kind {
	case KindBytes:
		dst = appendString(dst, v.Bytes)
	case KindInt:
		dst = append(dst, 'i')
		dst = strconv.AppendInt(dst, v.Int, 10)
		dst = append(dst, 'e')
	case KindList:
		dst = append(dst, 'l')
		for _, item := range v.List {
			if dst, err = appendValue(dst, item); err != nil {
				return nil, err
			}
		}
		dst = append(dst, 'e')
	case KindDict:
		dst = append(dst, 'd')
		for _, p := range v.Dict {
			dst = appendString(dst, []byte(p.Key))
			if dst, err = appendValue(dst, p.Value); err != nil {
				return nil, err
			}
		}
		dst = append(dst, 'e')
	default:
		return nil, ErrKindMismatch
	}
	return dst, nil
}

func appendString(dst []byte, b []byte) []byte {
	dst = strconv.AppendInt(dst, int64(len(b)), 10)
	dst = append(dst, ':')
	return append(dst, b...)
}
