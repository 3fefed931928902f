package codec

import (
	"fmt"

	"github.com/dekarrin/pegboot/clause"
	"github.com/dekarrin/pegboot/domain"
)

// clause tags. Stable across versions of this package: changing a value
// here breaks every snapshot already on disk.
const (
	tagValue = iota
	tagRange
	tagEmpty
	tagAny
	tagSequence
	tagChoice
	tagRepeat
	tagNot
	tagAnd
	tagEntail
	tagCapture
	tagTransform
	tagReference
)

// encodeClause serializes c, restricted to clause.Value[domain.Text] and
// clause.Range[domain.Text] for the two generic variants -- the only
// element domain every dialect in this module builds grammars over
// (domain.Bytes is a valid clause element type too, but nothing here
// constructs a Bytes-typed clause graph to snapshot).
func encodeClause(c clause.Clause) ([]byte, error) {
	switch v := c.(type) {
	case clause.Value[domain.Text]:
		return append([]byte{tagValue}, encString(v.V.String())...), nil
	case clause.Range[domain.Text]:
		out := []byte{tagRange}
		out = append(out, encString(v.Lo.String())...)
		out = append(out, encString(v.Hi.String())...)
		return out, nil
	case clause.Empty:
		return []byte{tagEmpty}, nil
	case clause.Any:
		return append([]byte{tagAny}, encInt(v.K)...), nil
	case clause.Sequence:
		return encodeClauseList(tagSequence, v.Children)
	case clause.Choice:
		return encodeClauseList(tagChoice, v.Children)
	case clause.Entail:
		return encodeClauseList(tagEntail, v.Children)
	case clause.Repeat:
		return encodeClauseChild(tagRepeat, v.Child)
	case clause.Not:
		return encodeClauseChild(tagNot, v.Child)
	case clause.And:
		return encodeClauseChild(tagAnd, v.Child)
	case clause.Capture:
		out := []byte{tagCapture}
		out = append(out, encString(v.Name)...)
		out = append(out, encBool(v.Variadic)...)
		child, err := encodeClause(v.Child)
		if err != nil {
			return nil, err
		}
		return append(out, append(encInt(len(child)), child...)...), nil
	case clause.Transform:
		out := []byte{tagTransform}
		out = append(out, encString(v.ActionID)...)
		child, err := encodeClause(v.Child)
		if err != nil {
			return nil, err
		}
		return append(out, append(encInt(len(child)), child...)...), nil
	case clause.Reference:
		return append([]byte{tagReference}, encString(v.Name)...), nil
	default:
		return nil, fmt.Errorf("codec: unsupported clause type %T", c)
	}
}

func encodeClauseChild(tag byte, child clause.Clause) ([]byte, error) {
	enc, err := encodeClause(child)
	if err != nil {
		return nil, err
	}
	out := []byte{tag}
	out = append(out, encInt(len(enc))...)
	return append(out, enc...), nil
}

func encodeClauseList(tag byte, children []clause.Clause) ([]byte, error) {
	out := []byte{tag}
	out = append(out, encInt(len(children))...)
	for _, child := range children {
		enc, err := encodeClause(child)
		if err != nil {
			return nil, err
		}
		out = append(out, encInt(len(enc))...)
		out = append(out, enc...)
	}
	return out, nil
}

// decodeClause reads one tagged clause from the front of data, returning
// the clause and the number of bytes consumed.
func decodeClause(data []byte) (clause.Clause, int, error) {
	if len(data) < 1 {
		return nil, 0, fmt.Errorf("codec: empty buffer decoding clause")
	}
	tag := data[0]
	data = data[1:]
	consumed := 1

	readLen := func(d []byte) (int, []byte, error) {
		n, read, err := decInt(d)
		if err != nil {
			return 0, nil, err
		}
		d = d[read:]
		consumed += read
		return n, d, nil
	}
	readChild := func(d []byte) (clause.Clause, []byte, error) {
		n, d, err := readLen(d)
		if err != nil {
			return nil, nil, err
		}
		if n < 0 || len(d) < n {
			return nil, nil, fmt.Errorf("codec: child of length %d overruns buffer of %d bytes", n, len(d))
		}
		c, read, err := decodeClause(d[:n])
		if err != nil {
			return nil, nil, err
		}
		if read != n {
			return nil, nil, fmt.Errorf("codec: child declared %d bytes but consumed %d", n, read)
		}
		consumed += n
		return c, d[n:], nil
	}

	switch tag {
	case tagValue:
		s, n, err := decString(data)
		if err != nil {
			return nil, 0, err
		}
		consumed += n
		return clause.Value[domain.Text]{V: domain.NewText(s)}, consumed, nil
	case tagRange:
		lo, n, err := decString(data)
		if err != nil {
			return nil, 0, err
		}
		consumed += n
		data = data[n:]
		hi, n, err := decString(data)
		if err != nil {
			return nil, 0, err
		}
		consumed += n
		return clause.Range[domain.Text]{Lo: domain.NewText(lo), Hi: domain.NewText(hi)}, consumed, nil
	case tagEmpty:
		return clause.Empty{}, consumed, nil
	case tagAny:
		k, n, err := decInt(data)
		if err != nil {
			return nil, 0, err
		}
		consumed += n
		return clause.Any{K: k}, consumed, nil
	case tagSequence, tagChoice, tagEntail:
		count, rest, err := readLen(data)
		if err != nil {
			return nil, 0, err
		}
		children := make([]clause.Clause, count)
		for i := 0; i < count; i++ {
			var c clause.Clause
			c, rest, err = readChild(rest)
			if err != nil {
				return nil, 0, err
			}
			children[i] = c
		}
		switch tag {
		case tagSequence:
			return clause.Sequence{Children: children}, consumed, nil
		case tagChoice:
			return clause.Choice{Children: children}, consumed, nil
		default:
			return clause.Entail{Children: children}, consumed, nil
		}
	case tagRepeat, tagNot, tagAnd:
		child, _, err := readChild(data)
		if err != nil {
			return nil, 0, err
		}
		switch tag {
		case tagRepeat:
			return clause.Repeat{Child: child}, consumed, nil
		case tagNot:
			return clause.Not{Child: child}, consumed, nil
		default:
			return clause.And{Child: child}, consumed, nil
		}
	case tagCapture:
		name, n, err := decString(data)
		if err != nil {
			return nil, 0, err
		}
		consumed += n
		data = data[n:]
		variadic, n, err := decBool(data)
		if err != nil {
			return nil, 0, err
		}
		consumed += n
		data = data[n:]
		child, _, err := readChild(data)
		if err != nil {
			return nil, 0, err
		}
		return clause.Capture{Child: child, Name: name, Variadic: variadic}, consumed, nil
	case tagTransform:
		id, n, err := decString(data)
		if err != nil {
			return nil, 0, err
		}
		consumed += n
		data = data[n:]
		child, _, err := readChild(data)
		if err != nil {
			return nil, 0, err
		}
		return clause.Transform{Child: child, ActionID: id}, consumed, nil
	case tagReference:
		name, n, err := decString(data)
		if err != nil {
			return nil, 0, err
		}
		consumed += n
		return clause.Reference{Name: name}, consumed, nil
	default:
		return nil, 0, fmt.Errorf("codec: unknown clause tag %d", tag)
	}
}
