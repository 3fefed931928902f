package domain

// Text is a rune-indexed Sequence domain, the one grammar sources and
// textual input parse over. It is built on
// the rune slice rather than the raw string so that Slice is O(1) and index
// arithmetic throughout package match lines up 1-to-1 with rune offsets,
// not byte offsets.
type Text []rune

// NewText converts a Go string to a Text, ready to be handed to a Parser.
func NewText(s string) Text {
	return Text([]rune(s))
}

func (t Text) Len() int {
	return len(t)
}

func (t Text) Slice(lo, hi int) Text {
	return t[lo:hi]
}

func (t Text) Equal(other Text) bool {
	if len(t) != len(other) {
		return false
	}
	for i := range t {
		if t[i] != other[i] {
			return false
		}
	}
	return true
}

func (t Text) Less(other Text) bool {
	for i := 0; i < len(t) && i < len(other); i++ {
		if t[i] != other[i] {
			return t[i] < other[i]
		}
	}
	return len(t) < len(other)
}

func (t Text) String() string {
	return string(t)
}
