package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Text(t *testing.T) {
	assert := assert.New(t)

	txt := NewText("hello")
	assert.Equal(5, txt.Len())
	assert.Equal(NewText("ell"), txt.Slice(1, 4))
	assert.True(txt.Equal(NewText("hello")))
	assert.False(txt.Equal(NewText("world")))
	assert.True(NewText("abc").Less(NewText("abd")))
	assert.True(NewText("ab").Less(NewText("abc")))
	assert.False(NewText("abc").Less(NewText("ab")))
	assert.Equal("hello", txt.String())
}

func Test_Bytes(t *testing.T) {
	assert := assert.New(t)

	b := NewBytes([]byte("hello"))
	assert.Equal(5, b.Len())
	assert.Equal(NewBytes([]byte("ell")), b.Slice(1, 4))
	assert.True(b.Equal(NewBytes([]byte("hello"))))
	assert.False(b.Equal(NewBytes([]byte("world"))))
	assert.True(NewBytes([]byte("abc")).Less(NewBytes([]byte("abd"))))

	orig := []byte("hello")
	copied := NewBytes(orig)
	orig[0] = 'x'
	assert.Equal(byte('h'), copied[0])
}
