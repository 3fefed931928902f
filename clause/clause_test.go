package clause

import (
	"testing"

	"github.com/dekarrin/pegboot/domain"
	"github.com/stretchr/testify/assert"
)

func Test_Value_Equal(t *testing.T) {
	assert := assert.New(t)

	a := Value[domain.Text]{V: domain.NewText("abc")}
	b := Value[domain.Text]{V: domain.NewText("abc")}
	c := Value[domain.Text]{V: domain.NewText("xyz")}

	assert.True(a.Equal(b))
	assert.False(a.Equal(c))
	assert.False(a.Equal(Empty{}))
}

func Test_NewRange_OrdersBounds(t *testing.T) {
	assert := assert.New(t)

	r, err := NewRange(domain.NewText("z"), domain.NewText("a"))
	if !assert.NoError(err) {
		return
	}
	assert.Equal(domain.NewText("a"), r.Lo)
	assert.Equal(domain.NewText("z"), r.Hi)
}

func Test_NewRange_RejectsUnequalLength(t *testing.T) {
	assert := assert.New(t)

	_, err := NewRange(domain.NewText("a"), domain.NewText("bb"))
	assert.Error(err)
}

func Test_NewAny_RejectsNonPositive(t *testing.T) {
	assert := assert.New(t)

	_, err := NewAny(0)
	assert.Error(err)

	_, err = NewAny(-1)
	assert.Error(err)

	a, err := NewAny(3)
	assert.NoError(err)
	assert.Equal(3, a.K)
}

func Test_Grammar_TopAndLookup(t *testing.T) {
	assert := assert.New(t)

	g := Grammar{Rules: []Rule{
		{Name: "start", Body: Reference{Name: "digit"}},
		{Name: "digit", Body: Range[domain.Text]{Lo: domain.NewText("0"), Hi: domain.NewText("9")}},
	}}

	assert.Equal("start", g.Top())

	rule, ok := g.Lookup("digit")
	assert.True(ok)
	assert.Equal("digit", rule.Name)

	_, ok = g.Lookup("missing")
	assert.False(ok)
}

func Test_Grammar_Equal(t *testing.T) {
	assert := assert.New(t)

	g1 := Grammar{Rules: []Rule{{Name: "a", Body: Empty{}}}}
	g2 := Grammar{Rules: []Rule{{Name: "a", Body: Empty{}}}}
	g3 := Grammar{Rules: []Rule{{Name: "a", Body: Reference{Name: "b"}}}}

	assert.True(g1.Equal(g2))
	assert.False(g1.Equal(g3))
}

func Test_Sequence_Equal(t *testing.T) {
	assert := assert.New(t)

	a := Sequence{Children: []Clause{Empty{}, Reference{Name: "x"}}}
	b := Sequence{Children: []Clause{Empty{}, Reference{Name: "x"}}}
	c := Sequence{Children: []Clause{Empty{}, Reference{Name: "y"}}}

	assert.True(a.Equal(b))
	assert.False(a.Equal(c))
}

func Test_String_RendersChildren(t *testing.T) {
	assert := assert.New(t)

	c := Choice{Children: []Clause{Reference{Name: "a"}, Reference{Name: "b"}}}
	assert.Equal("Choice(a, b)", c.String())
}
