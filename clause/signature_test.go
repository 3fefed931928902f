package clause

import (
	"testing"

	"github.com/dekarrin/pegboot/domain"
	"github.com/stretchr/testify/assert"
)

func Test_CaptureSignature(t *testing.T) {
	digit := Range[domain.Text]{Lo: domain.NewText("0"), Hi: domain.NewText("9")}

	testCases := []struct {
		name      string
		clause    Clause
		expect    []string
		expectErr bool
	}{
		{
			name:   "leaf clause binds nothing",
			clause: digit,
			expect: []string{},
		},
		{
			name:   "bare capture",
			clause: Capture{Child: digit, Name: "d"},
			expect: []string{"d"},
		},
		{
			name: "sequence unions captures",
			clause: Sequence{Children: []Clause{
				Capture{Child: digit, Name: "left"},
				Capture{Child: digit, Name: "right"},
			}},
			expect: []string{"left", "right"},
		},
		{
			name: "entail unions like sequence",
			clause: Entail{Children: []Clause{
				Capture{Child: digit, Name: "left"},
				Capture{Child: digit, Name: "right"},
			}},
			expect: []string{"left", "right"},
		},
		{
			name: "repeat inherits child signature",
			clause: Repeat{
				Child: Capture{Child: digit, Name: "d"},
			},
			expect: []string{"d"},
		},
		{
			name: "choice with agreeing alternatives",
			clause: Choice{Children: []Clause{
				Capture{Child: digit, Name: "x"},
				Capture{Child: digit, Name: "x"},
			}},
			expect: []string{"x"},
		},
		{
			name: "choice with disagreeing alternatives is an error",
			clause: Choice{Children: []Clause{
				Capture{Child: digit, Name: "x"},
				Capture{Child: digit, Name: "y"},
			}},
			expectErr: true,
		},
		{
			name: "transform hides its child's captures",
			clause: Transform{
				Child:    Capture{Child: digit, Name: "d"},
				ActionID: "a1",
			},
			expect: []string{},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			sig, err := CaptureSignature(tc.clause)
			if tc.expectErr {
				assert.Error(err)
				return
			}
			if !assert.NoError(err) {
				return
			}
			assert.Equal(tc.expect, sig.Names())
		})
	}
}

func Test_Signature_Equal(t *testing.T) {
	assert := assert.New(t)

	a := NewSignature("x", "y")
	b := NewSignature("y", "x")
	c := NewSignature("x")

	assert.True(a.Equal(b))
	assert.False(a.Equal(c))
}
