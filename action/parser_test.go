package action

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Parse(t *testing.T) {
	testCases := []struct {
		name      string
		input     string
		expect    Expr
		expectErr bool
	}{
		{
			name:   "bare identifier",
			input:  "left",
			expect: Ident{Name: "left"},
		},
		{
			name:   "int literal",
			input:  "8",
			expect: IntLit{Value: 8},
		},
		{
			name:   "negative int literal",
			input:  "-8",
			expect: IntLit{Value: -8},
		},
		{
			name:   "float literal",
			input:  "3.5",
			expect: FloatLit{Value: 3.5},
		},
		{
			name:   "string literal",
			input:  `"hello"`,
			expect: StringLit{Value: "hello"},
		},
		{
			name:   "bool literals",
			input:  "true",
			expect: BoolLit{Value: true},
		},
		{
			name:  "call with no args",
			input: "zero()",
			expect: Call{Name: "zero"},
		},
		{
			name:  "call with args",
			input: "add(left, right)",
			expect: Call{Name: "add", Args: []Expr{Ident{Name: "left"}, Ident{Name: "right"}}},
		},
		{
			name:  "nested call",
			input: "neg(add(left, right))",
			expect: Call{Name: "neg", Args: []Expr{
				Call{Name: "add", Args: []Expr{Ident{Name: "left"}, Ident{Name: "right"}}},
			}},
		},
		{
			name:  "tuple",
			input: "(left, right)",
			expect: Tuple{Elements: []Expr{Ident{Name: "left"}, Ident{Name: "right"}}},
		},
		{
			name:      "single parenthesized expr is not a tuple",
			input:     "(left)",
			expectErr: true,
		},
		{
			name:      "trailing garbage",
			input:     "left right",
			expectErr: true,
		},
		{
			name:      "unterminated string",
			input:     `"hello`,
			expectErr: true,
		},
		{
			name:      "empty input",
			input:     "",
			expectErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			actual, err := Parse(tc.input)
			if tc.expectErr {
				assert.Error(err)
				return
			}
			if !assert.NoError(err) {
				return
			}
			assert.Equal(tc.expect, actual)
		})
	}
}
