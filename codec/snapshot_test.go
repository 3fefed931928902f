package codec

import (
	"testing"

	"github.com/dekarrin/pegboot/action"
	"github.com/dekarrin/pegboot/clause"
	"github.com/dekarrin/pegboot/dialect/surface"
	"github.com/dekarrin/pegboot/domain"
	"github.com/dekarrin/pegboot/peg"
	"github.com/stretchr/testify/assert"
)

// Test_Snapshot_RoundTrip is scenario S6: serializing a built parser and
// restoring it yields a parser that parses identical inputs to equal
// results. "Built parser" here means the peg.RawGrammar it was built
// from, since that -- not a bound match.Actions table of live closures --
// is what a codec.Snapshot can actually hold; restoring it and rebinding
// against the same namespace reproduces the parser exactly.
func Test_Snapshot_RoundTrip(t *testing.T) {
	assert := assert.New(t)

	_, gen, err := surface.Bootstrap()
	if !assert.NoError(err) {
		return
	}

	snap := FromRawGrammar(*gen)
	data := Encode(snap)

	restored, err := Decode(data)
	if !assert.NoError(err) {
		return
	}
	assert.True(snap.Grammar.Equal(restored.Grammar))
	assert.ElementsMatch(snap.Actions, restored.Actions)

	binder := action.NewBinder(surface.Namespace())
	original, err := peg.NewParser[domain.Text](*gen, binder)
	if !assert.NoError(err) {
		return
	}
	rebuilt, err := peg.NewParser[domain.Text](restored.RawGrammar(), binder)
	if !assert.NoError(err) {
		return
	}

	inputs := []string{
		"top:\n| 'a' 'b'\n",
		"digit:\n| '0'-'9'\n",
	}
	for _, in := range inputs {
		wantResult, wantErr := original.Parse(domain.NewText(in))
		gotResult, gotErr := rebuilt.Parse(domain.NewText(in))
		if wantErr != nil {
			assert.Error(gotErr)
			continue
		}
		if !assert.NoError(gotErr) {
			continue
		}
		wantGrammar, ok1 := wantResult.(peg.RawGrammar)
		gotGrammar, ok2 := gotResult.(peg.RawGrammar)
		if assert.True(ok1) && assert.True(ok2) {
			assert.True(wantGrammar.Grammar.Equal(gotGrammar.Grammar))
		}
	}
}

func Test_Snapshot_DecodeRejectsTrailingBytes(t *testing.T) {
	assert := assert.New(t)

	snap := Snapshot{Grammar: clause.Grammar{Rules: []clause.Rule{
		{Name: "top", Body: clause.Value[domain.Text]{V: domain.NewText("x")}},
	}}}
	data := Encode(snap)
	_, err := Decode(append(data, 0xFF))
	assert.Error(err)
}
