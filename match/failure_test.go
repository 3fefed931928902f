package match

import (
	"errors"
	"testing"

	"github.com/dekarrin/pegboot/clause"
	"github.com/stretchr/testify/assert"
)

func Test_Failure_IsFatal(t *testing.T) {
	assert := assert.New(t)

	assert.False((&Failure{Kind: Recoverable}).IsFatal())
	assert.True((&Failure{Kind: Fatal}).IsFatal())
	assert.True((&Failure{Kind: Cancelled}).IsFatal())
}

func Test_Failure_Unwrap(t *testing.T) {
	assert := assert.New(t)

	cause := errors.New("boom")
	f := &Failure{Cause: cause}
	assert.Same(cause, f.Unwrap())
}

func Test_WithReferenceContext_PreservesFatality(t *testing.T) {
	assert := assert.New(t)

	rec := recoverable(0, clause.Empty{})
	wrapped := withReferenceContext(0, "r", rec)
	wf := wrapped.(*Failure)
	assert.False(wf.IsFatal())

	fat := entail(0, clause.Empty{}, rec)
	wrapped2 := withReferenceContext(0, "r", fat)
	wf2 := wrapped2.(*Failure)
	assert.True(wf2.IsFatal())
	assert.Equal(Fatal, wf2.Kind)
}

func Test_Cancelled_UsesBudgetSentinel(t *testing.T) {
	assert := assert.New(t)

	err := cancelled(3, clause.Empty{})
	f := err.(*Failure)
	assert.Equal(Cancelled, f.Kind)
	assert.Same(ErrBudgetExceeded, f.Cause)
}
