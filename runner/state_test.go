package runner

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExecutionStateIsExclusive(t *testing.T) {
	completed := Completed(42)
	assert.False(t, completed.HasFault())
	assert.Equal(t, 42, completed.ReturnValue)

	faulted := Faulted[int](errors.New("boom"))
	assert.True(t, faulted.HasFault())
	assert.Zero(t, faulted.ReturnValue)

	assert.Panics(t, func() { Faulted[int](nil) })
}
