package metadata

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewStatus(t *testing.T) {
	for _, valid := range []string{"In use", "In storage", "Under repair", "Retired/Disposed"} {
		status, err := NewStatus(valid)
		assert.NoError(t, err)
		assert.Equal(t, Status(valid), status)
	}

	_, err := NewStatus("in_use")
	assert.Error(t, err)
	_, err = NewStatus("")
	assert.Error(t, err)
}

func TestNewCondition(t *testing.T) {
	for _, valid := range []string{"New", "Good", "Fair", "Poor"} {
		condition, err := NewCondition(valid)
		assert.NoError(t, err)
		assert.Equal(t, Condition(valid), condition)
	}

	_, err := NewCondition("Broken")
	assert.Error(t, err)
}

func TestNewDepreciationMethod(t *testing.T) {
	method, err := NewDepreciationMethod("straight-line")
	assert.NoError(t, err)
	assert.Equal(t, MethodStraightLine, method)

	method, err = NewDepreciationMethod("declining-balance")
	assert.NoError(t, err)
	assert.Equal(t, MethodDecliningBalance, method)

	_, err = NewDepreciationMethod("sum-of-years")
	assert.Error(t, err)
}
