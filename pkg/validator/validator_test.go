package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type seekInput struct {
	Fraction  *float64 `json:"fraction" validate:"required,gte=0,lte=1"`
	Direction string   `json:"direction" validate:"omitempty,oneof=backward forward"`
}

func TestValidate(t *testing.T) {
	v := NewValidator()

	half := 0.5
	errs, ok := v.Validate(seekInput{Fraction: &half})
	assert.True(t, ok)
	assert.Empty(t, errs)

	tooFar := 1.5
	errs, ok = v.Validate(seekInput{Fraction: &tooFar, Direction: "up"})
	assert.False(t, ok)
	require.Len(t, errs, 2)
	assert.Equal(t, "fraction", errs[0].Field)
	assert.Equal(t, "LTE", errs[0].Code)
	assert.Equal(t, "fraction must not exceed 1", errs[0].Message)
	assert.Equal(t, "direction", errs[1].Field)
	assert.Equal(t, "ONEOF", errs[1].Code)

	errs, ok = v.Validate(seekInput{})
	assert.False(t, ok)
	require.Len(t, errs, 1)
	assert.Equal(t, "fraction is required", errs[0].Message)
	assert.EqualError(t, Error(errs), "fraction is required")
}
