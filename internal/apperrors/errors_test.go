package apperrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidationError(t *testing.T) {
	verr := &ValidationError{}
	assert.NoError(t, verr.OrNil())

	verr.Add("customer_name", "is required")
	verr.Add("order_date", "is required")

	err := fmt.Errorf("create order: %w", verr.OrNil())
	assert.True(t, errors.Is(err, ErrValidation))
	assert.False(t, errors.Is(err, ErrOrderNotFound))

	var target *ValidationError
	assert.True(t, errors.As(err, &target))
	assert.Len(t, target.Fields, 2)
	assert.Equal(t, "validation failed: customer_name: is required; order_date: is required", verr.Error())
}
