package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorFormatting(t *testing.T) {
	assert.Equal(t, "release not found", NotFound("release", nil).Error())

	wrapped := ChannelDelivery("sms", fmt.Errorf("gateway timeout"))
	assert.Equal(t, "sms delivery failed: gateway timeout", wrapped.Error())
	assert.EqualError(t, wrapped.Unwrap(), "gateway timeout")
}

func TestIsNotFoundThroughWrapping(t *testing.T) {
	err := fmt.Errorf("loading release: %w", NotFound("release", nil))
	assert.True(t, IsNotFound(err))
	assert.False(t, IsValidation(err))
}

func TestIsValidation(t *testing.T) {
	assert.True(t, IsValidation(Validation("release id is required", nil)))
	assert.False(t, IsValidation(fmt.Errorf("plain error")))
	assert.False(t, IsNotFound(nil))
}
