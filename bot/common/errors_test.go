package common

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBotError_UserError(t *testing.T) {
	botErr := NewUserError("Invalid channel", "channel option missing")

	assert.Equal(t, "Invalid channel", botErr.UserMessage)
	assert.Equal(t, "channel option missing", botErr.Error(), "without a cause Error() is just the log message")
	assert.True(t, botErr.Ephemeral)
	assert.Nil(t, botErr.Unwrap())
}

func TestBotError_SystemError(t *testing.T) {
	cause := errors.New("connection refused")
	botErr := NewSystemError(cause, "failed to update config for guild 42")

	assert.Equal(t, "Something went wrong. Please try again later.", botErr.UserMessage)
	assert.Equal(t, "failed to update config for guild 42: connection refused", botErr.Error())
	assert.Equal(t, cause, botErr.Unwrap())
}

func TestBotError_ErrorsAs(t *testing.T) {
	var err error = fmt.Errorf("handling command: %w", NewUserError("No event types given", "empty list"))

	var botErr *BotError
	assert.True(t, errors.As(err, &botErr), "wrapped BotError must still be recoverable")
	assert.Equal(t, "No event types given", botErr.UserMessage)
}
