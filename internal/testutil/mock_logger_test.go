package testutil_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/turtacn/Uni-Dock/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/Uni-Dock/internal/testutil"
)

func TestMockLogger(t *testing.T) {
	logger := testutil.NewMockLogger()

	logger.Info("test info", logging.String("key", "value"))

	messages := logger.GetMessages()
	assert.Len(t, messages, 1)
	assert.Equal(t, "info", messages[0].Level)
	assert.Equal(t, "test info", messages[0].Message)

	logger.Clear()
	assert.Len(t, logger.GetMessages(), 0)

	logger.Error("test error")
	assert.True(t, logger.HasMessage("error", "test error"))
	assert.False(t, logger.HasMessage("info", "test info"))
}

func TestMockLogger_DerivedLoggersShareRecord(t *testing.T) {
	root := testutil.NewMockLogger()
	child := root.Named("engine").With(logging.Int("batch", 2)).Named("gpu")

	child.Warn("slow batch", logging.Bool("oversized", true))

	msgs := root.GetMessages()
	if assert.Len(t, msgs, 1) {
		assert.Equal(t, "engine.gpu", msgs[0].Logger)
		assert.Len(t, msgs[0].Fields, 2)
		assert.Equal(t, "batch", msgs[0].Fields[0].Key)
	}
	assert.Equal(t, 1, root.Count("warn"))
	assert.Equal(t, 0, root.Count("info"))
}

//Personal.AI order the ending
