package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSentinels_AreDistinct(t *testing.T) {
	sentinels := []error{
		ErrNotFound,
		ErrInvalidInput,
		ErrInvalidConfiguration,
		ErrUnsupportedType,
		ErrEmbedding,
		ErrPersistence,
		ErrDimensionMismatch,
		ErrSyncInProgress,
		ErrEmbeddingUnavailable,
		ErrLLMUnavailable,
		ErrAuthRequired,
		ErrConnectorValidation,
		ErrConnectorClosed,
		ErrRateLimited,
	}

	for i, a := range sentinels {
		assert.NotEmpty(t, a.Error())
		for j, b := range sentinels {
			if i == j {
				continue
			}
			assert.False(t, errors.Is(a, b), "%v should not match %v", a, b)
		}
	}
}

func TestSentinels_SurviveWrapping(t *testing.T) {
	wrapped := fmt.Errorf("add entries: %w", ErrEmbedding)
	assert.True(t, errors.Is(wrapped, ErrEmbedding))
	assert.False(t, errors.Is(wrapped, ErrPersistence))

	double := fmt.Errorf("sync limitless: %w", wrapped)
	assert.True(t, errors.Is(double, ErrEmbedding))
}
