package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/provigo/provigo-backend/internal/storage"
)

func TestGenerateOrderID(t *testing.T) {
	store := storage.NewMemoryStore()
	at := time.Date(2026, time.March, 4, 12, 0, 0, 0, time.UTC)

	first, err := GenerateOrderID(store, at)
	require.NoError(t, err)
	assert.Equal(t, "PVG-2026-0001", first)

	second, err := GenerateOrderID(store, at)
	require.NoError(t, err)
	assert.Equal(t, "PVG-2026-0002", second)

	// Sequence resets across years
	nextYear, err := GenerateOrderID(store, at.AddDate(1, 0, 0))
	require.NoError(t, err)
	assert.Equal(t, "PVG-2027-0001", nextYear)
}
