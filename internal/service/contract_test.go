package service

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"rental-service/internal/model"
)

func TestGenerateContractID(t *testing.T) {
	now := time.Date(2025, 8, 30, 15, 4, 5, 0, time.UTC)
	id := GenerateContractID("CT", now)

	parts := strings.Split(id, "-")
	require.Len(t, parts, 3)
	assert.Equal(t, "CT", parts[0])
	assert.Equal(t, "20250830", parts[1])
	assert.Len(t, parts[2], 4)
}

func TestGenerateContractIDUniqueSuffix(t *testing.T) {
	now := time.Now()
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		seen[GenerateContractID("CT", now)] = true
	}
	// Collisions over 50 draws of a 4-hex suffix are possible but should
	// be rare enough not to happen in one run.
	assert.Greater(t, len(seen), 45)
}

func TestUniqueIDs(t *testing.T) {
	ids := uniqueIDs(model.StringList{"A", "B", "A", "C", "B"})
	assert.Equal(t, []string{"A", "B", "C"}, ids)

	assert.Nil(t, uniqueIDs(nil))
}
