package cli

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResetCmd_Confirmed(t *testing.T) {
	rag := &mockRAGService{count: 12}
	setupTestServices(t, rag, nil)

	output, err := executeCommand(t, strings.NewReader("y\n"), "reset")

	require.NoError(t, err)
	assert.Contains(t, output, "Remove 12 documents from the index? [y/N]: ")
	assert.Contains(t, output, "Removed 12 documents.")
	assert.Equal(t, 1, rag.resets)
}

func TestResetCmd_Declined(t *testing.T) {
	tests := []string{"n\n", "\n", "maybe\n", ""}

	for _, input := range tests {
		t.Run(strings.TrimSpace(input), func(t *testing.T) {
			rag := &mockRAGService{count: 5}
			setupTestServices(t, rag, nil)

			output, err := executeCommand(t, strings.NewReader(input), "reset")

			require.NoError(t, err)
			assert.Contains(t, output, "Aborted.")
			assert.Equal(t, 0, rag.resets)
			assert.Equal(t, 5, rag.count)
		})
	}
}

func TestResetCmd_Yes(t *testing.T) {
	rag := &mockRAGService{count: 3}
	setupTestServices(t, rag, nil)

	output, err := executeCommand(t, nil, "reset", "--yes")

	require.NoError(t, err)
	assert.NotContains(t, output, "[y/N]")
	assert.Contains(t, output, "Removed 3 documents.")
	assert.Equal(t, 1, rag.resets)
}

func TestResetCmd_Error(t *testing.T) {
	setupTestServices(t, &mockRAGService{err: errors.New("database is locked")}, nil)

	_, err := executeCommand(t, nil, "reset", "-y")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to reset index: database is locked")
}
