package vector

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docqa/internal/core/domain"
)

func TestCosine(t *testing.T) {
	tests := []struct {
		name string
		a, b []float32
		want float64
	}{
		{name: "identical", a: []float32{1, 2, 3}, b: []float32{1, 2, 3}, want: 1},
		{name: "scaled", a: []float32{1, 0}, b: []float32{5, 0}, want: 1},
		{name: "orthogonal", a: []float32{1, 0}, b: []float32{0, 1}, want: 0},
		{name: "opposite", a: []float32{1, 0}, b: []float32{-1, 0}, want: -1},
		{name: "zero magnitude", a: []float32{0, 0}, b: []float32{1, 0}, want: 0},
		{name: "length mismatch", a: []float32{1}, b: []float32{1, 0}, want: 0},
		{name: "empty", a: nil, b: nil, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Cosine(tt.a, tt.b), 1e-9)
		})
	}
}

func TestEncodeDecode(t *testing.T) {
	vec := []float32{0.5, -1.25, 3e-7, 42}

	blob := Encode(vec)
	assert.Len(t, blob, 16)
	// 0.5 is 0x3F000000, little-endian.
	assert.Equal(t, []byte{0x00, 0x00, 0x00, 0x3F}, blob[:4])

	got, err := Decode(blob)
	require.NoError(t, err)
	assert.Equal(t, vec, got)
}

func TestDecode_InvalidLength(t *testing.T) {
	_, err := Decode([]byte{1, 2, 3})
	assert.Error(t, err)
}

func TestTopK(t *testing.T) {
	candidates := [][]float32{
		{0, 1},  // 0
		{1, 0},  // 1
		{1, 1},  // 2
		{1, 0},  // 3, ties with 1
		{-1, 0}, // 4
	}

	got := TopK([]float32{1, 0}, candidates, 3)

	require.Len(t, got, 3)
	assert.Equal(t, 1, got[0].Index)
	assert.Equal(t, 3, got[1].Index)
	assert.Equal(t, 2, got[2].Index)
	assert.InDelta(t, 1.0, got[0].Score, 1e-9)
}

func TestTopK_Clamps(t *testing.T) {
	candidates := [][]float32{{1, 0}, {0, 1}}

	assert.Len(t, TopK([]float32{1, 0}, candidates, 10), 2)
	assert.Nil(t, TopK([]float32{1, 0}, candidates, 0))
	assert.Nil(t, TopK([]float32{1, 0}, nil, 3))
}

func TestValidateBatch(t *testing.T) {
	stored := map[string]bool{"old": true}
	exists := func(id string) bool { return stored[id] }
	entry := func(id string, dim int) domain.IndexEntry {
		return domain.IndexEntry{ID: id, Vector: make([]float32, dim), Text: id}
	}

	t.Run("empty index takes first vector", func(t *testing.T) {
		dim, err := ValidateBatch([]domain.IndexEntry{entry("a", 3), entry("b", 3)}, 0, exists)
		require.NoError(t, err)
		assert.Equal(t, 3, dim)
	})

	t.Run("established dimension", func(t *testing.T) {
		_, err := ValidateBatch([]domain.IndexEntry{entry("a", 4)}, 3, exists)
		assert.ErrorIs(t, err, domain.ErrDimensionMismatch)
	})

	t.Run("mixed batch", func(t *testing.T) {
		_, err := ValidateBatch([]domain.IndexEntry{entry("a", 3), entry("b", 2)}, 0, exists)
		assert.ErrorIs(t, err, domain.ErrDimensionMismatch)
	})

	t.Run("empty vector", func(t *testing.T) {
		_, err := ValidateBatch([]domain.IndexEntry{entry("a", 0)}, 0, exists)
		assert.ErrorIs(t, err, domain.ErrDimensionMismatch)
	})

	t.Run("stored id", func(t *testing.T) {
		_, err := ValidateBatch([]domain.IndexEntry{entry("old", 3)}, 3, exists)
		assert.ErrorIs(t, err, domain.ErrDuplicateID)
	})

	t.Run("id repeated in batch", func(t *testing.T) {
		_, err := ValidateBatch([]domain.IndexEntry{entry("a", 3), entry("a", 3)}, 3, exists)
		assert.ErrorIs(t, err, domain.ErrDuplicateID)
	})
}
