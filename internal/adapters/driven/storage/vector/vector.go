// Package vector holds the similarity maths and the BLOB encoding shared by
// the vector index backends.
package vector

import (
	"encoding/binary"
	"fmt"
	"math"
	"sort"

	"github.com/custodia-labs/docqa/internal/core/domain"
)

// Cosine returns the cosine similarity of a and b.
// Vectors of different length, empty vectors and zero-magnitude vectors
// score 0 so they sort after any positively related entry.
func Cosine(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, na2, nb2 float64
	for i := range a {
		va := float64(a[i])
		vb := float64(b[i])
		dot += va * vb
		na2 += va * va
		nb2 += vb * vb
	}
	if na2 == 0 || nb2 == 0 {
		return 0
	}
	s := dot / (math.Sqrt(na2) * math.Sqrt(nb2))
	if math.IsNaN(s) {
		return 0
	}
	return s
}

// Encode packs vec as little-endian IEEE 754 float32 values without a
// length prefix.
func Encode(vec []float32) []byte {
	b := make([]byte, len(vec)*4)
	for i, v := range vec {
		binary.LittleEndian.PutUint32(b[i*4:], math.Float32bits(v))
	}
	return b
}

// Decode reverses Encode.
func Decode(b []byte) ([]float32, error) {
	if len(b)%4 != 0 {
		return nil, fmt.Errorf("vector: invalid blob length %d (not multiple of 4)", len(b))
	}
	vec := make([]float32, len(b)/4)
	for i := range vec {
		vec[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:]))
	}
	return vec, nil
}

// Scored pairs a candidate position with its similarity.
type Scored struct {
	Index int
	Score float64
}

// TopK scores every candidate against query and returns the k best by
// descending similarity. Ties keep candidate order. k <= 0 returns nil.
func TopK(query []float32, candidates [][]float32, k int) []Scored {
	if k <= 0 || len(candidates) == 0 {
		return nil
	}
	scored := make([]Scored, len(candidates))
	for i, c := range candidates {
		scored[i] = Scored{Index: i, Score: Cosine(query, c)}
	}
	sort.SliceStable(scored, func(a, b int) bool { return scored[a].Score > scored[b].Score })
	if k > len(scored) {
		k = len(scored)
	}
	return scored[:k]
}

// ValidateBatch checks every entry of a batch against the established
// dimension and the stored ids. It returns the dimension the index has once
// the batch is written. dim is 0 for an empty index, in which case the
// batch's first vector sets it.
func ValidateBatch(entries []domain.IndexEntry, dim int, exists func(id string) bool) (int, error) {
	if dim == 0 {
		dim = len(entries[0].Vector)
		if dim == 0 {
			return 0, fmt.Errorf("%w: entry %q has an empty vector", domain.ErrDimensionMismatch, entries[0].ID)
		}
	}

	seen := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		if len(e.Vector) != dim {
			return 0, fmt.Errorf("%w: entry %q has %d dimensions, index has %d",
				domain.ErrDimensionMismatch, e.ID, len(e.Vector), dim)
		}
		if _, dup := seen[e.ID]; dup || exists(e.ID) {
			return 0, fmt.Errorf("%w: %q", domain.ErrDuplicateID, e.ID)
		}
		seen[e.ID] = struct{}{}
	}
	return dim, nil
}
