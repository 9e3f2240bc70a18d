package services

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sync"
	"time"
)

// chunkIDTimeLayout renders the ingestion time inside chunk ids.
const chunkIDTimeLayout = "20060102_150405"

// ChunkID formats the id of a chunk: doc_<YYYYMMDD_HHMMSS>_<position>_<hash8>,
// where hash8 is the first 8 hex characters of the SHA-256 of the text.
func ChunkID(at time.Time, position int, text string) string {
	sum := sha256.Sum256([]byte(text))
	return fmt.Sprintf("doc_%s_%d_%s", at.Format(chunkIDTimeLayout), position, hex.EncodeToString(sum[:4]))
}

// idSequence hands out chunk positions that increase across every batch of
// the pipeline, so two batches ingested in the same second never share an id.
type idSequence struct {
	mu     sync.Mutex
	next   int
	seeded bool
	now    func() time.Time
}

// assign returns one id per text. seed is consulted once, on first use, so
// positions continue from the entries already in a persistent index.
func (q *idSequence) assign(texts []string, seed func() int) []string {
	q.mu.Lock()
	defer q.mu.Unlock()

	if !q.seeded {
		q.next = seed()
		q.seeded = true
	}

	at := q.now()
	ids := make([]string, len(texts))
	for i, text := range texts {
		ids[i] = ChunkID(at, q.next, text)
		q.next++
	}
	return ids
}
