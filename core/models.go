package core

//go:generate go run ../cmd/musgen

import (
	"encoding/binary"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for catalog entries.
// It is generated using content-based hashing.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// Candidate is a document that can be ranked against a query.
// Identity is the ID; Text is what gets embedded.
type Candidate struct {
	ID   string
	Text string
}

// RankedResult pairs a candidate with its cosine similarity to the query.
// Similarity is in [-1, 1]; candidates without a usable embedding score 0.
type RankedResult struct {
	Candidate  Candidate
	Similarity float64
}

// Generation identifies one ranking request within a search session.
// Generations increase monotonically; zero means none has been issued.
type Generation uint64

// CatalogEntry is the stored form of a candidate in the local catalog.
type CatalogEntry struct {
	Id          ID
	CandidateID string
	Text        string
	Source      string    // Where the entry came from (e.g. "import", "scholar")
	InsertedAt  time.Time // When the entry was inserted into the catalog
}

// Candidate returns the rankable view of the entry.
func (e *CatalogEntry) Candidate() Candidate {
	return Candidate{ID: e.CandidateID, Text: e.Text}
}
