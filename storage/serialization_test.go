package storage

import (
	"testing"
	"time"

	"github.com/poiesic/simrank/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalUnmarshalID(t *testing.T) {
	tests := []struct {
		name string
		id   core.ID
	}{
		{"zero ID", core.ID(0)},
		{"small ID", core.ID(42)},
		{"large ID", core.ID(18446744073709551615)}, // max uint64
		{"content-based ID", core.IDFromContent("test content")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := MarshalID(tt.id)
			require.NotEmpty(t, data)

			decoded, err := UnmarshalID(data)
			require.NoError(t, err)
			assert.Equal(t, tt.id, decoded)
		})
	}
}

func TestUnmarshalID_Invalid(t *testing.T) {
	_, err := UnmarshalID([]byte{})
	assert.Error(t, err)
}

func TestMarshalUnmarshalCatalogEntry(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Microsecond)

	tests := []struct {
		name  string
		entry *core.CatalogEntry
	}{
		{
			name: "minimal entry",
			entry: &core.CatalogEntry{
				Id:          core.ID(1),
				CandidateID: "p1",
				Text:        "Attention Is All You Need",
				InsertedAt:  now,
			},
		},
		{
			name: "with source",
			entry: &core.CatalogEntry{
				Id:          core.IDFromContent("649def34f8be52c8b66281af98ae884c09aef38b"),
				CandidateID: "649def34f8be52c8b66281af98ae884c09aef38b",
				Text:        "Deep Residual Learning for Image Recognition",
				Source:      "semanticscholar",
				InsertedAt:  now,
			},
		},
		{
			name: "unicode text",
			entry: &core.CatalogEntry{
				Id:          core.ID(3),
				CandidateID: "es-7",
				Text:        "Aprendizaje automático para la detección de anomalías",
				InsertedAt:  now,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := MarshalCatalogEntry(tt.entry)
			require.NotEmpty(t, data)

			decoded, err := UnmarshalCatalogEntry(data)
			require.NoError(t, err)
			assert.Equal(t, tt.entry.Id, decoded.Id)
			assert.Equal(t, tt.entry.CandidateID, decoded.CandidateID)
			assert.Equal(t, tt.entry.Text, decoded.Text)
			assert.Equal(t, tt.entry.Source, decoded.Source)
			assert.True(t, tt.entry.InsertedAt.Equal(decoded.InsertedAt))
		})
	}
}

func TestUnmarshalCatalogEntry_Truncated(t *testing.T) {
	entry := &core.CatalogEntry{Id: 9, CandidateID: "x", Text: "some title", InsertedAt: time.Now().UTC()}
	data := MarshalCatalogEntry(entry)

	_, err := UnmarshalCatalogEntry(data[:len(data)/2])
	assert.Error(t, err)
}
