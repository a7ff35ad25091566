package core

import (
	"errors"
	"testing"
	"time"
)

func TestValidateCandidate(t *testing.T) {
	tests := []struct {
		name      string
		candidate Candidate
		wantErr   error
	}{
		{
			name:      "valid candidate",
			candidate: Candidate{ID: "1", Text: "Graph Neural Networks Survey"},
			wantErr:   nil,
		},
		{
			name:      "empty text is allowed",
			candidate: Candidate{ID: "2", Text: ""},
			wantErr:   nil,
		},
		{
			name:      "empty id",
			candidate: Candidate{ID: "", Text: "Cooking with Tomatoes"},
			wantErr:   ErrEmptyCandidateID,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCandidate(tt.candidate)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateCandidate() error = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateCandidate() error = %v, want %v", err, tt.wantErr)
			}
			if !errors.Is(err, ErrInvalidCandidate) {
				t.Errorf("ValidateCandidate() error should wrap ErrInvalidCandidate")
			}
		})
	}
}

func TestValidateCatalogEntry(t *testing.T) {
	validTime := time.Now().Add(-1 * time.Hour)
	futureTime := time.Now().Add(1 * time.Hour)

	tests := []struct {
		name    string
		entry   *CatalogEntry
		wantErr error
	}{
		{
			name: "valid entry",
			entry: &CatalogEntry{
				CandidateID: "p1",
				Text:        "Graph Neural Networks Survey",
				InsertedAt:  validTime,
			},
			wantErr: nil,
		},
		{
			name: "valid entry with ID 0 and no source",
			entry: &CatalogEntry{
				Id:          0,
				CandidateID: "p2",
				Text:        "Message passing",
			},
			wantErr: nil,
		},
		{
			name:    "nil entry",
			entry:   nil,
			wantErr: ErrInvalidCatalogEntry,
		},
		{
			name: "empty candidate id",
			entry: &CatalogEntry{
				Text:       "Graph Neural Networks Survey",
				InsertedAt: validTime,
			},
			wantErr: ErrEmptyCandidateID,
		},
		{
			name: "empty text",
			entry: &CatalogEntry{
				CandidateID: "p3",
				InsertedAt:  validTime,
			},
			wantErr: ErrEmptyText,
		},
		{
			name: "future timestamp",
			entry: &CatalogEntry{
				CandidateID: "p4",
				Text:        "From the future",
				InsertedAt:  futureTime,
			},
			wantErr: ErrInvalidTimestamp,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCatalogEntry(tt.entry)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateCatalogEntry() error = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateCatalogEntry() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestIsValidTimestamp(t *testing.T) {
	if !IsValidTimestamp(time.Now().Add(-time.Minute)) {
		t.Error("past timestamp should be valid")
	}
	if IsValidTimestamp(time.Now().Add(time.Hour)) {
		t.Error("future timestamp should be invalid")
	}
}
