// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package ingestion

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/poiesic/simrank/core"
	"github.com/poiesic/simrank/storage"
)

const (
	// DefaultBatchSize is the number of entries written per transaction.
	DefaultBatchSize = 500

	// DefaultSource labels imported entries.
	DefaultSource = "import"

	maxLineSize = 1 << 20
)

// Result summarizes an import.
type Result struct {
	Lines    int // Non-blank lines read
	Imported int // Entries written to the catalog
	Skipped  int // Lines that could not be imported
}

// Importer writes JSON line documents into a catalog.
type Importer struct {
	repo      storage.CatalogRepository
	batchSize int
	source    string
	strict    bool
	onBatch   func(Result)
	logger    *slog.Logger
}

// Option configures an Importer.
type Option func(*Importer) error

// WithBatchSize sets how many entries are written per transaction.
// Default is DefaultBatchSize.
func WithBatchSize(size int) Option {
	return func(im *Importer) error {
		if size < 1 {
			size = 1
		}
		im.batchSize = size
		return nil
	}
}

// WithSource sets the Source recorded on imported entries.
func WithSource(source string) Option {
	return func(im *Importer) error {
		im.source = source
		return nil
	}
}

// WithStrict makes the first unreadable line fail the import.
func WithStrict(strict bool) Option {
	return func(im *Importer) error {
		im.strict = strict
		return nil
	}
}

// WithProgress sets a function called with the running totals after each
// batch is written.
func WithProgress(fn func(Result)) Option {
	return func(im *Importer) error {
		im.onBatch = fn
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(im *Importer) error {
		if logger == nil {
			logger = slog.Default()
		}
		im.logger = logger
		return nil
	}
}

// NewImporter creates an importer that writes to repo.
func NewImporter(repo storage.CatalogRepository, opts ...Option) (*Importer, error) {
	if repo == nil {
		return nil, ErrCatalogRepositoryRequired
	}

	im := &Importer{
		repo:      repo,
		batchSize: DefaultBatchSize,
		source:    DefaultSource,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(im); err != nil {
			return nil, err
		}
	}
	im.logger = im.logger.With("component", "importer")
	return im, nil
}

// ImportFile imports the JSON lines file at path.
func (im *Importer) ImportFile(ctx context.Context, path string) (Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return Result{}, err
	}
	defer f.Close()
	return im.Import(ctx, f)
}

// Import reads JSON lines from r and writes them to the catalog.
// The returned Result is valid even when an error is returned.
func (im *Importer) Import(ctx context.Context, r io.Reader) (Result, error) {
	var result Result
	batch := make([]*core.CatalogEntry, 0, im.batchSize)

	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if _, err := im.repo.AddEntries(ctx, batch...); err != nil {
			return fmt.Errorf("write batch: %w", err)
		}
		result.Imported += len(batch)
		batch = batch[:0]
		im.logger.Debug("batch written", "imported", result.Imported)
		if im.onBatch != nil {
			im.onBatch(result)
		}
		return nil
	}

	err := scanLines(ctx, r, func(lineNo int, line string) error {
		result.Lines++
		entry, err := im.parse(line)
		if err != nil {
			if im.strict {
				return fmt.Errorf("line %d: %w", lineNo, err)
			}
			im.logger.Warn("skipping line", "line", lineNo, "err", err)
			result.Skipped++
			return nil
		}

		batch = append(batch, entry)
		if len(batch) >= im.batchSize {
			return flush()
		}
		return nil
	})
	if err != nil {
		return result, err
	}
	if err := flush(); err != nil {
		return result, err
	}

	im.logger.Info("import complete", "lines", result.Lines, "imported", result.Imported, "skipped", result.Skipped)
	return result, nil
}

func (im *Importer) parse(line string) (*core.CatalogEntry, error) {
	candidate, err := DecodeCandidate(line)
	if err != nil {
		return nil, err
	}

	entry := &core.CatalogEntry{CandidateID: candidate.ID, Text: candidate.Text, Source: im.source}
	if err := core.ValidateCatalogEntry(entry); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRecord, err)
	}
	return entry, nil
}
