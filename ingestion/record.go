package ingestion

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/poiesic/simrank/core"
)

// record is one input line. paperId and title are accepted as aliases.
type record struct {
	ID      string `json:"id"`
	Text    string `json:"text"`
	PaperID string `json:"paperId"`
	Title   string `json:"title"`
}

// DecodeCandidate parses one JSON line into a candidate.
// Text falls back to title and is trimmed. The id falls back to paperId and
// then to ContentID of the text. Lines without text are invalid.
func DecodeCandidate(line string) (core.Candidate, error) {
	var rec record
	if err := json.Unmarshal([]byte(line), &rec); err != nil {
		return core.Candidate{}, fmt.Errorf("%w: %w", ErrInvalidRecord, err)
	}

	text := rec.Text
	if text == "" {
		text = rec.Title
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return core.Candidate{}, fmt.Errorf("%w: %w", ErrInvalidRecord, core.ErrEmptyText)
	}

	id := rec.ID
	if id == "" {
		id = rec.PaperID
	}
	if id == "" {
		id = ContentID(text)
	}
	return core.Candidate{ID: id, Text: text}, nil
}

// ContentID derives a candidate id from text.
func ContentID(text string) string {
	return fmt.Sprintf("%016x", uint64(core.IDFromContent(text)))
}

// ReadCandidates decodes JSON lines from r into candidates, in input order.
// Every valid line yields one candidate, duplicates included. Invalid lines
// are skipped unless strict is set.
func ReadCandidates(ctx context.Context, r io.Reader, strict bool) ([]core.Candidate, Result, error) {
	logger := slog.Default().With("component", "candidates")

	var result Result
	candidates := []core.Candidate{}
	err := scanLines(ctx, r, func(lineNo int, line string) error {
		result.Lines++
		candidate, err := DecodeCandidate(line)
		if err != nil {
			if strict {
				return fmt.Errorf("line %d: %w", lineNo, err)
			}
			logger.Warn("skipping line", "line", lineNo, "err", err)
			result.Skipped++
			return nil
		}
		candidates = append(candidates, candidate)
		result.Imported++
		return nil
	})
	if err != nil {
		return nil, result, err
	}
	return candidates, result, nil
}

// scanLines calls fn for every non-blank line of r, trimmed, with its
// 1-based line number.
func scanLines(ctx context.Context, r io.Reader, fn func(lineNo int, line string) error) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := fn(lineNo, line); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read input: %w", err)
	}
	return nil
}
