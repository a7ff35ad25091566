package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/poiesic/simrank"
	"github.com/poiesic/simrank/core"
	"github.com/poiesic/simrank/ingestion"
	"github.com/poiesic/simrank/ranking"
	"github.com/poiesic/simrank/search"
	"github.com/poiesic/simrank/source"
	"github.com/poiesic/simrank/source/scholar"
	"github.com/poiesic/simrank/warmup"
	"github.com/urfave/cli/v2"
)

func sourceFlags() []cli.Flag {
	return []cli.Flag{
		dbFlag(false),
		&cli.StringFlag{
			Name:  "candidates",
			Usage: "JSON lines file of candidates to rank",
		},
		&cli.BoolFlag{
			Name:  "scholar",
			Usage: "Search Semantic Scholar for candidates",
		},
		&cli.StringFlag{
			Name:    "scholar-url",
			Usage:   "Semantic Scholar API base URL",
			Value:   scholar.DefaultBaseURL,
			EnvVars: []string{"SIMRANK_SCHOLAR_URL"},
		},
		&cli.StringFlag{
			Name:    "scholar-api-key",
			Usage:   "Semantic Scholar API key",
			EnvVars: []string{"SIMRANK_SCHOLAR_API_KEY"},
		},
		&cli.IntFlag{
			Name:  "scholar-offset",
			Usage: "Result offset for Semantic Scholar searches",
		},
		&cli.IntFlag{
			Name:  "limit",
			Usage: "Maximum number of candidates to discover per query",
			Value: 100,
		},
	}
}

// openEngine builds the engine and the candidate source selected by flags.
// Exactly one of --db, --candidates and --scholar must be given.
func openEngine(c *cli.Context) (*simrank.Engine, source.CandidateSource, error) {
	selected := 0
	for _, set := range []bool{c.String("db") != "", c.String("candidates") != "", c.Bool("scholar")} {
		if set {
			selected++
		}
	}
	if selected != 1 {
		return nil, nil, fmt.Errorf("exactly one of --db, --candidates or --scholar is required")
	}

	opts, err := engineOptions(c)
	if err != nil {
		return nil, nil, err
	}
	if path := c.String("db"); path != "" {
		opts = append(opts, simrank.WithCatalogPath(path))
	}

	engine, err := simrank.NewEngine(opts...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create engine: %w", err)
	}

	var src source.CandidateSource
	switch {
	case c.String("db") != "":
		src, err = engine.NewCatalogSource(c.Int("limit"))
	case c.String("candidates") != "":
		src, err = loadCandidates(c.Context, c.String("candidates"))
	default:
		src, err = scholar.New(
			scholar.WithBaseURL(c.String("scholar-url")),
			scholar.WithAPIKey(c.String("scholar-api-key")),
			scholar.WithOffset(c.Int("scholar-offset")),
			scholar.WithLimit(max(1, c.Int("limit"))),
		)
	}
	if err != nil {
		engine.Close()
		return nil, nil, err
	}
	return engine, src, nil
}

// loadCandidates reads a JSON lines file into a fixed candidate list, in
// file order and with duplicates kept, using the same field rules as catalog
// import.
func loadCandidates(ctx context.Context, path string) (source.Static, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read candidates: %w", err)
	}
	defer f.Close()

	candidates, result, err := ingestion.ReadCandidates(ctx, f, false)
	if err != nil {
		return nil, fmt.Errorf("failed to read candidates: %w", err)
	}
	slog.Debug("candidates loaded", "path", path, "candidates", result.Imported, "skipped", result.Skipped)
	return candidates, nil
}

func rankCommand(c *cli.Context) error {
	query := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if query == "" {
		return fmt.Errorf("query is required")
	}

	engine, src, err := openEngine(c)
	if err != nil {
		return err
	}
	defer engine.Close()

	candidates, err := src.Search(c.Context, query)
	if err != nil {
		return err
	}

	results, err := engine.Rank(c.Context, query, candidates)
	if err != nil {
		return err
	}
	printResults(c.App.Writer, query, ranking.TopK(results, c.Int("top")))
	return nil
}

func sessionCommand(c *cli.Context) error {
	engine, src, err := openEngine(c)
	if err != nil {
		return err
	}
	defer engine.Close()

	if c.Bool("warm") {
		if engine.Catalog() == nil {
			return fmt.Errorf("--warm requires --db")
		}
		warmer, err := engine.NewWarmer(warmup.WithProgress(c.App.ErrWriter))
		if err != nil {
			return err
		}
		_, err = warmer.Run(c.Context)
		warmer.Release()
		if err != nil {
			return err
		}
	}

	out := c.App.Writer
	orch, err := engine.NewOrchestrator(
		search.WithMaxResults(c.Int("top")),
		search.WithListener(func(d search.Delivery) {
			if d.Err != nil {
				fmt.Fprintf(out, "#%d %q failed: %v\n", d.Generation, d.Query, d.Err)
				return
			}
			fmt.Fprintf(out, "#%d ", d.Generation)
			printResults(out, d.Query, d.Results)
		}),
	)
	if err != nil {
		return err
	}

	err = runSession(c.Context, c.App.Reader, c.App.ErrWriter, src, orch)
	orch.Release()
	return err
}

// runSession submits every non-blank input line as a new query. Submitting
// supersedes the previous query, so only the newest result set is printed
// when input arrives faster than rankings complete.
func runSession(ctx context.Context, in io.Reader, errOut io.Writer, src source.CandidateSource, orch *search.Orchestrator) error {
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		query := strings.TrimSpace(scanner.Text())
		if query == "" {
			continue
		}
		candidates, err := src.Search(ctx, query)
		if err != nil {
			fmt.Fprintf(errOut, "search failed for %q: %v\n", query, err)
			continue
		}
		orch.Submit(ctx, query, candidates)
	}
	return scanner.Err()
}

func printResults(w io.Writer, query string, results []core.RankedResult) {
	fmt.Fprintf(w, "%d results for %q\n", len(results), query)
	for i, r := range results {
		fmt.Fprintf(w, "%3d. [%6.3f] %s (%s)\n", i+1, r.Similarity, r.Candidate.Text, r.Candidate.ID)
	}
}
