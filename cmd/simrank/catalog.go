package main

import (
	"fmt"
	"strings"

	"github.com/poiesic/simrank"
	"github.com/poiesic/simrank/ingestion"
	"github.com/poiesic/simrank/storage/badger"
	"github.com/poiesic/simrank/warmup"
	"github.com/urfave/cli/v2"
)

func importCommand(c *cli.Context) error {
	if c.NArg() == 0 {
		return fmt.Errorf("at least one input file is required")
	}
	if c.Int("batch-size") <= 0 {
		return fmt.Errorf("batch-size must be greater than 0")
	}

	repo, err := badger.OpenCatalog(c.String("db"))
	if err != nil {
		return fmt.Errorf("failed to open catalog: %w", err)
	}
	defer repo.Close()

	importer, err := ingestion.NewImporter(repo,
		ingestion.WithBatchSize(c.Int("batch-size")),
		ingestion.WithSource(c.String("label")),
		ingestion.WithStrict(c.Bool("strict")),
	)
	if err != nil {
		return err
	}

	var total ingestion.Result
	for _, path := range c.Args().Slice() {
		result, err := importer.ImportFile(c.Context, path)
		total.Lines += result.Lines
		total.Imported += result.Imported
		total.Skipped += result.Skipped
		if err != nil {
			return fmt.Errorf("import %s: %w", path, err)
		}
		fmt.Fprintf(c.App.ErrWriter, "%s: imported %d, skipped %d\n", path, result.Imported, result.Skipped)
	}

	count, err := repo.Count(c.Context)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "Imported %d entries (%d skipped). Catalog now holds %d entries.\n",
		total.Imported, total.Skipped, count)
	return nil
}

func listCommand(c *cli.Context) error {
	repo, err := badger.OpenCatalog(c.String("db"))
	if err != nil {
		return fmt.Errorf("failed to open catalog: %w", err)
	}
	defer repo.Close()

	entries, err := repo.SearchEntries(c.Context, strings.Join(c.Args().Slice(), " "), c.Int("limit"))
	if err != nil {
		return err
	}
	for _, entry := range entries {
		fmt.Fprintf(c.App.Writer, "%s\t%s\n", entry.CandidateID, entry.Text)
	}
	return nil
}

func warmCommand(c *cli.Context) error {
	config := &warmup.Config{
		BatchSize:      c.Int("batch-size"),
		ReportInterval: c.Int("report-interval"),
		PoolSize:       c.Int("pool-size"),
	}
	if config.BatchSize <= 0 {
		return fmt.Errorf("batch-size must be greater than 0")
	}
	if config.ReportInterval <= 0 {
		return fmt.Errorf("report-interval must be greater than 0")
	}
	if config.PoolSize <= 0 {
		return fmt.Errorf("pool-size must be greater than 0")
	}

	opts, err := engineOptions(c)
	if err != nil {
		return err
	}
	engine, err := simrank.NewEngine(append(opts, simrank.WithCatalogPath(c.String("db")))...)
	if err != nil {
		return fmt.Errorf("failed to create engine: %w", err)
	}
	defer engine.Close()

	warmer, err := engine.NewWarmer(warmup.WithConfig(config), warmup.WithProgress(c.App.ErrWriter))
	if err != nil {
		return err
	}
	defer warmer.Release()

	result, err := warmer.Run(c.Context)
	if err != nil {
		return fmt.Errorf("warmup failed: %w", err)
	}
	if result.Failed > 0 {
		return fmt.Errorf("%d of %d entries failed to embed", result.Failed, result.Total)
	}
	return nil
}
