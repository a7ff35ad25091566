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


package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/poiesic/simrank"
	"github.com/poiesic/simrank/ai"
	"github.com/poiesic/simrank/embedding"
	"github.com/urfave/cli/v2"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "simrank",
		Usage: "Rank candidate documents by semantic similarity to a query",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
				EnvVars: []string{"SIMRANK_LOG_LEVEL"},
			},
			&cli.StringFlag{
				Name:  "env-file",
				Usage: "Load environment variables from this file if it exists",
				Value: ".env",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:      "rank",
				Usage:     "Rank candidates against a single query",
				ArgsUsage: "QUERY...",
				Action:    rankCommand,
				Flags:     append(sourceFlags(), append(embeddingFlags(), &cli.IntFlag{
					Name:  "top",
					Usage: "Show only the N best results (0 shows all)",
					Value: 10,
				})...),
			},
			{
				Name:   "session",
				Usage:  "Rank candidates against every line read from stdin",
				Action: sessionCommand,
				Flags: append(sourceFlags(), append(embeddingFlags(),
					&cli.IntFlag{
						Name:  "top",
						Usage: "Show only the N best results (0 shows all)",
						Value: 10,
					},
					&cli.BoolFlag{
						Name:  "warm",
						Usage: "Embed every catalog entry before reading queries (requires --db)",
					},
				)...),
			},
			{
				Name:  "catalog",
				Usage: "Manage the local candidate catalog",
				Subcommands: []*cli.Command{
					{
						Name:      "import",
						Usage:     "Import JSON lines documents into the catalog",
						ArgsUsage: "FILE...",
						Action:    importCommand,
						Flags: []cli.Flag{
							dbFlag(true),
							&cli.IntFlag{
								Name:  "batch-size",
								Usage: "Number of entries written per transaction",
								Value: 500,
							},
							&cli.StringFlag{
								Name:  "label",
								Usage: "Source label recorded on imported entries",
								Value: "import",
							},
							&cli.BoolFlag{
								Name:  "strict",
								Usage: "Fail on the first line that cannot be imported",
							},
						},
					},
					{
						Name:      "list",
						Usage:     "List catalog entries, optionally filtered by query terms",
						ArgsUsage: "[QUERY...]",
						Action:    listCommand,
						Flags: []cli.Flag{
							dbFlag(true),
							&cli.IntFlag{
								Name:  "limit",
								Usage: "Maximum number of entries to list (0 lists all)",
							},
						},
					},
					{
						Name:   "warm",
						Usage:  "Embed every catalog entry and report failures",
						Action: warmCommand,
						Flags: append([]cli.Flag{
							dbFlag(true),
							&cli.IntFlag{
								Name:  "batch-size",
								Usage: "Number of entries submitted per batch",
								Value: 100,
							},
							&cli.IntFlag{
								Name:  "report-interval",
								Usage: "Report progress every N entries",
								Value: 50,
							},
							&cli.IntFlag{
								Name:  "pool-size",
								Usage: "Number of concurrent embedding requests",
								Value: 4,
							},
						}, embeddingFlags()...),
					},
				},
			},
		},
	}
}

func dbFlag(required bool) cli.Flag {
	return &cli.StringFlag{
		Name:     "db",
		Aliases:  []string{"d"},
		Usage:    "Path to BadgerDB catalog directory",
		EnvVars:  []string{"SIMRANK_DB"},
		Required: required,
	}
}

func embeddingFlags() []cli.Flag {
	defaults := ai.DefaultConfig()
	clientDefaults := embedding.DefaultClientConfig()
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "provider",
			Usage:   "Embedding provider (openai, azure)",
			Value:   defaults.Provider,
			EnvVars: []string{"SIMRANK_PROVIDER"},
		},
		&cli.StringFlag{
			Name:    "embedding-host",
			Usage:   "Embedding service host URL",
			Value:   defaults.EmbeddingHost,
			EnvVars: []string{"SIMRANK_EMBEDDING_HOST"},
		},
		&cli.StringFlag{
			Name:    "embedding-model",
			Usage:   "Embedding model name (Azure deployment name for azure)",
			Value:   defaults.EmbeddingModel,
			EnvVars: []string{"SIMRANK_EMBEDDING_MODEL"},
		},
		&cli.StringFlag{
			Name:    "api-key",
			Usage:   "API key for the embedding service",
			EnvVars: []string{"SIMRANK_API_KEY"},
		},
		&cli.StringFlag{
			Name:    "api-version",
			Usage:   "Azure OpenAI API version",
			Value:   defaults.APIVersion,
			EnvVars: []string{"SIMRANK_API_VERSION"},
		},
		&cli.IntFlag{
			Name:    "dimensions",
			Usage:   "Requested embedding dimensions (0 uses the model default)",
			EnvVars: []string{"SIMRANK_DIMENSIONS"},
		},
		&cli.IntFlag{
			Name:    "max-attempts",
			Usage:   "Maximum attempts per embedding request",
			Value:   clientDefaults.MaxAttempts,
			EnvVars: []string{"SIMRANK_MAX_ATTEMPTS"},
		},
		&cli.DurationFlag{
			Name:    "request-timeout",
			Usage:   "Timeout for a single embedding request",
			Value:   clientDefaults.RequestTimeout,
			EnvVars: []string{"SIMRANK_REQUEST_TIMEOUT"},
		},
		&cli.IntFlag{
			Name:    "cache-size",
			Usage:   "Maximum number of cached embeddings",
			Value:   embedding.DefaultMaxEntries,
			EnvVars: []string{"SIMRANK_CACHE_SIZE"},
		},
		&cli.DurationFlag{
			Name:    "cache-ttl",
			Usage:   "Expire cached embeddings after this long (0 never expires)",
			EnvVars: []string{"SIMRANK_CACHE_TTL"},
		},
	}
}

// engineOptions builds engine options from the embedding flags.
func engineOptions(c *cli.Context) ([]simrank.Option, error) {
	aiConfig := ai.NewConfig(
		ai.WithProvider(c.String("provider")),
		ai.WithEmbeddingHost(c.String("embedding-host")),
		ai.WithEmbeddingModel(c.String("embedding-model")),
		ai.WithAPIKey(c.String("api-key")),
		ai.WithAPIVersion(c.String("api-version")),
		ai.WithDimensions(c.Int("dimensions")),
	)
	if err := aiConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid AI configuration: %w", err)
	}

	clientConfig := embedding.DefaultClientConfig()
	clientConfig.MaxAttempts = c.Int("max-attempts")
	clientConfig.RequestTimeout = c.Duration("request-timeout")
	if clientConfig.MaxAttempts <= 0 {
		return nil, fmt.Errorf("max-attempts must be greater than 0")
	}
	if c.Int("cache-size") <= 0 {
		return nil, fmt.Errorf("cache-size must be greater than 0")
	}

	return []simrank.Option{
		simrank.WithAIConfig(aiConfig),
		simrank.WithClientConfig(clientConfig),
		simrank.WithCacheSize(c.Int("cache-size")),
		simrank.WithCacheTTL(c.Duration("cache-ttl")),
	}, nil
}

func setupLogger(c *cli.Context) error {
	if err := loadEnvFile(c.String("env-file")); err != nil {
		return err
	}

	// The log level may come from the file just loaded.
	levelStr := c.String("log-level")
	if !c.IsSet("log-level") {
		if v, ok := os.LookupEnv("SIMRANK_LOG_LEVEL"); ok {
			levelStr = v
		}
	}

	level, err := parseLevel(levelStr)
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}

func parseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", s)
	}
}

// loadEnvFile loads path into the environment. A missing file is not an
// error; variables already set are not overridden.
func loadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}
