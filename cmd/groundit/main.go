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
	"context"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/poiesic/groundit"
	"github.com/poiesic/groundit/ai"
	"github.com/poiesic/groundit/ai/openai"
	"github.com/poiesic/groundit/core"
	"github.com/poiesic/groundit/storage"
	"github.com/poiesic/groundit/storage/badger"
	"github.com/poiesic/groundit/storage/milvus"
	"github.com/urfave/cli/v2"
)

func main() {
	// Optional .env for local development; a missing file is fine.
	_ = godotenv.Load()

	app := &cli.App{
		Name:   "groundit",
		Usage:  "Scoped retrieval-augmented question answering over your own documents",
		Before: setupLogger,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "ingest",
				Usage:  "Ingest text from a file or stdin into the vector store",
				Action: ingestCommand,
				Flags:  append(append(storeFlags(), aiFlags()...), userFlag()),
			},
			{
				Name:      "query",
				Usage:     "Ask a question against your stored content",
				Action:    queryCommand,
				ArgsUsage: "<question>",
				Flags:     append(append(storeFlags(), aiFlags()...), userFlag()),
			},
			{
				Name:   "ingest-note",
				Usage:  "Ingest a platform-wide public document",
				Action: ingestNoteCommand,
				Flags: append(append(storeFlags(), aiFlags()...),
					&cli.StringFlag{
						Name:  "category",
						Usage: "Note category (help, faq, docs, policy, guidelines, tutorial, diy)",
						Value: "help",
					},
				),
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func storeFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "backend",
			Usage: "Vector store backend (badger or milvus)",
			Value: "badger",
		},
		&cli.StringFlag{
			Name:    "db",
			Aliases: []string{"d"},
			Usage:   "Path to the BadgerDB database directory",
			Value:   "./groundit-db",
		},
		&cli.StringFlag{
			Name:    "milvus-addr",
			Usage:   "Milvus server address",
			Value:   "localhost:19530",
			EnvVars: []string{"GROUNDIT_MILVUS_ADDR"},
		},
		&cli.StringFlag{
			Name:  "collection",
			Usage: "Milvus collection name",
			Value: milvus.DefaultCollection,
		},
	}
}

func userFlag() cli.Flag {
	return &cli.StringFlag{
		Name:     "user",
		Aliases:  []string{"u"},
		Usage:    "User the content belongs to",
		Required: true,
	}
}

func aiFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "ai-host",
			Usage:   "OpenAI-compatible service host URL",
			Value:   "http://localhost:11434/v1",
			EnvVars: []string{"GROUNDIT_AI_HOST"},
		},
		&cli.StringFlag{
			Name:  "embedding-model",
			Usage: "Embedding model name",
			Value: "embeddinggemma",
		},
		&cli.StringFlag{
			Name:  "judge-model",
			Usage: "Relevance scoring model name",
			Value: "qwen2.5:3b",
		},
		&cli.StringFlag{
			Name:  "generation-model",
			Usage: "Answer synthesis model name",
			Value: "qwen2.5:3b",
		},
	}
}

func openEngine(c *cli.Context) (*groundit.Engine, error) {
	ctx := c.Context

	var store storage.VectorStore
	var err error
	switch c.String("backend") {
	case "badger":
		store, err = badger.OpenStore(c.String("db"))
	case "milvus":
		store, err = milvus.OpenStore(ctx, milvus.Config{
			Address:    c.String("milvus-addr"),
			Collection: c.String("collection"),
		})
	default:
		return nil, fmt.Errorf("unknown backend %q: must be badger or milvus", c.String("backend"))
	}
	if err != nil {
		return nil, fmt.Errorf("open vector store: %w", err)
	}

	aiConfig := ai.NewConfig(
		ai.WithHost(c.String("ai-host")),
		ai.WithEmbeddingModel(c.String("embedding-model")),
		ai.WithJudgeModel(c.String("judge-model")),
		ai.WithGenerationModel(c.String("generation-model")),
	)

	provider, err := openai.NewProvider(aiConfig)
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("create AI provider: %w", err)
	}

	return groundit.NewEngine(store, provider)
}

func readInput(c *cli.Context) (string, error) {
	if c.Args().Len() > 0 {
		data, err := os.ReadFile(c.Args().First())
		if err != nil {
			return "", fmt.Errorf("read input file: %w", err)
		}
		return string(data), nil
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	return string(data), nil
}

func ingestCommand(c *cli.Context) error {
	ctx := context.Background()

	content, err := readInput(c)
	if err != nil {
		return err
	}

	engine, err := openEngine(c)
	if err != nil {
		return err
	}
	defer engine.Close()

	result, err := engine.Ingest(ctx, c.String("user"), content)
	if err != nil {
		return fmt.Errorf("ingest: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Processed %d chunks, stored %d new vectors\n",
		result.ChunksProcessed, result.NewVectors)
	return nil
}

func ingestNoteCommand(c *cli.Context) error {
	ctx := context.Background()

	content, err := readInput(c)
	if err != nil {
		return err
	}

	engine, err := openEngine(c)
	if err != nil {
		return err
	}
	defer engine.Close()

	result, err := engine.IngestNote(ctx, core.NoteCategory(c.String("category")), content)
	if err != nil {
		return fmt.Errorf("ingest note: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Processed %d chunks, stored %d new vectors\n",
		result.ChunksProcessed, result.NewVectors)
	return nil
}

func queryCommand(c *cli.Context) error {
	ctx := context.Background()

	question := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if question == "" {
		return fmt.Errorf("a question is required")
	}

	engine, err := openEngine(c)
	if err != nil {
		return err
	}
	defer engine.Close()

	answer, err := engine.Query(ctx, c.String("user"), question)
	if err != nil {
		return fmt.Errorf("query: %w", err)
	}

	fmt.Println(answer)
	return nil
}

func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
