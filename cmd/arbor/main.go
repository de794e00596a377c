// Copyright 2026 Arbor Labs
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
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"strconv"
	"strings"

	arbor "github.com/arborlabs/arbor"
	"github.com/arborlabs/arbor/ai"
	"github.com/arborlabs/arbor/core"
	"github.com/arborlabs/arbor/discovery"
	"github.com/arborlabs/arbor/ingestion"
	"github.com/arborlabs/arbor/search"
	"github.com/arborlabs/arbor/storage"
	"github.com/urfave/cli/v2"
)

func main() {
	dbFlag := &cli.StringFlag{
		Name:     "db",
		Aliases:  []string{"d"},
		Usage:    "Path to BadgerDB database directory",
		Required: true,
	}

	app := &cli.App{
		Name:  "arbor",
		Usage: "Knowledge pipeline: ingest, embed, search and organize documents",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:      "ingest",
				Usage:     "Ingest a document from a file or stdin",
				ArgsUsage: "[file]",
				Action:    ingestCommand,
				Flags: []cli.Flag{
					dbFlag,
					&cli.StringFlag{
						Name:     "title",
						Aliases:  []string{"t"},
						Usage:    "Document title",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "tier",
						Usage: "Maturity tier (sapling, tree, grove)",
						Value: "sapling",
					},
					&cli.StringFlag{
						Name:  "source-type",
						Usage: "Source type label",
						Value: "upload",
					},
					&cli.StringFlag{
						Name:  "source-url",
						Usage: "Source URL",
					},
				},
			},
			{
				Name:   "embed",
				Usage:  "Embed pending documents",
				Action: embedCommand,
				Flags: []cli.Flag{
					dbFlag,
					&cli.StringFlag{
						Name:  "embedding-host",
						Usage: "Embedding service host URL",
						Value: "http://localhost:11434/v1",
					},
					&cli.StringFlag{
						Name:  "embedding-model",
						Usage: "Embedding model name",
						Value: "embeddinggemma",
					},
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of documents to process",
						Value: 100,
					},
					&cli.IntFlag{
						Name:  "pool-size",
						Usage: "Number of concurrent embedding workers",
					},
				},
			},
			{
				Name:      "search",
				Usage:     "Search documents by semantic similarity",
				ArgsUsage: "<query>",
				Action:    searchCommand,
				Flags: []cli.Flag{
					dbFlag,
					&cli.StringFlag{
						Name:  "embedding-host",
						Usage: "Embedding service host URL",
						Value: "http://localhost:11434/v1",
					},
					&cli.StringFlag{
						Name:  "embedding-model",
						Usage: "Embedding model name",
						Value: "embeddinggemma",
					},
					&cli.StringFlag{
						Name:  "expander-host",
						Usage: "Query expansion service host URL (defaults to embedding-host)",
					},
					&cli.StringFlag{
						Name:  "expander-model",
						Usage: "Query expansion model name",
						Value: "qwen2.5:3b",
					},
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of results",
						Value: 10,
					},
					&cli.Float64Flag{
						Name:  "threshold",
						Usage: "Minimum similarity score",
						Value: 0.5,
					},
					&cli.BoolFlag{
						Name:  "no-expand",
						Usage: "Disable LLM query expansion",
					},
				},
			},
			{
				Name:      "similar",
				Usage:     "Find documents similar to an existing document",
				ArgsUsage: "<document-id>",
				Action:    similarCommand,
				Flags: []cli.Flag{
					dbFlag,
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of results",
						Value: 10,
					},
				},
			},
			{
				Name:   "cluster",
				Usage:  "Cluster embedded documents into suggested hubs",
				Action: clusterCommand,
				Flags: []cli.Flag{
					dbFlag,
					&cli.IntFlag{
						Name:  "min-cluster-size",
						Usage: "Smallest cluster worth keeping",
						Value: 2,
					},
					&cli.Float64Flag{
						Name:  "similarity-threshold",
						Usage: "Minimum cosine similarity to the cluster seed",
						Value: 0.7,
					},
				},
			},
			{
				Name:   "synthesize",
				Usage:  "Synthesize reading journeys from hubs",
				Action: synthesizeCommand,
				Flags: []cli.Flag{
					dbFlag,
					&cli.BoolFlag{
						Name:  "include-suggested",
						Usage: "Also synthesize journeys for hubs awaiting curation",
					},
				},
			},
			{
				Name:  "hubs",
				Usage: "List and curate suggested hubs",
				Subcommands: []*cli.Command{
					{
						Name:   "list",
						Usage:  "List hubs, newest first",
						Action: listHubsCommand,
						Flags: []cli.Flag{
							dbFlag,
							&cli.StringFlag{
								Name:  "status",
								Usage: "Filter by curation status (suggested, approved, rejected)",
							},
						},
					},
					{
						Name:      "approve",
						Usage:     "Approve a hub",
						ArgsUsage: "<hub-id>",
						Action:    curateHubCommand(core.CurationApproved),
						Flags: []cli.Flag{
							dbFlag,
							&cli.StringFlag{
								Name:  "title",
								Usage: "Override the suggested title",
							},
						},
					},
					{
						Name:      "reject",
						Usage:     "Reject a hub",
						ArgsUsage: "<hub-id>",
						Action:    curateHubCommand(core.CurationRejected),
						Flags:     []cli.Flag{dbFlag},
					},
				},
			},
			{
				Name:  "journeys",
				Usage: "List, inspect and curate suggested journeys",
				Subcommands: []*cli.Command{
					{
						Name:   "list",
						Usage:  "List journeys, newest first",
						Action: listJourneysCommand,
						Flags: []cli.Flag{
							dbFlag,
							&cli.StringFlag{
								Name:  "status",
								Usage: "Filter by curation status (suggested, approved, rejected)",
							},
						},
					},
					{
						Name:      "show",
						Usage:     "Show a journey's reading path",
						ArgsUsage: "<journey-id>",
						Action:    showJourneyCommand,
						Flags:     []cli.Flag{dbFlag},
					},
					{
						Name:      "approve",
						Usage:     "Approve a journey",
						ArgsUsage: "<journey-id>",
						Action:    curateJourneyCommand(core.CurationApproved),
						Flags: []cli.Flag{
							dbFlag,
							&cli.StringFlag{
								Name:  "title",
								Usage: "Override the suggested title",
							},
						},
					},
					{
						Name:      "reject",
						Usage:     "Reject a journey",
						ArgsUsage: "<journey-id>",
						Action:    curateJourneyCommand(core.CurationRejected),
						Flags:     []cli.Flag{dbFlag},
					},
				},
			},
			{
				Name:  "docs",
				Usage: "List and manage documents",
				Subcommands: []*cli.Command{
					{
						Name:   "list",
						Usage:  "List documents, oldest first",
						Action: listDocsCommand,
						Flags: []cli.Flag{
							dbFlag,
							&cli.StringFlag{
								Name:  "tier",
								Usage: "Filter by tier (sapling, tree, grove)",
							},
							&cli.StringFlag{
								Name:  "status",
								Usage: "Filter by embedding status (pending, processing, complete, error)",
							},
							&cli.BoolFlag{
								Name:  "archived",
								Usage: "Show archived documents instead of active ones",
							},
							&cli.IntFlag{
								Name:  "limit",
								Usage: "Maximum number of documents",
								Value: 50,
							},
							&cli.IntFlag{
								Name:  "offset",
								Usage: "Number of documents to skip",
							},
						},
					},
					{
						Name:      "delete",
						Usage:     "Delete a document with its chunks and embeddings",
						ArgsUsage: "<document-id>",
						Action:    deleteDocCommand,
						Flags:     []cli.Flag{dbFlag},
					},
					{
						Name:      "archive",
						Usage:     "Archive a document, hiding it from search and clustering",
						ArgsUsage: "<document-id>",
						Action:    archiveDocCommand,
						Flags:     []cli.Flag{dbFlag},
					},
				},
			},
			{
				Name:   "stats",
				Usage:  "Show corpus statistics",
				Action: statsCommand,
				Flags:  []cli.Flag{dbFlag},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func openDatabase(c *cli.Context) (*arbor.Database, error) {
	aiOpts := []ai.ConfigOption{}
	if c.IsSet("embedding-host") {
		aiOpts = append(aiOpts, ai.WithEmbeddingHost(c.String("embedding-host")))
	}
	if c.IsSet("embedding-model") {
		aiOpts = append(aiOpts, ai.WithEmbeddingModel(c.String("embedding-model")))
	}
	if c.IsSet("expander-host") {
		aiOpts = append(aiOpts, ai.WithExpanderHost(c.String("expander-host")))
	} else if c.IsSet("embedding-host") {
		aiOpts = append(aiOpts, ai.WithExpanderHost(c.String("embedding-host")))
	}
	if c.IsSet("expander-model") {
		aiOpts = append(aiOpts, ai.WithExpanderModel(c.String("expander-model")))
	}

	config := ai.NewConfig(aiOpts...)
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid AI configuration: %w", err)
	}

	db, err := arbor.NewDatabase(c.String("db"), arbor.WithAIConfig(config))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return db, nil
}

func idArg(c *cli.Context) (core.ID, error) {
	if c.NArg() != 1 {
		return 0, fmt.Errorf("expected exactly one id argument")
	}
	id, err := strconv.ParseUint(c.Args().First(), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid id %q: %w", c.Args().First(), err)
	}
	return core.ID(id), nil
}

func ingestCommand(c *cli.Context) error {
	var content []byte
	var err error
	if c.NArg() > 0 {
		content, err = os.ReadFile(c.Args().First())
	} else {
		content, err = io.ReadAll(os.Stdin)
	}
	if err != nil {
		return fmt.Errorf("failed to read content: %w", err)
	}

	tier, err := core.ParseTier(c.String("tier"))
	if err != nil {
		return err
	}

	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	ingestor, err := db.NewIngestor()
	if err != nil {
		return err
	}

	result, err := ingestor.Ingest(c.Context, ingestion.IngestRequest{
		Title:      c.String("title"),
		Content:    string(content),
		Tier:       tier,
		SourceType: c.String("source-type"),
		SourceURL:  c.String("source-url"),
	})
	if err != nil {
		return fmt.Errorf("ingestion failed: %w", err)
	}

	if result.Duplicate {
		fmt.Printf("Duplicate content, existing document %d (status %s)\n", result.DocumentId, result.Status)
		return nil
	}
	fmt.Printf("Ingested document %d (%d chunks)\n", result.DocumentId, result.ChunksCreated)
	return nil
}

func embedCommand(c *cli.Context) error {
	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	var opts []ingestion.Option
	if c.IsSet("pool-size") {
		opts = append(opts, ingestion.WithPoolSize(c.Int("pool-size")))
	}

	embedder, err := db.NewEmbedder(opts...)
	if err != nil {
		return err
	}
	defer embedder.Release()

	result, err := embedder.EmbedPending(c.Context, c.Int("limit"))
	if err != nil {
		return fmt.Errorf("embedding failed: %w", err)
	}

	fmt.Printf("Processed %d documents\n", result.Processed)
	for _, e := range result.Errors {
		fmt.Printf("  document %d: %s\n", e.Id, e.Message)
	}
	return nil
}

func searchCommand(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("expected exactly one query argument")
	}
	query := c.Args().First()

	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	searcher, err := db.NewSearcher()
	if err != nil {
		return err
	}

	resp, err := searcher.Search(c.Context, query, &search.Options{
		Limit:     c.Int("limit"),
		Threshold: float32(c.Float64("threshold")),
		Expand:    !c.Bool("no-expand"),
	})
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if resp.ExpandedQuery != "" {
		fmt.Printf("Expanded query: %s\n\n", resp.ExpandedQuery)
	}
	if len(resp.Results) == 0 {
		fmt.Println("No results")
		return nil
	}
	for _, r := range resp.Results {
		fmt.Printf("%6d  %.3f  %s\n        %s\n", r.Id, r.Similarity, r.Title, r.Snippet)
	}
	return nil
}

func similarCommand(c *cli.Context) error {
	id, err := idArg(c)
	if err != nil {
		return err
	}

	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	searcher, err := db.NewSearcher()
	if err != nil {
		return err
	}

	results, err := searcher.FindSimilarDocuments(c.Context, id, c.Int("limit"))
	if err != nil {
		return fmt.Errorf("similarity lookup failed: %w", err)
	}

	if len(results) == 0 {
		fmt.Println("No similar documents")
		return nil
	}
	for _, r := range results {
		fmt.Printf("%6d  %.3f  %s\n", r.Id, r.Similarity, r.Title)
	}
	return nil
}

func clusterCommand(c *cli.Context) error {
	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	clusterer, err := db.NewClusterer()
	if err != nil {
		return err
	}

	result, err := clusterer.ClusterDocuments(c.Context, &discovery.ClusterOptions{
		MinClusterSize:      c.Int("min-cluster-size"),
		SimilarityThreshold: float32(c.Float64("similarity-threshold")),
	})
	if err != nil {
		return fmt.Errorf("clustering failed: %w", err)
	}

	fmt.Printf("Created %d hubs (run %d)\n", result.HubsCreated, result.RunId)
	return nil
}

func synthesizeCommand(c *cli.Context) error {
	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	synthesizer, err := db.NewSynthesizer()
	if err != nil {
		return err
	}

	result, err := synthesizer.SynthesizeJourneys(c.Context, &discovery.SynthesizeOptions{
		IncludeSuggested: c.Bool("include-suggested"),
	})
	if err != nil {
		return fmt.Errorf("synthesis failed: %w", err)
	}

	fmt.Printf("Created %d journeys (run %d)\n", result.JourneysCreated, result.RunId)
	return nil
}

func statusFilter(c *cli.Context) ([]core.CurationStatus, error) {
	if !c.IsSet("status") {
		return nil, nil
	}
	status, err := core.ParseCurationStatus(c.String("status"))
	if err != nil {
		return nil, err
	}
	return []core.CurationStatus{status}, nil
}

func listHubsCommand(c *cli.Context) error {
	statuses, err := statusFilter(c)
	if err != nil {
		return err
	}

	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	hubs, err := db.HubRepository().ListHubs(c.Context, statuses...)
	if err != nil {
		return err
	}

	if len(hubs) == 0 {
		fmt.Println("No hubs")
		return nil
	}
	for _, hub := range hubs {
		fmt.Printf("%6d  %-9s  q=%.3f  %d members  %s\n",
			hub.Id, hub.Status, hub.ClusterQuality, len(hub.MemberDocIds), hub.Title())
	}
	return nil
}

func curateHubCommand(status core.CurationStatus) cli.ActionFunc {
	return func(c *cli.Context) error {
		id, err := idArg(c)
		if err != nil {
			return err
		}

		db, err := openDatabase(c)
		if err != nil {
			return err
		}
		defer db.Close()

		hub, err := db.HubRepository().UpdateHubStatus(c.Context, id, status, c.String("title"))
		if err != nil {
			return err
		}
		fmt.Printf("Hub %d is now %s: %s\n", hub.Id, hub.Status, hub.Title())
		return nil
	}
}

func listJourneysCommand(c *cli.Context) error {
	statuses, err := statusFilter(c)
	if err != nil {
		return err
	}

	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	journeys, err := db.JourneyRepository().ListJourneys(c.Context, statuses...)
	if err != nil {
		return err
	}

	if len(journeys) == 0 {
		fmt.Println("No journeys")
		return nil
	}
	for _, journey := range journeys {
		fmt.Printf("%6d  %-9s  hub %d  %d stops  %s\n",
			journey.Id, journey.Status, journey.HubId, len(journey.NodeDocIds), journey.Title())
	}
	return nil
}

func showJourneyCommand(c *cli.Context) error {
	id, err := idArg(c)
	if err != nil {
		return err
	}

	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	result, err := db.GetJourneyWithNodes(c.Context, id)
	if err != nil {
		return err
	}

	fmt.Printf("%s (%s)\n", result.Journey.Title(), result.Journey.Status)
	for i, node := range result.Nodes {
		fmt.Printf("%3d. [%d] %s\n     %s\n", i+1, node.Id, node.Title, node.Snippet)
	}
	return nil
}

func curateJourneyCommand(status core.CurationStatus) cli.ActionFunc {
	return func(c *cli.Context) error {
		id, err := idArg(c)
		if err != nil {
			return err
		}

		db, err := openDatabase(c)
		if err != nil {
			return err
		}
		defer db.Close()

		journey, err := db.JourneyRepository().UpdateJourneyStatus(c.Context, id, status, c.String("title"))
		if err != nil {
			return err
		}
		fmt.Printf("Journey %d is now %s: %s\n", journey.Id, journey.Status, journey.Title())
		return nil
	}
}

func listDocsCommand(c *cli.Context) error {
	filter := storage.DocumentFilter{
		Limit:  c.Int("limit"),
		Offset: c.Int("offset"),
	}
	if c.IsSet("tier") {
		tier, err := core.ParseTier(c.String("tier"))
		if err != nil {
			return err
		}
		filter.Tiers = []core.Tier{tier}
	}
	if c.IsSet("status") {
		status, err := core.ParseEmbeddingStatus(c.String("status"))
		if err != nil {
			return err
		}
		filter.Statuses = []core.EmbeddingStatus{status}
	}
	archived := c.Bool("archived")
	filter.Archived = &archived

	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	docs, err := db.DocumentRepository().ListDocuments(c.Context, filter)
	if err != nil {
		return err
	}

	if len(docs) == 0 {
		fmt.Println("No documents")
		return nil
	}
	for _, doc := range docs {
		fmt.Printf("%6d  %-8s  %-10s  %s\n", doc.Id, doc.Tier, doc.EmbeddingStatus, doc.Title)
	}
	return nil
}

func deleteDocCommand(c *cli.Context) error {
	id, err := idArg(c)
	if err != nil {
		return err
	}

	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.DocumentRepository().DeleteDocument(c.Context, id); err != nil {
		return err
	}
	fmt.Printf("Deleted document %d\n", id)
	return nil
}

func archiveDocCommand(c *cli.Context) error {
	id, err := idArg(c)
	if err != nil {
		return err
	}

	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	doc, err := db.DocumentRepository().GetDocument(c.Context, id)
	if err != nil {
		return err
	}
	doc.Archived = true
	if _, err := db.DocumentRepository().UpdateDocument(c.Context, doc); err != nil {
		return err
	}
	fmt.Printf("Archived document %d\n", id)
	return nil
}

func statsCommand(c *cli.Context) error {
	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	stats, err := db.DocumentRepository().Stats(c.Context)
	if err != nil {
		return err
	}

	fmt.Printf("Documents: %d\n", stats.TotalDocuments)
	fmt.Println("By tier:")
	for _, tier := range []string{"sapling", "tree", "grove"} {
		if n, ok := stats.ByTier[tier]; ok {
			fmt.Printf("  %-10s %d\n", tier, n)
		}
	}
	fmt.Println("By status:")
	for _, status := range []string{"pending", "processing", "complete", "error"} {
		if n, ok := stats.ByStatus[status]; ok {
			fmt.Printf("  %-10s %d\n", status, n)
		}
	}
	fmt.Printf("Pending embedding: %d\n", stats.PendingEmbedding)
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
