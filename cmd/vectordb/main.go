package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	vectordb "github.com/ShyamSundR/stackai-vector-db"
	"github.com/ShyamSundR/stackai-vector-db/pkg/embedding"
	"github.com/ShyamSundR/stackai-vector-db/pkg/filter"
	"github.com/ShyamSundR/stackai-vector-db/pkg/query"
)

var (
	seedPath   string
	outPath    string
	configPath string
	verbose    bool
	autoEmbed  bool
)

var rootCmd = &cobra.Command{
	Use:   "vectordb",
	Short: "CLI for the in-process library/document/chunk vector store",
	Long: `A command-line adapter over the library/document/chunk vector store.

The store itself keeps no state between process invocations, so every
command accepts --seed to load a prior snapshot, and every command that
changes the store writes the resulting snapshot to --out (or to stdout,
if --out is omitted).`,
}

func openSession(ctx context.Context) (*session, error) {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return nil, err
	}
	level := parseLogLevel(cfg.LogLevel)
	if verbose {
		level = vectordb.LevelDebug
	}
	log := vectordb.NewStdLogger(level)

	s := newSession(log, cfg.DefaultVariant)
	if err := s.loadSnapshot(ctx, seedPath); err != nil {
		return nil, err
	}
	return s, nil
}

func parseLogLevel(name string) vectordb.LogLevel {
	switch strings.ToLower(name) {
	case "debug":
		return vectordb.LevelDebug
	case "warn":
		return vectordb.LevelWarn
	case "error":
		return vectordb.LevelError
	default:
		return vectordb.LevelInfo
	}
}

func parseVector(s string) ([]float32, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	vec := make([]float32, 0, len(parts))
	for _, part := range parts {
		val, err := strconv.ParseFloat(strings.TrimSpace(part), 32)
		if err != nil {
			return nil, fmt.Errorf("invalid vector format: %w", err)
		}
		vec = append(vec, float32(val))
	}
	return vec, nil
}

func parseMetadata(s string) (vectordb.Metadata, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	var md vectordb.Metadata
	if err := json.Unmarshal([]byte(s), &md); err != nil {
		return nil, fmt.Errorf("invalid metadata JSON: %w", err)
	}
	return md, nil
}

func printJSON(v any) {
	data, _ := json.MarshalIndent(v, "", "  ")
	fmt.Println(string(data))
}

// --- library ---

var libraryCmd = &cobra.Command{
	Use:   "library",
	Short: "Manage libraries",
}

var libraryCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a library",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		s, err := openSession(ctx)
		if err != nil {
			return err
		}
		name, _ := cmd.Flags().GetString("name")
		id, _ := cmd.Flags().GetString("id")
		metadataStr, _ := cmd.Flags().GetString("metadata")
		metadata, err := parseMetadata(metadataStr)
		if err != nil {
			return err
		}

		lib, err := s.service.CreateLibrary(ctx, id, name, metadata)
		if err != nil {
			return err
		}
		if s.defaultVariant != "" {
			if err := s.engine.SetVariant(lib.ID, s.defaultVariant); err != nil {
				return err
			}
		}
		printJSON(lib)
		return s.saveSnapshot(ctx, outPath)
	},
}

var libraryGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Get a library by id",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		s, err := openSession(ctx)
		if err != nil {
			return err
		}
		lib, err := s.catalog.GetLibrary(ctx, args[0])
		if err != nil {
			return err
		}
		printJSON(lib)
		return nil
	},
}

var libraryListCmd = &cobra.Command{
	Use:   "list",
	Short: "List libraries",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		s, err := openSession(ctx)
		if err != nil {
			return err
		}
		printJSON(s.catalog.ListLibraries(ctx))
		return nil
	},
}

var libraryDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a library, cascading to its documents and chunks",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		s, err := openSession(ctx)
		if err != nil {
			return err
		}
		if err := s.catalog.DeleteLibrary(ctx, args[0]); err != nil {
			return err
		}
		fmt.Printf("library %s deleted\n", args[0])
		return s.saveSnapshot(ctx, outPath)
	},
}

// --- document ---

var documentCmd = &cobra.Command{
	Use:   "document",
	Short: "Manage documents",
}

var documentCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a document under a library",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		s, err := openSession(ctx)
		if err != nil {
			return err
		}
		libraryID, _ := cmd.Flags().GetString("library")
		title, _ := cmd.Flags().GetString("title")
		id, _ := cmd.Flags().GetString("id")
		metadataStr, _ := cmd.Flags().GetString("metadata")
		metadata, err := parseMetadata(metadataStr)
		if err != nil {
			return err
		}

		doc, err := s.service.CreateDocument(ctx, id, libraryID, title, metadata)
		if err != nil {
			return err
		}
		printJSON(doc)
		return s.saveSnapshot(ctx, outPath)
	},
}

var documentGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Get a document by id",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		s, err := openSession(ctx)
		if err != nil {
			return err
		}
		doc, err := s.catalog.GetDocument(ctx, args[0])
		if err != nil {
			return err
		}
		printJSON(doc)
		return nil
	},
}

var documentDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a document, cascading to its chunks",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		s, err := openSession(ctx)
		if err != nil {
			return err
		}
		if err := s.catalog.DeleteDocument(ctx, args[0]); err != nil {
			return err
		}
		fmt.Printf("document %s deleted\n", args[0])
		return s.saveSnapshot(ctx, outPath)
	},
}

// --- chunk ---

var chunkCmd = &cobra.Command{
	Use:   "chunk",
	Short: "Manage chunks",
}

var chunkCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a chunk under a document",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		s, err := openSession(ctx)
		if err != nil {
			return err
		}
		documentID, _ := cmd.Flags().GetString("document")
		text, _ := cmd.Flags().GetString("text")
		id, _ := cmd.Flags().GetString("id")
		vectorStr, _ := cmd.Flags().GetString("embedding")
		metadataStr, _ := cmd.Flags().GetString("metadata")

		embeddingVec, err := parseVector(vectorStr)
		if err != nil {
			return err
		}
		metadata, err := parseMetadata(metadataStr)
		if err != nil {
			return err
		}
		if embeddingVec == nil {
			if !autoEmbed {
				return vectordb.NewEmbeddingUnavailable("cli.chunk.create")
			}
			embeddingVec, err = s.embedder.Embed(ctx, text, embedding.ModeDocument)
			if err != nil {
				return err
			}
		}

		chunk, err := s.service.CreateChunk(ctx, id, documentID, text, embeddingVec, metadata)
		if err != nil {
			return err
		}
		printJSON(chunk)

		if libID, err := s.catalog.ChunkLibraryID(ctx, chunk.ID); err == nil {
			_ = s.engine.AddChunkToIndex(libID, chunk)
		}
		return s.saveSnapshot(ctx, outPath)
	},
}

var chunkGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Get a chunk by id",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		s, err := openSession(ctx)
		if err != nil {
			return err
		}
		chunk, err := s.catalog.GetChunk(ctx, args[0])
		if err != nil {
			return err
		}
		printJSON(chunk)
		return nil
	},
}

var chunkDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a chunk",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		s, err := openSession(ctx)
		if err != nil {
			return err
		}
		if libID, err := s.catalog.ChunkLibraryID(ctx, args[0]); err == nil {
			_ = s.engine.RemoveChunkFromIndex(libID, args[0])
		}
		if err := s.catalog.DeleteChunk(ctx, args[0]); err != nil {
			return err
		}
		fmt.Printf("chunk %s deleted\n", args[0])
		return s.saveSnapshot(ctx, outPath)
	},
}

// --- index ---

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Manage a library's search index",
}

var indexSetVariantCmd = &cobra.Command{
	Use:   "set-variant",
	Short: "Declare a library's index variant (brute_force or kdtree)",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		s, err := openSession(ctx)
		if err != nil {
			return err
		}
		libraryID, _ := cmd.Flags().GetString("library")
		variant, _ := cmd.Flags().GetString("variant")
		if err := s.engine.SetVariant(libraryID, variant); err != nil {
			return err
		}
		fmt.Printf("library %s declared variant %s\n", libraryID, variant)
		return s.saveSnapshot(ctx, outPath)
	},
}

var indexBuildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build a library's index from its current chunks",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		s, err := openSession(ctx)
		if err != nil {
			return err
		}
		libraryID, _ := cmd.Flags().GetString("library")
		variant, _ := cmd.Flags().GetString("variant")

		chunks, err := s.catalog.ListLibraryChunks(ctx, libraryID)
		if err != nil {
			return err
		}
		if err := s.engine.IndexLibrary(ctx, libraryID, chunks, variant); err != nil {
			return err
		}
		fmt.Printf("library %s indexed with %d chunks (variant %s)\n", libraryID, len(chunks), s.engine.GetVariant(libraryID))
		return s.saveSnapshot(ctx, outPath)
	},
}

// --- search ---

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Run a k-nearest-neighbor search against a library",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		s, err := openSession(ctx)
		if err != nil {
			return err
		}
		libraryID, _ := cmd.Flags().GetString("library")
		vectorStr, _ := cmd.Flags().GetString("query")
		text, _ := cmd.Flags().GetString("text")
		k, _ := cmd.Flags().GetInt("k")
		metricStr, _ := cmd.Flags().GetString("metric")
		filterStr, _ := cmd.Flags().GetString("filter")

		queryVec, err := parseVector(vectorStr)
		if err != nil {
			return err
		}
		if queryVec == nil {
			if text == "" {
				return vectordb.NewEmptyQuery("cli.search")
			}
			if !autoEmbed {
				return vectordb.NewEmbeddingUnavailable("cli.search")
			}
			queryVec, err = s.embedder.Embed(ctx, text, embedding.ModeQuery)
			if err != nil {
				return err
			}
		}

		metric := vectordb.Metric(metricStr)
		if !vectordb.ValidMetric(metric) {
			return vectordb.NewInvalidMetric("cli.search", metricStr)
		}

		var pred filter.Predicate
		if filterStr != "" {
			if err := json.Unmarshal([]byte(filterStr), &pred); err != nil {
				return fmt.Errorf("invalid filter JSON: %w", err)
			}
		}

		hits, err := s.engine.Search(libraryID, query.SearchRequest{
			Query:  queryVec,
			K:      k,
			Metric: metric,
			Filter: pred,
		})
		if err != nil {
			return err
		}
		printJSON(hits)
		return nil
	},
}

// --- similarity (stateless, no session needed) ---

var similarityCmd = &cobra.Command{
	Use:   "similarity",
	Short: "Calculate distance/similarity between two ad-hoc vectors",
	RunE: func(cmd *cobra.Command, args []string) error {
		v1Str, _ := cmd.Flags().GetString("vector1")
		v2Str, _ := cmd.Flags().GetString("vector2")
		metricStr, _ := cmd.Flags().GetString("metric")

		v1, err := parseVector(v1Str)
		if err != nil {
			return err
		}
		v2, err := parseVector(v2Str)
		if err != nil {
			return err
		}
		if len(v1) != len(v2) {
			return vectordb.NewDimensionMismatch("cli.similarity", len(v1), len(v2))
		}

		metric := vectordb.Metric(metricStr)
		if !vectordb.ValidMetric(metric) {
			return vectordb.NewInvalidMetric("cli.similarity", metricStr)
		}
		distance, similarity, err := vectordb.Compute(metric, v1, v2)
		if err != nil {
			return err
		}
		fmt.Printf("distance=%.6f similarity=%.6f\n", distance, similarity)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&seedPath, "seed", "", "path to a snapshot JSON file to preload")
	rootCmd.PersistentFlags().StringVar(&outPath, "out", "", "path to write the resulting snapshot JSON (stdout if empty)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to an optional YAML config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&autoEmbed, "auto-embed", false, "embed missing vectors with the static demo provider")

	libraryCreateCmd.Flags().String("id", "", "library id (generated if omitted)")
	libraryCreateCmd.Flags().String("name", "", "library name")
	libraryCreateCmd.Flags().String("metadata", "", "metadata as a JSON object")
	libraryCmd.AddCommand(libraryCreateCmd, libraryGetCmd, libraryListCmd, libraryDeleteCmd)

	documentCreateCmd.Flags().String("id", "", "document id (generated if omitted)")
	documentCreateCmd.Flags().String("library", "", "owning library id")
	documentCreateCmd.Flags().String("title", "", "document title")
	documentCreateCmd.Flags().String("metadata", "", "metadata as a JSON object")
	documentCmd.AddCommand(documentCreateCmd, documentGetCmd, documentDeleteCmd)

	chunkCreateCmd.Flags().String("id", "", "chunk id (generated if omitted)")
	chunkCreateCmd.Flags().String("document", "", "owning document id")
	chunkCreateCmd.Flags().String("text", "", "chunk text")
	chunkCreateCmd.Flags().String("embedding", "", "embedding vector as comma-separated floats")
	chunkCreateCmd.Flags().String("metadata", "", "metadata as a JSON object")
	chunkCmd.AddCommand(chunkCreateCmd, chunkGetCmd, chunkDeleteCmd)

	indexSetVariantCmd.Flags().String("library", "", "library id")
	indexSetVariantCmd.Flags().String("variant", "", "index variant (brute_force or kdtree)")
	indexBuildCmd.Flags().String("library", "", "library id")
	indexBuildCmd.Flags().String("variant", "", "index variant override for this build")
	indexCmd.AddCommand(indexSetVariantCmd, indexBuildCmd)

	searchCmd.Flags().String("library", "", "library id to search")
	searchCmd.Flags().String("query", "", "query vector as comma-separated floats")
	searchCmd.Flags().String("text", "", "query text, embedded with --auto-embed")
	searchCmd.Flags().Int("k", 10, "number of results")
	searchCmd.Flags().String("metric", string(vectordb.MetricCosine), "similarity metric (cosine, euclidean, dot_product)")
	searchCmd.Flags().String("filter", "", "metadata predicate as a JSON object")

	similarityCmd.Flags().String("vector1", "", "first vector as comma-separated floats")
	similarityCmd.Flags().String("vector2", "", "second vector as comma-separated floats")
	similarityCmd.Flags().String("metric", string(vectordb.MetricCosine), "similarity metric (cosine, euclidean, dot_product)")

	rootCmd.AddCommand(libraryCmd, documentCmd, chunkCmd, indexCmd, searchCmd, similarityCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fail(err)
	}
}
