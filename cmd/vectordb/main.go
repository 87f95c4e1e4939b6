package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/liliang-cn/vectordb"
)

var (
	dbPath     string
	configPath string
	verbose    bool
	jsonOutput bool
)

var rootCmd = &cobra.Command{
	Use:           "vectordb",
	Short:         "CLI tool for SQLite vector storage",
	Long:          `A command-line interface for storing embeddings in a SQLite file and searching them by cosine similarity.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var insertCmd = &cobra.Command{
	Use:   "insert [id]",
	Short: "Insert or replace a vector",
	Long:  "Insert or replace a vector. Without an id a UUID is generated.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		vectorStr, _ := cmd.Flags().GetString("vector")
		metadata, _ := cmd.Flags().GetString("metadata")

		vector, err := parseVector(vectorStr)
		if err != nil {
			return err
		}

		return withStore(cmd.Context(), func(ctx context.Context, store *vectordb.VectorDB) error {
			id := ""
			if len(args) == 1 {
				id = args[0]
				err = store.Insert(ctx, id, vectordb.FromSlice(vector), metadata)
			} else {
				id, err = store.InsertAuto(ctx, vectordb.FromSlice(vector), metadata)
			}
			if err != nil {
				return fmt.Errorf("failed to insert vector: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Vector '%s' inserted\n", id)
			return nil
		})
	},
}

var getCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Get a vector by ID",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id := args[0]
		return withStore(cmd.Context(), func(ctx context.Context, store *vectordb.VectorDB) error {
			v, metadata, found, err := store.Get(ctx, id)
			if err != nil {
				return fmt.Errorf("failed to get vector: %w", err)
			}
			if !found {
				return fmt.Errorf("vector '%s' not found", id)
			}

			out := cmd.OutOrStdout()
			if jsonOutput {
				return writeJSON(out, map[string]any{
					"id":       id,
					"vector":   v.AsSlice(),
					"metadata": metadata,
				})
			}
			fmt.Fprintf(out, "ID: %s\n", id)
			fmt.Fprintf(out, "Vector: %s\n", formatVector(v.AsSlice()))
			fmt.Fprintf(out, "Metadata: %s\n", metadata)
			return nil
		})
	},
}

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search for similar vectors",
	RunE: func(cmd *cobra.Command, args []string) error {
		vectorStr, _ := cmd.Flags().GetString("vector")
		k, _ := cmd.Flags().GetInt("top-k")

		query, err := parseVector(vectorStr)
		if err != nil {
			return err
		}

		return withStore(cmd.Context(), func(ctx context.Context, store *vectordb.VectorDB) error {
			results, err := store.Search(ctx, vectordb.FromSlice(query), k)
			if err != nil {
				return fmt.Errorf("search failed: %w", err)
			}

			out := cmd.OutOrStdout()
			if jsonOutput {
				return writeJSON(out, results)
			}
			fmt.Fprintf(out, "Found %d results:\n", len(results))
			for i, r := range results {
				fmt.Fprintf(out, "%d. ID: %s | Score: %.4f | Metadata: %s\n", i+1, r.ID, r.Score, r.Metadata)
			}
			return nil
		})
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a vector",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id := args[0]
		return withStore(cmd.Context(), func(ctx context.Context, store *vectordb.VectorDB) error {
			if err := store.Delete(ctx, id); err != nil {
				return fmt.Errorf("failed to delete vector: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Vector '%s' deleted\n", id)
			return nil
		})
	},
}

var countCmd = &cobra.Command{
	Use:   "count",
	Short: "Print the number of stored vectors",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(cmd.Context(), func(ctx context.Context, store *vectordb.VectorDB) error {
			n, err := store.Count(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), n)
			return nil
		})
	},
}

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every stored vector",
	RunE: func(cmd *cobra.Command, args []string) error {
		force, _ := cmd.Flags().GetBool("force")
		if !force {
			return fmt.Errorf("refusing to clear %s without --force", dbPath)
		}
		return withStore(cmd.Context(), func(ctx context.Context, store *vectordb.VectorDB) error {
			if err := store.Clear(ctx); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "All vectors deleted")
			return nil
		})
	},
}

// parseVector parses comma separated floats
func parseVector(s string) ([]float32, error) {
	if strings.TrimSpace(s) == "" {
		return nil, fmt.Errorf("vector is required")
	}
	parts := strings.Split(s, ",")
	vector := make([]float32, 0, len(parts))
	for _, part := range parts {
		val, err := strconv.ParseFloat(strings.TrimSpace(part), 32)
		if err != nil {
			return nil, fmt.Errorf("invalid vector format: %w", err)
		}
		vector = append(vector, float32(val))
	}
	return vector, nil
}

func formatVector(v []float32) string {
	parts := make([]string, len(v))
	for i, f := range v {
		parts[i] = strconv.FormatFloat(float64(f), 'g', -1, 32)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func withStore(ctx context.Context, fn func(context.Context, *vectordb.VectorDB) error) error {
	if dbPath == "" {
		return fmt.Errorf("database path not specified")
	}

	cfg, level, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	if verbose {
		level = vectordb.LevelDebug
	}
	cfg.Logger = vectordb.NewStdLogger(level)

	store, err := vectordb.Open(dbPath, cfg)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer store.Close()

	if ctx == nil {
		ctx = context.Background()
	}
	return fn(ctx, store)
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&dbPath, "db", "d", "vectors.db", "Database file path")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "YAML configuration file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	insertCmd.Flags().String("vector", "", "Vector values (comma-separated)")
	insertCmd.Flags().String("metadata", "", "Metadata string, usually JSON")
	_ = insertCmd.MarkFlagRequired("vector")

	searchCmd.Flags().String("vector", "", "Query vector (comma-separated)")
	searchCmd.Flags().Int("top-k", 10, "Number of results")
	_ = searchCmd.MarkFlagRequired("vector")

	clearCmd.Flags().Bool("force", false, "Confirm deletion of every vector")

	rootCmd.AddCommand(insertCmd, getCmd, searchCmd, deleteCmd, countCmd, clearCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
