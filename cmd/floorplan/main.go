// Package main provides the CLI entry point for floorplan-go.
package main

import (
	"context"
	"fmt"
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/ukaji3/floorplan-go/pkg/floorplan"
	"github.com/ukaji3/floorplan-go/pkg/floorplan/cache"
	"github.com/ukaji3/floorplan-go/pkg/floorplan/output"
)

var (
	outputPath string
	pretty     bool
	verbose    bool
	configPath string
	cacheDir   string
	redisAddr  string
)

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "floorplan",
		Short: "Extract room-label positions from SVG floor plans",
		Long: `floorplan-go resolves the coordinates of room-number labels in SVG floor
plans and joins them with tabular room metadata, producing JSON.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := charmlog.InfoLevel
			if verbose {
				level = charmlog.DebugLevel
			}
			cmd.SetContext(withLogger(cmd.Context(), newLogger(cmd.ErrOrStderr(), level)))
		},
	}

	rootCmd.PersistentFlags().StringVarP(&outputPath, "output", "o", "", "Output file path (default: stdout)")
	rootCmd.PersistentFlags().BoolVar(&pretty, "pretty", false, "Pretty-print JSON output")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to floorplan.toml")
	rootCmd.PersistentFlags().StringVar(&cacheDir, "cache-dir", "", "Directory for cached batch results")
	rootCmd.PersistentFlags().StringVar(&redisAddr, "redis-addr", "", "Redis address for cached batch results")

	rootCmd.AddCommand(newExtractCmd())
	rootCmd.AddCommand(newMergeCmd())
	rootCmd.AddCommand(newServeCmd())

	return rootCmd
}

// loadConfig reads --config when given and applies the global cache flags.
func loadConfig() (floorplan.Config, error) {
	cfg := floorplan.DefaultConfig()
	if configPath != "" {
		var err error
		if cfg, err = floorplan.LoadConfig(configPath); err != nil {
			return cfg, err
		}
	}
	if cacheDir != "" {
		cfg.Cache.Dir = cacheDir
	}
	if redisAddr != "" {
		cfg.Cache.RedisAddr = redisAddr
	}
	return cfg, nil
}

// openCache opens the configured result cache. Without a Redis address or a
// directory, caching is disabled with a NullCache.
func openCache(ctx context.Context, cfg floorplan.CacheConfig) (cache.Cache, error) {
	switch {
	case cfg.RedisAddr != "":
		return cache.NewRedisCache(ctx, cfg.RedisAddr, "floorplan:")
	case cfg.Dir != "":
		return cache.NewFileCache(cfg.Dir)
	default:
		return cache.NewNullCache(), nil
	}
}

// writeOutput writes v as JSON to --output, or to stdout when unset.
func writeOutput(v interface{}) error {
	jsonData, err := output.ToJSON(v, pretty)
	if err != nil {
		return fmt.Errorf("serialization failed: %w", err)
	}

	if outputPath == "" {
		fmt.Println(string(jsonData))
		return nil
	}
	if err := os.WriteFile(outputPath, append(jsonData, '\n'), 0644); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	printFile(outputPath)
	return nil
}
