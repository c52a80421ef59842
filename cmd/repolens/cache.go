package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"repolens/internal/cache"
	"repolens/internal/config"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the analysis and HTTP caches",
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Drop all cached analysis, relevance and HTTP entries",
	Args:  cobra.NoArgs,
	Run:   runCacheClear,
}

func init() {
	cacheCmd.AddCommand(cacheClearCmd)
	rootCmd.AddCommand(cacheCmd)
}

func runCacheClear(cmd *cobra.Command, args []string) {
	cfg := mustLoadConfig()
	logger := newLogger(cfg)

	workDir := filepath.Join(rootFlag, config.WorkDirName)
	if err := os.MkdirAll(workDir, 0755); err != nil {
		fatal("creating work directory", err)
	}

	db, err := cache.Open(workDir, logger)
	if err != nil {
		fatal("opening cache", err)
	}
	defer db.Close()

	if err := cache.New(db).InvalidateAll(); err != nil {
		fatal("clearing cache", err)
	}
	fmt.Println("cache cleared")
}
