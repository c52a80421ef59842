package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"repolens/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect and initialize repolens configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default config.json into .repolens",
	Args:  cobra.NoArgs,
	Run:   runConfigInit,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Args:  cobra.NoArgs,
	Run:   runConfigShow,
}

func init() {
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigInit(cmd *cobra.Command, args []string) {
	cfg := config.DefaultConfig()
	if err := cfg.Save(rootFlag); err != nil {
		fatal("writing config", err)
	}
	fmt.Printf("wrote %s/%s/config.json\n", rootFlag, config.WorkDirName)
}

func runConfigShow(cmd *cobra.Command, args []string) {
	printJSON(mustLoadConfig())
}
