package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"repolens/internal/session"
)

var sessionPromptsFile string

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Save, open and list exploration sessions",
}

var sessionSaveCmd = &cobra.Command{
	Use:   "save [session-id]",
	Short: "Save the current exploration state as a session",
	Long: `Snapshot the exploration state and persist it. Without an id a new
session is allocated; with one, that session is overwritten. The project
signature is recorded so the next load auto-restores this session.

Prompt items can be attached from a YAML file of {id, kind, text} entries.

Examples:
  repolens session save
  repolens session save 4b2d... --prompts notes.yaml`,
	Args: cobra.MaximumNArgs(1),
	Run:  runSessionSave,
}

var sessionOpenCmd = &cobra.Command{
	Use:   "open <session-id>",
	Short: "Open a stored session and print its state",
	Args:  cobra.ExactArgs(1),
	Run:   runSessionOpen,
}

var sessionListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored session ids",
	Args:  cobra.NoArgs,
	Run:   runSessionList,
}

func init() {
	sessionSaveCmd.Flags().StringVar(&sessionPromptsFile, "prompts", "", "YAML file of prompt items to attach")
	sessionCmd.AddCommand(sessionSaveCmd)
	sessionCmd.AddCommand(sessionOpenCmd)
	sessionCmd.AddCommand(sessionListCmd)
	rootCmd.AddCommand(sessionCmd)
}

func runSessionSave(cmd *cobra.Command, args []string) {
	eng := mustGetEngine()
	defer eng.close()

	if sessionPromptsFile != "" {
		items, err := loadPromptItems(sessionPromptsFile)
		if err != nil {
			fatal("reading prompts file", err)
		}
		eng.explorer.AddPromptItems(items)
	}

	sessionID := ""
	if len(args) == 1 {
		sessionID = args[0]
	}

	id, err := eng.explorer.SaveSession(sessionID)
	if err != nil {
		fatal("saving session", err)
	}
	fmt.Println(id)
}

func runSessionOpen(cmd *cobra.Command, args []string) {
	eng := mustGetEngine()
	defer eng.close()

	if err := eng.explorer.OpenSession(args[0]); err != nil {
		fatal("opening session", err)
	}

	snap := eng.explorer.Snapshot()
	if OutputFormat(formatFlag) == HumanOutput {
		fmt.Printf("source: %s\n", snap.SourceIdentifier)
		fmt.Printf("view: %s\n", snap.ViewMode)
		fmt.Printf("edges: %d\n", len(snap.Edges))
		printTreeHuman(snap.Tree, 0)
		return
	}
	printJSON(snap)
}

func runSessionList(cmd *cobra.Command, args []string) {
	eng := mustGetEngine()
	defer eng.close()

	ids, err := eng.store.List()
	if err != nil {
		fatal("listing sessions", err)
	}
	if OutputFormat(formatFlag) == HumanOutput {
		for _, id := range ids {
			fmt.Println(id)
		}
		return
	}
	printJSON(ids)
}

func loadPromptItems(path string) ([]session.PromptItem, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var items []session.PromptItem
	if err := yaml.Unmarshal(data, &items); err != nil {
		return nil, err
	}
	return items, nil
}
