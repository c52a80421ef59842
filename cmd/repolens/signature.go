package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var signatureCmd = &cobra.Command{
	Use:   "signature",
	Short: "Print the loaded project's content signature",
	Long: `Print the signature of the loaded project: a hash of its source
identifier and sorted path set. Two loads with the same signature are the
same project for session auto-restore.`,
	Args: cobra.NoArgs,
	Run:  runSignature,
}

func init() {
	rootCmd.AddCommand(signatureCmd)
}

func runSignature(cmd *cobra.Command, args []string) {
	eng := mustGetEngine()
	defer eng.close()
	fmt.Println(eng.explorer.ProjectSignature())
}
