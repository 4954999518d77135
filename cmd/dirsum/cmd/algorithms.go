package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dirsum/dirsum"
)

var algorithmsCmd = &cobra.Command{
	Use:   "algorithms",
	Short: "List the available hash algorithms",
	Args:  cobra.NoArgs,
	RunE:  runAlgorithms,
}

func init() {
	rootCmd.AddCommand(algorithmsCmd)
}

func runAlgorithms(cmd *cobra.Command, args []string) error {
	for _, name := range dirsum.Algorithms() {
		fmt.Println(name)
	}
	return nil
}
