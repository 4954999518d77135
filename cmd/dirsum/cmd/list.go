package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dirsum/dirsum"
)

var listCmd = &cobra.Command{
	Use:   "list <directory>",
	Short: "List the paths a hash run would include",
	Long:  "List the relative paths selected under the given filtering options, sorted. Leaf directories are marked with a trailing '/.'.",
	Args:  cobra.ExactArgs(1),
	RunE:  runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
	addFilterFlags(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	opts := append(filterOptions(cmd), dirsum.WithLogger(newLogger()))

	paths, err := dirsum.List(cmd.Context(), args[0], opts...)
	if err != nil {
		return err
	}

	for _, p := range paths {
		fmt.Println(p)
	}

	return nil
}
