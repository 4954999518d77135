package cmd

import (
	"github.com/spf13/cobra"

	"github.com/dirsum/dirsum"
)

var verifyCmd = &cobra.Command{
	Use:   "verify <directory> <sumfile>",
	Short: "Verify a directory tree against a recorded checksum",
	Long:  "Recompute the digest of a directory tree under the configuration recorded in a checksum document and compare. Exits non-zero on mismatch.",
	Args:  cobra.ExactArgs(2),
	RunE:  runVerify,
}

func init() {
	rootCmd.AddCommand(verifyCmd)

	verifyCmd.Flags().Bool("cache", false, "reuse unchanged file digests from the persistent cache")
}

func runVerify(cmd *cobra.Command, args []string) error {
	sum, err := dirsum.ReadFile(args[1])
	if err != nil {
		return err
	}

	// Silent on success, non-zero exit with both digests on mismatch.
	return sum.Verify(cmd.Context(), args[0], runOptions(cmd)...)
}
