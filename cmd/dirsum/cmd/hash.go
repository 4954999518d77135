package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dirsum/dirsum"
)

var hashCmd = &cobra.Command{
	Use:   "hash <directory>",
	Short: "Compute the digest of a directory tree",
	Long:  "Compute the deterministic digest of a directory tree and print it. With --output the full checksum document is written as well.",
	Args:  cobra.ExactArgs(1),
	RunE:  runHash,
}

func init() {
	rootCmd.AddCommand(hashCmd)

	hashCmd.Flags().StringP("algorithm", "a", "md5", "hash algorithm (see 'dirsum algorithms')")
	addFilterFlags(hashCmd)
	hashCmd.Flags().StringSliceP("properties", "p", []string{dirsum.PropertyData, dirsum.PropertyName}, "entry properties fed into the digest (data, name, is_link)")
	hashCmd.Flags().IntP("chunk-size", "s", dirsum.DefaultChunkSize, "file read buffer size in bytes")
	hashCmd.Flags().StringP("output", "o", "", "write the checksum document to this file (conventionally *.dirsum.json)")
	hashCmd.Flags().Bool("cache", false, "reuse unchanged file digests from the persistent cache")
}

func runHash(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()

	algorithm, _ := flags.GetString("algorithm")
	properties, _ := flags.GetStringSlice("properties")
	chunkSize, _ := flags.GetInt("chunk-size")

	opts := []dirsum.Option{
		dirsum.WithAlgorithm(algorithm),
		dirsum.WithProperties(properties...),
		dirsum.WithChunkSize(chunkSize),
	}
	opts = append(opts, filterOptions(cmd)...)
	opts = append(opts, runOptions(cmd)...)

	sum, err := dirsum.Compute(cmd.Context(), args[0], opts...)
	if err != nil {
		return err
	}

	fmt.Println(sum.Dirhash)

	if output, _ := flags.GetString("output"); output != "" {
		if err := sum.WriteFile(output); err != nil {
			return fmt.Errorf("write %s: %w", output, err)
		}
	}

	return nil
}
