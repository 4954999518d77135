package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/dirsum/dirsum"
)

// addFilterFlags registers the entry selection flags shared by hash,
// list and verify.
func addFilterFlags(cmd *cobra.Command) {
	cmd.Flags().StringSliceP("match", "m", nil, "patterns for entries to include (default '*')")
	cmd.Flags().StringSliceP("ignore", "i", nil, "patterns for entries to exclude")
	cmd.Flags().StringSliceP("ignore-extensions", "x", nil, "file extensions to exclude")
	cmd.Flags().Bool("ignore-hidden", false, "exclude hidden files and directories")
	cmd.Flags().Bool("empty-dirs", false, "include directories without included content")
	cmd.Flags().Bool("no-linked-dirs", false, "do not follow symlinks to directories")
	cmd.Flags().Bool("no-linked-files", false, "do not include symlinks to files")
	cmd.Flags().BoolP("allow-cyclic-links", "c", false, "hash symlink cycles instead of failing on them")
}

// filterOptions translates the filter flags into engine options.
func filterOptions(cmd *cobra.Command) []dirsum.Option {
	flags := cmd.Flags()
	var opts []dirsum.Option

	if flags.Changed("match") {
		patterns, _ := flags.GetStringSlice("match")
		opts = append(opts, dirsum.WithMatch(patterns...))
	}
	if ignore, _ := flags.GetStringSlice("ignore"); len(ignore) > 0 {
		opts = append(opts, dirsum.WithIgnore(ignore...))
	}
	if exts, _ := flags.GetStringSlice("ignore-extensions"); len(exts) > 0 {
		opts = append(opts, dirsum.WithIgnoreExtensions(exts...))
	}
	if v, _ := flags.GetBool("ignore-hidden"); v {
		opts = append(opts, dirsum.WithIgnoreHidden(true))
	}
	if v, _ := flags.GetBool("empty-dirs"); v {
		opts = append(opts, dirsum.WithEmptyDirs(true))
	}
	if v, _ := flags.GetBool("no-linked-dirs"); v {
		opts = append(opts, dirsum.WithLinkedDirs(false))
	}
	if v, _ := flags.GetBool("no-linked-files"); v {
		opts = append(opts, dirsum.WithLinkedFiles(false))
	}
	if v, _ := flags.GetBool("allow-cyclic-links"); v {
		opts = append(opts, dirsum.WithAllowCyclicLinks(true))
	}

	return opts
}

// runOptions returns the operational options every subcommand carries:
// worker count, logging, and the digest cache when enabled.
func runOptions(cmd *cobra.Command) []dirsum.Option {
	opts := []dirsum.Option{
		dirsum.WithJobs(viper.GetInt("jobs")),
		dirsum.WithLogger(newLogger()),
	}
	if v, _ := cmd.Flags().GetBool("cache"); v {
		opts = append(opts, dirsum.WithCacheDir(getCacheDir()))
	}
	return opts
}
