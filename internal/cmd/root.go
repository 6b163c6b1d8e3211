package cmd

import (
	"github.com/dendrascience/notebook-fuse/version"
	"github.com/spf13/cobra"
)

// NewRootCmd creates and returns the root cobra command for the nbfs CLI.
// It sets up all subcommands, command groups, and basic configuration.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "nbfs",
		Short: "nbfs - A read-only FUSE filesystem that shows Jupyter notebooks as directories",
		Long: `nbfs mirrors a directory tree read-only and presents every Jupyter notebook
in it as a directory of plain files: one per markdown cell, code cell, stream
output and rich output representation.

Use subcommands to perform different operations:
  - mount: Mount a notebook tree at a specified mountpoint
  - outline: List the files a single notebook projects to
  - validate: Check that every notebook in a tree can be projected
  - count: Summarize notebooks, cells and projected files in a tree
  - seed: Generate sample notebooks for testing`,
		Version: version.GetFullVersion(),
	}

	groupUtilities := "utilities"
	groupFilesystem := "filesystem"

	rootCmd.AddGroup(&cobra.Group{
		ID:    groupFilesystem,
		Title: "Filesystem Operations",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    groupUtilities,
		Title: "Utility Commands",
	})

	mountCmd := NewMountCmd()
	outlineCmd := NewOutlineCmd()
	validateCmd := NewValidateCmd()
	countCmd := NewCountCmd()
	seedCmd := NewSeedCmd()
	versionCmd := NewVersionCmd()

	mountCmd.GroupID = groupFilesystem
	outlineCmd.GroupID = groupUtilities
	validateCmd.GroupID = groupUtilities
	countCmd.GroupID = groupUtilities
	seedCmd.GroupID = groupUtilities
	versionCmd.GroupID = groupUtilities

	rootCmd.AddCommand(mountCmd)
	rootCmd.AddCommand(outlineCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(countCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(versionCmd)

	return rootCmd
}

// NewVersionCmd prints build metadata.
func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version and build information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return version.PrintVersion(cmd.OutOrStdout(), cmd.Root().Name())
		},
	}
}
