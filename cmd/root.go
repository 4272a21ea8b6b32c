// Package cmd implements the wsnlife command line.
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/kilianp07/wsnlife/config"
)

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	var cfgPath string
	root := &cobra.Command{
		Use:           "wsnlife",
		Short:         "Estimate wireless sensor network lifetime by randomized duty-cycle scheduling",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "configuration file (yaml or json)")
	load := func() (*config.Config, error) { return config.Load(cfgPath) }
	root.AddCommand(newRunCmd(load), newRunsCmd(load))
	return root
}

// Execute runs the CLI.
func Execute() error { return NewRootCmd().Execute() }
