package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ziadkadry99/atomik/internal/config"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "atomik",
	Short: "Interactive Bohr-model atom visualizer with AI insights",
	Long: `atomik draws any element of the periodic table as an animated
Bohr-model atom: a phyllotaxis nucleus of protons and neutrons ringed by
rotating electron shells. A language model adds a fun fact, a real-world
use and a note on bonding behavior for each element, falling back to fixed
text whenever no model is reachable.`,
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", config.FileName, "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
