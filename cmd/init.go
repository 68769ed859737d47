package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"
	"github.com/ziadkadry99/atomik/internal/config"
)

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write .atomik.yml by answering a few questions",
	Long: `Asks which provider should write element insights and which model it
should use, the port for ` + "`atomik serve`" + `, the element the page opens on, and
whether ` + "`atomik export`" + ` writes diagrams to a local directory or an S3 bucket.

The answers are written to .atomik.yml in the current directory. API keys
are never stored there: the wizard only says which variable to set or which
` + "`atomik auth`" + ` command to run. An existing file is kept unless --force is given.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := checkConfigAbsent(config.FileName, initForce); err != nil {
			return err
		}
		_, err := config.RunWizard()
		return err
	},
}

// checkConfigAbsent refuses to clobber an existing config file.
func checkConfigAbsent(path string, force bool) error {
	if force {
		return nil
	}
	_, err := os.Stat(path)
	switch {
	case err == nil:
		return fmt.Errorf("%s already exists; rerun with --force to replace it", path)
	case errors.Is(err, fs.ErrNotExist):
		return nil
	default:
		return fmt.Errorf("checking %s: %w", path, err)
	}
}

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false, "overwrite an existing .atomik.yml")
	rootCmd.AddCommand(initCmd)
}
