package cli

import (
	"errors"

	"github.com/spf13/cobra"
)

// ErrRunFailed maps a failed pipeline run onto a non-zero exit status.
var ErrRunFailed = errors.New("pipeline run failed")

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Execute a single pipeline run",
	RunE: func(cmd *cobra.Command, args []string) error {
		if ok := getApp().RunOnce(cmd.Context()); !ok {
			return ErrRunFailed
		}
		return nil
	},
}
