package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vocabulous/vocabulous/internal/model"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Reset learner data",
	Long:  "Deletes the user's word progress and quiz results, locally and in the remote store. Imported content is kept.",
	RunE: func(cmd *cobra.Command, args []string) error {
		if yes, _ := cmd.Flags().GetBool("yes"); !yes {
			return fmt.Errorf("%w: reset deletes all progress, pass --yes to confirm", model.ErrInvalidInput)
		}

		rt, err := newRuntime(cmd)
		if err != nil {
			return err
		}
		defer rt.manager.Close()

		ctx := cmd.Context()
		if _, _, err := rt.resume(ctx); err != nil {
			return err
		}
		if err := rt.manager.Reset(ctx); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Learner data reset for %s.\n", rt.cfg.UserID)
		return nil
	},
}

func init() {
	resetCmd.Flags().Bool("yes", false, "Confirm the reset")
}
