package cmd

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vocabulous/vocabulous/internal/reminder"
	"github.com/vocabulous/vocabulous/internal/ui/theme"
)

var remindCmd = &cobra.Command{
	Use:   "remind",
	Short: "Periodically report how many words are due for review",
	Long:  "Runs in the foreground until interrupted. With --once, checks a single time and exits.",
	RunE: func(cmd *cobra.Command, args []string) error {
		once, _ := cmd.Flags().GetBool("once")

		rt, err := newRuntime(cmd)
		if err != nil {
			return err
		}
		defer rt.manager.Close()

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		sess, svc, err := rt.resume(ctx)
		if err != nil {
			return err
		}

		notifier := reminder.WriterNotifier{
			W: cmd.OutOrStdout(),
			Format: func(due int) string {
				return theme.Due.Render(fmt.Sprintf("%d word(s) due for review", due)) +
					theme.Hint.Render("  run `vocabulous due` to see them")
			},
		}
		r := reminder.New(svc, notifier, sess.UserID, rt.cfg.Reminder.Interval, rt.logger)

		if once {
			due, err := r.Check(ctx)
			if err != nil {
				return err
			}
			if due == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), theme.Hint.Render("Nothing due."))
			}
			return nil
		}

		if err := r.Start(ctx); err != nil {
			return err
		}
		<-ctx.Done()
		r.Stop()
		return nil
	},
}

func init() {
	remindCmd.Flags().Bool("once", false, "Check once and exit")
}
