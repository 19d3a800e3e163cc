package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vocabulous/vocabulous/internal/spacedrep"
	"github.com/vocabulous/vocabulous/internal/ui/theme"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show learning statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime(cmd)
		if err != nil {
			return err
		}
		defer rt.manager.Close()

		ctx := cmd.Context()
		sess, svc, err := rt.resume(ctx)
		if err != nil {
			return err
		}
		st, err := svc.Stats(ctx, sess.UserID)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, theme.Title.Render("Progress for "+sess.UserID))
		fmt.Fprintln(out)
		fmt.Fprintln(out, theme.KV("Tracked words", st.TrackedWords))
		for _, state := range []spacedrep.State{
			spacedrep.StateLearning, spacedrep.StateRetained, spacedrep.StateMastered,
		} {
			n := st.ByState[state]
			pct := 0.0
			if st.TrackedWords > 0 {
				pct = float64(n) / float64(st.TrackedWords)
			}
			label := theme.StateStyle(state).Render(fmt.Sprintf("%-14s", state))
			fmt.Fprintf(out, "%s %s %d\n", label, theme.Bar(pct, 20), n)
		}
		fmt.Fprintln(out, theme.KV("Bookmarked", st.Bookmarked))
		fmt.Fprintln(out, theme.KV("Due now", theme.Due.Render(fmt.Sprint(st.DueNow))))
		fmt.Fprintln(out, theme.KV("Overdue", theme.Overdue.Render(fmt.Sprint(st.Overdue))))
		fmt.Fprintln(out, theme.KV("Quizzes taken", st.QuizzesTaken))
		if st.AverageScore != nil {
			fmt.Fprintln(out, theme.KV("Average score", fmt.Sprintf("%.0f%%", *st.AverageScore)))
		} else {
			fmt.Fprintln(out, theme.KV("Average score", "-"))
		}
		return nil
	},
}
