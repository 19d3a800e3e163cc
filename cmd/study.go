package cmd

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"charm.land/lipgloss/v2"
	"github.com/spf13/cobra"

	"github.com/vocabulous/vocabulous/internal/model"
	"github.com/vocabulous/vocabulous/internal/spacedrep"
	"github.com/vocabulous/vocabulous/internal/ui/theme"
)

var rateCmd = &cobra.Command{
	Use:   "rate WORD LEVEL",
	Short: "Record how well you recalled a word (1-5)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		level, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("%w: level must be a number 1-5", model.ErrInvalidInput)
		}

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
		w, err := resolveWord(ctx, sess, args[0])
		if err != nil {
			return err
		}
		p, err := svc.RateWord(ctx, sess.UserID, w.ID, level)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, theme.Title.Render(w.Word))
		fmt.Fprintln(out, theme.KV("Level", p.ProficiencyLevel))
		fmt.Fprintln(out, theme.KV("State", theme.StateStyle(spacedrep.StateOf(p)).Render(string(spacedrep.StateOf(p)))))
		fmt.Fprintln(out, theme.KV("Reviews", p.ReviewCount))
		fmt.Fprintln(out, theme.KV("Next review", p.NextReviewDue.Local().Format("2006-01-02 15:04")))
		return nil
	},
}

var bookmarkCmd = &cobra.Command{
	Use:   "bookmark WORD",
	Short: "Toggle the bookmark on a word",
	Args:  cobra.ExactArgs(1),
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
		w, err := resolveWord(ctx, sess, args[0])
		if err != nil {
			return err
		}
		p, err := svc.ToggleBookmark(ctx, sess.UserID, w.ID)
		if err != nil {
			return err
		}
		if p.IsBookmarked {
			fmt.Fprintf(cmd.OutOrStdout(), "Bookmarked %s\n", theme.Value.Render(w.Word))
		} else {
			fmt.Fprintf(cmd.OutOrStdout(), "Removed bookmark from %s\n", theme.Value.Render(w.Word))
		}
		return nil
	},
}

var notesCmd = &cobra.Command{
	Use:   "notes WORD [TEXT...]",
	Short: "Set personal notes on a word (no text clears them)",
	Args:  cobra.MinimumNArgs(1),
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
		w, err := resolveWord(ctx, sess, args[0])
		if err != nil {
			return err
		}
		if _, err := svc.SetNotes(ctx, sess.UserID, w.ID, strings.Join(args[1:], " ")); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Notes saved for %s\n", theme.Value.Render(w.Word))
		return nil
	},
}

var dueCmd = &cobra.Command{
	Use:   "due",
	Short: "List words due for review, earliest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		bookmarked, _ := cmd.Flags().GetBool("bookmarked")

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

		var words []*model.WordProgress
		if bookmarked {
			words, err = svc.Bookmarked(ctx, sess.UserID)
		} else {
			words, err = svc.ReviewQueue(ctx, sess.UserID, limit)
		}
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if len(words) == 0 {
			fmt.Fprintln(out, theme.Hint.Render("Nothing to review. Come back later."))
			return nil
		}

		now := time.Now()
		lookup := sess.Words()
		fmt.Fprintf(out, "%s  %-5s  %-10s  %s\n", fit("Word", 24), "Level", "State", "Status")
		fmt.Fprintln(out, strings.Repeat("─", 56))
		for _, p := range words {
			label := p.WordID
			if w, err := lookup.Get(ctx, p.WordID); err == nil {
				label = w.Word
			}
			state := spacedrep.StateOf(p)
			status := spacedrep.Status(p, now)
			fmt.Fprintf(out, "%s  %-5d  %s  %s\n",
				fit(label, 24),
				p.ProficiencyLevel,
				theme.StateStyle(state).Render(fmt.Sprintf("%-10s", state)),
				theme.StatusStyle(status).Render(string(status)))
		}
		return nil
	},
}

func init() {
	dueCmd.Flags().Int("limit", 20, "Maximum number of words to list (0 for all)")
	dueCmd.Flags().Bool("bookmarked", false, "List bookmarked words instead of the review queue")
}

// fit shortens s to at most n terminal cells, marking a cut with an
// ellipsis, and pads it with spaces to exactly n cells.
func fit(s string, n int) string {
	if lipgloss.Width(s) > n {
		r := []rune(s)
		for len(r) > 0 && lipgloss.Width(string(r))+1 > n {
			r = r[:len(r)-1]
		}
		s = string(r) + "…"
	}
	if pad := n - lipgloss.Width(s); pad > 0 {
		s += strings.Repeat(" ", pad)
	}
	return s
}
