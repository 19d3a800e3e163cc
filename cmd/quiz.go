package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/vocabulous/vocabulous/internal/model"
	"github.com/vocabulous/vocabulous/internal/ui/theme"
)

var quizCmd = &cobra.Command{
	Use:   "quiz",
	Short: "Record and inspect quiz results",
}

var quizRecordCmd = &cobra.Command{
	Use:   "record",
	Short: "Record a completed quiz",
	RunE: func(cmd *cobra.Command, args []string) error {
		score, _ := cmd.Flags().GetInt("score")
		total, _ := cmd.Flags().GetInt("total")
		category, _ := cmd.Flags().GetString("category")
		took, _ := cmd.Flags().GetDuration("time")
		words, _ := cmd.Flags().GetStringSlice("words")

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

		wordIDs := make([]string, 0, len(words))
		for _, ref := range words {
			w, err := resolveWord(ctx, sess, ref)
			if err != nil {
				return err
			}
			wordIDs = append(wordIDs, w.ID)
		}

		q, err := svc.RecordQuiz(ctx, model.QuizResult{
			UserID:         sess.UserID,
			CategoryID:     category,
			Score:          score,
			TotalQuestions: total,
			TimeTakenMs:    took.Milliseconds(),
			WordIDs:        wordIDs,
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Quiz %s recorded: %d/%d (%.0f%%)\n",
			theme.Hint.Render(q.ID), q.Score, q.TotalQuestions, q.ScorePercentage())
		return nil
	},
}

var quizHistoryCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded quizzes, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		category, _ := cmd.Flags().GetString("category")

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
		quizzes, err := svc.QuizHistory(ctx, sess.UserID, category)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if len(quizzes) == 0 {
			fmt.Fprintln(out, theme.Hint.Render("No quizzes recorded yet."))
			return nil
		}
		fmt.Fprintf(out, "%-16s  %-16s  %-7s  %-6s  %s\n", "Completed", "Category", "Score", "%", "Time")
		fmt.Fprintln(out, strings.Repeat("─", 60))
		for _, q := range quizzes {
			cat := q.CategoryID
			if cat == "" {
				cat = "-"
			}
			pct := q.ScorePercentage()
			style := theme.Good
			if pct < 50 {
				style = theme.Bad
			}
			fmt.Fprintf(out, "%-16s  %s  %-7s  %s  %s\n",
				q.CompletedAt.Local().Format("2006-01-02 15:04"),
				fit(cat, 16),
				fmt.Sprintf("%d/%d", q.Score, q.TotalQuestions),
				style.Render(fmt.Sprintf("%-6.0f", pct)),
				(time.Duration(q.TimeTakenMs) * time.Millisecond).Round(time.Second))
		}
		return nil
	},
}

func init() {
	quizRecordCmd.Flags().Int("score", 0, "Correct answers")
	quizRecordCmd.Flags().Int("total", 0, "Total questions")
	quizRecordCmd.Flags().String("category", "", "Category id the quiz covered")
	quizRecordCmd.Flags().Duration("time", 0, "Time taken, e.g. 2m30s")
	quizRecordCmd.Flags().StringSlice("words", nil, "Words covered (ids or text)")
	_ = quizRecordCmd.MarkFlagRequired("total")

	quizHistoryCmd.Flags().String("category", "", "Only list quizzes for this category id")

	quizCmd.AddCommand(quizRecordCmd)
	quizCmd.AddCommand(quizHistoryCmd)
}
