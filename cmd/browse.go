package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vocabulous/vocabulous/internal/model"
	"github.com/vocabulous/vocabulous/internal/session"
	"github.com/vocabulous/vocabulous/internal/ui/theme"
)

var wordsCmd = &cobra.Command{
	Use:   "words",
	Short: "List vocabulary, optionally searched or filtered",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		var f model.WordFilter
		f.Search, _ = cmd.Flags().GetString("search")
		category, _ := cmd.Flags().GetString("category")
		f.Difficulty, _ = cmd.Flags().GetInt("difficulty")
		if err := checkDifficulty(f.Difficulty); err != nil {
			return err
		}

		rt, err := newRuntime(cmd)
		if err != nil {
			return err
		}
		defer rt.manager.Close()

		ctx := cmd.Context()
		sess, _, err := rt.resume(ctx)
		if err != nil {
			return err
		}
		if category != "" {
			c, err := resolveCategory(ctx, sess, category)
			if err != nil {
				return err
			}
			f.CategoryID = c.ID
		}
		words, err := sess.Words().Search(ctx, f)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if len(words) == 0 {
			fmt.Fprintln(out, theme.Hint.Render("No words found."))
			return nil
		}
		for _, w := range words {
			fmt.Fprintf(out, "%s  %s  %s\n",
				theme.Value.Render(fit(w.Word, 20)),
				theme.Label.Render(fmt.Sprintf("L%d", w.Difficulty)),
				w.Definition)
		}
		return nil
	},
}

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List word categories in display order",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		difficulty, _ := cmd.Flags().GetInt("difficulty")
		if err := checkDifficulty(difficulty); err != nil {
			return err
		}

		rt, err := newRuntime(cmd)
		if err != nil {
			return err
		}
		defer rt.manager.Close()

		ctx := cmd.Context()
		sess, _, err := rt.resume(ctx)
		if err != nil {
			return err
		}
		var cats []*model.WordCategory
		if difficulty != 0 {
			cats, err = sess.Categories().ByDifficulty(ctx, difficulty)
		} else {
			cats, err = sess.Categories().All(ctx)
		}
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if len(cats) == 0 {
			fmt.Fprintln(out, theme.Hint.Render("No categories found."))
			return nil
		}
		for _, c := range cats {
			fmt.Fprintf(out, "%s  %s  %s\n",
				theme.Value.Render(fit(c.Name, 20)),
				theme.Label.Render(fmt.Sprintf("L%d", c.Difficulty)),
				theme.Hint.Render(c.ID))
		}
		return nil
	},
}

var lessonsCmd = &cobra.Command{
	Use:   "lessons [ID]",
	Short: "List grammar lessons, or show one lesson with its exercises",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime(cmd)
		if err != nil {
			return err
		}
		defer rt.manager.Close()

		ctx := cmd.Context()
		sess, _, err := rt.resume(ctx)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()

		if len(args) == 0 {
			lessons, err := sess.Lessons().All(ctx)
			if err != nil {
				return err
			}
			if len(lessons) == 0 {
				fmt.Fprintln(out, theme.Hint.Render("No lessons yet. Import a content pack first."))
				return nil
			}
			for _, l := range lessons {
				fmt.Fprintf(out, "%s  %s  %s\n",
					theme.Hint.Render(fit(l.ID, 12)),
					theme.Label.Render(fmt.Sprintf("L%d", l.Difficulty)),
					theme.Value.Render(l.Title))
			}
			return nil
		}

		l, err := sess.Lessons().Get(ctx, args[0])
		if err != nil {
			return err
		}
		exercises, err := sess.Exercises().ByLesson(ctx, l.ID)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, theme.Title.Render(l.Title))
		if l.Description != "" {
			fmt.Fprintln(out, theme.Hint.Render(l.Description))
		}
		fmt.Fprintln(out, theme.KV("Difficulty", l.Difficulty))
		if len(l.Tags) > 0 {
			fmt.Fprintln(out, theme.KV("Tags", strings.Join(l.Tags, ", ")))
		}
		fmt.Fprintln(out)
		fmt.Fprintln(out, l.Content)
		if len(exercises) == 0 {
			return nil
		}
		fmt.Fprintln(out)
		fmt.Fprintln(out, theme.Title.Render("Exercises"))
		for i, e := range exercises {
			fmt.Fprintf(out, "%d. %s %s\n", i+1, theme.Value.Render(e.Title), theme.Hint.Render("("+string(e.Type)+")"))
			if e.Instruction != "" {
				fmt.Fprintln(out, "   "+e.Instruction)
			}
			if len(e.Options) > 0 {
				fmt.Fprintln(out, "   "+theme.Label.Render("Options: ")+strings.Join(e.Options, " | "))
			}
		}
		return nil
	},
}

var packsCmd = &cobra.Command{
	Use:   "packs",
	Short: "List imported word packs",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		var f model.PackFilter
		f.Search, _ = cmd.Flags().GetString("search")
		f.Language, _ = cmd.Flags().GetString("language")
		f.Theme, _ = cmd.Flags().GetString("theme")
		f.Difficulty, _ = cmd.Flags().GetInt("difficulty")
		if err := checkDifficulty(f.Difficulty); err != nil {
			return err
		}

		rt, err := newRuntime(cmd)
		if err != nil {
			return err
		}
		defer rt.manager.Close()

		ctx := cmd.Context()
		sess, _, err := rt.resume(ctx)
		if err != nil {
			return err
		}
		// Packs are local only.
		packs, err := sess.Cache.Packs().Search(ctx, f)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if len(packs) == 0 {
			fmt.Fprintln(out, theme.Hint.Render("No word packs found."))
			return nil
		}
		for _, p := range packs {
			mark := " "
			if p.IsDownloaded {
				mark = theme.Good.Render("✓")
			}
			fmt.Fprintf(out, "%s %s  %-5s  %s  %d words\n",
				mark,
				theme.Value.Render(fit(p.Name, 20)),
				p.Language,
				theme.Label.Render(fmt.Sprintf("L%d", p.Difficulty)),
				p.WordCount)
		}
		return nil
	},
}

func init() {
	wordsCmd.Flags().String("search", "", "Match words or definitions containing this text")
	wordsCmd.Flags().String("category", "", "Only words in this category (id or name)")
	wordsCmd.Flags().Int("difficulty", 0, "Only words of this difficulty (1-5)")
	categoriesCmd.Flags().Int("difficulty", 0, "Only categories of this difficulty (1-5)")
	packsCmd.Flags().String("search", "", "Match name, description, theme, language or tags")
	packsCmd.Flags().String("language", "", "Only packs in this language")
	packsCmd.Flags().String("theme", "", "Only packs with this theme")
	packsCmd.Flags().Int("difficulty", 0, "Only packs of this difficulty (1-5)")
}

func checkDifficulty(d int) error {
	if d < 0 || d > 5 {
		return fmt.Errorf("%w: difficulty must be 1-5", model.ErrInvalidInput)
	}
	return nil
}

// resolveCategory finds a category by id, then by case-insensitive name.
func resolveCategory(ctx context.Context, sess *session.Session, ref string) (*model.WordCategory, error) {
	cats, err := sess.Categories().All(ctx)
	if err != nil {
		return nil, err
	}
	for _, c := range cats {
		if c.ID == ref {
			return c, nil
		}
	}
	for _, c := range cats {
		if strings.EqualFold(c.Name, ref) {
			return c, nil
		}
	}
	return nil, fmt.Errorf("category %q: %w", ref, model.ErrNotFound)
}
