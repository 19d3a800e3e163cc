package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/vocabulous/vocabulous/internal/content"
	"github.com/vocabulous/vocabulous/internal/model"
	"github.com/vocabulous/vocabulous/internal/ui/theme"
)

var importCmd = &cobra.Command{
	Use:   "import FILE",
	Short: "Import words and lessons from a content pack (.json) or word list (.xlsx)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		sheet, _ := cmd.Flags().GetString("sheet")

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

		now := time.Now().UTC()
		var sum content.Summary
		switch strings.ToLower(filepath.Ext(path)) {
		case ".json":
			raw, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("read content pack: %w", err)
			}
			pack, err := content.ParsePack(raw)
			if err != nil {
				return err
			}
			sum, err = content.Import(ctx, sess.Cache, pack, now)
			if err != nil {
				return fmt.Errorf("import content pack: %w", err)
			}
		case ".xlsx":
			sum, err = content.ImportWordSheet(ctx, sess.Cache, path, sheet, now)
			if err != nil {
				return fmt.Errorf("import word sheet: %w", err)
			}
		default:
			return fmt.Errorf("%w: unsupported file type %q (want .json or .xlsx)", model.ErrInvalidInput, filepath.Ext(path))
		}

		pub, err := rt.manager.PublishContent(ctx)
		if err != nil {
			return err
		}
		if !pub.OK() {
			return fmt.Errorf("publish imported content: %w", pub.Failures[0].Err)
		}

		rt.logger.Info("content imported",
			slog.String("path", path),
			slog.String("user_id", sess.UserID),
			slog.Int("skipped", len(sum.Skipped)))

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, theme.Title.Render("Imported "+filepath.Base(path)))
		for _, kind := range model.AllKinds {
			if n, ok := sum.Imported[kind]; ok {
				fmt.Fprintln(out, "  "+theme.KV(kind.String(), n))
			}
		}
		for _, s := range sum.Skipped {
			fmt.Fprintln(out, theme.Hint.Render("  skipped: "+s))
		}
		return nil
	},
}

func init() {
	importCmd.Flags().String("sheet", "", "Worksheet to read from an .xlsx file (default: first sheet)")
}
