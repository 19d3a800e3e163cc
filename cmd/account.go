package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vocabulous/vocabulous/internal/model"
	"github.com/vocabulous/vocabulous/internal/reconcile"
	"github.com/vocabulous/vocabulous/internal/ui/theme"
)

var signinCmd = &cobra.Command{
	Use:   "signin",
	Short: "Sign in and reconcile the local cache with the remote store",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime(cmd)
		if err != nil {
			return err
		}
		defer rt.manager.Close()
		if err := rt.requireUser(); err != nil {
			return err
		}

		sess, res, err := rt.manager.SignIn(cmd.Context(), rt.cfg.UserID)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Signed in as %s\n", theme.Value.Render(sess.UserID))
		if sess.Remote == nil {
			fmt.Fprintln(out, theme.Hint.Render("No remote store available, working offline."))
		}
		printReconcile(cmd, res)
		return nil
	},
}

func printReconcile(cmd *cobra.Command, res reconcile.Result) {
	out := cmd.OutOrStdout()
	switch res.Decision {
	case reconcile.DecisionUpload:
		fmt.Fprintln(out, "Remote store was empty, uploaded local data:")
		for _, kind := range model.AllKinds {
			if n, ok := res.Uploaded[kind]; ok {
				fmt.Fprintln(out, "  "+theme.KV(kind.String(), n))
			}
		}
	case reconcile.DecisionClearLocal:
		fmt.Fprintln(out, "Remote store has your data, local cache cleared.")
	}
	for _, f := range res.Failures {
		what := f.Op
		if f.Kind != "" {
			what += " " + f.Kind.String()
		}
		fmt.Fprintln(out, theme.Bad.Render("  failed: "+what)+" "+theme.Hint.Render(f.Err.Error()))
	}
}

var signoutCmd = &cobra.Command{
	Use:   "signout",
	Short: "Sign out and discard the local cache",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime(cmd)
		if err != nil {
			return err
		}
		defer rt.manager.Close()
		if err := rt.requireUser(); err != nil {
			return err
		}

		ctx := cmd.Context()
		if _, err := rt.manager.Resume(ctx, rt.cfg.UserID); err != nil {
			return fmt.Errorf("open session: %w", err)
		}
		if err := rt.manager.SignOut(ctx); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Signed out %s, local cache cleared.\n", rt.cfg.UserID)
		return nil
	},
}
