package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/vocabulous/vocabulous/internal/config"
	"github.com/vocabulous/vocabulous/internal/learning"
	"github.com/vocabulous/vocabulous/internal/logging"
	"github.com/vocabulous/vocabulous/internal/model"
	"github.com/vocabulous/vocabulous/internal/remote"
	"github.com/vocabulous/vocabulous/internal/session"
	"github.com/vocabulous/vocabulous/internal/spacedrep"
	"github.com/vocabulous/vocabulous/internal/store"
)

var rootCmd = &cobra.Command{
	Use:          "vocabulous",
	Short:        "Spaced-repetition vocabulary trainer",
	Long:         "Vocabulous tracks how well you know each word and tells you when to review it.",
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db-dir", "", "Directory for per-user cache files (overrides VOCABULOUS_DB_DIR)")
	rootCmd.PersistentFlags().String("user", "", "User id (overrides VOCABULOUS_USER)")
	rootCmd.PersistentFlags().String("remote", "", "Remote backend: none, memory or firestore (overrides VOCABULOUS_REMOTE)")

	rootCmd.AddCommand(rateCmd)
	rootCmd.AddCommand(bookmarkCmd)
	rootCmd.AddCommand(notesCmd)
	rootCmd.AddCommand(dueCmd)
	rootCmd.AddCommand(wordsCmd)
	rootCmd.AddCommand(categoriesCmd)
	rootCmd.AddCommand(lessonsCmd)
	rootCmd.AddCommand(packsCmd)
	rootCmd.AddCommand(quizCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(signinCmd)
	rootCmd.AddCommand(signoutCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(remindCmd)
	rootCmd.AddCommand(versionCmd)
}

// runtime is what every user command needs: resolved config, a logger and
// a session manager.
type runtime struct {
	cfg     config.Config
	logger  *slog.Logger
	manager *session.Manager
}

// loadConfig reads the environment and .env, then applies the --db-dir,
// --user and --remote flags, which win.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return cfg, err
	}
	if v, _ := cmd.Flags().GetString("db-dir"); v != "" {
		cfg.DBDir = v
	}
	if v, _ := cmd.Flags().GetString("user"); v != "" {
		cfg.UserID = v
	}
	if v, _ := cmd.Flags().GetString("remote"); v != "" {
		cfg.Remote = v
	}
	return cfg, cfg.Validate()
}

func newRuntime(cmd *cobra.Command) (*runtime, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	logger := logging.New(cmd.ErrOrStderr(), cfg.Log.Level, cfg.Log.Env)

	dir, err := resolveDBDir(cfg)
	if err != nil {
		return nil, fmt.Errorf("resolve database directory: %w", err)
	}
	return &runtime{
		cfg:     cfg,
		logger:  logger,
		manager: session.NewManager(session.StoreOpener(dir), newConnector(cfg, logger), logger),
	}, nil
}

// resolveDBDir returns the cache directory from config, falling back to
// the default XDG location.
func resolveDBDir(cfg config.Config) (string, error) {
	if cfg.DBDir != "" {
		return cfg.DBDir, os.MkdirAll(cfg.DBDir, 0o755)
	}
	return store.DefaultDataDir()
}

// newConnector is swapped in tests to share one remote across runs.
var newConnector = connector

// connector returns the remote namespace opener for the configured
// backend, or nil when running without a remote. Namespaces are wrapped
// with call logging, and Firestore ones also with retries.
func connector(cfg config.Config, logger *slog.Logger) session.Connector {
	switch cfg.Remote {
	case config.RemoteMemory:
		mem := remote.NewMemory()
		return func(ctx context.Context, userID string) (remote.Namespace, error) {
			return remote.WithLogging(mem.Namespace(userID), logger), nil
		}
	case config.RemoteFirestore:
		projectID := cfg.Firestore.ProjectID
		retry := remote.DefaultRetryConfig()
		retry.MaxAttempts = cfg.Firestore.MaxAttempts
		return func(ctx context.Context, userID string) (remote.Namespace, error) {
			ns, err := remote.OpenFirestore(ctx, projectID, userID)
			if err != nil {
				return nil, err
			}
			return remote.WithLogging(remote.WithRetry(ns, retry), logger), nil
		}
	default:
		return nil
	}
}

func (r *runtime) requireUser() error {
	if r.cfg.UserID == "" {
		return fmt.Errorf("%w: no user, pass --user or set VOCABULOUS_USER", model.ErrInvalidInput)
	}
	return nil
}

// resume opens the configured user's session without reconciling and
// builds the learning service over it.
func (r *runtime) resume(ctx context.Context) (*session.Session, *learning.Service, error) {
	if err := r.requireUser(); err != nil {
		return nil, nil, err
	}
	sess, err := r.manager.Resume(ctx, r.cfg.UserID)
	if err != nil {
		return nil, nil, fmt.Errorf("open session: %w", err)
	}
	sched := &spacedrep.Scheduler{MaxIntervalDays: r.cfg.MaxIntervalDays}
	return sess, learning.NewService(sess.Progress(), sess.Quizzes(), sched, r.logger), nil
}

// resolveWord finds a word by id, then by exact text, in the session's
// authoritative store.
func resolveWord(ctx context.Context, sess *session.Session, ref string) (*model.VocabularyWord, error) {
	words := sess.Words()
	w, err := words.Get(ctx, ref)
	if err == nil {
		return w, nil
	}
	if !errors.Is(err, model.ErrNotFound) {
		return nil, err
	}
	w, err = words.FindByText(ctx, ref)
	if err != nil {
		return nil, fmt.Errorf("%w (import content first with `vocabulous import`)", err)
	}
	return w, nil
}
