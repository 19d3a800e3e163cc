package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"entgo.io/ent/dialect/sql/schema"
	"github.com/jmoiron/sqlx"

	"github.com/vocabulous/vocabulous/internal/model"

	// Pure Go SQLite driver (no CGO).
	_ "modernc.org/sqlite"
)

// Store is one user's local cache. It wraps a single SQLite database and
// hands out per-entity repositories.
type Store struct {
	db  *sql.DB
	drv *entsql.Driver
	x   *sqlx.DB
}

// Open creates a new Store connected to the SQLite database at dsn.
// It applies recommended pragmas and migrates the cache tables.
func Open(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// Pragmas are per connection; a single connection also serializes writers.
	db.SetMaxOpenConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply pragmas: %w", err)
	}

	drv := entsql.OpenDB(dialect.SQLite, db)
	m, err := schema.NewMigrate(drv)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create migrator: %w", err)
	}
	if err := m.Create(context.Background(), tables...); err != nil {
		db.Close()
		return nil, fmt.Errorf("auto-migrate: %w", err)
	}

	return &Store{db: db, drv: drv, x: sqlx.NewDb(db, "sqlite")}, nil
}

// OpenForUser opens the cache file for userID inside dir, creating the
// directory if needed.
func OpenForUser(dir, userID string) (*Store, error) {
	p, err := UserDBPath(dir, userID)
	if err != nil {
		return nil, err
	}
	return Open(p)
}

// DB returns the underlying *sql.DB for raw queries.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.drv.Close()
}

// Words returns the vocabulary word repository.
func (s *Store) Words() *WordRepo { return &WordRepo{x: s.x} }

// Categories returns the word category repository.
func (s *Store) Categories() *CategoryRepo { return &CategoryRepo{x: s.x} }

// Progress returns the word progress repository.
func (s *Store) Progress() *ProgressRepo { return &ProgressRepo{x: s.x} }

// Quizzes returns the quiz result repository.
func (s *Store) Quizzes() *QuizRepo { return &QuizRepo{x: s.x} }

func (s *Store) Lessons() *LessonRepo { return &LessonRepo{x: s.x} }

func (s *Store) Exercises() *ExerciseRepo { return &ExerciseRepo{x: s.x} }

func (s *Store) Packs() *PackRepo { return &PackRepo{x: s.x} }

// ClearAll deletes every row from every cache table in one transaction.
func (s *Store) ClearAll(ctx context.Context) error {
	return inTx(ctx, s.x, func(tx *sqlx.Tx) error {
		for _, t := range tables {
			q, args := entsql.Dialect(dialect.SQLite).Delete(t.Name).Query()
			if _, err := tx.ExecContext(ctx, q, args...); err != nil {
				return fmt.Errorf("clear %s: %w", t.Name, err)
			}
		}
		return nil
	})
}

// Count returns the number of rows held for kind.
func (s *Store) Count(ctx context.Context, kind model.Kind) (int, error) {
	q, args := entsql.Dialect(dialect.SQLite).
		Select(entsql.Count("*")).
		From(entsql.Table(kind.String())).
		Query()
	var n int
	if err := s.x.GetContext(ctx, &n, q, args...); err != nil {
		return 0, fmt.Errorf("count %s: %w", kind, err)
	}
	return n, nil
}

func inTx(ctx context.Context, x *sqlx.DB, fn func(tx *sqlx.Tx) error) error {
	tx, err := x.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// applyPragmas configures SQLite for optimal single-user performance.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	return nil
}

// DefaultDataDir resolves the cache directory in priority order:
// 1. VOCABULOUS_DB_DIR environment variable
// 2. $XDG_DATA_HOME/vocabulous
// 3. ~/.local/share/vocabulous
func DefaultDataDir() (string, error) {
	if d := os.Getenv("VOCABULOUS_DB_DIR"); d != "" {
		return d, os.MkdirAll(d, 0o755)
	}

	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dataHome = filepath.Join(home, ".local", "share")
	}

	d := filepath.Join(dataHome, "vocabulous")
	return d, os.MkdirAll(d, 0o755)
}

// UserDBPath returns the cache file path for userID inside dir and makes
// sure dir exists. Each user gets a separate file.
func UserDBPath(dir, userID string) (string, error) {
	if strings.TrimSpace(userID) == "" {
		return "", fmt.Errorf("%w: empty user id", model.ErrInvalidInput)
	}
	if strings.ContainsAny(userID, `/\`) || userID == "." || userID == ".." {
		return "", fmt.Errorf("%w: user id %q is not a valid file name", model.ErrInvalidInput, userID)
	}
	p := filepath.Join(dir, "vocabulous_"+userID+".db")
	return p, EnsureDir(p)
}

// EnsureDir creates the parent directory of path if it doesn't exist.
func EnsureDir(path string) error {
	dir := filepath.Dir(path)
	return os.MkdirAll(dir, 0o755)
}

// The All* methods expose every cached entity kind for reconciliation.

func (s *Store) AllWords(ctx context.Context) ([]*model.VocabularyWord, error) {
	return s.Words().All(ctx)
}

func (s *Store) AllCategories(ctx context.Context) ([]*model.WordCategory, error) {
	return s.Categories().All(ctx)
}

func (s *Store) AllProgress(ctx context.Context) ([]*model.WordProgress, error) {
	return s.Progress().All(ctx)
}

func (s *Store) AllQuizResults(ctx context.Context) ([]*model.QuizResult, error) {
	return s.Quizzes().All(ctx)
}

func (s *Store) AllLessons(ctx context.Context) ([]*model.GrammarLesson, error) {
	return s.Lessons().All(ctx)
}

func (s *Store) AllExercises(ctx context.Context) ([]*model.GrammarExercise, error) {
	return s.Exercises().All(ctx)
}
