// Package session owns the signed-in user's local cache and remote
// namespace. A Manager holds at most one active session.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/vocabulous/vocabulous/internal/learning"
	"github.com/vocabulous/vocabulous/internal/model"
	"github.com/vocabulous/vocabulous/internal/reconcile"
	"github.com/vocabulous/vocabulous/internal/remote"
	"github.com/vocabulous/vocabulous/internal/store"
)

// ErrNoSession is returned by operations that need a signed-in user.
var ErrNoSession = errors.New("no active session")

// Opener opens the local cache of a user.
type Opener func(ctx context.Context, userID string) (*store.Store, error)

// Connector opens the remote namespace of a user.
type Connector func(ctx context.Context, userID string) (remote.Namespace, error)

// StoreOpener opens per-user cache files inside dir.
func StoreOpener(dir string) Opener {
	return func(ctx context.Context, userID string) (*store.Store, error) {
		return store.OpenForUser(dir, userID)
	}
}

// Session is one user's open cache and, when a remote is configured, the
// user's namespace.
type Session struct {
	UserID string
	Cache  *store.Store
	Remote remote.Namespace // nil when running without a remote
}

// Progress returns the progress repository that is authoritative for the
// session: the remote namespace when connected, the local cache otherwise.
func (s *Session) Progress() learning.ProgressRepo {
	if s.Remote != nil {
		return remote.NewProgressRepo(s.Remote)
	}
	return s.Cache.Progress()
}

// Quizzes returns the authoritative quiz result repository.
func (s *Session) Quizzes() learning.QuizRepo {
	if s.Remote != nil {
		return remote.NewQuizRepo(s.Remote)
	}
	return s.Cache.Quizzes()
}

// WordReader looks up vocabulary.
type WordReader interface {
	All(ctx context.Context) ([]*model.VocabularyWord, error)
	Search(ctx context.Context, f model.WordFilter) ([]*model.VocabularyWord, error)
	Get(ctx context.Context, id string) (*model.VocabularyWord, error)
	FindByText(ctx context.Context, text string) (*model.VocabularyWord, error)
}

type CategoryReader interface {
	All(ctx context.Context) ([]*model.WordCategory, error)
	ByDifficulty(ctx context.Context, difficulty int) ([]*model.WordCategory, error)
}

type LessonReader interface {
	All(ctx context.Context) ([]*model.GrammarLesson, error)
	Get(ctx context.Context, id string) (*model.GrammarLesson, error)
}

type ExerciseReader interface {
	ByLesson(ctx context.Context, lessonID string) ([]*model.GrammarExercise, error)
}

// Words returns the authoritative vocabulary. After a sign-in that
// cleared the cache the words only exist remotely.
func (s *Session) Words() WordReader {
	if s.Remote != nil {
		return remote.NewWordRepo(s.Remote)
	}
	return s.Cache.Words()
}

func (s *Session) Categories() CategoryReader {
	if s.Remote != nil {
		return remote.NewCategoryRepo(s.Remote)
	}
	return s.Cache.Categories()
}

func (s *Session) Lessons() LessonReader {
	if s.Remote != nil {
		return remote.NewLessonRepo(s.Remote)
	}
	return s.Cache.Lessons()
}

func (s *Session) Exercises() ExerciseReader {
	if s.Remote != nil {
		return remote.NewExerciseRepo(s.Remote)
	}
	return s.Cache.Exercises()
}

func (s *Session) close() error {
	var errs []error
	if s.Remote != nil {
		if err := s.Remote.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close remote: %w", err))
		}
	}
	if err := s.Cache.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close cache: %w", err))
	}
	return errors.Join(errs...)
}

// Manager opens and closes sessions.
type Manager struct {
	open       Opener
	connect    Connector
	reconciler *reconcile.Reconciler
	logger     *slog.Logger

	mu     sync.Mutex
	active *Session
}

// NewManager creates a Manager. connect may be nil to run without a remote.
func NewManager(open Opener, connect Connector, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		open:       open,
		connect:    connect,
		reconciler: reconcile.New(logger),
		logger:     logger,
	}
}

// Current returns the active session, or nil.
func (m *Manager) Current() *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.active
}

// SignIn opens userID's cache and namespace and reconciles them once. Any
// previous session is closed first. Only a failure to open the cache
// fails sign-in; reconciliation problems are reported in the Result.
func (m *Manager) SignIn(ctx context.Context, userID string) (*Session, reconcile.Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	sess, res, err := m.startLocked(ctx, userID)
	if err != nil {
		return nil, res, err
	}
	if sess.Remote != nil {
		res = m.reconciler.Reconcile(ctx, sess.Cache, sess.Remote)
	}
	m.logger.Info("signed in",
		slog.String("user_id", userID),
		slog.Bool("remote", sess.Remote != nil),
		slog.String("decision", string(res.Decision)))
	return sess, res, nil
}

// Resume opens userID's session without reconciling. It is used when a
// sign-in already happened in an earlier process.
func (m *Manager) Resume(ctx context.Context, userID string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	sess, _, err := m.startLocked(ctx, userID)
	return sess, err
}

func (m *Manager) startLocked(ctx context.Context, userID string) (*Session, reconcile.Result, error) {
	var res reconcile.Result
	if userID == "" {
		return nil, res, fmt.Errorf("%w: user id is required", model.ErrInvalidInput)
	}
	if m.active != nil {
		if err := m.active.close(); err != nil {
			m.logger.Warn("close previous session", slog.Any("error", err))
		}
		m.active = nil
	}

	cache, err := m.open(ctx, userID)
	if err != nil {
		return nil, res, fmt.Errorf("open cache: %w", err)
	}
	sess := &Session{UserID: userID, Cache: cache}

	if m.connect != nil {
		ns, err := m.connect(ctx, userID)
		if err != nil {
			m.logger.Warn("remote unavailable, continuing offline",
				slog.String("user_id", userID), slog.Any("error", err))
			res.Failures = append(res.Failures, reconcile.Failure{Op: "connect", Err: err})
		} else {
			sess.Remote = ns
		}
	}

	m.active = sess
	return sess, res, nil
}

// PublishContent copies the active cache's reference content to the
// remote namespace so that content imported locally is visible through
// Words and the other content readers. Without a remote it does nothing.
func (m *Manager) PublishContent(ctx context.Context) (reconcile.Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.active == nil {
		return reconcile.Result{}, ErrNoSession
	}
	if m.active.Remote == nil {
		return reconcile.Result{}, nil
	}
	return m.reconciler.UploadContent(ctx, m.active.Cache, m.active.Remote), nil
}

// SignOut discards the active user's local cache and closes the session.
// Remote data is kept.
func (m *Manager) SignOut(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.active == nil {
		return ErrNoSession
	}
	sess := m.active
	m.active = nil

	var errs []error
	if err := sess.Cache.ClearAll(ctx); err != nil {
		errs = append(errs, fmt.Errorf("clear cache: %w", err))
	}
	if err := sess.close(); err != nil {
		errs = append(errs, err)
	}
	m.logger.Info("signed out", slog.String("user_id", sess.UserID))
	return errors.Join(errs...)
}

// Reset deletes the active user's progress and quiz results, locally and
// in the remote namespace. Reference content is kept.
func (m *Manager) Reset(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.active == nil {
		return ErrNoSession
	}
	sess := m.active

	if err := sess.Cache.Progress().DeleteByUser(ctx, sess.UserID); err != nil {
		return fmt.Errorf("reset local progress: %w", err)
	}
	if err := sess.Cache.Quizzes().DeleteByUser(ctx, sess.UserID); err != nil {
		return fmt.Errorf("reset local quiz results: %w", err)
	}
	if sess.Remote != nil {
		for _, kind := range []model.Kind{model.KindWordProgress, model.KindQuizResult} {
			if err := sess.Remote.DeleteAll(ctx, kind); err != nil {
				return fmt.Errorf("reset remote %s: %w", kind, err)
			}
		}
	}
	m.logger.Info("learner data reset", slog.String("user_id", sess.UserID))
	return nil
}

// Close closes the active session without clearing it.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.active == nil {
		return nil
	}
	err := m.active.close()
	m.active = nil
	return err
}
