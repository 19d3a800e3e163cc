package reminder

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/vocabulous/vocabulous/internal/model"
)

type mockQueue struct {
	mock.Mock
}

func (m *mockQueue) ReviewQueue(ctx context.Context, userID string, limit int) ([]*model.WordProgress, error) {
	args := m.Called(ctx, userID, limit)
	due, _ := args.Get(0).([]*model.WordProgress)
	return due, args.Error(1)
}

type mockNotifier struct {
	mock.Mock
}

func (m *mockNotifier) Notify(ctx context.Context, userID string, due int) error {
	return m.Called(ctx, userID, due).Error(0)
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestCheck_NotifiesWhenDue(t *testing.T) {
	q := new(mockQueue)
	q.On("ReviewQueue", mock.Anything, "u1", 0).Return([]*model.WordProgress{{WordID: "a"}, {WordID: "b"}}, nil)
	n := new(mockNotifier)
	n.On("Notify", mock.Anything, "u1", 2).Return(nil).Once()

	r := New(q, n, "u1", time.Hour, quietLogger())
	count, err := r.Check(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 2, count)
	n.AssertExpectations(t)
}

func TestCheck_SilentWhenNothingDue(t *testing.T) {
	q := new(mockQueue)
	q.On("ReviewQueue", mock.Anything, "u1", 0).Return(nil, nil)
	n := new(mockNotifier)

	r := New(q, n, "u1", time.Hour, quietLogger())
	count, err := r.Check(context.Background())

	require.NoError(t, err)
	assert.Zero(t, count)
	n.AssertNotCalled(t, "Notify", mock.Anything, mock.Anything, mock.Anything)
}

func TestCheck_QueueError(t *testing.T) {
	q := new(mockQueue)
	q.On("ReviewQueue", mock.Anything, "u1", 0).Return(nil, errors.New("db closed"))

	r := New(q, new(mockNotifier), "u1", time.Hour, quietLogger())
	_, err := r.Check(context.Background())
	assert.Error(t, err)
}

func TestStart_RunsImmediately(t *testing.T) {
	q := new(mockQueue)
	q.On("ReviewQueue", mock.Anything, "u1", 0).Return([]*model.WordProgress{{WordID: "a"}}, nil)
	notified := make(chan int, 4)
	n := new(mockNotifier)
	n.On("Notify", mock.Anything, "u1", 1).Return(nil).Run(func(args mock.Arguments) {
		notified <- args.Int(2)
	})

	r := New(q, n, "u1", time.Hour, quietLogger())
	require.NoError(t, r.Start(context.Background()))
	defer r.Stop()

	select {
	case got := <-notified:
		assert.Equal(t, 1, got)
	case <-time.After(5 * time.Second):
		t.Fatal("reminder did not run")
	}
}

func TestStart_RejectsZeroInterval(t *testing.T) {
	r := New(new(mockQueue), new(mockNotifier), "u1", 0, quietLogger())
	assert.ErrorIs(t, r.Start(context.Background()), model.ErrInvalidInput)
}

func TestWriterNotifier(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriterNotifier{W: &buf}.Notify(context.Background(), "u1", 3))
	assert.Equal(t, "3 word(s) due for review\n", buf.String())

	buf.Reset()
	custom := WriterNotifier{W: &buf, Format: func(due int) string { return "review time" }}
	require.NoError(t, custom.Notify(context.Background(), "u1", 3))
	assert.Equal(t, "review time\n", buf.String())
}
