package repository

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRetentionWorker_Prune(t *testing.T) {
	now := time.Date(2024, 5, 31, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		mockSetup func(mock pgxmock.PgxPoolIface)
		want      int64
	}{
		{
			name: "deletes rows older than retention",
			mockSetup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectExec(`DELETE FROM sightings WHERE captured_at < \$1`).
					WithArgs(now.Add(-30 * 24 * time.Hour)).
					WillReturnResult(pgxmock.NewResult("DELETE", 3))
			},
			want: 3,
		},
		{
			name: "database error is logged, not returned",
			mockSetup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectExec(`DELETE FROM sightings`).
					WithArgs(pgxmock.AnyArg()).
					WillReturnError(errors.New("connection reset"))
			},
			want: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock, err := pgxmock.NewPool()
			require.NoError(t, err)
			defer mock.Close()

			tt.mockSetup(mock)

			w := NewRetentionWorker(NewSightingRepository(mock), discardLogger(), 30*24*time.Hour, 0)
			w.now = func() time.Time { return now }

			assert.Equal(t, tt.want, w.Prune(context.Background()))
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

type prunerFunc func(ctx context.Context, before time.Time) (int64, error)

func (f prunerFunc) DeleteBefore(ctx context.Context, before time.Time) (int64, error) {
	return f(ctx, before)
}

func TestRetentionWorker_StartAndStop(t *testing.T) {
	calls := make(chan time.Time, 10)
	pruner := prunerFunc(func(ctx context.Context, before time.Time) (int64, error) {
		select {
		case calls <- before:
		default:
		}
		return 0, nil
	})

	w := NewRetentionWorker(pruner, discardLogger(), time.Hour, 10*time.Millisecond)
	assert.Equal(t, 10*time.Millisecond, w.interval)

	stopped := make(chan struct{})
	go func() {
		w.Start(context.Background())
		close(stopped)
	}()

	// first pass runs immediately, the second on the ticker
	for i := 0; i < 2; i++ {
		select {
		case <-calls:
		case <-time.After(time.Second):
			t.Fatal("prune was not called")
		}
	}

	w.Stop()
	w.Stop()

	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatal("worker did not stop")
	}
}

func TestRetentionWorker_DefaultInterval(t *testing.T) {
	w := NewRetentionWorker(prunerFunc(nil), discardLogger(), time.Hour, 0)
	assert.Equal(t, time.Hour, w.interval)
}
