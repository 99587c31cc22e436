package app_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/zinc/internal/app"
	"go.trai.ch/zinc/internal/core/domain"
	"go.trai.ch/zinc/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

type fixture struct {
	loader *mocks.MockOptionsLoader
	store  *mocks.MockAnalysisStore
	logger *mocks.MockLogger
	app    *app.App
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	ctrl := gomock.NewController(t)

	f := fixture{
		loader: mocks.NewMockOptionsLoader(ctrl),
		store:  mocks.NewMockAnalysisStore(ctrl),
		logger: mocks.NewMockLogger(ctrl),
	}
	f.app = app.New(f.loader, f.store, f.logger).WithWorkingDir("/work")
	return f
}

func TestApp_Options(t *testing.T) {
	t.Run("returns loaded options", func(t *testing.T) {
		f := newFixture(t)
		want := domain.NewIncOptions().WithTransitiveStep(6)
		f.loader.EXPECT().Load("/work").Return(want, nil)

		got, err := f.app.Options(context.Background())
		require.NoError(t, err)
		assert.True(t, want.Equal(got))
	})

	t.Run("relations debug logs the rendering", func(t *testing.T) {
		f := newFixture(t)
		f.loader.EXPECT().Load("/work").Return(domain.NewIncOptions().WithRelationsDebug(true), nil)
		f.logger.EXPECT().Info(gomock.Any()).Do(func(msg string) {
			assert.Contains(t, msg, "relationsDebug: true")
		})

		_, err := f.app.Options(context.Background())
		require.NoError(t, err)
	})

	t.Run("wraps loader errors", func(t *testing.T) {
		f := newFixture(t)
		loadErr := errors.New("config load error")
		f.loader.EXPECT().Load("/work").Return(domain.IncOptions{}, loadErr)

		_, err := f.app.Options(context.Background())
		require.Error(t, err)
		assert.True(t, errors.Is(err, loadErr))
		assert.Contains(t, err.Error(), "failed to load configuration")
	})

	t.Run("cancelled context", func(t *testing.T) {
		f := newFixture(t)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := f.app.Options(ctx)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestApp_Status(t *testing.T) {
	t.Run("no project", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.app.Status(context.Background(), "")
		assert.ErrorIs(t, err, domain.ErrNoProject)
	})

	t.Run("no previous analysis", func(t *testing.T) {
		f := newFixture(t)
		f.loader.EXPECT().Load("/work").Return(domain.NewIncOptions(), nil)
		f.store.EXPECT().Get("core").Return(nil, nil)
		f.logger.EXPECT().Info("no recorded analysis for project core")

		status, err := f.app.Status(context.Background(), "core")
		require.NoError(t, err)
		assert.False(t, status.Previous.IsPresent())
		assert.Empty(t, status.Changed)
		assert.False(t, status.UpToDate())
	})

	t.Run("unchanged options", func(t *testing.T) {
		f := newFixture(t)
		current := domain.NewIncOptions().WithExtra(map[string]string{"a": "b"})
		f.loader.EXPECT().Load("/work").Return(current, nil)
		f.store.EXPECT().Get("core").Return(&domain.AnalysisRecord{Project: "core", Options: current.Record()}, nil)

		status, err := f.app.Status(context.Background(), "core")
		require.NoError(t, err)
		assert.True(t, status.UpToDate())
	})

	t.Run("runtime hooks do not count as changes", func(t *testing.T) {
		f := newFixture(t)
		equiv := domain.NewSetupEquiv(nil)
		current := domain.NewIncOptions().WithExternalCompileSetupEquiv(domain.Some(equiv))
		f.loader.EXPECT().Load("/work").Return(current, nil)
		f.store.EXPECT().Get("core").Return(&domain.AnalysisRecord{Project: "core", Options: domain.NewIncOptions().Record()}, nil)

		status, err := f.app.Status(context.Background(), "core")
		require.NoError(t, err)
		assert.True(t, status.UpToDate())
	})

	t.Run("changed options", func(t *testing.T) {
		f := newFixture(t)
		previous := domain.NewIncOptions()
		current := previous.WithEnabled(false).WithTransitiveStep(10)
		f.loader.EXPECT().Load("/work").Return(current, nil)
		f.store.EXPECT().Get("core").Return(&domain.AnalysisRecord{Project: "core", Options: previous.Record()}, nil)
		f.logger.EXPECT().Warn("incremental options changed for project core: transitiveStep, enabled")

		status, err := f.app.Status(context.Background(), "core")
		require.NoError(t, err)
		assert.Equal(t, []string{"transitiveStep", "enabled"}, status.Changed)
		got, ok := status.Previous.Get()
		require.True(t, ok)
		assert.True(t, previous.Equal(got))
		assert.False(t, status.UpToDate())
	})

	t.Run("store error", func(t *testing.T) {
		f := newFixture(t)
		f.loader.EXPECT().Load("/work").Return(domain.NewIncOptions(), nil)
		f.store.EXPECT().Get("core").Return(nil, errors.New("disk on fire"))

		_, err := f.app.Status(context.Background(), "core")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to read analysis record")
	})

	t.Run("corrupt record", func(t *testing.T) {
		f := newFixture(t)
		f.loader.EXPECT().Load("/work").Return(domain.NewIncOptions(), nil)
		record := &domain.AnalysisRecord{
			Project: "core",
			Options: domain.IncOptionsRecord{ClassFileManager: &domain.ClassFileManagerRecord{Kind: "bogus"}},
		}
		f.store.EXPECT().Get("core").Return(record, nil)

		_, err := f.app.Status(context.Background(), "core")
		assert.ErrorIs(t, err, domain.ErrUnknownClassFileManager)
	})
}

func TestApp_Record(t *testing.T) {
	now := time.Date(2026, 10, 17, 9, 30, 0, 0, time.UTC)

	t.Run("stores the current options", func(t *testing.T) {
		f := newFixture(t)
		f.app.WithClock(func() time.Time { return now })
		current := domain.NewIncOptions().WithStoreAPIs(false)
		f.loader.EXPECT().Load("/work").Return(current, nil)
		f.store.EXPECT().Put(gomock.Any()).DoAndReturn(func(record domain.AnalysisRecord) error {
			assert.Equal(t, "core", record.Project)
			assert.Equal(t, current.Fingerprint(), record.Fingerprint)
			assert.True(t, now.Equal(record.Timestamp))
			return nil
		})
		f.logger.EXPECT().Info("recorded options for project core (" + current.Fingerprint() + ")")

		record, err := f.app.Record(context.Background(), "core")
		require.NoError(t, err)

		restored, err := record.Options.Apply(domain.NewIncOptions())
		require.NoError(t, err)
		assert.True(t, current.Equal(restored))
	})

	t.Run("no project", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.app.Record(context.Background(), "")
		assert.ErrorIs(t, err, domain.ErrNoProject)
	})

	t.Run("store error", func(t *testing.T) {
		f := newFixture(t)
		f.loader.EXPECT().Load("/work").Return(domain.NewIncOptions(), nil)
		f.store.EXPECT().Put(gomock.Any()).Return(errors.New("read-only"))

		_, err := f.app.Record(context.Background(), "core")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to write analysis record")
	})
}
