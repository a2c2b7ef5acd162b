package postgres

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobcore-api/domain/models"
	"jobcore-api/pkg/errors"
)

func TestScheduleRepositoryUpsert(t *testing.T) {
	db := newTestDB(t)
	repo := NewScheduleRepository(db)
	ctx := context.Background()

	none, err := repo.GetByTaskName(ctx, "nightly-report")
	require.NoError(t, err)
	assert.Nil(t, none)

	first, err := repo.Upsert(ctx, "nightly-report", false)
	require.NoError(t, err)
	assert.False(t, first.ScheduleEnabled)

	stored, err := repo.GetByTaskName(ctx, "nightly-report")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.False(t, stored.ScheduleEnabled)

	second, err := repo.Upsert(ctx, "nightly-report", false)
	require.NoError(t, err)
	assert.False(t, second.UpdatedAt.Before(first.UpdatedAt))

	var count int64
	require.NoError(t, db.Model(&models.Schedule{}).Where("task_name = ?", "nightly-report").Count(&count).Error)
	assert.Equal(t, int64(1), count)

	_, err = repo.Upsert(ctx, "nightly-report", true)
	require.NoError(t, err)
	stored, err = repo.GetByTaskName(ctx, "nightly-report")
	require.NoError(t, err)
	assert.True(t, stored.ScheduleEnabled)
	assert.False(t, stored.UpdatedAt.Before(second.UpdatedAt))
}

func TestScheduleRepositoryUpsertValidation(t *testing.T) {
	repo := NewScheduleRepository(newTestDB(t))

	_, err := repo.Upsert(context.Background(), "   ", true)
	assert.True(t, errors.IsValidation(err))
}

func TestScheduleRepositoryConcurrentFirstToggle(t *testing.T) {
	db := newTestDB(t)
	repo := NewScheduleRepository(db)

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(enabled bool) {
			defer wg.Done()
			_, err := repo.Upsert(context.Background(), "reindex", enabled)
			errs <- err
		}(i%2 == 0)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		assert.NoError(t, err)
	}

	var count int64
	require.NoError(t, db.Model(&models.Schedule{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestScheduleRepositoryFindByTaskNames(t *testing.T) {
	repo := NewScheduleRepository(newTestDB(t))
	ctx := context.Background()

	_, err := repo.Upsert(ctx, "a", false)
	require.NoError(t, err)
	_, err = repo.Upsert(ctx, "b", true)
	require.NoError(t, err)
	_, err = repo.Upsert(ctx, "off-page", false)
	require.NoError(t, err)

	rows, err := repo.FindByTaskNames(ctx, []string{"a", "b", "c"})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.False(t, rows["a"].ScheduleEnabled)
	assert.True(t, rows["b"].ScheduleEnabled)

	empty, err := repo.FindByTaskNames(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestScheduleRepositoryUpsertStatement(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewScheduleRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "task_schedules" .* ON CONFLICT \("task_name"\) DO UPDATE SET "schedule_enabled"="excluded"."schedule_enabled","updated_at"="excluded"."updated_at"`).
		WillReturnError(fmt.Errorf("deadlock detected"))
	mock.ExpectRollback()

	_, err := repo.Upsert(context.Background(), "nightly-report", false)
	require.Error(t, err)
	assert.True(t, errors.IsStore(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}
