package membership

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/mediaassoc/backend/internal/domain/membership"
	"github.com/mediaassoc/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestArchivalJobService_List(t *testing.T) {
	repo := new(MockArchivalJobRepository)
	svc := NewArchivalJobService(repo)
	job := membership.NewArchivalJob(membership.SourceKindRenewal, uuid.New(), errors.New("timeout"))
	job.Status = membership.ArchivalJobDead

	repo.On("FindAll", mock.Anything, membership.ArchivalJobDead, mock.AnythingOfType("shared.Filter")).
		Return([]membership.ArchivalJob{*job}, int64(1), nil)

	items, total, err := svc.List(context.Background(), ListFilter{Status: "dead"})

	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, items, 1)
	assert.Equal(t, "DEAD", items[0].Status)
	assert.Equal(t, "renewal", items[0].SourceKind)
	assert.Equal(t, "timeout", items[0].LastError)
}

func TestArchivalJobService_List_AllStatuses(t *testing.T) {
	repo := new(MockArchivalJobRepository)
	svc := NewArchivalJobService(repo)
	repo.On("FindAll", mock.Anything, membership.ArchivalJobStatus(""), mock.Anything).
		Return([]membership.ArchivalJob{}, int64(0), nil)

	items, _, err := svc.List(context.Background(), ListFilter{})

	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestArchivalJobService_List_InvalidStatus(t *testing.T) {
	repo := new(MockArchivalJobRepository)
	svc := NewArchivalJobService(repo)

	_, _, err := svc.List(context.Background(), ListFilter{Status: "stuck"})

	assert.ErrorIs(t, err, shared.ErrInvalidInput)
	repo.AssertNotCalled(t, "FindAll", mock.Anything, mock.Anything, mock.Anything)
}

func TestArchivalJobService_Retry(t *testing.T) {
	t.Run("dead job is requeued", func(t *testing.T) {
		repo := new(MockArchivalJobRepository)
		svc := NewArchivalJobService(repo)
		job := membership.NewArchivalJob(membership.SourceKindMember, uuid.New(), nil)
		job.Status = membership.ArchivalJobDead
		job.RetryCount = job.MaxRetries
		repo.On("FindByID", mock.Anything, job.ID).Return(job, nil)
		repo.On("Save", mock.Anything, job).Return(nil)

		resp, err := svc.Retry(context.Background(), job.ID.String())

		require.NoError(t, err)
		assert.Equal(t, "PENDING", resp.Status)
		assert.Equal(t, 0, resp.RetryCount)
	})

	t.Run("job that is not dead", func(t *testing.T) {
		repo := new(MockArchivalJobRepository)
		svc := NewArchivalJobService(repo)
		job := membership.NewArchivalJob(membership.SourceKindMember, uuid.New(), nil)
		repo.On("FindByID", mock.Anything, job.ID).Return(job, nil)

		_, err := svc.Retry(context.Background(), job.ID.String())

		assert.ErrorIs(t, err, shared.ErrInvalidState)
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("malformed id", func(t *testing.T) {
		repo := new(MockArchivalJobRepository)
		svc := NewArchivalJobService(repo)

		_, err := svc.Retry(context.Background(), "job-1")

		assert.ErrorIs(t, err, shared.ErrInvalidInput)
		repo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
	})
}
