package telemetry

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubStatsProvider struct {
	counts map[string]int64
	err    error
	calls  atomic.Int32
}

func (s *stubStatsProvider) CountArchivalJobsByStatus(ctx context.Context) (map[string]int64, error) {
	s.calls.Add(1)
	return s.counts, s.err
}

func TestNewMembershipMetrics_NilMeter(t *testing.T) {
	mm, err := NewMembershipMetrics(MembershipMetricsConfig{Logger: zap.NewNop()})

	require.Error(t, err)
	assert.Nil(t, mm)
	assert.Equal(t, "NewMembershipMetrics: meter cannot be nil", err.Error())
}

func TestMembershipMetrics_Counters(t *testing.T) {
	meter, reader := newTestMeter(t)
	mm, err := NewMembershipMetrics(MembershipMetricsConfig{Meter: meter})
	require.NoError(t, err)
	ctx := context.Background()

	mm.RecordStatusUpdate(ctx, "member", "Approved")
	mm.RecordStatusUpdate(ctx, "member", "Approved")
	mm.RecordStatusUpdate(ctx, "renewal", "Expired")

	mm.RecordArchival(ctx, "member", OutcomeArchived)
	mm.RecordArchival(ctx, "renewal", OutcomeFailed)
	mm.RecordArchival(ctx, "renewal", OutcomeRetried)

	mm.RecordImportRows(ctx, 12, 3)
	mm.RecordImportRows(ctx, 0, 0)

	rm := collect(t, reader)
	assert.Equal(t, int64(2), counterValue(rm, "membership_status_updates_total",
		AttrSourceKind.String("member"), AttrStatus.String("Approved")))
	assert.Equal(t, int64(3), counterValue(rm, "membership_status_updates_total"))

	assert.Equal(t, int64(1), counterValue(rm, "membership_archival_total",
		AttrSourceKind.String("renewal"), AttrOutcome.String(OutcomeFailed)))
	assert.Equal(t, int64(2), counterValue(rm, "membership_archival_total", AttrSourceKind.String("renewal")))

	assert.Equal(t, int64(12), counterValue(rm, "ledger_import_rows_total", AttrImportResult.String(ImportResultImported)))
	assert.Equal(t, int64(3), counterValue(rm, "ledger_import_rows_total", AttrImportResult.String(ImportResultSkipped)))
}

func TestMembershipMetrics_PeriodicCollection(t *testing.T) {
	t.Run("records job counts by status", func(t *testing.T) {
		meter, reader := newTestMeter(t)
		provider := &stubStatsProvider{counts: map[string]int64{"PENDING": 4, "DEAD": 1}}
		mm, err := NewMembershipMetrics(MembershipMetricsConfig{Meter: meter, StatsProvider: provider})
		require.NoError(t, err)

		mm.StartPeriodicCollection(context.Background(), 10*time.Millisecond)
		mm.StartPeriodicCollection(context.Background(), 10*time.Millisecond)
		require.Eventually(t, func() bool { return provider.calls.Load() >= 2 }, time.Second, 5*time.Millisecond)
		mm.Stop()

		rm := collect(t, reader)
		v, ok := gaugeValue(rm, "membership_archival_jobs", AttrJobStatus.String("PENDING"))
		require.True(t, ok)
		assert.Equal(t, int64(4), v)
		v, ok = gaugeValue(rm, "membership_archival_jobs", AttrJobStatus.String("DEAD"))
		require.True(t, ok)
		assert.Equal(t, int64(1), v)
	})

	t.Run("provider errors are logged not recorded", func(t *testing.T) {
		meter, reader := newTestMeter(t)
		provider := &stubStatsProvider{err: errors.New("connection refused")}
		mm, err := NewMembershipMetrics(MembershipMetricsConfig{Meter: meter, StatsProvider: provider})
		require.NoError(t, err)

		mm.StartPeriodicCollection(context.Background(), time.Hour)
		require.Eventually(t, func() bool { return provider.calls.Load() == 1 }, time.Second, 5*time.Millisecond)
		mm.Stop()

		assert.False(t, findMetric(collect(t, reader), "membership_archival_jobs"))
	})

	t.Run("cancelled context stops the collector", func(t *testing.T) {
		meter, _ := newTestMeter(t)
		mm, err := NewMembershipMetrics(MembershipMetricsConfig{Meter: meter})
		require.NoError(t, err)

		ctx, cancel := context.WithCancel(context.Background())
		mm.StartPeriodicCollection(ctx, time.Hour)
		cancel()

		done := make(chan struct{})
		go func() {
			mm.Stop()
			mm.Stop()
			close(done)
		}()
		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatal("Stop did not return")
		}
	})
}

func TestGormArchivalStatsProvider(t *testing.T) {
	db := setupTestDB(t)
	require.NoError(t, db.Exec(`CREATE TABLE archival_jobs (id TEXT PRIMARY KEY, status TEXT NOT NULL)`).Error)
	for i, status := range []string{"PENDING", "PENDING", "FAILED", "DONE", "PENDING"} {
		require.NoError(t, db.Exec(`INSERT INTO archival_jobs (id, status) VALUES (?, ?)`, string(rune('a'+i)), status).Error)
	}

	counts, err := NewGormArchivalStatsProvider(db).CountArchivalJobsByStatus(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[string]int64{"PENDING": 3, "FAILED": 1, "DONE": 1}, counts)
}

func TestGormArchivalStatsProvider_MissingTable(t *testing.T) {
	db := setupTestDB(t)

	_, err := NewGormArchivalStatsProvider(db).CountArchivalJobsByStatus(context.Background())
	assert.Error(t, err)
}
