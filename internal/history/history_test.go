package history

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/nobrega8/netscan2/pkg/models"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), ":memory:")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func sweepAt(started time.Time, status string, found int) *models.SweepResult {
	return &models.SweepResult{
		ID:        uuid.NewString(),
		Subnet:    "192.168.1.0/24",
		SSID:      "HomeNet",
		StartedAt: started,
		EndedAt:   started.Add(30 * time.Second),
		Status:    status,
		Total:     254,
		Found:     found,
	}
}

func TestRecordAndListSweeps(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Millisecond)
	older := sweepAt(now.Add(-time.Hour), models.SweepStatusCompleted, 5)
	newer := sweepAt(now, models.SweepStatusCompleted, 7)
	for _, res := range []*models.SweepResult{older, newer} {
		if err := s.RecordSweep(ctx, res); err != nil {
			t.Fatalf("RecordSweep: %v", err)
		}
	}

	got, err := s.ListSweeps(ctx, 10)
	if err != nil {
		t.Fatalf("ListSweeps: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 sweeps, got %d", len(got))
	}
	if got[0].ID != newer.ID {
		t.Error("sweeps should be newest first")
	}
	if got[0].Found != 7 || got[0].Total != 254 {
		t.Errorf("counts = %d/%d", got[0].Found, got[0].Total)
	}
	if !got[1].StartedAt.Equal(older.StartedAt) {
		t.Errorf("StartedAt = %v, want %v", got[1].StartedAt, older.StartedAt)
	}
}

func TestListSweeps_Limit(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	base := time.Now().UTC()
	for i := 0; i < 5; i++ {
		res := sweepAt(base.Add(time.Duration(i)*time.Minute), models.SweepStatusCompleted, i)
		if err := s.RecordSweep(ctx, res); err != nil {
			t.Fatal(err)
		}
	}

	got, err := s.ListSweeps(ctx, 3)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 3 {
		t.Errorf("limit ignored: got %d", len(got))
	}
}

func TestRecordSweep_NoEndedAt(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	res := sweepAt(time.Now().UTC(), models.SweepStatusFailed, 0)
	res.EndedAt = time.Time{}
	if err := s.RecordSweep(ctx, res); err != nil {
		t.Fatalf("RecordSweep: %v", err)
	}

	got, err := s.ListSweeps(ctx, 1)
	if err != nil {
		t.Fatal(err)
	}
	if !got[0].EndedAt.IsZero() {
		t.Errorf("EndedAt = %v, want zero", got[0].EndedAt)
	}
	if got[0].Status != models.SweepStatusFailed {
		t.Errorf("status = %q", got[0].Status)
	}
}

func TestPrune(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	now := time.Now().UTC()
	if err := s.RecordSweep(ctx, sweepAt(now.Add(-48*time.Hour), models.SweepStatusCompleted, 1)); err != nil {
		t.Fatal(err)
	}
	if err := s.RecordSweep(ctx, sweepAt(now, models.SweepStatusCompleted, 2)); err != nil {
		t.Fatal(err)
	}

	n, err := s.Prune(ctx, now.Add(-24*time.Hour))
	if err != nil {
		t.Fatalf("Prune: %v", err)
	}
	if n != 1 {
		t.Errorf("pruned %d rows, want 1", n)
	}
	got, err := s.ListSweeps(ctx, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Errorf("%d sweeps left, want 1", len(got))
	}
}
