package store

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"

	"github.com/rs/zerolog"
)

func TestStore_NextID(t *testing.T) {
	st, _ := newTestFileStore(t)
	ctx := context.Background()

	id, err := st.NextID(ctx, Patients)
	if err != nil {
		t.Fatal(err)
	}
	if id != "P001" {
		t.Errorf("expected P001, got %s", id)
	}

	_ = st.Save(ctx, Patients, []Record{{"id": "P001"}, {"id": "P002"}})
	id, err = st.NextID(ctx, Patients)
	if err != nil {
		t.Fatal(err)
	}
	if id != "P003" {
		t.Errorf("expected P003, got %s", id)
	}
}

func TestStore_NextIDInvalidFormat(t *testing.T) {
	st, _ := newTestFileStore(t)
	ctx := context.Background()
	_ = st.Save(ctx, Doctors, []Record{{"id": "Dxyz"}})
	if _, err := st.NextID(ctx, Doctors); !errors.Is(err, ErrInvalidIDFormat) {
		t.Errorf("expected ErrInvalidIDFormat, got %v", err)
	}
}

func TestStore_AppendAssignsSequentialIDs(t *testing.T) {
	st, _ := newTestFileStore(t)
	ctx := context.Background()

	for _, want := range []string{"A001", "A002", "A003"} {
		rec, err := st.Append(ctx, Appointments, func(id string) (Record, error) {
			return Record{"status": "Scheduled"}, nil
		})
		if err != nil {
			t.Fatalf("append: %v", err)
		}
		if rec.ID() != want {
			t.Errorf("expected %s, got %s", want, rec.ID())
		}
	}
	records, _ := st.Load(ctx, Appointments)
	if len(records) != 3 {
		t.Errorf("expected 3 records, got %d", len(records))
	}
}

func TestStore_AppendPreservesUnknownFields(t *testing.T) {
	st, _ := newTestFileStore(t)
	ctx := context.Background()
	_ = st.Save(ctx, Patients, []Record{{"id": "P001", "legacy_field": "kept"}})

	if _, err := st.Append(ctx, Patients, func(id string) (Record, error) {
		return Record{"name": "New"}, nil
	}); err != nil {
		t.Fatal(err)
	}
	records, _ := st.Load(ctx, Patients)
	if records[0]["legacy_field"] != "kept" {
		t.Errorf("expected legacy field to survive append, got %v", records[0])
	}
}

func TestStore_AppendRefusesCorruptCollection(t *testing.T) {
	st, fs := newTestFileStore(t)
	ctx := context.Background()
	if err := os.WriteFile(fs.Path(Billing), []byte("garbage"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := st.Append(ctx, Billing, func(id string) (Record, error) { return Record{}, nil })
	if !errors.Is(err, ErrCorrupt) {
		t.Fatalf("expected ErrCorrupt, got %v", err)
	}
	data, _ := os.ReadFile(fs.Path(Billing))
	if string(data) != "garbage" {
		t.Error("corrupt document must not be overwritten")
	}
}

func TestStore_AppendBuildError(t *testing.T) {
	st, _ := newTestFileStore(t)
	boom := errors.New("boom")
	_, err := st.Append(context.Background(), Patients, func(id string) (Record, error) { return nil, boom })
	if !errors.Is(err, boom) {
		t.Errorf("expected build error, got %v", err)
	}
}

// racingBackend lets another writer slip in before the first n conditional saves.
type racingBackend struct {
	Backend
	races int
}

func (b *racingBackend) SaveIfVersion(ctx context.Context, c Collection, records []Record, version string) (string, error) {
	if b.races > 0 {
		b.races--
		snap, _ := b.Backend.LoadVersioned(ctx, c)
		id, _ := NextIDFrom(c, snap.Records)
		intruder := append(cloneRecords(snap.Records), Record{"id": id, "name": "intruder"})
		if err := b.Backend.Save(ctx, c, intruder); err != nil {
			return "", err
		}
	}
	return b.Backend.SaveIfVersion(ctx, c, records, version)
}

func TestStore_AppendRetriesOnConflict(t *testing.T) {
	_, fs := newTestFileStore(t)
	st := New(&racingBackend{Backend: fs, races: 1}, zerolog.Nop())
	ctx := context.Background()

	rec, err := st.Append(ctx, Patients, func(id string) (Record, error) {
		return Record{"name": "mine"}, nil
	})
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if rec.ID() != "P002" {
		t.Errorf("expected retry to pick P002, got %s", rec.ID())
	}
	records, _ := st.Load(ctx, Patients)
	if len(records) != 2 {
		t.Fatalf("expected both writes to survive, got %d records", len(records))
	}
}

func TestStore_AppendGivesUpAfterRepeatedConflicts(t *testing.T) {
	_, fs := newTestFileStore(t)
	st := New(&racingBackend{Backend: fs, races: maxAppendAttempts}, zerolog.Nop())
	_, err := st.Append(context.Background(), Patients, func(id string) (Record, error) {
		return Record{"name": "mine"}, nil
	})
	if !errors.Is(err, ErrVersionConflict) {
		t.Errorf("expected ErrVersionConflict, got %v", err)
	}
}

func TestStore_ConcurrentAppendsDoNotLoseUpdates(t *testing.T) {
	st, _ := newTestFileStore(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	var mu sync.Mutex
	failures := 0
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := st.Append(ctx, Inventory, func(id string) (Record, error) {
				return Record{"name": "gauze"}, nil
			})
			if err != nil {
				mu.Lock()
				failures++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	records, _ := st.Load(ctx, Inventory)
	if len(records)+failures != 8 {
		t.Errorf("lost update: %d records saved, %d failures reported", len(records), failures)
	}
	seen := map[string]bool{}
	for _, r := range records {
		if seen[r.ID()] {
			t.Errorf("duplicate id %s", r.ID())
		}
		seen[r.ID()] = true
	}
}
