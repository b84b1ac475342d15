package archive

import (
	"context"
	"testing"
	"time"

	"github.com/matzehuels/mindtower/pkg/errors"
)

func testRecord(id string, created time.Time) *Record {
	return &Record{
		ID:        id,
		Title:     "Project",
		Kind:      "radial",
		NodeCount: 4,
		Format:    "svg",
		Artifact:  []byte("<svg/>"),
		CreatedAt: created,
	}
}

func TestMemoryStoreSaveGet(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	rec := testRecord(NewID(), time.Now().UTC())
	if err := s.Save(ctx, rec); err != nil {
		t.Fatalf("Save error: %v", err)
	}

	got, err := s.Get(ctx, rec.ID)
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if got.Title != rec.Title || got.Format != rec.Format {
		t.Errorf("Get = %+v, want %+v", got, rec)
	}
	if string(got.Artifact) != "<svg/>" {
		t.Error("Get should include the artifact")
	}
}

func TestMemoryStoreGetMissing(t *testing.T) {
	s := NewMemoryStore()
	_, err := s.Get(context.Background(), "nope")
	if err == nil {
		t.Fatal("Get for missing ID should fail")
	}
	if !errors.Is(err, errors.ErrCodeMapNotFound) {
		t.Errorf("error code = %s, want %s", errors.GetCode(err), errors.ErrCodeMapNotFound)
	}
}

func TestMemoryStoreSaveRequiresID(t *testing.T) {
	s := NewMemoryStore()
	err := s.Save(context.Background(), &Record{})
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("Save without ID: code = %s, want %s", errors.GetCode(err), errors.ErrCodeInvalidInput)
	}
}

func TestMemoryStoreList(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	base := time.Now().UTC()
	ids := make([]string, 5)
	for i := range ids {
		ids[i] = NewID()
		if err := s.Save(ctx, testRecord(ids[i], base.Add(time.Duration(i)*time.Minute))); err != nil {
			t.Fatalf("Save error: %v", err)
		}
	}

	records, err := s.List(ctx, 0)
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(records) != 5 {
		t.Fatalf("List returned %d records, want 5", len(records))
	}

	// Newest first
	for i := 1; i < len(records); i++ {
		if records[i].CreatedAt.After(records[i-1].CreatedAt) {
			t.Errorf("records not sorted newest first at index %d", i)
		}
	}
	if records[0].ID != ids[4] {
		t.Errorf("first record = %s, want newest %s", records[0].ID, ids[4])
	}

	// Artifacts are stripped from listings
	for _, rec := range records {
		if rec.Artifact != nil {
			t.Errorf("record %s still carries its artifact", rec.ID)
		}
	}

	// Limit applies
	limited, err := s.List(ctx, 2)
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(limited) != 2 {
		t.Errorf("List(2) returned %d records", len(limited))
	}
}

func TestMemoryStoreListDoesNotMutate(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	rec := testRecord(NewID(), time.Now().UTC())
	if err := s.Save(ctx, rec); err != nil {
		t.Fatalf("Save error: %v", err)
	}
	if _, err := s.List(ctx, 0); err != nil {
		t.Fatalf("List error: %v", err)
	}

	// Stripping the artifact for the listing must not touch the stored copy.
	got, err := s.Get(ctx, rec.ID)
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if got.Artifact == nil {
		t.Error("List stripped the stored artifact")
	}
}

func TestMemoryStoreDelete(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	rec := testRecord(NewID(), time.Now().UTC())
	if err := s.Save(ctx, rec); err != nil {
		t.Fatalf("Save error: %v", err)
	}
	if err := s.Delete(ctx, rec.ID); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if _, err := s.Get(ctx, rec.ID); err == nil {
		t.Error("Get after Delete should fail")
	}

	// Deleting a missing ID is fine
	if err := s.Delete(ctx, "never-existed"); err != nil {
		t.Errorf("Delete of missing ID should not error: %v", err)
	}
}

func TestNewID(t *testing.T) {
	a, b := NewID(), NewID()
	if a == b {
		t.Error("NewID should not repeat")
	}
	if len(a) != 36 {
		t.Errorf("NewID length = %d, want UUID length 36", len(a))
	}
}
