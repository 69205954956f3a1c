package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/matzehuels/revetment/pkg/errors"
	"github.com/matzehuels/revetment/pkg/material"
	"github.com/matzehuels/revetment/pkg/section"
)

func testSections(t *testing.T, names ...string) []section.Section {
	t.Helper()
	var out []section.Section
	for i, name := range names {
		s, err := section.New(section.Inputs{
			Name:                      name,
			Velocity:                  2 + float64(i)*0.25,
			FlowRate:                  30,
			InvertElevation:           10 - float64(i)*0.1,
			DownstreamInvertElevation: 9.9 - float64(i)*0.1,
			DownstreamReachLength:     100,
			WaterLevel:                12,
			BankSlope:                 0.4,
			RevetmentType:             material.Concrete,
			TurbulenceIntensity:       0.15,
			TurbulenceFactor:          1.2,
			BoundaryLayer:             section.Disrupted,
			Zone:                      material.Transition,
		})
		if err != nil {
			t.Fatalf("section.New() error: %v", err)
		}
		out = append(out, s)
	}
	return out
}

func sameInputs(t *testing.T, got, want []section.Section) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %d sections, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i].Inputs() != want[i].Inputs() {
			t.Errorf("section %d = %+v, want %+v", i, got[i].Inputs(), want[i].Inputs())
		}
		if got[i].Mu() != want[i].Mu() || got[i].Properties() != want[i].Properties() {
			t.Errorf("section %d coefficients differ", i)
		}
	}
}

func openStores(t *testing.T) map[string]Store {
	t.Helper()
	dir := t.TempDir()

	file, err := Open(Options{Backend: BackendFile, Path: filepath.Join(dir, "nested", "sections.json")})
	if err != nil {
		t.Fatalf("Open(file) error: %v", err)
	}
	sql, err := Open(Options{Backend: BackendSQLite, Path: filepath.Join(dir, "sections.db")})
	if err != nil {
		t.Fatalf("Open(sqlite) error: %v", err)
	}
	t.Cleanup(func() {
		file.Close()
		sql.Close()
	})
	return map[string]Store{BackendFile: file, BackendSQLite: sql}
}

func TestStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	for name, st := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			got, err := st.Load(ctx)
			if err != nil {
				t.Fatalf("Load(empty) error: %v", err)
			}
			if len(got) != 0 {
				t.Fatalf("Load(empty) = %d sections, want 0", len(got))
			}

			want := testSections(t, "A", "B", "C")
			if err := st.Save(ctx, want); err != nil {
				t.Fatalf("Save() error: %v", err)
			}
			got, err = st.Load(ctx)
			if err != nil {
				t.Fatalf("Load() error: %v", err)
			}
			sameInputs(t, got, want)

			// A second save replaces the list.
			want = want[1:]
			if err := st.Save(ctx, want); err != nil {
				t.Fatalf("Save() error: %v", err)
			}
			got, err = st.Load(ctx)
			if err != nil {
				t.Fatalf("Load() error: %v", err)
			}
			sameInputs(t, got, want)
		})
	}
}

func TestFileStorePermissions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg", "sections.json")
	st, err := NewFileStore(path)
	if err != nil {
		t.Fatalf("NewFileStore() error: %v", err)
	}
	if st.Path() != path {
		t.Errorf("Path() = %q, want %q", st.Path(), path)
	}
	if err := st.Save(context.Background(), testSections(t, "A")); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat() error: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("file mode = %o, want 600", perm)
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Errorf("temporary file left behind: %v", err)
	}
}

func TestFileStoreCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sections.json")
	if err := os.WriteFile(path, []byte("{not json"), 0600); err != nil {
		t.Fatal(err)
	}
	st, _ := NewFileStore(path)
	if _, err := st.Load(context.Background()); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("Load(corrupt) error = %v, want %s", err, errors.ErrCodeInvalidFormat)
	}
}

func TestSQLStoreHistory(t *testing.T) {
	ctx := context.Background()
	st, err := NewSQLStore(filepath.Join(t.TempDir(), "history.db"), nil)
	if err != nil {
		t.Fatalf("NewSQLStore() error: %v", err)
	}
	defer st.Close()

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	tick := 0
	st.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Minute)
	}

	saves := [][]string{{"A"}, {"A", "B"}, {"A", "B", "C"}}
	for _, names := range saves {
		if err := st.Save(ctx, testSections(t, names...)); err != nil {
			t.Fatalf("Save() error: %v", err)
		}
	}

	all, err := st.History(ctx, 0)
	if err != nil {
		t.Fatalf("History() error: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("History() = %d snapshots, want 3", len(all))
	}
	for i, want := range []int{3, 2, 1} {
		if all[i].Count != want {
			t.Errorf("History()[%d].Count = %d, want %d", i, all[i].Count, want)
		}
	}
	if !all[0].CreatedAt.After(all[2].CreatedAt) {
		t.Errorf("History() not newest first: %v, %v", all[0].CreatedAt, all[2].CreatedAt)
	}

	limited, _ := st.History(ctx, 1)
	if len(limited) != 1 || limited[0].ID != all[0].ID {
		t.Errorf("History(1) = %+v", limited)
	}

	old, err := st.LoadSnapshot(ctx, all[2].ID)
	if err != nil {
		t.Fatalf("LoadSnapshot() error: %v", err)
	}
	sameInputs(t, old, testSections(t, "A"))
}

func TestSQLStoreLoadSnapshotErrors(t *testing.T) {
	st, err := NewSQLStore(filepath.Join(t.TempDir(), "s.db"), nil)
	if err != nil {
		t.Fatalf("NewSQLStore() error: %v", err)
	}
	defer st.Close()

	ctx := context.Background()
	if _, err := st.LoadSnapshot(ctx, "not-a-uuid"); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("LoadSnapshot(bad id) error = %v, want %s", err, errors.ErrCodeInvalidInput)
	}
	if _, err := st.LoadSnapshot(ctx, "6f1c2a7e-3b52-4a8e-9c1d-2e4f5a6b7c8d"); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("LoadSnapshot(unknown) error = %v, want %s", err, errors.ErrCodeNotFound)
	}
}

func TestOpenErrors(t *testing.T) {
	if _, err := Open(Options{Backend: "mongo", Path: "x"}); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("Open(mongo) error = %v, want %s", err, errors.ErrCodeInvalidInput)
	}
	if _, err := Open(Options{Backend: BackendFile}); !errors.Is(err, errors.ErrCodeInvalidPath) {
		t.Errorf("Open(no path) error = %v, want %s", err, errors.ErrCodeInvalidPath)
	}
}

func TestFileStoreIsNotHistorian(t *testing.T) {
	var st Store = &FileStore{}
	if _, ok := st.(Historian); ok {
		t.Error("FileStore should not implement Historian")
	}
}
