// FinBoard - Widget Data Pipeline for JSON Dashboards
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/finboard

package layout

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dgraph-io/badger/v4"

	"github.com/tomtom215/finboard/internal/models"
)

func sampleWidgets() []models.Widget {
	return []models.Widget{
		{
			ID:   "w1",
			Type: models.WidgetTypeCard,
			Config: models.WidgetSourceConfig{
				RestURL:             "https://api.coingecko.com/api/v3/coins/bitcoin",
				PollIntervalSeconds: 30,
				Fields:              []models.FieldSpec{{ID: "f1", Label: "Price", Path: "market_data.current_price.usd"}},
			},
		},
		{ID: "w2", Type: models.WidgetTypeChart},
	}
}

func TestDecode_RejectsNonArrays(t *testing.T) {
	t.Parallel()

	for _, in := range []string{`{"id":"w1"}`, `"hello"`, `42`, ``, `null`, `[1,`} {
		if _, err := Decode([]byte(in)); !errors.Is(err, ErrNotArray) {
			t.Errorf("Decode(%q) error = %v, want ErrNotArray", in, err)
		}
	}
}

func TestDecode_SkipsBadEntries(t *testing.T) {
	t.Parallel()

	got, err := Decode([]byte(` [{"id":"a","type":"card","config":{"fields":[]}}, 7, {"id":1}, {"id":"b","type":"table"}] `))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if len(got) != 2 || got[0].ID != "a" || got[1].ID != "b" {
		t.Errorf("Decode() = %+v, want widgets a and b", got)
	}

	empty, err := Decode([]byte(`[]`))
	if err != nil || len(empty) != 0 {
		t.Errorf("Decode([]) = %v, %v", empty, err)
	}
}

func TestExport_IndentedRoundTrip(t *testing.T) {
	t.Parallel()

	data, err := Export(sampleWidgets())
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "[\n  {\n    \"id\": \"w1\"") {
		t.Errorf("export not indented with two spaces:\n%s", data)
	}

	back, err := Decode(data)
	if err != nil {
		t.Fatal(err)
	}
	if len(back) != 2 || back[0].Config.Fields[0].Path != "market_data.current_price.usd" {
		t.Errorf("round trip = %+v", back)
	}

	none, _ := Export(nil)
	if string(none) != "[]" {
		t.Errorf("Export(nil) = %s, want []", none)
	}
}

// storeContract exercises the behavior every backend must share.
func storeContract(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	data, err := s.Load(ctx)
	if err != nil || data != nil {
		t.Fatalf("Load() on empty store = %q, %v; want nil, nil", data, err)
	}

	enc, err := Encode(sampleWidgets())
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Save(ctx, enc); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if err := s.Save(ctx, []byte(`[]`)); err != nil {
		t.Fatalf("second Save() error = %v", err)
	}

	data, err = s.Load(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "[]" {
		t.Errorf("Load() = %s, want last saved []", data)
	}
}

func TestFileStore(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", "layout.json")
	s, err := NewFileStore(path)
	if err != nil {
		t.Fatal(err)
	}
	storeContract(t, s)

	if s.Backend() != BackendFile {
		t.Errorf("Backend() = %q", s.Backend())
	}

	matches, _ := filepath.Glob(filepath.Join(filepath.Dir(path), ".layout-*.tmp"))
	if len(matches) != 0 {
		t.Errorf("temporary files left behind: %v", matches)
	}
}

func TestBadgerStore(t *testing.T) {
	t.Parallel()

	opts := badger.DefaultOptions("").WithInMemory(true).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		t.Fatalf("open badger: %v", err)
	}
	s := NewBadgerStoreFromDB(db)
	defer s.Close()

	storeContract(t, s)
}

func TestBadgerStore_PersistsAcrossOpen(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	s, err := NewBadgerStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Save(context.Background(), []byte(`[{"id":"x"}]`)); err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}

	s, err = NewBadgerStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	data, err := s.Load(context.Background())
	if err != nil || string(data) != `[{"id":"x"}]` {
		t.Errorf("Load() after reopen = %s, %v", data, err)
	}
}

func TestMemoryStore(t *testing.T) {
	t.Parallel()
	storeContract(t, NewMemoryStore())
}

func TestOpen(t *testing.T) {
	t.Parallel()

	s, err := Open(BackendMemory, "")
	if err != nil || s.Backend() != BackendMemory {
		t.Errorf("Open(memory) = %v, %v", s, err)
	}

	s, err = Open("", filepath.Join(t.TempDir(), "l.json"))
	if err != nil || s.Backend() != BackendFile {
		t.Errorf("Open(\"\") = %v, %v; want file store", s, err)
	}

	if _, err := Open("redis", ""); err == nil {
		t.Error("Open(redis) should fail")
	}
}
