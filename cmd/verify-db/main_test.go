package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestExtractVersion(t *testing.T) {
	tests := []struct {
		filename string
		want     string
		wantErr  bool
	}{
		{"001_init.sql", "001", false},
		{"012_add_payment_notes.sql", "012", false},
		{"init.sql", "", true},
		{"_orders.sql", "", true},
	}
	for _, tt := range tests {
		got, err := extractVersion(tt.filename)
		if tt.wantErr {
			if err == nil {
				t.Errorf("extractVersion(%q): expected error, got %q", tt.filename, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("extractVersion(%q): %v", tt.filename, err)
			continue
		}
		if got != tt.want {
			t.Errorf("extractVersion(%q) = %q, want %q", tt.filename, got, tt.want)
		}
	}
}

func TestDiscoverMigrations(t *testing.T) {
	writeFile := func(t *testing.T, dir, name, body string) {
		t.Helper()
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	t.Run("sorted and filtered", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "002_seed.sql", "INSERT 1;")
		writeFile(t, dir, "001_init.sql", "CREATE TABLE t ();")
		writeFile(t, dir, "README.md", "not a migration")
		if err := os.Mkdir(filepath.Join(dir, "010_nested.sql"), 0o755); err != nil {
			t.Fatal(err)
		}

		got, err := discoverMigrations(dir)
		if err != nil {
			t.Fatalf("discoverMigrations: %v", err)
		}
		want := []string{"001_init.sql", "002_seed.sql"}
		if len(got) != len(want) {
			t.Fatalf("got %v, want %v", got, want)
		}
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("file %d = %q, want %q", i, got[i], want[i])
			}
		}
	})

	t.Run("duplicate version rejected", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "001_init.sql", "CREATE TABLE t ();")
		writeFile(t, dir, "001_again.sql", "CREATE TABLE u ();")

		if _, err := discoverMigrations(dir); err == nil {
			t.Fatal("expected duplicate version error, got nil")
		}
	})

	t.Run("missing directory", func(t *testing.T) {
		if _, err := discoverMigrations(filepath.Join(t.TempDir(), "nope")); err == nil {
			t.Fatal("expected error for missing directory, got nil")
		}
	})
}

func TestChecksumFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "001_init.sql")
	if err := os.WriteFile(path, []byte("CREATE TABLE t ();"), 0o644); err != nil {
		t.Fatal(err)
	}

	first, err := checksumFile(path)
	if err != nil {
		t.Fatalf("checksumFile: %v", err)
	}
	second, err := checksumFile(path)
	if err != nil {
		t.Fatalf("checksumFile: %v", err)
	}
	if first != second {
		t.Errorf("checksum not stable: %s vs %s", first, second)
	}

	if err := os.WriteFile(path, []byte("CREATE TABLE t (id INT);"), 0o644); err != nil {
		t.Fatal(err)
	}
	changed, err := checksumFile(path)
	if err != nil {
		t.Fatalf("checksumFile: %v", err)
	}
	if changed == first {
		t.Error("checksum unchanged after edit")
	}
}
