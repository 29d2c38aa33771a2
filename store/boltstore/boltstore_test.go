package boltstore

import (
	"path/filepath"
	"testing"
)

func TestStoreSaveLoadDelete(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(filepath.Join(dir, "shared.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer s.Close()

	if got, err := s.Load("example.com/movie.swf", "highscores"); err != nil || got != nil {
		t.Fatalf("Load on empty store = (%v, %v), want (nil, nil)", got, err)
	}

	if err := s.Save("example.com/movie.swf", "highscores", []byte("42")); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := s.Load("example.com/movie.swf", "highscores")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if string(got) != "42" {
		t.Fatalf("Load = %q, want %q", got, "42")
	}

	if err := s.Delete("example.com/movie.swf", "highscores"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if got, _ := s.Load("example.com/movie.swf", "highscores"); got != nil {
		t.Fatalf("Load after Delete = %v, want nil", got)
	}
}

func TestStoreOriginIsolation(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(filepath.Join(dir, "shared.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer s.Close()

	s.Save("a.com/x.swf", "k", []byte("a"))
	s.Save("b.com/y.swf", "k", []byte("b"))

	va, _ := s.Load("a.com/x.swf", "k")
	vb, _ := s.Load("b.com/y.swf", "k")
	if string(va) != "a" || string(vb) != "b" {
		t.Fatalf("values crossed origins: a=%q b=%q", va, vb)
	}
}

func TestStoreDeleteMissingIsNoop(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(filepath.Join(dir, "shared.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer s.Close()

	if err := s.Delete("nowhere.com", "nothing"); err != nil {
		t.Fatalf("Delete on missing bucket: %v", err)
	}
}
