package bookstore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/hailam/othello/internal/board"
	"github.com/hailam/othello/internal/book"
)

func tempBookDir(t *testing.T) string {
	t.Helper()
	tmpDir, err := os.MkdirTemp("", "othello-book-test-*")
	if err != nil {
		t.Fatalf("MkdirTemp: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tmpDir) })
	return filepath.Join(tmpDir, "book")
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	dir := tempBookDir(t)

	bk := book.New(7)
	bk.DrawMode = book.DrawBlackWins
	bk.GameMode = book.GamePrivate
	bk.SlackBlack = 3
	bk.SlackWhite = 5

	root := board.NewBoard()
	h, _ := root.CanonicalHash()
	bk.AppendNode(book.BookNode{
		H1:                  h.H1,
		H2:                  h.H2,
		ScoreBlack:          12,
		ScoreWhite:          12,
		BestAlternativeMove: board.NoMove,
		Flags:               book.BlackToMove,
		DisksPlayed:         4,
	})

	s, err := Open(dir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := s.Save(bk, 7); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	loaded, ok, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !ok {
		t.Fatal("expected a saved book to be found")
	}
	if loaded.Size() != bk.Size() {
		t.Fatalf("expected %d nodes, got %d", bk.Size(), loaded.Size())
	}
	if loaded.DrawMode != book.DrawBlackWins {
		t.Fatalf("expected DrawMode to round-trip, got %v", loaded.DrawMode)
	}
	if loaded.GameMode != book.GamePrivate {
		t.Fatalf("expected GameMode to round-trip, got %v", loaded.GameMode)
	}
	if loaded.SlackBlack != 3 || loaded.SlackWhite != 5 {
		t.Fatalf("expected slack to round-trip, got black=%d white=%d", loaded.SlackBlack, loaded.SlackWhite)
	}

	idx, _, ok := loaded.Lookup(root)
	if !ok {
		t.Fatal("expected root position to be present after load")
	}
	node := loaded.Node(idx)
	if node.ScoreBlack != 12 {
		t.Fatalf("expected ScoreBlack 12, got %d", node.ScoreBlack)
	}
	if node.DisksPlayed != 4 {
		t.Fatalf("expected DisksPlayed 4, got %d", node.DisksPlayed)
	}
}

func TestLoadMissingStoreReturnsEmptyBook(t *testing.T) {
	dir := tempBookDir(t)

	bk, ok, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if ok {
		t.Fatal("expected ok=false for a store that was never saved")
	}
	if bk.Size() != 0 {
		t.Fatalf("expected an empty book, got %d nodes", bk.Size())
	}
}

func TestSaveOverwritesPreviousRecord(t *testing.T) {
	dir := tempBookDir(t)

	root := board.NewBoard()
	h, _ := root.CanonicalHash()

	bk := book.New(1)
	bk.AppendNode(book.BookNode{H1: h.H1, H2: h.H2, ScoreBlack: 1, Flags: book.BlackToMove})
	if s, err := Open(dir); err != nil {
		t.Fatalf("Open: %v", err)
	} else {
		if err := s.Save(bk, 1); err != nil {
			t.Fatalf("Save: %v", err)
		}
		s.Close()
	}

	bk2 := book.New(1)
	bk2.AppendNode(book.BookNode{H1: h.H1, H2: h.H2, ScoreBlack: 99, Flags: book.BlackToMove | book.WldSolved})
	if s, err := Open(dir); err != nil {
		t.Fatalf("reopen Open: %v", err)
	} else {
		if err := s.Save(bk2, 1); err != nil {
			t.Fatalf("second Save: %v", err)
		}
		s.Close()
	}

	loaded, ok, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !ok {
		t.Fatal("expected saved book to be found")
	}
	idx, _, ok := loaded.Lookup(root)
	if !ok {
		t.Fatal("expected root position to be present")
	}
	node := loaded.Node(idx)
	if node.ScoreBlack != 99 {
		t.Fatalf("expected overwritten ScoreBlack 99, got %d", node.ScoreBlack)
	}
	if node.Flags&book.WldSolved == 0 {
		t.Fatal("expected overwritten node to carry WldSolved flag")
	}
}
