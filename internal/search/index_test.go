//go:build unit

package search

import (
	"testing"
)

func newTestIndex(t *testing.T) *Index {
	t.Helper()
	idx, err := NewMemoryIndex()
	if err != nil {
		t.Fatalf("failed to create in-memory index: %v", err)
	}
	t.Cleanup(func() { idx.Close() })
	return idx
}

func TestIndex_SearchMatchesTitleAndSubtitle(t *testing.T) {
	idx := newTestIndex(t)

	if err := idx.IndexPage(1, "raft consensus", "", 1); err != nil {
		t.Fatalf("IndexPage failed: %v", err)
	}
	if err := idx.IndexPage(2, "paxos", "compared with raft", 1); err != nil {
		t.Fatalf("IndexPage failed: %v", err)
	}
	if err := idx.IndexPage(3, "gossip", "membership protocols", 1); err != nil {
		t.Fatalf("IndexPage failed: %v", err)
	}

	ids, err := idx.Search("raft", 1, 10)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(ids) != 2 {
		t.Fatalf("Search returned %d ids, want 2: %v", len(ids), ids)
	}
	found := map[int64]bool{}
	for _, id := range ids {
		found[id] = true
	}
	if !found[1] || !found[2] {
		t.Errorf("Search = %v, want ids 1 and 2", ids)
	}
}

func TestIndex_SearchIsCategoryScoped(t *testing.T) {
	idx := newTestIndex(t)

	if err := idx.IndexPage(1, "raft consensus", "", 1); err != nil {
		t.Fatalf("IndexPage failed: %v", err)
	}
	if err := idx.IndexPage(2, "raft walkthrough", "", 2); err != nil {
		t.Fatalf("IndexPage failed: %v", err)
	}

	ids, err := idx.Search("raft", 2, 10)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(ids) != 1 || ids[0] != 2 {
		t.Errorf("Search = %v, want [2]", ids)
	}
}

func TestIndex_SearchHonorsLimit(t *testing.T) {
	idx := newTestIndex(t)

	for i := int64(1); i <= 6; i++ {
		if err := idx.IndexPage(i, "raft notes", "", 1); err != nil {
			t.Fatalf("IndexPage failed: %v", err)
		}
	}

	ids, err := idx.Search("raft", 1, 4)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(ids) != 4 {
		t.Errorf("Search returned %d ids, want 4", len(ids))
	}
}

func TestIndex_DeletePageRemovesFromResults(t *testing.T) {
	idx := newTestIndex(t)

	if err := idx.IndexPage(1, "raft consensus", "", 1); err != nil {
		t.Fatalf("IndexPage failed: %v", err)
	}
	if err := idx.DeletePage(1); err != nil {
		t.Fatalf("DeletePage failed: %v", err)
	}

	ids, err := idx.Search("raft", 1, 10)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(ids) != 0 {
		t.Errorf("Search = %v, want no hits after delete", ids)
	}
}
