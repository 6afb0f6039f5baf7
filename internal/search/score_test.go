//go:build unit

package search

import (
	"testing"
)

func TestScore_TitleTiers(t *testing.T) {
	cases := []struct {
		name  string
		query string
		title string
		want  int
	}{
		{"exact", "raft", "raft", 100},
		{"exact is case insensitive", "raft", "Raft", 100},
		{"prefix", "raft", "raft consensus", 50},
		{"whole word", "raft", "the raft protocol", 30},
		{"substring", "raft", "aircraft design", 10},
		{"no match", "raft", "paxos", 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Score(tc.query, tc.title, "")
			if got != tc.want {
				t.Errorf("Score(%q, %q) = %d, want %d", tc.query, tc.title, got, tc.want)
			}
		})
	}
}

func TestScore_SubtitleTiers(t *testing.T) {
	cases := []struct {
		name     string
		query    string
		subtitle string
		want     int
	}{
		{"exact", "raft", "raft", 20},
		{"prefix", "raft", "raft in practice", 10},
		{"whole word", "raft", "understanding raft internals", 5},
		{"substring", "raft", "on aircraft", 2},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Score(tc.query, "", tc.subtitle)
			if got != tc.want {
				t.Errorf("Score(%q, subtitle %q) = %d, want %d", tc.query, tc.subtitle, got, tc.want)
			}
		})
	}
}

func TestScore_FieldsAreAdditive(t *testing.T) {
	// Substring in the title plus exact subtitle: 10 + 20.
	got := Score("raft", "aircraft design", "raft")
	if got != 30 {
		t.Errorf("Score = %d, want 30", got)
	}
}

func TestScore_OneTierPerField(t *testing.T) {
	// A title that is an exact match is also a prefix, a word and a
	// substring; only the exact tier counts.
	got := Score("raft", "raft", "")
	if got != 100 {
		t.Errorf("Score = %d, want 100", got)
	}
}

func TestRank_OrdersByScoreDescending(t *testing.T) {
	docs := []Document{
		{ID: 1, Title: "aircraft design"},       // substring: 10
		{ID: 2, Title: "raft"},                  // exact: 100
		{ID: 3, Title: "the raft protocol"},     // word: 30
		{ID: 4, Title: "raft consensus"},        // prefix: 50
		{ID: 5, Title: "paxos"},                 // no match, dropped
		{ID: 6, Title: "x", Subtitle: "raft"},   // subtitle exact: 20
	}
	ranked := Rank(docs, "raft", 0)
	wantOrder := []int64{2, 4, 3, 6, 1}
	if len(ranked) != len(wantOrder) {
		t.Fatalf("Rank returned %d docs, want %d", len(ranked), len(wantOrder))
	}
	for i, want := range wantOrder {
		if ranked[i].ID != want {
			t.Errorf("ranked[%d].ID = %d, want %d", i, ranked[i].ID, want)
		}
	}
}

func TestRank_TiesKeepInputOrder(t *testing.T) {
	// All three titles match on the whole-word tier, so they score 30
	// each and must come back in input order.
	docs := []Document{
		{ID: 7, Title: "a raft walkthrough"},
		{ID: 3, Title: "another raft guide"},
		{ID: 5, Title: "my raft notes"},
	}
	ranked := Rank(docs, "raft", 0)
	wantOrder := []int64{7, 3, 5}
	if len(ranked) != len(wantOrder) {
		t.Fatalf("Rank returned %d docs, want %d", len(ranked), len(wantOrder))
	}
	for i, want := range wantOrder {
		if ranked[i].ID != want {
			t.Errorf("ranked[%d].ID = %d, want %d", i, ranked[i].ID, want)
		}
	}
}

func TestRank_AppliesLimit(t *testing.T) {
	docs := make([]Document, 10)
	for i := range docs {
		docs[i] = Document{ID: int64(i + 1), Title: "raft"}
	}
	ranked := Rank(docs, "raft", 4)
	if len(ranked) != 4 {
		t.Errorf("Rank returned %d docs, want 4", len(ranked))
	}
}

func TestRank_EmptyQueryRanksNothing(t *testing.T) {
	docs := []Document{{ID: 1, Title: "raft"}}
	for _, query := range []string{"", "   ", "\t\n"} {
		if got := Rank(docs, query, 0); len(got) != 0 {
			t.Errorf("Rank(%q) returned %d docs, want 0", query, len(got))
		}
	}
}

func TestRank_TrimsAndLowercasesQuery(t *testing.T) {
	docs := []Document{{ID: 1, Title: "Raft"}}
	ranked := Rank(docs, "  RAFT  ", 0)
	if len(ranked) != 1 || ranked[0].ID != 1 {
		t.Errorf("expected the exact match to survive query normalization, got %v", ranked)
	}
}
