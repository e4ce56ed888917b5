package main

import (
	"fmt"
	"testing"
)

func TestLeaderboardSortedAndTruncated(t *testing.T) {
	for _, n := range []int{0, 1, 9, 10, 11, 25} {
		players := make([]Player, n)
		for i := range players {
			players[i] = Player{ID: fmt.Sprintf("p%d", i), Score: (i * 7) % 13, seq: uint64(i)}
		}
		board := Leaderboard(players)

		want := n
		if want > LeaderboardSize {
			want = LeaderboardSize
		}
		if len(board) != want {
			t.Errorf("n=%d: expected length %d, got %d", n, want, len(board))
		}
		for i := 1; i < len(board); i++ {
			if board[i-1].Score < board[i].Score {
				t.Errorf("n=%d: not sorted at %d: %d < %d", n, i, board[i-1].Score, board[i].Score)
			}
		}
	}
}

func TestLeaderboardTiesKeepJoinOrder(t *testing.T) {
	w := NewWorld(newRand(1, 2))
	for _, id := range []string{"first", "second", "third"} {
		w.Register(id)
	}
	w.mu.Lock()
	w.players["third"].Score = 2
	w.players["first"].Score = 1
	w.players["second"].Score = 1
	w.mu.Unlock()

	board := Leaderboard(w.SnapshotPlayers())
	got := []string{board[0].ID, board[1].ID, board[2].ID}
	want := []string{"third", "first", "second"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestLeaderboardDoesNotMutateInput(t *testing.T) {
	players := []Player{{ID: "a", Score: 1}, {ID: "b", Score: 5}}
	Leaderboard(players)
	if players[0].ID != "a" {
		t.Error("input slice should keep its order")
	}
}
