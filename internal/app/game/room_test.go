package game

import (
	"fmt"
	"net"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mysterynum/internal/pkg/errs"
)

func newTestRoom(maxPlayers int) *Room {
	return NewRoom(1, "Test", "tester", maxPlayers, nil)
}

func (r *Room) setSecret(target int) {
	r.mu.Lock()
	r.secret = target
	r.mu.Unlock()
}

func TestGuessClassificationExhaustive(t *testing.T) {
	room := newTestRoom(2)
	player := &Player{Name: "Alice"}
	require.Nil(t, room.Join(player))

	for target := 1; target <= 100; target++ {
		for guess := 1; guess <= 100; guess++ {
			room.setSecret(target)

			outcome, err := room.Guess(player, fmt.Sprintf("%d", guess))
			require.Nil(t, err, "guess %d target %d", guess, target)

			switch {
			case guess == target:
				assert.Equal(t, OutcomeWin, outcome.Kind, "guess %d target %d", guess, target)
				assert.Equal(t, target, outcome.Target)
			case guess < target:
				assert.Equal(t, OutcomeTooLow, outcome.Kind, "guess %d target %d", guess, target)
			default:
				assert.Equal(t, OutcomeTooHigh, outcome.Kind, "guess %d target %d", guess, target)
			}
		}
	}
}

func TestGuessRejectsNonNumeric(t *testing.T) {
	room := newTestRoom(2)
	player := &Player{Name: "Alice"}
	require.Nil(t, room.Join(player))

	_, err := room.Guess(player, "not-a-number")
	require.NotNil(t, err)
	assert.Equal(t, errs.ErrGuessNotANumber, err.Code)

	// a rejected guess must not consume an attempt
	room.setSecret(42)
	outcome, gerr := room.Guess(player, "42")
	require.Nil(t, gerr)
	assert.Equal(t, 1, outcome.Attempts)
}

func TestGuessRejectsOutOfRange(t *testing.T) {
	room := newTestRoom(2)
	player := &Player{Name: "Alice"}
	require.Nil(t, room.Join(player))

	for _, bad := range []string{"0", "101", "-5", "1000"} {
		_, err := room.Guess(player, bad)
		require.NotNil(t, err, "guess %q", bad)
		assert.Equal(t, errs.ErrGuessOutOfRange, err.Code, "guess %q", bad)
	}

	room.setSecret(7)
	outcome, gerr := room.Guess(player, "7")
	require.Nil(t, gerr)
	assert.Equal(t, 1, outcome.Attempts, "rejected guesses must not count as attempts")
}

func TestWinPointsFormula(t *testing.T) {
	cases := []struct {
		wrongGuesses int
		wantPoints   int
	}{
		{wrongGuesses: 0, wantPoints: 10},
		{wrongGuesses: 1, wantPoints: 8},
		{wrongGuesses: 4, wantPoints: 5},
		{wrongGuesses: 8, wantPoints: 1},
		{wrongGuesses: 14, wantPoints: 1},
	}

	for _, tc := range cases {
		room := newTestRoom(2)
		player := &Player{Name: "Alice"}
		require.Nil(t, room.Join(player))
		room.setSecret(50)

		for i := 0; i < tc.wrongGuesses; i++ {
			_, err := room.Guess(player, "1")
			require.Nil(t, err)
		}

		outcome, err := room.Guess(player, "50")
		require.Nil(t, err)
		require.Equal(t, OutcomeWin, outcome.Kind)
		assert.Equal(t, tc.wrongGuesses+1, outcome.Attempts)
		assert.Equal(t, tc.wantPoints, outcome.Points, "after %d wrong guesses", tc.wrongGuesses)
		assert.Equal(t, tc.wantPoints, player.Score)
	}
}

func TestRoundRollover(t *testing.T) {
	room := newTestRoom(3)
	alice := &Player{Name: "Alice"}
	bob := &Player{Name: "Bob"}
	require.Nil(t, room.Join(alice))
	require.Nil(t, room.Join(bob))

	room.setSecret(30)
	_, err := room.Guess(bob, "10")
	require.Nil(t, err)

	before := room.Round()
	outcome, err := room.Guess(alice, "30")
	require.Nil(t, err)
	require.Equal(t, OutcomeWin, outcome.Kind)

	assert.Equal(t, before+1, room.Round(), "round counter advances by exactly one")
	assert.Equal(t, before+1, outcome.Round)

	room.mu.Lock()
	assert.Empty(t, room.attempts, "attempt counters are cleared on rollover")
	inRange := room.secret >= 1 && room.secret <= 100
	room.mu.Unlock()
	assert.True(t, inRange, "new target stays in range")
}

func TestConcurrentWinsCloseRoundOnce(t *testing.T) {
	room := newTestRoom(5)
	players := make([]*Player, 4)
	for i := range players {
		players[i] = &Player{Name: fmt.Sprintf("P%d", i)}
		require.Nil(t, room.Join(players[i]))
	}

	room.setSecret(60)
	startRound := room.Round()

	var wg sync.WaitGroup
	wins := make(chan Outcome, len(players))
	for _, p := range players {
		wg.Add(1)
		go func(p *Player) {
			defer wg.Done()
			outcome, err := room.Guess(p, "60")
			if err == nil && outcome.Kind == OutcomeWin {
				wins <- outcome
			}
		}(p)
	}
	wg.Wait()
	close(wins)

	winCount := 0
	for outcome := range wins {
		if outcome.Round == startRound+1 {
			winCount++
		}
	}
	assert.Equal(t, 1, winCount, "exactly one guess closes the round; the rest race against the new target")
}

func TestJoinRespectsCapacity(t *testing.T) {
	room := newTestRoom(2)
	require.Nil(t, room.Join(&Player{Name: "A"}))
	require.Nil(t, room.Join(&Player{Name: "B"}))

	err := room.Join(&Player{Name: "C"})
	require.NotNil(t, err)
	assert.Equal(t, errs.ErrRoomIsFull, err.Code)
	assert.Equal(t, 2, room.Occupancy(), "roster unchanged after rejected join")
}

func TestLeaveRemovesPlayer(t *testing.T) {
	room := newTestRoom(3)
	alice := &Player{Name: "Alice"}
	require.Nil(t, room.Join(alice))

	assert.True(t, room.Leave(alice))
	assert.Equal(t, 0, room.Occupancy())
	assert.False(t, room.Leave(alice), "second leave is a no-op")
}

func TestRankingStableDescending(t *testing.T) {
	room := newTestRoom(5)
	scores := map[string]int{"A": 3, "B": 7, "C": 7, "D": 1}
	for _, name := range []string{"A", "B", "C", "D"} {
		p := &Player{Name: name, Score: scores[name]}
		require.Nil(t, room.Join(p))
	}

	ranking := room.Ranking()

	posB := strings.Index(ranking, "B:")
	posC := strings.Index(ranking, "C:")
	posA := strings.Index(ranking, "A:")
	posD := strings.Index(ranking, "D:")
	require.True(t, posB >= 0 && posC >= 0 && posA >= 0 && posD >= 0, "ranking: %s", ranking)

	assert.Less(t, posB, posC, "B before C: tie preserves insertion order")
	assert.Less(t, posC, posA)
	assert.Less(t, posA, posD)

	assert.Contains(t, ranking, "[1st]")
	assert.Contains(t, ranking, "[2nd]")
	assert.Contains(t, ranking, "[3rd]")
}

func TestRankingEmptyRoom(t *testing.T) {
	room := newTestRoom(5)
	assert.Equal(t, "No players in the room", room.Ranking())
}

func TestBroadcastExcludesOnePlayer(t *testing.T) {
	room := newTestRoom(3)

	aliceServer, aliceClient := net.Pipe()
	bobServer, bobClient := net.Pipe()
	defer aliceServer.Close()
	defer aliceClient.Close()
	defer bobServer.Close()
	defer bobClient.Close()

	alice := &Player{Name: "Alice", Conn: aliceServer}
	bob := &Player{Name: "Bob", Conn: bobServer}
	require.Nil(t, room.Join(alice))
	require.Nil(t, room.Join(bob))

	got := make(chan string, 1)
	go func() {
		buf := make([]byte, 256)
		bobClient.SetReadDeadline(time.Now().Add(2 * time.Second))
		n, err := bobClient.Read(buf)
		if err != nil {
			got <- ""
			return
		}
		got <- string(buf[:n])
	}()

	room.Broadcast("hello room", alice)

	assert.Equal(t, "hello room", <-got)
}

func TestBroadcastSurvivesDeadPeer(t *testing.T) {
	room := newTestRoom(3)

	deadServer, deadClient := net.Pipe()
	deadClient.Close()
	deadServer.Close()

	liveServer, liveClient := net.Pipe()
	defer liveServer.Close()
	defer liveClient.Close()

	require.Nil(t, room.Join(&Player{Name: "Dead", Conn: deadServer}))
	live := &Player{Name: "Live", Conn: liveServer}
	require.Nil(t, room.Join(live))

	got := make(chan string, 1)
	go func() {
		buf := make([]byte, 256)
		liveClient.SetReadDeadline(time.Now().Add(2 * time.Second))
		n, err := liveClient.Read(buf)
		if err != nil {
			got <- ""
			return
		}
		got <- string(buf[:n])
	}()

	room.Broadcast("still here", nil)

	assert.Equal(t, "still here", <-got)
}
