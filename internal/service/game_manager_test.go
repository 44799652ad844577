package service

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/benbeisheim/xiangqi-backend/internal/model"
	"github.com/benbeisheim/xiangqi-backend/internal/testutil"
)

func newTestManager(t *testing.T) *GameManager {
	t.Helper()
	gm := NewGameManager(time.Minute, time.Hour)
	t.Cleanup(gm.Stop)
	return gm
}

func TestCreateAndJoin(t *testing.T) {
	gs := NewGameService(newTestManager(t))

	gameID, err := gs.CreateGame()
	if err != nil {
		t.Fatalf("CreateGame error: %v", err)
	}
	if team, err := gs.JoinGame(gameID, "alice"); err != nil || team != model.Red {
		t.Errorf("JoinGame(alice) = %v, %v; want red", team, err)
	}
	if team, err := gs.JoinGame(gameID, "bob"); err != nil || team != model.Black {
		t.Errorf("JoinGame(bob) = %v, %v; want black", team, err)
	}

	if _, err := gs.JoinGame("missing", "carol"); !errors.Is(err, ErrGameNotFound) {
		t.Errorf("JoinGame(missing) error = %v; want ErrGameNotFound", err)
	}
	if _, err := gs.GetGameState("missing"); !errors.Is(err, ErrGameNotFound) {
		t.Errorf("GetGameState(missing) error = %v; want ErrGameNotFound", err)
	}
}

func TestCreateGameTwice(t *testing.T) {
	gm := newTestManager(t)
	if err := gm.CreateGame("fixed"); err != nil {
		t.Fatalf("CreateGame error: %v", err)
	}
	testutil.AssertErrorIs(t, gm.CreateGame("fixed"), ErrGameExists)
}

func TestHandleMove(t *testing.T) {
	gm := newTestManager(t)
	gs := NewGameService(gm)
	gameID, _ := gs.CreateGame()
	gs.JoinGame(gameID, "alice")
	gs.JoinGame(gameID, "bob")

	if err := gs.HandleMove(gameID, "alice", model.MoveRequest{From: "c4", To: "c5"}); err != nil {
		t.Fatalf("HandleMove error: %v", err)
	}
	err := gs.HandleMove(gameID, "bob", model.MoveRequest{From: "c7", To: "c8"})
	testutil.AssertErrorIs(t, err, model.ErrIllegalMove)
	testutil.AssertErrorIs(t, gs.HandleMove("missing", "bob", model.MoveRequest{}), ErrGameNotFound)

	state, err := gs.GetGameState(gameID)
	if err != nil {
		t.Fatalf("GetGameState error: %v", err)
	}
	if state.ToMove != model.Black || len(state.MoveHistory) != 1 {
		t.Errorf("state = %+v; want black to move after one ply", state)
	}

	moves, err := gs.LegalMoves(gameID, "c7")
	if err != nil {
		t.Fatalf("LegalMoves error: %v", err)
	}
	testutil.AssertEqual(t, moves, []string{"c6"})

	if err := gs.Resign(gameID, "bob"); err != nil {
		t.Fatalf("Resign error: %v", err)
	}
	if state, _ := gs.GetGameState(gameID); state.Status != model.RedWon {
		t.Errorf("Status = %v; want RED_WON", state.Status)
	}
}

func TestMatchmaking(t *testing.T) {
	gm := newTestManager(t)

	channels := map[string]chan string{}
	for _, id := range []string{"alice", "bob"} {
		ch := make(chan string, 1)
		channels[id] = ch
		if err := gm.RegisterMatchmakingChannel(id, ch); err != nil {
			t.Fatalf("RegisterMatchmakingChannel(%s) error: %v", id, err)
		}
		if err := gm.JoinMatchmaking(id); err != nil {
			t.Fatalf("JoinMatchmaking(%s) error: %v", id, err)
		}
	}
	testutil.AssertErrorIs(t, gm.JoinMatchmaking("alice"), model.ErrAlreadyQueued)

	gm.matchQueued()

	events := map[string]model.MatchFoundEvent{}
	for id, ch := range channels {
		raw, ok := <-ch
		if !ok {
			t.Fatalf("channel for %s closed without an event", id)
		}
		var event model.MatchFoundEvent
		if err := json.Unmarshal([]byte(raw), &event); err != nil {
			t.Fatalf("unmarshal event: %v", err)
		}
		events[id] = event
		if _, open := <-ch; open {
			t.Errorf("channel for %s left open", id)
		}
	}

	if events["alice"].GameID == "" || events["alice"].GameID != events["bob"].GameID {
		t.Fatalf("players matched into different games: %+v", events)
	}
	if events["alice"].Team != model.Red || events["bob"].Team != model.Black {
		t.Errorf("teams = %s, %s; want red, black", events["alice"].Team, events["bob"].Team)
	}
	session, err := gm.GetGame(events["alice"].GameID)
	if err != nil {
		t.Fatalf("GetGame error: %v", err)
	}
	if !session.IsPlayerInGame("alice") || !session.IsPlayerInGame("bob") {
		t.Error("matched players are not seated")
	}
	if gm.QueueSize() != 0 {
		t.Errorf("QueueSize() = %d; want 0", gm.QueueSize())
	}
}

func TestMatchmakingLoop(t *testing.T) {
	gm := NewGameManager(time.Minute, 10*time.Millisecond)
	defer gm.Stop()

	ch := make(chan string, 1)
	gm.RegisterMatchmakingChannel("alice", ch)
	gm.JoinMatchmaking("alice")
	gm.JoinMatchmaking("bob")

	select {
	case raw := <-ch:
		if raw == "" {
			t.Error("empty match event")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("matchmaking loop never paired the players")
	}
}

func TestRegisterMatchmakingChannelReplacesOld(t *testing.T) {
	gm := newTestManager(t)
	old := make(chan string, 1)
	gm.RegisterMatchmakingChannel("alice", old)
	gm.RegisterMatchmakingChannel("alice", make(chan string, 1))

	if _, open := <-old; open {
		t.Error("replaced channel was not closed")
	}

	gm.UnregisterMatchmakingChannel("alice", old)
	gm.mu.RLock()
	_, stillRegistered := gm.matchingChannels["alice"]
	gm.mu.RUnlock()
	if !stillRegistered {
		t.Error("unregistering a stale channel removed the current one")
	}
}

func TestMatchmakingStatusWithoutChannel(t *testing.T) {
	gm := newTestManager(t)

	_, err := gm.MatchmakingStatus("alice")
	testutil.AssertErrorIs(t, err, ErrNotQueued)

	gs := NewGameService(gm)
	for _, id := range []string{"alice", "bob"} {
		if err := gs.JoinMatchmaking(id); err != nil {
			t.Fatalf("JoinMatchmaking(%s) error: %v", id, err)
		}
	}
	status, err := gs.MatchmakingStatus("alice")
	if err != nil {
		t.Fatalf("MatchmakingStatus error: %v", err)
	}
	testutil.AssertEqual(t, status, MatchmakingStatus{Status: MatchmakingQueued})

	gm.matchQueued()

	alice, err := gs.MatchmakingStatus("alice")
	if err != nil {
		t.Fatalf("MatchmakingStatus(alice) error: %v", err)
	}
	bob, err := gs.MatchmakingStatus("bob")
	if err != nil {
		t.Fatalf("MatchmakingStatus(bob) error: %v", err)
	}
	if alice.Status != MatchmakingMatched || alice.GameID == "" || alice.GameID != bob.GameID {
		t.Fatalf("statuses = %+v, %+v; want both matched into one game", alice, bob)
	}
	testutil.AssertEqual(t, []model.Team{alice.Team, bob.Team}, []model.Team{model.Red, model.Black})

	session, err := gm.GetGame(alice.GameID)
	if err != nil {
		t.Fatalf("GetGame error: %v", err)
	}
	if !session.IsPlayerInGame("alice") {
		t.Error("matched player is not seated in the reported game")
	}

	// queueing again replaces the old match
	gs.JoinMatchmaking("alice")
	status, _ = gs.MatchmakingStatus("alice")
	testutil.AssertEqual(t, status, MatchmakingStatus{Status: MatchmakingQueued})
}
