// service/game_manager.go
package service

import (
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/benbeisheim/xiangqi-backend/internal/model"
	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
)

var (
	ErrGameNotFound = errors.New("game not found")
	ErrGameExists   = errors.New("game already exists")
	ErrNotQueued    = errors.New("player not in matchmaking")
)

const (
	MatchmakingQueued  = "queued"
	MatchmakingMatched = "matched"
)

// MatchmakingStatus tells a player whether they are still waiting or
// where they were seated.
type MatchmakingStatus struct {
	Status string     `json:"status"`
	GameID string     `json:"gameId,omitempty"`
	Team   model.Team `json:"team,omitempty"`
}

type GameManager struct {
	games            map[string]*model.Session
	queue            *model.Queue
	matchingChannels map[string]chan string
	matches          map[string]model.MatchFoundEvent
	clockTime        time.Duration
	mu               sync.RWMutex
	stop             chan struct{}
	stopOnce         sync.Once
}

// NewGameManager starts the matchmaking loop, which pairs queued players
// every matchInterval until Stop is called.
func NewGameManager(clockTime, matchInterval time.Duration) *GameManager {
	gm := &GameManager{
		games:            make(map[string]*model.Session),
		queue:            model.NewQueue(),
		matchingChannels: make(map[string]chan string),
		matches:          make(map[string]model.MatchFoundEvent),
		clockTime:        clockTime,
		stop:             make(chan struct{}),
	}

	go gm.processMatchmaking(matchInterval)

	return gm
}

func (gm *GameManager) Stop() {
	gm.stopOnce.Do(func() { close(gm.stop) })
}

// RegisterMatchmakingChannel sets the channel a queued player is told
// about its match on. A previous channel for the same player is closed.
func (gm *GameManager) RegisterMatchmakingChannel(playerID string, ch chan string) error {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	if existingCh, exists := gm.matchingChannels[playerID]; exists {
		delete(gm.matchingChannels, playerID)
		close(existingCh)
	}
	gm.matchingChannels[playerID] = ch
	return nil
}

// UnregisterMatchmakingChannel forgets the channel without closing it;
// closing is up to its creator.
func (gm *GameManager) UnregisterMatchmakingChannel(playerID string, ch chan string) {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	if current, ok := gm.matchingChannels[playerID]; ok && current == ch {
		delete(gm.matchingChannels, playerID)
	}
}

func (gm *GameManager) processMatchmaking(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-gm.stop:
			return
		case <-ticker.C:
			gm.matchQueued()
		}
	}
}

// matchQueued pairs every two queued players into a new game.
func (gm *GameManager) matchQueued() {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	for {
		player1, player2, ok := gm.queue.NextPair()
		if !ok {
			return
		}

		gameID := uuid.New().String()
		session := model.NewSession(gameID, gm.clockTime)
		team1, err := session.AddPlayer(player1.ID)
		if err != nil {
			log.Errorf("matchmaking: seat %s: %v", player1.ID, err)
			continue
		}
		team2, err := session.AddPlayer(player2.ID)
		if err != nil {
			log.Errorf("matchmaking: seat %s: %v", player2.ID, err)
			continue
		}
		gm.games[gameID] = session
		log.Infof("matchmaking: %s (%s) vs %s (%s) in game %s", player1.ID, team1, player2.ID, team2, gameID)

		gm.matches[player1.ID] = model.MatchFoundEvent{GameID: gameID, Team: team1}
		gm.matches[player2.ID] = model.MatchFoundEvent{GameID: gameID, Team: team2}
		gm.notifyMatch(player1.ID, gm.matches[player1.ID])
		gm.notifyMatch(player2.ID, gm.matches[player2.ID])
	}
}

// notifyMatch sends the event and retires the player's channel. Players
// without a channel find the match through MatchmakingStatus. Callers
// hold gm.mu.
func (gm *GameManager) notifyMatch(playerID string, event model.MatchFoundEvent) bool {
	ch, ok := gm.matchingChannels[playerID]
	if !ok {
		log.Debugf("matchmaking: no channel for player %s", playerID)
		return false
	}
	select {
	case ch <- mustJSON(event):
		delete(gm.matchingChannels, playerID)
		close(ch)
		return true
	default:
		log.Warnf("matchmaking: player %s not listening", playerID)
		return false
	}
}

func mustJSON(v interface{}) string {
	bytes, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return string(bytes)
}

func (gm *GameManager) CreateGame(gameID string) error {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	if _, exists := gm.games[gameID]; exists {
		return ErrGameExists
	}

	gm.games[gameID] = model.NewSession(gameID, gm.clockTime)
	return nil
}

func (gm *GameManager) GetGame(gameID string) (*model.Session, error) {
	gm.mu.RLock()
	defer gm.mu.RUnlock()

	session, exists := gm.games[gameID]
	if !exists {
		return nil, ErrGameNotFound
	}
	return session, nil
}

func (gm *GameManager) AddPlayerToGame(gameID string, playerID string) (model.Team, error) {
	session, err := gm.GetGame(gameID)
	if err != nil {
		return "", err
	}
	return session.AddPlayer(playerID)
}

// JoinMatchmaking queues the player and forgets any earlier match.
func (gm *GameManager) JoinMatchmaking(playerID string) error {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	if err := gm.queue.AddPlayer(model.Player{ID: playerID}); err != nil {
		return err
	}
	delete(gm.matches, playerID)
	return nil
}

func (gm *GameManager) MatchmakingStatus(playerID string) (MatchmakingStatus, error) {
	gm.mu.RLock()
	defer gm.mu.RUnlock()

	if gm.queue.Contains(playerID) {
		return MatchmakingStatus{Status: MatchmakingQueued}, nil
	}
	if event, ok := gm.matches[playerID]; ok {
		return MatchmakingStatus{Status: MatchmakingMatched, GameID: event.GameID, Team: event.Team}, nil
	}
	return MatchmakingStatus{}, ErrNotQueued
}

func (gm *GameManager) LeaveMatchmaking(playerID string) {
	gm.queue.Remove(playerID)
}

func (gm *GameManager) QueueSize() int {
	return gm.queue.Size()
}

func (gm *GameManager) GetGameState(gameID string) (model.SessionState, error) {
	session, err := gm.GetGame(gameID)
	if err != nil {
		return model.SessionState{}, err
	}
	return session.State(), nil
}

func (gm *GameManager) MakeMove(gameID string, playerID string, move model.MoveRequest) error {
	session, err := gm.GetGame(gameID)
	if err != nil {
		return err
	}
	return session.MakeMove(playerID, move)
}

func (gm *GameManager) Resign(gameID string, playerID string) error {
	session, err := gm.GetGame(gameID)
	if err != nil {
		return err
	}
	return session.Resign(playerID)
}

func (gm *GameManager) LegalMoves(gameID string, square string) ([]string, error) {
	session, err := gm.GetGame(gameID)
	if err != nil {
		return nil, err
	}
	return session.LegalMoves(square)
}

func (gm *GameManager) RegisterConnection(gameID string, playerID string, conn model.Conn) error {
	session, err := gm.GetGame(gameID)
	if err != nil {
		return err
	}
	return session.RegisterConnection(playerID, conn)
}

func (gm *GameManager) UnregisterConnection(gameID string, playerID string, conn model.Conn) {
	session, err := gm.GetGame(gameID)
	if err != nil {
		return
	}
	session.UnregisterConnection(playerID, conn)
}
