package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/benbeisheim/xiangqi-backend/internal/ws"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/websocket/v2"
)

var (
	ErrGameFull     = errors.New("game is full")
	ErrNotInGame    = errors.New("player not in game")
	ErrNotYourTurn  = errors.New("not your turn")
	ErrUnauthorized = errors.New("not authorized to join this game")
)

// Session is one hosted game: the rules engine plus the players, clocks
// and connections around it. All methods are safe for concurrent use.
type Session struct {
	ID          string
	mu          sync.Mutex
	game        *Game
	players     Players
	history     []Ply
	lastMove    *SimpleMove
	connections *GameConnections
	clocks      map[Team]*Clock
	// version counts state changes so connections never go back to an
	// older state.
	version int
}

type Players struct {
	Red   ClientPlayer `json:"red"`
	Black ClientPlayer `json:"black"`
}

// SessionState is the JSON view of a session sent to clients.
type SessionState struct {
	ID           string      `json:"id"`
	Board        Snapshot    `json:"board"`
	ToMove       Team        `json:"toMove"`
	Status       Status      `json:"status"`
	RedInCheck   bool        `json:"redInCheck"`
	BlackInCheck bool        `json:"blackInCheck"`
	MoveHistory  []Ply       `json:"moveHistory"`
	Players      Players     `json:"players"`
	LastMove     *SimpleMove `json:"lastMove"`
}

func NewSession(id string, clockTime time.Duration) *Session {
	return newSession(id, NewGame(), clockTime)
}

func newSession(id string, game *Game, clockTime time.Duration) *Session {
	return &Session{
		ID:          id,
		game:        game,
		history:     make([]Ply, 0),
		connections: NewGameConnections(),
		clocks: map[Team]*Clock{
			Red:   NewClock(clockTime),
			Black: NewClock(clockTime),
		},
	}
}

// AddPlayer seats playerID, red first. A player already seated gets the
// same seat back.
func (s *Session) AddPlayer(playerID string) (Team, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if team := s.teamOf(playerID); team != "" {
		return team, nil
	}
	if s.players.Red.ID == "" {
		s.players.Red = ClientPlayer{ID: playerID, Team: Red}
		return Red, nil
	}
	if s.players.Black.ID == "" {
		s.players.Black = ClientPlayer{ID: playerID, Team: Black}
		if len(s.history) == 0 && s.game.Status() == Unfinished {
			s.clocks[s.game.CurrentTeam()].Start()
		}
		return Black, nil
	}
	return "", ErrGameFull
}

func (s *Session) teamOf(playerID string) Team {
	switch {
	case playerID == "":
		return ""
	case s.players.Red.ID == playerID:
		return Red
	case s.players.Black.ID == playerID:
		return Black
	}
	return ""
}

func (s *Session) IsPlayerInGame(playerID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.teamOf(playerID) != ""
}

func (s *Session) canSpectate() bool {
	return s.players.Red.ID == "" || s.players.Black.ID == ""
}

// MakeMove plays req for playerID, who must hold the seat of the team to
// move.
func (s *Session) MakeMove(playerID string, req MoveRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	team := s.teamOf(playerID)
	if team == "" {
		return ErrNotInGame
	}
	if team != s.game.CurrentTeam() {
		return ErrNotYourTurn
	}

	result, err := s.game.TryMove(req.From, req.To)
	if err != nil {
		return err
	}

	s.clocks[team].Stop()
	if result.Status == Unfinished {
		s.clocks[team.Opponent()].Start()
	}
	s.history = append(s.history, newPly(result))
	s.lastMove = &SimpleMove{From: req.From, To: req.To}
	log.Debugf("game %s: %s played %s", s.ID, team, s.history[len(s.history)-1].Notation)

	s.version++
	go s.broadcastState(s.version, s.state())
	return nil
}

func (s *Session) Resign(playerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	team := s.teamOf(playerID)
	if team == "" {
		return ErrNotInGame
	}
	if err := s.game.Resign(team); err != nil {
		return err
	}
	s.clocks[Red].Stop()
	s.clocks[Black].Stop()

	s.version++
	go s.broadcastState(s.version, s.state())
	return nil
}

// LegalMoves lists the destinations of the piece on the square named by
// text.
func (s *Session) LegalMoves(text string) ([]string, error) {
	sq, err := ParseSquare(text)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	moves := []string{}
	for _, dest := range s.game.LegalMoves(sq) {
		moves = append(moves, dest.String())
	}
	return moves, nil
}

func (s *Session) State() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state()
}

func (s *Session) state() SessionState {
	players := s.players
	players.Red.TimeLeft = int(s.clocks[Red].Remaining().Milliseconds() / 100)
	players.Black.TimeLeft = int(s.clocks[Black].Remaining().Milliseconds() / 100)

	var lastMove *SimpleMove
	if s.lastMove != nil {
		lm := *s.lastMove
		lastMove = &lm
	}
	return SessionState{
		ID:           s.ID,
		Board:        s.game.Snapshot(),
		ToMove:       s.game.CurrentTeam(),
		Status:       s.game.Status(),
		RedInCheck:   s.game.IsInCheck(Red),
		BlackInCheck: s.game.IsInCheck(Black),
		MoveHistory:  append([]Ply(nil), s.history...),
		Players:      players,
		LastMove:     lastMove,
	}
}

// RegisterConnection subscribes conn to the session's state. Callers that
// also write to conn themselves should pass a *SyncConn so that their
// writes and the broadcasts never overlap.
func (s *Session) RegisterConnection(playerID string, conn Conn) error {
	sc := NewSyncConn(conn)
	connID := fmt.Sprintf("%p", sc)

	// s.mu stays held until sc is in the registry so that no state change
	// can slip between the snapshot and the subscription.
	s.mu.Lock()
	if s.teamOf(playerID) == "" && !s.canSpectate() {
		s.mu.Unlock()
		return ErrUnauthorized
	}

	s.connections.mu.Lock()
	if _, exists := s.connections.connections[playerID]; exists {
		s.connections.mu.Unlock()
		s.mu.Unlock()
		// keep the healthy connection, reject the new one
		sc.WriteMessage(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, "Connection already exists"),
		)
		sc.Close()
		return nil
	}
	s.connections.connections[playerID] = sc
	s.connections.mu.Unlock()

	version := s.version
	state := s.state()
	s.mu.Unlock()
	log.Infof("game %s: registered connection %s for player %s", s.ID, connID, playerID)

	go s.broadcastState(version, state)
	return nil
}

// UnregisterConnection drops playerID's connection if it is still conn.
func (s *Session) UnregisterConnection(playerID string, conn Conn) {
	s.connections.mu.Lock()
	defer s.connections.mu.Unlock()

	if current, exists := s.connections.connections[playerID]; exists && current.wraps(conn) {
		delete(s.connections.connections, playerID)
		log.Infof("game %s: unregistered connection for player %s", s.ID, playerID)
	}
}

func (s *Session) ConnectionCount() int {
	s.connections.mu.RLock()
	defer s.connections.mu.RUnlock()
	return len(s.connections.connections)
}

func (s *Session) broadcastState(version int, state SessionState) {
	payload, err := json.Marshal(state)
	if err != nil {
		log.Errorf("game %s: marshal state: %v", s.ID, err)
		return
	}

	s.connections.mu.RLock()
	active := make(map[string]*SyncConn, len(s.connections.connections))
	for playerID, conn := range s.connections.connections {
		active[playerID] = conn
	}
	s.connections.mu.RUnlock()

	for playerID, conn := range active {
		if err := conn.writeState(version, ws.Message{
			Type:    ws.MessageTypeGameState,
			Payload: json.RawMessage(payload),
		}); err != nil {
			log.Warnf("game %s: send state to player %s: %v", s.ID, playerID, err)
			s.UnregisterConnection(playerID, conn)
		}
	}
}
