package model

import (
	"errors"
	"fmt"
)

type Status string

const (
	Unfinished Status = "UNFINISHED"
	RedWon     Status = "RED_WON"
	BlackWon   Status = "BLACK_WON"
)

func winner(team Team) Status {
	if team == Red {
		return RedWon
	}
	return BlackWon
}

var (
	ErrGameOver         = errors.New("game is over")
	ErrSameSquare       = errors.New("source and destination are the same square")
	ErrEmptySource      = errors.New("no piece at source square")
	ErrWrongTeam        = errors.New("piece does not belong to the team to move")
	ErrOwnPieceAtDest   = errors.New("destination holds a piece of the team to move")
	ErrIllegalMove      = errors.New("piece cannot move to destination")
	ErrSelfCheck        = errors.New("move leaves own general in check")
	ErrInvalidPlacement = errors.New("invalid placement")
)

// Game is the Xiangqi rules engine. It is not safe for concurrent use.
type Game struct {
	pos          position
	toMove       Team
	status       Status
	redInCheck   bool
	blackInCheck bool
}

// Placement puts one piece on one square when building a position.
type Placement struct {
	Team   Team
	Kind   Kind
	Square Square
}

// MoveResult describes an accepted move.
type MoveResult struct {
	Team     Team
	Kind     Kind
	From     Square
	To       Square
	Captured Kind
	Check    bool
	Status   Status
}

var backRank = []Kind{Chariot, Horse, Elephant, Advisor, General, Advisor, Elephant, Horse, Chariot}

func standardPlacement() []Placement {
	placements := []Placement{}
	for _, team := range []Team{Red, Black} {
		// rank as seen from the team's own side
		rank := func(r int) int {
			if team == Black {
				return Ranks - 1 - r
			}
			return r
		}
		for file, kind := range backRank {
			placements = append(placements, Placement{team, kind, Square{Rank: rank(0), File: file}})
		}
		for _, file := range []int{1, 7} {
			placements = append(placements, Placement{team, Cannon, Square{Rank: rank(2), File: file}})
		}
		for file := 0; file < Files; file += 2 {
			placements = append(placements, Placement{team, Soldier, Square{Rank: rank(3), File: file}})
		}
	}
	return placements
}

// NewGame returns a game in the standard opening position with red to
// move.
func NewGame() *Game {
	g, err := NewGameFromPlacement(standardPlacement(), Red)
	if err != nil {
		panic(err)
	}
	return g
}

// NewGameFromPlacement builds a game from an arbitrary position. Each
// team needs exactly one general standing inside its palace.
func NewGameFromPlacement(placements []Placement, toMove Team) (*Game, error) {
	if !toMove.Valid() {
		return nil, fmt.Errorf("%w: team to move %q", ErrInvalidPlacement, toMove)
	}
	g := &Game{toMove: toMove, status: Unfinished}
	generals := map[Team]int{}
	for _, pl := range placements {
		if !pl.Team.Valid() {
			return nil, fmt.Errorf("%w: team %q", ErrInvalidPlacement, pl.Team)
		}
		if _, ok := generators[pl.Kind]; !ok {
			return nil, fmt.Errorf("%w: kind %q", ErrInvalidPlacement, pl.Kind)
		}
		if !InBounds(pl.Square) {
			return nil, fmt.Errorf("%w: square %v off the board", ErrInvalidPlacement, pl.Square)
		}
		if g.pos.board.Get(pl.Square) != NoPiece {
			return nil, fmt.Errorf("%w: square %s occupied twice", ErrInvalidPlacement, pl.Square)
		}
		if pl.Kind == General {
			if !inPalace(pl.Team, pl.Square) {
				return nil, fmt.Errorf("%w: %s general outside palace at %s", ErrInvalidPlacement, pl.Team, pl.Square)
			}
			generals[pl.Team]++
		}
		g.pos.place(pl.Team, pl.Kind, pl.Square)
	}
	for _, team := range []Team{Red, Black} {
		if generals[team] != 1 {
			return nil, fmt.Errorf("%w: %s has %d generals", ErrInvalidPlacement, team, generals[team])
		}
	}
	g.setCheck(toMove, g.pos.inCheck(toMove))
	return g, nil
}

func (g *Game) CurrentTeam() Team {
	return g.toMove
}

func (g *Game) Status() Status {
	return g.status
}

// IsInCheck reports the check flag of team. Anything other than Red or
// Black is never in check.
func (g *Game) IsInCheck(team Team) bool {
	switch team {
	case Red:
		return g.redInCheck
	case Black:
		return g.blackInCheck
	}
	return false
}

func (g *Game) setCheck(team Team, check bool) {
	if team == Red {
		g.redInCheck = check
	} else {
		g.blackInCheck = check
	}
}

// MakeMove plays the move from src to dest given in algebraic notation
// and reports whether it was accepted. A rejected move leaves the game
// untouched.
func (g *Game) MakeMove(src, dest string) bool {
	_, err := g.TryMove(src, dest)
	return err == nil
}

// TryMove is MakeMove with the reason for a rejection.
func (g *Game) TryMove(src, dest string) (MoveResult, error) {
	cmd, err := g.validateMove(src, dest)
	if err != nil {
		return MoveResult{}, err
	}
	mover := g.toMove

	g.pos.apply(cmd)
	if g.pos.inCheck(mover) {
		g.pos.undo(cmd)
		return MoveResult{}, ErrSelfCheck
	}

	moved := g.pos.roster.get(cmd.piece)
	result := MoveResult{Team: mover, Kind: moved.Kind, From: cmd.from, To: cmd.to}
	if captured := g.pos.roster.get(cmd.captured); captured != nil {
		result.Captured = captured.Kind
	}

	g.setCheck(mover, false)
	g.toMove = mover.Opponent()
	g.setCheck(g.toMove, g.pos.inCheck(g.toMove))

	// Checkmate and stalemate are the same outcome: the side with no
	// legal reply loses.
	if !g.pos.hasLegalMove(g.toMove) {
		g.status = winner(mover)
	}

	result.Check = g.IsInCheck(g.toMove)
	result.Status = g.status
	return result, nil
}

func (g *Game) validateMove(src, dest string) (command, error) {
	if g.status != Unfinished {
		return command{}, ErrGameOver
	}
	if src == dest {
		return command{}, ErrSameSquare
	}
	from, err := ParseSquare(src)
	if err != nil {
		return command{}, err
	}
	to, err := ParseSquare(dest)
	if err != nil {
		return command{}, err
	}

	piece := g.pos.occupant(from)
	if piece == nil {
		return command{}, ErrEmptySource
	}
	if piece.Team != g.toMove {
		return command{}, ErrWrongTeam
	}
	if g.pos.teamAt(to) == g.toMove {
		return command{}, ErrOwnPieceAtDest
	}

	for _, candidate := range g.pos.pseudoMoves(piece) {
		if candidate == to {
			return g.pos.newCommand(from, to), nil
		}
	}
	return command{}, fmt.Errorf("%w: %s %s to %s", ErrIllegalMove, piece.Kind, from, to)
}

// LegalMoves returns the destinations the piece on s can reach without
// leaving its own general in check. It returns nil for an empty square.
func (g *Game) LegalMoves(s Square) []Square {
	if !InBounds(s) {
		return nil
	}
	piece := g.pos.occupant(s)
	if piece == nil {
		return nil
	}
	moves := []Square{}
	for _, dest := range g.pos.pseudoMoves(piece) {
		if !g.pos.leavesInCheck(g.pos.newCommand(s, dest), piece.Team) {
			moves = append(moves, dest)
		}
	}
	return moves
}

// Resign ends the game in favour of team's opponent.
func (g *Game) Resign(team Team) error {
	if !team.Valid() {
		return fmt.Errorf("cannot resign for team %q", team)
	}
	if g.status != Unfinished {
		return ErrGameOver
	}
	g.status = winner(team.Opponent())
	return nil
}

// PieceAt returns the piece on the square named by text.
func (g *Game) PieceAt(text string) (Cell, bool) {
	s, err := ParseSquare(text)
	if err != nil {
		return Cell{}, false
	}
	piece := g.pos.occupant(s)
	if piece == nil {
		return Cell{}, false
	}
	return Cell{Team: piece.Team, Kind: piece.Kind}, true
}

// Snapshot copies the board for rendering.
func (g *Game) Snapshot() Snapshot {
	var s Snapshot
	for rank := 0; rank < Ranks; rank++ {
		for file := 0; file < Files; file++ {
			if piece := g.pos.occupant(Square{Rank: rank, File: file}); piece != nil {
				s[rank][file] = Cell{Team: piece.Team, Kind: piece.Kind}
			}
		}
	}
	return s
}
