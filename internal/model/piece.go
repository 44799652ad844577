package model

type Piece struct {
	ID       PieceID
	Team     Team
	Kind     Kind
	Square   Square
	Captured bool
}

// Roster owns every piece of a game. Captured pieces stay in the roster
// with Captured set so that a speculative capture can be undone.
type Roster struct {
	pieces []Piece
}

func (r *Roster) add(team Team, kind Kind, s Square) PieceID {
	id := PieceID(len(r.pieces) + 1)
	r.pieces = append(r.pieces, Piece{ID: id, Team: team, Kind: kind, Square: s})
	return id
}

func (r *Roster) get(id PieceID) *Piece {
	if id == NoPiece {
		return nil
	}
	return &r.pieces[id-1]
}

func (r *Roster) general(team Team) *Piece {
	for i := range r.pieces {
		p := &r.pieces[i]
		if p.Kind == General && p.Team == team && !p.Captured {
			return p
		}
	}
	return nil
}

// position is the mutable part of a game: the board and the pieces on it.
type position struct {
	board  Board
	roster Roster
}

func (p *position) occupant(s Square) *Piece {
	return p.roster.get(p.board.Get(s))
}

// teamAt returns the team of the piece on s, or "" when s is empty.
func (p *position) teamAt(s Square) Team {
	if pc := p.occupant(s); pc != nil {
		return pc.Team
	}
	return ""
}

func (p *position) place(team Team, kind Kind, s Square) PieceID {
	id := p.roster.add(team, kind, s)
	p.board.Set(s, id)
	return id
}

// command is a single ply that can be applied to a position and undone
// exactly.
type command struct {
	piece    PieceID
	from     Square
	to       Square
	captured PieceID
}

func (p *position) newCommand(from, to Square) command {
	return command{
		piece:    p.board.Get(from),
		from:     from,
		to:       to,
		captured: p.board.Get(to),
	}
}

func (p *position) apply(c command) {
	if c.captured != NoPiece {
		p.roster.get(c.captured).Captured = true
	}
	p.board.Set(c.from, NoPiece)
	p.board.Set(c.to, c.piece)
	p.roster.get(c.piece).Square = c.to
}

func (p *position) undo(c command) {
	p.roster.get(c.piece).Square = c.from
	p.board.Set(c.from, c.piece)
	p.board.Set(c.to, c.captured)
	if c.captured != NoPiece {
		p.roster.get(c.captured).Captured = false
	}
}

// inCheck reports whether any opposing piece attacks team's general.
func (p *position) inCheck(team Team) bool {
	g := p.roster.general(team)
	if g == nil {
		return false
	}
	for i := range p.roster.pieces {
		attacker := &p.roster.pieces[i]
		if attacker.Captured || attacker.Team == team {
			continue
		}
		for _, dest := range p.pseudoMoves(attacker) {
			if p.board.Get(dest) == g.ID {
				return true
			}
		}
	}
	return false
}

// leavesInCheck plays c, tests whether team's general is attacked and
// restores the position before returning.
func (p *position) leavesInCheck(c command, team Team) bool {
	p.apply(c)
	defer p.undo(c)
	return p.inCheck(team)
}

// hasLegalMove reports whether team has at least one move that does not
// leave its own general attacked.
func (p *position) hasLegalMove(team Team) bool {
	for i := range p.roster.pieces {
		pc := &p.roster.pieces[i]
		if pc.Captured || pc.Team != team {
			continue
		}
		from := pc.Square
		for _, dest := range p.pseudoMoves(pc) {
			if !p.leavesInCheck(p.newCommand(from, dest), team) {
				return true
			}
		}
	}
	return false
}
