package model

// generator returns the pseudo-legal destinations for a piece of team
// standing on from. Destinations holding a piece of the same team are
// never returned.
type generator func(p *position, from Square, team Team) []Square

var generators = map[Kind]generator{
	General:  generalMoves,
	Advisor:  advisorMoves,
	Elephant: elephantMoves,
	Horse:    horseMoves,
	Chariot:  chariotMoves,
	Cannon:   cannonMoves,
	Soldier:  soldierMoves,
}

var (
	orthogonalDirs = []Square{{Rank: 1, File: 0}, {Rank: -1, File: 0}, {Rank: 0, File: -1}, {Rank: 0, File: 1}}
	diagonalDirs   = []Square{{Rank: 1, File: 1}, {Rank: -1, File: 1}, {Rank: -1, File: -1}, {Rank: 1, File: -1}}
)

func (p *position) pseudoMoves(pc *Piece) []Square {
	gen, ok := generators[pc.Kind]
	if !ok {
		return nil
	}
	return gen(p, pc.Square, pc.Team)
}

// admissible reports whether a piece of team may land on s.
func (p *position) admissible(s Square, team Team) bool {
	return InBounds(s) && p.teamAt(s) != team
}

func generalMoves(p *position, from Square, team Team) []Square {
	moves := []Square{}
	for _, dir := range orthogonalDirs {
		target := from.offset(dir.Rank, dir.File)
		if inPalace(team, target) && p.admissible(target, team) {
			moves = append(moves, target)
		}
	}
	return moves
}

func advisorMoves(p *position, from Square, team Team) []Square {
	moves := []Square{}
	for _, dir := range diagonalDirs {
		target := from.offset(dir.Rank, dir.File)
		if inPalace(team, target) && p.admissible(target, team) {
			moves = append(moves, target)
		}
	}
	return moves
}

func elephantMoves(p *position, from Square, team Team) []Square {
	moves := []Square{}
	for _, dir := range diagonalDirs {
		target := from.offset(2*dir.Rank, 2*dir.File)
		if !InBounds(target) || !onOwnSide(team, target) {
			continue
		}
		// the elephant's eye
		if p.board.Get(from.offset(dir.Rank, dir.File)) != NoPiece {
			continue
		}
		if p.admissible(target, team) {
			moves = append(moves, target)
		}
	}
	return moves
}

func horseMoves(p *position, from Square, team Team) []Square {
	moves := []Square{}
	for _, leg := range orthogonalDirs {
		legSquare := from.offset(leg.Rank, leg.File)
		if !InBounds(legSquare) || p.board.Get(legSquare) != NoPiece {
			continue
		}
		// Both jumps through this leg continue one more step along the
		// leg's axis and then one step to either side.
		for _, side := range []int{-1, 1} {
			var target Square
			if leg.Rank != 0 {
				target = from.offset(2*leg.Rank, side)
			} else {
				target = from.offset(side, 2*leg.File)
			}
			if p.admissible(target, team) {
				moves = append(moves, target)
			}
		}
	}
	return moves
}

func chariotMoves(p *position, from Square, team Team) []Square {
	moves := []Square{}
	for _, dir := range orthogonalDirs {
		target := from.offset(dir.Rank, dir.File)
		for InBounds(target) {
			occupant := p.teamAt(target)
			if occupant == "" {
				moves = append(moves, target)
			} else if occupant != team {
				moves = append(moves, target)
				break
			} else {
				break
			}
			target = target.offset(dir.Rank, dir.File)
		}
	}
	return moves
}

func cannonMoves(p *position, from Square, team Team) []Square {
	moves := []Square{}
	for _, dir := range orthogonalDirs {
		screened := false
		target := from.offset(dir.Rank, dir.File)
		for InBounds(target) {
			occupant := p.teamAt(target)
			if !screened {
				if occupant == "" {
					moves = append(moves, target)
				} else {
					screened = true
				}
			} else if occupant != "" {
				if occupant != team {
					moves = append(moves, target)
				}
				break
			}
			target = target.offset(dir.Rank, dir.File)
		}
	}
	return moves
}

func soldierMoves(p *position, from Square, team Team) []Square {
	forward := 1
	crossed := from.Rank > 4
	if team == Black {
		forward = -1
		crossed = from.Rank < 5
	}
	candidates := []Square{from.offset(forward, 0)}
	if crossed {
		candidates = append(candidates, from.offset(0, -1), from.offset(0, 1))
	}
	moves := []Square{}
	for _, target := range candidates {
		if p.admissible(target, team) {
			moves = append(moves, target)
		}
	}
	return moves
}
