package model

import (
	"sort"
	"testing"
)

func mustSquare(t *testing.T, text string) Square {
	t.Helper()
	s, err := ParseSquare(text)
	if err != nil {
		t.Fatalf("ParseSquare(%q) error: %v", text, err)
	}
	return s
}

// mustGame builds a position from algebraic squares.
func mustGame(t *testing.T, toMove Team, pieces map[string]Cell) *Game {
	t.Helper()
	placements := make([]Placement, 0, len(pieces))
	for text, cell := range pieces {
		placements = append(placements, Placement{Team: cell.Team, Kind: cell.Kind, Square: mustSquare(t, text)})
	}
	g, err := NewGameFromPlacement(placements, toMove)
	if err != nil {
		t.Fatalf("NewGameFromPlacement() error: %v", err)
	}
	return g
}

// destinations returns the sorted pseudo-legal destinations of the piece
// on text.
func destinations(t *testing.T, g *Game, text string) []string {
	t.Helper()
	piece := g.pos.occupant(mustSquare(t, text))
	if piece == nil {
		t.Fatalf("no piece on %s", text)
	}
	return sortedSquares(g.pos.pseudoMoves(piece))
}

func sortedSquares(squares []Square) []string {
	out := make([]string, 0, len(squares))
	for _, s := range squares {
		out = append(out, s.String())
	}
	sort.Strings(out)
	return out
}

func sorted(squares ...string) []string {
	out := append([]string{}, squares...)
	sort.Strings(out)
	return out
}

func clonePosition(p position) position {
	c := p
	c.roster.pieces = append([]Piece(nil), p.roster.pieces...)
	return c
}

func red(k Kind) Cell { return Cell{Team: Red, Kind: k} }
func black(k Kind) Cell { return Cell{Team: Black, Kind: k} }
