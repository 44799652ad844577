package model

import (
	"errors"
	"fmt"
)

const (
	Ranks = 10
	Files = 9
)

var ErrInvalidSquare = errors.New("invalid square")

type Team string

const (
	Red   Team = "red"
	Black Team = "black"
)

func (t Team) Valid() bool {
	return t == Red || t == Black
}

func (t Team) Opponent() Team {
	switch t {
	case Red:
		return Black
	case Black:
		return Red
	}
	return ""
}

type Kind string

const (
	General  Kind = "general"
	Advisor  Kind = "advisor"
	Elephant Kind = "elephant"
	Horse    Kind = "horse"
	Chariot  Kind = "chariot"
	Cannon   Kind = "cannon"
	Soldier  Kind = "soldier"
)

// Notation returns the single letter used for the kind in move notation.
func (k Kind) Notation() string {
	switch k {
	case General:
		return "G"
	case Advisor:
		return "A"
	case Elephant:
		return "E"
	case Horse:
		return "H"
	case Chariot:
		return "R"
	case Cannon:
		return "C"
	case Soldier:
		return "S"
	}
	return ""
}

// Square is a board coordinate. Rank 0 is red's back rank, file 0 is the
// leftmost file from red's side.
type Square struct {
	Rank int `json:"rank"`
	File int `json:"file"`
}

// ParseSquare converts algebraic text such as "e1" or "a10" into a Square.
func ParseSquare(text string) (Square, error) {
	var rank int
	switch len(text) {
	case 2:
		if text[1] < '1' || text[1] > '9' {
			return Square{}, fmt.Errorf("%w: %q", ErrInvalidSquare, text)
		}
		rank = int(text[1]-'0') - 1
	case 3:
		if text[1] != '1' || text[2] != '0' {
			return Square{}, fmt.Errorf("%w: %q", ErrInvalidSquare, text)
		}
		rank = 9
	default:
		return Square{}, fmt.Errorf("%w: %q", ErrInvalidSquare, text)
	}
	if text[0] < 'a' || text[0] > 'i' {
		return Square{}, fmt.Errorf("%w: %q", ErrInvalidSquare, text)
	}
	return Square{Rank: rank, File: int(text[0] - 'a')}, nil
}

func (s Square) String() string {
	return fmt.Sprintf("%c%d", s.File+'a', s.Rank+1)
}

func (s Square) offset(dRank, dFile int) Square {
	return Square{Rank: s.Rank + dRank, File: s.File + dFile}
}

func InBounds(s Square) bool {
	return s.Rank >= 0 && s.Rank < Ranks && s.File >= 0 && s.File < Files
}

// PieceID identifies a piece in the roster. The zero value means no piece.
type PieceID int

const NoPiece PieceID = 0

// Board holds, for every square, the id of the piece standing on it.
type Board struct {
	cells [Ranks][Files]PieceID
}

func (b *Board) Get(s Square) PieceID {
	return b.cells[s.Rank][s.File]
}

func (b *Board) Set(s Square, id PieceID) {
	b.cells[s.Rank][s.File] = id
}

func inPalace(team Team, s Square) bool {
	if s.File < 3 || s.File > 5 {
		return false
	}
	if team == Red {
		return s.Rank >= 0 && s.Rank <= 2
	}
	return s.Rank >= 7 && s.Rank <= 9
}

func onOwnSide(team Team, s Square) bool {
	if team == Red {
		return s.Rank <= 4
	}
	return s.Rank >= 5
}
