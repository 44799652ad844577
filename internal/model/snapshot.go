package model

import "strings"

// Cell is a read-only copy of one board square. The zero Cell is empty.
type Cell struct {
	Team Team `json:"team,omitempty"`
	Kind Kind `json:"kind,omitempty"`
}

func (c Cell) Empty() bool {
	return c.Kind == ""
}

// Snapshot is indexed [rank][file], rank 0 being red's back rank.
type Snapshot [Ranks][Files]Cell

// String draws the board with black at the top. Red pieces are upper
// case, black pieces lower case.
func (s Snapshot) String() string {
	var sb strings.Builder
	for rank := Ranks - 1; rank >= 0; rank-- {
		for file := 0; file < Files; file++ {
			if file > 0 {
				sb.WriteByte(' ')
			}
			cell := s[rank][file]
			switch {
			case cell.Empty():
				sb.WriteByte('.')
			case cell.Team == Black:
				sb.WriteString(strings.ToLower(cell.Kind.Notation()))
			default:
				sb.WriteString(cell.Kind.Notation())
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
