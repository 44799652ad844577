package model

import "fmt"

// MoveRequest is a move as sent by a client, in algebraic notation.
type MoveRequest struct {
	From string `json:"from"`
	To   string `json:"to"`
}

type SimpleMove struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// Ply is one accepted move in a session's history.
type Ply struct {
	Team     Team   `json:"team"`
	Kind     Kind   `json:"kind"`
	From     string `json:"from"`
	To       string `json:"to"`
	Captured Kind   `json:"captured,omitempty"`
	Check    bool   `json:"check"`
	Notation string `json:"notation"`
}

func newPly(r MoveResult) Ply {
	return Ply{
		Team:     r.Team,
		Kind:     r.Kind,
		From:     r.From.String(),
		To:       r.To.String(),
		Captured: r.Captured,
		Check:    r.Check,
		Notation: notation(r),
	}
}

// notation renders a move as e.g. "Hb1-c3", "Rh1xh10+" or "Ce3xe7#".
func notation(r MoveResult) string {
	sep := "-"
	if r.Captured != "" {
		sep = "x"
	}
	suffix := ""
	if r.Status != Unfinished {
		suffix = "#"
	} else if r.Check {
		suffix = "+"
	}
	return fmt.Sprintf("%s%s%s%s%s", r.Kind.Notation(), r.From, sep, r.To, suffix)
}
