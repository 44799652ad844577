package model

import (
	"errors"
	"testing"
)

func TestParseSquareRoundTrip(t *testing.T) {
	for rank := 0; rank < Ranks; rank++ {
		for file := 0; file < Files; file++ {
			want := Square{Rank: rank, File: file}
			got, err := ParseSquare(want.String())
			if err != nil {
				t.Fatalf("ParseSquare(%q) error: %v", want.String(), err)
			}
			if got != want {
				t.Errorf("ParseSquare(%q) = %+v; want %+v", want.String(), got, want)
			}
		}
	}
}

func TestParseSquare(t *testing.T) {
	tests := []struct {
		text string
		want Square
	}{
		{"a1", Square{Rank: 0, File: 0}},
		{"e1", Square{Rank: 0, File: 4}},
		{"i9", Square{Rank: 8, File: 8}},
		{"a10", Square{Rank: 9, File: 0}},
		{"e10", Square{Rank: 9, File: 4}},
		{"i10", Square{Rank: 9, File: 8}},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got, err := ParseSquare(tt.text)
			if err != nil {
				t.Fatalf("ParseSquare(%q) error: %v", tt.text, err)
			}
			if got != tt.want {
				t.Errorf("ParseSquare(%q) = %+v; want %+v", tt.text, got, tt.want)
			}
		})
	}
}

func TestParseSquareMalformed(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"empty", ""},
		{"file only", "e"},
		{"too long", "a100"},
		{"file past i", "j1"},
		{"upper case file", "E1"},
		{"rank zero", "a0"},
		{"rank eleven", "a11"},
		{"leading zero", "a01"},
		{"rank 10 broken", "a1a"},
		{"rank twenty", "a20"},
		{"letter rank", "ab"},
		{"space", "e 1"},
		{"digits only", "10"},
		{"rank 10 without file", "100"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseSquare(tt.text)
			if !errors.Is(err, ErrInvalidSquare) {
				t.Errorf("ParseSquare(%q) error = %v; want ErrInvalidSquare", tt.text, err)
			}
		})
	}
}

func TestInBounds(t *testing.T) {
	tests := []struct {
		sq   Square
		want bool
	}{
		{Square{0, 0}, true},
		{Square{9, 8}, true},
		{Square{-1, 0}, false},
		{Square{0, -1}, false},
		{Square{10, 0}, false},
		{Square{0, 9}, false},
	}
	for _, tt := range tests {
		if got := InBounds(tt.sq); got != tt.want {
			t.Errorf("InBounds(%+v) = %v; want %v", tt.sq, got, tt.want)
		}
	}
}

func TestPalaceAndRiver(t *testing.T) {
	if !inPalace(Red, Square{Rank: 2, File: 5}) || inPalace(Red, Square{Rank: 3, File: 4}) {
		t.Error("red palace is ranks 0-2, files 3-5")
	}
	if !inPalace(Black, Square{Rank: 7, File: 3}) || inPalace(Black, Square{Rank: 9, File: 6}) {
		t.Error("black palace is ranks 7-9, files 3-5")
	}
	if !onOwnSide(Red, Square{Rank: 4}) || onOwnSide(Red, Square{Rank: 5}) {
		t.Error("red side is ranks 0-4")
	}
	if !onOwnSide(Black, Square{Rank: 5}) || onOwnSide(Black, Square{Rank: 4}) {
		t.Error("black side is ranks 5-9")
	}
}

func TestTeamOpponent(t *testing.T) {
	if Red.Opponent() != Black || Black.Opponent() != Red {
		t.Error("Red and Black must be opponents")
	}
	if Team("green").Opponent() != "" {
		t.Error("unknown team has no opponent")
	}
}
