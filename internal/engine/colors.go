package engine

import (
	"fmt"
	"strconv"
)

type Color string

const (
	ColorRed    Color = "R"
	ColorYellow Color = "Y"
	ColorGreen  Color = "G"
	ColorWhite  Color = "W"
	ColorBlue   Color = "B"
)

// Colors in the order the server prints fireworks.
var Colors = []Color{ColorRed, ColorYellow, ColorGreen, ColorWhite, ColorBlue}

const NumRanks = 5

func ParseColor(s string) (Color, error) {
	for _, c := range Colors {
		if string(c) == s {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: color %q", ErrMalformed, s)
}

// ParseRank turns a 1-based rank digit into a 0-based rank.
func ParseRank(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 || n > NumRanks {
		return 0, fmt.Errorf("%w: rank %q", ErrMalformed, s)
	}
	return n - 1, nil
}

// ParseCard parses "R1" style card strings.
func ParseCard(s string) (Card, error) {
	if len(s) != 2 {
		return Card{}, fmt.Errorf("%w: card %q", ErrMalformed, s)
	}
	c, err := ParseColor(s[:1])
	if err != nil {
		return Card{}, err
	}
	r, err := ParseRank(s[1:])
	if err != nil {
		return Card{}, err
	}
	return Card{Color: c, Rank: r}, nil
}
