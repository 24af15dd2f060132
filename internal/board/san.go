package board

import (
	"fmt"
	"strings"
)

// SAN converts a legal move to Standard Algebraic Notation. The check
// marker is found on a clone, so g's flags are left alone.
func (g *GameState) SAN(m Move) string {
	if m.From == NoSquare {
		return "-"
	}

	var sb strings.Builder
	pt := m.Moved.Type()

	switch {
	case m.Castle && m.To.Col > m.From.Col:
		sb.WriteString("O-O")
	case m.Castle:
		sb.WriteString("O-O-O")
	default:
		// Piece letter and disambiguation (not for pawns)
		if pt != Pawn {
			sb.WriteByte(pt.Letter())
			sb.WriteString(g.disambiguation(m))
		}

		if m.IsCapture() {
			if pt == Pawn {
				// Pawn captures include the file of origin
				sb.WriteByte('a' + byte(m.From.File()))
			}
			sb.WriteByte('x')
		}

		sb.WriteString(m.To.String())

		if m.Promotion {
			sb.WriteString("=Q")
		}
	}

	after := g.Clone()
	after.MakeMove(m)
	after.ValidMoves()
	if after.Checkmate() {
		sb.WriteByte('#')
	} else if after.InCheck() {
		sb.WriteByte('+')
	}

	return sb.String()
}

// disambiguation returns the origin file, rank or square needed when
// another piece of the same kind can reach the same square.
func (g *GameState) disambiguation(m Move) string {
	var candidates []Square
	for _, other := range g.Clone().ValidMoves() {
		if other.To == m.To && other.From != m.From && other.Moved == m.Moved {
			candidates = append(candidates, other.From)
		}
	}

	// No ambiguity
	if len(candidates) == 0 {
		return ""
	}

	sameFile, sameRank := false, false
	for _, sq := range candidates {
		if sq.File() == m.From.File() {
			sameFile = true
		}
		if sq.Rank() == m.From.Rank() {
			sameRank = true
		}
	}

	if !sameFile {
		return string(rune('a' + m.From.File()))
	}
	if !sameRank {
		return string(rune('1' + m.From.Rank()))
	}
	return m.From.String()
}

// ParseSAN finds the legal move written as s in Standard Algebraic Notation.
func (g *GameState) ParseSAN(s string) (Move, error) {
	orig := s
	s = strings.TrimSpace(s)
	s = strings.TrimRight(s, "+#!?")

	legal := g.Clone().ValidMoves()

	if s == "O-O" || s == "0-0" || s == "O-O-O" || s == "0-0-0" {
		kingSide := len(s) == 3
		for _, m := range legal {
			if m.Castle && (m.To.Col > m.From.Col) == kingSide {
				return m, nil
			}
		}
		return NoMove, fmt.Errorf("%w: %s", ErrIllegalMove, orig)
	}

	// Promotion suffix; only a queen can be chosen.
	if idx := strings.Index(s, "="); idx >= 0 {
		if idx+1 >= len(s) || s[idx+1] != 'Q' {
			return NoMove, fmt.Errorf("%w: only queen promotion is supported: %s", ErrIllegalMove, orig)
		}
		s = s[:idx]
	}

	isCapture := strings.Contains(s, "x")
	s = strings.ReplaceAll(s, "x", "")

	pt := Pawn
	if len(s) > 0 && s[0] >= 'A' && s[0] <= 'Z' {
		switch s[0] {
		case 'N':
			pt = Knight
		case 'B':
			pt = Bishop
		case 'R':
			pt = Rook
		case 'Q':
			pt = Queen
		case 'K':
			pt = King
		default:
			return NoMove, fmt.Errorf("invalid piece letter in %s", orig)
		}
		s = s[1:]
	}

	if len(s) < 2 {
		return NoMove, fmt.Errorf("invalid SAN: %s", orig)
	}
	dest, err := ParseSquare(s[len(s)-2:])
	if err != nil {
		return NoMove, err
	}
	s = s[:len(s)-2]

	fileHint, rankHint := -1, -1
	for _, c := range s {
		switch {
		case c >= 'a' && c <= 'h':
			fileHint = int(c - 'a')
		case c >= '1' && c <= '8':
			rankHint = int(c - '1')
		}
	}

	for _, m := range legal {
		if m.To != dest || m.Castle || m.Moved.Type() != pt {
			continue
		}
		if fileHint >= 0 && m.From.File() != fileHint {
			continue
		}
		if rankHint >= 0 && m.From.Rank() != rankHint {
			continue
		}
		if isCapture && !m.IsCapture() {
			continue
		}
		return m, nil
	}

	return NoMove, fmt.Errorf("%w: %s", ErrIllegalMove, orig)
}

// SANLog returns the move log in SAN, replayed from the starting position.
func (g *GameState) SANLog() ([]string, error) {
	replay, err := ParseFEN(g.startFEN)
	if err != nil {
		return nil, err
	}
	result := make([]string, len(g.moveLog))
	for i, m := range g.moveLog {
		result[i] = replay.SAN(m)
		replay.MakeMove(m)
	}
	return result, nil
}
