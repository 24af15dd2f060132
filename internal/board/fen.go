package board

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// StartFEN is the FEN string for the starting position.
const StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// ErrInvalidFEN wraps every FEN parsing failure.
var ErrInvalidFEN = errors.New("invalid FEN")

// ParseFEN parses a FEN string and returns a GameState with an empty
// history.
func ParseFEN(fen string) (*GameState, error) {
	parts := strings.Fields(fen)
	if len(parts) < 4 {
		return nil, fmt.Errorf("%w: need at least 4 fields, got %d", ErrInvalidFEN, len(parts))
	}

	g := &GameState{startFullMove: 1}

	// Piece placement (field 0)
	if err := parsePiecePlacement(g, parts[0]); err != nil {
		return nil, err
	}

	// Side to move (field 1)
	var side Color
	switch parts[1] {
	case "w":
		side = White
	case "b":
		side = Black
	default:
		return nil, fmt.Errorf("%w: invalid side to move: %s", ErrInvalidFEN, parts[1])
	}

	// Castling rights (field 2)
	rights, err := parseCastleRights(parts[2])
	if err != nil {
		return nil, err
	}

	// En passant square (field 3)
	ep := NoSquare
	if parts[3] != "-" {
		ep, err = ParseSquare(parts[3])
		if err != nil {
			return nil, fmt.Errorf("%w: invalid en passant square: %s", ErrInvalidFEN, parts[3])
		}
	}

	// Half-move clock (field 4, optional)
	if len(parts) > 4 {
		hmc, err := strconv.Atoi(parts[4])
		if err != nil {
			return nil, fmt.Errorf("%w: invalid half-move clock: %s", ErrInvalidFEN, parts[4])
		}
		g.startHalfMove = hmc
	}

	// Full-move number (field 5, optional)
	if len(parts) > 5 {
		fmn, err := strconv.Atoi(parts[5])
		if err != nil {
			return nil, fmt.Errorf("%w: invalid full-move number: %s", ErrInvalidFEN, parts[5])
		}
		g.startFullMove = fmn
	}

	g.reset(side, rights, ep)
	if err := g.validate(); err != nil {
		return nil, err
	}
	g.startFEN = g.ToFEN()

	return g, nil
}

// parsePiecePlacement parses the piece placement section of a FEN string.
func parsePiecePlacement(g *GameState, placement string) error {
	ranks := strings.Split(placement, "/")
	if len(ranks) != 8 {
		return fmt.Errorf("%w: need 8 ranks, got %d", ErrInvalidFEN, len(ranks))
	}

	for row, rankStr := range ranks {
		col := 0
		for _, c := range rankStr {
			if c >= '1' && c <= '8' {
				for n := int(c - '0'); n > 0; n-- {
					if col > 7 {
						return fmt.Errorf("%w: too many squares in rank %d", ErrInvalidFEN, 8-row)
					}
					g.board[row][col] = Empty
					col++
				}
				continue
			}
			if col > 7 {
				return fmt.Errorf("%w: too many squares in rank %d", ErrInvalidFEN, 8-row)
			}
			piece := PieceFromChar(byte(c))
			if piece == Empty {
				return fmt.Errorf("%w: invalid piece character: %c", ErrInvalidFEN, c)
			}
			g.board[row][col] = piece
			col++
		}

		if col != 8 {
			return fmt.Errorf("%w: invalid number of squares in rank %d: got %d", ErrInvalidFEN, 8-row, col)
		}
	}

	return nil
}

// parseCastleRights parses the castling rights section of a FEN string.
func parseCastleRights(castling string) (CastleRights, error) {
	var cr CastleRights
	if castling == "-" {
		return cr, nil
	}

	for _, c := range castling {
		switch c {
		case 'K':
			cr.WhiteKingSide = true
		case 'Q':
			cr.WhiteQueenSide = true
		case 'k':
			cr.BlackKingSide = true
		case 'q':
			cr.BlackQueenSide = true
		default:
			return cr, fmt.Errorf("%w: invalid castling character: %c", ErrInvalidFEN, c)
		}
	}

	return cr, nil
}

// validate checks the invariants the move generator relies on.
func (g *GameState) validate() error {
	var kings [2]int
	for r := 0; r < 8; r++ {
		for c := 0; c < 8; c++ {
			p := g.board[r][c]
			if p.Type() == King {
				kings[p.Color()]++
			}
			if p.Type() == Pawn && (r == 0 || r == 7) {
				return fmt.Errorf("%w: pawns cannot be on rank 1 or 8", ErrInvalidFEN)
			}
		}
	}
	if kings[White] != 1 {
		return fmt.Errorf("%w: white must have exactly one king", ErrInvalidFEN)
	}
	if kings[Black] != 1 {
		return fmt.Errorf("%w: black must have exactly one king", ErrInvalidFEN)
	}
	return g.validateEnPassant()
}

// validateEnPassant checks that the target lies behind a pawn of the side
// not to move that could just have advanced two squares.
func (g *GameState) validateEnPassant() error {
	ep := g.enPassant
	if ep == NoSquare {
		return nil
	}
	// Row of the target, and the direction from it to the pawn.
	row, dir := 2, 1
	if g.sideToMove == Black {
		row, dir = 5, -1
	}
	if ep.Row != row {
		return fmt.Errorf("%w: en passant square %s is on the wrong rank", ErrInvalidFEN, ep)
	}
	pawn := NewPiece(Pawn, g.sideToMove.Other())
	if g.board[ep.Row+dir][ep.Col] != pawn {
		return fmt.Errorf("%w: no pawn in front of en passant square %s", ErrInvalidFEN, ep)
	}
	if g.board[ep.Row][ep.Col] != Empty || g.board[ep.Row-dir][ep.Col] != Empty {
		return fmt.Errorf("%w: en passant square %s is not empty", ErrInvalidFEN, ep)
	}
	return nil
}

// ToFEN returns the FEN representation of the position.
func (g *GameState) ToFEN() string {
	var sb strings.Builder

	// Piece placement
	for row := 0; row < 8; row++ {
		empty := 0
		for col := 0; col < 8; col++ {
			piece := g.board[row][col]
			if piece == Empty {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteString(strconv.Itoa(empty))
				empty = 0
			}
			sb.WriteString(piece.String())
		}
		if empty > 0 {
			sb.WriteString(strconv.Itoa(empty))
		}
		if row < 7 {
			sb.WriteByte('/')
		}
	}

	// Side to move
	sb.WriteByte(' ')
	if g.sideToMove == White {
		sb.WriteByte('w')
	} else {
		sb.WriteByte('b')
	}

	sb.WriteByte(' ')
	sb.WriteString(g.rights.String())

	sb.WriteByte(' ')
	sb.WriteString(g.enPassant.String())

	sb.WriteByte(' ')
	sb.WriteString(strconv.Itoa(g.halfMoveClock()))
	sb.WriteByte(' ')
	sb.WriteString(strconv.Itoa(g.fullMoveNumber()))

	return sb.String()
}

// halfMoveClock counts plies since the last pawn move or capture.
func (g *GameState) halfMoveClock() int {
	n := 0
	for i := len(g.moveLog) - 1; i >= 0; i-- {
		m := g.moveLog[i]
		if m.Moved.Type() == Pawn || m.IsCapture() {
			return n
		}
		n++
	}
	return n + g.startHalfMove
}

// fullMoveNumber starts at 1 and increments after black moves.
func (g *GameState) fullMoveNumber() int {
	plies := len(g.moveLog)
	if g.startSide == Black {
		plies++
	}
	return g.startFullMove + plies/2
}
