package board

import (
	"fmt"
	"strings"
)

// Grid is the 8x8 mailbox of pieces, indexed [row][col].
type Grid [8][8]Piece

// CastleRights records which castling options remain for each side.
type CastleRights struct {
	WhiteKingSide  bool
	BlackKingSide  bool
	WhiteQueenSide bool
	BlackQueenSide bool
}

// AllCastleRights returns the rights held at the start of a game.
func AllCastleRights() CastleRights {
	return CastleRights{true, true, true, true}
}

// CanCastle returns true if the given side can castle in the given direction.
func (cr CastleRights) CanCastle(c Color, kingSide bool) bool {
	if c == White {
		if kingSide {
			return cr.WhiteKingSide
		}
		return cr.WhiteQueenSide
	}
	if kingSide {
		return cr.BlackKingSide
	}
	return cr.BlackQueenSide
}

// String returns the FEN castling rights string.
func (cr CastleRights) String() string {
	s := ""
	if cr.WhiteKingSide {
		s += "K"
	}
	if cr.WhiteQueenSide {
		s += "Q"
	}
	if cr.BlackKingSide {
		s += "k"
	}
	if cr.BlackQueenSide {
		s += "q"
	}
	if s == "" {
		return "-"
	}
	return s
}

// GameState is the aggregate root of a game: the grid, whose turn it is,
// and the history needed to take moves back.
//
// The move log, en passant history and castle rights history grow and
// shrink together: len(moveLog) == len(epLog)-1 == len(rightsLog)-1.
type GameState struct {
	board      Grid
	sideToMove Color
	kingSquare [2]Square

	checkmate bool
	stalemate bool

	enPassant Square
	rights    CastleRights

	moveLog   []Move
	epLog     []Square
	rightsLog []CastleRights

	startFEN      string
	startHalfMove int
	startFullMove int
	startSide     Color
}

var backRank = [8]PieceType{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}

// NewGameState creates the standard starting position with white to move.
func NewGameState() *GameState {
	g := &GameState{}
	for r := 0; r < 8; r++ {
		for c := 0; c < 8; c++ {
			g.board[r][c] = Empty
		}
	}
	for c := 0; c < 8; c++ {
		g.board[0][c] = NewPiece(backRank[c], Black)
		g.board[1][c] = BlackPawn
		g.board[6][c] = WhitePawn
		g.board[7][c] = NewPiece(backRank[c], White)
	}
	g.reset(White, AllCastleRights(), NoSquare)
	g.startFEN = StartFEN
	g.startFullMove = 1
	return g
}

// reset locates the kings and starts fresh histories from the current grid.
func (g *GameState) reset(side Color, rights CastleRights, ep Square) {
	g.sideToMove = side
	g.startSide = side
	g.rights = rights
	g.enPassant = ep
	g.checkmate = false
	g.stalemate = false
	g.kingSquare = [2]Square{NoSquare, NoSquare}
	for r := 0; r < 8; r++ {
		for c := 0; c < 8; c++ {
			p := g.board[r][c]
			if p.Type() == King {
				g.kingSquare[p.Color()] = Square{r, c}
			}
		}
	}
	g.moveLog = nil
	g.epLog = []Square{ep}
	g.rightsLog = []CastleRights{rights}
}

// Clone returns a deep copy that can be mutated independently.
func (g *GameState) Clone() *GameState {
	c := *g
	c.moveLog = append([]Move(nil), g.moveLog...)
	c.epLog = append([]Square(nil), g.epLog...)
	c.rightsLog = append([]CastleRights(nil), g.rightsLog...)
	return &c
}

// MakeMove applies m, which must come from ValidMoves (or compare equal to
// one of its results). Nothing is validated here.
func (g *GameState) MakeMove(m Move) {
	g.board[m.From.Row][m.From.Col] = Empty
	g.board[m.To.Row][m.To.Col] = m.Moved
	g.moveLog = append(g.moveLog, m)
	g.sideToMove = g.sideToMove.Other()

	if m.Moved.Type() == King {
		g.kingSquare[m.Moved.Color()] = m.To
	}

	if m.Promotion {
		g.board[m.To.Row][m.To.Col] = NewPiece(Queen, m.Moved.Color())
	}

	if m.EnPassant {
		g.board[m.From.Row][m.To.Col] = Empty
	}

	if m.Moved.Type() == Pawn && abs(m.From.Row-m.To.Row) == 2 {
		g.enPassant = Square{(m.From.Row + m.To.Row) / 2, m.From.Col}
	} else {
		g.enPassant = NoSquare
	}

	if m.Castle {
		row := m.To.Row
		if m.To.Col-m.From.Col == 2 {
			g.board[row][m.To.Col-1] = g.board[row][m.To.Col+1]
			g.board[row][m.To.Col+1] = Empty
		} else {
			g.board[row][m.To.Col+1] = g.board[row][m.To.Col-2]
			g.board[row][m.To.Col-2] = Empty
		}
	}

	g.epLog = append(g.epLog, g.enPassant)

	g.updateCastleRights(m)
	g.rightsLog = append(g.rightsLog, g.rights)
}

// UndoMove takes back the last move. It does nothing if no move was made.
// The checkmate and stalemate flags are cleared; ValidMoves recomputes them.
func (g *GameState) UndoMove() {
	if len(g.moveLog) == 0 {
		return
	}

	m := g.moveLog[len(g.moveLog)-1]
	g.moveLog = g.moveLog[:len(g.moveLog)-1]

	g.board[m.From.Row][m.From.Col] = m.Moved
	g.board[m.To.Row][m.To.Col] = m.Captured
	g.sideToMove = g.sideToMove.Other()

	if m.Moved.Type() == King {
		g.kingSquare[m.Moved.Color()] = m.From
	}

	if m.EnPassant {
		g.board[m.To.Row][m.To.Col] = Empty
		g.board[m.From.Row][m.To.Col] = m.Captured
	}

	g.epLog = g.epLog[:len(g.epLog)-1]
	g.enPassant = g.epLog[len(g.epLog)-1]

	g.rightsLog = g.rightsLog[:len(g.rightsLog)-1]
	g.rights = g.rightsLog[len(g.rightsLog)-1]

	if m.Castle {
		row := m.To.Row
		if m.To.Col-m.From.Col == 2 {
			g.board[row][m.To.Col+1] = g.board[row][m.To.Col-1]
			g.board[row][m.To.Col-1] = Empty
		} else {
			g.board[row][m.To.Col-2] = g.board[row][m.To.Col+1]
			g.board[row][m.To.Col+1] = Empty
		}
	}

	g.checkmate = false
	g.stalemate = false
}

// Simulate makes m, runs fn and takes m back again, even if fn panics.
// Every speculative move in this package and in search goes through here so
// the history logs stay parallel.
func (g *GameState) Simulate(m Move, fn func()) {
	g.MakeMove(m)
	defer g.UndoMove()
	fn()
}

// updateCastleRights narrows the rights after m. A king move drops both of
// its side's rights; a move from or onto a rook home square drops the
// right tied to that rook.
func (g *GameState) updateCastleRights(m Move) {
	switch m.Moved {
	case WhiteKing:
		g.rights.WhiteKingSide = false
		g.rights.WhiteQueenSide = false
	case BlackKing:
		g.rights.BlackKingSide = false
		g.rights.BlackQueenSide = false
	}
	for _, sq := range [2]Square{m.From, m.To} {
		switch sq {
		case A1:
			g.rights.WhiteQueenSide = false
		case H1:
			g.rights.WhiteKingSide = false
		case A8:
			g.rights.BlackQueenSide = false
		case H8:
			g.rights.BlackKingSide = false
		}
	}
}

// PieceAt returns the occupant of sq, or Empty. It panics if sq is off the
// board.
func (g *GameState) PieceAt(sq Square) Piece {
	return g.board[sq.Row][sq.Col]
}

// Board returns a copy of the grid.
func (g *GameState) Board() Grid {
	return g.board
}

// SideToMove returns the color whose turn it is.
func (g *GameState) SideToMove() Color {
	return g.sideToMove
}

// WhiteToMove reports whether it is white's turn.
func (g *GameState) WhiteToMove() bool {
	return g.sideToMove == White
}

// KingSquare returns where the king of color c stands.
func (g *GameState) KingSquare(c Color) Square {
	return g.kingSquare[c]
}

// Checkmate reports the flag set by the last ValidMoves call.
func (g *GameState) Checkmate() bool {
	return g.checkmate
}

// Stalemate reports the flag set by the last ValidMoves call.
func (g *GameState) Stalemate() bool {
	return g.stalemate
}

// EnPassantTarget returns the square a pawn skipped on the last move, or
// NoSquare.
func (g *GameState) EnPassantTarget() Square {
	return g.enPassant
}

// CastleRights returns the current castling rights.
func (g *GameState) CastleRights() CastleRights {
	return g.rights
}

// MoveLog returns a copy of the moves played so far.
func (g *GameState) MoveLog() []Move {
	return append([]Move(nil), g.moveLog...)
}

// LastMove returns the most recent move, or NoMove.
func (g *GameState) LastMove() Move {
	if len(g.moveLog) == 0 {
		return NoMove
	}
	return g.moveLog[len(g.moveLog)-1]
}

// StartFEN returns the FEN of the position the game started from.
func (g *GameState) StartFEN() string {
	return g.startFEN
}

// String returns a visual representation of the position.
func (g *GameState) String() string {
	var sb strings.Builder
	sb.WriteString("\n")
	for row := 0; row < 8; row++ {
		fmt.Fprintf(&sb, "%d  ", 8-row)
		for col := 0; col < 8; col++ {
			p := g.board[row][col]
			if p == Empty {
				sb.WriteString(". ")
			} else {
				sb.WriteString(p.String() + " ")
			}
		}
		sb.WriteString("\n")
	}
	sb.WriteString("\n   a b c d e f g h\n\n")
	fmt.Fprintf(&sb, "Side to move: %s\n", g.sideToMove)
	fmt.Fprintf(&sb, "Castling: %s\n", g.rights)
	fmt.Fprintf(&sb, "En passant: %s\n", g.enPassant)
	fmt.Fprintf(&sb, "FEN: %s\n", g.ToFEN())
	return sb.String()
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
