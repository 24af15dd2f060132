package board

// Status is the state of a game session as of the last ValidMoves call.
type Status uint8

const (
	InProgress Status = iota
	Checkmate
	Stalemate
)

// String returns the status name.
func (s Status) String() string {
	switch s {
	case Checkmate:
		return "Checkmate"
	case Stalemate:
		return "Stalemate"
	default:
		return "InProgress"
	}
}

// Status derives the session state from the terminal flags.
func (g *GameState) Status() Status {
	switch {
	case g.checkmate:
		return Checkmate
	case g.stalemate:
		return Stalemate
	default:
		return InProgress
	}
}

// SquareUnderAttack reports whether the opponent of the side to move
// attacks sq. It costs one full pseudo-legal generation.
func (g *GameState) SquareUnderAttack(sq Square) bool {
	g.sideToMove = g.sideToMove.Other()
	attacks := g.generate(make([]Move, 0, 64), genAttacks)
	g.sideToMove = g.sideToMove.Other()

	for _, m := range attacks {
		if m.To == sq {
			return true
		}
	}
	return false
}

// InCheck returns true if the side to move is in check.
func (g *GameState) InCheck() bool {
	return g.SquareUnderAttack(g.kingSquare[g.sideToMove])
}

// ValidMoves returns the legal moves for the side to move and sets the
// checkmate and stalemate flags. Call it once per turn before reading the
// flags.
func (g *GameState) ValidMoves() []Move {
	savedEP := g.enPassant
	savedRights := g.rights
	defer func() {
		g.enPassant = savedEP
		g.rights = savedRights
	}()

	candidates := g.AllPossibleMoves()
	legal := candidates[:0]
	for _, m := range candidates {
		exposed := false
		g.Simulate(m, func() {
			// Look from the mover's side: is its own king attacked now?
			g.sideToMove = g.sideToMove.Other()
			exposed = g.InCheck()
			g.sideToMove = g.sideToMove.Other()
		})
		if !exposed {
			legal = append(legal, m)
		}
	}

	if len(legal) == 0 {
		inCheck := g.InCheck()
		g.checkmate = inCheck
		g.stalemate = !inCheck
	} else {
		g.checkmate = false
		g.stalemate = false
	}

	return g.castleMoves(legal)
}

// castleMoves appends the castling moves available to the side to move.
func (g *GameState) castleMoves(moves []Move) []Move {
	us := g.sideToMove
	home, rookHome := E1, [2]Square{H1, A1}
	if us == Black {
		home, rookHome = E8, [2]Square{H8, A8}
	}
	rook := NewPiece(Rook, us)

	ks := g.kingSquare[us]
	if ks != home || g.SquareUnderAttack(ks) {
		return moves
	}

	if g.rights.CanCastle(us, true) && g.PieceAt(rookHome[0]) == rook {
		moves = g.kingSideCastle(moves, ks)
	}
	if g.rights.CanCastle(us, false) && g.PieceAt(rookHome[1]) == rook {
		moves = g.queenSideCastle(moves, ks)
	}
	return moves
}

func (g *GameState) kingSideCastle(moves []Move, ks Square) []Move {
	r, c := ks.Row, ks.Col
	if g.board[r][c+1] != Empty || g.board[r][c+2] != Empty {
		return moves
	}
	if g.SquareUnderAttack(Square{r, c + 1}) || g.SquareUnderAttack(Square{r, c + 2}) {
		return moves
	}
	return append(moves, newCastle(ks, Square{r, c + 2}, &g.board))
}

// queenSideCastle needs three empty squares but only the two the king
// crosses must be safe.
func (g *GameState) queenSideCastle(moves []Move, ks Square) []Move {
	r, c := ks.Row, ks.Col
	if g.board[r][c-1] != Empty || g.board[r][c-2] != Empty || g.board[r][c-3] != Empty {
		return moves
	}
	if g.SquareUnderAttack(Square{r, c - 1}) || g.SquareUnderAttack(Square{r, c - 2}) {
		return moves
	}
	return append(moves, newCastle(ks, Square{r, c - 2}, &g.board))
}
