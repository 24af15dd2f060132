package board

// genMode selects what the pseudo-legal generator emits.
type genMode uint8

const (
	// genMoves emits moves the side to move could play, ignoring king safety.
	genMoves genMode = iota
	// genAttacks emits the squares the side to move attacks: pawns produce
	// both diagonals whatever is on them and never push.
	genAttacks
)

var (
	rookDirections   = [4][2]int{{-1, 0}, {0, -1}, {1, 0}, {0, 1}}
	bishopDirections = [4][2]int{{-1, -1}, {-1, 1}, {1, -1}, {1, 1}}
	knightOffsets    = [8][2]int{{2, -1}, {2, 1}, {-2, 1}, {-2, -1}, {1, -2}, {1, 2}, {-1, -2}, {-1, 2}}
	kingOffsets      = [8][2]int{{0, -1}, {0, 1}, {1, 0}, {-1, 0}, {-1, -1}, {1, 1}, {1, -1}, {-1, 1}}
)

// AllPossibleMoves generates the pseudo-legal moves of the side to move.
// Castling is not included; ValidMoves adds it after filtering.
func (g *GameState) AllPossibleMoves() []Move {
	return g.generate(make([]Move, 0, 64), genMoves)
}

// generate scans the grid and appends candidates for every piece of the
// side to move.
func (g *GameState) generate(moves []Move, mode genMode) []Move {
	us := g.sideToMove
	for r := 0; r < 8; r++ {
		for c := 0; c < 8; c++ {
			p := g.board[r][c]
			if p == Empty || p.Color() != us {
				continue
			}
			moves = g.pieceMoves(moves, Square{r, c}, p.Type(), mode)
		}
	}
	return moves
}

// pieceMoves dispatches on piece type.
func (g *GameState) pieceMoves(moves []Move, from Square, pt PieceType, mode genMode) []Move {
	switch pt {
	case Pawn:
		if mode == genAttacks {
			return g.pawnAttacks(moves, from)
		}
		return g.pawnMoves(moves, from)
	case Knight:
		return g.stepMoves(moves, from, knightOffsets[:])
	case Bishop:
		return g.slideMoves(moves, from, bishopDirections[:])
	case Rook:
		return g.slideMoves(moves, from, rookDirections[:])
	case Queen:
		moves = g.slideMoves(moves, from, bishopDirections[:])
		return g.slideMoves(moves, from, rookDirections[:])
	case King:
		return g.stepMoves(moves, from, kingOffsets[:])
	}
	return moves
}

// pawnDirection returns the row delta, start row and enemy color for the
// pawns of the side to move.
func (g *GameState) pawnDirection() (dir, startRow int, enemy Color) {
	if g.sideToMove == White {
		return -1, 6, Black
	}
	return 1, 1, White
}

func (g *GameState) pawnMoves(moves []Move, from Square) []Move {
	dir, startRow, enemy := g.pawnDirection()
	r, c := from.Row, from.Col

	one := r + dir
	if !onBoard(one, c) {
		return moves
	}

	if g.board[one][c] == Empty {
		moves = append(moves, newMove(from, Square{one, c}, &g.board))
		two := r + 2*dir
		if r == startRow && g.board[two][c] == Empty {
			moves = append(moves, newMove(from, Square{two, c}, &g.board))
		}
	}

	for _, dc := range [2]int{-1, 1} {
		tc := c + dc
		if tc < 0 || tc > 7 {
			continue
		}
		to := Square{one, tc}
		target := g.board[one][tc]
		if target != Empty && target.Color() == enemy {
			moves = append(moves, newMove(from, to, &g.board))
		} else if to == g.enPassant {
			moves = append(moves, newEnPassant(from, to, &g.board))
		}
	}
	return moves
}

func (g *GameState) pawnAttacks(moves []Move, from Square) []Move {
	dir, _, _ := g.pawnDirection()
	one := from.Row + dir
	for _, dc := range [2]int{-1, 1} {
		tc := from.Col + dc
		if onBoard(one, tc) {
			moves = append(moves, newMove(from, Square{one, tc}, &g.board))
		}
	}
	return moves
}

// slideMoves walks each ray up to the first occupied square, which is
// included only when it holds an enemy piece.
func (g *GameState) slideMoves(moves []Move, from Square, dirs [][2]int) []Move {
	us := g.sideToMove
	for _, d := range dirs {
		for i := 1; i < 8; i++ {
			r := from.Row + d[0]*i
			c := from.Col + d[1]*i
			if !onBoard(r, c) {
				break
			}
			target := g.board[r][c]
			if target == Empty {
				moves = append(moves, newMove(from, Square{r, c}, &g.board))
				continue
			}
			if target.Color() != us {
				moves = append(moves, newMove(from, Square{r, c}, &g.board))
			}
			break
		}
	}
	return moves
}

// stepMoves handles knights and kings: fixed offsets onto squares not held
// by a friendly piece.
func (g *GameState) stepMoves(moves []Move, from Square, offsets [][2]int) []Move {
	us := g.sideToMove
	for _, o := range offsets {
		r := from.Row + o[0]
		c := from.Col + o[1]
		if !onBoard(r, c) {
			continue
		}
		target := g.board[r][c]
		if target == Empty || target.Color() != us {
			moves = append(moves, newMove(from, Square{r, c}, &g.board))
		}
	}
	return moves
}
