package board

// Color is a side: White or Black.
type Color uint8

const (
	White Color = iota
	Black
)

// Other returns the opposite color.
func (c Color) Other() Color {
	return c ^ 1
}

func (c Color) String() string {
	if c == White {
		return "White"
	}
	return "Black"
}

// PieceType is the kind of a piece. None is the kind of an empty square.
type PieceType uint8

const (
	None PieceType = iota
	Pawn
	Knight
	Bishop
	Rook
	Queen
	King
)

const pieceLetters = " PNBRQK"

var pieceNames = [...]string{"None", "Pawn", "Knight", "Bishop", "Rook", "Queen", "King"}

func (pt PieceType) String() string {
	if int(pt) < len(pieceNames) {
		return pieceNames[pt]
	}
	return "None"
}

// Letter returns the upper-case SAN letter, or ' ' for None.
func (pt PieceType) Letter() byte {
	if int(pt) < len(pieceLetters) {
		return pieceLetters[pt]
	}
	return ' '
}

// Piece is the content of a square: a kind in the low three bits and the
// color in bit 3. The zero value is Empty, so a zero Grid is an empty board.
type Piece uint8

const Empty Piece = 0

const (
	WhitePawn Piece = iota + 1
	WhiteKnight
	WhiteBishop
	WhiteRook
	WhiteQueen
	WhiteKing
)

const (
	BlackPawn Piece = iota + 9
	BlackKnight
	BlackBishop
	BlackRook
	BlackQueen
	BlackKing
)

// NewPiece returns the piece of kind pt and color c. NewPiece(None, c) is
// Empty.
func NewPiece(pt PieceType, c Color) Piece {
	if pt == None || pt > King {
		return Empty
	}
	return Piece(c&1)<<3 | Piece(pt)
}

// Type returns the kind of the piece, None for Empty.
func (p Piece) Type() PieceType {
	return PieceType(p & 7)
}

// Color returns the color of the piece. It is White for Empty, so check
// IsEmpty first.
func (p Piece) Color() Color {
	return Color(p>>3) & 1
}

// IsEmpty reports whether p is Empty.
func (p Piece) IsEmpty() bool {
	return p.Type() == None
}

// String returns the FEN letter, upper case for white, or " " for Empty.
func (p Piece) String() string {
	b := p.Type().Letter()
	if p.Color() == Black {
		b += 'a' - 'A'
	}
	if p.IsEmpty() {
		b = ' '
	}
	return string(b)
}

// PieceFromChar converts a FEN letter to a Piece, or Empty if c is not one.
func PieceFromChar(c byte) Piece {
	color := White
	if c >= 'a' && c <= 'z' {
		color = Black
		c -= 'a' - 'A'
	}
	for pt := Pawn; pt <= King; pt++ {
		if pieceLetters[pt] == c {
			return NewPiece(pt, color)
		}
	}
	return Empty
}
