package board

import "testing"

func TestPieceEncoding(t *testing.T) {
	var grid Grid
	if !grid[3][3].IsEmpty() || grid[3][3].Type() != None {
		t.Fatal("zero Piece is not Empty")
	}

	for _, c := range []byte("PNBRQKpnbrqk") {
		p := PieceFromChar(c)
		if p.IsEmpty() {
			t.Fatalf("PieceFromChar(%c) = Empty", c)
		}
		if got := p.String(); got != string(c) {
			t.Errorf("PieceFromChar(%c).String() = %s", c, got)
		}
		if back := NewPiece(p.Type(), p.Color()); back != p {
			t.Errorf("NewPiece(%s, %s) = %d, want %d", p.Type(), p.Color(), back, p)
		}
	}

	tests := []struct {
		p     Piece
		pt    PieceType
		color Color
	}{
		{WhitePawn, Pawn, White},
		{WhiteKing, King, White},
		{BlackKnight, Knight, Black},
		{BlackQueen, Queen, Black},
	}
	for _, tc := range tests {
		if tc.p.Type() != tc.pt || tc.p.Color() != tc.color {
			t.Errorf("%s: got %s %s, want %s %s", tc.p, tc.p.Color(), tc.p.Type(), tc.color, tc.pt)
		}
	}

	if NewPiece(None, Black) != Empty || PieceFromChar('x') != Empty || PieceFromChar('1') != Empty {
		t.Error("expected Empty")
	}
	if Empty.String() != " " || None.Letter() != ' ' || Knight.Letter() != 'N' {
		t.Error("unexpected letters")
	}
}
