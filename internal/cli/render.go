package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/term"

	"github.com/hailam/chessai/internal/board"
)

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// palette colours the squares of the board. A nil palette prints plain text.
type palette struct {
	light, dark, lastMove *color.Color
	white, black          *color.Color
}

func newPalette() *palette {
	p := &palette{
		light:    color.New(color.BgHiWhite),
		dark:     color.New(color.BgGreen),
		lastMove: color.New(color.BgYellow),
		white:    color.New(color.FgHiBlue, color.Bold),
		black:    color.New(color.FgBlack, color.Bold),
	}
	// color disables itself when stdout is not a terminal; the caller has
	// already decided.
	for _, c := range []*color.Color{p.light, p.dark, p.lastMove, p.white, p.black} {
		c.EnableColor()
	}
	return p
}

// renderBoard writes the board from white's side, rank 8 on top. The squares
// of the last move are highlighted.
func renderBoard(w io.Writer, g *board.GameState, p *palette) {
	last := g.LastMove()
	var sb strings.Builder

	for row := 0; row < 8; row++ {
		fmt.Fprintf(&sb, " %d ", 8-row)
		for col := 0; col < 8; col++ {
			sq := board.NewSquare(row, col)
			piece := g.PieceAt(sq)

			text := " . "
			if !piece.IsEmpty() {
				text = " " + piece.String() + " "
			}
			if p == nil {
				sb.WriteString(text)
				continue
			}

			if !piece.IsEmpty() {
				fg := p.white
				if piece.Color() == board.Black {
					fg = p.black
				}
				text = fg.Sprint(text)
			}
			bg := p.light
			if (row+col)%2 == 1 {
				bg = p.dark
			}
			if last != board.NoMove && (sq == last.From || sq == last.To) {
				bg = p.lastMove
			}
			sb.WriteString(bg.Sprint(text))
		}
		sb.WriteString("\n")
	}
	sb.WriteString("    a  b  c  d  e  f  g  h\n")

	fmt.Fprint(w, sb.String())
}
