// Package record exports a game session as PGN.
package record

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/notnil/chess"

	"github.com/hailam/chessai/internal/board"
)

// ErrReplay is returned when the move log cannot be replayed.
var ErrReplay = errors.New("record: move log does not replay")

// Tag is a PGN tag pair.
type Tag struct {
	Key   string
	Value string
}

// DefaultTags returns the seven-tag roster with placeholder values.
func DefaultTags(white, black string) []Tag {
	return []Tag{
		{"Event", "Casual game"},
		{"Site", "?"},
		{"Date", time.Now().Format("2006.01.02")},
		{"Round", "-"},
		{"White", white},
		{"Black", black},
	}
}

// Result returns the PGN result token for the session. g's flags must be
// current, i.e. ValidMoves was called after the last move.
func Result(g *board.GameState) string {
	switch g.Status() {
	case board.Checkmate:
		if g.WhiteToMove() {
			return "0-1"
		}
		return "1-0"
	case board.Stalemate:
		return "1/2-1/2"
	default:
		return "*"
	}
}

// Replay rebuilds g's move log as a chess.Game, starting from the position
// the session was set up with.
func Replay(g *board.GameState) (*chess.Game, error) {
	var opts []func(*chess.Game)
	if g.StartFEN() != board.StartFEN {
		fen, err := chess.FEN(g.StartFEN())
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrReplay, err)
		}
		opts = append(opts, fen)
	}
	game := chess.NewGame(opts...)

	for i, m := range g.MoveLog() {
		cm := findMove(game, m)
		if cm == nil {
			return nil, fmt.Errorf("%w: ply %d (%s)", ErrReplay, i+1, m)
		}
		if err := game.Move(cm); err != nil {
			return nil, fmt.Errorf("%w: ply %d: %v", ErrReplay, i+1, err)
		}
	}
	return game, nil
}

func findMove(game *chess.Game, m board.Move) *chess.Move {
	from, to := m.From.String(), m.To.String()
	for _, cm := range game.ValidMoves() {
		if cm.S1().String() != from || cm.S2().String() != to {
			continue
		}
		if cm.Promo() != chess.NoPieceType && cm.Promo() != chess.Queen {
			continue
		}
		return cm
	}
	return nil
}

// PGN renders g as a PGN document. A session set up from a FEN gets the
// SetUp and FEN tags. The result token is always Result(g), not the draw
// adjudication notnil/chess applies on replay.
func PGN(g *board.GameState, tags ...Tag) (string, error) {
	if _, err := Replay(g); err != nil {
		return "", err
	}
	sans, err := g.SANLog()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrReplay, err)
	}
	result := Result(g)

	all := make([]Tag, 0, len(tags)+3)
	all = append(all, tags...)
	if g.StartFEN() != board.StartFEN {
		all = append(all, Tag{"SetUp", "1"}, Tag{"FEN", g.StartFEN()})
	}
	all = append(all, Tag{"Result", result})

	var sb strings.Builder
	for _, t := range all {
		fmt.Fprintf(&sb, "[%s \"%s\"]\n", t.Key, tagEscaper.Replace(t.Value))
	}
	sb.WriteByte('\n')
	writeMovetext(&sb, append(numbered(g.StartFEN(), sans), result))
	return sb.String(), nil
}

var tagEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

// numbered prefixes move numbers to sans, counting from the side and move
// number in fen.
func numbered(fen string, sans []string) []string {
	fields := strings.Fields(fen)
	num := 1
	if len(fields) > 5 {
		if n, err := strconv.Atoi(fields[5]); err == nil && n > 0 {
			num = n
		}
	}
	white := len(fields) < 2 || fields[1] == "w"

	tokens := make([]string, 0, len(sans)+len(sans)/2+1)
	for i, san := range sans {
		switch {
		case white:
			tokens = append(tokens, strconv.Itoa(num)+".", san)
		case i == 0:
			tokens = append(tokens, strconv.Itoa(num)+"...", san)
			num++
		default:
			tokens = append(tokens, san)
			num++
		}
		white = !white
	}
	return tokens
}

// writeMovetext joins tokens with spaces, wrapping lines at 80 columns.
func writeMovetext(sb *strings.Builder, tokens []string) {
	col := 0
	for _, tok := range tokens {
		switch {
		case col == 0:
		case col+1+len(tok) > 80:
			sb.WriteByte('\n')
			col = 0
		default:
			sb.WriteByte(' ')
			col++
		}
		sb.WriteString(tok)
		col += len(tok)
	}
	sb.WriteByte('\n')
}
