package notation

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// MovePair is one numbered row of the transcript. Either side may be
// absent (empty string) when the scoresheet ran out of moves on one side
// or a column failed OCR; an absent side is never an error.
type MovePair struct {
	MoveNumber int    `json:"move_number"`
	White      string `json:"white,omitempty"`
	Black      string `json:"black,omitempty"`
}

// ColumnMoves is one physical column's move array keyed by its zero-based
// column index. Even indices hold white moves, odd indices black moves;
// a second pair of columns continues the same game further down the sheet.
type ColumnMoves struct {
	ColumnIndex int      `json:"columnIndex"`
	Moves       []string `json:"moves"`
}

// GameTags is the PGN tag block. Zero values render as the defaults:
// today's date, no round, "?" players, result "*".
type GameTags struct {
	Date   string `json:"date,omitempty"`
	Round  string `json:"round,omitempty"`
	White  string `json:"white,omitempty"`
	Black  string `json:"black,omitempty"`
	Result string `json:"result,omitempty"`
}

// AssembleColumns merges per-column move arrays into white and black
// sequences. Columns must be in left-to-right sheet order; even positions
// are white, odd are black, and same-colored columns concatenate.
func AssembleColumns(columns [][]string) (white, black []string) {
	for i, moves := range columns {
		if i%2 == 0 {
			white = append(white, moves...)
		} else {
			black = append(black, moves...)
		}
	}
	return white, black
}

// AssembleIndexed merges explicitly indexed column arrays, as produced by
// a single whole-sheet OCR response. Columns are sorted by index first;
// the even/odd convention is the same as AssembleColumns.
func AssembleIndexed(columns []ColumnMoves) (white, black []string) {
	ordered := append([]ColumnMoves(nil), columns...)
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].ColumnIndex < ordered[j].ColumnIndex
	})
	for _, c := range ordered {
		if c.ColumnIndex%2 == 0 {
			white = append(white, c.Moves...)
		} else {
			black = append(black, c.Moves...)
		}
	}
	return white, black
}

// PairMoves zips white and black sequences into numbered pairs. The
// sequences may differ in length; the shorter side simply leaves its half
// of the trailing pairs empty.
func PairMoves(white, black []string) []MovePair {
	n := len(white)
	if len(black) > n {
		n = len(black)
	}
	pairs := make([]MovePair, 0, n)
	for i := 0; i < n; i++ {
		pair := MovePair{MoveNumber: i + 1}
		if i < len(white) {
			pair.White = white[i]
		}
		if i < len(black) {
			pair.Black = black[i]
		}
		pairs = append(pairs, pair)
	}
	return pairs
}

// RenderPGN renders pairs as PGN text: the tag block, a blank line, then
// one line per non-empty pair ('{n}. {white}' when white is present, the
// black move on the same line), terminated by the literal " *".
func RenderPGN(pairs []MovePair, tags GameTags) string {
	if tags.Date == "" {
		tags.Date = time.Now().Format("2006.01.02")
	}
	if tags.White == "" {
		tags.White = "?"
	}
	if tags.Black == "" {
		tags.Black = "?"
	}
	if tags.Result == "" {
		tags.Result = "*"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "[Date %q]\n", tags.Date)
	if tags.Round != "" {
		fmt.Fprintf(&b, "[Round %q]\n", tags.Round)
	}
	fmt.Fprintf(&b, "[White %q]\n", tags.White)
	fmt.Fprintf(&b, "[Black %q]\n", tags.Black)
	fmt.Fprintf(&b, "[Result %q]\n", tags.Result)
	b.WriteString("\n")

	var lines []string
	for _, pair := range pairs {
		var parts []string
		if pair.White != "" {
			parts = append(parts, fmt.Sprintf("%d. %s", pair.MoveNumber, pair.White))
		}
		if pair.Black != "" {
			parts = append(parts, pair.Black)
		}
		if len(parts) > 0 {
			lines = append(lines, strings.Join(parts, " "))
		}
	}
	b.WriteString(strings.Join(lines, "\n"))
	b.WriteString(" *")
	return b.String()
}
