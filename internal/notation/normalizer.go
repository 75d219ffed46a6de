package notation

import "strings"

// Substitution maps one source-script rune to its Latin replacement.
// Substitutions are ordered: the first matching pair wins.
type Substitution struct {
	From rune
	To   rune
}

// Normalizer transliterates OCR tokens from a source notation script into
// Latin algebraic notation.
//
// Each Normalizer owns its substitution tables, so a test double or a
// different source script can swap alphabets without touching any global
// state. The default tables transliterate Greek notation.
//
// The table is intentionally asymmetric: a bare Latin glyph that collides
// with two different source pieces (Latin "B" reads as either a bishop or
// a Greek beta queen) is resolved to exactly one of them, and only in
// promotion position where a piece letter is certain. This is a fixed
// policy, not a defect; symmetric mapping would make transliteration
// ambiguous.
type Normalizer struct {
	pairs     []Substitution
	promotion []Substitution
}

// NewNormalizer builds a normalizer for Greek-notation scoresheets.
func NewNormalizer() *Normalizer {
	return NewNormalizerWithTables(greekPairs(), greekPromotionPairs())
}

// NewNormalizerWithTables builds a normalizer with caller-supplied
// substitution tables. The general table applies to every character; the
// promotion table applies only to the character following "=".
func NewNormalizerWithTables(general, promotion []Substitution) *Normalizer {
	return &Normalizer{pairs: general, promotion: promotion}
}

// greekPairs is the general Greek-to-Latin table: pieces by their Greek
// initials (Rigas, Vasilissa, Pyrgos, Axiomatikos, Ippos), files alpha
// through theta, and capture glyph variants.
func greekPairs() []Substitution {
	return []Substitution{
		// Pieces
		{'Ρ', 'K'}, // rho: king
		{'Β', 'Q'}, // beta: queen
		{'Π', 'R'}, // pi: rook
		{'Α', 'B'}, // alpha: bishop
		{'Ι', 'N'}, // iota: knight
		// Files
		{'α', 'a'},
		{'β', 'b'},
		{'γ', 'c'},
		{'δ', 'd'},
		{'ε', 'e'},
		{'ζ', 'f'},
		{'η', 'g'},
		{'θ', 'h'},
		// Capture and castling glyph variants
		{'χ', 'x'},
		{'Χ', 'x'},
		{'×', 'x'},
		{'Ο', 'O'}, // omicron read for castling O
		// Common OCR confusions of handwritten Greek files
		{'n', 'g'}, // eta written like Latin n
		{'u', 'g'}, // open-top eta
	}
}

// greekPromotionPairs extends the general table with bare-Latin piece
// glyphs that are only safe to resolve right after "=", where a piece
// letter is the only legal reading.
func greekPromotionPairs() []Substitution {
	return append(greekPairs(),
		Substitution{'B', 'Q'}, // Latin B after "=" is a beta queen
		Substitution{'P', 'K'},
		Substitution{'A', 'B'},
		Substitution{'I', 'N'},
	)
}

// Normalize transliterates a single token and applies notation fixups.
//
// The substitution table is applied left to right in a single pass, then
// castling zeros are rewritten to letter O, and for promotion tokens the
// character following "=" gets a second pass with the promotion table.
func (n *Normalizer) Normalize(token string) string {
	if token == "" {
		return token
	}

	var b strings.Builder
	b.Grow(len(token))
	for _, r := range token {
		b.WriteRune(substitute(n.pairs, r))
	}
	out := b.String()

	// Castling is written with zeros on most scoresheets.
	out = strings.ReplaceAll(out, "0-0-0", "O-O-O")
	out = strings.ReplaceAll(out, "0-0", "O-O")

	if i := strings.IndexByte(out, '='); i >= 0 {
		runes := []rune(out[i+1:])
		if len(runes) > 0 {
			runes[0] = substitute(n.promotion, runes[0])
			out = out[:i+1] + string(runes)
		}
	}
	return out
}

// NormalizeAll transliterates a column's move array, dropping tokens that
// normalize to nothing.
func (n *Normalizer) NormalizeAll(tokens []string) []string {
	out := make([]string, 0, len(tokens))
	for _, t := range tokens {
		normalized := n.Normalize(strings.TrimSpace(t))
		if normalized != "" {
			out = append(out, normalized)
		}
	}
	return out
}

func substitute(pairs []Substitution, r rune) rune {
	for _, p := range pairs {
		if p.From == r {
			return p.To
		}
	}
	return r
}
