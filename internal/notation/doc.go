// Package notation turns raw per-column OCR tokens into a canonical move
// transcript: transliteration from the scoresheet's source script to Latin
// algebraic notation, pairing of white and black sequences, and PGN
// rendering.
//
// Assembly never fails. A move missing on either side of a pair stays
// empty rather than raising an error, so a sheet with a failed column
// still produces a best-effort transcript with gaps.
package notation
