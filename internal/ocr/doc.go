// Package ocr defines the character-recognition collaborator of the
// transcription pipeline and its default Tesseract implementation.
//
// The segmentation core does not recognize characters itself: it hands
// each cropped move column to a ColumnReader and receives raw move tokens
// back. How the reader is implemented (Tesseract, a vision LLM, a test
// fake) is invisible to the pipeline.
//
// # Prerequisites
//
// The default reader requires Tesseract on the system:
//   - Ubuntu/Debian: apt-get install tesseract-ocr tesseract-ocr-ell
//   - macOS: brew install tesseract tesseract-lang
//
// Greek scoresheets need the "ell" language data; plain Latin notation
// works with "eng".
//
// # Whole-Sheet Responses
//
// As an alternative to per-column calls, a single whole-image OCR call
// (typically a vision LLM) can return every column at once as JSON:
//
//	{"columns": [{"columnIndex": 0, "moves": ["ε4", "Ιζ3"]}, ...]}
//
// ParseSheetResponse decodes that shape into notation.ColumnMoves.
package ocr
