// Package detection implements the geometric segmentation of a chess
// scoresheet photo: locating the notation table and partitioning it into
// per-move-column regions.
//
// # Pipeline
//
// Segmentation runs in three stages with strict data dependencies:
//
//  1. TableLocator finds the bounding rectangle of the handwritten table
//     (morphology first, edge profiles as fallback);
//  2. ColumnDetector proposes column boundaries inside that rectangle by
//     unioning three independent heuristics over one ink-density profile;
//  3. Selector turns the boundary list into the best run of C columns,
//     rejecting statistical outliers and falling back to equal division.
//
// # Graceful Degradation
//
// The stages never guess silently and never crash: every degenerate input
// has a deterministic fallback. The only fatal condition is a table that
// no enabled strategy can find (ErrTableNotFound); everything downstream
// of a located table always yields exactly C+1 boundaries, possibly from
// equal division, with the selection score recording how much confidence
// survived.
//
// # Tuning
//
// All thresholds live in Params with empirically tuned defaults; they are
// configuration rather than contract, and can be recalibrated from a YAML
// tuning file without touching the behavioral guarantees.
//
// # Coordinate System
//
// Internally the detectors work in region-relative coordinates; boundary
// lists are converted to image-absolute x positions at the package
// boundary. Origin (0,0) is the top-left corner, X increases rightward,
// Y increases downward.
//
// # Performance Considerations
//
// All algorithms are single-pass over the pixels of the analyzed region
// and bounded by image size; there are no iterative refinement loops.
// Two sheets can be segmented concurrently without coordination since no
// shared mutable state exists.
package detection
