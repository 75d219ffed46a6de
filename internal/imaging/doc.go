// Package imaging provides the pixel-level primitives for scoresheet
// segmentation: image loading/caching, regions and cropping, binary ink
// masks, and 1-D projection profiles.
//
// All operations work with standard Go image.Image types and use a
// coordinate system where (0,0) is at the top-left corner, X increases
// rightward, and Y increases downward.
//
// # Value Semantics
//
// Source images are read-only throughout analysis. Cropping produces new
// images, profiles and masks are freshly allocated per call, and Smooth
// returns a new profile rather than mutating its receiver. Nothing in
// this package shares mutable state across requests.
//
// # Ink Rules
//
// Projection profiles and ink masks are parameterized by an InkRule, a
// predicate over the 8-bit grayscale value of a pixel. Callers choose the
// threshold and polarity: table-edge detection and column detection pass
// different rules over the same primitives.
//
// # Thread Safety
//
// ImageCache is safe for concurrent use. All other operations are pure
// functions of their inputs and can run concurrently on different images
// without coordination.
package imaging
