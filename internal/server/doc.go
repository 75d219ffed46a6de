// Package server implements the MCP (Model Context Protocol) server for
// scoresheet transcription tools.
//
// This package provides a JSON-RPC 2.0 server that exposes the
// segmentation and transcription pipeline through the MCP protocol, so
// MCP-compatible clients can transcribe scoresheet photos or inspect the
// pipeline's intermediate results step by step.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
// Sheet Information:
//   - sheet_load: Load a scoresheet photo and get metadata
//
// Segmentation:
//   - sheet_locate_table: Find the notation table rectangle
//   - sheet_detect_columns: Partition the table into move columns
//   - sheet_crop_column: Extract one column as base64 PNG
//
// Notation:
//   - sheet_normalize_tokens: Transliterate raw OCR tokens
//   - sheet_render_pgn: Assemble move arrays into PGN
//
// Transcription:
//   - sheet_transcribe: Full photo-to-PGN pipeline
//
// # Image Caching
//
// The server maintains an in-memory cache of loaded images, keyed by
// path and reused across tool calls for the lifetime of the process, so
// the usual locate/detect/crop/transcribe sequence decodes a photo once.
package server
