// Package protocol owns the atom wire contract and its codecs.
//
// Ownership boundary:
// - atom header decoding across the seven compression modes
// - per-data-type argument encoding
// - stream-tag framing of nested atom streams
//
// Atom identity (registry) and argument tokens (symbol tables) are consumed
// through the Registry and Symbols interfaces; see the schema and symbols
// subpackages for the concrete tables.
package protocol
