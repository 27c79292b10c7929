// Package wintype defines the closed set of manifest in-types and the facts the
// generator derives from them.
//
// Each Type maps to exactly one name ("win:UInt32"), one prototype type text
// ("const unsigned int") and one struct member type ("unsigned int"). Names
// outside the enumeration are rejected by Parse rather than defaulted.
//
// # Size Rules
//
// Estimate and Exact compute byte counts for a sequence of types:
//   - Numerics, Boolean and Binary: fixed width (UInt8=1, UInt16=2, UInt32=4, UInt64=8)
//   - GUID: always 16 bytes
//   - Pointer: 8 bytes when estimating, counted separately by Exact
//   - AnsiString=32, UnicodeString=64, Struct=32 when estimating; no exact size
//
// Template sizes are clamped to [MinEstimate, MaxEstimate] with Clamp.
package wintype
