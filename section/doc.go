// Package section defines the low-level binary record types stored in a
// timeline's two mapped files.
//
// Every type here is fixed-size and endian-explicit, with an Encode/Decode
// pair kept free of any timeline algorithm. There are two record types:
//
//  1. Bucket (the "_.d" file): one fixed-width accumulation window, with
//     its prefix sums.
//  2. IndexEntry (the "_.i" file): a sparse (time, pos) breakpoint into the
//     bucket array, with an IndexHeader carrying the timeline's resolution.
//
// Both are wired into internal/mmio.Array via HeaderCodec/RecordCodec
// value structs rather than through an interface, so encode/decode stays a
// direct slice write with no allocation or dynamic dispatch.
package section
