// Package event defines the wire-level message shapes exchanged over the
// real-time event stream.
//
// Inbound frames are JSON envelopes tagged with a type string. The set of
// known types is closed but decoding tolerates unknown values so that new
// event kinds can ship server-side without breaking older clients.
package event
