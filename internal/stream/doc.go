// Package stream serves the real-time event endpoint consumed by dashboard
// sessions.
//
// Events arrive from the database listener, pass through an in-memory hub,
// and fan out over WebSocket to every connected session. Each session must
// send its auth frame as the first inbound message. Delivery is best-effort:
// slow sessions drop events rather than backpressuring publishers, and
// nothing is persisted or replayed.
package stream
