// Package database provides the PostgreSQL connection pool and the
// LISTEN/NOTIFY listener that feeds the event stream.
//
// The dashboard's CRUD layer emits events via NOTIFY on a single channel;
// the stream server listens on that channel and fans the frames out to
// connected dashboard sessions. Nothing here stores or replays events.
package database
