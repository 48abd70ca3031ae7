// Package connection implements the Connection Manager component.
//
// The Connection Manager:
//   - Owns the single live WebSocket to the event endpoint
//   - Sends the session auth frame once per successful open
//   - Delivers inbound frames, in transport order, to one frame handler
//   - Recovers from unexpected closes with exactly one pending retry timer
//
// The socket handle and the retry timer are exclusively owned here; every
// state transition funnels through Connect, Disconnect, or the internal
// open/close/timer paths.
package connection
