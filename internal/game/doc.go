// Package game defines the value types exchanged with a Swoq game server:
// start and act messages, authoritative state snapshots, and the closed
// enumerations (status, directed actions, tiles, results) they carry.
//
// Enum String methods return the protocol names used on the wire, so log
// lines and replay dumps read the same as the server's own output.
package game
