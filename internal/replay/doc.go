// Package replay records games to disk and reads them back.
//
// A replay file is a sequence of varint length-delimited protobuf frames:
// ReplayHeader, StartRequest and StartResponse, followed by one ActRequest
// and ActResponse pair per turn. Files are named
// "<user> - <yyyymmdd-hhmmss> - <game id>.swoq".
//
// A Recorder never blocks its caller on file I/O. Turns are queued and
// written by a single goroutine; Finalize waits for the queue to drain.
package replay
