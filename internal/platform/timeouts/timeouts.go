// Package timeouts defines the default durations shared by the bot and replay
// commands.
package timeouts

import "time"

// GRPCDial caps the wait time when dialing the game server.
const GRPCDial = 2 * time.Second

// Turn caps a single Start or Act exchange with the game server.
const Turn = 2 * time.Second

// QueueRetry is the pause between Start attempts while a quest is queued.
const QueueRetry = 2 * time.Second

// ReplayFinalize bounds how long a finished game waits for its replay to flush.
const ReplayFinalize = 5 * time.Second

// Shutdown limits how long a command waits for telemetry to flush on exit.
const Shutdown = 5 * time.Second
