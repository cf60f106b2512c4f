// Package session implements the client side of the Swoq game protocol.
//
// A Client validates its configuration and owns a transport Channel until
// Start creates a game; the channel then moves to the returned Game, which
// runs the per-turn exchange:
//
//	client, err := session.Connect(ctx, cfg)
//	g, err := client.Start(ctx, game.StartRequest{Level: game.Int32(1)})
//	for g.Active() {
//		err = g.Act(ctx, game.ActionMoveEast)
//	}
//	g.Close(ctx)
//
// A Game is Active until the server reports a terminal status or the caller
// closes it. Terminal is absorbing: every later Act fails without touching
// the channel.
package session
