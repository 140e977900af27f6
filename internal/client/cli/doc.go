// Package cli provides the interactive Matchbox command-line client.
//
// It wires configuration, local deck storage, the gRPC client, the capture
// device and a REPL. Typical flow: sign in as a mock actor, browse today's
// matches, save or pass them, and act on save records (reveal, replies,
// messages, audio) from either side of the save.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// A background watcher keeps App.Mode() in sync with server reachability.
package cli
