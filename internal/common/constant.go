// Package common contains shared constants and sentinel errors used across
// Matchbox components.
package common

// AccessTokenHeaderName is the gRPC metadata key used to carry the
// access token on outbound requests.
const AccessTokenHeaderName = "access_token"

// LedgerStateKey is the namespaced key the server persists the ledger
// snapshot under.
const LedgerStateKey = "matchbox:ledger"

// ClientStateKey is the key the CLI keeps its deck and passed lists under.
const ClientStateKey = "match_demo_state"

// AudioContentType is the media type audio clips are stored with.
const AudioContentType = "audio/webm"
