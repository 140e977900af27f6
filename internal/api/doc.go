// Package api defines the matchbox.v1.MatchboxService gRPC contract.
//
// Messages travel as google.protobuf.Struct values carrying the JSON form of
// the request and response types in this package, so no generated code is
// needed on either side. Timestamps are RFC 3339 strings.
package api
