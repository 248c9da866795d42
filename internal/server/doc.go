// Package server implements the WebSocket transport of the LAN chat relay.
//
// The implementation is organized into specialized files for hub
// management, clients, origin checks, rate limiting, routing and HTTP
// handlers. The chat semantics themselves live in package chat; this
// package only accepts peers, pumps frames in and out, and guarantees that
// every connection ends in exactly one Router.Disconnect call.
package server
