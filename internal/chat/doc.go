// Package chat implements the connection registry and broadcast engine of the
// LAN chat relay.
//
// The package is transport-agnostic. A transport accepts a peer, hands the
// Router an Outbox for it, feeds every inbound frame to Router.Handle and
// finally calls Router.Disconnect exactly once when the peer goes away. The
// Router drives the Registry (the single source of truth for occupancy and
// nicknames) and the Broadcaster (the only place notifications are
// serialized).
package chat
