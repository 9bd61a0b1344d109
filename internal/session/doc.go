// Package session owns the message-synchronization reliability core.
//
// Ownership boundary:
// - sequencing, acknowledgment tracking, and bounded retry
// - outbound queueing while disconnected
// - inbound deduplication
// - heartbeat/latency probing and connection quality
// - connection state machine and reconnection supervision
package session
