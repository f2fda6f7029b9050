// Package protocol defines the wire frames for state synchronization.
//
// Frames are JSON envelopes with a type tag and a payload:
//
//	{"type":"dispatch","payload":{"seq":3,"action":"INCREMENT"}}
//
// The protocol is deliberately small. A client says hello, the server
// answers with a state frame and pushes a new one after every committed
// transition, the client sends dispatch frames, and rejections come back
// as error frames carrying a stable error code.
package protocol
