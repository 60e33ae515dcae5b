// Package client implements the client proxy (§4.4): it mediates between
// the server's authoritative event stream and a local rendering/input UI
// reached only through UDP Input/Draw datagrams.
package client

// Config is every client-side parameter spec.md §6 lists as required.
type Config struct {
	GUIAddress    string // host:port of the local UI, last ':' splits
	PlayerName    string
	Port          int // UDP port the client listens on for UI input
	ServerAddress string
}
