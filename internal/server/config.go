package server

import (
	"time"

	"bombernet/internal/wire"
)

// Config is every server-side parameter spec.md §6 lists as required, plus
// the optional seed. CLI parsing (cmd/bombserver) and optional JSON
// defaults (internal/config) both populate one of these; the simulation
// itself never touches a flag or a file.
type Config struct {
	ServerName      string
	Port            int
	PlayersCount    uint8
	SizeX           uint16
	SizeY           uint16
	GameLength      uint16
	ExplosionRadius uint16
	BombTimer       uint16
	InitialBlocks   uint16
	TurnDuration    time.Duration
	Seed            uint32
}

// GameParams projects the wire-visible subset of Config carried in Hello,
// GameStarted's implicit context, and every Lobby Draw.
func (c Config) GameParams() wire.GameParams {
	return wire.GameParams{
		ServerName:      c.ServerName,
		PlayersCount:    c.PlayersCount,
		SizeX:           c.SizeX,
		SizeY:           c.SizeY,
		GameLength:      c.GameLength,
		ExplosionRadius: c.ExplosionRadius,
		BombTimer:       c.BombTimer,
	}
}
