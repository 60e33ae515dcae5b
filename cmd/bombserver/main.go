// Command bombserver runs the authoritative game server described in
// spec.md §4.3: lobby admission, the per-tick simulation, and broadcast
// fan-out of turn events to every connected peer.
package main

import (
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"time"

	"bombernet/internal/config"
	"bombernet/internal/server"
)

func main() {
	fs := flag.NewFlagSet("bombserver", flag.ContinueOnError)
	fs.Usage = func() {
		fmt.Fprintln(fs.Output(), "Usage of bombserver:")
		fs.PrintDefaults()
	}

	configPath := fs.String("config", "", "optional JSON file of defaults, overridden by any flag below")
	serverName := fs.String("server-name", "", "server name announced in Hello (required)")
	port := fs.Int("port", 0, "TCP port to listen on (required)")
	playersCount := fs.Uint("players-count", 0, "number of players to admit before starting (required)")
	sizeX := fs.Uint("size-x", 0, "board width (required)")
	sizeY := fs.Uint("size-y", 0, "board height (required)")
	gameLength := fs.Uint("game-length", 0, "number of turns per game (required)")
	explosionRadius := fs.Uint("explosion-radius", 0, "bomb blast radius (required)")
	bombTimer := fs.Uint("bomb-timer", 0, "ticks before a placed bomb explodes (required)")
	initialBlocks := fs.Uint("initial-blocks", 0, "blocks placed at game start (required)")
	turnDurationMs := fs.Uint("turn-duration", 0, "milliseconds per tick (required)")
	seed := fs.Uint("seed", 0, "RNG seed (defaults to a clock-derived value)")

	if err := fs.Parse(os.Args[1:]); err != nil {
		if err == flag.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	explicit := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { explicit[f.Name] = true })

	var defaults config.ServerDefaults
	if *configPath != "" {
		d, err := config.LoadServerDefaults(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "bombserver: loading --config %s: %v\n", *configPath, err)
			os.Exit(1)
		}
		defaults = d
	}

	cfg := server.Config{
		ServerName:      stringOrDefault(explicit["server-name"], *serverName, defaults.ServerName),
		Port:            intOrDefault(explicit["port"], *port, defaults.Port),
		PlayersCount:    uint8(uintOrDefault(explicit["players-count"], *playersCount, uint(defaults.PlayersCount))),
		SizeX:           uint16(uintOrDefault(explicit["size-x"], *sizeX, uint(defaults.SizeX))),
		SizeY:           uint16(uintOrDefault(explicit["size-y"], *sizeY, uint(defaults.SizeY))),
		GameLength:      uint16(uintOrDefault(explicit["game-length"], *gameLength, uint(defaults.GameLength))),
		ExplosionRadius: uint16(uintOrDefault(explicit["explosion-radius"], *explosionRadius, uint(defaults.ExplosionRadius))),
		BombTimer:       uint16(uintOrDefault(explicit["bomb-timer"], *bombTimer, uint(defaults.BombTimer))),
		InitialBlocks:   uint16(uintOrDefault(explicit["initial-blocks"], *initialBlocks, uint(defaults.InitialBlocks))),
		TurnDuration:    time.Duration(uintOrDefault(explicit["turn-duration"], *turnDurationMs, uint(defaults.TurnDurationMs))) * time.Millisecond,
	}

	switch {
	case explicit["seed"]:
		cfg.Seed = uint32(*seed)
	case defaults.Seed != 0:
		cfg.Seed = defaults.Seed
	default:
		cfg.Seed = uint32(rand.New(rand.NewSource(time.Now().UnixNano())).Int31())
	}

	missing := requiredMissing(cfg)
	// Zero is a valid block count, so only an absent flag and config entry
	// counts as missing.
	if !explicit["initial-blocks"] && defaults.InitialBlocks == 0 {
		missing = append(missing, "initial-blocks")
	}
	if len(missing) > 0 {
		fmt.Fprintf(os.Stderr, "bombserver: missing required options: %v\n\n", missing)
		fs.Usage()
		os.Exit(1)
	}

	logger := log.New(os.Stderr, "", log.LstdFlags)
	srv := server.New(cfg, logger)
	if err := srv.Run(); err != nil {
		logger.Fatalf("bombserver: %v", err)
	}
}

func stringOrDefault(explicit bool, v, fallback string) string {
	if explicit {
		return v
	}
	if v != "" {
		return v
	}
	return fallback
}

func intOrDefault(explicit bool, v, fallback int) int {
	if explicit || v != 0 {
		return v
	}
	return fallback
}

func uintOrDefault(explicit bool, v, fallback uint) uint {
	if explicit || v != 0 {
		return v
	}
	return fallback
}

func requiredMissing(cfg server.Config) []string {
	var missing []string
	if cfg.ServerName == "" {
		missing = append(missing, "server-name")
	}
	if cfg.Port == 0 {
		missing = append(missing, "port")
	}
	if cfg.PlayersCount == 0 {
		missing = append(missing, "players-count")
	}
	if cfg.SizeX == 0 {
		missing = append(missing, "size-x")
	}
	if cfg.SizeY == 0 {
		missing = append(missing, "size-y")
	}
	if cfg.GameLength == 0 {
		missing = append(missing, "game-length")
	}
	if cfg.ExplosionRadius == 0 {
		missing = append(missing, "explosion-radius")
	}
	if cfg.BombTimer == 0 {
		missing = append(missing, "bomb-timer")
	}
	if cfg.TurnDuration == 0 {
		missing = append(missing, "turn-duration")
	}
	return missing
}
