// Command bombclient runs the client proxy described in spec.md §4.4: it
// ingests the server's authoritative event stream, projects it into a
// renderable world, and turns local UI input into server actions.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"bombernet/internal/client"
	"bombernet/internal/config"
)

func main() {
	fs := flag.NewFlagSet("bombclient", flag.ContinueOnError)
	fs.Usage = func() {
		fmt.Fprintln(fs.Output(), "Usage of bombclient:")
		fs.PrintDefaults()
	}

	configPath := fs.String("config", "", "optional JSON file of defaults, overridden by any flag below")
	guiAddress := fs.String("gui-address", "", "host:port of the local UI (required)")
	playerName := fs.String("player-name", "", "name to Join with (required)")
	port := fs.Int("port", 0, "UDP port to listen on for UI input (required)")
	serverAddress := fs.String("server-address", "", "host:port of the game server (required)")

	if err := fs.Parse(os.Args[1:]); err != nil {
		fs.Usage()
		os.Exit(1)
	}

	explicit := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { explicit[f.Name] = true })

	var defaults config.ClientDefaults
	if *configPath != "" {
		d, err := config.LoadClientDefaults(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "bombclient: loading --config %s: %v\n", *configPath, err)
			os.Exit(1)
		}
		defaults = d
	}

	cfg := client.Config{
		GUIAddress:    stringOrDefault(explicit["gui-address"], *guiAddress, defaults.GUIAddress),
		PlayerName:    stringOrDefault(explicit["player-name"], *playerName, defaults.PlayerName),
		Port:          intOrDefault(explicit["port"], *port, defaults.Port),
		ServerAddress: stringOrDefault(explicit["server-address"], *serverAddress, defaults.ServerAddress),
	}

	if cfg.GUIAddress == "" || cfg.PlayerName == "" || cfg.Port == 0 || cfg.ServerAddress == "" {
		fs.Usage()
		os.Exit(1)
	}

	logger := log.New(os.Stderr, "", log.LstdFlags)
	c := client.New(cfg, logger)
	if err := c.Connect(); err != nil {
		logger.Fatalf("bombclient: connect: %v", err)
	}
	if err := c.Run(); err != nil {
		logger.Fatalf("bombclient: %v", err)
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
