// Package config optionally loads server/client defaults from a JSON
// file, grounded in the teacher's internal/persistence JSON-file loading
// idiom (LoadTowerConfig/LoadTroopConfig: read the file, unmarshal into a
// plain struct, return). It supplements, never replaces, the required CLI
// flags of spec.md §6: flags passed explicitly always win.
package config

import (
	"encoding/json"
	"os"
)

// ServerDefaults mirrors the optional subset of server.Config a JSON file
// may pre-populate before flags are applied. Zero fields mean "not set in
// the file"; the CLI layer only uses a field when the flag was never
// passed explicitly.
type ServerDefaults struct {
	ServerName      string `json:"server_name,omitempty"`
	Port            int    `json:"port,omitempty"`
	PlayersCount    uint8  `json:"players_count,omitempty"`
	SizeX           uint16 `json:"size_x,omitempty"`
	SizeY           uint16 `json:"size_y,omitempty"`
	GameLength      uint16 `json:"game_length,omitempty"`
	ExplosionRadius uint16 `json:"explosion_radius,omitempty"`
	BombTimer       uint16 `json:"bomb_timer,omitempty"`
	InitialBlocks   uint16 `json:"initial_blocks,omitempty"`
	TurnDurationMs  int    `json:"turn_duration_ms,omitempty"`
	Seed            uint32 `json:"seed,omitempty"`
}

// ClientDefaults mirrors the optional subset of client.Config a JSON file
// may pre-populate.
type ClientDefaults struct {
	GUIAddress    string `json:"gui_address,omitempty"`
	PlayerName    string `json:"player_name,omitempty"`
	Port          int    `json:"port,omitempty"`
	ServerAddress string `json:"server_address,omitempty"`
}

// LoadServerDefaults reads path as JSON into a ServerDefaults. A file that
// is missing, unreadable or not valid JSON is returned as an error;
// cmd/bombserver only calls this when --config was actually passed.
func LoadServerDefaults(path string) (ServerDefaults, error) {
	var d ServerDefaults
	data, err := os.ReadFile(path)
	if err != nil {
		return d, err
	}
	if err := json.Unmarshal(data, &d); err != nil {
		return d, err
	}
	return d, nil
}

// LoadClientDefaults reads path as JSON into a ClientDefaults.
func LoadClientDefaults(path string) (ClientDefaults, error) {
	var d ClientDefaults
	data, err := os.ReadFile(path)
	if err != nil {
		return d, err
	}
	if err := json.Unmarshal(data, &d); err != nil {
		return d, err
	}
	return d, nil
}
