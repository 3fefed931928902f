package server

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// Config is pegserver's configuration, decoded from a TOML file.
type Config struct {
	// Addr is the address to listen on, e.g. ":8080" or "localhost:8080".
	Addr string `toml:"addr"`

	// DataDir holds the registry's SQLite database.
	DataDir string `toml:"data_dir"`

	// JWTSecret signs issued bearer tokens. If empty, a random secret is
	// generated at startup and all tokens become invalid on restart.
	JWTSecret string `toml:"jwt_secret"`

	// AdminPassword gates registry writes. It is bcrypt-hashed once at
	// startup; the plaintext is never persisted by this program beyond
	// reading it from the config file.
	AdminPassword string `toml:"admin_password"`

	// GrammarManifest, if set, is a store.Manifest TOML file whose listed
	// grammars are seeded into the registry at startup.
	GrammarManifest string `toml:"grammar_manifest"`
}

// LoadConfig reads and decodes the TOML config at path.
func LoadConfig(path string) (Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, fmt.Errorf("server: decoding config %s: %w", path, err)
	}
	return cfg, nil
}
