package config

import (
	"encoding/json"
	"os"

	"github.com/sangpi/chatvault/internal/flagx"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Zero values
// leave the current Config untouched.
type JsonConfig struct {
	ServerURL string `json:"server_url"`
	DataDir   string `json:"data_dir"`
}

// parseJson overlays cfg with values loaded from a JSON file. The file path
// comes from the -c/-config flags (via flagx); when no path is given, the
// function is a no-op.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.ServerURL != "" {
		cfg.ServerURL = jc.ServerURL
	}
	if jc.DataDir != "" {
		cfg.DataDir = jc.DataDir
	}
}
