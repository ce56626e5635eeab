package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/sangpi/chatvault/internal/flagx"
	"github.com/sangpi/chatvault/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. It relies on
// timex.Duration so JSON can specify lifetimes either as strings like "15m"
// or as integer nanoseconds. Zero values leave the current Config untouched.
type JsonConfig struct {
	EndpointAddrHTTP            string         `json:"endpoint_addr_http"`
	DatabaseDSN                 string         `json:"database_dsn"`
	SecretKey                   string         `json:"secret_key"`
	AccessTokenValidityDuration timex.Duration `json:"access_token_validity_duration"`
	ResumeTokenValidityDuration timex.Duration `json:"resume_token_validity_duration"`
	GenAIModel                  string         `json:"genai_model"`
	SystemPrompt                string         `json:"system_prompt"`
	GenerationTimeout           timex.Duration `json:"generation_timeout"`
	SessionListLimit            int            `json:"session_list_limit"`
	AdminUsername               string         `json:"admin_username"`
}

// parseJson overlays cfg with values loaded from a JSON file. The file path
// comes from the -c/-config flags (via flagx); when no path is given, the
// function is a no-op. Read or unmarshal errors panic, since a requested but
// broken config file should not be silently ignored.
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

	if jc.EndpointAddrHTTP != "" {
		cfg.EndpointAddrHTTP = jc.EndpointAddrHTTP
	}
	if jc.DatabaseDSN != "" {
		cfg.DatabaseDSN = jc.DatabaseDSN
	}
	if jc.SecretKey != "" {
		cfg.SecretKey = jc.SecretKey
	}
	if jc.AccessTokenValidityDuration.Duration != 0 {
		cfg.AccessTokenValidityDuration = time.Duration(jc.AccessTokenValidityDuration.Duration)
	}
	if jc.ResumeTokenValidityDuration.Duration != 0 {
		cfg.ResumeTokenValidityDuration = time.Duration(jc.ResumeTokenValidityDuration.Duration)
	}
	if jc.GenAIModel != "" {
		cfg.GenAIModel = jc.GenAIModel
	}
	if jc.SystemPrompt != "" {
		cfg.SystemPrompt = jc.SystemPrompt
	}
	if jc.GenerationTimeout.Duration != 0 {
		cfg.GenerationTimeout = time.Duration(jc.GenerationTimeout.Duration)
	}
	if jc.SessionListLimit != 0 {
		cfg.SessionListLimit = jc.SessionListLimit
	}
	if jc.AdminUsername != "" {
		cfg.AdminUsername = jc.AdminUsername
	}
}
