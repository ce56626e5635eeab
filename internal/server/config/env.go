package config

import "os"

// parseEnv overlays cfg with values from the environment. The generation
// credential and system prompt are only ever supplied this way (or via a
// .env file loaded by the main); their absence is not an error here, the
// generation backend reports it at call time.
func parseEnv(cfg *Config) {
	if v := os.Getenv("CHATVAULT_HTTP_ADDR"); v != "" {
		cfg.EndpointAddrHTTP = v
	}
	if v := os.Getenv("CHATVAULT_DATABASE_DSN"); v != "" {
		cfg.DatabaseDSN = v
	}
	if v := os.Getenv("CHATVAULT_SECRET_KEY"); v != "" {
		cfg.SecretKey = v
	}
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		cfg.GenAIAPIKey = v
	}
	if v := os.Getenv("CHATVAULT_GENAI_MODEL"); v != "" {
		cfg.GenAIModel = v
	}
	if v := os.Getenv("CHATVAULT_SYSTEM_PROMPT"); v != "" {
		cfg.SystemPrompt = v
	}
	if v := os.Getenv("CHATVAULT_ADMIN_USERNAME"); v != "" {
		cfg.AdminUsername = v
	}
}
