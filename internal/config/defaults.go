package config

// ApplyDefaults sets default values for any zero values in cfg.
func ApplyDefaults(cfg *Config) {
	if cfg.Dataset.Format == "" {
		cfg.Dataset.Format = "auto"
	}
	if cfg.Dataset.Table == "" {
		cfg.Dataset.Table = "tracks"
	}
	if cfg.Search.MaxSuggestions == 0 {
		cfg.Search.MaxSuggestions = 5
	}
	if cfg.Search.Fuzziness == 0 {
		cfg.Search.Fuzziness = 2
	}
	if cfg.Output.Format == "" {
		cfg.Output.Format = "text"
	}
}

// Default returns a config with every default applied and no dataset path.
func Default() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}
