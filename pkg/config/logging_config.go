package config

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level      string `yaml:"level" env:"LEVEL"`             // debug, info, warn, error
	Format     string `yaml:"format" env:"FORMAT"`           // json, console
	OutputFile string `yaml:"output_file" env:"OUTPUT_FILE"` // Empty for stdout
}
