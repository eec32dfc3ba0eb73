package config

import (
	"os"
	"strconv"

	"agora/domain/opinion"
	"agora/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Server   ServerConfig
	Analysis AnalysisConfig
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port string
}

// AnalysisConfig holds the tunable pipeline parameters. The power
// iteration budget and tolerance are pragmatic defaults, not a proven
// convergence guarantee, so both stay adjustable per deployment.
type AnalysisConfig struct {
	NumComponents      int
	MaxK               int
	PowerIterations    int
	PowerTolerance     float64
	ConsensusThreshold float64
	MinVotes           int
	MinVotesPerGroup   int
	MaxRepresentatives int
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	defaults := opinion.DefaultParams()

	config := &Config{
		Server: ServerConfig{
			Port: getEnvOrDefault("PORT", "8080"),
		},
		Analysis: AnalysisConfig{
			NumComponents:      getEnvIntOrDefault("PCA_COMPONENTS", defaults.NumComponents),
			MaxK:               getEnvIntOrDefault("CLUSTER_MAX_K", defaults.MaxK),
			PowerIterations:    getEnvIntOrDefault("POWER_ITERATIONS", defaults.PowerIterations),
			PowerTolerance:     getEnvFloatOrDefault("POWER_TOLERANCE", defaults.PowerTolerance),
			ConsensusThreshold: getEnvFloatOrDefault("CONSENSUS_THRESHOLD", defaults.ConsensusThreshold),
			MinVotes:           getEnvIntOrDefault("CONSENSUS_MIN_VOTES", defaults.MinVotes),
			MinVotesPerGroup:   getEnvIntOrDefault("CONSENSUS_MIN_VOTES_PER_GROUP", defaults.MinVotesPerGroup),
			MaxRepresentatives: getEnvIntOrDefault("MAX_REPRESENTATIVES", defaults.MaxRepresentatives),
		},
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

// Params converts the analysis configuration to pipeline parameters.
func (c *Config) Params() opinion.AnalysisParams {
	return opinion.AnalysisParams{
		NumComponents:      c.Analysis.NumComponents,
		MaxK:               c.Analysis.MaxK,
		PowerIterations:    c.Analysis.PowerIterations,
		PowerTolerance:     c.Analysis.PowerTolerance,
		ConsensusThreshold: c.Analysis.ConsensusThreshold,
		MinVotes:           c.Analysis.MinVotes,
		MinVotesPerGroup:   c.Analysis.MinVotesPerGroup,
		MaxRepresentatives: c.Analysis.MaxRepresentatives,
	}.Normalized()
}

func validateConfig(config *Config) error {
	if config.Analysis.NumComponents < 1 {
		return errors.ConfigInvalid("PCA_COMPONENTS must be at least 1")
	}
	if config.Analysis.MaxK < 2 {
		return errors.ConfigInvalid("CLUSTER_MAX_K must be at least 2")
	}
	if config.Analysis.ConsensusThreshold <= 0 || config.Analysis.ConsensusThreshold > 1 {
		return errors.ConfigInvalid("CONSENSUS_THRESHOLD must be in (0, 1]")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}
