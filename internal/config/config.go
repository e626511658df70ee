package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds the configuration for the exploration engine
type Config struct {
	Analysis AnalysisConfig
	Cluster  ClusterConfig
	Filter   FilterConfig
	Source   SourceConfig
	Watch    WatchConfig
	Log      LogConfig
}

// AnalysisConfig holds feature extraction configuration
type AnalysisConfig struct {
	LexiconFile string
	CacheSize   int
}

// ClusterConfig holds cluster engine configuration
type ClusterConfig struct {
	Seed           uint64
	HasSeed        bool
	BaseThreshold  float64
	SubdivideAbove int
}

// FilterConfig holds live filter configuration
type FilterConfig struct {
	QueryDelay          time.Duration
	ClusterDelay        time.Duration
	SimilarityThreshold float64
}

// SourceConfig holds document discovery configuration
type SourceConfig struct {
	Root       string
	Extensions []string
}

// WatchConfig holds directory watcher configuration
type WatchConfig struct {
	Delay time.Duration
}

// LogConfig holds logging configuration
type LogConfig struct {
	Debug bool
}

// Load loads configuration from environment variables with defaults
func Load() *Config {
	seed, hasSeed := GetUintEnv("CLUSTER_SEED")
	return &Config{
		Analysis: AnalysisConfig{
			LexiconFile: GetStringEnv("EXPLORER_LEXICON_FILE", ""),
			CacheSize:   GetIntEnv("EXPLORER_CACHE_SIZE", 1024),
		},
		Cluster: ClusterConfig{
			Seed:           seed,
			HasSeed:        hasSeed,
			BaseThreshold:  GetFloatEnv("CLUSTER_BASE_THRESHOLD", 0.5),
			SubdivideAbove: GetIntEnv("CLUSTER_SUBDIVIDE_ABOVE", 3),
		},
		Filter: FilterConfig{
			QueryDelay:          GetDurationEnv("FILTER_QUERY_DELAY", 150*time.Millisecond),
			ClusterDelay:        GetDurationEnv("FILTER_CLUSTER_DELAY", 50*time.Millisecond),
			SimilarityThreshold: GetFloatEnv("SIMILARITY_THRESHOLD", 0.1),
		},
		Source: SourceConfig{
			Root:       GetStringEnv("SOURCE_ROOT", "."),
			Extensions: GetListEnv("SOURCE_EXTENSIONS", []string{".md", ".markdown", ".txt", ".html", ".htm"}),
		},
		Watch: WatchConfig{
			Delay: GetDurationEnv("WATCH_DELAY", 200*time.Millisecond),
		},
		Log: LogConfig{
			Debug: GetBoolEnv("EXPLORER_DEBUG", false),
		},
	}
}

func GetStringEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func GetIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// GetUintEnv reports the value and whether a valid one was set.
func GetUintEnv(key string) (uint64, bool) {
	if value := os.Getenv(key); value != "" {
		if uintValue, err := strconv.ParseUint(value, 10, 64); err == nil {
			return uintValue, true
		}
	}
	return 0, false
}

func GetFloatEnv(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func GetBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func GetDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// GetListEnv splits a comma separated value, dropping empty entries
func GetListEnv(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
