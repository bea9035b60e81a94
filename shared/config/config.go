package config

import (
	"os"

	"github.com/joho/godotenv"
)

const (
	defaultLibraryDir = "."
	defaultCacheFile  = "image_cache.json"
	defaultAddr       = ":8480"
	defaultLogLevel   = "info"
)

// Config carries the runtime settings for picshelf.
type Config struct {
	// LibraryDir is the directory scanned for images.
	LibraryDir string

	// CacheFile is the path of the JSON metadata cache.
	CacheFile string

	// Addr is the listen address of the local server.
	Addr string

	// LogLevel is a zerolog level name (debug, info, warn, error).
	LogLevel string
}

// Load reads configuration from a .env file (if present) and the
// environment, applying defaults for anything unset.
func Load() *Config {
	// Missing .env is the normal case, not an error.
	godotenv.Load()

	return &Config{
		LibraryDir: getenv("PICSHELF_LIBRARY_DIR", defaultLibraryDir),
		CacheFile:  getenv("PICSHELF_CACHE_FILE", defaultCacheFile),
		Addr:       getenv("PICSHELF_ADDR", defaultAddr),
		LogLevel:   getenv("PICSHELF_LOG_LEVEL", defaultLogLevel),
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
