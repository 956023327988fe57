// Package config reads lvroute settings from the environment, optionally
// seeded by a .env file in the working directory.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/katalvlaran/lvroute/store"
	"github.com/katalvlaran/lvroute/tsp"
)

// Defaults.
const (
	DefaultAddr      = "127.0.0.1:8080"
	DefaultStore     = store.KindJSON
	DefaultStorePath = "data"
	DefaultGraph     = "default"
	DefaultOracle    = tsp.AlgoGenetic
	DefaultLogLevel  = "info"
)

// Config is the resolved process configuration.
type Config struct {
	Addr      string
	Store     string
	StorePath string
	Graph     string

	Oracle     string
	OracleSeed int64

	LogLevel slog.Level

	Neo4jURI      string
	Neo4jUser     string
	Neo4jPassword string
	Neo4jDatabase string
}

// Load reads the .env file at path (ignored when absent; empty path means
// ".env") and then the process environment.
func Load(path string) (Config, error) {
	if path == "" {
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("config: %s: %w", path, err)
	}

	return FromEnv()
}

// FromEnv builds a Config from the current environment only.
func FromEnv() (Config, error) {
	c := Config{
		Addr:          getEnv("LVROUTE_ADDR", DefaultAddr),
		Store:         strings.ToLower(getEnv("LVROUTE_STORE", DefaultStore)),
		StorePath:     getEnv("LVROUTE_STORE_PATH", DefaultStorePath),
		Graph:         getEnv("LVROUTE_GRAPH", DefaultGraph),
		Oracle:        strings.ToLower(getEnv("LVROUTE_ORACLE", DefaultOracle)),
		OracleSeed:    tsp.DefaultSeed,
		Neo4jURI:      getEnv("NEO4J_URI", "neo4j://localhost:7687"),
		Neo4jUser:     getEnv("NEO4J_USER", "neo4j"),
		Neo4jPassword: os.Getenv("NEO4J_PASSWORD"),
		Neo4jDatabase: getEnv("NEO4J_DATABASE", "neo4j"),
	}

	switch c.Store {
	case store.KindJSON, store.KindSQLite, store.KindNeo4j:
	default:
		return Config{}, fmt.Errorf("config: LVROUTE_STORE: %w: %q", store.ErrUnknownKind, c.Store)
	}
	if c.Store == store.KindSQLite && os.Getenv("LVROUTE_STORE_PATH") == "" {
		c.StorePath = "data/lvroute.db"
	}
	if err := store.ValidateName(c.Graph); err != nil {
		return Config{}, fmt.Errorf("config: LVROUTE_GRAPH: %w", err)
	}
	if _, err := tsp.New(c.Oracle); err != nil {
		return Config{}, fmt.Errorf("config: LVROUTE_ORACLE: %w", err)
	}
	if v := os.Getenv("LVROUTE_ORACLE_SEED"); v != "" {
		seed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return Config{}, fmt.Errorf("config: LVROUTE_ORACLE_SEED: %w", err)
		}
		c.OracleSeed = seed
	}

	lvl, err := ParseLevel(getEnv("LVROUTE_LOG_LEVEL", DefaultLogLevel))
	if err != nil {
		return Config{}, err
	}
	c.LogLevel = lvl

	return c, nil
}

// StoreOptions maps c onto store.Open options.
func (c Config) StoreOptions(logger *slog.Logger) store.Options {
	return store.Options{
		Kind:          c.Store,
		Path:          c.StorePath,
		Neo4jURI:      c.Neo4jURI,
		Neo4jUser:     c.Neo4jUser,
		Neo4jPassword: c.Neo4jPassword,
		Neo4jDatabase: c.Neo4jDatabase,
		Logger:        logger,
	}
}

// Solver returns the configured tour oracle.
func (c Config) Solver() (tsp.Solver, error) {
	return tsp.New(c.Oracle, tsp.WithSeed(c.OracleSeed))
}

// ParseLevel accepts debug, info, warn or error.
func ParseLevel(s string) (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return 0, fmt.Errorf("config: LVROUTE_LOG_LEVEL: %w", err)
	}

	return lvl, nil
}

// NewLogger returns a text logger on stderr at level.
func NewLogger(level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}

	return defaultValue
}
