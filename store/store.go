// Package store persists route-graph documents under a name.
//
// Three backends implement Repository:
//
//   - JSONStore: one indented codec.Document file per name in a directory.
//   - SQLiteStore: normalised graphs/nodes/edges/targets tables (modernc.org/sqlite).
//   - Neo4jStore: RouteGraph and RouteNode nodes joined by HAS_NODE and CONNECTS.
//
// All backends store the positional form produced by codec, so a document
// loaded from any of them decodes to a graph isomorphic to the one saved.
package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"

	"github.com/katalvlaran/lvroute/codec"
)

// Sentinel errors.
var (
	// ErrNotFound is returned by Load and Delete for an unknown name.
	ErrNotFound = errors.New("store: graph not found")

	// ErrInvalidName is returned for names outside [A-Za-z0-9_-.], 1–64 chars, not starting with '.'.
	ErrInvalidName = errors.New("store: invalid graph name")

	// ErrNilDocument is returned by Save for a nil document.
	ErrNilDocument = errors.New("store: nil document")

	// ErrUnknownKind is returned by Open for an unsupported backend.
	ErrUnknownKind = errors.New("store: unknown backend")
)

// Repository saves and loads named graph documents.
type Repository interface {
	Save(ctx context.Context, name string, doc *codec.Document) error
	Load(ctx context.Context, name string) (*codec.Document, error)
	List(ctx context.Context) ([]string, error)
	Delete(ctx context.Context, name string) error
	Close() error
}

var namePattern = regexp.MustCompile(`^[A-Za-z0-9_-][A-Za-z0-9_.-]{0,63}$`)

// ValidateName reports whether name may be used as a graph name.
func ValidateName(name string) error {
	if !namePattern.MatchString(name) {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}

	return nil
}

// Backend kinds accepted by Open.
const (
	KindJSON   = "json"
	KindSQLite = "sqlite"
	KindNeo4j  = "neo4j"
)

// Options selects and configures a backend.
type Options struct {
	Kind string
	// Path is the directory (json) or database file (sqlite).
	Path string

	Neo4jURI      string
	Neo4jUser     string
	Neo4jPassword string
	Neo4jDatabase string

	Logger *slog.Logger
}

// Open returns the backend described by o.
func Open(ctx context.Context, o Options) (Repository, error) {
	switch o.Kind {
	case KindJSON, "":
		return NewJSONStore(o.Path, o.Logger)
	case KindSQLite:
		return NewSQLiteStore(o.Path, o.Logger)
	case KindNeo4j:
		r, err := NewNeo4jRunner(o.Neo4jURI, o.Neo4jUser, o.Neo4jPassword, o.Neo4jDatabase)
		if err != nil {
			return nil, err
		}
		if err = r.Verify(ctx); err != nil {
			_ = r.Close()
			return nil, fmt.Errorf("store: neo4j connectivity: %w", err)
		}
		return NewNeo4jStore(r, o.Logger), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, o.Kind)
	}
}

func componentLogger(l *slog.Logger, backend string) *slog.Logger {
	if l == nil {
		l = slog.Default()
	}

	return l.With(slog.String("component", "store"), slog.String("backend", backend))
}
