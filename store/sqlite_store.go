// SPDX-License-Identifier: MIT

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	_ "modernc.org/sqlite"

	"github.com/katalvlaran/lvroute/codec"
)

const sqliteSchemaVersion = 1

// SQLiteStore keeps documents in normalised tables keyed by graph name.
type SQLiteStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewSQLiteStore opens (or creates) the database file at dbPath.
func NewSQLiteStore(dbPath string, logger *slog.Logger) (*SQLiteStore, error) {
	if dbPath == "" {
		return nil, fmt.Errorf("store: sqlite: empty database path")
	}
	if dir := filepath.Dir(dbPath); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// one writer; foreign_keys is per connection
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
		"PRAGMA busy_timeout=5000",
	}
	for _, p := range pragmas {
		if _, err = db.Exec(p); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to set pragma %q: %w", p, err)
		}
	}

	s := &SQLiteStore{db: db, logger: componentLogger(logger, KindSQLite)}
	if err = s.initSchema(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	s.logger.Info("using SQLite database", slog.String("path", dbPath))

	return s, nil
}

func (s *SQLiteStore) initSchema() error {
	if _, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS schema_version (version INTEGER PRIMARY KEY)`); err != nil {
		return err
	}

	var version int
	err := s.db.QueryRow(`SELECT COALESCE(MAX(version), 0) FROM schema_version`).Scan(&version)
	if err != nil {
		return err
	}
	if version >= sqliteSchemaVersion {
		return nil
	}
	if err = s.createSchema(); err != nil {
		return err
	}
	_, err = s.db.Exec(`INSERT INTO schema_version (version) VALUES (?)`, sqliteSchemaVersion)

	return err
}

func (s *SQLiteStore) createSchema() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS graphs (
			name       TEXT PRIMARY KEY,
			start_idx  INTEGER,
			end_idx    INTEGER,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS nodes (
			graph TEXT    NOT NULL REFERENCES graphs(name) ON DELETE CASCADE,
			idx   INTEGER NOT NULL,
			x     REAL    NOT NULL,
			y     REAL    NOT NULL,
			PRIMARY KEY (graph, idx)
		);

		CREATE TABLE IF NOT EXISTS edges (
			graph TEXT    NOT NULL REFERENCES graphs(name) ON DELETE CASCADE,
			a     INTEGER NOT NULL,
			b     INTEGER NOT NULL,
			PRIMARY KEY (graph, a, b)
		);

		CREATE TABLE IF NOT EXISTS targets (
			graph TEXT    NOT NULL REFERENCES graphs(name) ON DELETE CASCADE,
			seq   INTEGER NOT NULL,
			label TEXT    NOT NULL,
			node  INTEGER NOT NULL,
			PRIMARY KEY (graph, seq)
		);
	`)

	return err
}

// Save replaces the graph stored under name in a single transaction.
func (s *SQLiteStore) Save(ctx context.Context, name string, doc *codec.Document) error {
	if err := ValidateName(name); err != nil {
		return err
	}
	if doc == nil {
		return ErrNilDocument
	}
	idx, err := sortedIndices(doc.Nodes)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err = clearGraph(ctx, tx, name); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx,
		`INSERT INTO graphs (name, start_idx, end_idx) VALUES (?, ?, ?)`,
		name, nullIndex(doc.Start), nullIndex(doc.End),
	); err != nil {
		return fmt.Errorf("failed to insert graph: %w", err)
	}

	nodeStmt, err := tx.PrepareContext(ctx, `INSERT INTO nodes (graph, idx, x, y) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare node insert: %w", err)
	}
	defer nodeStmt.Close()
	edgeStmt, err := tx.PrepareContext(ctx, `INSERT OR IGNORE INTO edges (graph, a, b) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare edge insert: %w", err)
	}
	defer edgeStmt.Close()

	for _, i := range idx {
		rec := doc.Nodes[strconv.Itoa(i)]
		if _, err = nodeStmt.ExecContext(ctx, name, i, rec.Coords[0], rec.Coords[1]); err != nil {
			return fmt.Errorf("failed to insert node %d: %w", i, err)
		}
		for _, j := range rec.ConnectsWith {
			a, b := i, j
			if a > b {
				a, b = b, a
			}
			if _, err = edgeStmt.ExecContext(ctx, name, a, b); err != nil {
				return fmt.Errorf("failed to insert edge %d-%d: %w", a, b, err)
			}
		}
	}

	for k, t := range doc.Targets {
		if _, err = tx.ExecContext(ctx,
			`INSERT INTO targets (graph, seq, label, node) VALUES (?, ?, ?, ?)`,
			name, k+1, t.Label, t.Node,
		); err != nil {
			return fmt.Errorf("failed to insert target %q: %w", t.Label, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}
	s.logger.Debug("graph saved", slog.String("name", name), slog.Int("nodes", len(idx)))

	return nil
}

// Load reassembles the document stored under name.
func (s *SQLiteStore) Load(ctx context.Context, name string) (*codec.Document, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}

	var start, end sql.NullInt64
	err := s.db.QueryRowContext(ctx,
		`SELECT start_idx, end_idx FROM graphs WHERE name = ?`, name,
	).Scan(&start, &end)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load graph: %w", err)
	}

	doc := &codec.Document{
		Nodes: make(codec.NodeMap),
		Start: fromNull(start),
		End:   fromNull(end),
	}

	rows, err := s.db.QueryContext(ctx, `SELECT idx, x, y FROM nodes WHERE graph = ? ORDER BY idx`, name)
	if err != nil {
		return nil, fmt.Errorf("failed to query nodes: %w", err)
	}
	adj := make(map[int][]int)
	var order []int
	for rows.Next() {
		var i int
		var x, y float64
		if err = rows.Scan(&i, &x, &y); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan node: %w", err)
		}
		doc.Nodes[strconv.Itoa(i)] = codec.NodeRecord{Coords: [2]float64{x, y}}
		adj[i] = make([]int, 0)
		order = append(order, i)
	}
	rows.Close()
	if err = rows.Err(); err != nil {
		return nil, err
	}

	rows, err = s.db.QueryContext(ctx, `SELECT a, b FROM edges WHERE graph = ?`, name)
	if err != nil {
		return nil, fmt.Errorf("failed to query edges: %w", err)
	}
	for rows.Next() {
		var a, b int
		if err = rows.Scan(&a, &b); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan edge: %w", err)
		}
		adj[a] = append(adj[a], b)
		adj[b] = append(adj[b], a)
	}
	rows.Close()
	if err = rows.Err(); err != nil {
		return nil, err
	}
	for _, i := range order {
		rec := doc.Nodes[strconv.Itoa(i)]
		sort.Ints(adj[i])
		rec.ConnectsWith = adj[i]
		doc.Nodes[strconv.Itoa(i)] = rec
	}

	rows, err = s.db.QueryContext(ctx, `SELECT label, node FROM targets WHERE graph = ? ORDER BY seq`, name)
	if err != nil {
		return nil, fmt.Errorf("failed to query targets: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var t codec.TargetRecord
		if err = rows.Scan(&t.Label, &t.Node); err != nil {
			return nil, fmt.Errorf("failed to scan target: %w", err)
		}
		doc.Targets = append(doc.Targets, t)
	}

	return doc, rows.Err()
}

// List returns stored names in ascending order.
func (s *SQLiteStore) List(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name FROM graphs ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list graphs: %w", err)
	}
	defer rows.Close()

	names := make([]string, 0)
	for rows.Next() {
		var n string
		if err = rows.Scan(&n); err != nil {
			return nil, err
		}
		names = append(names, n)
	}

	return names, rows.Err()
}

// Delete removes name with its nodes, edges and targets.
func (s *SQLiteStore) Delete(ctx context.Context, name string) error {
	if err := ValidateName(name); err != nil {
		return err
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var exists int
	err = tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM graphs WHERE name = ?`, name).Scan(&exists)
	if err != nil {
		return fmt.Errorf("failed to look up graph: %w", err)
	}
	if exists == 0 {
		return fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	if err = clearGraph(ctx, tx, name); err != nil {
		return err
	}

	return tx.Commit()
}

// clearGraph deletes every row belonging to name, children first; the
// ON DELETE CASCADE clauses are not relied on.
func clearGraph(ctx context.Context, tx *sql.Tx, name string) error {
	for _, table := range []string{"targets", "edges", "nodes", "graphs"} {
		col := "graph"
		if table == "graphs" {
			col = "name"
		}
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table+" WHERE "+col+" = ?", name); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	return nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// sortedIndices parses the node-map keys and checks they are exactly 0..n-1.
func sortedIndices(m codec.NodeMap) ([]int, error) {
	idx := make([]int, 0, len(m))
	for k := range m {
		i, err := strconv.Atoi(k)
		if err != nil {
			return nil, fmt.Errorf("%w: key %q", codec.ErrBadIndex, k)
		}
		idx = append(idx, i)
	}
	sort.Ints(idx)
	for want, got := range idx {
		if got != want {
			return nil, fmt.Errorf("%w: expected %d, found %d", codec.ErrBadIndex, want, got)
		}
	}

	return idx, nil
}

func nullIndex(p *int) sql.NullInt64 {
	if p == nil {
		return sql.NullInt64{}
	}

	return sql.NullInt64{Int64: int64(*p), Valid: true}
}

func fromNull(n sql.NullInt64) *int {
	if !n.Valid {
		return nil
	}
	v := int(n.Int64)

	return &v
}
