package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/contentgraph/pagetree/api"
	"github.com/google/uuid"
	"github.com/ohler55/ojg/jp"
	"github.com/ohler55/ojg/oj"
	_ "modernc.org/sqlite"
)

// SQLiteStore persists nodes as JSON documents in a single table.
// Parent id and slug are lifted into their own columns so child lookups
// and slug checks stay indexed; the document blob remains the source of
// truth for the node body.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (or creates) the store at the given path.
func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	// WAL keeps readers unblocked during derived-field write-back bursts.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout=5000"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set busy timeout: %w", err)
	}

	schema := `
	CREATE TABLE IF NOT EXISTS nodes (
		collection TEXT NOT NULL,
		id TEXT NOT NULL,
		parent_id TEXT NOT NULL DEFAULT '',
		slug TEXT NOT NULL,
		doc JSON NOT NULL,
		PRIMARY KEY (collection, id)
	);
	CREATE INDEX IF NOT EXISTS idx_nodes_parent ON nodes(collection, parent_id);
	CREATE INDEX IF NOT EXISTS idx_nodes_slug ON nodes(collection, slug);
	`
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func encodeNode(n *api.ContentNode) ([]byte, error) {
	data, err := oj.Marshal(n)
	if err != nil {
		return nil, fmt.Errorf("encode node %s: %w", n.ID, err)
	}
	return data, nil
}

func decodeNode(data []byte) (*api.ContentNode, error) {
	var n api.ContentNode
	if err := oj.Unmarshal(data, &n); err != nil {
		return nil, fmt.Errorf("decode node: %w", err)
	}
	return &n, nil
}

func (s *SQLiteStore) FindByID(ctx context.Context, collection, id string) (*api.ContentNode, error) {
	var doc []byte
	row := s.db.QueryRowContext(ctx,
		`SELECT doc FROM nodes WHERE collection = ? AND id = ?`, collection, id)
	if err := row.Scan(&doc); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("fetch %s/%s: %w", collection, id, err)
	}
	return decodeNode(doc)
}

func (s *SQLiteStore) Find(ctx context.Context, collection string, f Filter) ([]*api.ContentNode, error) {
	var expr jp.Expr
	if f.Expr != "" {
		compiled, err := compileExpr(f.Expr)
		if err != nil {
			return nil, err
		}
		expr = compiled
	}

	query := `SELECT doc FROM nodes WHERE collection = ?`
	args := []any{collection}
	var conds []string
	if f.ParentID != "" {
		conds = append(conds, "parent_id = ?")
		args = append(args, f.ParentID)
	}
	if f.Slug != "" {
		conds = append(conds, "slug = ?")
		args = append(args, f.Slug)
	}
	if len(conds) > 0 {
		query += " AND " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY id"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("find in %s: %w", collection, err)
	}
	defer func() { _ = rows.Close() }()

	var out []*api.ContentNode
	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			return nil, fmt.Errorf("scan node: %w", err)
		}
		n, err := decodeNode(doc)
		if err != nil {
			return nil, err
		}
		if expr != nil {
			ok, err := exprMatches(expr, n)
			if err != nil {
				return nil, err
			}
			if !ok {
				continue
			}
		}
		out = append(out, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s: %w", collection, err)
	}
	return out, nil
}

func (s *SQLiteStore) Insert(ctx context.Context, collection string, n *api.ContentNode) error {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	doc, err := encodeNode(n)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO nodes (collection, id, parent_id, slug, doc) VALUES (?, ?, ?, ?, ?)`,
		collection, n.ID, n.Parent, n.Slug, doc)
	if err != nil {
		return fmt.Errorf("insert %s/%s: %w", collection, n.ID, err)
	}
	return nil
}

func (s *SQLiteStore) Update(ctx context.Context, collection string, n *api.ContentNode) error {
	doc, err := encodeNode(n)
	if err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE nodes SET parent_id = ?, slug = ?, doc = ? WHERE collection = ? AND id = ?`,
		n.Parent, n.Slug, doc, collection, n.ID)
	if err != nil {
		return fmt.Errorf("update %s/%s: %w", collection, n.ID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update %s/%s: %w", collection, n.ID, err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLiteStore) UpdateDerived(ctx context.Context, collection, id, url string, crumbs []api.BreadcrumbItem) error {
	n, err := s.FindByID(ctx, collection, id)
	if err != nil {
		return err
	}
	n.URL = url
	n.Breadcrumbs = crumbs
	return s.Update(ctx, collection, n)
}

func (s *SQLiteStore) Collections(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT DISTINCT collection FROM nodes ORDER BY collection`)
	if err != nil {
		return nil, fmt.Errorf("list collections: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, fmt.Errorf("scan collection: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) Close() error { return s.db.Close() }
