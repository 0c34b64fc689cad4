// Package store persists extracted claims in a SQLite database, so batch
// runs over many claim files can be queried afterwards without reparsing.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // SQLite driver

	x12 "github.com/gox12/claims"
)

// schema bootstraps the claim warehouse. Charges stay TEXT: they are
// decimal strings whose source formatting must survive round-trips.
const schema = `
CREATE TABLE IF NOT EXISTS claims (
	id           INTEGER PRIMARY KEY AUTOINCREMENT,
	claim_id     TEXT NOT NULL,
	total_charge TEXT NOT NULL,
	source_file  TEXT NOT NULL,
	loaded_at    TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS service_lines (
	id             INTEGER PRIMARY KEY AUTOINCREMENT,
	claim_ref      INTEGER NOT NULL REFERENCES claims(id) ON DELETE CASCADE,
	line_no        INTEGER NOT NULL,
	procedure_code TEXT NOT NULL,
	line_charge    TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_claims_claim_id ON claims(claim_id);
CREATE INDEX IF NOT EXISTS idx_claims_source ON claims(source_file);
CREATE INDEX IF NOT EXISTS idx_lines_claim_ref ON service_lines(claim_ref);
`

// Store is a SQLite-backed claim warehouse.
type Store struct {
	db   *sql.DB
	path string
}

// New opens (or creates) the claim database at the given path. An empty
// path defaults to ~/.gox12/claims.db; ":memory:" opens an in-memory
// database, useful in tests.
func New(path string) (*Store, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dir := filepath.Join(home, ".gox12")
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("creating data directory: %w", err)
		}
		path = filepath.Join(dir, "claims.db")
	}

	dsn := path
	if path != ":memory:" {
		// WAL mode for better concurrency on repeated batch loads
		dsn = path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Store{db: db, path: path}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// InsertClaims stores the claims of one source file in a single
// transaction and returns the number of claims inserted. Repeated loads
// of the same source replace the previous rows for that source.
func (s *Store) InsertClaims(ctx context.Context, sourceFile string, claims []x12.Claim) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // rollback after commit is a no-op

	if _, err := tx.ExecContext(ctx, `DELETE FROM claims WHERE source_file = ?`, sourceFile); err != nil {
		return 0, fmt.Errorf("clearing previous load: %w", err)
	}

	insertClaim, err := tx.PrepareContext(ctx,
		`INSERT INTO claims (claim_id, total_charge, source_file) VALUES (?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("preparing claim insert: %w", err)
	}
	defer insertClaim.Close()

	insertLine, err := tx.PrepareContext(ctx,
		`INSERT INTO service_lines (claim_ref, line_no, procedure_code, line_charge) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("preparing line insert: %w", err)
	}
	defer insertLine.Close()

	for _, claim := range claims {
		res, err := insertClaim.ExecContext(ctx, claim.ClaimID, claim.TotalCharge, sourceFile)
		if err != nil {
			return 0, fmt.Errorf("inserting claim %q: %w", claim.ClaimID, err)
		}
		ref, err := res.LastInsertId()
		if err != nil {
			return 0, fmt.Errorf("resolving claim row: %w", err)
		}

		for i, line := range claim.ServiceLines {
			if _, err := insertLine.ExecContext(ctx, ref, i+1, line.ProcedureCode, line.LineCharge); err != nil {
				return 0, fmt.Errorf("inserting service line %d of claim %q: %w", i+1, claim.ClaimID, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing load: %w", err)
	}
	return len(claims), nil
}

// ClaimsBySource returns the claims loaded from one source file, with
// their service lines, in load order.
func (s *Store) ClaimsBySource(ctx context.Context, sourceFile string) ([]x12.Claim, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, claim_id, total_charge FROM claims WHERE source_file = ? ORDER BY id`, sourceFile)
	if err != nil {
		return nil, fmt.Errorf("querying claims: %w", err)
	}
	defer rows.Close()

	var claims []x12.Claim
	var refs []int64
	for rows.Next() {
		var ref int64
		var claim x12.Claim
		if err := rows.Scan(&ref, &claim.ClaimID, &claim.TotalCharge); err != nil {
			return nil, fmt.Errorf("scanning claim: %w", err)
		}
		claim.ServiceLines = make([]x12.ServiceLine, 0, 4)
		claims = append(claims, claim)
		refs = append(refs, ref)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading claims: %w", err)
	}

	for i, ref := range refs {
		lines, err := s.serviceLines(ctx, ref)
		if err != nil {
			return nil, err
		}
		claims[i].ServiceLines = lines
	}
	return claims, nil
}

func (s *Store) serviceLines(ctx context.Context, claimRef int64) ([]x12.ServiceLine, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT procedure_code, line_charge FROM service_lines WHERE claim_ref = ? ORDER BY line_no`, claimRef)
	if err != nil {
		return nil, fmt.Errorf("querying service lines: %w", err)
	}
	defer rows.Close()

	lines := make([]x12.ServiceLine, 0, 4)
	for rows.Next() {
		var line x12.ServiceLine
		if err := rows.Scan(&line.ProcedureCode, &line.LineCharge); err != nil {
			return nil, fmt.Errorf("scanning service line: %w", err)
		}
		lines = append(lines, line)
	}
	return lines, rows.Err()
}

// ClaimCount returns the total number of claims in the warehouse.
func (s *Store) ClaimCount(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM claims`).Scan(&count)
	return count, err
}

// Sources returns the distinct source files loaded into the warehouse.
func (s *Store) Sources(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT DISTINCT source_file FROM claims ORDER BY source_file`)
	if err != nil {
		return nil, fmt.Errorf("querying sources: %w", err)
	}
	defer rows.Close()

	var sources []string
	for rows.Next() {
		var src string
		if err := rows.Scan(&src); err != nil {
			return nil, fmt.Errorf("scanning source: %w", err)
		}
		sources = append(sources, src)
	}
	return sources, rows.Err()
}
