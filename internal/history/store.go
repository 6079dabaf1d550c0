package history

import (
	"context"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/crypto/sha3"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nao1215/retester/internal/model"
)

// DBFileName is the name of the database file inside the database directory.
const DBFileName = "retester.db"

// Store provides SQLite-based storage for past runs.
type Store struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures Store behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates a Store in the specified directory.
// If CreateIfNotExists is false and the database doesn't exist, an error is returned.
func Open(dbDir string, opts Options) (*Store, error) {
	dbPath := filepath.Join(dbDir, DBFileName)

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s (use CreateIfNotExists option to create)", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// mode=rw refuses to create a missing file, mode=rwc allows it.
	dsn := dbPath + "?mode=rw"
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(1) // SQLite only supports one writer
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	s := &Store{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := s.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return s, nil
}

// Path returns the path of the database file.
func (s *Store) Path() string {
	return s.dbPath
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// createTables creates the database schema if it doesn't exist.
func (s *Store) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT,
		pattern TEXT NOT NULL,
		digest TEXT NOT NULL,
		success INTEGER NOT NULL,
		kind TEXT,
		sample_count INTEGER NOT NULL DEFAULT 0,
		timestamp DATETIME DEFAULT CURRENT_TIMESTAMP,
		request_json TEXT NOT NULL,
		output_json TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_runs_digest ON runs(digest);
	CREATE INDEX IF NOT EXISTS idx_runs_timestamp ON runs(timestamp);
	`

	_, err := s.db.ExecContext(context.Background(), schema)
	return err
}

// Summary describes a stored run without its report.
type Summary struct {
	ID          int64
	Name        string
	Pattern     string
	Digest      string
	Success     bool
	Kind        model.FailureKind
	SampleCount int
	Timestamp   time.Time
}

// Run is a stored run with its request and output.
type Run struct {
	Summary

	Request *model.TestRequest
	Output  *model.TestOutput
}

// Digest returns the hex SHA3-256 digest of the parts of req that
// determine its output. The name is not included.
func Digest(req *model.TestRequest) string {
	key := struct {
		Pattern     string   `json:"pattern"`
		Replacement string   `json:"replacement"`
		Flags       string   `json:"flags"`
		Samples     []string `json:"samples"`
	}{
		Pattern:     req.Pattern,
		Replacement: req.Replacement,
		Flags:       req.FlagString(),
		Samples:     req.Samples,
	}
	data, _ := json.Marshal(key) //nolint:errcheck,errchkjson // strings only; Marshal won't fail
	sum := sha3.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Save stores a run and returns its ID.
func (s *Store) Save(ctx context.Context, req *model.TestRequest, out *model.TestOutput) (int64, error) {
	if req == nil || out == nil {
		return 0, errors.New("request and output are required")
	}

	reqJSON, err := json.Marshal(req)
	if err != nil {
		return 0, fmt.Errorf("failed to serialize request: %w", err)
	}
	outJSON, err := json.Marshal(out)
	if err != nil {
		return 0, fmt.Errorf("failed to serialize output: %w", err)
	}

	query := `
	INSERT INTO runs (name, pattern, digest, success, kind, sample_count, request_json, output_json)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := s.db.ExecContext(ctx, query,
		req.Name,
		req.Pattern,
		Digest(req),
		out.Success,
		string(out.Kind),
		len(req.Samples),
		string(reqJSON),
		string(outJSON),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to save run: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get run id: %w", err)
	}
	return id, nil
}

// List returns up to limit runs, newest first. A limit of zero or less
// returns every run.
func (s *Store) List(ctx context.Context, limit int) ([]Summary, error) {
	query := `
	SELECT id, name, pattern, digest, success, kind, sample_count, timestamp
	FROM runs
	ORDER BY id DESC
	`
	args := []any{}
	if limit > 0 {
		query += "LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var results []Summary
	for rows.Next() {
		var sum Summary
		var name, kind sql.NullString
		var timestamp string

		if err := rows.Scan(&sum.ID, &name, &sum.Pattern, &sum.Digest, &sum.Success, &kind, &sum.SampleCount, &timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		sum.Name = name.String
		sum.Kind = model.FailureKind(kind.String)
		sum.Timestamp = parseTimestamp(timestamp)

		results = append(results, sum)
	}

	return results, rows.Err()
}

// Get retrieves a run by its ID. It returns ErrRunNotFound if there is none.
func (s *Store) Get(ctx context.Context, id int64) (*Run, error) {
	query := `
	SELECT id, name, pattern, digest, success, kind, sample_count, timestamp, request_json, output_json
	FROM runs
	WHERE id = ?
	`

	var run Run
	var name, kind sql.NullString
	var timestamp, reqJSON, outJSON string
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&run.ID,
		&name,
		&run.Pattern,
		&run.Digest,
		&run.Success,
		&kind,
		&run.SampleCount,
		&timestamp,
		&reqJSON,
		&outJSON,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %d", ErrRunNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}

	run.Name = name.String
	run.Kind = model.FailureKind(kind.String)
	run.Timestamp = parseTimestamp(timestamp)

	run.Request = &model.TestRequest{}
	if err := json.Unmarshal([]byte(reqJSON), run.Request); err != nil {
		return nil, fmt.Errorf("failed to parse request: %w", err)
	}
	run.Output = &model.TestOutput{}
	if err := json.Unmarshal([]byte(outJSON), run.Output); err != nil {
		return nil, fmt.Errorf("failed to parse output: %w", err)
	}

	return &run, nil
}

// CountByDigest returns how many stored runs share the given digest.
func (s *Store) CountByDigest(ctx context.Context, digest string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM runs WHERE digest = ?", digest).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count runs: %w", err)
	}
	return count, nil
}

// Count returns the number of stored runs.
func (s *Store) Count(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM runs").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count runs: %w", err)
	}
	return count, nil
}

// Clear deletes every stored run and returns how many were removed.
func (s *Store) Clear(ctx context.Context) (int64, error) {
	result, err := s.db.ExecContext(ctx, "DELETE FROM runs")
	if err != nil {
		return 0, fmt.Errorf("failed to clear runs: %w", err)
	}
	return result.RowsAffected()
}

// timestampFormats contains the timestamp formats that SQLite may return.
// The order matters: more specific formats should come first.
var timestampFormats = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05Z",
	"2006-01-02T15:04:05",
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999",
}

// parseTimestamp attempts to parse a timestamp string using multiple formats.
// It returns the zero time if no format matches.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
