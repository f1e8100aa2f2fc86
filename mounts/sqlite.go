package mounts

import (
	"context"
	"database/sql"
	"fmt"
	"path"
	"strconv"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver (CGO_ENABLED=0 compatible)

	"github.com/mwantia/treewalk"
	"github.com/mwantia/treewalk/data"
)

// SQLiteMount is a traversable tree index persisted in a SQLite database.
// Rowids serve as inode numbers and a per-database device id is stored
// alongside the tree, so identities stay stable across reopens.
// This implementation uses modernc.org/sqlite which works without CGO.
type SQLiteMount struct {
	mu     sync.RWMutex
	db     *sql.DB
	device uint64
}

// NewSQLite creates a new SQLite-backed tree index.
// The dbPath can be ":memory:" for an in-memory database or a file path.
func NewSQLite(dbPath string) (*SQLiteMount, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	mount := &SQLiteMount{
		db: db,
	}

	if err := mount.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return mount, nil
}

// initSchema creates the node table and pins the device id for this
// database, generating one on first open.
func (sm *SQLiteMount) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS tree_nodes (
		inode INTEGER PRIMARY KEY AUTOINCREMENT,
		path TEXT UNIQUE NOT NULL,
		parent TEXT NOT NULL,
		name TEXT NOT NULL,
		is_dir INTEGER NOT NULL,
		mode INTEGER NOT NULL DEFAULT 420,
		size INTEGER NOT NULL DEFAULT 0,
		mod_time INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_tree_parent ON tree_nodes(parent, name);

	CREATE TABLE IF NOT EXISTS tree_meta (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);
	`

	if _, err := sm.db.Exec(schema); err != nil {
		return err
	}

	// Pin a random device id on first open; reuse it afterwards.
	device := xxhash.Sum64String(uuid.NewString())
	if _, err := sm.db.Exec(`
		INSERT OR IGNORE INTO tree_meta (key, value) VALUES ('device', ?)
	`, strconv.FormatUint(device, 10)); err != nil {
		return err
	}

	var stored string
	if err := sm.db.QueryRow(`SELECT value FROM tree_meta WHERE key = 'device'`).Scan(&stored); err != nil {
		return err
	}

	parsed, err := strconv.ParseUint(stored, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid stored device id: %w", err)
	}
	sm.device = parsed

	// Create root directory if it doesn't exist
	_, err = sm.db.Exec(`
		INSERT OR IGNORE INTO tree_nodes (path, parent, name, is_dir, mode, mod_time)
		VALUES ('/', '', '/', 1, ?, ?)
	`, int64(data.ModeDir|0755), time.Now().Unix())

	return err
}

// Name returns the identifier name defined for this filesystem.
func (sm *SQLiteMount) Name() string {
	return "sqlite"
}

// WorkingDirectory returns "/"; the index namespace has no process context.
func (sm *SQLiteMount) WorkingDirectory(ctx context.Context) (string, error) {
	return "/", nil
}

// Create inserts a new file or directory node into the index.
// Parent directories must exist - they are NOT created automatically.
func (sm *SQLiteMount) Create(ctx context.Context, p string, isDir bool) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	p = data.ToAbsolutePath(p)

	var exists int
	err := sm.db.QueryRowContext(ctx, "SELECT 1 FROM tree_nodes WHERE path = ?", p).Scan(&exists)
	if err == nil {
		return fmt.Errorf("%w: '%s' already indexed", treewalk.ErrInvalidPath, p)
	}
	if err != sql.ErrNoRows {
		return err
	}

	parent, ok := data.ParentOf(p)
	if !ok {
		return fmt.Errorf("%w: '%s'", treewalk.ErrInvalidPath, p)
	}

	var isParentDir int
	err = sm.db.QueryRowContext(ctx, "SELECT is_dir FROM tree_nodes WHERE path = ?", parent).Scan(&isParentDir)
	if err == sql.ErrNoRows {
		return fmt.Errorf("%w: '%s'", treewalk.ErrNotExist, parent)
	}
	if err != nil {
		return err
	}
	if isParentDir == 0 {
		return fmt.Errorf("%w: '%s'", treewalk.ErrNotDirectory, parent)
	}

	mode := int64(0644)
	if isDir {
		mode = int64(data.ModeDir | 0755)
	}

	_, err = sm.db.ExecContext(ctx, `
		INSERT INTO tree_nodes (path, parent, name, is_dir, mode, mod_time)
		VALUES (?, ?, ?, ?, ?, ?)
	`, p, parent, path.Base(p), boolToInt(isDir), mode, time.Now().Unix())

	return err
}

// Stat returns metadata for the indexed node at the given path.
func (sm *SQLiteMount) Stat(ctx context.Context, p string) (*data.FileStat, error) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	p = data.ToAbsolutePath(p)

	var inode, size, modTime, mode int64
	var name string
	var isDir int

	err := sm.db.QueryRowContext(ctx, `
		SELECT inode, name, is_dir, mode, size, mod_time
		FROM tree_nodes WHERE path = ?
	`, p).Scan(&inode, &name, &isDir, &mode, &size, &modTime)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: '%s'", treewalk.ErrNotExist, p)
	}
	if err != nil {
		return nil, err
	}

	return sm.rowStat(p, inode, isDir, mode, size, modTime), nil
}

// List returns the direct children of the indexed directory, ordered by
// name.
func (sm *SQLiteMount) List(ctx context.Context, p string) ([]*data.FileStat, error) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	p = data.ToAbsolutePath(p)

	var isDir int
	err := sm.db.QueryRowContext(ctx, "SELECT is_dir FROM tree_nodes WHERE path = ?", p).Scan(&isDir)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: '%s'", treewalk.ErrNotExist, p)
	}
	if err != nil {
		return nil, err
	}
	if isDir == 0 {
		return nil, fmt.Errorf("%w: '%s'", treewalk.ErrNotDirectory, p)
	}

	rows, err := sm.db.QueryContext(ctx, `
		SELECT path, inode, is_dir, mode, size, mod_time
		FROM tree_nodes
		WHERE parent = ?
		ORDER BY name
	`, p)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stats []*data.FileStat
	for rows.Next() {
		var childPath string
		var inode, size, modTime, mode int64
		var childIsDir int

		if err := rows.Scan(&childPath, &inode, &childIsDir, &mode, &size, &modTime); err != nil {
			return nil, fmt.Errorf("%w: under '%s': %v", treewalk.ErrCorruptEntry, p, err)
		}

		stats = append(stats, sm.rowStat(childPath, inode, childIsDir, mode, size, modTime))
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: under '%s': %v", treewalk.ErrCorruptEntry, p, err)
	}

	return stats, nil
}

// rowStat converts one node row to a FileStat.
func (sm *SQLiteMount) rowStat(p string, inode int64, isDir int, mode, size, modTime int64) *data.FileStat {
	fileType := data.FileTypeFile
	if isDir == 1 {
		fileType = data.FileTypeDirectory
	}

	stat := data.NewStat(p, fileType, data.FileMode(mode), size)
	stat.Device = sm.device
	stat.Inode = uint64(inode)
	stat.ModifyTime = time.Unix(modTime, 0)

	return stat
}

// Close closes the database connection.
func (sm *SQLiteMount) Close() error {
	return sm.db.Close()
}

// boolToInt converts a boolean to an integer (0 or 1).
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
