package secblog

import (
	"database/sql"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/vladsec/secblog/views"
)

// Store wraps a SQLite database and provides row-level operations for
// posts, page snippets, users, and uploaded image metadata.
type Store struct {
	db *sql.DB
}

// NewStore opens (or creates) the SQLite database at path, ensures the data
// directory exists, and runs schema migrations.
func NewStore(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// Enable WAL mode for concurrent read/write access, set a busy timeout
	// so writers wait instead of returning SQLITE_BUSY immediately, and tune
	// performance: synchronous=NORMAL is safe with WAL and avoids an fsync
	// per transaction; larger cache and mmap reduce disk I/O.
	if _, err := db.Exec(`
		PRAGMA journal_mode=WAL;
		PRAGMA busy_timeout=5000;
		PRAGMA synchronous=NORMAL;
		PRAGMA cache_size=-8000;
		PRAGMA mmap_size=268435456;
	`); err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(4)
	s := &Store{db: db}
	if err := s.ensureSchema(); err != nil {
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) ensureSchema() error {
	_, err := s.db.Exec(`
CREATE TABLE IF NOT EXISTS users (
    id TEXT PRIMARY KEY,
    email TEXT NOT NULL UNIQUE,
    password_hash TEXT NOT NULL,
    created_at TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS posts (
    id TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    slug TEXT NOT NULL UNIQUE,
    excerpt TEXT NOT NULL DEFAULT '',
    content TEXT NOT NULL,
    published INTEGER NOT NULL DEFAULT 0,
    author_id TEXT NOT NULL,
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS page_content (
    page_name TEXT PRIMARY KEY,
    content TEXT NOT NULL,
    author_id TEXT NOT NULL,
    updated_at TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS images (
    filename TEXT PRIMARY KEY,
    original_name TEXT NOT NULL,
    width INTEGER NOT NULL,
    height INTEGER NOT NULL,
    size INTEGER NOT NULL,
    uploaded_at TEXT NOT NULL
);
`)
	return err
}

func nowRFC3339() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// --- Users ---

// User is an admin account row. Passwords are stored as bcrypt hashes.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	CreatedAt    string
}

// GetUserByEmail returns the user with the given email, or sql.ErrNoRows.
func (s *Store) GetUserByEmail(email string) (User, error) {
	var u User
	err := s.db.QueryRow(`SELECT id, email, password_hash, created_at FROM users WHERE email = ?`, email).
		Scan(&u.ID, &u.Email, &u.PasswordHash, &u.CreatedAt)
	return u, err
}

// EnsureUser creates a user with the given email and password hash if no
// user with that email exists yet. Returns the user's id either way.
func (s *Store) EnsureUser(email, passwordHash string) (string, error) {
	u, err := s.GetUserByEmail(email)
	if err == nil {
		return u.ID, nil
	}
	if err != sql.ErrNoRows {
		return "", err
	}
	id := uuid.NewString()
	_, err = s.db.Exec(`INSERT INTO users (id, email, password_hash, created_at) VALUES (?, ?, ?, ?)`,
		id, email, passwordHash, nowRFC3339())
	if err != nil {
		return "", err
	}
	return id, nil
}

// --- Posts ---

const postColumns = `id, title, slug, excerpt, content, published, author_id, created_at, updated_at`

func scanPost(row interface{ Scan(...any) error }) (views.Post, error) {
	var p views.Post
	var published int
	err := row.Scan(&p.ID, &p.Title, &p.Slug, &p.Excerpt, &p.Content, &published, &p.AuthorID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return views.Post{}, err
	}
	p.Published = published == 1
	p.Link = "/blog/" + p.Slug
	return p, nil
}

func (s *Store) queryPosts(query string, args ...any) ([]views.Post, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []views.Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

// ListPublishedPosts returns all published posts ordered by creation time
// descending.
func (s *Store) ListPublishedPosts() ([]views.Post, error) {
	return s.queryPosts(`SELECT ` + postColumns + ` FROM posts WHERE published = 1 ORDER BY created_at DESC`)
}

// ListAllPosts returns every post (published and drafts) ordered by
// creation time descending, for the admin dashboard.
func (s *Store) ListAllPosts() ([]views.Post, error) {
	return s.queryPosts(`SELECT ` + postColumns + ` FROM posts ORDER BY created_at DESC`)
}

// GetPublishedPost returns a single published post by slug. A missing or
// unpublished post yields sql.ErrNoRows.
func (s *Store) GetPublishedPost(slug string) (views.Post, error) {
	return scanPost(s.db.QueryRow(`SELECT `+postColumns+` FROM posts WHERE slug = ? AND published = 1`, slug))
}

// GetPostByID returns a post by id regardless of published status.
func (s *Store) GetPostByID(id string) (views.Post, error) {
	return scanPost(s.db.QueryRow(`SELECT `+postColumns+` FROM posts WHERE id = ?`, id))
}

// SlugInUse reports whether any post other than excludeID already owns slug.
func (s *Store) SlugInUse(slug, excludeID string) (bool, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM posts WHERE slug = ? AND id != ?`, slug, excludeID).Scan(&n)
	return n > 0, err
}

// InsertPost writes a new post row. The caller assigns id and timestamps.
// The UNIQUE constraint on slug is the authority on slug uniqueness; the
// submission workflow's SlugInUse check is only a friendlier first line.
func (s *Store) InsertPost(p views.Post) error {
	published := 0
	if p.Published {
		published = 1
	}
	_, err := s.db.Exec(`INSERT INTO posts (`+postColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Title, p.Slug, p.Excerpt, p.Content, published, p.AuthorID, p.CreatedAt, p.UpdatedAt)
	return err
}

// UpdatePost rewrites all editable fields of the post with p.ID, but only
// when it is authored by authorID. Returns the number of rows written, so
// callers can distinguish a verify/write mismatch from success.
func (s *Store) UpdatePost(p views.Post, authorID string) (int64, error) {
	published := 0
	if p.Published {
		published = 1
	}
	res, err := s.db.Exec(`UPDATE posts SET title = ?, slug = ?, excerpt = ?, content = ?, published = ?, updated_at = ? WHERE id = ? AND author_id = ?`,
		p.Title, p.Slug, p.Excerpt, p.Content, published, p.UpdatedAt, p.ID, authorID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// DeletePost removes the post with id if it is authored by authorID.
// Returns the number of rows removed.
func (s *Store) DeletePost(id, authorID string) (int64, error) {
	res, err := s.db.Exec(`DELETE FROM posts WHERE id = ? AND author_id = ?`, id, authorID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// --- Page snippets ---

// GetSnippet returns the snippet stored for page, or sql.ErrNoRows.
func (s *Store) GetSnippet(page string) (views.Snippet, error) {
	var sn views.Snippet
	err := s.db.QueryRow(`SELECT page_name, content, author_id, updated_at FROM page_content WHERE page_name = ?`, page).
		Scan(&sn.PageName, &sn.Content, &sn.AuthorID, &sn.UpdatedAt)
	return sn, err
}

// UpsertSnippet updates the snippet for page in place when a row exists,
// otherwise inserts a new row tagged with the editing user's id.
func (s *Store) UpsertSnippet(page, content, authorID string) error {
	_, err := s.GetSnippet(page)
	switch err {
	case nil:
		_, err = s.db.Exec(`UPDATE page_content SET content = ?, author_id = ?, updated_at = ? WHERE page_name = ?`,
			content, authorID, nowRFC3339(), page)
		return err
	case sql.ErrNoRows:
		_, err = s.db.Exec(`INSERT INTO page_content (page_name, content, author_id, updated_at) VALUES (?, ?, ?, ?)`,
			page, content, authorID, nowRFC3339())
		return err
	default:
		return err
	}
}

// --- Images ---

// SaveImage upserts uploaded image metadata.
func (s *Store) SaveImage(img views.Image) error {
	_, err := s.db.Exec(`INSERT OR REPLACE INTO images (filename, original_name, width, height, size, uploaded_at) VALUES (?, ?, ?, ?, ?, ?)`,
		img.Filename, img.OriginalName, img.Width, img.Height, img.Size, img.UploadedAt)
	return err
}

// ListImages returns all uploaded images, newest first.
func (s *Store) ListImages() ([]views.Image, error) {
	rows, err := s.db.Query(`SELECT filename, original_name, width, height, size, uploaded_at FROM images ORDER BY uploaded_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var images []views.Image
	for rows.Next() {
		var img views.Image
		if err := rows.Scan(&img.Filename, &img.OriginalName, &img.Width, &img.Height, &img.Size, &img.UploadedAt); err != nil {
			return nil, err
		}
		images = append(images, img)
	}
	return images, rows.Err()
}

// DeleteImage removes image metadata by filename.
func (s *Store) DeleteImage(filename string) error {
	_, err := s.db.Exec(`DELETE FROM images WHERE filename = ?`, filename)
	return err
}
