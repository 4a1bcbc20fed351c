package views

// SiteConfig holds site-wide settings populated from environment variables.
// Every handler passes this to templates so nothing is hardcoded.
type SiteConfig struct {
	Name        string // SITE_NAME  (default "Blog")
	URL         string // SITE_URL   (default "http://localhost:3000")
	Description string // SITE_DESCRIPTION
	Author      string // SITE_AUTHOR
}

// Post is the core content type stored in SQLite and rendered by templates.
// ID is server-assigned; Slug is unique across posts.
type Post struct {
	ID        string
	Title     string
	Slug      string
	Excerpt   string
	Content   string
	Published bool
	AuthorID  string
	CreatedAt string // RFC3339
	UpdatedAt string // RFC3339
	Link      string
}

// Snippet is a named block of editable page text (e.g. the homepage intro).
// At most one row exists per page name.
type Snippet struct {
	PageName  string
	Content   string
	AuthorID  string
	UpdatedAt string
}

// Image is an uploaded image's stored metadata.
type Image struct {
	Filename     string
	OriginalName string
	Width        int
	Height       int
	Size         int
	UploadedAt   string
}

// PageMeta carries per-page OpenGraph and SEO metadata into the <head> template.
type PageMeta struct {
	Title       string
	Description string
	URL         string // canonical + og:url
	OGType      string // "website" or "article"
}
