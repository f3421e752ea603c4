// Package sqlite implements the persistence interfaces on SQLite.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/bnema/chromekit/internal/domain/entity"
)

// ReaderCacheRepo persists extracted reader content in the
// reader_cache table. It implements cache.ExtractionStore.
type ReaderCacheRepo struct {
	db *sql.DB
}

// NewReaderCacheRepo creates a repository backed by db.
func NewReaderCacheRepo(db *sql.DB) *ReaderCacheRepo {
	return &ReaderCacheRepo{db: db}
}

// LoadAll returns every cached extraction keyed by page URL.
func (r *ReaderCacheRepo) LoadAll(ctx context.Context) (map[string]*entity.ExtractedContent, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT url, title, byline, content, text_content, site_name, error, extracted_at
		FROM reader_cache`)
	if err != nil {
		return nil, fmt.Errorf("query reader cache: %w", err)
	}
	defer rows.Close()

	result := make(map[string]*entity.ExtractedContent)
	for rows.Next() {
		var c entity.ExtractedContent
		var extractedAt string
		if err := rows.Scan(&c.URL, &c.Title, &c.Byline, &c.Content,
			&c.TextContent, &c.SiteName, &c.Error, &extractedAt); err != nil {
			return nil, fmt.Errorf("scan reader cache row: %w", err)
		}
		c.ExtractedAt = parseTimestamp(extractedAt)
		result[c.URL] = &c
	}
	return result, rows.Err()
}

// Persist upserts the extraction for its page URL.
func (r *ReaderCacheRepo) Persist(ctx context.Context, content *entity.ExtractedContent) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO reader_cache (url, title, byline, content, text_content, site_name, error, extracted_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(url) DO UPDATE SET
			title = excluded.title,
			byline = excluded.byline,
			content = excluded.content,
			text_content = excluded.text_content,
			site_name = excluded.site_name,
			error = excluded.error,
			extracted_at = excluded.extracted_at`,
		content.URL, content.Title, content.Byline, content.Content,
		content.TextContent, content.SiteName, content.Error,
		content.ExtractedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("persist reader cache entry: %w", err)
	}
	return nil
}

// Delete removes the extraction for pageURL, if any.
func (r *ReaderCacheRepo) Delete(ctx context.Context, pageURL string) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM reader_cache WHERE url = ?", pageURL); err != nil {
		return fmt.Errorf("delete reader cache entry: %w", err)
	}
	return nil
}

// PruneOlderThan removes entries extracted before cutoff and returns
// how many were deleted.
func (r *ReaderCacheRepo) PruneOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, "DELETE FROM reader_cache WHERE extracted_at < ?",
		cutoff.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return 0, fmt.Errorf("prune reader cache: %w", err)
	}
	return res.RowsAffected()
}

func parseTimestamp(s string) time.Time {
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
