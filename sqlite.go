package interpres

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"
)

const userLexiconSchema = `
CREATE TABLE IF NOT EXISTS lexicon (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	word TEXT NOT NULL,
	tag TEXT NOT NULL,
	stem TEXT NOT NULL DEFAULT '',
	categories TEXT NOT NULL DEFAULT '',
	entities TEXT NOT NULL DEFAULT '',
	attrs TEXT NOT NULL DEFAULT '',
	UNIQUE(word, tag)
);`

// UserLexicon is a SQLite table of extra lexicon rows, merged over the
// bundled word list at load time.
type UserLexicon struct {
	db   *sql.DB
	path string
}

// OpenUserLexicon opens or creates the database at path.
func OpenUserLexicon(path string) (*UserLexicon, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create user lexicon directory: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open user lexicon: %w", err)
	}
	if _, err := db.Exec(userLexiconSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init user lexicon: %w", err)
	}
	return &UserLexicon{db: db, path: path}, nil
}

// Close closes the database.
func (u *UserLexicon) Close() error { return u.db.Close() }

// Add inserts e, replacing an existing row for the same word and tag.
func (u *UserLexicon) Add(ctx context.Context, e *Entry) error {
	_, err := u.db.ExecContext(ctx, `
		INSERT INTO lexicon (word, tag, stem, categories, entities, attrs)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(word, tag) DO UPDATE SET
			stem = excluded.stem,
			categories = excluded.categories,
			entities = excluded.entities,
			attrs = excluded.attrs`,
		e.Word, e.Tag.String(), e.Stem, strings.Join(e.Categories, ","), strings.Join(e.Entities, ","), e.Attrs())
	if err != nil {
		return fmt.Errorf("add %q to user lexicon: %w", e.Word, err)
	}
	return nil
}

// Remove deletes the row for word and tag. It reports whether a row was
// deleted.
func (u *UserLexicon) Remove(ctx context.Context, word string, tag Tag) (bool, error) {
	res, err := u.db.ExecContext(ctx, `DELETE FROM lexicon WHERE word = ? AND tag = ?`, word, tag.String())
	if err != nil {
		return false, fmt.Errorf("remove %q from user lexicon: %w", word, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("remove %q from user lexicon: %w", word, err)
	}
	return n > 0, nil
}

// Entries returns every row in insertion order.
func (u *UserLexicon) Entries(ctx context.Context) ([]*Entry, error) {
	rows, err := u.db.QueryContext(ctx, `
		SELECT word, tag, stem, categories, entities, attrs
		FROM lexicon ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query user lexicon: %w", err)
	}
	defer rows.Close()

	var out []*Entry
	for rows.Next() {
		fields := make([]string, 6)
		if err := rows.Scan(&fields[0], &fields[1], &fields[2], &fields[3], &fields[4], &fields[5]); err != nil {
			return nil, fmt.Errorf("scan user lexicon: %w", err)
		}
		e, err := entryFromFields(fields)
		if err != nil {
			return nil, fmt.Errorf("user lexicon %s: %w", u.path, err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read user lexicon: %w", err)
	}
	return out, nil
}
