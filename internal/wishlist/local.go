package wishlist

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// LocalBackend persists the wishlist in a local sqlite database. It is the
// offline/demo-mode backend: no change feed, single writer.
type LocalBackend struct {
	db     *sql.DB
	userID string
}

// NewLocalBackend opens (and if needed initializes) the database at dbPath
func NewLocalBackend(dbPath, userID string) (*LocalBackend, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, err
	}

	b := &LocalBackend{db: db, userID: userID}
	if err := b.init(); err != nil {
		db.Close()
		return nil, err
	}

	return b, nil
}

func (b *LocalBackend) init() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS wishlist_items (
			user_id TEXT NOT NULL,
			game_id TEXT NOT NULL,
			title TEXT NOT NULL,
			steam_app_id TEXT,
			thumb_url TEXT,
			target_price REAL,
			current_best_price REAL NOT NULL DEFAULT 0,
			added_at INTEGER NOT NULL,
			last_checked INTEGER NOT NULL,
			PRIMARY KEY (user_id, game_id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_wishlist_items_user_id ON wishlist_items(user_id)`,

		`CREATE TABLE IF NOT EXISTS preferences (
			user_id TEXT PRIMARY KEY,
			doc TEXT NOT NULL
		)`,
	}

	for _, q := range queries {
		if _, err := b.db.Exec(q); err != nil {
			return err
		}
	}

	return nil
}

// Close closes the database connection
func (b *LocalBackend) Close() error {
	return b.db.Close()
}

// Load returns all items for the backend's user, oldest first
func (b *LocalBackend) Load(ctx context.Context) ([]Item, error) {
	rows, err := b.db.QueryContext(ctx,
		`SELECT game_id, title, steam_app_id, thumb_url, target_price, current_best_price, added_at, last_checked
		 FROM wishlist_items WHERE user_id = ? ORDER BY added_at, game_id`,
		b.userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []Item
	for rows.Next() {
		var it Item
		var steamAppID, thumbURL sql.NullString
		var targetPrice sql.NullFloat64
		var addedAt, lastChecked int64

		err := rows.Scan(&it.GameID, &it.Title, &steamAppID, &thumbURL, &targetPrice, &it.CurrentBestPrice, &addedAt, &lastChecked)
		if err != nil {
			return nil, err
		}

		it.SteamAppID = steamAppID.String
		it.ThumbURL = thumbURL.String
		if targetPrice.Valid {
			it.TargetPrice = &targetPrice.Float64
		}
		it.AddedAt = time.Unix(addedAt, 0)
		it.LastChecked = time.Unix(lastChecked, 0)
		items = append(items, it)
	}

	return items, rows.Err()
}

// Put inserts or replaces an item
func (b *LocalBackend) Put(ctx context.Context, item Item) error {
	var targetPrice sql.NullFloat64
	if item.TargetPrice != nil {
		targetPrice = sql.NullFloat64{Float64: *item.TargetPrice, Valid: true}
	}

	_, err := b.db.ExecContext(ctx,
		`INSERT INTO wishlist_items (user_id, game_id, title, steam_app_id, thumb_url, target_price, current_best_price, added_at, last_checked)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(user_id, game_id) DO UPDATE SET
			title = excluded.title,
			steam_app_id = excluded.steam_app_id,
			thumb_url = excluded.thumb_url,
			target_price = excluded.target_price,
			current_best_price = excluded.current_best_price,
			added_at = excluded.added_at,
			last_checked = excluded.last_checked`,
		b.userID, item.GameID, item.Title, item.SteamAppID, item.ThumbURL,
		targetPrice, item.CurrentBestPrice, item.AddedAt.Unix(), item.LastChecked.Unix(),
	)
	return err
}

// Delete removes an item; absent items are a no-op
func (b *LocalBackend) Delete(ctx context.Context, gameID string) error {
	_, err := b.db.ExecContext(ctx,
		"DELETE FROM wishlist_items WHERE user_id = ? AND game_id = ?",
		b.userID, gameID,
	)
	return err
}

// LoadPreferences returns the saved preference document
func (b *LocalBackend) LoadPreferences(ctx context.Context) (*Preferences, error) {
	var doc string
	err := b.db.QueryRowContext(ctx,
		"SELECT doc FROM preferences WHERE user_id = ?",
		b.userID,
	).Scan(&doc)

	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	var prefs Preferences
	if err := json.Unmarshal([]byte(doc), &prefs); err != nil {
		return nil, err
	}

	return &prefs, nil
}

// SavePreferences persists the preference document
func (b *LocalBackend) SavePreferences(ctx context.Context, prefs *Preferences) error {
	doc, err := json.Marshal(prefs)
	if err != nil {
		return err
	}

	_, err = b.db.ExecContext(ctx,
		`INSERT INTO preferences (user_id, doc) VALUES (?, ?)
		 ON CONFLICT(user_id) DO UPDATE SET doc = excluded.doc`,
		b.userID, string(doc),
	)
	return err
}

// Subscribe is unsupported: local storage has no change feed
func (b *LocalBackend) Subscribe(ctx context.Context, fn func([]Item)) (func(), error) {
	return nil, ErrPushUnsupported
}
