package sqlite

import "database/sql"

// schema contains the SQL statements to set up the database. These run on
// startup and are idempotent.
//
// The UNIQUE index on feedback(swap_id, rater_id) is the authoritative
// guard for the one-rating-per-swap-per-rater invariant; the query inside
// CreateFeedback's transaction is advisory.
const schema = `
CREATE TABLE IF NOT EXISTS users (
    id INTEGER PRIMARY KEY,
    handle TEXT NOT NULL DEFAULT '',
    display_name TEXT NOT NULL,
    city TEXT NOT NULL,
    rating REAL NOT NULL DEFAULT 0.0,
    rating_sum INTEGER NOT NULL DEFAULT 0,
    rating_count INTEGER NOT NULL DEFAULT 0,
    completed_swaps INTEGER NOT NULL DEFAULT 0,
    banned INTEGER NOT NULL DEFAULT 0,
    registered_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS items (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    owner_id INTEGER NOT NULL,
    title TEXT NOT NULL,
    platform TEXT NOT NULL,
    condition TEXT NOT NULL,
    photo_ref TEXT NOT NULL DEFAULT '',
    wanted_desc TEXT NOT NULL DEFAULT '',
    status TEXT NOT NULL DEFAULT 'active',
    created_at INTEGER NOT NULL,
    FOREIGN KEY (owner_id) REFERENCES users(id)
);

CREATE TABLE IF NOT EXISTS swaps (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    user1_id INTEGER NOT NULL,
    user2_id INTEGER NOT NULL,
    item1_id INTEGER NOT NULL,
    item2_id INTEGER NOT NULL,
    status TEXT NOT NULL DEFAULT 'pending',
    code TEXT NOT NULL DEFAULT '',
    created_at INTEGER NOT NULL,
    updated_at INTEGER NOT NULL,
    completed_at INTEGER NOT NULL DEFAULT 0,
    FOREIGN KEY (user1_id) REFERENCES users(id),
    FOREIGN KEY (user2_id) REFERENCES users(id),
    FOREIGN KEY (item1_id) REFERENCES items(id),
    FOREIGN KEY (item2_id) REFERENCES items(id)
);

CREATE TABLE IF NOT EXISTS feedback (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    swap_id INTEGER NOT NULL,
    rater_id INTEGER NOT NULL,
    ratee_id INTEGER NOT NULL,
    stars INTEGER NOT NULL CHECK(stars >= 1 AND stars <= 5),
    comment TEXT NOT NULL DEFAULT '',
    created_at INTEGER NOT NULL,
    FOREIGN KEY (swap_id) REFERENCES swaps(id),
    FOREIGN KEY (rater_id) REFERENCES users(id),
    FOREIGN KEY (ratee_id) REFERENCES users(id)
);

CREATE TABLE IF NOT EXISTS feedback_photos (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    feedback_id INTEGER NOT NULL,
    photo_ref TEXT NOT NULL,
    created_at INTEGER NOT NULL,
    FOREIGN KEY (feedback_id) REFERENCES feedback(id)
);

CREATE UNIQUE INDEX IF NOT EXISTS uq_feedback_once_per_swap ON feedback(swap_id, rater_id);
CREATE INDEX IF NOT EXISTS idx_users_handle_nocase ON users(handle COLLATE NOCASE);
CREATE INDEX IF NOT EXISTS idx_users_city_nocase ON users(city COLLATE NOCASE);
CREATE INDEX IF NOT EXISTS idx_items_owner_status ON items(owner_id, status);
CREATE INDEX IF NOT EXISTS idx_items_status_platform_created ON items(status, platform, created_at);
CREATE INDEX IF NOT EXISTS idx_items_title_nocase ON items(title COLLATE NOCASE);
CREATE INDEX IF NOT EXISTS idx_swaps_status ON swaps(status);
CREATE INDEX IF NOT EXISTS idx_swaps_user2_status ON swaps(user2_id, status);
CREATE INDEX IF NOT EXISTS idx_feedback_ratee ON feedback(ratee_id, created_at);
CREATE INDEX IF NOT EXISTS idx_feedback_photos_feedback ON feedback_photos(feedback_id);
`

// runMigrations executes the schema setup.
func runMigrations(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}
