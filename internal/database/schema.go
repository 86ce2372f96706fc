package database

// schema is portable between Postgres and SQLite. Calendar dates are stored
// as ISO-8601 text, money as NUMERIC.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS profiles (
		id          TEXT PRIMARY KEY,
		full_name   TEXT,
		avatar_url  TEXT,
		bio         TEXT,
		language_preference TEXT NOT NULL DEFAULT 'en',
		created_at  TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at  TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS cities (
		id          TEXT PRIMARY KEY,
		name        TEXT NOT NULL,
		country     TEXT NOT NULL,
		region      TEXT,
		image_url   TEXT,
		cost_index  NUMERIC NOT NULL DEFAULT 0,
		popularity  INTEGER NOT NULL DEFAULT 0,
		latitude    DOUBLE PRECISION,
		longitude   DOUBLE PRECISION,
		created_at  TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS activities (
		id                      TEXT PRIMARY KEY,
		name                    TEXT NOT NULL,
		category                TEXT NOT NULL,
		description             TEXT,
		average_cost            NUMERIC,
		average_duration_hours  NUMERIC,
		image_url               TEXT,
		created_at              TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS trips (
		id               TEXT PRIMARY KEY,
		user_id          TEXT NOT NULL,
		name             TEXT NOT NULL,
		description      TEXT,
		cover_image_url  TEXT,
		start_date       TEXT,
		end_date         TEXT,
		is_public        BOOLEAN NOT NULL DEFAULT FALSE,
		share_code       TEXT,
		total_budget     NUMERIC NOT NULL DEFAULT 0,
		created_at       TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at       TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE INDEX IF NOT EXISTS idx_trips_user_id ON trips(user_id)`,
	`CREATE TABLE IF NOT EXISTS trip_stops (
		id           TEXT PRIMARY KEY,
		trip_id      TEXT NOT NULL REFERENCES trips(id) ON DELETE CASCADE,
		city_id      TEXT REFERENCES cities(id) ON DELETE SET NULL,
		city_name    TEXT NOT NULL,
		country      TEXT,
		start_date   TEXT,
		end_date     TEXT,
		order_index  INTEGER NOT NULL DEFAULT 0,
		notes        TEXT,
		created_at   TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE INDEX IF NOT EXISTS idx_trip_stops_trip_id ON trip_stops(trip_id)`,
	`CREATE TABLE IF NOT EXISTS trip_activities (
		id              TEXT PRIMARY KEY,
		trip_stop_id    TEXT NOT NULL REFERENCES trip_stops(id) ON DELETE CASCADE,
		activity_id     TEXT REFERENCES activities(id) ON DELETE SET NULL,
		name            TEXT NOT NULL,
		category        TEXT,
		scheduled_date  TEXT,
		scheduled_time  TEXT,
		duration_hours  NUMERIC,
		cost            NUMERIC NOT NULL DEFAULT 0,
		notes           TEXT,
		is_completed    BOOLEAN NOT NULL DEFAULT FALSE,
		order_index     INTEGER NOT NULL DEFAULT 0,
		created_at      TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE INDEX IF NOT EXISTS idx_trip_activities_stop_id ON trip_activities(trip_stop_id)`,
	`CREATE TABLE IF NOT EXISTS expenses (
		id            TEXT PRIMARY KEY,
		trip_id       TEXT NOT NULL REFERENCES trips(id) ON DELETE CASCADE,
		trip_stop_id  TEXT REFERENCES trip_stops(id) ON DELETE SET NULL,
		category      TEXT NOT NULL,
		description   TEXT,
		amount        NUMERIC NOT NULL DEFAULT 0,
		currency      TEXT NOT NULL DEFAULT 'USD',
		expense_date  TEXT,
		created_at    TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE INDEX IF NOT EXISTS idx_expenses_trip_id ON expenses(trip_id)`,
}
