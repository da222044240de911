package db

import (
	"fmt"
	"log"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// ChangeChannel is the NOTIFY channel the table triggers publish on.
const ChangeChannel = "table_changes"

// Connect initializes the database connection and runs migrations.
func Connect(dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}

	if err := runMigrations(db); err != nil {
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return db, nil
}

func runMigrations(db *sqlx.DB) error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS users (
            id UUID PRIMARY KEY,
            username TEXT NOT NULL,
            avatar_url TEXT NOT NULL DEFAULT '',
            push_token TEXT NOT NULL DEFAULT '',
            is_admin BOOLEAN NOT NULL DEFAULT FALSE,
            banned_until TIMESTAMPTZ,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        );`,
		`CREATE TABLE IF NOT EXISTS relationships (
            id BIGSERIAL PRIMARY KEY,
            initiator_id UUID NOT NULL REFERENCES users(id),
            recipient_id UUID NOT NULL REFERENCES users(id),
            status TEXT NOT NULL CHECK (status IN ('pending', 'accepted')),
            initiator_attributes BIGINT[] NOT NULL DEFAULT '{}',
            recipient_attributes BIGINT[] NOT NULL DEFAULT '{}',
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            CHECK (initiator_id <> recipient_id)
        );`,
		`CREATE UNIQUE INDEX IF NOT EXISTS relationships_pair_key
            ON relationships (LEAST(initiator_id, recipient_id), GREATEST(initiator_id, recipient_id));`,
		`CREATE TABLE IF NOT EXISTS friend_attributes (
            id BIGSERIAL PRIMARY KEY,
            owner_id UUID NOT NULL REFERENCES users(id),
            label TEXT NOT NULL,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        );`,
		`CREATE TABLE IF NOT EXISTS chats (
            id BIGSERIAL PRIMARY KEY,
            user1_id UUID NOT NULL,
            user2_id UUID NOT NULL,
            created_at TIMESTAMPTZ DEFAULT NOW(),
            UNIQUE(user1_id, user2_id)
        );`,
		`CREATE TABLE IF NOT EXISTS user_reports (
            id BIGSERIAL PRIMARY KEY,
            reporter_user_id UUID NOT NULL REFERENCES users(id),
            reported_user_id UUID NOT NULL REFERENCES users(id),
            report_reason TEXT NOT NULL,
            is_confirmed BOOLEAN NOT NULL DEFAULT FALSE,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        );`,
		`CREATE OR REPLACE FUNCTION notify_table_change() RETURNS trigger AS $$
        DECLARE
            rec RECORD;
            affected TEXT[];
        BEGIN
            IF TG_OP = 'DELETE' THEN
                rec := OLD;
            ELSE
                rec := NEW;
            END IF;
            IF TG_TABLE_NAME = 'relationships' THEN
                affected := ARRAY[rec.initiator_id::text, rec.recipient_id::text];
            ELSIF TG_TABLE_NAME = 'friend_attributes' THEN
                affected := ARRAY[rec.owner_id::text];
            ELSE
                affected := ARRAY[rec.id::text];
            END IF;
            PERFORM pg_notify('` + ChangeChannel + `', json_build_object(
                'table', TG_TABLE_NAME,
                'op', lower(TG_OP),
                'user_ids', affected
            )::text);
            RETURN NULL;
        END;
        $$ LANGUAGE plpgsql;`,
	}
	for _, table := range []string{"users", "relationships", "friend_attributes"} {
		migrations = append(migrations,
			fmt.Sprintf(`DROP TRIGGER IF EXISTS %[1]s_notify ON %[1]s;`, table),
			fmt.Sprintf(`CREATE TRIGGER %[1]s_notify AFTER INSERT OR UPDATE OR DELETE ON %[1]s
            FOR EACH ROW EXECUTE FUNCTION notify_table_change();`, table),
		)
	}

	for _, m := range migrations {
		if _, err := db.Exec(m); err != nil {
			return err
		}
	}
	log.Println("database migrations applied")
	return nil
}
