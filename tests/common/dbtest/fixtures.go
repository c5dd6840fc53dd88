//go:build unit || e2e

package dbtest

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

func CreateTestUser(t *testing.T, db DBLike, email, role string) uuid.UUID {
	t.Helper()

	userID := uuid.New()
	ctx := context.Background()

	tag, err := db.Exec(ctx,
		"INSERT INTO users (id, email, role) VALUES ($1, $2, $3) ON CONFLICT (email) DO NOTHING",
		userID, email, role)
	require.NoError(t, err)

	if tag.RowsAffected() == 0 {
		_ = db.QueryRow(ctx, "SELECT id FROM users WHERE email = $1", email).Scan(&userID)
	}

	return userID
}

func CreateTestCat(t *testing.T, db DBLike, ownerID uuid.UUID, name string) uuid.UUID {
	t.Helper()

	catID := uuid.New()
	_, err := db.Exec(context.Background(),
		"INSERT INTO cats (id, owner_id, name) VALUES ($1, $2, $3)",
		catID, ownerID, name)
	require.NoError(t, err)

	return catID
}

func CreateTestRoomType(t *testing.T, db DBLike, name string, nightlyRateCents int64, capacityPerRoom int) uuid.UUID {
	t.Helper()

	roomTypeID := uuid.New()
	ctx := context.Background()

	tag, err := db.Exec(ctx,
		"INSERT INTO room_types (id, name, nightly_rate_cents, capacity_per_room) VALUES ($1, $2, $3, $4) ON CONFLICT (name) DO NOTHING",
		roomTypeID, name, nightlyRateCents, capacityPerRoom)
	require.NoError(t, err)

	if tag.RowsAffected() == 0 {
		_ = db.QueryRow(ctx, "SELECT id FROM room_types WHERE name = $1", name).Scan(&roomTypeID)
	}

	return roomTypeID
}

func CreateTestRoom(t *testing.T, db DBLike, roomTypeID uuid.UUID, name string, capacity int) uuid.UUID {
	t.Helper()

	roomID := uuid.New()
	_, err := db.Exec(context.Background(),
		"INSERT INTO rooms (id, room_type_id, name, capacity) VALUES ($1, $2, $3, $4)",
		roomID, roomTypeID, name, capacity)
	require.NoError(t, err)

	return roomID
}

func CreateTestService(t *testing.T, db DBLike, name string, priceCents int64) uuid.UUID {
	t.Helper()

	serviceID := uuid.New()
	ctx := context.Background()

	tag, err := db.Exec(ctx,
		"INSERT INTO services (id, name, price_cents) VALUES ($1, $2, $3) ON CONFLICT (name) DO NOTHING",
		serviceID, name, priceCents)
	require.NoError(t, err)

	if tag.RowsAffected() == 0 {
		_ = db.QueryRow(ctx, "SELECT id FROM services WHERE name = $1", name).Scan(&serviceID)
	}

	return serviceID
}

// CountRows returns the row count of a table, optionally filtered.
func CountRows(t *testing.T, db DBLike, table, where string, args ...any) int {
	t.Helper()

	query := "SELECT COUNT(*) FROM " + table
	if where != "" {
		query += " WHERE " + where
	}

	var count int
	require.NoError(t, db.QueryRow(context.Background(), query, args...).Scan(&count))
	return count
}

// inserts basic reference data needed by tests
func SeedReferenceData(pool *pgxpool.Pool) error {
	ctx := context.Background()

	// Truncation removes the single pricing configuration row; put it back so
	// the engine always finds an active config.
	_, err := pool.Exec(ctx, `
		INSERT INTO pricing_configurations (id, config, version)
		VALUES (1, '{
		    "multiCatDiscountEnabled": true,
		    "multiCatDiscounts": [
		        {"catCount": 2, "discountPercent": 5},
		        {"catCount": 3, "discountPercent": 10}
		    ],
		    "sharedRoomDiscountEnabled": true,
		    "sharedRoomDiscountPercent": 10,
		    "longStayDiscountEnabled": true,
		    "longStayDiscounts": [
		        {"minNights": 7, "discountPercent": 10}
		    ]
		}'::jsonb, 1)
		ON CONFLICT (id) DO UPDATE SET config = EXCLUDED.config, version = EXCLUDED.version;
	`)
	if err != nil {
		return err
	}

	return nil
}

var (
	buildTruncateOnce sync.Once
	truncateSQL       atomic.Value // string
)

// truncates all tables and reseeds reference data
func ResetDB(pool *pgxpool.Pool) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	buildTruncateOnce.Do(func() {
		rows, err := pool.Query(ctx, `
		  SELECT 'public.' || quote_ident(tablename)
		  FROM pg_tables
		  WHERE schemaname = 'public'
		    AND tablename NOT IN ('schema_migrations')`)
		if err != nil {
			truncateSQL.Store("")
			return
		}
		defer rows.Close()
		var tables []string
		for rows.Next() {
			var t string
			if err := rows.Scan(&t); err != nil {
				truncateSQL.Store("")
				return
			}
			tables = append(tables, t)
		}
		if rows.Err() != nil {
			truncateSQL.Store("")
			return
		}
		if len(tables) == 0 {
			truncateSQL.Store("SELECT 1")
			return
		}
		truncateSQL.Store("TRUNCATE " + strings.Join(tables, ", ") + " RESTART IDENTITY CASCADE;")
	})
	sqlAny := truncateSQL.Load()
	if sqlAny == nil || sqlAny.(string) == "" {
		return fmt.Errorf("failed to build TRUNCATE SQL")
	}
	if _, err := pool.Exec(ctx, sqlAny.(string)); err != nil {
		return err
	}

	return SeedReferenceData(pool)
}
