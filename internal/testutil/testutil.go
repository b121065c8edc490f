package testutil

import (
	"context"
	"fmt"
	"testing"
	"time"

	"logi-events/config"
	"logi-events/internal/database"
	"logi-events/internal/database/migrations"
	"logi-events/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

// SetupPostgres 連線到測試 DB 並套用 migration；連不上時 skip
func SetupPostgres(t *testing.T) *pgxpool.Pool {
	t.Helper()
	cfg := config.LoadTestConfig()

	pool, err := database.InitDatabase(&cfg.Database)
	if err != nil {
		t.Skipf("postgres unavailable: %v", err)
	}
	t.Cleanup(pool.Close)

	if err := migrations.Apply(context.Background(), pool); err != nil {
		t.Fatalf("Failed to apply migrations: %v", err)
	}

	Truncate(t, pool)
	return pool
}

// SetupRedis 僅初始化 Redis，連不上時 skip
func SetupRedis(t *testing.T) *redis.Client {
	t.Helper()
	cfg := config.LoadTestConfig()

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		t.Skipf("redis unavailable: %v", err)
	}
	t.Cleanup(func() { rdb.Close() })

	if err := rdb.FlushDB(context.Background()).Err(); err != nil {
		t.Fatalf("Failed to flush redis: %v", err)
	}
	return rdb
}

func Truncate(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()
	_, err := pool.Exec(context.Background(), "TRUNCATE one_time_codes, tickets, events, users CASCADE")
	if err != nil {
		t.Fatalf("Failed to truncate tables: %v", err)
	}
}

func CreateUser(t *testing.T, pool *pgxpool.Pool, role model.Role) *model.User {
	t.Helper()
	id := uuid.New()

	user := &model.User{
		FirstName:   "Test",
		LastName:    string(role),
		Email:       fmt.Sprintf("%s@test.com", id),
		PhoneNumber: "+50688887777",
		Role:        role,
		Verified:    true,
	}

	query := `
		INSERT INTO users (id, first_name, last_name, email, phone_number, role, verified)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at
	`
	err := pool.QueryRow(context.Background(), query,
		id, user.FirstName, user.LastName, user.Email, user.PhoneNumber, user.Role, user.Verified,
	).Scan(&user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}
	user.ID = id
	return user
}

func CreateEvent(t *testing.T, pool *pgxpool.Pool, createdBy uuid.UUID, capacity int) *model.Event {
	t.Helper()

	var event model.Event
	query := `
		INSERT INTO events (name, scheduled_at, location, description, price, category,
			capacity, available_spots, status, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $7, $8, $9)
		RETURNING id, capacity, available_spots, status, created_by
	`
	err := pool.QueryRow(context.Background(), query,
		"Test Event", time.Now().Add(72*time.Hour).UTC(), "Cartago", "integration", 15.0, "tech",
		capacity, model.EventStatusActive, createdBy,
	).Scan(&event.ID, &event.Capacity, &event.AvailableSpots, &event.Status, &event.CreatedBy)
	if err != nil {
		t.Fatalf("Failed to create test event: %v", err)
	}
	return &event
}
