package testhelpers

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"testing"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver for database/sql (migrations)
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"

	"github.com/ekaya-inc/prospect-crm/pkg/database"
)

// PostgresImage is the image used for integration tests.
const PostgresImage = "postgres:16-alpine"

// CRMDB holds a shared PostgreSQL container with the CRM schema migrated.
type CRMDB struct {
	Container testcontainers.Container
	DB        *database.DB
	ConnStr   string
}

var (
	sharedCRMDB     *CRMDB
	sharedCRMDBOnce sync.Once
	sharedCRMDBErr  error
)

// GetCRMDB returns a shared database for integration tests.
// The container is created once and reused across all tests in the run.
func GetCRMDB(t *testing.T) *CRMDB {
	t.Helper()

	if testing.Short() {
		t.Skip("Skipping integration test in short mode (requires Docker)")
	}

	sharedCRMDBOnce.Do(func() {
		sharedCRMDB, sharedCRMDBErr = setupCRMDB()
	})

	if sharedCRMDBErr != nil {
		t.Fatalf("Failed to setup test database: %v", sharedCRMDBErr)
	}

	return sharedCRMDB
}

func setupCRMDB() (*CRMDB, error) {
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        PostgresImage,
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_DB":       "crm_test",
			"POSTGRES_USER":     "crm",
			"POSTGRES_PASSWORD": "test_password",
		},
		// postgres logs readiness twice: once for the init server, once for the real one
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to start test container: %w", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get container host: %w", err)
	}

	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		return nil, fmt.Errorf("failed to get container port: %w", err)
	}

	connStr := fmt.Sprintf("postgres://crm:test_password@%s:%s/crm_test?sslmode=disable",
		host, port.Port())

	db, err := database.ConnectWithRetry(ctx, &database.Config{
		URL:            connStr,
		MaxConnections: 5,
	}, 10, zap.NewNop())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to test database: %w", err)
	}

	// Run migrations using database/sql (required by golang-migrate)
	sqlDB, err := sql.Open("pgx", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open sql connection: %w", err)
	}
	defer sqlDB.Close()

	if err := database.RunMigrations(sqlDB, zap.NewNop()); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &CRMDB{
		Container: container,
		DB:        db,
		ConnStr:   connStr,
	}, nil
}

// Scope returns a context carrying an acquired connection and its cleanup.
func (c *CRMDB) Scope(t *testing.T) (context.Context, func()) {
	t.Helper()
	ctx, cleanup, err := c.DB.WithScope(context.Background())
	if err != nil {
		t.Fatalf("failed to acquire scope: %v", err)
	}
	return ctx, cleanup
}

// Truncate empties the CRM tables, leaving lookup seed data in place.
func (c *CRMDB) Truncate(t *testing.T) {
	t.Helper()
	ctx := context.Background()
	_, err := c.DB.Pool.Exec(ctx, `TRUNCATE migration_mapping, notes, experiences, contacts, companies, prospects RESTART IDENTITY CASCADE`)
	if err != nil {
		t.Fatalf("failed to truncate tables: %v", err)
	}
}
