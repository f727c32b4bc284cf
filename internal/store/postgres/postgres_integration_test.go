package postgres

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/Bhavishyakolloori/todolist-v1/internal/store"
	"github.com/Bhavishyakolloori/todolist-v1/internal/store/storetest"
)

var (
	containerOnce sync.Once
	containerDSN  string
	containerErr  error
)

// testDSN returns TODO_TEST_POSTGRES_DSN, or starts a throwaway container when
// TODO_TEST_DOCKER=1. Otherwise the test is skipped.
func testDSN(t *testing.T) string {
	t.Helper()
	if dsn := os.Getenv("TODO_TEST_POSTGRES_DSN"); dsn != "" {
		return dsn
	}
	if os.Getenv("TODO_TEST_DOCKER") != "1" {
		t.Skip("TODO_TEST_POSTGRES_DSN not set and TODO_TEST_DOCKER!=1; skipping postgres store integration test")
	}
	containerOnce.Do(func() {
		ctx := context.Background()
		req := testcontainers.ContainerRequest{
			Image:        "postgres:16-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_PASSWORD": "postgres",
				"POSTGRES_DB":       "todo",
			},
			WaitingFor: wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60 * time.Second),
		}
		c, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
			ContainerRequest: req,
			Started:          true,
		})
		if err != nil {
			containerErr = err
			return
		}
		host, err := c.Host(ctx)
		if err != nil {
			containerErr = err
			return
		}
		port, err := c.MappedPort(ctx, "5432/tcp")
		if err != nil {
			containerErr = err
			return
		}
		containerDSN = fmt.Sprintf("postgres://postgres:postgres@%s:%s/todo?sslmode=disable", host, port.Port())
	})
	if containerErr != nil {
		t.Fatalf("start postgres container: %v", containerErr)
	}
	return containerDSN
}

func makePGStore(t *testing.T) store.Store {
	t.Helper()
	ctx := context.Background()
	db, err := Open(testDSN(t))
	if err != nil {
		t.Fatalf("postgres open: %v", err)
	}
	s := NewWithDB(db)
	if err := s.Bootstrap(ctx); err != nil {
		t.Fatalf("postgres bootstrap: %v", err)
	}
	// Each store starts from an empty Today collection.
	if _, err := db.ExecContext(ctx, `TRUNCATE today_items`); err != nil {
		t.Fatalf("truncate: %v", err)
	}
	t.Cleanup(func() { _ = s.Close(ctx) })
	return s
}

func TestPostgresStore_Compliance(t *testing.T) {
	storetest.Run(t, makePGStore)
}
