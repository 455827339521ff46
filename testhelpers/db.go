// Copyright (C) 2025-2026 Ultraconf Authors
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, version 3.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program. If not, see <http://www.gnu.org/licenses/>.

// Package testhelpers creates disposable test databases for integration
// tests.
package testhelpers

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ultraconf/ultraconf/configdb/migrations"
)

// SetupTestDB creates a clean test database with migrations applied.
// Connection details come from ULTRACONF_TEST_HOST/PORT/USER/PASSWORD/DBNAME,
// defaulting to a local server. Returns a connection pool and registers
// cleanup with t.Cleanup.
func SetupTestDB(t *testing.T) *pgxpool.Pool {
	t.Helper()

	ctx := context.Background()
	dbName := fmt.Sprintf("test_ultraconf_%d_%d", time.Now().Unix(), rand.Intn(10000))

	host := getEnvOrDefault("ULTRACONF_TEST_HOST", "localhost")
	port := getEnvOrDefault("ULTRACONF_TEST_PORT", "5432")
	user := getEnvOrDefault("ULTRACONF_TEST_USER", os.Getenv("USER"))
	baseDB := getEnvOrDefault("ULTRACONF_TEST_DBNAME", "postgres")
	password := os.Getenv("ULTRACONF_TEST_PASSWORD")

	basePool, err := pgxpool.New(ctx, connString(user, password, host, port, baseDB))
	if err != nil {
		t.Fatalf("Failed to connect to base database: %v", err)
	}

	if _, err := basePool.Exec(ctx, fmt.Sprintf("CREATE DATABASE %s", dbName)); err != nil {
		basePool.Close()
		t.Fatalf("Failed to create test database %s: %v", dbName, err)
	}

	testPool, err := pgxpool.New(ctx, connString(user, password, host, port, dbName))
	if err != nil {
		basePool.Close()
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	if err := migrations.RunMigrationsUp(ctx, testPool); err != nil {
		testPool.Close()
		basePool.Close()
		t.Fatalf("Failed to run migrations: %v", err)
	}

	t.Cleanup(func() {
		testPool.Close()
		dropCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		_, _ = basePool.Exec(dropCtx, fmt.Sprintf("DROP DATABASE IF EXISTS %s", dbName))
		basePool.Close()
	})

	return testPool
}

func connString(user, password, host, port, dbname string) string {
	if password != "" {
		return fmt.Sprintf("postgresql://%s:%s@%s:%s/%s?sslmode=disable", user, password, host, port, dbname)
	}
	return fmt.Sprintf("postgresql://%s@%s:%s/%s", user, host, port, dbname)
}

func getEnvOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
