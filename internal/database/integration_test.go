// integration_test.go
//
// A multi-tenant university library service.
// Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC
//
// This file is part of unilib.
// unilib is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published by the Free Software
// Foundation, either version 3 of the License, or (at your option) any later version.
// unilib is distributed in the hope that it will be useful, but WITHOUT ANY WARRANTY;
// without even the implied warranty of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
// See the GNU Affero General Public License for more details.
// You should have received a copy of the GNU Affero General Public License along with unilib.
// If not, see <https://www.gnu.org/licenses/>.
// Additional terms under GNU AGPL version 3 section 7:
// a) The reasonable legal notice of original copyright and author attribution must be preserved
//    by including the string: "Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC"
//    in this material, copies, or source code of derived works.

// Integration test against a real MariaDB in a container. Requires Docker;
// skipped unless RUN_DB_INTEGRATION=true.

package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	_ "github.com/go-sql-driver/mysql"
	"github.com/localnerve/unilib/internal/config"
	"github.com/localnerve/unilib/internal/models"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	testDBName     = "unilib_test"
	testDBUser     = "unilib"
	testDBPassword = "unilib-test-password"
	testDBRootPass = "root-test-password"
)

func TestMariaDBIntegration(t *testing.T) {
	if os.Getenv("RUN_DB_INTEGRATION") != "true" {
		t.Skip("Skipping: set RUN_DB_INTEGRATION=true to run against a MariaDB container")
	}

	ctx := context.Background()

	dbImage := os.Getenv("DB_IMAGE")
	if dbImage == "" {
		dbImage = "mariadb:11"
	}
	tcpPort, err := nat.NewPort("tcp", "3306")
	if err != nil {
		t.Fatalf("Failed to create DB port: %v", err)
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        dbImage,
			ExposedPorts: []string{string(tcpPort)},
			Env: map[string]string{
				"MARIADB_ROOT_PASSWORD": testDBRootPass,
				"MARIADB_DATABASE":      testDBName,
				"MARIADB_USER":          testDBUser,
				"MARIADB_PASSWORD":      testDBPassword,
			},
			WaitingFor: wait.ForListeningPort(tcpPort).WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		t.Fatalf("Failed to start MariaDB: %v", err)
	}
	defer func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("Failed to terminate MariaDB: %v", err)
		}
	}()

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("Failed to get container host: %v", err)
	}
	mappedPort, err := container.MappedPort(ctx, tcpPort)
	if err != nil {
		t.Fatalf("Failed to get mapped port: %v", err)
	}

	// Wait for the server to accept authenticated connections
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s", testDBUser, testDBPassword, host, mappedPort.Port(), testDBName)
	if err := waitForDB(dsn, 30*time.Second); err != nil {
		t.Fatalf("MariaDB never became ready: %v", err)
	}

	cfg := &config.Config{
		Env:               "test",
		DBType:            "mariadb",
		DBHost:            host,
		DBPort:            mappedPort.Port(),
		DBDatabase:        testDBName,
		DBUser:            testDBUser,
		DBPassword:        testDBPassword,
		DBConnectionLimit: 5,
		JWTSecret:         "integration-secret",
	}

	db, err := Connect(cfg)
	if err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	defer Close(db)

	if err := AutoMigrate(db); err != nil {
		t.Fatalf("AutoMigrate failed: %v", err)
	}

	// Round trip a tenant with a JSON genre column through the real driver
	uni := models.University{Name: "Integration U", Domain: "integration.edu"}
	if err := db.Create(&uni).Error; err != nil {
		t.Fatalf("Create university failed: %v", err)
	}
	book := models.BookItem{
		UniversityID: uni.UniversityID,
		Title:        "SICP",
		ISBN:         "978-0262510875",
		TotalCopies:  2,
		Genres:       models.StringList{"textbook", "programming"},
	}
	if err := db.Create(&book).Error; err != nil {
		t.Fatalf("Create book failed: %v", err)
	}

	var reloaded models.BookItem
	if err := db.First(&reloaded, "book_item_id = ?", book.BookItemID).Error; err != nil {
		t.Fatalf("Reload failed: %v", err)
	}
	if len(reloaded.Genres) != 2 || reloaded.Genres[0] != "textbook" {
		t.Errorf("Genres round trip = %v", reloaded.Genres)
	}

	// The per-tenant ISBN unique index holds on the real database
	dup := models.BookItem{
		UniversityID: uni.UniversityID,
		Title:        "SICP again",
		ISBN:         "978-0262510875",
		TotalCopies:  1,
	}
	if err := db.Create(&dup).Error; err == nil {
		t.Error("Duplicate (university, ISBN) insert succeeded, want unique violation")
	}
}

func waitForDB(dsn string, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	var lastErr error
	for time.Now().Before(deadline) {
		conn, err := sql.Open("mysql", dsn)
		if err == nil {
			err = conn.Ping()
			_ = conn.Close()
			if err == nil {
				return nil
			}
		}
		lastErr = err
		time.Sleep(time.Second)
	}
	return lastErr
}
