// Package testutil holds helpers shared by package tests.
package testutil

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"marketplace-server/internal/models"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// NewDB opens a migrated in-memory SQLite database. It holds a single
// connection, so transactions from concurrent goroutines run one at a time.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, models.Migrate(db))
	return db
}

// Clock returns a clock that starts at start and advances one second per call.
func Clock(start time.Time) func() time.Time {
	var mu sync.Mutex
	next := start.Add(-time.Second)
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		next = next.Add(time.Second)
		return next
	}
}

// CreateUser inserts a user with a unique email.
func CreateUser(t testing.TB, db *gorm.DB, first, last string) *models.User {
	t.Helper()
	u := &models.User{FirstName: first, LastName: last, Email: uniqueEmail("user"), PasswordHash: "x"}
	require.NoError(t, db.WithContext(context.Background()).Create(u).Error)
	return u
}

// CreatePro inserts a pro with a unique email.
func CreatePro(t testing.TB, db *gorm.DB, name string) *models.Pro {
	t.Helper()
	p := &models.Pro{ProName: name, Email: uniqueEmail("pro"), PasswordHash: "x"}
	require.NoError(t, db.WithContext(context.Background()).Create(p).Error)
	return p
}

var emailSeq atomic.Int64

func uniqueEmail(prefix string) string {
	return fmt.Sprintf("%s%d@example.com", prefix, emailSeq.Add(1))
}
