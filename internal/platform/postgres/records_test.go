package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/phrazzld/study-planner/internal/domain"
	"github.com/phrazzld/study-planner/internal/platform/logger"
	"github.com/phrazzld/study-planner/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testDatabaseURLEnv names the variable that enables the database tests.
const testDatabaseURLEnv = "STUDYPLAN_TEST_DATABASE_URL"

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	url := os.Getenv(testDatabaseURLEnv)
	if url == "" {
		t.Skipf("%s not set, skipping database test", testDatabaseURLEnv)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	log, _ := logger.GetTestLogger(t)
	db, err := Open(ctx, url, log)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, Migrate(ctx, db, log))
	return db
}

func TestMapError(t *testing.T) {
	t.Parallel()

	assert.NoError(t, MapError(nil))

	err := MapError(sql.ErrNoRows)
	assert.ErrorIs(t, err, store.ErrRecordNotFound)
	assert.ErrorIs(t, err, sql.ErrNoRows)

	missing := &pgconn.PgError{Code: undefinedTableCode, Message: `relation "planner_records" does not exist`}
	err = MapError(fmt.Errorf("query: %w", missing))
	assert.ErrorIs(t, err, ErrSchemaMissing)
	assert.True(t, IsUndefinedTable(err))

	other := errors.New("connection reset")
	assert.Equal(t, other, MapError(other))
	assert.False(t, IsUndefinedTable(other))
}

func TestMaskURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"postgres://planner:secret@db:5432/planner", "postgres://planner:****@db:5432/planner"},
		{"postgres://planner:p%40ss%3Aword@db/planner?sslmode=require", "postgres://planner:****@db/planner?sslmode=require"},
		{"postgres://planner@db/planner", "postgres://planner@db/planner"},
		{"postgres://db/planner?sslmode=disable", "postgres://db/planner?sslmode=disable"},
		{"://bad", "invalid-url"},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, MaskURL(tc.in), tc.in)
	}
}

func TestEmbeddedMigrations(t *testing.T) {
	t.Parallel()

	files, err := fs.Glob(migrationsFS, "migrations/*.sql")
	require.NoError(t, err)
	require.NotEmpty(t, files)

	body, err := fs.ReadFile(migrationsFS, files[0])
	require.NoError(t, err)
	assert.Contains(t, string(body), "-- +goose Up")
	assert.Contains(t, string(body), "-- +goose Down")
	assert.Contains(t, string(body), "planner_records")
}

func TestGooseLoggerWritesToSlog(t *testing.T) {
	t.Parallel()
	log, buf := logger.GetTestLogger(t)
	l := &slogGooseLogger{logger: log}

	l.Printf("OK   %s\n", "00001_create_planner_records.sql")
	l.Fatalf("failed: %v", "boom")

	entry, found := buf.FindEntry("OK   00001_create_planner_records.sql")
	require.True(t, found)
	assert.Equal(t, "INFO", entry["level"])
	entry, found = buf.FindEntry("failed: boom")
	require.True(t, found)
	assert.Equal(t, "ERROR", entry["level"])
}

func TestNewRecordsRequiresDB(t *testing.T) {
	t.Parallel()
	_, err := NewRecords(nil, nil)
	assert.Error(t, err)
}

func TestRecordsAgainstDatabase(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	key := fmt.Sprintf("test_%d", time.Now().UnixNano())
	t.Cleanup(func() { _, _ = db.Exec(`DELETE FROM planner_records WHERE key = $1`, key) })

	records, err := NewRecords(db, nil)
	require.NoError(t, err)

	_, err = records.Read(ctx, key)
	assert.ErrorIs(t, err, store.ErrRecordNotFound)

	require.NoError(t, records.Write(ctx, key, []byte(`{"user":"Ada"}`)))
	require.NoError(t, records.Write(ctx, key, []byte(`{"user":"Grace"}`)))

	payload, err := records.Read(ctx, key)
	require.NoError(t, err)
	assert.JSONEq(t, `{"user":"Grace"}`, string(payload))

	assert.Error(t, records.Write(ctx, key, []byte(`not json`)))

	require.NoError(t, records.Delete(ctx, key))
	require.NoError(t, records.Delete(ctx, key))
	_, err = records.Read(ctx, key)
	assert.ErrorIs(t, err, store.ErrRecordNotFound)
}

func TestDocumentRoundTripAgainstDatabase(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	t.Cleanup(func() { _, _ = db.Exec(`DELETE FROM planner_records WHERE key = $1`, store.RecordKey) })

	records, err := NewRecords(db, nil)
	require.NoError(t, err)
	docStore, err := store.NewDocumentStore(records, nil)
	require.NoError(t, err)

	doc := domain.DefaultDocument()
	doc.Tasks = []domain.Task{{ID: "t1", Title: "HW1", SubjectID: "1", DueDate: domain.NewDate(2030, time.January, 1)}}
	require.NoError(t, docStore.Save(ctx, doc))

	loaded, err := docStore.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, doc, loaded)
}
