package query

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	sq "github.com/Masterminds/squirrel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func sqEq(col string, value interface{}) sq.Sqlizer {
	return sq.Eq{col: value}
}

type row struct {
	ID    uint
	Title string
}

func (row) TableName() string { return "jobs" }

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err, "unable to open the mock database connection")
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	return db, mock
}

func TestFindPaginatesAfterCounting(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "jobs" WHERE`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(15))

	rows := sqlmock.NewRows([]string{"id", "title"})
	for i := 11; i <= 15; i++ {
		rows.AddRow(i, "job")
	}
	mock.ExpectQuery(`SELECT \* FROM "jobs" WHERE .* ORDER BY "created_at" DESC LIMIT`).
		WillReturnRows(rows)

	spec := Build(map[string][]string{"page": {"2"}, "limit": {"10"}}, JobSchema)
	page, err := Find[row](context.Background(), db, spec)
	require.NoError(t, err)

	assert.Len(t, page.Items, 5)
	assert.Equal(t, int64(15), page.Total)
	assert.Equal(t, 2, page.Page)
	assert.Equal(t, 10, page.Limit)
	assert.Equal(t, 2, page.TotalPages)
	assert.NoError(t, mock.ExpectationsWereMet(), "not all mock expectations were met")
}

func TestFindAppliesFilterToCount(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "jobs" WHERE \(title ILIKE \$1\)`).
		WithArgs("%go%").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(`SELECT "id","title" FROM "jobs" WHERE \(title ILIKE \$1\)`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title"}))

	spec := Build(map[string][]string{"title": {"go"}, "fields": {"title"}}, JobSchema)
	page, err := Find[row](context.Background(), db, spec)
	require.NoError(t, err)

	assert.Empty(t, page.Items)
	assert.NotNil(t, page.Items)
	assert.Equal(t, 0, page.TotalPages)
	assert.NoError(t, mock.ExpectationsWereMet(), "not all mock expectations were met")
}

func TestMapKeepsPagination(t *testing.T) {
	page := Page[int]{Items: []int{1, 2}, Total: 12, Page: 2, Limit: 10, TotalPages: 2}

	mapped := Map(page, func(i int) string { return "x" })

	assert.Equal(t, []string{"x", "x"}, mapped.Items)
	assert.Equal(t, int64(12), mapped.Total)
	assert.Equal(t, 2, mapped.TotalPages)
}
