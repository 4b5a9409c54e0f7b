package database

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/stream-queue-system/pkg/models"
)

func newMockDB(t *testing.T) (*MySQLDB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	dialector := mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	})

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:               logger.Default.LogMode(logger.Silent),
		DisableAutomaticPing: true,
	})
	require.NoError(t, err)

	return &MySQLDB{DB: db}, mock
}

func newUpvote() *models.Upvote {
	return &models.Upvote{
		ID:        uuid.New(),
		StreamID:  uuid.New(),
		UserID:    uuid.New(),
		CreatedAt: time.Now(),
	}
}

func TestAddUpvote_InsertsRelation(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `upvotes` .*ON DUPLICATE KEY UPDATE").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	inserted, err := db.AddUpvote(newUpvote())

	require.NoError(t, err)
	assert.True(t, inserted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// The insert must carry the conflict clause so duplicate votes die at the
// unique index instead of racing through an application-level check.
func TestAddUpvote_DuplicateIsNoOp(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `upvotes` .*ON DUPLICATE KEY UPDATE").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	inserted, err := db.AddUpvote(newUpvote())

	require.NoError(t, err)
	assert.False(t, inserted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRemoveUpvote_DeletesRelation(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM `upvotes` WHERE stream_id = \\? AND user_id = \\?").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := db.RemoveUpvote(uuid.New().String(), uuid.New().String())

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRemoveUpvote_AbsentRelationIsNoOp(t *testing.T) {
	db, mock := newMockDB(t)

	streamID := uuid.New().String()
	userID := uuid.New().String()

	// Two deletes in a row of a relation that does not exist: both succeed.
	for i := 0; i < 2; i++ {
		mock.ExpectBegin()
		mock.ExpectExec("DELETE FROM `upvotes`").
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectCommit()
	}

	assert.NoError(t, db.RemoveUpvote(streamID, userID))
	assert.NoError(t, db.RemoveUpvote(streamID, userID))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCountUpvotes(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `upvotes` WHERE stream_id = \\?").
		WillReturnRows(sqlmock.NewRows([]string{"count(*)"}).AddRow(3))

	count, err := db.CountUpvotes(uuid.New().String())

	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
}

func TestHasUpvoted(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `upvotes` WHERE stream_id = \\? AND user_id = \\?").
		WillReturnRows(sqlmock.NewRows([]string{"count(*)"}).AddRow(1))

	voted, err := db.HasUpvoted(uuid.New().String(), uuid.New().String())

	require.NoError(t, err)
	assert.True(t, voted)
}

func TestCountUpvotesByStream_EmptyInput(t *testing.T) {
	db, _ := newMockDB(t)

	counts, err := db.CountUpvotesByStream(nil)

	require.NoError(t, err)
	assert.Empty(t, counts)
}

func TestCountUpvotesByStream(t *testing.T) {
	db, mock := newMockDB(t)

	s1 := uuid.New()
	s2 := uuid.New()

	mock.ExpectQuery("SELECT stream_id, COUNT\\(\\*\\) as total FROM `upvotes` WHERE stream_id IN").
		WillReturnRows(sqlmock.NewRows([]string{"stream_id", "total"}).
			AddRow(s1.String(), 2))

	counts, err := db.CountUpvotesByStream([]uuid.UUID{s1, s2})

	require.NoError(t, err)
	assert.Equal(t, int64(2), counts[s1])
	// Streams with no votes are simply absent.
	_, ok := counts[s2]
	assert.False(t, ok)
}

func TestUpvotedStreamIDs(t *testing.T) {
	db, mock := newMockDB(t)

	s1 := uuid.New()
	s2 := uuid.New()

	mock.ExpectQuery("SELECT `stream_id` FROM `upvotes` WHERE user_id = \\? AND stream_id IN").
		WillReturnRows(sqlmock.NewRows([]string{"stream_id"}).AddRow(s2.String()))

	voted, err := db.UpvotedStreamIDs(uuid.New().String(), []uuid.UUID{s1, s2})

	require.NoError(t, err)
	assert.False(t, voted[s1])
	assert.True(t, voted[s2])
}
