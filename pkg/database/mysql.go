package database

import (
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"github.com/stream-queue-system/pkg/models"
)

type MySQLDB struct {
	*gorm.DB
}

func NewMySQLDB(host, port, user, password, dbname string) (*MySQLDB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		user, password, host, port, dbname)

	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	}

	db, err := gorm.Open(mysql.Open(dsn), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Set connection pool settings
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	// Auto-migrate the schema
	if err := autoMigrate(db); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &MySQLDB{DB: db}, nil
}

func autoMigrate(db *gorm.DB) error {
	log.Println("Running database migrations...")

	return db.AutoMigrate(
		&models.User{},
		&models.Stream{},
		&models.Upvote{},
	)
}

// User operations
func (db *MySQLDB) CreateUser(user *models.User) error {
	return db.Create(user).Error
}

func (db *MySQLDB) GetUserByID(id string) (*models.User, error) {
	var user models.User
	if err := db.First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (db *MySQLDB) GetUserByEmail(email string) (*models.User, error) {
	var user models.User
	if err := db.First(&user, "email = ?", email).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// Stream operations
func (db *MySQLDB) CreateStream(stream *models.Stream) error {
	return db.Create(stream).Error
}

func (db *MySQLDB) GetStreamByID(id string) (*models.Stream, error) {
	var stream models.Stream
	if err := db.First(&stream, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &stream, nil
}

// GetStreamsByCreator returns the creator's active streams in submission
// order. Vote counts are joined in by the caller.
func (db *MySQLDB) GetStreamsByCreator(creatorID string) ([]*models.Stream, error) {
	var streams []*models.Stream
	if err := db.Where("user_id = ? AND active = ?", creatorID, true).
		Order("created_at ASC").
		Find(&streams).Error; err != nil {
		return nil, err
	}
	return streams, nil
}

// SetStreamActive flips the one mutable field a stream has. Inactive
// streams drop out of the ranked view.
func (db *MySQLDB) SetStreamActive(id string, active bool) error {
	return db.Model(&models.Stream{}).
		Where("id = ?", id).
		Update("active", active).Error
}

// Vote operations

// AddUpvote inserts the (stream, user) relation. The insert is guarded by
// the unique index on (stream_id, user_id): a concurrent or repeated upvote
// for the same pair hits the conflict clause and inserts nothing, so the
// relation can never exist twice. Returns false when the vote already existed.
func (db *MySQLDB) AddUpvote(vote *models.Upvote) (bool, error) {
	result := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "stream_id"}, {Name: "user_id"}},
		DoNothing: true,
	}).Create(vote)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// RemoveUpvote deletes the (stream, user) relation. Deleting a relation
// that does not exist is a no-op, not an error.
func (db *MySQLDB) RemoveUpvote(streamID, userID string) error {
	return db.Where("stream_id = ? AND user_id = ?", streamID, userID).
		Delete(&models.Upvote{}).Error
}

func (db *MySQLDB) CountUpvotes(streamID string) (int64, error) {
	var count int64
	if err := db.Model(&models.Upvote{}).
		Where("stream_id = ?", streamID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (db *MySQLDB) HasUpvoted(streamID, userID string) (bool, error) {
	var count int64
	if err := db.Model(&models.Upvote{}).
		Where("stream_id = ? AND user_id = ?", streamID, userID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// CountUpvotesByStream returns vote counts for a set of streams in one
// round trip. Streams with no votes are absent from the map.
func (db *MySQLDB) CountUpvotesByStream(streamIDs []uuid.UUID) (map[uuid.UUID]int64, error) {
	if len(streamIDs) == 0 {
		return map[uuid.UUID]int64{}, nil
	}

	var rows []struct {
		StreamID uuid.UUID
		Total    int64
	}
	if err := db.Model(&models.Upvote{}).
		Select("stream_id, COUNT(*) as total").
		Where("stream_id IN ?", streamIDs).
		Group("stream_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	counts := make(map[uuid.UUID]int64, len(rows))
	for _, row := range rows {
		counts[row.StreamID] = row.Total
	}
	return counts, nil
}

// UpvotedStreamIDs returns which of the given streams the user has voted for.
func (db *MySQLDB) UpvotedStreamIDs(userID string, streamIDs []uuid.UUID) (map[uuid.UUID]bool, error) {
	if len(streamIDs) == 0 {
		return map[uuid.UUID]bool{}, nil
	}

	var ids []uuid.UUID
	if err := db.Model(&models.Upvote{}).
		Where("user_id = ? AND stream_id IN ?", userID, streamIDs).
		Pluck("stream_id", &ids).Error; err != nil {
		return nil, err
	}

	voted := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		voted[id] = true
	}
	return voted, nil
}
