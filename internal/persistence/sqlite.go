package persistence

import (
	"context"
	"fmt"
	"time"

	"task-tracker-api/internal/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// recordRow is the SQL form of one stored record.
type recordRow struct {
	ID          int        `gorm:"primaryKey;autoIncrement:false"`
	Type        string     `gorm:"not null;index"`
	Name        string     `gorm:"not null"`
	Status      string     `gorm:"not null;default:'NEW'"`
	Description string
	StartTime   *time.Time `gorm:"column:start_time"`
	Duration    int64      `gorm:"column:duration_ns;not null;default:0"`
	EpicID      int        `gorm:"column:epic_id;index"`
}

// TableName specifies the table name for recordRow
func (recordRow) TableName() string {
	return "records"
}

// SQLiteBackend writes snapshots to a SQLite database through gorm.
type SQLiteBackend struct {
	db *gorm.DB
}

// NewSQLiteBackend opens (creating if needed) the SQLite file at path and
// runs migrations. glebarez/sqlite is a pure Go driver, so no CGO is needed.
func NewSQLiteBackend(path string) (*SQLiteBackend, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	return NewSQLiteBackendFromDB(db)
}

// NewSQLiteBackendFromDB wraps an already opened gorm connection and runs
// migrations on it.
func NewSQLiteBackendFromDB(db *gorm.DB) (*SQLiteBackend, error) {
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("sqlite handle: %w", err)
	}
	// SQLite allows one writer; a single connection also keeps :memory:
	// databases from splitting across connections.
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&recordRow{}); err != nil {
		return nil, fmt.Errorf("migrate sqlite: %w", err)
	}
	return &SQLiteBackend{db: db}, nil
}

// Save implements Backend.Save. The previous snapshot is replaced in one
// transaction.
func (b *SQLiteBackend) Save(ctx context.Context, snap models.Snapshot) error {
	rows := make([]recordRow, 0, snap.Len())
	for _, t := range snap.All() {
		rows = append(rows, toRow(t))
	}
	err := b.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&recordRow{}).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		return tx.CreateInBatches(&rows, 200).Error
	})
	if err != nil {
		return fmt.Errorf("save sqlite snapshot: %w", err)
	}
	return nil
}

// Load implements Backend.Load.
func (b *SQLiteBackend) Load(ctx context.Context) (models.Snapshot, error) {
	var rows []recordRow
	if err := b.db.WithContext(ctx).Order("id asc").Find(&rows).Error; err != nil {
		return models.Snapshot{}, fmt.Errorf("load sqlite snapshot: %w", err)
	}
	var snap models.Snapshot
	for _, r := range rows {
		t, err := fromRow(r)
		if err != nil {
			return models.Snapshot{}, err
		}
		snap.Put(t)
	}
	return snap, nil
}

// Close implements Backend.Close.
func (b *SQLiteBackend) Close() error {
	sqlDB, err := b.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func toRow(t models.Task) recordRow {
	r := recordRow{
		ID:          t.ID,
		Type:        string(t.Type),
		Name:        t.Name,
		Status:      string(t.Status),
		Description: t.Description,
		Duration:    int64(t.Duration),
		EpicID:      t.EpicID,
	}
	if t.IsScheduled() {
		start := t.StartTime
		r.StartTime = &start
	}
	return r
}

func fromRow(r recordRow) (models.Task, error) {
	kind, err := models.ParseType(r.Type)
	if err != nil {
		return models.Task{}, fmt.Errorf("record %d: %w", r.ID, err)
	}
	status, err := models.ParseStatus(r.Status)
	if err != nil {
		return models.Task{}, fmt.Errorf("record %d: %w", r.ID, err)
	}
	t := models.Task{
		ID:          r.ID,
		Type:        kind,
		Name:        r.Name,
		Description: r.Description,
		Status:      status,
		Duration:    time.Duration(r.Duration),
	}
	if r.StartTime != nil {
		t.StartTime = *r.StartTime
	}
	if kind == models.TypeSubtask {
		t.EpicID = r.EpicID
	}
	return t, nil
}
