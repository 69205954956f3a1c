package store

import (
	"context"
	stderrors "errors"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/matzehuels/revetment/pkg/errors"
	"github.com/matzehuels/revetment/pkg/material"
	"github.com/matzehuels/revetment/pkg/section"
)

type snapshotRow struct {
	ID        uuid.UUID    `gorm:"type:text;primaryKey"`
	Seq       int64        `gorm:"uniqueIndex;not null"`
	CreatedAt time.Time    `gorm:"not null"`
	Count     int          `gorm:"not null"`
	Sections  []sectionRow `gorm:"foreignKey:SnapshotID;constraint:OnDelete:CASCADE"`
}

func (snapshotRow) TableName() string { return "snapshots" }

type sectionRow struct {
	ID         uint      `gorm:"primaryKey"`
	SnapshotID uuid.UUID `gorm:"type:text;index;not null"`
	Position   int       `gorm:"not null"`

	Name                      string `gorm:"not null"`
	Velocity                  float64
	FlowRate                  float64
	InvertElevation           float64
	DownstreamInvertElevation float64
	DownstreamReachLength     float64
	WaterLevel                float64
	BankSlope                 float64
	RevetmentType             string
	TurbulenceIntensity       float64
	TurbulenceFactor          float64
	BoundaryLayer             string
	Zone                      string

	Rho          float64
	RhoStability float64
	Phi          float64
	Psi          float64
	Mu           float64
}

func (sectionRow) TableName() string { return "sections" }

// SQLStore keeps every save as a snapshot in a SQLite database.
// Load returns the most recent snapshot.
type SQLStore struct {
	db     *gorm.DB
	path   string
	logger *log.Logger
	now    func() time.Time
}

// NewSQLStore opens (or creates) the SQLite database at path and migrates its schema.
func NewSQLStore(path string, logger *log.Logger) (*SQLStore, error) {
	if err := errors.ValidatePath(path); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "create store dir")
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Silent),
	})
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "open %s", path)
	}
	if err := db.AutoMigrate(&snapshotRow{}, &sectionRow{}); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "migrate %s", path)
	}
	return &SQLStore{db: db, path: path, logger: logger, now: time.Now}, nil
}

func (s *SQLStore) Load(ctx context.Context) ([]section.Section, error) {
	var snap snapshotRow
	err := s.db.WithContext(ctx).Order("seq DESC").Limit(1).Find(&snap).Error
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "query latest snapshot")
	}
	if snap.ID == uuid.Nil {
		debugf(s.logger, "store empty", "path", s.path)
		return nil, nil
	}
	return s.sections(ctx, snap.ID)
}

func (s *SQLStore) Save(ctx context.Context, sections []section.Section) error {
	snap := snapshotRow{
		ID:        uuid.New(),
		CreatedAt: s.now().UTC(),
		Count:     len(sections),
		Sections:  make([]sectionRow, len(sections)),
	}
	for i, sec := range sections {
		snap.Sections[i] = toRow(i, sec)
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var maxSeq int64
		if err := tx.Model(&snapshotRow{}).Select("COALESCE(MAX(seq), 0)").Scan(&maxSeq).Error; err != nil {
			return err
		}
		snap.Seq = maxSeq + 1
		return tx.Create(&snap).Error
	})
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "save snapshot")
	}
	debugf(s.logger, "saved snapshot", "id", snap.ID, "count", snap.Count)
	return nil
}

// History lists snapshots, newest first.
func (s *SQLStore) History(ctx context.Context, limit int) ([]Snapshot, error) {
	q := s.db.WithContext(ctx).Order("seq DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	var rows []snapshotRow
	if err := q.Find(&rows).Error; err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "list snapshots")
	}

	out := make([]Snapshot, len(rows))
	for i, r := range rows {
		out[i] = Snapshot{ID: r.ID.String(), CreatedAt: r.CreatedAt, Count: r.Count}
	}
	return out, nil
}

// LoadSnapshot returns the sections of one snapshot.
func (s *SQLStore) LoadSnapshot(ctx context.Context, id string) ([]section.Section, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "snapshot id %q", id)
	}
	var snap snapshotRow
	err = s.db.WithContext(ctx).Where("id = ?", uid).First(&snap).Error
	if stderrors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errors.New(errors.ErrCodeNotFound, "snapshot %s not found", id)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "query snapshot %s", id)
	}
	return s.sections(ctx, uid)
}

func (s *SQLStore) sections(ctx context.Context, id uuid.UUID) ([]section.Section, error) {
	var rows []sectionRow
	if err := s.db.WithContext(ctx).Where("snapshot_id = ?", id).Order("position ASC").Find(&rows).Error; err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "query sections of %s", id)
	}

	out := make([]section.Section, len(rows))
	for i, r := range rows {
		sec, err := fromRow(r)
		if err != nil {
			return nil, errors.Context(err, "snapshot %s, section %d", id, i+1)
		}
		out[i] = sec
	}
	debugf(s.logger, "loaded snapshot", "id", id, "count", len(out))
	return out, nil
}

// Path returns the database file path.
func (s *SQLStore) Path() string { return s.path }

func (s *SQLStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func toRow(pos int, s section.Section) sectionRow {
	in := s.Inputs()
	p := s.Properties()
	return sectionRow{
		Position:                  pos,
		Name:                      in.Name,
		Velocity:                  in.Velocity,
		FlowRate:                  in.FlowRate,
		InvertElevation:           in.InvertElevation,
		DownstreamInvertElevation: in.DownstreamInvertElevation,
		DownstreamReachLength:     in.DownstreamReachLength,
		WaterLevel:                in.WaterLevel,
		BankSlope:                 in.BankSlope,
		RevetmentType:             string(in.RevetmentType),
		TurbulenceIntensity:       in.TurbulenceIntensity,
		TurbulenceFactor:          in.TurbulenceFactor,
		BoundaryLayer:             string(in.BoundaryLayer),
		Zone:                      string(in.Zone),
		Rho:                       p.Rho,
		RhoStability:              p.RhoStability,
		Phi:                       p.Phi,
		Psi:                       p.Psi,
		Mu:                        s.Mu(),
	}
}

func fromRow(r sectionRow) (section.Section, error) {
	s, err := section.New(section.Inputs{
		Name:                      r.Name,
		Velocity:                  r.Velocity,
		FlowRate:                  r.FlowRate,
		InvertElevation:           r.InvertElevation,
		DownstreamInvertElevation: r.DownstreamInvertElevation,
		DownstreamReachLength:     r.DownstreamReachLength,
		WaterLevel:                r.WaterLevel,
		BankSlope:                 r.BankSlope,
		RevetmentType:             material.Material(r.RevetmentType),
		TurbulenceIntensity:       r.TurbulenceIntensity,
		TurbulenceFactor:          r.TurbulenceFactor,
		BoundaryLayer:             section.BoundaryLayer(r.BoundaryLayer),
		Zone:                      material.Zone(r.Zone),
	})
	if err != nil {
		return section.Section{}, err
	}
	props := material.Properties{Rho: r.Rho, RhoStability: r.RhoStability, Phi: r.Phi, Psi: r.Psi}
	if err := s.Matches(props, r.Mu); err != nil {
		return section.Section{}, err
	}
	return s, nil
}

var (
	_ Store     = (*SQLStore)(nil)
	_ Historian = (*SQLStore)(nil)
)
