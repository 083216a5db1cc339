package repository

import (
	"context"

	"github.com/blaisecz/athlete-readiness/internal/domain"
	"gorm.io/gorm"
)

// ReportRepository appends daily reports. Rows are never updated.
type ReportRepository interface {
	Insert(ctx context.Context, report *domain.DailyReport) error
}

type reportRepository struct {
	db *gorm.DB
}

func NewReportRepository(db *gorm.DB) ReportRepository {
	return &reportRepository{db: db}
}

func (r *reportRepository) Insert(ctx context.Context, report *domain.DailyReport) error {
	return r.db.WithContext(ctx).Create(report).Error
}
