package mysql

import (
	"context"
	"errors"

	"github.com/wyfcoding/portfolioanalytics/internal/analytics/domain"

	"gorm.io/gorm"
)

type reportRepository struct {
	db *gorm.DB
}

// NewReportRepository 创建并返回一个新的 ReportRepository 实例。
func NewReportRepository(db *gorm.DB) domain.ReportRepository {
	return &reportRepository{db: db}
}

// Save 持久化分析报告。报告不可变，重复 ID 视为错误。
func (r *reportRepository) Save(ctx context.Context, report *domain.AnalysisReport) error {
	model, err := toAnalysisReportModel(report)
	if err != nil {
		return err
	}
	if model == nil {
		return nil
	}
	return r.db.WithContext(ctx).Create(model).Error
}

// FindByID 按 ID 查找完整报告，不存在时返回 nil。
func (r *reportRepository) FindByID(ctx context.Context, id string) (*domain.AnalysisReport, error) {
	var model AnalysisReportModel
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return toAnalysisReport(&model)
}

// List 按创建时间倒序分页列出报告摘要，不加载 JSON 负载。
func (r *reportRepository) List(ctx context.Context, limit, offset int) ([]domain.ReportSummary, error) {
	var models []*AnalysisReportModel
	err := r.db.WithContext(ctx).
		Select("id", "created_at", "start_date", "end_date", "total_return", "sharpe_annualized", "max_drawdown").
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	summaries := make([]domain.ReportSummary, 0, len(models))
	for _, m := range models {
		summaries = append(summaries, toReportSummary(m))
	}
	return summaries, nil
}
