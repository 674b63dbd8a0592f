package service

import (
	"context"

	"github.com/SeptianProject/sirasa-sub000/internal/model"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// StatisticsResponse is the super-admin dashboard snapshot. All point totals
// are derived from the ledger on demand, consistent with balances never
// being stored.
type StatisticsResponse struct {
	TotalUsers           int64           `json:"total_users"`
	PendingUsers         int64           `json:"pending_users"`
	TotalBankSampah      int64           `json:"total_bank_sampah"`
	TotalSubmissions     int64           `json:"total_submissions"`
	PendingSubmissions   int64           `json:"pending_submissions"`
	AcceptedSubmissions  int64           `json:"accepted_submissions"`
	TotalWeightProcessed decimal.Decimal `json:"total_weight_processed"`
	TotalPointsMinted    int64           `json:"total_points_minted"`
	TotalPointsRedeemed  int64           `json:"total_points_redeemed"`
	TotalRedemptions     int64           `json:"total_redemptions"`
}

type StatisticsService interface {
	GetStatistics(ctx context.Context) (*StatisticsResponse, error)
}

type statisticsService struct {
	db *gorm.DB
}

func NewStatisticsService(db *gorm.DB) StatisticsService {
	return &statisticsService{db: db}
}

func (s *statisticsService) GetStatistics(ctx context.Context) (*StatisticsResponse, error) {
	db := s.db.WithContext(ctx)
	stats := &StatisticsResponse{}

	if err := db.Model(&model.User{}).Count(&stats.TotalUsers).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&model.User{}).Where("status = ?", model.UserStatusPending).Count(&stats.PendingUsers).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&model.BankSampah{}).Count(&stats.TotalBankSampah).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&model.OlahanSubmission{}).Count(&stats.TotalSubmissions).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&model.OlahanSubmission{}).Where("status = ?", model.SubmissionPending).Count(&stats.PendingSubmissions).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&model.OlahanSubmission{}).Where("status = ?", model.SubmissionAccepted).Count(&stats.AcceptedSubmissions).Error; err != nil {
		return nil, err
	}

	var weight decimal.NullDecimal
	if err := db.Model(&model.OlahanSubmission{}).
		Select("SUM(weight)").
		Where("status = ?", model.SubmissionAccepted).
		Scan(&weight).Error; err != nil {
		return nil, err
	}
	if weight.Valid {
		stats.TotalWeightProcessed = weight.Decimal
	}

	var minted, redeemed int64
	if err := db.Model(&model.PointTransaction{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("type = ?", model.PointTxEarned).
		Scan(&minted).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&model.PointTransaction{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("type = ?", model.PointTxRedeemed).
		Scan(&redeemed).Error; err != nil {
		return nil, err
	}
	stats.TotalPointsMinted = minted
	stats.TotalPointsRedeemed = redeemed

	if err := db.Model(&model.PointRedemption{}).Count(&stats.TotalRedemptions).Error; err != nil {
		return nil, err
	}

	return stats, nil
}
