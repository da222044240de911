package repositories

import (
	"context"

	"github.com/jmoiron/sqlx"

	"friend-service/internal/models"
)

const reportColumns = `id, reporter_user_id, reported_user_id, report_reason, is_confirmed, created_at`

// ReportRepository persists user reports for moderation.
type ReportRepository interface {
	Create(ctx context.Context, reporterID string, reportedID string, reason string) (models.Report, error)
	ListOpen(ctx context.Context) ([]models.OpenReport, error)
	Confirm(ctx context.Context, id int64) error
}

// ReportRepo is a sqlx implementation of ReportRepository.
type ReportRepo struct {
	db *sqlx.DB
}

// NewReportRepo constructs a ReportRepo.
func NewReportRepo(db *sqlx.DB) *ReportRepo {
	return &ReportRepo{db: db}
}

// Create files a new unconfirmed report.
func (r *ReportRepo) Create(ctx context.Context, reporterID string, reportedID string, reason string) (models.Report, error) {
	var report models.Report
	err := r.db.GetContext(ctx, &report, `INSERT INTO user_reports (reporter_user_id, reported_user_id, report_reason)
        VALUES ($1, $2, $3) RETURNING `+reportColumns, reporterID, reportedID, reason)
	return report, err
}

// ListOpen returns unconfirmed reports, newest first.
func (r *ReportRepo) ListOpen(ctx context.Context) ([]models.OpenReport, error) {
	var reports []models.OpenReport
	err := r.db.SelectContext(ctx, &reports, `SELECT * FROM (
            SELECT r.id, r.reporter_user_id, r.reported_user_id, r.report_reason, r.is_confirmed, r.created_at,
                COALESCE(u.username, '') AS reported_username,
                COUNT(*) OVER (PARTITION BY r.reported_user_id) AS report_count
            FROM user_reports r
            LEFT JOIN users u ON u.id = r.reported_user_id
        ) counted
        WHERE NOT is_confirmed
        ORDER BY created_at DESC, id DESC`)
	return reports, err
}

// Confirm marks a report as handled.
func (r *ReportRepo) Confirm(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `UPDATE user_reports SET is_confirmed=TRUE WHERE id=$1`, id)
	if err != nil {
		return err
	}
	count, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrReportNotFound
	}
	return nil
}
