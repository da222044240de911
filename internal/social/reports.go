package social

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/pkg/errors"

	"friend-service/internal/models"
	"friend-service/internal/repositories"
)

const maxReasonLength = 500

const (
	opReport        = "report.create"
	opConfirmReport = "report.confirm"
)

// ReportUser files a complaint from reporter about reported.
func (s *Service) ReportUser(ctx context.Context, reporterID, reportedID, reason string) (report models.Report, err error) {
	ctx, span := s.start(ctx, "ReportUser")
	defer func() { s.finish(ctx, span, opReport, reporterID, reportedID, err) }()

	if err = validatePair(reporterID, reportedID); err != nil {
		return models.Report{}, err
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return models.Report{}, errors.Wrap(ErrInvalidInput, "report reason is required")
	}
	if utf8.RuneCountInString(reason) > maxReasonLength {
		return models.Report{}, errors.Wrapf(ErrInvalidInput, "report reason exceeds %d characters", maxReasonLength)
	}
	if _, err = s.getUser(ctx, reportedID); err != nil {
		return models.Report{}, err
	}

	report, err = s.reports.Create(ctx, reporterID, reportedID, reason)
	if err != nil {
		return models.Report{}, storeError(err, "create report")
	}
	return report, nil
}

// ListOpenReports returns the unconfirmed reports for moderation.
func (s *Service) ListOpenReports(ctx context.Context, adminID string) ([]models.OpenReport, error) {
	ctx, span := s.start(ctx, "ListOpenReports")
	defer span.End()

	if err := s.requireAdmin(ctx, adminID); err != nil {
		return nil, err
	}
	reports, err := s.reports.ListOpen(ctx)
	if err != nil {
		return nil, storeError(err, "list reports")
	}
	if reports == nil {
		reports = []models.OpenReport{}
	}
	return reports, nil
}

// ConfirmReport marks a report as handled by an admin.
func (s *Service) ConfirmReport(ctx context.Context, adminID string, reportID int64) (err error) {
	ctx, span := s.start(ctx, "ConfirmReport")
	defer func() { s.finish(ctx, span, opConfirmReport, adminID, "", err) }()

	if err = s.requireAdmin(ctx, adminID); err != nil {
		return err
	}
	err = s.reports.Confirm(ctx, reportID)
	if errors.Is(err, repositories.ErrReportNotFound) {
		return errors.Wrapf(ErrNotFound, "report %d", reportID)
	}
	if err != nil {
		return storeError(err, "confirm report")
	}
	return nil
}
