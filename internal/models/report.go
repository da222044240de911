package models

import "time"

// Report is a complaint one user filed about another.
type Report struct {
	ID         int64     `db:"id" json:"id"`
	ReporterID string    `db:"reporter_user_id" json:"reporter_user_id"`
	ReportedID string    `db:"reported_user_id" json:"reported_user_id"`
	Reason     string    `db:"report_reason" json:"report_reason"`
	Confirmed  bool      `db:"is_confirmed" json:"is_confirmed"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

// OpenReport is an unconfirmed report as listed to moderators. ReportCount
// counts every report against the reported user, confirmed ones included.
type OpenReport struct {
	Report
	ReportedUsername string `db:"reported_username" json:"reported_username"`
	ReportCount      int    `db:"report_count" json:"report_count"`
}
