package cache

import (
	"database/sql"
	"time"
)

// CheckRecord is one password check in the local history. The password
// itself is never stored.
type CheckRecord struct {
	ID          int64
	Subject     string
	Strength    string
	Reasons     int
	Suggestions int
	CheckedAt   time.Time
}

// AddCheck appends a check to the history.
func (d *DB) AddCheck(rec CheckRecord) error {
	checkedAt := rec.CheckedAt
	if checkedAt.IsZero() {
		checkedAt = time.Now()
	}
	_, err := d.db.Exec(`INSERT INTO checks (subject, strength, reasons, suggestions, checked_at)
		VALUES (?, ?, ?, ?, ?)`,
		nullStr(rec.Subject), rec.Strength, rec.Reasons, rec.Suggestions, checkedAt.UnixNano())
	return err
}

// RecentChecks returns up to limit checks, newest first.
func (d *DB) RecentChecks(limit int) ([]CheckRecord, error) {
	rows, err := d.db.Query(`SELECT id, subject, strength, reasons, suggestions, checked_at
		FROM checks ORDER BY checked_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []CheckRecord
	for rows.Next() {
		var rec CheckRecord
		var subject sql.NullString
		var checkedAt int64
		if err := rows.Scan(&rec.ID, &subject, &rec.Strength, &rec.Reasons, &rec.Suggestions, &checkedAt); err != nil {
			return nil, err
		}
		rec.Subject = subject.String
		rec.CheckedAt = time.Unix(0, checkedAt)
		result = append(result, rec)
	}
	return result, rows.Err()
}

func nullStr(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
