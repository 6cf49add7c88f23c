package db

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func reportQuery(db *gorm.DB, user *User) *gorm.DB {
	return db.Where("reported_by_id = ?", user.ID).Preload("Well").Preload("ReportedBy")
}

// ListReports returns the reports user filed, newest date first,
// optionally for one well.
func ListReports(ctx context.Context, db *gorm.DB, user *User, wellID uint) ([]DailyReport, error) {
	q := reportQuery(db.WithContext(ctx), user)
	if wellID != 0 {
		q = q.Where("well_id = ?", wellID)
	}
	var reports []DailyReport
	if err := q.Order(clause.OrderByColumn{Column: clause.Column{Name: "date"}, Desc: true}).Order("id DESC").Find(&reports).Error; err != nil {
		return nil, err
	}
	return reports, nil
}

// GetReport loads one of the reports user filed.
func GetReport(ctx context.Context, db *gorm.DB, user *User, id uint) (*DailyReport, error) {
	var r DailyReport
	if err := reportQuery(db.WithContext(ctx), user).First(&r, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &r, nil
}

// CreateReport inserts r filed by user.
func CreateReport(ctx context.Context, db *gorm.DB, user *User, r *DailyReport) error {
	r.ID = 0
	r.ReportedByID = user.ID
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireWell(tx, r.WellID); err != nil {
			return err
		}
		if err := tx.Omit(clause.Associations).Create(r).Error; err != nil {
			return reportWriteError(err, r.WellID)
		}
		return nil
	})
}

// UpdateReport writes the editable columns of one of user's reports.
func UpdateReport(ctx context.Context, db *gorm.DB, user *User, r *DailyReport) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireWell(tx, r.WellID); err != nil {
			return err
		}
		res := tx.Model(&DailyReport{ID: r.ID}).Where("reported_by_id = ?", user.ID).Updates(map[string]interface{}{
			"well_id":        r.WellID,
			"date":           r.Date,
			"drilled_meters": r.DrilledMeters,
			"current_depth":  r.CurrentDepth,
			"drilling_time":  r.DrillingTime,
			"remarks":        r.Remarks,
		})
		if res.Error != nil {
			return reportWriteError(res.Error, r.WellID)
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// DeleteReport removes one of user's reports.
func DeleteReport(ctx context.Context, db *gorm.DB, user *User, id uint) error {
	res := db.WithContext(ctx).Where("reported_by_id = ?", user.ID).Delete(&DailyReport{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func reportWriteError(err error, wellID uint) error {
	switch {
	case isUniqueViolation(err):
		return &ConflictError{
			Message: "A daily report for this well and date already exists.",
			Fields:  []string{"well", "date"},
		}
	case isForeignKeyViolation(err):
		return missingWell(wellID)
	}
	return err
}
