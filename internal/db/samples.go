package db

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func sampleQuery(db *gorm.DB, user *User) *gorm.DB {
	return db.Where("collected_by_id = ?", user.ID).Preload("Well").Preload("CollectedBy")
}

// ListSamples returns the samples user collected, optionally for one well.
func ListSamples(ctx context.Context, db *gorm.DB, user *User, wellID uint) ([]LithologySample, error) {
	q := sampleQuery(db.WithContext(ctx), user)
	if wellID != 0 {
		q = q.Where("well_id = ?", wellID)
	}
	var samples []LithologySample
	if err := q.Order("well_id").Order("depth_from").Order("id").Find(&samples).Error; err != nil {
		return nil, err
	}
	return samples, nil
}

// GetSample loads one of the samples user collected.
func GetSample(ctx context.Context, db *gorm.DB, user *User, id uint) (*LithologySample, error) {
	var s LithologySample
	if err := sampleQuery(db.WithContext(ctx), user).First(&s, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &s, nil
}

// CreateSample inserts s collected by user.
func CreateSample(ctx context.Context, db *gorm.DB, user *User, s *LithologySample) error {
	s.ID = 0
	s.CollectedByID = user.ID
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireWell(tx, s.WellID); err != nil {
			return err
		}
		if err := tx.Omit(clause.Associations).Create(s).Error; err != nil {
			if isForeignKeyViolation(err) {
				return missingWell(s.WellID)
			}
			return err
		}
		return nil
	})
}

// UpdateSample writes the editable columns of one of user's samples.
func UpdateSample(ctx context.Context, db *gorm.DB, user *User, s *LithologySample) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireWell(tx, s.WellID); err != nil {
			return err
		}
		res := tx.Model(&LithologySample{ID: s.ID}).Where("collected_by_id = ?", user.ID).Updates(map[string]interface{}{
			"well_id":     s.WellID,
			"depth_from":  s.DepthFrom,
			"depth_to":    s.DepthTo,
			"lithology":   s.Lithology,
			"description": s.Description,
		})
		if res.Error != nil {
			if isForeignKeyViolation(res.Error) {
				return missingWell(s.WellID)
			}
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// DeleteSample removes one of user's samples.
func DeleteSample(ctx context.Context, db *gorm.DB, user *User, id uint) error {
	res := db.WithContext(ctx).Where("collected_by_id = ?", user.ID).Delete(&LithologySample{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// requireWell fails validation on "well" unless the well exists.
func requireWell(tx *gorm.DB, id uint) error {
	var count int64
	if err := tx.Model(&Well{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return missingWell(id)
	}
	return nil
}
