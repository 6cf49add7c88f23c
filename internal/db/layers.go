package db

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ownedLayers restricts a layer query to wells created by user.
func ownedLayers(db *gorm.DB, user *User) *gorm.DB {
	return db.Where("well_id IN (?)", db.Session(&gorm.Session{NewDB: true}).
		Model(&Well{}).Select("id").Where("created_by_id = ?", user.ID))
}

// ListLayers returns layers on the user's wells, optionally for one well.
func ListLayers(ctx context.Context, db *gorm.DB, user *User, wellID uint) ([]GeologyLayer, error) {
	db = db.WithContext(ctx)
	q := ownedLayers(db, user).Preload("Well")
	if wellID != 0 {
		q = q.Where("well_id = ?", wellID)
	}
	var layers []GeologyLayer
	if err := q.Order("well_id").Order("depth_from").Order("layer_number").Find(&layers).Error; err != nil {
		return nil, err
	}
	return layers, nil
}

// GetLayer loads a layer on one of the user's wells.
func GetLayer(ctx context.Context, db *gorm.DB, user *User, id uint) (*GeologyLayer, error) {
	db = db.WithContext(ctx)
	var l GeologyLayer
	if err := ownedLayers(db, user).Preload("Well").First(&l, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &l, nil
}

// CreateLayer inserts l on one of the user's wells and assigns the next
// layer number for that well. The counter increment and the insert share
// a transaction; the UPDATE takes the row lock that serialises concurrent
// creators on the same well.
func CreateLayer(ctx context.Context, db *gorm.DB, user *User, l *GeologyLayer) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&Well{}).
			Where("id = ? AND created_by_id = ?", l.WellID, user.ID).
			UpdateColumn("layer_seq", gorm.Expr("layer_seq + 1"))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return missingWell(l.WellID)
		}

		var seq int
		if err := tx.Model(&Well{}).Select("layer_seq").Where("id = ?", l.WellID).Row().Scan(&seq); err != nil {
			return err
		}

		l.ID = 0
		l.LayerNumber = seq
		if err := tx.Omit(clause.Associations).Create(l).Error; err != nil {
			if isUniqueViolation(err) {
				return &ConflictError{Message: "layer number already exists for this well.", Fields: []string{"well", "layer_number"}}
			}
			if isForeignKeyViolation(err) {
				return missingWell(l.WellID)
			}
			return err
		}
		return nil
	})
}

// UpdateLayer writes the editable columns of l. The well and layer number
// are fixed at creation.
func UpdateLayer(ctx context.Context, db *gorm.DB, user *User, l *GeologyLayer) error {
	db = db.WithContext(ctx)
	res := ownedLayers(db, user).Model(&GeologyLayer{}).Where("id = ?", l.ID).Updates(map[string]interface{}{
		"depth_from":  l.DepthFrom,
		"depth_to":    l.DepthTo,
		"lithology":   l.Lithology,
		"description": l.Description,
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteLayer removes a layer on one of the user's wells.
func DeleteLayer(ctx context.Context, db *gorm.DB, user *User, id uint) error {
	db = db.WithContext(ctx)
	res := ownedLayers(db, user).Where("id = ?", id).Delete(&GeologyLayer{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
