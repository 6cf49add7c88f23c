package db

import (
	"context"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// WellFilter narrows ListWells. Zero fields do not filter.
type WellFilter struct {
	Status string
	Area   string
	// Search matches a case-insensitive substring of name, area or structure.
	Search string
}

func wellQuery(db *gorm.DB) *gorm.DB {
	return db.Preload("CreatedBy").Preload("Layers", func(tx *gorm.DB) *gorm.DB {
		return tx.Order("depth_from").Order("layer_number")
	})
}

// ListWells returns wells newest first, with creator and layers loaded.
func ListWells(ctx context.Context, db *gorm.DB, f WellFilter) ([]Well, error) {
	q := wellQuery(db.WithContext(ctx))
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.Area != "" {
		q = q.Where("area = ?", f.Area)
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		q = q.Where("(LOWER(name) LIKE ? OR LOWER(area) LIKE ? OR LOWER(structure) LIKE ?)", like, like, like)
	}

	var wells []Well
	if err := q.Order("created_at DESC").Order("id DESC").Find(&wells).Error; err != nil {
		return nil, err
	}
	return wells, nil
}

// GetWell loads one well with creator and layers.
func GetWell(ctx context.Context, db *gorm.DB, id uint) (*Well, error) {
	var w Well
	if err := wellQuery(db.WithContext(ctx)).First(&w, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &w, nil
}

// CreateWell inserts w owned by user. Client-supplied ownership and layer
// counters on w are overwritten.
func CreateWell(ctx context.Context, db *gorm.DB, user *User, w *Well) error {
	w.ID = 0
	w.CreatedByID = user.ID
	w.LayerSeq = 0
	if w.Status == "" {
		w.Status = WellPlanned
	}

	if err := db.WithContext(ctx).Omit(clause.Associations).Create(w).Error; err != nil {
		return wellWriteError(err)
	}
	w.CreatedBy = *user
	return nil
}

// UpdateWell writes the editable columns of w. Owner, timestamps of
// creation and the layer counter are never touched.
func UpdateWell(ctx context.Context, db *gorm.DB, w *Well) error {
	res := db.WithContext(ctx).Model(&Well{ID: w.ID}).Updates(map[string]interface{}{
		"name":            w.Name,
		"area":            w.Area,
		"structure":       w.Structure,
		"start_date":      dateValue(w.StartDate),
		"end_date":        dateValue(w.EndDate),
		"planned_depth":   w.PlannedDepth,
		"latitude":        w.Latitude,
		"longitude":       w.Longitude,
		"drilling_method": w.DrillingMethod,
		"drilling_rig":    w.DrillingRig,
		"vehicle":         w.Vehicle,
		"diameter":        w.Diameter,
		"status":          w.Status,
	})
	if res.Error != nil {
		return wellWriteError(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteWell removes a well together with its layers, samples and reports.
func DeleteWell(ctx context.Context, db *gorm.DB, id uint) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var w Well
		if err := tx.Select("id").First(&w, id).Error; err != nil {
			return notFound(err)
		}
		// Children are removed here as well as by the FK cascade, which
		// SQLite only enforces with foreign_keys on.
		return tx.Select("Layers", "Samples", "Reports").Delete(&w).Error
	})
}

func wellWriteError(err error) error {
	if isUniqueViolation(err) {
		return &ConflictError{Message: "well with this name already exists.", Fields: []string{"name"}}
	}
	return err
}

func dateValue(d *Date) interface{} {
	if d == nil {
		return nil
	}
	return *d
}
