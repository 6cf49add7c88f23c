package db

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"drilllog/internal/config"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	PasswordCost = bcrypt.MinCost
	cfg := &config.Config{DatabaseURL: "sqlite://" + filepath.Join(t.TempDir(), "drilllog.db")}
	db, err := Connect(cfg)
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func newTestUser(t *testing.T, db *gorm.DB, username string) *User {
	t.Helper()
	u := &User{Username: username, FirstName: "Test", LastName: username}
	if err := CreateUser(context.Background(), db, u, "secret-"+username); err != nil {
		t.Fatalf("CreateUser(%s): %v", username, err)
	}
	return u
}

func newTestWell(t *testing.T, db *gorm.DB, owner *User, name string) *Well {
	t.Helper()
	w := &Well{Name: name, Area: "North", PlannedDepth: 120}
	if err := CreateWell(context.Background(), db, owner, w); err != nil {
		t.Fatalf("CreateWell(%s): %v", name, err)
	}
	return w
}

func TestCreateWellSetsOwnerAndDefaultStatus(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	a := newTestUser(t, db, "alice")
	b := newTestUser(t, db, "bob")

	w := &Well{Name: "W-1", Area: "North", PlannedDepth: 120, CreatedByID: b.ID, LayerSeq: 40}
	if err := CreateWell(ctx, db, a, w); err != nil {
		t.Fatalf("CreateWell: %v", err)
	}
	got, err := GetWell(ctx, db, w.ID)
	if err != nil {
		t.Fatalf("GetWell: %v", err)
	}
	if got.CreatedByID != a.ID || got.CreatedBy.Username != "alice" {
		t.Fatalf("created_by = %d (%s), want alice", got.CreatedByID, got.CreatedBy.Username)
	}
	if got.Status != WellPlanned {
		t.Fatalf("status = %q, want planned", got.Status)
	}
	if got.LayerSeq != 0 {
		t.Fatalf("layer_seq = %d, want 0", got.LayerSeq)
	}
}

func TestCreateWellDuplicateNameConflicts(t *testing.T) {
	db := newTestDB(t)
	a := newTestUser(t, db, "alice")
	newTestWell(t, db, a, "W-1")

	err := CreateWell(context.Background(), db, a, &Well{Name: "W-1", Area: "South", PlannedDepth: 10})
	var conflict *ConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("expected ConflictError, got %v", err)
	}
	if len(conflict.Fields) != 1 || conflict.Fields[0] != "name" {
		t.Fatalf("conflict fields = %v", conflict.Fields)
	}
}

func TestUpdateWellRenameConflictAndNotFound(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	a := newTestUser(t, db, "alice")
	newTestWell(t, db, a, "W-1")
	w2 := newTestWell(t, db, a, "W-2")

	w2.Name = "W-1"
	var conflict *ConflictError
	if err := UpdateWell(ctx, db, w2); !errors.As(err, &conflict) {
		t.Fatalf("expected ConflictError, got %v", err)
	}

	w2.Name = "W-2b"
	w2.Status = WellAbandoned
	if err := UpdateWell(ctx, db, w2); err != nil {
		t.Fatalf("UpdateWell: %v", err)
	}
	// Any status may follow any other.
	w2.Status = WellPlanned
	if err := UpdateWell(ctx, db, w2); err != nil {
		t.Fatalf("UpdateWell back to planned: %v", err)
	}

	if err := UpdateWell(ctx, db, &Well{ID: 9999, Name: "ghost", Status: WellPlanned}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListWellsFilters(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	a := newTestUser(t, db, "alice")
	w1 := newTestWell(t, db, a, "Alpha-1")
	w2 := &Well{Name: "Bravo-2", Area: "South", Structure: "Bridge pier", PlannedDepth: 30, Status: WellDrilling}
	if err := CreateWell(ctx, db, a, w2); err != nil {
		t.Fatalf("CreateWell: %v", err)
	}

	all, err := ListWells(ctx, db, WellFilter{})
	if err != nil || len(all) != 2 {
		t.Fatalf("ListWells = %d, %v", len(all), err)
	}
	if all[0].ID != w2.ID {
		t.Fatalf("expected newest first, got %s", all[0].Name)
	}

	byStatus, _ := ListWells(ctx, db, WellFilter{Status: WellDrilling})
	if len(byStatus) != 1 || byStatus[0].ID != w2.ID {
		t.Fatalf("status filter = %+v", byStatus)
	}
	byArea, _ := ListWells(ctx, db, WellFilter{Area: "North"})
	if len(byArea) != 1 || byArea[0].ID != w1.ID {
		t.Fatalf("area filter = %+v", byArea)
	}
	bySearch, _ := ListWells(ctx, db, WellFilter{Search: "PIER"})
	if len(bySearch) != 1 || bySearch[0].ID != w2.ID {
		t.Fatalf("search filter = %+v", bySearch)
	}
}

func TestWellDatesRoundTrip(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	a := newTestUser(t, db, "alice")
	start := NewDate(2024, time.May, 1)
	lat := 55.751244
	w := &Well{Name: "W-D", Area: "North", PlannedDepth: 12.5, StartDate: &start, Latitude: &lat}
	if err := CreateWell(ctx, db, a, w); err != nil {
		t.Fatalf("CreateWell: %v", err)
	}
	got, err := GetWell(ctx, db, w.ID)
	if err != nil {
		t.Fatalf("GetWell: %v", err)
	}
	if got.StartDate == nil || got.StartDate.String() != "2024-05-01" {
		t.Fatalf("start_date = %v", got.StartDate)
	}
	if got.EndDate != nil {
		t.Fatalf("end_date = %v, want nil", got.EndDate)
	}
	if got.Latitude == nil || *got.Latitude != lat {
		t.Fatalf("latitude = %v", got.Latitude)
	}
}

func newLayer(wellID uint, from, to float64) *GeologyLayer {
	return &GeologyLayer{WellID: wellID, DepthFrom: from, DepthTo: to, Lithology: "sand", Description: "fine sand"}
}

func TestCreateLayerNumbersSequentially(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	a := newTestUser(t, db, "alice")
	w := newTestWell(t, db, a, "W-1")
	other := newTestWell(t, db, a, "W-2")

	for i := 1; i <= 3; i++ {
		l := newLayer(w.ID, float64(i-1), float64(i))
		l.LayerNumber = 99
		if err := CreateLayer(ctx, db, a, l); err != nil {
			t.Fatalf("CreateLayer: %v", err)
		}
		if l.LayerNumber != i {
			t.Fatalf("layer %d got number %d", i, l.LayerNumber)
		}
	}

	l := newLayer(other.ID, 0, 1)
	if err := CreateLayer(ctx, db, a, l); err != nil {
		t.Fatalf("CreateLayer: %v", err)
	}
	if l.LayerNumber != 1 {
		t.Fatalf("numbering is per well, got %d", l.LayerNumber)
	}
}

func TestCreateLayerConcurrentNumbersAreUnique(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	a := newTestUser(t, db, "alice")
	w := newTestWell(t, db, a, "W-1")

	const n = 25
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs <- CreateLayer(ctx, db, a, newLayer(w.ID, float64(i), float64(i)+0.5))
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatalf("CreateLayer: %v", err)
		}
	}

	var numbers []int
	if err := db.Model(&GeologyLayer{}).Where("well_id = ?", w.ID).Order("layer_number").Pluck("layer_number", &numbers).Error; err != nil {
		t.Fatalf("pluck: %v", err)
	}
	if len(numbers) != n {
		t.Fatalf("got %d layers, want %d", len(numbers), n)
	}
	for i, num := range numbers {
		if num != i+1 {
			t.Fatalf("layer numbers not gapless from 1: %v", numbers)
		}
	}
}

func TestLayerNumberNotReusedAfterDelete(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	a := newTestUser(t, db, "alice")
	w := newTestWell(t, db, a, "W-1")

	first := newLayer(w.ID, 0, 1)
	second := newLayer(w.ID, 1, 2)
	for _, l := range []*GeologyLayer{first, second} {
		if err := CreateLayer(ctx, db, a, l); err != nil {
			t.Fatalf("CreateLayer: %v", err)
		}
	}
	if err := DeleteLayer(ctx, db, a, second.ID); err != nil {
		t.Fatalf("DeleteLayer: %v", err)
	}
	third := newLayer(w.ID, 1, 3)
	if err := CreateLayer(ctx, db, a, third); err != nil {
		t.Fatalf("CreateLayer: %v", err)
	}
	if third.LayerNumber != 3 {
		t.Fatalf("layer number = %d, want 3", third.LayerNumber)
	}

	// Editing the well must not rewind the counter.
	w.Name = "W-1 renamed"
	if err := UpdateWell(ctx, db, w); err != nil {
		t.Fatalf("UpdateWell: %v", err)
	}
	fourth := newLayer(w.ID, 3, 4)
	if err := CreateLayer(ctx, db, a, fourth); err != nil {
		t.Fatalf("CreateLayer: %v", err)
	}
	if fourth.LayerNumber != 4 {
		t.Fatalf("layer number = %d, want 4", fourth.LayerNumber)
	}
}

func TestLayersScopedToWellOwner(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	a := newTestUser(t, db, "alice")
	b := newTestUser(t, db, "bob")
	w := newTestWell(t, db, a, "W-1")

	var verr *ValidationError
	if err := CreateLayer(ctx, db, b, newLayer(w.ID, 0, 1)); !errors.As(err, &verr) || len(verr.Fields["well"]) == 0 {
		t.Fatalf("expected well validation error, got %v", err)
	}
	if err := CreateLayer(ctx, db, a, newLayer(4242, 0, 1)); !errors.As(err, &verr) {
		t.Fatalf("expected validation error for missing well, got %v", err)
	}

	l := newLayer(w.ID, 0, 1)
	if err := CreateLayer(ctx, db, a, l); err != nil {
		t.Fatalf("CreateLayer: %v", err)
	}
	if _, err := GetLayer(ctx, db, b, l.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("GetLayer as other user: %v", err)
	}
	if list, err := ListLayers(ctx, db, b, 0); err != nil || len(list) != 0 {
		t.Fatalf("ListLayers as other user = %d, %v", len(list), err)
	}
	if err := DeleteLayer(ctx, db, b, l.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("DeleteLayer as other user: %v", err)
	}

	l.Description = "coarse sand"
	if err := UpdateLayer(ctx, db, a, l); err != nil {
		t.Fatalf("UpdateLayer: %v", err)
	}
	got, err := GetLayer(ctx, db, a, l.ID)
	if err != nil || got.Description != "coarse sand" || got.Well.Name != "W-1" {
		t.Fatalf("GetLayer = %+v, %v", got, err)
	}
	if got.Thickness() != 1 {
		t.Fatalf("thickness = %v", got.Thickness())
	}
}

func TestSamplesScopedToCollector(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	a := newTestUser(t, db, "alice")
	b := newTestUser(t, db, "bob")
	w := newTestWell(t, db, a, "W-1")
	w2 := newTestWell(t, db, b, "W-2")

	mine := &LithologySample{WellID: w.ID, DepthFrom: 2.5, DepthTo: 5.75, Lithology: "clay", CollectedByID: b.ID}
	if err := CreateSample(ctx, db, a, mine); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}
	if mine.CollectedByID != a.ID {
		t.Fatalf("collected_by = %d, want %d", mine.CollectedByID, a.ID)
	}
	theirs := &LithologySample{WellID: w.ID, DepthFrom: 0, DepthTo: 1, Lithology: "sand"}
	if err := CreateSample(ctx, db, b, theirs); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}
	if err := CreateSample(ctx, db, a, &LithologySample{WellID: w2.ID, DepthFrom: 0, DepthTo: 1, Lithology: "peat"}); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}

	list, err := ListSamples(ctx, db, a, w.ID)
	if err != nil {
		t.Fatalf("ListSamples: %v", err)
	}
	if len(list) != 1 || list[0].ID != mine.ID {
		t.Fatalf("ListSamples(well) = %+v", list)
	}
	if list[0].Thickness() != 3.25 {
		t.Fatalf("thickness = %v, want 3.25", list[0].Thickness())
	}
	if list[0].CollectedBy.Username != "alice" || list[0].Well.Name != "W-1" {
		t.Fatalf("associations not loaded: %+v", list[0])
	}
	if all, _ := ListSamples(ctx, db, a, 0); len(all) != 2 {
		t.Fatalf("ListSamples(all) = %d, want 2", len(all))
	}

	if _, err := GetSample(ctx, db, a, theirs.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("GetSample other user's: %v", err)
	}
	theirs.Description = "hijack"
	if err := UpdateSample(ctx, db, a, theirs); !errors.Is(err, ErrNotFound) {
		t.Fatalf("UpdateSample other user's: %v", err)
	}
	if err := DeleteSample(ctx, db, a, theirs.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("DeleteSample other user's: %v", err)
	}

	mine.WellID = 777
	var verr *ValidationError
	if err := UpdateSample(ctx, db, a, mine); !errors.As(err, &verr) {
		t.Fatalf("UpdateSample to missing well: %v", err)
	}
}

func TestCreateSampleMissingWell(t *testing.T) {
	db := newTestDB(t)
	a := newTestUser(t, db, "alice")
	err := CreateSample(context.Background(), db, a, &LithologySample{WellID: 31, DepthFrom: 0, DepthTo: 1, Lithology: "sand"})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if msgs := verr.Fields["well"]; len(msgs) != 1 || msgs[0] != `Invalid pk "31" - object does not exist.` {
		t.Fatalf("well messages = %v", msgs)
	}
}

func TestReportUniquePerWellAndDate(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	a := newTestUser(t, db, "alice")
	b := newTestUser(t, db, "bob")
	w := newTestWell(t, db, a, "W-1")
	w2 := newTestWell(t, db, a, "W-2")
	day := NewDate(2024, time.June, 3)

	first := &DailyReport{WellID: w.ID, Date: day, DrilledMeters: 12.5, CurrentDepth: 12.5, DrillingTime: 8}
	if err := CreateReport(ctx, db, a, first); err != nil {
		t.Fatalf("CreateReport: %v", err)
	}

	var conflict *ConflictError
	dup := &DailyReport{WellID: w.ID, Date: day, DrilledMeters: 1, CurrentDepth: 13.5, DrillingTime: 1}
	if err := CreateReport(ctx, db, b, dup); !errors.As(err, &conflict) {
		t.Fatalf("expected ConflictError, got %v", err)
	}

	if err := CreateReport(ctx, db, a, &DailyReport{WellID: w2.ID, Date: day}); err != nil {
		t.Fatalf("same date on another well: %v", err)
	}
	next := &DailyReport{WellID: w.ID, Date: NewDate(2024, time.June, 4), DrilledMeters: 3, CurrentDepth: 15.5, DrillingTime: 4}
	if err := CreateReport(ctx, db, a, next); err != nil {
		t.Fatalf("CreateReport next day: %v", err)
	}

	next.Date = day
	if err := UpdateReport(ctx, db, a, next); !errors.As(err, &conflict) {
		t.Fatalf("moving onto a used date: %v", err)
	}

	list, err := ListReports(ctx, db, a, w.ID)
	if err != nil || len(list) != 2 {
		t.Fatalf("ListReports = %d, %v", len(list), err)
	}
	if list[0].Date.String() != "2024-06-04" {
		t.Fatalf("expected newest date first, got %s", list[0].Date)
	}
	if list[0].ReportedBy.Username != "alice" {
		t.Fatalf("reported_by not loaded: %+v", list[0].ReportedBy)
	}
	if _, err := GetReport(ctx, db, b, first.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("GetReport other user's: %v", err)
	}
}

func TestDeleteWellCascades(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	a := newTestUser(t, db, "alice")
	w := newTestWell(t, db, a, "W-1")
	keep := newTestWell(t, db, a, "W-keep")

	if err := CreateLayer(ctx, db, a, newLayer(w.ID, 0, 1)); err != nil {
		t.Fatalf("CreateLayer: %v", err)
	}
	if err := CreateLayer(ctx, db, a, newLayer(keep.ID, 0, 1)); err != nil {
		t.Fatalf("CreateLayer: %v", err)
	}
	if err := CreateSample(ctx, db, a, &LithologySample{WellID: w.ID, DepthFrom: 0, DepthTo: 1, Lithology: "sand"}); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}
	if err := CreateReport(ctx, db, a, &DailyReport{WellID: w.ID, Date: NewDate(2024, time.January, 2)}); err != nil {
		t.Fatalf("CreateReport: %v", err)
	}

	if err := DeleteWell(ctx, db, w.ID); err != nil {
		t.Fatalf("DeleteWell: %v", err)
	}
	if _, err := GetWell(ctx, db, w.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("GetWell after delete: %v", err)
	}
	for name, model := range map[string]interface{}{
		"layers":  &GeologyLayer{},
		"samples": &LithologySample{},
		"reports": &DailyReport{},
	} {
		var count int64
		if err := db.Model(model).Where("well_id = ?", w.ID).Count(&count).Error; err != nil {
			t.Fatalf("count %s: %v", name, err)
		}
		if count != 0 {
			t.Fatalf("%d %s left after deleting the well", count, name)
		}
	}
	var kept int64
	db.Model(&GeologyLayer{}).Where("well_id = ?", keep.ID).Count(&kept)
	if kept != 1 {
		t.Fatalf("layers of other wells were deleted")
	}

	if err := DeleteWell(ctx, db, w.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second DeleteWell: %v", err)
	}
}
