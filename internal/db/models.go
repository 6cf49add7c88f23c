package db

import (
	"math"
	"time"
)

// Well is a drilling site. Its layers, samples and reports are deleted
// with it.
type Well struct {
	ID uint `gorm:"primaryKey"`

	CreatedAt time.Time `gorm:"index"`
	UpdatedAt time.Time

	Name      string `gorm:"uniqueIndex;size:100;not null"`
	Area      string `gorm:"size:100;not null"`
	Structure string `gorm:"size:100;not null"`

	StartDate *Date
	EndDate   *Date

	PlannedDepth float64  `gorm:"type:decimal(6,2);not null"`
	Latitude     *float64 `gorm:"type:decimal(9,6)"`
	Longitude    *float64 `gorm:"type:decimal(9,6)"`

	DrillingMethod string `gorm:"size:20;not null"`
	DrillingRig    string `gorm:"size:100;not null"`
	Vehicle        string `gorm:"size:100;not null"`
	Diameter       string `gorm:"size:50;not null"`

	// Status is one of WellStatuses. Any status may follow any other.
	Status string `gorm:"size:20;not null;index"`

	CreatedByID uint `gorm:"index;not null"`
	CreatedBy   User `gorm:"foreignKey:CreatedByID;constraint:OnDelete:CASCADE"`

	// LayerSeq is the last layer number handed out for this well. It only
	// ever grows, so numbers of deleted layers are not reused.
	LayerSeq int `gorm:"not null;default:0"`

	Layers  []GeologyLayer    `gorm:"foreignKey:WellID;constraint:OnDelete:CASCADE"`
	Samples []LithologySample `gorm:"foreignKey:WellID;constraint:OnDelete:CASCADE"`
	Reports []DailyReport     `gorm:"foreignKey:WellID;constraint:OnDelete:CASCADE"`
}

// GeologyLayer is a numbered depth interval logged while a well is drilled.
type GeologyLayer struct {
	ID uint `gorm:"primaryKey"`

	CreatedAt time.Time

	WellID uint `gorm:"not null;uniqueIndex:idx_layer_well_number,priority:1"`
	Well   Well `gorm:"foreignKey:WellID"`

	// LayerNumber is assigned by CreateLayer, never by the client.
	LayerNumber int `gorm:"not null;uniqueIndex:idx_layer_well_number,priority:2"`

	DepthFrom   float64 `gorm:"type:decimal(6,2);not null"`
	DepthTo     float64 `gorm:"type:decimal(6,2);not null"`
	Lithology   string  `gorm:"size:20;not null"`
	Description string  `gorm:"type:text;not null"`
}

// Thickness is DepthTo - DepthFrom.
func (l *GeologyLayer) Thickness() float64 { return thickness(l.DepthFrom, l.DepthTo) }

// LithologySample is a depth-interval observation attributed to the user
// who collected it.
type LithologySample struct {
	ID uint `gorm:"primaryKey"`

	CreatedAt time.Time
	UpdatedAt time.Time

	WellID uint `gorm:"index;not null"`
	Well   Well `gorm:"foreignKey:WellID"`

	DepthFrom   float64 `gorm:"type:decimal(6,2);not null"`
	DepthTo     float64 `gorm:"type:decimal(6,2);not null"`
	Lithology   string  `gorm:"size:20;not null"`
	Description string  `gorm:"type:text;not null"`

	CollectedByID uint `gorm:"index;not null"`
	CollectedBy   User `gorm:"foreignKey:CollectedByID;constraint:OnDelete:CASCADE"`
}

// Thickness is DepthTo - DepthFrom.
func (s *LithologySample) Thickness() float64 { return thickness(s.DepthFrom, s.DepthTo) }

// DailyReport records a day's progress on a well. There is at most one
// report per well per date.
type DailyReport struct {
	ID uint `gorm:"primaryKey"`

	CreatedAt time.Time
	UpdatedAt time.Time

	WellID uint `gorm:"not null;uniqueIndex:idx_report_well_date,priority:1"`
	Well   Well `gorm:"foreignKey:WellID"`

	Date Date `gorm:"not null;uniqueIndex:idx_report_well_date,priority:2"`

	DrilledMeters float64 `gorm:"type:decimal(6,2);not null"`
	CurrentDepth  float64 `gorm:"type:decimal(6,2);not null"`
	// DrillingTime is in hours.
	DrillingTime float64 `gorm:"type:decimal(5,2);not null"`
	Remarks      string  `gorm:"type:text;not null"`

	ReportedByID uint `gorm:"index;not null"`
	ReportedBy   User `gorm:"foreignKey:ReportedByID;constraint:OnDelete:CASCADE"`
}

// thickness rounds to the centimetre so binary float noise from the two
// decimal(6,2) operands does not leak into responses.
func thickness(from, to float64) float64 {
	return math.Round((to-from)*100) / 100
}
