package serializers

import (
	"time"

	dbpkg "drilllog/internal/db"
)

// Well is the API representation of a well.
type Well struct {
	ID                    uint        `json:"id"`
	Name                  string      `json:"name"`
	Area                  string      `json:"area"`
	Structure             string      `json:"structure"`
	StartDate             *dbpkg.Date `json:"start_date"`
	EndDate               *dbpkg.Date `json:"end_date"`
	PlannedDepth          float64     `json:"planned_depth"`
	Latitude              *float64    `json:"latitude"`
	Longitude             *float64    `json:"longitude"`
	DrillingMethod        string      `json:"drilling_method"`
	DrillingMethodDisplay string      `json:"drilling_method_display"`
	DrillingRig           string      `json:"drilling_rig"`
	Vehicle               string      `json:"vehicle"`
	Diameter              string      `json:"diameter"`
	Status                string      `json:"status"`
	StatusDisplay         string      `json:"status_display"`
	CreatedBy             uint        `json:"created_by"`
	CreatedByName         string      `json:"created_by_name"`
	Layers                []Layer     `json:"layers"`
	CreatedAt             time.Time   `json:"created_at"`
	UpdatedAt             time.Time   `json:"updated_at"`
}

// NewWell renders w. The creator and layers must be loaded.
func NewWell(w *dbpkg.Well) Well {
	layers := make([]Layer, 0, len(w.Layers))
	for i := range w.Layers {
		layers = append(layers, layerFor(&w.Layers[i], w.Name))
	}
	return Well{
		ID:                    w.ID,
		Name:                  w.Name,
		Area:                  w.Area,
		Structure:             w.Structure,
		StartDate:             w.StartDate,
		EndDate:               w.EndDate,
		PlannedDepth:          w.PlannedDepth,
		Latitude:              w.Latitude,
		Longitude:             w.Longitude,
		DrillingMethod:        w.DrillingMethod,
		DrillingMethodDisplay: dbpkg.DrillingMethods.Label(w.DrillingMethod),
		DrillingRig:           w.DrillingRig,
		Vehicle:               w.Vehicle,
		Diameter:              w.Diameter,
		Status:                w.Status,
		StatusDisplay:         dbpkg.WellStatuses.Label(w.Status),
		CreatedBy:             w.CreatedByID,
		CreatedByName:         w.CreatedBy.DisplayName(),
		Layers:                layers,
		CreatedAt:             w.CreatedAt,
		UpdatedAt:             w.UpdatedAt,
	}
}

// NewWells renders a list of wells.
func NewWells(wells []dbpkg.Well) []Well {
	out := make([]Well, 0, len(wells))
	for i := range wells {
		out = append(out, NewWell(&wells[i]))
	}
	return out
}

// ParseWell applies a request body to w. On Create, defaults are applied
// first. "field" is accepted for "area".
func ParseWell(body []byte, mode Mode, w *dbpkg.Well) error {
	if mode == Create {
		*w = dbpkg.Well{Status: dbpkg.WellPlanned}
	}
	fields := []field{
		{name: "name", dst: &w.Name, required: true, rules: "required,max=100"},
		{name: "area", dst: &w.Area, required: true, rules: "required,max=100"},
		{name: "structure", dst: &w.Structure, rules: "max=100"},
		{name: "start_date", dst: &w.StartDate},
		{name: "end_date", dst: &w.EndDate},
		{name: "planned_depth", dst: &w.PlannedDepth, required: true, rules: "gte=0,decimal=6:2"},
		{name: "latitude", dst: &w.Latitude, rules: "gte=-90,lte=90,decimal=9:6"},
		{name: "longitude", dst: &w.Longitude, rules: "gte=-180,lte=180,decimal=9:6"},
		{name: "drilling_method", dst: &w.DrillingMethod, rules: "omitempty,choice=drilling_method"},
		{name: "drilling_rig", dst: &w.DrillingRig, rules: "max=100"},
		{name: "vehicle", dst: &w.Vehicle, rules: "max=100"},
		{name: "diameter", dst: &w.Diameter, rules: "max=50"},
		{name: "status", dst: &w.Status, rules: "choice=status"},
	}
	errs, err := bind(body, mode, fields, map[string]string{"field": "area"})
	if err != nil {
		return err
	}

	if w.StartDate != nil && w.EndDate != nil && w.EndDate.Before(*w.StartDate) {
		if _, bad := errs.Fields["end_date"]; !bad {
			errs.Add("end_date", "End date cannot be before the start date.")
		}
	}
	return errs.Err()
}
