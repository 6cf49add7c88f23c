package serializers

import (
	"time"

	dbpkg "drilllog/internal/db"
)

// Sample is the API representation of a lithology sample.
type Sample struct {
	ID               uint      `json:"id"`
	Well             uint      `json:"well"`
	WellName         string    `json:"well_name"`
	DepthFrom        float64   `json:"depth_from"`
	DepthTo          float64   `json:"depth_to"`
	Thickness        float64   `json:"thickness"`
	Lithology        string    `json:"lithology"`
	LithologyDisplay string    `json:"lithology_display"`
	Description      string    `json:"description"`
	CollectedBy      uint      `json:"collected_by"`
	CollectedByName  string    `json:"collected_by_name"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// NewSample renders s. The well and collector must be loaded.
func NewSample(s *dbpkg.LithologySample) Sample {
	return Sample{
		ID:               s.ID,
		Well:             s.WellID,
		WellName:         s.Well.Name,
		DepthFrom:        s.DepthFrom,
		DepthTo:          s.DepthTo,
		Thickness:        s.Thickness(),
		Lithology:        s.Lithology,
		LithologyDisplay: dbpkg.LithologyTypes.Label(s.Lithology),
		Description:      s.Description,
		CollectedBy:      s.CollectedByID,
		CollectedByName:  s.CollectedBy.DisplayName(),
		CreatedAt:        s.CreatedAt,
		UpdatedAt:        s.UpdatedAt,
	}
}

// NewSamples renders a list of samples.
func NewSamples(samples []dbpkg.LithologySample) []Sample {
	out := make([]Sample, 0, len(samples))
	for i := range samples {
		out = append(out, NewSample(&samples[i]))
	}
	return out
}

// ParseSample applies a request body to s.
func ParseSample(body []byte, mode Mode, s *dbpkg.LithologySample) error {
	if mode == Create {
		*s = dbpkg.LithologySample{}
	}
	fields := []field{
		{name: "well", dst: &s.WellID, required: true},
		{name: "depth_from", dst: &s.DepthFrom, required: true, rules: "gte=0,decimal=6:2"},
		{name: "depth_to", dst: &s.DepthTo, required: true, rules: "gte=0,decimal=6:2"},
		{name: "lithology", dst: &s.Lithology, required: true, rules: "choice=lithology"},
		{name: "description", dst: &s.Description},
	}
	errs, err := bind(body, mode, fields, nil)
	if err != nil {
		return err
	}
	checkInterval(errs, s.DepthFrom, s.DepthTo)
	return errs.Err()
}
