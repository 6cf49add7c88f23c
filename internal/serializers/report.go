package serializers

import (
	"time"

	dbpkg "drilllog/internal/db"
)

// Report is the API representation of a daily report.
type Report struct {
	ID             uint       `json:"id"`
	Well           uint       `json:"well"`
	WellName       string     `json:"well_name"`
	Date           dbpkg.Date `json:"date"`
	DrilledMeters  float64    `json:"drilled_meters"`
	CurrentDepth   float64    `json:"current_depth"`
	DrillingTime   float64    `json:"drilling_time"`
	Remarks        string     `json:"remarks"`
	ReportedBy     uint       `json:"reported_by"`
	ReportedByName string     `json:"reported_by_name"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// NewReport renders r. The well and reporter must be loaded.
func NewReport(r *dbpkg.DailyReport) Report {
	return Report{
		ID:             r.ID,
		Well:           r.WellID,
		WellName:       r.Well.Name,
		Date:           r.Date,
		DrilledMeters:  r.DrilledMeters,
		CurrentDepth:   r.CurrentDepth,
		DrillingTime:   r.DrillingTime,
		Remarks:        r.Remarks,
		ReportedBy:     r.ReportedByID,
		ReportedByName: r.ReportedBy.DisplayName(),
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}
}

// NewReports renders a list of reports.
func NewReports(reports []dbpkg.DailyReport) []Report {
	out := make([]Report, 0, len(reports))
	for i := range reports {
		out = append(out, NewReport(&reports[i]))
	}
	return out
}

// ParseReport applies a request body to r.
func ParseReport(body []byte, mode Mode, r *dbpkg.DailyReport) error {
	if mode == Create {
		*r = dbpkg.DailyReport{}
	}
	fields := []field{
		{name: "well", dst: &r.WellID, required: true},
		{name: "date", dst: &r.Date, required: true},
		{name: "drilled_meters", dst: &r.DrilledMeters, required: true, rules: "gte=0,decimal=6:2"},
		{name: "current_depth", dst: &r.CurrentDepth, required: true, rules: "gte=0,decimal=6:2"},
		{name: "drilling_time", dst: &r.DrillingTime, required: true, rules: "gte=0,lte=24,decimal=5:2"},
		{name: "remarks", dst: &r.Remarks},
	}
	errs, err := bind(body, mode, fields, nil)
	if err != nil {
		return err
	}
	return errs.Err()
}
