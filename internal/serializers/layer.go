package serializers

import (
	"time"

	dbpkg "drilllog/internal/db"
)

// Layer is the API representation of a geology layer.
type Layer struct {
	ID               uint      `json:"id"`
	Well             uint      `json:"well"`
	WellName         string    `json:"well_name"`
	LayerNumber      int       `json:"layer_number"`
	DepthFrom        float64   `json:"depth_from"`
	DepthTo          float64   `json:"depth_to"`
	Thickness        float64   `json:"thickness"`
	Lithology        string    `json:"lithology"`
	LithologyDisplay string    `json:"lithology_display"`
	Description      string    `json:"description"`
	CreatedAt        time.Time `json:"created_at"`
}

func layerFor(l *dbpkg.GeologyLayer, wellName string) Layer {
	return Layer{
		ID:               l.ID,
		Well:             l.WellID,
		WellName:         wellName,
		LayerNumber:      l.LayerNumber,
		DepthFrom:        l.DepthFrom,
		DepthTo:          l.DepthTo,
		Thickness:        l.Thickness(),
		Lithology:        l.Lithology,
		LithologyDisplay: dbpkg.LithologyTypes.Label(l.Lithology),
		Description:      l.Description,
		CreatedAt:        l.CreatedAt,
	}
}

// NewLayer renders l. The well must be loaded for well_name.
func NewLayer(l *dbpkg.GeologyLayer) Layer {
	return layerFor(l, l.Well.Name)
}

// NewLayers renders a list of layers.
func NewLayers(layers []dbpkg.GeologyLayer) []Layer {
	out := make([]Layer, 0, len(layers))
	for i := range layers {
		out = append(out, NewLayer(&layers[i]))
	}
	return out
}

// ParseLayer applies a request body to l. The well is only read on
// Create; layer_number is never read.
func ParseLayer(body []byte, mode Mode, l *dbpkg.GeologyLayer) error {
	if mode == Create {
		*l = dbpkg.GeologyLayer{}
	}
	var fields []field
	if mode == Create {
		fields = append(fields, field{name: "well", dst: &l.WellID, required: true})
	}
	fields = append(fields,
		field{name: "depth_from", dst: &l.DepthFrom, required: true, rules: "gte=0,decimal=6:2"},
		field{name: "depth_to", dst: &l.DepthTo, required: true, rules: "gte=0,decimal=6:2"},
		field{name: "lithology", dst: &l.Lithology, required: true, rules: "choice=lithology"},
		field{name: "description", dst: &l.Description, required: true, rules: "required"},
	)
	errs, err := bind(body, mode, fields, nil)
	if err != nil {
		return err
	}
	checkInterval(errs, l.DepthFrom, l.DepthTo)
	return errs.Err()
}
