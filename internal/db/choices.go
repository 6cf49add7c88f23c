package db

// Choice is one allowed value of an enumerated column and its label.
type Choice struct {
	Value string
	Label string
}

// Choices is the ordered set of values an enumerated column accepts.
type Choices []Choice

// Label returns the human-readable label for value, or "" when value is
// not a member.
func (c Choices) Label(value string) string {
	for _, ch := range c {
		if ch.Value == value {
			return ch.Label
		}
	}
	return ""
}

// Has reports whether value is a member.
func (c Choices) Has(value string) bool {
	for _, ch := range c {
		if ch.Value == value {
			return true
		}
	}
	return false
}

const (
	WellPlanned   = "planned"
	WellDrilling  = "drilling"
	WellCompleted = "completed"
	WellAbandoned = "abandoned"
)

var WellStatuses = Choices{
	{WellPlanned, "Planned"},
	{WellDrilling, "Drilling"},
	{WellCompleted, "Completed"},
	{WellAbandoned, "Abandoned"},
}

var DrillingMethods = Choices{
	{"rotary", "Rotary drilling"},
	{"auger", "Auger drilling"},
	{"percussion", "Cable-tool percussion drilling"},
	{"core", "Core drilling"},
}

var LithologyTypes = Choices{
	{"sand", "Sand"},
	{"clay", "Clay"},
	{"loam", "Loam"},
	{"sandy_loam", "Sandy loam"},
	{"peat", "Peat"},
	{"gravel", "Gravel"},
	{"boulder", "Boulders"},
	{"fill", "Fill soil"},
}
