package types

import "fmt"

// DiseaseLabel is one of the fixed classification outcomes a scan can be
// tagged with. The set is closed: anything else coming back from a
// classifier is a data-integrity error, not a valid scan.
type DiseaseLabel string

const (
	DiseaseBrownSpot DiseaseLabel = "brown_spot"
	DiseaseBlast     DiseaseLabel = "blast"
	DiseaseBlight    DiseaseLabel = "blight"
	DiseaseHealthy   DiseaseLabel = "healthy"
)

// DiseaseLabels lists every valid label in a stable order.
func DiseaseLabels() []DiseaseLabel {
	return []DiseaseLabel{DiseaseBrownSpot, DiseaseBlast, DiseaseBlight, DiseaseHealthy}
}

// ParseDiseaseLabel validates a raw string against the closed label set.
func ParseDiseaseLabel(raw string) (DiseaseLabel, error) {
	switch DiseaseLabel(raw) {
	case DiseaseBrownSpot, DiseaseBlast, DiseaseBlight, DiseaseHealthy:
		return DiseaseLabel(raw), nil
	default:
		return "", fmt.Errorf("unknown disease label %q", raw)
	}
}

func (d DiseaseLabel) String() string {
	return string(d)
}
