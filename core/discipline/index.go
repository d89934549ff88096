// Package discipline holds the disciplinary index and its classification.
// Every layer (API rollups, exports, imports) derives labels from here.
package discipline

import "math"

type Classification string

const (
	Exemplar Classification = "exemplar"
	Bom      Classification = "bom"
	Atencao  Classification = "atencao"
	Critico  Classification = "critico"
)

// Upper bounds (inclusive) of the bom and atencao bands.
const (
	BomMax     = 1.0
	AtencaoMax = 2.0
)

// Classifications in ascending severity order.
var Classifications = []Classification{Exemplar, Bom, Atencao, Critico}

var (
	labels = map[Classification]string{
		Exemplar: "Exemplar",
		Bom:      "Bom",
		Atencao:  "Atenção",
		Critico:  "Crítico",
	}
	colors = map[Classification]string{
		Exemplar: "92D050",
		Bom:      "FFC000",
		Atencao:  "FF9900",
		Critico:  "FF0000",
	}
)

// Label is the human readable form used in reports.
func (c Classification) Label() string { return labels[c] }

// Color is the RGB hex fill used for the classification cell in spreadsheets.
func (c Classification) Color() string { return colors[c] }

// ClassIndex is (occurrences + unjustified absences) / students.
// A class without students has index 0.
func ClassIndex(occurrences, unjustifiedAbsences, students int) float64 {
	if students <= 0 {
		return 0
	}
	return float64(nonNeg(occurrences)+nonNeg(unjustifiedAbsences)) / float64(students)
}

// StudentIndex is the class formula applied to a single student.
func StudentIndex(occurrences, unjustifiedAbsences int) float64 {
	return ClassIndex(occurrences, unjustifiedAbsences, 1)
}

// Classify maps an index to its band: 0 exemplar, (0,1] bom, (1,2] atencao, above 2 critico.
func Classify(index float64) Classification {
	switch {
	case index <= 0:
		return Exemplar
	case index <= BomMax:
		return Bom
	case index <= AtencaoMax:
		return Atencao
	default:
		return Critico
	}
}

// Round2 rounds for display. Indices are never rounded before classification.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Assessment is an index together with its classification.
type Assessment struct {
	Index          float64        `json:"indice_disciplinar"`
	Classification Classification `json:"classificacao"`
}

func AssessClass(occurrences, unjustifiedAbsences, students int) Assessment {
	idx := ClassIndex(occurrences, unjustifiedAbsences, students)
	return Assessment{Index: idx, Classification: Classify(idx)}
}

func AssessStudent(occurrences, unjustifiedAbsences int) Assessment {
	return AssessClass(occurrences, unjustifiedAbsences, 1)
}

func nonNeg(n int) int {
	if n < 0 {
		return 0
	}
	return n
}
