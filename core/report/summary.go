package report

import (
	"sort"

	"github.com/LionGab/sistema-disciplinar-jupiara/core/discipline"
)

// ClassSummary is one line of the "Resumo por Turma" sheet.
type ClassSummary struct {
	ClassName           string
	Students            int
	Occurrences         int
	Absences            int
	UnjustifiedAbsences int
	ByClassification    map[discipline.Classification]int

	discipline.Assessment
}

// Overview is the "Resumo Geral" sheet.
type Overview struct {
	Students            int
	Occurrences         int
	Absences            int
	UnjustifiedAbsences int
	ByClassification    map[discipline.Classification]int

	discipline.Assessment
}

func newTally() map[discipline.Classification]int {
	m := make(map[discipline.Classification]int, len(discipline.Classifications))
	for _, c := range discipline.Classifications {
		m[c] = 0
	}
	return m
}

// SummarizeClasses groups students by class name, ordered by class name.
// Classes listed in extra appear even when they have no students.
func SummarizeClasses(rows []StudentRow, extra ...string) []ClassSummary {
	byName := make(map[string]*ClassSummary)
	get := func(name string) *ClassSummary {
		s, ok := byName[name]
		if !ok {
			s = &ClassSummary{ClassName: name, ByClassification: newTally()}
			byName[name] = s
		}
		return s
	}

	for _, name := range extra {
		get(name)
	}
	for _, r := range rows {
		s := get(r.ClassName)
		s.Students++
		s.Occurrences += r.TotalOccurrences
		s.Absences += r.TotalAbsences
		s.UnjustifiedAbsences += r.UnjustifiedAbsences
		s.ByClassification[r.assess().Classification]++
	}

	out := make([]ClassSummary, 0, len(byName))
	for _, s := range byName {
		s.Assessment = discipline.AssessClass(s.Occurrences, s.UnjustifiedAbsences, s.Students)
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ClassName < out[j].ClassName })
	return out
}

func Summarize(rows []StudentRow) Overview {
	o := Overview{ByClassification: newTally()}
	for _, r := range rows {
		o.Students++
		o.Occurrences += r.TotalOccurrences
		o.Absences += r.TotalAbsences
		o.UnjustifiedAbsences += r.UnjustifiedAbsences
		o.ByClassification[r.assess().Classification]++
	}
	o.Assessment = discipline.AssessClass(o.Occurrences, o.UnjustifiedAbsences, o.Students)
	return o
}
