package report

import (
	"strconv"

	"github.com/LionGab/sistema-disciplinar-jupiara/core/discipline"
)

type cell struct {
	value interface{} // string | int | float64
	fill  string      // RGB hex background, spreadsheets only
}

func (c cell) text() string {
	switch v := c.value.(type) {
	case nil:
		return ""
	case string:
		return v
	case int:
		return strconv.Itoa(v)
	case float64:
		return strconv.FormatFloat(v, 'f', 2, 64)
	case bool:
		return yesNo(v)
	default:
		return ""
	}
}

// table is the format independent shape every writer renders.
type table struct {
	title     string
	headers   []string
	widths    []float64 // relative column widths (spreadsheet characters)
	rows      [][]cell
	landscape bool
}

func (t *table) add(cells ...cell) {
	t.rows = append(t.rows, cells)
}

func (t table) texts(row []cell) []string {
	out := make([]string, len(row))
	for i, c := range row {
		out[i] = c.text()
	}
	return out
}

func txt(s string) cell  { return cell{value: s} }
func num(n int) cell     { return cell{value: n} }
func dec(f float64) cell { return cell{value: discipline.Round2(f)} }
func label(c discipline.Classification) cell {
	return cell{value: c.Label(), fill: c.Color()}
}

func yesNo(b bool) string {
	if b {
		return "Sim"
	}
	return "Não"
}

var (
	studentHeaders = []string{
		"Matrícula", "Nome Completo", "Turma", "Data de Nascimento", "Telefone Responsável",
		"Email Responsável", "Endereço", "Total Ocorrências", "Total Faltas",
		"Faltas Não Justificadas", "Índice Disciplinar", "Classificação",
	}
	studentWidths = []float64{12, 30, 8, 14, 18, 28, 35, 10, 10, 12, 10, 12}

	occurrenceHeaders = []string{
		"Data", "Hora", "Aluno", "Matrícula", "Turma", "Tipo", "Gravidade", "Pontos",
		"Descrição", "Medidas Tomadas", "Responsável", "Status",
	}
	occurrenceWidths = []float64{12, 8, 25, 12, 10, 20, 12, 8, 40, 30, 20, 12}

	absenceHeaders = []string{"Data", "Aluno", "Matrícula", "Turma", "Justificada", "Motivo", "Documento"}
	absenceWidths  = []float64{12, 30, 12, 10, 12, 35, 25}

	classSummaryHeaders = []string{
		"Turma", "Total Alunos", "Total Ocorrências", "Total Faltas", "Faltas Não Justificadas",
		"Índice Disciplinar", "Classificação", "Alunos Exemplares", "Alunos Bom",
		"Alunos em Atenção", "Alunos Críticos",
	}
	classSummaryWidths = []float64{10, 12, 14, 12, 14, 14, 14, 14, 12, 14, 12}
)

func studentTable(title string, rows []StudentRow) table {
	t := table{title: title, headers: studentHeaders, widths: studentWidths}
	for _, r := range rows {
		a := r.assess()
		t.add(
			txt(r.Enrollment), txt(r.Name), txt(r.ClassName), txt(r.BirthDate.BR()),
			txt(r.GuardianPhone), txt(r.GuardianEmail), txt(r.Address),
			num(r.TotalOccurrences), num(r.TotalAbsences), num(r.UnjustifiedAbsences),
			dec(a.Index), label(a.Classification),
		)
	}
	return t
}

func occurrenceTable(title string, rows []OccurrenceRow) table {
	t := table{title: title, headers: occurrenceHeaders, widths: occurrenceWidths, landscape: true}
	for _, r := range rows {
		t.add(
			txt(r.Date.BR()), txt(r.Time), txt(r.StudentName), txt(r.Enrollment), txt(r.ClassName),
			txt(r.TypeName), txt(r.Severity), num(r.Points), txt(r.Description), txt(r.Measures),
			txt(r.Recorder), txt(r.Status),
		)
	}
	return t
}

func absenceTable(title string, rows []AbsenceRow) table {
	t := table{title: title, headers: absenceHeaders, widths: absenceWidths}
	for _, r := range rows {
		t.add(
			txt(r.Date.BR()), txt(r.StudentName), txt(r.Enrollment), txt(r.ClassName),
			txt(yesNo(r.Justified)), txt(r.Reason), txt(r.Document),
		)
	}
	return t
}

func classSummaryTable(title string, summaries []ClassSummary) table {
	t := table{title: title, headers: classSummaryHeaders, widths: classSummaryWidths, landscape: true}
	for _, s := range summaries {
		t.add(
			txt(s.ClassName), num(s.Students), num(s.Occurrences), num(s.Absences),
			num(s.UnjustifiedAbsences), dec(s.Index), label(s.Classification),
			num(s.ByClassification[discipline.Exemplar]), num(s.ByClassification[discipline.Bom]),
			num(s.ByClassification[discipline.Atencao]), num(s.ByClassification[discipline.Critico]),
		)
	}
	return t
}

func overviewTable(title string, o Overview) table {
	t := table{title: title, headers: []string{"Indicador", "Valor"}, widths: []float64{30, 18}}
	t.add(txt("Total de Alunos"), num(o.Students))
	t.add(txt("Total de Ocorrências"), num(o.Occurrences))
	t.add(txt("Total de Faltas"), num(o.Absences))
	t.add(txt("Faltas Não Justificadas"), num(o.UnjustifiedAbsences))
	t.add(txt("Alunos Exemplares"), num(o.ByClassification[discipline.Exemplar]))
	t.add(txt("Alunos Bom"), num(o.ByClassification[discipline.Bom]))
	t.add(txt("Alunos em Atenção"), num(o.ByClassification[discipline.Atencao]))
	t.add(txt("Alunos Críticos"), num(o.ByClassification[discipline.Critico]))
	t.add(txt("Índice Disciplinar Geral"), dec(o.Index))
	t.add(txt("Classificação Geral"), label(o.Classification))
	return t
}
