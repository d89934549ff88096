package report

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/LionGab/sistema-disciplinar-jupiara/core"
	"github.com/LionGab/sistema-disciplinar-jupiara/core/discipline"
)

var exportDay = time.Date(2024, time.September, 15, 10, 30, 0, 0, time.UTC)

func newTestExporter() *Exporter {
	return &Exporter{now: func() time.Time { return exportDay }}
}

func sampleDataset() Dataset {
	return Dataset{
		SchoolName: "Escola Cívico Militar Jupiara",
		Students: []StudentRow{
			{Enrollment: "2024001", Name: "Ana Silva Santos", ClassName: "6A", BirthDate: core.NewDate(2012, 3, 15),
				GuardianPhone: "(11) 99999-1111", GuardianEmail: "maria.santos@email.com", TotalOccurrences: 0},
			{Enrollment: "2024002", Name: "Bruno, \"Costa\" Lima", ClassName: "6A", BirthDate: core.NewDate(2012, 7, 22),
				TotalOccurrences: 1, TotalAbsences: 2, UnjustifiedAbsences: 1},
			{Enrollment: "2024003", Name: "Carla Mendes", ClassName: "7B",
				TotalOccurrences: 3, TotalAbsences: 1, UnjustifiedAbsences: 1},
		},
		Occurrences: []OccurrenceRow{
			{Date: core.NewDate(2024, 8, 15), Time: "08:30", StudentName: "Bruno Lima", Enrollment: "2024002",
				ClassName: "6A", TypeName: "Atraso", Severity: "leve", Points: 1, Description: "Chegou atrasado",
				Recorder: "Prof. Silva", Status: "resolvida"},
		},
		Absences: []AbsenceRow{
			{Date: core.NewDate(2024, 8, 1), StudentName: "Carla Mendes", Enrollment: "2024003", ClassName: "7B"},
			{Date: core.NewDate(2024, 8, 2), StudentName: "Bruno Lima", Enrollment: "2024002", ClassName: "6A",
				Justified: true, Reason: "Consulta médica", Document: "atestado.pdf"},
		},
		Classes: []string{"6A", "7B", "8C"},
	}
}

func TestFilename(t *testing.T) {
	assert.Equal(t, "alunos_2024-09-15.xlsx", Filename(Students, XLSX, exportDay))
	assert.Equal(t, "relatorio_completo_2024-09-15.pdf", Filename(Complete, PDF, exportDay))
	assert.Equal(t, "faltas_2024-09-15.csv", Filename(Absences, CSV, exportDay))
}

func TestParseFormatAndKind(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"xlsx", XLSX, false},
		{" PDF ", PDF, false},
		{"csv", CSV, false},
		{"", XLSX, false},
		{"docx", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnknownFormat)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	k, err := ParseKind("completo")
	require.NoError(t, err)
	assert.Equal(t, Complete, k)
	_, err = ParseKind("boletim")
	assert.ErrorIs(t, err, ErrUnknownKind)
}

func TestExportStudentsCSVRoundTrip(t *testing.T) {
	ds := sampleDataset()
	res := newTestExporter().Export(Students, CSV, ds)
	require.True(t, res.Success, res.Err)
	assert.Equal(t, "alunos_2024-09-15.csv", res.Filename)
	assert.Equal(t, "text/csv; charset=utf-8", res.ContentType)
	assert.True(t, bytes.HasPrefix(res.Content, []byte(utf8BOM)), "missing BOM")
	assert.Contains(t, string(res.Content), "\r\n")

	rows, err := readCSV(bytes.NewReader(res.Content))
	require.NoError(t, err)
	require.Len(t, rows, len(ds.Students)+1)
	assert.Equal(t, studentHeaders, rows[0])
	for i, s := range ds.Students {
		assert.Equal(t, s.Enrollment, rows[i+1][0])
		assert.Equal(t, s.Name, rows[i+1][1])
	}
	// classification comes from the counts
	assert.Equal(t, []string{"0.00", "Exemplar"}, rows[1][10:])
	assert.Equal(t, []string{"2.00", "Atenção"}, rows[2][10:])
	assert.Equal(t, []string{"4.00", "Crítico"}, rows[3][10:])
	assert.Equal(t, "15/03/2012", rows[1][3])
}

func TestExportStudentsXLSXRoundTrip(t *testing.T) {
	ds := sampleDataset()
	res := newTestExporter().Export(Students, XLSX, ds)
	require.True(t, res.Success, res.Err)

	rows, err := readXLSX(bytes.NewReader(res.Content))
	require.NoError(t, err)
	require.Len(t, rows, len(ds.Students)+1)
	for i, s := range ds.Students {
		assert.Equal(t, s.Enrollment, rows[i+1][0])
		assert.Equal(t, s.Name, rows[i+1][1])
		assert.Equal(t, s.assess().Classification.Label(), rows[i+1][11])
	}
}

func TestExportCompleteXLSXSheets(t *testing.T) {
	res := newTestExporter().Export(Complete, XLSX, sampleDataset())
	require.True(t, res.Success, res.Err)
	assert.Equal(t, "relatorio_completo_2024-09-15.xlsx", res.Filename)

	f, err := openWorkbook(res.Content)
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []string{"Alunos", "Ocorrências", "Faltas", "Resumo por Turma", "Resumo Geral"}, f.GetSheetList())

	summary, err := f.GetRows("Resumo por Turma")
	require.NoError(t, err)
	require.Len(t, summary, 4) // header + 6A, 7B, 8C
	assert.Equal(t, "6A", summary[1][0])
	assert.Equal(t, "2", summary[1][1])
	assert.Equal(t, "Bom", summary[1][6]) // (1+1)/2
	assert.Equal(t, "8C", summary[3][0])
	assert.Equal(t, "Exemplar", summary[3][6])

	overview, err := f.GetRows("Resumo Geral")
	require.NoError(t, err)
	assert.Equal(t, []string{"Total de Alunos", "3"}, overview[1])
	assert.Equal(t, []string{"Alunos Críticos", "1"}, overview[8])
}

func TestExportPDF(t *testing.T) {
	for _, kind := range []Kind{Students, Occurrences, Absences, Complete} {
		t.Run(string(kind), func(t *testing.T) {
			res := newTestExporter().Export(kind, PDF, sampleDataset())
			require.True(t, res.Success, res.Err)
			assert.True(t, bytes.HasPrefix(res.Content, []byte("%PDF")))
			assert.Equal(t, "application/pdf", res.ContentType)
		})
	}
}

func TestExportEmptyDataset(t *testing.T) {
	for _, format := range []Format{XLSX, CSV, PDF} {
		res := newTestExporter().Export(Occurrences, format, Dataset{})
		assert.True(t, res.Success, "%s: %v", format, res.Err)
	}
}

func TestExportFailsAtomically(t *testing.T) {
	ds := sampleDataset()
	ds.Students[1].Name = ""

	res := newTestExporter().Export(Students, XLSX, ds)
	assert.False(t, res.Success)
	assert.Nil(t, res.Content)
	require.Error(t, res.Err)
	assert.Contains(t, res.Err.Error(), "aluno 2")

	dir := t.TempDir()
	_, err := WriteFile(dir, res)
	assert.Error(t, err)
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestExportRejectsInconsistentCounts(t *testing.T) {
	ds := sampleDataset()
	ds.Students[0].UnjustifiedAbsences = 5
	res := newTestExporter().Export(Students, CSV, ds)
	assert.False(t, res.Success)
}

func TestWriteFile(t *testing.T) {
	dir := t.TempDir()
	res := newTestExporter().Export(Absences, CSV, sampleDataset())
	require.True(t, res.Success, res.Err)

	path, err := WriteFile(dir, res)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "faltas_2024-09-15.csv"), path)

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, res.Content, b)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.False(t, strings.HasSuffix(entries[0].Name(), ".tmp"))

	_, err = WriteFile(filepath.Join(dir, "missing"), res)
	assert.Error(t, err)
}

func TestSummarize(t *testing.T) {
	o := Summarize(sampleDataset().Students)
	assert.Equal(t, 3, o.Students)
	assert.Equal(t, 4, o.Occurrences)
	assert.Equal(t, 2, o.UnjustifiedAbsences)
	assert.InDelta(t, 2.0, o.Index, 1e-9)
	assert.Equal(t, discipline.Atencao, o.Classification)
	assert.Equal(t, 1, o.ByClassification[discipline.Exemplar])
	assert.Equal(t, 0, o.ByClassification[discipline.Bom])

	empty := Summarize(nil)
	assert.Equal(t, discipline.Exemplar, empty.Classification)
}

func openWorkbook(b []byte) (*excelize.File, error) {
	return excelize.OpenReader(bytes.NewReader(b))
}
