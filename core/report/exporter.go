package report

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

type Format string

const (
	XLSX Format = "xlsx"
	CSV  Format = "csv"
	PDF  Format = "pdf"
)

var ErrUnknownFormat = errors.New("formato inválido (use xlsx, csv ou pdf)")

func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case XLSX, CSV, PDF:
		return f, nil
	case "":
		return XLSX, nil
	}
	return "", ErrUnknownFormat
}

func (f Format) ContentType() string {
	switch f {
	case XLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case CSV:
		return "text/csv; charset=utf-8"
	case PDF:
		return "application/pdf"
	}
	return "application/octet-stream"
}

// Kind names what is exported; it is also the file name prefix.
type Kind string

const (
	Students    Kind = "alunos"
	Occurrences Kind = "ocorrencias"
	Absences    Kind = "faltas"
	Complete    Kind = "relatorio_completo"
)

var ErrUnknownKind = errors.New("relatório inválido")

func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(s))); k {
	case Students, Occurrences, Absences, Complete:
		return k, nil
	case "completo":
		return Complete, nil
	}
	return "", ErrUnknownKind
}

// Dataset is everything an export may render.
type Dataset struct {
	SchoolName  string
	Students    []StudentRow
	Occurrences []OccurrenceRow
	Absences    []AbsenceRow
	// Classes without students still get a summary line.
	Classes []string
}

// Result reports the outcome of an export. Content is only set on success.
type Result struct {
	Success     bool
	Filename    string
	ContentType string
	Content     []byte
	Err         error
}

type Exporter struct {
	now func() time.Time
}

func NewExporter() *Exporter {
	return &Exporter{now: time.Now}
}

// Filename is <kind>_<YYYY-MM-DD>.<ext>, dated on the export day.
func Filename(kind Kind, format Format, day time.Time) string {
	return fmt.Sprintf("%s_%s.%s", kind, day.Format("2006-01-02"), format)
}

// Export renders the dataset fully in memory. Any failure, including a
// panic inside a writer, yields an unsuccessful Result without content.
func (e *Exporter) Export(kind Kind, format Format, ds Dataset) (res Result) {
	now := e.now()
	res = Result{Filename: Filename(kind, format, now), ContentType: format.ContentType()}

	defer func() {
		if r := recover(); r != nil {
			res.Success, res.Content = false, nil
			res.Err = errors.Errorf("falha ao gerar relatório: %v", r)
		}
	}()

	tables, err := buildTables(kind, format, ds)
	if err != nil {
		res.Err = err
		return res
	}

	var buf bytes.Buffer
	switch format {
	case XLSX:
		err = writeXLSX(&buf, tables)
	case CSV:
		err = writeCSV(&buf, tables)
	case PDF:
		err = writePDF(&buf, schoolName(ds), now, tables)
	default:
		err = ErrUnknownFormat
	}
	if err != nil {
		res.Err = err
		return res
	}

	res.Success = true
	res.Content = buf.Bytes()
	return res
}

func schoolName(ds Dataset) string {
	if ds.SchoolName == "" {
		return "Relatório Disciplinar"
	}
	return ds.SchoolName
}

func buildTables(kind Kind, format Format, ds Dataset) ([]table, error) {
	if err := validateRows(kind, ds); err != nil {
		return nil, err
	}

	switch kind {
	case Students:
		tables := []table{studentTable("Lista de Alunos", ds.Students)}
		if format != CSV {
			tables = append(tables, classSummaryTable("Resumo por Turma", SummarizeClasses(ds.Students, ds.Classes...)))
		}
		return tables, nil
	case Occurrences:
		return []table{occurrenceTable("Ocorrências", ds.Occurrences)}, nil
	case Absences:
		return []table{absenceTable("Faltas", ds.Absences)}, nil
	case Complete:
		return []table{
			studentTable("Alunos", ds.Students),
			occurrenceTable("Ocorrências", ds.Occurrences),
			absenceTable("Faltas", ds.Absences),
			classSummaryTable("Resumo por Turma", SummarizeClasses(ds.Students, ds.Classes...)),
			overviewTable("Resumo Geral", Summarize(ds.Students)),
		}, nil
	}
	return nil, ErrUnknownKind
}

func validateRows(kind Kind, ds Dataset) error {
	if kind == Students || kind == Complete {
		for i, r := range ds.Students {
			if err := r.validate(); err != nil {
				return rowError("aluno", i, err)
			}
		}
	}
	if kind == Occurrences || kind == Complete {
		for i, r := range ds.Occurrences {
			if err := r.validate(); err != nil {
				return rowError("ocorrência", i, err)
			}
		}
	}
	if kind == Absences || kind == Complete {
		for i, r := range ds.Absences {
			if err := r.validate(); err != nil {
				return rowError("falta", i, err)
			}
		}
	}
	return nil
}

// WriteFile stores a successful result under dir. The content goes to a
// temporary file first, so dir never holds a partial export.
func WriteFile(dir string, res Result) (string, error) {
	if !res.Success {
		if res.Err == nil {
			return "", errors.New("export failed")
		}
		return "", res.Err
	}

	dest := filepath.Join(dir, res.Filename)
	tmp := filepath.Join(dir, "."+res.Filename+"."+uuid.NewString()+".tmp")

	f, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", errors.Wrap(err, "creating temp file")
	}
	_, err = io.Copy(f, bytes.NewReader(res.Content))
	if err == nil {
		err = f.Sync()
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err == nil {
		err = os.Rename(tmp, dest)
	}
	if err != nil {
		os.Remove(tmp)
		return "", errors.Wrap(err, "writing export")
	}
	return dest, nil
}
