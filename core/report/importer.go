package report

import (
	"io"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/LionGab/sistema-disciplinar-jupiara/core"
	"github.com/LionGab/sistema-disciplinar-jupiara/core/student"
)

const (
	colEnrollment = "matricula"
	colName       = "nome"
	colBirthDate  = "data_nascimento"
	colClassID    = "turma_id"
	colPhone      = "telefone_responsavel"
	colEmail      = "email_responsavel"
	colAddress    = "endereco"
	colNotes      = "observacoes"
)

var (
	requiredColumns = []string{colEnrollment, colName, colBirthDate, colClassID, colPhone, colEmail}

	// normalized header -> canonical column
	headerAliases = map[string]string{
		"matricula":            colEnrollment,
		"nome":                 colName,
		"nome_completo":        colName,
		"data_nascimento":      colBirthDate,
		"data_de_nascimento":   colBirthDate,
		"turma_id":             colClassID,
		"id_turma":             colClassID,
		"telefone":             colPhone,
		"telefone_responsavel": colPhone,
		"email":                colEmail,
		"email_responsavel":    colEmail,
		"endereco":             colAddress,
		"observacoes":          colNotes,
	}

	emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

// ImportError lists one message per rejected row.
type ImportError struct {
	Lines []string
}

func (e *ImportError) Error() string { return strings.Join(e.Lines, "\n") }

// ParseStudents reads a student sheet (first sheet for xlsx). Either every
// data row is valid and the parsed list is returned, or nothing is returned
// and the error (a *core.ValidationError wrapping an *ImportError) names
// each bad row by its spreadsheet line number.
// With a non-nil validate, rows are also checked against the student rules.
func ParseStudents(r io.Reader, format Format, validate *validator.Validate) ([]student.NewStudent, error) {
	var (
		rows [][]string
		err  error
	)
	switch format {
	case XLSX:
		rows, err = readXLSX(r)
	case CSV:
		rows, err = readCSV(r)
	default:
		return nil, core.Invalid("formato de importação inválido (use xlsx ou csv)")
	}
	if err != nil {
		return nil, core.NewValidationError(errors.Wrap(err, "arquivo ilegível"))
	}
	if len(rows) == 0 {
		return nil, core.Invalid("arquivo vazio")
	}

	index := headerIndex(rows[0])
	var missing []string
	for _, col := range requiredColumns {
		if _, ok := index[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, core.Invalid("colunas obrigatórias ausentes: " + strings.Join(missing, ", "))
	}

	var (
		students []student.NewStudent
		lines    []string
	)
	for i, row := range rows[1:] {
		if blank(row) {
			continue
		}
		line := i + 2 // header is line 1
		ns, problems := parseStudentRow(row, index, validate)
		if len(problems) > 0 {
			lines = append(lines, "Linha "+strconv.Itoa(line)+": "+strings.Join(problems, "; "))
			continue
		}
		students = append(students, ns)
	}
	if len(lines) > 0 {
		return nil, core.NewValidationError(&ImportError{Lines: lines})
	}
	if len(students) == 0 {
		return nil, core.Invalid("nenhum aluno encontrado no arquivo")
	}
	return students, nil
}

func parseStudentRow(row []string, index map[string]int, validate *validator.Validate) (student.NewStudent, []string) {
	get := func(col string) string {
		i, ok := index[col]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var absent, problems []string
	for _, col := range requiredColumns {
		if get(col) == "" {
			absent = append(absent, col)
		}
	}
	if len(absent) > 0 {
		problems = append(problems, "campos obrigatórios ausentes: "+strings.Join(absent, ", "))
	}

	ns := student.NewStudent{
		Enrollment:    get(colEnrollment),
		Name:          get(colName),
		GuardianPhone: get(colPhone),
		GuardianEmail: get(colEmail),
		Address:       get(colAddress),
		Notes:         get(colNotes),
	}
	if v := get(colBirthDate); v != "" {
		d, err := core.ParseBRDate(v)
		if err != nil {
			problems = append(problems, "data de nascimento inválida (use DD/MM/AAAA)")
		}
		ns.BirthDate = d
	}
	if v := get(colClassID); v != "" {
		id, err := strconv.Atoi(v)
		if err != nil || id <= 0 {
			problems = append(problems, "turma_id inválido")
		}
		ns.ClassID = id
	}
	if v := ns.GuardianEmail; v != "" && !emailRe.MatchString(v) {
		problems = append(problems, "email do responsável inválido")
	}
	ns.Clean()
	// the rules would only repeat what is already reported
	if len(problems) == 0 && validate != nil {
		if err := ns.Validate(validate); err != nil {
			problems = append(problems, describe(err))
		}
	}
	return ns, problems
}

func describe(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	fields := make([]string, len(verrs))
	for i, fe := range verrs {
		fields[i] = fe.Field()
	}
	return "campos inválidos: " + strings.Join(fields, ", ")
}

func headerIndex(header []string) map[string]int {
	index := make(map[string]int, len(header))
	for i, h := range header {
		if col, ok := headerAliases[normalizeHeader(h)]; ok {
			if _, dup := index[col]; !dup {
				index[col] = i
			}
		}
	}
	return index
}

// normalizeHeader turns "Data de Nascimento" into "data_de_nascimento".
func normalizeHeader(h string) string {
	h = strings.TrimPrefix(strings.TrimSpace(h), utf8BOM)
	// chained transformers keep state, so each call builds its own
	stripMarks := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	if s, _, err := transform.String(stripMarks, h); err == nil {
		h = s
	}
	return strings.Join(strings.Fields(strings.ToLower(h)), "_")
}

func blank(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
