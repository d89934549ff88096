package metric

import (
	"github.com/LionGab/sistema-disciplinar-jupiara/core"
	"github.com/LionGab/sistema-disciplinar-jupiara/core/absence"
	"github.com/LionGab/sistema-disciplinar-jupiara/core/discipline"
	"github.com/LionGab/sistema-disciplinar-jupiara/core/occurrence"
	"github.com/LionGab/sistema-disciplinar-jupiara/core/student"
)

// Filter narrows aggregations. Date bounds are inclusive; zero values impose no constraint.
type Filter struct {
	ClassID   int       `query:"turma_id"`
	StudentID int       `query:"aluno_id"`
	From      core.Date `query:"data_inicio"`
	To        core.Date `query:"data_fim"`
}

// Overview is the school wide summary.
type Overview struct {
	TotalStudents        int `json:"total_alunos" db:"total_alunos"`
	TotalOccurrences     int `json:"total_ocorrencias" db:"total_ocorrencias"`
	TotalAbsences        int `json:"total_faltas" db:"total_faltas"`
	UnjustifiedAbsences  int `json:"faltas_nao_justificadas" db:"faltas_nao_justificadas"`
	OccurrencesLastMonth int `json:"ocorrencias_ultimo_mes" db:"ocorrencias_ultimo_mes"`
	AbsencesLastMonth    int `json:"faltas_ultimo_mes" db:"faltas_ultimo_mes"`

	discipline.Assessment `db:"-"`
}

// ClassMetrics is the per-class rollup.
type ClassMetrics struct {
	ClassID             int     `json:"turma_id" db:"turma_id"`
	ClassName           string  `json:"turma_nome" db:"turma_nome"`
	Year                string  `json:"ano" db:"ano"`
	Shift               string  `json:"turno" db:"turno"`
	TotalStudents       int     `json:"total_alunos" db:"total_alunos"`
	TotalOccurrences    int     `json:"total_ocorrencias" db:"total_ocorrencias"`
	TotalAbsences       int     `json:"total_faltas" db:"total_faltas"`
	UnjustifiedAbsences int     `json:"faltas_nao_justificadas" db:"faltas_nao_justificadas"`
	AvgPoints           float64 `json:"media_pontos_ocorrencia" db:"media_pontos_ocorrencia"`
	TotalPoints         int     `json:"pontos_totais" db:"pontos_totais"`
	GraveOccurrences    int     `json:"ocorrencias_graves" db:"ocorrencias_graves"`
	MediaOccurrences    int     `json:"ocorrencias_medias" db:"ocorrencias_medias"`
	LeveOccurrences     int     `json:"ocorrencias_leves" db:"ocorrencias_leves"`

	discipline.Assessment `db:"-"`
}

func (m *ClassMetrics) Assess() {
	m.Assessment = discipline.AssessClass(m.TotalOccurrences, m.UnjustifiedAbsences, m.TotalStudents)
}

type TopStudent struct {
	ID               int    `json:"id" db:"id"`
	Name             string `json:"nome" db:"nome"`
	Enrollment       string `json:"matricula" db:"matricula"`
	TotalOccurrences int    `json:"total_ocorrencias" db:"total_ocorrencias"`
	TotalPoints      int    `json:"pontos_totais" db:"pontos_totais"`
}

type TypeCount struct {
	Type     string              `json:"tipo" db:"tipo"`
	Severity occurrence.Severity `json:"gravidade" db:"gravidade"`
	Count    int                 `json:"quantidade" db:"quantidade"`
}

// ClassDetail is the drill-down of a single class.
type ClassDetail struct {
	Metrics     ClassMetrics `json:"metricas"`
	TopStudents []TopStudent `json:"alunosComMaisOcorrencias"`
	ByType      []TypeCount  `json:"ocorrenciasPorTipo"`
}

// MonthCount is one calendar month (YYYY-MM) of the trend.
type MonthCount struct {
	Month       string `json:"mes" db:"mes"`
	Occurrences int    `json:"ocorrencias" db:"ocorrencias"`
	Absences    int    `json:"faltas" db:"faltas"`
}

// StudentRecord is the ficha completa of a student.
type StudentRecord struct {
	Student     student.Student         `json:"aluno"`
	Occurrences []occurrence.Occurrence `json:"ocorrencias"`
	Absences    []absence.Absence       `json:"faltas"`
}
