// Package seed loads the reference data (classes and occurrence types) and,
// optionally, a small sample school. It writes through the repositories, so
// it works the same on PostgreSQL and in memory.
package seed

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/LionGab/sistema-disciplinar-jupiara/core"
	"github.com/LionGab/sistema-disciplinar-jupiara/core/absence"
	"github.com/LionGab/sistema-disciplinar-jupiara/core/classgroup"
	"github.com/LionGab/sistema-disciplinar-jupiara/core/occurrence"
	"github.com/LionGab/sistema-disciplinar-jupiara/core/student"
)

type Repositories struct {
	Classes     classgroup.Repository
	Students    student.Repository
	Occurrences occurrence.Repository
	Absences    absence.Repository
}

// Result counts what was inserted.
type Result struct {
	Classes, Types, Students, Occurrences, Absences int
}

var Classes = []classgroup.NewClassGroup{
	{Name: "6A", Year: "6º Ano", Shift: "Matutino"},
	{Name: "6B", Year: "6º Ano", Shift: "Matutino"},
	{Name: "7A", Year: "7º Ano", Shift: "Matutino"},
	{Name: "7B", Year: "7º Ano", Shift: "Matutino"},
	{Name: "8A", Year: "8º Ano", Shift: "Matutino"},
	{Name: "8B", Year: "8º Ano", Shift: "Matutino"},
	{Name: "9A", Year: "9º Ano", Shift: "Matutino"},
	{Name: "9B", Year: "9º Ano", Shift: "Matutino"},
	{Name: "1A", Year: "1º Ano EM", Shift: "Matutino"},
	{Name: "1B", Year: "1º Ano EM", Shift: "Vespertino"},
	{Name: "2A", Year: "2º Ano EM", Shift: "Matutino"},
	{Name: "3A", Year: "3º Ano EM", Shift: "Matutino"},
}

var Types = []occurrence.NewType{
	{Name: "Atraso", Severity: occurrence.SeverityLeve, Points: 1},
	{Name: "Uniforme incompleto", Severity: occurrence.SeverityLeve, Points: 1},
	{Name: "Conversa durante aula", Severity: occurrence.SeverityLeve, Points: 2},
	{Name: "Uso de celular", Severity: occurrence.SeverityMedia, Points: 3},
	{Name: "Desrespeito ao professor", Severity: occurrence.SeverityMedia, Points: 5},
	{Name: "Ausência não justificada", Severity: occurrence.SeverityMedia, Points: 3},
	{Name: "Briga verbal", Severity: occurrence.SeverityGrave, Points: 8},
	{Name: "Briga física", Severity: occurrence.SeverityGrave, Points: 10},
	{Name: "Dano ao patrimônio", Severity: occurrence.SeverityGrave, Points: 10},
	{Name: "Bullying", Severity: occurrence.SeverityGrave, Points: 10},
}

// Sample rows reference classes, types and students by their 1-based position
// in Classes, Types and sampleStudents.
type (
	sampleStudent struct {
		student.NewStudent
		class int
	}
	sampleOccurrence struct {
		occurrence.NewOccurrence
		student, kind int
	}
	sampleAbsence struct {
		absence.NewAbsence
		student int
	}
)

func date(y int, m time.Month, d int) core.Date { return core.NewDate(y, m, d) }

var sampleStudents = []sampleStudent{
	{student.NewStudent{Enrollment: "2024001", Name: "Ana Silva Santos", BirthDate: date(2012, 3, 15), GuardianPhone: "(11) 98765-4321", GuardianEmail: "ana.santos@email.com", Address: "Rua das Flores, 123 - Centro", Notes: "Aluna exemplar"}, 1},
	{student.NewStudent{Enrollment: "2024002", Name: "Carlos Eduardo Lima", BirthDate: date(2012, 7, 22), GuardianPhone: "(11) 97654-3210", GuardianEmail: "carlos.lima@email.com", Address: "Av. Brasil, 456 - Jardim", Notes: "Participa do grêmio estudantil"}, 1},
	{student.NewStudent{Enrollment: "2024003", Name: "Beatriz Costa Oliveira", BirthDate: date(2012, 1, 30), GuardianPhone: "(11) 96543-2109", GuardianEmail: "beatriz.costa@email.com", Address: "Rua São Paulo, 789 - Vila Nova", Notes: "Monitora de matemática"}, 1},
	{student.NewStudent{Enrollment: "2024004", Name: "Diego Ferreira Souza", BirthDate: date(2012, 9, 18), GuardianPhone: "(11) 95432-1098", GuardianEmail: "diego.souza@email.com", Address: "Rua da Paz, 321 - Centro", Notes: "Atleta da escola"}, 2},
	{student.NewStudent{Enrollment: "2024005", Name: "Eduarda Mendes Silva", BirthDate: date(2012, 5, 12), GuardianPhone: "(11) 94321-0987", GuardianEmail: "eduarda.silva@email.com", Address: "Av. Independência, 654 - Jardim", Notes: "Líder de turma"}, 2},
	{student.NewStudent{Enrollment: "2024006", Name: "Felipe Roberto Alves", BirthDate: date(2011, 11, 8), GuardianPhone: "(11) 93210-9876", GuardianEmail: "felipe.alves@email.com", Address: "Rua Rio de Janeiro, 987 - Vila Nova", Notes: "Participa do coral"}, 3},
	{student.NewStudent{Enrollment: "2024007", Name: "Gabriela dos Santos", BirthDate: date(2011, 4, 25), GuardianPhone: "(11) 92109-8765", GuardianEmail: "gabriela.santos@email.com", Address: "Rua Minas Gerais, 147 - Centro", Notes: "Destaque em português"}, 3},
	{student.NewStudent{Enrollment: "2024008", Name: "Henrique Barbosa Lima", BirthDate: date(2010, 12, 3), GuardianPhone: "(11) 91098-7654", GuardianEmail: "henrique.lima@email.com", Address: "Av. Goiás, 258 - Jardim", Notes: "Capitão da turma"}, 5},
	{student.NewStudent{Enrollment: "2024009", Name: "Isabella Rodrigues Costa", BirthDate: date(2010, 8, 17), GuardianPhone: "(11) 90987-6543", GuardianEmail: "isabella.costa@email.com", Address: "Rua Bahia, 369 - Vila Nova", Notes: "Monitora de ciências"}, 5},
	{student.NewStudent{Enrollment: "2024010", Name: "João Victor Pereira", BirthDate: date(2009, 6, 14), GuardianPhone: "(11) 89876-5432", GuardianEmail: "joao.pereira@email.com", Address: "Rua Ceará, 741 - Centro", Notes: "Representante de turma"}, 7},
	{student.NewStudent{Enrollment: "2024011", Name: "Kamila Fernandes Silva", BirthDate: date(2009, 10, 29), GuardianPhone: "(11) 88765-4321", GuardianEmail: "kamila.silva@email.com", Address: "Av. Pernambuco, 852 - Jardim", Notes: "Voluntária na biblioteca"}, 7},
	{student.NewStudent{Enrollment: "2024012", Name: "Lucas Martins Oliveira", BirthDate: date(2008, 2, 11), GuardianPhone: "(11) 87654-3210", GuardianEmail: "lucas.oliveira@email.com", Address: "Rua Paraná, 963 - Vila Nova", Notes: "Presidente do grêmio"}, 9},
	{student.NewStudent{Enrollment: "2024013", Name: "Mariana Cunha Santos", BirthDate: date(2008, 7, 5), GuardianPhone: "(11) 86543-2109", GuardianEmail: "mariana.santos@email.com", Address: "Av. Rio Grande do Sul, 174 - Centro", Notes: "Destaque em química"}, 9},
}

var sampleOccurrences = []sampleOccurrence{
	{occurrence.NewOccurrence{Date: date(2024, 8, 1), Time: "07:15", Description: "Chegou 15 minutos atrasado à primeira aula", Measures: "Advertência verbal e orientação sobre pontualidade", Recorder: "Tenente Silva", Status: occurrence.StatusResolvida}, 4, 1},
	{occurrence.NewOccurrence{Date: date(2024, 8, 5), Time: "10:30", Description: "Conversando durante explicação da matéria de História", Measures: "Mudança de lugar na sala", Recorder: "Sargento Costa", Status: occurrence.StatusResolvida}, 4, 3},
	{occurrence.NewOccurrence{Date: date(2024, 8, 3), Time: "11:20", Description: "Uso de celular durante aula de Matemática", Measures: "Celular recolhido até o final das aulas", Recorder: "Tenente Silva", Status: occurrence.StatusResolvida}, 6, 4},
	{occurrence.NewOccurrence{Date: date(2024, 8, 7), Time: "07:00", Description: "Uniforme incompleto - sem gravata", Measures: "Orientação sobre uso correto do uniforme", Recorder: "Sargento Oliveira", Status: occurrence.StatusResolvida}, 6, 2},
	{occurrence.NewOccurrence{Date: date(2024, 8, 2), Time: "14:15", Description: "Desrespeitou colega de turma durante discussão", Measures: "Conversa individual e pedido de desculpas", Recorder: "Tenente Silva", Status: occurrence.StatusResolvida}, 8, 5},
	{occurrence.NewOccurrence{Date: date(2024, 8, 10), Time: "15:30", Description: "Discussão acalorada com colega durante recreio", Measures: "Suspensão de recreio por 2 dias", Recorder: "Tenente Silva", Status: occurrence.StatusEmAndamento}, 8, 7},
	{occurrence.NewOccurrence{Date: date(2024, 8, 6), Time: "07:20", Description: "Atraso de 20 minutos", Measures: "Advertência e justificativa por escrito", Recorder: "Sargento Costa", Status: occurrence.StatusPendente}, 10, 1},
	{occurrence.NewOccurrence{Date: date(2024, 8, 8), Time: "08:00", Description: "Faltou sem justificativa prévia", Measures: "Convocação dos responsáveis", Recorder: "Tenente Silva", Status: occurrence.StatusPendente}, 12, 6},
}

var sampleAbsences = []sampleAbsence{
	{absence.NewAbsence{Date: date(2024, 7, 25), Reason: "Sem justificativa apresentada"}, 4},
	{absence.NewAbsence{Date: date(2024, 8, 12), Justified: true, Reason: "Consulta médica", Document: "Atestado médico"}, 4},
	{absence.NewAbsence{Date: date(2024, 7, 30), Justified: true, Reason: "Compromisso familiar urgente", Document: "Declaração dos pais"}, 6},
	{absence.NewAbsence{Date: date(2024, 8, 9), Reason: "Não compareceu"}, 6},
	{absence.NewAbsence{Date: date(2024, 8, 1), Justified: true, Reason: "Problema de saúde", Document: "Atestado médico"}, 8},
	{absence.NewAbsence{Date: date(2024, 8, 11), Reason: "Ausência não justificada"}, 8},
	{absence.NewAbsence{Date: date(2024, 7, 28), Justified: true, Reason: "Viagem em família", Document: "Justificativa dos responsáveis"}, 9},
	{absence.NewAbsence{Date: date(2024, 8, 4), Reason: "Falta sem justificativa"}, 10},
	{absence.NewAbsence{Date: date(2024, 8, 13), Justified: true, Reason: "Consulta odontológica", Document: "Declaração do dentista"}, 10},
	{absence.NewAbsence{Date: date(2024, 8, 8), Reason: "Não compareceu às aulas"}, 12},
	{absence.NewAbsence{Date: date(2024, 8, 10), Reason: "Ausência não justificada"}, 12},
	{absence.NewAbsence{Date: date(2024, 7, 26), Justified: true, Reason: "Participação em olimpíada de química", Document: "Comprovante de participação"}, 13},
}

// Run inserts the reference data when no class exists yet and, with sample,
// the sample school when no student exists yet. It is safe to run twice.
func Run(ctx context.Context, repos Repositories, sample bool) (Result, error) {
	var res Result

	classes, err := repos.Classes.QueryClassGroups(ctx)
	if err != nil {
		return res, errors.Wrap(err, "checking classes")
	}
	types, err := repos.Occurrences.QueryTypes(ctx)
	if err != nil {
		return res, errors.Wrap(err, "checking occurrence types")
	}

	classIDs := make(map[string]int, len(classes))
	for _, c := range classes {
		classIDs[c.Name] = c.ID
	}
	typeIDs := make(map[string]int, len(types))
	for _, t := range types {
		typeIDs[t.Name] = t.ID
	}

	for _, nc := range Classes {
		if _, ok := classIDs[nc.Name]; ok {
			continue
		}
		c, err := repos.Classes.CreateClassGroup(ctx, nc)
		if err != nil {
			return res, errors.Wrapf(err, "creating class %s", nc.Name)
		}
		classIDs[c.Name] = c.ID
		res.Classes++
	}
	for _, nt := range Types {
		if _, ok := typeIDs[nt.Name]; ok {
			continue
		}
		t, err := repos.Occurrences.CreateType(ctx, nt)
		if err != nil {
			return res, errors.Wrapf(err, "creating occurrence type %s", nt.Name)
		}
		typeIDs[t.Name] = t.ID
		res.Types++
	}

	if !sample {
		return res, nil
	}
	students, err := repos.Students.QueryStudents(ctx, student.Filter{})
	if err != nil {
		return res, errors.Wrap(err, "checking students")
	}
	if len(students) > 0 {
		return res, nil
	}

	nss := make([]student.NewStudent, len(sampleStudents))
	for i, s := range sampleStudents {
		nss[i] = s.NewStudent
		nss[i].ClassID = classIDs[Classes[s.class-1].Name]
	}
	created, err := repos.Students.CreateStudents(ctx, nss)
	if err != nil {
		return res, errors.Wrap(err, "creating sample students")
	}
	res.Students = len(created)
	studentIDs := make(map[string]int, len(created))
	for _, s := range created {
		studentIDs[s.Enrollment] = s.ID
	}
	studentID := func(pos int) int { return studentIDs[sampleStudents[pos-1].Enrollment] }

	for _, so := range sampleOccurrences {
		no := so.NewOccurrence
		no.StudentID = studentID(so.student)
		no.TypeID = typeIDs[Types[so.kind-1].Name]
		if _, err = repos.Occurrences.CreateOccurrence(ctx, no); err != nil {
			return res, errors.Wrap(err, "creating sample occurrence")
		}
		res.Occurrences++
	}
	for _, sa := range sampleAbsences {
		na := sa.NewAbsence
		na.StudentID = studentID(sa.student)
		if _, err = repos.Absences.CreateAbsence(ctx, na); err != nil {
			return res, errors.Wrap(err, "creating sample absence")
		}
		res.Absences++
	}
	return res, nil
}
