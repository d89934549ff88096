// Package inmemdb keeps every table in process memory. It backs the memory
// engine and the test suites; it enforces the same keys and cascades as the
// PostgreSQL schema.
package inmemdb

import (
	"sync"
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/LionGab/sistema-disciplinar-jupiara/core"
	"github.com/LionGab/sistema-disciplinar-jupiara/core/occurrence"
	"github.com/LionGab/sistema-disciplinar-jupiara/core/settings"
	"github.com/LionGab/sistema-disciplinar-jupiara/core/user"
)

type (
	classRow struct {
		id                int
		name, year, shift string
	}

	studentRow struct {
		id                   int
		enrollment, name     string
		birthDate            core.Date
		classID              int
		phone, email         null.String
		address, notes       null.String
		createdAt, updatedAt time.Time
	}

	occurrenceRow struct {
		id                   int
		studentID, typeID    int
		date                 core.Date
		time                 null.String
		description          string
		measures             null.String
		recorder             string
		status               occurrence.Status
		createdAt, updatedAt time.Time
	}

	absenceRow struct {
		id               int
		studentID        int
		date             core.Date
		justified        bool
		reason, document null.String
		createdAt        time.Time
	}

	// DB guards all tables with one lock so joins and cascades see a consistent state.
	DB struct {
		mu sync.RWMutex

		classes     map[int]*classRow
		students    map[int]*studentRow
		types       map[int]occurrence.Type
		occurrences map[int]*occurrenceRow
		absences    map[int]*absenceRow
		users       map[int]*user.User
		settings    *settings.Settings

		seq map[string]int
	}
)

var NowFunc = time.Now // mockable

func Open() *DB {
	return &DB{
		classes:     make(map[int]*classRow),
		students:    make(map[int]*studentRow),
		types:       make(map[int]occurrence.Type),
		occurrences: make(map[int]*occurrenceRow),
		absences:    make(map[int]*absenceRow),
		users:       make(map[int]*user.User),
		seq:         make(map[string]int),
	}
}

func (db *DB) nextID(table string) int {
	db.seq[table]++
	return db.seq[table]
}

func now() time.Time {
	return NowFunc().UTC()
}

func optional(s string) null.String {
	return null.NewString(s, s != "")
}

// deleteStudentCascade removes a student with its occurrences and absences. Caller holds the lock.
func (db *DB) deleteStudentCascade(id int) {
	for oid, o := range db.occurrences {
		if o.studentID == id {
			delete(db.occurrences, oid)
		}
	}
	for aid, a := range db.absences {
		if a.studentID == id {
			delete(db.absences, aid)
		}
	}
	delete(db.students, id)
}
