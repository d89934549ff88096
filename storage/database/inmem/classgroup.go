package inmemdb

import (
	"context"
	"sort"

	"github.com/LionGab/sistema-disciplinar-jupiara/core/classgroup"
)

type classGroupRepository struct {
	db *DB
}

var _ classgroup.Repository = (*classGroupRepository)(nil) // interface compliance check

func NewClassGroupRepository(db *DB) *classGroupRepository {
	return &classGroupRepository{db: db}
}

func (db *DB) classGroup(c *classRow) classgroup.ClassGroup {
	cg := classgroup.ClassGroup{ID: c.id, Name: c.name, Year: c.year, Shift: c.shift}
	for _, s := range db.students {
		if s.classID == c.id {
			cg.TotalStudents++
		}
	}
	return cg
}

func (db *DB) classNameTaken(name string, exceptID int) bool {
	for _, c := range db.classes {
		if c.name == name && c.id != exceptID {
			return true
		}
	}
	return false
}

func (repo *classGroupRepository) QueryClassGroups(ctx context.Context) ([]classgroup.ClassGroup, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	classes := make([]classgroup.ClassGroup, 0, len(repo.db.classes))
	for _, c := range repo.db.classes {
		classes = append(classes, repo.db.classGroup(c))
	}
	sort.Slice(classes, func(i, j int) bool { return classes[i].Name < classes[j].Name })
	return classes, nil
}

func (repo *classGroupRepository) GetClassGroup(ctx context.Context, id int) (classgroup.ClassGroup, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	c, ok := repo.db.classes[id]
	if !ok {
		return classgroup.ClassGroup{}, classgroup.ErrNotFound
	}
	return repo.db.classGroup(c), nil
}

func (repo *classGroupRepository) CreateClassGroup(ctx context.Context, nc classgroup.NewClassGroup) (classgroup.ClassGroup, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	if repo.db.classNameTaken(nc.Name, 0) {
		return classgroup.ClassGroup{}, classgroup.ErrNameExists
	}
	c := &classRow{id: repo.db.nextID("turmas"), name: nc.Name, year: nc.Year, shift: nc.Shift}
	repo.db.classes[c.id] = c
	return repo.db.classGroup(c), nil
}

func (repo *classGroupRepository) UpdateClassGroup(ctx context.Context, id int, nc classgroup.NewClassGroup) (classgroup.ClassGroup, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	c, ok := repo.db.classes[id]
	if !ok {
		return classgroup.ClassGroup{}, classgroup.ErrNotFound
	}
	if repo.db.classNameTaken(nc.Name, id) {
		return classgroup.ClassGroup{}, classgroup.ErrNameExists
	}
	c.name, c.year, c.shift = nc.Name, nc.Year, nc.Shift
	return repo.db.classGroup(c), nil
}

func (repo *classGroupRepository) DeleteClassGroup(ctx context.Context, id int) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	if _, ok := repo.db.classes[id]; !ok {
		return classgroup.ErrNotFound
	}
	for sid, s := range repo.db.students {
		if s.classID == id {
			repo.db.deleteStudentCascade(sid)
		}
	}
	delete(repo.db.classes, id)
	return nil
}
