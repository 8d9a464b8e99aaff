package inmem

import (
	"context"
	"sort"

	"github.com/pkg/errors"

	"github.com/trezcool/acadmin/core/academic"
)

type academicRepository struct {
	db *DB
}

var _ academic.Repository = (*academicRepository)(nil) // interface compliance check

func NewAcademicRepository(db *DB) academic.Repository {
	return &academicRepository{db: db}
}

func (repo *academicRepository) GetStudent(_ context.Context, rollNo string) (academic.Student, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if s, ok := repo.db.students[rollNo]; ok {
		return s, nil
	}
	return academic.Student{}, academic.ErrNotFound
}

func (repo *academicRepository) GetDepartment(_ context.Context, deptID string) (academic.Department, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if d, ok := repo.db.departments[deptID]; ok {
		return d, nil
	}
	return academic.Department{}, academic.ErrNotFound
}

func (repo *academicRepository) GetCourse(_ context.Context, courseID, deptID string) (academic.Course, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if c, ok := repo.db.courses[courseKey{courseID, deptID}]; ok {
		return c, nil
	}
	return academic.Course{}, academic.ErrNotFound
}

func (repo *academicRepository) GetProfessor(_ context.Context, empID string) (academic.Professor, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if p, ok := repo.db.professors[empID]; ok {
		return p, nil
	}
	return academic.Professor{}, academic.ErrNotFound
}

func (repo *academicRepository) GetTeaching(_ context.Context, courseID, empID string, term academic.Term) (academic.Teaching, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if t, ok := repo.db.teachings[teachingKey{empID, courseID, term}]; ok {
		return t, nil
	}
	return academic.Teaching{}, academic.ErrNotFound
}

func (repo *academicRepository) CourseOffered(_ context.Context, courseID string, term academic.Term) (bool, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for k := range repo.db.teachings {
		if k.courseID == courseID && k.term == term {
			return true, nil
		}
	}
	return false, nil
}

// passed reports whether rollNo has a passing enrollment in courseID before the cutoff year.
func (repo *academicRepository) passed(rollNo, courseID string, cutoff int) bool {
	for _, e := range repo.db.enrollments {
		if e.RollNo == rollNo && e.CourseID == courseID && e.Year < cutoff && e.Passed() {
			return true
		}
	}
	return false
}

func (repo *academicRepository) QueryUnsatisfiedPrerequisites(_ context.Context, courseID, rollNo string, term academic.Term) ([]academic.Course, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	missing := make([]academic.Course, 0)
	seen := make(map[string]bool)
	for _, pre := range repo.db.prerequisites[courseID] {
		if seen[pre] || repo.passed(rollNo, pre, term.CutoffYear()) {
			continue
		}
		seen[pre] = true
		for k, c := range repo.db.courses {
			if k.courseID == pre {
				missing = append(missing, c)
				break
			}
		}
	}
	sort.Slice(missing, func(i, j int) bool { return missing[i].CourseID < missing[j].CourseID })
	return missing, nil
}

func (repo *academicRepository) GetConflictingEnrollment(_ context.Context, rollNo, courseID string, term academic.Term) (academic.Enrollment, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if e, ok := repo.db.enrollments[enrollmentKey{rollNo, courseID, term}]; ok && e.Year < term.CutoffYear() {
		return e, nil
	}
	var latest *academic.Enrollment
	for _, e := range repo.db.enrollments {
		e := e
		if e.RollNo != rollNo || e.CourseID != courseID || e.Year >= term.CutoffYear() || !e.Passed() {
			continue
		}
		if latest == nil || laterThan(e.Term, latest.Term) {
			latest = &e
		}
	}
	if latest == nil {
		return academic.Enrollment{}, academic.ErrNotFound
	}
	return *latest, nil
}

// laterThan orders terms by year, then by semester name, Odd over Even.
func laterThan(a, b academic.Term) bool {
	if a.Year != b.Year {
		return a.Year > b.Year
	}
	return a.Sem > b.Sem
}

func (repo *academicRepository) UpdateTeaching(_ context.Context, t academic.Teaching) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	key := teachingKey{t.EmpID, t.CourseID, t.Term}
	orig, ok := repo.db.teachings[key]
	if !ok {
		return nil // like an UPDATE matching no row
	}
	orig.Classroom = t.Classroom
	repo.db.teachings[key] = orig
	return nil
}

func (repo *academicRepository) CreateTeaching(_ context.Context, t academic.Teaching) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	key := teachingKey{t.EmpID, t.CourseID, t.Term}
	if _, ok := repo.db.teachings[key]; ok {
		return errors.Errorf("duplicate teaching (%s, %s, %s)", t.EmpID, t.CourseID, t.Term)
	}
	repo.db.teachings[key] = t
	return nil
}

func (repo *academicRepository) CreateEnrollment(_ context.Context, e academic.Enrollment) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	key := enrollmentKey{e.RollNo, e.CourseID, e.Term}
	if _, ok := repo.db.enrollments[key]; ok {
		return errors.Errorf("duplicate enrollment (%s, %s, %s)", e.RollNo, e.CourseID, e.Term)
	}
	repo.db.enrollments[key] = e
	return nil
}
