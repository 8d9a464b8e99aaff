package sqlxrepos

import (
	"context"
	"database/sql"

	"github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/acadmin/core"
	"github.com/trezcool/acadmin/core/academic"
)

const (
	unsatisfiedPrerequisitesQuery = `
		SELECT DISTINCT p.preReqCourse AS course_id, c.cname AS cname
		FROM prerequisite p
		JOIN course c ON c.courseId = p.preReqCourse
		WHERE p.courseId = ?
		  AND p.preReqCourse NOT IN (
			SELECT e.courseId FROM enrollment e
			WHERE e.rollNo = ? AND e.grade IS NOT NULL AND e.grade <> ? AND e.year < ?
		  )
		ORDER BY p.preReqCourse`

	conflictingEnrollmentQuery = `
		SELECT rollNo AS roll_no, courseId AS course_id, sem, year, grade
		FROM enrollment
		WHERE rollNo = ? AND courseId = ?
		  AND ((sem = ? AND year = ?) OR (grade IS NOT NULL AND grade <> ?))
		  AND year < ?
		ORDER BY CASE WHEN sem = ? AND year = ? THEN 0 ELSE 1 END, year DESC, sem DESC
		LIMIT 1`
)

type academicRepository struct {
	db core.DB
}

var _ academic.Repository = (*academicRepository)(nil) // interface compliance check

func NewAcademicRepository(db core.DB) academic.Repository {
	return &academicRepository{db: db}
}

// builder returns a statement builder using the bind style of the driver.
func (repo academicRepository) builder() squirrel.StatementBuilderType {
	if sqlx.BindType(repo.db.DriverName()) == sqlx.DOLLAR {
		return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	}
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question)
}

// trapNoRowsErr maps "no rows" err to academic.ErrNotFound
func (repo academicRepository) trapNoRowsErr(err error, msg string) error {
	if err == sql.ErrNoRows {
		return academic.ErrNotFound
	}
	return errors.Wrap(err, msg)
}

func (repo academicRepository) get(ctx context.Context, dest interface{}, q squirrel.Sqlizer, msg string) error {
	query, args, err := q.ToSql()
	if err != nil {
		return errors.Wrap(err, msg)
	}
	if err := sqlx.GetContext(ctx, repo.db, dest, query, args...); err != nil {
		return repo.trapNoRowsErr(err, msg)
	}
	return nil
}

// exec runs a single statement in its own transaction and commits it.
func (repo academicRepository) exec(ctx context.Context, q squirrel.Sqlizer, msg string) error {
	query, args, err := q.ToSql()
	if err != nil {
		return errors.Wrap(err, msg)
	}
	tx, err := repo.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, msg)
	}
	if err := execTx(ctx, tx, query, args); err != nil {
		_ = tx.Rollback()
		return errors.Wrap(err, msg)
	}
	return errors.Wrap(tx.Commit(), msg)
}

func execTx(ctx context.Context, tx core.DBTransactor, query string, args []interface{}) error {
	_, err := tx.ExecContext(ctx, query, args...)
	return err
}

func (repo academicRepository) GetStudent(ctx context.Context, rollNo string) (academic.Student, error) {
	var s academic.Student
	q := repo.builder().
		Select("rollNo AS roll_no", "name").
		From("student").
		Where(squirrel.Eq{"rollNo": rollNo})
	err := repo.get(ctx, &s, q, "finding student")
	return s, err
}

func (repo academicRepository) GetDepartment(ctx context.Context, deptID string) (academic.Department, error) {
	var d academic.Department
	q := repo.builder().
		Select("deptId AS dept_id", "name").
		From("department").
		Where(squirrel.Eq{"deptId": deptID})
	err := repo.get(ctx, &d, q, "finding department")
	return d, err
}

func (repo academicRepository) GetCourse(ctx context.Context, courseID, deptID string) (academic.Course, error) {
	var c academic.Course
	q := repo.builder().
		Select("courseId AS course_id", "cname").
		From("course").
		Where(squirrel.Eq{"courseId": courseID, "deptNo": deptID})
	err := repo.get(ctx, &c, q, "finding course")
	return c, err
}

func (repo academicRepository) GetProfessor(ctx context.Context, empID string) (academic.Professor, error) {
	var p academic.Professor
	q := repo.builder().
		Select("empId AS emp_id", "name").
		From("professor").
		Where(squirrel.Eq{"empId": empID})
	err := repo.get(ctx, &p, q, "finding professor")
	return p, err
}

func (repo academicRepository) GetTeaching(ctx context.Context, courseID, empID string, term academic.Term) (academic.Teaching, error) {
	var t academic.Teaching
	q := repo.builder().
		Select("empId AS emp_id", "courseId AS course_id", "sem", "year", "classroom").
		From("teaching").
		Where(squirrel.Eq{"empId": empID, "courseId": courseID, "sem": string(term.Sem), "year": term.Year})
	err := repo.get(ctx, &t, q, "finding teaching")
	return t, err
}

func (repo academicRepository) CourseOffered(ctx context.Context, courseID string, term academic.Term) (bool, error) {
	var one int
	q := repo.builder().
		Select("1").
		From("teaching").
		Where(squirrel.Eq{"courseId": courseID, "sem": string(term.Sem), "year": term.Year}).
		Limit(1)
	err := repo.get(ctx, &one, q, "checking course offering")
	if errors.Is(err, academic.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (repo academicRepository) QueryUnsatisfiedPrerequisites(ctx context.Context, courseID, rollNo string, term academic.Term) ([]academic.Course, error) {
	courses := make([]academic.Course, 0)
	query := repo.db.Rebind(unsatisfiedPrerequisitesQuery)
	err := sqlx.SelectContext(ctx, repo.db, &courses, query,
		courseID, rollNo, academic.GradeUnsatisfactory, term.CutoffYear())
	if err != nil {
		return nil, errors.Wrap(err, "querying prerequisites")
	}
	return courses, nil
}

func (repo academicRepository) GetConflictingEnrollment(ctx context.Context, rollNo, courseID string, term academic.Term) (academic.Enrollment, error) {
	var e academic.Enrollment
	query := repo.db.Rebind(conflictingEnrollmentQuery)
	err := sqlx.GetContext(ctx, repo.db, &e, query,
		rollNo, courseID,
		string(term.Sem), term.Year, academic.GradeUnsatisfactory,
		term.CutoffYear(),
		string(term.Sem), term.Year)
	if err != nil {
		return academic.Enrollment{}, repo.trapNoRowsErr(err, "finding enrollment")
	}
	return e, nil
}

func (repo academicRepository) UpdateTeaching(ctx context.Context, t academic.Teaching) error {
	q := repo.builder().
		Update("teaching").
		Set("classroom", t.Classroom).
		Where(squirrel.Eq{"empId": t.EmpID, "courseId": t.CourseID, "sem": string(t.Sem), "year": t.Year})
	return repo.exec(ctx, q, "updating teaching")
}

func (repo academicRepository) CreateTeaching(ctx context.Context, t academic.Teaching) error {
	q := repo.builder().
		Insert("teaching").
		Columns("empId", "courseId", "sem", "year", "classroom").
		Values(t.EmpID, t.CourseID, string(t.Sem), t.Year, t.Classroom)
	return repo.exec(ctx, q, "inserting teaching")
}

func (repo academicRepository) CreateEnrollment(ctx context.Context, e academic.Enrollment) error {
	q := repo.builder().
		Insert("enrollment").
		Columns("rollNo", "courseId", "sem", "year", "grade").
		Values(e.RollNo, e.CourseID, string(e.Sem), e.Year, e.Grade)
	return repo.exec(ctx, q, "inserting enrollment")
}
