package academic

import (
	"fmt"

	"github.com/volatiletech/null/v8"
)

// Semesters
const (
	SemesterEven Semester = "Even"
	SemesterOdd  Semester = "Odd"
)

// GradeUnsatisfactory marks a failed or incomplete attempt. It never counts as passed.
const GradeUnsatisfactory = "U"

// DefaultTerm is the term the workflows write into unless configured otherwise.
var DefaultTerm = Term{Year: 2006, Sem: SemesterEven}

type Semester string

// Term is an academic offering period.
type Term struct {
	Year int      `db:"year"`
	Sem  Semester `db:"sem"`
}

// CutoffYear is the first year that does not count as history for this term:
// only records from strictly earlier years satisfy prerequisites or count as completed.
func (t Term) CutoffYear() int {
	return t.Year + 1
}

func (t Term) String() string {
	return fmt.Sprintf("%s semester, %d", t.Sem, t.Year)
}

type Student struct {
	RollNo string `db:"roll_no"`
	Name   string `db:"name"`
}

type Department struct {
	DeptID string `db:"dept_id"`
	Name   string `db:"name"`
}

type Course struct {
	CourseID string `db:"course_id"`
	Name     string `db:"cname"`
}

type Professor struct {
	EmpID string `db:"emp_id"`
	Name  string `db:"name"`
}

// Teaching is a course offering: a professor teaching a course in a term, in a classroom.
type Teaching struct {
	EmpID    string `db:"emp_id"`
	CourseID string `db:"course_id"`
	Term
	Classroom string `db:"classroom"`
}

type Enrollment struct {
	RollNo   string `db:"roll_no"`
	CourseID string `db:"course_id"`
	Term
	Grade null.String `db:"grade"` // null while in progress
}

// Passed reports whether the enrollment carries a passing grade.
func (e Enrollment) Passed() bool {
	return e.Grade.Valid && e.Grade.String != GradeUnsatisfactory
}
