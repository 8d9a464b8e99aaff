package testutil

import (
	"context"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/acadmin/core"
	"github.com/trezcool/acadmin/core/academic"
	"github.com/trezcool/acadmin/storage/database"
)

// schema mirrors the academic_inst relations the tool runs against.
var schema = []string{
	`CREATE TABLE student (
		rollNo TEXT PRIMARY KEY,
		name TEXT NOT NULL
	)`,
	`CREATE TABLE department (
		deptId TEXT PRIMARY KEY,
		name TEXT NOT NULL
	)`,
	`CREATE TABLE course (
		courseId TEXT NOT NULL,
		deptNo TEXT NOT NULL REFERENCES department(deptId),
		cname TEXT NOT NULL,
		PRIMARY KEY (courseId, deptNo)
	)`,
	`CREATE TABLE professor (
		empId TEXT PRIMARY KEY,
		name TEXT NOT NULL
	)`,
	`CREATE TABLE teaching (
		empId TEXT NOT NULL REFERENCES professor(empId),
		courseId TEXT NOT NULL,
		sem TEXT NOT NULL CHECK (sem IN ('Even', 'Odd')),
		year INTEGER NOT NULL,
		classroom TEXT,
		PRIMARY KEY (empId, courseId, sem, year)
	)`,
	`CREATE TABLE enrollment (
		rollNo TEXT NOT NULL REFERENCES student(rollNo),
		courseId TEXT NOT NULL,
		sem TEXT NOT NULL CHECK (sem IN ('Even', 'Odd')),
		year INTEGER NOT NULL,
		grade TEXT,
		PRIMARY KEY (rollNo, courseId, sem, year)
	)`,
	`CREATE TABLE prerequisite (
		courseId TEXT NOT NULL,
		preReqCourse TEXT NOT NULL,
		PRIMARY KEY (courseId, preReqCourse)
	)`,
}

// PrepareDB opens a fresh in-memory SQLite database with the academic schema.
func PrepareDB(t *testing.T) *sqlx.DB {
	t.Helper()

	db, err := database.Open(context.Background(), core.DatabaseConfig{
		Engine:       database.EngineSQLite,
		Name:         ":memory:",
		PingAttempts: 1,
	})
	if err != nil {
		t.Fatalf("PrepareDB() failed: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			t.Fatalf("PrepareDB() failed: %v", err)
		}
	}
	return db
}

func exec(t *testing.T, db *sqlx.DB, query string, args ...interface{}) {
	t.Helper()
	if _, err := db.Exec(db.Rebind(query), args...); err != nil {
		t.Fatalf("seeding failed: %v", err)
	}
}

func SeedStudent(t *testing.T, db *sqlx.DB, rollNo, name string) {
	exec(t, db, "INSERT INTO student (rollNo, name) VALUES (?, ?)", rollNo, name)
}

func SeedDepartment(t *testing.T, db *sqlx.DB, deptID, name string) {
	exec(t, db, "INSERT INTO department (deptId, name) VALUES (?, ?)", deptID, name)
}

func SeedCourse(t *testing.T, db *sqlx.DB, courseID, deptID, name string) {
	exec(t, db, "INSERT INTO course (courseId, deptNo, cname) VALUES (?, ?, ?)", courseID, deptID, name)
}

func SeedProfessor(t *testing.T, db *sqlx.DB, empID, name string) {
	exec(t, db, "INSERT INTO professor (empId, name) VALUES (?, ?)", empID, name)
}

func SeedPrerequisite(t *testing.T, db *sqlx.DB, courseID, preReqCourse string) {
	exec(t, db, "INSERT INTO prerequisite (courseId, preReqCourse) VALUES (?, ?)", courseID, preReqCourse)
}

func SeedTeaching(t *testing.T, db *sqlx.DB, empID, courseID string, term academic.Term, classroom string) {
	exec(t, db, "INSERT INTO teaching (empId, courseId, sem, year, classroom) VALUES (?, ?, ?, ?, ?)",
		empID, courseID, string(term.Sem), term.Year, classroom)
}

func SeedEnrollment(t *testing.T, db *sqlx.DB, rollNo, courseID string, term academic.Term, grade null.String) {
	exec(t, db, "INSERT INTO enrollment (rollNo, courseId, sem, year, grade) VALUES (?, ?, ?, ?, ?)",
		rollNo, courseID, string(term.Sem), term.Year, grade)
}

// Teachings returns every teaching row, ordered by key.
func Teachings(t *testing.T, db *sqlx.DB) []academic.Teaching {
	t.Helper()
	var rows []academic.Teaching
	err := db.Select(&rows, `SELECT empId AS emp_id, courseId AS course_id, sem, year, classroom
		FROM teaching ORDER BY empId, courseId, year, sem`)
	if err != nil {
		t.Fatalf("Teachings() failed: %v", err)
	}
	return rows
}

// Enrollments returns every enrollment row, ordered by key.
func Enrollments(t *testing.T, db *sqlx.DB) []academic.Enrollment {
	t.Helper()
	var rows []academic.Enrollment
	err := db.Select(&rows, `SELECT rollNo AS roll_no, courseId AS course_id, sem, year, grade
		FROM enrollment ORDER BY rollNo, courseId, year, sem`)
	if err != nil {
		t.Fatalf("Enrollments() failed: %v", err)
	}
	return rows
}
