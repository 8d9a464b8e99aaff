package inmem

import (
	"sync"

	"github.com/trezcool/acadmin/core/academic"
)

type (
	DB struct {
		sync.RWMutex

		students      map[string]academic.Student
		departments   map[string]academic.Department
		courses       map[courseKey]academic.Course
		professors    map[string]academic.Professor
		prerequisites map[string][]string // courseId -> preReqCourse
		teachings     map[teachingKey]academic.Teaching
		enrollments   map[enrollmentKey]academic.Enrollment
	}

	courseKey struct {
		courseID, deptID string
	}

	teachingKey struct {
		empID, courseID string
		term            academic.Term
	}

	enrollmentKey struct {
		rollNo, courseID string
		term             academic.Term
	}
)

func Open() *DB {
	return &DB{
		students:      make(map[string]academic.Student),
		departments:   make(map[string]academic.Department),
		courses:       make(map[courseKey]academic.Course),
		professors:    make(map[string]academic.Professor),
		prerequisites: make(map[string][]string),
		teachings:     make(map[teachingKey]academic.Teaching),
		enrollments:   make(map[enrollmentKey]academic.Enrollment),
	}
}

func (db *DB) AddStudent(rollNo, name string) {
	db.Lock()
	defer db.Unlock()
	db.students[rollNo] = academic.Student{RollNo: rollNo, Name: name}
}

func (db *DB) AddDepartment(deptID, name string) {
	db.Lock()
	defer db.Unlock()
	db.departments[deptID] = academic.Department{DeptID: deptID, Name: name}
}

func (db *DB) AddCourse(courseID, deptID, name string) {
	db.Lock()
	defer db.Unlock()
	db.courses[courseKey{courseID, deptID}] = academic.Course{CourseID: courseID, Name: name}
}

func (db *DB) AddProfessor(empID, name string) {
	db.Lock()
	defer db.Unlock()
	db.professors[empID] = academic.Professor{EmpID: empID, Name: name}
}

func (db *DB) AddPrerequisite(courseID, preReqCourse string) {
	db.Lock()
	defer db.Unlock()
	db.prerequisites[courseID] = append(db.prerequisites[courseID], preReqCourse)
}

func (db *DB) AddTeaching(t academic.Teaching) {
	db.Lock()
	defer db.Unlock()
	db.teachings[teachingKey{t.EmpID, t.CourseID, t.Term}] = t
}

func (db *DB) AddEnrollment(e academic.Enrollment) {
	db.Lock()
	defer db.Unlock()
	db.enrollments[enrollmentKey{e.RollNo, e.CourseID, e.Term}] = e
}

// Teachings returns a snapshot of the teaching table.
func (db *DB) Teachings() []academic.Teaching {
	db.RLock()
	defer db.RUnlock()
	ts := make([]academic.Teaching, 0, len(db.teachings))
	for _, t := range db.teachings {
		ts = append(ts, t)
	}
	return ts
}

// Enrollments returns a snapshot of the enrollment table.
func (db *DB) Enrollments() []academic.Enrollment {
	db.RLock()
	defer db.RUnlock()
	es := make([]academic.Enrollment, 0, len(db.enrollments))
	for _, e := range db.enrollments {
		es = append(es, e)
	}
	return es
}
