package academic

import (
	"context"
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"github.com/trezcool/acadmin/core"
)

var (
	// ErrNotFound is returned by a Repository when the requested row does not exist.
	ErrNotFound = errors.New("record not found")

	// validation error kinds
	ErrStudentNotFound       = errors.New("student not found")
	ErrCourseNotInDepartment = errors.New("course not offered by department")
	ErrProfessorNotFound     = errors.New("professor not found")
	ErrCourseNotOffered      = errors.New("course not offered this term")
	ErrPrerequisitesNotMet   = errors.New("prerequisites not met")
	ErrAlreadyEnrolled       = errors.New("already enrolled or completed")
)

// PrerequisiteError lists the prerequisites a student has not passed.
type PrerequisiteError struct {
	RollNo   string
	CourseID string
	Missing  []Course
}

func (e *PrerequisiteError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Student %s has not passed the following prerequisites of course %s:", e.RollNo, e.CourseID)
	for _, c := range e.Missing {
		fmt.Fprintf(&b, "\n%s (%s)", c.Name, c.CourseID)
	}
	return b.String()
}

func (e *PrerequisiteError) Is(target error) bool { return target == ErrPrerequisitesNotMet }

// EnrollmentConflictError reports the enrollment that blocks a new one,
// with its grade when the prior record already carries one.
type EnrollmentConflictError struct {
	Prior Enrollment
}

func (e *EnrollmentConflictError) Error() string {
	msg := fmt.Sprintf("Student %s has already enrolled for the course %s in %s",
		e.Prior.RollNo, e.Prior.CourseID, e.Prior.Term)
	if e.Prior.Grade.Valid {
		msg += fmt.Sprintf(" and passed with %s grade", e.Prior.Grade.String)
	}
	return msg
}

func (e *EnrollmentConflictError) Is(target error) bool { return target == ErrAlreadyEnrolled }

type (
	// Repository reads and appends rows of the academic-records schema.
	// Single-row getters return ErrNotFound when no row matches.
	Repository interface {
		GetStudent(ctx context.Context, rollNo string) (Student, error)
		GetDepartment(ctx context.Context, deptID string) (Department, error)
		GetCourse(ctx context.Context, courseID, deptID string) (Course, error)
		GetProfessor(ctx context.Context, empID string) (Professor, error)
		GetTeaching(ctx context.Context, courseID, empID string, term Term) (Teaching, error)
		CourseOffered(ctx context.Context, courseID string, term Term) (bool, error)
		// QueryUnsatisfiedPrerequisites returns the prerequisites of courseID without
		// a passing enrollment of rollNo in a year before the term's cutoff.
		QueryUnsatisfiedPrerequisites(ctx context.Context, courseID, rollNo string, term Term) ([]Course, error)
		// GetConflictingEnrollment returns an enrollment of rollNo in courseID, before the
		// term's cutoff, that is either in the term itself or already passed.
		GetConflictingEnrollment(ctx context.Context, rollNo, courseID string, term Term) (Enrollment, error)

		UpdateTeaching(ctx context.Context, t Teaching) error
		CreateTeaching(ctx context.Context, t Teaching) error
		CreateEnrollment(ctx context.Context, e Enrollment) error
	}

	// Service is the lookup and mutation layer the workflows are built on.
	Service struct {
		repo Repository
		log  core.Logger
	}
)

func NewService(repo Repository, log core.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// found maps ErrNotFound to a plain miss and tags every other failure.
func found(err error, op string) (bool, error) {
	if err == nil {
		return true, nil
	}
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	return false, core.NewInfrastructureError(op, err)
}

func (svc *Service) VerifyStudent(ctx context.Context, rollNo string) (Student, bool, error) {
	s, err := svc.repo.GetStudent(ctx, rollNo)
	ok, err := found(err, "verifying student")
	return s, ok, err
}

func (svc *Service) VerifyDepartment(ctx context.Context, deptID string) (Department, bool, error) {
	d, err := svc.repo.GetDepartment(ctx, deptID)
	ok, err := found(err, "verifying department")
	return d, ok, err
}

// VerifyCourseInDepartment only finds the course if it belongs to deptID.
func (svc *Service) VerifyCourseInDepartment(ctx context.Context, courseID, deptID string) (Course, bool, error) {
	c, err := svc.repo.GetCourse(ctx, courseID, deptID)
	ok, err := found(err, "verifying course")
	return c, ok, err
}

// CourseIsOffered reports whether any professor teaches courseID in the term.
func (svc *Service) CourseIsOffered(ctx context.Context, courseID string, term Term) (bool, error) {
	ok, err := svc.repo.CourseOffered(ctx, courseID, term)
	if err != nil {
		return false, core.NewInfrastructureError("checking course offering", err)
	}
	return ok, nil
}

func (svc *Service) VerifyProfessor(ctx context.Context, profID string) (Professor, bool, error) {
	p, err := svc.repo.GetProfessor(ctx, profID)
	ok, err := found(err, "verifying professor")
	return p, ok, err
}

func (svc *Service) FindTeachingAssignment(ctx context.Context, courseID, profID string, term Term) (Teaching, bool, error) {
	t, err := svc.repo.GetTeaching(ctx, courseID, profID, term)
	ok, err := found(err, "finding teaching assignment")
	return t, ok, err
}

func (svc *Service) UnsatisfiedPrerequisites(ctx context.Context, courseID, rollNo string, term Term) ([]Course, error) {
	courses, err := svc.repo.QueryUnsatisfiedPrerequisites(ctx, courseID, rollNo, term)
	if err != nil {
		return nil, core.NewInfrastructureError("checking prerequisites", err)
	}
	return courses, nil
}

func (svc *Service) ConflictingEnrollment(ctx context.Context, rollNo, courseID string, term Term) (Enrollment, bool, error) {
	e, err := svc.repo.GetConflictingEnrollment(ctx, rollNo, courseID, term)
	ok, err := found(err, "checking existing enrollment")
	return e, ok, err
}

// UpdateTeaching changes the classroom of an existing offering.
func (svc *Service) UpdateTeaching(ctx context.Context, courseID, profID string, term Term, classroom string) error {
	t := Teaching{EmpID: profID, CourseID: courseID, Term: term, Classroom: classroom}
	if err := svc.repo.UpdateTeaching(ctx, t); err != nil {
		return core.NewInfrastructureError("updating teaching", err)
	}
	svc.log.Info("teaching updated", teachingFields(t))
	return nil
}

// AddTeaching records a new offering.
func (svc *Service) AddTeaching(ctx context.Context, courseID, profID string, term Term, classroom string) error {
	t := Teaching{EmpID: profID, CourseID: courseID, Term: term, Classroom: classroom}
	if err := svc.repo.CreateTeaching(ctx, t); err != nil {
		return core.NewInfrastructureError("adding teaching", err)
	}
	svc.log.Info("teaching added", teachingFields(t))
	return nil
}

// AddEnrollment enrolls rollNo in courseID for the term, with no grade yet.
func (svc *Service) AddEnrollment(ctx context.Context, courseID, rollNo string, term Term) error {
	e := Enrollment{RollNo: rollNo, CourseID: courseID, Term: term}
	if err := svc.repo.CreateEnrollment(ctx, e); err != nil {
		return core.NewInfrastructureError("adding enrollment", err)
	}
	svc.log.Info("enrollment added", map[string]interface{}{
		"rollNo":   rollNo,
		"courseId": courseID,
		"year":     term.Year,
		"sem":      string(term.Sem),
	})
	return nil
}

func teachingFields(t Teaching) map[string]interface{} {
	return map[string]interface{}{
		"empId":     t.EmpID,
		"courseId":  t.CourseID,
		"year":      t.Year,
		"sem":       string(t.Sem),
		"classroom": t.Classroom,
	}
}
