package academic

import (
	"context"

	"github.com/trezcool/acadmin/core"
)

// Console is the operator's side of a workflow: prompts in, plain text out.
type Console interface {
	// ReadLine shows the prompt and returns the next line of input, without the newline.
	ReadLine(prompt string) (string, error)
	Printf(format string, args ...interface{})
}

// Workflow runs the supervised data-entry procedures of a department admin.
// Every step either passes or ends the run with an error; nothing is written
// unless the operator confirms.
type Workflow struct {
	svc  *Service
	con  Console
	term Term
}

func NewWorkflow(svc *Service, con Console, term Term) *Workflow {
	return &Workflow{svc: svc, con: con, term: term}
}

func (wf *Workflow) Term() Term { return wf.term }

func (wf *Workflow) readID(prompt, field string) (string, error) {
	return wf.read(prompt, field, "required,ident")
}

func (wf *Workflow) read(prompt, field, tag string) (string, error) {
	line, err := wf.con.ReadLine(prompt)
	if err != nil {
		return "", err
	}
	val := core.CleanString(line)
	if err := core.ValidateVar(field, val, tag); err != nil {
		return "", err
	}
	return val, nil
}

func (wf *Workflow) confirm(prompt string) (bool, error) {
	line, err := wf.con.ReadLine(prompt)
	if err != nil {
		return false, err
	}
	return core.ParseConfirmation(line).Affirmative(), nil
}

// OfferCourse assigns (or reassigns) the classroom of a course offering of deptID.
func (wf *Workflow) OfferCourse(ctx context.Context, deptID string) error {
	courseID, err := wf.readID("> Enter courseId: ", "courseId")
	if err != nil {
		return err
	}
	course, ok, err := wf.svc.VerifyCourseInDepartment(ctx, courseID, deptID)
	if err != nil {
		return err
	}
	if !ok {
		return core.NewValidationErrorf(ErrCourseNotInDepartment,
			"Entered courseId %s is not offered by the current department", courseID)
	}
	wf.con.Printf("-- courseId %s verified: %s\n\n", courseID, course.Name)

	profID, err := wf.readID("> Enter profId: ", "profId")
	if err != nil {
		return err
	}
	prof, ok, err := wf.svc.VerifyProfessor(ctx, profID)
	if err != nil {
		return err
	}
	if !ok {
		return core.NewValidationErrorf(ErrProfessorNotFound,
			"Entered profId %s not found in the professor relation", profID)
	}
	wf.con.Printf("-- profId %s verified: %s\n\n", profID, prof.Name)

	classroom, err := wf.read("> Enter classroom: ", "classroom", "required")
	if err != nil {
		return err
	}

	current, ok, err := wf.svc.FindTeachingAssignment(ctx, courseID, profID, wf.term)
	if err != nil {
		return err
	}
	if ok {
		wf.con.Printf("\nNOTE: Given values already exist in the teaching relation!! Professor %s teaches course %s in classroom %s\n\n",
			profID, courseID, current.Classroom)
		yes, err := wf.confirm("> Are you sure you wish to (over)write the classroom? (y/n) ")
		if err != nil || !yes {
			return err
		}
		if err := wf.svc.UpdateTeaching(ctx, courseID, profID, wf.term, classroom); err != nil {
			return err
		}
		wf.con.Printf("\n\nSuccessfully updated classroom!!\n")
		return nil
	}

	wf.con.Printf("\nNOTE: Given course and professor pair does not exist in the teaching relation\n")
	yes, err := wf.confirm("> Are you sure you wish to add this course offering? (y/n) ")
	if err != nil || !yes {
		return err
	}
	if err := wf.svc.AddTeaching(ctx, courseID, profID, wf.term, classroom); err != nil {
		return err
	}
	wf.con.Printf("\n\nSuccessfully added course %s by professor %s in classroom %s!!\n", courseID, profID, classroom)
	return nil
}

// EnrollStudent enrolls a student in a course of deptID offered this term,
// provided every prerequisite is passed and the course is not already taken.
func (wf *Workflow) EnrollStudent(ctx context.Context, deptID string) error {
	rollNo, err := wf.readID("> Enter Roll Number: ", "rollNo")
	if err != nil {
		return err
	}
	student, ok, err := wf.svc.VerifyStudent(ctx, rollNo)
	if err != nil {
		return err
	}
	if !ok {
		return core.NewValidationErrorf(ErrStudentNotFound,
			"Entered rollNo %s is not found in the student relation", rollNo)
	}
	wf.con.Printf("-- rollNo %s verified: %s\n\n", rollNo, student.Name)

	courseID, err := wf.readID("> Enter course ID: ", "courseId")
	if err != nil {
		return err
	}
	course, ok, err := wf.svc.VerifyCourseInDepartment(ctx, courseID, deptID)
	if err != nil {
		return err
	}
	if !ok {
		return core.NewValidationErrorf(ErrCourseNotInDepartment,
			"Entered courseId %s is not offered by the current department", courseID)
	}

	offered, err := wf.svc.CourseIsOffered(ctx, courseID, wf.term)
	if err != nil {
		return err
	}
	if !offered {
		return core.NewValidationErrorf(ErrCourseNotOffered,
			"Entered courseId %s is not offered in %s", courseID, wf.term)
	}
	wf.con.Printf("-- verified course %s: %s is offered in %s\n\n", courseID, course.Name, wf.term)

	missing, err := wf.svc.UnsatisfiedPrerequisites(ctx, courseID, rollNo, wf.term)
	if err != nil {
		return err
	}
	if len(missing) > 0 {
		return core.NewValidationError(&PrerequisiteError{RollNo: rollNo, CourseID: courseID, Missing: missing})
	}

	prior, ok, err := wf.svc.ConflictingEnrollment(ctx, rollNo, courseID, wf.term)
	if err != nil {
		return err
	}
	if ok {
		return core.NewValidationError(&EnrollmentConflictError{Prior: prior})
	}

	wf.con.Printf("\nNOTE: Given student has passed all prerequisites and can be enrolled to the course.\n")
	yes, err := wf.confirm("> Are you sure you wish to enrol the student? (y/n) ")
	if err != nil || !yes {
		return err
	}
	if err := wf.svc.AddEnrollment(ctx, courseID, rollNo, wf.term); err != nil {
		return err
	}
	wf.con.Printf("\n\nSuccessfully enrolled student %s to course %s!!\n", rollNo, courseID)
	return nil
}
