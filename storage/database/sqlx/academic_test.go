package sqlxrepos_test

import (
	"context"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/acadmin/core/academic"
	sqlxrepos "github.com/trezcool/acadmin/storage/database/sqlx"
	testutil "github.com/trezcool/acadmin/tests"
)

var (
	ctx  = context.Background()
	term = academic.DefaultTerm
)

func inYear(year int) academic.Term {
	return academic.Term{Year: year, Sem: academic.SemesterOdd}
}

func setup(t *testing.T) (*sqlx.DB, academic.Repository) {
	db := testutil.PrepareDB(t)
	testutil.SeedDepartment(t, db, "CS", "Computer Science")
	testutil.SeedDepartment(t, db, "EE", "Electrical Engineering")
	testutil.SeedCourse(t, db, "CS100", "CS", "Intro to Programming")
	testutil.SeedCourse(t, db, "CS101", "CS", "Data Structures")
	testutil.SeedCourse(t, db, "CS201", "CS", "Algorithms")
	testutil.SeedCourse(t, db, "EE101", "EE", "Circuits")
	testutil.SeedProfessor(t, db, "P001", "Ada Lovelace")
	testutil.SeedStudent(t, db, "S1", "Alan Turing")
	testutil.SeedPrerequisite(t, db, "CS101", "CS100")
	testutil.SeedPrerequisite(t, db, "CS201", "CS100")
	testutil.SeedPrerequisite(t, db, "CS201", "CS101")
	return db, sqlxrepos.NewAcademicRepository(db)
}

func TestAcademicRepository_lookups(t *testing.T) {
	db, repo := setup(t)
	testutil.SeedTeaching(t, db, "P001", "CS101", term, "R-101")

	s, err := repo.GetStudent(ctx, "S1")
	require.NoError(t, err)
	assert.Equal(t, academic.Student{RollNo: "S1", Name: "Alan Turing"}, s)
	_, err = repo.GetStudent(ctx, "S9")
	assert.Equal(t, academic.ErrNotFound, err)

	d, err := repo.GetDepartment(ctx, "EE")
	require.NoError(t, err)
	assert.Equal(t, "Electrical Engineering", d.Name)
	_, err = repo.GetDepartment(ctx, "ME")
	assert.Equal(t, academic.ErrNotFound, err)

	c, err := repo.GetCourse(ctx, "CS101", "CS")
	require.NoError(t, err)
	assert.Equal(t, academic.Course{CourseID: "CS101", Name: "Data Structures"}, c)
	_, err = repo.GetCourse(ctx, "CS101", "EE")
	assert.Equal(t, academic.ErrNotFound, err)

	p, err := repo.GetProfessor(ctx, "P001")
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", p.Name)
	_, err = repo.GetProfessor(ctx, "P999")
	assert.Equal(t, academic.ErrNotFound, err)

	tch, err := repo.GetTeaching(ctx, "CS101", "P001", term)
	require.NoError(t, err)
	assert.Equal(t, academic.Teaching{EmpID: "P001", CourseID: "CS101", Term: term, Classroom: "R-101"}, tch)
	_, err = repo.GetTeaching(ctx, "CS101", "P001", inYear(2006))
	assert.Equal(t, academic.ErrNotFound, err)

	ok, err := repo.CourseOffered(ctx, "CS101", term)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = repo.CourseOffered(ctx, "CS100", term)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestAcademicRepository_QueryUnsatisfiedPrerequisites(t *testing.T) {
	tests := []struct {
		name     string
		courseID string
		history  []academic.Enrollment
		want     []academic.Course
	}{
		{
			name:     "no prerequisites",
			courseID: "CS100",
			want:     []academic.Course{},
		},
		{
			name:     "nothing taken",
			courseID: "CS201",
			want: []academic.Course{
				{CourseID: "CS100", Name: "Intro to Programming"},
				{CourseID: "CS101", Name: "Data Structures"},
			},
		},
		{
			name:     "one passed",
			courseID: "CS201",
			history:  []academic.Enrollment{{CourseID: "CS100", Term: inYear(2004), Grade: null.StringFrom("A")}},
			want:     []academic.Course{{CourseID: "CS101", Name: "Data Structures"}},
		},
		{
			name:     "failed, in progress and too late",
			courseID: "CS201",
			history: []academic.Enrollment{
				{CourseID: "CS100", Term: inYear(2005), Grade: null.StringFrom("U")},
				{CourseID: "CS100", Term: term},
				{CourseID: "CS101", Term: inYear(2007), Grade: null.StringFrom("A")},
			},
			want: []academic.Course{
				{CourseID: "CS100", Name: "Intro to Programming"},
				{CourseID: "CS101", Name: "Data Structures"},
			},
		},
		{
			name:     "passed after a failure",
			courseID: "CS101",
			history: []academic.Enrollment{
				{CourseID: "CS100", Term: academic.Term{Year: 2005, Sem: academic.SemesterEven}, Grade: null.StringFrom("U")},
				{CourseID: "CS100", Term: inYear(2006), Grade: null.StringFrom("C")},
			},
			want: []academic.Course{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, repo := setup(t)
			for _, e := range tt.history {
				testutil.SeedEnrollment(t, db, "S1", e.CourseID, e.Term, e.Grade)
			}

			got, err := repo.QueryUnsatisfiedPrerequisites(ctx, tt.courseID, "S1", term)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAcademicRepository_GetConflictingEnrollment(t *testing.T) {
	tests := []struct {
		name     string
		history  []academic.Enrollment
		wantTerm *academic.Term
	}{
		{name: "never taken"},
		{
			name:    "failed before",
			history: []academic.Enrollment{{Term: inYear(2005), Grade: null.StringFrom("U")}},
		},
		{
			name:    "passed after the term",
			history: []academic.Enrollment{{Term: inYear(2008), Grade: null.StringFrom("A")}},
		},
		{
			name:    "in progress in another term",
			history: []academic.Enrollment{{Term: inYear(2005)}},
		},
		{
			name:     "enrolled this term",
			history:  []academic.Enrollment{{Term: term}},
			wantTerm: &term,
		},
		{
			name: "latest pass wins",
			history: []academic.Enrollment{
				{Term: inYear(2003), Grade: null.StringFrom("B")},
				{Term: inYear(2005), Grade: null.StringFrom("A")},
			},
			wantTerm: &academic.Term{Year: 2005, Sem: academic.SemesterOdd},
		},
		{
			name: "both semesters of a year",
			history: []academic.Enrollment{
				{Term: inYear(2005), Grade: null.StringFrom("A")},
				{Term: academic.Term{Year: 2005, Sem: academic.SemesterEven}, Grade: null.StringFrom("B")},
			},
			wantTerm: &academic.Term{Year: 2005, Sem: academic.SemesterOdd},
		},
		{
			name:     "graded this term",
			history:  []academic.Enrollment{{Term: term, Grade: null.StringFrom("U")}},
			wantTerm: &term,
		},
		{
			name: "this term first",
			history: []academic.Enrollment{
				{Term: inYear(2005), Grade: null.StringFrom("A")},
				{Term: term},
			},
			wantTerm: &term,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, repo := setup(t)
			for _, e := range tt.history {
				testutil.SeedEnrollment(t, db, "S1", "CS100", e.Term, e.Grade)
			}

			got, err := repo.GetConflictingEnrollment(ctx, "S1", "CS100", term)
			if tt.wantTerm == nil {
				assert.Equal(t, academic.ErrNotFound, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, *tt.wantTerm, got.Term)
			assert.Equal(t, "S1", got.RollNo)
			assert.Equal(t, "CS100", got.CourseID)
		})
	}
}

func TestAcademicRepository_mutations(t *testing.T) {
	db, repo := setup(t)

	require.NoError(t, repo.CreateTeaching(ctx, academic.Teaching{EmpID: "P001", CourseID: "CS100", Term: term, Classroom: "R-1"}))
	require.NoError(t, repo.UpdateTeaching(ctx, academic.Teaching{EmpID: "P001", CourseID: "CS100", Term: term, Classroom: "R-2"}))
	assert.Equal(t, []academic.Teaching{
		{EmpID: "P001", CourseID: "CS100", Term: term, Classroom: "R-2"},
	}, testutil.Teachings(t, db))

	err := repo.CreateTeaching(ctx, academic.Teaching{EmpID: "P001", CourseID: "CS100", Term: term, Classroom: "R-3"})
	require.Error(t, err)
	assert.False(t, errors.Is(err, academic.ErrNotFound))

	require.NoError(t, repo.CreateEnrollment(ctx, academic.Enrollment{RollNo: "S1", CourseID: "CS100", Term: term}))
	enrollments := testutil.Enrollments(t, db)
	require.Len(t, enrollments, 1)
	assert.False(t, enrollments[0].Grade.Valid)
	assert.Equal(t, term, enrollments[0].Term)

	// a failed statement leaves the connection usable
	_, err = repo.GetStudent(ctx, "S1")
	assert.NoError(t, err)
}
