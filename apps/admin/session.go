package main

import (
	"context"
	"io"

	"github.com/pkg/errors"

	"github.com/trezcool/acadmin/core"
	"github.com/trezcool/acadmin/core/academic"
)

const (
	rule   = "#############################################"
	dashes = "-------------------------------------------------------"
)

type action struct {
	key   string
	title string
	run   func(ctx context.Context, deptID string) error
}

type session struct {
	con  *console
	svc  *academic.Service
	wf   *academic.Workflow
	log  core.Logger
	dept academic.Department
}

func (s *session) actions() []action {
	return []action{
		{key: "1", title: "Add/Update course", run: s.wf.OfferCourse},
		{key: "2", title: "Enroll student", run: s.wf.EnrollStudent},
	}
}

// ask reads an answer to a session prompt. A rejected line counts as an
// unrecognized answer; only read failures are returned.
func (s *session) ask(prompt string) (string, error) {
	ans, err := s.con.ReadLine(prompt)
	if core.IsValidation(err) {
		s.con.Printf("\n%s\n", err)
		return "", nil
	}
	return ans, err
}

// start authenticates the department, then serves the menu until the operator exits.
func (s *session) start(ctx context.Context) error {
	err := s.login(ctx)
	if err == nil {
		err = s.loop(ctx)
	}
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

func (s *session) login(ctx context.Context) error {
	s.con.Clear()
	s.con.Printf("\n%s\n\n", rule)
	deptID, err := s.ask("> Enter department Id: ")
	if err != nil {
		return err
	}
	s.con.Printf("\n%s\n\n", rule)

	s.con.Clear()
	s.con.Loading()

	dept, ok, err := s.svc.VerifyDepartment(ctx, core.CleanString(deptID))
	if err != nil {
		return err
	}
	if !ok {
		s.con.Println("Entered department Id not found in department relation. Quitting!!")
		s.log.Warn("unknown department", map[string]interface{}{"deptId": deptID})
		s.con.Pause(4)
		return errUnknownDepartment
	}
	s.dept = dept
	s.log.Info("department authenticated", dept)
	s.con.Printf("Department verified! Entering %s: %s department ...\n", dept.DeptID, dept.Name)
	s.con.Pause(4)
	return nil
}

func (s *session) header() {
	s.con.Printf("Department %s: %s\n\n", s.dept.DeptID, s.dept.Name)
}

func (s *session) loop(ctx context.Context) error {
	actions := s.actions()
	for {
		s.con.Clear()
		s.con.Printf("\n%s\n", rule)
		s.con.Println("############### WELCOME ADMIN ###############")
		s.con.Println(rule)
		s.header()
		s.con.Println("> Choose the action you want to take:")
		for _, a := range actions {
			s.con.Printf("  %s. %s\n", a.key, a.title)
		}
		s.con.Printf("  %d. Exit\n", len(actions)+1)

		key, err := s.ask("\n> ")
		if err != nil && !errors.Is(err, io.EOF) {
			return err
		}
		selected := -1
		for i, a := range actions {
			if core.CleanString(key) == a.key {
				selected = i
			}
		}
		if err != nil || selected < 0 {
			s.con.Println("\n################## THANK YOU #################")
			s.con.Println()
			return nil
		}
		if err := s.repeat(ctx, selected+1, actions[selected]); err != nil {
			return err
		}
	}
}

// repeat runs the action until the operator declines to repeat it.
func (s *session) repeat(ctx context.Context, n int, a action) error {
	for {
		s.con.Clear()
		s.con.Printf("############## ACTION %d: %s #############\n", n, a.title)
		s.header()
		if err := s.runAction(ctx, n, a); err != nil {
			return err
		}
		ans, err := s.ask("\n\n> Do you wish to repeat this action? (y/n) ")
		if err != nil {
			return err
		}
		if !core.ParseConfirmation(ans).Affirmative() {
			return nil
		}
	}
}

// runAction is the recovery boundary of one workflow run. Rejections and
// database failures are shown to the operator and the session goes on; only
// the end of input is passed up.
func (s *session) runAction(ctx context.Context, n int, a action) error {
	err := a.run(ctx, s.dept.DeptID)
	if err == nil {
		return nil
	}
	if errors.Is(err, io.EOF) {
		return err
	}

	fields := map[string]interface{}{"action": a.title}
	if core.IsValidation(err) {
		s.log.Debug("action rejected", err, fields, s.dept)
	} else {
		s.log.Error("action failed", err, fields, s.dept)
	}

	s.con.Printf("\n-- Faced following error while processing action %d!! --\n\n", n)
	s.con.Println(err)
	s.con.Println()
	s.con.Println(dashes)
	return nil
}
