package nav

import (
	"errors"
	"fmt"

	"github.com/foomo/reportviewer/service/vo"
)

var ErrUnknownTarget = errors.New("unknown navigation target")

// State is the complete navigation state of one viewer session.
type State struct {
	Tab      int
	Courses  map[vo.SectionID]vo.CourseID
	Projects map[vo.CourseKey]int
	Loaded   map[vo.ProjectKey]bool
}

func (s State) clone() State {
	c := State{
		Tab:      s.Tab,
		Courses:  make(map[vo.SectionID]vo.CourseID, len(s.Courses)),
		Projects: make(map[vo.CourseKey]int, len(s.Projects)),
		Loaded:   make(map[vo.ProjectKey]bool, len(s.Loaded)),
	}
	for k, v := range s.Courses {
		c.Courses[k] = v
	}
	for k, v := range s.Projects {
		c.Projects[k] = v
	}
	for k, v := range s.Loaded {
		c.Loaded[k] = v
	}
	return c
}

// Event is a navigation stimulus.
type Event interface {
	event()
}

type OpenTab struct{ Index int }

type Step struct{ Dir int }

// Key is a keyboard stimulus; only the left and right arrows move the carousel.
type Key struct{ Name string }

type OpenCourse struct {
	Section vo.SectionID
	Course  vo.CourseID
}

type OpenProject struct {
	Section vo.SectionID
	Course  vo.CourseID
	Project int
}

// Loaded marks a project container as rendered.
type Loaded struct{ Key vo.ProjectKey }

func (OpenTab) event()     {}
func (Step) event()        {}
func (Key) event()         {}
func (OpenCourse) event()  {}
func (OpenProject) event() {}
func (Loaded) event()      {}

// Effect is the work a transition asks the caller to do.
type Effect struct {
	Load *vo.ProjectKey
}

type Machine struct {
	catalog Catalog
}

func NewMachine(catalog Catalog) Machine {
	return Machine{catalog: catalog}
}

func (m Machine) Catalog() Catalog {
	return m.catalog
}

// Initial activates the first tab, the first course of every section and the
// first project of every course. Nothing is loaded.
func (m Machine) Initial() State {
	s := State{
		Courses:  map[vo.SectionID]vo.CourseID{},
		Projects: map[vo.CourseKey]int{},
		Loaded:   map[vo.ProjectKey]bool{},
	}
	for _, section := range m.catalog.Sections {
		if len(m.catalog.Courses) > 0 {
			s.Courses[section] = m.catalog.Courses[0].ID
		}
		for _, course := range m.catalog.Courses {
			s.Projects[vo.CourseKey{Section: section, Course: course.ID}] = 1
		}
	}
	return s
}

func (m Machine) PrevDisabled(s State) bool {
	return s.Tab == 0
}

func (m Machine) NextDisabled(s State) bool {
	return s.Tab == len(m.catalog.Sections)-1
}

// Apply returns the state after e. The input state is left untouched; on error
// it is returned as is.
func (m Machine) Apply(s State, e Event) (State, Effect, error) {
	switch e := e.(type) {
	case OpenTab:
		if e.Index < 0 || e.Index >= len(m.catalog.Sections) {
			return s, Effect{}, fmt.Errorf("%w: tab %d", ErrUnknownTarget, e.Index)
		}
		next := s.clone()
		next.Tab = e.Index
		return next, Effect{}, nil
	case Step:
		index := s.Tab + e.Dir
		if index < 0 || index >= len(m.catalog.Sections) {
			return s, Effect{}, nil
		}
		next := s.clone()
		next.Tab = index
		return next, Effect{}, nil
	case Key:
		switch e.Name {
		case "ArrowLeft":
			return m.Apply(s, Step{Dir: -1})
		case "ArrowRight":
			return m.Apply(s, Step{Dir: 1})
		}
		return s, Effect{}, nil
	case OpenCourse:
		if err := m.checkCourse(e.Section, e.Course); err != nil {
			return s, Effect{}, err
		}
		next := s.clone()
		next.Courses[e.Section] = e.Course
		return next, Effect{}, nil
	case OpenProject:
		key := vo.ProjectKey{Section: e.Section, Course: e.Course, Project: e.Project}
		if err := m.checkProject(key); err != nil {
			return s, Effect{}, err
		}
		next := s.clone()
		next.Projects[key.CourseKey()] = e.Project
		if next.Loaded[key] {
			return next, Effect{}, nil
		}
		return next, Effect{Load: &key}, nil
	case Loaded:
		if err := m.checkProject(e.Key); err != nil {
			return s, Effect{}, err
		}
		next := s.clone()
		next.Loaded[e.Key] = true
		return next, Effect{}, nil
	}
	return s, Effect{}, fmt.Errorf("%w: event %T", ErrUnknownTarget, e)
}

func (m Machine) checkCourse(section vo.SectionID, course vo.CourseID) error {
	if m.catalog.SectionIndex(section) < 0 {
		return fmt.Errorf("%w: section %q", ErrUnknownTarget, section)
	}
	if _, ok := m.catalog.Course(course); !ok {
		return fmt.Errorf("%w: course %q", ErrUnknownTarget, course)
	}
	return nil
}

func (m Machine) checkProject(key vo.ProjectKey) error {
	if err := m.checkCourse(key.Section, key.Course); err != nil {
		return err
	}
	course, _ := m.catalog.Course(key.Course)
	if key.Project < 1 || key.Project > course.Projects {
		return fmt.Errorf("%w: project %s", ErrUnknownTarget, key)
	}
	return nil
}

// ActiveProject is the project key currently shown for section/course.
func (s State) ActiveProject(section vo.SectionID, course vo.CourseID) vo.ProjectKey {
	return vo.ProjectKey{
		Section: section,
		Course:  course,
		Project: s.Projects[vo.CourseKey{Section: section, Course: course}],
	}
}
