package vo

import (
	"fmt"
	"time"
)

type Markup string

type Markdown string

type SectionID string

const (
	SectionIntroduccion SectionID = "introduccion"
	SectionObjetivo     SectionID = "objetivo"
	SectionDesarrollo   SectionID = "desarrollo"
	SectionResultados   SectionID = "resultados"
	SectionConclusion   SectionID = "conclusion"
)

// Sections lists the report sections in tab order.
var Sections = []SectionID{
	SectionIntroduccion,
	SectionObjetivo,
	SectionDesarrollo,
	SectionResultados,
	SectionConclusion,
}

func (id SectionID) Known() bool {
	for _, s := range Sections {
		if s == id {
			return true
		}
	}
	return false
}

type CourseID string

// RecordKey identifies one fetched record.
type RecordKey struct {
	Course  CourseID `json:"course"`
	Project int      `json:"project"`
}

func (k RecordKey) String() string {
	return fmt.Sprintf("%s-proyecto%d", k.Course, k.Project)
}

// Path is the addressable resource holding the record, relative to the records base.
func (k RecordKey) Path() string {
	return "proyectos/" + k.String() + ".json"
}

// CourseKey names a course container inside one section.
type CourseKey struct {
	Section SectionID `json:"section"`
	Course  CourseID  `json:"course"`
}

func (k CourseKey) String() string {
	return string(k.Section) + "-" + string(k.Course)
}

// ProjectKey names a project container inside one course of one section.
type ProjectKey struct {
	Section SectionID `json:"section"`
	Course  CourseID  `json:"course"`
	Project int       `json:"project"`
}

func (k ProjectKey) String() string {
	return fmt.Sprintf("%s-%s-proyecto%d", k.Section, k.Course, k.Project)
}

func (k ProjectKey) CourseKey() CourseKey {
	return CourseKey{Section: k.Section, Course: k.Course}
}

func (k ProjectKey) RecordKey() RecordKey {
	return RecordKey{Course: k.Course, Project: k.Project}
}

// ContentRecord is the full content of one course/project pair.
type ContentRecord struct {
	Nombre   string                `json:"nombre"`
	Sections map[SectionID]Section `json:"-"`
}

func (r *ContentRecord) Section(id SectionID) (Section, bool) {
	if r == nil || r.Sections == nil {
		return nil, false
	}
	s, ok := r.Sections[id]
	return s, ok && s != nil
}

// RenderedSection is one section of one record in both output formats.
type RenderedSection struct {
	Key      RecordKey `json:"key"`
	Section  SectionID `json:"section"`
	Nombre   string    `json:"nombre"`
	Markup   Markup    `json:"markup"`
	Markdown Markdown  `json:"markdown,omitempty"`
}

type EventType string

const (
	EventTabOpened     EventType = "tab_opened"
	EventCourseOpened  EventType = "course_opened"
	EventProjectOpened EventType = "project_opened"
	EventProjectLoaded EventType = "project_loaded"
	EventProjectFailed EventType = "project_failed"
)

// Event is published by the viewer after each transition.
type Event struct {
	Type      EventType `json:"type"`
	Tab       int       `json:"tab"`
	Container string    `json:"container,omitempty"`
	Error     string    `json:"error,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// NavigationSnapshot is the externally visible navigation state.
type NavigationSnapshot struct {
	Tab          int                    `json:"tab"`
	Section      SectionID              `json:"section"`
	PrevDisabled bool                   `json:"prevDisabled"`
	NextDisabled bool                   `json:"nextDisabled"`
	Courses      map[SectionID]CourseID `json:"courses"`
	Projects     map[string]int         `json:"projects"`
	Loaded       []string               `json:"loaded"`
}
