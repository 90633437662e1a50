// Package page keeps the viewer's presentation tree. Containers are addressed by
// their composite ids and carry data-curso, data-proyecto, data-seccion and
// data-loaded attributes.
package page

import (
	_ "embed"
	"fmt"
	"html/template"
	"io"
	"strconv"
	"strings"

	"github.com/foomo/reportviewer/dom"
	"github.com/foomo/reportviewer/nav"
	"github.com/foomo/reportviewer/service/vo"
	"go.uber.org/zap"
	"golang.org/x/net/html"
)

//go:embed skeleton.html
var Skeleton string

var templates = template.Must(template.New("page").Parse(tmplSection))

type courseView struct {
	ID      vo.CourseID
	Name    string
	Numbers []int
}

// Page is not safe for concurrent use; the viewer serialises access.
type Page struct {
	l       *zap.Logger
	doc     *html.Node
	catalog nav.Catalog
	// sections that had a container in the skeleton
	sections map[vo.SectionID]*html.Node
}

// New parses skeleton and builds the course and project structure inside every
// section container it finds. Sections without a container are skipped.
func New(l *zap.Logger, skeleton io.Reader, catalog nav.Catalog) (*Page, error) {
	if l == nil {
		l = zap.NewNop()
	}
	doc, err := html.Parse(skeleton)
	if err != nil {
		return nil, fmt.Errorf("failed to parse skeleton: %w", err)
	}
	p := &Page{
		l:        l,
		doc:      doc,
		catalog:  catalog,
		sections: map[vo.SectionID]*html.Node{},
	}
	for _, section := range catalog.Sections {
		node, err := dom.FindByID(doc, string(section))
		if err != nil {
			l.Debug("skipping section without container", zap.String("section", string(section)))
			continue
		}
		if err := p.buildSection(node, section); err != nil {
			return nil, err
		}
		p.sections[section] = node
	}
	return p, nil
}

func (p *Page) buildSection(node *html.Node, section vo.SectionID) error {
	courses := make([]courseView, len(p.catalog.Courses))
	for i, c := range p.catalog.Courses {
		numbers := make([]int, c.Projects)
		for n := range numbers {
			numbers[n] = n + 1
		}
		courses[i] = courseView{ID: c.ID, Name: c.Name, Numbers: numbers}
	}
	var b strings.Builder
	err := templates.ExecuteTemplate(&b, "section", struct {
		Section vo.SectionID
		Title   string
		Courses []courseView
	}{section, title(section), courses})
	if err != nil {
		return fmt.Errorf("failed to build section %q: %w", section, err)
	}
	return dom.ReplaceChildren(node, b.String())
}

func title(section vo.SectionID) string {
	s := string(section)
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// HasSection reports whether the skeleton had a container for section.
func (p *Page) HasSection(section vo.SectionID) bool {
	_, ok := p.sections[section]
	return ok
}

// Sync makes the active markers of the tree match s.
func (p *Page) Sync(m nav.Machine, s nav.State) {
	for i, section := range p.catalog.Sections {
		if node, ok := p.sections[section]; ok {
			dom.SetClass(node, "active", i == s.Tab)
		}
	}
	for i, button := range dom.FindAllByClass(p.doc, "tab-button") {
		dom.SetClass(button, "active", i == s.Tab)
	}
	p.setDisabled("prevBtn", m.PrevDisabled(s))
	p.setDisabled("nextBtn", m.NextDisabled(s))

	for section, node := range p.sections {
		active := s.Courses[section]
		for i, button := range dom.FindAllByClass(node, "course-tab-button") {
			dom.SetClass(button, "active", i < len(p.catalog.Courses) && p.catalog.Courses[i].ID == active)
		}
		for _, course := range p.catalog.Courses {
			key := vo.CourseKey{Section: section, Course: course.ID}
			container, err := dom.FindByID(node, key.String())
			if err != nil {
				continue
			}
			dom.SetDisplay(container, course.ID == active)
			project := s.Projects[key]
			for i, button := range dom.FindAllByClass(container, "project-tab-button") {
				dom.SetClass(button, "active", i+1 == project)
			}
			for n := 1; n <= course.Projects; n++ {
				pk := vo.ProjectKey{Section: section, Course: course.ID, Project: n}
				if pc, err := dom.FindByID(container, pk.String()); err == nil {
					dom.SetDisplay(pc, n == project)
				}
			}
		}
	}
}

func (p *Page) setDisabled(id string, disabled bool) {
	node, err := dom.FindByID(p.doc, id)
	if err != nil {
		return
	}
	if disabled {
		dom.SetAttr(node, "disabled", "")
	} else {
		dom.RemoveAttr(node, "disabled")
	}
}

func (p *Page) project(key vo.ProjectKey) (*html.Node, error) {
	section, ok := p.sections[key.Section]
	if !ok {
		return nil, fmt.Errorf("no container for section %q", key.Section)
	}
	return dom.FindByID(section, key.String())
}

// Inject replaces the content of a project container and records whether it now
// holds rendered content.
func (p *Page) Inject(key vo.ProjectKey, markup vo.Markup, loaded bool) error {
	node, err := p.project(key)
	if err != nil {
		return err
	}
	if err := dom.ReplaceChildren(node, string(markup)); err != nil {
		return err
	}
	dom.SetAttr(node, "data-loaded", strconv.FormatBool(loaded))
	return nil
}

// Loaded reads the data-loaded attribute of a project container.
func (p *Page) Loaded(key vo.ProjectKey) bool {
	node, err := p.project(key)
	if err != nil {
		return false
	}
	v, _ := dom.Attr(node, "data-loaded")
	return v == "true"
}

// Container returns the inner markup of the container with id.
func (p *Page) Container(id string) (vo.Markup, error) {
	node, err := dom.FindByID(p.doc, id)
	if err != nil {
		return "", err
	}
	inner, err := dom.InnerHTML(node)
	if err != nil {
		return "", err
	}
	return vo.Markup(inner), nil
}

func (p *Page) Render(w io.Writer) error {
	return html.Render(w, p.doc)
}
