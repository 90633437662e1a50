package nav

import (
	"errors"
	"fmt"
	"os"

	"github.com/foomo/reportviewer/service/vo"
	"gopkg.in/yaml.v3"
)

type Course struct {
	ID       vo.CourseID `json:"id" yaml:"id"`
	Name     string      `json:"name" yaml:"name"`
	Projects int         `json:"projects" yaml:"projects"`
}

// Catalog is the static layout of the viewer: which sections, courses and
// projects exist and in which order.
type Catalog struct {
	Sections []vo.SectionID `json:"sections" yaml:"sections"`
	Courses  []Course       `json:"courses" yaml:"courses"`
}

func DefaultCatalog() Catalog {
	return Catalog{
		Sections: append([]vo.SectionID(nil), vo.Sections...),
		Courses: []Course{
			{ID: "3a", Name: "3ro A", Projects: 2},
			{ID: "3b", Name: "3ro B", Projects: 2},
			{ID: "3c", Name: "3ro C", Projects: 2},
			{ID: "3d", Name: "3ro D", Projects: 2},
		},
	}
}

// LoadCatalog reads a YAML catalog. Omitted sections default to the five report
// sections.
func LoadCatalog(path string) (Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Catalog{}, fmt.Errorf("failed to read catalog: %w", err)
	}
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return Catalog{}, fmt.Errorf("failed to parse catalog: %w", err)
	}
	if len(c.Sections) == 0 {
		c.Sections = append([]vo.SectionID(nil), vo.Sections...)
	}
	if err := c.Validate(); err != nil {
		return Catalog{}, err
	}
	return c, nil
}

func (c Catalog) Validate() error {
	if len(c.Sections) == 0 {
		return errors.New("catalog has no sections")
	}
	if len(c.Courses) == 0 {
		return errors.New("catalog has no courses")
	}
	sections := map[vo.SectionID]bool{}
	for _, s := range c.Sections {
		if sections[s] {
			return fmt.Errorf("duplicate section %q", s)
		}
		sections[s] = true
	}
	courses := map[vo.CourseID]bool{}
	for _, course := range c.Courses {
		if course.ID == "" {
			return errors.New("course without id")
		}
		if courses[course.ID] {
			return fmt.Errorf("duplicate course %q", course.ID)
		}
		if course.Projects < 1 {
			return fmt.Errorf("course %q has no projects", course.ID)
		}
		courses[course.ID] = true
	}
	return nil
}

func (c Catalog) SectionIndex(id vo.SectionID) int {
	for i, s := range c.Sections {
		if s == id {
			return i
		}
	}
	return -1
}

func (c Catalog) Course(id vo.CourseID) (Course, bool) {
	for _, course := range c.Courses {
		if course.ID == id {
			return course, true
		}
	}
	return Course{}, false
}
