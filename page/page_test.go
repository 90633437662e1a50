package page

import (
	"strings"
	"testing"

	"github.com/foomo/reportviewer/dom"
	"github.com/foomo/reportviewer/nav"
	"github.com/foomo/reportviewer/service/vo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPage(t *testing.T) (*Page, nav.Machine) {
	t.Helper()
	catalog := nav.DefaultCatalog()
	p, err := New(nil, strings.NewReader(Skeleton), catalog)
	require.NoError(t, err)
	m := nav.NewMachine(catalog)
	p.Sync(m, m.Initial())
	return p, m
}

func TestNewBuildsContainers(t *testing.T) {
	p, _ := newPage(t)

	for _, section := range vo.Sections {
		require.True(t, p.HasSection(section))
		for _, course := range []vo.CourseID{"3a", "3b", "3c", "3d"} {
			_, err := dom.FindByID(p.doc, vo.CourseKey{Section: section, Course: course}.String())
			require.NoError(t, err)
			for n := 1; n <= 2; n++ {
				key := vo.ProjectKey{Section: section, Course: course, Project: n}
				node, err := dom.FindByID(p.doc, key.String())
				require.NoError(t, err)
				curso, _ := dom.Attr(node, "data-curso")
				proyecto, _ := dom.Attr(node, "data-proyecto")
				seccion, _ := dom.Attr(node, "data-seccion")
				assert.Equal(t, string(course), curso)
				assert.Equal(t, string(rune('0'+n)), proyecto)
				assert.Equal(t, string(section), seccion)
				assert.False(t, p.Loaded(key))
			}
		}
	}

	var b strings.Builder
	require.NoError(t, p.Render(&b))
	assert.Contains(t, b.String(), "<h2>Introduccion</h2>")
	assert.Contains(t, b.String(), "<h3>Curso 3ro B</h3>")
	assert.Contains(t, b.String(), `formaction="/projects/resultados/3b/2"`)
}

func TestNewSkipsMissingSections(t *testing.T) {
	skeleton := `<html><body><div id="objetivo" class="tab-content"></div></body></html>`
	p, err := New(nil, strings.NewReader(skeleton), nav.DefaultCatalog())
	require.NoError(t, err)

	assert.True(t, p.HasSection(vo.SectionObjetivo))
	assert.False(t, p.HasSection(vo.SectionIntroduccion))

	key := vo.ProjectKey{Section: vo.SectionIntroduccion, Course: "3a", Project: 1}
	assert.Error(t, p.Inject(key, "<p>x</p>", true))
	assert.False(t, p.Loaded(key))

	m := nav.NewMachine(nav.DefaultCatalog())
	p.Sync(m, m.Initial())
}

func TestSync(t *testing.T) {
	p, m := newPage(t)

	prev, err := dom.FindByID(p.doc, "prevBtn")
	require.NoError(t, err)
	next, err := dom.FindByID(p.doc, "nextBtn")
	require.NoError(t, err)
	_, disabled := dom.Attr(prev, "disabled")
	assert.True(t, disabled)
	_, disabled = dom.Attr(next, "disabled")
	assert.False(t, disabled)

	s, _, err := m.Apply(m.Initial(), nav.OpenTab{Index: 3})
	require.NoError(t, err)
	s, _, err = m.Apply(s, nav.OpenCourse{Section: vo.SectionResultados, Course: "3b"})
	require.NoError(t, err)
	s, _, err = m.Apply(s, nav.OpenProject{Section: vo.SectionResultados, Course: "3b", Project: 2})
	require.NoError(t, err)
	p.Sync(m, s)

	_, disabled = dom.Attr(prev, "disabled")
	assert.False(t, disabled)

	resultados, err := dom.FindByID(p.doc, "resultados")
	require.NoError(t, err)
	assert.True(t, dom.HasClass(resultados, "active"))
	introduccion, err := dom.FindByID(p.doc, "introduccion")
	require.NoError(t, err)
	assert.False(t, dom.HasClass(introduccion, "active"))

	buttons := dom.FindAllByClass(p.doc, "tab-button")
	require.Len(t, buttons, 5)
	for i, button := range buttons {
		assert.Equal(t, i == 3, dom.HasClass(button, "active"))
	}

	active := func(id string) bool {
		node, err := dom.FindByID(p.doc, id)
		require.NoError(t, err)
		style, _ := dom.Attr(node, "style")
		return dom.HasClass(node, "active") && style == "display: block;"
	}
	assert.True(t, active("resultados-3b"))
	assert.False(t, active("resultados-3a"))
	assert.True(t, active("resultados-3b-proyecto2"))
	assert.False(t, active("resultados-3b-proyecto1"))
	// other sections keep their own course and project
	assert.True(t, active("introduccion-3a"))
	assert.True(t, active("introduccion-3b-proyecto1"))

	courseButtons := dom.FindAllByClass(resultados, "course-tab-button")
	require.Len(t, courseButtons, 4)
	assert.True(t, dom.HasClass(courseButtons[1], "active"))
	assert.False(t, dom.HasClass(courseButtons[0], "active"))
}

func TestInject(t *testing.T) {
	p, _ := newPage(t)
	key := vo.ProjectKey{Section: vo.SectionDesarrollo, Course: "3c", Project: 1}

	require.NoError(t, p.Inject(key, "<h4>X</h4><p>A</p>", true))
	assert.True(t, p.Loaded(key))

	markup, err := p.Container(key.String())
	require.NoError(t, err)
	assert.Equal(t, vo.Markup("<h4>X</h4><p>A</p>"), markup)

	require.NoError(t, p.Inject(key, "<p>Error</p>", false))
	assert.False(t, p.Loaded(key))
	markup, err = p.Container(key.String())
	require.NoError(t, err)
	assert.Equal(t, vo.Markup("<p>Error</p>"), markup)

	_, err = p.Container("nope")
	assert.Error(t, err)
}
