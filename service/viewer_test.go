package service

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/foomo/reportviewer/nav"
	"github.com/foomo/reportviewer/page"
	"github.com/foomo/reportviewer/record"
	"github.com/foomo/reportviewer/render"
	"github.com/foomo/reportviewer/service/vo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLoader struct {
	mu      sync.Mutex
	calls   map[vo.RecordKey]int
	records map[vo.RecordKey]*vo.ContentRecord
	err     error
	block   chan struct{}
}

func newFakeLoader() *fakeLoader {
	return &fakeLoader{
		calls:   map[vo.RecordKey]int{},
		records: map[vo.RecordKey]*vo.ContentRecord{},
	}
}

func (f *fakeLoader) Load(ctx context.Context, course vo.CourseID, project int) (*vo.ContentRecord, error) {
	key := vo.RecordKey{Course: course, Project: project}
	f.mu.Lock()
	f.calls[key]++
	block := f.block
	f.mu.Unlock()
	if block != nil {
		<-block
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	if r, ok := f.records[key]; ok {
		return r, nil
	}
	return nil, record.ErrStatus
}

func (f *fakeLoader) count(course vo.CourseID, project int) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[vo.RecordKey{Course: course, Project: project}]
}

func sampleRecord(name string) *vo.ContentRecord {
	return &vo.ContentRecord{
		Nombre: name,
		Sections: map[vo.SectionID]vo.Section{
			vo.SectionIntroduccion: &vo.Introduccion{Parrafos: []string{"A"}},
			vo.SectionResultados:   &vo.Resultados{Introduccion: "R"},
		},
	}
}

func newTestViewer(t *testing.T, loader RecordLoader, opts ...ViewerOption) *Viewer {
	t.Helper()
	v, err := NewViewer(nil, nav.DefaultCatalog(), loader, strings.NewReader(page.Skeleton), opts...)
	require.NoError(t, err)
	return v
}

func TestViewerInitLoadsFirstProject(t *testing.T) {
	loader := newFakeLoader()
	loader.records[vo.RecordKey{Course: "3a", Project: 1}] = sampleRecord("Robot")
	v := newTestViewer(t, loader)

	require.NoError(t, v.Init(context.Background()))

	key := vo.ProjectKey{Section: vo.SectionIntroduccion, Course: "3a", Project: 1}
	assert.True(t, v.Loaded(key))
	assert.True(t, v.State().Loaded[key])
	markup, err := v.Container(key.String())
	require.NoError(t, err)
	assert.Equal(t, vo.Markup("<h4>Robot</h4><p>A</p>"), markup)
}

func TestViewerOpenProjectRendersOnce(t *testing.T) {
	loader := newFakeLoader()
	loader.records[vo.RecordKey{Course: "3b", Project: 2}] = sampleRecord("Huerta")
	v := newTestViewer(t, loader)
	ctx := context.Background()

	require.NoError(t, v.OpenTab(3))
	require.NoError(t, v.OpenCourse(vo.SectionResultados, "3b"))
	require.NoError(t, v.OpenProject(ctx, vo.SectionResultados, "3b", 2))
	// project 1 of 3b has no record
	assert.ErrorIs(t, v.OpenProject(ctx, vo.SectionResultados, "3b", 1), record.ErrStatus)
	require.NoError(t, v.OpenProject(ctx, vo.SectionResultados, "3b", 2))

	assert.Equal(t, 1, loader.count("3b", 2))
	key := vo.ProjectKey{Section: vo.SectionResultados, Course: "3b", Project: 2}
	markup, err := v.Container(key.String())
	require.NoError(t, err)
	assert.Equal(t, vo.Markup("<h4>Huerta</h4><p><strong>R</strong></p>"), markup)

	snapshot := v.Snapshot()
	assert.Equal(t, 3, snapshot.Tab)
	assert.Equal(t, vo.SectionResultados, snapshot.Section)
	assert.Equal(t, vo.CourseID("3b"), snapshot.Courses[vo.SectionResultados])
	assert.Equal(t, vo.CourseID("3a"), snapshot.Courses[vo.SectionIntroduccion])
	assert.Equal(t, 2, snapshot.Projects["resultados-3b"])
	assert.Equal(t, 1, snapshot.Projects["objetivo-3b"])
	assert.Equal(t, []string{"resultados-3b-proyecto2"}, snapshot.Loaded)
}

func TestViewerLoadFailureRetries(t *testing.T) {
	loader := newFakeLoader()
	loader.err = record.ErrFetch
	v := newTestViewer(t, loader)
	ctx := context.Background()
	key := vo.ProjectKey{Section: vo.SectionObjetivo, Course: "3c", Project: 2}

	err := v.OpenProject(ctx, key.Section, key.Course, key.Project)
	require.ErrorIs(t, err, record.ErrFetch)

	markup, err := v.Container(key.String())
	require.NoError(t, err)
	assert.Equal(t, render.LoadFailed, markup)
	assert.False(t, v.Loaded(key))

	// other containers are untouched
	other, err := v.Container("objetivo-3c-proyecto1")
	require.NoError(t, err)
	assert.Equal(t, vo.Markup(""), other)

	loader.mu.Lock()
	loader.err = nil
	loader.records[key.RecordKey()] = sampleRecord("Puente")
	loader.mu.Unlock()

	require.NoError(t, v.OpenProject(ctx, key.Section, key.Course, key.Project))
	assert.Equal(t, 2, loader.count("3c", 2))
	assert.True(t, v.Loaded(key))
	markup, err = v.Container(key.String())
	require.NoError(t, err)
	assert.Equal(t, vo.Markup("<h4>Puente</h4><p>Contenido no disponible</p>"), markup)
}

func TestViewerUnknownTargets(t *testing.T) {
	v := newTestViewer(t, newFakeLoader())
	ctx := context.Background()

	assert.ErrorIs(t, v.OpenTab(7), nav.ErrUnknownTarget)
	assert.ErrorIs(t, v.OpenCourse("anexo", "3a"), nav.ErrUnknownTarget)
	assert.ErrorIs(t, v.OpenProject(ctx, vo.SectionObjetivo, "3a", 9), nav.ErrUnknownTarget)
	assert.Equal(t, 0, v.State().Tab)
}

func TestViewerCarouselAndKeys(t *testing.T) {
	v := newTestViewer(t, newFakeLoader())

	v.Step(-1)
	assert.Equal(t, 0, v.State().Tab)
	assert.True(t, v.Snapshot().PrevDisabled)

	v.HandleKey("ArrowRight")
	v.HandleKey("ArrowRight")
	v.HandleKey("Enter")
	assert.Equal(t, 2, v.State().Tab)

	v.Step(1)
	v.Step(1)
	v.Step(1)
	snapshot := v.Snapshot()
	assert.Equal(t, 4, snapshot.Tab)
	assert.True(t, snapshot.NextDisabled)
	assert.False(t, snapshot.PrevDisabled)

	v.HandleKey("ArrowLeft")
	assert.Equal(t, 3, v.State().Tab)
}

func TestViewerSkipsInFlightContainer(t *testing.T) {
	loader := newFakeLoader()
	loader.block = make(chan struct{})
	loader.records[vo.RecordKey{Course: "3d", Project: 2}] = sampleRecord("Drone")
	v := newTestViewer(t, loader)
	ctx := context.Background()

	done := make(chan error, 1)
	go func() {
		done <- v.OpenProject(ctx, vo.SectionConclusion, "3d", 2)
	}()
	require.Eventually(t, func() bool { return loader.count("3d", 2) == 1 }, time.Second, 5*time.Millisecond)

	// second activation while the first load is outstanding
	require.NoError(t, v.OpenProject(ctx, vo.SectionConclusion, "3d", 2))

	close(loader.block)
	require.NoError(t, <-done)
	assert.Equal(t, 1, loader.count("3d", 2))
	assert.True(t, v.Loaded(vo.ProjectKey{Section: vo.SectionConclusion, Course: "3d", Project: 2}))
}

func TestViewerEvents(t *testing.T) {
	loader := newFakeLoader()
	loader.records[vo.RecordKey{Course: "3a", Project: 2}] = sampleRecord("Robot")

	var events []vo.Event
	v := newTestViewer(t, loader, ViewerWithObserver(func(e vo.Event) {
		events = append(events, e)
	}))

	require.NoError(t, v.OpenTab(1))
	require.NoError(t, v.OpenCourse(vo.SectionObjetivo, "3a"))
	require.NoError(t, v.OpenProject(context.Background(), vo.SectionObjetivo, "3a", 2))
	_ = v.OpenProject(context.Background(), vo.SectionObjetivo, "3a", 1)

	var types []vo.EventType
	for _, e := range events {
		types = append(types, e.Type)
	}
	assert.Equal(t, []vo.EventType{
		vo.EventTabOpened,
		vo.EventCourseOpened,
		vo.EventProjectOpened,
		vo.EventProjectLoaded,
		vo.EventProjectOpened,
		vo.EventProjectFailed,
	}, types)
	assert.Equal(t, "objetivo-3a-proyecto2", events[3].Container)
	assert.Equal(t, 1, events[3].Tab)
	assert.NotEmpty(t, events[5].Error)
}

func TestViewerWithHTTPLoader(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if r.URL.Path != "/proyectos/3a-proyecto1.json" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(`{"nombre": "X", "introduccion": {"parrafos": ["A"], "caracteristicas": ["F1", "F2"]}, "objetivo": {"introduccion": "O"}}`))
	}))
	defer server.Close()

	loader := record.NewLoader(nil, server.URL, server.Client())
	v := newTestViewer(t, loader)
	ctx := context.Background()

	require.NoError(t, v.Init(ctx))
	require.NoError(t, v.OpenProject(ctx, vo.SectionObjetivo, "3a", 1))
	require.NoError(t, v.OpenProject(ctx, vo.SectionObjetivo, "3a", 1))

	// one record, two containers, one fetch
	assert.Equal(t, int32(1), hits.Load())

	intro, err := v.Container("introduccion-3a-proyecto1")
	require.NoError(t, err)
	assert.Contains(t, string(intro), "<h4>X</h4>")
	assert.Contains(t, string(intro), "<li>F1</li><li>F2</li>")
	objetivo, err := v.Container("objetivo-3a-proyecto1")
	require.NoError(t, err)
	assert.Equal(t, vo.Markup("<h4>X</h4><p>O</p>"), objetivo)

	err = v.OpenProject(ctx, vo.SectionObjetivo, "3b", 1)
	assert.True(t, errors.Is(err, record.ErrStatus))
}

func TestServiceGetSection(t *testing.T) {
	loader := newFakeLoader()
	loader.records[vo.RecordKey{Course: "3a", Project: 1}] = sampleRecord("Robot")
	s := NewService(nil, nav.DefaultCatalog(), loader)

	section, err := s.GetSection(context.Background(), "3a", 1, vo.SectionIntroduccion)
	require.NoError(t, err)
	assert.Equal(t, "Robot", section.Nombre)
	assert.Equal(t, vo.Markup("<h4>Robot</h4><p>A</p>"), section.Markup)
	assert.Contains(t, string(section.Markdown), "Robot")

	_, err = s.GetSection(context.Background(), "3a", 2, vo.SectionIntroduccion)
	assert.ErrorIs(t, err, record.ErrStatus)

	assert.Len(t, s.Catalog().Courses, 4)
}
