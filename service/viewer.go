package service

import (
	"context"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/foomo/reportviewer/nav"
	"github.com/foomo/reportviewer/page"
	"github.com/foomo/reportviewer/render"
	"github.com/foomo/reportviewer/service/vo"
	"go.uber.org/zap"
)

// Observer receives viewer events. It is called with the viewer lock held and
// must not call back into the viewer.
type Observer func(vo.Event)

// Viewer is the single-session tab controller. Transitions are computed by the
// nav machine; the viewer applies their effects to the page.
type Viewer struct {
	l        *zap.Logger
	loader   RecordLoader
	machine  nav.Machine
	observer Observer

	mu       sync.Mutex
	state    nav.State
	page     *page.Page
	inflight map[vo.ProjectKey]struct{}
}

type ViewerOption func(*Viewer)

func ViewerWithObserver(observer Observer) ViewerOption {
	return func(v *Viewer) {
		v.observer = observer
	}
}

func NewViewer(l *zap.Logger, catalog nav.Catalog, loader RecordLoader, skeleton io.Reader, opts ...ViewerOption) (*Viewer, error) {
	if l == nil {
		l = zap.NewNop()
	}
	p, err := page.New(l, skeleton, catalog)
	if err != nil {
		return nil, err
	}
	machine := nav.NewMachine(catalog)
	v := &Viewer{
		l:        l,
		loader:   loader,
		machine:  machine,
		state:    machine.Initial(),
		page:     p,
		inflight: map[vo.ProjectKey]struct{}{},
	}
	for _, opt := range opts {
		opt(v)
	}
	p.Sync(machine, v.state)
	return v, nil
}

// Init loads the project shown on first paint: first project of the first course
// in the first section.
func (v *Viewer) Init(ctx context.Context) error {
	catalog := v.machine.Catalog()
	if len(catalog.Sections) == 0 || len(catalog.Courses) == 0 {
		return nil
	}
	key := vo.ProjectKey{Section: catalog.Sections[0], Course: catalog.Courses[0].ID, Project: 1}
	if !v.page.HasSection(key.Section) {
		return nil
	}
	return v.load(ctx, key)
}

func (v *Viewer) OpenTab(index int) error {
	if _, err := v.apply(nav.OpenTab{Index: index}); err != nil {
		return err
	}
	v.notify(vo.EventTabOpened, "", "")
	return nil
}

// Step moves the carousel by dir, clamped to the first and last tab.
func (v *Viewer) Step(dir int) {
	if _, err := v.apply(nav.Step{Dir: dir}); err == nil {
		v.notify(vo.EventTabOpened, "", "")
	}
}

func (v *Viewer) HandleKey(name string) {
	if _, err := v.apply(nav.Key{Name: name}); err == nil {
		v.notify(vo.EventTabOpened, "", "")
	}
}

func (v *Viewer) OpenCourse(section vo.SectionID, course vo.CourseID) error {
	if _, err := v.apply(nav.OpenCourse{Section: section, Course: course}); err != nil {
		return err
	}
	v.notify(vo.EventCourseOpened, vo.CourseKey{Section: section, Course: course}.String(), "")
	return nil
}

// OpenProject activates a project tab and, the first time, loads and renders its
// content before returning. A failed load leaves the container unloaded so the
// next activation retries.
func (v *Viewer) OpenProject(ctx context.Context, section vo.SectionID, course vo.CourseID, project int) error {
	effect, err := v.apply(nav.OpenProject{Section: section, Course: course, Project: project})
	if err != nil {
		return err
	}
	key := vo.ProjectKey{Section: section, Course: course, Project: project}
	v.notify(vo.EventProjectOpened, key.String(), "")
	if effect.Load == nil {
		return nil
	}
	return v.load(ctx, *effect.Load)
}

func (v *Viewer) apply(e nav.Event) (nav.Effect, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	next, effect, err := v.machine.Apply(v.state, e)
	if err != nil {
		v.l.Debug("ignoring navigation event", zap.Any("event", e), zap.Error(err))
		return effect, err
	}
	v.state = next
	v.page.Sync(v.machine, v.state)
	return effect, nil
}

// load runs without the lock while the record is fetched. A container already
// being loaded is skipped.
func (v *Viewer) load(ctx context.Context, key vo.ProjectKey) error {
	v.mu.Lock()
	if _, busy := v.inflight[key]; busy || v.state.Loaded[key] {
		v.mu.Unlock()
		return nil
	}
	v.inflight[key] = struct{}{}
	v.mu.Unlock()

	record, err := v.loader.Load(ctx, key.Course, key.Project)

	v.mu.Lock()
	defer v.mu.Unlock()
	delete(v.inflight, key)

	if err != nil {
		if injectErr := v.page.Inject(key, render.LoadFailed, false); injectErr != nil {
			v.l.Error("failed to show load error", zap.String("container", key.String()), zap.Error(injectErr))
		}
		v.notifyLocked(vo.EventProjectFailed, key.String(), err.Error())
		return err
	}

	if err := v.page.Inject(key, render.Project(record, key.Section), true); err != nil {
		v.l.Error("failed to inject project", zap.String("container", key.String()), zap.Error(err))
		return err
	}
	next, _, err := v.machine.Apply(v.state, nav.Loaded{Key: key})
	if err != nil {
		return err
	}
	v.state = next
	v.notifyLocked(vo.EventProjectLoaded, key.String(), "")
	return nil
}

func (v *Viewer) notify(t vo.EventType, container, errMsg string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.notifyLocked(t, container, errMsg)
}

func (v *Viewer) notifyLocked(t vo.EventType, container, errMsg string) {
	if v.observer == nil {
		return
	}
	v.observer(vo.Event{
		Type:      t,
		Tab:       v.state.Tab,
		Container: container,
		Error:     errMsg,
		Timestamp: time.Now(),
	})
}

func (v *Viewer) State() nav.State {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.state
}

func (v *Viewer) Catalog() nav.Catalog {
	return v.machine.Catalog()
}

func (v *Viewer) Snapshot() vo.NavigationSnapshot {
	v.mu.Lock()
	defer v.mu.Unlock()
	catalog := v.machine.Catalog()
	snapshot := vo.NavigationSnapshot{
		Tab:          v.state.Tab,
		PrevDisabled: v.machine.PrevDisabled(v.state),
		NextDisabled: v.machine.NextDisabled(v.state),
		Courses:      map[vo.SectionID]vo.CourseID{},
		Projects:     map[string]int{},
		Loaded:       []string{},
	}
	if v.state.Tab < len(catalog.Sections) {
		snapshot.Section = catalog.Sections[v.state.Tab]
	}
	for section, course := range v.state.Courses {
		snapshot.Courses[section] = course
	}
	for key, project := range v.state.Projects {
		snapshot.Projects[key.String()] = project
	}
	for key, loaded := range v.state.Loaded {
		if loaded {
			snapshot.Loaded = append(snapshot.Loaded, key.String())
		}
	}
	sort.Strings(snapshot.Loaded)
	return snapshot
}

func (v *Viewer) Render(w io.Writer) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.page.Render(w)
}

func (v *Viewer) Container(id string) (vo.Markup, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.page.Container(id)
}

// Loaded reports the data-loaded flag of a project container.
func (v *Viewer) Loaded(key vo.ProjectKey) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.page.Loaded(key)
}
