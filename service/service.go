package service

import (
	"context"
	"fmt"

	"github.com/foomo/reportviewer/nav"
	"github.com/foomo/reportviewer/render"
	"github.com/foomo/reportviewer/service/vo"
	"go.uber.org/zap"
)

type Service interface {
	GetSection(ctx context.Context, course vo.CourseID, project int, section vo.SectionID) (*vo.RenderedSection, error)
	Catalog() nav.Catalog
}

// RecordLoader is satisfied by *record.Loader.
type RecordLoader interface {
	Load(ctx context.Context, course vo.CourseID, project int) (*vo.ContentRecord, error)
}

type service struct {
	l       *zap.Logger
	catalog nav.Catalog
	loader  RecordLoader
}

func NewService(l *zap.Logger, catalog nav.Catalog, loader RecordLoader) Service {
	if l == nil {
		l = zap.NewNop()
	}
	return &service{
		l:       l,
		catalog: catalog,
		loader:  loader,
	}
}

func (s *service) Catalog() nav.Catalog {
	return s.catalog
}

func (s *service) GetSection(ctx context.Context, course vo.CourseID, project int, section vo.SectionID) (*vo.RenderedSection, error) {
	record, err := s.loader.Load(ctx, course, project)
	if err != nil {
		return nil, err
	}

	markup := render.Project(record, section)
	markdown, err := render.Markdown(markup)
	if err != nil {
		return nil, fmt.Errorf("failed to convert section: %w", err)
	}

	return &vo.RenderedSection{
		Key:      vo.RecordKey{Course: course, Project: project},
		Section:  section,
		Nombre:   record.Nombre,
		Markup:   markup,
		Markdown: markdown,
	}, nil
}
