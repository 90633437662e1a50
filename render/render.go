package render

import (
	"html/template"
	"strings"

	"github.com/foomo/reportviewer/service/vo"
)

const (
	NotAvailable vo.Markup = "<p>Contenido no disponible</p>"
	LoadFailed   vo.Markup = "<p>Error al cargar el contenido del proyecto.</p>"
)

const defaultImageAlt = "Imagen del proyecto"

var templates = template.Must(
	template.New("render").
		Funcs(template.FuncMap{
			"even": func(i int) bool { return i%2 == 0 },
		}).
		Parse(tmplBlocks + tmplSections),
)

// block is the heading + description + list shape shared by most result and
// conclusion subsections.
type block struct {
	Heading    string
	Intro      string
	Paragraphs []string
	Items      []string
}

func execute(name string, data interface{}) vo.Markup {
	var b strings.Builder
	if err := templates.ExecuteTemplate(&b, name, data); err != nil {
		return NotAvailable
	}
	return vo.Markup(b.String())
}

func Introduccion(s *vo.Introduccion) vo.Markup {
	alt := s.ImagenAlt
	if alt == "" {
		alt = defaultImageAlt
	}
	return execute("introduccion", struct {
		Imagen          string
		Alt             string
		Caption         string
		Parrafos        []string
		Caracteristicas []string
		Lista           []string
	}{
		Imagen:          s.Imagen,
		Alt:             alt,
		Caption:         s.ImagenDescripcion,
		Parrafos:        s.Parrafos,
		Caracteristicas: s.Caracteristicas,
		Lista:           s.Lista,
	})
}

func Objetivo(s *vo.Objetivo) vo.Markup {
	return execute("objetivo", s)
}

func Desarrollo(s *vo.Desarrollo) vo.Markup {
	return execute("desarrollo", s)
}

func Resultados(s *vo.Resultados) vo.Markup {
	var blocks []block
	if b := s.EspecificacionesFinales; b != nil {
		blocks = append(blocks, block{Heading: "Especificaciones Finales", Intro: b.Descripcion, Items: b.Specs})
	}
	if b := s.PruebasFuncionalidad; b != nil {
		blocks = append(blocks, block{Heading: "Pruebas de Funcionalidad", Intro: b.Descripcion, Items: b.Metricas})
	}
	if b := s.AnalisisCostoBeneficio; b != nil {
		blocks = append(blocks, block{Heading: "Análisis Costo-Beneficio", Paragraphs: b.Parrafos})
	}
	if b := s.ImpactoEducativo; b != nil {
		blocks = append(blocks, block{Heading: "Impacto Educativo", Intro: b.Descripcion, Items: b.CompetenciasDesarrolladas})
	}
	if b := s.DemostracionPublica; b != nil && len(b.Parrafos) > 0 {
		blocks = append(blocks, block{Heading: "Demostración Pública", Paragraphs: b.Parrafos})
	}
	if b := s.LeccionesClave; b != nil {
		blocks = append(blocks, block{Heading: "Lecciones Clave", Intro: b.Descripcion, Items: b.Lecciones})
	}
	if b := s.MetricasFinales; b != nil {
		blocks = append(blocks, block{Heading: "Métricas Finales", Intro: b.Descripcion, Items: b.Metricas})
	}
	return execute("resultados", struct {
		Introduccion string
		Blocks       []block
	}{s.Introduccion, blocks})
}

func Conclusion(s *vo.Conclusion) vo.Markup {
	var blocks []block
	paragraphs := func(heading string, p *vo.Paragraphs) {
		if p != nil && len(p.Parrafos) > 0 {
			blocks = append(blocks, block{Heading: heading, Paragraphs: p.Parrafos})
		}
	}
	if len(s.LogrosPrincipales) > 0 {
		blocks = append(blocks, block{Heading: "Logros Principales", Items: s.LogrosPrincipales})
	}
	if b := s.SignificadoProyecto; b != nil {
		blocks = append(blocks, block{Heading: "Significado del Proyecto", Intro: b.Introduccion, Items: b.Dimensiones})
	}
	paragraphs("Conexión con el Mundo Real", s.ConexionMundoReal)
	if b := s.DesafiosSuperados; b != nil {
		blocks = append(blocks, block{Heading: "Desafíos Superados", Intro: b.Descripcion, Items: b.Desafios})
	}
	paragraphs("Limitaciones Reconocidas", s.LimitacionesReconocidas)
	if b := s.RoadmapFuturo; b != nil {
		blocks = append(blocks, block{Heading: "Roadmap Futuro - Versión 2.0", Intro: b.Introduccion, Items: b.Mejoras})
	}
	paragraphs("Valor Educativo", s.ValorEducativo)
	if b := s.ImpactoPersonal; b != nil {
		blocks = append(blocks, block{Heading: "Impacto Personal", Intro: b.Descripcion, Items: b.Aspectos})
	}
	if b := s.MensajeEstudiantes; b != nil {
		blocks = append(blocks, block{Heading: "Mensaje a Futuros Estudiantes", Intro: b.Introduccion, Items: b.Consejos})
	}
	paragraphs("Reflexión Filosófica", s.ReflexionFilosofica)
	if len(s.Agradecimientos) > 0 {
		blocks = append(blocks, block{Heading: "Agradecimientos", Items: s.Agradecimientos})
	}
	var cierre []string
	if s.Cierre != nil {
		cierre = s.Cierre.Parrafos
	}
	return execute("conclusion", struct {
		Parrafos []string
		Blocks   []block
		Cierre   []string
	}{s.Parrafos, blocks, cierre})
}

func Legacy(s *vo.Legacy) vo.Markup {
	return execute("legacy", s)
}

// Dispatch renders one section of record. A missing section yields NotAvailable;
// legacy payloads and unknown section ids go through the legacy renderer.
func Dispatch(record *vo.ContentRecord, id vo.SectionID) vo.Markup {
	section, ok := record.Section(id)
	if !ok {
		return NotAvailable
	}
	switch s := section.(type) {
	case *vo.Introduccion:
		if id == vo.SectionIntroduccion {
			return Introduccion(s)
		}
	case *vo.Objetivo:
		if id == vo.SectionObjetivo {
			return Objetivo(s)
		}
	case *vo.Desarrollo:
		if id == vo.SectionDesarrollo {
			return Desarrollo(s)
		}
	case *vo.Resultados:
		if id == vo.SectionResultados {
			return Resultados(s)
		}
	case *vo.Conclusion:
		if id == vo.SectionConclusion {
			return Conclusion(s)
		}
	case *vo.Legacy:
		return Legacy(s)
	}
	return Legacy(&vo.Legacy{})
}

// Project is what a project container shows: the record name followed by the
// requested section.
func Project(record *vo.ContentRecord, id vo.SectionID) vo.Markup {
	if record == nil {
		return LoadFailed
	}
	return execute("project", struct {
		Nombre string
		Body   template.HTML
	}{record.Nombre, template.HTML(Dispatch(record, id))})
}
