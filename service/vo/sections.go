package vo

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// Section is the content of one report section. The concrete type tells which
// renderer applies.
type Section interface {
	Kind() SectionID
}

// Item is a titled description, used for objectives and development phases.
type Item struct {
	Titulo      string `json:"titulo,omitempty"`
	Descripcion string `json:"descripcion,omitempty"`
}

// Paragraphs is a block made of paragraphs only.
type Paragraphs struct {
	Parrafos []string `json:"parrafos,omitempty"`
}

type Introduccion struct {
	Imagen            string   `json:"imagen,omitempty"`
	ImagenAlt         string   `json:"imagen_alt,omitempty"`
	ImagenDescripcion string   `json:"imagen_descripcion,omitempty"`
	Parrafos          []string `json:"parrafos,omitempty"`
	Caracteristicas   []string `json:"caracteristicas,omitempty"`
	Lista             []string `json:"lista,omitempty"`
}

func (*Introduccion) Kind() SectionID { return SectionIntroduccion }

// lista is shared with the legacy shape and does not count here
func (s *Introduccion) matched() bool {
	return s.Imagen != "" || len(s.Parrafos) > 0 || len(s.Caracteristicas) > 0
}

type MetasAprendizaje struct {
	Introduccion string   `json:"introduccion,omitempty"`
	Competencias []string `json:"competencias,omitempty"`
}

type Objetivo struct {
	Introduccion     string            `json:"introduccion,omitempty"`
	Objetivos        []Item            `json:"objetivos,omitempty"`
	MetasAprendizaje *MetasAprendizaje `json:"metas_aprendizaje,omitempty"`
}

func (*Objetivo) Kind() SectionID { return SectionObjetivo }

func (s *Objetivo) matched() bool {
	return s.Introduccion != "" || len(s.Objetivos) > 0 || s.MetasAprendizaje != nil
}

type Desarrollo struct {
	Introduccion  string `json:"introduccion,omitempty"`
	Fases         []Item `json:"fases,omitempty"`
	Documentacion string `json:"documentacion,omitempty"`
}

func (*Desarrollo) Kind() SectionID { return SectionDesarrollo }

func (s *Desarrollo) matched() bool {
	return s.Introduccion != "" || len(s.Fases) > 0 || s.Documentacion != ""
}

type EspecificacionesFinales struct {
	Descripcion string   `json:"descripcion,omitempty"`
	Specs       []string `json:"specs,omitempty"`
}

type PruebasFuncionalidad struct {
	Descripcion string   `json:"descripcion,omitempty"`
	Metricas    []string `json:"metricas,omitempty"`
}

type ImpactoEducativo struct {
	Descripcion               string   `json:"descripcion,omitempty"`
	CompetenciasDesarrolladas []string `json:"competencias_desarrolladas,omitempty"`
}

type LeccionesClave struct {
	Descripcion string   `json:"descripcion,omitempty"`
	Lecciones   []string `json:"lecciones,omitempty"`
}

type MetricasFinales struct {
	Descripcion string   `json:"descripcion,omitempty"`
	Metricas    []string `json:"metricas,omitempty"`
}

type Resultados struct {
	Introduccion            string                   `json:"introduccion,omitempty"`
	EspecificacionesFinales *EspecificacionesFinales `json:"especificaciones_finales,omitempty"`
	PruebasFuncionalidad    *PruebasFuncionalidad    `json:"pruebas_funcionalidad,omitempty"`
	AnalisisCostoBeneficio  *Paragraphs              `json:"analisis_costo_beneficio,omitempty"`
	ImpactoEducativo        *ImpactoEducativo        `json:"impacto_educativo,omitempty"`
	DemostracionPublica     *Paragraphs              `json:"demostracion_publica,omitempty"`
	LeccionesClave          *LeccionesClave          `json:"lecciones_clave,omitempty"`
	MetricasFinales         *MetricasFinales         `json:"metricas_finales,omitempty"`
}

func (*Resultados) Kind() SectionID { return SectionResultados }

func (s *Resultados) matched() bool {
	return s.Introduccion != "" ||
		s.EspecificacionesFinales != nil ||
		s.PruebasFuncionalidad != nil ||
		s.AnalisisCostoBeneficio != nil ||
		s.ImpactoEducativo != nil ||
		s.DemostracionPublica != nil ||
		s.LeccionesClave != nil ||
		s.MetricasFinales != nil
}

type SignificadoProyecto struct {
	Introduccion string   `json:"introduccion,omitempty"`
	Dimensiones  []string `json:"dimensiones,omitempty"`
}

type DesafiosSuperados struct {
	Descripcion string   `json:"descripcion,omitempty"`
	Desafios    []string `json:"desafios,omitempty"`
}

type RoadmapFuturo struct {
	Introduccion string   `json:"introduccion,omitempty"`
	Mejoras      []string `json:"mejoras,omitempty"`
}

type ImpactoPersonal struct {
	Descripcion string   `json:"descripcion,omitempty"`
	Aspectos    []string `json:"aspectos,omitempty"`
}

type MensajeEstudiantes struct {
	Introduccion string   `json:"introduccion,omitempty"`
	Consejos     []string `json:"consejos,omitempty"`
}

type Conclusion struct {
	Parrafos                []string             `json:"parrafos,omitempty"`
	LogrosPrincipales       []string             `json:"logros_principales,omitempty"`
	SignificadoProyecto     *SignificadoProyecto `json:"significado_proyecto,omitempty"`
	ConexionMundoReal       *Paragraphs          `json:"conexion_mundo_real,omitempty"`
	DesafiosSuperados       *DesafiosSuperados   `json:"desafios_superados,omitempty"`
	LimitacionesReconocidas *Paragraphs          `json:"limitaciones_reconocidas,omitempty"`
	RoadmapFuturo           *RoadmapFuturo       `json:"roadmap_futuro,omitempty"`
	ValorEducativo          *Paragraphs          `json:"valor_educativo,omitempty"`
	ImpactoPersonal         *ImpactoPersonal     `json:"impacto_personal,omitempty"`
	MensajeEstudiantes      *MensajeEstudiantes  `json:"mensaje_estudiantes,omitempty"`
	ReflexionFilosofica     *Paragraphs          `json:"reflexion_filosofica,omitempty"`
	Agradecimientos         []string             `json:"agradecimientos,omitempty"`
	Cierre                  *Paragraphs          `json:"cierre,omitempty"`
}

func (*Conclusion) Kind() SectionID { return SectionConclusion }

func (s *Conclusion) matched() bool {
	return len(s.Parrafos) > 0 ||
		len(s.LogrosPrincipales) > 0 ||
		s.SignificadoProyecto != nil ||
		s.ConexionMundoReal != nil ||
		s.DesafiosSuperados != nil ||
		s.LimitacionesReconocidas != nil ||
		s.RoadmapFuturo != nil ||
		s.ValorEducativo != nil ||
		s.ImpactoPersonal != nil ||
		s.MensajeEstudiantes != nil ||
		s.ReflexionFilosofica != nil ||
		len(s.Agradecimientos) > 0 ||
		s.Cierre != nil
}

// Legacy is the older free-form shape: one paragraph and one list.
type Legacy struct {
	Texto string   `json:"texto,omitempty"`
	Lista []string `json:"lista,omitempty"`
}

// Kind is empty: a legacy section is not bound to one report section.
func (*Legacy) Kind() SectionID { return "" }

func (s *Legacy) present() bool {
	return s.Texto != "" || len(s.Lista) > 0
}

type shaped interface {
	Section
	matched() bool
}

func newSection(id SectionID) shaped {
	switch id {
	case SectionIntroduccion:
		return &Introduccion{}
	case SectionObjetivo:
		return &Objetivo{}
	case SectionDesarrollo:
		return &Desarrollo{}
	case SectionResultados:
		return &Resultados{}
	case SectionConclusion:
		return &Conclusion{}
	}
	return nil
}

// DecodeSection picks the variant for one section payload. Recognised section ids
// decode into their own shape unless only the legacy fields are present.
func DecodeSection(id SectionID, data []byte) (Section, error) {
	legacy := &Legacy{}
	if err := json.Unmarshal(data, legacy); err != nil {
		return nil, err
	}
	typed := newSection(id)
	if typed == nil {
		return legacy, nil
	}
	if err := json.Unmarshal(data, typed); err != nil {
		return nil, err
	}
	if !typed.matched() && legacy.present() {
		return legacy, nil
	}
	return typed, nil
}

func (r *ContentRecord) UnmarshalJSON(data []byte) error {
	if !isObject(data) {
		return errors.New("record is not an object")
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	r.Nombre = ""
	r.Sections = make(map[SectionID]Section, len(raw))
	for key, value := range raw {
		if key == "nombre" {
			if err := json.Unmarshal(value, &r.Nombre); err != nil {
				return fmt.Errorf("failed to decode nombre: %w", err)
			}
			continue
		}
		id := SectionID(key)
		if !isObject(value) {
			if id.Known() && !bytes.Equal(bytes.TrimSpace(value), []byte("null")) {
				return fmt.Errorf("section %q is not an object", key)
			}
			continue
		}
		section, err := DecodeSection(id, value)
		if err != nil {
			return fmt.Errorf("failed to decode section %q: %w", key, err)
		}
		r.Sections[id] = section
	}
	return nil
}

func isObject(value json.RawMessage) bool {
	trimmed := bytes.TrimSpace(value)
	return len(trimmed) > 0 && trimmed[0] == '{'
}
