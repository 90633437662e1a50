package render

const tmplBlocks = `
{{define "list"}}{{with .}}<ul>{{range .}}<li>{{.}}</li>{{end}}</ul>{{end}}{{end}}

{{define "paragraphs"}}{{range .}}<p>{{.}}</p>{{end}}{{end}}

{{define "block"}}<h4>{{.Heading}}</h4>
{{- with .Intro}}<p>{{.}}</p>{{end}}
{{- template "paragraphs" .Paragraphs}}
{{- template "list" .Items}}{{end}}
`

const tmplSections = `
{{define "introduccion"}}
{{- with .Imagen}}<div style="text-align: center; margin-bottom: 25px;"><img src="{{.}}" alt="{{$.Alt}}" style="max-width: 100%; height: 500px; border-radius: 8px; box-shadow: 0 4px 6px rgba(0,0,0,0.1);">
{{- with $.Caption}}<p style="margin-top: 10px; font-style: italic; color: #666; font-size: 0.9em;">{{.}}</p>{{end}}</div>{{end}}
{{- template "paragraphs" .Parrafos}}
{{- if .Caracteristicas}}<h4>Características principales:</h4>{{template "list" .Caracteristicas}}
{{- else}}{{template "list" .Lista}}{{end}}
{{- end}}

{{define "objetivo"}}
{{- with .Introduccion}}<p>{{.}}</p>{{end}}
{{- range .Objetivos}}<h4>{{.Titulo}}</h4><p>{{.Descripcion}}</p>{{end}}
{{- with .MetasAprendizaje}}<div style="margin-top: 25px; padding: 20px; background-color: #f8f9fa; border-radius: 8px;"><h3>Metas de Aprendizaje</h3>
{{- with .Introduccion}}<p>{{.}}</p>{{end}}
{{- template "list" .Competencias}}</div>{{end}}
{{- end}}

{{define "desarrollo"}}
{{- with .Introduccion}}<p>{{.}}</p>{{end}}
{{- range $i, $fase := .Fases}}<div class="fase" style="margin-top: 20px; padding: 15px; background-color: {{if even $i}}#f8f9fa{{else}}#ffffff{{end}}; border-left: 4px solid #d4af37; border-radius: 4px;"><h4>{{$fase.Titulo}}</h4><p>{{$fase.Descripcion}}</p></div>{{end}}
{{- with .Documentacion}}<p style="margin-top: 20px; font-style: italic; color: #555;">{{.}}</p>{{end}}
{{- end}}

{{define "resultados"}}
{{- with .Introduccion}}<p><strong>{{.}}</strong></p>{{end}}
{{- range .Blocks}}{{template "block" .}}{{end}}
{{- end}}

{{define "conclusion"}}
{{- template "paragraphs" .Parrafos}}
{{- range .Blocks}}{{template "block" .}}{{end}}
{{- with .Cierre}}<div style="margin-top: 25px; padding: 20px; background-color: #f0f8ff; border-left: 5px solid #003366; border-radius: 8px;">{{range .}}<p><strong>{{.}}</strong></p>{{end}}</div>{{end}}
{{- end}}

{{define "legacy"}}
{{- with .Texto}}<p>{{.}}</p>{{end}}
{{- template "list" .Lista}}
{{- end}}

{{define "project"}}<h4>{{.Nombre}}</h4>{{.Body}}{{end}}
`
