package page

const tmplSection = `
{{define "section"}}<h2>{{.Title}}</h2>
<form method="get" class="course-tabs">
{{- range $i, $c := .Courses}}<button class="course-tab-button{{if eq $i 0}} active{{end}}" formaction="/courses/{{$.Section}}/{{$c.ID}}">{{$c.Name}}</button>{{end -}}
</form>
{{- range $i, $c := .Courses}}
<div id="{{$.Section}}-{{$c.ID}}" class="course-content{{if eq $i 0}} active{{end}}" style="display: {{if eq $i 0}}block{{else}}none{{end}};">
<h3>Curso {{$c.Name}}</h3>
<form method="get" class="project-tabs">
{{- range $c.Numbers}}<button class="project-tab-button{{if eq . 1}} active{{end}}" formaction="/projects/{{$.Section}}/{{$c.ID}}/{{.}}">Proyecto {{.}}</button>{{end -}}
</form>
{{- range $c.Numbers}}
<div id="{{$.Section}}-{{$c.ID}}-proyecto{{.}}" class="project-content{{if eq . 1}} active{{end}}" style="display: {{if eq . 1}}block{{else}}none{{end}};" data-curso="{{$c.ID}}" data-proyecto="{{.}}" data-seccion="{{$.Section}}" data-loaded="false"></div>
{{- end}}
</div>
{{- end}}
{{end}}
`
