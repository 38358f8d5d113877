package domain

import "strings"

// Template is the starting content offered for new documents in a folder.
type Template struct {
	Types []string
	body  string
}

var templates = map[string]Template{
	"planificacion": {
		Types: []string{"Sprint Planning", "Roadmap", "OKRs", "Retrospectiva"},
		body: `## Objetivos
- [ ] Objetivo 1
- [ ] Objetivo 2
- [ ] Objetivo 3

## Por hacer
- Tarea pendiente 1
- Tarea pendiente 2

## En proceso
- Tarea en desarrollo

## Hecho
- Tarea completada
`,
	},
	"dde": {
		Types: []string{"Decisión Arquitectónica", "Decisión Técnica", "Decisión de Proceso"},
		body: `## Contexto
Describe el contexto que llevó a esta decisión.

## Decisión
La decisión tomada y las razones detrás de ella.

## Consecuencias
### Positivas
- Beneficio 1
- Beneficio 2

### Negativas
- Limitación 1
- Limitación 2

## Alternativas Consideradas
- Alternativa 1: Descripción y razón por la que se descartó
- Alternativa 2: Descripción y razón por la que se descartó
`,
	},
	"retrospectivas": {
		Types: []string{"Sprint Retrospective", "Quarterly Review", "Project Retrospective"},
		body: `## ¿Qué salió bien?
- Aspecto positivo 1
- Aspecto positivo 2

## ¿Qué podemos mejorar?
- Área de mejora 1
- Área de mejora 2

## Acciones para el próximo periodo
- [ ] Acción 1
- [ ] Acción 2
- [ ] Acción 3
`,
	},
	"notas": {
		Types: []string{"Nota General", "Idea", "Investigación", "Meeting Notes"},
		body: `## Contenido
Escribe aquí el contenido de tu nota...

## Tags
#{{tag}}

## Referencias
- [Enlace 1](URL)
- [Enlace 2](URL)
`,
	},
}

// TemplateFor returns the folder's template, if it has one.
func TemplateFor(folder string) (Template, bool) {
	t, ok := templates[folder]
	return t, ok
}

// DefaultContent renders the initial markdown for a new document. Folders
// without a template get just the title heading.
func DefaultContent(folder, title, docType string) string {
	heading := "# " + title + "\n"
	t, ok := templates[folder]
	if !ok {
		return heading
	}
	if docType == "" && len(t.Types) > 0 {
		docType = t.Types[0]
	}
	tag := whitespaceRun.ReplaceAllString(strings.ToLower(docType), "-")
	return heading + "\n" + strings.ReplaceAll(t.body, "{{tag}}", tag)
}
