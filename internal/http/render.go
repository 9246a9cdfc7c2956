package http

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/gofiber/fiber/v2"
)

// Study-supplied strings (terms, titles) reach these templates straight
// from client input and uncontrolled metadata, so rendering goes through
// html/template, which escapes every interpolated value.
var (
	termDissociationTmpl = template.Must(template.New("terms").Parse(`<h2>🧠 Dissociate by Terms</h2>
<p><b>Term A:</b> {{.TermA}}</p>
<p><b>Term B:</b> {{.TermB}}</p>
<p><b>Count:</b> {{.Count}}</p>
<table>
<tr><th>Study</th><th>Title</th></tr>
{{range .Studies}}<tr><td>{{.StudyID}}</td><td>{{if .Title}}{{.Title}}{{else}}(no title){{end}}</td></tr>
{{end}}</table>
`))

	locationDissociationTmpl = template.Must(template.New("locations").Parse(`<h2>🧠 Dissociate by Locations</h2>
<p><b>A:</b> {{printf "(%g, %g, %g)" (index .CoordsA 0) (index .CoordsA 1) (index .CoordsA 2)}}</p>
<p><b>B:</b> {{printf "(%g, %g, %g)" (index .CoordsB 0) (index .CoordsB 1) (index .CoordsB 2)}}</p>
<h3>A minus B ({{len .AMinusB}})</h3>
<table>
<tr><th>Study</th><th>Title</th></tr>
{{range .AMinusB}}<tr><td>{{.StudyID}}</td><td>{{if .Title}}{{.Title}}{{else}}(no title){{end}}</td></tr>
{{end}}</table>
<h3>B minus A ({{len .BMinusA}})</h3>
<table>
<tr><th>Study</th><th>Title</th></tr>
{{range .BMinusA}}<tr><td>{{.StudyID}}</td><td>{{if .Title}}{{.Title}}{{else}}(no title){{end}}</td></tr>
{{end}}</table>
`))
)

// wantsHTML reports whether the client's Accept header prefers HTML over
// JSON. No stated preference means JSON.
func wantsHTML(c *fiber.Ctx) bool {
	return c.Accepts("application/json", "text/html") == "text/html"
}

// negotiate sends data as JSON, or as an HTML view through tmpl when the
// client asks for markup.
func negotiate(c *fiber.Ctx, tmpl *template.Template, data any) error {
	if !wantsHTML(c) {
		return c.JSON(data)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return fmt.Errorf("render %s: %w", tmpl.Name(), err)
	}
	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return c.Send(buf.Bytes())
}
