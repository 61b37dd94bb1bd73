package report

import (
	"bytes"
	"fmt"
	"io/fs"
	"strings"
	"text/template"

	"repasse/assets"
)

func defaultTemplates() fs.FS {
	return assets.Templates()
}

// narrative holds the rendered text blocks of the rich backend.
type narrative struct {
	Intro         string
	Consideracoes string
	Apoio         string
	Lema          string
	Assinatura    []string
}

// loadNarrative parses every embedded template and renders the blocks
// for one request. Missing or malformed templates are an error: the
// rich backend must not ship a report with holes in its prose.
func loadNarrative(fsys fs.FS, req Request) (narrative, error) {
	tmpl, err := template.ParseFS(fsys, "*.tmpl")
	if err != nil {
		return narrative{}, fmt.Errorf("parsing report templates: %w", err)
	}

	data := struct {
		Municipality string
		UF           string
		Competencia  string
	}{
		Municipality: req.municipalityLabel(),
		UF:           strings.ToUpper(req.UF),
		Competencia:  req.Competencia,
	}

	render := func(name string) (string, error) {
		var buf bytes.Buffer
		if err := tmpl.ExecuteTemplate(&buf, name, data); err != nil {
			return "", fmt.Errorf("rendering template %s: %w", name, err)
		}
		out := strings.TrimSpace(buf.String())
		if out == "" {
			return "", fmt.Errorf("template %s rendered empty", name)
		}
		return out, nil
	}

	var n narrative
	if n.Intro, err = render("intro.tmpl"); err != nil {
		return narrative{}, err
	}
	if n.Consideracoes, err = render("consideracoes.tmpl"); err != nil {
		return narrative{}, err
	}
	if n.Apoio, err = render("apoio.tmpl"); err != nil {
		return narrative{}, err
	}
	if n.Lema, err = render("lema.tmpl"); err != nil {
		return narrative{}, err
	}

	signature, err := render("assinatura.tmpl")
	if err != nil {
		return narrative{}, err
	}
	for _, line := range strings.Split(signature, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			n.Assinatura = append(n.Assinatura, line)
		}
	}
	return n, nil
}
