package mailer

import (
	"bytes"
	"embed"
	"fmt"
	htmpl "html/template"
	"strings"
	texttpl "text/template"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

const TemplateWelcome = "welcome"

var subjects = map[string]string{
	TemplateWelcome: "Welcome to {{.AppName}}",
}

// Render fills the named template. It returns subject, text and html bodies.
func Render(name string, data map[string]any) (string, string, string, error) {
	subjectTpl, ok := subjects[strings.ToLower(name)]
	if !ok {
		return "", "", "", fmt.Errorf("unknown email template %q", name)
	}
	subject, err := execText("subject", subjectTpl, data)
	if err != nil {
		return "", "", "", err
	}
	textSrc, err := templateFS.ReadFile("templates/" + name + ".txt.tmpl")
	if err != nil {
		return "", "", "", err
	}
	text, err := execText(name, string(textSrc), data)
	if err != nil {
		return "", "", "", err
	}
	h, err := htmpl.ParseFS(templateFS, "templates/"+name+".html.tmpl")
	if err != nil {
		return "", "", "", err
	}
	var buf bytes.Buffer
	if err := h.Execute(&buf, data); err != nil {
		return "", "", "", err
	}
	return subject, text, buf.String(), nil
}

func execText(name, src string, data map[string]any) (string, error) {
	t, err := texttpl.New(name).Option("missingkey=zero").Parse(src)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Prepare renders job.Template into the job bodies when a template is set.
func Prepare(job *EmailJob) error {
	if job.Template == "" {
		if job.Subject == "" || (job.Text == "" && job.HTML == "") {
			return fmt.Errorf("email job for %s has no content", job.To)
		}
		return nil
	}
	s, t, h, err := Render(job.Template, job.Data)
	if err != nil {
		return err
	}
	job.Subject, job.Text, job.HTML = s, t, h
	return nil
}
