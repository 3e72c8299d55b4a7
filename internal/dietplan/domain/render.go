package domain

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"text/template"
)

var ErrTemplateRender = errors.New("invalid_template")

// RenderData is exposed to template instructions.
type RenderData struct {
	PatientName    string
	CaloriesTarget int
	StartDate      string
	EndDate        string
	Variables      map[string]string
}

// ParseInstructions validates template syntax.
func ParseInstructions(text string) (*template.Template, error) {
	tmpl, err := template.New("instructions").Option("missingkey=error").Parse(text)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrTemplateRender, err.Error())
	}
	return tmpl, nil
}

func RenderInstructions(text string, data RenderData) (string, error) {
	tmpl, err := ParseInstructions(text)
	if err != nil {
		return "", err
	}
	if data.Variables == nil {
		data.Variables = map[string]string{}
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("%w: %s", ErrTemplateRender, err.Error())
	}
	return strings.TrimSpace(buf.String()), nil
}
