package services

import (
	"bytes"
	"embed"
	"html/template"
	"strings"

	"github.com/anjiri1684/hireloom/aptitude"
)

//go:embed templates/*.html
var templateFS embed.FS

const defaultQuestionMinutes = 5

var templates = template.Must(template.New("").Funcs(template.FuncMap{
	"inc": func(i int) int { return i + 1 },
	"typeLabel": func(t aptitude.QuestionType) string {
		return strings.ToUpper(strings.ReplaceAll(string(t), "_", " "))
	},
	"minutes": func(m int) int {
		if m <= 0 {
			return defaultQuestionMinutes
		}
		return m
	},
}).ParseFS(templateFS, "templates/*.html"))

func render(name string, data any) (string, error) {
	var out bytes.Buffer
	if err := templates.ExecuteTemplate(&out, name, data); err != nil {
		return "", err
	}
	return out.String(), nil
}

type MessageEmail struct {
	Subject    string
	Body       string
	SenderName string
	JobTitle   string
}

// RenderMessage wraps a recruiter's plain-text message in the branded layout.
func RenderMessage(m MessageEmail) (string, error) {
	return render("message.html", m)
}
