package email

import "embed"

// Template names an HTML file under templates/.
type Template string

const (
	TemplateWelcome Template = "welcome"
)

//go:embed templates/*.html
var templates embed.FS

var subjects = map[Template]string{
	TemplateWelcome: "Welcome to Teams!",
}
