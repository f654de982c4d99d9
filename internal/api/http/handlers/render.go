package handlers

import (
	"bytes"
	"embed"
	"html/template"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/jobsabroad-web/internal/content"
	"github.com/spec-kit/jobsabroad-web/internal/domain"
)

//go:embed templates/*.html
var templateFS embed.FS

// langCookie stores the visitor's chosen content language.
const langCookie = "ja_lang"

// Renderer executes embedded html/template pages.
type Renderer struct {
	templates *template.Template
}

// NewRenderer parses the embedded templates once at startup.
func NewRenderer() (*Renderer, error) {
	tpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	return &Renderer{templates: tpl}, nil
}

// PageData is the payload every template receives.
type PageData struct {
	Title   string
	Lang    string
	T       func(string) string
	NavAuth bool
	User    *domain.UserIdentity
	Error   string
	Message string
	Data    any
}

// Render writes one page with the visitor's language applied.
func (r *Renderer) Render(c *fiber.Ctx, status int, name string, data PageData) error {
	data.Lang = Language(c)
	data.T = content.Lookup(data.Lang)

	var buf bytes.Buffer
	if err := r.templates.ExecuteTemplate(&buf, name, data); err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return c.Status(status).Send(buf.Bytes())
}

// Language returns the visitor's content language, defaulting to English.
func Language(c *fiber.Ctx) string {
	if lang := c.Cookies(langCookie); content.Supported(lang) {
		return lang
	}
	return content.LangEnglish
}

// SetLanguage persists the language choice.
func SetLanguage(c *fiber.Ctx, lang string) {
	c.Cookie(&fiber.Cookie{
		Name:     langCookie,
		Value:    lang,
		Path:     "/",
		HTTPOnly: true,
	})
}
