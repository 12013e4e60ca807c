package decoy

import (
	"embed"
	"html/template"
	"io/fs"
	"net/http"

	"github.com/gofiber/template/html/v2"
)

//go:embed templates/*.html
var templatesFS embed.FS

// PageData is the render context shared by all decoy templates. Fields a
// template does not use are simply ignored.
type PageData struct {
	Lang              string
	Title             string
	SiteHeader        string
	UsernameLabel     string
	PasswordLabel     string
	SubmitLabel       string
	RememberMeLabel   string
	LostPasswordLabel string
	BackToSiteLabel   string
	// ErrorMessage may carry markup (the WordPress error does); catalog
	// and config are the only sources, never request input.
	ErrorMessage      template.HTML
	Username          string
	MaxUsernameLength int
	MaxPasswordLength int
	RenderToken       string
	ActionPath        string
}

// ViewsEngine returns the fiber template engine backed by the embedded
// decoy pages.
func ViewsEngine() *html.Engine {
	sub, err := fs.Sub(templatesFS, "templates")
	if err != nil {
		panic(err)
	}
	return html.NewFileSystem(http.FS(sub), ".html")
}
