package console

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"text/template"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// ErrMissingTemplate is returned when a required template is found in no
// template source
var ErrMissingTemplate = errors.New("missing template")

// Template names. Each is stored in <name>.tmpl.
const (
	TemplateGallery  = "gallery"
	TemplateCounter  = "counter"
	TemplatePreview  = "preview"
	TemplateBasket   = "basket"
	TemplateDelivery = "delivery"
	TemplateContacts = "contacts"
	TemplateErrors   = "errors"
	TemplateSuccess  = "success"
	TemplateHelp     = "help"
)

var requiredTemplates = []string{
	TemplateGallery,
	TemplateCounter,
	TemplatePreview,
	TemplateBasket,
	TemplateDelivery,
	TemplateContacts,
	TemplateErrors,
	TemplateSuccess,
	TemplateHelp,
}

// LoadTemplates parses every required template. Files in dir, when set,
// take precedence over the embedded ones.
func LoadTemplates(dir string, funcs template.FuncMap) (*template.Template, error) {
	embedded, err := fs.Sub(templateFS, "templates")
	if err != nil {
		return nil, err
	}

	sources := []fs.FS{embedded}
	if dir != "" {
		sources = append([]fs.FS{os.DirFS(dir)}, sources...)
	}
	return loadTemplates(funcs, sources...)
}

func loadTemplates(funcs template.FuncMap, sources ...fs.FS) (*template.Template, error) {
	root := template.New("console").Funcs(funcs)
	for _, name := range requiredTemplates {
		content, err := readTemplate(name+".tmpl", sources)
		if err != nil {
			return nil, err
		}
		if _, err := root.New(name).Parse(content); err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", name, err)
		}
	}
	return root, nil
}

// readTemplate returns the file from the first source that has it
func readTemplate(file string, sources []fs.FS) (string, error) {
	for _, src := range sources {
		content, err := fs.ReadFile(src, file)
		if err == nil {
			return string(content), nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("failed to read template %s: %w", file, err)
		}
	}
	return "", fmt.Errorf("%w: %s", ErrMissingTemplate, file)
}
