package commands

import (
	"bytes"
	"embed"
	"strings"
	"text/template"

	"github.com/leapstack-labs/leapcheck/pkg/lint"
)

//go:embed templates/leapcheck.yaml.tmpl
var templateFS embed.FS

var configTemplate = template.Must(
	template.New("leapcheck.yaml.tmpl").
		Funcs(template.FuncMap{"join": strings.Join}).
		ParseFS(templateFS, "templates/leapcheck.yaml.tmpl"),
)

// configTemplateData fills the generated leapcheck.yaml.
type configTemplateData struct {
	TargetVersion string
	Encoding      string
	Concurrency   int
	Tests         bool
	Rules         []lint.RuleInfo
}

// renderConfigTemplate renders a commented leapcheck.yaml.
func renderConfigTemplate(data configTemplateData) ([]byte, error) {
	var buf bytes.Buffer
	if err := configTemplate.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
