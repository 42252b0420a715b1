package mddesigner

import (
	"fmt"
	"os"

	"github.com/ukaji3/mddesigner-go/pkg/mddesigner/mapping"
	"github.com/ukaji3/mddesigner-go/pkg/mddesigner/models"
	"github.com/ukaji3/mddesigner-go/pkg/mddesigner/output"
	"github.com/ukaji3/mddesigner-go/pkg/mddesigner/parser"
	"github.com/ukaji3/mddesigner-go/pkg/mddesigner/rule"
)

// Convert builds the table model of a document. A nil rule selects the
// built-in default rule.
func Convert(input string, r *rule.Rule, opts Options) (*models.Data, error) {
	if r == nil {
		r = rule.Default()
	}
	return parser.Parse(input, r, mapping.Compile(r), opts.logger())
}

// ConvertFile reads a document from path and converts it.
func ConvertFile(path string, r *rule.Rule, opts Options) (*models.Data, error) {
	input, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read input %s: %w", path, err)
	}
	return Convert(string(input), r, opts)
}

// Export writes data to name in the configured format and returns the
// normalized path that was written.
func Export(data *models.Data, name string, opts Options) (string, error) {
	format := opts.format()
	path, err := output.FileName(name, format)
	if err != nil {
		return "", NewExportError(name, string(format), err)
	}

	log := opts.logger()
	log.Info("exporting file", "path", path, "format", string(format))

	switch format {
	case output.FormatJSON:
		b, err := output.ToJSON(data, opts.Pretty)
		if err != nil {
			return "", NewExportError(path, string(format), err)
		}
		if err := os.WriteFile(path, b, 0644); err != nil {
			return "", NewExportError(path, string(format), err)
		}
	default:
		if err := output.WriteExcel(data, path); err != nil {
			return "", NewExportError(path, string(format), err)
		}
	}

	log.Info("OK")
	return path, nil
}
