package output

import (
	"encoding/json"

	"github.com/ukaji3/mddesigner-go/pkg/mddesigner/models"
)

// ToJSON serializes the table model.
func ToJSON(data *models.Data, pretty bool) ([]byte, error) {
	return marshal(data, pretty)
}

// SheetToJSON serializes a single sheet.
func SheetToJSON(sheet *models.Sheet, pretty bool) ([]byte, error) {
	return marshal(sheet, pretty)
}

func marshal(v any, pretty bool) ([]byte, error) {
	if pretty {
		return json.MarshalIndent(v, "", "  ")
	}
	return json.Marshal(v)
}
