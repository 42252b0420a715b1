// Package models defines the table model produced from a document.
package models

import (
	"github.com/ukaji3/mddesigner-go/pkg/mddesigner/mapping"
	"github.com/ukaji3/mddesigner-go/pkg/mddesigner/rule"
)

// Data is the result of one conversion: the sheets built from the document
// together with the schema and compiled mapping that produced them.
type Data struct {
	// Sheets holds the sheets in document order.
	Sheets []Sheet `json:"sheets"`
	// Rule is the schema the sheets were built with.
	Rule *rule.Rule `json:"-"`
	// Mapping is the compiled form of Rule.
	Mapping *mapping.Mapping `json:"-"`
}
