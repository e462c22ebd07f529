// Package spec defines the document specification model and its
// file-backed store. A spec is authored once (by the planner or a
// caller) and is immutable while a generation run consumes it.
package spec

import (
	"github.com/go-playground/validator/v10"
)

// UnitSpec describes one knowledge unit of a document: a named chunk of
// work with self-contained descriptions for each generation stage.
type UnitSpec struct {
	ID                     string `json:"id" yaml:"id" validate:"required"`
	Summary                string `json:"unit_content" yaml:"unit_content" validate:"required"`
	TextDescription        string `json:"text_description" yaml:"text_description" validate:"required"`
	InteractionDescription string `json:"interaction_description" yaml:"interaction_description" validate:"required"`
}

// DocumentSpec is a complete document specification.
type DocumentSpec struct {
	Topic string     `json:"topic" yaml:"topic" validate:"required"`
	Units []UnitSpec `json:"knowledge_units" yaml:"knowledge_units" validate:"required,min=1,dive"`
}

// UnitState records how far generation got for one unit. Validated may
// be false on a completed unit; structural validation failure does not
// block progression.
type UnitState struct {
	ID              string `json:"id"`
	Summary         string `json:"unit_content"`
	Stage1Completed bool   `json:"stage1_completed"`
	Stage2Completed bool   `json:"stage2_completed"`
	Validated       bool   `json:"validated"`
}

// GeneratedDocument is the result of one successful engine run.
type GeneratedDocument struct {
	Topic    string      `json:"topic"`
	HTMLPath string      `json:"html_file_path"`
	Units    []UnitState `json:"knowledge_units"`
}

var validate = validator.New()

// Validate checks that the spec has a topic and at least one fully
// described unit.
func (s *DocumentSpec) Validate() error {
	return validate.Struct(s)
}
