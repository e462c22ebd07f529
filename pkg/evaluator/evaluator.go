// Package evaluator implements the post-generation quality check. It is
// a best-effort collaborator: the generation service records its output
// (or its failure) as document metadata and never lets it fail a job.
package evaluator

import (
	"fmt"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/vividoc-ai/vividoc/pkg/spec"
)

// minDocumentSize is the size below which a generated document is
// considered incomplete.
const minDocumentSize = 1000

// Evaluator checks a generated document for coherence and per-unit
// completeness.
type Evaluator struct{}

// New creates an evaluator.
func New() *Evaluator {
	return &Evaluator{}
}

// Evaluate inspects the generated document and returns a feedback
// payload: an overall coherence assessment, the list of per-unit
// issues, and whether the document needs revision.
func (e *Evaluator) Evaluate(doc spec.GeneratedDocument) (map[string]any, error) {
	coherence, err := e.checkCoherence(doc)
	if err != nil {
		return nil, err
	}
	issues := e.checkComponents(doc)

	log.Debug().
		Str("component", "evaluator").
		Int("issues", len(issues)).
		Msg("Document evaluated")

	return map[string]any{
		"overall_coherence": coherence,
		"component_issues":  issues,
		"requires_revision": len(issues) > 0,
	}, nil
}

func (e *Evaluator) checkCoherence(doc spec.GeneratedDocument) (string, error) {
	content, err := os.ReadFile(doc.HTMLPath)
	if err != nil {
		return "", fmt.Errorf("read generated document: %w", err)
	}
	if len(content) < minDocumentSize {
		return "HTML document appears incomplete", nil
	}
	return "Document structure appears valid", nil
}

func (e *Evaluator) checkComponents(doc spec.GeneratedDocument) []string {
	issues := []string{}
	for _, unit := range doc.Units {
		if !unit.Stage1Completed {
			issues = append(issues, fmt.Sprintf("%s: Stage 1 (text content) not completed", unit.ID))
		}
		if !unit.Stage2Completed {
			issues = append(issues, fmt.Sprintf("%s: Stage 2 (interactive content) not completed", unit.ID))
		}
		if !unit.Validated {
			issues = append(issues, fmt.Sprintf("%s: HTML validation failed", unit.ID))
		}
	}
	return issues
}
