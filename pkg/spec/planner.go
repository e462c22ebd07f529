package spec

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/vividoc-ai/vividoc/pkg/llm"
)

const plannerPromptTemplate = `You are an expert educational content planner. Your task is to create a structured document specification for an interactive educational document on the given topic.

Topic: %[1]s

Generate a comprehensive document specification with knowledge units. Each knowledge unit should:
1. Have a unique ID (e.g., "ku1", "ku2", etc.)
2. Contain a brief summary (unit_content)
3. Include a detailed text_description that is self-contained and suitable for generating educational text
4. Include an interaction_description that is self-contained and suitable for generating interactive visualization code

Guidelines:
- Break down the topic into 3-5 logical knowledge units
- Each text_description should explain what the reader should understand after reading that section
- Each interaction_description should describe what interactive elements the reader can use and what they will observe
- Make descriptions self-contained so they can be used independently for generation
- Focus on building intuition and understanding, not just facts

Respond with a single JSON object, no surrounding prose, with this shape:
{
  "topic": "%[1]s",
  "knowledge_units": [
    {
      "id": "ku1",
      "unit_content": "...",
      "text_description": "...",
      "interaction_description": "..."
    }
  ]
}

Now generate the complete document specification for the topic: %[1]s`

// Planner authors a DocumentSpec for a topic by asking the generative
// backend for a structured JSON specification.
type Planner struct {
	client llm.Client
	model  string
}

// NewPlanner creates a planner bound to a backend client and model.
func NewPlanner(client llm.Client, model string) *Planner {
	return &Planner{client: client, model: model}
}

// Run generates and validates a spec for the topic.
func (p *Planner) Run(ctx context.Context, topic string) (DocumentSpec, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return DocumentSpec{}, fmt.Errorf("topic is empty")
	}

	log.Info().Str("component", "planner").Str("topic", topic).Msg("Generating document spec")

	raw, err := p.client.Generate(ctx, p.model, fmt.Sprintf(plannerPromptTemplate, topic))
	if err != nil {
		return DocumentSpec{}, fmt.Errorf("planner backend call: %w", err)
	}

	var doc DocumentSpec
	if err := json.Unmarshal([]byte(llm.StripFence(raw)), &doc); err != nil {
		return DocumentSpec{}, fmt.Errorf("parse planner response: %w", err)
	}
	if err := doc.Validate(); err != nil {
		return DocumentSpec{}, fmt.Errorf("planner produced invalid spec: %w", err)
	}

	log.Info().
		Str("component", "planner").
		Str("topic", topic).
		Int("units", len(doc.Units)).
		Msg("Document spec generated")

	return doc, nil
}
