package llm

func testSchema() *Schema {
	return &Schema{
		Name:        "test-answer",
		Description: "A single answer",
		Definition: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"answer": map[string]any{"type": "string"},
				"tags": map[string]any{
					"type":     "array",
					"items":    map[string]any{"type": "string"},
					"maxItems": 2,
				},
			},
			"required":             []string{"answer", "tags"},
			"additionalProperties": false,
		},
	}
}
