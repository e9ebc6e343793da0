package tools

import "github.com/arialabs/aria/internal/llm"

// Definitions exposed to the model. The descriptions matter: they are the
// only signal the model has for when to call each function, so they spell
// out the use case and the expected argument shape.

func lifePathDefinition() llm.ToolDefinition {
	return llm.ToolDefinition{
		Name: "calculate_life_path",
		Description: "Calculate the user's Life Path number from their birth date. " +
			"The Life Path number reveals their life purpose, natural tendencies, " +
			"and the journey they're meant to take. Use this when the user asks " +
			"about their life path, purpose, or destiny, or provides their birth " +
			"date. Returns a number between 1-9 or master numbers 11, 22, 33.",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"birth_date": map[string]any{
					"type":   "string",
					"format": "date",
					"description": "User's birth date in YYYY-MM-DD format (e.g. 1990-05-15). " +
						"Ask for the complete birth date including year, month, and day " +
						"if not provided.",
				},
			},
			"required": []string{"birth_date"},
		},
	}
}

func expressionDefinition() llm.ToolDefinition {
	return llm.ToolDefinition{
		Name: "calculate_expression_number",
		Description: "Calculate the user's Expression number from their full birth name. " +
			"The Expression number reveals their natural talents, abilities, and " +
			"the potential they were born with. Use this when the user asks about " +
			"their talents or abilities, or provides their full name. " +
			"Returns a number between 1-9 or master numbers 11, 22, 33.",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"full_name": map[string]any{
					"type": "string",
					"description": "User's full birth name as it appears on their birth " +
						"certificate (e.g. 'John Michael Smith'), not a married name " +
						"or nickname.",
				},
			},
			"required": []string{"full_name"},
		},
	}
}

func soulUrgeDefinition() llm.ToolDefinition {
	return llm.ToolDefinition{
		Name: "calculate_soul_urge_number",
		Description: "Calculate the user's Soul Urge number from their full birth name. " +
			"The Soul Urge number (also called Heart's Desire) reveals inner " +
			"motivations, desires, and what drives them at a soul level. Use this " +
			"when the user asks about their inner desires, motivations, or what " +
			"truly makes them happy. Returns a number between 1-9 or master " +
			"numbers 11, 22, 33.",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"full_name": map[string]any{
					"type": "string",
					"description": "User's full birth name as it appears on their birth " +
						"certificate (e.g. 'Sarah Elizabeth Johnson'). The calculation " +
						"uses the vowels in the name.",
				},
			},
			"required": []string{"full_name"},
		},
	}
}

func birthdayDefinition() llm.ToolDefinition {
	return llm.ToolDefinition{
		Name: "calculate_birthday_number",
		Description: "Calculate the user's Birthday number from their birth date. " +
			"The Birthday number reveals a special gift or talent carried from " +
			"the day of the month they were born. Use this to add detail after " +
			"a Life Path reading. Returns a number between 1-9 or master " +
			"numbers 11, 22, 33.",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"birth_date": map[string]any{
					"type":        "string",
					"format":      "date",
					"description": "User's birth date in YYYY-MM-DD format (e.g. 1990-05-15).",
				},
			},
			"required": []string{"birth_date"},
		},
	}
}

func personalYearDefinition() llm.ToolDefinition {
	return llm.ToolDefinition{
		Name: "calculate_personal_year",
		Description: "Calculate the user's Personal Year number for a given calendar " +
			"year. The Personal Year describes the themes and cycle the user is " +
			"moving through that year. Use this when the user asks what this " +
			"year holds for them. Returns a number between 1-9 or master " +
			"numbers 11, 22, 33.",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"birth_date": map[string]any{
					"type":        "string",
					"format":      "date",
					"description": "User's birth date in YYYY-MM-DD format (e.g. 1990-05-15).",
				},
				"year": map[string]any{
					"type":        "integer",
					"description": "The calendar year to calculate for (e.g. 2026). Defaults to the current year.",
				},
			},
			"required": []string{"birth_date"},
		},
	}
}

func interpretationDefinition() llm.ToolDefinition {
	return llm.ToolDefinition{
		Name: "get_numerology_interpretation",
		Description: "Retrieve expert numerology interpretations for a specific number " +
			"type and value. Interpretations give detailed guidance about " +
			"personality traits, strengths, challenges, career paths, and " +
			"relationships based on traditional Pythagorean numerology. Use this " +
			"after calculating a number, or when the user asks about a number " +
			"they already know.",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"number_type": map[string]any{
					"type": "string",
					"enum": []string{"life_path", "expression", "soul_urge", "birthday", "personal_year"},
					"description": "Type of numerology number to interpret: 'life_path' " +
						"(life purpose), 'expression' (talents), 'soul_urge' (inner " +
						"desires), 'birthday' (gifts from birth day), 'personal_year' " +
						"(current year themes).",
				},
				"number_value": map[string]any{
					"type":        "integer",
					"description": "The number value to interpret. Must be 1-9 or master numbers 11, 22, 33.",
				},
				"category": map[string]any{
					"type": "string",
					"enum": []string{"personality", "strengths", "challenges", "career", "relationships", "talents", "abilities", "purpose"},
					"description": "Optional specific category of interpretation. " +
						"If not provided, all available categories are returned.",
				},
			},
			"required": []string{"number_type", "number_value"},
		},
	}
}
