package migrate

// ValidateImport shallow-checks an imported backup before migration and
// returns the first failing message, or "" when the shape is usable.
// It gates structure only: dangling cross-references are tolerated and
// resolve to "Unknown" downstream.
func ValidateImport(raw any) string {
	obj, ok := raw.(map[string]any)
	if !ok || obj == nil {
		return "Invalid file: JSON object expected."
	}

	accounts, ok := obj["accounts"].([]any)
	if !ok {
		return "Invalid file: accounts[] is required."
	}
	transactions, ok := obj["transactions"].([]any)
	if !ok {
		return "Invalid file: transactions[] is required."
	}
	if _, ok := obj["budgets"].([]any); !ok {
		return "Invalid file: budgets[] is required."
	}
	if categories, present := obj["categories"]; present {
		if _, ok := categories.([]any); !ok {
			return "Invalid file: categories must be an array when present."
		}
	}

	for _, a := range accounts {
		account, ok := a.(map[string]any)
		if !ok {
			return "Invalid file: each account must include id and name."
		}
		if _, ok := account["id"]; !ok {
			return "Invalid file: each account must include id and name."
		}
		if _, ok := account["name"]; !ok {
			return "Invalid file: each account must include id and name."
		}
	}

	for _, t := range transactions {
		tx, ok := t.(map[string]any)
		if !ok {
			return "Invalid file: each transaction must include id, type, date, and amount."
		}
		for _, field := range []string{"id", "type", "date", "amount"} {
			if _, ok := tx[field]; !ok {
				return "Invalid file: each transaction must include id, type, date, and amount."
			}
		}
	}

	return ""
}
