package migrate

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidateImport(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		raw  string
		want string
	}{
		{"not an object", `[1, 2]`, "Invalid file: JSON object expected."},
		{"missing accounts", `{"transactions": [], "budgets": []}`, "Invalid file: accounts[] is required."},
		{"missing transactions", `{"accounts": [], "budgets": []}`, "Invalid file: transactions[] is required."},
		{"missing budgets", `{"accounts": [], "transactions": []}`, "Invalid file: budgets[] is required."},
		{"categories wrong type", `{"accounts": [], "transactions": [], "budgets": [], "categories": "nope"}`,
			"Invalid file: categories must be an array when present."},
		{"account missing name", `{"accounts": [{"id": "a1"}], "transactions": [], "budgets": []}`,
			"Invalid file: each account must include id and name."},
		{"transaction missing amount",
			`{"accounts": [], "budgets": [], "transactions": [{"id": "t1", "type": "expense", "date": "2026-08-01"}]}`,
			"Invalid file: each transaction must include id, type, date, and amount."},
		{"valid minimal", `{"accounts": [], "transactions": [], "budgets": []}`, ""},
		{"valid without categories",
			`{"accounts": [{"id": "a1", "name": "Checking"}], "budgets": [],
			  "transactions": [{"id": "t1", "type": "expense", "date": "2026-08-01", "amount": 5}]}`, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, ValidateImport(decode(t, tc.raw)))
		})
	}
}

func TestValidateImportNil(t *testing.T) {
	t.Parallel()
	require.Equal(t, "Invalid file: JSON object expected.", ValidateImport(nil))
}
