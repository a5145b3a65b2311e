package completion

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractSQL(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "sql fence",
			input: "```sql\nSELECT * FROM t;\n```",
			want:  "SELECT * FROM t;",
		},
		{
			name:  "bare fence",
			input: "```\nSELECT id FROM t\n```",
			want:  "SELECT id FROM t",
		},
		{
			name:  "plain statement",
			input: "SELECT count(*) FROM customers;",
			want:  "SELECT count(*) FROM customers;",
		},
		{
			name:  "surrounding whitespace",
			input: "\n\n   SELECT 1;  \n\n",
			want:  "SELECT 1;",
		},
		{
			name:  "leading commentary",
			input: "Sure! Here is the query you asked for:\n\nSELECT name FROM customers WHERE orders_count > 5;\n\nThis returns every frequent buyer.",
			want:  "SELECT name FROM customers WHERE orders_count > 5;",
		},
		{
			name:  "commentary around fence",
			input: "Here you go:\n```sqlite\nDELETE FROM t WHERE id = 3;\n```\nLet me know if you need more.",
			want:  "DELETE FROM t WHERE id = 3;",
		},
		{
			name:  "multi-line statement",
			input: "SELECT name,\n       orders_count\nFROM customers\nORDER BY orders_count DESC;",
			want:  "SELECT name,\n       orders_count\nFROM customers\nORDER BY orders_count DESC;",
		},
		{
			name:  "stops at blank line without semicolon",
			input: "SELECT 1\n\nThat query returns one.",
			want:  "SELECT 1",
		},
		{
			name:  "lower-case keyword",
			input: "update t set col = 1 where id = 2",
			want:  "update t set col = 1 where id = 2",
		},
		{
			name:  "common table expression",
			input: "WITH big AS (SELECT * FROM orders WHERE total > 100)\nSELECT count(*) FROM big;",
			want:  "WITH big AS (SELECT * FROM orders WHERE total > 100)\nSELECT count(*) FROM big;",
		},
		{
			name:  "prose starting with with",
			input: "With pleasure! The query is:\nSELECT 2;",
			want:  "SELECT 2;",
		},
		{
			name:  "single-line fence",
			input: "```SELECT 3```",
			want:  "SELECT 3",
		},
		{
			name:  "unterminated fence",
			input: "```sql\nSELECT 4;",
			want:  "SELECT 4;",
		},
		{
			name:  "first of two statements",
			input: "SELECT 5;\nSELECT 6;",
			want:  "SELECT 5;",
		},
		{
			name:  "prose line starting with a keyword",
			input: "Select customers with more than 5 orders:\nSELECT * FROM customers WHERE orders_count > 5;",
			want:  "SELECT * FROM customers WHERE orders_count > 5;",
		},
		{
			name:  "prose with keyword and no colon",
			input: "Update the question if this is wrong\n\nUPDATE customers SET vip = 1 WHERE orders_count > 10;",
			want:  "UPDATE customers SET vip = 1 WHERE orders_count > 10;",
		},
		{
			name:  "sql in a later fence",
			input: "```text\nassuming orders_count\n```\n```sql\nSELECT 1;\n```",
			want:  "SELECT 1;",
		},
		{
			name:  "two statements on one line",
			input: "SELECT 1; DELETE FROM t",
			want:  "SELECT 1;",
		},
		{
			name:  "semicolon inside a literal",
			input: "SELECT name FROM t WHERE note = 'a;b';",
			want:  "SELECT name FROM t WHERE note = 'a;b';",
		},
		{
			name:  "apostrophe in commentary",
			input: "Here's what you need\nDELETE FROM t WHERE id = 1; -- removes one row",
			want:  "DELETE FROM t WHERE id = 1;",
		},
		{
			name:  "explain query plan",
			input: "EXPLAIN QUERY PLAN SELECT * FROM t;",
			want:  "EXPLAIN QUERY PLAN SELECT * FROM t;",
		},
		{
			name:  "select distinct",
			input: "select distinct city from customers;",
			want:  "select distinct city from customers;",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractSQL(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtractSQL_Empty(t *testing.T) {
	inputs := []string{
		"",
		"   \n\t",
		"I'm sorry, I can't help with that.",
		"```sql\n```",
		"```\nThe table has no such column.\n```",
		"Select the rows you need:",
		"Delete requests are not supported.",
		"```text\nnotes\n```\n```\nmore notes\n```",
	}

	for _, input := range inputs {
		_, err := ExtractSQL(input)
		assert.ErrorIs(t, err, ErrEmptyCompletion, "input %q", input)
	}
}
