package extractor

import (
	"errors"
	"reflect"
	"testing"

	"sql-remap/internal/model"
)

func TestExtract_TableSources(t *testing.T) {
	tests := []struct {
		name     string
		sql      string
		expected []model.TableSource
	}{
		{
			name: "Three part name with AS alias",
			sql:  "SELECT A.[COL1] FROM DB.S.T AS A",
			expected: []model.TableSource{
				{DB: "DB", Schema: "S", Table: "T", Alias: "A"},
			},
		},
		{
			name: "Alias without AS",
			sql:  "SELECT a.x FROM db.s.t1 a",
			expected: []model.TableSource{
				{DB: "db", Schema: "s", Table: "t1", Alias: "a"},
			},
		},
		{
			name: "No alias defaults to table name",
			sql:  "SELECT x FROM s.t",
			expected: []model.TableSource{
				{Schema: "s", Table: "t", Alias: "t"},
			},
		},
		{
			name: "Join variants",
			sql:  "SELECT a.x FROM db.s.t1 a INNER JOIN db.s.t2 b ON a.k = b.k LEFT OUTER JOIN db.s.t3 c ON b.k = c.k",
			expected: []model.TableSource{
				{DB: "db", Schema: "s", Table: "t1", Alias: "a"},
				{DB: "db", Schema: "s", Table: "t2", Alias: "b"},
				{DB: "db", Schema: "s", Table: "t3", Alias: "c"},
			},
		},
		{
			name: "Comma separated FROM list",
			sql:  "SELECT a.x, b.y FROM s.t1 a, s.t2 b WHERE a.k = b.k",
			expected: []model.TableSource{
				{Schema: "s", Table: "t1", Alias: "a"},
				{Schema: "s", Table: "t2", Alias: "b"},
			},
		},
		{
			name: "Bracketed table parts",
			sql:  "SELECT [C] FROM [DB].[S].[T]",
			expected: []model.TableSource{
				{DB: "DB", Schema: "S", Table: "T", Alias: "T"},
			},
		},
		{
			name: "Table hint skipped",
			sql:  "SELECT x FROM s.t WITH (NOLOCK) WHERE x = 1",
			expected: []model.TableSource{
				{Schema: "s", Table: "t", Alias: "t"},
			},
		},
		{
			name: "Subquery contributes to flat scope",
			sql:  "SELECT z.c FROM (SELECT c FROM db.s.t) z",
			expected: []model.TableSource{
				{DB: "db", Schema: "s", Table: "t", Alias: "t"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ex, err := Extract(tt.sql)
			if err != nil {
				t.Fatalf("Extract() error = %v", err)
			}

			got := make([]model.TableSource, len(ex.Sources))
			for i, s := range ex.Sources {
				s.Span = model.Span{} // spans checked separately
				got[i] = s
			}

			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("Extract() sources = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestExtract_ColumnRefs(t *testing.T) {
	tests := []struct {
		name     string
		sql      string
		expected []string // dotted chains, in order
	}{
		{
			name:     "Select list and predicate",
			sql:      "SELECT a.x, b.y FROM s.t1 a JOIN s.t2 b ON a.id = b.id WHERE a.z > 1",
			expected: []string{"a.x", "b.y", "a.id", "b.id", "a.z"},
		},
		{
			name:     "Unqualified column",
			sql:      "SELECT col1 FROM s.t",
			expected: []string{"col1"},
		},
		{
			name:     "Function names skipped, arguments kept",
			sql:      "SELECT COUNT(x), MAX(a.y) FROM s.t a",
			expected: []string{"x", "a.y"},
		},
		{
			name:     "Stars skipped",
			sql:      "SELECT *, a.* FROM s.t a",
			expected: nil,
		},
		{
			name:     "AS alias not a reference",
			sql:      "SELECT a.x AS total FROM s.t a",
			expected: []string{"a.x"},
		},
		{
			name:     "Implicit alias not a reference",
			sql:      "SELECT a.x total FROM s.t a",
			expected: []string{"a.x"},
		},
		{
			name:     "String literals and comments skipped",
			sql:      "SELECT name FROM s.t WHERE name = 'O''Brien' -- name check",
			expected: []string{"name", "name"},
		},
		{
			name:     "Group order having",
			sql:      "SELECT a.x FROM s.t a GROUP BY a.x HAVING COUNT(a.k) > 1 ORDER BY a.x DESC",
			expected: []string{"a.x", "a.x", "a.k", "a.x"},
		},
		{
			name:     "Four part qualification",
			sql:      "SELECT DB.S.T.C1 FROM DB.S.T",
			expected: []string{"DB.S.T.C1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ex, err := Extract(tt.sql)
			if err != nil {
				t.Fatalf("Extract() error = %v", err)
			}

			var got []string
			for _, c := range ex.Columns {
				got = append(got, c.Qualified())
			}

			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("Extract() columns = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestExtract_Spans(t *testing.T) {
	sql := "SELECT A.[COL1] FROM DB.S.T AS A"

	ex, err := Extract(sql)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}

	if len(ex.Columns) != 1 || len(ex.Sources) != 1 {
		t.Fatalf("got %d columns, %d sources", len(ex.Columns), len(ex.Sources))
	}

	col := ex.Columns[0]
	if got := sql[col.Span.Start:col.Span.End]; got != "A.[COL1]" {
		t.Errorf("column span covers %q, want %q", got, "A.[COL1]")
	}
	if !col.Column().Bracketed {
		t.Errorf("column part should record bracket quoting")
	}
	if col.Qualifier().Bracketed {
		t.Errorf("qualifier part should not record bracket quoting")
	}

	src := ex.Sources[0]
	if got := sql[src.Span.Start:src.Span.End]; got != "DB.S.T" {
		t.Errorf("source span covers %q, want %q (alias must stay outside)", got, "DB.S.T")
	}
}

func TestExtract_NoFromClause(t *testing.T) {
	for _, sql := range []string{"SELECT 1", "SELECT GETDATE()", "x := 1"} {
		if _, err := Extract(sql); !errors.Is(err, ErrNoTableSource) {
			t.Errorf("Extract(%q) error = %v, want ErrNoTableSource", sql, err)
		}
	}
}
