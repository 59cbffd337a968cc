package reporter

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"sql-remap/internal/model"
)

func TestHTMLReporter_StatementNumbersAreOneBased(t *testing.T) {
	target := filepath.Join(t.TempDir(), "report.html")
	r := NewHTMLReporter(target)

	result := &model.ConversionResult{
		ConvertedQuery: "SELECT 1",
		Diagnostics: []model.Diagnostic{
			{Statement: 0, Kind: model.DiagUnparsable, Message: "no recognizable FROM clause"},
		},
	}
	if err := r.Report(result); err != nil {
		t.Fatalf("Report() error = %v", err)
	}

	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	html := string(data)

	// same numbering as the console reporter: first statement is 1
	if !strings.Contains(html, "<td>1</td>") {
		t.Error("diagnostic row should number statements from 1")
	}
	if strings.Contains(html, "<td>0</td>") {
		t.Error("zero-based statement index leaked into the report")
	}
}
