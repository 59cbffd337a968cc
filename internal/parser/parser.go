// Package parser wraps the TiDB SQL parser for best-effort validation of
// converted statements. The legacy T-SQL input is out of its reach (bracket
// quoting, four-part names), but a fully converted statement usually is not,
// so a parse failure after rewriting is worth a diagnostic.
package parser

import (
	"fmt"

	"github.com/pingcap/tidb/parser"
	"github.com/pingcap/tidb/parser/ast"
	_ "github.com/pingcap/tidb/parser/test_driver"
)

// SQLParser wraps the TiDB parser
type SQLParser struct {
	p *parser.Parser
}

func NewSQLParser() *SQLParser {
	return &SQLParser{
		p: parser.New(),
	}
}

// Parse converts a SQL string into an AST, returning the first statement.
func (sp *SQLParser) Parse(sql string) (ast.StmtNode, error) {
	stmtNodes, _, err := sp.p.Parse(sql, "", "")
	if err != nil {
		return nil, err
	}
	if len(stmtNodes) == 0 {
		return nil, fmt.Errorf("no valid SQL found")
	}
	return stmtNodes[0], nil
}
