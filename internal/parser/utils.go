package parser

import (
	"github.com/pingcap/tidb/parser/ast"
)

// TableNames collects every table name a parsed statement references, in
// source order, subqueries included. The converter cross-checks these against
// the mapping's target tables to catch identifiers a rewrite left behind.
func TableNames(node ast.StmtNode) []string {
	v := &tableNameVisitor{}
	node.Accept(v)
	return v.names
}

type tableNameVisitor struct {
	names []string
}

func (v *tableNameVisitor) Enter(in ast.Node) (ast.Node, bool) {
	if tn, ok := in.(*ast.TableName); ok {
		v.names = append(v.names, tn.Name.O)
	}
	return in, false
}

func (v *tableNameVisitor) Leave(in ast.Node) (ast.Node, bool) {
	return in, true
}
