package semantic

import (
	"context"
	"fmt"
	"strings"

	"github.com/grimbano/ucm-tfm-grupo-4/pkg/adapter"
)

// The compiler only ever issues two statement classes against the
// warehouse: DDL/DML through the command path and SELECT through the query
// path. Anything else reaching either path is a programming error worth
// failing loudly on.

var ddlCommands = map[string]bool{
	"CREATE": true,
	"DROP":   true,
	"ALTER":  true,
}

var dmlCommands = map[string]bool{
	"INSERT": true,
	"UPDATE": true,
	"DELETE": true,
}

var queryCommands = map[string]bool{
	"SELECT": true,
	"WITH":   true,
}

// statementClass returns the uppercased leading keyword of a statement.
func statementClass(sqlStr string) string {
	fields := strings.Fields(strings.TrimSpace(sqlStr))
	if len(fields) == 0 {
		return ""
	}
	return strings.ToUpper(fields[0])
}

// execCommand executes a statement after checking it is DDL or DML.
func execCommand(ctx context.Context, db adapter.Adapter, sqlStr string) error {
	class := statementClass(sqlStr)
	if !ddlCommands[class] && !dmlCommands[class] {
		return fmt.Errorf("statement class %q is not a valid DDL/DML command", class)
	}
	return db.Exec(ctx, sqlStr)
}

// queryRows executes a statement after checking it is a query.
func queryRows(ctx context.Context, db adapter.Adapter, sqlStr string) (*adapter.Rows, error) {
	class := statementClass(sqlStr)
	if !queryCommands[class] {
		return nil, fmt.Errorf("statement class %q is not a SELECT query", class)
	}
	return db.Query(ctx, sqlStr)
}
