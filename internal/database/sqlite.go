package database

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"sync"

	"modernc.org/sqlite"
)

var (
	sqliteFuncsOnce sync.Once
	sqliteFuncsErr  error
)

// registerSQLiteFuncs replaces sqlite's ASCII-only lower() with a Unicode
// one, so LOWER(...) comparisons fold accented letters the way Postgres does.
// It affects connections opened after the first call.
func registerSQLiteFuncs() error {
	sqliteFuncsOnce.Do(func() {
		sqliteFuncsErr = sqlite.RegisterDeterministicScalarFunction("lower", 1, unicodeLower)
	})
	return sqliteFuncsErr
}

func unicodeLower(_ *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
	switch v := args[0].(type) {
	case nil:
		return nil, nil
	case string:
		return strings.ToLower(v), nil
	case []byte:
		return strings.ToLower(string(v)), nil
	default:
		return fmt.Sprint(v), nil
	}
}
