package pgsql

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// pgErrCode extracts the SQLSTATE code from a pg error, or "" when the
// error is not a pg error.
func pgErrCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}
