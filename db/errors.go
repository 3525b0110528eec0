package db

import (
	"strings"

	"github.com/teranos/litgraph/errors"
)

// ErrDatabaseClosed marks work attempted after the connection was closed,
// for instance batch queries still running when the command returns.
var ErrDatabaseClosed = errors.New("database is closed")

// IsDatabaseClosed reports whether err is ErrDatabaseClosed or a driver error
// carrying the same message. database/sql returns its own unexported error here.
func IsDatabaseClosed(err error) bool {
	switch {
	case err == nil:
		return false
	case errors.Is(err, ErrDatabaseClosed):
		return true
	default:
		return strings.Contains(err.Error(), "database is closed")
	}
}
