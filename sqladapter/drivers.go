/*
Package sqladapter also registers the two database/sql drivers its
dialects target: importing sqladapter is enough for a caller to
sqlx.Open("sqlite3", ...) or sqlx.Open("mysql", ...) without a separate
blank import.
*/
package sqladapter

import (
	_ "github.com/go-sql-driver/mysql"
	_ "github.com/mattn/go-sqlite3"
)
