package sqladapter

import (
	"fmt"

	u "github.com/araddon/gou"
	"github.com/jmoiron/sqlx"

	"github.com/fuhongbo/dynfilter/sortclause"
	"github.com/fuhongbo/dynfilter/texpr"
)

var _ = u.EMPTY

// Select runs a pushed-down filter/sort against table in db, decoding
// matching rows into dest (a pointer to a slice, per sqlx.Select). It is
// the SQL-backed sibling of engine.FilterBy/engine.SortBy: rather than
// scanning every record with engine.Eval, it asks the database to do
// both the filtering and the ordering.
func Select(db *sqlx.DB, d Dialect, table string, predicate texpr.Expression, order []sortclause.Key, dest interface{}) error {
	query, args, err := buildQuery(d, table, predicate, order)
	if err != nil {
		return err
	}
	u.Debugf("sqladapter: %s %v", query, args)
	if err := db.Select(dest, query, args...); err != nil {
		return fmt.Errorf("sqladapter: query failed: %w", err)
	}
	return nil
}

func buildQuery(d Dialect, table string, predicate texpr.Expression, order []sortclause.Key) (string, []interface{}, error) {
	query := "SELECT * FROM " + d.QuoteIdent(table)
	var args []interface{}
	if predicate != nil {
		where, whereArgs, err := WhereClause(d, predicate)
		if err != nil {
			return "", nil, err
		}
		query += " WHERE " + where
		args = whereArgs
	}
	if len(order) > 0 {
		query += " ORDER BY "
		for i, k := range order {
			if i > 0 {
				query += ", "
			}
			query += d.QuoteIdent(k.Field)
			if k.Desc {
				query += " DESC"
			}
		}
	}
	return query, args, nil
}
