package engine

import (
	"fmt"
	"reflect"
	"sort"

	u "github.com/araddon/gou"
	memdb "github.com/hashicorp/go-memdb"
	"github.com/pborman/uuid"

	"github.com/fuhongbo/dynfilter/sortclause"
	"github.com/fuhongbo/dynfilter/texpr"
)

var _ = u.EMPTY

// row is what actually gets inserted into the memdb table: the source
// slice index (memdb's single unique key, also the original ordering)
// paired with the opaque record. Using our own wrapper rather than
// indexing on a field of the caller's record type lets FilterBy/SortBy
// work for any record type T without the caller registering anything.
type row struct {
	ID  int
	Rec interface{}
}

var rowSchema = &memdb.DBSchema{
	Tables: map[string]*memdb.TableSchema{
		"records": {
			Name: "records",
			Indexes: map[string]*memdb.IndexSchema{
				"id": {
					Name:    "id",
					Unique:  true,
					Indexer: &memdb.IntFieldIndex{Field: "ID"},
				},
			},
		},
	},
}

// load inserts source into a fresh in-memory table, tagging each record
// with its original position, and returns the rows read back out in
// ascending id order. The rows are sorted by ID after the scan rather
// than relying on the iteration order of memdb's int index.
func load[T any](source []T) ([]*row, error) {
	db, err := memdb.NewMemDB(rowSchema)
	if err != nil {
		return nil, fmt.Errorf("engine: opening store: %w", err)
	}
	txn := db.Txn(true)
	for i := range source {
		if err := txn.Insert("records", &row{ID: i, Rec: source[i]}); err != nil {
			txn.Abort()
			return nil, fmt.Errorf("engine: indexing record %d: %w", i, err)
		}
	}
	txn.Commit()

	readTxn := db.Txn(false)
	it, err := readTxn.Get("records", "id")
	if err != nil {
		return nil, fmt.Errorf("engine: scanning store: %w", err)
	}
	rows := make([]*row, 0, len(source))
	for obj := it.Next(); obj != nil; obj = it.Next() {
		rows = append(rows, obj.(*row))
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].ID < rows[j].ID })
	return rows, nil
}

// FilterBy evaluates predicate against every element of source and
// returns the elements for which it evaluates true, in their original
// order (scenario 8). predicate is the output of compile.Compiler.Compile
// called with value.Bool as the wanted result kind.
func FilterBy[T any](source []T, predicate texpr.Expression) ([]T, error) {
	traceID := uuid.New()
	rows, err := load(source)
	if err != nil {
		return nil, err
	}
	u.Debugf("engine: FilterBy trace=%s scanning %d record(s)", traceID, len(rows))
	out := make([]T, 0, len(rows))
	for _, r := range rows {
		instance := reflect.ValueOf(r.Rec)
		v, err := Eval(predicate, instance)
		if err != nil {
			u.Warnf("engine: FilterBy trace=%s record=%d: %v", traceID, r.ID, err)
			return nil, err
		}
		if v.Bool() {
			out = append(out, r.Rec.(T))
		}
	}
	return out, nil
}

// SortBy orders source by the keys produced by sortclause.Parse, applying
// them as one stable multi-key comparator rather than one full re-sort per
// key (see DESIGN.md's note on the SortBy open question).
func SortBy[T any](source []T, keys []sortclause.Key) ([]T, error) {
	traceID := uuid.New()
	rows, err := load(source)
	if err != nil {
		return nil, err
	}
	u.Debugf("engine: SortBy trace=%s ordering %d record(s) by %d key(s)", traceID, len(rows), len(keys))

	sort.SliceStable(rows, func(i, j int) bool {
		for _, k := range keys {
			vi := reflect.ValueOf(rows[i].Rec).FieldByName(k.Field)
			vj := reflect.ValueOf(rows[j].Rec).FieldByName(k.Field)
			c := compareReflect(vi, vj)
			if c == 0 {
				continue
			}
			if k.Desc {
				return c > 0
			}
			return c < 0
		}
		return false
	})

	out := make([]T, len(rows))
	for i, r := range rows {
		out[i] = r.Rec.(T)
	}
	return out, nil
}

func compareReflect(a, b reflect.Value) int {
	switch a.Kind() {
	case reflect.String:
		switch {
		case a.String() < b.String():
			return -1
		case a.String() > b.String():
			return 1
		default:
			return 0
		}
	case reflect.Bool:
		switch {
		case a.Bool() == b.Bool():
			return 0
		case !a.Bool():
			return -1
		default:
			return 1
		}
	case reflect.Float32, reflect.Float64:
		switch {
		case a.Float() < b.Float():
			return -1
		case a.Float() > b.Float():
			return 1
		default:
			return 0
		}
	default: // integer kinds, including rune/int32 (Char)
		switch {
		case a.Int() < b.Int():
			return -1
		case a.Int() > b.Int():
			return 1
		default:
			return 0
		}
	}
}
