// Package sortclause implements the sort-clause compiler: a comma-split
// over "field[ ASC|DESC]" items with ASC/DESC validation and property
// lookup against the target record's schema.
package sortclause

import (
	"strings"

	"github.com/fuhongbo/dynfilter/qerrors"
	"github.com/fuhongbo/dynfilter/schema"
)

// Key is one resolved sort key: a field name and its direction.
type Key struct {
	Field string
	Desc  bool
}

// Parse splits clause on commas, validates each item against s, and
// returns the ordered list of keys, first item primary.
func Parse(clause string, s *schema.Schema) ([]Key, error) {
	if strings.TrimSpace(clause) == "" {
		return nil, qerrors.Sort("Sorting clause cannot be null or empty.")
	}
	items := strings.Split(clause, ",")
	keys := make([]Key, 0, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		parts := strings.Fields(item)
		if len(parts) == 0 || len(parts) > 2 {
			return nil, qerrors.Sort("Sorting item must be in the format of 'field[ ASC]' or 'field DESC'.")
		}
		field := parts[0]
		desc := false
		if len(parts) == 2 {
			switch strings.ToUpper(parts[1]) {
			case "ASC":
				desc = false
			case "DESC":
				desc = true
			default:
				return nil, qerrors.Sort("Sorting item must be in the format of 'field[ ASC]' or 'field DESC'.")
			}
		}
		if _, ok := s.Lookup(field); !ok {
			return nil, qerrors.Sort("'%s' is not a valid field for '%s'.", field, s.Name)
		}
		keys = append(keys, Key{Field: field, Desc: desc})
	}
	return keys, nil
}
