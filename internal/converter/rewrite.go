package converter

import (
	"fmt"
	"strings"

	"github.com/iancoleman/strcase"

	"toonconv/internal/errors"
	"toonconv/internal/models"
)

// KeyCaseFunc rewrites one object key.
type KeyCaseFunc func(string) string

// keyCaseFor maps a config token to a rewrite function. An empty token or
// "keep" returns nil, meaning no rewrite pass runs at all.
func keyCaseFor(name string) (KeyCaseFunc, error) {
	switch strings.ToLower(name) {
	case "", "keep":
		return nil, nil
	case "snake":
		return strcase.ToSnake, nil
	case "camel":
		return strcase.ToLowerCamel, nil
	case "kebab":
		return strcase.ToKebab, nil
	case "screaming_snake":
		return strcase.ToScreamingSnake, nil
	default:
		return nil, errors.NewConfigError(
			fmt.Sprintf("invalid key case '%s'", name), nil)
	}
}

// RewriteKeys returns a copy of the tree with every object key passed
// through fn. When two keys collide after rewriting (e.g. "userId" and
// "user_id" both becoming "user_id"), the later field wins, matching the
// duplicate-key rule the parser applies.
func RewriteKeys(v models.Value, fn KeyCaseFunc) models.Value {
	if fn == nil {
		return v
	}
	switch v.Kind {
	case models.Object:
		fields := make([]models.Field, 0, len(v.Fields))
		seen := make(map[string]int, len(v.Fields))
		for _, f := range v.Fields {
			key := fn(f.Key)
			val := RewriteKeys(f.Value, fn)
			if idx, dup := seen[key]; dup {
				fields = append(fields[:idx], fields[idx+1:]...)
				for k, i := range seen {
					if i > idx {
						seen[k] = i - 1
					}
				}
			}
			seen[key] = len(fields)
			fields = append(fields, models.Field{Key: key, Value: val})
		}
		return models.ObjectValue(fields)
	case models.Array:
		items := make([]models.Value, len(v.Items))
		for i, it := range v.Items {
			items[i] = RewriteKeys(it, fn)
		}
		return models.ArrayValue(items)
	default:
		return v
	}
}
