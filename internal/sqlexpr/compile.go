package sqlexpr

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lib/pq"

	"github.com/chekov-db/chekov/internal/ckerr"
)

// Compile turns a descriptor into canonical SQL predicate text.
// The result is fully parenthesized:
//
//	Raw{"price > 1000"}                -> (price > 1000)
//	ColumnInSet{"price", [10, 20]}     -> (price = ANY (ARRAY[10, 20]))
//	Conjunction{[p1, p2]}              -> ((p1) AND (p2))
//
// A Raw fragment is wrapped in exactly one paren pair even when the text is
// already a compound boolean expression; downstream snapshot-text equality
// depends on this exact behavior.
func Compile(d Descriptor) (string, error) {
	switch e := d.(type) {
	case Raw:
		if strings.TrimSpace(e.SQL) == "" {
			return "", ckerr.New(ckerr.ErrDescriptorInvalid, "raw predicate text is empty")
		}
		return "(" + e.SQL + ")", nil

	case ColumnInSet:
		if e.Column == "" {
			return "", ckerr.New(ckerr.ErrDescriptorInvalid, "column name is required for value-set predicate")
		}
		if len(e.Values) == 0 {
			return "", ckerr.New(ckerr.ErrEmptyValueSet, "value set must contain at least one value").
				With("column", e.Column)
		}
		lits := make([]string, len(e.Values))
		for i, v := range e.Values {
			lit, err := Literal(v)
			if err != nil {
				return "", err
			}
			lits[i] = lit
		}
		return "(" + e.Column + " = ANY (ARRAY[" + strings.Join(lits, ", ") + "]))", nil

	case Conjunction:
		if len(e.Parts) == 0 {
			return "", ckerr.New(ckerr.ErrEmptyConjunction, "conjunction must contain at least one part")
		}
		parts := make([]string, len(e.Parts))
		for i, p := range e.Parts {
			s, err := Compile(p)
			if err != nil {
				return "", err
			}
			parts[i] = s
		}
		return "(" + strings.Join(parts, " AND ") + ")", nil

	case nil:
		return "", ckerr.New(ckerr.ErrDescriptorInvalid, "descriptor is nil")

	default:
		return "", ckerr.Newf(ckerr.ErrDescriptorInvalid, "unsupported descriptor type %T", d)
	}
}

// Literal renders a scalar value in its natural SQL literal form:
// numbers unquoted, booleans as TRUE/FALSE, strings single-quoted and
// escaped per PostgreSQL rules.
func Literal(v any) (string, error) {
	switch x := v.(type) {
	case string:
		return pq.QuoteLiteral(x), nil
	case int:
		return strconv.Itoa(x), nil
	case int8:
		return strconv.FormatInt(int64(x), 10), nil
	case int16:
		return strconv.FormatInt(int64(x), 10), nil
	case int32:
		return strconv.FormatInt(int64(x), 10), nil
	case int64:
		return strconv.FormatInt(x, 10), nil
	case uint:
		return strconv.FormatUint(uint64(x), 10), nil
	case uint64:
		return strconv.FormatUint(x, 10), nil
	case float32:
		return strconv.FormatFloat(float64(x), 'g', -1, 32), nil
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64), nil
	case bool:
		if x {
			return "TRUE", nil
		}
		return "FALSE", nil
	default:
		return "", ckerr.Newf(ckerr.ErrBadLiteral, "value %v cannot be rendered as a SQL literal", v).
			With("type", fmt.Sprintf("%T", v))
	}
}
