package query

import (
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"gorm.io/gorm/clause"
)

const (
	MaxLimit = 100
	// MaxSalary is the upper bound used when a salary range has no maximum.
	MaxSalary int64 = 9007199254740991
)

var reserved = map[string]bool{
	"page":    true,
	"sort":    true,
	"limit":   true,
	"fields":  true,
	"keyword": true,
}

type operator string

const (
	opEq  operator = ""
	opGt  operator = "gt"
	opGte operator = "gte"
	opLt  operator = "lt"
	opLte operator = "lte"
)

var suffixes = []operator{opGte, opLte, opGt, opLt}

var dateLayouts = []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"}

// Spec is the parsed form of a list request.
type Spec struct {
	Where   sq.And
	Order   []clause.OrderByColumn
	Columns []string
	Page    int
	Limit   int
	// Ignored lists request parameters that matched no declared attribute.
	Ignored []string
}

func (s Spec) Offset() int {
	return (s.Page - 1) * s.Limit
}

// And returns a copy of s with extra predicates appended.
func (s Spec) And(preds ...sq.Sqlizer) Spec {
	where := make(sq.And, 0, len(s.Where)+len(preds))
	where = append(where, s.Where...)
	s.Where = append(where, preds...)
	return s
}

// Build turns request parameters into a Spec. Malformed values are dropped
// instead of rejected, and unknown parameters are recorded in Spec.Ignored.
func Build(params url.Values, schema Schema) Spec {
	spec := Spec{Where: sq.And{}}

	keys := make([]string, 0, len(params))
	for key := range params {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var salaryMin, salaryMax *int64

	for _, key := range keys {
		if reserved[key] {
			continue
		}

		raw := strings.Join(params[key], ",")

		if schema.Salary != nil && (key == "minSalary" || key == "maxSalary") {
			if n, ok := parseInt(raw); ok {
				if key == "minSalary" {
					salaryMin = &n
				} else {
					salaryMax = &n
				}
			}
			continue
		}

		name, op := splitOperator(key)
		field, ok := schema.Fields[name]
		if !ok || (op != opEq && !field.Type.ranged()) {
			spec.Ignored = append(spec.Ignored, key)
			continue
		}

		if pred := match(field, op, raw); pred != nil {
			spec.Where = append(spec.Where, pred)
		}
	}

	if keyword := strings.TrimSpace(params.Get("keyword")); keyword != "" && len(schema.Keyword) > 0 {
		pattern := "%" + escapeLike(keyword) + "%"
		or := make(sq.Or, 0, len(schema.Keyword))
		for _, expr := range schema.Keyword {
			or = append(or, sq.ILike{expr: pattern})
		}
		spec.Where = append(spec.Where, or)
	}

	if salaryMin != nil || salaryMax != nil {
		lo, hi := int64(0), MaxSalary
		if salaryMin != nil {
			lo = *salaryMin
		}
		if salaryMax != nil {
			hi = *salaryMax
		}
		spec.Where = append(spec.Where,
			sq.LtOrEq{schema.Salary.MinColumn: hi},
			sq.GtOrEq{schema.Salary.MaxColumn: lo},
		)
	}

	spec.Order = buildOrder(params.Get("sort"), schema)
	spec.Columns = buildColumns(params.Get("fields"), schema)
	spec.Page, spec.Limit = buildPage(params, schema)

	return spec
}

func splitOperator(key string) (string, operator) {
	if open := strings.IndexByte(key, '['); open > 0 && strings.HasSuffix(key, "]") {
		op := operator(key[open+1 : len(key)-1])
		for _, known := range suffixes {
			if op == known {
				return key[:open], op
			}
		}
		return key, opEq
	}

	for _, op := range suffixes {
		suffix := "_" + string(op)
		if strings.HasSuffix(key, suffix) && len(key) > len(suffix) {
			return strings.TrimSuffix(key, suffix), op
		}
	}

	return key, opEq
}

// match builds the predicate for one attribute. A comma-separated value
// becomes an OR over its parts.
func match(field Field, op operator, raw string) sq.Sqlizer {
	var terms sq.Or

	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if term := matchOne(field, op, part); term != nil {
			terms = append(terms, term)
		}
	}

	switch len(terms) {
	case 0:
		return nil
	case 1:
		return terms[0]
	default:
		return terms
	}
}

func matchOne(field Field, op operator, value string) sq.Sqlizer {
	col := field.Column

	switch field.Type {
	case Text:
		return sq.ILike{col: "%" + escapeLike(value) + "%"}
	case Enum:
		return sq.ILike{col: escapeLike(value)}
	case Tags:
		return sq.ILike{"array_to_string(" + col + ", ',')": "%" + escapeLike(value) + "%"}
	case Bool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return nil
		}
		return sq.Eq{col: b}
	case Number:
		n, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return nil
		}
		return compare(col, op, n)
	case ID:
		n, err := strconv.ParseUint(value, 10, 64)
		if err != nil {
			return nil
		}
		return compare(col, op, n)
	case Date:
		t, ok := parseDate(value)
		if !ok {
			return nil
		}
		if op == opEq {
			day := t.Truncate(24 * time.Hour)
			return sq.And{sq.GtOrEq{col: day}, sq.Lt{col: day.Add(24 * time.Hour)}}
		}
		return compare(col, op, t)
	}

	return nil
}

func compare(col string, op operator, value interface{}) sq.Sqlizer {
	switch op {
	case opGt:
		return sq.Gt{col: value}
	case opGte:
		return sq.GtOrEq{col: value}
	case opLt:
		return sq.Lt{col: value}
	case opLte:
		return sq.LtOrEq{col: value}
	default:
		return sq.Eq{col: value}
	}
}

func buildOrder(raw string, schema Schema) []clause.OrderByColumn {
	order := parseSort(raw, schema)
	if len(order) == 0 {
		order = parseSort(schema.DefaultSort, schema)
	}
	if len(order) == 0 {
		order = []clause.OrderByColumn{{Column: clause.Column{Name: "created_at"}, Desc: true}}
	}
	return order
}

func parseSort(raw string, schema Schema) []clause.OrderByColumn {
	var order []clause.OrderByColumn

	for _, key := range strings.Split(raw, ",") {
		key = strings.TrimSpace(key)
		desc := strings.HasPrefix(key, "-")
		key = strings.TrimPrefix(key, "-")

		field, ok := schema.Fields[key]
		if !ok {
			continue
		}
		order = append(order, clause.OrderByColumn{Column: clause.Column{Name: field.Column}, Desc: desc})
	}

	return order
}

func buildColumns(raw string, schema Schema) []string {
	if strings.TrimSpace(raw) == "" {
		return schema.Columns
	}

	id := schema.idColumn()
	columns := []string{id}
	seen := map[string]bool{id: true}

	for _, name := range strings.Split(raw, ",") {
		field, ok := schema.Fields[strings.TrimSpace(name)]
		if !ok || seen[field.Column] {
			continue
		}
		seen[field.Column] = true
		columns = append(columns, field.Column)
	}

	if len(columns) == 1 {
		return schema.Columns
	}

	return columns
}

func buildPage(params url.Values, schema Schema) (int, int) {
	page, err := strconv.Atoi(params.Get("page"))
	if err != nil || page < 1 {
		page = 1
	}

	defaultLimit := schema.DefaultLimit
	if defaultLimit < 1 {
		defaultLimit = 10
	}

	limit, err := strconv.Atoi(params.Get("limit"))
	if err != nil || limit < 1 {
		limit = defaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	return page, limit
}

func parseInt(raw string) (int64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || f < 0 {
		return 0, false
	}
	return int64(f), true
}

func parseDate(value string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(value string) string {
	return likeEscaper.Replace(value)
}
