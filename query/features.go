// Package query translates list-endpoint query strings into document-store
// queries: an equality/range filter, a sort order, a field projection and a
// skip/limit pair. The filter alone also drives the independent total count
// used for pagination metadata.
package query

import (
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"rayverse/models"
)

// Features is the parsed, immutable form of a list request's query string.
type Features struct {
	Filter     bson.M
	Sort       bson.D
	Projection bson.M
	Page       int
	Limit      int
	Skip       int64
	Lang       models.Language
}

// Parameters that drive query shaping and must never become filter fields.
var reservedParams = map[string]bool{
	"page":   true,
	"sort":   true,
	"limit":  true,
	"fields": true,
	"lang":   true,
}

var rangeOps = map[string]bool{
	"gte": true,
	"gt":  true,
	"lte": true,
	"lt":  true,
}

// Parse builds Features from raw query parameters. Unknown filter fields pass
// through to the store unchanged: they match nothing rather than erroring,
// and repeated calls behave identically.
func Parse(values url.Values, defaultLimit int) Features {
	f := Features{
		Lang:   models.ParseLanguage(values.Get("lang")),
		Filter: parseFilter(values),
		Sort:   parseSort(values.Get("sort")),
	}
	f.Projection = parseProjection(values.Get("fields"), f.Lang)

	f.Page = positiveInt(values.Get("page"), 1)
	f.Limit = positiveInt(values.Get("limit"), defaultLimit)
	f.Skip = int64(f.Page-1) * int64(f.Limit)

	return f
}

// parseFilter treats every non-reserved parameter as an equality or range
// filter. Equality values stay literal strings, so a numeric-looking value
// against a string field (slug=2024) still matches; only range-operator
// bounds are coerced, since comparisons are meaningless on raw strings for
// numeric and timestamp fields.
func parseFilter(values url.Values) bson.M {
	filter := bson.M{}
	for key := range values {
		if reservedParams[key] {
			continue
		}
		if field, op, ok := splitRangeOp(key); ok {
			// field[gte]=x merges with any other range bound on the
			// same field, e.g. publishedAt[gte]=a&publishedAt[lt]=b.
			bounds, _ := filter[field].(bson.M)
			if bounds == nil {
				bounds = bson.M{}
			}
			bounds["$"+op] = coerce(values.Get(key))
			filter[field] = bounds
			continue
		}
		filter[key] = values.Get(key)
	}
	return filter
}

// splitRangeOp recognizes the field[op] form for the supported comparison
// operators.
func splitRangeOp(key string) (field, op string, ok bool) {
	if !strings.HasSuffix(key, "]") {
		return "", "", false
	}
	open := strings.Index(key, "[")
	if open <= 0 {
		return "", "", false
	}
	field = key[:open]
	op = key[open+1 : len(key)-1]
	if !rangeOps[op] {
		return "", "", false
	}
	return field, op, true
}

// coerce maps a raw range-operator value onto the type the store compares
// with. The order matters: integers before floats, booleans and timestamps
// before the string fallback.
func coerce(raw string) any {
	if i, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return f
	}
	if raw == "true" || raw == "false" {
		return raw == "true"
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t
	}
	return raw
}

func parseSort(raw string) bson.D {
	if raw == "" {
		return bson.D{{Key: "createdAt", Value: -1}}
	}
	var sort bson.D
	for _, field := range strings.Split(raw, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		order := 1
		if strings.HasPrefix(field, "-") {
			field = field[1:]
			order = -1
		}
		sort = append(sort, bson.E{Key: field, Value: order})
	}
	if len(sort) == 0 {
		return bson.D{{Key: "createdAt", Value: -1}}
	}
	return sort
}

// parseProjection always includes the identity key and slug. Without a fields
// parameter it selects the language-specific title and summary plus the
// categories; with one, title and summary expand to the resolved language's
// nested path and everything else passes through literally. For non-English
// requests the English source path rides along too, so the controller can
// fall back at format time; it strips the en key before the response.
func parseProjection(raw string, lang models.Language) bson.M {
	projection := bson.M{"_id": 1, "slug": 1}

	localized := func(field string) {
		projection[field+"."+string(lang)] = 1
		if lang != models.LangEN {
			projection[field+".en"] = 1
		}
	}

	var requested []string
	for _, field := range strings.Split(raw, ",") {
		if field = strings.TrimSpace(field); field != "" {
			requested = append(requested, field)
		}
	}

	if len(requested) == 0 {
		localized("title")
		localized("summary")
		projection["categories"] = 1
		return projection
	}

	for _, field := range requested {
		switch field {
		case "title", "summary":
			localized(field)
		default:
			projection[field] = 1
		}
	}
	return projection
}

// positiveInt parses a page or limit value, falling back on non-numeric
// input and clamping the result to at least 1.
func positiveInt(raw string, fallback int) int {
	n := fallback
	if raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			n = parsed
		}
	}
	if n < 1 {
		return 1
	}
	return n
}

// TotalPages computes the page count for a filtered total, consistent with
// paging through the full filtered set.
func TotalPages(total int64, limit int) int {
	if limit < 1 {
		limit = 1
	}
	pages := total / int64(limit)
	if total%int64(limit) != 0 {
		pages++
	}
	return int(pages)
}
