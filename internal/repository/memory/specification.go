package memory

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
	"time"

	"subtracker-be/internal/repository/specification"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// row exposes an entity under its column names.
type row map[string]interface{}

type ordering struct {
	field string
	desc  bool
}

// query filters, orders and pages items the way the SQL specifications would.
func query[T any](items []T, toRow func(T) row, specs []specification.Specification) ([]T, error) {
	var filters []specification.Specification
	var orders []ordering
	var page *specification.Pagination

	for _, spec := range specs {
		switch s := spec.(type) {
		case specification.OrderBy:
			orders = append(orders, ordering{field: columnName(s.Field), desc: s.Desc})
		case specification.OrderByEffectiveAmount:
			orders = append(orders, ordering{field: "amount", desc: s.Desc})
		case specification.Pagination:
			p := s
			page = &p
		default:
			filters = append(filters, spec)
		}
	}

	rows := make([]row, 0, len(items))
	kept := make([]T, 0, len(items))
	for _, item := range items {
		r := toRow(item)
		ok, err := matchesAll(r, filters)
		if err != nil {
			return nil, err
		}
		if ok {
			rows = append(rows, r)
			kept = append(kept, item)
		}
	}

	idx := make([]int, len(kept))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		for _, o := range orders {
			c := compareValues(rows[idx[a]][o.field], rows[idx[b]][o.field])
			if c == 0 {
				continue
			}
			if o.desc {
				return c > 0
			}
			return c < 0
		}
		// Map iteration order is random; fall back to id for determinism.
		return compareValues(rows[idx[a]]["id"], rows[idx[b]]["id"]) < 0
	})

	out := make([]T, 0, len(kept))
	for _, i := range idx {
		out = append(out, kept[i])
	}

	if page != nil {
		start := page.Offset
		if start > len(out) {
			start = len(out)
		}
		end := len(out)
		if page.Limit > 0 && start+page.Limit < end {
			end = start + page.Limit
		}
		out = out[start:end]
	}
	return out, nil
}

func matchesAll(r row, specs []specification.Specification) (bool, error) {
	for _, spec := range specs {
		ok, err := matches(r, spec)
		if err != nil || !ok {
			return false, err
		}
	}
	return true, nil
}

func matches(r row, spec specification.Specification) (bool, error) {
	switch s := spec.(type) {
	case specification.ByID:
		return equalValues(r["id"], s.ID), nil
	case specification.ByIDs:
		for _, id := range s.IDs {
			if equalValues(r["id"], id) {
				return true, nil
			}
		}
		return false, nil
	case specification.FilterBy:
		return equalValues(r[columnName(s.Field)], s.Value), nil
	case specification.UserOwnedBy:
		return equalValues(r["user_id"], s.UserID), nil
	case specification.ActiveUsers:
		return equalValues(r["status"], "active"), nil
	case specification.BySlug:
		return equalValues(r["slug"], s.Slug), nil
	case specification.ByIDOrSlug:
		if id, err := uuid.Parse(s.Value); err == nil {
			return equalValues(r["id"], id), nil
		}
		return equalValues(r["slug"], s.Value), nil
	case specification.ByCategoryID:
		return equalValues(r["category_id"], s.CategoryID), nil
	case specification.ByProductID:
		return equalValues(r["product_id"], s.ProductID), nil
	case specification.ByPlanID:
		return equalValues(r["plan_id"], s.PlanID), nil
	case specification.ByPriceID:
		return equalValues(r["price_id"], s.PriceID), nil
	case specification.ActiveOnly:
		return equalValues(r["is_active"], true), nil
	case specification.ByStatus:
		return equalValues(r["status"], s.Status), nil
	case specification.ByStatuses:
		for _, st := range s.Statuses {
			if equalValues(r["status"], st) {
				return true, nil
			}
		}
		return false, nil
	case specification.NextBillingUntil:
		t, ok := r["next_billing_date"].(*time.Time)
		return ok && t != nil && !t.After(s.Until), nil
	case specification.EndDateReached:
		t, ok := r["end_date"].(*time.Time)
		return ok && t != nil && !t.After(s.At), nil
	}
	return false, fmt.Errorf("memory store: unsupported specification %T", spec)
}

// columnName drops a table qualifier such as "subscriptions.created_at".
func columnName(field string) string {
	if i := strings.LastIndex(field, "."); i >= 0 {
		return field[i+1:]
	}
	return field
}

func normalize(v interface{}) interface{} {
	switch x := v.(type) {
	case nil:
		return nil
	case *uuid.UUID:
		if x == nil {
			return nil
		}
		return *x
	case *string:
		if x == nil {
			return nil
		}
		return *x
	case *time.Time:
		if x == nil {
			return nil
		}
		return *x
	case *decimal.Decimal:
		if x == nil {
			return nil
		}
		return *x
	case uuid.UUID, time.Time, decimal.Decimal:
		return x
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.String:
		return rv.String()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int()
	}
	return v
}

func equalValues(a, b interface{}) bool {
	na, nb := normalize(a), normalize(b)
	if na == nil || nb == nil {
		return na == nil && nb == nil
	}
	// uuid columns are often filtered with their string form
	if ua, ok := na.(uuid.UUID); ok {
		if sb, ok := nb.(string); ok {
			return ua.String() == sb
		}
	}
	if ub, ok := nb.(uuid.UUID); ok {
		if sa, ok := na.(string); ok {
			return ub.String() == sa
		}
	}
	return compareValues(na, nb) == 0 && reflect.TypeOf(na) == reflect.TypeOf(nb)
}

// compareValues orders like Postgres ascending: NULLs last.
func compareValues(a, b interface{}) int {
	na, nb := normalize(a), normalize(b)
	switch {
	case na == nil && nb == nil:
		return 0
	case na == nil:
		return 1
	case nb == nil:
		return -1
	}

	switch x := na.(type) {
	case string:
		if y, ok := nb.(string); ok {
			return strings.Compare(x, y)
		}
	case int64:
		if y, ok := nb.(int64); ok {
			switch {
			case x < y:
				return -1
			case x > y:
				return 1
			}
			return 0
		}
	case bool:
		if y, ok := nb.(bool); ok {
			switch {
			case x == y:
				return 0
			case !x:
				return -1
			}
			return 1
		}
	case time.Time:
		if y, ok := nb.(time.Time); ok {
			return x.Compare(y)
		}
	case decimal.Decimal:
		if y, ok := nb.(decimal.Decimal); ok {
			return x.Cmp(y)
		}
	case uuid.UUID:
		if y, ok := nb.(uuid.UUID); ok {
			return strings.Compare(x.String(), y.String())
		}
	}
	return strings.Compare(fmt.Sprint(na), fmt.Sprint(nb))
}
