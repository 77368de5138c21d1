package repositories

import (
	"fmt"
	"strings"
	"time"

	"taskmanager/internal/models"
)

// CondBuilder accumulates WHERE predicates together with their bound
// values and keeps the positional $n numbering consistent. Both the
// page query and the count query are rendered from the same predicate
// list, so the two can never diverge.
type CondBuilder struct {
	conds []string
	args  []interface{}
}

// And appends one predicate. expr must contain one %d verb per bound
// value; the builder substitutes the next positional indexes.
func (b *CondBuilder) And(expr string, args ...interface{}) *CondBuilder {
	idx := make([]interface{}, len(args))
	for i := range args {
		idx[i] = len(b.args) + i + 1
	}
	b.conds = append(b.conds, fmt.Sprintf(expr, idx...))
	b.args = append(b.args, args...)
	return b
}

func (b *CondBuilder) Where() string {
	return strings.Join(b.conds, " AND ")
}

func (b *CondBuilder) Args() []interface{} {
	return append([]interface{}(nil), b.args...)
}

// DataQuery renders the page statement. LIMIT and OFFSET are bound as
// the two parameters following the filter values.
func (b *CondBuilder) DataQuery(table, columns, orderBy string, limit, offset int) (string, []interface{}) {
	n := len(b.args)
	q := fmt.Sprintf(
		"SELECT %s FROM %s WHERE %s ORDER BY %s LIMIT $%d OFFSET $%d",
		columns, table, b.Where(), orderBy, n+1, n+2,
	)
	return q, append(b.Args(), limit, offset)
}

// CountQuery renders the total-count statement over the same predicates.
func (b *CondBuilder) CountQuery(table string) (string, []interface{}) {
	return fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE %s", table, b.Where()), b.Args()
}

// UTCDayWindow returns the [start-of-day, end-of-day] bounds of now's
// UTC calendar day, end inclusive at 23:59:59.999.
func UTCDayWindow(now time.Time) (start, end time.Time) {
	u := now.UTC()
	start = time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
	end = start.Add(24*time.Hour - time.Millisecond)
	return start, end
}

// BucketConditions builds the shared predicate set for one bucket view.
// Ownership is always part of the predicate; the priority filter is
// additive and skipped for the "all" sentinel.
//
// Overdue open tasks (due_date already past, status still open) match
// neither the today window nor the upcoming predicate.
func BucketConditions(filter models.TaskFilter, now time.Time) (*CondBuilder, error) {
	b := &CondBuilder{}
	switch filter.Bucket {
	case models.BucketToday:
		start, end := UTCDayWindow(now)
		b.And("due_date BETWEEN $%d AND $%d", start, end)
		b.And("user_id = $%d", filter.OwnerID)
		b.And("(status = $%d OR status = $%d)", models.StatusTodo, models.StatusInProgress)
	case models.BucketUpcoming:
		b.And("due_date > $%d", now.UTC())
		b.And("user_id = $%d", filter.OwnerID)
		b.And("(status = $%d OR status = $%d)", models.StatusTodo, models.StatusInProgress)
	case models.BucketCompleted:
		b.And("user_id = $%d", filter.OwnerID)
		b.And("status = $%d", models.StatusDone)
	default:
		return nil, fmt.Errorf("unknown bucket %q", filter.Bucket)
	}

	if p := strings.TrimSpace(filter.Priority); p != "" && p != "all" {
		b.And("priority = $%d", p)
	}
	return b, nil
}
