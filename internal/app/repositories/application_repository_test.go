package repositories

import (
	"strings"
	"testing"
)

func TestListQueryOrdering(t *testing.T) {
	r := NewApplicationRepository(nil)

	sql, args, err := r.listQuery(map[string]interface{}{"status": "SUBMITTED"}, 0, 10)
	if err != nil {
		t.Fatalf("listQuery() error = %v", err)
	}

	if !strings.Contains(sql, "ORDER BY a.submitted_at DESC NULLS LAST, a.id DESC") {
		t.Errorf("listing must order by submission time, newest first:\n%s", sql)
	}
	if strings.Contains(sql, "ORDER BY a.created_at") {
		t.Errorf("listing must not order by creation time:\n%s", sql)
	}

	found := false
	for _, arg := range args {
		if arg == "SUBMITTED" {
			found = true
		}
	}
	if !found {
		t.Errorf("status filter missing from query args: %v", args)
	}
}

func TestListQueryFilters(t *testing.T) {
	r := NewApplicationRepository(nil)

	sql, _, err := r.listQuery(map[string]interface{}{
		"student_id":     int64(10),
		"scholarship_id": int64(20),
	}, 20, 10)
	if err != nil {
		t.Fatalf("listQuery() error = %v", err)
	}

	for _, clause := range []string{"a.student_id =", "a.scholarship_id =", "LIMIT 10", "OFFSET 20"} {
		if !strings.Contains(sql, clause) {
			t.Errorf("query missing %q:\n%s", clause, sql)
		}
	}
}
