package keycase

import (
	"reflect"
	"testing"
)

func TestToSnake(t *testing.T) {
	tests := map[string]string{
		"ticketNumber":         "ticket_number",
		"workSessionStartedAt": "work_session_started_at",
		"id":                   "id",
		"already_snake":        "already_snake",
	}
	for in, want := range tests {
		if got := ToSnake(in); got != want {
			t.Errorf("ToSnake(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestToCamel(t *testing.T) {
	tests := map[string]string{
		"ticket_number":           "ticketNumber",
		"work_session_started_at": "workSessionStartedAt",
		"id":                      "id",
	}
	for in, want := range tests {
		if got := ToCamel(in); got != want {
			t.Errorf("ToCamel(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestSnakeKeysRecursesNestedValues(t *testing.T) {
	in := map[string]any{
		"ticketNumber": "T-2025-0001",
		"assignedUser": map[string]any{
			"firstName": "Sara",
			"menuItems": []any{
				map[string]any{"menuKey": "tickets"},
			},
		},
	}
	want := map[string]any{
		"ticket_number": "T-2025-0001",
		"assigned_user": map[string]any{
			"first_name": "Sara",
			"menu_items": []any{
				map[string]any{"menu_key": "tickets"},
			},
		},
	}
	if got := SnakeKeys(in); !reflect.DeepEqual(got, want) {
		t.Errorf("SnakeKeys = %#v, want %#v", got, want)
	}
}

func TestRoundTripIsLossless(t *testing.T) {
	in := map[string]any{
		"totalWorkDuration": float64(125),
		"customer": map[string]any{
			"companyName": "Acme",
			"contacts":    []any{map[string]any{"mobileNumber": "555"}},
		},
	}
	got := CamelKeys(SnakeKeys(in))
	if !reflect.DeepEqual(got, in) {
		t.Errorf("round trip altered value: %#v", got)
	}
}
