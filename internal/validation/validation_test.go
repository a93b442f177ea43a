package validation

import (
	"strings"
	"testing"
)

func TestUser(t *testing.T) {
	tests := []struct {
		name      string
		payload   Payload
		wantValid bool
		wantField string
	}{
		{"valid student", Payload{"username": "alice", "password": "secret1"}, true, ""},
		{"valid admin role", Payload{"username": "bob", "password": "secret1", "role": "admin"}, true, ""},
		{"empty role ignored", Payload{"username": "bob", "password": "secret1", "role": ""}, true, ""},
		{"missing username", Payload{"password": "secret1"}, false, "username"},
		{"blank username", Payload{"username": "   ", "password": "secret1"}, false, "username"},
		{"numeric username", Payload{"username": 42.0, "password": "secret1"}, false, "username"},
		{"short password", Payload{"username": "alice", "password": "12345"}, false, "password"},
		{"missing password", Payload{"username": "alice"}, false, "password"},
		{"unknown role", Payload{"username": "alice", "password": "secret1", "role": "owner"}, false, "role"},
		{"non-string role", Payload{"username": "alice", "password": "secret1", "role": 3.0}, false, "role"},
		{"nil payload", nil, false, "username"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := User(tt.payload)
			if res.IsValid != tt.wantValid {
				t.Fatalf("IsValid = %v, want %v (errors %+v)", res.IsValid, tt.wantValid, res.Errors)
			}
			first, ok := res.First()
			if tt.wantValid {
				if ok {
					t.Fatalf("unexpected error %+v", first)
				}
				return
			}
			if !ok || first.Field != tt.wantField {
				t.Fatalf("first error = %+v, want field %q", first, tt.wantField)
			}
		})
	}
}

func TestUserReportsErrorsInFieldOrder(t *testing.T) {
	res := User(Payload{"role": "root"})
	if len(res.Errors) != 3 {
		t.Fatalf("got %d errors, want 3: %+v", len(res.Errors), res.Errors)
	}
	want := []string{"username", "password", "role"}
	for i, f := range want {
		if res.Errors[i].Field != f {
			t.Errorf("Errors[%d].Field = %q, want %q", i, res.Errors[i].Field, f)
		}
	}
	if res.Errors[1].Message != "Password must be at least 6 characters" {
		t.Errorf("password message = %q", res.Errors[1].Message)
	}
}

func TestReservation(t *testing.T) {
	tests := []struct {
		name      string
		payload   Payload
		wantField string
	}{
		{"valid", Payload{"studentName": "Alice", "roomNumber": "101"}, ""},
		{"empty student", Payload{"studentName": "", "roomNumber": "101"}, "studentName"},
		{"blank student", Payload{"studentName": "\t", "roomNumber": "101"}, "studentName"},
		{"empty room", Payload{"studentName": "Alice", "roomNumber": ""}, "roomNumber"},
		{"numeric room", Payload{"studentName": "Alice", "roomNumber": 101.0}, "roomNumber"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Reservation(tt.payload)
			first, ok := res.First()
			if tt.wantField == "" {
				if !res.IsValid || ok {
					t.Fatalf("expected valid, got %+v", res.Errors)
				}
				return
			}
			if res.IsValid || first.Field != tt.wantField {
				t.Fatalf("first error = %+v, want field %q", first, tt.wantField)
			}
		})
	}
}

func TestRoom(t *testing.T) {
	if res := Room(Payload{"roomNumber": "101", "level": "2", "name": "Quiet"}); !res.IsValid {
		t.Fatalf("expected valid room, got %+v", res.Errors)
	}
	if res := Room(Payload{"roomNumber": "101", "level": nil}); !res.IsValid {
		t.Fatalf("null level should be ignored, got %+v", res.Errors)
	}
	res := Room(Payload{"roomNumber": "101", "level": 2.0})
	if first, _ := res.First(); first.Field != "level" || !strings.Contains(first.Message, "string") {
		t.Fatalf("unexpected result %+v", res.Errors)
	}
	res = Room(Payload{"roomNumber": "101", "name": []any{"x"}})
	if first, _ := res.First(); first.Field != "name" {
		t.Fatalf("unexpected result %+v", res.Errors)
	}
	res = Room(Payload{"level": "1"})
	if first, _ := res.First(); first.Field != "roomNumber" {
		t.Fatalf("unexpected result %+v", res.Errors)
	}
}

func TestRoomUpdateIgnoresRoomNumber(t *testing.T) {
	if res := RoomUpdate(Payload{}); !res.IsValid {
		t.Fatalf("empty update should be valid, got %+v", res.Errors)
	}
	if res := RoomUpdate(Payload{"level": true}); res.IsValid {
		t.Fatal("boolean level should be rejected")
	}
}

func TestStringHelpers(t *testing.T) {
	p := Payload{"a": "x", "b": 1.0, "c": nil}
	if String(p, "a") != "x" || String(p, "b") != "" || String(p, "missing") != "" {
		t.Fatal("String returned unexpected values")
	}
	if v := OptionalString(p, "a"); v == nil || *v != "x" {
		t.Fatal("OptionalString(a) should be x")
	}
	if OptionalString(p, "b") != nil || OptionalString(p, "c") != nil {
		t.Fatal("OptionalString should be nil for non-strings")
	}
}
