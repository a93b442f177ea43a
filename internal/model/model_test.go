package model

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestNormalizeDate(t *testing.T) {
	berlin, err := time.LoadLocation("Europe/Berlin")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}
	tests := []struct {
		name string
		in   time.Time
		loc  *time.Location
		want string
	}{
		{"utc afternoon", time.Date(2024, 3, 15, 14, 30, 0, 0, time.UTC), nil, "2024-03-15"},
		{"utc midnight", time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), time.UTC, "2024-03-15"},
		{"late utc is next day in berlin", time.Date(2024, 3, 14, 23, 0, 0, 0, time.UTC), berlin, "2024-03-15"},
		{"offset kept", time.Date(2024, 3, 15, 1, 0, 0, 0, time.FixedZone("X", 5*3600)), time.UTC, "2024-03-14"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeDate(tt.in, tt.loc)
			if got.Format(DateLayout) != tt.want {
				t.Fatalf("NormalizeDate = %s, want %s", got.Format(DateLayout), tt.want)
			}
			if got.Hour() != 0 || got.Minute() != 0 || got.Second() != 0 || got.Nanosecond() != 0 {
				t.Fatalf("NormalizeDate kept a time of day: %v", got)
			}
			if got.Location() != time.UTC {
				t.Fatalf("NormalizeDate location = %v, want UTC", got.Location())
			}
		})
	}
}

func TestUserJSONHidesPasswordHash(t *testing.T) {
	u := &User{ID: 7, Username: "alice", PasswordHash: "$2a$10$secret", Role: RoleStudent}
	b, err := json.Marshal(u)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(b), "secret") {
		t.Fatalf("password hash leaked: %s", b)
	}
	if !strings.Contains(string(b), `"role":"student"`) {
		t.Fatalf("unexpected JSON: %s", b)
	}
}

func TestRoleValid(t *testing.T) {
	if !RoleAdmin.Valid() || !RoleStudent.Valid() {
		t.Fatal("known roles reported invalid")
	}
	if Role("owner").Valid() {
		t.Fatal("unknown role reported valid")
	}
	var nilUser *User
	if nilUser.IsAdmin() {
		t.Fatal("nil user reported admin")
	}
}
