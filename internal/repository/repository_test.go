package repository

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/iliyamo/study-room-reservation/internal/database"
	"github.com/iliyamo/study-room-reservation/internal/model"
	"github.com/iliyamo/study-room-reservation/internal/session"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.OpenSQLite(filepath.Join(t.TempDir(), "repo.db"))
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if err := database.Migrate(context.Background(), db, database.DriverSQLite); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	return db
}

func day(s string) time.Time {
	d, err := time.Parse(model.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return d
}

func strPtr(s string) *string { return &s }

func TestRoomRepoLifecycle(t *testing.T) {
	ctx := context.Background()
	repo := NewRoomRepo(openTestDB(t))

	for _, rm := range []model.Room{
		{RoomNumber: "2", Level: "1"},
		{RoomNumber: "10", Level: "1", Name: strPtr("Quiet")},
		{RoomNumber: "301", Level: "3"},
		{RoomNumber: "201", Level: "2"},
	} {
		if _, err := repo.Create(ctx, rm); err != nil {
			t.Fatalf("Create(%s): %v", rm.RoomNumber, err)
		}
	}
	if _, err := repo.Create(ctx, model.Room{RoomNumber: "2", Level: "9"}); !errors.Is(err, ErrConflict) {
		t.Fatalf("duplicate Create err = %v, want ErrConflict", err)
	}

	rooms, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	var got []string
	for _, r := range rooms {
		got = append(got, r.RoomNumber)
	}
	want := []string{"10", "2", "201", "301"}
	if len(got) != len(want) {
		t.Fatalf("List = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("List = %v, want %v", got, want)
		}
	}
	if rooms[0].Name == nil || *rooms[0].Name != "Quiet" {
		t.Errorf("room 10 name = %v, want Quiet", rooms[0].Name)
	}
	if rooms[1].Name != nil {
		t.Errorf("room 2 name = %v, want nil", *rooms[1].Name)
	}

	// nil fields keep their stored value
	upd, err := repo.Update(ctx, "10", model.RoomUpdate{Level: strPtr("4")})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if upd.Level != "4" || upd.Name == nil || *upd.Name != "Quiet" {
		t.Errorf("Update = %+v", upd)
	}
	if _, err := repo.Update(ctx, "10", model.RoomUpdate{}); err != nil {
		t.Errorf("no-op Update: %v", err)
	}
	if _, err := repo.Update(ctx, "999", model.RoomUpdate{Level: strPtr("1")}); !errors.Is(err, ErrNotFound) {
		t.Errorf("Update missing err = %v, want ErrNotFound", err)
	}

	if err := repo.Delete(ctx, "301"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := repo.Delete(ctx, "301"); !errors.Is(err, ErrNotFound) {
		t.Errorf("second Delete err = %v, want ErrNotFound", err)
	}
	if _, err := repo.Get(ctx, "301"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get deleted err = %v, want ErrNotFound", err)
	}
	ok, err := repo.Exists(ctx, "201")
	if err != nil || !ok {
		t.Errorf("Exists(201) = %v, %v", ok, err)
	}
	if n, _ := repo.Count(ctx); n != 3 {
		t.Errorf("Count = %d, want 3", n)
	}
}

func TestReservationRepoUniqueSlot(t *testing.T) {
	ctx := context.Background()
	repo := NewReservationRepo(openTestDB(t))

	first, err := repo.Create(ctx, "Ada", "101", day("2024-03-15"))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if first.ID == 0 || !first.ReservationDate.Equal(day("2024-03-15")) {
		t.Fatalf("Create returned %+v", first)
	}

	if _, err := repo.Create(ctx, "Bob", "101", day("2024-03-15")); !errors.Is(err, ErrConflict) {
		t.Fatalf("same slot err = %v, want ErrConflict", err)
	}
	if _, err := repo.Create(ctx, "Bob", "101", day("2024-03-16")); err != nil {
		t.Fatalf("next day: %v", err)
	}
	if _, err := repo.Create(ctx, "Bob", "102", day("2024-03-15")); err != nil {
		t.Fatalf("other room: %v", err)
	}

	held, err := repo.GetByRoomAndDate(ctx, "101", day("2024-03-15"))
	if err != nil {
		t.Fatalf("GetByRoomAndDate: %v", err)
	}
	if held.StudentName != "Ada" {
		t.Errorf("slot held by %q, want Ada", held.StudentName)
	}
	if _, err := repo.GetByRoomAndDate(ctx, "101", day("2024-03-17")); !errors.Is(err, ErrNotFound) {
		t.Errorf("free slot err = %v, want ErrNotFound", err)
	}

	all, err := repo.ListAll(ctx)
	if err != nil {
		t.Fatalf("ListAll: %v", err)
	}
	if len(all) != 3 || all[len(all)-1].ID != first.ID {
		t.Fatalf("ListAll not newest first: %+v", all)
	}

	byRoom, err := repo.ListByRoom(ctx, "101")
	if err != nil {
		t.Fatalf("ListByRoom: %v", err)
	}
	if len(byRoom) != 2 || !byRoom[0].ReservationDate.Equal(day("2024-03-15")) {
		t.Fatalf("ListByRoom = %+v", byRoom)
	}

	total, recent, rooms, err := repo.Counts(ctx, time.Now().Add(-24*time.Hour))
	if err != nil {
		t.Fatalf("Counts: %v", err)
	}
	if total != 3 || recent != 3 || rooms != 2 {
		t.Errorf("Counts = %d,%d,%d want 3,3,2", total, recent, rooms)
	}

	if err := repo.Delete(ctx, first.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := repo.Delete(ctx, first.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second Delete err = %v, want ErrNotFound", err)
	}
	// the slot is free again
	if _, err := repo.Create(ctx, "Cy", "101", day("2024-03-15")); err != nil {
		t.Errorf("rebook freed slot: %v", err)
	}
}

func TestReservationRepoConcurrentInsert(t *testing.T) {
	ctx := context.Background()
	repo := NewReservationRepo(openTestDB(t))

	const workers = 16
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		ok, dupes int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.Create(ctx, "racer", "101", day("2024-05-01"))
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				ok++
			case errors.Is(err, ErrConflict):
				dupes++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()
	if ok != 1 || dupes != workers-1 {
		t.Fatalf("successes=%d conflicts=%d, want 1 and %d", ok, dupes, workers-1)
	}
}

func TestUserRepo(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepo(openTestDB(t))

	u, err := repo.Create(ctx, "  alice ", "hash", model.RoleStudent)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if u.Username != "alice" {
		t.Errorf("Username = %q, want trimmed", u.Username)
	}
	if _, err := repo.Create(ctx, "alice", "hash2", model.RoleAdmin); !errors.Is(err, ErrConflict) {
		t.Fatalf("duplicate err = %v, want ErrConflict", err)
	}

	got, err := repo.GetByUsername(ctx, "alice")
	if err != nil {
		t.Fatalf("GetByUsername: %v", err)
	}
	if got.ID != u.ID || got.Role != model.RoleStudent || got.PasswordHash != "hash" {
		t.Errorf("GetByUsername = %+v", got)
	}
	if _, err := repo.GetByID(ctx, u.ID+100); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetByID missing err = %v, want ErrNotFound", err)
	}
}

func TestSessionRepo(t *testing.T) {
	ctx := context.Background()
	repo := NewSessionRepo(openTestDB(t))
	now := time.Now().UTC()

	live := session.Record{ID: "live", UserID: 7, ExpiresAt: now.Add(time.Hour)}
	dead := session.Record{ID: "dead", UserID: 8, ExpiresAt: now.Add(-time.Hour)}
	for _, rec := range []session.Record{live, dead} {
		if err := repo.Save(ctx, rec); err != nil {
			t.Fatalf("Save(%s): %v", rec.ID, err)
		}
	}

	got, err := repo.Load(ctx, "live")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.UserID != 7 {
		t.Errorf("UserID = %d, want 7", got.UserID)
	}
	if _, err := repo.Load(ctx, "dead"); !errors.Is(err, session.ErrNotFound) {
		t.Errorf("expired Load err = %v, want session.ErrNotFound", err)
	}

	n, err := repo.PruneExpired(ctx, now)
	if err != nil || n != 1 {
		t.Errorf("PruneExpired = %d, %v want 1", n, err)
	}

	if err := repo.Delete(ctx, "live"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := repo.Load(ctx, "live"); !errors.Is(err, session.ErrNotFound) {
		t.Errorf("deleted Load err = %v, want session.ErrNotFound", err)
	}
}

func TestTimeScannerFormats(t *testing.T) {
	want := time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)
	for _, src := range []any{
		want,
		"2024-03-15 10:30:00.000000",
		[]byte("2024-03-15T10:30:00Z"),
		"2024-03-15 10:30:00+00:00",
	} {
		var got time.Time
		if err := (timeScanner{&got}).Scan(src); err != nil {
			t.Fatalf("Scan(%v): %v", src, err)
		}
		if !got.Equal(want) {
			t.Errorf("Scan(%v) = %v, want %v", src, got, want)
		}
	}
	var got time.Time
	if err := (timeScanner{&got}).Scan(42); err == nil {
		t.Error("Scan(int) should fail")
	}
}
