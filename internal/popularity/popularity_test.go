package popularity

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/iliyamo/study-room-reservation/internal/model"
)

type counterServer struct {
	mu     sync.Mutex
	counts map[string]int64
	paths  []string
}

func (s *counterServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.paths = append(s.paths, r.URL.Path)
	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	if len(parts) != 3 {
		http.NotFound(w, r)
		return
	}
	id := parts[1] + "/" + parts[2]
	switch parts[0] {
	case "hit":
		s.counts[id]++
	case "get":
		if _, ok := s.counts[id]; !ok {
			http.NotFound(w, r)
			return
		}
	}
	w.Header().Set("Content-Type", "application/json")
	fmt.Fprintf(w, `{"value":%d}`, s.counts[id])
}

func TestClientHitAndGet(t *testing.T) {
	srv := &counterServer{counts: map[string]int64{}}
	ts := httptest.NewServer(srv)
	defer ts.Close()

	c := NewClient(ts.URL+"/", "studyroom.test", time.Second)
	ctx := context.Background()

	v, err := c.Get(ctx, "101")
	if err != nil || v != 0 {
		t.Fatalf("Get unhit = (%d, %v), want (0, nil)", v, err)
	}
	for i := 0; i < 3; i++ {
		if err := c.Hit(ctx, "101"); err != nil {
			t.Fatalf("Hit: %v", err)
		}
	}
	v, err = c.Get(ctx, "101")
	if err != nil || v != 3 {
		t.Fatalf("Get = (%d, %v), want (3, nil)", v, err)
	}
	if srv.paths[1] != "/hit/studyroom.test/room-101" {
		t.Errorf("hit path = %q", srv.paths[1])
	}
}

func TestClientErrors(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer ts.Close()

	c := NewClient(ts.URL, "ns", time.Second)
	if _, err := c.Get(context.Background(), "1"); err == nil {
		t.Error("Get should fail on 502")
	}
	if err := c.Hit(context.Background(), "1"); err == nil {
		t.Error("Hit should fail on 502")
	}

	ts.Close()
	if _, err := c.Get(context.Background(), "1"); err == nil {
		t.Error("Get should fail when the service is down")
	}
}

type fakeCounter struct {
	calls int
	value int64
	err   error
}

func (f *fakeCounter) Get(context.Context, string) (int64, error) {
	f.calls++
	return f.value, f.err
}

func TestCachedCounterWithoutRedis(t *testing.T) {
	next := &fakeCounter{value: 9}
	c := NewCachedCounter(next, nil, time.Minute, nil)
	for i := 0; i < 2; i++ {
		v, err := c.Get(context.Background(), "7")
		if err != nil || v != 9 {
			t.Fatalf("Get = (%d, %v)", v, err)
		}
	}
	if next.calls != 2 {
		t.Errorf("calls = %d, want pass-through", next.calls)
	}
	c.Forget(context.Background(), "7")
}

type hitterFunc func(ctx context.Context, room string) error

func (f hitterFunc) Hit(ctx context.Context, room string) error { return f(ctx, room) }

func TestDirectRecorder(t *testing.T) {
	done := make(chan string, 1)
	r := NewDirectRecorder(hitterFunc(func(_ context.Context, room string) error {
		return nil
	}), time.Second, nil)
	r.OnHit(func(room string) { done <- room })

	r.RecordReservation(model.Reservation{RoomNumber: "202"})
	select {
	case room := <-done:
		if room != "202" {
			t.Errorf("hit room = %q, want 202", room)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("hit was never sent")
	}

	failing := NewDirectRecorder(hitterFunc(func(context.Context, string) error {
		return errors.New("down")
	}), time.Second, nil)
	if err := failing.HitNow(context.Background(), "1"); err == nil {
		t.Error("HitNow should report the failure")
	}
}
