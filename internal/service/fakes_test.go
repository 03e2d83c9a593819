package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"parispub/internal/config"
	"parispub/internal/db"
	"parispub/internal/entities"
)

// 2025-09-15 is a Monday.
var testNow = time.Date(2025, 9, 15, 10, 0, 0, 0, time.UTC)

func testConfig(profile config.Profile) *config.Config {
	b := config.Booking{
		SlotMinutes:       30,
		TablesTotal:       10,
		TableCapacity:     4,
		MaxParty:          20,
		AdvanceNoticeDays: 1,
		MaxDurationSlots:  8,
		CapacityModel:     config.CapacityTables,
		RetentionDays:     3,
		Location:          time.UTC,
	}
	if profile == config.ProfileSimple {
		b.MaxParty = 8
		b.AdvanceNoticeDays = 0
		b.MaxDurationSlots = 1
		b.CapacityModel = config.CapacityHeadcount
	}
	return &config.Config{
		Profile:        profile,
		RestaurantName: "Paris Pub",
		Booking:        b,
		WeeklyHours:    config.DefaultWeeklyHours(),
	}
}

func newTestService(cfg *config.Config, store ReservationStore, queue ConfirmationQueue) *ReservationService {
	policy := NewDayPolicy(cfg.WeeklyHours, cfg.Booking, FixedClock{T: testNow})
	return NewReservationService(store, policy, cfg, queue, nil)
}

type memStore struct {
	mu     sync.Mutex
	rows   []db.Reservation
	nextID int64

	failCreate error
	afterRead  func()
}

func newMemStore() *memStore {
	return &memStore{}
}

func (m *memStore) seed(date, slot string, units int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	m.rows = append(m.rows, db.Reservation{
		ID: m.nextID, Name: "seed", Date: date, Time: slot, PartySize: 1,
		TablesNeeded: units, ExpiresAt: testNow.Add(30 * 24 * time.Hour),
	})
}

func (m *memStore) UsageByDate(_ context.Context, date string) (map[string]int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	usage := map[string]int{}
	for _, r := range m.rows {
		if r.Date == date && r.ExpiresAt.After(testNow) {
			usage[r.Time] += r.TablesNeeded
		}
	}
	return usage, nil
}

func (m *memStore) UsageForTimes(ctx context.Context, date string, times []string) (map[string]int, error) {
	all, _ := m.UsageByDate(ctx, date)
	usage := map[string]int{}
	for _, t := range times {
		if v, ok := all[t]; ok {
			usage[t] = v
		}
	}
	if hook := m.takeHook(); hook != nil {
		hook()
	}
	return usage, nil
}

func (m *memStore) takeHook() func() {
	m.mu.Lock()
	defer m.mu.Unlock()
	hook := m.afterRead
	m.afterRead = nil
	return hook
}

func (m *memStore) CreateReservations(_ context.Context, rows []*db.Reservation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failCreate != nil {
		return m.failCreate
	}
	for _, r := range rows {
		m.nextID++
		r.ID = m.nextID
		r.CreatedAt = testNow
		r.UpdatedAt = testNow
		m.rows = append(m.rows, *r)
	}
	return nil
}

func (m *memStore) ListReservations(_ context.Context, date string) ([]db.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []db.Reservation
	for _, r := range m.rows {
		if date == "" || r.Date == date {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		return out[i].Time < out[j].Time
	})
	return out, nil
}

func (m *memStore) DeleteReservation(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, r := range m.rows {
		if r.ID == id {
			m.rows = append(m.rows[:i], m.rows[i+1:]...)
			break
		}
	}
	return nil
}

func (m *memStore) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.rows[:0]
	var n int64
	for _, r := range m.rows {
		if r.ExpiresAt.After(now) {
			kept = append(kept, r)
			continue
		}
		n++
	}
	m.rows = kept
	return n, nil
}

func (m *memStore) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.rows)
}

type recordingQueue struct {
	mu    sync.Mutex
	items []entities.ConfirmationData
	full  bool
}

func (q *recordingQueue) Enqueue(d entities.ConfirmationData) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.full {
		return false
	}
	q.items = append(q.items, d)
	return true
}

var errStorage = errors.New("storage unavailable")

func intPtr(v int) *int { return &v }
