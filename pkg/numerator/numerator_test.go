package numerator

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
)

// Mock objects
type mockRow struct {
	val int64
	err error
}

func (m *mockRow) Scan(dest ...any) error {
	if m.err != nil {
		return m.err
	}
	if len(dest) > 0 {
		if ptr, ok := dest[0].(*int64); ok {
			*ptr = m.val
		}
	}
	return nil
}

type mockQuerier struct {
	mu           sync.Mutex
	currentValue int64    // Simulates DB sequence value
	lastIncr     int64    // Track last increment passed
	keys         []string // Sequence keys seen, in call order
	calls        int
}

func (m *mockQuerier) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	m.mu.Lock()
	defer m.mu.Unlock()

	// Strict passes (key). Cached passes (key, increment).
	var increment int64 = 1
	if len(args) == 2 {
		if val, ok := args[1].(int64); ok {
			increment = val
		}
	}
	if len(args) > 0 {
		if key, ok := args[0].(string); ok {
			m.keys = append(m.keys, key)
		}
	}

	m.currentValue += increment
	m.lastIncr = increment
	m.calls++

	return &mockRow{val: m.currentValue}
}

func TestGetNextNumber_Strict(t *testing.T) {
	q := &mockQuerier{}
	svc := New(q)
	ctx := context.Background()
	cfg := DefaultConfig("REQ")
	period := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)

	num, err := svc.GetNextNumber(ctx, cfg, nil, period)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if num != "REQ-2026-00001" {
		t.Errorf("expected REQ-2026-00001, got %s", num)
	}

	num, err = svc.GetNextNumber(ctx, cfg, nil, period)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if num != "REQ-2026-00002" {
		t.Errorf("expected REQ-2026-00002, got %s", num)
	}

	// Every strict call hits the DB.
	if q.calls != 2 {
		t.Errorf("expected 2 DB calls, got %d", q.calls)
	}
	if q.lastIncr != 1 {
		t.Errorf("expected increment 1, got %d", q.lastIncr)
	}
}

func TestGetNextNumber_Cached(t *testing.T) {
	q := &mockQuerier{}
	svc := New(q)
	ctx := context.Background()
	cfg := DefaultConfig("ISS")
	period := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)

	opts := &Options{
		Strategy:  StrategyCached,
		RangeSize: 10,
	}

	// First call reserves 1..10: DB current_val jumps to 10,
	// the number handed out is 1.
	num, err := svc.GetNextNumber(ctx, cfg, opts, period)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if num != "ISS-2026-00001" {
		t.Errorf("expected ISS-2026-00001, got %s", num)
	}
	if q.currentValue != 10 {
		t.Errorf("expected DB value to be 10, got %d", q.currentValue)
	}
	if q.lastIncr != 10 {
		t.Errorf("expected increment 10, got %d", q.lastIncr)
	}

	// Subsequent calls within the range are served from memory.
	num, err = svc.GetNextNumber(ctx, cfg, opts, period)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if num != "ISS-2026-00002" {
		t.Errorf("expected ISS-2026-00002, got %s", num)
	}
	if q.calls != 1 {
		t.Errorf("expected 1 DB call, got %d", q.calls)
	}

	// Exhaust the rest of the range; the next call refills 11..20.
	for i := 0; i < 8; i++ {
		if _, err := svc.GetNextNumber(ctx, cfg, opts, period); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	num, err = svc.GetNextNumber(ctx, cfg, opts, period)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if num != "ISS-2026-00011" {
		t.Errorf("expected ISS-2026-00011, got %s", num)
	}
	if q.currentValue != 20 {
		t.Errorf("expected DB value to be 20, got %d", q.currentValue)
	}
	if q.calls != 2 {
		t.Errorf("expected 2 DB calls, got %d", q.calls)
	}
}

func TestGetNextNumber_SequenceKeys(t *testing.T) {
	q := &mockQuerier{}
	svc := New(q)
	ctx := context.Background()
	march := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	yearly := DefaultConfig("REQ")
	if _, err := svc.GetNextNumber(ctx, yearly, nil, march); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	monthly := DefaultConfig("RCV")
	monthly.ResetPeriod = "month"
	if _, err := svc.GetNextNumber(ctx, monthly, nil, march); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	forever := DefaultConfig("RRP")
	forever.ResetPeriod = "never"
	if _, err := svc.GetNextNumber(ctx, forever, nil, march); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"REQ_2026", "RCV_2026_03", "RRP"}
	if len(q.keys) != len(want) {
		t.Fatalf("expected %d keys, got %d", len(want), len(q.keys))
	}
	for i, k := range want {
		if q.keys[i] != k {
			t.Errorf("key %d: expected %s, got %s", i, k, q.keys[i])
		}
	}
}

func TestGetNextNumber_Formatting(t *testing.T) {
	q := &mockQuerier{currentValue: 41} // next strict value is 42
	svc := New(q)
	ctx := context.Background()
	period := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)

	cfg := Config{Prefix: "DOC", IncludeYear: false, PadWidth: 3, ResetPeriod: "never"}
	num, err := svc.GetNextNumber(ctx, cfg, nil, period)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if num != "DOC-042" {
		t.Errorf("expected DOC-042, got %s", num)
	}

	// Zero pad width falls back to 5 digits.
	cfg = Config{Prefix: "DOC", IncludeYear: true, ResetPeriod: "never"}
	num, err = svc.GetNextNumber(ctx, cfg, nil, period)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if num != "DOC-2026-00043" {
		t.Errorf("expected DOC-2026-00043, got %s", num)
	}
}

func TestNilServiceReturnsError(t *testing.T) {
	var svc *Service
	if _, err := svc.GetNextNumber(context.Background(), DefaultConfig("X"), nil, time.Now()); err == nil {
		t.Error("expected error from nil service")
	}
}

func TestMock_CountsPerPrefix(t *testing.T) {
	m := NewMock()
	ctx := context.Background()
	period := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	num, err := m.GetNextNumber(ctx, DefaultConfig("REQ"), nil, period)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if num != "REQ-2026-00001" {
		t.Errorf("expected REQ-2026-00001, got %s", num)
	}

	num, _ = m.GetNextNumber(ctx, DefaultConfig("RCV"), nil, period)
	if num != "RCV-2026-00001" {
		t.Errorf("expected RCV-2026-00001, got %s", num)
	}

	num, _ = m.GetNextNumber(ctx, DefaultConfig("REQ"), nil, period)
	if num != "REQ-2026-00002" {
		t.Errorf("expected REQ-2026-00002, got %s", num)
	}
}

var _ pgx.Row = (*mockRow)(nil)
