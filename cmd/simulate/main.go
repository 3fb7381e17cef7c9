package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/url"
	"os"
	"sort"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/hackgods/clinic-scheduling-dashboard/internal/api"
	"github.com/hackgods/clinic-scheduling-dashboard/internal/config"
	"github.com/hackgods/clinic-scheduling-dashboard/internal/logging"
	"github.com/hackgods/clinic-scheduling-dashboard/internal/schedule"
)

type SimConfig struct {
	DashboardURL string
	Duration     time.Duration
	Workers      int
	BookingRatio float64
	DayRatio     float64
	MonthRatio   float64
	Location     *time.Location
}

type DataPool struct {
	Patients   []string
	Caretakers []string
}

type OperationMetrics struct {
	Total     int64
	Success   int64
	Rejected  int64
	Error     int64
	Latencies []time.Duration
	mu        sync.Mutex
}

// Record counts 2xx as success and 4xx as rejected; everything else,
// including transport failures (status 0), is an error.
func (om *OperationMetrics) Record(latency time.Duration, status int) {
	atomic.AddInt64(&om.Total, 1)
	switch {
	case status >= 200 && status < 300:
		atomic.AddInt64(&om.Success, 1)
	case status >= 400 && status < 500:
		atomic.AddInt64(&om.Rejected, 1)
	default:
		atomic.AddInt64(&om.Error, 1)
	}

	om.mu.Lock()
	om.Latencies = append(om.Latencies, latency)
	om.mu.Unlock()
}

func (om *OperationMetrics) Stats() (avg, min, max, p50, p95 time.Duration) {
	om.mu.Lock()
	defer om.mu.Unlock()

	if len(om.Latencies) == 0 {
		return 0, 0, 0, 0, 0
	}

	latencies := make([]time.Duration, len(om.Latencies))
	copy(latencies, om.Latencies)
	sort.Slice(latencies, func(i, j int) bool { return latencies[i] < latencies[j] })

	var sum time.Duration
	for _, l := range latencies {
		sum += l
	}

	avg = sum / time.Duration(len(latencies))
	min = latencies[0]
	max = latencies[len(latencies)-1]
	p50 = latencies[percentileIndex(len(latencies), 50)]
	p95 = latencies[percentileIndex(len(latencies), 95)]
	return avg, min, max, p50, p95
}

func percentileIndex(n, p int) int {
	idx := n * p / 100
	if idx >= n {
		idx = n - 1
	}
	return idx
}

type Metrics struct {
	Booking   OperationMetrics
	DayView   OperationMetrics
	MonthView OperationMetrics
}

type Simulator struct {
	config  SimConfig
	pool    *DataPool
	client  *http.Client
	logger  *zap.Logger
	metrics Metrics
}

func main() {
	base, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load error: %v\n", err)
		os.Exit(1)
	}
	logger, err := logging.New(base.Env, base.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	cfg := loadConfig(base.Location)
	if err := validateConfig(cfg); err != nil {
		logger.Fatal("invalid config", zap.Error(err))
	}
	logger.Info("simulator starting",
		zap.String("dashboard", cfg.DashboardURL),
		zap.Duration("duration", cfg.Duration),
		zap.Int("workers", cfg.Workers),
		zap.Float64("booking", cfg.BookingRatio),
		zap.Float64("day", cfg.DayRatio),
		zap.Float64("month", cfg.MonthRatio),
	)

	sim := &Simulator{
		config: cfg,
		client: &http.Client{Timeout: 10 * time.Second},
		logger: logger,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	pool, err := sim.loadDataPool(ctx)
	cancel()
	if err != nil {
		logger.Fatal("load data pool", zap.Error(err))
	}
	sim.pool = pool
	logger.Info("loaded people", zap.Int("patients", len(pool.Patients)), zap.Int("caretakers", len(pool.Caretakers)))

	sim.Run()
	sim.PrintReport()
}

func loadConfig(loc *time.Location) SimConfig {
	cfg := SimConfig{
		DashboardURL: strings.TrimRight(getEnv("SIM_DASHBOARD_URL", "http://localhost:8080"), "/"),
		Duration:     getDuration("SIM_DURATION", 30*time.Second),
		Workers:      getInt("SIM_WORKERS", 10),
		BookingRatio: getFloat("SIM_BOOKING_RATIO", 0.2),
		DayRatio:     getFloat("SIM_DAY_RATIO", 0.4),
		MonthRatio:   getFloat("SIM_MONTH_RATIO", 0.4),
		Location:     loc,
	}

	total := cfg.BookingRatio + cfg.DayRatio + cfg.MonthRatio
	if total > 0 {
		cfg.BookingRatio /= total
		cfg.DayRatio /= total
		cfg.MonthRatio /= total
	}
	return cfg
}

func validateConfig(cfg SimConfig) error {
	if cfg.Workers <= 0 {
		return fmt.Errorf("SIM_WORKERS must be > 0")
	}
	if cfg.Duration <= 0 {
		return fmt.Errorf("SIM_DURATION must be > 0")
	}
	return nil
}

func (s *Simulator) loadDataPool(ctx context.Context) (*DataPool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.config.DashboardURL+"/api/people", nil)
	if err != nil {
		return nil, err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("list people: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("list people: status %d", resp.StatusCode)
	}

	var people api.PeopleResponse
	if err := json.NewDecoder(resp.Body).Decode(&people); err != nil {
		return nil, fmt.Errorf("decode people: %w", err)
	}

	pool := &DataPool{}
	for _, p := range people.Patients {
		pool.Patients = append(pool.Patients, p.ID)
	}
	for _, p := range people.Caretakers {
		pool.Caretakers = append(pool.Caretakers, p.ID)
	}
	if len(pool.Patients) == 0 || len(pool.Caretakers) == 0 {
		return nil, fmt.Errorf("need at least one patient and one caretaker, run cmd/seed first")
	}
	return pool, nil
}

func (s *Simulator) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), s.config.Duration)
	defer cancel()

	var wg sync.WaitGroup
	for i := 0; i < s.config.Workers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			s.worker(ctx, workerID)
		}(i)
	}

	wg.Wait()
	s.logger.Info("simulation complete")
}

func (s *Simulator) worker(ctx context.Context, workerID int) {
	rng := rand.New(rand.NewSource(time.Now().UnixNano() + int64(workerID)))

	for {
		select {
		case <-ctx.Done():
			return
		default:
			r := rng.Float64()
			switch {
			case r < s.config.BookingRatio:
				s.doBooking(ctx, rng)
			case r < s.config.BookingRatio+s.config.DayRatio:
				s.doView(ctx, rng, schedule.ModeDay, &s.metrics.DayView)
			default:
				s.doView(ctx, rng, schedule.ModeMonth, &s.metrics.MonthView)
			}
		}
	}
}

// randomDay picks a day within two weeks either side of today.
func (s *Simulator) randomDay(rng *rand.Rand) time.Time {
	return time.Now().In(s.config.Location).AddDate(0, 0, rng.Intn(29)-14)
}

func (s *Simulator) doBooking(ctx context.Context, rng *rand.Rand) {
	hour := schedule.SlotMinHour + rng.Intn(schedule.SlotMaxHour-schedule.SlotMinHour)
	time12, _ := schedule.To12Hour(fmt.Sprintf("%02d:00", hour))

	draft := schedule.AppointmentDraft{
		Room:      schedule.MinRoom + rng.Intn(schedule.MaxRoom),
		Date:      s.randomDay(rng).Format(schedule.DateLayout),
		Time:      time12,
		PatientID: s.pool.Patients[rng.Intn(len(s.pool.Patients))],
		DoctorID:  s.pool.Caretakers[rng.Intn(len(s.pool.Caretakers))],
		Urgency:   1 + rng.Intn(3),
	}
	body, _ := json.Marshal(draft)

	req, _ := http.NewRequestWithContext(ctx, http.MethodPost, s.config.DashboardURL+"/api/appointments", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	s.exchange(ctx, req, &s.metrics.Booking)
}

func (s *Simulator) doView(ctx context.Context, rng *rand.Rand, mode schedule.Mode, om *OperationMetrics) {
	q := url.Values{}
	q.Set("view", string(mode))
	q.Set("date", s.randomDay(rng).Format(schedule.DateLayout))
	if rng.Intn(4) == 0 {
		q.Set("patient_id", s.pool.Patients[rng.Intn(len(s.pool.Patients))])
	}

	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, s.config.DashboardURL+"/api/calendar?"+q.Encode(), nil)
	s.exchange(ctx, req, om)
}

func (s *Simulator) exchange(ctx context.Context, req *http.Request, om *OperationMetrics) {
	start := time.Now()
	resp, err := s.client.Do(req)
	latency := time.Since(start)
	if err != nil {
		if ctx.Err() == nil {
			om.Record(latency, 0)
		}
		return
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	om.Record(latency, resp.StatusCode)
}

func (s *Simulator) PrintReport() {
	fmt.Println("\n=== Simulation Report ===")
	fmt.Printf("Duration: %s  Workers: %d\n\n", s.config.Duration, s.config.Workers)
	fmt.Printf("%-12s %8s %8s %8s %8s %10s %10s %10s %10s\n",
		"op", "total", "ok", "4xx", "error", "avg", "p50", "p95", "max")

	rows := []struct {
		name string
		om   *OperationMetrics
	}{
		{"booking", &s.metrics.Booking},
		{"day_view", &s.metrics.DayView},
		{"month_view", &s.metrics.MonthView},
	}
	for _, row := range rows {
		avg, _, max, p50, p95 := row.om.Stats()
		fmt.Printf("%-12s %8d %8d %8d %8d %10s %10s %10s %10s\n",
			row.name,
			atomic.LoadInt64(&row.om.Total),
			atomic.LoadInt64(&row.om.Success),
			atomic.LoadInt64(&row.om.Rejected),
			atomic.LoadInt64(&row.om.Error),
			avg.Round(time.Microsecond), p50.Round(time.Microsecond),
			p95.Round(time.Microsecond), max.Round(time.Microsecond),
		)
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func getDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
