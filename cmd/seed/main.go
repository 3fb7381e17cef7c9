package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"go.uber.org/zap"

	"github.com/hackgods/clinic-scheduling-dashboard/internal/clinicapi"
	"github.com/hackgods/clinic-scheduling-dashboard/internal/config"
	"github.com/hackgods/clinic-scheduling-dashboard/internal/logging"
	"github.com/hackgods/clinic-scheduling-dashboard/internal/schedule"
)

var visitNotes = []string{
	"",
	"Follow up on lab results",
	"Annual checkup",
	"Medication review",
	"New patient intake",
	"Post-op review",
	"Blood pressure check",
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load error: %v\n", err)
		os.Exit(1)
	}
	logger, err := logging.New(cfg.Env, cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	caretakers := envInt("SEED_CARETAKERS", 5)
	patients := envInt("SEED_PATIENTS", 30)
	appointments := envInt("SEED_APPOINTMENTS", 60)
	logger.Info("seed starting",
		zap.String("clinic_api", cfg.ClinicAPIURL),
		zap.Int("caretakers", caretakers),
		zap.Int("patients", patients),
		zap.Int("appointments", appointments),
	)

	gofakeit.Seed(time.Now().UnixNano())

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	client := clinicapi.NewClient(cfg.ClinicAPIURL, cfg.ClinicAPITimeout, logger, nil)

	doctorIDs, err := seedPeople(ctx, client, logger, schedule.StatusDoctor, caretakers)
	if err != nil {
		logger.Fatal("seed caretakers", zap.Error(err))
	}
	patientIDs, err := seedPeople(ctx, client, logger, schedule.StatusPatient, patients)
	if err != nil {
		logger.Fatal("seed patients", zap.Error(err))
	}
	if err := seedAppointments(ctx, client, logger, cfg.Location, patientIDs, doctorIDs, appointments); err != nil {
		logger.Fatal("seed appointments", zap.Error(err))
	}

	logger.Info("seed complete")
}

func seedPeople(ctx context.Context, client *clinicapi.Client, logger *zap.Logger, status string, count int) ([]string, error) {
	ids := make([]string, 0, count)
	for i := 0; i < count; i++ {
		name := gofakeit.Name()
		if status == schedule.StatusDoctor {
			name = "Dr. " + name
		}
		p := schedule.Person{
			Name:        name,
			Status:      status,
			Email:       gofakeit.Email(),
			PhoneNumber: schedule.FormatPhoneNumber(gofakeit.Phone()),
			Address:     fmt.Sprintf("%s, %s", gofakeit.Street(), gofakeit.City()),
		}
		if err := schedule.ValidatePerson(p); err != nil {
			return nil, err
		}
		created, err := client.CreatePerson(ctx, p)
		if err != nil {
			return nil, err
		}
		if created.ID != "" {
			ids = append(ids, created.ID)
		}
	}
	logger.Info("people seeded", zap.String("status", status), zap.Int("count", len(ids)))
	return ids, nil
}

// seedAppointments spreads bookings over the current month grid, every room,
// every day-view slot and all urgencies.
func seedAppointments(ctx context.Context, client *clinicapi.Client, logger *zap.Logger, loc *time.Location, patientIDs, doctorIDs []string, count int) error {
	if len(patientIDs) == 0 || len(doctorIDs) == 0 {
		logger.Warn("no people to book, skipping appointments")
		return nil
	}

	grid := schedule.MonthGridRange(time.Now().In(loc))
	days := int(grid.End.Sub(grid.Start).Hours() / 24)

	for i := 0; i < count; i++ {
		day := grid.Start.AddDate(0, 0, gofakeit.Number(0, days-1))
		hour := gofakeit.Number(schedule.SlotMinHour, schedule.SlotMaxHour-1)
		time12, err := schedule.To12Hour(fmt.Sprintf("%02d:00", hour))
		if err != nil {
			return err
		}

		draft := schedule.AppointmentDraft{
			Room:      gofakeit.Number(schedule.MinRoom, schedule.MaxRoom),
			Date:      day.Format(schedule.DateLayout),
			Time:      time12,
			PatientID: gofakeit.RandomString(patientIDs),
			DoctorID:  gofakeit.RandomString(doctorIDs),
			Urgency:   gofakeit.Number(int(schedule.UrgencyLow), int(schedule.UrgencyHigh)),
			Notes:     gofakeit.RandomString(visitNotes),
		}
		a, err := draft.Build(nil)
		if err != nil {
			return err
		}
		if _, err := client.SaveAppointment(ctx, a); err != nil {
			return err
		}
	}
	logger.Info("appointments seeded", zap.Int("count", count), zap.String("from", grid.Start.Format(schedule.DateLayout)))
	return nil
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			return n
		}
	}
	return def
}
