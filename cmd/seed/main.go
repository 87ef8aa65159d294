package main

import (
	"context"
	"log"
	"math/rand"
	"time"

	"go.uber.org/zap"

	"chargeshare/internal/app"
	"chargeshare/internal/config"
	"chargeshare/internal/domain/booking"
	"chargeshare/internal/domain/charger"
	jwtsvc "chargeshare/internal/pkg/jwt"
	"chargeshare/internal/pkg/logger"
)

var titles = []string{
	"Driveway L2 near the park",
	"Garage wallbox, easy access",
	"Rooftop DC fast bay",
	"Carport Tesla connector",
	"Office lot after hours",
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	zl, err := logger.New(false, "info")
	if err != nil {
		log.Fatalf("logger: %v", err)
	}

	a, err := app.New(cfg, zl)
	if err != nil {
		zl.Fatal("startup failed", zap.Error(err))
	}
	defer func() { _ = a.Close() }()

	ctx := context.Background()
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	// Cleanup old data
	log.Println("Cleaning old data...")
	a.DB.Exec("DELETE FROM bookings")
	a.DB.Exec("DELETE FROM chargers")

	// ================== CHARGERS ==================
	log.Println("Creating chargers...")

	weekdays := charger.Windows{}
	for d := 1; d <= 5; d++ {
		weekdays = append(weekdays, charger.AvailabilityWindow{DayOfWeek: d, StartTime: "07:00", EndTime: "22:00"})
	}
	specs := []struct {
		typ  charger.Type
		conn charger.Connector
		kw   float64
	}{
		{charger.TypeLevel2, charger.ConnectorJ1772, 7.2},
		{charger.TypeLevel2, charger.ConnectorType2, 11},
		{charger.TypeDCFast, charger.ConnectorCCS1, 50},
		{charger.TypeLevel2, charger.ConnectorNACS, 11.5},
		{charger.TypeLevel1, charger.ConnectorJ1772, 1.4},
	}

	var chargers []*charger.Charger
	for i, title := range titles {
		spec := specs[i%len(specs)]
		windows := weekdays
		if i%2 == 1 {
			// odd chargers are open whenever the empty-windows policy allows
			windows = nil
		}
		c, err := a.Chargers.Create(ctx, "owner-"+string(rune('1'+i%2)), charger.CreateChargerRequest{
			Title:         title,
			ChargerType:   spec.typ,
			ConnectorType: spec.conn,
			PowerKW:       spec.kw,
			HourlyRate:    float64(3+rng.Intn(6)) + 0.5,
			Windows:       windows,
		})
		if err != nil {
			log.Fatalf("create charger: %v", err)
		}
		if i < len(titles)-1 {
			if c, err = a.Chargers.SetStatus(ctx, c.ID, charger.StatusApproved); err != nil {
				log.Fatalf("approve charger: %v", err)
			}
		}
		chargers = append(chargers, c)
	}

	// ================== BOOKINGS ==================
	log.Println("Creating bookings...")

	// next Monday, so weekday windows apply
	day := time.Now().UTC().Truncate(24 * time.Hour).Add(24 * time.Hour)
	for day.Weekday() != time.Monday {
		day = day.Add(24 * time.Hour)
	}

	created := 0
	for _, c := range chargers[:len(chargers)-1] {
		for slot := 0; slot < 4; slot++ {
			start := day.Add(time.Duration(8+slot*3) * time.Hour)
			instant := rng.Intn(2) == 0
			b, err := a.Bookings.CreateBooking(ctx, "member-"+string(rune('1'+slot)), booking.CreateBookingRequest{
				ChargerID:   c.ID,
				StartTime:   start,
				EndTime:     start.Add(time.Duration(1+rng.Intn(2)) * time.Hour),
				InstantBook: &instant,
			})
			if err != nil {
				log.Printf("skip booking on %s: %v", c.Title, err)
				continue
			}
			created++
			if b.Status == booking.StatusPending && slot%2 == 0 {
				if _, err := a.Bookings.ConfirmBooking(ctx, b.ID, c.OwnerID, false); err != nil {
					log.Printf("confirm %s: %v", b.ID, err)
				}
			}
		}
	}

	// ================== TOKENS ==================
	tokens := jwtsvc.New(cfg.JWTSecret, 24*time.Hour)
	for _, u := range []struct{ id, role string }{
		{"admin-1", jwtsvc.RoleAdmin},
		{"owner-1", jwtsvc.RoleMember},
		{"member-1", jwtsvc.RoleMember},
	} {
		tok, err := tokens.GenerateToken(u.id, u.role)
		if err != nil {
			log.Fatalf("token: %v", err)
		}
		log.Printf("%s (%s): %s", u.id, u.role, tok)
	}

	log.Printf("Seed completed: chargers=%d bookings=%d", len(chargers), created)
}
