package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"courtly/internal/config"
	"courtly/internal/database"
	"courtly/internal/domain/billing"
	"courtly/internal/domain/booking"
	"courtly/internal/domain/court"
	"courtly/internal/domain/customer"
	"courtly/internal/domain/membership"
	"courtly/internal/domain/staff"
	"courtly/internal/pkg/apperr"
	"courtly/internal/pkg/events"
	jwtsvc "courtly/internal/pkg/jwt"
	"courtly/internal/pkg/logger"
	"courtly/internal/schema"
)

// seed fills a development database with staff accounts, courts, a few
// bookings and a gym member. Running it twice is harmless.
func main() {
	reset := flag.Bool("reset", false, "delete existing rows first")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	zl, err := logger.Init(cfg.AppEnv, cfg.LogLevel)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	if cfg.IsProdLike() {
		zl.Fatal("refusing to seed a production database")
	}
	loc, err := cfg.Location()
	if err != nil {
		zl.Fatal("timezone", zap.Error(err))
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		zl.Fatal("db connect failed", zap.Error(err))
	}
	if err := database.Migrate(db, schema.Models()...); err != nil {
		zl.Fatal("migrate failed", zap.Error(err))
	}
	if *reset {
		if err := wipe(db); err != nil {
			zl.Fatal("reset failed", zap.Error(err))
		}
		zl.Info("existing rows deleted")
	}

	ctx := context.Background()
	staffSvc := staff.NewService(staff.NewRepository(db), jwtsvc.New(cfg.JWTSecret, cfg.JWTTTL))
	courtSvc := court.NewService(court.NewRepository(db), loc)
	bookingSvc := booking.NewService(db, booking.NewRepository(db), billing.NewRecorder(), events.Nop{}, booking.Config{
		Location:           loc,
		CancellationCutoff: cfg.CancellationCutoff,
		MaxBookingDays:     cfg.MaxBookingDays,
	})
	memberSvc := membership.NewService(db, membership.NewRepository(db), events.Nop{}, loc)

	// ================== STAFF ==================
	accounts := []staff.CreateRequest{
		{Name: "Front Desk Admin", Email: "admin@courtly.in", Password: "admin12345", Role: staff.RoleAdmin},
		{Name: "Priya Nair", Email: "desk@courtly.in", PhoneNumber: "9811111111", Password: "desk12345", Role: staff.RoleReceptionist},
		{Name: "Ravi Kumar", Email: "ravi@courtly.in", PhoneNumber: "9822222222", Password: "trainer123", Role: staff.RoleTrainer},
	}
	for _, a := range accounts {
		_, err := staffSvc.Create(ctx, a)
		switch {
		case err == nil:
			zl.Info("staff created", zap.String("email", a.Email), zap.String("password", a.Password))
		case errors.Is(err, apperr.ErrConflict):
			zl.Info("staff exists", zap.String("email", a.Email))
		default:
			zl.Fatal("create staff", zap.String("email", a.Email), zap.Error(err))
		}
	}
	trainers, err := staffSvc.ListTrainers(ctx)
	if err != nil || len(trainers) == 0 {
		zl.Fatal("no trainer available", zap.Error(err))
	}

	// ================== COURTS ==================
	for i, surface := range []string{"grass", "clay", "hard"} {
		name := fmt.Sprintf("Court %d", i+1)
		if _, err := courtSvc.Create(ctx, court.CreateCourtRequest{CourtName: name, Surface: surface, TotalSlots: 16}); err != nil {
			if !errors.Is(err, apperr.ErrConflict) {
				zl.Fatal("create court", zap.String("court", name), zap.Error(err))
			}
		}
	}
	courts, err := courtSvc.List(ctx)
	if err != nil || len(courts) == 0 {
		zl.Fatal("no courts", zap.Error(err))
	}

	// ================== BOOKINGS ==================
	today := time.Now().In(loc)
	for i, window := range [][2]string{{"06:00", "07:00"}, {"18:00", "19:30"}, {"20:00", "21:00"}} {
		start := today.AddDate(0, 0, i)
		end := start.AddDate(0, 0, i)
		req := booking.BookSlotRequest{
			ScheduleFields: booking.ScheduleFields{
				CourtID:   courts[i%len(courts)].ID.String(),
				StartDate: start.Format(time.DateOnly),
				EndDate:   end.Format(time.DateOnly),
				StartTime: window[0],
				EndTime:   window[1],
			},
			PhoneNumber:    fmt.Sprintf("98765432%02d", i),
			FirstName:      []string{"Asha", "Vikram", "Neha"}[i],
			LastName:       "Demo",
			WhatsAppNumber: fmt.Sprintf("98765432%02d", i),
			Address:        fmt.Sprintf("%d MG Road", 10+i),
			PaymentFields: booking.PaymentFields{
				Amount:        ptr(float64(600 * (i + 1))),
				ModeOfPayment: []string{"cash", "upi", "card"}[i],
			},
		}
		cmd, err := req.Command(bookingSvc.Rules())
		if err != nil {
			zl.Fatal("build booking", zap.Error(err))
		}
		v, err := bookingSvc.Book(ctx, cmd)
		switch {
		case err == nil:
			zl.Info("booking created", zap.String("id", v.ID.String()), zap.String("court", v.CourtName))
		case errors.Is(err, booking.ErrOverlap):
			zl.Info("booking window already taken", zap.String("phone", req.PhoneNumber))
		default:
			zl.Fatal("book", zap.Error(err))
		}
	}

	// ================== GYM ==================
	reg := membership.RegisterRequest{
		PhoneNumber:        "9900000001",
		Name:               "Meera Iyer",
		Address:            "4 Lake View",
		WhatsAppNumber:     "9900000001",
		TrainerID:          trainers[0].ID.String(),
		UserType:           membership.UserTypeAthlete,
		SubscriptionMonths: ptr(3),
		Amount:             ptr(4500.0),
		ModeOfPayment:      "upi",
	}
	regCmd, err := reg.Command(loc, today)
	if err != nil {
		zl.Fatal("build membership", zap.Error(err))
	}
	if _, err := memberSvc.Register(ctx, regCmd); err != nil {
		zl.Info("membership not registered", zap.Error(err))
	}

	zl.Info("seed complete")
}

func wipe(db *gorm.DB) error {
	return db.Transaction(func(tx *gorm.DB) error {
		for _, m := range []any{
			&membership.GymBilling{}, &membership.Member{},
			&billing.Billing{}, &booking.Slot{}, &booking.Booking{},
			&customer.Customer{}, &court.Court{}, &staff.Staff{},
		} {
			if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(m).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func ptr[T any](v T) *T { return &v }
