package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Profile selects a bundle of booking-policy defaults.
type Profile string

const (
	// ProfileStrict requires a day of notice, allows multi-slot bookings and
	// counts tables.
	ProfileStrict Profile = "strict"
	// ProfileSimple allows same-day bookings of a single slot and counts heads.
	ProfileSimple Profile = "simple"
)

// CapacityModel decides how a party is converted into capacity units.
type CapacityModel string

const (
	// CapacityTables consumes ceil(partySize/TableCapacity) units.
	CapacityTables CapacityModel = "tables"
	// CapacityHeadcount consumes partySize units.
	CapacityHeadcount CapacityModel = "headcount"
)

// Booking holds the knobs read by the availability and allocation engine.
type Booking struct {
	SlotMinutes       int
	TablesTotal       int
	TableCapacity     int
	MaxParty          int
	AdvanceNoticeDays int
	MaxDurationSlots  int
	CapacityModel     CapacityModel
	RetentionDays     int
	Location          *time.Location
}

type Auth struct {
	JWTSecret string
	AdminUser string
	AdminPass string
}

type SendGrid struct {
	APIKey    string
	FromEmail string
	FromName  string
}

type SMTP struct {
	Host string
	Port string
	User string
	Pass string
	From string
}

type Twilio struct {
	AccountSID string
	AuthToken  string
	FromNumber string
}

// Config is built once at startup and treated as read-only afterwards.
type Config struct {
	Port           string
	DatabaseURL    string
	Profile        Profile
	RestaurantName string
	LogLevel       string

	Booking     Booking
	WeeklyHours WeeklyHours

	Auth        Auth
	CORSOrigins []string

	SendGrid SendGrid
	SMTP     SMTP
	Twilio   Twilio

	NATSURL          string
	NotifyRatePerSec float64
	PurgeCron        string
}

var defaultCORSOrigins = []string{
	"http://localhost:5173",
	"http://127.0.0.1:5173",
	"https://paris-pub.vercel.app",
	"https://parispub1.vercel.app",
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from the given lookup function.
func FromEnv(getenv func(string) string) (*Config, error) {
	env := envReader{get: getenv}

	profile := Profile(strings.ToLower(env.str("PROFILE", string(ProfileStrict))))
	if profile != ProfileStrict && profile != ProfileSimple {
		return nil, fmt.Errorf("unknown PROFILE %q", profile)
	}

	cfg := &Config{
		Port:           env.str("PORT", "5000"),
		DatabaseURL:    env.str("DATABASE_URL", ""),
		Profile:        profile,
		RestaurantName: env.str("RESTAURANT_NAME", "Paris Pub"),
		LogLevel:       env.str("LOG_LEVEL", "info"),
		Auth: Auth{
			JWTSecret: env.str("JWT_SECRET", ""),
			AdminUser: env.str("ADMIN_USER", ""),
			AdminPass: env.str("ADMIN_PASS", ""),
		},
		CORSOrigins: env.list("CORS_ORIGINS", defaultCORSOrigins),
		SendGrid: SendGrid{
			APIKey:    env.str("SENDGRID_API_KEY", ""),
			FromEmail: env.str("SENDGRID_FROM_EMAIL", ""),
			FromName:  env.str("SENDGRID_FROM_NAME", ""),
		},
		SMTP: SMTP{
			Host: env.str("SMTP_HOST", ""),
			Port: env.str("SMTP_PORT", "587"),
			User: env.str("SMTP_USER", ""),
			Pass: env.str("SMTP_PASS", ""),
			From: env.str("FROM_EMAIL", ""),
		},
		Twilio: Twilio{
			AccountSID: env.str("TWILIO_ACCOUNT_SID", ""),
			AuthToken:  env.str("TWILIO_AUTH_TOKEN", ""),
			FromNumber: env.str("TWILIO_FROM_NUMBER", ""),
		},
		NATSURL:          env.str("NATS_URL", ""),
		NotifyRatePerSec: env.floatVal("NOTIFY_RATE_PER_SEC", 5),
		PurgeCron:        env.str("PURGE_CRON", "@every 1h"),
	}

	cfg.Booking = profileDefaults(profile)
	cfg.Booking.SlotMinutes = env.intVal("SLOT_MINUTES", cfg.Booking.SlotMinutes)
	cfg.Booking.TablesTotal = env.intVal("TABLES_TOTAL", cfg.Booking.TablesTotal)
	cfg.Booking.TableCapacity = env.intVal("TABLE_CAPACITY", cfg.Booking.TableCapacity)
	cfg.Booking.MaxParty = env.intVal("MAX_PARTY", cfg.Booking.MaxParty)
	cfg.Booking.AdvanceNoticeDays = env.intVal("ADVANCE_NOTICE_DAYS", cfg.Booking.AdvanceNoticeDays)
	cfg.Booking.MaxDurationSlots = env.intVal("MAX_DURATION_SLOTS", cfg.Booking.MaxDurationSlots)
	cfg.Booking.RetentionDays = env.intVal("RETENTION_DAYS", cfg.Booking.RetentionDays)
	cfg.Booking.CapacityModel = CapacityModel(strings.ToLower(env.str("CAPACITY_MODEL", string(cfg.Booking.CapacityModel))))

	loc, err := time.LoadLocation(env.str("TIMEZONE", "Local"))
	if err != nil {
		return nil, fmt.Errorf("TIMEZONE: %w", err)
	}
	cfg.Booking.Location = loc

	if path := env.str("WEEKLY_HOURS_FILE", ""); path != "" {
		hours, err := LoadWeeklyHours(path)
		if err != nil {
			return nil, err
		}
		cfg.WeeklyHours = hours
	} else {
		cfg.WeeklyHours = DefaultWeeklyHours()
	}

	if env.err != nil {
		return nil, env.err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func profileDefaults(p Profile) Booking {
	b := Booking{
		SlotMinutes:       30,
		TablesTotal:       10,
		TableCapacity:     4,
		MaxParty:          20,
		AdvanceNoticeDays: 1,
		MaxDurationSlots:  8,
		CapacityModel:     CapacityTables,
		RetentionDays:     3,
	}
	if p == ProfileSimple {
		b.MaxParty = 8
		b.AdvanceNoticeDays = 0
		b.MaxDurationSlots = 1
		b.CapacityModel = CapacityHeadcount
	}
	return b
}

// Validate checks the invariants every component relies on.
func (c *Config) Validate() error {
	var errs []error
	b := c.Booking
	if b.SlotMinutes <= 0 {
		errs = append(errs, errors.New("SLOT_MINUTES must be positive"))
	}
	if b.TablesTotal <= 0 {
		errs = append(errs, errors.New("TABLES_TOTAL must be positive"))
	}
	if b.TableCapacity <= 0 {
		errs = append(errs, errors.New("TABLE_CAPACITY must be positive"))
	}
	if b.MaxParty < 1 {
		errs = append(errs, errors.New("MAX_PARTY must be at least 1"))
	}
	if b.AdvanceNoticeDays < 0 {
		errs = append(errs, errors.New("ADVANCE_NOTICE_DAYS cannot be negative"))
	}
	if b.MaxDurationSlots < 1 {
		errs = append(errs, errors.New("MAX_DURATION_SLOTS must be at least 1"))
	}
	if b.RetentionDays < 0 {
		errs = append(errs, errors.New("RETENTION_DAYS cannot be negative"))
	}
	if b.CapacityModel != CapacityTables && b.CapacityModel != CapacityHeadcount {
		errs = append(errs, fmt.Errorf("unknown CAPACITY_MODEL %q", b.CapacityModel))
	}
	if c.NotifyRatePerSec <= 0 {
		errs = append(errs, errors.New("NOTIFY_RATE_PER_SEC must be positive"))
	}
	if err := c.WeeklyHours.Validate(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

type envReader struct {
	get func(string) string
	err error
}

func (e *envReader) str(key, def string) string {
	if v := strings.TrimSpace(e.get(key)); v != "" {
		return v
	}
	return def
}

func (e *envReader) intVal(key string, def int) int {
	v := strings.TrimSpace(e.get(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		e.err = errors.Join(e.err, fmt.Errorf("%s: %w", key, err))
		return def
	}
	return n
}

func (e *envReader) floatVal(key string, def float64) float64 {
	v := strings.TrimSpace(e.get(key))
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		e.err = errors.Join(e.err, fmt.Errorf("%s: %w", key, err))
		return def
	}
	return f
}

func (e *envReader) list(key string, def []string) []string {
	v := strings.TrimSpace(e.get(key))
	if v == "" {
		return append([]string(nil), def...)
	}
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
