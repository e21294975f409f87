// Package config reads the process configuration from the environment.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"pns/internal/names/fee"
	"pns/internal/names/models"
	id "pns/pkg/domain"
	strutil "pns/pkg/platform/strings"
)

// Config is the full process configuration.
type Config struct {
	Server   Server
	Log      Log
	Auth     Auth
	Registry Registry
	Postgres Postgres
	Redis    RedisConfig
	Kafka    Kafka
}

// Server captures HTTP server level configuration.
type Server struct {
	Addr            string
	ShutdownTimeout time.Duration
}

// Log selects the slog handler.
type Log struct {
	Level  slog.Level
	Format string // "json" or "text"
}

// Auth configures bearer token validation.
type Auth struct {
	JWTSigningKey string
	Issuer        string
	Audience      string
	TokenTTL      time.Duration
}

// Registry is the static policy plus the settings seeded on first start.
type Registry struct {
	Policy          models.Policy
	Settings        models.Settings
	Admins          []id.Address
	RailOperator    id.Address
	SupportedTokens []id.Address
	TokenDecimals   int32
}

// Postgres selects the durable store. An empty URL keeps state in memory.
type Postgres struct {
	URL string
}

// RedisConfig configures the airdrop entitlement store. An empty URL keeps
// entitlements in memory.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Kafka configures the audit publisher. No brokers keeps audit in memory.
type Kafka struct {
	Brokers    []string
	AuditTopic string
}

const devSigningKey = "dev-secret-key-change-in-production"

// FromEnv builds the configuration from environment variables so main
// stays lean. Unset variables take development defaults.
func FromEnv() (Config, error) {
	e := &env{lookup: os.LookupEnv}

	cfg := Config{
		Server: Server{
			Addr:            e.str("PNS_ADDR", ":8080"),
			ShutdownTimeout: e.duration("PNS_SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Log: Log{
			Level:  e.level("PNS_LOG_LEVEL", slog.LevelInfo),
			Format: strings.ToLower(e.str("PNS_LOG_FORMAT", "json")),
		},
		Auth: Auth{
			JWTSigningKey: e.str("PNS_JWT_SIGNING_KEY", devSigningKey),
			Issuer:        e.str("PNS_JWT_ISSUER", "pns"),
			Audience:      e.str("PNS_JWT_AUDIENCE", "pns-api"),
			TokenTTL:      e.duration("PNS_TOKEN_TTL", time.Hour),
		},
		Postgres: Postgres{URL: e.str("DATABASE_URL", "")},
		Redis: RedisConfig{
			URL:          e.str("REDIS_URL", ""),
			PoolSize:     e.integer("REDIS_POOL_SIZE", 10),
			MinIdleConns: e.integer("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  e.duration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  e.duration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: e.duration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		Kafka: Kafka{
			Brokers:    strutil.SplitList(e.str("KAFKA_BROKERS", "")),
			AuditTopic: e.str("KAFKA_AUDIT_TOPIC", "pns.audit"),
		},
	}
	cfg.Registry = e.registry()

	if e.err != nil {
		return Config{}, e.err
	}
	if cfg.Log.Format != "json" && cfg.Log.Format != "text" {
		return Config{}, fmt.Errorf("PNS_LOG_FORMAT must be json or text, got %q", cfg.Log.Format)
	}
	if err := cfg.Registry.Policy.Validate(); err != nil {
		return Config{}, fmt.Errorf("registry policy: %w", err)
	}
	return cfg, nil
}

// IsDevSigningKey reports whether tokens are signed with the built-in key.
func (c Config) IsDevSigningKey() bool {
	return c.Auth.JWTSigningKey == devSigningKey
}

func (e *env) registry() Registry {
	defaults := models.DefaultPolicy()
	policy := models.Policy{
		YearLength:           e.int64("PNS_YEAR_SECONDS", defaults.YearLength),
		MaxYears:             e.uint32("PNS_MAX_YEARS", defaults.MaxYears),
		MaxNameLength:        e.integer("PNS_MAX_NAME_LENGTH", defaults.MaxNameLength),
		MaxRecordLength:      e.integer("PNS_MAX_RECORD_LENGTH", defaults.MaxRecordLength),
		MaxCustomRecords:     e.integer("PNS_MAX_CUSTOM_RECORDS", defaults.MaxCustomRecords),
		MintCap:              e.uint32("PNS_MINT_CAP", defaults.MintCap),
		ExpiredNamesMintable: e.boolean("PNS_EXPIRED_NAMES_MINTABLE", defaults.ExpiredNamesMintable),
		ExpiryGrace:          e.int64("PNS_EXPIRY_GRACE_SECONDS", defaults.ExpiryGrace),
		AllowExpiredTransfer: e.boolean("PNS_ALLOW_EXPIRED_TRANSFER", defaults.AllowExpiredTransfer),
		InheritedClasses:     defaults.InheritedClasses,
	}
	if raw, ok := e.lookup("PNS_INHERITED_RECORD_CLASSES"); ok {
		policy.InheritedClasses = nil
		for _, v := range strutil.SplitList(raw) {
			class, err := models.ParseRecordClass(v)
			if err != nil {
				e.fail("PNS_INHERITED_RECORD_CLASSES", err)
				continue
			}
			policy.InheritedClasses = append(policy.InheritedClasses, class)
		}
	}

	settings := models.DefaultSettings()
	settings.FeeTiers = e.tiers("PNS_FEE_TIERS", settings.FeeTiers)
	settings.PaymentToken = e.address("PNS_PAYMENT_TOKEN")
	settings.PaymentReceiver = e.address("PNS_PAYMENT_RECEIVER")
	settings.WhitelistPhase = e.boolean("PNS_WHITELIST_PHASE", false)

	tokens := e.addresses("PNS_SUPPORTED_TOKENS")
	if len(tokens) == 0 && !settings.PaymentToken.IsNil() {
		tokens = []id.Address{settings.PaymentToken}
	}

	return Registry{
		Policy:          policy,
		Settings:        settings,
		Admins:          e.addresses("PNS_ADMIN_ADDRESSES"),
		RailOperator:    e.address("PNS_PAYMENT_RAIL_ADDRESS"),
		SupportedTokens: tokens,
		TokenDecimals:   e.decimals("PNS_TOKEN_DECIMALS", 18),
	}
}

// env reads typed variables and keeps the first parse error.
type env struct {
	lookup func(string) (string, bool)
	err    error
}

func (e *env) fail(key string, err error) {
	if e.err == nil {
		e.err = fmt.Errorf("%s: %w", key, err)
	}
}

func (e *env) raw(key string) (string, bool) {
	v, ok := e.lookup(key)
	v = strings.TrimSpace(v)
	return v, ok && v != ""
}

func (e *env) str(key, def string) string {
	if v, ok := e.raw(key); ok {
		return v
	}
	return def
}

func (e *env) integer(key string, def int) int {
	v, ok := e.raw(key)
	if !ok {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		e.fail(key, err)
		return def
	}
	return n
}

func (e *env) int64(key string, def int64) int64 {
	v, ok := e.raw(key)
	if !ok {
		return def
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		e.fail(key, err)
		return def
	}
	return n
}

// decimals reads a token's decimal places, which must fit an int32 and not be
// negative.
func (e *env) decimals(key string, def int32) int32 {
	v, ok := e.raw(key)
	if !ok {
		return def
	}
	n, err := strconv.ParseInt(v, 10, 32)
	if err != nil {
		e.fail(key, err)
		return def
	}
	if n < 0 {
		e.fail(key, fmt.Errorf("must not be negative, got %d", n))
		return def
	}
	return int32(n)
}

func (e *env) uint32(key string, def uint32) uint32 {
	v, ok := e.raw(key)
	if !ok {
		return def
	}
	n, err := strconv.ParseUint(v, 10, 32)
	if err != nil {
		e.fail(key, err)
		return def
	}
	return uint32(n)
}

func (e *env) boolean(key string, def bool) bool {
	v, ok := e.raw(key)
	if !ok {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		e.fail(key, err)
		return def
	}
	return b
}

func (e *env) duration(key string, def time.Duration) time.Duration {
	v, ok := e.raw(key)
	if !ok {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		e.fail(key, err)
		return def
	}
	return d
}

func (e *env) level(key string, def slog.Level) slog.Level {
	v, ok := e.raw(key)
	if !ok {
		return def
	}
	var l slog.Level
	if err := l.UnmarshalText([]byte(v)); err != nil {
		e.fail(key, err)
		return def
	}
	return l
}

func (e *env) address(key string) id.Address {
	v, ok := e.raw(key)
	if !ok {
		return ""
	}
	addr, err := id.ParseAddress(v)
	if err != nil {
		e.fail(key, err)
		return ""
	}
	return addr
}

func (e *env) addresses(key string) []id.Address {
	v, _ := e.raw(key)
	var out []id.Address
	for _, s := range strutil.SplitList(v) {
		addr, err := id.ParseAddress(s)
		if err != nil {
			e.fail(key, err)
			continue
		}
		out = append(out, addr)
	}
	return out
}

func (e *env) tiers(key string, def fee.Tiers) fee.Tiers {
	v, ok := e.raw(key)
	if !ok {
		return def
	}
	parts := strings.Split(v, ",")
	var t fee.Tiers
	if len(parts) != len(t) {
		e.fail(key, fmt.Errorf("want %d comma separated fees, got %d", len(t), len(parts)))
		return def
	}
	for i, p := range parts {
		n, err := strconv.ParseUint(strings.TrimSpace(p), 10, 64)
		if err != nil {
			e.fail(key, err)
			return def
		}
		t[i] = n
	}
	return t
}
