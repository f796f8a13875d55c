package config // package config loads application configuration from environment variables

import (
	"log"     // log is used to report configuration errors and halt execution
	"os"      // os provides access to environment variables
	"strconv" // strconv converts strings to other types
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.  The types reflect how the values are used in
// the application: strings for identifiers and secrets, ints for counts
// and thresholds.
type Config struct {
	Env       string // application environment (e.g. "dev", "prod")
	Port      string // HTTP port to listen on
	DBUser    string // database username
	DBPass    string // database password (optional)
	DBHost    string // database host address
	DBPort    string // database port number
	DBName    string // database name
	JWTSecret string // secret used to verify JWTs issued by the identity service

	Scheduler SchedulerConfig // scheduling engine knobs
}

// SchedulerConfig groups the knobs of the weekly scheduling engine.  The
// MinBucketSize threshold governs bucket viability and, unless overridden,
// doubles as the hall capacity floor; the legacy system carried two
// divergent thresholds and this configuration collapses them into a single
// documented policy.
type SchedulerConfig struct {
	MinBucketSize   int    // minimum distinct members for a demand bucket to be scheduled
	MinHallCapacity uint32 // minimum capacity a hall must offer to be matched
	RandomSeed      int64  // seed for the injectable random source; 0 means time-seeded
	GenerateCron    string // cron expression for the weekly initial pass
	AdjustCron      string // cron expression for the weekly adjustment pass
	SystemActorID   uint64 // actor id recorded on sessions created by scheduled runs
}

// Load reads configuration values from environment variables and returns a
// Config.  Required variables are enforced by must() and missing values
// cause the program to exit with a fatal log message.  Scheduler knobs all
// carry defaults so a bare environment still produces a working engine.
func Load() Config {
	minBucket := envIntDefault("SCHED_MIN_BUCKET_SIZE", 3)
	minHall := envIntDefault("SCHED_MIN_HALL_CAPACITY", minBucket)
	if minHall < 1 {
		minHall = 1
	}
	return Config{
		Env:       must("APP_ENV"),      // environment (dev/test/prod)
		Port:      must("APP_PORT"),     // port to bind the HTTP server
		DBUser:    must("DB_USER"),      // database user
		DBPass:    os.Getenv("DB_PASS"), // database password (empty allowed)
		DBHost:    must("DB_HOST"),      // database host
		DBPort:    must("DB_PORT"),      // database port
		DBName:    must("DB_NAME"),      // database name
		JWTSecret: must("JWT_SECRET"),   // secret used for verifying JWTs
		Scheduler: SchedulerConfig{
			MinBucketSize:   minBucket,
			MinHallCapacity: uint32(minHall),
			RandomSeed:      envInt64Default("SCHED_RANDOM_SEED", 0),
			GenerateCron:    getenv("SCHED_GENERATE_CRON", "0 6 * * 1"), // Monday 06:00
			AdjustCron:      getenv("SCHED_ADJUST_CRON", "0 6 * * 2"),   // Tuesday 06:00, one day later
			SystemActorID:   uint64(envInt64Default("SCHED_SYSTEM_ACTOR_ID", 1)),
		},
	}
}

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

// envIntDefault reads an optional integer variable, falling back to def when
// the variable is unset.  A malformed value is fatal rather than silently
// replaced so misconfigured deployments fail at startup.
func envIntDefault(key string, def int) int {
	s := os.Getenv(key)
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, s)
	}
	return n
}

// envInt64Default is like envIntDefault for 64-bit values such as seeds.
func envInt64Default(key string, def int64) int64 {
	s := os.Getenv(key)
	if s == "" {
		return def
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, s)
	}
	return n
}
