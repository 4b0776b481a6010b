package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

const defaultConnectionString = "Host=localhost;Port=5432;Database=treasury_engine_db;Username=postgres;Password=postgres;Timeout=30;CommandTimeout=30"
const defaultChannelID = "TreasuryApp"
const defaultChannelKey = "TreasuryKey001"
const defaultHTTPAddr = ":8080"

const defaultReviewThreshold = 0.60
const defaultAutoAcceptThreshold = 0.80
const defaultProjectionHorizonDays = 30
const defaultSweepRoundingUnit = 100

type Config struct {
	DatabaseDSN           string
	MigrationsDir         string
	ChannelID             string
	ChannelKey            string
	HTTPAddr              string
	ReviewThreshold       float64
	AutoAcceptThreshold   float64
	ProjectionHorizonDays int
	SweepRoundingUnit     int64
}

func Load() (Config, error) {
	conn := strings.TrimSpace(os.Getenv("DATABASE_DSN"))
	if conn == "" {
		conn = defaultConnectionString
	}

	channelID := strings.TrimSpace(os.Getenv("CHANNEL_ID"))
	if channelID == "" {
		channelID = defaultChannelID
	}

	channelKey := strings.TrimSpace(os.Getenv("CHANNEL_KEY"))
	if channelKey == "" {
		channelKey = defaultChannelKey
	}

	httpAddr := strings.TrimSpace(os.Getenv("HTTP_ADDR"))
	if httpAddr == "" {
		httpAddr = defaultHTTPAddr
	}

	review, err := floatEnv("MATCH_REVIEW_THRESHOLD", defaultReviewThreshold)
	if err != nil {
		return Config{}, err
	}

	autoAccept, err := floatEnv("MATCH_AUTO_ACCEPT_THRESHOLD", defaultAutoAcceptThreshold)
	if err != nil {
		return Config{}, err
	}
	if autoAccept < review {
		return Config{}, fmt.Errorf("MATCH_AUTO_ACCEPT_THRESHOLD must not be below MATCH_REVIEW_THRESHOLD")
	}

	horizon, err := intEnv("PROJECTION_HORIZON_DAYS", defaultProjectionHorizonDays)
	if err != nil {
		return Config{}, err
	}

	rounding, err := intEnv("SWEEP_ROUNDING_UNIT", defaultSweepRoundingUnit)
	if err != nil {
		return Config{}, err
	}

	return Config{
		DatabaseDSN:           normalizeConnectionString(conn),
		MigrationsDir:         filepath.Join("src", "migrations"),
		ChannelID:             channelID,
		ChannelKey:            channelKey,
		HTTPAddr:              httpAddr,
		ReviewThreshold:       review,
		AutoAcceptThreshold:   autoAccept,
		ProjectionHorizonDays: horizon,
		SweepRoundingUnit:     int64(rounding),
	}, nil
}

func floatEnv(name string, fallback float64) (float64, error) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return fallback, nil
	}

	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", name, err)
	}

	return value, nil
}

func intEnv(name string, fallback int) (int, error) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return fallback, nil
	}

	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", name, err)
	}

	return value, nil
}

func normalizeConnectionString(raw string) string {
	parts := strings.Split(raw, ";")
	out := make([]string, 0, len(parts))
	hasSSLMode := false

	for _, part := range parts {
		p := strings.TrimSpace(part)
		if p == "" {
			continue
		}

		kv := strings.SplitN(p, "=", 2)
		if len(kv) != 2 {
			continue
		}

		key := strings.ToLower(strings.TrimSpace(kv[0]))
		val := strings.TrimSpace(kv[1])

		switch key {
		case "host":
			out = append(out, "host="+val)
		case "port":
			out = append(out, "port="+val)
		case "database":
			out = append(out, "dbname="+val)
		case "username":
			out = append(out, "user="+val)
		case "password":
			out = append(out, "password="+val)
		case "timeout", "connect timeout":
			out = append(out, "connect_timeout="+val)
		case "commandtimeout", "command timeout":
			out = append(out, "statement_timeout="+val+"s")
		case "sslmode":
			hasSSLMode = true
			out = append(out, "sslmode="+val)
		default:
			out = append(out, key+"="+val)
		}
	}

	if len(out) == 0 {
		return raw
	}

	if !hasSSLMode {
		out = append(out, "sslmode=disable")
	}

	return strings.Join(out, " ")
}
