package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"jyotish-lab/internal/domain"
)

var birthLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

func addBirthFlags(cmd *cobra.Command) {
	cmd.Flags().String("date", "", "local birth date and time, e.g. 1990-04-15T06:30")
	cmd.Flags().String("utc-offset", "+00:00", "local offset from UTC, e.g. +05:30")
	cmd.Flags().Float64("lat", 0, "latitude, north positive")
	cmd.Flags().Float64("lon", 0, "longitude, east positive")
	cmd.Flags().String("label", "", "optional chart label")
	_ = cmd.MarkFlagRequired("date")
}

func birthFromFlags(cmd *cobra.Command) (domain.BirthInput, error) {
	date, _ := cmd.Flags().GetString("date")
	offset, _ := cmd.Flags().GetString("utc-offset")
	lat, _ := cmd.Flags().GetFloat64("lat")
	lon, _ := cmd.Flags().GetFloat64("lon")
	label, _ := cmd.Flags().GetString("label")
	return parseBirth(date, offset, lat, lon, label)
}

// parseBirth builds a validated BirthInput from textual local time.
func parseBirth(date, offset string, lat, lon float64, label string) (domain.BirthInput, error) {
	var (
		local time.Time
		err   error
	)
	for _, layout := range birthLayouts {
		if local, err = time.Parse(layout, strings.TrimSpace(date)); err == nil {
			break
		}
	}
	if err != nil {
		return domain.BirthInput{}, fmt.Errorf("%w: date %q", domain.ErrInvalidInput, date)
	}

	minutes, err := parseOffset(offset)
	if err != nil {
		return domain.BirthInput{}, err
	}

	in := domain.BirthInput{
		Label:            label,
		Year:             local.Year(),
		Month:            int(local.Month()),
		Day:              local.Day(),
		Hour:             local.Hour(),
		Minute:           local.Minute(),
		Second:           local.Second(),
		UTCOffsetMinutes: minutes,
		Latitude:         lat,
		Longitude:        lon,
	}
	return in, in.Validate()
}

// parseOffset accepts +05:30, -0800, +5 or Z.
func parseOffset(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "Z" || s == "z" {
		return 0, nil
	}

	sign := 1
	switch s[0] {
	case '-':
		sign = -1
		s = s[1:]
	case '+':
		s = s[1:]
	}

	hh, mm := s, "0"
	if i := strings.IndexByte(s, ':'); i >= 0 {
		hh, mm = s[:i], s[i+1:]
	} else if len(s) == 4 {
		hh, mm = s[:2], s[2:]
	}

	h, err := strconv.Atoi(hh)
	if err != nil {
		return 0, fmt.Errorf("%w: utc offset %q", domain.ErrInvalidInput, s)
	}
	m, err := strconv.Atoi(mm)
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("%w: utc offset %q", domain.ErrInvalidInput, s)
	}
	return sign * (h*60 + m), nil
}

// batchFile is the on-disk list of birth records for the batch command.
type batchFile struct {
	Charts []domain.BirthInput `yaml:"charts" toml:"charts"`
}

// loadBatch reads a YAML or TOML batch file, chosen by extension.
func loadBatch(path string) ([]domain.BirthInput, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read batch file: %w", err)
	}

	var bf batchFile
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		err = toml.Unmarshal(data, &bf)
	default:
		err = yaml.Unmarshal(data, &bf)
	}
	if err != nil {
		return nil, fmt.Errorf("parse batch file %s: %w", path, err)
	}
	if len(bf.Charts) == 0 {
		return nil, fmt.Errorf("batch file %s lists no charts", path)
	}
	return bf.Charts, nil
}

// parseAsOf reads an optional YYYY-MM-DD date as a Julian Day at 00:00 UTC.
// An empty value returns fallback.
func parseAsOf(s string, fallback time.Time) (float64, error) {
	if s == "" {
		return domain.JulianDayFromTime(fallback), nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return 0, fmt.Errorf("%w: as-of %q", domain.ErrInvalidInput, s)
	}
	return domain.JulianDayFromTime(t), nil
}
