// Package cronparser evaluates the export schedule of the serve mode.
package cronparser

import (
	"errors"
	"fmt"
	"strings"
	"time"

	cron "github.com/netresearch/go-cron"
)

const defaultTZ = "UTC"

var ErrEmptySpec = errors.New("empty cron spec")

// Five-field expressions plus descriptors such as @hourly and @every 10m.
var _parser = cron.MustNewParser(
	cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

// Parser computes activations of cron expressions.
type Parser struct{}

func New() *Parser {
	return &Parser{}
}

// NextAfter returns the first activation of spec strictly after `after`.
// tz applies unless spec carries its own CRON_TZ= or TZ= prefix; an empty
// tz means UTC.
func (p *Parser) NextAfter(
	spec,
	tz string,
	after time.Time,
) (time.Time, error) {
	schedule, err := parse(spec, tz)
	if err != nil {
		return time.Time{}, err
	}

	next := schedule.Next(after)
	if next.IsZero() {
		return time.Time{}, fmt.Errorf("cron spec %q never fires", spec)
	}

	return next, nil
}

// Validate reports whether spec and tz can be evaluated.
func (p *Parser) Validate(spec, tz string) error {
	_, err := parse(spec, tz)

	return err
}

func parse(spec, tz string) (cron.Schedule, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return nil, ErrEmptySpec
	}

	if tz == "" {
		tz = defaultTZ
	}

	if _, err := time.LoadLocation(tz); err != nil {
		return nil, fmt.Errorf("load time zone %q: %w", tz, err)
	}

	full := spec
	if !strings.HasPrefix(spec, "CRON_TZ=") && !strings.HasPrefix(spec, "TZ=") {
		full = "CRON_TZ=" + tz + " " + spec
	}

	schedule, err := _parser.Parse(full)
	if err != nil {
		return nil, fmt.Errorf("parse cron spec %q: %w", spec, err)
	}

	return schedule, nil
}
