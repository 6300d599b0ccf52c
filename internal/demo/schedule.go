package demo

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

var (
	ErrScheduleFormat = errors.New("unsupported schedule format")
	ErrScheduleEntry  = errors.New("schedule entry needs start and end, or duration")
)

// Entry times one part. Either Start and End are given (absolute), or
// Duration with an optional Offset from the end of the previous entry.
type Entry struct {
	Part     string `yaml:"part" toml:"part"`
	Start    *int64 `yaml:"start,omitempty" toml:"start,omitempty"`
	End      *int64 `yaml:"end,omitempty" toml:"end,omitempty"`
	Offset   int64  `yaml:"offset,omitempty" toml:"offset,omitempty"`
	Duration *int64 `yaml:"duration,omitempty" toml:"duration,omitempty"`
}

// Schedule is the part timing file.
//
//	parts:
//	  - {part: intro, start: 0, end: 11000}
//	  - {part: dungeon, duration: 75000}
type Schedule struct {
	Parts []Entry `yaml:"parts" toml:"parts"`
}

// LoadSchedule reads a schedule, choosing the decoder by file extension.
func LoadSchedule(path string) (*Schedule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading schedule: %w", err)
	}
	s, err := ParseSchedule(data, filepath.Ext(path))
	if err != nil {
		return nil, fmt.Errorf("parsing schedule %s: %w", path, err)
	}
	return s, nil
}

// ParseSchedule decodes data in the format named by ext (".yaml", ".yml" or ".toml").
func ParseSchedule(data []byte, ext string) (*Schedule, error) {
	var s Schedule
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &s); err != nil {
			return nil, err
		}
	case ".toml":
		if err := toml.Unmarshal(data, &s); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%q: %w", ext, ErrScheduleFormat)
	}
	return &s, nil
}

// Timings resolves every entry to an absolute window.
func (s *Schedule) Timings() (map[string]Timing, error) {
	out := make(map[string]Timing, len(s.Parts))
	var prevEnd int64
	for i, e := range s.Parts {
		var t Timing
		switch {
		case e.Start != nil && e.End != nil:
			t = Timing{Start: *e.Start, End: *e.End}
		case e.Duration != nil:
			t.Start = prevEnd + e.Offset
			if e.Start != nil {
				t.Start = *e.Start
			}
			t.End = t.Start + *e.Duration
		default:
			return nil, fmt.Errorf("entry %d (%s): %w", i, e.Part, ErrScheduleEntry)
		}
		if t.End < t.Start {
			return nil, fmt.Errorf("entry %d (%s): %w", i, e.Part, ErrInvalidTiming)
		}
		out[e.Part] = t
		prevEnd = t.End
	}
	return out, nil
}

// Apply retimes the timeline's parts. Every named part must be registered.
func (s *Schedule) Apply(tl *Timeline) error {
	timings, err := s.Timings()
	if err != nil {
		return err
	}
	return tl.SetTimings(timings)
}
