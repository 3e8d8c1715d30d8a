package calendar

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

type calendarFile struct {
	Holidays []holidayEntry `yaml:"holidays"`
	// WorkingWeekends lists Saturdays/Sundays substituted as working days.
	WorkingWeekends []string `yaml:"working_weekends"`
}

type holidayEntry struct {
	Date string `yaml:"date"`
	Name string `yaml:"name"`
}

// LoadFile reads a calendar YAML file. Decoding is strict: an unknown key is
// a data error, not something to skip over.
func LoadFile(path string, log *zap.Logger) (*Calendar, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read calendar file: %w", err)
	}

	var file calendarFile
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil {
		return nil, fmt.Errorf("decode calendar file %s: %w", path, err)
	}

	holidays := make(map[string]string, len(file.Holidays))
	for _, h := range file.Holidays {
		if _, err := time.Parse(dateLayout, h.Date); err != nil {
			return nil, fmt.Errorf("invalid holiday date %q: %w", h.Date, err)
		}
		if h.Name == "" {
			return nil, fmt.Errorf("holiday %s has no name", h.Date)
		}
		holidays[h.Date] = h.Name
	}
	for _, d := range file.WorkingWeekends {
		if _, err := time.Parse(dateLayout, d); err != nil {
			return nil, fmt.Errorf("invalid working weekend date %q: %w", d, err)
		}
	}

	return New(holidays, file.WorkingWeekends, log), nil
}
