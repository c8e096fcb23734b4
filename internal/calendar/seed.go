package calendar

import (
	_ "embed"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"sync"

	"github.com/tartampluch/go-plazos/internal/config"
	"gopkg.in/yaml.v3"
)

//go:embed data/cl_holidays.yaml
var chileanTable []byte

// tableEntry is the on-disk shape of a holiday row.
type tableEntry struct {
	Date string `yaml:"date"`
	Name string `yaml:"name"`
	Kind string `yaml:"kind"`
}

type tableFile struct {
	Holidays []tableEntry `yaml:"holidays"`
}

var (
	seedOnce sync.Once
	seed     []Holiday
)

// ChileanHolidays returns a copy of the embedded 2025-2026 national holiday table.
func ChileanHolidays() []Holiday {
	seedOnce.Do(func() {
		hs, err := parseTable(chileanTable)
		if err != nil {
			// The table is compiled into the binary; a parse failure is a build defect.
			panic(fmt.Sprintf("%s: %v", config.ErrSeedLoad, err))
		}
		seed = hs
		slog.Debug(config.MsgSeedLoaded,
			config.LogKeyComponent, config.CompCalendar,
			config.LogKeyCount, len(hs),
		)
	})
	return slices.Clone(seed)
}

// LoadHolidays reads a holiday table in the same YAML format as the embedded one.
func LoadHolidays(r io.Reader) ([]Holiday, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrSeedLoad, err)
	}
	return parseTable(data)
}

func parseTable(data []byte) ([]Holiday, error) {
	var f tableFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrSeedLoad, err)
	}

	out := make([]Holiday, 0, len(f.Holidays))
	for _, e := range f.Holidays {
		d, err := ParseDate(e.Date)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", config.ErrSeedLoad, err)
		}
		name := e.Name
		if name == "" {
			name = config.FallbackName
		}
		out = append(out, Holiday{Date: d, Name: name})
	}
	sortHolidays(out)
	return out, nil
}
