package config

import (
	"fmt"
	"io"
	"os"

	"loan-origination/internal/domain/approvallevel"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// NoCeiling is stored for a seed tier whose max_amount is 0 or omitted.
// It is the largest value decimal(18,2) holds.
var NoCeiling = decimal.RequireFromString("9999999999999999.99")

type levelsFile struct {
	Levels []levelEntry `yaml:"levels"`
}

type levelEntry struct {
	approvallevel.Level `yaml:",inline"`
	// Kept as text so amounts are never parsed through a float.
	MaxAmount string `yaml:"max_amount"`
}

// LoadLevelsFile reads an approval-level seed file.
func LoadLevelsFile(path string) ([]approvallevel.Level, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open levels file: %w", err)
	}
	defer f.Close()
	return ParseLevels(f)
}

// ParseLevels decodes and validates a seed document.
func ParseLevels(r io.Reader) ([]approvallevel.Level, error) {
	var doc levelsFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode levels: %w", err)
	}
	if len(doc.Levels) == 0 {
		return nil, approvallevel.ErrEmpty
	}

	seen := make(map[string]struct{}, len(doc.Levels))
	out := make([]approvallevel.Level, 0, len(doc.Levels))
	for i, e := range doc.Levels {
		l := e.Level
		if l.ID == "" {
			return nil, fmt.Errorf("level %d: id is required", i)
		}
		if _, dup := seen[l.ID]; dup {
			return nil, fmt.Errorf("level %s: duplicate id", l.ID)
		}
		seen[l.ID] = struct{}{}
		if !l.Authority.Valid() {
			return nil, fmt.Errorf("level %s: unknown authority %q", l.ID, l.Authority)
		}
		if l.Name == "" {
			l.Name = l.ID
		}

		l.MaxAmount = NoCeiling
		if e.MaxAmount != "" {
			amt, err := decimal.NewFromString(e.MaxAmount)
			if err != nil {
				return nil, fmt.Errorf("level %s: max_amount: %w", l.ID, err)
			}
			if amt.IsNegative() {
				return nil, fmt.Errorf("level %s: max_amount must not be negative", l.ID)
			}
			if !amt.IsZero() {
				l.MaxAmount = amt.Round(2)
			}
		}
		out = append(out, l)
	}
	return out, nil
}
