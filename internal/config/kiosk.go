package config

import (
	"fmt"
	"os"

	"mealkiosk/internal/domain"

	"gopkg.in/yaml.v3"
)

// KioskFile is the static kiosk configuration: department table and calendar
type KioskFile struct {
	DefaultLocale  string            `yaml:"default_locale"`
	Departments    map[string][]int  `yaml:"departments"`
	Locales        map[string]string `yaml:"locales"`
	MakeupWorkdays []string          `yaml:"makeup_workdays"`
}

// Kiosk is the parsed, validated form of KioskFile
type Kiosk struct {
	Departments *domain.DepartmentTable
	Makeup      domain.MakeupCalendar
}

// LoadKiosk reads and validates the kiosk YAML file
func LoadKiosk(path string) (*Kiosk, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read kiosk config: %w", err)
	}
	return ParseKiosk(data)
}

// ParseKiosk parses kiosk YAML
func ParseKiosk(data []byte) (*Kiosk, error) {
	var f KioskFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse kiosk config: %w", err)
	}
	return f.Build()
}

// Build validates the file contents and converts them to domain types
func (f KioskFile) Build() (*Kiosk, error) {
	if len(f.Departments) == 0 {
		return nil, fmt.Errorf("kiosk config: at least one department is required")
	}

	allowed := make(map[byte][]int, len(f.Departments))
	for key, nums := range f.Departments {
		letter, err := departmentLetter(key)
		if err != nil {
			return nil, err
		}
		for _, n := range nums {
			if n < 0 || n > 99 {
				return nil, fmt.Errorf("kiosk config: department %s number %d must be within 0-99", key, n)
			}
		}
		allowed[letter] = nums
	}

	locales := make(map[byte]string, len(f.Locales))
	for key, locale := range f.Locales {
		letter, err := departmentLetter(key)
		if err != nil {
			return nil, err
		}
		locales[letter] = locale
	}

	defaultLocale := f.DefaultLocale
	if defaultLocale == "" {
		defaultLocale = "zh"
	}

	dates := make([]domain.Date, 0, len(f.MakeupWorkdays))
	for _, s := range f.MakeupWorkdays {
		d, err := domain.ParseDate(s)
		if err != nil {
			return nil, fmt.Errorf("kiosk config: makeup workday: %w", err)
		}
		dates = append(dates, d)
	}

	return &Kiosk{
		Departments: domain.NewDepartmentTable(allowed, locales, defaultLocale),
		Makeup:      domain.NewMakeupCalendar(dates...),
	}, nil
}

func departmentLetter(key string) (byte, error) {
	if len(key) != 1 || key[0] < 'A' || key[0] > 'Z' {
		return 0, fmt.Errorf("kiosk config: department %q must be a single letter A-Z", key)
	}
	return key[0], nil
}
