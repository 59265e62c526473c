package api

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/richrz/JobScout-sub000/internal/model"
)

// LoadCities reads the optional JSON city preset file used by the
// /listings distance filter.
func LoadCities(path string) ([]model.CityConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read cities config: %w", err)
	}
	var cities []model.CityConfig
	if err := json.Unmarshal(data, &cities); err != nil {
		return nil, fmt.Errorf("parse cities config %s: %w", path, err)
	}
	for i, c := range cities {
		if c.Name == "" {
			return nil, fmt.Errorf("cities config entry %d: name is required", i)
		}
		if c.RadiusKm <= 0 {
			return nil, fmt.Errorf("cities config entry %d (%s): radiusKm must be positive", i, c.Name)
		}
	}
	return cities, nil
}
