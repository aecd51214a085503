package main

import (
	"fmt"
	"strconv"

	"github.com/chriscorrea/reviewdtm/internal/config"
)

// applyClassThresholds sets the thresholds given as label=value pairs,
// replacing any thresholds from the config file.
func applyClassThresholds(cfg *config.Config, perClass map[string]string) error {
	thresholds := make(map[int]float64, len(perClass))
	for k, v := range perClass {
		label, err := strconv.Atoi(k)
		if err != nil {
			return fmt.Errorf("invalid class label %q in --theta-class", k)
		}
		th, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid threshold %q for class %d", v, label)
		}
		thresholds[label] = th
	}
	cfg.Vocabulary.Thresholds = thresholds
	return nil
}
