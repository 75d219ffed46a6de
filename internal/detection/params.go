package detection

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Params holds every tunable threshold of the segmentation pipeline.
//
// The defaults were tuned empirically against photographed scoresheets and
// have no analytic derivation; they are configuration, not contract, so a
// recalibration never changes the behavioral guarantees (always C+1
// boundaries, deterministic fallbacks). Load alternate values from a YAML
// tuning file with LoadParams.
type Params struct {
	Table    TableParams    `yaml:"table"`
	Columns  ColumnParams   `yaml:"columns"`
	Selector SelectorParams `yaml:"selector"`
}

// TableParams tunes the table boundary locator.
type TableParams struct {
	// BinarizeThreshold is the grayscale cut for the morphology path.
	BinarizeThreshold uint8 `yaml:"binarize_threshold"`

	// MinComponentSize is the noise floor: connected components whose
	// bounding box is smaller than this on either side are discarded.
	MinComponentSize int `yaml:"min_component_size"`

	// EdgeInkThreshold is the grayscale cut for the profile fallback path.
	EdgeInkThreshold uint8 `yaml:"edge_ink_threshold"`

	// EdgeMaxFraction scales the primary edge threshold: a profile sample
	// must exceed EdgeMaxFraction of the profile maximum.
	EdgeMaxFraction float64 `yaml:"edge_max_fraction"`

	// EdgeAvgFactor scales the secondary edge threshold against the mean.
	EdgeAvgFactor float64 `yaml:"edge_avg_factor"`

	// SuppressRuling drops printed ruling color from ink masks.
	SuppressRuling bool `yaml:"suppress_ruling"`
}

// ColumnParams tunes the column boundary detector.
type ColumnParams struct {
	// InkThreshold is the grayscale cut for the column density profile.
	InkThreshold uint8 `yaml:"ink_threshold"`

	// ValleyDepthFactor scales the minimum two-sided difference of a
	// valley against the profile mean.
	ValleyDepthFactor float64 `yaml:"valley_depth_factor"`

	// GradientFactor scales the minimum summed derivative magnitude at a
	// zero crossing against the profile mean.
	GradientFactor float64 `yaml:"gradient_factor"`

	// MinimumValueFactor caps a local minimum's value against the mean.
	MinimumValueFactor float64 `yaml:"minimum_value_factor"`
}

// SelectorParams tunes outlier filtering and candidate scoring in the
// column sequence selector.
type SelectorParams struct {
	// MedianDeviation drops columns deviating more than this fraction
	// from the median width.
	MedianDeviation float64 `yaml:"median_deviation"`

	// ExpectedDeviation drops columns deviating more than this fraction
	// from regionWidth/C.
	ExpectedDeviation float64 `yaml:"expected_deviation"`

	// FirstColumnFactor drops a leading column wider than this multiple
	// of the median; catches annotation columns on the left margin.
	FirstColumnFactor float64 `yaml:"first_column_factor"`

	// MaxIndexGap is the largest jump in original column indices a
	// candidate window tolerates (bridges filtered-out outliers).
	MaxIndexGap int `yaml:"max_index_gap"`

	// MaxCV rejects candidates whose width coefficient of variation is
	// larger.
	MaxCV float64 `yaml:"max_cv"`

	// MinWidthRatio rejects candidates whose min/max width ratio is lower.
	MinWidthRatio float64 `yaml:"min_width_ratio"`

	// MaxRangeRatio rejects candidates whose (max-min)/mean is larger.
	MaxRangeRatio float64 `yaml:"max_range_ratio"`

	// MinCoverage rejects candidates spanning less than this fraction of
	// the table width.
	MinCoverage float64 `yaml:"min_coverage"`

	// AvgWidthMin and AvgWidthMax bound the average width as a multiple
	// of regionWidth/windowSize.
	AvgWidthMin float64 `yaml:"avg_width_min"`
	AvgWidthMax float64 `yaml:"avg_width_max"`

	// MaxColumnDeviation rejects candidates containing any column
	// deviating more than this fraction from regionWidth/C.
	MaxColumnDeviation float64 `yaml:"max_column_deviation"`

	// ExtrapolationScore is the minimum score a short winner needs before
	// missing trailing columns are synthesized instead of falling back to
	// equal division.
	ExtrapolationScore float64 `yaml:"extrapolation_score"`
}

// DefaultParams returns the tuned defaults.
func DefaultParams() Params {
	return Params{
		Table: TableParams{
			BinarizeThreshold: 128,
			MinComponentSize:  5,
			EdgeInkThreshold:  128,
			EdgeMaxFraction:   0.3,
			EdgeAvgFactor:     1.5,
			SuppressRuling:    false,
		},
		Columns: ColumnParams{
			InkThreshold:       128,
			ValleyDepthFactor:  0.05,
			GradientFactor:     0.02,
			MinimumValueFactor: 0.8,
		},
		Selector: SelectorParams{
			MedianDeviation:    0.5,
			ExpectedDeviation:  0.8,
			FirstColumnFactor:  1.4,
			MaxIndexGap:        3,
			MaxCV:              0.4,
			MinWidthRatio:      0.5,
			MaxRangeRatio:      1.0,
			MinCoverage:        0.7,
			AvgWidthMin:        0.4,
			AvgWidthMax:        2.5,
			MaxColumnDeviation: 1.5,
			ExtrapolationScore: 0.7,
		},
	}
}

// LoadParams reads a YAML tuning file over the defaults. Fields absent
// from the file keep their default values.
func LoadParams(path string) (Params, error) {
	params := DefaultParams()

	data, err := os.ReadFile(path)
	if err != nil {
		return params, fmt.Errorf("failed to read tuning file: %w", err)
	}
	if err := yaml.Unmarshal(data, &params); err != nil {
		return params, fmt.Errorf("failed to parse tuning file: %w", err)
	}
	return params, nil
}
