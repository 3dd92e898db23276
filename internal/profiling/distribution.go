package profiling

import (
	"math"
	"sort"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat"
)

// Summary describes the numeric values of one column. Non-finite values are
// counted but excluded from every statistic.
type Summary struct {
	Count     int     `json:"count"`
	NonFinite int     `json:"non_finite"`
	Negative  int     `json:"negative"`
	Mean      float64 `json:"mean"`
	StdDev    float64 `json:"std_dev"`
	Min       float64 `json:"min"`
	Max       float64 `json:"max"`
	Median    float64 `json:"median"`
	Q25       float64 `json:"q25"`
	Q75       float64 `json:"q75"`
	Skewness  float64 `json:"skewness"`
	Outliers  int     `json:"outliers"`
}

// NonNegative reports whether the column can size hierarchical slices
func (s Summary) NonNegative() bool {
	return s.Negative == 0 && s.NonFinite == 0
}

// DistributionAnalyzer computes column summaries
type DistributionAnalyzer struct{}

// NewDistributionAnalyzer creates a new distribution analyzer
func NewDistributionAnalyzer() *DistributionAnalyzer {
	return &DistributionAnalyzer{}
}

// Summarize computes summary statistics. It returns stats.ErrEmptyInput when
// data holds no finite value; the counts are still filled in.
func (da *DistributionAnalyzer) Summarize(data []float64) (Summary, error) {
	summary := Summary{}

	finite := make([]float64, 0, len(data))
	for _, x := range data {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			summary.NonFinite++
			continue
		}
		if x < 0 {
			summary.Negative++
		}
		finite = append(finite, x)
	}
	summary.Count = len(finite)
	if len(finite) == 0 {
		return summary, stats.ErrEmptyInput
	}

	summary.Mean, summary.StdDev = stat.MeanStdDev(finite, nil)
	if len(finite) < 2 {
		summary.StdDev = 0
	}

	var err error
	if summary.Min, err = stats.Min(finite); err != nil {
		return summary, err
	}
	if summary.Max, err = stats.Max(finite); err != nil {
		return summary, err
	}
	if summary.Median, err = stats.Median(finite); err != nil {
		return summary, err
	}

	// Quartiles for IQR-based outlier detection; defined for any non-empty input
	sorted := append([]float64(nil), finite...)
	sort.Float64s(sorted)
	summary.Q25 = stat.Quantile(0.25, stat.Empirical, sorted, nil)
	summary.Q75 = stat.Quantile(0.75, stat.Empirical, sorted, nil)

	if len(finite) >= 3 && summary.StdDev > 0 {
		summary.Skewness = stat.Skew(finite, nil)
	}
	summary.Outliers = detectOutliers(finite, summary.Q25, summary.Q75)

	return summary, nil
}

// detectOutliers identifies outliers using IQR method
func detectOutliers(data []float64, q25, q75 float64) int {
	iqr := q75 - q25
	lowerBound := q25 - 1.5*iqr
	upperBound := q75 + 1.5*iqr

	outlierCount := 0
	for _, x := range data {
		if x < lowerBound || x > upperBound {
			outlierCount++
		}
	}

	return outlierCount
}
