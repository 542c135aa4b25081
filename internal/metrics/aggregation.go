package metrics

import (
	"context"
	"sort"

	"github.com/jackzampolin/hastd/internal/llmcall"
)

// Summary provides a summary of calls for a filter.
type Summary struct {
	Count        int     `json:"count"`
	SuccessCount int     `json:"success_count"`
	ErrorCount   int     `json:"error_count"`
	Runs         int     `json:"runs"`
	Fields       int     `json:"fields"`
	TotalTokens  int     `json:"total_tokens"`
	AvgTokens    float64 `json:"avg_tokens"`
	TotalTimeMs  int     `json:"total_time_ms"`
	AvgTimeMs    float64 `json:"avg_time_ms"`
}

// GetSummary returns a summary of calls matching the filter. Fields counts
// distinct run and field path pairs.
func (q *Query) GetSummary(ctx context.Context, f llmcall.QueryFilter) (*Summary, error) {
	calls, err := q.list(ctx, f)
	if err != nil {
		return nil, err
	}

	s := &Summary{Count: len(calls)}
	runs := make(map[string]struct{})
	fields := make(map[[2]string]struct{})
	for _, c := range calls {
		s.TotalTokens += c.InputTokens + c.OutputTokens
		s.TotalTimeMs += c.LatencyMs
		if c.Success {
			s.SuccessCount++
		} else {
			s.ErrorCount++
		}
		if c.RunID != "" {
			runs[c.RunID] = struct{}{}
		}
		if c.FieldPath != "" {
			fields[[2]string{c.RunID, c.FieldPath}] = struct{}{}
		}
	}
	s.Runs = len(runs)
	s.Fields = len(fields)

	if s.Count > 0 {
		s.AvgTokens = float64(s.TotalTokens) / float64(s.Count)
		s.AvgTimeMs = float64(s.TotalTimeMs) / float64(s.Count)
	}
	return s, nil
}

// DetailedStats provides statistics including latency percentiles and token breakdowns.
type DetailedStats struct {
	// Basic counts
	Count        int `json:"count"`
	SuccessCount int `json:"success_count"`
	ErrorCount   int `json:"error_count"`

	// Latency percentiles (milliseconds)
	LatencyP50 float64 `json:"latency_p50_ms"`
	LatencyP95 float64 `json:"latency_p95_ms"`
	LatencyP99 float64 `json:"latency_p99_ms"`
	LatencyAvg float64 `json:"latency_avg_ms"`
	LatencyMin float64 `json:"latency_min_ms"`
	LatencyMax float64 `json:"latency_max_ms"`

	// Token stats
	TotalInputTokens  int     `json:"total_input_tokens"`
	TotalOutputTokens int     `json:"total_output_tokens"`
	TotalTokens       int     `json:"total_tokens"`
	AvgInputTokens    float64 `json:"avg_input_tokens"`
	AvgOutputTokens   float64 `json:"avg_output_tokens"`
}

// GetDetailedStats returns detailed statistics for calls matching the filter.
func (q *Query) GetDetailedStats(ctx context.Context, f llmcall.QueryFilter) (*DetailedStats, error) {
	calls, err := q.list(ctx, f)
	if err != nil {
		return nil, err
	}
	return detailedStats(calls), nil
}

// StatsBy returns detailed stats for calls matching the filter, grouped by
// dim. Calls with an empty value for dim are grouped under "".
func (q *Query) StatsBy(ctx context.Context, f llmcall.QueryFilter, dim Dimension) (map[string]*DetailedStats, error) {
	calls, err := q.list(ctx, f)
	if err != nil {
		return nil, err
	}

	groups := make(map[string][]llmcall.Call)
	for i := range calls {
		k := dim.key(&calls[i])
		groups[k] = append(groups[k], calls[i])
	}

	result := make(map[string]*DetailedStats, len(groups))
	for k, group := range groups {
		result[k] = detailedStats(group)
	}
	return result, nil
}

// TokensBy returns total tokens per value of dim.
func (q *Query) TokensBy(ctx context.Context, f llmcall.QueryFilter, dim Dimension) (map[string]int, error) {
	calls, err := q.list(ctx, f)
	if err != nil {
		return nil, err
	}

	breakdown := make(map[string]int)
	for i := range calls {
		breakdown[dim.key(&calls[i])] += calls[i].InputTokens + calls[i].OutputTokens
	}
	return breakdown, nil
}

func detailedStats(calls []llmcall.Call) *DetailedStats {
	stats := &DetailedStats{Count: len(calls)}
	if len(calls) == 0 {
		return stats
	}

	latencies := make([]float64, 0, len(calls))
	for _, c := range calls {
		if c.Success {
			stats.SuccessCount++
		} else {
			stats.ErrorCount++
		}
		stats.TotalInputTokens += c.InputTokens
		stats.TotalOutputTokens += c.OutputTokens
		latencies = append(latencies, float64(c.LatencyMs))
	}
	stats.TotalTokens = stats.TotalInputTokens + stats.TotalOutputTokens

	count := float64(stats.Count)
	stats.AvgInputTokens = float64(stats.TotalInputTokens) / count
	stats.AvgOutputTokens = float64(stats.TotalOutputTokens) / count

	sort.Float64s(latencies)
	stats.LatencyMin = latencies[0]
	stats.LatencyMax = latencies[len(latencies)-1]
	var sum float64
	for _, l := range latencies {
		sum += l
	}
	stats.LatencyAvg = sum / float64(len(latencies))
	stats.LatencyP50 = percentile(latencies, 50)
	stats.LatencyP95 = percentile(latencies, 95)
	stats.LatencyP99 = percentile(latencies, 99)

	return stats
}

// percentile calculates the p-th percentile from a sorted slice of values.
func percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if len(sorted) == 1 {
		return sorted[0]
	}

	idx := (p / 100.0) * float64(len(sorted)-1)
	lower := int(idx)
	upper := lower + 1
	if upper >= len(sorted) {
		return sorted[len(sorted)-1]
	}

	// Linear interpolation
	weight := idx - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}
