package perf

import "fmt"

// Insight trigger constants.
const (
	tooEasyScore      = 0.9
	veryHardScore     = 0.3
	ambiguousStdDev   = 0.3
	consistentStdDev  = 0.1
	longTimeSeconds   = 600
	quickTimeSeconds  = 30
	smallSample       = 10
	largeSample       = 100
)

// insights renders human-readable observations about a summary for content
// reviewers. Purely descriptive; never feeds back into the algorithm.
func insights(s Summary) []string {
	var out []string
	m := s.Metrics

	switch {
	case m.AvgScore >= tooEasyScore:
		out = append(out, "question appears too easy - consider increasing complexity")
	case m.AvgScore <= veryHardScore:
		out = append(out, "question appears very difficult - may need clarification")
	case m.AvgScore >= 0.4 && m.AvgScore <= 0.6:
		out = append(out, "good difficulty level - appropriately challenging")
	}

	switch {
	case m.ScoreStdDev > ambiguousStdDev:
		out = append(out, "high score variance suggests question may be ambiguous or confusing")
	case m.ScoreStdDev < consistentStdDev:
		out = append(out, "low score variance - students consistently understand or don't understand")
	}

	switch {
	case m.AvgTime > longTimeSeconds:
		out = append(out, "long completion time - question may be too complex or unclear")
	case m.AvgTime > 0 && m.AvgTime < quickTimeSeconds:
		out = append(out, "very quick completion - question might be too simple")
	}
	if m.AvgTime > 0 && m.TimeStdDev > m.AvgTime*0.8 {
		out = append(out, "high time variance - some students struggle while others don't")
	}

	switch {
	case s.SampleSize < smallSample:
		out = append(out, "small sample size - difficulty assessment may be unreliable")
	case s.SampleSize > largeSample:
		out = append(out, "large sample size - difficulty assessment is highly reliable")
	}

	if s.Confidence < 0.5 {
		out = append(out, fmt.Sprintf("low confidence (%.2f) - need responses from more students", s.Confidence))
	}

	return out
}
