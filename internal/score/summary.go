package score

import "github.com/ppiankov/leadrank/internal/model"

// Summary aggregates a ranked lead set
type Summary struct {
	Total      int                    `json:"total"`
	ByPriority map[model.Priority]int `json:"by_priority"`
	MeanScore  float64                `json:"mean_score"`
	TopScore   float64                `json:"top_score"`
}

// Summarize counts leads per priority and averages their scores
func Summarize(leads []model.ScoredListing) Summary {
	sum := Summary{
		Total:      len(leads),
		ByPriority: make(map[model.Priority]int, len(model.Priorities)),
	}
	for _, p := range model.Priorities {
		sum.ByPriority[p] = 0
	}
	if len(leads) == 0 {
		return sum
	}

	total := 0.0
	for i, l := range leads {
		sum.ByPriority[l.Priority]++
		total += l.LeadScore
		if i == 0 || l.LeadScore > sum.TopScore {
			sum.TopScore = l.LeadScore
		}
	}
	sum.MeanScore = round2(total / float64(len(leads)))

	return sum
}
