package model

import "time"

// Summary holds the aggregate view of one analysis run.
type Summary struct {
	TotalKeywords         int                     `json:"total_keywords"`
	ByPriority            map[Priority]int        `json:"by_priority"`
	ByType                map[OpportunityType]int `json:"by_type"`
	ByDataSource          map[DataSource]int      `json:"by_data_source"`
	TotalTrafficPotential int64                   `json:"total_traffic_potential"`
	QuestionKeywords      int                     `json:"question_keywords"`
	HighAnswerPotential   int                     `json:"high_answer_potential"` // answer potential >= 70
	AveragePosition       float64                 `json:"average_position"`
}

// Summarize computes aggregates over a scored opportunity set.
func Summarize(opps []Opportunity) Summary {
	s := Summary{
		TotalKeywords: len(opps),
		ByPriority:    make(map[Priority]int),
		ByType:        make(map[OpportunityType]int),
		ByDataSource:  make(map[DataSource]int),
	}

	var positionSum float64
	for _, o := range opps {
		s.ByPriority[o.Priority]++
		s.ByType[o.OpportunityType]++
		s.ByDataSource[o.DataSource]++
		s.TotalTrafficPotential += o.TrafficPotential
		if o.IsQuestion() {
			s.QuestionKeywords++
		}
		if o.AnswerPotential >= 70 {
			s.HighAnswerPotential++
		}
		positionSum += o.Position
	}

	if len(opps) > 0 {
		s.AveragePosition = positionSum / float64(len(opps))
	}
	return s
}

// AnalysisRun records one completed pipeline invocation for persistence.
type AnalysisRun struct {
	ID        string    `json:"id"`
	Domain    string    `json:"domain"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	Fetched   int       `json:"fetched"`  // raw records supplied
	Dropped   int       `json:"dropped"`  // malformed records removed
	Excluded  int       `json:"excluded"` // exclusion set + filter removals
	Summary   Summary   `json:"summary"`
	CreatedAt time.Time `json:"created_at"`
}
