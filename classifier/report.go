package classifier

// ClassMetrics are holdout precision and recall for one outcome.
type ClassMetrics struct {
	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
	Support   int     `json:"support"`
}

// Report describes a training run. Metrics come from the holdout slice and
// are diagnostic only; they never gate whether the model is used.
type Report struct {
	Examples    int                      `json:"examples"`
	TrainSize   int                      `json:"trainSize"`
	HoldoutSize int                      `json:"holdoutSize"`
	Accuracy    float64                  `json:"accuracy"`
	Classes     [NumClasses]ClassMetrics `json:"classes"`
	LowData     bool                     `json:"lowData"`
}

func (r *Report) evaluate(m *Model, holdout []Example) {
	var correct int
	var tp, predicted [NumClasses]int
	var support [NumClasses]int

	for _, ex := range holdout {
		got, _, err := m.Predict(ex.Features)
		if err != nil {
			continue
		}
		support[ex.Label]++
		predicted[got]++
		if got == ex.Label {
			correct++
			tp[got]++
		}
	}

	r.Accuracy = float64(correct) / float64(len(holdout))
	for k := 0; k < NumClasses; k++ {
		c := ClassMetrics{Support: support[k]}
		if predicted[k] > 0 {
			c.Precision = float64(tp[k]) / float64(predicted[k])
		}
		if support[k] > 0 {
			c.Recall = float64(tp[k]) / float64(support[k])
		}
		r.Classes[k] = c
	}
}
