package models

// Evaluation is the scored outcome of one idea submission. The five dimension
// scores come from the model (or the synthetic fallback); TotalScore is always
// recomputed server-side as the rounded mean of the five.
type Evaluation struct {
	AIRelevance int    `json:"aiRelevance"`
	Creativity  int    `json:"creativity"`
	Impact      int    `json:"impact"`
	Clarity     int    `json:"clarity"`
	FunFactor   int    `json:"funFactor"`
	TotalScore  int    `json:"totalScore"`
	Feedback    string `json:"feedback"`
	EvaluatedAt string `json:"evaluatedAt,omitempty"`
}

// Dimensions returns the five dimension scores in their canonical order.
func (e Evaluation) Dimensions() [5]int {
	return [5]int{e.AIRelevance, e.Creativity, e.Impact, e.Clarity, e.FunFactor}
}
