package model

const (
	AdviceSourceAI        = "ai"
	AdviceSourceHeuristic = "heuristic"
)

type Profile struct {
	Age     int    `json:"age"`
	Gender  string `json:"gender"`
	Height  int    `json:"height"`
	Weight  int    `json:"weight"`
	Style   string `json:"style"`
	Purpose string `json:"purpose"`
}

type Environment struct {
	Temp   int    `json:"temp"`
	Status string `json:"status"`
	Dust   int    `json:"dust"`
}

// Advice is an outfit suggestion. All four fields are always populated.
type Advice struct {
	Clothes    string `json:"clothes"`
	Style      string `json:"style"`
	Colors     string `json:"colors"`
	DustAdvice string `json:"dustAdvice"`
}

func (a Advice) Complete() bool {
	return a.Clothes != "" && a.Style != "" && a.Colors != "" && a.DustAdvice != ""
}
