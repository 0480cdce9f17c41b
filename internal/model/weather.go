package model

// Conditions is the current weather and air quality at a location.
type Conditions struct {
	Temp   int    `json:"temp"`
	Status string `json:"status"`
	Icon   string `json:"icon"`
	City   string `json:"city"`
	Dust   int    `json:"dust"`
}
