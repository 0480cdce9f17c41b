package weather

// currentResponse is the subset of /data/2.5/weather we read.
type currentResponse struct {
	Name    string `json:"name"`
	Weather []struct {
		Main        string `json:"main"`
		Description string `json:"description"`
		Icon        string `json:"icon"`
	} `json:"weather"`
	Main struct {
		Temp float64 `json:"temp"`
	} `json:"main"`
}

// airPollutionResponse is the subset of /data/2.5/air_pollution we read.
type airPollutionResponse struct {
	List []struct {
		Components struct {
			PM10 float64 `json:"pm10"`
			PM25 float64 `json:"pm2_5"`
		} `json:"components"`
	} `json:"list"`
}
