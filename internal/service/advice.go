package service

import (
	"math"

	"github.com/otion-app/otion/internal/model"
)

// BMI returns weight / height(m)² rounded to one decimal, or 0 for a non-positive height.
func BMI(heightCm, weightKg int) float64 {
	if heightCm <= 0 {
		return 0
	}
	h := float64(heightCm) / 100
	return math.Round(float64(weightKg)/(h*h)*10) / 10
}

// FashionAdvice maps temperature, PM10 dust, gender and BMI onto fixed outfit text.
// Every band is closed on the upper bound and the last band of each scale is open-ended,
// so the function is total.
func FashionAdvice(temp, dust int, gender string, bmi float64) model.Advice {
	var advice model.Advice

	switch {
	case dust <= 30:
		advice.DustAdvice = "🌳 미세먼지 최고! 가벼운 외출을 즐기세요."
	case dust <= 80:
		advice.DustAdvice = "☁️ 미세먼지 보통. 무난한 날씨입니다."
	case dust <= 150:
		advice.DustAdvice = "😷 미세먼지 나쁨! 마스크를 착용하고 매끄러운 소재의 겉옷을 추천해요."
	default:
		advice.DustAdvice = "🚨 미세먼지 매우 나쁨! 가급적 외출을 자제하고 방진 마스크를 꼭 쓰세요."
	}

	switch {
	case temp <= 4:
		advice.Clothes = "두꺼운 패딩, 기모 코트, 목도리, 장갑, 히트텍"
	case temp <= 8:
		advice.Clothes = "울 코트, 가죽 자켓, 니트, 기모 바지"
	case temp <= 11:
		advice.Clothes = "트렌치 코트, 야상, 자켓, 셔츠 레이어드, 청바지"
	case temp <= 16:
		advice.Clothes = "가디건, 자켓, 맨투맨, 후드티, 면바지"
	case temp <= 19:
		advice.Clothes = "얇은 가디건, 니트, 긴팔 티셔츠, 슬랙스"
	case temp <= 22:
		advice.Clothes = "셔츠, 긴팔 티셔츠, 면바지, 슬랙스"
	case temp <= 27:
		advice.Clothes = "반팔 티셔츠, 얇은 셔츠, 반바지, 면바지"
	default:
		advice.Clothes = "민소매, 반팔, 린넨 소재 옷, 반바지"
	}

	switch {
	case bmi < 18.5:
		charm := "여성미"
		if gender == "남성" {
			charm = "남성미"
		}
		advice.Style = charm + "를 살려주는 레이어드 스타일을 추천해요. 밝은 톤의 옷이 체형을 보완해줍니다."
		advice.Colors = "Ivory, Beige, Light Blue"
	case bmi >= 25:
		advice.Style = "수축색(어두운 톤) 위주의 코디로 슬림한 느낌을 줄 수 있어요. 세로 스트라이프 패턴을 활용해 보세요."
		advice.Colors = "Navy, Black, Charcoal"
	default:
		advice.Style = "균형 잡힌 체형이시네요! 미니멀한 룩부터 화려한 스타일까지 자유롭게 시도해 보세요."
		advice.Colors = "Gray, Sky Blue, Khaki"
	}

	return advice
}
