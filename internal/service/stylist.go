package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/otion-app/otion/internal/model"
	"github.com/otion-app/otion/internal/observability"
	"github.com/otion-app/otion/internal/repository"
)

const stylistSystemPrompt = "전문 패션 스타일리스트로서 조언합니다."

const (
	defaultStyle   = "캐주얼"
	defaultPurpose = "일상"
	defaultStatus  = "정보 없음"
	emptyWardrobe  = "등록된 옷장 아이템이 없습니다. 일반적인 아이템으로 추천해주세요."
)

// Completer is a single-shot text completion backend.
type Completer interface {
	Complete(ctx context.Context, system, prompt string) (string, error)
}

type AdviceRequest struct {
	Profile     model.Profile     `json:"profile"`
	Environment model.Environment `json:"environment"`
	UseWardrobe bool              `json:"useWardrobe"`
}

type AdviceResult struct {
	model.Advice
	BMI    float64 `json:"bmi"`
	Source string  `json:"source"`
}

// StylistService produces outfit advice. With no completer configured every
// request is answered by the deterministic heuristic.
type StylistService struct {
	completer          Completer
	wardrobeRepository repository.WardrobeRepository
}

func NewStylistService(completer Completer, wardrobeRepository repository.WardrobeRepository) *StylistService {
	return &StylistService{
		completer:          completer,
		wardrobeRepository: wardrobeRepository,
	}
}

// Advise asks the AI stylist. userID is required only when the request uses the wardrobe.
// Upstream failures surface as UpstreamError; there is no retry and no silent fallback.
func (s *StylistService) Advise(ctx context.Context, userID string, req AdviceRequest) (*AdviceResult, error) {
	req, err := normalizeAdviceRequest(req)
	if err != nil {
		return nil, err
	}

	bmi := BMI(req.Profile.Height, req.Profile.Weight)

	if s.completer == nil {
		observability.AdviceSourceTotal.WithLabelValues(model.AdviceSourceHeuristic).Inc()
		return &AdviceResult{
			Advice: FashionAdvice(req.Environment.Temp, req.Environment.Dust, req.Profile.Gender, bmi),
			BMI:    bmi,
			Source: model.AdviceSourceHeuristic,
		}, nil
	}

	var wardrobe []*model.WardrobeItem
	if req.UseWardrobe {
		if userID == "" {
			return nil, model.NewUnauthorizedError("옷장을 사용하려면 로그인이 필요합니다.")
		}
		wardrobe, err = s.wardrobeRepository.Items(ctx, userID)
		if err != nil {
			return nil, model.NewStoreError(err)
		}
	}

	prompt := BuildPrompt(req.Profile, req.Environment, wardrobe, req.UseWardrobe)
	raw, err := s.completer.Complete(ctx, stylistSystemPrompt, prompt)
	if err != nil {
		return nil, model.NewUpstreamError("AI 스타일리스트에 연결할 수 없습니다.", err)
	}

	advice, err := ParseAdvice(raw)
	if err != nil {
		slog.Warn("unusable stylist response", "error", err)
		return nil, model.NewUpstreamError("AI 스타일리스트의 응답을 해석할 수 없습니다.", err)
	}

	observability.AdviceSourceTotal.WithLabelValues(model.AdviceSourceAI).Inc()
	return &AdviceResult{
		Advice: *advice,
		BMI:    bmi,
		Source: model.AdviceSourceAI,
	}, nil
}

// Basic answers with the deterministic heuristic only.
func (s *StylistService) Basic(req AdviceRequest) (*AdviceResult, error) {
	req, err := normalizeAdviceRequest(req)
	if err != nil {
		return nil, err
	}

	bmi := BMI(req.Profile.Height, req.Profile.Weight)
	observability.AdviceSourceTotal.WithLabelValues(model.AdviceSourceHeuristic).Inc()
	return &AdviceResult{
		Advice: FashionAdvice(req.Environment.Temp, req.Environment.Dust, req.Profile.Gender, bmi),
		BMI:    bmi,
		Source: model.AdviceSourceHeuristic,
	}, nil
}

func normalizeAdviceRequest(req AdviceRequest) (AdviceRequest, error) {
	p := &req.Profile
	p.Gender = strings.TrimSpace(p.Gender)
	p.Style = strings.TrimSpace(p.Style)
	p.Purpose = strings.TrimSpace(p.Purpose)

	if p.Age <= 0 || p.Height <= 0 || p.Weight <= 0 {
		return req, model.NewValidationError("나이, 키, 몸무게를 올바르게 입력해주세요.")
	}
	if p.Gender == "" {
		return req, model.NewValidationError("성별을 선택해주세요.")
	}
	if p.Style == "" {
		p.Style = defaultStyle
	}
	if p.Purpose == "" {
		p.Purpose = defaultPurpose
	}

	env := &req.Environment
	env.Status = strings.TrimSpace(env.Status)
	if env.Status == "" {
		env.Status = defaultStatus
	}
	if env.Dust < 0 {
		return req, model.NewValidationError("미세먼지 수치가 올바르지 않습니다.")
	}

	return req, nil
}

// BuildPrompt renders the stylist instructions. The wardrobe block is included only when
// withWardrobe is set, listing each item or a placeholder when there are none.
func BuildPrompt(p model.Profile, env model.Environment, wardrobe []*model.WardrobeItem, withWardrobe bool) string {
	bmi := strconv.FormatFloat(BMI(p.Height, p.Weight), 'f', 1, 64)

	var b strings.Builder
	b.WriteString("당신은 세계적인 패션 스타일리스트입니다.\n")
	b.WriteString("다음 사용자의 상세 정보를 바탕으로 'TPO(시간, 장소, 상황)'에 완벽히 맞는 코디를 추천해주세요.\n\n")

	b.WriteString("[사용자 프로필]\n")
	fmt.Fprintf(&b, "- 나이/성별: %d세 / %s\n", p.Age, p.Gender)
	fmt.Fprintf(&b, "- 신체: 키 %dcm, 몸무게 %dkg (BMI: %s)\n", p.Height, p.Weight, bmi)
	fmt.Fprintf(&b, "- 선호 스타일: %s\n", p.Style)
	fmt.Fprintf(&b, "- 외출 목적: %s\n\n", p.Purpose)

	b.WriteString("[현재 환경]\n")
	fmt.Fprintf(&b, "- 기온: %d도\n", env.Temp)
	fmt.Fprintf(&b, "- 날씨 상태: %s\n", env.Status)
	fmt.Fprintf(&b, "- 미세먼지: %d (농도 수치)\n\n", env.Dust)

	if withWardrobe {
		b.WriteString("[내 옷장]\n")
		if len(wardrobe) == 0 {
			b.WriteString(emptyWardrobe + "\n")
		}
		for i, item := range wardrobe {
			fmt.Fprintf(&b, "%d. %s / %s / %s / %s\n", i+1, item.Category, item.Name, item.Color, item.Season)
		}
		b.WriteString("\n")
	}

	b.WriteString("[요구사항]\n")
	fmt.Fprintf(&b, "1. %d세라는 나이에 어울리면서 %s 느낌을 살린 코디여야 합니다.\n", p.Age, p.Style)
	fmt.Fprintf(&b, "2. %s라는 상황에 적절한 격식을 갖춰주세요.\n", p.Purpose)
	fmt.Fprintf(&b, "3. 현재 기온(%d도)에서 춥거나 덥지 않은 구체적인 상/하의 및 외투를 추천하세요.\n", env.Temp)
	b.WriteString("4. 어울리는 신발과 액세서리도 포함하세요.\n")
	if withWardrobe && len(wardrobe) > 0 {
		b.WriteString("5. 가능하면 옷장에 있는 아이템을 우선 활용하고, 부족한 아이템만 새로 제안하세요.\n")
	}

	b.WriteString("\n응답은 반드시 아래 JSON 형식으로만 하세요:\n")
	b.WriteString(`{
  "clothes": "추천 의상 (상/하의/외투/신발)",
  "style": "스타일링 핵심 팁 (나이와 상황 고려)",
  "colors": "어울리는 색상 조합",
  "dustAdvice": "날씨/미세먼지 관련 주의사항"
}`)

	return b.String()
}

// ParseAdvice decodes a completion into Advice. Anything other than a JSON object
// with all four string fields is rejected.
func ParseAdvice(raw string) (*model.Advice, error) {
	var advice model.Advice
	err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &advice)
	if err != nil {
		return nil, fmt.Errorf("decode advice: %w", err)
	}
	if !advice.Complete() {
		return nil, fmt.Errorf("advice is missing fields")
	}
	return &advice, nil
}
