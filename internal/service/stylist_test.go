package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/otion-app/otion/internal/model"
	"github.com/otion-app/otion/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubCompleter struct {
	response string
	err      error
	system   string
	prompt   string
	calls    int
}

func (s *stubCompleter) Complete(_ context.Context, system, prompt string) (string, error) {
	s.calls++
	s.system = system
	s.prompt = prompt
	return s.response, s.err
}

const completeAdvice = `{"clothes":"트렌치 코트, 니트, 슬랙스","style":"톤온톤 레이어드","colors":"베이지, 브라운","dustAdvice":"마스크를 챙기세요"}`

func testAdviceRequest() AdviceRequest {
	return AdviceRequest{
		Profile: model.Profile{
			Age:     28,
			Gender:  "여성",
			Height:  175,
			Weight:  70,
			Style:   "미니멀",
			Purpose: "출근",
		},
		Environment: model.Environment{Temp: 15, Status: "맑음", Dust: 40},
	}
}

func TestStylistService_Advise(t *testing.T) {
	completer := &stubCompleter{response: completeAdvice}
	stylist := NewStylistService(completer, nil)

	result, err := stylist.Advise(context.Background(), "", testAdviceRequest())
	require.NoError(t, err)

	assert.Equal(t, model.AdviceSourceAI, result.Source)
	assert.Equal(t, 22.9, result.BMI)
	assert.Equal(t, "트렌치 코트, 니트, 슬랙스", result.Clothes)
	assert.Equal(t, "마스크를 챙기세요", result.DustAdvice)
	assert.Equal(t, stylistSystemPrompt, completer.system)
	assert.NotContains(t, completer.prompt, "[내 옷장]")
}

func TestStylistService_AdviseUpstreamFailures(t *testing.T) {
	tests := []struct {
		name      string
		completer *stubCompleter
	}{
		{"transport error", &stubCompleter{err: errors.New("connection refused")}},
		{"not json", &stubCompleter{response: "코트를 입으세요"}},
		{"missing field", &stubCompleter{response: `{"clothes":"코트","style":"심플","colors":"블랙"}`}},
		{"empty", &stubCompleter{response: ""}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stylist := NewStylistService(tt.completer, nil)
			result, err := stylist.Advise(context.Background(), "", testAdviceRequest())
			assertCode(t, err, model.CodeUpstream)
			assert.Nil(t, result)
			assert.Equal(t, 1, tt.completer.calls, "no retries")
		})
	}
}

func TestStylistService_AdviseWithoutCompleter(t *testing.T) {
	stylist := NewStylistService(nil, nil)

	result, err := stylist.Advise(context.Background(), "", testAdviceRequest())
	require.NoError(t, err)
	assert.Equal(t, model.AdviceSourceHeuristic, result.Source)
	assert.Equal(t, FashionAdvice(15, 40, "여성", 22.9), result.Advice)
}

func TestStylistService_AdviseValidation(t *testing.T) {
	completer := &stubCompleter{response: completeAdvice}
	stylist := NewStylistService(completer, nil)

	tests := []struct {
		name   string
		mutate func(r *AdviceRequest)
	}{
		{"zero height", func(r *AdviceRequest) { r.Profile.Height = 0 }},
		{"negative weight", func(r *AdviceRequest) { r.Profile.Weight = -1 }},
		{"zero age", func(r *AdviceRequest) { r.Profile.Age = 0 }},
		{"missing gender", func(r *AdviceRequest) { r.Profile.Gender = " " }},
		{"negative dust", func(r *AdviceRequest) { r.Environment.Dust = -5 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testAdviceRequest()
			tt.mutate(&req)
			_, err := stylist.Advise(context.Background(), "", req)
			assertCode(t, err, model.CodeValidation)
		})
	}
	assert.Zero(t, completer.calls)
}

func TestStylistService_AdviseWithWardrobe(t *testing.T) {
	database := setupTestDB(t)
	user := createTestUser(t, database, "owner@example.com")
	repo := repository.NewWardrobeRepository(database)
	require.NoError(t, repo.Create(context.Background(), &model.WardrobeItem{
		UserID: user.ID, Category: "아우터", Name: "트렌치 코트", Color: "베이지", Season: "봄가을",
	}))

	completer := &stubCompleter{response: completeAdvice}
	stylist := NewStylistService(completer, repo)

	req := testAdviceRequest()
	req.UseWardrobe = true

	_, err := stylist.Advise(context.Background(), "", req)
	assertCode(t, err, model.CodeUnauthorized)

	_, err = stylist.Advise(context.Background(), user.ID, req)
	require.NoError(t, err)
	assert.Contains(t, completer.prompt, "[내 옷장]")
	assert.Contains(t, completer.prompt, "1. 아우터 / 트렌치 코트 / 베이지 / 봄가을")
}

func TestStylistService_Basic(t *testing.T) {
	stylist := NewStylistService(&stubCompleter{err: errors.New("unused")}, nil)

	result, err := stylist.Basic(testAdviceRequest())
	require.NoError(t, err)
	assert.Equal(t, model.AdviceSourceHeuristic, result.Source)
	assert.True(t, result.Complete())

	req := testAdviceRequest()
	req.Profile.Height = 0
	_, err = stylist.Basic(req)
	assertCode(t, err, model.CodeValidation)
}

func TestBuildPrompt(t *testing.T) {
	profile := model.Profile{Age: 28, Gender: "여성", Height: 175, Weight: 70, Style: "미니멀", Purpose: "출근"}
	env := model.Environment{Temp: 15, Status: "맑음", Dust: 40}

	prompt := BuildPrompt(profile, env, nil, false)
	for _, want := range []string{
		"- 나이/성별: 28세 / 여성",
		"- 신체: 키 175cm, 몸무게 70kg (BMI: 22.9)",
		"- 선호 스타일: 미니멀",
		"- 외출 목적: 출근",
		"- 기온: 15도",
		"- 날씨 상태: 맑음",
		"- 미세먼지: 40 (농도 수치)",
		`"dustAdvice"`,
	} {
		assert.Contains(t, prompt, want)
	}
	assert.NotContains(t, prompt, "[내 옷장]")
	assert.Equal(t, prompt, BuildPrompt(profile, env, nil, false), "deterministic")

	empty := BuildPrompt(profile, env, nil, true)
	assert.Contains(t, empty, "[내 옷장]\n"+emptyWardrobe)

	items := []*model.WardrobeItem{
		{Category: "상의", Name: "셔츠", Color: "화이트", Season: "사계절"},
		{Category: "하의", Name: "슬랙스", Color: "그레이", Season: "사계절"},
	}
	listed := BuildPrompt(profile, env, items, true)
	assert.Contains(t, listed, "1. 상의 / 셔츠 / 화이트 / 사계절\n2. 하의 / 슬랙스 / 그레이 / 사계절\n")
	assert.True(t, strings.Index(listed, "[내 옷장]") < strings.Index(listed, "[요구사항]"))
}

func TestParseAdvice(t *testing.T) {
	advice, err := ParseAdvice("\n" + completeAdvice + "\n")
	require.NoError(t, err)
	assert.Equal(t, "베이지, 브라운", advice.Colors)

	_, err = ParseAdvice(`["clothes"]`)
	assert.Error(t, err)

	_, err = ParseAdvice(`{"clothes":"","style":"a","colors":"b","dustAdvice":"c"}`)
	assert.Error(t, err)
}
