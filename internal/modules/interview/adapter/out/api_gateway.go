package out

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"

	"pmprep/internal/modules/interview/domain"
	interviewout "pmprep/internal/modules/interview/port/out"
	"pmprep/internal/platform/api"
)

// APIGateway wraps the interview endpoints. The backend has shipped several
// field spellings per endpoint over time; each wrapper collapses them into
// one canonical shape right here so nothing downstream ever branches on
// response layout.
type APIGateway struct {
	client *api.Client
}

func NewAPIGateway(client *api.Client) interviewout.Gateway {
	return &APIGateway{client: client}
}

type startWire struct {
	ID           *int            `json:"id"`
	QuestionID   *int            `json:"questionId"`
	Text         string          `json:"text"`
	Question     string          `json:"question"`
	QuestionText string          `json:"questionText"`
	Prompt       string          `json:"prompt"`
	Category     string          `json:"category"`
	Company      json.RawMessage `json:"company"`
}

func (g *APIGateway) StartInterview(ctx context.Context, category string) (interviewout.StartResult, error) {
	body := map[string]any{}
	if category != "" {
		body["category"] = category
	}
	var wire startWire
	if err := g.client.Do(ctx, http.MethodPost, "/api/start-interview", body, &wire); err != nil {
		return interviewout.StartResult{}, err
	}

	question := domain.Question{
		Prompt:    firstNonEmpty(wire.Text, wire.Question, wire.QuestionText, wire.Prompt),
		Category:  wire.Category,
		Companies: decodeCompanies(wire.Company),
	}
	switch {
	case wire.ID != nil:
		question.ID = *wire.ID
	case wire.QuestionID != nil:
		question.ID = *wire.QuestionID
	default:
		return interviewout.StartResult{}, fmt.Errorf("start-interview response carries no question id")
	}
	if question.Prompt == "" {
		return interviewout.StartResult{}, fmt.Errorf("start-interview response carries no question text")
	}
	return interviewout.StartResult{Question: question}, nil
}

// decodeCompanies accepts a single string, a list, or nothing.
func decodeCompanies(raw json.RawMessage) []string {
	if len(raw) == 0 {
		return nil
	}
	var one string
	if err := json.Unmarshal(raw, &one); err == nil {
		if one == "" {
			return nil
		}
		return []string{one}
	}
	var many []string
	if err := json.Unmarshal(raw, &many); err == nil {
		return many
	}
	return nil
}

func (g *APIGateway) Categories(ctx context.Context) ([]interviewout.CategoryResult, error) {
	var wire struct {
		Categories []struct {
			Value string `json:"value"`
			Label string `json:"label"`
		} `json:"categories"`
	}
	if err := g.client.Do(ctx, http.MethodGet, "/api/categories", nil, &wire); err != nil {
		return nil, err
	}
	results := make([]interviewout.CategoryResult, 0, len(wire.Categories))
	for _, c := range wire.Categories {
		results = append(results, interviewout.CategoryResult{Value: c.Value, Label: c.Label})
	}
	return results, nil
}

func (g *APIGateway) SubmitAnswer(ctx context.Context, in interviewout.SubmitAnswerInput) (string, error) {
	body := map[string]any{
		"questionId": in.QuestionID,
		"answerText": in.AnswerText,
	}
	if in.PracticeSessionID != "" {
		body["practiceSessionId"] = in.PracticeSessionID
	}
	if in.AnswerID != "" {
		body["answerId"] = in.AnswerID
	}
	if in.TimeTakenSeconds > 0 {
		body["timeTakenSeconds"] = in.TimeTakenSeconds
	}
	var wire struct {
		AnswerID json.RawMessage `json:"answerId"`
		ID       json.RawMessage `json:"id"`
	}
	if err := g.client.Do(ctx, http.MethodPost, "/api/submit-answer", body, &wire); err != nil {
		return "", err
	}
	answerID := decodeID(wire.AnswerID)
	if answerID == "" {
		answerID = decodeID(wire.ID)
	}
	if answerID == "" {
		return "", fmt.Errorf("submit-answer response carries no answer id")
	}
	return answerID, nil
}

// decodeID tolerates ids sent as numbers or strings.
func decodeID(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var asString string
	if err := json.Unmarshal(raw, &asString); err == nil {
		return asString
	}
	var asNumber int64
	if err := json.Unmarshal(raw, &asNumber); err == nil {
		return strconv.FormatInt(asNumber, 10)
	}
	return ""
}

// The scoring endpoints key the request by the answer id under the field
// name sessionId; a backend quirk the wrapper hides.
func (g *APIGateway) SummarizedScore(ctx context.Context, answerID string) (domain.Score, error) {
	return g.score(ctx, "/api/score-summarised", answerID)
}

func (g *APIGateway) DetailedScore(ctx context.Context, answerID string) (domain.Score, error) {
	return g.score(ctx, "/api/score", answerID)
}

type scoreWire struct {
	Structure      int      `json:"structure"`
	Metrics        int      `json:"metrics"`
	Prioritization int      `json:"prioritization"`
	UserEmpathy    int      `json:"userEmpathy"`
	Communication  int      `json:"communication"`
	TotalScore     *float64 `json:"totalScore"`
	Overall        *float64 `json:"overall"`
	Feedback       string   `json:"feedback"`
	SampleAnswer   string   `json:"sampleAnswer"`
}

func (g *APIGateway) score(ctx context.Context, path, answerID string) (domain.Score, error) {
	body := map[string]string{"sessionId": answerID}
	var wire struct {
		Score  *scoreWire `json:"score"`
		Scores *scoreWire `json:"scores"`
	}
	if err := g.client.Do(ctx, http.MethodPost, path, body, &wire); err != nil {
		return domain.Score{}, err
	}
	payload := wire.Score
	if payload == nil {
		payload = wire.Scores
	}
	if payload == nil {
		return domain.Score{}, fmt.Errorf("score response carries no score object")
	}
	return normalizeScore(*payload), nil
}

func normalizeScore(wire scoreWire) domain.Score {
	score := domain.Score{
		Dimensions: domain.Dimensions{
			Structure:      wire.Structure,
			Metrics:        wire.Metrics,
			Prioritization: wire.Prioritization,
			UserEmpathy:    wire.UserEmpathy,
			Communication:  wire.Communication,
		},
		Feedback:     wire.Feedback,
		SampleAnswer: wire.SampleAnswer,
	}
	switch {
	case wire.TotalScore != nil:
		score.Overall = int(math.Round(*wire.TotalScore))
	case wire.Overall != nil:
		score.Overall = int(math.Round(*wire.Overall))
	default:
		score.Overall = score.Dimensions.Mean()
	}
	return score
}

func (g *APIGateway) Clarify(ctx context.Context, questionID int, userMessage string, history []domain.Turn) (string, error) {
	turns := make([]map[string]string, 0, len(history))
	for _, turn := range history {
		turns = append(turns, map[string]string{"role": string(turn.Role), "text": turn.Text})
	}
	body := map[string]any{
		"questionId":          questionID,
		"userMessage":         userMessage,
		"conversationHistory": turns,
	}
	var wire struct {
		Response string `json:"response"`
		Message  string `json:"message"`
	}
	if err := g.client.Do(ctx, http.MethodPost, "/api/clarify", body, &wire); err != nil {
		return "", err
	}
	reply := firstNonEmpty(wire.Response, wire.Message)
	if reply == "" {
		return "", fmt.Errorf("clarify response carries no text")
	}
	return reply, nil
}

func (g *APIGateway) ModelAnswer(ctx context.Context, questionID int) (string, error) {
	body := map[string]int{"questionId": questionID}
	var wire struct {
		ModelAnswer string `json:"modelAnswer"`
	}
	if err := g.client.Do(ctx, http.MethodPost, "/api/model-answer", body, &wire); err != nil {
		return "", err
	}
	return wire.ModelAnswer, nil
}

func (g *APIGateway) OpenPracticeSession(ctx context.Context) (string, error) {
	var wire struct {
		PracticeSessionID json.RawMessage `json:"practiceSessionId"`
		ID                json.RawMessage `json:"id"`
	}
	if err := g.client.Do(ctx, http.MethodPost, "/api/practice-sessions/start", nil, &wire); err != nil {
		return "", err
	}
	id := decodeID(wire.PracticeSessionID)
	if id == "" {
		id = decodeID(wire.ID)
	}
	if id == "" {
		return "", fmt.Errorf("practice-session start response carries no id")
	}
	return id, nil
}

func (g *APIGateway) ClosePracticeSession(ctx context.Context, practiceSessionID string) (interviewout.CloseResult, error) {
	var wire struct {
		QuestionsCount    int                `json:"questionsCount"`
		DurationSeconds   int                `json:"duration"`
		OverallScore      float64            `json:"overallScore"`
		CategoryBreakdown map[string]float64 `json:"categoryBreakdown"`
	}
	path := "/api/practice-sessions/" + practiceSessionID + "/end"
	if err := g.client.Do(ctx, http.MethodPost, path, nil, &wire); err != nil {
		return interviewout.CloseResult{}, err
	}
	return interviewout.CloseResult{
		QuestionsCount:  wire.QuestionsCount,
		DurationSeconds: wire.DurationSeconds,
		OverallScore:    wire.OverallScore,
		ByCategory:      wire.CategoryBreakdown,
	}, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
