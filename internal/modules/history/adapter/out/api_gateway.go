package out

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"pmprep/internal/modules/history/domain"
	historyout "pmprep/internal/modules/history/port/out"
	"pmprep/internal/platform/api"
)

type APIGateway struct {
	client *api.Client
}

func NewAPIGateway(client *api.Client) historyout.Gateway {
	return &APIGateway{client: client}
}

type sessionWire struct {
	ID             json.RawMessage `json:"id"`
	StartedAt      time.Time       `json:"startedAt"`
	EndedAt        time.Time       `json:"endedAt"`
	QuestionsCount int             `json:"questionsCount"`
	OverallScore   float64         `json:"overallScore"`
	Categories     []string        `json:"categories"`
}

func (g *APIGateway) Sessions(ctx context.Context) ([]domain.SessionRecord, error) {
	var wire struct {
		Sessions []sessionWire `json:"sessions"`
	}
	if err := g.client.Do(ctx, http.MethodGet, "/api/sessions", nil, &wire); err != nil {
		return nil, err
	}
	records := make([]domain.SessionRecord, 0, len(wire.Sessions))
	for _, s := range wire.Sessions {
		records = append(records, normalizeSession(s))
	}
	return records, nil
}

func (g *APIGateway) Session(ctx context.Context, id string) (domain.SessionDetail, error) {
	var wire struct {
		sessionWire
		Answers []struct {
			QuestionID int    `json:"questionId"`
			Prompt     string `json:"question"`
			Category   string `json:"category"`
			AnswerText string `json:"answerText"`
			Overall    int    `json:"overall"`
			Feedback   string `json:"feedback"`
		} `json:"answers"`
	}
	if err := g.client.Do(ctx, http.MethodGet, "/api/sessions/"+id, nil, &wire); err != nil {
		return domain.SessionDetail{}, err
	}
	detail := domain.SessionDetail{SessionRecord: normalizeSession(wire.sessionWire)}
	for _, a := range wire.Answers {
		detail.Answers = append(detail.Answers, domain.AnswerRecord{
			QuestionID: a.QuestionID,
			Prompt:     a.Prompt,
			Category:   a.Category,
			AnswerText: a.AnswerText,
			Overall:    a.Overall,
			Feedback:   a.Feedback,
		})
	}
	return detail, nil
}

func normalizeSession(wire sessionWire) domain.SessionRecord {
	return domain.SessionRecord{
		ID:             decodeID(wire.ID),
		StartedAt:      wire.StartedAt,
		EndedAt:        wire.EndedAt,
		QuestionsCount: wire.QuestionsCount,
		OverallScore:   wire.OverallScore,
		Categories:     wire.Categories,
	}
}

// Session ids arrive as numbers or strings depending on backend version.
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
