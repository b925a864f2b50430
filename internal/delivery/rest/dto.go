package rest

import (
	"time"

	"github.com/aliskhannn/trivia-quiz-bot/internal/domain/entities"
)

type startGameRequest struct {
	Category string `json:"category"`
	Player   string `json:"player" binding:"max=64"`
}

type answerRequest struct {
	Option *int `json:"option" binding:"required"`
}

type categoryView struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Icon  string `json:"icon"`
	Color string `json:"color"`
}

type questionView struct {
	ID           string   `json:"id"`
	Category     string   `json:"category"`
	Difficulty   string   `json:"difficulty"`
	Text         string   `json:"question"`
	Options      []string `json:"options"`
	CorrectIndex *int     `json:"correct_index,omitempty"`
	Explanation  string   `json:"explanation,omitempty"`
}

type gameView struct {
	ID             string                 `json:"id"`
	Category       string                 `json:"category"`
	Phase          entities.Phase         `json:"phase"`
	Outcome        entities.Outcome       `json:"outcome,omitempty"`
	QuestionNumber int                    `json:"question_number"`
	TotalQuestions int                    `json:"total_questions"`
	Question       *questionView          `json:"question,omitempty"`
	SelectedOption *int                   `json:"selected_option,omitempty"`
	LastCorrect    *bool                  `json:"last_correct,omitempty"`
	LastPoints     int                    `json:"last_points"`
	LastBonus      int                    `json:"last_bonus"`
	LeveledUp      bool                   `json:"leveled_up"`
	Score          int                    `json:"score"`
	Streak         int                    `json:"streak"`
	BestStreak     int                    `json:"best_streak"`
	Level          int                    `json:"level"`
	Lives          int                    `json:"lives"`
	MaxLives       int                    `json:"max_lives"`
	CorrectAnswers int                    `json:"correct_answers"`
	Answered       int                    `json:"answered"`
	TimeLeft       int                    `json:"time_left"`
	Eliminated     []int                  `json:"eliminated"`
	AudiencePoll   []int                  `json:"audience_poll,omitempty"`
	FriendAdvice   *int                   `json:"friend_advice,omitempty"`
	Lifelines      entities.LifelinesUsed `json:"lifelines"`
	Notice         string                 `json:"notice,omitempty"`
	StartedAt      time.Time              `json:"started_at"`
	FinishedAt     *time.Time             `json:"finished_at,omitempty"`
}

type resultView struct {
	Rank           int       `json:"rank"`
	PlayerName     string    `json:"player_name"`
	Category       string    `json:"category"`
	Score          int       `json:"score"`
	Level          int       `json:"level"`
	BestStreak     int       `json:"best_streak"`
	CorrectAnswers int       `json:"correct_answers"`
	Answered       int       `json:"answered"`
	Accuracy       float64   `json:"accuracy"`
	Outcome        string    `json:"outcome"`
	FinishedAt     time.Time `json:"finished_at"`
}

func toCategoryViews(categories []entities.Category) []categoryView {
	out := make([]categoryView, 0, len(categories))
	for _, c := range categories {
		out = append(out, categoryView{ID: c.ID, Name: c.Name, Icon: c.Icon, Color: c.Color})
	}
	return out
}

// toGameView converts a game for the API. The correct index and explanation
// stay hidden until the answer is revealed.
func toGameView(g *entities.Game) gameView {
	v := gameView{
		ID:             g.ID,
		Category:       g.Category,
		Phase:          g.Phase,
		Outcome:        g.Outcome,
		QuestionNumber: g.CurrentIndex + 1,
		TotalQuestions: len(g.Questions),
		SelectedOption: g.SelectedOption,
		LastCorrect:    g.LastCorrect,
		LastPoints:     g.LastPoints,
		LastBonus:      g.LastBonus,
		LeveledUp:      g.LeveledUp,
		Score:          g.Score,
		Streak:         g.Streak,
		BestStreak:     g.BestStreak,
		Level:          g.Level,
		Lives:          g.Lives,
		MaxLives:       g.MaxLives,
		CorrectAnswers: g.CorrectAnswers,
		Answered:       g.Answered,
		TimeLeft:       g.TimeLeft,
		Eliminated:     g.Eliminated,
		AudiencePoll:   g.AudiencePoll,
		FriendAdvice:   g.FriendAdvice,
		Lifelines:      g.Lifelines,
		Notice:         g.Notice,
		StartedAt:      g.StartedAt,
	}
	if v.Eliminated == nil {
		v.Eliminated = []int{}
	}
	if !g.FinishedAt.IsZero() {
		finished := g.FinishedAt
		v.FinishedAt = &finished
	}

	if q := g.Current(); q != nil {
		qv := &questionView{
			ID:         q.ID,
			Category:   q.Category,
			Difficulty: string(q.Difficulty),
			Text:       q.Text,
			Options:    q.Options,
		}
		if g.Phase == entities.PhaseAnswerRevealed || g.Phase == entities.PhaseGameOver {
			correct := q.CorrectIndex
			qv.CorrectIndex = &correct
			qv.Explanation = q.Explanation
		}
		v.Question = qv
	}

	return v
}

func toResultViews(results []entities.GameResult) []resultView {
	out := make([]resultView, 0, len(results))
	for i, r := range results {
		out = append(out, resultView{
			Rank:           i + 1,
			PlayerName:     r.PlayerName,
			Category:       r.Category,
			Score:          r.Score,
			Level:          r.Level,
			BestStreak:     r.BestStreak,
			CorrectAnswers: r.CorrectAnswers,
			Answered:       r.Answered,
			Accuracy:       r.Accuracy(),
			Outcome:        string(r.Outcome),
			FinishedAt:     r.FinishedAt,
		})
	}
	return out
}
