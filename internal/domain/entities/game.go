package entities

import (
	"errors"
	"slices"
	"time"
)

var (
	ErrNoQuestions      = errors.New("no questions available")
	ErrNotPlaying       = errors.New("game is not in progress")
	ErrAlreadyAnswered  = errors.New("question already answered")
	ErrAnswerPending    = errors.New("question not answered yet")
	ErrInvalidOption    = errors.New("invalid option")
	ErrOptionEliminated = errors.New("option was eliminated")
	ErrLifelineUsed     = errors.New("lifeline already used")
	ErrUnknownLifeline  = errors.New("unknown lifeline")
)

// Phase is the state of a game session.
type Phase string

const (
	PhaseLoading        Phase = "loading"
	PhaseAnswerPending  Phase = "answer_pending"
	PhaseAnswerRevealed Phase = "answer_revealed"
	PhaseGameOver       Phase = "game_over"
)

// Outcome tells how a finished game ended.
type Outcome string

const (
	OutcomeCompleted   Outcome = "completed"
	OutcomeOutOfLives  Outcome = "out_of_lives"
	OutcomeNoQuestions Outcome = "no_questions"
)

// Event is what a Tick did to the game.
type Event string

const (
	EventNone     Event = ""
	EventTimeout  Event = "timeout"
	EventAdvanced Event = "advanced"
	EventGameOver Event = "game_over"
)

// Rules holds the tunable constants of a game.
type Rules struct {
	QuestionsPerGame int
	MaxLives         int
	QuestionTime     time.Duration
	RevealDelay      time.Duration
	LevelEvery       int
}

// DefaultRules returns the standard rule set.
func DefaultRules() Rules {
	return Rules{
		QuestionsPerGame: 10,
		MaxLives:         3,
		QuestionTime:     30 * time.Second,
		RevealDelay:      2 * time.Second,
		LevelEvery:       3,
	}
}

func (r Rules) questionSeconds() int {
	s := int(r.QuestionTime / time.Second)
	if s < 1 {
		s = 1
	}
	return s
}

// LifelinesUsed records which lifelines were consumed.
type LifelinesUsed struct {
	FiftyFifty  bool `json:"fifty_fifty"`
	Audience    bool `json:"audience"`
	PhoneFriend bool `json:"phone_friend"`
}

// AnswerOutcome describes the effect of a selected option or timeout.
type AnswerOutcome struct {
	Correct  bool
	TimedOut bool
	Points   int
	Bonus    int
	GameOver bool
}

// Game is the state of one trivia session.
// It is not safe for concurrent use; callers serialize access.
type Game struct {
	ID         string
	UserID     int64 // Telegram user, 0 for HTTP players
	ChatID     int64
	MessageID  int // Telegram message that shows the current question
	PlayerName string
	Category   string
	Rules      Rules

	Phase     Phase
	Outcome   Outcome
	Questions []Question

	CurrentIndex   int
	SelectedOption *int
	LastCorrect    *bool
	LastPoints     int
	LastBonus      int
	LeveledUp      bool

	Lives          int
	MaxLives       int
	Score          int
	Streak         int
	BestStreak     int
	Level          int
	CorrectAnswers int
	Answered       int
	TimeLeft       int // seconds

	History []AnswerRecord

	Eliminated   []int
	Lifelines    LifelinesUsed
	AudiencePoll []int
	FriendAdvice *int

	Notice string // non-fatal notification, e.g. fallback questions in use

	StartedAt    time.Time
	RevealedAt   time.Time
	FinishedAt   time.Time
	LastActivity time.Time
}

// NewGame creates a session in the loading phase.
func NewGame(id string, rules Rules, category string, now time.Time) *Game {
	return &Game{
		ID:           id,
		Category:     category,
		Rules:        rules,
		Phase:        PhaseLoading,
		Lives:        rules.MaxLives,
		MaxLives:     rules.MaxLives,
		Level:        1,
		TimeLeft:     rules.questionSeconds(),
		StartedAt:    now,
		LastActivity: now,
	}
}

// Begin loads the questions and shows the first one.
func (g *Game) Begin(questions []Question, now time.Time) error {
	if g.Phase != PhaseLoading {
		return ErrNotPlaying
	}
	g.LastActivity = now
	if len(questions) == 0 {
		g.finish(OutcomeNoQuestions, now)
		return ErrNoQuestions
	}

	g.Questions = questions
	g.CurrentIndex = 0
	g.Phase = PhaseAnswerPending
	g.TimeLeft = g.Rules.questionSeconds()
	return nil
}

// Current returns the question on screen, or nil when there is none.
func (g *Game) Current() *Question {
	if g.CurrentIndex < 0 || g.CurrentIndex >= len(g.Questions) {
		return nil
	}
	return &g.Questions[g.CurrentIndex]
}

// IsPlaying reports whether a question is on screen.
func (g *Game) IsPlaying() bool {
	return g.Phase == PhaseAnswerPending || g.Phase == PhaseAnswerRevealed
}

// IsOver reports whether the game has ended.
func (g *Game) IsOver() bool {
	return g.Phase == PhaseGameOver
}

// IsLastQuestion reports whether the current question is the final one.
func (g *Game) IsLastQuestion() bool {
	return g.CurrentIndex >= len(g.Questions)-1
}

// IsEliminated reports whether option i was removed by the fifty-fifty lifeline.
func (g *Game) IsEliminated(i int) bool {
	return slices.Contains(g.Eliminated, i)
}

// Select records the player's choice for the current question.
func (g *Game) Select(option int, now time.Time) (AnswerOutcome, error) {
	switch g.Phase {
	case PhaseAnswerPending:
	case PhaseAnswerRevealed:
		return AnswerOutcome{}, ErrAlreadyAnswered
	default:
		return AnswerOutcome{}, ErrNotPlaying
	}

	q := g.Current()
	if option < 0 || option >= len(q.Options) {
		return AnswerOutcome{}, ErrInvalidOption
	}
	if g.IsEliminated(option) {
		return AnswerOutcome{}, ErrOptionEliminated
	}

	g.SelectedOption = &option
	correct := option == q.CorrectIndex
	g.reveal(correct, now)

	if !correct {
		g.record(q, &option, false, false, 0, 0, now)
		return AnswerOutcome{GameOver: g.loseLife(now)}, nil
	}

	points := Points(q.Difficulty, g.Streak)
	g.Streak++
	bonus := StreakBonus(points, g.Streak)

	g.Score += points + bonus
	g.CorrectAnswers++
	g.LastPoints = points
	g.LastBonus = bonus
	if g.Streak > g.BestStreak {
		g.BestStreak = g.Streak
	}
	g.record(q, &option, true, false, points, bonus, now)

	return AnswerOutcome{Correct: true, Points: points, Bonus: bonus}, nil
}

// Timeout treats the current question as answered wrongly.
func (g *Game) Timeout(now time.Time) (AnswerOutcome, error) {
	if g.Phase != PhaseAnswerPending {
		return AnswerOutcome{}, ErrNotPlaying
	}

	g.TimeLeft = 0
	g.reveal(false, now)
	g.record(g.Current(), nil, false, true, 0, 0, now)

	return AnswerOutcome{TimedOut: true, GameOver: g.loseLife(now)}, nil
}

// Advance moves past a revealed question, ending the game after the last one.
func (g *Game) Advance(now time.Time) error {
	switch g.Phase {
	case PhaseAnswerRevealed:
	case PhaseAnswerPending:
		return ErrAnswerPending
	default:
		return ErrNotPlaying
	}

	g.LastActivity = now
	g.LeveledUp = false

	if g.IsLastQuestion() {
		g.finish(OutcomeCompleted, now)
		return nil
	}

	if g.Rules.LevelEvery > 0 && (g.CurrentIndex+1)%g.Rules.LevelEvery == 0 {
		g.Level++
		g.LeveledUp = true
	}

	g.CurrentIndex++
	g.Phase = PhaseAnswerPending
	g.SelectedOption = nil
	g.LastCorrect = nil
	g.LastPoints = 0
	g.LastBonus = 0
	g.Eliminated = nil
	g.AudiencePoll = nil
	g.FriendAdvice = nil
	g.TimeLeft = g.Rules.questionSeconds()
	g.RevealedAt = time.Time{}

	return nil
}

// Tick advances the countdown by one second. A correct answer that has been
// on screen for the reveal delay moves on to the next question.
func (g *Game) Tick(now time.Time) Event {
	switch g.Phase {
	case PhaseAnswerPending:
		if g.TimeLeft > 1 {
			g.TimeLeft--
			return EventNone
		}
		out, _ := g.Timeout(now)
		if out.GameOver {
			return EventGameOver
		}
		return EventTimeout

	case PhaseAnswerRevealed:
		if g.LastCorrect == nil || !*g.LastCorrect {
			return EventNone
		}
		if now.Sub(g.RevealedAt) < g.Rules.RevealDelay {
			return EventNone
		}
		_ = g.Advance(now)
		if g.IsOver() {
			return EventGameOver
		}
		return EventAdvanced
	}

	return EventNone
}

// CanUseLifeline checks that the lifeline exists, is unused and a question is awaiting an answer.
func (g *Game) CanUseLifeline(l Lifeline) error {
	used, err := g.lifelineUsed(l)
	if err != nil {
		return err
	}
	if used {
		return ErrLifelineUsed
	}
	if g.Phase != PhaseAnswerPending {
		return ErrNotPlaying
	}
	return nil
}

// ApplyFiftyFifty hides the given options and consumes the lifeline.
func (g *Game) ApplyFiftyFifty(eliminated []int, now time.Time) error {
	if err := g.CanUseLifeline(LifelineFiftyFifty); err != nil {
		return err
	}
	g.Eliminated = eliminated
	g.Lifelines.FiftyFifty = true
	g.LastActivity = now
	return nil
}

// ApplyAudience stores the poll and consumes the lifeline.
func (g *Game) ApplyAudience(poll []int, now time.Time) error {
	if err := g.CanUseLifeline(LifelineAudience); err != nil {
		return err
	}
	g.AudiencePoll = poll
	g.Lifelines.Audience = true
	g.LastActivity = now
	return nil
}

// ApplyPhoneFriend stores the friend's suggestion and consumes the lifeline.
func (g *Game) ApplyPhoneFriend(suggestion int, now time.Time) error {
	if err := g.CanUseLifeline(LifelinePhoneFriend); err != nil {
		return err
	}
	g.FriendAdvice = &suggestion
	g.Lifelines.PhoneFriend = true
	g.LastActivity = now
	return nil
}

// Result summarizes a finished game.
func (g *Game) Result() GameResult {
	var userID *int64
	if g.UserID != 0 {
		id := g.UserID
		userID = &id
	}
	return GameResult{
		GameID:         g.ID,
		UserID:         userID,
		PlayerName:     g.PlayerName,
		Category:       g.Category,
		Score:          g.Score,
		Level:          g.Level,
		BestStreak:     g.BestStreak,
		CorrectAnswers: g.CorrectAnswers,
		Answered:       g.Answered,
		TotalQuestions: len(g.Questions),
		Outcome:        g.Outcome,
		StartedAt:      g.StartedAt,
		FinishedAt:     g.FinishedAt,
	}
}

// Clone returns a deep copy that can be read without holding the owner's lock.
func (g *Game) Clone() *Game {
	c := *g
	c.Questions = slices.Clone(g.Questions)
	for i := range c.Questions {
		c.Questions[i].Options = slices.Clone(c.Questions[i].Options)
	}
	c.Eliminated = slices.Clone(g.Eliminated)
	c.AudiencePoll = slices.Clone(g.AudiencePoll)
	c.History = slices.Clone(g.History)
	if g.SelectedOption != nil {
		v := *g.SelectedOption
		c.SelectedOption = &v
	}
	if g.LastCorrect != nil {
		v := *g.LastCorrect
		c.LastCorrect = &v
	}
	if g.FriendAdvice != nil {
		v := *g.FriendAdvice
		c.FriendAdvice = &v
	}
	return &c
}

func (g *Game) reveal(correct bool, now time.Time) {
	g.Phase = PhaseAnswerRevealed
	g.LastCorrect = &correct
	g.LastPoints = 0
	g.LastBonus = 0
	g.Answered++
	g.RevealedAt = now
	g.LastActivity = now
}

func (g *Game) record(q *Question, selected *int, correct, timedOut bool, points, bonus int, now time.Time) {
	var sel *int
	if selected != nil {
		v := *selected
		sel = &v
	}
	g.History = append(g.History, AnswerRecord{
		QuestionID: q.ID,
		Category:   q.Category,
		Difficulty: q.Difficulty,
		Selected:   sel,
		Correct:    correct,
		TimedOut:   timedOut,
		Points:     points,
		Bonus:      bonus,
		AnsweredAt: now,
	})
}

// loseLife resets the streak and takes a life. It reports whether the game ended.
func (g *Game) loseLife(now time.Time) bool {
	g.Streak = 0
	if g.Lives > 0 {
		g.Lives--
	}
	if g.Lives == 0 {
		g.finish(OutcomeOutOfLives, now)
		return true
	}
	return false
}

func (g *Game) finish(outcome Outcome, now time.Time) {
	g.Phase = PhaseGameOver
	g.Outcome = outcome
	g.FinishedAt = now
	g.LastActivity = now
}

func (g *Game) lifelineUsed(l Lifeline) (bool, error) {
	switch l {
	case LifelineFiftyFifty:
		return g.Lifelines.FiftyFifty, nil
	case LifelineAudience:
		return g.Lifelines.Audience, nil
	case LifelinePhoneFriend:
		return g.Lifelines.PhoneFriend, nil
	default:
		return false, ErrUnknownLifeline
	}
}

// GameEvent pairs a game snapshot with the event a tick produced.
type GameEvent struct {
	Game  *Game
	Event Event
}
