package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/aliskhannn/trivia-quiz-bot/internal/domain/entities"
	"github.com/aliskhannn/trivia-quiz-bot/internal/random"
	"github.com/aliskhannn/trivia-quiz-bot/internal/repository"
	"github.com/aliskhannn/trivia-quiz-bot/internal/storage"
)

type fakeProvider struct {
	questions []entities.Question
	notice    string
	err       error
}

func (f *fakeProvider) Fetch(_ context.Context, count int, _ string) ([]entities.Question, string, error) {
	if f.err != nil {
		return nil, "", f.err
	}
	qs := f.questions
	if len(qs) > count {
		qs = qs[:count]
	}
	out := make([]entities.Question, len(qs))
	copy(out, qs)
	return out, f.notice, nil
}

type fakeRecorder struct {
	mu      sync.Mutex
	results []entities.GameResult
	answers [][]entities.AnswerRecord
	err     error
}

func (f *fakeRecorder) Record(ctx context.Context, result *entities.GameResult, answers []entities.AnswerRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	if f.err != nil {
		return f.err
	}
	f.results = append(f.results, *result)
	f.answers = append(f.answers, answers)
	return nil
}

func (f *fakeRecorder) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.results)
}

type fakeNotifier struct {
	events []entities.Event
}

func (f *fakeNotifier) NotifyGameEvent(_ context.Context, _ *entities.Game, ev entities.Event) {
	f.events = append(f.events, ev)
}

type testClock struct {
	t time.Time
}

func (c *testClock) now() time.Time          { return c.t }
func (c *testClock) advance(d time.Duration) { c.t = c.t.Add(d) }

type gameFixture struct {
	svc      *GameService
	storage  *storage.GameStorage
	recorder *fakeRecorder
	notifier *fakeNotifier
	clock    *testClock
}

func mediumQuestions(n int) []entities.Question {
	out := make([]entities.Question, 0, n)
	for i := range n {
		out = append(out, entities.Question{
			ID:           fmt.Sprintf("q%d", i),
			Category:     "science",
			Difficulty:   entities.DifficultyMedium,
			Text:         fmt.Sprintf("Question %d?", i),
			Options:      []string{"a", "b", "c", "d"},
			CorrectIndex: 0,
		})
	}
	return out
}

func newGameFixture(t *testing.T, questions []entities.Question) *gameFixture {
	t.Helper()

	st := storage.NewGameStorage()
	rec := &fakeRecorder{}
	clock := &testClock{t: time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)}

	svc := NewGameService(
		st,
		&fakeProvider{questions: questions},
		repository.NewCategoryRepository(),
		NewLifelineSimulator(random.New(42)),
		rec,
		entities.DefaultRules(),
		zap.NewNop(),
	)
	svc.now = clock.now

	n := 0
	svc.newID = func() string {
		n++
		return fmt.Sprintf("game-%d", n)
	}

	notifier := &fakeNotifier{}
	svc.SetNotifier(notifier)

	return &gameFixture{svc: svc, storage: st, recorder: rec, notifier: notifier, clock: clock}
}

func TestStartGame(t *testing.T) {
	f := newGameFixture(t, mediumQuestions(12))

	g, err := f.svc.StartGame(context.Background(), StartRequest{UserID: 7, ChatID: 70, PlayerName: "ann", Category: "science"})
	if err != nil {
		t.Fatalf("StartGame: %v", err)
	}

	if g.Phase != entities.PhaseAnswerPending {
		t.Errorf("phase = %s, want answer_pending", g.Phase)
	}
	if len(g.Questions) != 10 {
		t.Errorf("got %d questions, want 10", len(g.Questions))
	}
	if g.Lives != 3 || g.Level != 1 || g.TimeLeft != 30 {
		t.Errorf("lives=%d level=%d time=%d", g.Lives, g.Level, g.TimeLeft)
	}

	active, err := f.svc.ActiveByUser(context.Background(), 7)
	if err != nil {
		t.Fatalf("ActiveByUser: %v", err)
	}
	if active.ID != g.ID {
		t.Errorf("active game = %s, want %s", active.ID, g.ID)
	}
}

func TestStartGameReplacesUsersPreviousGame(t *testing.T) {
	f := newGameFixture(t, mediumQuestions(10))
	ctx := context.Background()

	first, err := f.svc.StartGame(ctx, StartRequest{UserID: 1})
	if err != nil {
		t.Fatalf("StartGame: %v", err)
	}
	second, err := f.svc.StartGame(ctx, StartRequest{UserID: 1})
	if err != nil {
		t.Fatalf("StartGame: %v", err)
	}

	if _, err := f.svc.Get(ctx, first.ID); !errors.Is(err, storage.ErrGameNotFound) {
		t.Errorf("first game still stored: err = %v", err)
	}
	if _, err := f.svc.Get(ctx, second.ID); err != nil {
		t.Errorf("second game: %v", err)
	}
}

func TestStartGameWithoutQuestions(t *testing.T) {
	f := newGameFixture(t, nil)

	_, err := f.svc.StartGame(context.Background(), StartRequest{})
	if !errors.Is(err, entities.ErrNoQuestions) {
		t.Fatalf("err = %v, want ErrNoQuestions", err)
	}
	if f.storage.Len() != 0 {
		t.Errorf("storage has %d games", f.storage.Len())
	}
	if f.recorder.count() != 0 {
		t.Errorf("recorded %d results", f.recorder.count())
	}
}

func TestAnswerScoresWithStreak(t *testing.T) {
	f := newGameFixture(t, mediumQuestions(10))
	ctx := context.Background()

	g, err := f.svc.StartGame(ctx, StartRequest{})
	if err != nil {
		t.Fatalf("StartGame: %v", err)
	}

	wantPoints := []int{20, 40, 60}
	wantBonus := []int{0, 0, 30}
	for i := range 3 {
		_, out, err := f.svc.Answer(ctx, g.ID, 0)
		if err != nil {
			t.Fatalf("Answer %d: %v", i, err)
		}
		if out.Points != wantPoints[i] || out.Bonus != wantBonus[i] {
			t.Errorf("answer %d: points=%d bonus=%d, want %d/%d", i, out.Points, out.Bonus, wantPoints[i], wantBonus[i])
		}
		if _, err := f.svc.Advance(ctx, g.ID); err != nil {
			t.Fatalf("Advance %d: %v", i, err)
		}
	}

	g, _ = f.svc.Get(ctx, g.ID)
	if g.Score != 150 {
		t.Errorf("score = %d, want 150", g.Score)
	}
	if g.Level != 2 {
		t.Errorf("level = %d, want 2", g.Level)
	}
}

func TestAnswerTwiceIsRejected(t *testing.T) {
	f := newGameFixture(t, mediumQuestions(10))
	ctx := context.Background()
	g, _ := f.svc.StartGame(ctx, StartRequest{})

	if _, _, err := f.svc.Answer(ctx, g.ID, 1); err != nil {
		t.Fatalf("Answer: %v", err)
	}
	if _, _, err := f.svc.Answer(ctx, g.ID, 0); !errors.Is(err, entities.ErrAlreadyAnswered) {
		t.Errorf("err = %v, want ErrAlreadyAnswered", err)
	}
}

func TestAnswerUnknownGame(t *testing.T) {
	f := newGameFixture(t, mediumQuestions(1))

	if _, _, err := f.svc.Answer(context.Background(), "missing", 0); !errors.Is(err, storage.ErrGameNotFound) {
		t.Errorf("err = %v, want ErrGameNotFound", err)
	}
}

func TestGameOverRecordsResultOnce(t *testing.T) {
	f := newGameFixture(t, mediumQuestions(10))
	ctx := context.Background()
	g, _ := f.svc.StartGame(ctx, StartRequest{UserID: 3, PlayerName: "bob"})

	for i := range 3 {
		_, out, err := f.svc.Answer(ctx, g.ID, 2)
		if err != nil {
			t.Fatalf("Answer %d: %v", i, err)
		}
		if out.GameOver != (i == 2) {
			t.Fatalf("answer %d: game over = %v", i, out.GameOver)
		}
		if !out.GameOver {
			if _, err := f.svc.Advance(ctx, g.ID); err != nil {
				t.Fatalf("Advance: %v", err)
			}
		}
	}

	if _, err := f.svc.Advance(ctx, g.ID); !errors.Is(err, entities.ErrNotPlaying) {
		t.Errorf("Advance after game over: err = %v", err)
	}

	if f.recorder.count() != 1 {
		t.Fatalf("recorded %d results, want 1", f.recorder.count())
	}
	res := f.recorder.results[0]
	if res.Outcome != entities.OutcomeOutOfLives || res.Answered != 3 || res.PlayerName != "bob" {
		t.Errorf("unexpected result %+v", res)
	}
	if len(f.recorder.answers[0]) != 3 {
		t.Errorf("recorded %d answers, want 3", len(f.recorder.answers[0]))
	}
}

func TestCompletedGameIsRecorded(t *testing.T) {
	f := newGameFixture(t, mediumQuestions(2))
	ctx := context.Background()
	g, _ := f.svc.StartGame(ctx, StartRequest{})

	for range 2 {
		if _, _, err := f.svc.Answer(ctx, g.ID, 0); err != nil {
			t.Fatalf("Answer: %v", err)
		}
		if _, err := f.svc.Advance(ctx, g.ID); err != nil {
			t.Fatalf("Advance: %v", err)
		}
	}

	g, _ = f.svc.Get(ctx, g.ID)
	if !g.IsOver() || g.Outcome != entities.OutcomeCompleted {
		t.Fatalf("phase=%s outcome=%s", g.Phase, g.Outcome)
	}
	if f.recorder.count() != 1 {
		t.Errorf("recorded %d results, want 1", f.recorder.count())
	}
}

func TestCancelledRequestStillRecordsResult(t *testing.T) {
	f := newGameFixture(t, mediumQuestions(10))
	ctx := context.Background()
	g, _ := f.svc.StartGame(ctx, StartRequest{UserID: 4, PlayerName: "eve"})

	for range 2 {
		if _, _, err := f.svc.Answer(ctx, g.ID, 1); err != nil {
			t.Fatalf("Answer: %v", err)
		}
		if _, err := f.svc.Advance(ctx, g.ID); err != nil {
			t.Fatalf("Advance: %v", err)
		}
	}

	cancelled, cancel := context.WithCancel(ctx)
	cancel()

	_, out, err := f.svc.Answer(cancelled, g.ID, 1)
	if err != nil {
		t.Fatalf("Answer: %v", err)
	}
	if !out.GameOver {
		t.Fatal("expected the last life to end the game")
	}

	if f.recorder.count() != 1 {
		t.Fatalf("recorded %d results, want 1", f.recorder.count())
	}
	if res := f.recorder.results[0]; res.Outcome != entities.OutcomeOutOfLives || res.PlayerName != "eve" {
		t.Errorf("unexpected result %+v", res)
	}
}

func TestRecordErrorIsNotSurfaced(t *testing.T) {
	f := newGameFixture(t, mediumQuestions(1))
	f.recorder.err = errors.New("db down")
	ctx := context.Background()
	g, _ := f.svc.StartGame(ctx, StartRequest{})

	if _, _, err := f.svc.Answer(ctx, g.ID, 0); err != nil {
		t.Fatalf("Answer: %v", err)
	}
	if _, err := f.svc.Advance(ctx, g.ID); err != nil {
		t.Errorf("Advance: %v", err)
	}
}

func TestUseLifeline(t *testing.T) {
	f := newGameFixture(t, mediumQuestions(10))
	ctx := context.Background()
	g, _ := f.svc.StartGame(ctx, StartRequest{})

	g, err := f.svc.UseLifeline(ctx, g.ID, entities.LifelineFiftyFifty)
	if err != nil {
		t.Fatalf("fifty-fifty: %v", err)
	}
	if len(g.Eliminated) != 2 || g.IsEliminated(0) {
		t.Errorf("eliminated = %v", g.Eliminated)
	}

	g, err = f.svc.UseLifeline(ctx, g.ID, entities.LifelineAudience)
	if err != nil {
		t.Fatalf("audience: %v", err)
	}
	for _, i := range g.Eliminated {
		if g.AudiencePoll[i] != 0 {
			t.Errorf("eliminated option %d got %d%%", i, g.AudiencePoll[i])
		}
	}

	g, err = f.svc.UseLifeline(ctx, g.ID, entities.LifelinePhoneFriend)
	if err != nil {
		t.Fatalf("phone friend: %v", err)
	}
	if g.FriendAdvice == nil || g.IsEliminated(*g.FriendAdvice) {
		t.Errorf("friend advice = %v", g.FriendAdvice)
	}
}

func TestUseLifelineTwiceLeavesStateUnchanged(t *testing.T) {
	f := newGameFixture(t, mediumQuestions(10))
	ctx := context.Background()
	g, _ := f.svc.StartGame(ctx, StartRequest{})

	first, err := f.svc.UseLifeline(ctx, g.ID, entities.LifelineFiftyFifty)
	if err != nil {
		t.Fatalf("fifty-fifty: %v", err)
	}

	second, err := f.svc.UseLifeline(ctx, g.ID, entities.LifelineFiftyFifty)
	if !errors.Is(err, entities.ErrLifelineUsed) {
		t.Fatalf("err = %v, want ErrLifelineUsed", err)
	}
	if fmt.Sprint(first.Eliminated) != fmt.Sprint(second.Eliminated) {
		t.Errorf("eliminated changed from %v to %v", first.Eliminated, second.Eliminated)
	}
}

func TestUseLifelineAfterAnswer(t *testing.T) {
	f := newGameFixture(t, mediumQuestions(10))
	ctx := context.Background()
	g, _ := f.svc.StartGame(ctx, StartRequest{})
	_, _, _ = f.svc.Answer(ctx, g.ID, 0)

	if _, err := f.svc.UseLifeline(ctx, g.ID, entities.LifelineAudience); !errors.Is(err, entities.ErrNotPlaying) {
		t.Errorf("err = %v, want ErrNotPlaying", err)
	}
}

func TestTickTimesOutAndAutoAdvances(t *testing.T) {
	f := newGameFixture(t, mediumQuestions(10))
	ctx := context.Background()
	g, _ := f.svc.StartGame(ctx, StartRequest{})

	for range 30 {
		f.clock.advance(time.Second)
		f.svc.tick(ctx)
	}

	g, _ = f.svc.Get(ctx, g.ID)
	if g.Phase != entities.PhaseAnswerRevealed || g.Lives != 2 {
		t.Fatalf("after timeout: phase=%s lives=%d", g.Phase, g.Lives)
	}
	if len(f.notifier.events) != 1 || f.notifier.events[0] != entities.EventTimeout {
		t.Fatalf("events = %v, want [timeout]", f.notifier.events)
	}

	// Wrong answers wait for the player.
	f.clock.advance(10 * time.Second)
	f.svc.tick(ctx)
	if len(f.notifier.events) != 1 {
		t.Fatalf("unexpected events after timeout: %v", f.notifier.events)
	}

	if _, err := f.svc.Advance(ctx, g.ID); err != nil {
		t.Fatalf("Advance: %v", err)
	}
	if _, _, err := f.svc.Answer(ctx, g.ID, 0); err != nil {
		t.Fatalf("Answer: %v", err)
	}

	f.clock.advance(time.Second)
	f.svc.tick(ctx)
	g, _ = f.svc.Get(ctx, g.ID)
	if g.CurrentIndex != 1 {
		t.Fatalf("advanced before the reveal delay")
	}

	f.clock.advance(time.Second)
	f.svc.tick(ctx)
	g, _ = f.svc.Get(ctx, g.ID)
	if g.CurrentIndex != 2 || g.Phase != entities.PhaseAnswerPending {
		t.Errorf("index=%d phase=%s, want 2/answer_pending", g.CurrentIndex, g.Phase)
	}
	if last := f.notifier.events[len(f.notifier.events)-1]; last != entities.EventAdvanced {
		t.Errorf("last event = %s, want advanced", last)
	}
}

func TestQuitAndRestart(t *testing.T) {
	f := newGameFixture(t, mediumQuestions(10))
	ctx := context.Background()

	g, _ := f.svc.StartGame(ctx, StartRequest{Category: "science", PlayerName: "web"})
	_, _, _ = f.svc.Answer(ctx, g.ID, 0)

	next, err := f.svc.Restart(ctx, g.ID)
	if err != nil {
		t.Fatalf("Restart: %v", err)
	}
	if next.ID == g.ID || next.Score != 0 || next.Category != "science" || next.PlayerName != "web" {
		t.Errorf("unexpected restarted game %+v", next)
	}
	if _, err := f.svc.Get(ctx, g.ID); !errors.Is(err, storage.ErrGameNotFound) {
		t.Errorf("old game kept: err = %v", err)
	}

	if err := f.svc.Quit(ctx, next.ID); err != nil {
		t.Fatalf("Quit: %v", err)
	}
	if err := f.svc.Quit(ctx, next.ID); !errors.Is(err, storage.ErrGameNotFound) {
		t.Errorf("second Quit: err = %v", err)
	}
	if f.recorder.count() != 0 {
		t.Errorf("quit game was recorded")
	}
}

func TestAttachMessage(t *testing.T) {
	f := newGameFixture(t, mediumQuestions(3))
	ctx := context.Background()
	g, _ := f.svc.StartGame(ctx, StartRequest{UserID: 9})

	if err := f.svc.AttachMessage(ctx, g.ID, 555); err != nil {
		t.Fatalf("AttachMessage: %v", err)
	}
	g, _ = f.svc.Get(ctx, g.ID)
	if g.MessageID != 555 {
		t.Errorf("message id = %d", g.MessageID)
	}
}
