// messages.go contains message templates and formatting functions for Telegram.

package telegram

import (
	"fmt"
	"strings"
	"time"

	"github.com/aliskhannn/trivia-quiz-bot/internal/domain/entities"
	"github.com/aliskhannn/trivia-quiz-bot/internal/service"
)

// Error and status messages.
const (
	msgInternalError    = "Something went wrong. Please try again later."
	msgUnknownCommand   = "Unknown command. Try /play, /categories, /top or /help."
	msgUseCommands      = "Use /play to start a game or /help to see how it works."
	msgUnknownCategory  = "Unknown category. Pick one below:"
	msgNoQuestions      = "No questions are available right now. Please try again later."
	msgGameExpired      = "This game is over or has expired."
	msgNotYourGame      = "This is not your game."
	msgAlreadyAnswered  = "Already answered."
	msgAnswerFirst      = "Answer the question first."
	msgOptionEliminated = "That option was removed."
	msgLifelineUsed     = "Lifeline already used."
	msgLifelineLater    = "Lifelines only work before you answer."
	msgResetDone        = "Your game history has been deleted."
	msgResetCancelled   = "Reset cancelled."
	msgResetConfirm     = "Delete all your finished games and statistics? This cannot be undone."
	msgNoResults        = "No games have been played yet. Be the first: /play"
	msgGameQuit         = "Game abandoned. Come back any time with /play."
)

const optionLetters = "ABCDEFGH"

func optionLetter(i int) string {
	if i < 0 || i >= len(optionLetters) {
		return "?"
	}
	return optionLetters[i : i+1]
}

func welcomeText(firstName string) string {
	name := firstName
	if name == "" {
		name = "player"
	}
	return fmt.Sprintf(
		"👋 Hi, %s!\n\nAnswer trivia questions against the clock, build streaks for bonus points and use your lifelines wisely.\n\nPick a category to start:",
		bold(name),
	)
}

func helpText(rules entities.Rules) string {
	var b strings.Builder
	b.WriteString(bold("How to play") + "\n\n")
	fmt.Fprintf(&b, "• A game has %d questions and you have %d lives.\n", rules.QuestionsPerGame, rules.MaxLives)
	fmt.Fprintf(&b, "• You get %d seconds per question. Running out of time costs a life.\n", int(rules.QuestionTime/time.Second))
	b.WriteString("• Easy, medium and hard questions are worth 10, 20 and 30 points, multiplied by your streak.\n")
	fmt.Fprintf(&b, "• Every %d correct answers in a row pay a bonus of half the points.\n", entities.StreakBonusEvery)
	fmt.Fprintf(&b, "• You level up every %d questions.\n\n", rules.LevelEvery)
	b.WriteString(bold("Lifelines") + " (once per game)\n")
	b.WriteString("✂️ 50:50 removes two wrong answers\n")
	b.WriteString("📊 Audience shows what the crowd thinks\n")
	b.WriteString("📞 Phone a friend asks someone who is usually right\n\n")
	b.WriteString("/play [category] · /categories · /top · /stats · /reset")
	return b.String()
}

func lifelineLabel(l entities.Lifeline) string {
	switch l {
	case entities.LifelineFiftyFifty:
		return "✂️ 50:50"
	case entities.LifelineAudience:
		return "📊 Audience"
	case entities.LifelinePhoneFriend:
		return "📞 Friend"
	default:
		return string(l)
	}
}

func livesBar(lives, maxLives int) string {
	return strings.Repeat("❤️", lives) + strings.Repeat("🤍", max(maxLives-lives, 0))
}

func outcomeText(o entities.Outcome) string {
	switch o {
	case entities.OutcomeCompleted:
		return "🏁 Game complete!"
	case entities.OutcomeOutOfLives:
		return "💔 Out of lives!"
	default:
		return "Game over"
	}
}

func leaderboardText(results []entities.GameResult) string {
	if len(results) == 0 {
		return msgNoResults
	}

	var b strings.Builder
	b.WriteString(bold("🏆 Leaderboard") + "\n\n")
	for i, r := range results {
		name := r.PlayerName
		if name == "" {
			name = "anonymous"
		}
		medal := fmt.Sprintf("%d.", i+1)
		switch i {
		case 0:
			medal = "🥇"
		case 1:
			medal = "🥈"
		case 2:
			medal = "🥉"
		}
		fmt.Fprintf(&b, "%s %s · %d pts · level %d · %d/%d correct\n",
			medal, esc(name), r.Score, r.Level, r.CorrectAnswers, r.Answered)
	}
	return b.String()
}

func statsText(s *service.PlayerSummary) string {
	if s.Stats.GamesPlayed == 0 {
		return "You have not finished a game yet. Start one with /play"
	}

	var b strings.Builder
	b.WriteString(bold("📈 Your statistics") + "\n\n")
	fmt.Fprintf(&b, "🎮 Games: %d (%d completed)\n", s.Stats.GamesPlayed, s.Stats.GamesCompleted)
	fmt.Fprintf(&b, "⭐ Best score: %d\n", s.Stats.BestScore)
	fmt.Fprintf(&b, "💯 Total score: %d\n", s.Stats.TotalScore)
	fmt.Fprintf(&b, "🔥 Best streak: %d\n", s.Stats.BestStreak)
	fmt.Fprintf(&b, "🎯 Accuracy: %d%% (%d/%d)\n", s.Accuracy(), s.Stats.CorrectAnswers, s.Stats.Answered)

	if len(s.Recent) > 0 {
		b.WriteString("\n" + bold("Recent games") + "\n")
		for _, r := range s.Recent {
			category := r.Category
			if category == "" {
				category = "mixed"
			}
			fmt.Fprintf(&b, "• %s · %s · %d pts\n", r.FinishedAt.Format("02 Jan 15:04"), esc(category), r.Score)
		}
	}
	return b.String()
}
