package telegram

import (
	"fmt"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/aliskhannn/trivia-quiz-bot/internal/domain/entities"
)

var titleCase = cases.Title(language.English)

func categoryLabel(id string) string {
	if id == "" {
		return "Mixed"
	}
	return titleCase.String(strings.ReplaceAll(id, "_", " "))
}

// renderGame renders the message text and keyboard for the current state of a game.
func renderGame(g *entities.Game) (string, *tgbotapi.InlineKeyboardMarkup) {
	if g.IsOver() {
		kb := buildResultKeyboard(g.ID)
		return renderResult(g), &kb
	}

	q := g.Current()
	if q == nil {
		return msgGameExpired, nil
	}

	var b strings.Builder

	fmt.Fprintf(&b, "%s · %s · %s\n",
		bold(fmt.Sprintf("Question %d/%d", g.CurrentIndex+1, len(g.Questions))),
		esc(categoryLabel(q.Category)),
		esc(string(q.Difficulty)),
	)
	fmt.Fprintf(&b, "%s  ⭐ %d  🔥 %d  🏅 Level %d\n",
		livesBar(g.Lives, g.MaxLives), g.Score, g.Streak, g.Level)

	if g.Notice != "" {
		fmt.Fprintf(&b, "⚠️ <i>%s</i>\n", esc(g.Notice))
	}
	if g.LeveledUp && g.Phase == entities.PhaseAnswerPending {
		fmt.Fprintf(&b, "⬆️ Level up! You reached level %d.\n", g.Level)
	}

	fmt.Fprintf(&b, "\n%s\n\n", bold(q.Text))
	writeOptions(&b, g, q)

	if g.AudiencePoll != nil {
		b.WriteString("\n📊 Audience: ")
		var parts []string
		for i, p := range g.AudiencePoll {
			if g.IsEliminated(i) {
				continue
			}
			parts = append(parts, fmt.Sprintf("%s %d%%", optionLetter(i), p))
		}
		b.WriteString(strings.Join(parts, " · "))
		b.WriteString("\n")
	}
	if g.FriendAdvice != nil {
		fmt.Fprintf(&b, "\n📞 Friend: \"I'm fairly sure it's %s.\"\n", optionLetter(*g.FriendAdvice))
	}

	switch g.Phase {
	case entities.PhaseAnswerPending:
		fmt.Fprintf(&b, "\n⏱ %ds per question", int(g.Rules.QuestionTime/time.Second))

	case entities.PhaseAnswerRevealed:
		b.WriteString("\n")
		b.WriteString(revealText(g, q))
	}

	var kb tgbotapi.InlineKeyboardMarkup
	if g.Phase == entities.PhaseAnswerPending {
		kb = buildQuestionKeyboard(g, q)
	} else {
		kb = buildRevealKeyboard(g)
	}

	return b.String(), &kb
}

func writeOptions(b *strings.Builder, g *entities.Game, q *entities.Question) {
	revealed := g.Phase == entities.PhaseAnswerRevealed

	for i, opt := range q.Options {
		line := fmt.Sprintf("%s. %s", optionLetter(i), esc(opt))

		switch {
		case revealed && i == q.CorrectIndex:
			line = "✅ " + line
		case revealed && g.SelectedOption != nil && *g.SelectedOption == i:
			line = "❌ " + line
		case g.IsEliminated(i):
			line = "<s>" + line + "</s>"
		}

		b.WriteString(line)
		b.WriteString("\n")
	}
}

func revealText(g *entities.Game, q *entities.Question) string {
	var b strings.Builder

	switch {
	case g.LastCorrect != nil && *g.LastCorrect:
		fmt.Fprintf(&b, "✅ Correct! +%d points", g.LastPoints)
		if g.LastBonus > 0 {
			fmt.Fprintf(&b, " (+%d streak bonus)", g.LastBonus)
		}
	case g.SelectedOption == nil:
		fmt.Fprintf(&b, "⏰ Time's up! The answer was %s. %s", optionLetter(q.CorrectIndex), esc(q.CorrectAnswer()))
	default:
		fmt.Fprintf(&b, "❌ Wrong! The answer was %s. %s", optionLetter(q.CorrectIndex), esc(q.CorrectAnswer()))
	}

	if q.Explanation != "" {
		fmt.Fprintf(&b, "\n💡 <i>%s</i>", esc(q.Explanation))
	}
	return b.String()
}

// renderResult renders the summary of a finished game.
func renderResult(g *entities.Game) string {
	var b strings.Builder

	b.WriteString(bold(outcomeText(g.Outcome)) + "\n\n")

	if q := g.Current(); q != nil && g.Outcome == entities.OutcomeOutOfLives {
		fmt.Fprintf(&b, "The last answer was %s. %s\n\n", optionLetter(q.CorrectIndex), esc(q.CorrectAnswer()))
	}

	fmt.Fprintf(&b, "⭐ Final score: %d\n", g.Score)
	fmt.Fprintf(&b, "🏅 Level: %d\n", g.Level)
	fmt.Fprintf(&b, "🔥 Best streak: %d\n", g.BestStreak)
	fmt.Fprintf(&b, "🎯 Correct answers: %d/%d\n", g.CorrectAnswers, g.Answered)

	return b.String()
}
