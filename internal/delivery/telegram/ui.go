package telegram

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/aliskhannn/trivia-quiz-bot/internal/domain/entities"
)

const maxButtonRunes = 40

var lifelineOrder = []entities.Lifeline{
	entities.LifelineFiftyFifty,
	entities.LifelineAudience,
	entities.LifelinePhoneFriend,
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

// buildCategoryKeyboard builds the category picker, two categories per row.
func buildCategoryKeyboard(categories []entities.Category) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	var row []tgbotapi.InlineKeyboardButton

	for _, c := range categories {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(c.Icon+" "+c.Name, buildCategoryCallback(c.ID)))
		if len(row) == 2 {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}

	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("🎲 Mixed", buildCategoryCallback("")),
	))

	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// buildQuestionKeyboard builds answer buttons, unused lifelines and a quit button.
func buildQuestionKeyboard(g *entities.Game, q *entities.Question) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton

	for i, opt := range q.Options {
		if g.IsEliminated(i) {
			continue
		}
		text := truncate(optionLetter(i)+". "+opt, maxButtonRunes)
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(text, buildAnswerCallback(g.ID, i)),
		))
	}

	var lifelines []tgbotapi.InlineKeyboardButton
	for _, l := range lifelineOrder {
		if g.CanUseLifeline(l) != nil {
			continue
		}
		lifelines = append(lifelines, tgbotapi.NewInlineKeyboardButtonData(lifelineLabel(l), buildLifelineCallback(g.ID, l)))
	}
	if len(lifelines) > 0 {
		rows = append(rows, lifelines)
	}

	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("🚪 Quit", buildQuitCallback(g.ID)),
	))

	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// buildRevealKeyboard builds the keyboard shown after an answer.
func buildRevealKeyboard(g *entities.Game) tgbotapi.InlineKeyboardMarkup {
	next := "Next ▶️"
	if g.IsLastQuestion() {
		next = "Finish 🏁"
	}

	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(next, buildNextCallback(g.ID)),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🚪 Quit", buildQuitCallback(g.ID)),
		),
	)
}

// buildResultKeyboard builds keyboard for the game over screen.
func buildResultKeyboard(gameID string) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔄 Play again", buildAgainCallback(gameID)),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📚 Categories", buildMenuCallback()),
			tgbotapi.NewInlineKeyboardButtonData("🏆 Leaderboard", buildTopCallback()),
		),
	)
}

// buildMenuKeyboard builds keyboard returning to the category picker.
func buildMenuKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📚 Categories", buildMenuCallback()),
		),
	)
}

// buildResetKeyboard builds keyboard for reset confirmation.
func buildResetKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🗑 Delete", buildResetConfirmCallback()),
			tgbotapi.NewInlineKeyboardButtonData("Cancel", buildResetCancelCallback()),
		),
	)
}
