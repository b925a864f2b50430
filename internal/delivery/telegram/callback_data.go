package telegram

import (
	"strconv"
	"strings"

	"github.com/aliskhannn/trivia-quiz-bot/internal/domain/entities"
)

// Callback action constants.
const (
	actionCategory = "cat"
	actionAnswer   = "ans"
	actionLifeline = "ll"
	actionNext     = "next"
	actionQuit     = "quit"
	actionAgain    = "again"
	actionMenu     = "menu"
	actionTop      = "top"
	actionReset    = "reset"
)

// categoryAny starts a game mixing every category.
const categoryAny = "any"

const (
	resetConfirm = "confirm"
	resetCancel  = "cancel"
)

// callbackData represents structured callback data.
type callbackData struct {
	Action string
	Params []string
	Raw    string
}

// encode creates callback string.
func (cd callbackData) encode() string {
	if len(cd.Params) == 0 {
		return cd.Action
	}
	return cd.Action + ":" + strings.Join(cd.Params, ":")
}

// param returns the i-th parameter or "".
func (cd callbackData) param(i int) string {
	if i < 0 || i >= len(cd.Params) {
		return ""
	}
	return cd.Params[i]
}

// decodeCallback parses callback data string.
func decodeCallback(data string) callbackData {
	parts := strings.Split(data, ":")
	if len(parts) == 0 {
		return callbackData{Raw: data}
	}

	return callbackData{
		Action: parts[0],
		Params: parts[1:],
		Raw:    data,
	}
}

func buildCategoryCallback(categoryID string) string {
	if categoryID == "" {
		categoryID = categoryAny
	}
	return callbackData{Action: actionCategory, Params: []string{categoryID}}.encode()
}

func buildAnswerCallback(gameID string, option int) string {
	return callbackData{
		Action: actionAnswer,
		Params: []string{gameID, strconv.Itoa(option)},
	}.encode()
}

func buildLifelineCallback(gameID string, l entities.Lifeline) string {
	return callbackData{
		Action: actionLifeline,
		Params: []string{gameID, string(l)},
	}.encode()
}

func buildNextCallback(gameID string) string {
	return callbackData{Action: actionNext, Params: []string{gameID}}.encode()
}

func buildQuitCallback(gameID string) string {
	return callbackData{Action: actionQuit, Params: []string{gameID}}.encode()
}

func buildAgainCallback(gameID string) string {
	return callbackData{Action: actionAgain, Params: []string{gameID}}.encode()
}

func buildMenuCallback() string {
	return actionMenu
}

func buildTopCallback() string {
	return actionTop
}

func buildResetConfirmCallback() string {
	return callbackData{Action: actionReset, Params: []string{resetConfirm}}.encode()
}

func buildResetCancelCallback() string {
	return callbackData{Action: actionReset, Params: []string{resetCancel}}.encode()
}
