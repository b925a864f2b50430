package rest

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/aliskhannn/trivia-quiz-bot/internal/domain/entities"
	"github.com/aliskhannn/trivia-quiz-bot/internal/service"
)

type GameService interface {
	Categories(ctx context.Context) ([]entities.Category, error)
	StartGame(ctx context.Context, req service.StartRequest) (*entities.Game, error)
	Get(ctx context.Context, gameID string) (*entities.Game, error)
	Answer(ctx context.Context, gameID string, option int) (*entities.Game, entities.AnswerOutcome, error)
	Advance(ctx context.Context, gameID string) (*entities.Game, error)
	UseLifeline(ctx context.Context, gameID string, lifeline entities.Lifeline) (*entities.Game, error)
	Quit(ctx context.Context, gameID string) error
}

type LeaderboardService interface {
	Leaderboard(ctx context.Context, limit int) ([]entities.GameResult, error)
}

type GameController struct {
	games  GameService
	logger *zap.Logger
}

func NewGameController(games GameService, logger *zap.Logger) *GameController {
	return &GameController{games: games, logger: logger}
}

func (gc *GameController) ListCategoriesHandler(c *gin.Context) {
	categories, err := gc.games.Categories(c.Request.Context())
	if err != nil {
		HandleServiceError(c, gc.logger, err)
		return
	}

	RespondSuccess(c, toCategoryViews(categories), "Fetched categories successfully")
}

func (gc *GameController) StartGameHandler(c *gin.Context) {
	var req startGameRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			RespondError(c, http.StatusBadRequest, "Invalid request body")
			return
		}
	}

	g, err := gc.games.StartGame(c.Request.Context(), service.StartRequest{
		PlayerName: strings.TrimSpace(req.Player),
		Category:   strings.ToLower(strings.TrimSpace(req.Category)),
	})
	if err != nil {
		HandleServiceError(c, gc.logger, err)
		return
	}

	RespondCreated(c, toGameView(g), "Game started")
}

func (gc *GameController) GetGameHandler(c *gin.Context) {
	g, err := gc.games.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		HandleServiceError(c, gc.logger, err)
		return
	}

	RespondSuccess(c, toGameView(g), "Fetched game successfully")
}

func (gc *GameController) AnswerHandler(c *gin.Context) {
	var req answerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "Field option is required")
		return
	}

	g, out, err := gc.games.Answer(c.Request.Context(), c.Param("id"), *req.Option)
	if err != nil {
		HandleServiceError(c, gc.logger, err)
		return
	}

	message := "Wrong answer"
	if out.Correct {
		message = "Correct answer"
	}
	RespondSuccess(c, toGameView(g), message)
}

func (gc *GameController) NextHandler(c *gin.Context) {
	g, err := gc.games.Advance(c.Request.Context(), c.Param("id"))
	if err != nil {
		HandleServiceError(c, gc.logger, err)
		return
	}

	RespondSuccess(c, toGameView(g), "Moved to the next question")
}

func (gc *GameController) LifelineHandler(c *gin.Context) {
	lifeline, err := entities.ParseLifeline(c.Param("kind"))
	if err != nil {
		HandleServiceError(c, gc.logger, err)
		return
	}

	g, err := gc.games.UseLifeline(c.Request.Context(), c.Param("id"), lifeline)
	if err != nil {
		HandleServiceError(c, gc.logger, err)
		return
	}

	RespondSuccess(c, toGameView(g), "Lifeline used")
}

func (gc *GameController) QuitHandler(c *gin.Context) {
	if err := gc.games.Quit(c.Request.Context(), c.Param("id")); err != nil {
		HandleServiceError(c, gc.logger, err)
		return
	}

	RespondSuccess(c, nil, "Game abandoned")
}

type LeaderboardController struct {
	leaderboard LeaderboardService
	logger      *zap.Logger
}

func NewLeaderboardController(leaderboard LeaderboardService, logger *zap.Logger) *LeaderboardController {
	return &LeaderboardController{leaderboard: leaderboard, logger: logger}
}

func (lc *LeaderboardController) TopHandler(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 100 {
			RespondError(c, http.StatusBadRequest, "Invalid limit (must be 1-100)")
			return
		}
		limit = n
	}

	results, err := lc.leaderboard.Leaderboard(c.Request.Context(), limit)
	if err != nil {
		HandleServiceError(c, lc.logger, err)
		return
	}

	RespondSuccess(c, toResultViews(results), "Fetched leaderboard successfully")
}
