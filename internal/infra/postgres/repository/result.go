package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aliskhannn/trivia-quiz-bot/internal/domain/entities"
	"github.com/aliskhannn/trivia-quiz-bot/internal/infra/postgres"
)

// PlayerStats aggregates the finished games of one player.
type PlayerStats struct {
	GamesPlayed    int
	GamesCompleted int
	BestScore      int
	TotalScore     int
	BestStreak     int
	CorrectAnswers int
	Answered       int
}

// ResultRepository stores finished games and their answers.
type ResultRepository struct {
	db postgres.DBTX
	tx *postgres.Transactor
}

// NewResultRepository creates a new ResultRepository with the provided database pool.
func NewResultRepository(pool *pgxpool.Pool) *ResultRepository {
	return &ResultRepository{
		db: pool,
		tx: postgres.NewTransactor(pool),
	}
}

// Record saves a game result together with its answers in one transaction.
func (r *ResultRepository) Record(ctx context.Context, result *entities.GameResult, answers []entities.AnswerRecord) error {
	return r.tx.WithinTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		id, err := insertResult(ctx, tx, result)
		if err != nil {
			return err
		}
		result.ID = id

		return insertAnswers(ctx, tx, id, answers)
	})
}

// Top returns the best results ordered by score.
func (r *ResultRepository) Top(ctx context.Context, limit int) ([]entities.GameResult, error) {
	query := `
		SELECT id, game_id, user_id, player_name, category, score, level, best_streak,
		       correct_answers, answered, total_questions, outcome, started_at, finished_at
		FROM game_results
		ORDER BY score DESC, finished_at ASC
		LIMIT $1
	`

	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("query top results: %w", err)
	}
	defer rows.Close()

	return scanResults(rows)
}

// ListByUser returns the latest results of a user.
func (r *ResultRepository) ListByUser(ctx context.Context, userID int64, limit int) ([]entities.GameResult, error) {
	query := `
		SELECT id, game_id, user_id, player_name, category, score, level, best_streak,
		       correct_answers, answered, total_questions, outcome, started_at, finished_at
		FROM game_results
		WHERE user_id = $1
		ORDER BY finished_at DESC
		LIMIT $2
	`

	rows, err := r.db.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("query user results: %w", err)
	}
	defer rows.Close()

	return scanResults(rows)
}

// StatsByUser aggregates all results of a user.
func (r *ResultRepository) StatsByUser(ctx context.Context, userID int64) (*PlayerStats, error) {
	query := `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE outcome = 'completed'),
		       COALESCE(MAX(score), 0),
		       COALESCE(SUM(score), 0),
		       COALESCE(MAX(best_streak), 0),
		       COALESCE(SUM(correct_answers), 0),
		       COALESCE(SUM(answered), 0)
		FROM game_results
		WHERE user_id = $1
	`

	var s PlayerStats
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&s.GamesPlayed,
		&s.GamesCompleted,
		&s.BestScore,
		&s.TotalScore,
		&s.BestStreak,
		&s.CorrectAnswers,
		&s.Answered,
	)
	if err != nil {
		return nil, fmt.Errorf("get user stats: %w", err)
	}

	return &s, nil
}

func insertResult(ctx context.Context, db postgres.DBTX, res *entities.GameResult) (int64, error) {
	query := `
		INSERT INTO game_results (
			game_id, user_id, player_name, category, score, level, best_streak,
			correct_answers, answered, total_questions, outcome, started_at, finished_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id
	`

	var id int64
	err := db.QueryRow(
		ctx,
		query,
		res.GameID,
		res.UserID,
		res.PlayerName,
		res.Category,
		res.Score,
		res.Level,
		res.BestStreak,
		res.CorrectAnswers,
		res.Answered,
		res.TotalQuestions,
		string(res.Outcome),
		res.StartedAt,
		res.FinishedAt,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert game result: %w", err)
	}

	return id, nil
}

func insertAnswers(ctx context.Context, db postgres.DBTX, resultID int64, answers []entities.AnswerRecord) error {
	if len(answers) == 0 {
		return nil
	}

	columns := []string{
		"result_id", "question_id", "category", "difficulty", "selected_option",
		"is_correct", "timed_out", "points", "bonus", "answered_at",
	}

	_, err := db.CopyFrom(
		ctx,
		pgx.Identifier{"game_answers"},
		columns,
		pgx.CopyFromSlice(len(answers), func(i int) ([]any, error) {
			a := answers[i]
			return []any{
				resultID,
				a.QuestionID,
				a.Category,
				string(a.Difficulty),
				a.Selected,
				a.Correct,
				a.TimedOut,
				a.Points,
				a.Bonus,
				a.AnsweredAt,
			}, nil
		}),
	)
	if err != nil {
		return fmt.Errorf("copy game answers: %w", err)
	}

	return nil
}

func scanResults(rows pgx.Rows) ([]entities.GameResult, error) {
	var out []entities.GameResult
	for rows.Next() {
		var (
			res     entities.GameResult
			outcome string
		)
		err := rows.Scan(
			&res.ID,
			&res.GameID,
			&res.UserID,
			&res.PlayerName,
			&res.Category,
			&res.Score,
			&res.Level,
			&res.BestStreak,
			&res.CorrectAnswers,
			&res.Answered,
			&res.TotalQuestions,
			&outcome,
			&res.StartedAt,
			&res.FinishedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan game result: %w", err)
		}
		res.Outcome = entities.Outcome(outcome)
		out = append(out, res)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate game results: %w", err)
	}

	return out, nil
}
