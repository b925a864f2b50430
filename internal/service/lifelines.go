package service

import (
	"slices"

	"github.com/aliskhannn/trivia-quiz-bot/internal/domain/entities"
	"github.com/aliskhannn/trivia-quiz-bot/internal/random"
)

const (
	defaultFriendAccuracy = 0.7

	audienceBase   = 50
	audienceSpread = 30
)

// LifelineSimulator produces the random outcomes of the three lifelines.
type LifelineSimulator struct {
	rng            *random.Rand
	friendAccuracy float64
}

func NewLifelineSimulator(rng *random.Rand) *LifelineSimulator {
	return &LifelineSimulator{rng: rng, friendAccuracy: defaultFriendAccuracy}
}

// EliminateTwo picks two incorrect options to hide, or all of them when fewer exist.
func (s *LifelineSimulator) EliminateTwo(q *entities.Question) []int {
	incorrect := q.IncorrectIndexes()
	s.rng.Shuffle(len(incorrect), func(i, j int) {
		incorrect[i], incorrect[j] = incorrect[j], incorrect[i]
	})
	if len(incorrect) > 2 {
		incorrect = incorrect[:2]
	}
	slices.Sort(incorrect)
	return incorrect
}

// AudiencePoll returns a percentage per option that sums to 100.
// The correct option gets 50 to 79; eliminated options get 0.
func (s *LifelineSimulator) AudiencePoll(q *entities.Question, eliminated []int) []int {
	poll := make([]int, len(q.Options))

	var others []int
	for _, i := range q.IncorrectIndexes() {
		if !slices.Contains(eliminated, i) {
			others = append(others, i)
		}
	}

	if len(others) == 0 {
		poll[q.CorrectIndex] = 100
		return poll
	}

	correct := audienceBase + s.rng.Intn(audienceSpread)
	poll[q.CorrectIndex] = correct

	remaining := 100 - correct
	share := remaining / len(others)
	for _, i := range others {
		poll[i] = share
	}
	poll[others[0]] += remaining - share*len(others)

	return poll
}

// PhoneFriend returns the option the friend suggests. The friend is right with
// probability friendAccuracy and otherwise guesses among the visible options.
func (s *LifelineSimulator) PhoneFriend(q *entities.Question, eliminated []int) int {
	if s.rng.Float64() < s.friendAccuracy {
		return q.CorrectIndex
	}

	visible := make([]int, 0, len(q.Options))
	for i := range q.Options {
		if !slices.Contains(eliminated, i) {
			visible = append(visible, i)
		}
	}
	if len(visible) == 0 {
		return q.CorrectIndex
	}
	return visible[s.rng.Intn(len(visible))]
}
