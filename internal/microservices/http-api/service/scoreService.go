package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"recipehub/internal/microservices/http-api/dto"
	"recipehub/internal/microservices/http-api/models"
	"recipehub/internal/microservices/http-api/policy"
	"recipehub/internal/microservices/http-api/repository"
	"recipehub/internal/notify"

	"github.com/cenkalti/backoff/v4"
)

// RatingNotifier receives committed rating changes. Failures are logged and
// never undo the write.
type RatingNotifier interface {
	Publish(ctx context.Context, ev notify.RatingEvent) error
}

type ScoreService interface {
	// RecordScore creates the user's score for the recipe, or updates it if
	// one exists, and moves the recipe aggregate in the same transaction.
	RecordScore(ctx context.Context, userID string, recipeID int64, score int) (*dto.RecordScoreResponse, error)
	UpdateScore(ctx context.Context, actor *policy.Actor, scoreID int64, score int) (*dto.RecordScoreResponse, error)
	DeleteScore(ctx context.Context, actor *policy.Actor, scoreID int64) (*dto.RecordScoreResponse, error)
	GetScore(ctx context.Context, id int64) (*dto.ScoreResponse, error)
	ListScores(ctx context.Context, filter repository.ScoreFilter, page, pageSize int) (*dto.Paginated[dto.ScoreResponse], error)
	// RemoveAllForUser deletes every score the user gave, decrementing each
	// affected recipe.
	RemoveAllForUser(ctx context.Context, userID string) error
}

// ScoreOptions tunes the conflict retry loop.
type ScoreOptions struct {
	MaxRetries int
	Backoff    time.Duration
}

type scoreService struct {
	repo     repository.ScoreRepository
	locks    *keyedLock
	notifier RatingNotifier
	logger   *slog.Logger
	opts     ScoreOptions
}

func NewScoreService(repo repository.ScoreRepository, notifier RatingNotifier, logger *slog.Logger, opts ScoreOptions) ScoreService {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.MaxRetries < 1 {
		opts.MaxRetries = 3
	}
	if opts.Backoff <= 0 {
		opts.Backoff = 20 * time.Millisecond
	}
	return &scoreService{
		repo:     repo,
		locks:    newKeyedLock(),
		notifier: notifier,
		logger:   logger,
		opts:     opts,
	}
}

// scoreWrite is what one locked transaction produced.
type scoreWrite struct {
	kind  string
	score *models.UserScore
	agg   models.RatingAggregate
}

func (s *scoreService) RecordScore(ctx context.Context, userID string, recipeID int64, value int) (*dto.RecordScoreResponse, error) {
	if userID == "" {
		return nil, denied("scoring requires an authenticated user")
	}
	if err := checkVar("score", value, scoreRule); err != nil {
		return nil, err
	}

	w, err := s.withRecipe(ctx, recipeID, func(tx repository.ScoreTx) (*scoreWrite, error) {
		active, err := tx.ScorerActive(userID)
		switch {
		case repository.IsNotFound(err):
			return nil, notFound("user " + userID + " not found")
		case err != nil:
			return nil, err
		case !active:
			return nil, denied("inactive users cannot score recipes")
		}

		existing, err := tx.FindByUserAndRecipe(userID, recipeID)
		switch {
		case err == nil:
			old := existing.Score
			if err := tx.UpdateValue(existing, value); err != nil {
				return nil, err
			}
			agg := onScoreUpdated(tx.Recipe().Aggregate(), old, value)
			if err := tx.SaveAggregate(agg); err != nil {
				return nil, err
			}
			return &scoreWrite{kind: notify.ScoreUpdated, score: existing, agg: agg}, nil
		case repository.IsNotFound(err):
			created := &models.UserScore{UserID: userID, RecipeID: recipeID, Score: value}
			if err := tx.Create(created); err != nil {
				return nil, err
			}
			agg := onScoreCreated(tx.Recipe().Aggregate(), value)
			if err := tx.SaveAggregate(agg); err != nil {
				return nil, err
			}
			return &scoreWrite{kind: notify.ScoreCreated, score: created, agg: agg}, nil
		default:
			return nil, err
		}
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, userID, recipeID, w)
	return toRecordResponse(recipeID, w), nil
}

func (s *scoreService) UpdateScore(ctx context.Context, actor *policy.Actor, scoreID int64, value int) (*dto.RecordScoreResponse, error) {
	if err := checkVar("score", value, scoreRule); err != nil {
		return nil, err
	}
	current, err := s.repo.GetByID(ctx, scoreID)
	if err != nil {
		return nil, storeErr(err, "score")
	}
	if !policy.OwnerOrStaffWrite(http.MethodPut, actor, current) {
		return nil, denied("only the author or staff may change this score")
	}

	w, err := s.withRecipe(ctx, current.RecipeID, func(tx repository.ScoreTx) (*scoreWrite, error) {
		existing, err := tx.FindByID(scoreID)
		if err != nil {
			return nil, err
		}
		old := existing.Score
		if err := tx.UpdateValue(existing, value); err != nil {
			return nil, err
		}
		agg := onScoreUpdated(tx.Recipe().Aggregate(), old, value)
		if err := tx.SaveAggregate(agg); err != nil {
			return nil, err
		}
		return &scoreWrite{kind: notify.ScoreUpdated, score: existing, agg: agg}, nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, w.score.UserID, current.RecipeID, w)
	return toRecordResponse(current.RecipeID, w), nil
}

func (s *scoreService) DeleteScore(ctx context.Context, actor *policy.Actor, scoreID int64) (*dto.RecordScoreResponse, error) {
	current, err := s.repo.GetByID(ctx, scoreID)
	if err != nil {
		return nil, storeErr(err, "score")
	}
	if !policy.OwnerOrStaffWrite(http.MethodDelete, actor, current) {
		return nil, denied("only the author or staff may delete this score")
	}

	w, err := s.deleteScore(ctx, current.RecipeID, scoreID)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, current.UserID, current.RecipeID, w)
	resp := toRecordResponse(current.RecipeID, w)
	resp.Score = nil
	return resp, nil
}

func (s *scoreService) deleteScore(ctx context.Context, recipeID, scoreID int64) (*scoreWrite, error) {
	return s.withRecipe(ctx, recipeID, func(tx repository.ScoreTx) (*scoreWrite, error) {
		existing, err := tx.FindByID(scoreID)
		if err != nil {
			return nil, err
		}
		if err := tx.Delete(existing.ID); err != nil {
			return nil, err
		}
		agg := onScoreDeleted(tx.Recipe().Aggregate(), existing.Score)
		if err := tx.SaveAggregate(agg); err != nil {
			return nil, err
		}
		return &scoreWrite{kind: notify.ScoreDeleted, score: existing, agg: agg}, nil
	})
}

func (s *scoreService) RemoveAllForUser(ctx context.Context, userID string) error {
	const batch = 100
	skipped := make(map[int64]bool)
	for {
		scores, _, err := s.repo.GetAll(ctx, repository.ScoreFilter{UserID: userID}, 1, batch+len(skipped))
		if err != nil {
			return err
		}
		removed := 0
		for _, sc := range scores {
			if skipped[sc.ID] {
				continue
			}
			w, err := s.deleteScore(ctx, sc.RecipeID, sc.ID)
			if err != nil {
				// gone already, or its recipe was removed meanwhile
				if errors.Is(err, ErrNotFound) {
					skipped[sc.ID] = true
					continue
				}
				return err
			}
			removed++
			s.publish(ctx, userID, sc.RecipeID, w)
		}
		if removed == 0 {
			return nil
		}
	}
}

func (s *scoreService) GetScore(ctx context.Context, id int64) (*dto.ScoreResponse, error) {
	sc, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, storeErr(err, "score")
	}
	resp := dto.FromScore(*sc)
	return &resp, nil
}

func (s *scoreService) ListScores(ctx context.Context, filter repository.ScoreFilter, page, pageSize int) (*dto.Paginated[dto.ScoreResponse], error) {
	scores, total, err := s.repo.GetAll(ctx, filter, page, pageSize)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ScoreResponse, 0, len(scores))
	for _, sc := range scores {
		out = append(out, dto.FromScore(sc))
	}
	return dto.NewPaginated(out, total, page, pageSize), nil
}

// withRecipe runs fn under the in-process recipe lock and the database row
// lock, retrying lost races a bounded number of times. Nothing fn wrote is
// visible unless it returns nil.
func (s *scoreService) withRecipe(ctx context.Context, recipeID int64, fn func(tx repository.ScoreTx) (*scoreWrite, error)) (*scoreWrite, error) {
	unlock := s.locks.Lock(recipeID)
	defer unlock()

	var (
		out     *scoreWrite
		attempt int
	)
	op := func() error {
		attempt++
		err := s.repo.InRecipeTx(ctx, recipeID, func(tx repository.ScoreTx) error {
			w, err := fn(tx)
			if err != nil {
				return err
			}
			out = w
			return nil
		})
		if err == nil {
			return nil
		}
		// a concurrent insert of the same (user, recipe) pair loses on the
		// unique index; the next attempt takes the update path
		if repository.IsRetryable(err) || repository.IsUniqueViolation(err) {
			s.logger.Warn("score_retry", "recipe_id", recipeID, "attempt", attempt, "error", err)
			return err
		}
		return backoff.Permanent(err)
	}

	retry := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(s.opts.Backoff), uint64(s.opts.MaxRetries-1)),
		ctx,
	)
	if err := backoff.Retry(op, retry); err != nil {
		switch {
		case errors.Is(err, ErrValidation), errors.Is(err, ErrPermissionDenied), errors.Is(err, ErrNotFound):
			return nil, err
		case repository.IsNotFound(err), repository.IsForeignKeyViolation(err):
			return nil, storeErr(err, fmt.Sprintf("recipe %d or its score", recipeID))
		case repository.IsRetryable(err), repository.IsUniqueViolation(err):
			s.logger.Error("score_conflict", "recipe_id", recipeID, "attempts", attempt, "error", err)
			return nil, fmt.Errorf("%w: recipe %d rating changed concurrently, gave up after %d attempts",
				ErrConcurrencyConflict, recipeID, attempt)
		default:
			return nil, err
		}
	}

	s.logger.Info("score_recorded", "recipe_id", recipeID, "kind", out.kind, "attempts", attempt)
	return out, nil
}

func (s *scoreService) publish(ctx context.Context, userID string, recipeID int64, w *scoreWrite) {
	if s.notifier == nil {
		return
	}
	ev := notify.RatingEvent{
		Kind:         w.kind,
		RecipeID:     recipeID,
		UserID:       userID,
		VoterTurnout: w.agg.VoterTurnout,
		FullScore:    w.agg.FullScore,
		Rating:       w.agg.Rating,
		At:           time.Now().UTC(),
	}
	if err := s.notifier.Publish(ctx, ev); err != nil {
		s.logger.Warn("rating_event_failed", "recipe_id", recipeID, "error", err)
	}
}

func toRecordResponse(recipeID int64, w *scoreWrite) *dto.RecordScoreResponse {
	resp := &dto.RecordScoreResponse{
		Created:   w.kind == notify.ScoreCreated,
		Aggregate: dto.FromAggregate(recipeID, w.agg),
	}
	if w.score != nil {
		sc := dto.FromScore(*w.score)
		resp.Score = &sc
	}
	return resp
}
