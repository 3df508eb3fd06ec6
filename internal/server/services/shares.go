package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/dmitrijs2005/secondbrain/internal/common"
	"github.com/dmitrijs2005/secondbrain/internal/server/config"
	"github.com/dmitrijs2005/secondbrain/internal/server/models"
	"github.com/dmitrijs2005/secondbrain/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

// UnknownOwner is reported as the sharer when the share's owner is gone.
const UnknownOwner = "Unknown user"

type ShareService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	tokenLength int
	maxAttempts int

	now      func() time.Time
	newToken func(n int) (string, error)
}

func NewShareService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *ShareService {
	return &ShareService{
		db:          db,
		repomanager: m,
		tokenLength: cfg.ShareTokenLength,
		maxAttempts: cfg.ShareTokenMaxAttempts,
		now:         time.Now,
		newToken:    common.MakeRandAlnumString,
	}
}

// Create publishes contentIDs under a fresh share token. Every id must name
// a content owned by userID. expiresInHours nil means the share never
// expires; zero or negative means it is already expired.
func (s *ShareService) Create(ctx context.Context, userID string, contentIDs []string, expiresInHours *float64) (*models.Share, error) {
	if len(contentIDs) == 0 {
		return nil, common.NewValidationError("At least one content ID is required")
	}

	var expiresIn time.Duration
	if expiresInHours != nil {
		d, err := hoursToDuration(*expiresInHours)
		if err != nil {
			return nil, err
		}
		expiresIn = d
	}

	distinct := make([]string, 0, len(contentIDs))
	seen := make(map[string]struct{}, len(contentIDs))
	for _, id := range contentIDs {
		parsed, err := uuid.Parse(id)
		if err != nil {
			return nil, common.ErrorForbidden
		}
		key := parsed.String()
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		distinct = append(distinct, key)
	}

	owned, err := s.repomanager.Contents(s.db).CountOwned(ctx, userID, distinct)
	if err != nil {
		return nil, fmt.Errorf("error checking ownership: %w", err)
	}
	if owned != len(distinct) {
		return nil, common.ErrorForbidden
	}

	var expiresAt *time.Time
	if expiresInHours != nil {
		t := s.now().Add(expiresIn)
		expiresAt = &t
	}

	repo := s.repomanager.Shares(s.db)
	for attempt := 0; attempt < s.maxAttempts; attempt++ {
		token, err := s.newToken(s.tokenLength)
		if err != nil {
			return nil, common.ErrorInternal
		}

		share, err := repo.Create(ctx, &models.Share{
			UserID:     userID,
			ContentIDs: contentIDs,
			ShareID:    token,
			ExpiresAt:  expiresAt,
		})
		if err == nil {
			return share, nil
		}
		if !errors.Is(err, common.ErrorConflict) {
			return nil, fmt.Errorf("error creating share: %w", err)
		}
	}

	return nil, fmt.Errorf("%w: no free share token after %d attempts", common.ErrorInternal, s.maxAttempts)
}

// Resolve returns the public view of a share: its owner's name and the
// still-existing contents in share order.
func (s *ShareService) Resolve(ctx context.Context, shareID string) (*models.SharedBrain, error) {
	share, err := s.repomanager.Shares(s.db).GetByShareID(ctx, shareID)
	if err != nil {
		return nil, err
	}
	if share.ExpiredAt(s.now()) {
		return nil, common.ErrorGone
	}

	items, err := s.repomanager.Contents(s.db).GetByIDs(ctx, share.ContentIDs)
	if err != nil {
		return nil, fmt.Errorf("error loading shared contents: %w", err)
	}

	sharedBy := UnknownOwner
	owner, err := s.repomanager.Users(s.db).GetByID(ctx, share.UserID)
	switch {
	case err == nil:
		sharedBy = owner.UserName
	case !errors.Is(err, common.ErrorNotFound):
		return nil, fmt.Errorf("error loading share owner: %w", err)
	}

	return &models.SharedBrain{SharedBy: sharedBy, Contents: items}, nil
}

// hoursToDuration converts h hours to a Duration. Values past the Duration
// range are rejected; negative ones only need to be in the past, so they
// saturate.
func hoursToDuration(h float64) (time.Duration, error) {
	ns := h * float64(time.Hour)
	switch {
	case math.IsNaN(ns), ns >= math.MaxInt64:
		return 0, common.NewValidationError("expiresIn is too large")
	case ns <= math.MinInt64:
		return math.MinInt64, nil
	}
	return time.Duration(ns), nil
}
