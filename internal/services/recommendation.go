package services

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/tripmesh/backend/internal/models"
	"github.com/tripmesh/backend/pkg/logger"
	"github.com/tripmesh/backend/pkg/response"
	"gorm.io/gorm"
)

type RecommendationService struct {
	db           *gorm.DB
	groups       *GroupService
	availability *AvailabilityService
	provider     TravelInfoProvider
	queue        TaskQueue
}

func NewRecommendationService(db *gorm.DB, groups *GroupService, availability *AvailabilityService, provider TravelInfoProvider, queue TaskQueue) *RecommendationService {
	return &RecommendationService{
		db:           db,
		groups:       groups,
		availability: availability,
		provider:     provider,
		queue:        queue,
	}
}

// Generate produces recommendation candidates for every common range and
// destination wish of the group. A group that already has recommendations
// returns them unchanged, so repeated calls are idempotent.
//
// All provider estimates are gathered before anything is written; the rows are
// then inserted in a single transaction together with the status change. A
// provider failure mid-run therefore inserts nothing and a retry starts clean.
func (s *RecommendationService) Generate(ctx context.Context, groupID, userID uint) ([]models.Recommendation, error) {
	if _, err := s.groups.RequireMember(groupID, userID, false); err != nil {
		return nil, err
	}

	var existing []models.Recommendation
	if err := s.db.Where("group_id = ?", groupID).
		Order("votes DESC, price ASC").Find(&existing).Error; err != nil {
		return nil, err
	}
	if len(existing) > 0 {
		return existing, nil
	}

	ranges, err := s.availability.CommonRanges(groupID)
	if err != nil {
		return nil, err
	}
	if len(ranges) == 0 {
		return []models.Recommendation{}, nil
	}

	destinations, err := s.collectDestinations(groupID)
	if err != nil {
		return nil, err
	}

	batchID := uuid.NewString()
	recs := make([]models.Recommendation, 0, len(ranges)*len(destinations))

	for _, r := range ranges {
		for _, dest := range destinations {
			est, err := s.provider.Estimate(ctx, dest, r.Start, r.End)
			if err != nil {
				logger.Error().Err(err).Uint("group_id", groupID).Str("destination", dest).Msg("travel estimate failed")
				return nil, response.NewServerError("travel info provider failed: " + err.Error())
			}
			recs = append(recs, models.Recommendation{
				GroupID:        groupID,
				BatchID:        batchID,
				StartDate:      r.Start,
				EndDate:        r.End,
				Location:       dest,
				OutboundFlight: est.OutboundFlight,
				ReturnFlight:   est.ReturnFlight,
				Hotel:          est.Hotel,
				Price:          est.Price,
			})
		}
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&recs).Error; err != nil {
			return err
		}
		return tx.Model(&models.Group{}).Where("id = ?", groupID).
			Update("status", models.GroupStatusGenerated).Error
	})
	if err != nil {
		return nil, err
	}

	logger.Info().Uint("group_id", groupID).Str("batch_id", batchID).Int("count", len(recs)).Msg("recommendations generated")

	if s.queue != nil {
		if err := s.queue.EnqueueRecommendationsReady(groupID); err != nil {
			logger.Warn().Err(err).Uint("group_id", groupID).Msg("failed to enqueue ready notification")
		}
	}

	return recs, nil
}

// collectDestinations merges the members' destination wishes. Places strings
// are split on both ASCII and fullwidth commas, trimmed, de-duplicated and
// kept in first-seen order. No wishes at all yields the "undetermined"
// placeholder so generation still produces one candidate per range.
func (s *RecommendationService) collectDestinations(groupID uint) ([]string, error) {
	var prefs []models.Preference
	if err := s.db.Where("group_id = ?", groupID).Find(&prefs).Error; err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	destinations := []string{}
	for _, pref := range prefs {
		for _, dest := range SplitPlaces(pref.Places) {
			if _, ok := seen[dest]; ok {
				continue
			}
			seen[dest] = struct{}{}
			destinations = append(destinations, dest)
		}
	}

	if len(destinations) == 0 {
		destinations = []string{"undetermined"}
	}
	return destinations, nil
}

// SplitPlaces splits a comma-separated destination list, accepting the
// fullwidth comma as well, and drops empty entries.
func SplitPlaces(places string) []string {
	normalized := strings.ReplaceAll(places, "，", ",")
	parts := strings.Split(normalized, ",")

	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// List returns the group's recommendations ordered by votes descending,
// cheapest first on ties.
func (s *RecommendationService) List(groupID, userID uint) ([]models.Recommendation, error) {
	if _, err := s.groups.RequireMember(groupID, userID, false); err != nil {
		return nil, err
	}

	var recs []models.Recommendation
	err := s.db.Where("group_id = ?", groupID).
		Order("votes DESC, price ASC").Find(&recs).Error
	return recs, err
}

type VoteRequest struct {
	RecommendationIDs []uint `json:"recommendation_ids" binding:"required,min=1"`
}

// Vote increments the vote count of each listed recommendation that belongs
// to the group. Ids that do not exist or belong to another group are silently
// dropped. Returns id to new vote count for the rows that were affected.
func (s *RecommendationService) Vote(groupID, userID uint, req *VoteRequest) (map[uint]int, error) {
	if _, err := s.groups.RequireMember(groupID, userID, false); err != nil {
		return nil, err
	}

	var matched []models.Recommendation
	if err := s.db.Where("group_id = ? AND id IN ?", groupID, req.RecommendationIDs).
		Find(&matched).Error; err != nil {
		return nil, err
	}

	result := make(map[uint]int, len(matched))
	if len(matched) == 0 {
		return result, nil
	}

	ids := make([]uint, 0, len(matched))
	for _, rec := range matched {
		ids = append(ids, rec.ID)
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Recommendation{}).
			Where("id IN ?", ids).
			UpdateColumn("votes", gorm.Expr("votes + 1")).Error; err != nil {
			return err
		}

		var updated []models.Recommendation
		if err := tx.Where("id IN ?", ids).Find(&updated).Error; err != nil {
			return err
		}
		for _, rec := range updated {
			result[rec.ID] = rec.Votes
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}
