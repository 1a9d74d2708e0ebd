package redis

import (
	"context"
	"fmt"
	"strconv"
)

const feedbackPrefix = "feedback:"

// FeedbackStore implements domain.FeedbackStore on a Redis hash per session
// (field = chunk index, value = rating), so feedback survives restarts.
type FeedbackStore struct {
	client *Client
}

// NewFeedbackStore creates a Redis-backed feedback store
func NewFeedbackStore(client *Client) *FeedbackStore {
	return &FeedbackStore{client: client}
}

// Record sets the rating for (sessionID, chunkIndex), overwriting any
// previous rating
func (s *FeedbackStore) Record(ctx context.Context, sessionID string, chunkIndex, rating int) error {
	key := feedbackPrefix + sessionID
	if err := s.client.rdb.HSet(ctx, key, strconv.Itoa(chunkIndex), rating).Err(); err != nil {
		return fmt.Errorf("failed to record feedback: %w", err)
	}
	return nil
}

// PenalizedIndices returns the indices rated exactly -1 for the session
func (s *FeedbackStore) PenalizedIndices(ctx context.Context, sessionID string) (map[int]bool, error) {
	key := feedbackPrefix + sessionID

	fields, err := s.client.rdb.HGetAll(ctx, key).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read feedback: %w", err)
	}

	penalized := make(map[int]bool)
	for field, value := range fields {
		idx, err := strconv.Atoi(field)
		if err != nil {
			continue
		}
		rating, err := strconv.Atoi(value)
		if err != nil {
			continue
		}
		if rating == -1 {
			penalized[idx] = true
		}
	}
	return penalized, nil
}
