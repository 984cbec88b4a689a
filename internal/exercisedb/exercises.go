package exercisedb

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"fittrack/internal/metrics"
)

const (
	defaultLimit = 5
	maxLimit     = 50
)

// Exercise is one ExerciseDB entry
type Exercise struct {
	ID               string   `json:"id"`
	Name             string   `json:"name"`
	BodyPart         string   `json:"bodyPart"`
	Equipment        string   `json:"equipment"`
	Target           string   `json:"target"`
	GifURL           string   `json:"gifUrl,omitempty"`
	SecondaryMuscles []string `json:"secondaryMuscles,omitempty"`
	Instructions     []string `json:"instructions"`
}

// ByBodyPart lists exercises for a body part such as "chest" or "upper legs"
func (c *Client) ByBodyPart(ctx context.Context, bodyPart string, limit int) ([]Exercise, error) {
	exercises, err := c.list(ctx, metrics.OpByBodyPart, "/exercises/bodyPart/"+url.PathEscape(bodyPart), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list exercises for body part %q: %w", bodyPart, err)
	}
	return exercises, nil
}

// ByEquipment lists exercises that use a piece of equipment such as "barbell"
func (c *Client) ByEquipment(ctx context.Context, equipment string, limit int) ([]Exercise, error) {
	exercises, err := c.list(ctx, metrics.OpByEquipment, "/exercises/equipment/"+url.PathEscape(equipment), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list exercises for equipment %q: %w", equipment, err)
	}
	return exercises, nil
}

func (c *Client) list(ctx context.Context, operation, path string, limit int) ([]Exercise, error) {
	if limit < 1 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	params := url.Values{
		"limit":  {strconv.Itoa(limit)},
		"offset": {"0"},
	}

	respBody, err := c.doRequest(ctx, operation, path+"?"+params.Encode())
	if err != nil {
		return nil, err
	}

	var exercises []Exercise
	if err := json.Unmarshal(respBody, &exercises); err != nil {
		return nil, fmt.Errorf("failed to unmarshal exercises: %w", err)
	}
	if exercises == nil {
		exercises = []Exercise{}
	}

	return exercises, nil
}
