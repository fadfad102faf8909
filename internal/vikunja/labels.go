package vikunja

import (
	"context"
	"fmt"
	"math/rand/v2"
	"net/http"
	"strings"

	"github.com/existflow/quickadd/internal/model"
)

// RandomColor returns a uniformly random #rrggbb color
func RandomColor() string {
	return fmt.Sprintf("#%06x", rand.IntN(1<<24))
}

// ListLabels returns all labels visible to the user. Instances that refuse
// the endpoint yield ErrLabelsUnsupported.
func (c *Client) ListLabels(ctx context.Context) ([]model.Label, error) {
	var labels []model.Label
	err := c.do(ctx, "list labels", http.MethodGet, "/api/v1/labels", nil, &labels)
	if IsStatus(err, http.StatusForbidden, http.StatusNotFound) {
		return nil, fmt.Errorf("%w: %w", ErrLabelsUnsupported, err)
	}
	if err != nil {
		return nil, err
	}
	if labels == nil {
		labels = []model.Label{}
	}
	return labels, nil
}

// CreateLabel creates a label. An empty color picks a random one.
func (c *Client) CreateLabel(ctx context.Context, title, color string) (*model.Label, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, fmt.Errorf("%w: label title is empty", model.ErrValidation)
	}
	if color == "" {
		color = RandomColor()
	}

	body := map[string]string{
		"title":     title,
		"hex_color": color,
	}
	var label model.Label
	if err := c.do(ctx, "create label", http.MethodPut, "/api/v1/labels", body, &label); err != nil {
		return nil, err
	}
	return &label, nil
}

// AttachLabel adds an existing label to a task
func (c *Client) AttachLabel(ctx context.Context, taskID, labelID int64) error {
	body := map[string]int64{"label_id": labelID}
	path := fmt.Sprintf("/api/v1/tasks/%d/labels", taskID)
	return c.do(ctx, "attach label", http.MethodPut, path, body, nil)
}
