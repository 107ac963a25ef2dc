// Package reviews pulls public reviews for the gym from the Google Places
// details API and turns them into testimonials.
package reviews

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/gofiber/fiber/v2"

	"gymsite/internal/domain"
	applog "gymsite/internal/log"
)

const DefaultBaseURL = "https://maps.googleapis.com/maps/api/place/details/json"

type Client struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

func New(apiKey string) *Client {
	return &Client{BaseURL: DefaultBaseURL, APIKey: apiKey, Timeout: 8 * time.Second}
}

type placeDetails struct {
	Status string `json:"status"`
	Result struct {
		Reviews []struct {
			AuthorName string `json:"author_name"`
			Rating     int    `json:"rating"`
			Text       string `json:"text"`
			Time       int64  `json:"time"`
		} `json:"reviews"`
	} `json:"result"`
}

// Fetch returns the place's reviews as testimonials, quotes cut to maxLength
// runes. It never fails: missing input or any error yields nil.
func (c *Client) Fetch(ctx context.Context, placeID string, maxLength int) []domain.Testimonial {
	if c == nil || placeID == "" || c.APIKey == "" {
		return nil
	}
	q := url.Values{"place_id": {placeID}, "fields": {"reviews"}, "key": {c.APIKey}}
	a := fiber.Get(c.BaseURL + "?" + q.Encode())
	timeout := c.Timeout
	if dl, ok := ctx.Deadline(); ok {
		if left := time.Until(dl); timeout <= 0 || left < timeout {
			timeout = left
		}
	}
	if timeout > 0 {
		a.Timeout(timeout)
	}
	var body placeDetails
	code, _, errs := a.Struct(&body)
	if len(errs) > 0 {
		applog.Warn(nil, "reviews.fetch.fail", errs[0], map[string]any{"place_id": placeID})
		return nil
	}
	if code != fiber.StatusOK || (body.Status != "" && body.Status != "OK") {
		applog.Warn(nil, "reviews.fetch.fail", nil, map[string]any{"place_id": placeID, "code": code, "status": body.Status})
		return nil
	}
	out := make([]domain.Testimonial, 0, len(body.Result.Reviews))
	for _, r := range body.Result.Reviews {
		text := strings.TrimSpace(r.Text)
		if text == "" {
			continue
		}
		out = append(out, domain.Testimonial{
			ID:     externalID(r.Time, r.AuthorName),
			Name:   r.AuthorName,
			Role:   role(r.Rating),
			Quote:  Truncate(text, maxLength),
			Source: domain.SourceGoogle,
		})
	}
	return out
}

func externalID(ts int64, author string) string {
	slug := strings.ToLower(strings.Join(strings.Fields(author), "-"))
	return fmt.Sprintf("google-%d-%s", ts, slug)
}

func role(rating int) string {
	if rating <= 0 {
		return "Google Review"
	}
	return fmt.Sprintf("Google Review · %d★", rating)
}

// Truncate cuts s to at most max runes, ending with an ellipsis when cut.
// max <= 0 leaves s untouched.
func Truncate(s string, max int) string {
	if max <= 0 || utf8.RuneCountInString(s) <= max {
		return s
	}
	r := []rune(s)
	if max == 1 {
		return "…"
	}
	return strings.TrimRight(string(r[:max-1]), " ") + "…"
}
