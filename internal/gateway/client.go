package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/fitdeck/fitdeck/internal/fitness"
)

// Client talks to the fitness service HTTP API.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	token     string
	userAgent string
}

var _ Gateway = (*Client)(nil)

const (
	defaultAPIBind   = "127.0.0.1:8460"
	defaultUserAgent = "fitdeck/0.1"
	requestTimeout   = 10 * time.Second
)

// NewClient builds a Client for apiURL that authenticates with token.
func NewClient(apiURL, token string) (*Client, error) {
	base, err := parseBaseURL(apiURL)
	if err != nil {
		return nil, err
	}
	return &Client{
		baseURL:   base,
		http:      &http.Client{Timeout: requestTimeout},
		token:     strings.TrimSpace(token),
		userAgent: defaultUserAgent,
	}, nil
}

// GetWorkouts retrieves every workout of the caller.
func (c *Client) GetWorkouts(ctx context.Context) ([]fitness.Workout, error) {
	var payload ListResponse[fitness.Workout]
	if err := c.do(ctx, "getWorkouts", http.MethodGet, PathWorkouts, nil, &payload); err != nil {
		return nil, err
	}
	return payload.Items, nil
}

// GetMeals retrieves every meal of the caller.
func (c *Client) GetMeals(ctx context.Context) ([]fitness.Meal, error) {
	var payload ListResponse[fitness.Meal]
	if err := c.do(ctx, "getMeals", http.MethodGet, PathMeals, nil, &payload); err != nil {
		return nil, err
	}
	for i := range payload.Items {
		payload.Items[i].Photo.URL = c.resolve(payload.Items[i].Photo.URL)
	}
	return payload.Items, nil
}

// GetGoals retrieves every goal with server-computed progress.
func (c *Client) GetGoals(ctx context.Context) ([]fitness.Goal, error) {
	var payload ListResponse[fitness.Goal]
	if err := c.do(ctx, "getGoals", http.MethodGet, PathGoals, nil, &payload); err != nil {
		return nil, err
	}
	return payload.Items, nil
}

// GetAllActivities retrieves every activity, active or finished.
func (c *Client) GetAllActivities(ctx context.Context) ([]fitness.Activity, error) {
	var payload ListResponse[fitness.Activity]
	if err := c.do(ctx, "getAllActivities", http.MethodGet, PathActivities, nil, &payload); err != nil {
		return nil, err
	}
	return payload.Items, nil
}

// GetCallerUserProfile returns nil without error when no profile exists yet.
func (c *Client) GetCallerUserProfile(ctx context.Context) (*fitness.Profile, error) {
	var payload fitness.Profile
	if err := c.do(ctx, "getCallerUserProfile", http.MethodGet, PathProfile, nil, &payload); err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return &payload, nil
}

// GetCallerUserRole returns the caller's role.
func (c *Client) GetCallerUserRole(ctx context.Context) (fitness.Role, error) {
	var payload RoleResponse
	if err := c.do(ctx, "getCallerUserRole", http.MethodGet, PathRole, nil, &payload); err != nil {
		return "", err
	}
	return fitness.ParseRole(payload.Role)
}

// SaveWorkout creates or replaces a workout.
func (c *Client) SaveWorkout(ctx context.Context, workout fitness.Workout) error {
	return c.do(ctx, "saveWorkout", http.MethodPut, itemPath(PathWorkouts, workout.ID), workout, nil)
}

// DeleteWorkout removes a workout.
func (c *Client) DeleteWorkout(ctx context.Context, id string) error {
	return c.do(ctx, "deleteWorkout", http.MethodDelete, itemPath(PathWorkouts, id), nil, nil)
}

// SaveGoal creates or replaces a goal.
func (c *Client) SaveGoal(ctx context.Context, goal fitness.Goal) error {
	return c.do(ctx, "saveGoal", http.MethodPut, itemPath(PathGoals, goal.ID), goal, nil)
}

// DeleteGoal removes a goal.
func (c *Client) DeleteGoal(ctx context.Context, id string) error {
	return c.do(ctx, "deleteGoal", http.MethodDelete, itemPath(PathGoals, id), nil, nil)
}

// SaveMeal uploads the photo and stores the nutrient vector.
func (c *Client) SaveMeal(ctx context.Context, id string, photo fitness.Photo, nutrition fitness.Nutrition) error {
	body := SaveMealRequest{
		Photo:     PhotoUpload{URL: photo.URL, Data: photo.Data},
		Nutrition: nutrition,
	}
	return c.do(ctx, "saveMeal", http.MethodPut, itemPath(PathMeals, id), body, nil)
}

// DeleteMeal removes a meal.
func (c *Client) DeleteMeal(ctx context.Context, id string) error {
	return c.do(ctx, "deleteMeal", http.MethodDelete, itemPath(PathMeals, id), nil, nil)
}

// SaveCallerUserProfile creates or updates the caller's profile.
func (c *Client) SaveCallerUserProfile(ctx context.Context, profile fitness.Profile) error {
	return c.do(ctx, "saveCallerUserProfile", http.MethodPut, PathProfile, profile, nil)
}

// StartActivity creates an active activity.
func (c *Client) StartActivity(ctx context.Context, id string, activityType fitness.ActivityType) error {
	body := StartActivityRequest{ActivityType: string(activityType)}
	return c.do(ctx, "startActivity", http.MethodPost, itemPath(PathActivities, id)+"/start", body, nil)
}

// EndActivity finalizes an activity and returns the stored record.
func (c *Client) EndActivity(ctx context.Context, id string, result fitness.ActivityResult) (fitness.Activity, error) {
	var payload fitness.Activity
	if err := c.do(ctx, "endActivity", http.MethodPost, itemPath(PathActivities, id)+"/end", result, &payload); err != nil {
		return fitness.Activity{}, err
	}
	return payload, nil
}

// ExportUserData returns every record owned by the caller.
func (c *Client) ExportUserData(ctx context.Context) (fitness.Export, error) {
	var payload fitness.Export
	if err := c.do(ctx, "exportUserData", http.MethodGet, PathExport, nil, &payload); err != nil {
		return fitness.Export{}, err
	}
	return payload, nil
}

// DeleteAllUserData wipes every record owned by the caller.
func (c *Client) DeleteAllUserData(ctx context.Context) error {
	return c.do(ctx, "deleteAllUserData", http.MethodDelete, PathData, nil, nil)
}

// FetchPhoto downloads the blob behind a photo URL.
func (c *Client) FetchPhoto(ctx context.Context, photo fitness.Photo) ([]byte, error) {
	if photo.URL == "" {
		return nil, fmt.Errorf("photo has no url")
	}
	req, err := c.newRequest(ctx, http.MethodGet, c.resolve(photo.URL), nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode >= 400 {
		return nil, rejected("fetchPhoto", resp)
	}
	return io.ReadAll(resp.Body)
}

func (c *Client) do(ctx context.Context, op, method, path string, body, dest any) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s request: %w", op, err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := c.newRequest(ctx, method, c.baseURL.ResolveReference(&url.URL{Path: path}).String(), reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		return rejected(op, resp)
	}
	if dest == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *Client) newRequest(ctx context.Context, method, target string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	return req, nil
}

// resolve turns server-relative photo URLs into absolute ones.
func (c *Client) resolve(raw string) string {
	if raw == "" {
		return ""
	}
	ref, err := url.Parse(raw)
	if err != nil || ref.IsAbs() {
		return raw
	}
	return c.baseURL.ResolveReference(ref).String()
}

func rejected(op string, resp *http.Response) error {
	var payload ErrorResponse
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	message := strings.TrimSpace(string(data))
	if json.Unmarshal(data, &payload) == nil && payload.Error != "" {
		message = payload.Error
	}
	return &RejectedError{Op: op, Status: resp.StatusCode, Message: message}
}

func itemPath(collection, id string) string {
	return collection + "/" + id
}

func parseBaseURL(apiURL string) (*url.URL, error) {
	trimmed := strings.TrimSpace(apiURL)
	if trimmed == "" {
		trimmed = defaultAPIBind
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse api_url %q: %w", apiURL, err)
	}
	u.Path = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
