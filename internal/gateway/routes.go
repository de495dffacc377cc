package gateway

// Wire routes shared by the HTTP client and the reference server.
const (
	PathHealth     = "/healthz"
	PathRole       = "/api/role"
	PathProfile    = "/api/profile"
	PathWorkouts   = "/api/workouts"
	PathGoals      = "/api/goals"
	PathMeals      = "/api/meals"
	PathActivities = "/api/activities"
	PathExport     = "/api/export"
	PathData       = "/api/data"
	PathPhotos     = "/api/photos"
)

// ListResponse wraps every collection read.
type ListResponse[T any] struct {
	Items []T `json:"items"`
}

// RoleResponse mirrors /api/role.
type RoleResponse struct {
	Role string `json:"role"`
}

// SaveMealRequest is the body of PUT /api/meals/{id}.
type SaveMealRequest struct {
	Photo     PhotoUpload `json:"photo"`
	Nutrition [7]float64  `json:"nutrition"`
}

// PhotoUpload carries either fresh bytes or an existing blob URL.
type PhotoUpload struct {
	URL  string `json:"url,omitempty"`
	Data []byte `json:"data,omitempty"`
}

// StartActivityRequest is the body of POST /api/activities/{id}/start.
type StartActivityRequest struct {
	ActivityType string `json:"activityType"`
}

// ErrorResponse is returned by the server for failed requests.
type ErrorResponse struct {
	Error string `json:"error"`
}
