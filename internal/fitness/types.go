package fitness

// Profile is the caller's profile. Absence signals first-run setup.
type Profile struct {
	DisplayName string `json:"displayName"`
	Units       Units  `json:"units"`
}

// Set is one set of an exercise. Weight is always kilograms.
type Set struct {
	Weight float64  `json:"weight"`
	Reps   int64    `json:"reps"`
	RPE    *float64 `json:"rpe,omitempty"`
}

// Exercise groups ordered sets under a name.
type Exercise struct {
	Name string `json:"name"`
	Sets []Set  `json:"sets"`
}

// Workout mirrors the gateway workout record. Date is nanoseconds since epoch.
type Workout struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Date      int64      `json:"date"`
	Duration  int64      `json:"duration"`
	Exercises []Exercise `json:"exercises"`
	Notes     string     `json:"notes"`
}

// Photo is an opaque blob reference. Data is only populated on upload.
type Photo struct {
	URL  string `json:"url,omitempty"`
	Data []byte `json:"data,omitempty"`
}

// IsZero reports whether the photo carries neither a URL nor bytes.
func (p Photo) IsZero() bool {
	return p.URL == "" && len(p.Data) == 0
}

// Meal is a logged meal with its macro and micro nutrients.
type Meal struct {
	ID       string  `json:"id"`
	Photo    Photo   `json:"photo"`
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
	Fiber    float64 `json:"fiber"`
	Sugar    float64 `json:"sugar"`
	Sodium   float64 `json:"sodium"`
}

// Nutrition is the positional nutrient vector accepted by saveMeal:
// calories, carbs, protein, fat, fiber, sugar, sodium.
type Nutrition [7]float64

// Nutrition returns the meal's nutrients in gateway order.
func (m Meal) Nutrition() Nutrition {
	return Nutrition{m.Calories, m.Carbs, m.Protein, m.Fat, m.Fiber, m.Sugar, m.Sodium}
}

// NewMeal builds a meal from the gateway nutrient vector.
func NewMeal(id string, photo Photo, n Nutrition) Meal {
	return Meal{
		ID:       id,
		Photo:    photo,
		Calories: n[0],
		Carbs:    n[1],
		Protein:  n[2],
		Fat:      n[3],
		Fiber:    n[4],
		Sugar:    n[5],
		Sodium:   n[6],
	}
}

// Activity is a tracked walk, run or ride. Times are nanoseconds since epoch.
type Activity struct {
	ID              string       `json:"id"`
	ActivityType    ActivityType `json:"activityType"`
	StartTime       int64        `json:"startTime"`
	EndTime         int64        `json:"endTime"`
	IsActive        bool         `json:"isActive"`
	Steps           int64        `json:"steps"`
	DistanceKm      float64      `json:"distanceKm"`
	Calories        float64      `json:"calories"`
	DurationMinutes float64      `json:"durationMinutes"`
}

// ActivityResult carries the final metrics supplied when an activity ends.
type ActivityResult struct {
	Steps           int64   `json:"steps"`
	Calories        float64 `json:"calories"`
	DistanceKm      float64 `json:"distanceKm"`
	DurationMinutes float64 `json:"durationMinutes"`
}

// Goal is a user target. Progress is computed by the remote service.
type Goal struct {
	ID          string   `json:"id"`
	Description string   `json:"description"`
	GoalType    GoalType `json:"goalType"`
	Target      int64    `json:"target"`
	Progress    int64    `json:"progress"`
	StartDate   int64    `json:"startDate"`
	EndDate     int64    `json:"endDate"`
}

// Export is the full data dump returned by exportUserData.
type Export struct {
	Meals      []Meal     `json:"meals"`
	Workouts   []Workout  `json:"workouts"`
	Activities []Activity `json:"activities"`
	Goals      []Goal     `json:"goals"`
	StepCount  int64      `json:"stepCount"`
}
