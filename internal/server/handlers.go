package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"

	"github.com/gorilla/mux"

	"github.com/fitdeck/fitdeck/internal/fitness"
	"github.com/fitdeck/fitdeck/internal/gateway"
	"github.com/fitdeck/fitdeck/internal/observability"
	"github.com/fitdeck/fitdeck/internal/server/events"
	"github.com/fitdeck/fitdeck/internal/server/store"
)

func (s *Server) getRole(w http.ResponseWriter, r *http.Request) {
	claims, ok := caller(w, r)
	if !ok {
		return
	}
	role, err := fitness.ParseRole(claims.Role)
	if err != nil {
		role = fitness.RoleGuest
	}
	writeJSON(w, http.StatusOK, gateway.RoleResponse{Role: string(role)})
}

func (s *Server) getProfile(w http.ResponseWriter, r *http.Request) {
	claims, ok := caller(w, r)
	if !ok {
		return
	}
	body, err := s.store.Get(r.Context(), claims.Subject, store.Profile, store.ProfileID)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "no profile")
		return
	}
	if err != nil {
		writeFailure(w, err)
		return
	}
	var profile fitness.Profile
	if err := json.Unmarshal(body, &profile); err != nil {
		writeFailure(w, fmt.Errorf("decode profile: %w", err))
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

func (s *Server) saveProfile(w http.ResponseWriter, r *http.Request) {
	claims, ok := caller(w, r)
	if !ok {
		return
	}
	var profile fitness.Profile
	if !decodeBody(w, r, &profile) {
		return
	}
	profile.DisplayName = strings.TrimSpace(profile.DisplayName)
	if err := profile.Validate(); err != nil {
		writeFailure(w, err)
		return
	}
	if err := s.putDoc(r.Context(), claims.Subject, store.Profile, store.ProfileID, profile); err != nil {
		writeFailure(w, err)
		return
	}
	s.recordWrite(r.Context(), claims.Subject, "saveCallerUserProfile", store.Profile, "")
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) listWorkouts(w http.ResponseWriter, r *http.Request) {
	claims, ok := caller(w, r)
	if !ok {
		return
	}
	items, err := listDocs[fitness.Workout](r.Context(), s.store, claims.Subject, store.Workouts)
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, gateway.ListResponse[fitness.Workout]{Items: items})
}

func (s *Server) saveWorkout(w http.ResponseWriter, r *http.Request) {
	claims, ok := caller(w, r)
	if !ok {
		return
	}
	var workout fitness.Workout
	if !decodeBody(w, r, &workout) {
		return
	}
	workout.ID = mux.Vars(r)["id"]
	workout = workout.Normalize()
	if err := workout.Validate(); err != nil {
		writeFailure(w, err)
		return
	}
	if err := s.putDoc(r.Context(), claims.Subject, store.Workouts, workout.ID, workout); err != nil {
		writeFailure(w, err)
		return
	}
	s.recordWrite(r.Context(), claims.Subject, "saveWorkout", store.Workouts, workout.ID)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) listGoals(w http.ResponseWriter, r *http.Request) {
	claims, ok := caller(w, r)
	if !ok {
		return
	}
	goals, err := s.goalsWithProgress(r.Context(), claims.Subject)
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, gateway.ListResponse[fitness.Goal]{Items: goals})
}

func (s *Server) saveGoal(w http.ResponseWriter, r *http.Request) {
	claims, ok := caller(w, r)
	if !ok {
		return
	}
	var goal fitness.Goal
	if !decodeBody(w, r, &goal) {
		return
	}
	goal.ID = mux.Vars(r)["id"]
	goal.Description = strings.TrimSpace(goal.Description)
	// Progress is derived on every read, never stored.
	goal.Progress = 0
	if goal.StartDate == 0 {
		goal.StartDate = fitness.NanosFromTime(s.now())
	}
	if err := goal.Validate(); err != nil {
		writeFailure(w, err)
		return
	}
	if err := s.putDoc(r.Context(), claims.Subject, store.Goals, goal.ID, goal); err != nil {
		writeFailure(w, err)
		return
	}
	s.recordWrite(r.Context(), claims.Subject, "saveGoal", store.Goals, goal.ID)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) listMeals(w http.ResponseWriter, r *http.Request) {
	claims, ok := caller(w, r)
	if !ok {
		return
	}
	items, err := listDocs[fitness.Meal](r.Context(), s.store, claims.Subject, store.Meals)
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, gateway.ListResponse[fitness.Meal]{Items: items})
}

func (s *Server) saveMeal(w http.ResponseWriter, r *http.Request) {
	claims, ok := caller(w, r)
	if !ok {
		return
	}
	var req gateway.SaveMealRequest
	if !decodeBody(w, r, &req) {
		return
	}
	ctx := r.Context()
	id := mux.Vars(r)["id"]

	photo := fitness.Photo{URL: req.Photo.URL, Data: req.Photo.Data}
	existing, err := s.store.Get(ctx, claims.Subject, store.Meals, id)
	switch {
	case err == nil:
		// The photo is fixed when the meal is first created.
		var prior fitness.Meal
		if err := json.Unmarshal(existing, &prior); err != nil {
			writeFailure(w, fmt.Errorf("decode meal: %w", err))
			return
		}
		photo = prior.Photo
	case !errors.Is(err, store.ErrNotFound):
		writeFailure(w, err)
		return
	}

	meal := fitness.NewMeal(id, photo, req.Nutrition)
	if err := meal.Validate(); err != nil {
		writeFailure(w, err)
		return
	}
	if len(meal.Photo.Data) > 0 {
		if err := s.store.PutPhoto(ctx, claims.Subject, id, meal.Photo.Data); err != nil {
			writeFailure(w, err)
			return
		}
		meal.Photo = fitness.Photo{URL: s.photoURL(id)}
	}
	if err := s.putDoc(ctx, claims.Subject, store.Meals, id, meal); err != nil {
		writeFailure(w, err)
		return
	}
	s.recordWrite(ctx, claims.Subject, "saveMeal", store.Meals, id)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) deleteMeal(w http.ResponseWriter, r *http.Request) {
	claims, ok := caller(w, r)
	if !ok {
		return
	}
	id := mux.Vars(r)["id"]
	if err := s.store.Delete(r.Context(), claims.Subject, store.Meals, id); err != nil {
		writeFailure(w, err)
		return
	}
	if err := s.store.DeletePhoto(r.Context(), claims.Subject, id); err != nil {
		log.Printf("delete photo %s: %v", id, err)
	}
	s.recordWrite(r.Context(), claims.Subject, "deleteMeal", store.Meals, id)
	w.WriteHeader(http.StatusNoContent)
}

// deleteDocument handles the plain per-id deletes.
func (s *Server) deleteDocument(collection, kind string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := caller(w, r)
		if !ok {
			return
		}
		id := mux.Vars(r)["id"]
		if err := s.store.Delete(r.Context(), claims.Subject, collection, id); err != nil {
			writeFailure(w, err)
			return
		}
		s.recordWrite(r.Context(), claims.Subject, kind, collection, id)
		w.WriteHeader(http.StatusNoContent)
	}
}

func (s *Server) exportData(w http.ResponseWriter, r *http.Request) {
	claims, ok := caller(w, r)
	if !ok {
		return
	}
	ctx := r.Context()
	user := claims.Subject

	var out fitness.Export
	var err error
	if out.Meals, err = listDocs[fitness.Meal](ctx, s.store, user, store.Meals); err != nil {
		writeFailure(w, err)
		return
	}
	if out.Workouts, err = listDocs[fitness.Workout](ctx, s.store, user, store.Workouts); err != nil {
		writeFailure(w, err)
		return
	}
	if out.Activities, err = listDocs[fitness.Activity](ctx, s.store, user, store.Activities); err != nil {
		writeFailure(w, err)
		return
	}
	if out.Goals, err = s.goalsWithProgress(ctx, user); err != nil {
		writeFailure(w, err)
		return
	}
	for _, a := range out.Activities {
		out.StepCount += a.Steps
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) deleteAllData(w http.ResponseWriter, r *http.Request) {
	claims, ok := caller(w, r)
	if !ok {
		return
	}
	if err := s.store.DeleteUser(r.Context(), claims.Subject); err != nil {
		writeFailure(w, err)
		return
	}
	s.recordWrite(r.Context(), claims.Subject, "deleteAllUserData", "all", "")
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) getPhoto(w http.ResponseWriter, r *http.Request) {
	claims, ok := caller(w, r)
	if !ok {
		return
	}
	data, err := s.store.GetPhoto(r.Context(), claims.Subject, mux.Vars(r)["id"])
	if err != nil {
		writeFailure(w, err)
		return
	}
	w.Header().Set("Content-Type", http.DetectContentType(data))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (s *Server) goalsWithProgress(ctx context.Context, user string) ([]fitness.Goal, error) {
	goals, err := listDocs[fitness.Goal](ctx, s.store, user, store.Goals)
	if err != nil {
		return nil, err
	}
	if len(goals) == 0 {
		return goals, nil
	}
	workouts, err := listDocs[fitness.Workout](ctx, s.store, user, store.Workouts)
	if err != nil {
		return nil, err
	}
	activities, err := listDocs[fitness.Activity](ctx, s.store, user, store.Activities)
	if err != nil {
		return nil, err
	}
	now := s.now()
	for i := range goals {
		goals[i].Progress = GoalProgress(goals[i], workouts, activities, now)
	}
	return goals, nil
}

func (s *Server) photoURL(id string) string {
	return s.photoBase + gateway.PathPhotos + "/" + url.PathEscape(id)
}

func (s *Server) putDoc(ctx context.Context, user, collection, id string, v any) error {
	body, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", collection, err)
	}
	return s.store.Put(ctx, user, collection, id, body)
}

// recordWrite counts a committed write and publishes its event. Publish
// failures are logged; the write itself already succeeded.
func (s *Server) recordWrite(ctx context.Context, user, kind, collection, id string) {
	now := s.now()
	observability.RecordServerWrite(collection, now)
	event := events.Event{UserID: user, Kind: kind, EntityID: id, At: now.UTC()}
	if err := s.events.Publish(ctx, event); err != nil {
		log.Printf("publish %s event: %v", kind, err)
	}
}

func listDocs[T any](ctx context.Context, st store.Store, user, collection string) ([]T, error) {
	raw, err := st.List(ctx, user, collection)
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, len(raw))
	for _, body := range raw {
		var item T
		if err := json.Unmarshal(body, &item); err != nil {
			return nil, fmt.Errorf("decode %s: %w", collection, err)
		}
		out = append(out, item)
	}
	return out, nil
}
