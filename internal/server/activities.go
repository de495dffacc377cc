package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/fitdeck/fitdeck/internal/fitness"
	"github.com/fitdeck/fitdeck/internal/gateway"
	"github.com/fitdeck/fitdeck/internal/server/store"
)

func (s *Server) listActivities(w http.ResponseWriter, r *http.Request) {
	claims, ok := caller(w, r)
	if !ok {
		return
	}
	items, err := listDocs[fitness.Activity](r.Context(), s.store, claims.Subject, store.Activities)
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, gateway.ListResponse[fitness.Activity]{Items: items})
}

// startActivity creates the activity in the active state. An id can only be
// started once.
func (s *Server) startActivity(w http.ResponseWriter, r *http.Request) {
	claims, ok := caller(w, r)
	if !ok {
		return
	}
	var req gateway.StartActivityRequest
	if !decodeBody(w, r, &req) {
		return
	}
	activityType, err := fitness.ParseActivityType(req.ActivityType)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	id := mux.Vars(r)["id"]
	activity := fitness.Activity{
		ID:           id,
		ActivityType: activityType,
		StartTime:    fitness.NanosFromTime(s.now()),
		IsActive:     true,
	}
	_, err = s.store.Update(r.Context(), claims.Subject, store.Activities, id, func(current []byte) ([]byte, error) {
		if current != nil {
			return nil, &conflictError{message: "activity already exists"}
		}
		return json.Marshal(activity)
	})
	if err != nil {
		writeFailure(w, err)
		return
	}
	s.recordWrite(r.Context(), claims.Subject, "startActivity", store.Activities, id)
	writeJSON(w, http.StatusCreated, activity)
}

// endActivity finalizes an active activity with the supplied metrics. A
// second end is rejected.
func (s *Server) endActivity(w http.ResponseWriter, r *http.Request) {
	claims, ok := caller(w, r)
	if !ok {
		return
	}
	var result fitness.ActivityResult
	if !decodeBody(w, r, &result) {
		return
	}
	if err := result.Validate(); err != nil {
		writeFailure(w, err)
		return
	}

	id := mux.Vars(r)["id"]
	var ended fitness.Activity
	_, err := s.store.Update(r.Context(), claims.Subject, store.Activities, id, func(current []byte) ([]byte, error) {
		if current == nil {
			return nil, store.ErrNotFound
		}
		if err := json.Unmarshal(current, &ended); err != nil {
			return nil, fmt.Errorf("decode activity: %w", err)
		}
		if !ended.IsActive {
			return nil, &conflictError{message: "activity already ended"}
		}
		ended.IsActive = false
		ended.EndTime = fitness.NanosFromTime(s.now())
		ended.Steps = result.Steps
		ended.Calories = result.Calories
		ended.DistanceKm = result.DistanceKm
		ended.DurationMinutes = result.DurationMinutes
		return json.Marshal(ended)
	})
	if err != nil {
		writeFailure(w, err)
		return
	}
	s.recordWrite(r.Context(), claims.Subject, "endActivity", store.Activities, id)
	writeJSON(w, http.StatusOK, ended)
}
