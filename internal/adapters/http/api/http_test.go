package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/okian/dojo/internal/adapters/http/api"
	service "github.com/okian/dojo/internal/app"
	"github.com/okian/dojo/internal/domain/model"
	"github.com/okian/dojo/internal/domain/types"
)

// newTestServer starts a workflow service behind the full route table.
func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	svc := service.New(service.WithWorkerCount(1), service.WithQueueSize(64))
	if err := svc.Start(context.Background()); err != nil {
		t.Fatalf("failed to start service: %v", err)
	}
	t.Cleanup(svc.Stop)

	mux := http.NewServeMux()
	api.NewServer(svc, svc).Register(context.Background(), mux)

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func doJSON(t *testing.T, method, url string, userID int64, body any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("failed to encode body: %v", err)
		}
	}
	req, err := http.NewRequest(method, url, &buf)
	if err != nil {
		t.Fatalf("failed to build request: %v", err)
	}
	if userID > 0 {
		req.Header.Set("X-User-ID", fmt.Sprintf("%d", userID))
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var v T
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return v
}

func registerUser(t *testing.T, srv *httptest.Server, username string) model.User {
	t.Helper()
	resp := doJSON(t, http.MethodPost, srv.URL+"/users", 0, map[string]string{"username": username})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201 registering %q, got %d", username, resp.StatusCode)
	}
	return decode[model.User](t, resp)
}

func createAssignment(t *testing.T, srv *httptest.Server, authorID int64, required int) model.Assignment {
	t.Helper()
	resp := doJSON(t, http.MethodPost, srv.URL+"/assignments", authorID, map[string]any{
		"title":            "Binary search",
		"description":      "Implement binary search",
		"category":         "algorithms",
		"difficulty":       2,
		"required_reviews": required,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201 creating assignment, got %d", resp.StatusCode)
	}
	return decode[model.Assignment](t, resp)
}

func createSubmission(t *testing.T, srv *httptest.Server, authorID, assignmentID int64) model.Submission {
	t.Helper()
	resp := doJSON(t, http.MethodPost, srv.URL+"/submissions", authorID, map[string]any{
		"assignment_id": assignmentID,
		"content":       "func search() {}",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201 creating submission, got %d", resp.StatusCode)
	}
	return decode[model.Submission](t, resp)
}

func TestAPI_RegisterUser(t *testing.T) {
	srv := newTestServer(t)

	u := registerUser(t, srv, "alice")
	if u.Username != "alice" {
		t.Errorf("expected alice, got %q", u.Username)
	}
	if u.Level != 1 || u.Points != 0 {
		t.Errorf("expected fresh progression, got %+v", u)
	}

	// Duplicate username conflicts.
	resp := doJSON(t, http.MethodPost, srv.URL+"/users", 0, map[string]string{"username": "alice"})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("expected 409 for duplicate username, got %d", resp.StatusCode)
	}

	// Blank username is a bad request.
	resp = doJSON(t, http.MethodPost, srv.URL+"/users", 0, map[string]string{"username": "  "})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400 for blank username, got %d", resp.StatusCode)
	}
}

func TestAPI_SearchUsers(t *testing.T) {
	srv := newTestServer(t)
	alice := registerUser(t, srv, "alice")
	registerUser(t, srv, "malice")
	registerUser(t, srv, "bob")

	resp := doJSON(t, http.MethodGet, srv.URL+"/users/search?q=ali", alice.ID, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	found := decode[[]model.User](t, resp)
	if len(found) != 2 {
		t.Errorf("expected 2 matches, got %d", len(found))
	}

	// Unauthenticated search is refused.
	resp = doJSON(t, http.MethodGet, srv.URL+"/users/search?q=ali", 0, nil)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected 401 without identity, got %d", resp.StatusCode)
	}
}

func TestAPI_AssignmentsAndFilters(t *testing.T) {
	srv := newTestServer(t)
	author := registerUser(t, srv, "author")

	createAssignment(t, srv, author.ID, 3)
	resp := doJSON(t, http.MethodPost, srv.URL+"/assignments", author.ID, map[string]any{
		"title":       "Graphs",
		"description": "Model a social graph",
		"category":    "design",
		"difficulty":  3,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	resp = doJSON(t, http.MethodGet, srv.URL+"/assignments?category=algorithms", author.ID, nil)
	byCategory := decode[[]model.Assignment](t, resp)
	if len(byCategory) != 1 {
		t.Errorf("expected 1 algorithms assignment, got %d", len(byCategory))
	}

	resp = doJSON(t, http.MethodGet, srv.URL+"/assignments?difficulty=3", author.ID, nil)
	byDifficulty := decode[[]model.Assignment](t, resp)
	if len(byDifficulty) != 1 {
		t.Errorf("expected 1 difficulty-3 assignment, got %d", len(byDifficulty))
	}

	resp = doJSON(t, http.MethodGet, srv.URL+"/assignments", author.ID, nil)
	all := decode[[]model.Assignment](t, resp)
	if len(all) != 2 {
		t.Errorf("expected 2 assignments, got %d", len(all))
	}

	// Unparseable difficulty filter.
	resp = doJSON(t, http.MethodGet, srv.URL+"/assignments?difficulty=hard", author.ID, nil)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400 for bad difficulty, got %d", resp.StatusCode)
	}
}

func TestAPI_ReviewWorkflow(t *testing.T) {
	srv := newTestServer(t)
	author := registerUser(t, srv, "author")
	r1 := registerUser(t, srv, "reviewer1")
	r2 := registerUser(t, srv, "reviewer2")
	r3 := registerUser(t, srv, "reviewer3")

	assignment := createAssignment(t, srv, author.ID, 3)
	sub := createSubmission(t, srv, author.ID, assignment.ID)

	// The submission shows up in a reviewer's queue but not the author's.
	resp := doJSON(t, http.MethodGet, srv.URL+"/submissions/to-review", r1.ID, nil)
	queue := decode[[]model.Submission](t, resp)
	if len(queue) != 1 {
		t.Fatalf("expected 1 reviewable submission, got %d", len(queue))
	}
	resp = doJSON(t, http.MethodGet, srv.URL+"/submissions/to-review", author.ID, nil)
	ownQueue := decode[[]model.Submission](t, resp)
	if len(ownQueue) != 0 {
		t.Errorf("expected author's queue to be empty, got %d", len(ownQueue))
	}

	// A quality review pays 15 points.
	longFeedback := strings.Repeat("thorough commentary ", 7)
	resp = doJSON(t, http.MethodPost, srv.URL+"/reviews", r1.ID, map[string]any{
		"submission_id": sub.ID,
		"rating":        5,
		"feedback":      longFeedback,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	review := decode[model.Review](t, resp)
	if review.QualityTier != model.TierQuality || review.PointsAwarded != 15 {
		t.Errorf("expected quality review worth 15, got %+v", review)
	}

	// Two more basic reviews complete the submission.
	for i, reviewer := range []model.User{r2, r3} {
		resp = doJSON(t, http.MethodPost, srv.URL+"/reviews", reviewer.ID, map[string]any{
			"submission_id": sub.ID,
			"rating":        4 - i,
			"feedback":      "good effort overall",
		})
		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("expected 201 on review %d, got %d", i, resp.StatusCode)
		}
		resp.Body.Close()
	}

	resp = doJSON(t, http.MethodGet, srv.URL+"/reviews/submission/"+fmt.Sprint(sub.ID), author.ID, nil)
	reviews := decode[[]model.Review](t, resp)
	if len(reviews) != 3 {
		t.Errorf("expected 3 reviews, got %d", len(reviews))
	}

	// Ratings 5, 4, 3: mean 4.0 pays the author 80 XP.
	resp = doJSON(t, http.MethodGet, srv.URL+"/me/stats", author.ID, nil)
	stats := decode[types.UserStats](t, resp)
	if stats.TotalXP != 80 {
		t.Errorf("expected 80 XP, got %d", stats.TotalXP)
	}

	// A fourth review is over quota.
	r4 := registerUser(t, srv, "reviewer4")
	resp = doJSON(t, http.MethodPost, srv.URL+"/reviews", r4.ID, map[string]any{
		"submission_id": sub.ID,
		"rating":        5,
		"feedback":      "arrived after completion",
	})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400 over quota, got %d", resp.StatusCode)
	}
	errBody := decode[map[string]string](t, resp)
	if errBody["code"] != "review_quota" {
		t.Errorf("expected review_quota code, got %q", errBody["code"])
	}
}

func TestAPI_ReviewValidation(t *testing.T) {
	srv := newTestServer(t)
	author := registerUser(t, srv, "author")
	reviewer := registerUser(t, srv, "reviewer")
	assignment := createAssignment(t, srv, author.ID, 3)
	sub := createSubmission(t, srv, author.ID, assignment.ID)

	cases := []struct {
		name string
		body map[string]any
	}{
		{"missing submission", map[string]any{"rating": 4, "feedback": "valid feedback here"}},
		{"rating too low", map[string]any{"submission_id": sub.ID, "rating": 0, "feedback": "valid feedback here"}},
		{"rating too high", map[string]any{"submission_id": sub.ID, "rating": 6, "feedback": "valid feedback here"}},
		{"empty feedback", map[string]any{"submission_id": sub.ID, "rating": 4, "feedback": " "}},
	}
	for _, tc := range cases {
		resp := doJSON(t, http.MethodPost, srv.URL+"/reviews", reviewer.ID, tc.body)
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d", tc.name, resp.StatusCode)
		}
		resp.Body.Close()
	}

	// Reviewing a missing submission is a 404.
	resp := doJSON(t, http.MethodPost, srv.URL+"/reviews", reviewer.ID, map[string]any{
		"submission_id": 999, "rating": 4, "feedback": "valid feedback here",
	})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404 for missing submission, got %d", resp.StatusCode)
	}
}

func TestAPI_SubmissionListings(t *testing.T) {
	srv := newTestServer(t)
	author := registerUser(t, srv, "author")
	other := registerUser(t, srv, "other")
	assignment := createAssignment(t, srv, author.ID, 3)
	createSubmission(t, srv, author.ID, assignment.ID)
	createSubmission(t, srv, other.ID, assignment.ID)

	resp := doJSON(t, http.MethodGet, srv.URL+"/submissions/mine", author.ID, nil)
	mine := decode[[]model.Submission](t, resp)
	if len(mine) != 1 {
		t.Errorf("expected 1 own submission, got %d", len(mine))
	}

	resp = doJSON(t, http.MethodGet, srv.URL+"/submissions/assignment/"+fmt.Sprint(assignment.ID), author.ID, nil)
	byAssignment := decode[[]model.Submission](t, resp)
	if len(byAssignment) != 2 {
		t.Errorf("expected 2 submissions for assignment, got %d", len(byAssignment))
	}

	resp = doJSON(t, http.MethodGet, srv.URL+"/submissions/assignment/abc", author.ID, nil)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400 for bad assignment id, got %d", resp.StatusCode)
	}
}

func TestAPI_SyncHandshake(t *testing.T) {
	srv := newTestServer(t)
	alice := registerUser(t, srv, "alice")
	bob := registerUser(t, srv, "bob")
	carol := registerUser(t, srv, "carol")

	// Alice requests a sync with bob.
	resp := doJSON(t, http.MethodPost, srv.URL+"/sync/requests", alice.ID, map[string]any{"to_user_id": bob.ID})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	req := decode[model.SyncRequest](t, resp)
	if req.Status != model.SyncPending {
		t.Errorf("expected pending, got %q", req.Status)
	}

	// It lands in bob's inbox.
	resp = doJSON(t, http.MethodGet, srv.URL+"/sync/requests", bob.ID, nil)
	inbox := decode[[]model.SyncRequest](t, resp)
	if len(inbox) != 1 {
		t.Fatalf("expected 1 pending request, got %d", len(inbox))
	}

	// Carol cannot respond to it; to her it does not exist.
	resp = doJSON(t, http.MethodPost, srv.URL+fmt.Sprintf("/sync/requests/%d/accept", req.ID), carol.ID, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404 for non-addressee, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	// Bob accepts.
	resp = doJSON(t, http.MethodPost, srv.URL+fmt.Sprintf("/sync/requests/%d/accept", req.ID), bob.ID, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 accepting, got %d", resp.StatusCode)
	}
	accepted := decode[model.SyncRequest](t, resp)
	if accepted.Status != model.SyncAccepted {
		t.Errorf("expected accepted, got %q", accepted.Status)
	}

	// Responding again conflicts.
	resp = doJSON(t, http.MethodPost, srv.URL+fmt.Sprintf("/sync/requests/%d/reject", req.ID), bob.ID, nil)
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("expected 409 re-responding, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	// Both sides see each other as peers.
	resp = doJSON(t, http.MethodGet, srv.URL+"/sync/peers", alice.ID, nil)
	alicePeers := decode[[]model.User](t, resp)
	if len(alicePeers) != 1 || alicePeers[0].ID != bob.ID {
		t.Errorf("expected bob as alice's peer, got %+v", alicePeers)
	}
	resp = doJSON(t, http.MethodGet, srv.URL+"/sync/peers", bob.ID, nil)
	bobPeers := decode[[]model.User](t, resp)
	if len(bobPeers) != 1 || bobPeers[0].ID != alice.ID {
		t.Errorf("expected alice as bob's peer, got %+v", bobPeers)
	}

	// Removing the peer severs both sides.
	resp = doJSON(t, http.MethodDelete, srv.URL+fmt.Sprintf("/sync/peers/%d", bob.ID), alice.ID, nil)
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("expected 204 removing peer, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	resp = doJSON(t, http.MethodGet, srv.URL+"/sync/peers", bob.ID, nil)
	bobPeers = decode[[]model.User](t, resp)
	if len(bobPeers) != 0 {
		t.Errorf("expected no peers after removal, got %d", len(bobPeers))
	}
}

func TestAPI_Stats(t *testing.T) {
	srv := newTestServer(t)
	alice := registerUser(t, srv, "alice")

	resp := doJSON(t, http.MethodGet, srv.URL+"/stats", 0, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	stats := decode[map[string]any](t, resp)
	if started, ok := stats["started"].(bool); !ok || !started {
		t.Errorf("expected started=true, got %v", stats["started"])
	}

	// /me/stats needs an identity.
	resp = doJSON(t, http.MethodGet, srv.URL+"/me/stats", 0, nil)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", resp.StatusCode)
	}

	resp = doJSON(t, http.MethodGet, srv.URL+"/me/stats", alice.ID, nil)
	me := decode[types.UserStats](t, resp)
	if me.SkillLevel != 1 {
		t.Errorf("expected level 1, got %d", me.SkillLevel)
	}
}

func TestAPI_Healthz(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/healthz")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200, got %d", resp.StatusCode)
	}
}

func TestAPI_RequestIDHeader(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/stats")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.Header.Get("X-Request-ID") == "" {
		t.Error("expected X-Request-ID to be set")
	}
}
