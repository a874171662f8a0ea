package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"exam-battle-service/internal/app"
	"exam-battle-service/internal/domain"
	"exam-battle-service/internal/infra/memory"
	"github.com/gin-gonic/gin"
)

func TestBattleFlowOverHTTP(t *testing.T) {
	server := newTestServer()
	defer server.Close()

	// create
	created := postJSON(t, server, "/battles/create", map[string]any{
		"userId":   "H",
		"userName": "Host",
		"college":  "MIT",
		"config": map[string]any{
			"subject":         "Physics",
			"mode":            "1v1",
			"questionCount":   2,
			"timePerQuestion": 15,
		},
	}, http.StatusOK)
	roomID, _ := created["roomId"].(string)
	if roomID == "" {
		t.Fatalf("expected roomId in create response, got %v", created)
	}

	// join
	postJSON(t, server, "/battles/join", map[string]any{
		"roomId": roomID, "userId": "P", "userName": "Player",
	}, http.StatusOK)

	// capacity: third player rejected
	resp := postJSON(t, server, "/battles/join", map[string]any{
		"roomId": roomID, "userId": "X", "userName": "Extra",
	}, http.StatusBadRequest)
	if msg, ok := resp["error"].(string); !ok || msg == "" {
		t.Fatalf("expected error payload on full room, got %v", resp)
	}

	// non-host start forbidden
	postJSON(t, server, "/battles/start", map[string]any{"roomId": roomID, "userId": "P"}, http.StatusForbidden)
	postJSON(t, server, "/battles/start", map[string]any{"roomId": roomID, "userId": "H"}, http.StatusOK)

	// poll: room is ACTIVE at question 0
	state := getJSON(t, server, "/battles/"+roomID, http.StatusOK)
	if state["status"] != string(domain.StatusActive) {
		t.Fatalf("expected ACTIVE, got %v", state["status"])
	}

	// answer question 0 correctly (bank questions key the correct option at 1)
	answered := postJSON(t, server, "/battles/"+roomID+"/answer", map[string]any{
		"userId": "H", "questionIndex": 0, "selectedOption": 1, "timeTaken": 4.2,
	}, http.StatusOK)
	if answered["correct"] != true || answered["score"] != float64(10) {
		t.Fatalf("unexpected answer response: %v", answered)
	}

	// duplicate answer rejected
	postJSON(t, server, "/battles/"+roomID+"/answer", map[string]any{
		"userId": "H", "questionIndex": 0, "selectedOption": 1, "timeTaken": 4.2,
	}, http.StatusBadRequest)

	// advance past the last question finishes the room
	postJSON(t, server, "/battles/"+roomID+"/next-question", map[string]any{"nextIndex": 1}, http.StatusOK)
	postJSON(t, server, "/battles/"+roomID+"/next-question", map[string]any{"nextIndex": 2}, http.StatusOK)

	state = getJSON(t, server, "/battles/"+roomID, http.StatusOK)
	if state["status"] != string(domain.StatusFinished) {
		t.Fatalf("expected FINISHED, got %v", state["status"])
	}

	// answers after finish are rejected, not ignored
	postJSON(t, server, "/battles/"+roomID+"/answer", map[string]any{
		"userId": "P", "questionIndex": 1, "selectedOption": 1, "timeTaken": 1,
	}, http.StatusBadRequest)

	standings := getJSON(t, server, "/battles/"+roomID+"/standings", http.StatusOK)
	rows, _ := standings["standings"].([]any)
	if len(rows) != 2 {
		t.Fatalf("expected 2 standings rows, got %v", standings)
	}
	top, _ := rows[0].(map[string]any)
	if top["uid"] != "H" || top["score"] != float64(10) {
		t.Fatalf("expected host on top with 10, got %v", top)
	}
}

func TestUnknownRoomIs404(t *testing.T) {
	server := newTestServer()
	defer server.Close()

	getJSON(t, server, "/battles/000000", http.StatusNotFound)
	postJSON(t, server, "/battles/join", map[string]any{
		"roomId": "000000", "userId": "u1", "userName": "Nobody",
	}, http.StatusNotFound)
}

func TestMalformedRequestsAre400(t *testing.T) {
	server := newTestServer()
	defer server.Close()

	// missing required fields
	postJSON(t, server, "/battles/create", map[string]any{"userId": "H"}, http.StatusBadRequest)
	// unknown mode
	postJSON(t, server, "/battles/create", map[string]any{
		"userId":   "H",
		"userName": "Host",
		"config": map[string]any{
			"subject":         "Physics",
			"mode":            "3v3",
			"questionCount":   2,
			"timePerQuestion": 15,
		},
	}, http.StatusBadRequest)
}

func newTestServer() *httptest.Server {
	gin.SetMode(gin.TestMode)

	questions := make([]domain.Question, 6)
	for i := range questions {
		questions[i] = domain.Question{
			Question:           fmt.Sprintf("Physics question %d", i+1),
			Options:            []string{"A", "B", "C", "D"},
			CorrectAnswerIndex: 1,
			Subject:            "Physics",
		}
	}

	service := app.NewBattleService(
		memory.NewRoomRegistry(),
		app.NewQuestionSource(memory.NewQuestionBank(questions)),
	)

	engine := gin.New()
	NewHandler(service).Register(engine)
	return httptest.NewServer(engine)
}

func postJSON(t *testing.T, server *httptest.Server, path string, body map[string]any, wantStatus int) map[string]any {
	t.Helper()
	raw, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	resp, err := http.Post(server.URL+path, "application/json", bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("POST %s: %v", path, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != wantStatus {
		t.Fatalf("POST %s: expected status %d, got %d", path, wantStatus, resp.StatusCode)
	}
	return decodeBody(t, resp)
}

func getJSON(t *testing.T, server *httptest.Server, path string, wantStatus int) map[string]any {
	t.Helper()
	resp, err := http.Get(server.URL + path)
	if err != nil {
		t.Fatalf("GET %s: %v", path, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != wantStatus {
		t.Fatalf("GET %s: expected status %d, got %d", path, wantStatus, resp.StatusCode)
	}
	return decodeBody(t, resp)
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return out
}
