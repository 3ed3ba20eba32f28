package api_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/blogify-api/internal/api"
	"github.com/blogify-api/internal/config"
	"github.com/blogify-api/internal/mocks"
	"github.com/blogify-api/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

func setupTestRouter() (*gin.Engine, *mocks.MockRepos) {
	gin.SetMode(gin.TestMode)

	repos := mocks.NewMockRepos()
	cfg := &config.Config{
		Server: config.ServerConfig{Port: "8080"},
		Auth: config.AuthConfig{
			JWTSecret:  "test-secret",
			TokenTTL:   time.Hour,
			BcryptCost: bcrypt.MinCost,
		},
		CORS: config.CORSConfig{AllowedOrigin: "http://localhost:5173"},
	}

	log := zerolog.Nop()
	services := service.NewServices(repos.Repositories(), cfg, log)
	router := api.NewRouter(services, cfg, log)

	return router, repos
}

func doJSON(router *gin.Engine, method, url, token string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}

	req := httptest.NewRequest(method, url, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("Failed to decode response %q: %v", w.Body.String(), err)
	}
	return out
}

// signupUser registers a user and returns the issued token
func signupUser(t *testing.T, router *gin.Engine, username string) string {
	t.Helper()
	w := doJSON(router, "POST", "/api/auth/signup", "", map[string]string{
		"email":    username + "@example.com",
		"username": username,
		"password": "password123",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("Signup for %s failed: %d %s", username, w.Code, w.Body.String())
	}
	return decode(t, w)["token"].(string)
}

func createPost(t *testing.T, router *gin.Engine, token, heading, content string) string {
	t.Helper()
	w := doJSON(router, "POST", "/api/posts", token, map[string]string{
		"heading": heading,
		"content": content,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("Create post failed: %d %s", w.Code, w.Body.String())
	}
	return decode(t, w)["id"].(string)
}

func TestHealthEndpoint(t *testing.T) {
	router, _ := setupTestRouter()

	w := doJSON(router, "GET", "/health", "", nil)
	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}

	response := decode(t, w)
	if response["status"] != "healthy" {
		t.Errorf("Expected status 'healthy', got %v", response["status"])
	}
	if response["service"] != "blogify-api" {
		t.Errorf("Expected service name, got %v", response["service"])
	}
}

func TestSignupLoginMe(t *testing.T) {
	router, _ := setupTestRouter()

	w := doJSON(router, "POST", "/api/auth/signup", "", map[string]string{
		"email":    "alice@example.com",
		"username": "alice",
		"password": "password123",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %s", w.Code, w.Body.String())
	}
	signup := decode(t, w)
	if signup["token"] == nil || signup["token"] == "" {
		t.Fatal("Expected token in signup response")
	}
	user := signup["user"].(map[string]interface{})
	if user["username"] != "alice" || user["email"] != "alice@example.com" {
		t.Errorf("Unexpected user in signup response: %v", user)
	}

	w = doJSON(router, "POST", "/api/auth/login", "", map[string]string{
		"email":    "alice@example.com",
		"password": "password123",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	token := decode(t, w)["token"].(string)

	w = doJSON(router, "GET", "/api/auth/me", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	me := decode(t, w)
	if me["username"] != "alice" {
		t.Errorf("Expected username alice, got %v", me["username"])
	}
}

func TestSignupDuplicateEmailConflict(t *testing.T) {
	router, repos := setupTestRouter()
	signupUser(t, router, "alice")

	w := doJSON(router, "POST", "/api/auth/signup", "", map[string]string{
		"email":    "alice@example.com",
		"username": "alice2",
		"password": "password456",
	})
	if w.Code != http.StatusConflict {
		t.Errorf("Expected status 409, got %d", w.Code)
	}
	if decode(t, w)["code"] != "conflict" {
		t.Errorf("Expected conflict code, got %s", w.Body.String())
	}
	if len(repos.Users.Users) != 1 {
		t.Errorf("Conflict must not create a record, have %d users", len(repos.Users.Users))
	}
}

func TestLoginEnumerationResistance(t *testing.T) {
	router, _ := setupTestRouter()
	signupUser(t, router, "alice")

	unknown := doJSON(router, "POST", "/api/auth/login", "", map[string]string{
		"email":    "nobody@example.com",
		"password": "password123",
	})
	wrong := doJSON(router, "POST", "/api/auth/login", "", map[string]string{
		"email":    "alice@example.com",
		"password": "wrong-password",
	})

	if unknown.Code != http.StatusUnauthorized || wrong.Code != http.StatusUnauthorized {
		t.Fatalf("Expected 401 for both, got %d and %d", unknown.Code, wrong.Code)
	}
	if unknown.Body.String() != wrong.Body.String() {
		t.Errorf("Responses must be identical: %q vs %q", unknown.Body.String(), wrong.Body.String())
	}
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	router, _ := setupTestRouter()

	tests := []struct {
		method string
		url    string
		body   interface{}
	}{
		{"GET", "/api/auth/me", nil},
		{"POST", "/api/posts", map[string]string{"heading": "h", "content": "c"}},
		{"GET", "/api/posts/mine", nil},
		{"PUT", "/api/posts/some-id", map[string]string{"heading": "h"}},
		{"DELETE", "/api/posts/some-id", nil},
		{"POST", "/api/posts/some-id/like", nil},
		{"POST", "/api/posts/some-id/comments", map[string]string{"text": "hi"}},
		{"DELETE", "/api/posts/some-id/comments/some-comment", nil},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.url, func(t *testing.T) {
			w := doJSON(router, tt.method, tt.url, "", tt.body)
			if w.Code != http.StatusUnauthorized {
				t.Errorf("Expected 401 without token, got %d", w.Code)
			}
			if decode(t, w)["code"] != "unauthenticated" {
				t.Errorf("Expected unauthenticated code, got %s", w.Body.String())
			}

			w = doJSON(router, tt.method, tt.url, "not-a-token", tt.body)
			if w.Code != http.StatusUnauthorized {
				t.Errorf("Expected 401 with bad token, got %d", w.Code)
			}
		})
	}
}

func TestCreatePostValidation(t *testing.T) {
	router, _ := setupTestRouter()
	token := signupUser(t, router, "alice")

	w := doJSON(router, "POST", "/api/posts", token, map[string]string{
		"heading": "",
		"content": "World",
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", w.Code)
	}
	if decode(t, w)["code"] != "validation_error" {
		t.Errorf("Expected validation_error code, got %s", w.Body.String())
	}
}

// The like scenario from the feed's point of view: alice posts, bob views,
// likes, and unlikes; every response carries the authoritative state.
func TestLikeToggleScenario(t *testing.T) {
	router, _ := setupTestRouter()
	aliceToken := signupUser(t, router, "alice")
	bobToken := signupUser(t, router, "bob")

	postID := createPost(t, router, aliceToken, "Hello", "World")

	// Bob's feed shows the post unliked
	w := doJSON(router, "GET", "/api/posts", bobToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("List failed: %d", w.Code)
	}
	var feed []map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &feed)
	if len(feed) != 1 {
		t.Fatalf("Expected 1 post in feed, got %d", len(feed))
	}
	if feed[0]["likesCount"].(float64) != 0 || feed[0]["liked"].(bool) {
		t.Errorf("Expected likesCount=0 liked=false, got %v / %v", feed[0]["likesCount"], feed[0]["liked"])
	}

	// Bob likes
	w = doJSON(router, "POST", "/api/posts/"+postID+"/like", bobToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Like failed: %d %s", w.Code, w.Body.String())
	}
	liked := decode(t, w)
	if liked["likesCount"].(float64) != 1 || !liked["liked"].(bool) {
		t.Errorf("Expected likesCount=1 liked=true, got %v / %v", liked["likesCount"], liked["liked"])
	}

	// Bob unlikes
	w = doJSON(router, "POST", "/api/posts/"+postID+"/like", bobToken, nil)
	unliked := decode(t, w)
	if unliked["likesCount"].(float64) != 0 || unliked["liked"].(bool) {
		t.Errorf("Expected likesCount=0 liked=false, got %v / %v", unliked["likesCount"], unliked["liked"])
	}

	// Alice still sees the correct count on the public read
	w = doJSON(router, "GET", "/api/posts/"+postID, "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Get failed: %d", w.Code)
	}
	got := decode(t, w)
	if got["likesCount"].(float64) != 0 || got["liked"].(bool) {
		t.Errorf("Anonymous read: expected likesCount=0 liked=false, got %v / %v", got["likesCount"], got["liked"])
	}
}

// The comment scenario: the post author may delete any comment on their
// post, other users only their own.
func TestCommentModerationScenario(t *testing.T) {
	router, _ := setupTestRouter()
	aliceToken := signupUser(t, router, "alice")
	bobToken := signupUser(t, router, "bob")

	postID := createPost(t, router, aliceToken, "Hello", "World")

	w := doJSON(router, "POST", "/api/posts/"+postID+"/comments", aliceToken, map[string]string{"text": "nice post"})
	if w.Code != http.StatusCreated {
		t.Fatalf("Alice comment failed: %d %s", w.Code, w.Body.String())
	}
	aliceCommentID := decode(t, w)["id"].(string)

	w = doJSON(router, "POST", "/api/posts/"+postID+"/comments", bobToken, map[string]string{"text": "agreed"})
	if w.Code != http.StatusCreated {
		t.Fatalf("Bob comment failed: %d %s", w.Code, w.Body.String())
	}
	bobComment := decode(t, w)
	bobCommentID := bobComment["id"].(string)
	if bobComment["user"].(map[string]interface{})["username"] != "bob" {
		t.Errorf("Expected comment author resolved, got %v", bobComment["user"])
	}

	// Public comment listing
	w = doJSON(router, "GET", "/api/posts/"+postID+"/comments", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("List comments failed: %d", w.Code)
	}
	comments := decode(t, w)["comments"].([]interface{})
	if len(comments) != 2 {
		t.Fatalf("Expected 2 comments, got %d", len(comments))
	}

	// Alice deletes bob's comment as post author
	w = doJSON(router, "DELETE", "/api/posts/"+postID+"/comments/"+bobCommentID, aliceToken, nil)
	if w.Code != http.StatusOK {
		t.Errorf("Post author delete: expected 200, got %d %s", w.Code, w.Body.String())
	}

	// Bob may not delete alice's comment
	w = doJSON(router, "DELETE", "/api/posts/"+postID+"/comments/"+aliceCommentID, bobToken, nil)
	if w.Code != http.StatusForbidden {
		t.Errorf("Third party delete: expected 403, got %d", w.Code)
	}
	if decode(t, w)["code"] != "forbidden" {
		t.Errorf("Expected forbidden code, got %s", w.Body.String())
	}
}

func TestUpdateAndDeleteOwnership(t *testing.T) {
	router, _ := setupTestRouter()
	aliceToken := signupUser(t, router, "alice")
	bobToken := signupUser(t, router, "bob")

	postID := createPost(t, router, aliceToken, "Hello", "World")

	w := doJSON(router, "PUT", "/api/posts/"+postID, bobToken, map[string]string{"heading": "Hacked"})
	if w.Code != http.StatusForbidden {
		t.Errorf("Non-author edit: expected 403, got %d", w.Code)
	}

	w = doJSON(router, "PUT", "/api/posts/"+postID, aliceToken, map[string]string{"heading": "Updated"})
	if w.Code != http.StatusOK {
		t.Fatalf("Author edit failed: %d %s", w.Code, w.Body.String())
	}
	updated := decode(t, w)
	if updated["heading"] != "Updated" || updated["content"] != "World" {
		t.Errorf("Partial update wrong: %v", updated)
	}

	w = doJSON(router, "DELETE", "/api/posts/"+postID, bobToken, nil)
	if w.Code != http.StatusForbidden {
		t.Errorf("Non-author delete: expected 403, got %d", w.Code)
	}

	w = doJSON(router, "DELETE", "/api/posts/"+postID, aliceToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Author delete failed: %d", w.Code)
	}

	w = doJSON(router, "GET", "/api/posts/"+postID, "", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected 404 after delete, got %d", w.Code)
	}
	if decode(t, w)["code"] != "not_found" {
		t.Errorf("Expected not_found code, got %s", w.Body.String())
	}
}

func TestMinePostsOnly(t *testing.T) {
	router, _ := setupTestRouter()
	aliceToken := signupUser(t, router, "alice")
	bobToken := signupUser(t, router, "bob")

	createPost(t, router, aliceToken, "Mine", "post")
	createPost(t, router, bobToken, "Theirs", "post")

	w := doJSON(router, "GET", "/api/posts/mine", aliceToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Mine failed: %d", w.Code)
	}
	var posts []map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &posts)
	if len(posts) != 1 || posts[0]["heading"] != "Mine" {
		t.Errorf("Expected only alice's post, got %v", posts)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	router, _ := setupTestRouter()
	aliceToken := signupUser(t, router, "alice")
	postID := createPost(t, router, aliceToken, "Hello", "World")
	doJSON(router, "POST", "/api/posts/"+postID+"/like", aliceToken, nil)
	doJSON(router, "POST", "/api/posts/"+postID+"/comments", aliceToken, map[string]string{"text": "hi"})

	w := doJSON(router, "GET", "/metrics", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Metrics failed: %d", w.Code)
	}

	db := decode(t, w)["database"].(map[string]interface{})
	if db["users"].(float64) != 1 || db["posts"].(float64) != 1 ||
		db["comments"].(float64) != 1 || db["likes"].(float64) != 1 {
		t.Errorf("Unexpected counts: %v", db)
	}
}

func TestCORSHeaders(t *testing.T) {
	router, _ := setupTestRouter()

	req := httptest.NewRequest("OPTIONS", "/api/posts", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Errorf("Expected status 204 for OPTIONS, got %d", w.Code)
	}
	if origin := w.Header().Get("Access-Control-Allow-Origin"); origin != "http://localhost:5173" {
		t.Errorf("Expected configured origin, got %q", origin)
	}
	if w.Header().Get("Access-Control-Allow-Headers") == "" {
		t.Error("Expected Access-Control-Allow-Headers header")
	}
}
