package controllers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/topicreg/internal/app/controllers"
	"github.com/yigit/topicreg/internal/app/models"
	"github.com/yigit/topicreg/internal/app/repositories/repotest"
	"github.com/yigit/topicreg/internal/app/routes"
	"github.com/yigit/topicreg/internal/app/services"
	"github.com/yigit/topicreg/internal/middleware"
	"github.com/yigit/topicreg/internal/pkg/auth"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type readyFlag bool

func (r readyFlag) IsReady() bool { return bool(r) }

func (r readyFlag) Ping(context.Context) error {
	if !r {
		return errBoom
	}
	return nil
}

type testAPI struct {
	t       *testing.T
	router  *gin.Engine
	repos   *repotest.Repositories
	student string
	admin   string
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()

	repos := repotest.NewRepositories()
	jwt := auth.NewJWTService(auth.JWTConfig{SecretKey: "test", AccessTokenExp: time.Hour})
	svc := services.NewServices(repos.Repositories(), jwt, zerolog.Nop())

	headers := controllers.IdentityHeaders{
		UID:           "uid",
		FirstNames:    "givenname",
		LastName:      "sn",
		Email:         "mail",
		StudentNumber: "schacpersonaluniquecode",
	}
	c := routes.Controllers{
		Auth:          controllers.NewAuthController(svc.Auth, headers, zerolog.Nop()),
		Groups:        controllers.NewGroupController(svc.Groups, svc.Memberships),
		QuestionSets:  controllers.NewQuestionSetController(svc.ReviewQuestionSets, svc.RegistrationQuestionSets),
		Topics:        controllers.NewTopicController(svc.Topics, svc.TopicDates, zerolog.Nop()),
		Registrations: controllers.NewRegistrationController(svc.Registrations, svc.Configurations, svc.InstructorReviews, zerolog.Nop()),
		Users:         controllers.NewUserController(svc.Users, zerolog.Nop()),
		Health:        controllers.NewHealthController(readyFlag(true)),
	}

	router := gin.New()
	routes.SetupRouter(router, c, middleware.NewAuthMiddleware(jwt), func(ctx *gin.Context) { ctx.Next() })

	student, err := jwt.GenerateToken(&models.User{StudentNumber: "014000001", Username: "student"})
	if err != nil {
		t.Fatal(err)
	}
	admin, err := jwt.GenerateToken(&models.User{StudentNumber: "014000002", Username: "admin", Admin: true})
	if err != nil {
		t.Fatal(err)
	}

	return &testAPI{t: t, router: router, repos: repos, student: student, admin: admin}
}

func (a *testAPI) do(method, path, token, body string) *httptest.ResponseRecorder {
	a.t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), v); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
}

func expectError(t *testing.T, w *httptest.ResponseRecorder, status int, message string) {
	t.Helper()
	if w.Code != status {
		t.Fatalf("status = %d, want %d (body %s)", w.Code, status, w.Body.String())
	}
	var body struct {
		Error string `json:"error"`
	}
	decode(t, w, &body)
	if body.Error != message {
		t.Errorf("error = %q, want %q", body.Error, message)
	}
}

func TestCreateGroup(t *testing.T) {
	api := newTestAPI(t)

	w := api.do(http.MethodPost, "/api/groups", api.student, `{"group_name":"Alpha"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	var created map[string]map[string]any
	decode(t, w, &created)
	group := created["group"]
	if group["id"] != float64(1) || group["group_name"] != "Alpha" {
		t.Errorf("group = %v", group)
	}
	for _, key := range []string{"createdAt", "updatedAt"} {
		if _, ok := group[key]; !ok {
			t.Errorf("group has no %s: %v", key, group)
		}
	}

	w = api.do(http.MethodPost, "/api/groups", api.student, `{"group_name":"Alpha"}`)
	expectError(t, w, http.StatusBadRequest, "a group with that name already exists")
	if n := len(api.repos.Groups.Rows()); n != 1 {
		t.Errorf("stored %d groups, want 1", n)
	}

	writes := api.repos.Groups.Writes
	w = api.do(http.MethodPost, "/api/groups", api.student, `{}`)
	expectError(t, w, http.StatusBadRequest, "group name undefined")
	if api.repos.Groups.Writes != writes {
		t.Error("invalid request wrote to the store")
	}

	w = api.do(http.MethodPost, "/api/groups", "", `{"group_name":"Beta"}`)
	expectError(t, w, http.StatusUnauthorized, "token missing or invalid")
}

func TestGroupStoreFailure(t *testing.T) {
	api := newTestAPI(t)
	api.repos.Groups.Err = errBoom

	w := api.do(http.MethodPost, "/api/groups", api.student, `{"group_name":"Alpha"}`)
	expectError(t, w, http.StatusInternalServerError, "database error")
}

type boom struct{}

func (boom) Error() string { return "connection reset by peer" }

var errBoom = boom{}

func TestReviewQuestionSetLifecycle(t *testing.T) {
	api := newTestAPI(t)

	w := api.do(http.MethodPost, "/api/reviewQuestionSets", api.admin, `{"name":"Midterm","questions":["Q1"]}`)
	if w.Code != http.StatusOK {
		t.Fatalf("create status = %d, body %s", w.Code, w.Body.String())
	}
	var created struct {
		QuestionSet struct {
			ID        int64    `json:"id"`
			Name      string   `json:"name"`
			Questions []string `json:"questions"`
		} `json:"questionSet"`
	}
	decode(t, w, &created)
	if created.QuestionSet.Name != "Midterm" || len(created.QuestionSet.Questions) != 1 {
		t.Fatalf("created = %+v", created)
	}

	w = api.do(http.MethodPost, "/api/reviewQuestionSets", api.admin, `{"name":"Midterm","questions":[]}`)
	expectError(t, w, http.StatusBadRequest, "name already in use")

	w = api.do(http.MethodPut, "/api/reviewQuestionSets/1", api.admin, `{"name":"Final","questions":["Q1","Q2"]}`)
	if w.Code != http.StatusOK {
		t.Fatalf("update status = %d, body %s", w.Code, w.Body.String())
	}

	w = api.do(http.MethodGet, "/api/reviewQuestionSets/1", "", "")
	var fetched struct {
		Name      string   `json:"name"`
		Questions []string `json:"questions"`
	}
	decode(t, w, &fetched)
	if fetched.Name != "Final" || len(fetched.Questions) != 2 {
		t.Errorf("fetched = %+v", fetched)
	}

	w = api.do(http.MethodGet, "/api/reviewQuestionSets", api.admin, "")
	var listed struct {
		QuestionSets []json.RawMessage `json:"questionSets"`
	}
	decode(t, w, &listed)
	if len(listed.QuestionSets) != 1 {
		t.Errorf("listed %d sets, want 1", len(listed.QuestionSets))
	}

	w = api.do(http.MethodDelete, "/api/reviewQuestionSets/1", api.admin, "")
	if w.Code != http.StatusNoContent {
		t.Fatalf("first delete status = %d", w.Code)
	}
	writes := api.repos.ReviewQuestionSets.Writes
	w = api.do(http.MethodDelete, "/api/reviewQuestionSets/1", api.admin, "")
	if w.Code != http.StatusNoContent {
		t.Fatalf("second delete status = %d", w.Code)
	}
	if api.repos.ReviewQuestionSets.Writes != writes {
		t.Error("second delete wrote to the store")
	}
}

func TestUpdateReviewQuestionSetErrors(t *testing.T) {
	api := newTestAPI(t)
	api.do(http.MethodPost, "/api/reviewQuestionSets", api.admin, `{"name":"Midterm"}`)
	api.do(http.MethodPost, "/api/reviewQuestionSets", api.admin, `{"name":"Final"}`)

	tests := []struct {
		name    string
		path    string
		body    string
		message string
	}{
		{"invalid id", "/api/reviewQuestionSets/abc", `{"name":"X"}`, "invalid id"},
		{"missing name", "/api/reviewQuestionSets/1", `{"questions":[]}`, "name undefined"},
		{"taken name", "/api/reviewQuestionSets/1", `{"name":"Final"}`, "name already in use"},
		{"unknown id", "/api/reviewQuestionSets/99", `{"name":"Other"}`, "no review question set with that id"},
		{"unknown id with invalid body", "/api/reviewQuestionSets/99", `{}`, "name undefined"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := api.do(http.MethodPut, tt.path, api.admin, tt.body)
			expectError(t, w, http.StatusBadRequest, tt.message)
		})
	}

	w := api.do(http.MethodPut, "/api/reviewQuestionSets/1", api.admin, `{"name":"Midterm"}`)
	if w.Code != http.StatusOK {
		t.Errorf("keeping own name: status = %d, body %s", w.Code, w.Body.String())
	}
}

func TestReviewQuestionSetAccess(t *testing.T) {
	api := newTestAPI(t)

	w := api.do(http.MethodPost, "/api/reviewQuestionSets", api.student, `{"name":"Midterm"}`)
	expectError(t, w, http.StatusForbidden, "admin privileges required")

	w = api.do(http.MethodGet, "/api/reviewQuestionSets/7", "", "")
	if w.Code != http.StatusOK || strings.TrimSpace(w.Body.String()) != "null" {
		t.Errorf("missing set: status = %d, body %q", w.Code, w.Body.String())
	}

	w = api.do(http.MethodDelete, "/api/reviewQuestionSets/x", api.admin, "")
	expectError(t, w, http.StatusBadRequest, "invalid id")
}

func TestTopicDates(t *testing.T) {
	api := newTestAPI(t)

	w := api.do(http.MethodGet, "/api/topicDates", "", "")
	if w.Code != http.StatusOK || strings.TrimSpace(w.Body.String()) != `{"topicDate":[]}` {
		t.Fatalf("empty: status = %d, body %s", w.Code, w.Body.String())
	}

	for _, body := range []string{`{}`, `{"dates":null}`, `{"dates":""}`, `{"dates":false}`, `{"dates":0}`} {
		w = api.do(http.MethodPost, "/api/topicDates", api.admin, body)
		expectError(t, w, http.StatusBadRequest, "dates undefined")
	}
	if n := len(api.repos.TopicDates.Rows()); n != 0 {
		t.Fatalf("stored %d topic dates from empty bodies", n)
	}

	w = api.do(http.MethodPost, "/api/topicDates", api.student, `{"dates":{"open":true}}`)
	expectError(t, w, http.StatusForbidden, "admin privileges required")

	for _, body := range []string{`{"dates":{"round":1}}`, `{"dates":{"round":2}}`} {
		w = api.do(http.MethodPost, "/api/topicDates", api.admin, body)
		if w.Code != http.StatusOK {
			t.Fatalf("create status = %d, body %s", w.Code, w.Body.String())
		}
	}

	w = api.do(http.MethodGet, "/api/topicDates", "", "")
	var latest struct {
		TopicDate []struct {
			Dates struct {
				Round int `json:"round"`
			} `json:"dates"`
		} `json:"topicDate"`
	}
	decode(t, w, &latest)
	if len(latest.TopicDate) != 1 || latest.TopicDate[0].Dates.Round != 2 {
		t.Errorf("latest = %+v, want only round 2", latest)
	}
}

func TestMembershipsCascadeScope(t *testing.T) {
	api := newTestAPI(t)
	api.do(http.MethodPost, "/api/groups", api.student, `{"group_name":"Alpha"}`)

	w := api.do(http.MethodPost, "/api/memberships", api.admin, `{"group_id":1,"student_number":"014000001","role":"student"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("create membership status = %d, body %s", w.Code, w.Body.String())
	}

	w = api.do(http.MethodPost, "/api/memberships", api.admin, `{"group_id":1,"role":"student"}`)
	expectError(t, w, http.StatusBadRequest, "student_number undefined")

	w = api.do(http.MethodGet, "/api/memberships/group/1", api.student, "")
	var byGroup struct {
		Memberships []models.Membership `json:"memberships"`
	}
	decode(t, w, &byGroup)
	if len(byGroup.Memberships) != 1 || *byGroup.Memberships[0].StudentNumber != "014000001" {
		t.Errorf("memberships = %+v", byGroup.Memberships)
	}

	w = api.do(http.MethodGet, "/api/memberships/group/2", api.student, "")
	decode(t, w, &byGroup)
	if len(byGroup.Memberships) != 0 {
		t.Errorf("group 2 has %d memberships", len(byGroup.Memberships))
	}
}

func TestTopicRoutes(t *testing.T) {
	api := newTestAPI(t)

	w := api.do(http.MethodPost, "/api/topics", "", `{"content":{"title":"Compilers"},"acronym":"CMP"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("create status = %d, body %s", w.Code, w.Body.String())
	}
	var topic struct {
		ID         int64  `json:"topic_id"`
		Active     bool   `json:"active"`
		SecretLink string `json:"secret_link"`
	}
	decode(t, w, &topic)
	if topic.SecretLink == "" || topic.Active {
		t.Fatalf("topic = %+v", topic)
	}

	w = api.do(http.MethodGet, "/api/topics/active", "", "")
	if strings.TrimSpace(w.Body.String()) != "[]" {
		t.Errorf("active before approval = %s", w.Body.String())
	}

	w = api.do(http.MethodPut, "/api/topics/1", api.admin, `{"active":true}`)
	if w.Code != http.StatusOK {
		t.Fatalf("activate status = %d, body %s", w.Code, w.Body.String())
	}

	w = api.do(http.MethodPut, "/api/topics/secret/"+topic.SecretLink, "", `{"content":{"title":"Compilers II"}}`)
	if w.Code != http.StatusOK {
		t.Fatalf("secret update status = %d, body %s", w.Code, w.Body.String())
	}
	var updated struct {
		Active  bool `json:"active"`
		Content struct {
			Title string `json:"title"`
		} `json:"content"`
	}
	decode(t, w, &updated)
	if !updated.Active || updated.Content.Title != "Compilers II" {
		t.Errorf("updated = %+v", updated)
	}

	w = api.do(http.MethodGet, "/api/topics/42", "", "")
	expectError(t, w, http.StatusNotFound, "topic not found")

	w = api.do(http.MethodGet, "/api/topics/secret/nope", "", "")
	expectError(t, w, http.StatusNotFound, "topic not found")
}

func TestLoginAndTokenCheck(t *testing.T) {
	api := newTestAPI(t)

	req := httptest.NewRequest(http.MethodPost, "/api/login", nil)
	req.Header.Set("uid", "jdoe")
	req.Header.Set("givenname", "Jane")
	req.Header.Set("sn", "Doe")
	req.Header.Set("mail", "jane@example.com")
	req.Header.Set("schacpersonaluniquecode", "urn:schac:personalUniqueCode:int:studentID:helsinki.fi:014000009")
	w := httptest.NewRecorder()
	api.router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("login status = %d, body %s", w.Code, w.Body.String())
	}

	var login struct {
		Token string      `json:"token"`
		User  models.User `json:"user"`
	}
	decode(t, w, &login)
	if login.Token == "" || login.User.StudentNumber != "014000009" || login.User.FirstNames != "Jane" {
		t.Fatalf("login = %+v", login)
	}

	w = api.do(http.MethodGet, "/api/tokenCheck/login", login.Token, "")
	var check struct {
		User auth.Claims `json:"user"`
	}
	decode(t, w, &check)
	if w.Code != http.StatusOK || check.User.StudentNumber != "014000009" {
		t.Errorf("tokenCheck = %d %s", w.Code, w.Body.String())
	}

	w = api.do(http.MethodGet, "/api/tokenCheck/admin", login.Token, "")
	expectError(t, w, http.StatusForbidden, "admin privileges required")

	w = api.do(http.MethodPost, "/api/login", "", "")
	if w.Code != http.StatusUnauthorized {
		t.Errorf("login without uid: status = %d", w.Code)
	}
}

func TestRegistrationUsesCaller(t *testing.T) {
	api := newTestAPI(t)

	w := api.do(http.MethodGet, "/api/registrations/current", api.student, "")
	if strings.TrimSpace(w.Body.String()) != `{"registration":null}` {
		t.Fatalf("current before registering = %s", w.Body.String())
	}

	w = api.do(http.MethodPost, "/api/registrations", api.student, `{"questions":{}}`)
	expectError(t, w, http.StatusBadRequest, "preferred topics undefined")

	w = api.do(http.MethodPost, "/api/registrations", api.student, `{"preferred_topics":[3,1,2]}`)
	if w.Code != http.StatusOK {
		t.Fatalf("register status = %d, body %s", w.Code, w.Body.String())
	}

	w = api.do(http.MethodGet, "/api/registrations/current", api.student, "")
	var current struct {
		Registration models.Registration `json:"registration"`
	}
	decode(t, w, &current)
	if current.Registration.StudentNumber == nil || *current.Registration.StudentNumber != "014000001" {
		t.Errorf("current = %+v", current.Registration)
	}
}

func TestHealth(t *testing.T) {
	for _, ready := range []bool{true, false} {
		c := controllers.NewHealthController(readyFlag(ready))
		r := gin.New()
		r.GET("/health", c.Health)

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

		want := http.StatusOK
		if !ready {
			want = http.StatusServiceUnavailable
		}
		if w.Code != want {
			t.Errorf("ready=%v: status = %d, want %d", ready, w.Code, want)
		}
	}
}

func TestConfigurations(t *testing.T) {
	api := newTestAPI(t)

	w := api.do(http.MethodGet, "/api/configurations/active", "", "")
	if strings.TrimSpace(w.Body.String()) != `{"configuration":null}` {
		t.Fatalf("active with none = %s", w.Body.String())
	}

	w = api.do(http.MethodPost, "/api/configurations", api.admin, `{"active":true}`)
	expectError(t, w, http.StatusBadRequest, "name undefined")

	w = api.do(http.MethodPost, "/api/configurations", api.admin, `{"name":"Spring","active":false}`)
	if w.Code != http.StatusOK {
		t.Fatalf("create status = %d, body %s", w.Code, w.Body.String())
	}

	w = api.do(http.MethodPut, "/api/configurations/1", api.admin, `{"name":"Spring","active":true}`)
	if w.Code != http.StatusOK {
		t.Fatalf("update status = %d, body %s", w.Code, w.Body.String())
	}

	w = api.do(http.MethodGet, "/api/configurations/active", "", "")
	var active struct {
		Configuration models.Configuration `json:"configuration"`
	}
	decode(t, w, &active)
	if active.Configuration.ID != 1 || !active.Configuration.Active {
		t.Errorf("active = %+v", active.Configuration)
	}

	w = api.do(http.MethodPut, "/api/configurations/5", api.admin, `{"name":"Fall"}`)
	expectError(t, w, http.StatusBadRequest, "no configuration with that id")
}

func TestInstructorReviews(t *testing.T) {
	api := newTestAPI(t)

	w := api.do(http.MethodPost, "/api/instructorReviews", api.admin, `{"answer_sheet":null}`)
	expectError(t, w, http.StatusBadRequest, "answer sheet undefined")

	w = api.do(http.MethodPost, "/api/instructorReviews", api.admin, `{"answer_sheet":{"q1":"yes"}}`)
	if w.Code != http.StatusOK {
		t.Fatalf("create status = %d, body %s", w.Code, w.Body.String())
	}

	w = api.do(http.MethodGet, "/api/instructorReviews", api.student, "")
	expectError(t, w, http.StatusForbidden, "admin privileges required")

	w = api.do(http.MethodGet, "/api/instructorReviews", api.admin, "")
	var listed struct {
		InstructorReviews []json.RawMessage `json:"instructorReviews"`
	}
	decode(t, w, &listed)
	if len(listed.InstructorReviews) != 1 {
		t.Errorf("listed %d reviews, want 1", len(listed.InstructorReviews))
	}
}

func TestSetAdmin(t *testing.T) {
	api := newTestAPI(t)

	w := api.do(http.MethodPut, "/api/users/014000001", api.admin, `{"admin":true}`)
	expectError(t, w, http.StatusNotFound, "user not found")

	req := httptest.NewRequest(http.MethodPost, "/api/login", nil)
	req.Header.Set("uid", "student")
	req.Header.Set("schacpersonaluniquecode", "urn:schac:personalUniqueCode:int:studentID:helsinki.fi:014000001")
	api.router.ServeHTTP(httptest.NewRecorder(), req)

	w = api.do(http.MethodPut, "/api/users/014000001", api.admin, `{}`)
	expectError(t, w, http.StatusBadRequest, "admin undefined")

	w = api.do(http.MethodPut, "/api/users/014000001", api.admin, `{"admin":true}`)
	var user models.User
	decode(t, w, &user)
	if w.Code != http.StatusOK || !user.Admin {
		t.Fatalf("set admin = %d %s", w.Code, w.Body.String())
	}

	w = api.do(http.MethodGet, "/api/users", api.admin, "")
	var users []models.User
	decode(t, w, &users)
	if len(users) != 1 || !users[0].Admin {
		t.Errorf("users = %+v", users)
	}
}
