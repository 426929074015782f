package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ArticleScorer/internal/domain"
	"ArticleScorer/internal/infrastructure/storage"
	"ArticleScorer/internal/usecase"
)

type testServer struct {
	handler http.Handler
	members *storage.MembershipStore
}

func newTestServer(t *testing.T) testServer {
	t.Helper()

	ctx := context.Background()
	db, err := storage.Connect(ctx, "sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, db.Migrate(ctx))

	members := storage.NewMembershipStore(db)
	rubrics := usecase.NewRubricService(usecase.RubricDeps{
		Criteria: storage.NewCriteriaStore(db),
		Members:  members,
	})
	scorer := usecase.NewScorer(usecase.ScorerDeps{Rubrics: rubrics})

	return testServer{
		handler: NewRouter(Deps{Rubrics: rubrics, Scorer: scorer, Health: db.Ping}),
		members: members,
	}
}

func (ts testServer) do(t *testing.T, method, path, user, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if user != "" {
		req.Header.Set(UserHeader, user)
	}
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v), rec.Body.String())
}

func TestHealthAndDefaultRubric(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t)
	assert.Equal(t, http.StatusOK, ts.do(t, http.MethodGet, "/healthz", "", "").Code)

	rec := ts.do(t, http.MethodGet, "/api/rubric/default", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Version  string             `json:"version"`
		Criteria []domain.Criterion `json:"criteria"`
	}
	decodeBody(t, rec, &body)
	assert.Equal(t, "2", body.Version)
	assert.Len(t, body.Criteria, 14)
}

func TestMissingUserIsRejected(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t)
	rec := ts.do(t, http.MethodGet, "/api/rubric", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRubricLifecycle(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t)

	rec := ts.do(t, http.MethodGet, "/api/rubric", "u1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var res usecase.Resolution
	decodeBody(t, rec, &res)
	assert.True(t, res.IsDefault)
	assert.True(t, res.CanManage)

	assert.Equal(t, http.StatusCreated, ts.do(t, http.MethodPost, "/api/rubric/init", "u1", "").Code)
	assert.Equal(t, http.StatusConflict, ts.do(t, http.MethodPost, "/api/rubric/init", "u1", "").Code)

	rec = ts.do(t, http.MethodPost, "/api/rubric/criteria/word_count/toggle", "u1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var toggled domain.Criterion
	decodeBody(t, rec, &toggled)
	assert.False(t, toggled.Enabled)

	assert.Equal(t, http.StatusNotFound, ts.do(t, http.MethodPost, "/api/rubric/criteria/nope/toggle", "u1", "").Code)
	assert.Equal(t, http.StatusNoContent, ts.do(t, http.MethodDelete, "/api/rubric/criteria/h3_count", "u1", "").Code)
	assert.Equal(t, http.StatusNoContent, ts.do(t, http.MethodDelete, "/api/rubric/criteria/h3_count", "u1", "").Code)

	rec = ts.do(t, http.MethodPut, "/api/rubric/criteria", "u1",
		`{"key":"custom","label":"Custom","check_type":"h2_count","min_value":1}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = ts.do(t, http.MethodPut, "/api/rubric/criteria", "u1", `{"key":"x","label":"X","check_type":"bogus"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = ts.do(t, http.MethodPost, "/api/rubric/reset", "u1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var reset struct {
		Criteria []domain.Criterion `json:"criteria"`
	}
	decodeBody(t, rec, &reset)
	assert.Len(t, reset.Criteria, 14)
}

func TestBatchReplaceReportsFailures(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t)
	rec := ts.do(t, http.MethodPut, "/api/rubric/criteria:batch", "u1", `{"criteria":[
		{"key":"a","label":"A","check_type":"h2_count"},
		{"key":"b","label":"B","check_type":"unknown"}
	]}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var body batchResponse
	decodeBody(t, rec, &body)
	require.Len(t, body.Criteria, 1)
	assert.Equal(t, "a", body.Criteria[0].Key)
	require.Len(t, body.Errors, 1)
	assert.Contains(t, body.Errors[0], "(b)")
}

func TestBatchReplaceAllFailed(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t)
	rec := ts.do(t, http.MethodPut, "/api/rubric/criteria:batch", "u1", `{"criteria":[
		{"key":"a","label":"A","check_type":"unknown"},
		{"key":"","label":"B","check_type":"h2_count"}
	]}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var body errorBody
	decodeBody(t, rec, &body)
	assert.Equal(t, "no criteria saved", body.Error)
	require.Len(t, body.Details, 2)
	assert.Contains(t, body.Details[0], "(a)")
}

func TestMemberCannotMutate(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t)
	require.NoError(t, ts.members.SaveMembership(context.Background(), domain.Membership{
		OrganizationID: "org1", UserID: "u2", Role: domain.RoleMember,
	}))

	assert.Equal(t, http.StatusForbidden, ts.do(t, http.MethodPost, "/api/rubric/init", "u2", "").Code)
	assert.Equal(t, http.StatusForbidden, ts.do(t, http.MethodPut, "/api/rubric/criteria:batch", "u2", `{"criteria":[]}`).Code)
}

func TestScoreEndpoint(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t)
	rec := ts.do(t, http.MethodPost, "/api/score", "u1", `{
		"content": "<h1>Go testing</h1><p>Go testing basics.</p>",
		"keyword": "go testing",
		"seo_fields_enabled": false
	}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var out usecase.Outcome
	decodeBody(t, rec, &out)
	assert.False(t, out.Fallback)
	assert.Equal(t, 65, out.Result.MaxPoints)
	assert.NotEmpty(t, out.Result.Details)

	assert.Equal(t, http.StatusBadRequest, ts.do(t, http.MethodPost, "/api/score", "u1", "{").Code)
}

func TestHTTPStatus(t *testing.T) {
	t.Parallel()

	wrapped := fmt.Errorf("x: %w", domain.ErrAlreadyInitialized)
	cases := map[error]int{
		domain.ErrNotAuthorized:    http.StatusForbidden,
		wrapped:                    http.StatusConflict,
		domain.ErrNotFound:         http.StatusNotFound,
		domain.ErrInvalidCriterion: http.StatusBadRequest,
		domain.ErrStoreUnavailable: http.StatusServiceUnavailable,
		errors.New("boom"):         http.StatusInternalServerError,
	}
	for err, want := range cases {
		assert.Equal(t, want, HTTPStatus(err), err.Error())
	}
}
