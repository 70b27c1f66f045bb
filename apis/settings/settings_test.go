package settings

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"
	"github.com/supakorn-kn/go-sketchpatch/cache/cachetest"
	"github.com/supakorn-kn/go-sketchpatch/env"
	"github.com/supakorn-kn/go-sketchpatch/errors"
	"github.com/supakorn-kn/go-sketchpatch/identity"
	"github.com/supakorn-kn/go-sketchpatch/models/settings"
)

type memoryStore struct {
	saved *env.BlogSettings
}

func (m *memoryStore) Load(context.Context) (env.BlogSettings, bool, error) {

	if m.saved == nil {
		return env.DefaultBlogSettings(), false, nil
	}

	return *m.saved, true, nil
}

func (m *memoryStore) Save(_ context.Context, s env.BlogSettings) error {
	m.saved = &s
	return nil
}

type SettingsAPISuite struct {
	suite.Suite
	store *memoryStore
	g     *gin.Engine
}

func (s *SettingsAPISuite) SetupTest() {

	gin.SetMode(gin.TestMode)

	s.store = &memoryStore{}
	service := settings.NewSettingsService(s.store, cachetest.NewMemory(), time.Hour)

	g := gin.New()
	g.Use(identity.Middleware(identity.HeaderProvider{}))
	NewSettingsAPI(service).Register(g.Group("api"))

	s.g = g
}

func (s *SettingsAPISuite) request(method string, admin bool, body any) (*httptest.ResponseRecorder, map[string]any) {

	reader := bytes.NewBuffer(nil)
	if body != nil {
		b, err := json.Marshal(body)
		s.Require().NoError(err)
		reader = bytes.NewBuffer(b)
	}

	recorder := httptest.NewRecorder()
	req, _ := http.NewRequest(method, "/api/settings", reader)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(identity.HeaderUserID, "7")
	if admin {
		req.Header.Set(identity.HeaderAdmin, "true")
	}

	s.g.ServeHTTP(recorder, req)

	var resp map[string]any
	s.Require().NoError(json.Unmarshal(recorder.Body.Bytes(), &resp))

	return recorder, resp
}

func (s *SettingsAPISuite) TestGet() {

	recorder, resp := s.request(http.MethodGet, false, nil)
	s.Require().Equal(http.StatusOK, recorder.Code)
	s.Equal(env.DefaultBlogSettings().Title, resp["result"].(map[string]any)["title"])
}

func (s *SettingsAPISuite) TestApply() {

	s.Run("Should refuse non admin users", func() {

		recorder, _ := s.request(http.MethodPut, false, map[string]string{"title": "Hacked"})
		s.Require().Equal(http.StatusForbidden, recorder.Code)
		s.Nil(s.store.saved)
	})

	s.Run("Should save valid options and serve them afterwards", func() {

		recorder, _ := s.request(http.MethodPut, true, map[string]string{"title": "Patches", "posts_per_page": "4"})
		s.Require().Equal(http.StatusOK, recorder.Code)

		recorder, resp := s.request(http.MethodGet, false, nil)
		s.Require().Equal(http.StatusOK, recorder.Code)

		result := resp["result"].(map[string]any)
		s.Equal("Patches", result["title"])
		s.EqualValues(4, result["posts_per_page"])
	})

	s.Run("Should reject unknown and invalid options without saving", func() {

		recorder, resp := s.request(http.MethodPut, true, map[string]string{"title": "Other", "colour": "red"})
		s.Require().Equal(http.StatusBadRequest, recorder.Code)
		s.EqualValues(errors.UnknownOptionErrorCode, resp["error"].(map[string]any)["code"])

		recorder, resp = s.request(http.MethodPut, true, map[string]string{"posts_per_page": "zero"})
		s.Require().Equal(http.StatusBadRequest, recorder.Code)
		s.EqualValues(errors.InvalidOptionErrorCode, resp["error"].(map[string]any)["code"])

		s.Equal("Patches", s.store.saved.Title)
	})
}

func TestSettingsAPI(t *testing.T) {
	suite.Run(t, new(SettingsAPISuite))
}
