package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/sunsetmemories/backend/internal/handler"
	"github.com/sunsetmemories/backend/internal/migration"
	"github.com/sunsetmemories/backend/internal/repository"
	"github.com/sunsetmemories/backend/internal/routes"
	"github.com/sunsetmemories/backend/internal/service"
	"github.com/sunsetmemories/backend/internal/sms"
	"github.com/sunsetmemories/backend/pkg/jwt"
	"github.com/sunsetmemories/backend/pkg/logger"
	"github.com/sunsetmemories/backend/pkg/storage"
)

// APISuite exercises the HTTP surface end to end against SQLite
type APISuite struct {
	suite.Suite
	db     *gorm.DB
	router *gin.Engine
}

func TestAPISuite(t *testing.T) {
	suite.Run(t, new(APISuite))
}

func (s *APISuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	logger.InitStructured("test")

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
	})
	s.Require().NoError(err)
	s.Require().NoError(migration.Run(db))
	s.db = db

	jwtManager := jwt.NewManager("test-secret-key", 900, 86400)

	store, err := storage.NewLocalStore(s.T().TempDir(), "http://localhost:8080/uploads")
	s.Require().NoError(err)

	userRepo := repository.NewUserRepository(db)
	memoirRepo := repository.NewMemoirRepository(db)
	chapterRepo := repository.NewChapterRepository(db)
	collabRepo := repository.NewCollaborationRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	likeRepo := repository.NewLikeRepository(db)
	requestRepo := repository.NewServiceRequestRepository(db)
	orderRepo := repository.NewPublishOrderRepository(db)
	recordingRepo := repository.NewRecordingRepository(db)

	authSvc := service.NewAuthService(userRepo, jwtManager, nil, sms.NewLogSender(), nil, "000000")
	userSvc := service.NewUserService(userRepo)
	memoirSvc := service.NewMemoirService(memoirRepo, chapterRepo, nil, nil)
	collabSvc := service.NewCollaborationService(collabRepo, memoirRepo, userRepo)
	communitySvc := service.NewCommunityService(memoirRepo, commentRepo, likeRepo, nil, nil)
	requestSvc := service.NewServiceRequestService(requestRepo, memoirRepo)
	orderSvc := service.NewPublishOrderService(orderRepo, memoirRepo)
	mediaSvc := service.NewMediaService(recordingRepo, store, 1<<20)
	transcriptionSvc := service.NewTranscriptionService(recordingRepo)

	handler.RegisterValidators()

	router := gin.New()
	routes.Setup(
		router,
		handler.NewAuthHandler(authSvc),
		handler.NewUserHandler(userSvc),
		handler.NewMemoirHandler(memoirSvc, transcriptionSvc),
		handler.NewCollaborationHandler(collabSvc),
		handler.NewCommunityHandler(communitySvc),
		handler.NewServiceRequestHandler(requestSvc),
		handler.NewPublishOrderHandler(orderSvc),
		handler.NewMediaHandler(mediaSvc, transcriptionSvc),
		jwtManager,
		nil,
	)
	s.router = router
}

// request performs an HTTP call against the test router
func (s *APISuite) request(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		s.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *APISuite) decode(w *httptest.ResponseRecorder) map[string]interface{} {
	var resp map[string]interface{}
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func (s *APISuite) data(w *httptest.ResponseRecorder) map[string]interface{} {
	data, _ := s.decode(w)["data"].(map[string]interface{})
	s.Require().NotNil(data)
	return data
}

// registerAndLogin creates an account and returns its access token and user id
func (s *APISuite) registerAndLogin(phone, name string) (string, uint64) {
	w := s.request("POST", "/api/v1/auth/register", "", gin.H{
		"phone":    phone,
		"password": "secret123",
		"name":     name,
	})
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	w = s.request("POST", "/api/v1/auth/login", "", gin.H{
		"phone":    phone,
		"password": "secret123",
	})
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	data := s.data(w)
	token, _ := data["access_token"].(string)
	user, _ := data["user"].(map[string]interface{})
	s.Require().NotEmpty(token)
	return token, uint64(user["id"].(float64))
}

func (s *APISuite) TestRegisterValidation() {
	// Bad phone format
	w := s.request("POST", "/api/v1/auth/register", "", gin.H{
		"phone":    "12345",
		"password": "secret123",
		"name":     "Li Hua",
	})
	s.Equal(http.StatusBadRequest, w.Code)

	// Duplicate phone
	s.registerAndLogin("13800000001", "Li Hua")
	w = s.request("POST", "/api/v1/auth/register", "", gin.H{
		"phone":    "13800000001",
		"password": "secret123",
		"name":     "Impostor",
	})
	s.Equal(http.StatusConflict, w.Code)
}

func (s *APISuite) TestCodeLoginWithDevCode() {
	w := s.request("POST", "/api/v1/auth/login/code", "", gin.H{
		"phone": "13911112222",
		"code":  "000000",
	})
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	data := s.data(w)
	user := data["user"].(map[string]interface{})
	s.Equal("13911112222", user["phone"])

	w = s.request("POST", "/api/v1/auth/login/code", "", gin.H{
		"phone": "13911112222",
		"code":  "111111",
	})
	s.Equal(http.StatusUnauthorized, w.Code)
}

func (s *APISuite) TestMemoirLifecycle() {
	token, _ := s.registerAndLogin("13800000001", "Li Hua")

	// Create
	w := s.request("POST", "/api/v1/memoirs", token, gin.H{
		"title":   "Riverside Years",
		"content": "prologue",
	})
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	memoirID := uint64(s.data(w)["id"].(float64))

	// Add chapters, then reorder
	var chapterIDs []uint64
	for _, title := range []string{"One", "Two", "Three"} {
		w = s.request("POST", fmt.Sprintf("/api/v1/memoirs/%d/chapters", memoirID), token, gin.H{
			"title": title,
		})
		s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
		chapterIDs = append(chapterIDs, uint64(s.data(w)["id"].(float64)))
	}

	w = s.request("PUT", fmt.Sprintf("/api/v1/memoirs/%d/chapters/reorder", memoirID), token, gin.H{
		"chapter_ids": []uint64{chapterIDs[2], chapterIDs[0], chapterIDs[1]},
	})
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	// Fetch and verify chapter order
	w = s.request("GET", fmt.Sprintf("/api/v1/memoirs/%d", memoirID), token, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	chapters := s.data(w)["chapters"].([]interface{})
	s.Require().Len(chapters, 3)
	first := chapters[0].(map[string]interface{})
	s.Equal("Three", first["title"])

	// Unauthenticated access is rejected
	w = s.request("GET", fmt.Sprintf("/api/v1/memoirs/%d", memoirID), "", nil)
	s.Equal(http.StatusUnauthorized, w.Code)

	// Another user sees 404, not 403
	otherToken, _ := s.registerAndLogin("13800000002", "Stranger")
	w = s.request("GET", fmt.Sprintf("/api/v1/memoirs/%d", memoirID), otherToken, nil)
	s.Equal(http.StatusNotFound, w.Code)

	// Delete
	w = s.request("DELETE", fmt.Sprintf("/api/v1/memoirs/%d", memoirID), token, nil)
	s.Equal(http.StatusNoContent, w.Code)
}

func (s *APISuite) TestCollaborationFlow() {
	ownerToken, _ := s.registerAndLogin("13800000001", "Owner")
	inviteeToken, _ := s.registerAndLogin("13800000002", "Friend")

	w := s.request("POST", "/api/v1/memoirs", ownerToken, gin.H{"title": "Shared story"})
	s.Require().Equal(http.StatusCreated, w.Code)
	memoirID := uint64(s.data(w)["id"].(float64))

	// Invite
	w = s.request("POST", fmt.Sprintf("/api/v1/memoirs/%d/collaborations", memoirID), ownerToken, gin.H{
		"phone": "13800000002",
		"role":  "editor",
	})
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	collabID := uint64(s.data(w)["id"].(float64))

	// Duplicate invite conflicts
	w = s.request("POST", fmt.Sprintf("/api/v1/memoirs/%d/collaborations", memoirID), ownerToken, gin.H{
		"phone": "13800000002",
		"role":  "viewer",
	})
	s.Equal(http.StatusConflict, w.Code)

	// Invitee sees the pending invitation
	w = s.request("GET", "/api/v1/collaborations", inviteeToken, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	list := s.decode(w)["data"].([]interface{})
	s.Require().Len(list, 1)

	// Accept
	w = s.request("PUT", fmt.Sprintf("/api/v1/collaborations/%d", collabID), inviteeToken, gin.H{
		"accept": true,
	})
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	// Second response is rejected
	w = s.request("PUT", fmt.Sprintf("/api/v1/collaborations/%d", collabID), inviteeToken, gin.H{
		"accept": false,
	})
	s.Equal(http.StatusBadRequest, w.Code)

	// Accepted editor can edit content
	w = s.request("PUT", fmt.Sprintf("/api/v1/memoirs/%d", memoirID), inviteeToken, gin.H{
		"content": "a contribution",
	})
	s.Equal(http.StatusOK, w.Code, w.Body.String())

	// But cannot change visibility
	w = s.request("PUT", fmt.Sprintf("/api/v1/memoirs/%d", memoirID), inviteeToken, gin.H{
		"is_public": true,
	})
	s.Equal(http.StatusNotFound, w.Code)
}

func (s *APISuite) TestCommunityFlow() {
	authorToken, _ := s.registerAndLogin("13800000001", "Author")
	readerToken, _ := s.registerAndLogin("13800000002", "Reader")

	w := s.request("POST", "/api/v1/memoirs", authorToken, gin.H{
		"title":     "Public story",
		"is_public": true,
	})
	s.Require().Equal(http.StatusCreated, w.Code)
	memoirID := uint64(s.data(w)["id"].(float64))

	// Feed is public, no auth needed
	w = s.request("GET", "/api/v1/community/memoirs", "", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	feed := s.decode(w)["data"].([]interface{})
	s.Require().Len(feed, 1)

	// Detail, twice, bumps the view count
	s.request("GET", fmt.Sprintf("/api/v1/community/memoirs/%d", memoirID), "", nil)
	w = s.request("GET", fmt.Sprintf("/api/v1/community/memoirs/%d", memoirID), "", nil)
	s.Require().Equal(http.StatusOK, w.Code)

	// Comments require auth
	w = s.request("POST", fmt.Sprintf("/api/v1/community/memoirs/%d/comments", memoirID), "", gin.H{
		"content": "anonymous praise",
	})
	s.Equal(http.StatusUnauthorized, w.Code)

	w = s.request("POST", fmt.Sprintf("/api/v1/community/memoirs/%d/comments", memoirID), readerToken, gin.H{
		"content": "Wonderful story",
	})
	s.Equal(http.StatusCreated, w.Code, w.Body.String())

	// Like, duplicate like conflicts
	w = s.request("POST", fmt.Sprintf("/api/v1/community/memoirs/%d/like", memoirID), readerToken, nil)
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	w = s.request("POST", fmt.Sprintf("/api/v1/community/memoirs/%d/like", memoirID), readerToken, nil)
	s.Equal(http.StatusConflict, w.Code)

	// Detail personalizes user_liked for the token holder only
	w = s.request("GET", fmt.Sprintf("/api/v1/community/memoirs/%d", memoirID), readerToken, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	detail := s.data(w)
	s.EqualValues(1, detail["like_count"])
	s.Equal(true, detail["user_liked"])

	w = s.request("GET", fmt.Sprintf("/api/v1/community/memoirs/%d", memoirID), "", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	s.Equal(false, s.data(w)["user_liked"])

	// Unlike
	w = s.request("DELETE", fmt.Sprintf("/api/v1/community/memoirs/%d/like", memoirID), readerToken, nil)
	s.Equal(http.StatusOK, w.Code)

	// Search finds the public memoir
	w = s.request("GET", "/api/v1/community/search?q=Public", "", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	results := s.decode(w)["data"].([]interface{})
	s.Len(results, 1)
}

func (s *APISuite) TestServiceRequestAndOrderFlow() {
	token, _ := s.registerAndLogin("13800000001", "Author")

	w := s.request("POST", "/api/v1/memoirs", token, gin.H{"title": "My Life"})
	s.Require().Equal(http.StatusCreated, w.Code)
	memoirID := uint64(s.data(w)["id"].(float64))

	// Service request
	w = s.request("POST", "/api/v1/service-requests", token, gin.H{
		"service_type": "editing",
		"details":      "please polish chapter two",
		"memoir_id":    memoirID,
	})
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	requestID := uint64(s.data(w)["id"].(float64))

	w = s.request("POST", fmt.Sprintf("/api/v1/service-requests/%d/cancel", requestID), token, nil)
	s.Equal(http.StatusOK, w.Code)

	// Publish order: print format without address is rejected
	w = s.request("POST", "/api/v1/publish-orders", token, gin.H{
		"memoir_id": memoirID,
		"format":    "hardcover",
	})
	s.Equal(http.StatusBadRequest, w.Code)

	w = s.request("POST", "/api/v1/publish-orders", token, gin.H{
		"memoir_id":      memoirID,
		"format":         "hardcover",
		"copies":         2,
		"recipient_name": "Li Hua",
		"phone":          "13800000001",
		"address":        "1 Riverside Road",
	})
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	orderID := uint64(s.data(w)["id"].(float64))

	w = s.request("POST", fmt.Sprintf("/api/v1/publish-orders/%d/cancel", orderID), token, nil)
	s.Equal(http.StatusOK, w.Code)

	// Cancelled twice fails
	w = s.request("POST", fmt.Sprintf("/api/v1/publish-orders/%d/cancel", orderID), token, nil)
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *APISuite) TestOutlineGeneration() {
	token, _ := s.registerAndLogin("13800000001", "Author")

	w := s.request("POST", "/api/v1/memoirs/outline", token, gin.H{
		"transcript": "I was born by the river. School was far away. Then the city. Work was hard. We raised three children.",
	})
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	chapters := s.data(w)["chapters"].([]interface{})
	s.NotEmpty(chapters)
}
