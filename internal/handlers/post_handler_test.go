package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/furs-app/backend/internal/middleware"
	"github.com/furs-app/backend/internal/models"
	"github.com/furs-app/backend/validators"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestContext(t *testing.T, method, path, body string, claims *models.SessionClaims) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	e.Validator = validators.NewValidator()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if claims != nil {
		c.Set("session", claims)
	}
	return c, rec
}

func TestCreatePostLostPetReport(t *testing.T) {
	postRepo := newFakePostRepo()
	profileRepo := newFakeProfileRepo()
	require.NoError(t, profileRepo.CreateProfile(&models.Profile{
		FirebaseUID:     "uid-1",
		Username:        "maria",
		ProfilePhotoURL: "https://cdn.example.com/maria.jpg",
	}))

	h := NewPostHandler(postRepo, newFakeLikeRepo(postRepo), newFakeCommentRepo(), profileRepo)

	body := `{
		"description": "Brown Labrador last seen near the park gate",
		"photo_url": "https://cdn.example.com/uploads/lab.jpg",
		"status": "Lost Pet",
		"animal_type": "Dog",
		"breed": "Labrador",
		"coat_color": "Brown",
		"location": {"lat": 14.6, "lng": 121.0}
	}`
	c, rec := newTestContext(t, http.MethodPost, "/api/v1/posts", body, &models.SessionClaims{UID: "uid-1", Username: "maria"})

	require.NoError(t, h.CreatePost(c))
	assert.Equal(t, http.StatusCreated, rec.Code)

	stored, err := postRepo.GetAllPosts(context.Background(), 0, 0)
	require.NoError(t, err)
	require.Len(t, stored, 1, "exactly one report document must be written")

	post := stored[0]
	assert.Equal(t, "Lost Pet", post.Status)
	assert.Equal(t, "Labrador", post.Breed)
	assert.Equal(t, "Brown", post.CoatColor)
	assert.Equal(t, "https://cdn.example.com/uploads/lab.jpg", post.PhotoURL)
	require.NotNil(t, post.Location)
	assert.Equal(t, 14.6, post.Location.Lat)
	assert.Equal(t, 121.0, post.Location.Lng)
	assert.Equal(t, "uid-1", post.AuthorUID)
	assert.Equal(t, "maria", post.AuthorUsername)
	assert.Equal(t, "https://cdn.example.com/maria.jpg", post.AuthorPhotoURL)
	assert.False(t, post.CreatedAt.IsZero())
}

func TestCreatePostValidationFailsBeforeWrite(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{
			name: "missing photo_url",
			body: `{"description": "no photo attached", "status": "Lost Pet"}`,
		},
		{
			name: "missing description",
			body: `{"photo_url": "https://cdn.example.com/x.jpg", "status": "Stray Animal"}`,
		},
		{
			name: "unknown status value",
			body: `{"description": "d", "photo_url": "https://cdn.example.com/x.jpg", "status": "Found"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			postRepo := newFakePostRepo()
			h := NewPostHandler(postRepo, newFakeLikeRepo(postRepo), newFakeCommentRepo(), newFakeProfileRepo())

			c, _ := newTestContext(t, http.MethodPost, "/api/v1/posts", tt.body, &models.SessionClaims{UID: "uid-1"})

			err := h.CreatePost(c)
			var httpErr *echo.HTTPError
			require.ErrorAs(t, err, &httpErr)
			assert.Equal(t, http.StatusBadRequest, httpErr.Code)

			stored, _ := postRepo.GetAllPosts(context.Background(), 0, 0)
			assert.Empty(t, stored, "no document may be written for invalid input")
		})
	}
}

func TestUpdatePostOwnerOnly(t *testing.T) {
	postRepo := newFakePostRepo()
	h := NewPostHandler(postRepo, newFakeLikeRepo(postRepo), newFakeCommentRepo(), newFakeProfileRepo())

	post := &models.Post{AuthorUID: "owner", Description: "original", PhotoURL: "https://cdn.example.com/x.jpg", Status: models.StatusStrayAnimal}
	require.NoError(t, postRepo.CreatePost(context.Background(), post))

	c, _ := newTestContext(t, http.MethodPut, "/", `{"description": "edited"}`, &models.SessionClaims{UID: "intruder"})
	c.SetParamNames("id")
	c.SetParamValues(post.ID.Hex())

	err := h.UpdatePost(c)
	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusForbidden, httpErr.Code)

	kept, err := postRepo.GetPostByID(context.Background(), post.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, "original", kept.Description)
}

func TestDeletePostCleansUpLikesAndComments(t *testing.T) {
	postRepo := newFakePostRepo()
	likeRepo := newFakeLikeRepo(postRepo)
	commentRepo := newFakeCommentRepo()
	h := NewPostHandler(postRepo, likeRepo, commentRepo, newFakeProfileRepo())

	post := &models.Post{AuthorUID: "owner", Description: "to delete", PhotoURL: "https://cdn.example.com/x.jpg", Status: models.StatusLostPet}
	require.NoError(t, postRepo.CreatePost(context.Background(), post))
	postID := post.ID.Hex()

	_, err := likeRepo.ToggleLike(context.Background(), postID, "fan-1")
	require.NoError(t, err)
	require.NoError(t, commentRepo.CreateComment(context.Background(), &models.Comment{PostID: post.ID, AuthorUID: "fan-1", Content: "hope you find them"}))

	c, rec := newTestContext(t, http.MethodDelete, "/", "", &models.SessionClaims{UID: "owner"})
	c.SetParamNames("id")
	c.SetParamValues(postID)

	require.NoError(t, h.DeletePost(c))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	_, err = postRepo.GetPostByID(context.Background(), postID)
	assert.Error(t, err)

	count, _ := likeRepo.CountByPostID(context.Background(), postID)
	assert.Equal(t, int64(0), count)
	comments, _ := commentRepo.GetCommentsByPostID(context.Background(), postID)
	assert.Empty(t, comments)
}

func TestGetTopAreasSkipsUnlocatedReports(t *testing.T) {
	postRepo := newFakePostRepo()
	h := NewPostHandler(postRepo, newFakeLikeRepo(postRepo), newFakeCommentRepo(), newFakeProfileRepo())

	located := &models.Post{AuthorUID: "a", Description: "d", PhotoURL: "https://x/y.jpg", Status: models.StatusStrayAnimal, Location: &models.Location{Lat: 14.601, Lng: 121.001}}
	unlocated := &models.Post{AuthorUID: "a", Description: "d", PhotoURL: "https://x/y.jpg", Status: models.StatusStrayAnimal}
	require.NoError(t, postRepo.CreatePost(context.Background(), located))
	require.NoError(t, postRepo.CreatePost(context.Background(), unlocated))

	c, rec := newTestContext(t, http.MethodGet, "/api/v1/posts/top-areas", "", nil)

	require.NoError(t, h.GetTopAreas(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"areas":[{"lat":14.6,"lng":121,"count":1}]}`, rec.Body.String())
}

func TestProtectedRoutesRejectAnonymousRequests(t *testing.T) {
	postRepo := newFakePostRepo()
	h := NewPostHandler(postRepo, newFakeLikeRepo(postRepo), newFakeCommentRepo(), newFakeProfileRepo())

	e := echo.New()
	e.Validator = validators.NewValidator()
	g := e.Group("/api/v1", middleware.JWTAuthMiddleware("test-secret"))
	h.RegisterPostRoutes(g)

	body := `{"description": "d", "photo_url": "https://cdn.example.com/x.jpg", "status": "Lost Pet"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/posts", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	stored, _ := postRepo.GetAllPosts(context.Background(), 0, 0)
	assert.Empty(t, stored, "anonymous submissions must not reach the store")
}
