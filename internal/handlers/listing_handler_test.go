package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"auction-house/internal/auth"
	"auction-house/internal/models"
	"auction-house/internal/repository"
	"auction-house/internal/services"
)

func setupRouter(t *testing.T) *gin.Engine {
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Listing{},
		&models.Bid{},
		&models.Comment{},
		&models.WatchlistEntry{},
	))

	db.Exec("DELETE FROM watchlist_entries")
	db.Exec("DELETE FROM comments")
	db.Exec("DELETE FROM bids")
	db.Exec("DELETE FROM listings")
	db.Exec("DELETE FROM categories")
	db.Exec("DELETE FROM users")

	auth.InitJWT("test-secret", 0)

	repo := repository.NewRepository(db)
	authHandler := NewAuthHandler(services.NewAuthService(repo))
	listingHandler := NewListingHandler(services.NewListingService(repo))
	categoryHandler := NewCategoryHandler(services.NewCategoryService(repo))

	router := gin.New()
	router.POST("/auth/register", authHandler.Register)
	router.POST("/auth/login", authHandler.Login)
	router.GET("/api/listings", listingHandler.GetListings)
	router.GET("/api/listings/:id", auth.OptionalAuthMiddleware(), listingHandler.GetListing)
	router.GET("/api/categories", categoryHandler.GetCategories)

	api := router.Group("/api")
	api.Use(auth.AuthMiddleware())
	{
		api.POST("/listings", listingHandler.CreateListing)
		api.POST("/listings/:id/bids", listingHandler.PlaceBid)
		api.POST("/listings/:id/comments", listingHandler.PostComment)
		api.POST("/listings/:id/close", listingHandler.CloseListing)
		api.POST("/listings/:id/watchlist", listingHandler.AddToWatchlist)
		api.DELETE("/listings/:id/watchlist", listingHandler.RemoveFromWatchlist)
		api.GET("/watchlist", listingHandler.GetWatchlist)
	}

	return router
}

func doJSON(t *testing.T, router *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func registerUser(t *testing.T, router *gin.Engine, username string) string {
	rec := doJSON(t, router, http.MethodPost, "/auth/register", "", gin.H{
		"username":     username,
		"email":        username + "@x.com",
		"password":     "pw",
		"confirmation": "pw",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func createListing(t *testing.T, router *gin.Engine, token, startingBid string) string {
	rec := doJSON(t, router, http.MethodPost, "/api/listings", token, gin.H{
		"title":        "Old clock",
		"description":  "Ticks",
		"starting_bid": startingBid,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp struct {
		Data struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.Data.ID
}

func TestRegisterLoginFlow(t *testing.T) {
	router := setupRouter(t)

	registerUser(t, router, "alice")

	// Duplicate username registration conflicts
	rec := doJSON(t, router, http.MethodPost, "/auth/register", "", gin.H{
		"username":     "alice",
		"password":     "pw",
		"confirmation": "pw",
	})
	require.Equal(t, http.StatusConflict, rec.Code)

	// The registered credentials log in
	rec = doJSON(t, router, http.MethodPost, "/auth/login", "", gin.H{
		"username": "alice",
		"password": "pw",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	// A wrong password is a 401, not a server error
	rec = doJSON(t, router, http.MethodPost, "/auth/login", "", gin.H{
		"username": "alice",
		"password": "nope",
	})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestBidEndpointStatusMapping(t *testing.T) {
	router := setupRouter(t)

	creatorToken := registerUser(t, router, "creator")
	bidderToken := registerUser(t, router, "bidder")
	listingID := createListing(t, router, creatorToken, "100.00")

	// Unauthenticated bids are rejected
	rec := doJSON(t, router, http.MethodPost, "/api/listings/"+listingID+"/bids", "", gin.H{"amount": "150.00"})
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	// A bid below the current price maps to 400
	rec = doJSON(t, router, http.MethodPost, "/api/listings/"+listingID+"/bids", bidderToken, gin.H{"amount": "100.00"})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	// A valid bid is accepted
	rec = doJSON(t, router, http.MethodPost, "/api/listings/"+listingID+"/bids", bidderToken, gin.H{"amount": "150.00"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	// Only the creator may close
	rec = doJSON(t, router, http.MethodPost, "/api/listings/"+listingID+"/close", bidderToken, nil)
	require.Equal(t, http.StatusForbidden, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/api/listings/"+listingID+"/close", creatorToken, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	// Bids after close map to 409
	rec = doJSON(t, router, http.MethodPost, "/api/listings/"+listingID+"/bids", bidderToken, gin.H{"amount": "200.00"})
	require.Equal(t, http.StatusConflict, rec.Code)
}

func TestListingDetailWatchingFlag(t *testing.T) {
	router := setupRouter(t)

	creatorToken := registerUser(t, router, "creator")
	watcherToken := registerUser(t, router, "watcher")
	listingID := createListing(t, router, creatorToken, "10.00")

	rec := doJSON(t, router, http.MethodPost, "/api/listings/"+listingID+"/watchlist", watcherToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	type detailResp struct {
		Data struct {
			Watching     bool   `json:"watching"`
			CurrentPrice string `json:"current_price"`
		} `json:"data"`
	}

	// The watcher sees the flag set
	rec = doJSON(t, router, http.MethodGet, "/api/listings/"+listingID, watcherToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var withAuth detailResp
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &withAuth))
	require.True(t, withAuth.Data.Watching)

	// Anonymous viewers still get the page, unwatched
	rec = doJSON(t, router, http.MethodGet, "/api/listings/"+listingID, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var anonymous detailResp
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &anonymous))
	require.False(t, anonymous.Data.Watching)
}

func TestUnknownListingReturns404(t *testing.T) {
	router := setupRouter(t)
	token := registerUser(t, router, "alice")

	missing := "2f9cbb09-52f8-4a9c-9ef0-0f2a43f1f9a0"
	rec := doJSON(t, router, http.MethodPost, fmt.Sprintf("/api/listings/%s/bids", missing), token, gin.H{"amount": "1.00"})
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/api/listings/"+missing, "", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}
