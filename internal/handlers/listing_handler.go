package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"auction-house/internal/auth"
	"auction-house/internal/models"
	"auction-house/internal/services"
)

// ListingHandler handles listing, bid, comment and watchlist endpoints
type ListingHandler struct {
	listingService *services.ListingService
}

// NewListingHandler creates a new ListingHandler
func NewListingHandler(listingService *services.ListingService) *ListingHandler {
	return &ListingHandler{listingService: listingService}
}

// GetListings returns active listings with computed current prices
// GET /api/listings?category=
func (h *ListingHandler) GetListings(c *gin.Context) {
	var categoryID *uint
	if raw := c.Query("category"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid category id"})
			return
		}
		id := uint(parsed)
		categoryID = &id
	}

	listings, err := h.listingService.ActiveListings(c.Request.Context(), categoryID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":  listings,
		"count": len(listings),
	})
}

// GetListing returns the detail payload for one listing
// GET /api/listings/:id
func (h *ListingHandler) GetListing(c *gin.Context) {
	listingID, ok := listingParam(c)
	if !ok {
		return
	}

	var viewerID *uint
	if userID, exists := auth.GetUserID(c); exists {
		viewerID = &userID
	}

	detail, err := h.listingService.ListingDetail(c.Request.Context(), listingID, viewerID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": detail})
}

// CreateListing creates a new active listing owned by the caller
// POST /api/listings
func (h *ListingHandler) CreateListing(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req models.CreateListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	listing, err := h.listingService.CreateListing(c.Request.Context(), userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": listing})
}

// PlaceBid submits a bid on a listing
// POST /api/listings/:id/bids
func (h *ListingHandler) PlaceBid(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	listingID, ok := listingParam(c)
	if !ok {
		return
	}

	var req models.PlaceBidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	bid, err := h.listingService.PlaceBid(c.Request.Context(), listingID, userID, req.Amount)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": bid})
}

// PostComment posts a comment on a listing
// POST /api/listings/:id/comments
func (h *ListingHandler) PostComment(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	listingID, ok := listingParam(c)
	if !ok {
		return
	}

	var req models.PostCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	comment, err := h.listingService.PostComment(c.Request.Context(), listingID, userID, req.Text)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": comment})
}

// CloseListing closes an auction, fixing its winner
// POST /api/listings/:id/close
func (h *ListingHandler) CloseListing(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	listingID, ok := listingParam(c)
	if !ok {
		return
	}

	listing, err := h.listingService.CloseAuction(c.Request.Context(), listingID, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": listing})
}

// AddToWatchlist adds the listing to the caller's watchlist
// POST /api/listings/:id/watchlist
func (h *ListingHandler) AddToWatchlist(c *gin.Context) {
	h.toggleWatchlist(c, true)
}

// RemoveFromWatchlist removes the listing from the caller's watchlist
// DELETE /api/listings/:id/watchlist
func (h *ListingHandler) RemoveFromWatchlist(c *gin.Context) {
	h.toggleWatchlist(c, false)
}

func (h *ListingHandler) toggleWatchlist(c *gin.Context, add bool) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	listingID, ok := listingParam(c)
	if !ok {
		return
	}

	var err error
	if add {
		err = h.listingService.AddToWatchlist(c.Request.Context(), userID, listingID)
	} else {
		err = h.listingService.RemoveFromWatchlist(c.Request.Context(), userID, listingID)
	}
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"watching": add})
}

// GetWatchlist returns the caller's watched listings
// GET /api/watchlist
func (h *ListingHandler) GetWatchlist(c *gin.Context) {
	h.userListings(c, h.listingService.Watchlist)
}

// GetMyListings returns the listings the caller created
// GET /api/listings/mine
func (h *ListingHandler) GetMyListings(c *gin.Context) {
	h.userListings(c, h.listingService.UserListings)
}

// GetWonListings returns the closed listings the caller has won
// GET /api/listings/won
func (h *ListingHandler) GetWonListings(c *gin.Context) {
	h.userListings(c, h.listingService.WonListings)
}

func (h *ListingHandler) userListings(
	c *gin.Context,
	load func(ctx context.Context, userID uint) ([]models.ListingResponse, error),
) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	listings, err := load(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":  listings,
		"count": len(listings),
	})
}

// listingParam parses the :id path parameter, writing the 400 itself on
// malformed input
func listingParam(c *gin.Context) (uuid.UUID, bool) {
	listingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid listing id"})
		return uuid.Nil, false
	}
	return listingID, true
}
