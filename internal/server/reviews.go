package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nkruglova/bookstand/internal/domain/models"
	"github.com/nkruglova/bookstand/internal/logger"
)

func (s *Server) SubmitReview(ctx *gin.Context) {
	log := logger.Get()
	var review models.Document
	if err := ctx.ShouldBindJSON(&review); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	id, err := s.Storage.SaveReview(review)
	if err != nil {
		log.Error().Err(err).Msg("failed to submit review")
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "failed to submit review"})
		return
	}
	ctx.JSON(http.StatusCreated, gin.H{"insertedId": id})
}

func (s *Server) Reviews(ctx *gin.Context) {
	log := logger.Get()
	category := ctx.Query("category")
	reviews, err := s.Storage.GetReviews(category)
	if err != nil {
		log.Error().Err(err).Msg("failed to fetch reviews")
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch reviews"})
		return
	}
	if reviews == nil {
		reviews = []models.Document{}
	}
	ctx.JSON(http.StatusOK, reviews)
}
