package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/nkruglova/bookstand/internal/domain/models"
	"github.com/nkruglova/bookstand/internal/logger"
)

func (s *Server) AddToCart(ctx *gin.Context) {
	log := logger.Get()
	var item models.Document
	if err := ctx.ShouldBindJSON(&item); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	userID, _ := item["userId"].(string)
	if userID == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "userId is required"})
		return
	}
	id, err := s.Storage.SaveCartItem(item)
	if err != nil {
		log.Error().Err(err).Msg("failed to add to cart")
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "failed to add to cart"})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"insertedId": id})
}

func (s *Server) CartItems(ctx *gin.Context) {
	log := logger.Get()
	userID := ctx.Param("id")
	items, err := s.Storage.GetCartItems(userID)
	if err != nil {
		log.Error().Err(err).Msg("failed to fetch cart items")
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch cart items"})
		return
	}
	if items == nil {
		items = []models.Document{}
	}
	ctx.JSON(http.StatusOK, items)
}

// удаляет позицию корзины только при совпадении и id, и владельца
func (s *Server) RemoveFromCart(ctx *gin.Context) {
	log := logger.Get()
	userID := ctx.Param("userId")
	id := ctx.Param("id")
	if _, err := primitive.ObjectIDFromHex(id); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid cart item id"})
		return
	}
	if err := s.Storage.RemoveCartItem(userID, id); err != nil {
		log.Error().Err(err).Msg("failed to remove item from cart")
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "failed to remove item from cart"})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "item removed from cart"})
}
