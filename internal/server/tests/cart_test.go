package tests

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"

	"github.com/nkruglova/bookstand/internal/domain/models"
)

const cartItemID = "65f1a2b3c4d5e6f701234567"

func TestServer_addToCart(t *testing.T) {
	s, mockStorage := newServer(t)

	t.Run("success", func(t *testing.T) {
		mockStorage.EXPECT().SaveCartItem(gomock.Any()).Return(cartItemID, nil)

		w := httptest.NewRecorder()
		ctx, _ := gin.CreateTestContext(w)
		ctx.Request = jsonRequest(http.MethodPost, "/add-to-cart",
			`{"userId":"`+userID+`","bookId":"`+bookID+`","quantity":1}`)

		s.AddToCart(ctx)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), cartItemID)
	})

	t.Run("missing userId", func(t *testing.T) {
		w := httptest.NewRecorder()
		ctx, _ := gin.CreateTestContext(w)
		ctx.Request = jsonRequest(http.MethodPost, "/add-to-cart", `{"bookId":"`+bookID+`"}`)

		s.AddToCart(ctx)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "userId is required")
	})

	t.Run("internal error", func(t *testing.T) {
		mockStorage.EXPECT().SaveCartItem(gomock.Any()).Return("", errors.New("db error"))

		w := httptest.NewRecorder()
		ctx, _ := gin.CreateTestContext(w)
		ctx.Request = jsonRequest(http.MethodPost, "/add-to-cart", `{"userId":"`+userID+`"}`)

		s.AddToCart(ctx)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

func TestServer_cartItems(t *testing.T) {
	s, mockStorage := newServer(t)

	t.Run("success", func(t *testing.T) {
		items := []models.Document{{"bookId": bookID, "userId": userID}}
		mockStorage.EXPECT().GetCartItems(userID).Return(items, nil)

		w := httptest.NewRecorder()
		ctx, _ := gin.CreateTestContext(w)
		ctx.Params = gin.Params{{Key: "id", Value: userID}}

		s.CartItems(ctx)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), bookID)
	})

	t.Run("empty cart is an empty array", func(t *testing.T) {
		mockStorage.EXPECT().GetCartItems(userID).Return(nil, nil)

		w := httptest.NewRecorder()
		ctx, _ := gin.CreateTestContext(w)
		ctx.Params = gin.Params{{Key: "id", Value: userID}}

		s.CartItems(ctx)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "[]", w.Body.String())
	})

	t.Run("internal error", func(t *testing.T) {
		mockStorage.EXPECT().GetCartItems(userID).Return(nil, errors.New("db error"))

		w := httptest.NewRecorder()
		ctx, _ := gin.CreateTestContext(w)
		ctx.Params = gin.Params{{Key: "id", Value: userID}}

		s.CartItems(ctx)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

func TestServer_removeFromCart(t *testing.T) {
	s, mockStorage := newServer(t)

	t.Run("success", func(t *testing.T) {
		mockStorage.EXPECT().RemoveCartItem(userID, cartItemID).Return(nil)

		w := httptest.NewRecorder()
		ctx, _ := gin.CreateTestContext(w)
		ctx.Params = gin.Params{
			{Key: "userId", Value: userID},
			{Key: "id", Value: cartItemID},
		}

		s.RemoveFromCart(ctx)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "item removed from cart")
	})

	t.Run("invalid item id", func(t *testing.T) {
		w := httptest.NewRecorder()
		ctx, _ := gin.CreateTestContext(w)
		ctx.Params = gin.Params{
			{Key: "userId", Value: userID},
			{Key: "id", Value: "bad"},
		}

		s.RemoveFromCart(ctx)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("internal error", func(t *testing.T) {
		mockStorage.EXPECT().RemoveCartItem(userID, cartItemID).Return(errors.New("db error"))

		w := httptest.NewRecorder()
		ctx, _ := gin.CreateTestContext(w)
		ctx.Params = gin.Params{
			{Key: "userId", Value: userID},
			{Key: "id", Value: cartItemID},
		}

		s.RemoveFromCart(ctx)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}
