package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/nkruglova/bookstand/internal/domain/models"
	"github.com/nkruglova/bookstand/internal/logger"
	storerrors "github.com/nkruglova/bookstand/internal/storage/errors"
)

func (s *Server) UploadBook(ctx *gin.Context) {
	log := logger.Get()
	var book models.Document
	if err := ctx.ShouldBindJSON(&book); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	id, err := s.Storage.SaveBook(book)
	if err != nil {
		log.Error().Err(err).Msg("failed to upload book")
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "failed to upload book"})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"insertedId": id})
}

// получение списка книг, опционально отфильтрованного по категории
func (s *Server) AllBooks(ctx *gin.Context) {
	log := logger.Get()
	category := ctx.Query("category")
	books, err := s.Storage.GetBooks(category)
	if err != nil {
		log.Error().Err(err).Msg("failed to fetch all books")
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch all books"})
		return
	}
	if books == nil {
		books = []models.Document{}
	}
	ctx.JSON(http.StatusOK, books)
}

func (s *Server) BookInfo(ctx *gin.Context) {
	id := ctx.Param("id")
	if _, err := primitive.ObjectIDFromHex(id); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid book id"})
		return
	}
	book, err := s.Storage.GetBook(id)
	if err != nil {
		if errors.Is(err, storerrors.ErrBookNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch book"})
		return
	}
	ctx.JSON(http.StatusOK, book)
}

// частичное обновление книги; несуществующий id создает новую запись (upsert)
func (s *Server) UpdateBook(ctx *gin.Context) {
	log := logger.Get()
	id := ctx.Param("id")
	if _, err := primitive.ObjectIDFromHex(id); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid book id"})
		return
	}
	var fields models.Document
	if err := ctx.ShouldBindJSON(&fields); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	delete(fields, "_id")
	res, err := s.Storage.UpdateBook(id, fields)
	if err != nil {
		log.Error().Err(err).Msg("failed to update book")
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update book"})
		return
	}
	ctx.JSON(http.StatusOK, res)
}

func (s *Server) RemoveBook(ctx *gin.Context) {
	log := logger.Get()
	id := ctx.Param("id")
	if _, err := primitive.ObjectIDFromHex(id); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid book id"})
		return
	}
	if err := s.Storage.DeleteBook(id); err != nil {
		log.Error().Err(err).Msg("failed to delete book")
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete book"})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "book deleted"})
}
