package server

import (
	"context"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator"
	"github.com/google/uuid"

	"github.com/nkruglova/bookstand/internal/config"
	"github.com/nkruglova/bookstand/internal/domain/models"
	"github.com/nkruglova/bookstand/internal/logger"
)

//go:generate mockgen -source=server.go -destination=./mocks/service_mock.go -package=mocks

type Storage interface {
	SaveBook(models.Document) (string, error)
	GetBook(string) (models.Document, error)
	GetBooks(string) ([]models.Document, error)
	UpdateBook(string, models.Document) (models.UpdateResult, error)
	DeleteBook(string) error

	SaveCartItem(models.Document) (string, error)
	GetCartItems(string) ([]models.Document, error)
	RemoveCartItem(string, string) error

	SaveUser(models.User) (string, error)
	ValidUser(string, string) (string, error)
	GetUser(string) (models.User, error)
	UpdateProfile(string, models.Profile) error
	UpdateUserFields(string, models.Document) error
	UsernameExists(string) (bool, error)
	EmailExists(string) (bool, error)

	SaveReview(models.Document) (string, error)
	GetReviews(string) ([]models.Document, error)
}

type Server struct {
	serv    *http.Server
	valid   *validator.Validate
	Storage Storage
	ErrChan chan error
}

func New(cfg config.Config, stor Storage) *Server {
	server := http.Server{ //nolint:gosec // not today
		Addr: cfg.Addr,
	}
	valid := validator.New()
	return &Server{
		serv:    &server,
		valid:   valid,
		Storage: stor,
		ErrChan: make(chan error),
	}
}

func (s *Server) ShutdownServer() error {
	return s.serv.Shutdown(context.Background())
}

func (s *Server) Run(ctx context.Context) error {
	log := logger.Get()
	router := gin.Default()
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
		MaxAge:           12 * 3600,
	}))
	router.Use(RequestID())
	router.GET("/", func(ctx *gin.Context) {
		ctx.String(http.StatusOK, "bookstand listening on %s", s.serv.Addr)
	})

	router.POST("/upload-book", s.UploadBook)
	router.GET("/all-books", s.AllBooks)
	book := router.Group("/book")
	{
		book.GET("/:id", s.BookInfo)
		book.PATCH("/:id", s.UpdateBook)
		book.DELETE("/:id", s.RemoveBook)
	}

	router.POST("/add-to-cart", s.AddToCart)
	router.GET("/cart/:id", s.CartItems)
	router.DELETE("/cart/:userId/:id", s.RemoveFromCart)

	router.POST("/createUser", s.CreateUser)
	router.POST("/login", s.Login)
	router.GET("/getUserData/:id", s.UserData)
	router.POST("/upload-profile", s.UploadProfile)
	router.PUT("/updateUserProfile", s.UpdateUserProfile)
	router.POST("/check-username", s.CheckUsername)
	router.POST("/check-email", s.CheckEmail)

	router.POST("/submit-review", s.SubmitReview)
	router.GET("/getReviews", s.Reviews)

	s.serv.Handler = router
	log.Info().Str("host", s.serv.Addr).Msg("server started")
	if err := s.serv.ListenAndServe(); err != nil {
		return err
	}
	return nil
}

func (s *Server) Close() error {
	return s.serv.Shutdown(context.TODO())
}

// RequestID stamps every request with an id for log correlation.
func RequestID() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		id := ctx.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.New().String()
		}
		ctx.Set("request_id", id)
		ctx.Writer.Header().Set("X-Request-ID", id)
		ctx.Next()
	}
}
