package server

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"stock-simulator/src/auth"
	"stock-simulator/src/config"
	"stock-simulator/src/helpers"
	"stock-simulator/src/interfaces"
	"stock-simulator/src/leaderboard"
	"stock-simulator/src/ledger"
	"stock-simulator/src/logger"
	"stock-simulator/src/market"
	"stock-simulator/src/models"
	"stock-simulator/src/storage"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// -----------------------------------------------------------------------------
// APIServer
// -----------------------------------------------------------------------------

type APIServer struct {
	Config *config.Config
	Logger *logger.Logger
	Engine *market.PriceEngine
	Store  interfaces.IUserRecordStore
	Auth   *auth.Service
	engine *gin.Engine

	// Session tokens -> usernames
	sessions   map[string]string
	sessionsMu sync.RWMutex

	// Per-username write locks. One interactive user owns one account, the
	// lock is a safety net against overlapping requests for the same name.
	userLocks sync.Map

	// WebSocket clients
	clients    map[*Client]struct{}
	broadcast  chan *models.MPriceBroadcast
	register   chan *Client
	unregister chan *Client

	// stateMutex guards both latestState and the clients set.
	latestState *models.MPriceBroadcast
	stateMutex  sync.RWMutex
}

// -----------------------------------------------------------------------------
// Constructor
// -----------------------------------------------------------------------------

func NewAPIServer(cfg *config.Config, log *logger.Logger, engine *market.PriceEngine, store interfaces.IUserRecordStore, authSvc *auth.Service) *APIServer {
	// Set Gin mode
	if cfg.LogLevel != "DEBUG" {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &APIServer{
		Config:   cfg,
		Logger:   log,
		Engine:   engine,
		Store:    store,
		Auth:     authSvc,
		engine:   gin.Default(),
		sessions: make(map[string]string),
		clients:  make(map[*Client]struct{}),
		// Buffered channel to prevent lock/blocking
		broadcast:  make(chan *models.MPriceBroadcast, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		latestState: &models.MPriceBroadcast{
			Type:   "INITIAL",
			Prices: []models.MQuoteSnapshot{},
		},
	}

	s.setupRoutes()
	return s
}

// -----------------------------------------------------------------------------
// Route Setup
// -----------------------------------------------------------------------------

func (s *APIServer) setupRoutes() {
	s.engine.POST("/api/signup", s.postSignup)
	s.engine.POST("/api/login", s.postLogin)

	s.engine.GET("/api/prices", s.getPrices)
	s.engine.GET("/api/prices/:symbol/history", s.getPriceHistory)
	s.engine.GET("/api/tickers", s.getTickers)
	s.engine.POST("/api/tickers", s.postTicker)

	s.engine.POST("/api/trade/buy", s.sessionRequired, s.postBuy)
	s.engine.POST("/api/trade/sell", s.sessionRequired, s.postSell)
	s.engine.GET("/api/portfolio", s.sessionRequired, s.getPortfolio)

	s.engine.GET("/api/leaderboard", s.getLeaderboard)
	s.engine.GET("/api/health", s.getHealth)

	admin := s.engine.Group("/api/admin", s.adminRequired)
	admin.POST("/users", s.postAdminUser)
	admin.DELETE("/users/:username", s.deleteAdminUser)

	// WebSocket endpoint
	s.engine.GET("/ws", s.handleWebSocket)
}

// -----------------------------------------------------------------------------
// Server Lifecycle
// -----------------------------------------------------------------------------

func (s *APIServer) Start() error {
	addr := fmt.Sprintf("%s:%d", s.Config.Host, s.Config.Port)
	s.Logger.Info("Starting server on %s", addr)

	go s.handleWebsockets()

	return s.engine.Run(addr)
}

// -----------------------------------------------------------------------------
// Sessions
// -----------------------------------------------------------------------------

func (s *APIServer) newSession(username string) string {
	token := uuid.NewString()
	s.sessionsMu.Lock()
	s.sessions[token] = username
	s.sessionsMu.Unlock()
	return token
}

func (s *APIServer) sessionUser(c *gin.Context) (string, bool) {
	token := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
	if token == "" {
		return "", false
	}
	s.sessionsMu.RLock()
	username, ok := s.sessions[token]
	s.sessionsMu.RUnlock()
	return username, ok
}

// sessionRequired resolves the bearer token to a username or aborts with 401.
func (s *APIServer) sessionRequired(c *gin.Context) {
	username, ok := s.sessionUser(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing or invalid session token"})
		return
	}
	c.Set("username", username)
	c.Next()
}

// adminRequired checks basic-auth style admin credentials from config.
func (s *APIServer) adminRequired(c *gin.Context) {
	user, pass, ok := c.Request.BasicAuth()
	if !ok || user != s.Config.Admin.Username || pass != s.Config.Admin.Password {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "admin credentials required"})
		return
	}
	c.Next()
}

// -----------------------------------------------------------------------------

func (s *APIServer) lockUser(username string) *sync.Mutex {
	mu, _ := s.userLocks.LoadOrStore(username, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

// -----------------------------------------------------------------------------
// Auth Handlers
// -----------------------------------------------------------------------------

func (s *APIServer) postSignup(c *gin.Context) {
	var req models.MSignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	record, err := s.Auth.SignUp(req.Username, req.Password, s.Engine.Registry.Symbols())
	if err != nil {
		status := http.StatusInternalServerError
		var verr *helpers.ValidationError
		switch {
		case errors.As(err, &verr):
			status = http.StatusBadRequest
		case errors.Is(err, auth.ErrUserExists):
			status = http.StatusConflict
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"username": record.Username, "cash": record.Portfolio.Cash})
}

// -----------------------------------------------------------------------------

func (s *APIServer) postLogin(c *gin.Context) {
	var req models.MLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	record, err := s.Auth.LogIn(req.Username, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrUnknownUser) || errors.Is(err, auth.ErrWrongPassword) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, models.MLoginResponse{
		Token:    s.newSession(record.Username),
		Username: record.Username,
	})
}

// -----------------------------------------------------------------------------
// Market Handlers
// -----------------------------------------------------------------------------

// getPrices drives the price state machine and broadcasts the snapshot to
// websocket subscribers. Querying prices is what advances simulated time.
func (s *APIServer) getPrices(c *gin.Context) {
	snapshot := s.Engine.GetAllPrices()

	update := &models.MPriceBroadcast{
		Type:      "UPDATE",
		Prices:    snapshot,
		Timestamp: time.Now().Unix(),
	}
	select {
	case s.broadcast <- update:
	default:
		// Queue full; websocket clients miss one tick, HTTP callers don't wait.
	}

	c.JSON(http.StatusOK, gin.H{"prices": snapshot})
}

// -----------------------------------------------------------------------------

func (s *APIServer) getPriceHistory(c *gin.Context) {
	symbol := strings.ToUpper(c.Param("symbol"))
	if _, ok := s.Engine.Registry.Lookup(symbol); !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("unknown symbol: %s", symbol)})
		return
	}
	c.JSON(http.StatusOK, gin.H{"symbol": symbol, "history": s.Engine.History(symbol)})
}

// -----------------------------------------------------------------------------

func (s *APIServer) getTickers(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"tickers": s.Engine.Registry.All()})
}

// -----------------------------------------------------------------------------

func (s *APIServer) postTicker(c *gin.Context) {
	var req models.MRegisterTickerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	t, err := s.Engine.RegisterTicker(req.Symbol, req.DisplayName)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, t)
}

// -----------------------------------------------------------------------------
// Trade Handlers
// -----------------------------------------------------------------------------

type tradeFunc func(p *models.MPortfolio, symbol string, quantity, unitPrice int64, feeRate float64) (int64, error)

func (s *APIServer) postBuy(c *gin.Context) {
	s.executeTrade(c, models.ActionBuy, ledger.Buy)
}

func (s *APIServer) postSell(c *gin.Context) {
	s.executeTrade(c, models.ActionSell, ledger.Sell)
}

// executeTrade prices the symbol from the current engine state, applies the
// ledger operation to a freshly loaded record and persists the result. The
// whole read-modify-write runs under the per-username lock.
func (s *APIServer) executeTrade(c *gin.Context, action string, trade tradeFunc) {
	username := c.GetString("username")

	var req models.MTradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	symbol := strings.ToUpper(strings.TrimSpace(req.Symbol))
	if _, ok := s.Engine.Registry.Lookup(symbol); !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("unknown symbol: %s", symbol)})
		return
	}

	// Current price for the chosen symbol; this advances the price state
	// machine, the same as any other price query.
	var unitPrice int64
	for _, snap := range s.Engine.GetAllPrices() {
		if snap.Symbol == symbol {
			unitPrice = snap.Price
			break
		}
	}
	if unitPrice <= 0 {
		c.JSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("no price available for %s", symbol)})
		return
	}

	mu := s.lockUser(username)
	mu.Lock()
	defer mu.Unlock()

	record, err := s.Store.Get(username)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	amount, err := trade(&record.Portfolio, symbol, req.Quantity, unitPrice, s.Config.Trading.FeeRate)
	if err != nil {
		s.renderTradeError(c, err)
		return
	}

	if err := s.Store.Save(record); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, models.MTradeResponse{
		Action:    action,
		Symbol:    symbol,
		Quantity:  req.Quantity,
		UnitPrice: unitPrice,
		Amount:    amount,
		Cash:      record.Portfolio.Cash,
	})
}

// -----------------------------------------------------------------------------

// renderTradeError maps ledger outcomes to HTTP statuses. Insufficient
// funds/holdings are expected results presented as user feedback.
func (s *APIServer) renderTradeError(c *gin.Context, err error) {
	var verr *helpers.ValidationError
	var funds *ledger.InsufficientFundsError
	var holdings *ledger.InsufficientHoldingsError

	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.As(err, &funds):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error(), "needed": funds.Needed, "available": funds.Available})
	case errors.As(err, &holdings):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error(), "requested": holdings.Requested, "held": holdings.Held})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

// -----------------------------------------------------------------------------
// Account Handlers
// -----------------------------------------------------------------------------

func (s *APIServer) getPortfolio(c *gin.Context) {
	username := c.GetString("username")

	record, err := s.Store.Get(username)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"username": record.Username, "portfolio": record.Portfolio})
}

// -----------------------------------------------------------------------------

func (s *APIServer) getLeaderboard(c *gin.Context) {
	records, err := s.Store.ListAll()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"leaderboard": leaderboard.Rank(records)})
}

// -----------------------------------------------------------------------------
// Admin Handlers
// -----------------------------------------------------------------------------

func (s *APIServer) postAdminUser(c *gin.Context) {
	s.postSignup(c)
}

// -----------------------------------------------------------------------------

func (s *APIServer) deleteAdminUser(c *gin.Context) {
	username := c.Param("username")
	if err := s.Store.Delete(username); err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": username})
}

// -----------------------------------------------------------------------------

func (s *APIServer) getHealth(c *gin.Context) {
	s.stateMutex.RLock()
	connections := len(s.clients)
	timestamp := s.latestState.Timestamp
	s.stateMutex.RUnlock()

	c.JSON(http.StatusOK, gin.H{
		"status":        "ok",
		"connections":   connections,
		"latest_update": timestamp,
	})
}
