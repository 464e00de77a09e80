package api

import (
	"context"
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rawblock/carcassonne-engine/internal/engine"
	"github.com/rawblock/carcassonne-engine/internal/evaluate"
	"github.com/rawblock/carcassonne-engine/internal/rescan"
	"github.com/rawblock/carcassonne-engine/internal/shadow"
	"github.com/rawblock/carcassonne-engine/internal/solver"
	"github.com/rawblock/carcassonne-engine/internal/store"
	"github.com/rawblock/carcassonne-engine/pkg/models"
)

// APIHandler is a thin collaborator: it never reimplements
// rule/scoring/AI logic, only translates HTTP requests into calls
// against internal/engine, internal/evaluate, and internal/solver, and
// persists the result through internal/store.
type APIHandler struct {
	store     *store.Store
	wsHub     *Hub
	rescanner *rescan.Scanner
	shadow    *shadow.Runner
}

// SetupRouter builds the gin.Engine's CORS/public/protected group shape:
// a public group (health, move stream) and a bearer-token-gated,
// rate-limited group (submit move, request AI pick, request solve).
func SetupRouter(st *store.Store, wsHub *Hub, rescanner *rescan.Scanner) *gin.Engine {
	r := gin.Default()

	allowedOrigins := os.Getenv("ALLOWED_ORIGINS")
	r.Use(func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if allowedOrigins == "" || allowedOrigins == "*" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		} else {
			for _, allowed := range strings.Split(allowedOrigins, ",") {
				if strings.TrimSpace(allowed) == origin {
					c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
					break
				}
			}
		}
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})

	handler := &APIHandler{store: st, wsHub: wsHub, rescanner: rescanner, shadow: shadow.NewRunner(st)}

	pub := r.Group("/api/v1")
	{
		pub.GET("/health", handler.handleHealth)
		pub.GET("/stream", wsHub.Subscribe)
	}

	auth := r.Group("/api/v1")
	auth.Use(AuthMiddleware())
	auth.Use(NewRateLimiter(30, 10).Middleware())
	{
		games := auth.Group("/games")
		games.POST("", handler.handleCreateGame)
		games.GET("/:id", handler.handleGetGame)
		games.POST("/:id/moves", handler.handleSubmitMove)
		games.POST("/:id/ai-move", handler.handleAIMove)
		games.POST("/:id/solve", handler.handleSolve)
		games.POST("/:id/rate-move", handler.handleRateMove)
		games.POST("/:id/final-pass", handler.handleFinalPass)
		games.GET("/:id/evaluate", handler.handleEvaluate)
		games.GET("/:id/shadow-compare", handler.handleShadowCompare)

		auth.POST("/rescan", handler.handleStartRescan)
		auth.GET("/rescan/progress", handler.handleRescanProgress)
	}

	return r
}

func (h *APIHandler) gameID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid game id"})
		return uuid.UUID{}, false
	}
	return id, true
}

// handleCreateGame provisions a new game between two already-known
// player ids.
func (h *APIHandler) handleCreateGame(c *gin.Context) {
	var req struct {
		Player0 uuid.UUID `json:"player0"`
		Player1 uuid.UUID `json:"player1"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	id, err := h.store.CreateGame(c.Request.Context(), req.Player0, req.Player1)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"gameId": id})
}

// handleGetGame replays the persisted move log and returns the current
// current Status.
func (h *APIHandler) handleGetGame(c *gin.Context) {
	id, ok := h.gameID(c)
	if !ok {
		return
	}
	moves, err := h.store.LoadMoves(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	status, err := engine.Replay(moves)
	if err != nil {
		writeEngineError(c, err)
		return
	}
	c.JSON(http.StatusOK, status)
}

// submitMoveRequest is the wire shape for a single move, covering all
// three MoveKind variants with nullable fields.
type submitMoveRequest struct {
	MoveKind  models.MoveKind `json:"moveKind"`
	Player    int             `json:"player"`
	Kind      models.Kind     `json:"kind"`
	Rotation  int             `json:"rotation"`
	PosY      int             `json:"posY"`
	PosX      int             `json:"posX"`
	TokenID   int             `json:"tokenId"`
	RegionIdx int             `json:"regionIdx"`
}

func (req submitMoveRequest) toMove(ordinal int) models.Move {
	pos := models.Position{Y: req.PosY, X: req.PosX}
	switch req.MoveKind {
	case models.MoveTile:
		return models.NewTileMove(models.TileMove{Ordinal: ordinal, Player: req.Player, Kind: req.Kind, Rotation: req.Rotation, Position: pos})
	case models.MoveToken:
		tokenID, regionIdx := models.NoToken, models.NoRegion
		if req.TokenID != 0 || req.RegionIdx != 0 {
			tokenID, regionIdx = req.TokenID, req.RegionIdx
		}
		return models.NewTokenMove(models.TokenMove{Ordinal: ordinal, Player: req.Player, TokenID: tokenID, RegionIdx: regionIdx, Position: pos})
	default:
		return models.NewDiscardMove(models.DiscardMove{Ordinal: ordinal, Player: req.Player, Kind: req.Kind})
	}
}

// handleSubmitMove validates one move against the persisted log by
// replaying the extended list through engine.Replay before persisting
// it — a move is never written unless the whole resulting log is
// still legal.
func (h *APIHandler) handleSubmitMove(c *gin.Context) {
	id, ok := h.gameID(c)
	if !ok {
		return
	}
	var req submitMoveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	ctx := c.Request.Context()
	moves, err := h.store.LoadMoves(ctx, id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	nextOrdinal := 0
	if len(moves) > 0 {
		nextOrdinal = moves[len(moves)-1].Ordinal() + 1
	}
	mv := req.toMove(nextOrdinal)
	candidate := append(append([]models.Move{}, moves...), mv)

	status, err := engine.Replay(candidate)
	if err != nil {
		writeEngineError(c, err)
		return
	}
	if err := h.store.AppendMove(ctx, id, mv); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	for _, closure := range status.ClosureEvents {
		h.wsHub.BroadcastJSON(gin.H{"type": "closure", "gameId": id, "closure": closure})
	}
	c.JSON(http.StatusOK, status)
}

// handleAIMove returns the greedy AI's pick for a drawn kind, without
// persisting anything — a pure advisory query.
func (h *APIHandler) handleAIMove(c *gin.Context) {
	id, ok := h.gameID(c)
	if !ok {
		return
	}
	var req struct {
		Player int         `json:"player"`
		Kind   models.Kind `json:"kind"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	moves, err := h.store.LoadMoves(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	decision, ok2, err := solver.Greedy(moves, req.Player, req.Kind)
	if err != nil {
		writeEngineError(c, err)
		return
	}
	if !ok2 {
		c.JSON(http.StatusOK, gin.H{"noLegalPlacement": true})
		return
	}
	c.JSON(http.StatusOK, decision)
}

// handleSolve runs the exhaustive endgame search,
// refusing outside the bag's last one or two tiles where the search is
// intractable.
func (h *APIHandler) handleSolve(c *gin.Context) {
	id, ok := h.gameID(c)
	if !ok {
		return
	}
	var req struct {
		Player int         `json:"player"`
		Kind   models.Kind `json:"kind"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	moves, err := h.store.LoadMoves(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	k, err := engine.BuildKernel(moves)
	if err != nil {
		writeEngineError(c, err)
		return
	}
	if !solver.IsEndgame(k.RemainingBag()) {
		c.JSON(http.StatusConflict, gin.H{"error": "exhaustive solve is only available in the endgame (bag has 1-2 tiles left)"})
		return
	}
	outcomes, err := solver.Solve(moves, req.Player, req.Kind)
	if err != nil {
		writeEngineError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"outcomes": outcomes})
}

// handleRateMove is the supplemental puzzle/rating endpoint
// original_source/backend/src/game/rating.rs and problem.rs describe:
// given a move the player actually played, classify it against the
// exhaustive solver's verdict for the same drawn kind.
func (h *APIHandler) handleRateMove(c *gin.Context) {
	id, ok := h.gameID(c)
	if !ok {
		return
	}
	var req struct {
		Player   int         `json:"player"`
		Kind     models.Kind `json:"kind"`
		Rotation int         `json:"rotation"`
		PosY     int         `json:"posY"`
		PosX     int         `json:"posX"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	moves, err := h.store.LoadMoves(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	k, err := engine.BuildKernel(moves)
	if err != nil {
		writeEngineError(c, err)
		return
	}
	if !solver.IsEndgame(k.RemainingBag()) {
		c.JSON(http.StatusConflict, gin.H{"error": "move rating is only available in the endgame"})
		return
	}
	outcomes, err := solver.Solve(moves, req.Player, req.Kind)
	if err != nil {
		writeEngineError(c, err)
		return
	}
	var played *solver.MoveOutcome
	for i, o := range outcomes {
		if o.Placement.Position.Y == req.PosY && o.Placement.Position.X == req.PosX && o.Placement.Rotation == req.Rotation {
			played = &outcomes[i]
			break
		}
	}
	if played == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "played move not found among legal placements"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"rating": played.Outcome, "allOutcomes": outcomes})
}

// handleFinalPass runs and persists the end-of-game scoring sweep for a
// completed game.
func (h *APIHandler) handleFinalPass(c *gin.Context) {
	id, ok := h.gameID(c)
	if !ok {
		return
	}
	moves, err := h.store.LoadMoves(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	status, err := engine.FinalPass(moves)
	if err != nil {
		writeEngineError(c, err)
		return
	}
	if err := h.store.MarkFinalPassApplied(c.Request.Context(), id, status.Score[0], status.Score[1]); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, status)
}

// handleEvaluate returns the live evaluator's current per-player margin
// estimate for a game-in-progress, for dashboards that want a read-only
// score projection without driving a move.
func (h *APIHandler) handleEvaluate(c *gin.Context) {
	id, ok := h.gameID(c)
	if !ok {
		return
	}
	moves, err := h.store.LoadMoves(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	scores, err := evaluate.Evaluate(moves)
	if err != nil {
		writeEngineError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"scores": scores})
}

// handleShadowCompare runs the production evaluator against the frozen
// legacy one for this game's current move log, for the migration
// dashboard watching whether the two agree on who's ahead.
func (h *APIHandler) handleShadowCompare(c *gin.Context) {
	id, ok := h.gameID(c)
	if !ok {
		return
	}
	result, err := h.shadow.Compare(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}

// handleStartRescan launches internal/rescan's backfill sweep.
func (h *APIHandler) handleStartRescan(c *gin.Context) {
	if h.rescanner == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "rescanner not initialized"})
		return
	}
	h.rescanner.Sweep(context.Background(), 500)
	c.JSON(http.StatusOK, gin.H{"status": "sweep_started"})
}

func (h *APIHandler) handleRescanProgress(c *gin.Context) {
	if h.rescanner == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "rescanner not initialized"})
		return
	}
	c.JSON(http.StatusOK, h.rescanner.GetProgress())
}

// handleHealth returns engine status for service discovery.
func (h *APIHandler) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "operational",
		"engine": "Carcassonne region engine",
		"capabilities": gin.H{
			"greedyAI":        true,
			"exhaustiveSolve": true,
			"rateMoveApi":     true,
			"shadowEvaluator": true,
		},
		"storeConnected": h.store != nil,
	})
}

// writeEngineError maps the engine's two error types to HTTP status
// codes: an invalid move list is a client error, anything else is ours.
func writeEngineError(c *gin.Context, err error) {
	if invalidErr, ok := err.(*engine.MovesInvalidError); ok {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": invalidErr.Error(), "reason": invalidErr.Reason.String()})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}
