package rest

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/fabvote/fabvote-gateway"
	"github.com/fabvote/fabvote-gateway/internal/domain"
	"github.com/fabvote/fabvote-gateway/internal/present/rest/presenter"
	"github.com/fabvote/fabvote-gateway/internal/service"
	"github.com/fabvote/fabvote-gateway/internal/usecase"
)

const (
	registerFailurePrefix = "******** FAILED to run the application: "

	defaultTransactionLimit = 20
	maxTransactionLimit     = 100
)

type Handler struct {
	info     Info
	election *usecase.ElectionUsecase
	ledger   *usecase.LedgerUsecase
	session  *service.SessionService
	events   EventSource
	upgrader websocket.Upgrader
}

// Info describes the bound contract for /health and the browser origin
// allowed to open /realtime.
type Info struct {
	Channel     string
	Contract    string
	AllowOrigin string
}

// EventSource streams ledger events into output until ctx is done.
type EventSource interface {
	Realtime(ctx context.Context, output chan<- fabvote.Event)
}

// NewHandler builds the handler. events may be nil, in which case
// /realtime answers 404.
func NewHandler(
	info Info,
	election *usecase.ElectionUsecase,
	ledger *usecase.LedgerUsecase,
	session *service.SessionService,
	events EventSource,
) *Handler {
	return &Handler{
		info:     info,
		election: election,
		ledger:   ledger,
		session:  session,
		events:   events,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     sameOrigin(info.AllowOrigin),
		},
	}
}

func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.GET("/", h.handleHello)
	e.POST("/registerUser", h.handleRegisterUser)
	e.POST("/loginUser", h.handleLoginUser)
	e.GET("/logoutUser", h.handleLogoutUser)
	e.POST("/showallCandidate", h.handleShowAllCandidates)
	e.POST("/showallElections", h.handleShowAllElections)
	e.POST("/createElection", h.handleCreateElection)
	e.POST("/addCandidate", h.handleAddCandidate)
	e.POST("/votecasting", h.handleVoteCasting)
	e.POST("/stopelection", h.handleStopElection)
	e.POST("/calculateResult", h.handleCalculateResult)

	e.GET("/health", h.handleHealth)
	e.GET("/transactions", h.handleTransactions)
	e.GET("/transactions/:id", h.handleTransaction)
	e.GET("/realtime", h.handleRealtime)
}

func (h *Handler) handleHello(c echo.Context) error {
	result, err := h.election.SayHello(c.Request().Context())
	if err != nil {
		return presenter.Fail(c, err, "error: "+err.Error())
	}
	return presenter.Raw(c, result)
}

func (h *Handler) handleRegisterUser(c echo.Context) error {
	ctx := c.Request().Context()

	var req fabvote.RegisterUserRequest
	err := c.Bind(&req)
	if err != nil {
		return presenter.Fail(c, invalidBody(err), registerFailurePrefix+err.Error())
	}

	id, err := h.election.RegisterUser(ctx, req)
	if err != nil {
		return presenter.Fail(c, err, registerFailurePrefix+err.Error())
	}

	slog.InfoContext(ctx, "user registered", slog.String("id", id), slog.String("module", "rest"))
	return presenter.OK(c, fabvote.StatusResponse{Status: "register user successful"})
}

func (h *Handler) handleLoginUser(c echo.Context) error {
	ctx := c.Request().Context()

	var req fabvote.LoginUserRequest
	err := c.Bind(&req)
	if err != nil {
		return presenter.FailJSON(c, invalidBody(err))
	}

	result, err := h.election.LoginUser(ctx, req)
	if err != nil {
		return presenter.FailJSON(c, err)
	}

	value, err := h.session.Encode(ctx, result.Raw)
	if err != nil {
		return presenter.FailJSON(c, err)
	}

	c.SetCookie(&http.Cookie{
		Name:     domain.UserCookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   int(domain.UserCookieTTL / time.Second),
		Expires:  time.Now().Add(domain.UserCookieTTL),
		HttpOnly: true,
	})
	return presenter.Raw(c, result.Raw)
}

func (h *Handler) handleLogoutUser(c echo.Context) error {
	c.SetCookie(&http.Cookie{
		Name:     domain.UserCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
	})
	return presenter.Text(c, "You have successfully Logged out")
}

func (h *Handler) handleShowAllCandidates(c echo.Context) error {
	var req fabvote.ElectionIDRequest
	err := c.Bind(&req)
	if err != nil {
		return presenter.Fail(c, invalidBody(err), "Failed")
	}

	result, err := h.election.ShowAllCandidates(c.Request().Context(), req.ElectionID)
	if err != nil {
		return presenter.Fail(c, err, "Failed")
	}
	return presenter.Raw(c, result)
}

func (h *Handler) handleShowAllElections(c echo.Context) error {
	var req fabvote.ShowAllElectionsRequest
	err := c.Bind(&req)
	if err != nil {
		return presenter.Fail(c, invalidBody(err), "Failed")
	}

	result, err := h.election.ShowAllElections(c.Request().Context(), req.Doctype)
	if err != nil {
		return presenter.Fail(c, err, "Failed")
	}
	return presenter.Raw(c, result)
}

func (h *Handler) handleCreateElection(c echo.Context) error {
	var req fabvote.CreateElectionRequest
	err := c.Bind(&req)
	if err != nil {
		return presenter.Fail(c, invalidBody(err), "error: "+err.Error())
	}

	err = h.election.CreateElection(c.Request().Context(), req)
	if err != nil {
		return presenter.Fail(c, err, "error: "+err.Error())
	}
	return presenter.Text(c, "Election Created")
}

func (h *Handler) handleAddCandidate(c echo.Context) error {
	var req fabvote.AddCandidateRequest
	err := c.Bind(&req)
	if err != nil {
		return presenter.Fail(c, invalidBody(err), "error: "+err.Error())
	}

	err = h.election.AddCandidate(c.Request().Context(), req)
	if err != nil {
		return presenter.Fail(c, err, "error: "+err.Error())
	}
	return presenter.Text(c, "Candidate Created")
}

func (h *Handler) handleVoteCasting(c echo.Context) error {
	ctx := c.Request().Context()

	var req fabvote.VoteCastingRequest
	err := c.Bind(&req)
	if err != nil {
		return presenter.Fail(c, invalidBody(err), "error: "+err.Error())
	}

	user, _ := c.Get(domain.RequesterCtxKey).(*fabvote.User)

	id, err := h.election.VoteCasting(ctx, user, req)
	if err != nil {
		return presenter.Fail(c, err, "error: "+err.Error())
	}

	slog.InfoContext(ctx, "vote casted", slog.String("id", id), slog.String("module", "rest"))
	return presenter.OK(c, fabvote.StatusResponse{Status: "Vote Casted"})
}

func (h *Handler) handleStopElection(c echo.Context) error {
	var req fabvote.StopElectionRequest
	err := c.Bind(&req)
	if err != nil {
		return presenter.Fail(c, invalidBody(err), "error: "+err.Error())
	}

	err = h.election.StopElection(c.Request().Context(), req.ID)
	if err != nil {
		return presenter.Fail(c, err, "error: "+err.Error())
	}
	return presenter.Text(c, "Election stopped")
}

func (h *Handler) handleCalculateResult(c echo.Context) error {
	var req fabvote.ElectionIDRequest
	err := c.Bind(&req)
	if err != nil {
		return presenter.Fail(c, invalidBody(err), "error: "+err.Error())
	}

	result, err := h.election.CalculateResult(c.Request().Context(), req.ElectionID)
	if err != nil {
		return presenter.Fail(c, err, "error: "+err.Error())
	}
	return presenter.Raw(c, result)
}

func (h *Handler) handleHealth(c echo.Context) error {
	return presenter.OK(c, echo.Map{
		"status":   "ok",
		"channel":  h.info.Channel,
		"contract": h.info.Contract,
	})
}

func (h *Handler) handleTransactions(c echo.Context) error {
	if !h.ledger.HasTransactionLog() {
		return presenter.NotFound(c, "transaction log is disabled")
	}

	limit := defaultTransactionLimit
	if limitStr := c.QueryParam("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil || parsed <= 0 {
			return presenter.BadRequestMessage(c, "invalid limit")
		}
		limit = min(parsed, maxTransactionLimit)
	}

	entries, err := h.ledger.ListTransactions(c.Request().Context(), limit)
	if err != nil {
		return presenter.InternalError(c, err)
	}
	return presenter.OK(c, entries)
}

func (h *Handler) handleTransaction(c echo.Context) error {
	entry, err := h.ledger.GetTransaction(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return presenter.NotFound(c, err.Error())
		}
		return presenter.InternalError(c, err)
	}
	return presenter.OK(c, entry)
}

func invalidBody(err error) error {
	return domain.NewLedgerError(domain.KindInvalidInput, "", err)
}

// sameOrigin admits requests without an Origin header (non-browser
// clients) and browsers on the configured origin.
func sameOrigin(allowOrigin string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get(echo.HeaderOrigin)
		return origin == "" || origin == allowOrigin
	}
}

type Request struct {
	Type string `json:"type"`
}

func (h *Handler) handleRealtime(c echo.Context) error {
	if h.events == nil {
		return presenter.NotFound(c, "realtime events are disabled")
	}

	ws, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		slog.Error(
			"Failed to upgrade WebSocket",
			slog.String("error", err.Error()),
			slog.String("module", "socket"),
		)
		return err
	}
	defer func() {
		ws.Close()
	}()

	ctx, cancel := context.WithCancel(c.Request().Context())
	defer cancel()

	output := make(chan fabvote.Event)
	go h.events.Realtime(ctx, output)

	quit := make(chan struct{})

	go func() {
		defer close(quit)
		for {
			var req Request
			err := ws.ReadJSON(&req)
			if err != nil {

				wsErr, ok := err.(*websocket.CloseError)
				if ok {
					if !(wsErr.Code == websocket.CloseNormalClosure || wsErr.Code == websocket.CloseGoingAway) {
						slog.DebugContext(
							ctx, "WebSocket closed",
							slog.String("error", wsErr.Error()),
							slog.String("module", "socket"),
						)
					}
				} else {
					slog.ErrorContext(
						ctx, "Error reading message",
						slog.String("error", err.Error()),
						slog.String("module", "socket"),
					)
				}
				return
			}

			switch req.Type {
			case "h": // heartbeat
				// do nothing
			default:
				slog.InfoContext(
					ctx, "Unknown request type",
					slog.String("type", req.Type),
					slog.String("module", "socket"),
				)
			}
		}
	}()

	for {
		select {
		case <-quit:
			return nil
		case event := <-output:
			err := ws.WriteJSON(event)
			if err != nil {
				slog.ErrorContext(
					ctx, "Error writing message",
					slog.String("error", err.Error()),
					slog.String("module", "socket"),
				)
				return nil
			}
		}
	}
}
