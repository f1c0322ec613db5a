// Package rpc exposes the staking pool over HTTP: one endpoint per public
// ledger operation, read views, an event feed, and the owner-gated
// administrative surface. Error bodies carry stable reason codes so callers
// can assert on the exact rejection cause.
package rpc

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/bidolabs/bidopool-go/identity"
	"github.com/bidolabs/bidopool-go/staking"
	"github.com/bidolabs/bidopool-go/store"
)

// Server wires the staking controller to the HTTP API.
type Server struct {
	controller *staking.Controller
	store      *store.Store
	outbox     *staking.Outbox
	auth       *TokenAuth
	logger     *slog.Logger
	metrics    *metrics
}

// Option configures a Server.
type Option func(*Server)

// WithStore persists a snapshot after every successful operation and
// serves the event feed from the database.
func WithStore(st *store.Store) Option {
	return func(s *Server) { s.store = st }
}

// WithOutbox serves per-holder payout credits from ob.
func WithOutbox(ob *staking.Outbox) Option {
	return func(s *Server) { s.outbox = ob }
}

// WithAuth enables the owner endpoints behind the given token verifier.
func WithAuth(auth *TokenAuth) Option {
	return func(s *Server) { s.auth = auth }
}

// NewServer creates a Server around the controller.
func NewServer(controller *staking.Controller, logger *slog.Logger, opts ...Option) *Server {
	s := &Server{
		controller: controller,
		logger:     logger,
		metrics:    newMetrics(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.store != nil {
		// Persist each event as it is emitted; the sink runs under the
		// controller lock and must not call back in.
		s.controller.Subscribe(func(ev staking.Event) {
			if err := s.store.AppendEvent(ev); err != nil {
				s.logger.Error("persist event", slog.String("error", err.Error()), slog.Uint64("seq", ev.Seq))
			}
		})
	}
	return s
}

// Router builds the chi router for the API.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(requestLogger(s.logger))
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Route("/v1", func(r chi.Router) {
		r.Post("/initialize", s.handleInitialize)
		r.Post("/stake", s.handleStake)
		r.Post("/receive", s.handleReceive)
		r.Post("/unstake", s.handleUnstake)
		r.Post("/reward", s.handleReward)
		r.Post("/transfer", s.handleTransfer)

		r.Route("/admin", func(r chi.Router) {
			r.Use(s.requireAdmin)
			r.Post("/pause-staking", s.adminHandler("pause_staking", s.controller.PauseStaking))
			r.Post("/resume-staking", s.adminHandler("resume_staking", s.controller.ResumeStaking))
			r.Post("/stop", s.adminHandler("stop", s.controller.Stop))
			r.Post("/resume", s.adminHandler("resume", s.controller.Resume))
			r.Post("/transfer-ownership", s.handleTransferOwnership)
		})

		r.Get("/pool", s.handlePool)
		r.Get("/holders/{holder}", s.handleHolder)
		r.Get("/payouts/{holder}", s.handlePayout)
		r.Get("/events", s.handleEvents)
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, r, map[string]string{"status": "ok"})
	})
	r.Method(http.MethodGet, "/metrics", s.metrics.handler())
	return r
}

// fail renders the error envelope and counts the failure.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, op string, err error) {
	status, code := reasonCode(err)
	s.metrics.failures.WithLabelValues(op, code).Inc()
	render.Status(r, status)
	render.JSON(w, r, errorBody{Error: err.Error(), Code: code})
}

// badRequest renders a 400 for malformed input.
func (s *Server) badRequest(w http.ResponseWriter, r *http.Request, op string, err error) {
	s.metrics.failures.WithLabelValues(op, CodeBadRequest).Inc()
	render.Status(r, http.StatusBadRequest)
	render.JSON(w, r, errorBody{Error: err.Error(), Code: CodeBadRequest})
}

// done counts a successful operation and persists the snapshot.
func (s *Server) done(op string) {
	s.metrics.ops.WithLabelValues(op).Inc()
	if s.store == nil {
		return
	}
	if err := s.store.SaveSnapshot(s.controller.Snapshot()); err != nil {
		s.logger.Error("persist snapshot", slog.String("error", err.Error()))
	}
}

func (s *Server) handleInitialize(w http.ResponseWriter, r *http.Request) {
	const op = "initialize"
	var req initializeRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		s.badRequest(w, r, op, err)
		return
	}
	caller, err := parseHolder("caller", req.Caller)
	if err != nil {
		s.badRequest(w, r, op, err)
		return
	}
	if err := s.controller.Initialize(caller, req.Value); err != nil {
		s.fail(w, r, op, err)
		return
	}
	s.done(op)
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, s.poolView())
}

func (s *Server) handleStake(w http.ResponseWriter, r *http.Request) {
	const op = "stake"
	var req stakeRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		s.badRequest(w, r, op, err)
		return
	}
	caller, err := parseHolder("caller", req.Caller)
	if err != nil {
		s.badRequest(w, r, op, err)
		return
	}
	referral, err := parseReferral(req.Referral)
	if err != nil {
		s.badRequest(w, r, op, err)
		return
	}
	if err := s.controller.Stake(caller, referral, req.Value); err != nil {
		s.fail(w, r, op, err)
		return
	}
	s.done(op)
	render.JSON(w, r, s.holderView(caller))
}

func (s *Server) handleReceive(w http.ResponseWriter, r *http.Request) {
	const op = "receive"
	var req receiveRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		s.badRequest(w, r, op, err)
		return
	}
	caller, err := parseHolder("caller", req.Caller)
	if err != nil {
		s.badRequest(w, r, op, err)
		return
	}
	payload, err := parsePayload(req.Payload)
	if err != nil {
		s.badRequest(w, r, op, err)
		return
	}
	if err := s.controller.Receive(caller, req.Value, payload); err != nil {
		s.fail(w, r, op, err)
		return
	}
	s.done(op)
	render.JSON(w, r, s.holderView(caller))
}

func (s *Server) handleUnstake(w http.ResponseWriter, r *http.Request) {
	const op = "unstake"
	var req unstakeRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		s.badRequest(w, r, op, err)
		return
	}
	caller, err := parseHolder("caller", req.Caller)
	if err != nil {
		s.badRequest(w, r, op, err)
		return
	}
	amount := staking.ExactShares(req.Shares)
	if req.All {
		amount = staking.AllShares()
	}
	value, err := s.controller.Unstake(caller, amount)
	if err != nil {
		s.fail(w, r, op, err)
		return
	}
	s.done(op)
	render.JSON(w, r, unstakeResponse{Value: value})
}

func (s *Server) handleReward(w http.ResponseWriter, r *http.Request) {
	const op = "reward"
	var req rewardRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		s.badRequest(w, r, op, err)
		return
	}
	caller, err := parseHolder("caller", req.Caller)
	if err != nil {
		s.badRequest(w, r, op, err)
		return
	}
	if err := s.controller.DistributeReward(caller, req.Value); err != nil {
		s.fail(w, r, op, err)
		return
	}
	s.done(op)
	render.JSON(w, r, s.poolView())
}

func (s *Server) handleTransfer(w http.ResponseWriter, r *http.Request) {
	const op = "transfer"
	var req transferRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		s.badRequest(w, r, op, err)
		return
	}
	caller, err := parseHolder("caller", req.Caller)
	if err != nil {
		s.badRequest(w, r, op, err)
		return
	}
	to, err := parseHolder("to", req.To)
	if err != nil {
		s.badRequest(w, r, op, err)
		return
	}
	if err := s.controller.Transfer(caller, to, req.Value); err != nil {
		s.fail(w, r, op, err)
		return
	}
	s.done(op)
	render.JSON(w, r, s.holderView(caller))
}

// adminHandler wraps the single-argument owner operations.
func (s *Server) adminHandler(op string, fn func(caller identity.Holder) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req adminRequest
		if err := render.DecodeJSON(r.Body, &req); err != nil {
			s.badRequest(w, r, op, err)
			return
		}
		caller, err := parseHolder("caller", req.Caller)
		if err != nil {
			s.badRequest(w, r, op, err)
			return
		}
		if err := fn(caller); err != nil {
			s.fail(w, r, op, err)
			return
		}
		s.done(op)
		render.JSON(w, r, s.poolView())
	}
}

func (s *Server) handleTransferOwnership(w http.ResponseWriter, r *http.Request) {
	const op = "transfer_ownership"
	var req transferOwnershipRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		s.badRequest(w, r, op, err)
		return
	}
	caller, err := parseHolder("caller", req.Caller)
	if err != nil {
		s.badRequest(w, r, op, err)
		return
	}
	newOwner, err := parseHolder("new_owner", req.NewOwner)
	if err != nil {
		s.badRequest(w, r, op, err)
		return
	}
	if err := s.controller.TransferOwnership(caller, newOwner); err != nil {
		s.fail(w, r, op, err)
		return
	}
	s.done(op)
	render.JSON(w, r, s.poolView())
}

func (s *Server) handlePool(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, s.poolView())
}

func (s *Server) handleHolder(w http.ResponseWriter, r *http.Request) {
	holder, err := parseHolder("holder", chi.URLParam(r, "holder"))
	if err != nil {
		s.badRequest(w, r, "holder", err)
		return
	}
	render.JSON(w, r, s.holderView(holder))
}

func (s *Server) handlePayout(w http.ResponseWriter, r *http.Request) {
	holder, err := parseHolder("holder", chi.URLParam(r, "holder"))
	if err != nil {
		s.badRequest(w, r, "payout", err)
		return
	}
	if s.outbox == nil {
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, errorBody{Error: "payout tracking disabled", Code: CodeNotFound})
		return
	}
	render.JSON(w, r, payoutResponse{Holder: holder.String(), Credited: s.outbox.Credited(holder)})
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	since, limit := uint64(0), 0
	if v := r.URL.Query().Get("since"); v != "" {
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			s.badRequest(w, r, "events", err)
			return
		}
		since = n
	}
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			s.badRequest(w, r, "events", errInvalidLimit)
			return
		}
		limit = n
	}

	events, err := s.listEvents(since, limit)
	if err != nil {
		s.fail(w, r, "events", err)
		return
	}
	out := make([]eventResponse, 0, len(events))
	for _, ev := range events {
		out = append(out, eventView(ev))
	}
	render.JSON(w, r, out)
}

// listEvents reads from the database when one is attached, falling back to
// the in-memory journal.
func (s *Server) listEvents(since uint64, limit int) ([]staking.Event, error) {
	if s.store != nil {
		return s.store.ListEvents(since, limit)
	}
	var events []staking.Event
	for _, ev := range s.controller.Events() {
		if ev.Seq < since {
			continue
		}
		events = append(events, ev)
		if limit > 0 && len(events) == limit {
			break
		}
	}
	return events, nil
}

func (s *Server) poolView() poolResponse {
	snap := s.controller.Snapshot()
	return poolResponse{
		Initialized:      snap.Initialized,
		Owner:            snap.Owner.String(),
		StakingPaused:    snap.StakingPaused,
		TransfersStopped: snap.TransfersStopped,
		TotalShares:      snap.TotalShares,
		TotalPooled:      snap.TotalPooled,
	}
}

func (s *Server) holderView(holder identity.Holder) holderResponse {
	shares := s.controller.SharesOf(holder)
	balance, err := s.controller.BalanceOf(holder)
	if err != nil {
		balance = 0
	}
	return holderResponse{Holder: holder.String(), Shares: shares, Balance: balance}
}

func eventView(ev staking.Event) eventResponse {
	out := eventResponse{
		ID:     ev.ID.String(),
		Seq:    ev.Seq,
		Type:   string(ev.Type),
		Holder: ev.Holder.String(),
		Value:  ev.Value,
		Shares: ev.Shares,
		Time:   ev.Time.UTC().Format(time.RFC3339Nano),
	}
	if !ev.Counterparty.IsZero() {
		out.Counterparty = ev.Counterparty.String()
	}
	if !ev.Referral.IsZero() {
		out.Referral = ev.Referral.String()
	}
	return out
}
