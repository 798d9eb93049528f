package game

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/lox/holdem/internal/randutil"
	"github.com/lox/holdem/poker"
)

// HandConfig carries the table settings passed to StartHand
type HandConfig struct {
	SmallBlind int
	BigBlind   int
	Seed       int64
	Button     int
	Rules      *Rules      // nil selects DefaultRules
	Deck       *poker.Deck // Optional prepared deck for the first hand
}

// Engine drives hands step by step. It is the only owner of the HandState; callers
// see snapshots. Nothing in the engine blocks: seats without a decision make
// Advance return so the caller can collect input and call ApplyAction.
type Engine struct {
	logger *log.Logger
	cfg    HandConfig
	seats  []Seat
	hand   *HandState
	number int
}

// NewEngine creates an engine that logs through logger
func NewEngine(logger *log.Logger) *Engine {
	return &Engine{logger: logger.WithPrefix("engine")}
}

// HandID derives the identifier of a hand from the session seed and hand number
func HandID(seed int64, number int) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, fmt.Appendf(nil, "holdem/%d/%d", seed, number)).String()
}

// StartHand begins a new session with the given seats and deals its first hand
func (e *Engine) StartHand(seats []Seat, cfg HandConfig) error {
	e.cfg = cfg
	e.seats = slices.Clone(seats)
	e.number = 0
	e.hand = nil
	return e.deal(cfg.Button, cfg.Deck)
}

func (e *Engine) deal(button int, deck *poker.Deck) error {
	rules := DefaultRules()
	if e.cfg.Rules != nil {
		rules = *e.cfg.Rules
	}

	number := e.number + 1
	id := HandID(e.cfg.Seed, number)
	opts := []HandOption{WithRules(rules), WithHandID(id), WithHandNumber(number)}
	if deck != nil {
		opts = append(opts, WithDeck(deck))
	}

	rng := randutil.NewStream(e.cfg.Seed, uint64(number))
	hand, err := NewHand(rng, e.seats, button, e.cfg.SmallBlind, e.cfg.BigBlind, opts...)
	if hand == nil {
		return fmt.Errorf("start hand: %w", err)
	}
	e.number = number
	e.hand = hand

	e.logger.Info("Hand started",
		"hand", id,
		"number", number,
		"players", len(e.seats),
		"button", e.seats[button].Name,
		"blinds", fmt.Sprintf("%d/%d", e.cfg.SmallBlind, e.cfg.BigBlind))

	if err != nil {
		e.logger.Error("Hand aborted", "hand", id, "error", err)
		return err
	}
	if hand.IsComplete() {
		e.logResult()
	}
	return nil
}

// LegalActions returns the actions available to the player whose turn it is
func (e *Engine) LegalActions() LegalActions {
	if e.hand == nil {
		return LegalActions{Seat: -1}
	}
	return e.hand.LegalActions()
}

// ApplyAction applies an action for the player with the given ID
func (e *Engine) ApplyAction(playerID string, a Action) error {
	if e.hand == nil {
		return ErrNoHand
	}
	seat := e.hand.SeatOf(playerID)
	if seat < 0 {
		return &IllegalActionError{Seat: -1, Action: a, Constraint: ConstraintUnknownSeat, Detail: "no player " + playerID}
	}

	street := e.hand.Street
	if err := e.hand.Apply(seat, a); err != nil {
		if errors.Is(err, poker.ErrDeckExhausted) {
			e.logger.Error("Hand aborted", "hand", e.hand.ID, "error", err)
		}
		return err
	}

	e.logger.Debug("Player action",
		"hand", e.hand.Number,
		"street", street,
		"player", e.hand.Players[seat].Name,
		"action", a,
		"stack", e.hand.Players[seat].Stack)

	if e.hand.IsComplete() {
		e.logResult()
	}
	return nil
}

// Step asks the policy of the player to act for one decision and applies it.
// It returns ErrAwaitingInput when that seat has no decision yet. A policy error or
// an illegal choice is replaced by check, or fold when checking is not allowed.
func (e *Engine) Step() error {
	if e.hand == nil {
		return ErrNoHand
	}
	if e.hand.IsComplete() {
		return nil
	}

	seat := e.hand.ActionOn
	s := e.seats[seat]
	if s.Policy == nil {
		return ErrAwaitingInput
	}

	legal := e.hand.LegalActions()
	a, err := s.Policy.Decide(e.hand.SnapshotFor(seat))
	switch {
	case errors.Is(err, ErrAwaitingInput):
		return ErrAwaitingInput
	case err != nil:
		e.logger.Warn("Policy failed, using fallback", "player", s.Name, "error", err)
		a = CheckOrFold(legal)
	default:
		if verr := legal.Validate(a); verr != nil {
			e.logger.Warn("Policy chose illegal action, using fallback", "player", s.Name, "action", a, "error", verr)
			a = CheckOrFold(legal)
		}
	}
	return e.ApplyAction(s.ID, a)
}

// Advance lets policies act until a seat needs external input or the hand completes
func (e *Engine) Advance() error {
	if e.hand == nil {
		return ErrNoHand
	}
	for !e.hand.IsComplete() {
		if err := e.Step(); err != nil {
			if errors.Is(err, ErrAwaitingInput) {
				return nil
			}
			return err
		}
	}
	return nil
}

// NextHand carries stacks over, drops busted players, moves the button to the
// next player with chips and deals a new hand
func (e *Engine) NextHand() error {
	if e.hand == nil {
		return ErrNoHand
	}
	if !e.hand.IsComplete() {
		return ErrHandInProgress
	}

	for i, p := range e.hand.Players {
		e.seats[i].Stack = p.Stack
	}

	n := len(e.seats)
	buttonID := ""
	for i := 1; i <= n && buttonID == ""; i++ {
		if s := e.seats[(e.hand.Button+i)%n]; s.Stack > 0 {
			buttonID = s.ID
		}
	}

	var next []Seat
	button := 0
	for _, s := range e.seats {
		if s.Stack <= 0 {
			e.logger.Info("Player busted", "player", s.Name)
			continue
		}
		if s.ID == buttonID {
			button = len(next)
		}
		next = append(next, s)
	}
	if len(next) < 2 {
		return ErrNotEnoughPlayers
	}

	e.seats = next
	return e.deal(button, nil)
}

// CurrentState returns a full snapshot of the hand
func (e *Engine) CurrentState() Snapshot {
	if e.hand == nil {
		return Snapshot{ActionOn: -1, Viewer: -1, Legal: LegalActions{Seat: -1}}
	}
	return e.hand.Snapshot()
}

// StateFor returns the hand as seen by one player
func (e *Engine) StateFor(playerID string) (Snapshot, error) {
	if e.hand == nil {
		return Snapshot{}, ErrNoHand
	}
	seat := e.hand.SeatOf(playerID)
	if seat < 0 {
		return Snapshot{}, fmt.Errorf("state for %q: %w", playerID, &IllegalActionError{Seat: -1, Constraint: ConstraintUnknownSeat})
	}
	return e.hand.SnapshotFor(seat), nil
}

// IsHandComplete returns true when there is no hand in progress
func (e *Engine) IsHandComplete() bool {
	return e.hand == nil || e.hand.IsComplete()
}

// Actor returns the seat whose turn it is
func (e *Engine) Actor() (Seat, bool) {
	if e.hand == nil || e.hand.ActionOn < 0 {
		return Seat{}, false
	}
	s := e.seats[e.hand.ActionOn]
	s.Stack = e.hand.Players[e.hand.ActionOn].Stack
	return s, true
}

// Seats returns the current lineup with up to date stacks
func (e *Engine) Seats() []Seat {
	seats := slices.Clone(e.seats)
	if e.hand != nil {
		for i, p := range e.hand.Players {
			seats[i].Stack = p.Stack
		}
	}
	return seats
}

// HandNumber returns the number of the current hand within the session
func (e *Engine) HandNumber() int {
	return e.number
}

func (e *Engine) logResult() {
	h := e.hand
	if h.Aborted {
		return
	}
	winners := make([]string, 0, len(h.Payouts))
	total := 0
	for _, p := range h.Payouts {
		total += p.Amount
		w := fmt.Sprintf("%s +%d", p.Player, p.Amount)
		if p.Description != "" {
			w += " (" + p.Description + ")"
		}
		winners = append(winners, w)
	}
	e.logger.Info("Hand complete",
		"hand", h.Number,
		"showdown", h.showdown,
		"board", poker.FormatCards(h.Board),
		"pot", total,
		"winners", strings.Join(winners, ", "))
}
