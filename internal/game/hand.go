package game

import (
	"fmt"
	"math/rand/v2"
	"slices"

	"github.com/lox/holdem/poker"
)

// MaxSeats is the largest table a hand can be dealt to
const MaxSeats = 10

// HandState represents the state of a single hand. It is mutated only through Apply.
type HandState struct {
	ID          string
	Number      int
	Players     []*Player
	Button      int
	SmallBlind  int
	BigBlind    int
	Street      Street
	Board       []poker.Card
	Burned      []poker.Card
	CurrentBet  int
	MinRaise    int
	ActionOn    int // Seat to act, -1 when nobody is to act
	History     []ActionRecord
	Payouts     []Payout
	Refunds     []Refund
	Aborted     bool
	AbortReason string
	Rules       Rules

	deck        *poker.Deck
	pots        []Pot
	awarded     []Pot
	acted       []bool
	raiseClosed []bool
	showdown    bool
}

// NewHand posts blinds, deals hole cards and positions the action on the first player.
// The RNG shuffles the deck unless WithDeck supplies one.
//
// If the deck runs out while dealing (only possible with a short stacked deck) the
// hand is returned complete and aborted together with an error wrapping
// poker.ErrDeckExhausted.
//
// Example usage:
//
//	h, err := NewHand(randutil.New(42), seats, 0, 5, 10)
//
//	// Stacked deck for a scripted scenario
//	h, err := NewHand(nil, seats, 0, 5, 10, WithDeck(deck), WithRules(rules))
func NewHand(rng *rand.Rand, seats []Seat, button, smallBlind, bigBlind int, opts ...HandOption) (*HandState, error) {
	if err := validateTable(seats, button, smallBlind, bigBlind); err != nil {
		return nil, err
	}

	cfg := &handConfig{rules: DefaultRules(), number: 1}
	for _, opt := range opts {
		opt(cfg)
	}

	deck := cfg.deck
	if deck == nil {
		if rng == nil {
			return nil, fmt.Errorf("%w: an rng or a deck is required", ErrInvalidConfig)
		}
		deck = poker.NewShuffledDeck(rng)
	}

	players := make([]*Player, len(seats))
	for i, s := range seats {
		players[i] = &Player{
			Seat:  i,
			ID:    s.ID,
			Name:  s.Name,
			Stack: s.Stack,
		}
	}

	h := &HandState{
		ID:          cfg.id,
		Number:      cfg.number,
		Players:     players,
		Button:      button,
		SmallBlind:  smallBlind,
		BigBlind:    bigBlind,
		Street:      Preflop,
		ActionOn:    -1,
		Rules:       cfg.rules,
		deck:        deck,
		acted:       make([]bool, len(players)),
		raiseClosed: make([]bool, len(players)),
	}

	h.postBlinds()
	if err := h.dealHoleCards(); err != nil {
		return h, h.abort(fmt.Errorf("deal hole cards: %w", err))
	}
	h.refreshPots()

	// Heads-up the button is the small blind and acts first preflop
	first := h.bigBlindSeat() + 1
	if len(players) == 2 {
		first = button
	}
	if err := h.resolve(first); err != nil {
		return h, err
	}
	return h, nil
}

func validateTable(seats []Seat, button, smallBlind, bigBlind int) error {
	if len(seats) < 2 || len(seats) > MaxSeats {
		return fmt.Errorf("%w: need 2 to %d seats, got %d", ErrInvalidConfig, MaxSeats, len(seats))
	}
	if button < 0 || button >= len(seats) {
		return fmt.Errorf("%w: button %d out of range", ErrInvalidConfig, button)
	}
	if bigBlind <= 0 || smallBlind < 0 || smallBlind > bigBlind {
		return fmt.Errorf("%w: blinds %d/%d", ErrInvalidConfig, smallBlind, bigBlind)
	}
	ids := make(map[string]bool, len(seats))
	for i, s := range seats {
		if s.Stack <= 0 {
			return fmt.Errorf("%w: seat %d (%s) has no chips", ErrInvalidConfig, i, s.Name)
		}
		if s.ID == "" {
			return fmt.Errorf("%w: seat %d has no id", ErrInvalidConfig, i)
		}
		if ids[s.ID] {
			return fmt.Errorf("%w: duplicate player id %q", ErrInvalidConfig, s.ID)
		}
		ids[s.ID] = true
	}
	return nil
}

func (h *HandState) smallBlindSeat() int {
	if len(h.Players) == 2 {
		return h.Button
	}
	return (h.Button + 1) % len(h.Players)
}

func (h *HandState) bigBlindSeat() int {
	return (h.smallBlindSeat() + 1) % len(h.Players)
}

// postBlinds posts forced bets. Blinds are not actions, so the big blind keeps its option.
// A short stack posts all-in; the amount to call stays the full big blind.
func (h *HandState) postBlinds() {
	h.post(h.smallBlindSeat(), h.SmallBlind, RecordSmallBlind)
	h.post(h.bigBlindSeat(), h.BigBlind, RecordBigBlind)
	h.CurrentBet = h.BigBlind
	h.MinRaise = h.BigBlind
}

func (h *HandState) post(seat, amount int, kind RecordKind) {
	p := h.Players[seat]
	paid := p.put(amount)
	h.History = append(h.History, ActionRecord{
		Street: Preflop,
		Seat:   seat,
		Player: p.Name,
		Kind:   kind,
		Action: Action{Type: Bet, Amount: p.Bet},
		Paid:   paid,
		Stack:  p.Stack,
	})
}

// dealHoleCards deals one card at a time starting left of the button
func (h *HandState) dealHoleCards() error {
	n := len(h.Players)
	for round := 0; round < 2; round++ {
		for i := 1; i <= n; i++ {
			c, err := h.deck.DrawOne()
			if err != nil {
				return err
			}
			p := h.Players[(h.Button+i)%n]
			p.HoleCards = append(p.HoleCards, c)
		}
	}
	return nil
}

// LegalActions returns the actions available to the player whose turn it is.
// It is empty when nobody is to act.
func (h *HandState) LegalActions() LegalActions {
	if h.Street >= Showdown || h.ActionOn < 0 {
		return LegalActions{Seat: -1}
	}
	p := h.Players[h.ActionOn]
	la := ComputeLegalActions(LegalInput{
		Stack:        p.Stack,
		Contribution: p.Bet,
		CurrentBet:   h.CurrentBet,
		BetOpened:    h.betOpened(),
		MinRaise:     h.MinRaise,
		RaiseAllowed: !h.raiseClosed[h.ActionOn],
	})
	la.Seat = h.ActionOn
	return la
}

func (h *HandState) betOpened() bool {
	return h.Street == Preflop || h.CurrentBet > 0
}

// IsComplete returns true once the pots have been awarded or the hand aborted
func (h *HandState) IsComplete() bool {
	return h.Street == HandComplete
}

// Apply validates and applies an action for a seat. On error the state is unchanged,
// except for poker.ErrDeckExhausted which aborts the hand.
func (h *HandState) Apply(seat int, a Action) error {
	if err := h.validate(seat, a); err != nil {
		return err
	}

	p := h.Players[seat]
	paid := 0
	switch a.Type {
	case Fold:
		p.Status = StatusFolded
	case Check:
	case Call:
		paid = p.put(h.CurrentBet - p.Bet)
	case Bet, Raise:
		paid = p.put(a.Amount - p.Bet)
		h.raiseTo(seat, p.Bet)
	case AllIn:
		paid = p.put(p.Stack)
		if p.Bet > h.CurrentBet {
			h.raiseTo(seat, p.Bet)
		}
	}
	h.acted[seat] = true

	h.History = append(h.History, ActionRecord{
		Street: h.Street,
		Seat:   seat,
		Player: p.Name,
		Kind:   RecordAction,
		Action: a,
		Paid:   paid,
		Stack:  p.Stack,
	})
	h.refreshPots()

	return h.resolve(seat + 1)
}

func (h *HandState) validate(seat int, a Action) error {
	if h.Street >= Showdown {
		return &IllegalActionError{Seat: seat, Action: a, Constraint: ConstraintHandComplete}
	}
	if seat < 0 || seat >= len(h.Players) {
		return &IllegalActionError{Seat: seat, Action: a, Constraint: ConstraintUnknownSeat}
	}
	if p := h.Players[seat]; !p.CanAct() {
		return &IllegalActionError{Seat: seat, Action: a, Constraint: ConstraintSeatInactive, Detail: p.Status.String()}
	}
	if seat != h.ActionOn {
		return &IllegalActionError{
			Seat:       seat,
			Action:     a,
			Constraint: ConstraintNotYourTurn,
			Detail:     fmt.Sprintf("seat %d is to act", h.ActionOn),
		}
	}
	return h.LegalActions().Validate(a)
}

// raiseTo records a new highest contribution. A full raise re-opens the betting for
// everyone; a short all-in raise leaves players who already acted able only to call or fold.
func (h *HandState) raiseTo(seat, to int) {
	increment := to - h.CurrentBet
	if increment >= h.MinRaise {
		if h.Rules.MinRaise == MinRaiseLastIncrement {
			h.MinRaise = increment
		}
		for i := range h.acted {
			if i != seat {
				h.acted[i] = false
			}
			h.raiseClosed[i] = false
		}
	} else {
		for i := range h.acted {
			if i != seat && h.acted[i] {
				h.raiseClosed[i] = true
			}
		}
	}
	h.CurrentBet = to
}

// resolve moves the hand forward until someone must act or the hand is over
func (h *HandState) resolve(start int) error {
	h.ActionOn = -1
	for {
		if h.inHandCount() == 1 {
			h.awardUncontested()
			return nil
		}

		if h.canFastForward() {
			for h.Street < River {
				if err := h.nextStreet(); err != nil {
					return h.abort(err)
				}
			}
			return h.finishShowdown()
		}

		if seat := h.nextPending(start); seat >= 0 {
			h.ActionOn = seat
			return nil
		}

		if h.Street == River {
			return h.finishShowdown()
		}
		if err := h.nextStreet(); err != nil {
			return h.abort(err)
		}
		start = h.Button + 1
	}
}

// nextPending returns the first seat from start that still has to act this round,
// or -1 when the round is complete
func (h *HandState) nextPending(start int) int {
	n := len(h.Players)
	for i := 0; i < n; i++ {
		seat := (start + i) % n
		p := h.Players[seat]
		if p.CanAct() && (!h.acted[seat] || p.Bet < h.CurrentBet) {
			return seat
		}
	}
	return -1
}

// canFastForward reports whether at most one player can act and nobody owes chips
func (h *HandState) canFastForward() bool {
	actors := 0
	for _, p := range h.Players {
		if !p.CanAct() {
			continue
		}
		if p.Bet < h.CurrentBet {
			return false
		}
		actors++
	}
	return actors <= 1
}

func (h *HandState) inHandCount() int {
	count := 0
	for _, p := range h.Players {
		if p.InHand() {
			count++
		}
	}
	return count
}

// nextStreet resets the round, burns a card and deals the next street
func (h *HandState) nextStreet() error {
	next := h.Street + 1
	for _, p := range h.Players {
		p.Bet = 0
	}
	h.CurrentBet = 0
	h.MinRaise = h.BigBlind
	clear(h.acted)
	clear(h.raiseClosed)

	if h.Rules.BurnCards {
		c, err := h.deck.Burn()
		if err != nil {
			return fmt.Errorf("deal %s: %w", next, err)
		}
		h.Burned = append(h.Burned, c)
	}

	n := 1
	if next == Flop {
		n = 3
	}
	cards, err := h.deck.Draw(n)
	if err != nil {
		return fmt.Errorf("deal %s: %w", next, err)
	}
	h.Board = append(h.Board, cards...)
	h.Street = next
	return nil
}

// returnUncalled gives back the part of the top contribution nobody matched
func (h *HandState) returnUncalled() {
	r := uncalledRefund(h.Players)
	if r.Amount == 0 {
		return
	}
	p := h.Players[r.Seat]
	p.TotalBet -= r.Amount
	p.Bet = max(0, p.Bet-r.Amount)
	p.Stack += r.Amount
	h.Refunds = append(h.Refunds, r)
}

// awardUncontested gives every pot to the last player standing without a showdown
func (h *HandState) awardUncontested() {
	h.returnUncalled()
	pots := buildPots(h.Players)
	for i, pot := range pots {
		h.award(i, pot, pot.Eligible, nil, nil)
	}
	h.complete(pots)
}

// finishShowdown ranks every remaining hand and awards each pot to its best eligible hands
func (h *HandState) finishShowdown() error {
	h.Street = Showdown
	h.showdown = true

	ranks := make(map[int]poker.HandRank)
	fives := make(map[int][]poker.Card)
	for _, p := range h.Players {
		if !p.InHand() {
			continue
		}
		five, rank, err := poker.BestFive(append(slices.Clone(p.HoleCards), h.Board...))
		if err != nil {
			return h.abort(fmt.Errorf("evaluate seat %d: %w", p.Seat, err))
		}
		ranks[p.Seat] = rank
		fives[p.Seat] = five
	}

	h.returnUncalled()
	pots := buildPots(h.Players)
	for i, pot := range pots {
		var best poker.HandRank
		var winners []int
		for _, seat := range pot.Eligible {
			switch r := ranks[seat]; {
			case r > best:
				best = r
				winners = []int{seat}
			case r == best:
				winners = append(winners, seat)
			}
		}
		h.award(i, pot, winners, ranks, fives)
	}
	h.complete(pots)
	return nil
}

// award splits a pot evenly; remainder chips go one at a time in odd-chip order
func (h *HandState) award(index int, pot Pot, winners []int, ranks map[int]poker.HandRank, fives map[int][]poker.Card) {
	if len(winners) == 0 {
		return
	}
	winners = h.oddChipOrder(winners)
	share := pot.Amount / len(winners)
	remainder := pot.Amount % len(winners)

	for i, seat := range winners {
		amount := share
		if i < remainder {
			amount++
		}
		p := h.Players[seat]
		p.Stack += amount

		payout := Payout{
			Seat:     seat,
			Player:   p.Name,
			PotIndex: index,
			Amount:   amount,
		}
		if rank, ok := ranks[seat]; ok {
			payout.Rank = rank
			payout.BestFive = fives[seat]
			payout.Description = rank.String()
		}
		h.Payouts = append(h.Payouts, payout)
	}
}

// oddChipOrder orders tied winners by the configured odd-chip rule
func (h *HandState) oddChipOrder(seats []int) []int {
	ordered := slices.Clone(seats)
	n := len(h.Players)
	distance := func(seat int) int {
		if h.Rules.OddChip == OddChipLowestSeat {
			return seat
		}
		return (seat - h.Button - 1 + n) % n
	}
	slices.SortFunc(ordered, func(a, b int) int {
		return distance(a) - distance(b)
	})
	return ordered
}

func (h *HandState) complete(pots []Pot) {
	h.awarded = pots
	h.pots = nil
	h.Street = HandComplete
	h.ActionOn = -1
}

// abort refunds every contribution and ends the hand
func (h *HandState) abort(cause error) error {
	for _, p := range h.Players {
		p.Stack += p.TotalBet
		p.TotalBet = 0
		p.Bet = 0
	}
	h.Aborted = true
	h.AbortReason = cause.Error()
	h.pots = nil
	h.awarded = nil
	h.Street = HandComplete
	h.ActionOn = -1
	return fmt.Errorf("hand aborted: %w", cause)
}

func (h *HandState) refreshPots() {
	h.pots = buildPots(h.Players)
}

// Pots returns the live pots; empty once the hand is complete
func (h *HandState) Pots() []Pot {
	return clonePots(h.pots)
}

// TotalPot returns the chips currently in the middle
func (h *HandState) TotalPot() int {
	return potTotal(h.pots)
}

// SeatOf returns the seat of a player ID, or -1
func (h *HandState) SeatOf(id string) int {
	for _, p := range h.Players {
		if p.ID == id {
			return p.Seat
		}
	}
	return -1
}
