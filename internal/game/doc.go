// Package game implements the Texas Hold'em rules engine and the step-wise
// orchestrator built on it.
//
// HandState manages a single hand: blinds, betting rounds, legal actions, side pots,
// showdown and payout. Engine owns a HandState, asks seat policies for decisions and
// carries stacks between hands.
//
// # Basic Usage
//
// Start a hand and let the policies play it out:
//
//	e := game.NewEngine(logger)
//	err := e.StartHand([]game.Seat{
//	    {ID: "alice", Name: "Alice", Stack: 1000, Policy: alicePolicy},
//	    {ID: "bob", Name: "Bob", Stack: 1000}, // driven through ApplyAction
//	}, game.HandConfig{SmallBlind: 5, BigBlind: 10, Seed: 42})
//	// Run policies until Bob must act
//	err = e.Advance()
//	err = e.ApplyAction("bob", game.Action{Type: game.Raise, Amount: 40})
//
// # Deterministic Testing
//
// Every hand of a session is shuffled from randutil.NewStream(seed, handNumber), so
// identical seeds and actions produce identical snapshots. A stacked deck gives complete
// control over the cards:
//
//	deck, _ := poker.NewStackedDeck(cards)
//	h, err := game.NewHand(nil, seats, 0, 5, 10, game.WithDeck(deck))
//
// # Architecture
//
//   - ComputeLegalActions: pure legal-action computation
//   - buildPots: main and side pots layered from total contributions
//   - poker.BestFive: ranks hands at showdown
//   - Snapshot: deep-copied views handed to policies and the presentation layer
package game
