package engine

import (
	"errors"
	"fmt"

	"taskquest-server/internal/model"
)

// Game families. Settlement rules differ per family, not per game.
const (
	FamilyFree     = "free"     // score-based arcade, no wager
	FamilyRiskFree = "riskfree" // win credits the stake, loss never debits
	FamilyEntryFee = "entryfee" // win credits payout-bet, loss debits the fee
	FamilyWagered  = "wagered"  // full push/win/bust semantics
)

// GameFamily maps a game type to its settlement family. Unknown game types
// settle with full wagered semantics.
func GameFamily(gameType string) string {
	switch gameType {
	case "snake", "dino", "invaders":
		return FamilyFree
	case "rps":
		return FamilyRiskFree
	case "hangman":
		return FamilyEntryFee
	default:
		return FamilyWagered
	}
}

// Settlement errors.
var (
	ErrUnknownResult  = errors.New("unknown game result")
	ErrNegativeBet    = errors.New("bet amount cannot be negative")
	ErrNegativePayout = errors.New("payout cannot be negative")
)

// Settlement is the rules outcome for one reported game. The caller
// appends a ledger entry iff LedgerWrite, persists the patch, and records a
// session with DisplayPayout (which layers class/skill bonuses on top of
// the client-reported payout).
type Settlement struct {
	GameType      string
	Family        string
	State         string
	Bet           int64
	XPChange      int64 // signed; negative only on losing debits
	DisplayPayout int64
	LedgerWrite   bool
	Detail        string
	Parts         []BreakdownPart
	Patch         model.CounterPatch
}

var validStates = map[string]bool{
	model.StateWon:       true,
	model.StateLost:      true,
	model.StatePush:      true,
	model.StateBlackjack: true,
	model.StateExpired:   true,
	model.StateBust:      true,
}

// Settle converts a client-reported game outcome into an XP change.
// The result/payout triple is trusted as reported; only its shape is
// checked. Losses are never amplified: debits bypass the bonus pipeline.
func (e *Engine) Settle(u *model.User, skills []model.SkillUnlock, gameType, result string, bet, payout int64) (*Settlement, error) {
	if !validStates[result] {
		return nil, fmt.Errorf("%w: %q", ErrUnknownResult, result)
	}
	if bet < 0 {
		return nil, ErrNegativeBet
	}
	if payout < 0 {
		return nil, ErrNegativePayout
	}

	s := &Settlement{
		GameType: gameType,
		Family:   GameFamily(gameType),
		State:    result,
		Bet:      bet,
	}

	switch s.Family {
	case FamilyFree:
		e.settleFree(u, skills, s, result, payout)
	case FamilyRiskFree:
		e.settleRiskFree(u, skills, s, result, bet)
	case FamilyEntryFee:
		e.settleEntryFee(u, skills, s, result, bet, payout)
	default:
		e.settleWagered(u, skills, s, result, bet, payout)
	}

	return s, nil
}

// settleFree handles no-wager arcade games: the reported payout is the
// earned base XP, routed through the bonus pipeline when gamification is
// on. Sessions record bet 0 and the final credited amount.
func (e *Engine) settleFree(u *model.User, skills []model.SkillUnlock, s *Settlement, result string, payout int64) {
	s.Bet = 0
	if result == model.StateWon && payout >= 0 {
		if u.Gamification && payout > 0 {
			composed := e.ComposeFinalXP(u, skills, payout)
			s.XPChange = composed.FinalXP
			s.Detail = composed.Detail
			s.Parts = composed.Parts
			s.Patch = composed.Patch
			s.LedgerWrite = true
		} else {
			s.XPChange = payout
			s.LedgerWrite = payout > 0
		}
	}
	s.DisplayPayout = s.XPChange
}

// settleRiskFree handles games where a loss or tie never debits. A win
// credits the stake through the pipeline.
func (e *Engine) settleRiskFree(u *model.User, skills []model.SkillUnlock, s *Settlement, result string, bet int64) {
	if result == model.StateWon {
		if u.Gamification {
			composed := e.ComposeFinalXP(u, skills, bet)
			s.XPChange = composed.FinalXP
			s.Detail = composed.Detail
			s.Parts = composed.Parts
			s.Patch = composed.Patch
		} else {
			s.XPChange = bet
		}
		s.LedgerWrite = true
	}

	switch result {
	case model.StateWon:
		s.DisplayPayout = bet + s.XPChange
	case model.StatePush:
		s.DisplayPayout = bet
	}
}

// settleEntryFee handles games with an entry fee: a win credits the net
// winnings with bonuses, a loss debits exactly the fee with no bonus
// amplification.
func (e *Engine) settleEntryFee(u *model.User, skills []model.SkillUnlock, s *Settlement, result string, bet, payout int64) {
	switch result {
	case model.StateWon:
		base := payout - bet
		if u.Gamification && base > 0 {
			composed := e.ComposeFinalXP(u, skills, base)
			s.XPChange = composed.FinalXP
			s.Detail = composed.Detail
			s.Parts = composed.Parts
			s.Patch = composed.Patch
			s.LedgerWrite = true
		} else {
			s.XPChange = base
			s.LedgerWrite = base != 0
		}
		s.DisplayPayout = bet + s.XPChange
	case model.StateLost:
		s.XPChange = -bet
		s.LedgerWrite = true
	}
}

// settleWagered handles full-stake games (blackjack and any unrecognized
// type): win or blackjack credits net winnings with bonuses, loss debits
// the stake, push moves nothing.
func (e *Engine) settleWagered(u *model.User, skills []model.SkillUnlock, s *Settlement, result string, bet, payout int64) {
	switch result {
	case model.StateWon, model.StateBlackjack:
		base := payout - bet
		if u.Gamification && base > 0 {
			composed := e.ComposeFinalXP(u, skills, base)
			s.XPChange = composed.FinalXP
			s.Detail = composed.Detail
			s.Parts = composed.Parts
			s.Patch = composed.Patch
			s.LedgerWrite = true
		} else {
			s.XPChange = base
			s.LedgerWrite = base != 0
		}
	case model.StateLost, model.StateBust, model.StateExpired:
		s.XPChange = -bet
		s.LedgerWrite = true
	}

	switch {
	case result == model.StatePush:
		s.DisplayPayout = bet
	case s.XPChange >= 0:
		s.DisplayPayout = bet + s.XPChange
	default:
		s.DisplayPayout = 0
	}
}
