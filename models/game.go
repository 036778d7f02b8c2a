package models

import (
	"fmt"
	"time"
)

// GameResult is a player's result in a single game
type GameResult string

const (
	GameResultWon  GameResult = "won"
	GameResultTied GameResult = "tied"
	GameResultLost GameResult = "lost"
)

// Flags returns the won and tied columns for the result
func (r GameResult) Flags() (won bool, tied bool) {
	switch r {
	case GameResultWon:
		return true, false
	case GameResultTied:
		return false, true
	default:
		return false, false
	}
}

// Valid reports whether r is one of the known results
func (r GameResult) Valid() bool {
	switch r {
	case GameResultWon, GameResultTied, GameResultLost:
		return true
	}
	return false
}

// GameResultFromFlags is the inverse of Flags. won and tied together is rejected,
// matching the game_outcome CHECK constraint.
func GameResultFromFlags(won, tied bool) (GameResult, error) {
	switch {
	case won && tied:
		return "", fmt.Errorf("outcome cannot be both won and tied")
	case won:
		return GameResultWon, nil
	case tied:
		return GameResultTied, nil
	default:
		return GameResultLost, nil
	}
}

// Game is a finished game kept for long-term stats
type Game struct {
	ID       int64     `db:"id"`
	GameType string    `db:"game_type"`
	EndDate  time.Time `db:"end_date"`
}

// GameOutcome is one user's result in one game
type GameOutcome struct {
	UserID int64 `db:"user_id"`
	GameID int64 `db:"game_id"`
	Won    bool  `db:"won"`
	Tied   bool  `db:"tied"`
}

// NewGameOutcome builds the outcome row for a result
func NewGameOutcome(userID, gameID int64, result GameResult) *GameOutcome {
	won, tied := result.Flags()
	return &GameOutcome{
		UserID: userID,
		GameID: gameID,
		Won:    won,
		Tied:   tied,
	}
}

// Result converts the flags back to a GameResult
func (o *GameOutcome) Result() (GameResult, error) {
	return GameResultFromFlags(o.Won, o.Tied)
}

// PlayerResult pairs a user with their result when recording a game
type PlayerResult struct {
	UserID int64
	Result GameResult
}
