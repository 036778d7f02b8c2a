package models

// RecentGame is a game together with one user's outcome in it
type RecentGame struct {
	Game    Game
	Outcome GameOutcome
}

// GameTypeCount is how many times a user played one type of game
type GameTypeCount struct {
	GameType string `db:"game_type"`
	Count    int64  `db:"play_count"`
}

// PlayedWithCount is how many games a user shared with another user
type PlayedWithCount struct {
	UserID int64 `db:"user_id"`
	Count  int64 `db:"play_count"`
}

// GameRecord is a user's win/tie/loss totals
type GameRecord struct {
	UserID int64 `db:"user_id"`
	Wins   int64 `db:"wins"`
	Ties   int64 `db:"ties"`
	Losses int64 `db:"losses"`
}

// Total returns the number of games played
func (r GameRecord) Total() int64 {
	return r.Wins + r.Ties + r.Losses
}

// WinRate returns the win percentage, or 0 with no games
func (r GameRecord) WinRate() float64 {
	total := r.Total()
	if total == 0 {
		return 0
	}
	return float64(r.Wins) / float64(total) * 100
}
