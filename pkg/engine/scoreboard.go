// pkg/engine/scoreboard.go
package engine

// HUD tracks score and lives for a run. Scoreboard is the default.
type HUD interface {
	AddScore(points int)
	LoseLife()
	GainLife()
	IsGameOver() bool
	Score() int
	Lives() int
	Reset()
}

// Result is the summary of a finished run
type Result struct {
	Score   int     `json:"score" msgpack:"score"`
	Level   int     `json:"level" msgpack:"level"`
	Elapsed float64 `json:"elapsed" msgpack:"elapsed"`
}

// GameOverReporter receives the result once when a run ends
type GameOverReporter interface {
	ShowGameOver(result Result)
}

// GameOverFunc adapts a function to GameOverReporter
type GameOverFunc func(Result)

// ShowGameOver calls f(result)
func (f GameOverFunc) ShowGameOver(result Result) {
	f(result)
}

// Scoreboard keeps score and lives in memory
type Scoreboard struct {
	initialLives int
	score        int
	lives        int
}

// NewScoreboard creates a scoreboard with the given starting lives
func NewScoreboard(initialLives int) *Scoreboard {
	return &Scoreboard{
		initialLives: initialLives,
		lives:        initialLives,
	}
}

// AddScore adds points; negative values are ignored
func (s *Scoreboard) AddScore(points int) {
	if points > 0 {
		s.score += points
	}
}

// LoseLife removes one life, never going below zero
func (s *Scoreboard) LoseLife() {
	if s.lives > 0 {
		s.lives--
	}
}

// GainLife adds one life
func (s *Scoreboard) GainLife() {
	s.lives++
}

// IsGameOver reports whether no lives are left
func (s *Scoreboard) IsGameOver() bool {
	return s.lives <= 0
}

// Score returns the current score
func (s *Scoreboard) Score() int { return s.score }

// Lives returns the remaining lives
func (s *Scoreboard) Lives() int { return s.lives }

// Reset restores the starting lives and zero score
func (s *Scoreboard) Reset() {
	s.score = 0
	s.lives = s.initialLives
}
