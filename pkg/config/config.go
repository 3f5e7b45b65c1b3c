// pkg/config/config.go
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

// GameConfig contains every tunable of a game session
type GameConfig struct {
	Ship       ShipConfig       `json:"ship"`
	Asteroids  AsteroidConfig   `json:"asteroids"`
	Waves      WaveConfig       `json:"waves"`
	Projectile ProjectileConfig `json:"projectile"`
	Boss       BossConfig       `json:"boss"`
	Scoring    ScoringConfig    `json:"scoring"`
	Network    NetworkConfig    `json:"network"`
}

// ShipConfig contains the player ship tunables. Speeds are in grid units per second.
type ShipConfig struct {
	BaseSpeed          float64 `json:"baseSpeed"`
	Bound              float64 `json:"bound"`
	Height             float64 `json:"height"`
	Radius             float64 `json:"radius"`
	ShootCooldown      float64 `json:"shootCooldown"`
	LevelSpeedStep     float64 `json:"levelSpeedStep"`
	LevelsPerSpeedStep int     `json:"levelsPerSpeedStep"`
	AccelUnlockLevel   int     `json:"accelUnlockLevel"`
	AccelRate          float64 `json:"accelRate"`
	AccelDecayRate     float64 `json:"accelDecayRate"`
	MaxAccel           float64 `json:"maxAccel"`
}

// AsteroidConfig contains spawning and difficulty tunables
type AsteroidConfig struct {
	BaseSpawnInterval  float64 `json:"baseSpawnInterval"`
	SpawnIntervalStep  float64 `json:"spawnIntervalStep"`
	MinSpawnInterval   float64 `json:"minSpawnInterval"`
	BaseMinSpeed       float64 `json:"baseMinSpeed"`
	BaseMaxSpeed       float64 `json:"baseMaxSpeed"`
	MinSpeedStep       float64 `json:"minSpeedStep"`
	MaxSpeedStep       float64 `json:"maxSpeedStep"`
	SpeedCap           float64 `json:"speedCap"`
	BaseSpawnRangeX    float64 `json:"baseSpawnRangeX"`
	SpawnRangeStep     float64 `json:"spawnRangeStep"`
	MaxSpawnRangeX     float64 `json:"maxSpawnRangeX"`
	BaseSpawnDistance  float64 `json:"baseSpawnDistance"`
	SpawnDistanceStep  float64 `json:"spawnDistanceStep"`
	MaxSpawnDistance   float64 `json:"maxSpawnDistance"`
	DifficultyInterval float64 `json:"difficultyInterval"`
	MaxDifficulty      int     `json:"maxDifficulty"`
	Height             float64 `json:"height"`
	MinScale           float64 `json:"minScale"`
	ScaleRange         float64 `json:"scaleRange"`
	MaxSpin            float64 `json:"maxSpin"`
	DespawnZ           float64 `json:"despawnZ"`
	PassMargin         float64 `json:"passMargin"`
	CorridorChance     float64 `json:"corridorChance"`
	CorridorHalfWidth  float64 `json:"corridorHalfWidth"`
}

// WaveConfig contains the line-formation spawn tunables
type WaveConfig struct {
	Enabled  bool    `json:"enabled"`
	Interval float64 `json:"interval"`
	MinLevel int     `json:"minLevel"`
	MinCount int     `json:"minCount"`
	MaxCount int     `json:"maxCount"`
	Spacing  float64 `json:"spacing"`
	Jitter   float64 `json:"jitter"`
}

// ProjectileConfig contains projectile tunables
type ProjectileConfig struct {
	Speed     float64 `json:"speed"`
	Radius    float64 `json:"radius"`
	MaxTravel float64 `json:"maxTravel"`
}

// BossConfig contains boss fight tunables
type BossConfig struct {
	MaxHealth         int     `json:"maxHealth"`
	FirstLevel        int     `json:"firstLevel"`
	LevelStep         int     `json:"levelStep"`
	ForwardOffset     float64 `json:"forwardOffset"`
	Height            float64 `json:"height"`
	Scale             float64 `json:"scale"`
	RadiusFactor      float64 `json:"radiusFactor"`
	FlashDuration     float64 `json:"flashDuration"`
	OscillationSpeed  float64 `json:"oscillationSpeed"`
	OscillationAmount float64 `json:"oscillationAmount"`
	SpawnThrottle     float64 `json:"spawnThrottle"`
	ProjectileDamage  int     `json:"projectileDamage"`
	ExtraLifeOnDefeat bool    `json:"extraLifeOnDefeat"`
}

// ScoringConfig contains score rewards and lives
type ScoringConfig struct {
	AsteroidDodged int `json:"asteroidDodged"`
	AsteroidShot   int `json:"asteroidShot"`
	BossHit        int `json:"bossHit"`
	BossDefeated   int `json:"bossDefeated"`
	InitialLives   int `json:"initialLives"`
}

// NetworkConfig contains remote session configuration
type NetworkConfig struct {
	TickRate      int    `json:"tickRate"`
	FrameBuffer   int    `json:"frameBuffer"`
	ServerAddress string `json:"serverAddress"`
	ServerPort    int    `json:"serverPort"`
	Path          string `json:"path"`
	MaxSessions   int    `json:"maxSessions"`
	InputRate     int    `json:"inputRate"`
}

// LoadConfig loads a configuration from a file. Fields missing from the
// file keep their default values.
func LoadConfig(path string) (*GameConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// SaveConfig saves a configuration to a file
func SaveConfig(config *GameConfig, path string) error {
	if config == nil {
		return fmt.Errorf("%w: nil config", ErrInvalidConfig)
	}

	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// DefaultConfig returns the tuned game configuration
func DefaultConfig() *GameConfig {
	return &GameConfig{
		Ship: ShipConfig{
			BaseSpeed:          6.0,
			Bound:              10,
			Height:             0.3,
			Radius:             0.5,
			ShootCooldown:      0.25,
			LevelSpeedStep:     0.025,
			LevelsPerSpeedStep: 5,
			AccelUnlockLevel:   7,
			AccelRate:          0.2,
			AccelDecayRate:     0.8,
			MaxAccel:           1.40,
		},
		Asteroids: AsteroidConfig{
			BaseSpawnInterval:  1.5,
			SpawnIntervalStep:  0.15,
			MinSpawnInterval:   0.3,
			BaseMinSpeed:       3,
			BaseMaxSpeed:       6,
			MinSpeedStep:       0.3,
			MaxSpeedStep:       0.5,
			SpeedCap:           20,
			BaseSpawnRangeX:    8,
			SpawnRangeStep:     0.5,
			MaxSpawnRangeX:     18,
			BaseSpawnDistance:  15,
			SpawnDistanceStep:  1,
			MaxSpawnDistance:   30,
			DifficultyInterval: 15,
			MaxDifficulty:      99,
			Height:             0.5,
			MinScale:           0.3,
			ScaleRange:         0.4,
			MaxSpin:            1,
			DespawnZ:           -15,
			PassMargin:         2,
			CorridorChance:     0.7,
			CorridorHalfWidth:  1.5,
		},
		Waves: WaveConfig{
			Enabled:  true,
			Interval: 10,
			MinLevel: 2,
			MinCount: 2,
			MaxCount: 4,
			Spacing:  1.5,
			Jitter:   0.3,
		},
		Projectile: ProjectileConfig{
			Speed:     20,
			Radius:    0.15,
			MaxTravel: 50,
		},
		Boss: BossConfig{
			MaxHealth:         10,
			FirstLevel:        10,
			LevelStep:         10,
			ForwardOffset:     25,
			Height:            1.5,
			Scale:             2.5,
			RadiusFactor:      1.5,
			FlashDuration:     0.3,
			OscillationSpeed:  1.5,
			OscillationAmount: 0.3,
			SpawnThrottle:     1.5,
			ProjectileDamage:  1,
			ExtraLifeOnDefeat: true,
		},
		Scoring: ScoringConfig{
			AsteroidDodged: 10,
			AsteroidShot:   20,
			BossHit:        25,
			BossDefeated:   500,
			InitialLives:   3,
		},
		Network: NetworkConfig{
			TickRate:      60,
			FrameBuffer:   4,
			ServerAddress: "localhost:4566",
			ServerPort:    4566,
			Path:          "/ws",
			MaxSessions:   16,
			InputRate:     120,
		},
	}
}

// Validate reports the first tunable that would break a clamp or timer.
func (c *GameConfig) Validate() error {
	checks := []struct {
		field string
		ok    bool
	}{
		{"ship.baseSpeed", c.Ship.BaseSpeed > 0},
		{"ship.bound", c.Ship.Bound > 0},
		{"ship.radius", c.Ship.Radius > 0},
		{"ship.shootCooldown", c.Ship.ShootCooldown >= 0},
		{"ship.levelsPerSpeedStep", c.Ship.LevelsPerSpeedStep > 0},
		{"ship.maxAccel", c.Ship.MaxAccel >= 1},
		{"ship.accelRate", c.Ship.AccelRate >= 0 && c.Ship.AccelDecayRate >= 0},
		{"asteroids.minSpawnInterval", c.Asteroids.MinSpawnInterval > 0},
		{"asteroids.baseSpawnInterval", c.Asteroids.BaseSpawnInterval >= c.Asteroids.MinSpawnInterval},
		{"asteroids.baseMaxSpeed", c.Asteroids.BaseMaxSpeed >= c.Asteroids.BaseMinSpeed && c.Asteroids.BaseMinSpeed > 0},
		{"asteroids.speedCap", c.Asteroids.SpeedCap >= c.Asteroids.BaseMaxSpeed},
		{"asteroids.maxSpawnRangeX", c.Asteroids.MaxSpawnRangeX >= c.Asteroids.BaseSpawnRangeX},
		{"asteroids.maxSpawnDistance", c.Asteroids.MaxSpawnDistance >= c.Asteroids.BaseSpawnDistance},
		{"asteroids.difficultyInterval", c.Asteroids.DifficultyInterval > 0},
		{"asteroids.minScale", c.Asteroids.MinScale > 0 && c.Asteroids.ScaleRange >= 0},
		{"asteroids.corridorChance", c.Asteroids.CorridorChance >= 0 && c.Asteroids.CorridorChance <= 1},
		{"waves.count", !c.Waves.Enabled || (c.Waves.MinCount > 0 && c.Waves.MaxCount >= c.Waves.MinCount)},
		{"waves.interval", !c.Waves.Enabled || c.Waves.Interval > 0},
		{"projectile.speed", c.Projectile.Speed > 0},
		{"projectile.maxTravel", c.Projectile.MaxTravel > 0},
		{"boss.maxHealth", c.Boss.MaxHealth > 0},
		{"boss.levelStep", c.Boss.LevelStep > 0 && c.Boss.FirstLevel > 0},
		{"boss.spawnThrottle", c.Boss.SpawnThrottle >= 1},
		{"boss.projectileDamage", c.Boss.ProjectileDamage > 0},
		{"scoring.initialLives", c.Scoring.InitialLives > 0},
		{"network.tickRate", c.Network.TickRate > 0},
	}

	for _, check := range checks {
		if !check.ok {
			return fmt.Errorf("%w: %s out of range", ErrInvalidConfig, check.field)
		}
	}
	return nil
}
