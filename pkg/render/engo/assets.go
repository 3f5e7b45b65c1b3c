// pkg/render/engo/assets.go
package engo

import (
	"image"
	"image/color"
	"math"

	"github.com/EngoEngine/engo/common"
)

// SpriteKind names one of the generated sprites
type SpriteKind int

const (
	SpriteShip SpriteKind = iota
	SpriteAsteroid
	SpriteProjectile
	SpriteBoss
)

var spriteKinds = []SpriteKind{SpriteShip, SpriteAsteroid, SpriteProjectile, SpriteBoss}

func (k SpriteKind) String() string {
	switch k {
	case SpriteShip:
		return "ship"
	case SpriteAsteroid:
		return "asteroid"
	case SpriteProjectile:
		return "projectile"
	case SpriteBoss:
		return "boss"
	default:
		return "unknown"
	}
}

// Sprites are white on transparent so the render component color tints them
var spriteInk = color.NRGBA{255, 255, 255, 255}

// SpriteImage draws the sprite for kind into a size by size image
func SpriteImage(kind SpriteKind, size int) *image.NRGBA {
	switch kind {
	case SpriteShip:
		return maskImage(size, shipMask)
	case SpriteAsteroid:
		return maskImage(size, asteroidMask)
	case SpriteProjectile:
		return maskImage(size, projectileMask)
	case SpriteBoss:
		return maskImage(size, bossMask)
	default:
		return image.NewNRGBA(image.Rect(0, 0, size, size))
	}
}

// maskImage fills the pixels for which mask reports true. Coordinates
// passed to mask are pixel centers normalized to [-1, 1], y pointing down.
func maskImage(size int, mask func(x, y float64) bool) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	for py := 0; py < size; py++ {
		for px := 0; px < size; px++ {
			x := (float64(px)+0.5)/float64(size)*2 - 1
			y := (float64(py)+0.5)/float64(size)*2 - 1
			if mask(x, y) {
				img.SetNRGBA(px, py, spriteInk)
			}
		}
	}
	return img
}

// shipMask is a triangle pointing up with a notch cut from the tail
func shipMask(x, y float64) bool {
	if y < -0.9 || y > 0.9 {
		return false
	}
	halfWidth := (y + 0.9) / 1.8 * 0.9
	if math.Abs(x) > halfWidth {
		return false
	}
	return !(y > 0.5 && math.Abs(x) < 0.2)
}

// asteroidMask is a disk with a lumpy edge
func asteroidMask(x, y float64) bool {
	angle := math.Atan2(y, x)
	radius := 0.85 + 0.1*math.Sin(5*angle) + 0.05*math.Cos(3*angle)
	return math.Hypot(x, y) <= radius
}

func projectileMask(x, y float64) bool {
	return math.Hypot(x, y*0.5) <= 0.5
}

// bossMask is a wide hull with two wings and a cockpit hole
func bossMask(x, y float64) bool {
	hull := math.Abs(x) <= 0.45 && math.Abs(y) <= 0.6
	wings := math.Abs(y) <= 0.25 && math.Abs(x) <= 0.95
	cockpit := math.Hypot(x, y+0.2) < 0.15
	return (hull || wings) && !cockpit
}

// AssetManager turns the generated images into textures
type AssetManager struct {
	size    int
	sprites map[SpriteKind]common.Drawable
}

// NewAssetManager creates an asset manager for sprites of size pixels
func NewAssetManager(size int) *AssetManager {
	if size <= 0 {
		size = 64
	}
	return &AssetManager{
		size:    size,
		sprites: make(map[SpriteKind]common.Drawable),
	}
}

// Load uploads every sprite as a texture. It needs an OpenGL context, so it
// may only be called from a scene's Setup.
func (am *AssetManager) Load() {
	for _, kind := range spriteKinds {
		obj := common.NewImageObject(SpriteImage(kind, am.size))
		texture := common.NewTextureSingle(obj)
		am.sprites[kind] = texture
	}
}

// Sprite returns the texture for kind, or nil before Load
func (am *AssetManager) Sprite(kind SpriteKind) common.Drawable {
	return am.sprites[kind]
}
