package flappy

import "github.com/vovakirdan/tui-flappy/internal/core"

// Advance integrates one tick of motion under constant gravity:
// the velocity is updated first and the new velocity moves the position.
func Advance(vel, pos, gravity float64) (newVel, newPos float64) {
	newVel = vel + gravity
	newPos = pos + newVel
	return newVel, newPos
}

// Impulse returns the velocity a flap sets. It replaces whatever velocity
// had accumulated and leaves the position alone, so applying it twice in a
// tick is the same as applying it once.
func Impulse(strength float64) float64 {
	return strength
}

// Project returns the position after t ticks of free flight using the
// closed-form displacement pos + vel*t + g*t²/2.
func Project(pos, vel, gravity, t float64) float64 {
	return pos + vel*t + 0.5*gravity*t*t
}

// Apex returns the highest position reached after setting velocity vel,
// pos - vel²/(2g) in closed form. Velocities that are not upward peak at pos.
func Apex(pos, vel, gravity float64) float64 {
	if vel >= 0 {
		return pos
	}
	return pos - vel*vel/(2*gravity)
}

// Avatar is the player-controlled bird. X and Y are the center of its
// hitbox; X never changes during an episode.
type Avatar struct {
	X, Y float64
	Vel  float64
	W, H int
}

// Rect returns the avatar's collision rectangle.
func (a Avatar) Rect() core.Rect {
	return core.RectAround(a.X, a.Y, a.W, a.H)
}

// Clamp keeps Y inside [top, bottom]. When the clamp engages the velocity is
// zeroed and true is returned.
func (a *Avatar) Clamp(top, bottom float64) bool {
	switch {
	case a.Y < top:
		a.Y = top
	case a.Y > bottom:
		a.Y = bottom
	default:
		return false
	}
	a.Vel = 0
	return true
}
