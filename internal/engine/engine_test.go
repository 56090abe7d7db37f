package engine

import "taskquest-server/internal/model"

// stubRoller replays scripted rolls. Exhausted scripts return 0.5 / 0 so a
// test that under-provisions fails loudly on the assertion, not with a panic.
type stubRoller struct {
	floats []float64
	ints   []int64
}

func (r *stubRoller) Float64() float64 {
	if len(r.floats) == 0 {
		return 0.5
	}
	v := r.floats[0]
	r.floats = r.floats[1:]
	return v
}

func (r *stubRoller) Int63n(n int64) int64 {
	if len(r.ints) == 0 {
		return 0
	}
	v := r.ints[0]
	r.ints = r.ints[1:]
	if v >= n {
		v = n - 1
	}
	return v
}

func newTestUser(class string) *model.User {
	return &model.User{
		PlayerID:     "player-1",
		Username:     "alice",
		Level:        1,
		Class:        class,
		Gamification: true,
	}
}
