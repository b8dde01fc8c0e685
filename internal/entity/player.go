package entity

// Player - identity of one connected participant. A player belongs to the
// matchmaking registry until paired, then to exactly one session.
type Player struct {
	ID   string
	Name string
	Mark byte
}
