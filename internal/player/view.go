package player

type Phase int

const (
	PhaseIdle Phase = iota
	PhaseLoading
	PhaseReady
	PhaseError
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseLoading:
		return "loading"
	case PhaseReady:
		return "ready"
	case PhaseError:
		return "error"
	default:
		return "unknown"
	}
}

// View is what a container shows for the player's current state.
type View struct {
	Phase   Phase
	Element *Element
	// Loading is the CSS-only marker between a native loadstart and canplay.
	Loading  bool
	Message  string
	CanRetry bool
}

// Container displays a player. Render is called with the player's lock held
// and must not call back into the player.
type Container interface {
	Render(v View)
}

type ContainerFunc func(v View)

func (f ContainerFunc) Render(v View) {
	f(v)
}
