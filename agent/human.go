package agent

import "connectfour/game"

// Human moves come from the engine's input channel, so it never decides
// anything by itself.
type Human struct{}

func NewHuman() *Human {
	return &Human{}
}

func (h *Human) StartProcess(game.State) {}

func (h *Human) Intent() Intent {
	return NoIntent()
}

func (h *Human) AwaitsInput() bool {
	return true
}
