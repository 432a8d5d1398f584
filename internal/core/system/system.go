package system

import "time"

// Phase defines execution ordering within a single tick.
type Phase int

const (
	PhaseInput     Phase = iota // 0: external requests (collision reports, destroy requests)
	PhasePreUpdate              // 1: dispatch last tick's events
	PhaseSpawn                  // 2: spell cards compose and spawn bullets
	PhaseUpdate                 // 3: advance every live bullet
	PhasePublish                // 4: observers read position/velocity
	PhaseCleanup                // 5: destroy queued entities
)

var phaseNames = [...]string{"input", "pre_update", "spawn", "update", "publish", "cleanup"}

func (p Phase) String() string {
	if p < 0 || int(p) >= len(phaseNames) {
		return "unknown"
	}
	return phaseNames[p]
}

// System is the interface every ECS system implements.
type System interface {
	Phase() Phase
	Update(dt time.Duration)
}
