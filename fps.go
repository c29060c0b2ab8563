package arbor

import (
	"time"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"
)

// frameStatsInterval is how often frame statistics are reported in debug
// mode, in seconds of simulated time.
const frameStatsInterval = 1.0

// frameStats accumulates per-tick update costs and periodically logs them
// together with ebiten's measured FPS and TPS.
type frameStats struct {
	elapsed float64
	ticks   int
	busy    time.Duration
	worst   time.Duration
}

// record adds one tick that took d to run and advanced time by dt. It
// returns true when a report was logged.
func (s *frameStats) record(l *log.Logger, dt float64, d time.Duration, nodes int) bool {
	s.elapsed += dt
	s.ticks++
	s.busy += d
	s.worst = max(s.worst, d)
	if s.elapsed < frameStatsInterval {
		return false
	}
	l.Debug("frame stats",
		"fps", ebiten.ActualFPS(),
		"tps", ebiten.ActualTPS(),
		"nodes", nodes,
		"avg_update", s.busy/time.Duration(s.ticks),
		"worst_update", s.worst)
	*s = frameStats{}
	return true
}
