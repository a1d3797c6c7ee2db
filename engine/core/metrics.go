package core

const frameAverageCount = 30

// Metrics keeps a rolling average of frame times and a once-per-second
// frames-per-second figure for the main loop.
type Metrics struct {
	frameAVGCounter    uint8
	msTimes            [frameAverageCount]float64
	msAVG              float64
	frames             int32
	accumulatedFrameMS float64
	fps                float64
}

func NewMetrics() *Metrics {
	return &Metrics{}
}

// Update folds one frame's elapsed time (seconds) into the rolling stats.
func (m *Metrics) Update(frameElapsedTime float64) {
	// Calculate frame ms average
	frameMS := frameElapsedTime * 1000.0
	m.msTimes[m.frameAVGCounter] = frameMS
	if m.frameAVGCounter == frameAverageCount-1 {
		sum := 0.0
		for i := 0; i < frameAverageCount; i++ {
			sum += m.msTimes[i]
		}
		m.msAVG = sum / float64(frameAverageCount)
	}
	m.frameAVGCounter++
	m.frameAVGCounter %= frameAverageCount

	// Calculate frames per second.
	m.accumulatedFrameMS += frameMS
	if m.accumulatedFrameMS > 1000 {
		m.fps = float64(m.frames)
		m.accumulatedFrameMS -= 1000
		m.frames = 0
	}

	// Count all frames.
	m.frames++
}

func (m *Metrics) FPS() float64 {
	return m.fps
}

func (m *Metrics) FrameTime() float64 {
	return m.msAVG
}

func (m *Metrics) Frame() (float64, float64) {
	return m.fps, m.msAVG
}
