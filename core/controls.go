package coordination

// AudioControls is the audio-control action sink, implemented by the
// transport adapter. Every action applies to the current session.
type AudioControls interface {
	MuteMicrophone() error
	UnmuteMicrophone() error
	MuteAssistantAudio() error
	UnmuteAssistantAudio() error
	// PauseResponses suspends the assistant's in-flight response generation,
	// discarding whatever it was about to say.
	PauseResponses() error
	ResumeResponses() error
	// SetResponseInstruction replaces the free-text steering instruction in
	// the assistant's response-generation context.
	SetResponseInstruction(instruction string) error
}

// MicrophoneStateReporter is optionally implemented by sinks that can report
// whether the microphone is actually open, as opposed to user-muted for a
// reason unrelated to the coordinator's own actions.
type MicrophoneStateReporter interface {
	MicrophoneOpen() bool
}

// audioControls is the sink facade used to normalize optional wiring. Every
// method is nil-safe; action failures are logged and never propagated, since
// no control action in this core is retried.
type audioControls struct {
	sink AudioControls
}

func newAudioControls(sink AudioControls) *audioControls {
	return &audioControls{sink: sink}
}

func (c *audioControls) set(sink AudioControls) {
	if c != nil {
		c.sink = sink
	}
}

func (c *audioControls) isConfigured() bool {
	return c != nil && c.sink != nil
}

func (c *audioControls) muteMicrophone() {
	if !c.isConfigured() {
		return
	}
	if err := c.sink.MuteMicrophone(); err != nil {
		logger.Warn("failed to mute microphone", "error", err)
	}
}

func (c *audioControls) unmuteMicrophone() {
	if !c.isConfigured() {
		return
	}
	if err := c.sink.UnmuteMicrophone(); err != nil {
		logger.Warn("failed to unmute microphone", "error", err)
	}
}

func (c *audioControls) muteAssistantAudio() {
	if !c.isConfigured() {
		return
	}
	if err := c.sink.MuteAssistantAudio(); err != nil {
		logger.Warn("failed to mute assistant audio", "error", err)
	}
}

func (c *audioControls) unmuteAssistantAudio() {
	if !c.isConfigured() {
		return
	}
	if err := c.sink.UnmuteAssistantAudio(); err != nil {
		logger.Warn("failed to unmute assistant audio", "error", err)
	}
}

func (c *audioControls) pauseResponses() {
	if !c.isConfigured() {
		return
	}
	if err := c.sink.PauseResponses(); err != nil {
		logger.Warn("failed to pause response generation", "error", err)
	}
}

func (c *audioControls) resumeResponses() {
	if !c.isConfigured() {
		return
	}
	if err := c.sink.ResumeResponses(); err != nil {
		logger.Warn("failed to resume response generation", "error", err)
	}
}

func (c *audioControls) setResponseInstruction(instruction string) {
	if !c.isConfigured() {
		return
	}
	if err := c.sink.SetResponseInstruction(instruction); err != nil {
		logger.Warn("failed to set response instruction", "error", err)
	}
}

// microphoneOpen reports the sink's microphone state, defaulting to open for
// sinks that cannot report it.
func (c *audioControls) microphoneOpen() bool {
	if !c.isConfigured() {
		return true
	}
	if reporter, ok := c.sink.(MicrophoneStateReporter); ok {
		return reporter.MicrophoneOpen()
	}
	return true
}
