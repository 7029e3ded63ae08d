package hume

// Audio-control surface for the coordination core.
//
// The microphone and playback mutes are local gates on the audio streams;
// pause, resume and instruction changes go to the session as control
// messages.

func (c *Client) MuteMicrophone() error {
	c.stateMu.Lock()
	c.micMuted = true
	c.stateMu.Unlock()

	logger.Debug("microphone muted")
	return nil
}

func (c *Client) UnmuteMicrophone() error {
	c.stateMu.Lock()
	c.micMuted = false
	c.stateMu.Unlock()

	logger.Debug("microphone unmuted")
	return nil
}

// MicrophoneOpen reports whether microphone chunks currently pass through.
func (c *Client) MicrophoneOpen() bool {
	c.stateMu.Lock()
	defer c.stateMu.Unlock()
	return !c.micMuted
}

func (c *Client) MuteAssistantAudio() error {
	c.stateMu.Lock()
	c.playbackMuted = true
	c.stateMu.Unlock()

	logger.Debug("assistant playback muted")
	return nil
}

func (c *Client) UnmuteAssistantAudio() error {
	c.stateMu.Lock()
	c.playbackMuted = false
	c.stateMu.Unlock()

	logger.Debug("assistant playback unmuted")
	return nil
}

// PauseResponses asks the session to stop generating and speaking responses.
// Audio already buffered client-side is not affected; pair with
// MuteAssistantAudio to silence it.
func (c *Client) PauseResponses() error {
	return c.send(controlMessage{Type: outgoingPauseAssistant})
}

func (c *Client) ResumeResponses() error {
	return c.send(controlMessage{Type: outgoingResumeAssistant})
}

// SetResponseInstruction replaces the session's editable context text with
// instruction.
func (c *Client) SetResponseInstruction(instruction string) error {
	return c.send(sessionSettingsMessage{
		Type:    outgoingSessionSettings,
		Context: &sessionContext{Text: instruction, Type: "editable"},
	})
}
