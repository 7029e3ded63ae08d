// Package events defines the typed speech-event contract between a voice
// transport and the turn-taking coordinator.
//
// Event kinds are grouped by source-facing namespaces:
//
//   - session.*
//   - user_input.*
//   - assistant_response.*
//
// Semantics used across the package:
//
//   - Interim: mutable point-in-time transcript snapshot that the next
//     interim or final event of the same turn supersedes.
//   - Final: terminal immutable transcript for the current turn.
//   - Fragment: append-only assistant text piece emitted in stream order.
//
// session events
//
//   - SessionStarted (session.started): the transport assigned a chat
//     identity to this conversation. Interruptions cannot be issued before
//     this event is observed.
//
// user_input events
//
//   - UserUtterance (user_input.utterance): an interim or final user
//     transcript update, carrying the top emotion scores measured on the
//     utterance audio.
//   - UserInterruption (user_input.interruption): transport-level notice
//     that the user barged in over assistant playback.
//
// assistant_response events
//
//   - AssistantUtterance (assistant_response.fragment): a streamed assistant
//     response text fragment.
//
// Transports are permitted to send frames that map to no event here
// (heartbeats, metadata); normalizers drop those without error.
package events
