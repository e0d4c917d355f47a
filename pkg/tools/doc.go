// Package tools exposes EnreachVoice contact-center operations as MCP
// tools.
//
// The tool surface:
//
//   - get_queues: all queues with realtime status and directory descriptions
//   - find_contact: directory lookup by phone number
//   - get_user_calls: user call events for a time window or call ID
//   - get_queue_calls: inbound queue (service) calls for a time window
//   - get_transcript: call transcript, optionally waiting while pending
//   - save_recording: downloads call recording audio to disk
//
// The queue listing is additionally published as the data://queues
// resource. Remote API failures are returned as error tool results; the
// server keeps running.
package tools
