// Package queue defines the outbound mail payloads exchanged over the
// message broker and the background consumer that delivers them.
package queue

// EmailQueueName is the durable queue carrying outbound mail events.
const EmailQueueName = "email.send"

// EmailEvent asks the mail worker to deliver one message.  Requests only
// enqueue these; delivery happens on the consumer side so no request ever
// waits on an SMTP round trip.
type EmailEvent struct {
	To       string `json:"to"`
	Subject  string `json:"subject"`
	Body     string `json:"body"`
	QueuedAt string `json:"queued_at"`
}
