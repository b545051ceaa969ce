package models

import "time"

// Message is one logged chat line. Messages are append-only: they are the
// ground truth for seen statistics and for gibber sampling.
type Message struct {
	ID      string    `json:"id"`
	User    string    `json:"user"`
	Channel string    `json:"channel"`
	Time    time.Time `json:"time"`
	Text    string    `json:"text"`
}

// Tell is a message awaiting delivery to its recipient the next time they
// are observed speaking. Topic is reserved for addressed delivery; ordinary
// tells carry an empty topic and are the only ones outbound queries see.
type Tell struct {
	ID        int64     `json:"id"`
	Recipient string    `json:"recipient"`
	Sender    string    `json:"sender"`
	Text      string    `json:"text"`
	Time      time.Time `json:"time"`
	Topic     string    `json:"topic,omitempty"`
}

// Quote is a stored utterance attributed to a user in a channel. Time is
// kept at day granularity (YYYY-MM-DD).
type Quote struct {
	ID      int64  `json:"id"`
	User    string `json:"user"`
	Channel string `json:"channel"`
	Time    string `json:"time"`
	Text    string `json:"text"`
}

// Memo is a short persistent note about a user. At most one memo exists
// per (user, channel).
type Memo struct {
	ID      int64  `json:"id"`
	User    string `json:"user"`
	Channel string `json:"channel"`
	Text    string `json:"text"`
}

// Alert is a self-reminder delivered once its time has passed and its owner
// speaks again in a private context.
type Alert struct {
	ID   int64     `json:"id"`
	User string    `json:"user"`
	Time time.Time `json:"time"`
	Text string    `json:"text"`
}
