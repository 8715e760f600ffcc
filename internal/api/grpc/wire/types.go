// Package wire declares the speech.v1 gRPC services: message types, service
// descriptors, server interfaces and client stubs. Messages travel as JSON
// using the codec registered by package codec.
package wire

import "time"

type Empty struct{}

type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

type Users struct {
	Users []User `json:"users"`
}

type Conversation struct {
	ID           string    `json:"id"`
	Participants []string  `json:"participants"`
	CreatedAt    time.Time `json:"created_at"`
}

type Message struct {
	ID             string    `json:"id"`
	ConversationID string    `json:"conversation_id"`
	SenderID       string    `json:"sender_id"`
	Text           string    `json:"text"`
	CreatedAt      time.Time `json:"created_at"`
}

// Assignment carries the stored VideoURL and EmbedURL, the form of the same
// link that can be played inline.
type Assignment struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"owner_id"`
	CreatedBy   string    `json:"created_by"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	VideoURL    string    `json:"video_url"`
	EmbedURL    string    `json:"embed_url"`
	Feedback    string    `json:"feedback"`
	TargetWords []string  `json:"target_words"`
	CreatedAt   time.Time `json:"created_at"`
}

type ConversationRequest struct {
	CounterpartID string `json:"counterpart_id"`
}

type SendRequest struct {
	ConversationID string `json:"conversation_id"`
	Text           string `json:"text"`
}

type WatchMessagesRequest struct {
	ConversationID string `json:"conversation_id"`
}

// MessagesSnapshot is the full ordered message list of a conversation.
type MessagesSnapshot struct {
	Messages []Message `json:"messages"`
}

type AssignRequest struct {
	UserID      string `json:"user_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	VideoURL    string `json:"video_url"`
}

type AssignmentRef struct {
	UserID       string `json:"user_id"`
	AssignmentID string `json:"assignment_id"`
}

type CheckRequest struct {
	UserID       string `json:"user_id"`
	AssignmentID string `json:"assignment_id"`
	Transcript   string `json:"transcript"`
}

type PracticeResult struct {
	AssignmentID string `json:"assignment_id"`
	Transcript   string `json:"transcript"`
	Matched      bool   `json:"matched"`
	Score        int    `json:"score"`
	Verdict      string `json:"verdict"`
}

type WatchAssignmentsRequest struct {
	UserID string `json:"user_id"`
}

// AssignmentsSnapshot is the full ordered assignment list of one user.
type AssignmentsSnapshot struct {
	Assignments []Assignment `json:"assignments"`
}

// VideoChunk is one piece of an uploaded video. Filename is read from the
// first chunk only.
type VideoChunk struct {
	Filename string `json:"filename,omitempty"`
	Data     []byte `json:"data"`
}

type MediaObject struct {
	Key         string `json:"key"`
	URL         string `json:"url"`
	ContentType string `json:"content_type"`
}
