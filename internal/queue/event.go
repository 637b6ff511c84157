// Package queue defines the change events exchanged over the message
// broker and the background consumer that keeps the catalog in sync.
package queue

// Actions carried by ScholarshipChangedEvent.
const (
	ActionCreated          = "created"
	ActionUpdated          = "updated"
	ActionDeleted          = "deleted"
	ActionCommentAdded     = "comment_added"
	ActionCommentModerated = "comment_moderated"
	ActionCommentsLocked   = "comments_locked"
)

// ScholarshipChangedEvent is published after every accepted listing
// mutation.  Consumers use it to refresh cached views; it carries
// identifiers only, not the mutated document, so a late or replayed
// message can never resurrect stale data.
type ScholarshipChangedEvent struct {
	ScholarshipID string `json:"scholarship_id"`
	Action        string `json:"action"`
	ActorID       uint64 `json:"actor_id"`
	OccurredAt    string `json:"occurred_at"`
}
