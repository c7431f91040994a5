// Package feedback accepts end-user feedback for deployed use cases.
package feedback

import (
	"fmt"
	"time"
)

// Rating values accepted on a submission
const (
	RatingHelpful    = "helpful"
	RatingNotHelpful = "not-helpful"
)

// maxCommentLength caps the free-text comment size
const maxCommentLength = 500

// Request is the inbound feedback submission body
type Request struct {
	// UseCaseRecordKey identifies the deployment the feedback is about
	UseCaseRecordKey string `json:"useCaseRecordKey"`

	// Rating is either helpful or not-helpful
	Rating string `json:"rating"`

	// Comment is optional free text
	Comment string `json:"comment,omitempty"`

	// RephrasedQuery optionally suggests a better phrasing of the original question
	RephrasedQuery string `json:"rephrasedQuery,omitempty"`

	// SourceMessageID optionally ties the feedback to a chat message
	SourceMessageID string `json:"sourceMessageId,omitempty"`
}

// Validate checks the submission for required fields and limits
func (r *Request) Validate() error {
	if r.UseCaseRecordKey == "" {
		return fmt.Errorf("useCaseRecordKey is required")
	}

	switch r.Rating {
	case RatingHelpful, RatingNotHelpful:
	default:
		return fmt.Errorf("rating must be %q or %q", RatingHelpful, RatingNotHelpful)
	}

	if len(r.Comment) > maxCommentLength {
		return fmt.Errorf("comment exceeds %d characters", maxCommentLength)
	}

	return nil
}

// Record is the stored form of an accepted submission
type Record struct {
	FeedbackID       string    `json:"feedback_id"`
	UseCaseRecordKey string    `json:"use_case_record_key"`
	UserID           string    `json:"user_id"`
	Rating           string    `json:"rating"`
	Comment          string    `json:"comment,omitempty"`
	RephrasedQuery   string    `json:"rephrased_query,omitempty"`
	SourceMessageID  string    `json:"source_message_id,omitempty"`
	SubmittedAt      time.Time `json:"submitted_at"`
}
