// Package tasks runs caption post-processing out of band on asynq.
package tasks

import (
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
)

const (
	TypeProcessPost = "contents:process_post"
	DefaultQueue    = "default"
)

// ProcessPostPayload identifies the post whose caption is scanned.
type ProcessPostPayload struct {
	PostID uint `json:"post_id"`
}

// NewProcessPostTask builds the task submitted after a post is written.
func NewProcessPostTask(postID uint) (*asynq.Task, error) {
	b, err := json.Marshal(ProcessPostPayload{PostID: postID})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeProcessPost, b), nil
}

func parseProcessPostPayload(b []byte) (ProcessPostPayload, error) {
	var p ProcessPostPayload
	if err := json.Unmarshal(b, &p); err != nil {
		return p, fmt.Errorf("decode %s payload: %w", TypeProcessPost, err)
	}
	if p.PostID == 0 {
		return p, fmt.Errorf("decode %s payload: missing post_id", TypeProcessPost)
	}
	return p, nil
}
