package service

import (
	"reportam/internal/microservices/http-api/dto"
	"reportam/internal/microservices/http-api/models"
)

// ThreadReply is a reply attached to a top-level comment. It has no reply list:
// a thread is at most two levels deep.
type ThreadReply struct {
	models.Comment
}

// ThreadComment is a top-level comment with its direct replies in creation order
type ThreadComment struct {
	models.Comment
	Replies []ThreadReply
}

// Thread is the two-level comment tree of one report
type Thread struct {
	ReportID string
	Comments []ThreadComment
}

// Len returns the number of comments in the thread, replies included
func (t Thread) Len() int {
	n := len(t.Comments)
	for _, c := range t.Comments {
		n += len(c.Replies)
	}
	return n
}

// AssembleThread builds the thread of a report from its comments, which must be
// ordered by creation time ascending. Replies whose parent is not a top-level
// comment of the input are promoted to the top level, so every input comment
// appears exactly once in the result.
func AssembleThread(reportID string, comments []models.Comment) Thread {
	topLevel := make(map[string]struct{}, len(comments))
	for i := range comments {
		if !comments[i].IsReply() {
			topLevel[comments[i].ID] = struct{}{}
		}
	}

	thread := Thread{ReportID: reportID, Comments: make([]ThreadComment, 0, len(topLevel))}
	position := make(map[string]int, len(topLevel))
	replies := make(map[string][]ThreadReply)

	for i := range comments {
		c := comments[i]
		if c.IsReply() {
			if _, ok := topLevel[*c.ParentID]; ok {
				replies[*c.ParentID] = append(replies[*c.ParentID], ThreadReply{Comment: c})
				continue
			}
		}
		position[c.ID] = len(thread.Comments)
		thread.Comments = append(thread.Comments, ThreadComment{Comment: c})
	}

	for parentID, rs := range replies {
		idx := position[parentID]
		thread.Comments[idx].Replies = rs
	}

	for i := range thread.Comments {
		if thread.Comments[i].Replies == nil {
			thread.Comments[i].Replies = []ThreadReply{}
		}
	}

	return thread
}

func newThreadResponse(thread Thread) *dto.ThreadResponse {
	out := &dto.ThreadResponse{
		ReportID: thread.ReportID,
		Comments: make([]dto.ThreadCommentResponse, 0, len(thread.Comments)),
		Total:    thread.Len(),
	}
	for i := range thread.Comments {
		tc := &thread.Comments[i]
		item := dto.ThreadCommentResponse{
			CommentResponse: *dto.FromModelToCommentResponse(&tc.Comment),
			Replies:         make([]dto.ThreadReplyResponse, 0, len(tc.Replies)),
		}
		for j := range tc.Replies {
			item.Replies = append(item.Replies, dto.ThreadReplyResponse{
				CommentResponse: *dto.FromModelToCommentResponse(&tc.Replies[j].Comment),
			})
		}
		out.Comments = append(out.Comments, item)
	}
	return out
}
