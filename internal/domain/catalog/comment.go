package catalog

import "time"

// Comment is a user-generated lesson comment. Responses nest arbitrarily deep.
type Comment struct {
	ID        uint       `json:"id"`
	Author    string     `json:"author"`
	Body      string     `json:"body"`
	Published bool       `json:"published"`
	CreatedAt time.Time  `json:"created_at"`
	Responses []*Comment `json:"responses,omitempty"`
}

// PublishedOnly returns a copy of comments keeping published ones, applied recursively to responses.
func PublishedOnly(comments []*Comment) []*Comment {
	out := make([]*Comment, 0, len(comments))
	for _, c := range comments {
		if !c.Published {
			continue
		}
		cp := *c
		cp.Responses = PublishedOnly(c.Responses)
		out = append(out, &cp)
	}
	return out
}

// BuildCommentTree links flat comments into trees by parent ID, keeping input order.
// Comments whose parent is unknown are dropped.
func BuildCommentTree(comments []*Comment, parentOf func(*Comment) uint) []*Comment {
	byID := make(map[uint]*Comment, len(comments))
	for _, c := range comments {
		byID[c.ID] = c
	}

	roots := make([]*Comment, 0)
	for _, c := range comments {
		parentID := parentOf(c)
		if parentID == 0 {
			roots = append(roots, c)
			continue
		}
		if parent, ok := byID[parentID]; ok {
			parent.Responses = append(parent.Responses, c)
		}
	}
	return roots
}
