package dto

import (
	"coursegate/internal/domain/catalog"
	"coursegate/internal/domain/entitlement"
)

// NodeDTO is a course, module or lesson as returned to a viewer.
// Content and Video carry marketing material when HasAccess is false.
type NodeDTO struct {
	Kind             string             `json:"kind"`
	ID               uint               `json:"id"`
	Slug             string             `json:"slug"`
	CourseSlug       string             `json:"course_slug"`
	ModuleSlug       string             `json:"module_slug,omitempty"`
	Name             string             `json:"name"`
	Description      string             `json:"description"`
	Thumbnail        string             `json:"thumbnail"`
	MarketingContent string             `json:"marketing_content"`
	MarketingVideo   string             `json:"marketing_video"`
	Content          string             `json:"content"`
	Video            string             `json:"video"`
	HasAccess        bool               `json:"has_access"`
	Children         []ChildDTO         `json:"children"`
	Comments         []*catalog.Comment `json:"comments,omitempty"`
}

type ChildDTO struct {
	Slug  string `json:"slug"`
	Name  string `json:"name"`
	Order int    `json:"order"`
}

func ToNodeDTO(n *entitlement.RedactedNode) *NodeDTO {
	if n == nil {
		return nil
	}
	children := make([]ChildDTO, 0, len(n.Children))
	for _, c := range n.Children {
		children = append(children, ChildDTO{Slug: c.Slug, Name: c.Name, Order: c.Order})
	}
	return &NodeDTO{
		Kind:             string(n.Kind),
		ID:               n.ID,
		Slug:             n.Slug,
		CourseSlug:       n.CourseSlug,
		ModuleSlug:       n.ModuleSlug,
		Name:             n.Content.Name,
		Description:      n.Content.Description,
		Thumbnail:        n.Content.Thumbnail,
		MarketingContent: n.Content.MarketingContent,
		MarketingVideo:   n.Content.MarketingVideo,
		Content:          n.Content.Content,
		Video:            n.Content.Video,
		HasAccess:        n.HasAccess,
		Children:         children,
		Comments:         n.Comments,
	}
}
