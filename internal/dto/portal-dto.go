package dto

type CreateUploadRequest struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
	Subject     string `json:"subject"`
}

type CreateDiscussionRequest struct {
	Title string `json:"title" validate:"required"`
	Body  string `json:"body" validate:"required"`
}

type CreateCommentRequest struct {
	Body string `json:"body" validate:"required"`
}

type CreateSolutionRequest struct {
	CourseCode string `json:"courseCode" validate:"required"`
	Term       string `json:"term"`
	Title      string `json:"title" validate:"required"`
}

type AnnouncementRequest struct {
	Title  string `json:"title" validate:"required"`
	Body   string `json:"body" validate:"required"`
	Pinned bool   `json:"pinned"`
}

type CreateBadgeRequest struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
	IconURL     string `json:"iconUrl"`
}

type AwardBadgeRequest struct {
	UserID uint `json:"userId" validate:"required"`
}
