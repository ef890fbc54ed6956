package dto

type UpdateProfileRequest struct {
	FullName *string   `json:"fullName,omitempty"`
	Degree   *string   `json:"degree,omitempty"`
	Subjects *[]string `json:"subjects,omitempty"`
}

type ProfileResponse struct {
	User   UserResponse    `json:"user"`
	Badges []BadgeResponse `json:"badges"`
}

type BadgeResponse struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	IconURL     string `json:"icon_url,omitempty"`
}
