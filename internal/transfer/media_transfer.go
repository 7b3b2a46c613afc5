package transfer

type UploadURLRequest struct {
	FileName    string `json:"fileName" validate:"required"`
	ContentType string `json:"contentType" validate:"required"`
	PostGroupID string `json:"postGroupId" validate:"required"`
}

type UploadURLResponse struct {
	UploadURL    string `json:"uploadUrl"`
	FileURL      string `json:"fileUrl"`
	MediaID      string `json:"mediaId"`
	ConfirmToken string `json:"confirmToken"`
}

type ConfirmUploadRequest struct {
	MediaID string `json:"mediaId" validate:"required"`
	Token   string `json:"token" validate:"required"`
}
