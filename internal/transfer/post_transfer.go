package transfer

type PostCreation struct {
	Content       string   `json:"content" validate:"required"`
	Platforms     []string `json:"platforms" validate:"required,min=1,dive,required"`
	ScheduledTime string   `json:"scheduledTime"`
}

type PostCreationResponse struct {
	Success     bool   `json:"success"`
	PostGroupID string `json:"postGroupId"`
}

type PostUpdate struct {
	ScheduledTime *string `json:"scheduledTime"`
	Status        *string `json:"status"`
}
