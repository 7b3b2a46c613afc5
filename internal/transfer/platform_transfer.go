package transfer

// TikTok direct-post API payloads.

type TiktokVideoPostInfo struct {
	Title                 string `json:"title"`
	PrivacyLevel          string `json:"privacy_level"`
	DisableDuet           bool   `json:"disable_duet"`
	DisableComment        bool   `json:"disable_comment"`
	DisableStitch         bool   `json:"disable_stitch"`
	VideoCoverTimestampMs int    `json:"video_cover_timestamp_ms"`
}

type TiktokPhotoPostInfo struct {
	Title          string `json:"title"`
	Description    string `json:"description"`
	PrivacyLevel   string `json:"privacy_level"`
	DisableComment bool   `json:"disable_comment"`
	AutoAddMusic   bool   `json:"auto_add_music"`
}

type TiktokVideoSourceInfo struct {
	Source   string `json:"source"`
	VideoURL string `json:"video_url"`
}

type TiktokPhotoSourceInfo struct {
	Source          string   `json:"source"`
	PhotoCoverIndex int      `json:"photo_cover_index"`
	PhotoImages     []string `json:"photo_images"`
}

type TiktokVideoUploadRequest struct {
	PostInfo   TiktokVideoPostInfo   `json:"post_info"`
	SourceInfo TiktokVideoSourceInfo `json:"source_info"`
}

type TiktokPhotoUploadRequest struct {
	PostInfo   TiktokPhotoPostInfo   `json:"post_info"`
	SourceInfo TiktokPhotoSourceInfo `json:"source_info"`
	PostMode   string                `json:"post_mode"`
	MediaType  string                `json:"media_type"`
}

type TiktokError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	LogID   string `json:"log_id"`
}

type TiktokUploadResponse struct {
	Data struct {
		PublishID string `json:"publish_id"`
	} `json:"data"`
	Error TiktokError `json:"error"`
}

// Meta Graph API payloads (Instagram, Threads, Facebook).

type GraphContainerResponse struct {
	ID string `json:"id"`
}

type GraphPostResponse struct {
	ID        string `json:"id"`
	PostID    string `json:"post_id"`
	Permalink string `json:"permalink"`
}

type GraphErrorResponse struct {
	Error struct {
		Message      string `json:"message"`
		Type         string `json:"type"`
		Code         int    `json:"code"`
		ErrorSubcode int    `json:"error_subcode"`
		IsTransient  bool   `json:"is_transient"`
	} `json:"error"`
}

// LinkedIn UGC post payloads.

type LinkedInShareContent struct {
	ShareCommentary struct {
		Text string `json:"text"`
	} `json:"shareCommentary"`
	ShareMediaCategory string              `json:"shareMediaCategory"`
	Media              []LinkedInShareItem `json:"media,omitempty"`
}

type LinkedInShareItem struct {
	Status      string `json:"status"`
	OriginalURL string `json:"originalUrl"`
}

type LinkedInUGCPost struct {
	Author          string `json:"author"`
	LifecycleState  string `json:"lifecycleState"`
	SpecificContent struct {
		ShareContent LinkedInShareContent `json:"com.linkedin.ugc.ShareContent"`
	} `json:"specificContent"`
	Visibility struct {
		MemberNetworkVisibility string `json:"com.linkedin.ugc.MemberNetworkVisibility"`
	} `json:"visibility"`
}

// Telegram Bot API payloads.

type TelegramSendResponse struct {
	OK     bool `json:"ok"`
	Result struct {
		MessageID int64 `json:"message_id"`
		Chat      struct {
			ID       int64  `json:"id"`
			Username string `json:"username"`
		} `json:"chat"`
	} `json:"result"`
	ErrorCode   int    `json:"error_code"`
	Description string `json:"description"`
}
