package neynar

type castEmbed struct {
	URL string `json:"url"`
}

type publishCastRequest struct {
	SignerUUID string      `json:"signer_uuid"`
	Text       string      `json:"text"`
	Embeds     []castEmbed `json:"embeds,omitempty"`
}

type publishCastResponse struct {
	Success bool `json:"success"`
	Cast    struct {
		Hash string `json:"hash"`
	} `json:"cast"`
}

type notificationBody struct {
	Title     string `json:"title"`
	Body      string `json:"body"`
	TargetURL string `json:"target_url,omitempty"`
	UUID      string `json:"uuid,omitempty"`
}

type sendNotificationRequest struct {
	TargetFIDs   []int64          `json:"target_fids"`
	Notification notificationBody `json:"notification"`
}

type sendNotificationResponse struct {
	Deliveries []struct {
		FID    int64  `json:"fid"`
		Status string `json:"status"`
	} `json:"notification_deliveries"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
