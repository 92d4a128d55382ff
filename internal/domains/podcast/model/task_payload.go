package model

// DeleteTempObjectPayload is the body of storage:delete_temp_object.
type DeleteTempObjectPayload struct {
	Key       string `json:"key"`
	PodcastID string `json:"podcastId"`
}
