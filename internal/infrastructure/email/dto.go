package email

// ContactMessage là nội dung form liên hệ gửi tới hộp thư của team
type ContactMessage struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}
