package shared

import "github.com/google/uuid"

// Roles supplied by the identity provider
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Asynq task types
const (
	TypeDeleteTempObject = "storage:delete_temp_object"
	TypeSweepTempObjects = "storage:sweep_temp_objects"
	TypeSendContactEmail = "email:send_contact"
)

// Asynq queues (priority weights are set in cmd/worker)
const (
	QueueCritical = "critical"
	QueueDefault  = "default"
	QueueLow      = "low"
)

// Identity is the authenticated caller as supplied by the auth middleware.
// A nil *Identity means an anonymous request.
type Identity struct {
	ID   uuid.UUID
	Role string
}

func (i *Identity) IsAdmin() bool {
	return i != nil && i.Role == RoleAdmin
}
