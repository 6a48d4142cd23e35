package models

import "time"

// NotificationRequest asks the notification sink to remind a recipient about a
// schedule that is due soon. Delivery and read state are the sink's problem.
type NotificationRequest struct {
	RecipientID  string    `json:"recipient_id" bson:"recipient_id"`
	ScheduleID   string    `json:"schedule_id" bson:"schedule_id"`
	EquipmentID  string    `json:"equipment_id" bson:"equipment_id"`
	DueDate      time.Time `json:"due_date" bson:"due_date"`
	DaysUntilDue int       `json:"days_until_due" bson:"days_until_due"`
}
