package models

// User is the account owner as the presentation layer sees it.
type User struct {
	ID        int64  `json:"id"`
	Email     string `json:"email"`
	FullName  string `json:"fullName"`
	CreatedAt string `json:"createdAt"`
	LastLogin string `json:"lastLogin,omitempty"`
}

// UserSettings holds per-user preferences, one row per user.
type UserSettings struct {
	UserID             int64  `json:"userId"`
	EmailNotifications bool   `json:"emailNotifications"`
	PushNotifications  bool   `json:"pushNotifications"`
	DefaultCurrency    string `json:"defaultCurrency"`
	MeasurementUnit    string `json:"measurementUnit"` // "km" or "mi"
	Theme              string `json:"theme"`
	Language           string `json:"language"`
}
