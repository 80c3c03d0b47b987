package models

type User struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Email      string   `json:"email"`
	Role       string   `json:"role"`
	AvatarURL  string   `json:"avatarUrl,omitempty"`
	University string   `json:"university,omitempty"`
	Country    string   `json:"country,omitempty"`
	Interests  []string `json:"interests,omitempty"`
}

type UserSummary struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Role       string   `json:"role"`
	AvatarURL  string   `json:"avatarUrl,omitempty"`
	University string   `json:"university,omitempty"`
	Country    string   `json:"country,omitempty"`
	Interests  []string `json:"interests,omitempty"`
}
