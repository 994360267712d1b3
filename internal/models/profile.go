package models

// Profile is the signed-in user shown in the nav bar.
type Profile struct {
	ID          string `json:"id" yaml:"id"`
	DisplayName string `json:"display_name" yaml:"display_name"`
	Email       string `json:"email,omitempty" yaml:"email,omitempty"`
	Country     string `json:"country,omitempty" yaml:"country,omitempty"`
	Product     string `json:"product,omitempty" yaml:"product,omitempty"`
	Followers   int    `json:"followers" yaml:"followers"`
	AvatarURL   string `json:"avatar_url,omitempty" yaml:"avatar_url,omitempty"`
}

// Name prefers the display name and falls back to the id.
func (p Profile) Name() string {
	if p.DisplayName != "" {
		return p.DisplayName
	}
	return p.ID
}
