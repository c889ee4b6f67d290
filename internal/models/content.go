package models

// BlogPost is an admin-authored article. Content is rich text and is
// served exactly as stored.
type BlogPost struct {
	BaseModel
	Title     string `json:"title"`
	Slug      string `gorm:"uniqueIndex" json:"slug"`
	Excerpt   string `json:"excerpt"`
	Content   string `json:"content"`
	Image     string `json:"image"`
	Published bool   `json:"published"`
}

// ContactLink is a social or messaging link shown in the site footer.
type ContactLink struct {
	BaseModel
	Label        string `json:"label"`
	URL          string `json:"url"`
	Icon         string `json:"icon"`
	DisplayOrder int    `json:"display_order"`
	Active       bool   `json:"active"`
}

// PaymentMethod is a badge advertising an accepted payment option.
// It carries no gateway integration.
type PaymentMethod struct {
	BaseModel
	Name         string `json:"name"`
	Image        string `json:"image"`
	DisplayOrder int    `json:"display_order"`
	Active       bool   `json:"active"`
}

// NotificationBar stores the site-wide announcement strip.
// There should be only one row (singleton pattern).
type NotificationBar struct {
	BaseModel
	Message string `json:"message"`
	Link    string `json:"link"`
	Enabled bool   `json:"enabled"`
}
