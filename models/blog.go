package models

// DefaultTitle is stored for records created before their real title is known
const DefaultTitle = "Unknown Title"

// Blog is the counter record for one blog post
// ID is assigned by the content manifest, never generated here
type Blog struct {
	ID    int64  `gorm:"primaryKey;autoIncrement:false" json:"id"`
	Title string `gorm:"type:text;not null;default:'Unknown Title'" json:"title"`
	Likes int64  `gorm:"not null;default:0" json:"likes"`
	Views int64  `gorm:"not null;default:0" json:"views"`
}

// TableName specifies the table name
func (Blog) TableName() string {
	return "blogs"
}

// BlogSeed describes a record that must exist after a backfill
type BlogSeed struct {
	ID    int64
	Title string
}
