package storage

// PostRow is the posts table. Column names follow the flat storage shape.
type PostRow struct {
	ID         uint   `gorm:"column:id;primaryKey;autoIncrement"`
	Autor      string `gorm:"column:autor;size:40;index"`
	Date       string `gorm:"column:date;size:19"`
	ShortStory string `gorm:"column:short_story;type:text"`
	FullStory  string `gorm:"column:full_story;type:text"`
	XFields    string `gorm:"column:xfields;type:text"`
	Title      string `gorm:"column:title;not null"`
	MetaTitle  string `gorm:"column:metatitle"`
	Descr      string `gorm:"column:descr"`
	Keywords   string `gorm:"column:keywords;type:text"`
	Category   string `gorm:"column:category;size:190"`
	AltName    string `gorm:"column:alt_name;size:190;index"`
	Tags       string `gorm:"column:tags"`
	AllowComm  int    `gorm:"column:allow_comm;not null"`
	AllowMain  int    `gorm:"column:allow_main;not null"`
	Approve    int    `gorm:"column:approve;not null"`
	Fixed      int    `gorm:"column:fixed;not null"`
}

// TableName specifies the table name for PostRow
func (PostRow) TableName() string {
	return "posts"
}

// CategoryRow is the category table
type CategoryRow struct {
	ID            uint   `gorm:"column:id;primaryKey;autoIncrement"`
	ParentID      uint   `gorm:"column:parentid;not null"`
	Posi          int    `gorm:"column:posi;not null"`
	Name          string `gorm:"column:name;not null"`
	AltName       string `gorm:"column:alt_name;index"`
	AllowRSS      int    `gorm:"column:allow_rss;not null"`
	DisableSearch int    `gorm:"column:disable_search;not null"`
}

// TableName specifies the table name for CategoryRow
func (CategoryRow) TableName() string {
	return "category"
}
